// Copyright 2024 The Archsat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package proof

import "github.com/gburel/archsat/term"

// A Prelude is an auxiliary declaration some steps need emitted ahead
// of their own output: an external unit to require, or a named alias
// bound to a term. Preludes are registered at construction time with
// the entries they depend on, so registration order is already a
// topological order of the dependency graph.
type Prelude struct {
	seq  int
	unit string   // nonempty for a required unit
	id   *term.Id // alias name, nil for a required unit
	val  *term.Term
	deps []*Prelude
}

// Unit returns the required unit's name, or "" for an alias.
func (p *Prelude) Unit() string { return p.unit }

// Alias returns the aliased identifier and its definition, or nil for
// a required unit.
func (p *Prelude) Alias() (*term.Id, *term.Term) { return p.id, p.val }

// Require registers a dependency on an external unit.
func (r *Registry) Require(unit string, deps ...*Prelude) *Prelude {
	return r.register(&Prelude{unit: unit, deps: deps})
}

// Alias registers a named alias bound to a term.
func (r *Registry) Alias(id *term.Id, val *term.Term, deps ...*Prelude) *Prelude {
	return r.register(&Prelude{id: id, val: val, deps: deps})
}

func (r *Registry) register(p *Prelude) *Prelude {
	p.seq = len(r.prelude)
	r.prelude = append(r.prelude, p)
	return p
}

// EmitPrelude visits every transitive prerequisite of the used
// entries, each exactly once, in dependency-respecting order.
// Mutually unordered entries are visited in registration order.
func (r *Registry) EmitPrelude(used []*Prelude, visit func(*Prelude)) {
	needed := make([]bool, len(r.prelude))
	stack := append([]*Prelude(nil), used...)
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if needed[p.seq] {
			continue
		}
		needed[p.seq] = true
		stack = append(stack, p.deps...)
	}
	for _, p := range r.prelude {
		if needed[p.seq] {
			visit(p)
		}
	}
}
