// Copyright 2024 The Archsat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package proof

import "github.com/gburel/archsat/term"

// A Registry holds the process-lifetime, append-only tables the
// engine consults during proof construction: the ordered coercion
// list, the prelude dependency graph, and the lemma solvers. It is
// constructed once at startup and passed by reference to every
// environment and printer; entries are registered before any proof
// that depends on them begins and are never removed.
type Registry struct {
	coercions []Coercion
	prelude   []*Prelude
	solvers   []LemmaSolver
}

// NewRegistry returns a registry with the identity coercion already
// registered, so that exact lookups are tried first.
func NewRegistry() *Registry {
	r := &Registry{}
	r.RegisterCoercion(Coercion{
		Name: "exact",
		Alts: func(t *term.Term) []Alt {
			return []Alt{{Term: t, Wrap: func(v *term.Term) *term.Term { return v }}}
		},
	})
	return r
}

// A Coercion is an alternate way to look up a binding for a term not
// found by exact identity. Alts maps the requested term to candidate
// alternate terms, each with a function adapting the alternate's
// bound value back into a proof of the requested term.
type Coercion struct {
	Name string
	Alts func(t *term.Term) []Alt
}

// An Alt is one candidate produced by a coercion.
type Alt struct {
	Term *term.Term
	Wrap func(v *term.Term) *term.Term
}

// RegisterCoercion appends a coercion to the lookup order.
func (r *Registry) RegisterCoercion(c Coercion) {
	r.coercions = append(r.coercions, c)
}
