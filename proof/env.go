// Copyright 2024 The Archsat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package proof

import (
	"fmt"
	"sort"

	"github.com/gburel/archsat/term"
)

// An Env maps goal-shaped terms to the identifiers that stand for
// them within a sequent. Environments are functional values: every
// extension returns a new environment and leaves the receiver
// untouched, so proof branches may diverge from a shared ancestor.
//
// Within one environment no two bindings share a name; the reverse
// name index enforces this.
type Env struct {
	reg     *Registry
	locals  termMap
	globals termMap
	hidden  termMap
	names   map[string]*term.Id // reverse index over all three tables
	counts  map[string]int      // next suffix to try, per prefix
}

// NewEnv returns an empty environment using the given registry for
// coercion-based lookups.
func NewEnv(reg *Registry) *Env {
	return &Env{
		reg:    reg,
		names:  make(map[string]*term.Id),
		counts: make(map[string]int),
	}
}

func (e *Env) clone() *Env {
	e2 := &Env{
		reg:     e.reg,
		locals:  e.locals.clone(),
		globals: e.globals.clone(),
		hidden:  e.hidden.clone(),
		names:   make(map[string]*term.Id, len(e.names)),
		counts:  make(map[string]int, len(e.counts)),
	}
	for k, v := range e.names {
		e2.names[k] = v
	}
	for k, v := range e.counts {
		e2.counts[k] = v
	}
	return e2
}

// A NameConflict reports an attempt to bind a name that is already
// bound in the environment.
type NameConflict struct {
	New, Existing *term.Id
}

func (e *NameConflict) Error() string {
	return fmt.Sprintf("proof: name %q already bound (to %s : %s)", e.New.Name(), e.Existing, e.Existing.Type())
}

// A NotIntroduced reports a lookup, direct or through coercions, that
// found no bound identifier for the term.
type NotIntroduced struct {
	Term *term.Term
}

func (e *NotIntroduced) Error() string {
	return fmt.Sprintf("proof: no introduced hypothesis for %s", e.Term)
}

// Add binds id locally against its type. It fails with *NameConflict
// if the name is already bound.
func (e *Env) Add(id *term.Id) (*Env, error) {
	return e.bind(id, func(e2 *Env) *termMap { return &e2.locals })
}

// Declare binds id globally against its type. The identifier must be
// a declared constant, not a plain variable. It fails with
// *NameConflict if the name is already bound.
func (e *Env) Declare(id *term.Id) (*Env, error) {
	if !id.Defined() {
		panic(fmt.Sprintf("proof: Declare of plain variable %s", id))
	}
	return e.bind(id, func(e2 *Env) *termMap { return &e2.globals })
}

func (e *Env) bind(id *term.Id, table func(*Env) *termMap) (*Env, error) {
	if prev, ok := e.names[id.Name()]; ok {
		return nil, &NameConflict{New: id, Existing: prev}
	}
	e2 := e.clone()
	table(e2).put(id.Type(), id)
	e2.names[id.Name()] = id
	return e2, nil
}

// Intro mints a fresh identifier named prefix<N>, with N the smallest
// suffix from the prefix's running counter whose name is unused, and
// binds it locally against ty. It cannot fail.
func (e *Env) Intro(prefix string, ty *term.Term) (*term.Id, *Env) {
	return e.intro(prefix, ty, false)
}

// IntroHidden is Intro, except the binding is recorded in the hidden
// table: present for lookups, absent from sequent display.
func (e *Env) IntroHidden(prefix string, ty *term.Term) (*term.Id, *Env) {
	return e.intro(prefix, ty, true)
}

func (e *Env) intro(prefix string, ty *term.Term, hide bool) (*term.Id, *Env) {
	e2 := e.clone()
	var name string
	n := e2.counts[prefix]
	for ; ; n++ {
		name = fmt.Sprintf("%s%d", prefix, n)
		if _, taken := e2.names[name]; !taken {
			break
		}
	}
	e2.counts[prefix] = n + 1
	id := term.NewId(name, ty)
	if hide {
		e2.hidden.put(ty, id)
	} else {
		e2.locals.put(ty, id)
	}
	e2.names[name] = id
	return id, e2
}

// Get returns the identifier bound to the term, checking local
// bindings before global ones (hidden bindings last). It fails with
// *NotIntroduced if no exact binding exists; see Find for
// coercion-based lookup.
func (e *Env) Get(t *term.Term) (*term.Id, error) {
	if id, ok := e.get(t); ok {
		return id, nil
	}
	return nil, &NotIntroduced{Term: t}
}

func (e *Env) get(t *term.Term) (*term.Id, bool) {
	if id, ok := e.locals.get(t); ok {
		return id, true
	}
	if id, ok := e.globals.get(t); ok {
		return id, true
	}
	return e.hidden.get(t)
}

// Mem reports whether the term has an exact binding.
func (e *Env) Mem(t *term.Term) bool {
	_, ok := e.get(t)
	return ok
}

// Exists reports whether the identifier's name is bound anywhere in
// the environment.
func (e *Env) Exists(id *term.Id) bool {
	_, ok := e.names[id.Name()]
	return ok
}

// Lookup returns the identifier bound under the given name, if any.
func (e *Env) Lookup(name string) (*term.Id, bool) {
	id, ok := e.names[name]
	return id, ok
}

// Find looks up a proof of t, trying each registered coercion in
// order (exact lookup first). The first alternate term with a bound
// identifier wins; the coercion's wrap function adapts the bound
// value back to a proof of t. A wrap result of the wrong type means
// the coercion itself is broken and aborts the process.
func (e *Env) Find(t *term.Term) (*term.Term, error) {
	for _, c := range e.reg.coercions {
		for _, alt := range c.Alts(t) {
			id, ok := e.get(alt.Term)
			if !ok {
				continue
			}
			v := alt.Wrap(term.Var(id))
			if !v.Type().Equal(t) {
				panic(fmt.Sprintf("proof: coercion %q produced a term of type %s, want %s", c.Name, v.Type(), t))
			}
			return v, nil
		}
	}
	return nil, &NotIntroduced{Term: t}
}

// visible returns the local and global bindings in creation order,
// for sequent display. Hidden bindings are omitted.
func (e *Env) visible() []*term.Id {
	var ids []*term.Id
	ids = e.locals.appendAll(ids)
	ids = e.globals.appendAll(ids)
	sort.Slice(ids, func(i, j int) bool { return ids[i].Compare(ids[j]) < 0 })
	return ids
}

// A termMap is a small hash table keyed by term, bucketed on the
// alpha-invariant term hash with equality resolving collisions.
type termMap struct {
	buckets map[uint32][]binding
}

type binding struct {
	key *term.Term
	id  *term.Id
}

func (m *termMap) get(t *term.Term) (*term.Id, bool) {
	for _, b := range m.buckets[t.Hash()] {
		if b.key.Equal(t) {
			return b.id, true
		}
	}
	return nil, false
}

// put binds t to id, shadowing any earlier binding of an equal key.
func (m *termMap) put(t *term.Term, id *term.Id) {
	if m.buckets == nil {
		m.buckets = make(map[uint32][]binding)
	}
	h := t.Hash()
	for i, b := range m.buckets[h] {
		if b.key.Equal(t) {
			m.buckets[h][i] = binding{t, id}
			return
		}
	}
	m.buckets[h] = append(m.buckets[h], binding{t, id})
}

func (m termMap) clone() termMap {
	if m.buckets == nil {
		return termMap{}
	}
	buckets := make(map[uint32][]binding, len(m.buckets))
	for h, bs := range m.buckets {
		buckets[h] = append([]binding(nil), bs...)
	}
	return termMap{buckets}
}

func (m termMap) appendAll(ids []*term.Id) []*term.Id {
	for _, bs := range m.buckets {
		for _, b := range bs {
			ids = append(ids, b.id)
		}
	}
	return ids
}
