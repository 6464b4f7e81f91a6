// Copyright 2024 The Archsat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package proof

// A Tactic closes the open goal at a position, typically by applying
// one or more steps to it.
type Tactic func(pos Position) error

// A LemmaSolver is a theory plugin hook: given a sequent, it either
// hands back a tactic that will close it or returns nil. This is the
// sole mechanism by which external decision procedures plug their
// proofs into the tree.
type LemmaSolver func(seq Sequent) Tactic

// RegisterSolver appends a lemma solver to the consultation order.
func (r *Registry) RegisterSolver(s LemmaSolver) {
	r.solvers = append(r.solvers, s)
}

// Lemma consults the registered solvers, in order, for a tactic
// closing the open goal at pos. It returns false if no solver can
// help.
func (r *Registry) Lemma(pos Position) (Tactic, bool) {
	seq := pos.Sequent()
	for _, s := range r.solvers {
		if t := s(seq); t != nil {
			return t, true
		}
	}
	return nil, false
}
