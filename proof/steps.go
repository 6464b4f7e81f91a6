// Copyright 2024 The Archsat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package proof

// This file defines the canonical steps. Each step is a small
// immutable descriptor; the state it leaves on a closed node records
// exactly what elaboration and rendering need.

import (
	"fmt"
	"io"

	"github.com/gburel/archsat/term"
)

// Apply returns the step that closes a goal by applying f to n
// arguments: f's type must decompose into n leading non-dependent
// products followed by the goal itself, and each argument becomes one
// subgoal. The preludes, if any, are emitted before the proof when
// printing.
func Apply(f *term.Term, n int, preludes ...*Prelude) Step {
	return &applyStep{fn: f, n: n, preludes: preludes}
}

type applyStep struct {
	fn       *term.Term
	n        int
	preludes []*Prelude
}

func (s *applyStep) Name() string { return "apply" }

func (s *applyStep) Compute(seq Sequent) (State, []Sequent, error) {
	for id := range term.FreeVars(s.fn) {
		if !seq.Env.Exists(id) {
			return nil, nil, failf("apply: %s mentions %s, which is not in the environment", s.fn, id)
		}
	}
	ty := s.fn.Type()
	args := make([]*term.Term, 0, s.n)
	for i := 0; i < s.n; i++ {
		b, ok := ty.Reduce().Node().(term.Binder)
		if !ok || b.Kind != term.Forall || term.Occurs(b.Arg, b.Body) {
			return nil, nil, failf("apply: %s expects at most %d arguments, not %d", s.fn, i, s.n)
		}
		args = append(args, b.Arg.Type())
		ty = b.Body
	}
	if !ty.Equal(seq.Goal) {
		return nil, nil, failf("apply: %s applied to %d arguments proves %s, not %s", s.fn, s.n, ty, seq.Goal)
	}
	subgoals := make([]Sequent, len(args))
	for i, a := range args {
		subgoals[i] = Sequent{Env: seq.Env, Goal: a}
	}
	return &applyState{step: s}, subgoals, nil
}

type applyState struct {
	step *applyStep
}

func (st *applyState) Elaborate(branches []*term.Term) *term.Term {
	t, err := term.Apply(st.step.fn, branches...)
	if err != nil {
		panic(fmt.Sprintf("proof: apply elaboration: %v", err))
	}
	return t
}

func (st *applyState) Preludes() []*Prelude { return st.step.preludes }

func (st *applyState) Render(lang Lang) (Branching, func(io.Writer)) {
	return BranchAll, func(w io.Writer) {
		switch lang {
		case Coq:
			if st.step.n == 0 {
				fmt.Fprintf(w, "exact %s.", st.step.fn)
			} else {
				fmt.Fprintf(w, "apply %s.", parens(st.step.fn))
			}
		default:
			fmt.Fprintf(w, "apply %s", st.step.fn)
		}
	}
}

// Intro returns the step that closes a universally quantified goal by
// introducing its bound variable. If the variable occurs in the body
// it is bound under its declared name; otherwise a fresh name is
// minted from the prefix.
func Intro(prefix string) Step {
	return &introStep{prefix: prefix}
}

type introStep struct {
	prefix string
}

func (s *introStep) Name() string { return "intro" }

func (s *introStep) Compute(seq Sequent) (State, []Sequent, error) {
	b, ok := seq.Goal.Reduce().Node().(term.Binder)
	if !ok || b.Kind != term.Forall {
		return nil, nil, failf("intro: goal %s is not a product", seq.Goal)
	}
	if term.Occurs(b.Arg, b.Body) {
		env, err := seq.Env.Add(b.Arg)
		if err != nil {
			return nil, nil, err
		}
		return &introState{id: b.Arg}, []Sequent{{Env: env, Goal: b.Body}}, nil
	}
	id, env := seq.Env.Intro(s.prefix, b.Arg.Type())
	return &introState{id: id}, []Sequent{{Env: env, Goal: b.Body}}, nil
}

type introState struct {
	id *term.Id
}

func (st *introState) Elaborate(branches []*term.Term) *term.Term {
	return term.Lam(st.id, branches[0])
}

func (st *introState) Render(lang Lang) (Branching, func(io.Writer)) {
	return BranchAll, func(w io.Writer) {
		switch lang {
		case Coq:
			fmt.Fprintf(w, "intro %s.", st.id)
		default:
			fmt.Fprintf(w, "intro %s", st.id)
		}
	}
}

// LetIn returns the step that names the value t within the current
// goal: the single subgoal is the goal unchanged, under an
// environment extended with a fresh identifier for t.
func LetIn(prefix string, t *term.Term) Step {
	return &letStep{prefix: prefix, val: t}
}

type letStep struct {
	prefix string
	val    *term.Term
}

func (s *letStep) Name() string { return "letin" }

func (s *letStep) Compute(seq Sequent) (State, []Sequent, error) {
	id, env := seq.Env.Intro(s.prefix, s.val.Type())
	return &letState{id: id, val: s.val}, []Sequent{{Env: env, Goal: seq.Goal}}, nil
}

type letState struct {
	id  *term.Id
	val *term.Term
}

func (st *letState) Elaborate(branches []*term.Term) *term.Term {
	return term.LetIn(st.id, st.val, branches[0])
}

func (st *letState) Render(lang Lang) (Branching, func(io.Writer)) {
	return BranchLast, func(w io.Writer) {
		switch lang {
		case Coq:
			fmt.Fprintf(w, "pose (%s := %s).", st.id, st.val)
		default:
			fmt.Fprintf(w, "let %s := %s", st.id, st.val)
		}
	}
}

// Cut returns the step that splits the goal on an intermediate
// proposition t: the first subgoal proves t under the original
// environment, the second proves the goal under an environment
// extended with a fresh hypothesis of t.
func Cut(prefix string, t *term.Term) Step {
	return &cutStep{prefix: prefix, prop: t}
}

type cutStep struct {
	prefix string
	prop   *term.Term
}

func (s *cutStep) Name() string { return "cut" }

func (s *cutStep) Compute(seq Sequent) (State, []Sequent, error) {
	id, env := seq.Env.Intro(s.prefix, s.prop)
	subgoals := []Sequent{
		{Env: seq.Env, Goal: s.prop},
		{Env: env, Goal: seq.Goal},
	}
	return &cutState{id: id, prop: s.prop}, subgoals, nil
}

type cutState struct {
	id   *term.Id
	prop *term.Term
}

func (st *cutState) Elaborate(branches []*term.Term) *term.Term {
	return term.LetIn(st.id, branches[0], branches[1])
}

func (st *cutState) Render(lang Lang) (Branching, func(io.Writer)) {
	return BranchLast, func(w io.Writer) {
		switch lang {
		case Coq:
			fmt.Fprintf(w, "assert (%s : %s).", st.id, st.prop)
		default:
			fmt.Fprintf(w, "cut %s : %s", st.id, st.prop)
		}
	}
}

// parens wraps a non-atomic term for use inside a tactic.
func parens(t *term.Term) string {
	switch t.Node().(type) {
	case term.Ref, term.Sort:
		return t.String()
	}
	return "(" + t.String() + ")"
}
