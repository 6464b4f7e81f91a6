// Copyright 2024 The Archsat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package proof_test

import (
	"errors"
	"testing"

	"github.com/gburel/archsat/proof"
	"github.com/gburel/archsat/term"
)

func TestElaborateIdempotent(t *testing.T) {
	a := term.Var(term.NewConst("a", term.Prop))
	b := term.Var(term.NewConst("b", term.Prop))
	hab := term.NewConst("hab", term.Arrow(a, b))
	env := declare(t, proof.NewEnv(proof.NewRegistry()), hab)

	pr := proof.New(proof.Sequent{Env: env, Goal: b})
	sub := mustApply(t, pr.Root(), proof.Apply(term.Var(hab), 1))

	ha := term.Var(term.NewConst("ha", a))
	ax := &axiom{val: ha}
	mustApply(t, sub[0], ax)

	first, err := pr.Elaborate()
	if err != nil {
		t.Fatal(err)
	}
	second, err := pr.Elaborate()
	if err != nil {
		t.Fatal(err)
	}
	if !first.Equal(second) {
		t.Errorf("elaboration is not idempotent: %s then %s", first, second)
	}
	if ax.calls != 1 {
		t.Errorf("leaf elaborated %d times, want 1 (cache hit on the second pass)", ax.calls)
	}
}

func TestElaborateOpenProof(t *testing.T) {
	a := term.Var(term.NewConst("a", term.Prop))
	b := term.Var(term.NewConst("b", term.Prop))
	hab := term.NewConst("hab", term.Arrow(a, b))
	env := declare(t, proof.NewEnv(proof.NewRegistry()), hab)

	pr := proof.New(proof.Sequent{Env: env, Goal: b})
	if _, err := pr.Elaborate(); !errors.Is(err, proof.ErrOpenProof) {
		t.Fatalf("elaborating a fresh proof: got %v, want ErrOpenProof", err)
	}

	// Still open below the root: the subgoal is untouched.
	mustApply(t, pr.Root(), proof.Apply(term.Var(hab), 1))
	if _, err := pr.Elaborate(); !errors.Is(err, proof.ErrOpenProof) {
		t.Fatalf("elaborating with an open subgoal: got %v, want ErrOpenProof", err)
	}
}

// TestElaborateDeepChain exercises the bounded-stack traversal on a
// long right-leaning chain of cuts.
func TestElaborateDeepChain(t *testing.T) {
	a := term.Var(term.NewConst("a", term.Prop))
	ha := term.NewConst("ha", a)
	env := declare(t, proof.NewEnv(proof.NewRegistry()), ha)

	pr := proof.New(proof.Sequent{Env: env, Goal: a})
	pos := pr.Root()
	const depth = 2000
	for i := 0; i < depth; i++ {
		sub := mustApply(t, pos, proof.Cut("L", a))
		mustApply(t, sub[0], proof.Apply(term.Var(ha), 0))
		pos = sub[1]
	}
	mustApply(t, pos, proof.Apply(term.Var(ha), 0))

	got, err := pr.Elaborate()
	if err != nil {
		t.Fatal(err)
	}
	if !got.Type().Equal(a) {
		t.Errorf("deep chain elaborates to type %s, want %s", got.Type(), a)
	}
}
