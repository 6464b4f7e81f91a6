// Copyright 2024 The Archsat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package term_test

import (
	"sort"
	"testing"

	"github.com/gburel/archsat/term"
	"github.com/google/go-cmp/cmp"
)

// atom declares a fresh propositional constant and returns its
// occurrence.
func atom(name string) *term.Term {
	return term.Var(term.NewConst(name, term.Prop))
}

func TestAlphaEqual(t *testing.T) {
	a, b := atom("a"), atom("b")

	// forall p : Prop, p -> p, built twice with distinct identifiers.
	identity := func() *term.Term {
		p := term.NewId("p", term.Univ)
		return term.All(p, term.Arrow(term.Var(p), term.Var(p)))
	}
	x, y := identity(), identity()
	if !x.Equal(y) {
		t.Errorf("%s and %s differ only in bound names; want equal", x, y)
	}
	if x.Hash() != y.Hash() {
		t.Errorf("alpha-equal terms hash to %d and %d", x.Hash(), y.Hash())
	}
	if c := term.Compare(x, y); c != 0 {
		t.Errorf("Compare(%s, %s) = %d, want 0", x, y, c)
	}

	p := term.NewId("p", term.Univ)
	other := term.All(p, term.Arrow(term.Var(p), a))
	if x.Equal(other) {
		t.Errorf("%s and %s compare equal", x, other)
	}

	// Non-dependent products are equal regardless of the unused
	// binder identifier.
	if !term.Arrow(a, b).Equal(term.Arrow(a, b)) {
		t.Errorf("two builds of a -> b compare unequal")
	}
	if term.Arrow(a, b).Equal(term.Arrow(b, a)) {
		t.Errorf("a -> b and b -> a compare equal")
	}
}

func TestApplyTyping(t *testing.T) {
	a, b, c := atom("a"), atom("b"), atom("c")
	f := term.Var(term.NewConst("f", term.Arrow(a, term.Arrow(b, c))))
	ha := term.Var(term.NewConst("ha", a))
	hb := term.Var(term.NewConst("hb", b))

	got, err := term.Apply(f, ha, hb)
	if err != nil {
		t.Fatalf("Apply(f, ha, hb): %v", err)
	}
	if !got.Type().Equal(c) {
		t.Errorf("f ha hb has type %s, want %s", got.Type(), c)
	}

	if _, err := term.Apply(f, hb); err == nil {
		t.Errorf("Apply(f, hb) succeeded; want domain mismatch")
	}
	if _, err := term.Apply(ha, hb); err == nil {
		t.Errorf("Apply(ha, hb) succeeded; ha is not a function")
	}
	if _, err := term.Apply(f, ha, hb, ha); err == nil {
		t.Errorf("Apply(f, ha, hb, ha) succeeded; want arity failure")
	}
}

func TestReduce(t *testing.T) {
	a := atom("a")

	x := term.NewId("x", term.Prop)
	idFn := term.Lam(x, term.Var(x))
	app, err := term.Apply(idFn, a)
	if err != nil {
		t.Fatalf("Apply(id, a): %v", err)
	}
	if got := app.Reduce(); !got.Equal(a) {
		t.Errorf("(fun x => x) a reduces to %s, want %s", got, a)
	}

	y := term.NewId("y", term.Prop)
	let := term.LetIn(y, a, term.Var(y))
	if got := let.Reduce(); !got.Equal(a) {
		t.Errorf("let y := a in y reduces to %s, want %s", got, a)
	}

	// Reduction is weak: no normalization under binders.
	lam := term.Lam(x, app)
	if got := lam.Reduce(); got != lam {
		t.Errorf("Reduce rewrote under a binder")
	}
}

func TestFreeVarsOccurs(t *testing.T) {
	q := term.NewConst("q", term.Prop)
	x := term.NewId("x", term.Univ)
	goal := term.All(x, term.Arrow(term.Var(x), term.Var(q)))

	var names []string
	for id := range term.FreeVars(goal) {
		names = append(names, id.Name())
	}
	sort.Strings(names)
	if diff := cmp.Diff([]string{"q"}, names); diff != "" {
		t.Errorf("FreeVars(%s) mismatch (-want +got):\n%s", goal, diff)
	}
	if term.Occurs(x, goal) {
		t.Errorf("Occurs(x, %s) = true for bound x", goal)
	}
	if !term.Occurs(q, goal) {
		t.Errorf("Occurs(q, %s) = false", goal)
	}
}

func TestSubst(t *testing.T) {
	q := term.NewConst("q", term.Prop)
	r := term.NewConst("r", term.Prop)
	x := term.NewId("x", term.Univ)
	goal := term.All(x, term.Arrow(term.Var(x), term.Var(q)))

	got := term.Subst(goal, map[*term.Id]*term.Term{q: term.Var(r)})
	y := term.NewId("y", term.Univ)
	want := term.All(y, term.Arrow(term.Var(y), term.Var(r)))
	if !got.Equal(want) {
		t.Errorf("Subst(%s, q->r) = %s, want %s", goal, got, want)
	}
	if term.Occurs(q, got) {
		t.Errorf("q still occurs in %s", got)
	}
}

func TestString(t *testing.T) {
	a, b, c := atom("a"), atom("b"), atom("c")
	for _, test := range []struct {
		t    *term.Term
		want string
	}{
		{term.Arrow(a, b), "a -> b"},
		{term.Arrow(term.Arrow(a, b), c), "(a -> b) -> c"},
		{term.Arrow(a, term.Arrow(b, c)), "a -> b -> c"},
	} {
		if got := test.t.String(); got != test.want {
			t.Errorf("String = %q, want %q", got, test.want)
		}
	}
}
