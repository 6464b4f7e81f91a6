// Copyright 2024 The Archsat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package proof_test

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/gburel/archsat/proof"
	"github.com/gburel/archsat/term"
)

func TestCoqScript(t *testing.T) {
	a := term.Var(term.NewConst("a", term.Prop))
	b := term.Var(term.NewConst("b", term.Prop))
	ha := term.NewConst("ha", a)
	hab := term.NewConst("hab", term.Arrow(a, b))
	env := declare(t, proof.NewEnv(proof.NewRegistry()), ha, hab)

	pr := proof.New(proof.Sequent{Env: env, Goal: b})
	sub := mustApply(t, pr.Root(), proof.Cut("L", a))
	mustApply(t, sub[0], proof.Apply(term.Var(ha), 0))
	inner := mustApply(t, sub[1], proof.Apply(term.Var(hab), 1))
	hyp, _ := sub[1].Sequent().Env.Lookup("L0")
	mustApply(t, inner[0], proof.Apply(term.Var(hyp), 0))

	var buf bytes.Buffer
	if err := proof.Print(&buf, proof.Coq, pr); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	for _, want := range []string{
		"Goal b.\n",
		"Proof.\n",
		"  assert (L0 : a).\n",
		"  {\n",
		"    exact ha.\n",
		"  }\n",
		"  apply hab.\n", // the continuation, unboxed, at the same depth
		"Qed.\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("script output lacks %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Admitted") {
		t.Errorf("complete proof rendered as admitted:\n%s", out)
	}
}

// lastBranch is a test step with a fixed number of subgoals,
// presented with the last branch as the continuation.
type lastBranch struct {
	goals []*term.Term
}

func (s *lastBranch) Name() string { return "split" }

func (s *lastBranch) Compute(seq proof.Sequent) (proof.State, []proof.Sequent, error) {
	subgoals := make([]proof.Sequent, len(s.goals))
	for i, g := range s.goals {
		subgoals[i] = proof.Sequent{Env: seq.Env, Goal: g}
	}
	return s, subgoals, nil
}

func (s *lastBranch) Elaborate(branches []*term.Term) *term.Term {
	return branches[len(branches)-1]
}

func (s *lastBranch) Render(lang proof.Lang) (proof.Branching, func(io.Writer)) {
	return proof.BranchLast, func(w io.Writer) { fmt.Fprint(w, "split.") }
}

func TestCoqScriptBoxesSideConditions(t *testing.T) {
	a := term.Var(term.NewConst("a", term.Prop))
	env := proof.NewEnv(proof.NewRegistry())

	pr := proof.New(proof.Sequent{Env: env, Goal: a})
	mustApply(t, pr.Root(), &lastBranch{goals: []*term.Term{a, a, a}})

	var buf bytes.Buffer
	if err := proof.Print(&buf, proof.Coq, pr); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	// Branches s1 and s2 are boxed; s3 is a direct continuation at
	// the same depth as the step itself.
	if got := strings.Count(out, "{"); got != 2 {
		t.Errorf("got %d opened boxes, want 2:\n%s", got, out)
	}
	admits := 0
	for _, line := range strings.Split(out, "\n") {
		if !strings.Contains(line, "admit.") {
			continue
		}
		admits++
		boxed := strings.HasPrefix(line, "    admit.")
		if admits < 3 && !boxed {
			t.Errorf("side condition %d not boxed: %q", admits, line)
		}
		if admits == 3 && !strings.HasPrefix(line, "  admit.") {
			t.Errorf("continuation not at the step's depth: %q", line)
		}
	}
	if admits != 3 {
		t.Errorf("got %d admitted goals, want 3:\n%s", admits, out)
	}
	if !strings.Contains(out, "Admitted.\n") {
		t.Errorf("incomplete proof not marked Admitted:\n%s", out)
	}
}

func TestCoqScriptBullets(t *testing.T) {
	a := term.Var(term.NewConst("a", term.Prop))
	b := term.Var(term.NewConst("b", term.Prop))
	c := term.Var(term.NewConst("c", term.Prop))
	f := term.NewConst("f", term.Arrow(a, term.Arrow(b, c)))
	env := declare(t, proof.NewEnv(proof.NewRegistry()), f)

	pr := proof.New(proof.Sequent{Env: env, Goal: c})
	mustApply(t, pr.Root(), proof.Apply(term.Var(f), 2))

	var buf bytes.Buffer
	if err := proof.Print(&buf, proof.Coq, pr); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	// Peer branches are bulleted one level deeper than their parent.
	if got := strings.Count(out, "- admit."); got != 2 {
		t.Errorf("got %d bulleted peers, want 2:\n%s", got, out)
	}
}

func TestDot(t *testing.T) {
	a := term.Var(term.NewConst("a", term.Prop))
	b := term.Var(term.NewConst("b", term.Prop))
	ha := term.NewConst("ha", a)
	hab := term.NewConst("hab", term.Arrow(a, b))
	env := declare(t, proof.NewEnv(proof.NewRegistry()), ha, hab)

	pr := proof.New(proof.Sequent{Env: env, Goal: b})
	sub := mustApply(t, pr.Root(), proof.Apply(term.Var(hab), 1))
	mustApply(t, sub[0], proof.Apply(term.Var(ha), 0))

	var buf bytes.Buffer
	if err := proof.Print(&buf, proof.Dot, pr); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	if !strings.HasPrefix(out, "digraph proof {") {
		t.Errorf("output is not a digraph:\n%s", out)
	}
	if got := strings.Count(out, "[label="); got != 2 {
		t.Errorf("got %d labeled nodes, want 2:\n%s", got, out)
	}
	if got := strings.Count(out, " -> "); got != 1 {
		t.Errorf("got %d edges, want 1:\n%s", got, out)
	}
}

func TestDotShowsOpenSequent(t *testing.T) {
	a := term.Var(term.NewConst("a", term.Prop))
	ha := term.NewConst("ha", a)
	env := declare(t, proof.NewEnv(proof.NewRegistry()), ha)

	pr := proof.New(proof.Sequent{Env: env, Goal: a})
	var buf bytes.Buffer
	if err := proof.Print(&buf, proof.Dot, pr); err != nil {
		t.Fatal(err)
	}
	if out := buf.String(); !strings.Contains(out, "|- a") {
		t.Errorf("open node label lacks its sequent:\n%s", out)
	}
}

func TestPrintTerm(t *testing.T) {
	a := term.Var(term.NewConst("a", term.Prop))
	ha := term.NewConst("ha", a)
	env := declare(t, proof.NewEnv(proof.NewRegistry()), ha)

	pr := proof.New(proof.Sequent{Env: env, Goal: a})
	mustApply(t, pr.Root(), proof.Apply(term.Var(ha), 0))

	var buf bytes.Buffer
	if err := proof.PrintTerm(&buf, proof.Coq, pr, nil); err != nil {
		t.Fatal(err)
	}
	want := "Definition archsat_proof : a :=\n  ha.\n"
	if got := buf.String(); got != want {
		t.Errorf("PrintTerm = %q, want %q", got, want)
	}

	// Post-processing that changes the type is a broken caller.
	b := term.Var(term.NewConst("b", term.Prop))
	hb := term.Var(term.NewConst("hb", b))
	defer func() {
		if recover() == nil {
			t.Errorf("type-changing post-processing did not panic")
		}
	}()
	proof.PrintTerm(io.Discard, proof.Coq, pr, func(*term.Term) *term.Term { return hb })
}

func TestPrintPreludes(t *testing.T) {
	a := term.Var(term.NewConst("a", term.Prop))
	ha := term.NewConst("ha", a)
	reg := proof.NewRegistry()

	base := reg.Require("Base")
	alias := reg.Alias(term.NewConst("shortcut", a), a, base)
	reg.Require("Unused")

	env := declare(t, proof.NewEnv(reg), ha)
	pr := proof.New(proof.Sequent{Env: env, Goal: a})
	mustApply(t, pr.Root(), proof.Apply(term.Var(ha), 0, alias))

	var buf bytes.Buffer
	if err := proof.PrintPreludes(&buf, proof.Coq, pr); err != nil {
		t.Fatal(err)
	}
	want := "Require Import Base.\nDefinition shortcut := a.\n"
	if got := buf.String(); got != want {
		t.Errorf("PrintPreludes = %q, want %q", got, want)
	}
}
