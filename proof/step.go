// Copyright 2024 The Archsat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package proof

import (
	"bytes"
	"fmt"
	"io"

	"github.com/gburel/archsat/term"
)

// A Sequent is the judgment "prove Goal under Env". It is an
// immutable value; steps that extend the environment return brand-new
// sequents.
type Sequent struct {
	Env  *Env
	Goal *term.Term
}

func (s Sequent) String() string {
	var buf bytes.Buffer
	for _, id := range s.Env.visible() {
		fmt.Fprintf(&buf, "%s : %s\n", id, id.Type())
	}
	fmt.Fprintf(&buf, "|- %s", s.Goal)
	return buf.String()
}

// A Step is a named, reusable description of one reasoning
// transformation. A single step value may close many nodes; all
// per-application record keeping lives in the State it returns.
//
// Compute must not mutate the sequent. It fails with a *StepError
// when the step simply does not apply (recoverable; the caller should
// try something else), or with a binding-environment error
// (*NotIntroduced, *NameConflict) that escaped a lookup.
type Step interface {
	Name() string
	Compute(seq Sequent) (State, []Sequent, error)
}

// A State is the private record a step leaves on the node it closed.
//
// Elaborate synthesizes this step's term from the already-elaborated
// terms of its subgoal branches, in the order Compute returned them.
//
// Render returns how the branches should be presented, and a printer
// for the step itself in the target language.
//
// A State that requires auxiliary declarations additionally
// implements Preluder.
type State interface {
	Elaborate(branches []*term.Term) *term.Term
	Render(lang Lang) (Branching, func(w io.Writer))
}

// A Preluder is a State with auxiliary declarations to emit before
// the proof's own output.
type Preluder interface {
	Preludes() []*Prelude
}

// Branching tells a renderer how a closed node's branches relate.
type Branching int

const (
	// BranchAll: every branch is a peer sub-proof.
	BranchAll Branching = iota
	// BranchLast: the last branch continues the current proof; the
	// earlier ones are side conditions to discharge first.
	BranchLast
)

// A StepError is a step-local, recoverable precondition violation:
// the goal is not of the shape the step handles.
type StepError struct {
	Msg string
}

func (e *StepError) Error() string { return e.Msg }

func failf(format string, args ...interface{}) error {
	return &StepError{Msg: fmt.Sprintf(format, args...)}
}
