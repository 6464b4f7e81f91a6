// Copyright 2024 The Archsat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package proof builds proof certificates incrementally and compiles
// them into terms.
//
// A proof is a mutable tree of nodes, each either open (a sequent
// still to prove) or closed (a step has been applied, leaving zero or
// more open subgoals). Callers hold Positions into the tree, apply
// steps at them in any order, and, once no open position remains,
// elaborate the tree into a single term whose type is the root goal.
//
// The engine records and replays steps supplied by callers; it does
// not search for proofs, and it is not safe for concurrent mutation.
package proof

import (
	"errors"
	"fmt"

	"github.com/gburel/archsat/term"
)

// A node is one slot of the proof tree. It is created open and
// transitions to closed at most once, in place.
type node struct {
	id  uint64 // unique, for display only
	pos Position
	seq Sequent

	closed   bool
	step     Step
	state    State
	branches []Position

	memo *term.Term // elaborated term, populated at most once
}

var lastNodeID uint64

// A Position addresses one slot in a node container. Positions stay
// valid, and independently closeable, regardless of the order other
// positions are closed in.
type Position struct {
	c []node
	i int
}

func (p Position) node() *node { return &p.c[p.i] }

// ID returns the node's display identifier. It is unique and
// monotonically increasing but carries no structural meaning.
func (p Position) ID() uint64 { return p.node().id }

// Sequent returns the judgment at this position.
func (p Position) Sequent() Sequent { return p.node().seq }

// Closed reports whether a step has been applied at this position.
func (p Position) Closed() bool { return p.node().closed }

// ErrOpenProof reports an operation that requires a closed node, such
// as elaboration or branch inspection, applied to an open one. It is
// a contract violation by the caller: the proof is not finished.
var ErrOpenProof = errors.New("proof: incomplete proof")

// Branches returns the positions of the subgoals the closing step
// produced, or ErrOpenProof if the node is still open.
func (p Position) Branches() ([]Position, error) {
	n := p.node()
	if !n.closed {
		return nil, ErrOpenProof
	}
	return n.branches, nil
}

// State returns the closing step's raw state, without step-type
// information, for generic printers. It fails with ErrOpenProof if
// the node is still open.
func (p Position) State() (State, error) {
	n := p.node()
	if !n.closed {
		return nil, ErrOpenProof
	}
	return n.state, nil
}

// A Proof is a handle on a proof tree: the root sequent and a
// container of exactly one node, so the root is addressable by the
// same position mechanism as any subgoal.
type Proof struct {
	seq  Sequent
	root []node
}

// New starts a proof of the given sequent. The root is the proof's
// single open position.
func New(seq Sequent) *Proof {
	p := &Proof{seq: seq, root: make([]node, 1)}
	lastNodeID++
	p.root[0] = node{id: lastNodeID, seq: seq}
	p.root[0].pos = Position{p.root, 0}
	return p
}

// Goal returns the root sequent.
func (p *Proof) Goal() Sequent { return p.seq }

// Root returns the position of the root node.
func (p *Proof) Root() Position { return Position{p.root, 0} }

// A BuildError is the uniform, position-tagged failure surfaced by
// ApplyStep. The position lets callers report the offending sequent.
type BuildError struct {
	Msg string
	Pos Position
	Err error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("%s (in goal %d)", e.Msg, e.Pos.ID())
}

func (e *BuildError) Unwrap() error { return e.Err }

// ApplyStep applies a step to the open goal at pos: the node is
// closed in place and one fresh open node is allocated per subgoal
// the step produced. This is the single growth operation of the tree.
//
// A step or binding failure is returned as a *BuildError carrying
// pos. Applying a step to an already-closed position is a fatal
// programming error and panics.
func ApplyStep(pos Position, step Step) (State, []Position, error) {
	n := pos.node()
	if n.closed {
		panic(fmt.Sprintf("proof: step %q applied to already-closed goal %d", step.Name(), n.id))
	}
	state, subgoals, err := step.Compute(n.seq)
	if err != nil {
		return nil, nil, &BuildError{
			Msg: fmt.Sprintf("%s: %v", step.Name(), err),
			Pos: pos,
			Err: err,
		}
	}

	// The container is allocated at its final size before any node in
	// it is constructed, so each node's position can point into it.
	c := make([]node, len(subgoals))
	positions := make([]Position, len(subgoals))
	for i := range c {
		lastNodeID++
		c[i] = node{id: lastNodeID, seq: subgoals[i]}
		c[i].pos = Position{c, i}
		positions[i] = c[i].pos
	}

	n.closed = true
	n.step = step
	n.state = state
	n.branches = positions
	return state, positions, nil
}
