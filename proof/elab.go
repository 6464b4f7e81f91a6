// Copyright 2024 The Archsat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package proof

import (
	"fmt"

	"github.com/gburel/archsat/term"
)

// Elaborate compiles the fully closed tree into a single term whose
// type equals the root goal. It fails with ErrOpenProof if any
// reachable node is still open.
//
// Each node's term is computed at most once: a node shared by several
// parents is elaborated on first use and its cached term reused.
func (p *Proof) Elaborate() (*term.Term, error) {
	t, err := elaborate(p.Root())
	if err != nil {
		return nil, err
	}
	if ty := t.Type(); !ty.Equal(p.seq.Goal) && !ty.Equal(p.seq.Goal.Reduce()) {
		panic(fmt.Sprintf("proof: elaborated term has type %s, want %s", ty, p.seq.Goal))
	}
	return t, nil
}

// elaborate performs an explicit post-order traversal with a
// per-node memo slot. Deep right-leaning proofs are common, so the
// traversal keeps its own work stack instead of recursing.
func elaborate(root Position) (*term.Term, error) {
	type frame struct {
		pos     Position
		visited bool
	}
	stack := []frame{{pos: root}}
	for len(stack) > 0 {
		f := &stack[len(stack)-1]
		n := f.pos.node()
		if n.memo != nil {
			stack = stack[:len(stack)-1]
			continue
		}
		if !n.closed {
			return nil, ErrOpenProof
		}
		if !f.visited {
			f.visited = true
			for i := len(n.branches) - 1; i >= 0; i-- {
				stack = append(stack, frame{pos: n.branches[i]})
			}
			continue
		}
		args := make([]*term.Term, len(n.branches))
		for i, b := range n.branches {
			args[i] = b.node().memo
		}
		n.memo = n.state.Elaborate(args)
		stack = stack[:len(stack)-1]
	}
	return root.node().memo, nil
}
