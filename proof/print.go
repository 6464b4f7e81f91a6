// Copyright 2024 The Archsat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package proof

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/gburel/archsat/term"
)

// A Lang selects an output target.
type Lang int

const (
	// Dot is the graph-visualization form.
	Dot Lang = iota
	// Coq is the script/tactic form.
	Coq
)

// Print renders the proof tree, complete or not, to w. Open nodes
// show their sequent; closed nodes print themselves through their
// step's renderer.
func Print(w io.Writer, lang Lang, p *Proof) error {
	var buf bytes.Buffer
	switch lang {
	case Dot:
		printDot(&buf, p)
	case Coq:
		printCoq(&buf, p)
	default:
		return fmt.Errorf("proof: unknown target %d", lang)
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// PrintTerm elaborates the proof and renders the resulting term. The
// optional post-processing function must preserve the term's type.
func PrintTerm(w io.Writer, lang Lang, p *Proof, post func(*term.Term) *term.Term) error {
	t, err := p.Elaborate()
	if err != nil {
		return err
	}
	if post != nil {
		t2 := post(t)
		if !t2.Type().Equal(t.Type()) {
			panic(fmt.Sprintf("proof: post-processing changed the term's type from %s to %s", t.Type(), t2.Type()))
		}
		t = t2
	}
	var buf bytes.Buffer
	switch lang {
	case Coq:
		fmt.Fprintf(&buf, "Definition archsat_proof : %s :=\n  %s.\n", t.Type(), t)
	default:
		fmt.Fprintf(&buf, "%s\n", t)
	}
	_, err = w.Write(buf.Bytes())
	return err
}

// PrintPreludes renders the auxiliary declarations the proof's steps
// require, deduplicated and in dependency order.
func PrintPreludes(w io.Writer, lang Lang, p *Proof) error {
	var used []*Prelude
	walk(p.Root(), func(n *node) {
		if !n.closed {
			return
		}
		if pr, ok := n.state.(Preluder); ok {
			used = append(used, pr.Preludes()...)
		}
	})
	var buf bytes.Buffer
	p.seq.Env.reg.EmitPrelude(used, func(pl *Prelude) {
		if unit := pl.Unit(); unit != "" {
			switch lang {
			case Coq:
				fmt.Fprintf(&buf, "Require Import %s.\n", unit)
			default:
				fmt.Fprintf(&buf, "// require %s\n", unit)
			}
			return
		}
		id, val := pl.Alias()
		switch lang {
		case Coq:
			fmt.Fprintf(&buf, "Definition %s := %s.\n", id, val)
		default:
			fmt.Fprintf(&buf, "// %s := %s\n", id, val)
		}
	})
	_, err := w.Write(buf.Bytes())
	return err
}

// walk visits every node reachable from pos, parents first.
func walk(pos Position, f func(*node)) {
	stack := []Position{pos}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := p.node()
		f(n)
		for i := len(n.branches) - 1; i >= 0; i-- {
			stack = append(stack, n.branches[i])
		}
	}
}

func printDot(buf *bytes.Buffer, p *Proof) {
	fmt.Fprintf(buf, "digraph proof {\n  node [shape=box];\n")
	walk(p.Root(), func(n *node) {
		var label string
		if n.closed {
			var sb bytes.Buffer
			_, pr := n.state.Render(Dot)
			pr(&sb)
			label = sb.String()
		} else {
			label = n.seq.String()
		}
		fmt.Fprintf(buf, "  n%d [label=%q];\n", n.id, label)
		for _, b := range n.branches {
			fmt.Fprintf(buf, "  n%d -> n%d;\n", n.id, b.node().id)
		}
	})
	fmt.Fprintf(buf, "}\n")
}

func printCoq(buf *bytes.Buffer, p *Proof) {
	fmt.Fprintf(buf, "Goal %s.\n", p.seq.Goal)
	fmt.Fprintf(buf, "Proof.\n")
	admitted := coqNode(buf, p.Root(), 1, "")
	if admitted {
		fmt.Fprintf(buf, "Admitted.\n")
	} else {
		fmt.Fprintf(buf, "Qed.\n")
	}
}

// bullet returns the Coq bullet for a nesting level (0 for the
// outermost peers): the glyph cycles through -, +, * and lengthens
// every full cycle.
func bullet(level int) string {
	glyph := "-+*"[level%3]
	return strings.Repeat(string(glyph), level/3+1)
}

// coqNode prints the sub-proof rooted at pos. The first tactic is
// prefixed by first (a bullet, or ""). Continuation branches are
// followed iteratively, so right-leaning chains of cuts and lets do
// not grow the call stack; only peer branches and side conditions
// recurse.
//
// It reports whether any open goal was admitted along the way.
func coqNode(buf *bytes.Buffer, pos Position, depth int, first string) bool {
	admitted := false
	for {
		ind := strings.Repeat("  ", depth)
		n := pos.node()
		if !n.closed {
			fmt.Fprintf(buf, "%s%sadmit. (* %s *)\n", ind, first, n.seq.Goal)
			return true
		}
		branching, pr := n.state.Render(Coq)
		fmt.Fprintf(buf, "%s%s", ind, first)
		pr(buf)
		buf.WriteByte('\n')
		first = ""

		switch branching {
		case BranchAll:
			switch len(n.branches) {
			case 0:
				return admitted
			case 1:
				pos = n.branches[0]
				continue
			}
			b := bullet(depth - 1)
			for _, c := range n.branches {
				if coqNode(buf, c, depth+1, b+" ") {
					admitted = true
				}
			}
			return admitted
		case BranchLast:
			k := len(n.branches)
			if k == 0 {
				return admitted
			}
			for _, c := range n.branches[:k-1] {
				fmt.Fprintf(buf, "%s{\n", ind)
				if coqNode(buf, c, depth+1, "") {
					admitted = true
				}
				fmt.Fprintf(buf, "%s}\n", ind)
			}
			pos = n.branches[k-1]
		}
	}
}
