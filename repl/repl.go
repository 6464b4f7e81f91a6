// Copyright 2024 The Archsat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package repl provides an interactive proof shell.
//
// It supports readline-style command editing. The shell holds the
// worklist of open goals; commands apply steps to the focused goal,
// inspect the tree, or render it. Goals may be closed in any order.
package repl

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"github.com/gburel/archsat/proof"
	"github.com/gburel/archsat/term"
)

// A Shell drives one proof interactively.
type Shell struct {
	Out io.Writer // command output; defaults to os.Stdout

	p     *proof.Proof
	reg   *proof.Registry
	goals []proof.Position // open positions, worklist order
	cur   int              // index of the focused goal
}

// NewShell returns a shell over a freshly started proof.
func NewShell(p *proof.Proof, reg *proof.Registry) *Shell {
	return &Shell{Out: os.Stdout, p: p, reg: reg, goals: []proof.Position{p.Root()}}
}

// Done reports whether no open goals remain.
func (sh *Shell) Done() bool { return len(sh.goals) == 0 }

// REPL executes a read, eval, print loop over the shell's commands.
// It returns when the input ends or the user quits.
func (sh *Shell) REPL() {
	rl, err := readline.New("archsat> ")
	if err != nil {
		PrintError(err)
		return
	}
	defer rl.Close()

	sh.showGoal()
	for {
		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				fmt.Fprintln(sh.Out, err)
				continue
			}
			break // io.EOF
		}
		if err := sh.Exec(line); err != nil {
			if err == io.EOF {
				break
			}
			PrintError(err)
		}
	}
	fmt.Fprintln(sh.Out)
}

// PrintError prints the error to stderr; build failures are reported
// together with the sequent at the offending position.
func PrintError(err error) {
	var berr *proof.BuildError
	if errors.As(err, &berr) {
		fmt.Fprintf(os.Stderr, "%v\nin goal:\n%s\n", err, berr.Pos.Sequent())
	} else {
		fmt.Fprintln(os.Stderr, err)
	}
}

const usage = `commands:
  intro [prefix]        introduce the goal's leading quantifier
  intros                introduce as long as it applies
  apply <name> [n]      apply the named hypothesis, leaving n subgoals
  exact <name>          close the goal with the named hypothesis
  cut <prefix> <f>      split the goal on formula f
  pose <prefix> <name>  name the hypothesis's value locally
  lemma                 ask the registered solvers for a tactic
  goals                 list the open goals
  focus <k>             focus the k-th open goal
  print coq|dot         render the proof tree
  term                  elaborate and print the proof term
  preludes [coq|dot]    print the required prelude declarations
  quit                  leave the shell`

// Exec runs one command line. It returns io.EOF on quit.
func (sh *Shell) Exec(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
		return nil
	}
	cmd, args := fields[0], fields[1:]
	switch cmd {
	case "help":
		fmt.Fprintln(sh.Out, usage)
		return nil
	case "quit", "exit":
		return io.EOF
	case "goals":
		if sh.Done() {
			fmt.Fprintln(sh.Out, "No more goals.")
			return nil
		}
		for i, g := range sh.goals {
			focus := " "
			if i == sh.cur {
				focus = "*"
			}
			fmt.Fprintf(sh.Out, "%s goal %d:\n%s\n", focus, i, g.Sequent())
		}
		return nil
	case "focus":
		if len(args) != 1 {
			return fmt.Errorf("usage: focus <k>")
		}
		k, err := strconv.Atoi(args[0])
		if err != nil || k < 0 || k >= len(sh.goals) {
			return fmt.Errorf("no open goal %s", args[0])
		}
		sh.cur = k
		sh.showGoal()
		return nil
	case "print":
		lang, err := parseLang(args)
		if err != nil {
			return err
		}
		return proof.Print(sh.Out, lang, sh.p)
	case "term":
		return proof.PrintTerm(sh.Out, proof.Coq, sh.p, nil)
	case "preludes":
		lang, err := parseLang(args)
		if err != nil {
			return err
		}
		return proof.PrintPreludes(sh.Out, lang, sh.p)
	case "intro":
		prefix := "H"
		if len(args) > 0 {
			prefix = args[0]
		}
		return sh.step(proof.Intro(prefix))
	case "intros":
		for {
			if err := sh.step(proof.Intro("H")); err != nil {
				var serr *proof.StepError
				if errors.As(err, &serr) {
					return nil // goal is no longer a product
				}
				return err
			}
			if sh.Done() {
				return nil
			}
		}
	case "apply", "exact":
		if len(args) < 1 {
			return fmt.Errorf("usage: %s <name> [n]", cmd)
		}
		f, err := sh.hypothesis(args[0])
		if err != nil {
			return err
		}
		n := 0
		if len(args) > 1 {
			if n, err = strconv.Atoi(args[1]); err != nil {
				return fmt.Errorf("bad argument count %q", args[1])
			}
		}
		return sh.step(proof.Apply(f, n))
	case "cut":
		if len(args) < 2 {
			return fmt.Errorf("usage: cut <prefix> <formula>")
		}
		t, err := sh.parse(strings.Join(args[1:], " "))
		if err != nil {
			return err
		}
		return sh.step(proof.Cut(args[0], t))
	case "pose":
		if len(args) != 2 {
			return fmt.Errorf("usage: pose <prefix> <name>")
		}
		v, err := sh.hypothesis(args[1])
		if err != nil {
			return err
		}
		return sh.step(proof.LetIn(args[0], v))
	case "lemma":
		if sh.Done() {
			return fmt.Errorf("no goals")
		}
		pos := sh.goals[sh.cur]
		tac, ok := sh.reg.Lemma(pos)
		if !ok {
			return fmt.Errorf("no solver handles this goal")
		}
		if err := tac(pos); err != nil {
			return err
		}
		sh.reap()
		sh.showGoal()
		return nil
	}
	return fmt.Errorf("unknown command %q (try help)", cmd)
}

// step applies s to the focused goal and splices the new subgoals
// into the worklist in its place.
func (sh *Shell) step(s proof.Step) error {
	if sh.Done() {
		return fmt.Errorf("no goals")
	}
	_, children, err := proof.ApplyStep(sh.goals[sh.cur], s)
	if err != nil {
		return err
	}
	rest := append([]proof.Position{}, sh.goals[sh.cur+1:]...)
	sh.goals = append(sh.goals[:sh.cur], append(children, rest...)...)
	if sh.cur >= len(sh.goals) {
		sh.cur = 0
	}
	sh.showGoal()
	return nil
}

// reap drops goals a tactic closed behind the shell's back and
// adopts any open descendants it left.
func (sh *Shell) reap() {
	var open []proof.Position
	for _, g := range sh.goals {
		open = appendOpen(open, g)
	}
	sh.goals = open
	if sh.cur >= len(sh.goals) {
		sh.cur = 0
	}
}

func appendOpen(open []proof.Position, pos proof.Position) []proof.Position {
	if !pos.Closed() {
		return append(open, pos)
	}
	branches, _ := pos.Branches()
	for _, b := range branches {
		open = appendOpen(open, b)
	}
	return open
}

func (sh *Shell) showGoal() {
	if sh.Done() {
		fmt.Fprintln(sh.Out, "No more goals.")
		return
	}
	fmt.Fprintf(sh.Out, "goal %d of %d:\n%s\n", sh.cur, len(sh.goals), sh.goals[sh.cur].Sequent())
}

// hypothesis resolves a name in the focused goal's environment.
func (sh *Shell) hypothesis(name string) (*term.Term, error) {
	if sh.Done() {
		return nil, fmt.Errorf("no goals")
	}
	id, ok := sh.goals[sh.cur].Sequent().Env.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("no hypothesis %q", name)
	}
	return term.Var(id), nil
}

func (sh *Shell) parse(src string) (*term.Term, error) {
	if sh.Done() {
		return nil, fmt.Errorf("no goals")
	}
	return ParseFormula(sh.goals[sh.cur].Sequent().Env, src)
}

func parseLang(args []string) (proof.Lang, error) {
	if len(args) == 0 {
		return proof.Coq, nil
	}
	switch args[0] {
	case "coq":
		return proof.Coq, nil
	case "dot":
		return proof.Dot, nil
	}
	return 0, fmt.Errorf("unknown target %q (want coq or dot)", args[0])
}
