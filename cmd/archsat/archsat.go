// Copyright 2024 The Archsat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// The archsat command drives the proof-construction engine over a
// propositional signature given on the command line. On a terminal it
// starts an interactive shell; otherwise it reads shell commands from
// standard input, one per line.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	xterm "golang.org/x/term"

	"github.com/gburel/archsat/proof"
	"github.com/gburel/archsat/repl"
	"github.com/gburel/archsat/term"
)

// flags
var (
	atoms    = flag.String("atoms", "a,b,c", "comma-separated propositional atoms to declare")
	hyps     = flag.String("hyps", "", `semicolon-separated hypotheses, e.g. "ab: a -> b; ha: a"`)
	goal     = flag.String("goal", "a -> a", "the goal formula to prove")
	execprog = flag.String("c", "", "execute semicolon-separated shell commands `cmds` and exit")
)

func main() {
	os.Exit(doMain())
}

func doMain() int {
	log.SetPrefix("archsat: ")
	log.SetFlags(0)
	flag.Parse()

	reg := proof.NewRegistry()
	env := proof.NewEnv(reg)

	var err error
	for _, name := range strings.Split(*atoms, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if env, err = env.Declare(term.NewConst(name, term.Prop)); err != nil {
			log.Print(err)
			return 1
		}
	}
	for _, hyp := range strings.Split(*hyps, ";") {
		hyp = strings.TrimSpace(hyp)
		if hyp == "" {
			continue
		}
		name, formula, ok := strings.Cut(hyp, ":")
		if !ok {
			log.Printf("bad hypothesis %q: want name: formula", hyp)
			return 1
		}
		ty, err := repl.ParseFormula(env, formula)
		if err != nil {
			log.Printf("hypothesis %q: %v", strings.TrimSpace(name), err)
			return 1
		}
		if env, err = env.Declare(term.NewConst(strings.TrimSpace(name), ty)); err != nil {
			log.Print(err)
			return 1
		}
	}

	g, err := repl.ParseFormula(env, *goal)
	if err != nil {
		log.Printf("goal: %v", err)
		return 1
	}

	p := proof.New(proof.Sequent{Env: env, Goal: g})
	sh := repl.NewShell(p, reg)

	switch {
	case *execprog != "":
		for _, cmd := range strings.Split(*execprog, ";") {
			if err := exec(sh, cmd); err != nil {
				return 1
			}
		}
	case xterm.IsTerminal(int(os.Stdin.Fd())):
		sh.REPL()
	default:
		in := bufio.NewScanner(os.Stdin)
		for in.Scan() {
			if err := exec(sh, in.Text()); err != nil {
				return 1
			}
		}
		if err := in.Err(); err != nil {
			log.Print(err)
			return 1
		}
	}

	if sh.Done() {
		if err := proof.PrintTerm(os.Stdout, proof.Coq, p, nil); err != nil {
			log.Print(err)
			return 1
		}
	} else {
		fmt.Fprintln(os.Stderr, "proof incomplete:")
		if err := proof.Print(os.Stderr, proof.Coq, p); err != nil {
			log.Print(err)
			return 1
		}
	}
	return 0
}

// exec runs one shell command, reporting errors to stderr. A quit
// command is not an error; any other failure stops the script.
func exec(sh *repl.Shell, cmd string) error {
	if err := sh.Exec(cmd); err != nil && err != io.EOF {
		repl.PrintError(err)
		return err
	}
	return nil
}
