// Copyright 2024 The Archsat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package repl

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/gburel/archsat/proof"
	"github.com/gburel/archsat/term"
)

// ParseFormula parses the shell's minimal formula notation over the
// names bound in env: a formula is a bound name, a parenthesized
// formula, or f -> g (right associative). This is command plumbing
// for the shell, not a term language; anything richer comes from the
// caller as a constructed term.
func ParseFormula(env *proof.Env, src string) (*term.Term, error) {
	p := &formulaParser{env: env, toks: tokenize(src)}
	t, err := p.formula()
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.toks) {
		return nil, fmt.Errorf("unexpected %q after formula", p.toks[p.pos])
	}
	return t, nil
}

func tokenize(src string) []string {
	var toks []string
	for i := 0; i < len(src); {
		switch {
		case src[i] == ' ' || src[i] == '\t':
			i++
		case src[i] == '(' || src[i] == ')':
			toks = append(toks, string(src[i]))
			i++
		case strings.HasPrefix(src[i:], "->"):
			toks = append(toks, "->")
			i += 2
		default:
			j := i
			for j < len(src) && isNameByte(src[j]) {
				j++
			}
			if j == i {
				j++ // lone unexpected byte becomes its own token
			}
			toks = append(toks, src[i:j])
			i = j
		}
	}
	return toks
}

func isNameByte(b byte) bool {
	return b == '_' || unicode.IsLetter(rune(b)) || unicode.IsDigit(rune(b))
}

type formulaParser struct {
	env  *proof.Env
	toks []string
	pos  int
}

func (p *formulaParser) formula() (*term.Term, error) {
	left, err := p.atom()
	if err != nil {
		return nil, err
	}
	if p.pos < len(p.toks) && p.toks[p.pos] == "->" {
		p.pos++
		right, err := p.formula()
		if err != nil {
			return nil, err
		}
		return term.Arrow(left, right), nil
	}
	return left, nil
}

func (p *formulaParser) atom() (*term.Term, error) {
	if p.pos == len(p.toks) {
		return nil, fmt.Errorf("unexpected end of formula")
	}
	tok := p.toks[p.pos]
	p.pos++
	switch tok {
	case "(":
		t, err := p.formula()
		if err != nil {
			return nil, err
		}
		if p.pos == len(p.toks) || p.toks[p.pos] != ")" {
			return nil, fmt.Errorf("missing )")
		}
		p.pos++
		return t, nil
	case ")", "->":
		return nil, fmt.Errorf("unexpected %q", tok)
	}
	id, ok := p.env.Lookup(tok)
	if !ok {
		return nil, fmt.Errorf("unknown name %q", tok)
	}
	return term.Var(id), nil
}
