// Copyright 2024 The Archsat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package term provides the typed terms that proofs elaborate into.
//
// Terms form a small dependently typed calculus in the Curry-Howard
// style: a goal is a type, and a finished proof is a term of that type.
// Every term is immutable and carries its own type, which is itself a
// term; the tower is closed off by the universe Univ, which is its own
// type (as in the system this engine certifies for, consistency of the
// universe hierarchy is the checker's concern, not ours).
package term

import (
	"bytes"
	"fmt"
)

// A Term is an immutable, structurally comparable typed term.
type Term struct {
	ty   *Term // the term's type; nil is reserved for Univ before init
	node Node
	hash uint32 // alpha-invariant hash; 0 means not yet computed
}

// Type returns the type of the term, itself a term.
func (t *Term) Type() *Term { return t.ty }

// Node returns the term's variant.
func (t *Term) Node() Node { return t.node }

// A Node is one variant of a term.
type Node interface {
	node()
}

func (Sort) node()   {}
func (Ref) node()    {}
func (App) node()    {}
func (Binder) node() {}
func (Let) node()    {}

// A Sort is the universe of types.
type Sort struct{}

// A Ref is an occurrence of a variable or declared constant.
type Ref struct {
	Id *Id
}

// An App applies a function term to one argument.
type App struct {
	Fn, Arg *Term
}

// A Binder abstracts one identifier over a body: a function (Lambda)
// or a product/universal quantifier (Forall).
type Binder struct {
	Kind BinderKind
	Arg  *Id
	Body *Term
}

// A Let binds an identifier to a value within a body.
type Let struct {
	Arg       *Id
	Val, Body *Term
}

// BinderKind discriminates the two binding forms.
type BinderKind int

const (
	Lambda BinderKind = iota
	Forall
)

func (k BinderKind) String() string {
	if k == Lambda {
		return "fun"
	}
	return "forall"
}

// Well-known terms.
var (
	// Univ is the universe of types; its type is itself.
	Univ = &Term{node: Sort{}}

	// Prop is the universe of propositions.
	Prop *Term
)

func init() {
	Univ.ty = Univ
	Prop = Var(NewConst("Prop", Univ))
}

// An Id is a named, typed identifier. Two ids are the same binding
// only if they are the same pointer; the serial number gives a stable
// total order.
type Id struct {
	name    string
	ty      *Term
	defined bool // declared constant, as opposed to a plain variable
	serial  uint64
}

var lastSerial uint64

// NewId mints a fresh plain variable. Identifiers are never interned;
// each call returns a distinct binding even for equal names.
func NewId(name string, ty *Term) *Id {
	lastSerial++
	return &Id{name: name, ty: ty, serial: lastSerial}
}

// NewConst mints a fresh declared constant.
func NewConst(name string, ty *Term) *Id {
	id := NewId(name, ty)
	id.defined = true
	return id
}

// Name returns the identifier's name.
func (id *Id) Name() string { return id.name }

// Type returns the identifier's type.
func (id *Id) Type() *Term { return id.ty }

// Defined reports whether the identifier is a declared constant
// rather than a plain variable.
func (id *Id) Defined() bool { return id.defined }

// Compare orders identifiers by creation time.
func (id *Id) Compare(other *Id) int {
	switch {
	case id.serial < other.serial:
		return -1
	case id.serial > other.serial:
		return +1
	}
	return 0
}

func (id *Id) String() string { return id.name }

// Var returns an occurrence of the identifier.
func Var(id *Id) *Term {
	return &Term{ty: id.ty, node: Ref{id}}
}

// Apply applies f to the given arguments, one application node per
// argument. It fails if f's type does not expose enough products, or
// if an argument's type does not match the corresponding domain.
func Apply(f *Term, args ...*Term) (*Term, error) {
	t := f
	for i, a := range args {
		b, ok := t.Type().Reduce().node.(Binder)
		if !ok || b.Kind != Forall {
			return nil, fmt.Errorf("term: cannot apply %s to %d arguments: not a function after %d", f, len(args), i)
		}
		if !b.Arg.ty.Equal(a.Type()) {
			return nil, fmt.Errorf("term: argument %d has type %s, want %s", i, a.Type(), b.Arg.ty)
		}
		ty := b.Body
		if Occurs(b.Arg, b.Body) {
			ty = Subst(b.Body, map[*Id]*Term{b.Arg: a})
		}
		t = &Term{ty: ty, node: App{t, a}}
	}
	return t, nil
}

// Lam abstracts body over arg.
func Lam(arg *Id, body *Term) *Term {
	return &Term{ty: All(arg, body.ty), node: Binder{Lambda, arg, body}}
}

// All builds the product (universal quantification) of body over arg.
func All(arg *Id, body *Term) *Term {
	return &Term{ty: body.ty, node: Binder{Forall, arg, body}}
}

// Arrow builds the non-dependent product a -> b.
func Arrow(a, b *Term) *Term {
	return All(NewId("_", a), b)
}

// LetIn binds arg to val within body. The identifier's type must
// equal the value's type.
func LetIn(arg *Id, val, body *Term) *Term {
	if !arg.ty.Equal(val.Type()) {
		panic(fmt.Sprintf("term: let-bound %s has type %s, value has type %s", arg, arg.ty, val.Type()))
	}
	ty := body.ty
	if Occurs(arg, ty) {
		ty = Subst(ty, map[*Id]*Term{arg: val})
	}
	return &Term{ty: ty, node: Let{arg, val, body}}
}

func (t *Term) String() string {
	var buf bytes.Buffer
	writeTerm(&buf, t, 0)
	return buf.String()
}

// writeTerm prints t with minimal parentheses. Precedence levels:
// 0 binders and let, 1 arrow (right associative), 2 application, 3 atoms.
func writeTerm(buf *bytes.Buffer, t *Term, prec int) {
	switch n := t.node.(type) {
	case Sort:
		buf.WriteString("Type")
	case Ref:
		buf.WriteString(n.Id.name)
	case App:
		if prec > 2 {
			buf.WriteByte('(')
		}
		writeTerm(buf, n.Fn, 2)
		buf.WriteByte(' ')
		writeTerm(buf, n.Arg, 3)
		if prec > 2 {
			buf.WriteByte(')')
		}
	case Binder:
		if n.Kind == Forall && !Occurs(n.Arg, n.Body) {
			if prec > 1 {
				buf.WriteByte('(')
			}
			writeTerm(buf, n.Arg.ty, 2)
			buf.WriteString(" -> ")
			writeTerm(buf, n.Body, 1)
			if prec > 1 {
				buf.WriteByte(')')
			}
			return
		}
		if prec > 0 {
			buf.WriteByte('(')
		}
		buf.WriteString(n.Kind.String())
		buf.WriteByte(' ')
		buf.WriteString(n.Arg.name)
		buf.WriteString(" : ")
		writeTerm(buf, n.Arg.ty, 1)
		if n.Kind == Lambda {
			buf.WriteString(" => ")
		} else {
			buf.WriteString(", ")
		}
		writeTerm(buf, n.Body, 0)
		if prec > 0 {
			buf.WriteByte(')')
		}
	case Let:
		if prec > 0 {
			buf.WriteByte('(')
		}
		buf.WriteString("let ")
		buf.WriteString(n.Arg.name)
		buf.WriteString(" := ")
		writeTerm(buf, n.Val, 1)
		buf.WriteString(" in ")
		writeTerm(buf, n.Body, 0)
		if prec > 0 {
			buf.WriteByte(')')
		}
	}
}
