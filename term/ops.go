// Copyright 2024 The Archsat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package term

// This file defines the structural operations on terms: equality,
// hashing, ordering, substitution, weak head reduction, and the
// free-variable computations.

// A binderEnv records the identifiers bound between the root of a
// comparison (or hash) and the current subterm, innermost last.
// Bound occurrences are identified by their de Bruijn depth so that
// equality and hashing are invariant under renaming.
type binderEnv struct {
	id    *Id
	depth int
	next  *binderEnv
}

func (e *binderEnv) bind(id *Id) *binderEnv {
	d := 0
	if e != nil {
		d = e.depth + 1
	}
	return &binderEnv{id: id, depth: d, next: e}
}

func (e *binderEnv) lookup(id *Id) (int, bool) {
	for ; e != nil; e = e.next {
		if e.id == id {
			return e.depth, true
		}
	}
	return 0, false
}

// Equal reports whether t and u are equal up to renaming of bound
// identifiers. Free identifiers are compared by identity; no
// reduction is performed.
func (t *Term) Equal(u *Term) bool {
	return alphaEq(t, u, nil, nil)
}

func alphaEq(a, b *Term, ea, eb *binderEnv) bool {
	if a == b && ea == nil && eb == nil {
		return true
	}
	switch an := a.node.(type) {
	case Sort:
		_, ok := b.node.(Sort)
		return ok
	case Ref:
		bn, ok := b.node.(Ref)
		if !ok {
			return false
		}
		da, ba := ea.lookup(an.Id)
		db, bb := eb.lookup(bn.Id)
		if ba || bb {
			return ba && bb && da == db
		}
		return an.Id == bn.Id
	case App:
		bn, ok := b.node.(App)
		return ok && alphaEq(an.Fn, bn.Fn, ea, eb) && alphaEq(an.Arg, bn.Arg, ea, eb)
	case Binder:
		bn, ok := b.node.(Binder)
		if !ok || an.Kind != bn.Kind || !alphaEq(an.Arg.ty, bn.Arg.ty, ea, eb) {
			return false
		}
		return alphaEq(an.Body, bn.Body, ea.bind(an.Arg), eb.bind(bn.Arg))
	case Let:
		bn, ok := b.node.(Let)
		if !ok || !alphaEq(an.Arg.ty, bn.Arg.ty, ea, eb) || !alphaEq(an.Val, bn.Val, ea, eb) {
			return false
		}
		return alphaEq(an.Body, bn.Body, ea.bind(an.Arg), eb.bind(bn.Arg))
	}
	panic("term: unknown node")
}

// Hash returns an alpha-invariant hash of the term, computed once and
// cached. Equal terms have equal hashes.
func (t *Term) Hash() uint32 {
	if t.hash == 0 {
		h := hashTerm(t, nil)
		if h == 0 {
			h = 1
		}
		t.hash = h
	}
	return t.hash
}

func hashTerm(t *Term, env *binderEnv) uint32 {
	switch n := t.node.(type) {
	case Sort:
		return 0x9e3779b9
	case Ref:
		if d, ok := env.lookup(n.Id); ok {
			return mix(0x51ed270b, uint32(d))
		}
		return mix(0x2545f491, uint32(n.Id.serial))
	case App:
		return mix(mix(3, hashTerm(n.Fn, env)), hashTerm(n.Arg, env))
	case Binder:
		h := mix(uint32(5+n.Kind), hashTerm(n.Arg.ty, env))
		return mix(h, hashTerm(n.Body, env.bind(n.Arg)))
	case Let:
		h := mix(mix(11, hashTerm(n.Arg.ty, env)), hashTerm(n.Val, env))
		return mix(h, hashTerm(n.Body, env.bind(n.Arg)))
	}
	panic("term: unknown node")
}

func mix(h, x uint32) uint32 {
	return (h ^ x) * 16777619
}

// Compare totally orders terms: by variant, then structurally, with
// identifiers ordered by creation time and bound occurrences by depth.
func Compare(t, u *Term) int {
	return compareTerm(t, u, nil, nil)
}

func nodeRank(n Node) int {
	switch n.(type) {
	case Sort:
		return 0
	case Ref:
		return 1
	case App:
		return 2
	case Binder:
		return 3
	case Let:
		return 4
	}
	panic("term: unknown node")
}

func compareTerm(a, b *Term, ea, eb *binderEnv) int {
	if r := nodeRank(a.node) - nodeRank(b.node); r != 0 {
		return r
	}
	switch an := a.node.(type) {
	case Sort:
		return 0
	case Ref:
		bn := b.node.(Ref)
		da, ba := ea.lookup(an.Id)
		db, bb := eb.lookup(bn.Id)
		switch {
		case ba && bb:
			return da - db
		case ba:
			return -1
		case bb:
			return +1
		}
		return an.Id.Compare(bn.Id)
	case App:
		bn := b.node.(App)
		if c := compareTerm(an.Fn, bn.Fn, ea, eb); c != 0 {
			return c
		}
		return compareTerm(an.Arg, bn.Arg, ea, eb)
	case Binder:
		bn := b.node.(Binder)
		if c := int(an.Kind) - int(bn.Kind); c != 0 {
			return c
		}
		if c := compareTerm(an.Arg.ty, bn.Arg.ty, ea, eb); c != 0 {
			return c
		}
		return compareTerm(an.Body, bn.Body, ea.bind(an.Arg), eb.bind(bn.Arg))
	case Let:
		bn := b.node.(Let)
		if c := compareTerm(an.Arg.ty, bn.Arg.ty, ea, eb); c != 0 {
			return c
		}
		if c := compareTerm(an.Val, bn.Val, ea, eb); c != 0 {
			return c
		}
		return compareTerm(an.Body, bn.Body, ea.bind(an.Arg), eb.bind(bn.Arg))
	}
	panic("term: unknown node")
}

// Subst replaces free occurrences of the mapped identifiers by their
// images. Binders whose argument type is rewritten are rebound to a
// fresh identifier of the rewritten type; the images are assumed not
// to capture (identifiers are minted fresh, never reused as binders).
func Subst(t *Term, m map[*Id]*Term) *Term {
	if len(m) == 0 {
		return t
	}
	return subst(t, m)
}

func subst(t *Term, m map[*Id]*Term) *Term {
	switch n := t.node.(type) {
	case Sort:
		return t
	case Ref:
		if r, ok := m[n.Id]; ok {
			return r
		}
		return t
	case App:
		fn, arg := subst(n.Fn, m), subst(n.Arg, m)
		if fn == n.Fn && arg == n.Arg {
			return t
		}
		return &Term{ty: subst(t.ty, m), node: App{fn, arg}}
	case Binder:
		arg, m2 := substArg(n.Arg, m)
		body := subst(n.Body, m2)
		if arg == n.Arg && body == n.Body {
			return t
		}
		return &Term{ty: subst(t.ty, m), node: Binder{n.Kind, arg, body}}
	case Let:
		val := subst(n.Val, m)
		arg, m2 := substArg(n.Arg, m)
		body := subst(n.Body, m2)
		if arg == n.Arg && val == n.Val && body == n.Body {
			return t
		}
		return &Term{ty: subst(t.ty, m), node: Let{arg, val, body}}
	}
	panic("term: unknown node")
}

// substArg rewrites a binder's argument. If its type mentions a
// substituted identifier the argument is rebound, and the returned
// map additionally sends the old argument to the new one.
func substArg(arg *Id, m map[*Id]*Term) (*Id, map[*Id]*Term) {
	ty := subst(arg.ty, m)
	if ty == arg.ty {
		return arg, m
	}
	fresh := &Id{name: arg.name, ty: ty, defined: arg.defined}
	lastSerial++
	fresh.serial = lastSerial
	m2 := make(map[*Id]*Term, len(m)+1)
	for k, v := range m {
		m2[k] = v
	}
	m2[arg] = Var(fresh)
	return fresh, m2
}

// Reduce returns the weak head normal form of the term: top-level
// let bindings are unfolded and beta redexes contracted until the
// head is a sort, an identifier occurrence, a binder, or a stuck
// application. This is enough to expose binder shapes; it does not
// normalize under binders.
func (t *Term) Reduce() *Term {
	switch n := t.node.(type) {
	case Let:
		return Subst(n.Body, map[*Id]*Term{n.Arg: n.Val}).Reduce()
	case App:
		fn := n.Fn.Reduce()
		if b, ok := fn.node.(Binder); ok && b.Kind == Lambda {
			return Subst(b.Body, map[*Id]*Term{b.Arg: n.Arg}).Reduce()
		}
		if fn == n.Fn {
			return t
		}
		return &Term{ty: t.ty, node: App{fn, n.Arg}}
	}
	return t
}

// FreeVars returns the set of identifiers occurring free in the term.
// Types of binder arguments are included; types of the free
// identifiers themselves are not traversed.
func FreeVars(t *Term) map[*Id]bool {
	free := make(map[*Id]bool)
	freeVars(t, nil, free)
	return free
}

func freeVars(t *Term, env *binderEnv, free map[*Id]bool) {
	switch n := t.node.(type) {
	case Ref:
		if _, bound := env.lookup(n.Id); !bound {
			free[n.Id] = true
		}
	case App:
		freeVars(n.Fn, env, free)
		freeVars(n.Arg, env, free)
	case Binder:
		freeVars(n.Arg.ty, env, free)
		freeVars(n.Body, env.bind(n.Arg), free)
	case Let:
		freeVars(n.Arg.ty, env, free)
		freeVars(n.Val, env, free)
		freeVars(n.Body, env.bind(n.Arg), free)
	}
}

// Occurs reports whether id occurs free in t.
func Occurs(id *Id, t *Term) bool {
	switch n := t.node.(type) {
	case Sort:
		return false
	case Ref:
		return n.Id == id
	case App:
		return Occurs(id, n.Fn) || Occurs(id, n.Arg)
	case Binder:
		if Occurs(id, n.Arg.ty) {
			return true
		}
		return n.Arg != id && Occurs(id, n.Body)
	case Let:
		if Occurs(id, n.Arg.ty) || Occurs(id, n.Val) {
			return true
		}
		return n.Arg != id && Occurs(id, n.Body)
	}
	panic("term: unknown node")
}
