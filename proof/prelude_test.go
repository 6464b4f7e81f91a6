// Copyright 2024 The Archsat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package proof

import (
	"testing"

	"github.com/gburel/archsat/term"
	"github.com/google/go-cmp/cmp"
)

func TestEmitPrelude(t *testing.T) {
	reg := NewRegistry()
	a := reg.Require("A")
	b := reg.Require("B", a)
	c := reg.Alias(term.NewConst("c", term.Prop), term.Prop, a)
	d := reg.Require("D") // registered but never requested

	collect := func(used ...*Prelude) []*Prelude {
		var got []*Prelude
		reg.EmitPrelude(used, func(p *Prelude) { got = append(got, p) })
		return got
	}

	// A is emitted exactly once, before both dependents, regardless
	// of request order; D is never emitted.
	for _, used := range [][]*Prelude{
		{b, c},
		{c, b},
		{b, c, b, a},
	} {
		got := collect(used...)
		want := []*Prelude{a, b, c}
		if diff := cmp.Diff(want, got, cmp.Comparer(func(x, y *Prelude) bool { return x == y })); diff != "" {
			t.Errorf("EmitPrelude(%v) mismatch (-want +got):\n%s", used, diff)
		}
	}

	if got := collect(b); len(got) != 2 || got[0] != a || got[1] != b {
		t.Errorf("EmitPrelude(B) = %v, want [A B]", got)
	}
	if got := collect(d); len(got) != 1 || got[0] != d {
		t.Errorf("EmitPrelude(D) = %v, want [D]", got)
	}
	if got := collect(); got != nil {
		t.Errorf("EmitPrelude() = %v, want nothing", got)
	}
}

func TestPreludeAccessors(t *testing.T) {
	reg := NewRegistry()
	id := term.NewConst("alias", term.Prop)
	r := reg.Require("Unit")
	al := reg.Alias(id, term.Prop)

	if r.Unit() != "Unit" {
		t.Errorf("Unit() = %q", r.Unit())
	}
	if gotID, gotVal := al.Alias(); gotID != id || gotVal != term.Prop {
		t.Errorf("Alias() = %v, %v", gotID, gotVal)
	}
	if al.Unit() != "" {
		t.Errorf("alias entry reports unit %q", al.Unit())
	}
}
