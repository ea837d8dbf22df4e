// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package lin

import "testing"

func TestDotCross(t *testing.T) {
	a, b := NewV3S(1, 0, 0), NewV3S(0, 1, 0)
	if got := a.Dot(b); got != 0 {
		t.Errorf("Dot(x,y) should be 0, got %f", got)
	}
	c := NewV3().Cross(a, b)
	if want := (&V3{0, 0, 1}); !c.Eq(want) {
		t.Errorf("Cross(x,y) should be %v, got %v", want, c)
	}
}

func TestLen(t *testing.T) {
	v := NewV3S(3, 4, 0)
	if got := v.Len(); got != 5 {
		t.Errorf("Len should be 5, got %f", got)
	}
}

func TestUnit(t *testing.T) {
	v := NewV3S(0, 5, 0)
	v.Unit()
	if want := (&V3{0, 1, 0}); !v.Aeq(want) {
		t.Errorf("Unit should be %v, got %v", want, v)
	}
}

func TestUnitZeroUnchanged(t *testing.T) {
	v := NewV3()
	v.Unit()
	if want := (&V3{}); !v.Eq(want) {
		t.Errorf("Unit of zero vector should stay zero, got %v", v)
	}
}

func TestUnitOrFallback(t *testing.T) {
	v := NewV3S(0, 0, 0)
	fallback := NewV3S(0, 1, 0)
	v.UnitOr(1e-3, fallback)
	if !v.Eq(fallback) {
		t.Errorf("UnitOr on a degenerate vector should use fallback %v, got %v", fallback, v)
	}
}

func TestUnitOrNormalizes(t *testing.T) {
	v := NewV3S(0, 2, 0)
	v.UnitOr(1e-3, NewV3S(1, 0, 0))
	if want := (&V3{0, 1, 0}); !v.Aeq(want) {
		t.Errorf("UnitOr should normalize when above epsilon, got %v", v)
	}
}
