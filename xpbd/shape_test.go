// Copyright © 2024 Galvanized Logic Inc.

package xpbd

import "testing"

func TestShapeSetSwapRemove(t *testing.T) {
	var set shapeSet[int]
	a := set.add(10)
	b := set.add(20)
	c := set.add(30)
	_ = a

	removed, ok := set.remove(b)
	if !ok || removed != 20 {
		t.Fatalf("want removed 20, got %d ok=%v", removed, ok)
	}
	if got := set.all(); len(got) != 2 {
		t.Fatalf("want 2 remaining shapes, got %d", len(got))
	}
	// swap-remove moved id c (30) into slot b.
	if set.all()[b] != 30 {
		t.Errorf("want swapped-in value 30 at slot %d, got %d", b, set.all()[b])
	}
	_ = c
}

func TestShapeSetRemoveOutOfRange(t *testing.T) {
	var set shapeSet[int]
	set.add(1)
	if _, ok := set.remove(5); ok {
		t.Errorf("remove of an out-of-range id should report false")
	}
}

func TestShapeRegistryClear(t *testing.T) {
	var r shapeRegistry
	r.spheres.add(Sphere{Radius: 1})
	r.planes.add(InfinitePlane{})
	r.clear()
	if len(r.spheres.all()) != 0 || len(r.planes.all()) != 0 {
		t.Errorf("clear should empty both shape sets")
	}
}
