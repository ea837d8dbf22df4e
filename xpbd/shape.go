// Copyright © 2024 Galvanized Logic Inc.

package xpbd

import "github.com/gazed/xpbd/math/lin"

// Sphere is an analytic collider: a ball of the given radius centered
// at center.
type Sphere struct {
	Center lin.V3
	Radius float64
}

// InfinitePlane is an analytic half-space collider described by the
// implicit form Normal·x + Offset = 0. Normal is expected to be unit
// length; registering a non-unit normal is a builder-side programmer
// error, not one this package detects.
type InfinitePlane struct {
	Normal lin.V3
	Offset float64
}

// shapeSet is an ordered, swap-remove collection of analytic shapes of
// one kind. Ids handed out by add are only valid until the next remove
// or clear call invalidates them.
type shapeSet[T any] struct {
	shapes []T
}

func (s *shapeSet[T]) add(shape T) int {
	s.shapes = append(s.shapes, shape)
	return len(s.shapes) - 1
}

// remove swap-removes the shape at id, returning it and true if id was
// in range, or the zero value and false otherwise.
func (s *shapeSet[T]) remove(id int) (T, bool) {
	var zero T
	if id < 0 || id >= len(s.shapes) {
		return zero, false
	}
	removed := s.shapes[id]
	last := len(s.shapes) - 1
	s.shapes[id] = s.shapes[last]
	s.shapes = s.shapes[:last]
	return removed, true
}

func (s *shapeSet[T]) clear() { s.shapes = s.shapes[:0] }

func (s *shapeSet[T]) all() []T { return s.shapes }

// shapeRegistry owns every analytic collider the simulation tests
// particles against. Spheres are queried before planes.
type shapeRegistry struct {
	spheres shapeSet[Sphere]
	planes  shapeSet[InfinitePlane]
}

func (r *shapeRegistry) clear() {
	r.spheres.clear()
	r.planes.clear()
}
