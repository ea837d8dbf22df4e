// Copyright © 2024 Galvanized Logic Inc.

package xpbd

import (
	"testing"

	"github.com/gazed/xpbd/math/lin"
)

func TestDistanceConstraintValue(t *testing.T) {
	particles := []Particle{
		{PredictPosition: lin.V3{X: 0}, W: 1},
		{PredictPosition: lin.V3{X: 3}, W: 1},
	}
	c := NewDistanceConstraint(0, 1, 0)
	c.Initialize(particles)
	if c.Value(particles) != 0 {
		t.Fatalf("value should be 0 at rest, got %f", c.Value(particles))
	}
	particles[1].PredictPosition.X = 5
	if got, want := c.Value(particles), 2.0; got != want {
		t.Errorf("want value %f, got %f", want, got)
	}
}

func TestDistanceConstraintGradientUnit(t *testing.T) {
	particles := []Particle{
		{PredictPosition: lin.V3{X: 0}, W: 1},
		{PredictPosition: lin.V3{X: 5}, W: 1},
	}
	c := NewDistanceConstraint(0, 1, 0)
	grads := make([]lin.V3, 2)
	c.Gradient(particles, grads)
	if want := (lin.V3{X: -1}); !grads[0].Aeq(&want) {
		t.Errorf("want grad0 %v, got %v", want, grads[0])
	}
	if want := (lin.V3{X: 1}); !grads[1].Aeq(&want) {
		t.Errorf("want grad1 %v, got %v", want, grads[1])
	}
}

func TestDistanceConstraintPullsTogether(t *testing.T) {
	particles := []Particle{
		{Position: lin.V3{X: 0}, PredictPosition: lin.V3{X: 0}, W: 0},
		{Position: lin.V3{X: 1}, PredictPosition: lin.V3{X: 3}, W: 1},
	}
	c := NewDistanceConstraint(0, 1, 0)
	c.Initialize([]Particle{
		{PredictPosition: lin.V3{X: 0}},
		{PredictPosition: lin.V3{X: 1}},
	})
	data := &ConstraintData{Grads: make([]lin.V3, 2)}
	c.Gradient(particles, data.Grads)
	dl := c.DeltaLambda(particles, data)
	if dl >= 0 {
		t.Errorf("want negative delta lambda pulling particles together, got %f", dl)
	}
}
