// Copyright © 2024 Galvanized Logic Inc.

package xpbd

import (
	"testing"

	"github.com/gazed/xpbd/math/lin"
)

func TestGroupPushAndSwapRemove(t *testing.T) {
	g := NewGroup([]*DistanceConstraint{NewDistanceConstraint(0, 1, 0)})
	g.Push(NewDistanceConstraint(1, 2, 0))
	g.Push(NewDistanceConstraint(2, 3, 0))
	if len(g.Defines) != 3 || len(g.Datas) != 3 {
		t.Fatalf("want 3 constraints after two pushes, got %d/%d", len(g.Defines), len(g.Datas))
	}

	g.SwapRemove(0)
	if len(g.Defines) != 2 {
		t.Fatalf("want 2 constraints after SwapRemove, got %d", len(g.Defines))
	}
	if g.Defines[0].indices[0] != 2 {
		t.Errorf("want last constraint swapped into slot 0, got indices %v", g.Defines[0].indices)
	}
}

func TestGroupClear(t *testing.T) {
	g := NewGroup([]*DistanceConstraint{NewDistanceConstraint(0, 1, 0)})
	g.Clear()
	if len(g.Defines) != 0 || len(g.Datas) != 0 {
		t.Errorf("want empty group after Clear")
	}
}

func TestGroupCalculateCacheIsLazy(t *testing.T) {
	g := NewGroup([]*DistanceConstraint{NewDistanceConstraint(0, 1, 0.5)})
	g.Datas[0].CacheDirty = true
	g.calculateCache(1.0 / 60.0)
	if g.Datas[0].CacheDirty {
		t.Fatalf("calculateCache should clear the dirty flag")
	}
	wantAlpha := 0.5 / ((1.0 / 60.0) * (1.0 / 60.0))
	if !lin.Aeq(g.Datas[0].Alpha, wantAlpha) {
		t.Errorf("want alpha %f, got %f", wantAlpha, g.Datas[0].Alpha)
	}

	g.Datas[0].Alpha = -1
	g.calculateCache(1.0 / 60.0)
	if g.Datas[0].Alpha != -1 {
		t.Errorf("calculateCache should skip a clean entry, alpha was overwritten")
	}
}

func TestGenericDeltaLambdaFloorsDenominator(t *testing.T) {
	particles := []Particle{
		{PredictPosition: lin.V3{Y: -1}, W: 1},
	}
	c := newCollisionConstraint(0, lin.V3{}, lin.V3{Y: 1})
	data := &ConstraintData{Grads: []lin.V3{{}}}
	dl := genericDeltaLambda(c, particles, data)
	if dl == 0 {
		t.Errorf("want nonzero delta lambda from a penetrating contact with zero gradients")
	}
}
