// Copyright © 2024 Galvanized Logic Inc.

package xpbd

import (
	"errors"
	"testing"

	"github.com/gazed/xpbd/math/lin"
)

func TestBuildShapeMismatch(t *testing.T) {
	positions := []lin.V3{{}, {}}
	masses := []float64{1}
	_, err := NewBuilder(positions, masses).Build()
	if !errors.Is(err, ErrShapeMismatch) {
		t.Fatalf("want ErrShapeMismatch, got %v", err)
	}
}

func TestBuildNonPositiveMass(t *testing.T) {
	positions := []lin.V3{{}, {}}
	masses := []float64{1, 0}
	_, err := NewBuilder(positions, masses).Build()
	if !errors.Is(err, ErrNonPositiveMass) {
		t.Fatalf("want ErrNonPositiveMass, got %v", err)
	}
	var be *BuildError
	if !errors.As(err, &be) || be.Index != 1 {
		t.Fatalf("want BuildError at index 1, got %v", err)
	}
}

func TestBuildInvalidTiming(t *testing.T) {
	positions := []lin.V3{{}}
	masses := []float64{1}
	_, err := NewBuilder(positions, masses).Timing(0, 4).Build()
	if !errors.Is(err, ErrInvalidTiming) {
		t.Fatalf("want ErrInvalidTiming, got %v", err)
	}
}

func TestBuildIterateCountClamped(t *testing.T) {
	positions := []lin.V3{{}}
	masses := []float64{1}
	x, err := NewBuilder(positions, masses).Timing(1.0/60.0, -3).Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if x.iterateCount != 1 {
		t.Errorf("want iterateCount clamped to 1, got %d", x.iterateCount)
	}
}

func TestBuildInitializesDistanceRest(t *testing.T) {
	positions := []lin.V3{{X: 0}, {X: 2}}
	masses := []float64{1, 1}
	dc := NewDistanceConstraint(0, 1, 0)
	x, err := NewBuilder(positions, masses).
		Timing(1.0/60.0, 4).
		DistanceConstraints(dc).
		Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dc.rest != 2 {
		t.Errorf("want rest distance 2, got %f", dc.rest)
	}
	if len(x.distance.Defines) != 1 {
		t.Errorf("want 1 distance constraint, got %d", len(x.distance.Defines))
	}
}
