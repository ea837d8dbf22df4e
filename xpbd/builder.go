// Copyright © 2024 Galvanized Logic Inc.

package xpbd

import "github.com/gazed/xpbd/math/lin"

// Builder assembles an XPBD simulation from particle state, an initial
// constraint system, and solver tuning, validating everything at Build
// time rather than leaving a caller to discover a bad configuration
// mid-simulation.
type Builder struct {
	positions []lin.V3
	masses    []float64

	dt           float64
	iterateCount int

	distance []*DistanceConstraint
	bend     []*TriangleBendConstraint

	bounciness            float64
	dynamicFrictionFactor float64
}

// NewBuilder starts a Builder with one particle per entry in positions
// and masses (which must be the same length, checked at Build time).
func NewBuilder(positions []lin.V3, masses []float64) *Builder {
	return &Builder{
		positions:    positions,
		masses:       masses,
		dt:           1.0 / 60.0,
		iterateCount: 1,
	}
}

// Timing sets the fixed step size and the number of Gauss-Seidel solver
// iterations run per step. iterateCount is clamped to at least 1.
func (b *Builder) Timing(dt float64, iterateCount int) *Builder {
	b.dt = dt
	if iterateCount < 1 {
		iterateCount = 1
	}
	b.iterateCount = iterateCount
	return b
}

// Contact sets the restitution (bounciness) and dynamic friction factor
// applied during contact response.
func (b *Builder) Contact(bounciness, dynamicFrictionFactor float64) *Builder {
	b.bounciness = bounciness
	b.dynamicFrictionFactor = dynamicFrictionFactor
	return b
}

// DistanceConstraints adds to the initial set of distance constraints.
func (b *Builder) DistanceConstraints(cs ...*DistanceConstraint) *Builder {
	b.distance = append(b.distance, cs...)
	return b
}

// BendConstraints adds to the initial set of triangle-bend constraints.
func (b *Builder) BendConstraints(cs ...*TriangleBendConstraint) *Builder {
	b.bend = append(b.bend, cs...)
	return b
}

// Build validates the accumulated configuration and produces a ready to
// run XPBD simulation. Every rest-state quantity (distance and bend rest
// values) is computed once here, from the initial positions.
func (b *Builder) Build() (*XPBD, error) {
	particles, err := buildParticles(b.positions, b.masses)
	if err != nil {
		return nil, err
	}
	if b.dt <= 0 {
		return nil, newBuildError(InvalidTiming, -1, ErrInvalidTiming)
	}

	distance := NewGroup(b.distance)
	bend := NewGroup(b.bend)
	collisions := NewGroup([]*CollisionConstraint(nil))

	distance.initialize(particles)
	bend.initialize(particles)

	x := &XPBD{
		dt:                    b.dt,
		iterateCount:          b.iterateCount,
		particles:             particles,
		distance:              distance,
		bend:                  bend,
		collisions:            collisions,
		groups:                []constraintGroup{distance, bend, collisions},
		attached:              make(map[int]float64),
		bounciness:            b.bounciness,
		dynamicFrictionFactor: b.dynamicFrictionFactor,
	}
	return x, nil
}
