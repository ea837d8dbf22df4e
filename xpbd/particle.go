// Copyright © 2024 Galvanized Logic Inc.

package xpbd

import "github.com/gazed/xpbd/math/lin"

// particleAttached marks a particle as externally pinned: its inverse
// mass is forced to zero and the field acceleration step skips it.
const particleAttached uint8 = 1 << 0

// Particle is a zero-volume point mass advanced by the XPBD solver.
// Indices into the particle slice are the only way constraints and
// collisions reference a particle; there is no pointer graph.
type Particle struct {
	Position        lin.V3
	PredictPosition lin.V3
	Velocity        lin.V3
	DPosition       lin.V3

	// W is the inverse mass, 1/mass. W == 0 means infinite mass (fixed).
	W float64

	flag uint8
}

// Attached reports whether the particle is currently pinned by attach().
func (p *Particle) Attached() bool { return p.flag&particleAttached != 0 }

// buildParticles constructs the dense particle array from parallel
// positions/masses slices, failing if the lengths disagree or any mass
// is not strictly positive.
func buildParticles(positions []lin.V3, masses []float64) ([]Particle, error) {
	if len(positions) != len(masses) {
		return nil, newBuildError(ShapeMismatch, -1, ErrShapeMismatch)
	}
	particles := make([]Particle, len(positions))
	for i, pos := range positions {
		mass := masses[i]
		if mass <= 0 {
			return nil, newBuildError(NonPositiveMass, i, ErrNonPositiveMass)
		}
		particles[i] = Particle{
			Position:        pos,
			PredictPosition: pos,
			W:               1.0 / mass,
		}
	}
	return particles, nil
}

// clearDPositions zeroes the per-iteration position accumulator of every
// particle. Called once in each solver iteration, just before the
// constraints accumulate their position deltas, never once per step.
func clearDPositions(particles []Particle) {
	for i := range particles {
		particles[i].DPosition = lin.V3{}
	}
}
