// Copyright © 2024 Galvanized Logic Inc.

package xpbd

import (
	"math"

	"github.com/gazed/xpbd/math/lin"
)

// CollisionConstraint is an ephemeral one-particle half-space
// penetration constraint generated fresh by the collide phase of every
// step. It is never persisted across steps and never carries a
// lambda forward: the collision group is cleared and rebuilt each step.
type CollisionConstraint struct {
	index           int
	contactPosition lin.V3
	contactNormal   lin.V3
}

func newCollisionConstraint(index int, contactPosition, contactNormal lin.V3) *CollisionConstraint {
	return &CollisionConstraint{index: index, contactPosition: contactPosition, contactNormal: contactNormal}
}

func (c *CollisionConstraint) Arity() int            { return 1 }
func (c *CollisionConstraint) StiffnessInv() float64 { return 0 }
func (c *CollisionConstraint) Indices() []int        { return []int{c.index} }

// Initialize is a no-op: collision constraints have no rest state, they
// are defined entirely by the contact that produced them.
func (c *CollisionConstraint) Initialize(particles []Particle) {}

func (c *CollisionConstraint) Value(particles []Particle) float64 {
	pos := particles[c.index].PredictPosition
	toContact := lin.NewV3().Sub(&c.contactPosition, &pos)
	return math.Max(toContact.Dot(&c.contactNormal), 0)
}

func (c *CollisionConstraint) Gradient(particles []Particle, out []lin.V3) {
	pos := particles[c.index].PredictPosition
	grad := lin.NewV3().Sub(&pos, &c.contactPosition).UnitOr(normalizeEps, lin.NewV3S(0, 1, 0))
	out[0] = *grad
}

// DeltaLambda falls back to the generic formula: stiffnessInv is
// always 0 so Alpha is always 0, making this a hard constraint clamped
// only by the shared denominator floor.
func (c *CollisionConstraint) DeltaLambda(particles []Particle, data *ConstraintData) float64 {
	return genericDeltaLambda(c, particles, data)
}
