// Copyright © 2024 Galvanized Logic Inc.

package xpbd

import "github.com/gazed/xpbd/math/lin"

// DistanceConstraint drives the Euclidean distance between two particles
// toward the distance they had when the constraint was initialized.
type DistanceConstraint struct {
	indices      [2]int
	stiffnessInv float64
	rest         float64
}

// NewDistanceConstraint builds a distance constraint between particles
// i and j. stiffnessInv of 0 is a hard (infinitely stiff) rod; larger
// values are softer.
func NewDistanceConstraint(i, j int, stiffnessInv float64) *DistanceConstraint {
	return &DistanceConstraint{indices: [2]int{i, j}, stiffnessInv: stiffnessInv}
}

func (c *DistanceConstraint) Arity() int             { return 2 }
func (c *DistanceConstraint) StiffnessInv() float64  { return c.stiffnessInv }
func (c *DistanceConstraint) Indices() []int         { return c.indices[:] }

func (c *DistanceConstraint) distance(particles []Particle) float64 {
	p0 := particles[c.indices[0]].PredictPosition
	p1 := particles[c.indices[1]].PredictPosition
	return p0.Dist(&p1)
}

func (c *DistanceConstraint) Initialize(particles []Particle) {
	c.rest = c.distance(particles)
}

func (c *DistanceConstraint) Value(particles []Particle) float64 {
	return c.distance(particles) - c.rest
}

func (c *DistanceConstraint) Gradient(particles []Particle, out []lin.V3) {
	p0 := particles[c.indices[0]].PredictPosition
	p1 := particles[c.indices[1]].PredictPosition
	n := lin.NewV3().Sub(&p0, &p1).UnitOr(normalizeEps, lin.NewV3S(0, 1, 0))
	out[0] = *n
	out[1] = *lin.NewV3().Scale(n, -1)
}

// DeltaLambda implements the distance specialization: because
// the gradients are unit vectors, Σwᵢ‖∇ᵢC‖² collapses to Σwᵢ and the
// denominator is not floored — it ships verbatim, unclamped.
func (c *DistanceConstraint) DeltaLambda(particles []Particle, data *ConstraintData) float64 {
	value := c.Value(particles)
	sumW := particles[c.indices[0]].W + particles[c.indices[1]].W
	denom := sumW + data.Alpha
	return -(data.Alpha*data.Lambda + value) / denom
}
