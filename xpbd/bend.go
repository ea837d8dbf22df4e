// Copyright © 2024 Galvanized Logic Inc.

package xpbd

import (
	"math"

	"github.com/gazed/xpbd/math/lin"
)

// TriangleBendConstraint drives the dihedral angle between two triangles
// sharing edge (p1,p2) toward the angle they had at initialization. The
// constraint value is θ − θ_rest (not cosθ − cosθ_rest); this sign
// convention changes the effective stiffness mapping and is kept on
// purpose.
type TriangleBendConstraint struct {
	indices      [4]int
	stiffnessInv float64
	rest         float64
}

// NewTriangleBendConstraint builds a bend constraint over particles
// (p1,p2,p3,p4) forming triangles (p1,p2,p3) and (p1,p2,p4).
func NewTriangleBendConstraint(p1, p2, p3, p4 int, stiffnessInv float64) *TriangleBendConstraint {
	return &TriangleBendConstraint{indices: [4]int{p1, p2, p3, p4}, stiffnessInv: stiffnessInv}
}

func (c *TriangleBendConstraint) Arity() int            { return 4 }
func (c *TriangleBendConstraint) StiffnessInv() float64 { return c.stiffnessInv }
func (c *TriangleBendConstraint) Indices() []int        { return c.indices[:] }

// relativePositions returns p2,p3,p4 taken relative to p1.
func (c *TriangleBendConstraint) relativePositions(particles []Particle) (p2, p3, p4 lin.V3) {
	p1 := particles[c.indices[0]].PredictPosition
	p2 = particles[c.indices[1]].PredictPosition
	p3 = particles[c.indices[2]].PredictPosition
	p4 = particles[c.indices[3]].PredictPosition
	p2.Sub(&p2, &p1)
	p3.Sub(&p3, &p1)
	p4.Sub(&p4, &p1)
	return
}

func (c *TriangleBendConstraint) normals(particles []Particle) (n1, n2 lin.V3) {
	p2, p3, p4 := c.relativePositions(particles)
	n1 = *lin.NewV3().Cross(&p2, &p3).Unit()
	n2 = *lin.NewV3().Cross(&p2, &p4).Unit()
	return
}

func (c *TriangleBendConstraint) angle(particles []Particle) float64 {
	n1, n2 := c.normals(particles)
	d := lin.Clamp(n1.Dot(&n2), -1, 1)
	return math.Acos(d)
}

func (c *TriangleBendConstraint) Initialize(particles []Particle) {
	c.rest = c.angle(particles)
}

func (c *TriangleBendConstraint) Value(particles []Particle) float64 {
	return c.angle(particles) - c.rest
}

// qsAndD computes the Bridson-style q1..q4 gradient basis vectors and the
// shared d = n̂₁·n̂₂ term.
func (c *TriangleBendConstraint) qsAndD(particles []Particle) (q1, q2, q3, q4 lin.V3, d float64) {
	p2, p3, p4 := c.relativePositions(particles)
	n1 := *lin.NewV3().Cross(&p2, &p3).Unit()
	n2 := *lin.NewV3().Cross(&p2, &p4).Unit()
	d = lin.Clamp(n1.Dot(&n2), -1, 1)

	p2xp3Norm := lin.NewV3().Cross(&p2, &p3).Len()
	p2xp4Norm := lin.NewV3().Cross(&p2, &p4).Len()

	// q3 = (p2×n2 + (n1×p2)·d) / ‖p2×p3‖
	q3 = *lin.NewV3().Add(
		lin.NewV3().Cross(&p2, &n2),
		lin.NewV3().Scale(lin.NewV3().Cross(&n1, &p2), d),
	).Div(p2xp3Norm)

	// q4 = (p2×n1 + (n2×p2)·d) / ‖p2×p4‖
	q4 = *lin.NewV3().Add(
		lin.NewV3().Cross(&p2, &n1),
		lin.NewV3().Scale(lin.NewV3().Cross(&n2, &p2), d),
	).Div(p2xp4Norm)

	// q2 = −(p3×n2 + (n1×p3)·d)/‖p2×p3‖ − (p4×n1 + (n2×p4)·d)/‖p2×p4‖
	term1 := lin.NewV3().Add(
		lin.NewV3().Cross(&p3, &n2),
		lin.NewV3().Scale(lin.NewV3().Cross(&n1, &p3), d),
	).Div(p2xp3Norm)
	term2 := lin.NewV3().Add(
		lin.NewV3().Cross(&p4, &n1),
		lin.NewV3().Scale(lin.NewV3().Cross(&n2, &p4), d),
	).Div(p2xp4Norm)
	q2 = *lin.NewV3().Scale(lin.NewV3().Add(term1, term2), -1)

	// q1 = −q2 − q3 − q4
	q1 = *lin.NewV3().Scale(lin.NewV3().Add(lin.NewV3().Add(&q2, &q3), &q4), -1)
	return
}

func (c *TriangleBendConstraint) Gradient(particles []Particle, out []lin.V3) {
	q1, q2, q3, q4, d := c.qsAndD(particles)
	oneMinusD2 := 1 - d*d
	e := 1.0
	if oneMinusD2 > 0 {
		e = 1.0 / math.Sqrt(oneMinusD2)
	}
	e = math.Min(math.Max(e, -math.MaxFloat64), math.MaxFloat64)
	out[0] = *lin.NewV3().Scale(&q1, e)
	out[1] = *lin.NewV3().Scale(&q2, e)
	out[2] = *lin.NewV3().Scale(&q3, e)
	out[3] = *lin.NewV3().Scale(&q4, e)
}

// DeltaLambda implements the bend specialization: numerator and
// denominator are both multiplied by (1−d²) to cancel the 1/√(1−d²)
// singularity in Gradient. Required for flat (d≈±1) configurations.
func (c *TriangleBendConstraint) DeltaLambda(particles []Particle, data *ConstraintData) float64 {
	value := c.Value(particles)
	q1, q2, q3, q4, d := c.qsAndD(particles)
	qs := [4]lin.V3{q1, q2, q3, q4}
	oneMinusD2 := 1 - d*d

	sumGWG := 0.0
	for i, pIndex := range c.indices {
		q := qs[i]
		sumGWG += particles[pIndex].W * q.Dot(&q)
	}

	numerator := -(data.Alpha*data.Lambda + value) * oneMinusD2
	denominator := sumGWG + data.Alpha*oneMinusD2
	if denominator == 0 {
		return 0
	}
	return numerator / denominator
}
