// Copyright © 2024 Galvanized Logic Inc.

package xpbd

import (
	"math"

	"github.com/gazed/xpbd/math/lin"
)

// denomFloor keeps the generic delta-lambda denominator from dividing by
// (near) zero on a degenerate gradient. The distance specialization does
// not use this floor — see DistanceConstraint.DeltaLambda.
const denomFloor = 1e-4

// Constraint is the contract every holonomic constraint kind satisfies.
// Arity is fixed per kind (2 for distance, 4 for bend, 1 for collision);
// Indices returns exactly that many particle indices. Gradients are
// always evaluated against PredictPosition, never the committed Position.
type Constraint interface {
	Arity() int
	StiffnessInv() float64
	Indices() []int
	Initialize(particles []Particle)
	Value(particles []Particle) float64
	Gradient(particles []Particle, out []lin.V3)

	// DeltaLambda computes this iteration's Δλ for the constraint using
	// data.Grads (already populated by Gradient) and data.Alpha/Lambda.
	// Each kind implements its own specialization; genericDeltaLambda is
	// the shared fallback used by constraints with no closed-form shortcut.
	DeltaLambda(particles []Particle, data *ConstraintData) float64
}

// ConstraintData is the per-constraint mutable solver state: the running
// Lagrange multiplier, the multiplier delta computed this iteration, the
// cached per-particle gradients, and the cached compliance term. Grads is
// allocated once to Arity length and reused across iterations.
type ConstraintData struct {
	Lambda     float64
	DLambda    float64
	Grads      []lin.V3
	Alpha      float64
	CacheDirty bool
}

// genericDeltaLambda implements the general XPBD update:
//
//	Δλ = −(α·λ + C) / (Σᵢ wᵢ·‖∇ᵢC‖² + α)
//
// with the denominator floored at denomFloor and each ‖∇ᵢC‖² clamped to
// the representable float range.
func genericDeltaLambda(c Constraint, particles []Particle, data *ConstraintData) float64 {
	value := c.Value(particles)
	sumGWG := 0.0
	for i, pIndex := range c.Indices() {
		grad := data.Grads[i]
		w := particles[pIndex].W
		gg := math.Min(math.Max(grad.Dot(&grad), -math.MaxFloat64), math.MaxFloat64)
		sumGWG += w * gg
	}
	denom := math.Max(sumGWG+data.Alpha, denomFloor)
	return -(data.Alpha*data.Lambda + value) / denom
}

// constraintGroup is the uniform, type-erased phase interface the
// composite solver drives. Group[T] is the only implementation; keeping
// this as an interface (rather than a variadic-tuple generic, which Go
// cannot express) is what lets the solver hold user constraint groups
// and the collision group in one fixed-order slice.
type constraintGroup interface {
	initialize(particles []Particle)
	calculateCache(dt float64)
	clearLambdas()
	calculateGradients(particles []Particle)
	calculateDeltaLambdas(particles []Particle)
	calculateDPositions(particles []Particle)
	updateLambdas()
}

// Group holds every constraint of one arity-homogeneous kind T alongside
// its parallel solver-state slice. |Defines| == |Datas| always.
type Group[T Constraint] struct {
	Defines []T
	Datas   []ConstraintData
}

// NewGroup wraps an initial list of constraints (e.g. the user's
// distance constraints supplied at build time) into a Group. Every entry
// starts with a dirty cache, so its alpha and gradient buffer are filled
// in by the first calculateCache.
func NewGroup[T Constraint](defines []T) *Group[T] {
	datas := make([]ConstraintData, len(defines))
	for i := range datas {
		datas[i].CacheDirty = true
	}
	return &Group[T]{
		Defines: defines,
		Datas:   datas,
	}
}

// Push appends a constraint with fresh solver state.
func (g *Group[T]) Push(c T) {
	g.Defines = append(g.Defines, c)
	g.Datas = append(g.Datas, ConstraintData{CacheDirty: true})
}

// SwapRemove removes the constraint at index i by swapping in the last
// element. Indices into this group are not stable across a SwapRemove.
func (g *Group[T]) SwapRemove(i int) {
	last := len(g.Defines) - 1
	g.Defines[i] = g.Defines[last]
	g.Datas[i] = g.Datas[last]
	g.Defines = g.Defines[:last]
	g.Datas = g.Datas[:last]
}

// Clear drops every constraint from the group, retaining capacity.
func (g *Group[T]) Clear() {
	g.Defines = g.Defines[:0]
	g.Datas = g.Datas[:0]
}

func (g *Group[T]) initialize(particles []Particle) {
	for i := range g.Defines {
		g.Defines[i].Initialize(particles)
	}
}

func (g *Group[T]) calculateCache(dt float64) {
	for i := range g.Datas {
		data := &g.Datas[i]
		if !data.CacheDirty {
			continue
		}
		data.CacheDirty = false
		data.Alpha = g.Defines[i].StiffnessInv() / (dt * dt)
		data.Grads = make([]lin.V3, g.Defines[i].Arity())
	}
}

func (g *Group[T]) clearLambdas() {
	for i := range g.Datas {
		g.Datas[i].Lambda = 0
	}
}

func (g *Group[T]) calculateGradients(particles []Particle) {
	for i := range g.Defines {
		g.Defines[i].Gradient(particles, g.Datas[i].Grads)
	}
}

func (g *Group[T]) calculateDeltaLambdas(particles []Particle) {
	for i := range g.Defines {
		g.Datas[i].DLambda = g.Defines[i].DeltaLambda(particles, &g.Datas[i])
	}
}

func (g *Group[T]) calculateDPositions(particles []Particle) {
	for i := range g.Defines {
		data := &g.Datas[i]
		for gi, pIndex := range g.Defines[i].Indices() {
			p := &particles[pIndex]
			d := lin.NewV3().Scale(&data.Grads[gi], p.W*data.DLambda)
			p.DPosition.Add(&p.DPosition, d)
		}
	}
}

func (g *Group[T]) updateLambdas() {
	for i := range g.Datas {
		g.Datas[i].Lambda += g.Datas[i].DLambda
	}
}
