// Copyright © 2024 Galvanized Logic Inc.

// Package xpbd is a real-time simulation of particle systems under
// Extended Position-Based Dynamics (XPBD). It advances point masses
// under field forces, projects a user-supplied system of distance and
// triangle-bend constraints, and resolves collisions against analytic
// spheres and infinite planes.
package xpbd

import (
	"github.com/gazed/xpbd/math/lin"
)

// contactLift is the small push away from a collision surface applied
// during contact response, to prevent immediate re-penetration. It is a
// fixed tuning constant rather than a builder field, to preserve test
// parity; a fork wanting to expose it would add a Builder.ContactLift
// field defaulting to this value.
const contactLift = 0.05

// XPBD is a running particle simulation. It exclusively owns its
// particle store, constraint groups, collision group, shape registry,
// and attachment map; Update is a blocking, single-threaded call with no
// suspension points, and must not run concurrently with any mutator
// (attach/detach, collider or force changes).
type XPBD struct {
	dt           float64
	iterateCount int

	fieldForce        lin.V3
	fieldAcceleration lin.V3

	particles []Particle

	distance   *Group[*DistanceConstraint]
	bend       *Group[*TriangleBendConstraint]
	collisions *Group[*CollisionConstraint]

	// groups lists every constraint group in fixed declaration order:
	// user groups first (distance, then bend), collisions always last.
	// This order is walked identically in every solve phase.
	groups []constraintGroup

	shapes   shapeRegistry
	attached map[int]float64

	bounciness            float64
	dynamicFrictionFactor float64
}

// Distance returns the live distance-constraint group, for mutation
// (e.g. SwapRemove) between steps.
func (x *XPBD) Distance() *Group[*DistanceConstraint] { return x.distance }

// Bend returns the live triangle-bend-constraint group, for mutation
// between steps.
func (x *XPBD) Bend() *Group[*TriangleBendConstraint] { return x.bend }

// Update runs one simulation tick: predict, collide, project, commit,
// then contact response, in that strict order.
func (x *XPBD) Update() {
	x.predict()
	x.collide()
	x.project()
	x.commit()
	x.respondToContacts()
}

func (x *XPBD) predict() {
	ff, fa := x.fieldForce, x.fieldAcceleration
	for i := range x.particles {
		p := &x.particles[i]
		accel := *lin.NewV3().Scale(&ff, p.W)
		if !p.Attached() {
			accel.Add(&accel, &fa)
		}
		dtv := lin.NewV3().Scale(&p.Velocity, x.dt)
		dt2a := lin.NewV3().Scale(&accel, x.dt*x.dt)
		p.PredictPosition = *lin.NewV3().Add(&p.Position, lin.NewV3().Add(dtv, dt2a))
	}
}

// collide clears the collision group and repopulates it by testing
// every particle's predict position against every registered shape,
// spheres before planes, in registry order.
func (x *XPBD) collide() {
	x.collisions.Clear()
	for i := range x.particles {
		pos := x.particles[i].PredictPosition
		for _, s := range x.shapes.spheres.all() {
			x.tryAddCollision(i, s.closestSurfacePoint(pos))
		}
		for _, pl := range x.shapes.planes.all() {
			x.tryAddCollision(i, pl.closestSurfacePoint(pos))
		}
	}
}

func (x *XPBD) tryAddCollision(index int, info ContactInfo) {
	if info.Contacted {
		x.collisions.Push(newCollisionConstraint(index, info.ContactPosition, info.ContactNormal))
	}
}

// project runs the composite solver loop for iterateCount
// iterations over every group in declaration order.
func (x *XPBD) project() {
	for _, g := range x.groups {
		g.clearLambdas()
	}
	for _, g := range x.groups {
		g.calculateCache(x.dt)
	}
	for iter := 0; iter < x.iterateCount; iter++ {
		for _, g := range x.groups {
			g.calculateGradients(x.particles)
		}
		for _, g := range x.groups {
			g.calculateDeltaLambdas(x.particles)
		}
		clearDPositions(x.particles)
		for _, g := range x.groups {
			g.calculateDPositions(x.particles)
		}
		for i := range x.particles {
			p := &x.particles[i]
			p.PredictPosition.Add(&p.PredictPosition, &p.DPosition)
		}
		for _, g := range x.groups {
			g.updateLambdas()
		}
	}
}

func (x *XPBD) commit() {
	for i := range x.particles {
		p := &x.particles[i]
		delta := lin.NewV3().Sub(&p.PredictPosition, &p.Position)
		p.Velocity = *lin.NewV3().Scale(delta, 1/x.dt)
		p.Position = p.PredictPosition
	}
}

// respondToContacts applies the post-solve contact lift and
// friction/restitution split, walking the collision list
// in the order it was generated.
func (x *XPBD) respondToContacts() {
	for _, c := range x.collisions.Defines {
		p := &x.particles[c.index]
		lift := lin.NewV3().Scale(&c.contactNormal, contactLift)
		lifted := *lin.NewV3().Add(&c.contactPosition, lift)
		p.Position = lifted
		p.PredictPosition = lifted

		if p.W == 0 {
			p.Velocity = lin.V3{}
			continue
		}
		n := c.contactNormal
		vn := *lin.NewV3().Scale(&n, p.Velocity.Dot(&n))
		vt := *lin.NewV3().Sub(&p.Velocity, &vn)
		vn.Scale(&vn, -x.bounciness)
		vt.Scale(&vt, 1-x.dynamicFrictionFactor)
		p.Velocity = *lin.NewV3().Add(&vn, &vt)
	}
}

// ParticlesCount returns the (fixed, build-time) number of particles.
func (x *XPBD) ParticlesCount() int { return len(x.particles) }

// ParticlesData returns a read-only view of every particle's current
// state, reflecting the most recently committed Update (never a
// still-in-flight predict position).
func (x *XPBD) ParticlesData() []Particle { return x.particles }

// Position returns the committed position of particle i.
func (x *XPBD) Position(i int) lin.V3 { return x.particles[i].Position }

// CopyPositions writes every particle's committed position into out,
// which must have length >= ParticlesCount().
func (x *XPBD) CopyPositions(out []lin.V3) {
	for i := range x.particles {
		out[i] = x.particles[i].Position
	}
}

// Attach pins particle i at position, recording its prior inverse mass
// so Detach can restore it. Re-attaching an already-attached particle
// only updates its pinned position.
func (x *XPBD) Attach(i int, position lin.V3) {
	p := &x.particles[i]
	if !p.Attached() {
		x.attached[i] = p.W
		p.W = 0
	}
	p.Position = position
	p.flag |= particleAttached
}

// Detach releases a previously attached particle, restoring its inverse
// mass, and reports whether it had been attached.
func (x *XPBD) Detach(i int) bool {
	w, ok := x.attached[i]
	if !ok {
		return false
	}
	delete(x.attached, i)
	p := &x.particles[i]
	p.W = w
	p.flag &^= particleAttached
	return true
}

// AddFieldForce accumulates force additively into the field force; it
// is scaled by each particle's inverse mass during predict, so fixed
// (w==0) particles are naturally unaffected.
func (x *XPBD) AddFieldForce(force lin.V3) {
	x.fieldForce.Add(&x.fieldForce, &force)
}

// AddAccelerationField accumulates acceleration additively; unlike
// field force it is applied uniformly and is instead gated by the
// ATTACHED flag (see design notes on the field_force/acceleration
// asymmetry).
func (x *XPBD) AddAccelerationField(accel lin.V3) {
	x.fieldAcceleration.Add(&x.fieldAcceleration, &accel)
}

// AddSphere registers a sphere collider, returning its id.
func (x *XPBD) AddSphere(s Sphere) int { return x.shapes.spheres.add(s) }

// RemoveSphere swap-removes the sphere with the given id.
func (x *XPBD) RemoveSphere(id int) bool {
	_, ok := x.shapes.spheres.remove(id)
	return ok
}

// AddInfinitePlane registers a plane collider, returning its id.
func (x *XPBD) AddInfinitePlane(p InfinitePlane) int { return x.shapes.planes.add(p) }

// RemoveInfinitePlane swap-removes the plane with the given id.
func (x *XPBD) RemoveInfinitePlane(id int) bool {
	_, ok := x.shapes.planes.remove(id)
	return ok
}

// ClearColliders removes every registered shape.
func (x *XPBD) ClearColliders() { x.shapes.clear() }

// Spheres returns every currently registered sphere collider.
func (x *XPBD) Spheres() []Sphere { return x.shapes.spheres.all() }

// Planes returns every currently registered infinite-plane collider.
func (x *XPBD) Planes() []InfinitePlane { return x.shapes.planes.all() }
