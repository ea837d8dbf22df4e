// Copyright © 2024 Galvanized Logic Inc.

package xpbd

import "github.com/gazed/xpbd/math/lin"

// normalizeEps is the epsilon below which a surface or gradient vector
// is considered too short to normalize reliably; a fixed fallback
// direction is used instead. Calibrated for cloth-scale simulations;
// see the design notes for why it is a constant rather than a builder
// field.
const normalizeEps = 1e-3

// ContactInfo is the result of querying a shape's surface for the
// closest point to an arbitrary query position.
type ContactInfo struct {
	Contacted       bool
	ContactPosition lin.V3
	ContactNormal   lin.V3
}

// surfaceContact is implemented by every analytic shape kind. It never
// mutates the shape or the query point.
type surfaceContact interface {
	closestSurfacePoint(p lin.V3) ContactInfo
}

// closestSurfacePoint reports whether p has penetrated the sphere and,
// if so, the nearest point on its surface along with the outward normal.
func (s Sphere) closestSurfacePoint(p lin.V3) ContactInfo {
	toPoint := lin.NewV3().Sub(&p, &s.Center)
	distSqr := toPoint.LenSqr()
	if distSqr >= s.Radius*s.Radius {
		return ContactInfo{}
	}
	normal := toPoint.UnitOr(normalizeEps, lin.NewV3S(0, 1, 0))
	contact := lin.NewV3().Add(&s.Center, lin.NewV3().Scale(normal, s.Radius))
	return ContactInfo{Contacted: true, ContactPosition: *contact, ContactNormal: *normal}
}

// closestSurfacePoint reports whether p is on the far side of the plane
// (n̂·p + offset > 0 means clear) and, if not, the projection of p onto
// the plane.
func (pl InfinitePlane) closestSurfacePoint(p lin.V3) ContactInfo {
	s := pl.Normal.Dot(&p) + pl.Offset
	if s > 0 {
		return ContactInfo{}
	}
	contact := lin.NewV3().Sub(&p, lin.NewV3().Scale(&pl.Normal, s))
	return ContactInfo{Contacted: true, ContactPosition: *contact, ContactNormal: pl.Normal}
}
