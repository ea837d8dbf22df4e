// Copyright © 2024 Galvanized Logic Inc.

// Package config loads a simulation description from YAML: a plain
// data struct decoded with strict field checking, then translated into
// the engine's own builder.
package config

import (
	"bytes"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/gazed/xpbd/math/lin"
	"github.com/gazed/xpbd/xpbd"
)

// Vec3 is the YAML-friendly mirror of lin.V3.
type Vec3 struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

func (v Vec3) toV3() lin.V3 { return lin.V3{X: v.X, Y: v.Y, Z: v.Z} }

// ParticleSpec describes one particle: its starting position, mass, and
// whether it starts pinned in place.
type ParticleSpec struct {
	Position Vec3    `yaml:"position"`
	Mass     float64 `yaml:"mass"`
	Attached bool    `yaml:"attached"`
}

// DistanceSpec mirrors xpbd.NewDistanceConstraint's arguments.
type DistanceSpec struct {
	A            int     `yaml:"a"`
	B            int     `yaml:"b"`
	StiffnessInv float64 `yaml:"stiffness_inv"`
}

// BendSpec mirrors xpbd.NewTriangleBendConstraint's arguments.
type BendSpec struct {
	P1           int     `yaml:"p1"`
	P2           int     `yaml:"p2"`
	P3           int     `yaml:"p3"`
	P4           int     `yaml:"p4"`
	StiffnessInv float64 `yaml:"stiffness_inv"`
}

// SphereSpec mirrors xpbd.Sphere.
type SphereSpec struct {
	Center Vec3    `yaml:"center"`
	Radius float64 `yaml:"radius"`
}

// PlaneSpec mirrors xpbd.InfinitePlane.
type PlaneSpec struct {
	Normal Vec3    `yaml:"normal"`
	Offset float64 `yaml:"offset"`
}

// Scene is the on-disk description of a complete simulation: enough to
// reconstruct an xpbd.Builder without touching Go source.
type Scene struct {
	Dt                    float64        `yaml:"dt"`
	IterateCount          int            `yaml:"iterate_count"`
	Bounciness            float64        `yaml:"bounciness"`
	DynamicFrictionFactor float64        `yaml:"dynamic_friction_factor"`
	Particles             []ParticleSpec `yaml:"particles"`
	DistanceConstraints   []DistanceSpec `yaml:"distance_constraints"`
	BendConstraints       []BendSpec     `yaml:"bend_constraints"`
	Spheres               []SphereSpec   `yaml:"spheres"`
	Planes                []PlaneSpec    `yaml:"planes"`
}

// Load decodes a Scene from r, rejecting any field not recognized above
// rather than silently ignoring a typo.
func Load(r io.Reader) (*Scene, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	scene := &Scene{}
	if err := dec.Decode(scene); err != nil {
		return nil, fmt.Errorf("config: decode scene: %w", err)
	}
	return scene, nil
}

// LoadBytes is a convenience wrapper over Load for callers that already
// have the YAML document in memory.
func LoadBytes(data []byte) (*Scene, error) { return Load(bytes.NewReader(data)) }

// Builder translates the scene into an xpbd.Builder, ready for Build.
// Any xpbd.BuildError Build later returns propagates the same sentinel
// errors as constructing the simulation directly in Go.
func (s *Scene) Builder() *xpbd.Builder {
	positions := make([]lin.V3, len(s.Particles))
	masses := make([]float64, len(s.Particles))
	for i, p := range s.Particles {
		positions[i] = p.Position.toV3()
		masses[i] = p.Mass
	}

	distance := make([]*xpbd.DistanceConstraint, len(s.DistanceConstraints))
	for i, d := range s.DistanceConstraints {
		distance[i] = xpbd.NewDistanceConstraint(d.A, d.B, d.StiffnessInv)
	}

	bend := make([]*xpbd.TriangleBendConstraint, len(s.BendConstraints))
	for i, b := range s.BendConstraints {
		bend[i] = xpbd.NewTriangleBendConstraint(b.P1, b.P2, b.P3, b.P4, b.StiffnessInv)
	}

	builder := xpbd.NewBuilder(positions, masses).
		Timing(s.Dt, s.IterateCount).
		Contact(s.Bounciness, s.DynamicFrictionFactor).
		DistanceConstraints(distance...).
		BendConstraints(bend...)

	return builder
}

// Attachments returns the indices of every particle marked attached in
// the scene. The caller is expected to call xpbd.XPBD.Attach for each,
// after Build, since attachment is runtime state rather than a builder
// input.
func (s *Scene) Attachments() []int {
	var attached []int
	for i, p := range s.Particles {
		if p.Attached {
			attached = append(attached, i)
		}
	}
	return attached
}

// Colliders returns the spheres and planes described by the scene, for
// registration against a built simulation.
func (s *Scene) Colliders() (spheres []xpbd.Sphere, planes []xpbd.InfinitePlane) {
	for _, sp := range s.Spheres {
		spheres = append(spheres, xpbd.Sphere{Center: sp.Center.toV3(), Radius: sp.Radius})
	}
	for _, pl := range s.Planes {
		planes = append(planes, xpbd.InfinitePlane{Normal: pl.Normal.toV3(), Offset: pl.Offset})
	}
	return spheres, planes
}
