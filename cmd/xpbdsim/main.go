// Copyright © 2024 Galvanized Logic Inc.

// Command xpbdsim runs a scene file through the xpbd solver headlessly
// and reports the resulting particle positions. Usage:
//
//	xpbdsim -scene pendulum.yaml -steps 120
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gazed/xpbd/config"
	"github.com/gazed/xpbd/xpbd"
)

var (
	scenePath = flag.String("scene", "", "path to a scene YAML file (required)")
	steps     = flag.Int("steps", 60, "number of simulation steps to run")
)

func main() {
	flag.Parse()
	if *scenePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	sim, scene, err := loadScene(*scenePath)
	if err != nil {
		var buildErr *xpbd.BuildError
		if errors.As(err, &buildErr) {
			slog.Warn("scene rejected", "kind", buildErr.Kind, "index", buildErr.Index)
		}
		fmt.Fprintln(os.Stderr, "xpbdsim:", err)
		os.Exit(1)
	}

	for i := 0; i < *steps; i++ {
		sim.Update()
	}

	p := message.NewPrinter(language.English)
	p.Printf("ran %d steps over %d particles\n", *steps, sim.ParticlesCount())
	for i := 0; i < sim.ParticlesCount(); i++ {
		pos := sim.Position(i)
		p.Printf("particle %d: (%.4f, %.4f, %.4f)\n", i, pos.X, pos.Y, pos.Z)
	}
	_ = scene
}

func loadScene(path string) (*xpbd.XPBD, *config.Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open scene: %w", err)
	}
	defer f.Close()

	scene, err := config.Load(f)
	if err != nil {
		return nil, nil, err
	}
	sim, err := scene.Builder().Build()
	if err != nil {
		return nil, nil, err
	}
	for _, i := range scene.Attachments() {
		sim.Attach(i, sim.Position(i))
	}
	spheres, planes := scene.Colliders()
	for _, s := range spheres {
		sim.AddSphere(s)
	}
	for _, pl := range planes {
		sim.AddInfinitePlane(pl)
	}
	return sim, scene, nil
}
