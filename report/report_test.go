// Copyright © 2024 Galvanized Logic Inc.

package report

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/gazed/xpbd/math/lin"
	"github.com/gazed/xpbd/xpbd"
)

func TestRenderPNGProducesDecodableImage(t *testing.T) {
	sim, err := xpbd.NewBuilder([]lin.V3{{}, {X: 1}}, []float64{1, 1}).Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	var buf bytes.Buffer
	opts := DefaultOptions()
	if err := RenderPNG(&buf, sim, opts); err != nil {
		t.Fatalf("render: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode rendered png: %v", err)
	}
	if img.Bounds().Dx() != opts.Width || img.Bounds().Dy() != opts.Height {
		t.Errorf("want %dx%d image, got %dx%d", opts.Width, opts.Height, img.Bounds().Dx(), img.Bounds().Dy())
	}
}

func TestRenderPNGWithCollidersProducesDecodableImage(t *testing.T) {
	sim, err := xpbd.NewBuilder([]lin.V3{{Y: 1}}, []float64{1}).Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	sim.AddSphere(xpbd.Sphere{Center: lin.V3{X: 0.5}, Radius: 0.3})
	sim.AddInfinitePlane(xpbd.InfinitePlane{Normal: lin.V3{Y: 1}, Offset: 0})
	sim.AddInfinitePlane(xpbd.InfinitePlane{Normal: lin.V3{X: 1}, Offset: -1})

	var buf bytes.Buffer
	if err := RenderPNG(&buf, sim, DefaultOptions()); err != nil {
		t.Fatalf("render: %v", err)
	}
	if _, err := png.Decode(&buf); err != nil {
		t.Fatalf("decode rendered png: %v", err)
	}
}
