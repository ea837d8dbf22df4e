// Copyright © 2024 Galvanized Logic Inc.

// Package report renders a top-down (XZ) snapshot of a running
// simulation to a PNG, for debugging constraint layouts and collider
// placement without a full 3D viewer. It only reads simulation state;
// it never mutates what it renders.
package report

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/vector"

	"github.com/gazed/xpbd/math/lin"
	"github.com/gazed/xpbd/xpbd"
)

// Options controls the rendered viewport: a world-space XZ window
// mapped onto a pixel-space canvas of Width x Height.
type Options struct {
	Width, Height int
	// WorldMin/WorldMax bound the X/Z window of world space shown; Y is
	// ignored since particles are projected onto the XZ plane.
	WorldMin, WorldMax lin.V3
}

// DefaultOptions returns a reasonable square viewport over [-2,2] on
// both the X and Z axes.
func DefaultOptions() Options {
	return Options{
		Width: 512, Height: 512,
		WorldMin: lin.V3{X: -2, Z: -2},
		WorldMax: lin.V3{X: 2, Z: 2},
	}
}

const (
	particleRadiusPx = 3
	sphereOutlinePx  = 1.0
)

var (
	particleColor = color.RGBA{R: 30, G: 30, B: 220, A: 255}
	sphereColor   = color.RGBA{R: 200, G: 60, B: 30, A: 255}
	planeColor    = color.RGBA{R: 120, G: 120, B: 120, A: 255}
)

// projector maps a world XZ coordinate onto a canvas pixel coordinate.
type projector struct {
	opts          Options
	spanX, spanZ  float64
	pxPerUnit     float64
}

func newProjector(opts Options) projector {
	spanX := opts.WorldMax.X - opts.WorldMin.X
	spanZ := opts.WorldMax.Z - opts.WorldMin.Z
	return projector{
		opts:      opts,
		spanX:     spanX,
		spanZ:     spanZ,
		pxPerUnit: float64(opts.Width) / spanX,
	}
}

func (pr projector) point(p lin.V3) (x, y float64) {
	u := (p.X - pr.opts.WorldMin.X) / pr.spanX
	v := 1 - (p.Z-pr.opts.WorldMin.Z)/pr.spanZ
	return u * float64(pr.opts.Width), v * float64(pr.opts.Height)
}

// RenderPNG draws sim's current state projected onto the XZ plane:
// every particle as a filled disc, every sphere collider as an
// outlined circle, and every plane collider as a guide line (see
// drawPlaneGuide), then PNG-encodes the result to w.
func RenderPNG(w io.Writer, sim *xpbd.XPBD, opts Options) error {
	dst := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	pr := newProjector(opts)

	for _, pl := range sim.Planes() {
		drawPlaneGuide(dst, pr, pl)
	}
	for _, s := range sim.Spheres() {
		cx, cy := pr.point(s.Center)
		drawCircle(dst, cx, cy, s.Radius*pr.pxPerUnit, sphereColor, false)
	}
	for _, p := range sim.ParticlesData() {
		cx, cy := pr.point(p.Position)
		drawCircle(dst, cx, cy, particleRadiusPx, particleColor, true)
	}

	return png.Encode(w, dst)
}

// drawPlaneGuide draws pl's trace through the XZ window as a straight
// line: the projection of { p : pl.Normal·p + pl.Offset = 0, p.Y = 0 }.
// A plane whose normal has no X or Z component (a pure ground plane,
// normal (0,1,0)) has no such trace; it is instead drawn as a
// conventional horizontal guide line across the full width at Z=0.
func drawPlaneGuide(dst draw.Image, pr projector, pl xpbd.InfinitePlane) {
	a, b, c := pl.Normal.X, pl.Normal.Z, pl.Offset
	if lin.AeqZ(a) && lin.AeqZ(b) {
		x0, y0 := pr.point(lin.V3{X: pr.opts.WorldMin.X, Z: 0})
		x1, y1 := pr.point(lin.V3{X: pr.opts.WorldMax.X, Z: 0})
		drawLine(dst, x0, y0, x1, y1, planeColor)
		return
	}

	// Sample the line a*x + b*z + c = 0 at the window's X bounds, solving
	// for Z (when b is usable) or falling back to solving for X.
	var p0, p1 lin.V3
	if !lin.AeqZ(b) {
		z := func(x float64) float64 { return -(a*x + c) / b }
		p0 = lin.V3{X: pr.opts.WorldMin.X, Z: z(pr.opts.WorldMin.X)}
		p1 = lin.V3{X: pr.opts.WorldMax.X, Z: z(pr.opts.WorldMax.X)}
	} else {
		x := func(z float64) float64 { return -(b*z + c) / a }
		p0 = lin.V3{X: x(pr.opts.WorldMin.Z), Z: pr.opts.WorldMin.Z}
		p1 = lin.V3{X: x(pr.opts.WorldMax.Z), Z: pr.opts.WorldMax.Z}
	}
	x0, y0 := pr.point(p0)
	x1, y1 := pr.point(p1)
	drawLine(dst, x0, y0, x1, y1, planeColor)
}

// drawCircle rasterizes a circle centered at (cx, cy) with the given
// pixel radius, filled when fill is true, outlined otherwise.
func drawCircle(dst draw.Image, cx, cy, radius float64, c color.Color, fill bool) {
	const segments = 32
	if fill {
		r := vector.NewRasterizer(dst.Bounds().Dx(), dst.Bounds().Dy())
		tracePolygon(r, cx, cy, radius, segments, false)
		r.Draw(dst, dst.Bounds(), image.NewUniform(c), image.Point{})
		return
	}
	// A ring is two circles wound in opposite directions: the nonzero
	// fill rule then cancels out the inner disc, leaving only the band
	// between the two radii covered.
	outer := vector.NewRasterizer(dst.Bounds().Dx(), dst.Bounds().Dy())
	tracePolygon(outer, cx, cy, radius+sphereOutlinePx, segments, false)
	tracePolygon(outer, cx, cy, radius-sphereOutlinePx, segments, true)
	outer.Draw(dst, dst.Bounds(), image.NewUniform(c), image.Point{})
}

func tracePolygon(r *vector.Rasterizer, cx, cy, radius float64, segments int, reverse bool) {
	for i := 0; i <= segments; i++ {
		step := i
		if reverse {
			step = segments - i
		}
		theta := 2 * math.Pi * float64(step) / float64(segments)
		x := float32(cx + radius*math.Cos(theta))
		y := float32(cy + radius*math.Sin(theta))
		if i == 0 {
			r.MoveTo(x, y)
		} else {
			r.LineTo(x, y)
		}
	}
	r.ClosePath()
}

// drawLine rasterizes a thin quad along the segment (x0,y0)-(x1,y1),
// since vector.Rasterizer only fills closed paths.
func drawLine(dst draw.Image, x0, y0, x1, y1 float64, c color.Color) {
	const halfWidth = 0.75
	dx, dy := x1-x0, y1-y0
	length := math.Hypot(dx, dy)
	if length == 0 {
		return
	}
	nx, ny := -dy/length*halfWidth, dx/length*halfWidth

	r := vector.NewRasterizer(dst.Bounds().Dx(), dst.Bounds().Dy())
	r.MoveTo(float32(x0+nx), float32(y0+ny))
	r.LineTo(float32(x1+nx), float32(y1+ny))
	r.LineTo(float32(x1-nx), float32(y1-ny))
	r.LineTo(float32(x0-nx), float32(y0-ny))
	r.ClosePath()
	r.Draw(dst, dst.Bounds(), image.NewUniform(c), image.Point{})
}
