// Package render draws pipeline stages to SVG for visual debugging and
// regression snapshots: shape outlines, medial-axis chains with clearance
// discs, and the final toolpaths.
package render

import (
	"fmt"
	"io"
	"math"

	svg "github.com/ajstarks/svgo/float"

	"github.com/tansell/chipcarve/pkg/geometry"
	"github.com/tansell/chipcarve/pkg/medial"
	"github.com/tansell/chipcarve/pkg/toolpath"
)

// Scene collects the stages to draw. Nil or empty stages are skipped, so a
// partial scene (polygon only, say) renders fine. Polygons and medial
// results are in the same units the pipeline used; toolpath coordinates are
// millimetres and drawn as-is.
type Scene struct {
	Polygons  []geometry.Polygon
	Medial    []medial.Results
	Toolpaths *toolpath.VCarveResults
}

// Options controls page layout.
type Options struct {
	Margin    float64 // world units added around the content box
	Scale     float64 // pixels per world unit
	ShowDiscs bool    // draw clearance discs along medial chains
}

// DefaultOptions returns a layout suitable for designs tens of millimetres
// across.
func DefaultOptions() Options {
	return Options{Margin: 5, Scale: 10, ShowDiscs: false}
}

const (
	polygonStyle = "fill:none;stroke:#444444;stroke-width:0.15"
	medialStyle  = "fill:none;stroke:#2e86de;stroke-width:0.12"
	discStyle    = "fill:none;stroke:#a5c9f0;stroke-width:0.05"
	pathStyle    = "fill:none;stroke:#c0392b;stroke-width:0.2"
	depthStyle   = "fill:#c0392b"
)

// WriteSVG renders the scene. The world y axis points up, so the page is
// flipped to keep designs in their CAD orientation.
func WriteSVG(w io.Writer, scene Scene, opts Options) error {
	minP, maxP, ok := sceneBounds(scene)
	if !ok {
		return fmt.Errorf("render: empty scene")
	}
	minP.X -= opts.Margin
	minP.Y -= opts.Margin
	maxP.X += opts.Margin
	maxP.Y += opts.Margin

	width := (maxP.X - minP.X) * opts.Scale
	height := (maxP.Y - minP.Y) * opts.Scale

	canvas := svg.New(w)
	canvas.Start(width, height)
	canvas.Gtransform(fmt.Sprintf("scale(%g,-%g) translate(%g,%g)",
		opts.Scale, opts.Scale, -minP.X, -maxP.Y))

	canvas.Group(`id="polygons"`)
	for _, polygon := range scene.Polygons {
		drawClosed(canvas, polygon, polygonStyle)
	}
	canvas.Gend()

	canvas.Group(`id="medial"`)
	for _, results := range scene.Medial {
		if !results.Success {
			continue
		}
		for i, chainPoints := range results.Chains {
			drawOpen(canvas, chainPoints, medialStyle)
			if opts.ShowDiscs {
				for j, p := range chainPoints {
					canvas.Circle(p.X, p.Y, results.ClearanceRadii[i][j], discStyle)
				}
			}
		}
	}
	canvas.Gend()

	if scene.Toolpaths != nil && scene.Toolpaths.Success {
		canvas.Group(`id="toolpaths"`)
		for _, path := range scene.Toolpaths.Paths {
			pts := make([]geometry.Point2D, len(path.Points))
			for i, vp := range path.Points {
				pts[i] = vp.Position
			}
			drawOpen(canvas, pts, pathStyle)
			// Depth markers: a dot whose radius tracks the cut depth.
			for _, vp := range path.Points {
				if vp.Depth > 0 {
					canvas.Circle(vp.Position.X, vp.Position.Y, vp.Depth/10, depthStyle)
				}
			}
		}
		canvas.Gend()
	}

	canvas.Gend()
	canvas.End()
	return nil
}

func drawClosed(canvas *svg.SVG, points []geometry.Point2D, style string) {
	if len(points) < 2 {
		return
	}
	xs, ys := split(points)
	canvas.Polygon(xs, ys, style)
}

func drawOpen(canvas *svg.SVG, points []geometry.Point2D, style string) {
	if len(points) < 2 {
		return
	}
	xs, ys := split(points)
	canvas.Polyline(xs, ys, style)
}

func split(points []geometry.Point2D) ([]float64, []float64) {
	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i] = p.X
		ys[i] = p.Y
	}
	return xs, ys
}

func sceneBounds(scene Scene) (geometry.Point2D, geometry.Point2D, bool) {
	minP := geometry.Point2D{X: math.MaxFloat64, Y: math.MaxFloat64}
	maxP := geometry.Point2D{X: -math.MaxFloat64, Y: -math.MaxFloat64}
	found := false

	extend := func(p geometry.Point2D) {
		found = true
		minP.X = math.Min(minP.X, p.X)
		minP.Y = math.Min(minP.Y, p.Y)
		maxP.X = math.Max(maxP.X, p.X)
		maxP.Y = math.Max(maxP.Y, p.Y)
	}

	for _, polygon := range scene.Polygons {
		for _, p := range polygon {
			extend(p)
		}
	}
	for _, results := range scene.Medial {
		for _, chainPoints := range results.Chains {
			for _, p := range chainPoints {
				extend(p)
			}
		}
	}
	if scene.Toolpaths != nil {
		for _, path := range scene.Toolpaths.Paths {
			for _, vp := range path.Points {
				extend(vp.Position)
			}
		}
	}
	return minP, maxP, found
}
