package geometry_test

import (
	"math"
	"testing"

	"github.com/tansell/chipcarve/pkg/geometry"
)

// standardTriArc is the reference tri-arc: a near-equilateral triangle with
// uniform default bulges.
func standardTriArc(t *testing.T) *geometry.TriArc {
	t.Helper()
	ta, err := geometry.NewTriArc(
		geometry.Point2D{X: 0, Y: 0},
		geometry.Point2D{X: 10, Y: 0},
		geometry.Point2D{X: 5, Y: 8.66},
		[3]float64{-0.125, -0.125, -0.125},
	)
	if err != nil {
		t.Fatalf("NewTriArc: %v", err)
	}
	return ta
}

func TestTriArcCollinearRejected(t *testing.T) {
	_, err := geometry.NewTriArc(
		geometry.Point2D{X: 0, Y: 0},
		geometry.Point2D{X: 5, Y: 0},
		geometry.Point2D{X: 10, Y: 0},
		[3]float64{-0.1, -0.1, -0.1},
	)
	if err == nil {
		t.Fatal("collinear vertices should be rejected")
	}
}

func TestTriArcBulgeClamping(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"in range", -0.125, -0.125},
		{"below min", -0.5, geometry.BulgeMin},
		{"above max", -0.0005, geometry.BulgeMax},
		{"positive flipped", 0.125, -0.125},
		{"positive flipped and clamped", 0.9, geometry.BulgeMin},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ta, err := geometry.NewTriArc(
				geometry.Point2D{X: 0, Y: 0},
				geometry.Point2D{X: 10, Y: 0},
				geometry.Point2D{X: 5, Y: 8.66},
				[3]float64{tt.in, -0.1, -0.1},
			)
			if err != nil {
				t.Fatalf("NewTriArc: %v", err)
			}
			if got := ta.Bulge(0); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("Bulge(0) = %v, want %v", got, tt.want)
			}
		})
	}

	// Sub-epsilon bulges survive as straight edges.
	ta, err := geometry.NewTriArc(
		geometry.Point2D{X: 0, Y: 0},
		geometry.Point2D{X: 10, Y: 0},
		geometry.Point2D{X: 5, Y: 8.66},
		[3]float64{1e-12, -0.1, -0.1},
	)
	if err != nil {
		t.Fatalf("NewTriArc: %v", err)
	}
	if !ta.EdgeIsStraight(0) {
		t.Error("edge with |bulge| below epsilon should be straight")
	}
	if ta.EdgeIsStraight(1) {
		t.Error("edge with real bulge should not be straight")
	}
}

func TestTriArcCentroid(t *testing.T) {
	ta := standardTriArc(t)
	c := ta.Centroid()
	if math.Abs(c.X-5) > 1e-9 || math.Abs(c.Y-8.66/3) > 1e-9 {
		t.Errorf("centroid = %v, want (5, %v)", c, 8.66/3)
	}
}

func TestTriArcArcParameters(t *testing.T) {
	ta := standardTriArc(t)

	// Edge 0 runs from (0,0) to (10,0): chord 10, bulge -0.125.
	arc := ta.ArcParameters(0)
	chord := 10.0
	sagitta := 0.125 * chord
	wantRadius := chord*chord/(8*sagitta) + sagitta/2
	if math.Abs(arc.Radius-wantRadius) > 1e-9 {
		t.Errorf("radius = %v, want %v", arc.Radius, wantRadius)
	}

	// The center lies below the chord (outside the triangle) on the
	// perpendicular through the midpoint.
	if arc.Center.Y >= 0 {
		t.Errorf("arc center %v should lie outside the triangle (y < 0)", arc.Center)
	}
	if math.Abs(arc.Center.X-5) > 1e-9 {
		t.Errorf("arc center x = %v, want 5", arc.Center.X)
	}

	// Both edge endpoints sit on the arc.
	for _, p := range []geometry.Point2D{ta.Vertex(0), ta.Vertex(1)} {
		if d := geometry.Distance(p, arc.Center); math.Abs(d-arc.Radius) > 1e-9 {
			t.Errorf("endpoint %v at distance %v from center, want %v", p, d, arc.Radius)
		}
	}

	// The arc's deepest point is sagitta above the chord, toward the
	// interior.
	apex := geometry.Point2D{X: 5, Y: sagitta}
	if d := geometry.Distance(apex, arc.Center); math.Abs(d-arc.Radius) > 1e-9 {
		t.Errorf("apex %v at distance %v from center, want %v", apex, d, arc.Radius)
	}
}

func TestTriArcStraightEdgeArcParameters(t *testing.T) {
	ta, err := geometry.NewTriArc(
		geometry.Point2D{X: 0, Y: 0},
		geometry.Point2D{X: 10, Y: 0},
		geometry.Point2D{X: 5, Y: 8.66},
		[3]float64{0, -0.1, -0.1},
	)
	if err != nil {
		t.Fatalf("NewTriArc: %v", err)
	}
	arc := ta.ArcParameters(0)
	if arc.Radius != 0 {
		t.Errorf("straight edge arc radius = %v, want 0", arc.Radius)
	}
}

func TestTriArcContains(t *testing.T) {
	ta := standardTriArc(t)

	if !ta.Contains(ta.Centroid()) {
		t.Error("centroid should be inside")
	}

	// The chord midpoint of a concave edge is outside: the arc dips toward
	// the interior by one sagitta.
	if ta.Contains(geometry.Point2D{X: 5, Y: 0}) {
		t.Error("chord midpoint of concave edge should be outside")
	}
	// Just beyond the sagitta the region begins.
	if !ta.Contains(geometry.Point2D{X: 5, Y: 1.35}) {
		t.Error("point just inside the concave edge should be inside")
	}

	// Far outside the triangle.
	for _, p := range []geometry.Point2D{{X: -5, Y: 0}, {X: 15, Y: 0}, {X: 5, Y: 20}} {
		if ta.Contains(p) {
			t.Errorf("Contains(%v) = true, want false", p)
		}
	}
}

func TestTriArcPolygonize(t *testing.T) {
	ta := standardTriArc(t)
	poly := ta.Polygonize(0.25)

	// Three curved edges with at least 8 segments each.
	if len(poly) < 24 {
		t.Fatalf("polygon has %d vertices, want at least 24", len(poly))
	}

	// All three triangle vertices appear exactly once.
	for i := 0; i < 3; i++ {
		n := 0
		for _, v := range poly {
			if geometry.Distance(v, ta.Vertex(i)) < 1e-9 {
				n++
			}
		}
		if n != 1 {
			t.Errorf("vertex %d appears %d times, want 1", i, n)
		}
	}

	// Every interior arc point lies strictly inside the straight-edged
	// triangle's bounding box and within the triangle hull side of its
	// chord (concavity check via centroid distance).
	centroid := ta.Centroid()
	maxDist := 0.0
	for i := 0; i < 3; i++ {
		if d := geometry.Distance(centroid, ta.Vertex(i)); d > maxDist {
			maxDist = d
		}
	}
	for _, v := range poly {
		if d := geometry.Distance(centroid, v); d > maxDist+1e-9 {
			t.Errorf("vertex %v farther from centroid (%v) than any corner (%v)", v, d, maxDist)
		}
	}
}

func TestTriArcMixedStraightPolygonize(t *testing.T) {
	ta, err := geometry.NewTriArc(
		geometry.Point2D{X: 0, Y: 0},
		geometry.Point2D{X: 10, Y: 0},
		geometry.Point2D{X: 5, Y: 8.66},
		[3]float64{0, -0.125, -0.125},
	)
	if err != nil {
		t.Fatalf("NewTriArc: %v", err)
	}
	poly := ta.Polygonize(0.25)

	// The straight edge contributes just its start vertex; the two arcs
	// contribute at least 8 segments each.
	if len(poly) < 1+2*8 {
		t.Errorf("polygon has %d vertices, want at least 17", len(poly))
	}
}
