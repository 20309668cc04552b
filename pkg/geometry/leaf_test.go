package geometry_test

import (
	"math"
	"testing"

	"github.com/tansell/chipcarve/pkg/geometry"
)

// horizontalLeaf is the reference leaf used across the geometry tests:
// foci 10mm apart on the x axis, radius 6.5mm.
func horizontalLeaf() *geometry.Leaf {
	return geometry.NewLeaf(geometry.Point2D{X: 0, Y: 0}, geometry.Point2D{X: 10, Y: 0}, 6.5)
}

func TestLeafCentroid(t *testing.T) {
	l := horizontalLeaf()
	c := l.Centroid()
	if math.Abs(c.X-5) > 1e-9 || math.Abs(c.Y) > 1e-9 {
		t.Errorf("centroid = %v, want (5, 0)", c)
	}
}

func TestLeafSagitta(t *testing.T) {
	l := horizontalLeaf()
	want := 6.5 - math.Sqrt(6.5*6.5-25) // r - sqrt(r² - (d/2)²)
	if got := l.Sagitta(); math.Abs(got-want) > 1e-9 {
		t.Errorf("sagitta = %v, want %v", got, want)
	}
	// Sanity against the figure quoted in the design docs.
	if got := l.Sagitta(); math.Abs(got-2.348) > 0.01 {
		t.Errorf("sagitta = %v, want ≈ 2.348", got)
	}
}

func TestLeafValidity(t *testing.T) {
	tests := []struct {
		name   string
		radius float64
		valid  bool
	}{
		{"well-formed", 6.5, true},
		{"exactly half chord", 5.0, true},
		{"slightly degenerate", 5.0 - 1e-6, false},
		{"far too small", 1.0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := geometry.NewLeaf(geometry.Point2D{}, geometry.Point2D{X: 10}, tt.radius)
			if got := l.IsValid(); got != tt.valid {
				t.Errorf("IsValid() = %v, want %v", got, tt.valid)
			}
		})
	}

	// Coincident foci are degenerate regardless of radius.
	l := geometry.NewLeaf(geometry.Point2D{X: 3, Y: 3}, geometry.Point2D{X: 3, Y: 3}, 10)
	if l.IsValid() {
		t.Error("leaf with coincident foci should be invalid")
	}
}

func TestLeafArcCenterSymmetry(t *testing.T) {
	l := geometry.NewLeaf(geometry.Point2D{X: 1, Y: 2}, geometry.Point2D{X: 7, Y: 6}, 5)
	c1, c2 := l.ArcCenters()

	// Both centers are at radius distance from both foci.
	for _, c := range []geometry.Point2D{c1, c2} {
		for _, f := range []geometry.Point2D{l.Focus1(), l.Focus2()} {
			if d := geometry.Distance(c, f); math.Abs(d-5) > 1e-9 {
				t.Errorf("center %v at distance %v from focus %v, want 5", c, d, f)
			}
		}
	}

	// Centers are symmetric about the chord midpoint.
	mid := geometry.Midpoint(l.Focus1(), l.Focus2())
	sum := geometry.Midpoint(c1, c2)
	if geometry.Distance(mid, sum) > 1e-9 {
		t.Errorf("centers not symmetric about chord midpoint: mid of centers %v, chord mid %v", sum, mid)
	}
}

func TestLeafDegenerateArcParameters(t *testing.T) {
	l := geometry.NewLeaf(geometry.Point2D{}, geometry.Point2D{X: 10}, 4.9)
	a1, a2 := l.ArcParameters()
	if a1.Radius != 0 || a2.Radius != 0 {
		t.Errorf("degenerate leaf arcs should have zero radius, got %v and %v", a1.Radius, a2.Radius)
	}
	if l.Contains(geometry.Point2D{X: 5, Y: 0}) {
		t.Error("degenerate leaf should contain no points")
	}
	if l.Polygonize(0.25) != nil {
		t.Error("degenerate leaf should polygonize to nil")
	}
	if l.Sagitta() != 0 {
		t.Errorf("degenerate leaf sagitta = %v, want 0", l.Sagitta())
	}
}

func TestLeafContains(t *testing.T) {
	l := horizontalLeaf()
	inside := []geometry.Point2D{{X: 5, Y: 0}, {X: 5, Y: 2}, {X: 5, Y: -2}, {X: 4, Y: 1}}
	outside := []geometry.Point2D{{X: 5, Y: 5}, {X: -1, Y: 0}, {X: 11, Y: 0}, {X: 0, Y: 5}}
	for _, p := range inside {
		if !l.Contains(p) {
			t.Errorf("Contains(%v) = false, want true", p)
		}
	}
	for _, p := range outside {
		if l.Contains(p) {
			t.Errorf("Contains(%v) = true, want false", p)
		}
	}
}

func TestLeafPolygonize(t *testing.T) {
	l := horizontalLeaf()
	poly := l.Polygonize(0.25)

	if len(poly) < 16 {
		t.Fatalf("polygon has %d vertices, want at least 16 (8 per arc)", len(poly))
	}

	// Foci appear exactly once each.
	count := func(target geometry.Point2D) int {
		n := 0
		for _, v := range poly {
			if geometry.Distance(v, target) < 1e-9 {
				n++
			}
		}
		return n
	}
	if n := count(l.Focus1()); n != 1 {
		t.Errorf("focus1 appears %d times, want 1", n)
	}
	if n := count(l.Focus2()); n != 1 {
		t.Errorf("focus2 appears %d times, want 1", n)
	}

	// All vertices lie on one of the two boundary arcs.
	c1, c2 := l.ArcCenters()
	for _, v := range poly {
		d1 := math.Abs(geometry.Distance(v, c1) - 6.5)
		d2 := math.Abs(geometry.Distance(v, c2) - 6.5)
		if d1 > 1e-9 && d2 > 1e-9 {
			t.Errorf("vertex %v lies on neither arc (off by %v and %v)", v, d1, d2)
		}
	}

	// Tighter tolerance produces more vertices.
	fine := l.Polygonize(0.01)
	if len(fine) <= len(poly) {
		t.Errorf("finer tolerance produced %d vertices, coarse produced %d", len(fine), len(poly))
	}
}

func TestLeafPolygonizeChordError(t *testing.T) {
	l := horizontalLeaf()
	const tol = 0.25
	poly := l.Polygonize(tol)

	// Sagitta error of each polygon edge must stay within tolerance: the
	// midpoint of each chord lies no farther than tol from whichever arc
	// the edge approximates.
	c1, c2 := l.ArcCenters()
	for i := range poly {
		mid := geometry.Midpoint(poly[i], poly[(i+1)%len(poly)])
		err := math.Min(
			math.Abs(6.5-geometry.Distance(mid, c1)),
			math.Abs(6.5-geometry.Distance(mid, c2)))
		if err > tol+1e-9 {
			t.Errorf("edge %d midpoint %v has chord error %v > %v", i, mid, err, tol)
		}
	}
}
