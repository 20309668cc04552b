package medial_test

import (
	"io"
	"log"
	"math"
	"testing"

	"github.com/tansell/chipcarve/pkg/geometry"
	"github.com/tansell/chipcarve/pkg/medial"
)

func quietProcessor() *medial.Processor {
	p := medial.NewProcessor()
	p.Logger = log.New(io.Discard, "", 0)
	return p
}

func unitSquare() geometry.Polygon {
	return geometry.Polygon{
		{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1},
	}
}

func TestComputeMedialAxisRejectsTinyPolygon(t *testing.T) {
	p := quietProcessor()
	results := p.ComputeMedialAxis(geometry.Polygon{{X: 0, Y: 0}, {X: 1, Y: 0}})
	if results.Success {
		t.Fatal("expected failure for a two-vertex polygon")
	}
	if results.ErrorMessage == "" {
		t.Error("expected a populated error message")
	}
	if results.NumChains != 0 {
		t.Errorf("NumChains = %d, want 0", results.NumChains)
	}
}

func TestComputeMedialAxisRejectsSelfIntersection(t *testing.T) {
	bowtie := geometry.Polygon{
		{X: 0, Y: 0}, {X: 2, Y: 2}, {X: 2, Y: 0}, {X: 0, Y: 2},
	}
	results := quietProcessor().ComputeMedialAxis(bowtie)
	if results.Success {
		t.Fatal("expected failure for a self-intersecting polygon")
	}
}

func TestComputeMedialAxisUnitSquare(t *testing.T) {
	results := quietProcessor().ComputeMedialAxis(unitSquare())
	if !results.Success {
		t.Fatalf("unit square failed: %s", results.ErrorMessage)
	}
	if results.NumChains == 0 || results.TotalPoints == 0 {
		t.Fatalf("empty results: %d chains, %d points", results.NumChains, results.TotalPoints)
	}

	// The deepest medial point of the unit square is its center, at
	// clearance 0.5 to each side.
	if math.Abs(results.MaxClearance-0.5) > 0.05 {
		t.Errorf("MaxClearance = %g, want about 0.5", results.MaxClearance)
	}
	for i, chainPoints := range results.Chains {
		for j, pt := range chainPoints {
			if pt.X < -0.05 || pt.X > 1.05 || pt.Y < -0.05 || pt.Y > 1.05 {
				t.Fatalf("chain %d point %d = %+v escapes the square", i, j, pt)
			}
		}
		if len(chainPoints) != len(results.ClearanceRadii[i]) {
			t.Fatalf("chain %d: %d points but %d clearances",
				i, len(chainPoints), len(results.ClearanceRadii[i]))
		}
	}
}

func TestComputeMedialAxisWindingIndependent(t *testing.T) {
	square := unitSquare()
	reversed := square.Reverse()
	if square.IsCounterClockwise() == reversed.IsCounterClockwise() {
		t.Fatal("test setup: reversal did not flip winding")
	}

	p := quietProcessor()
	ccw := p.ComputeMedialAxis(square)
	cw := p.ComputeMedialAxis(reversed)
	if !ccw.Success || !cw.Success {
		t.Fatalf("winding variants failed: ccw=%q cw=%q", ccw.ErrorMessage, cw.ErrorMessage)
	}
	// Both windings describe the same interior, so the same axis.
	if math.Abs(ccw.MaxClearance-cw.MaxClearance) > 0.02 {
		t.Errorf("MaxClearance differs by winding: ccw=%g cw=%g",
			ccw.MaxClearance, cw.MaxClearance)
	}
	if math.Abs(ccw.TotalLength-cw.TotalLength) > 0.1*ccw.TotalLength {
		t.Errorf("TotalLength differs by winding: ccw=%g cw=%g",
			ccw.TotalLength, cw.TotalLength)
	}
}

func TestComputeMedialAxisLeafChord(t *testing.T) {
	leaf := geometry.NewLeaf(geometry.Point2D{X: 0, Y: 0}, geometry.Point2D{X: 10, Y: 0}, 6.5)
	polygon := leaf.Polygonize(0.05)
	if polygon == nil {
		t.Fatal("leaf polygonize returned nil")
	}

	results := quietProcessor().ComputeMedialAxis(polygon)
	if !results.Success {
		t.Fatalf("leaf failed: %s", results.ErrorMessage)
	}

	// A symmetric lens has its medial axis on the focal chord, and the
	// deepest point at the center with clearance equal to the sagitta.
	sagitta := leaf.Sagitta()
	if results.MaxClearance < 0.6*sagitta || results.MaxClearance > 1.05*sagitta {
		t.Errorf("MaxClearance = %g, want near sagitta %g", results.MaxClearance, sagitta)
	}
	for i, chainPoints := range results.Chains {
		for j, pt := range chainPoints {
			if math.Abs(pt.Y) > 0.5 {
				t.Fatalf("chain %d point %d = %+v strays from the chord", i, j, pt)
			}
			if pt.X < -0.5 || pt.X > 10.5 {
				t.Fatalf("chain %d point %d = %+v outside the leaf span", i, j, pt)
			}
		}
	}
}

func TestComputeMedialAxisTriArc(t *testing.T) {
	ta, err := geometry.NewTriArc(
		geometry.Point2D{X: 0, Y: 0},
		geometry.Point2D{X: 10, Y: 0},
		geometry.Point2D{X: 5, Y: 8.66},
		[3]float64{-0.125, -0.125, -0.125},
	)
	if err != nil {
		t.Fatalf("NewTriArc: %v", err)
	}
	polygon := ta.Polygonize(0.05)

	results := quietProcessor().ComputeMedialAxis(polygon)
	if !results.Success {
		t.Fatalf("tri-arc failed: %s", results.ErrorMessage)
	}
	if results.MaxClearance <= 0 {
		t.Fatalf("MaxClearance = %g, want > 0", results.MaxClearance)
	}

	// The deepest medial point of a near-equilateral region sits near the
	// centroid.
	centroid := ta.Centroid()
	bestDist := math.MaxFloat64
	for i, chainPoints := range results.Chains {
		for j, pt := range chainPoints {
			r := results.ClearanceRadii[i][j]
			if math.Abs(r-results.MaxClearance) < 1e-9 {
				if d := geometry.Distance(pt, centroid); d < bestDist {
					bestDist = d
				}
			}
		}
	}
	if bestDist > 1.5 {
		t.Errorf("deepest medial point is %g from the centroid, want nearby", bestDist)
	}
}

func TestTransformRoundTrip(t *testing.T) {
	polygon := geometry.Polygon{
		{X: 3, Y: -2}, {X: 17, Y: -2}, {X: 17, Y: 9}, {X: 3, Y: 9},
	}
	results := quietProcessor().ComputeMedialAxis(polygon)
	if !results.Success {
		t.Fatalf("rectangle failed: %s", results.ErrorMessage)
	}
	tr := results.Transform
	for _, p := range polygon {
		back := tr.FromUnitDisk(tr.ToUnitDisk(p))
		if math.Abs(back.X-p.X) > 1e-9 || math.Abs(back.Y-p.Y) > 1e-9 {
			t.Fatalf("round trip of %+v gave %+v", p, back)
		}
		norm := tr.ToUnitDisk(p)
		if norm.Length() > 1 {
			t.Fatalf("normalized vertex %+v lies outside the unit disk", norm)
		}
	}
}
