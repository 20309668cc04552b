package medial

import (
	"fmt"
	"math"

	"github.com/tansell/chipcarve/pkg/geometry"
)

// coincidentTolerance treats vertices closer than this (in normalized or
// input units) as duplicates.
const coincidentTolerance = 1e-10

// validatePolygon runs the pre-Voronoi checks on an input polygon in its
// original coordinates: size, duplicate consecutive vertices.
func validatePolygon(polygon geometry.Polygon) error {
	if len(polygon) < 3 {
		return fmt.Errorf("polygon must have at least 3 vertices, got %d", len(polygon))
	}
	for i := 0; i < len(polygon)-1; i++ {
		if geometry.Distance(polygon[i], polygon[i+1]) < coincidentTolerance {
			// A final vertex repeating the first is a conventionally
			// closed polygon, not a defect.
			if i == len(polygon)-2 && geometry.Distance(polygon[len(polygon)-1], polygon[0]) < coincidentTolerance {
				continue
			}
			return fmt.Errorf("polygon has duplicate consecutive vertices at index %d", i)
		}
	}
	return nil
}

// validateNormalizedPolygon runs the checks the Voronoi stage depends on,
// on the unit-disk polygon: degenerate edges, self-intersection, unit-disk
// bounds, and non-zero area.
func validateNormalizedPolygon(polygon geometry.Polygon) error {
	n := len(polygon)
	if n < 3 {
		return fmt.Errorf("polygon must have at least 3 vertices, got %d", n)
	}

	for i := 0; i < n; i++ {
		if geometry.Distance(polygon[i], polygon[(i+1)%n]) < coincidentTolerance {
			return fmt.Errorf("polygon has degenerate edge at index %d", i)
		}
	}

	for i := 0; i < n; i++ {
		p1, q1 := polygon[i], polygon[(i+1)%n]
		for j := i + 2; j < n; j++ {
			if i == 0 && j == n-1 {
				continue // adjacent through the closing edge
			}
			p2, q2 := polygon[j], polygon[(j+1)%n]
			if segmentsIntersect(p1, q1, p2, q2) {
				return fmt.Errorf("polygon self-intersects: edge %d crosses edge %d", i, j)
			}
		}
	}

	for i, p := range polygon {
		if p.Length() > 1 {
			return fmt.Errorf("vertex %d at distance %.6f lies outside the unit disk", i, p.Length())
		}
	}

	if area := math.Abs(polygon.SignedArea()); area < 1e-10 {
		return fmt.Errorf("polygon has near-zero area (%g); vertices may be collinear", area)
	}
	return nil
}

// segmentsIntersect reports whether segments p1→q1 and p2→q2 intersect,
// including collinear overlap, using the orientation method.
func segmentsIntersect(p1, q1, p2, q2 geometry.Point2D) bool {
	orientation := func(p, q, r geometry.Point2D) int {
		val := (q.Y-p.Y)*(r.X-q.X) - (q.X-p.X)*(r.Y-q.Y)
		if math.Abs(val) < 1e-10 {
			return 0
		}
		if val > 0 {
			return 1
		}
		return 2
	}
	onSegment := func(p, q, r geometry.Point2D) bool {
		return q.X <= math.Max(p.X, r.X) && q.X >= math.Min(p.X, r.X) &&
			q.Y <= math.Max(p.Y, r.Y) && q.Y >= math.Min(p.Y, r.Y)
	}

	o1 := orientation(p1, q1, p2)
	o2 := orientation(p1, q1, q2)
	o3 := orientation(p2, q2, p1)
	o4 := orientation(p2, q2, q1)

	if o1 != o2 && o3 != o4 {
		return true
	}
	if o1 == 0 && onSegment(p1, p2, q1) {
		return true
	}
	if o2 == 0 && onSegment(p1, q2, q1) {
		return true
	}
	if o3 == 0 && onSegment(p2, p1, q2) {
		return true
	}
	if o4 == 0 && onSegment(p2, q1, q2) {
		return true
	}
	return false
}
