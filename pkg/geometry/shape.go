package geometry

import "math"

// DefaultChordTolerance is the default maximum chord error for
// polygonization, in the same unit as the shape's coordinates.
const DefaultChordTolerance = 0.25

// minArcSegments is the lower bound on segments per circular arc so that
// very loose tolerances still produce a recognizable curve.
const minArcSegments = 8

// Shape is the common surface of the carving primitives. The medial-axis
// stage only requires Polygonize; the remaining methods serve ingestion,
// rendering and tests.
type Shape interface {
	// Vertices returns the defining vertices of the shape (foci for a
	// leaf, corners for a tri-arc).
	Vertices() []Point2D

	// Polygonize reduces the shape boundary to a polygon whose chord
	// error does not exceed maxChordError. Vertices are emitted in order
	// around the boundary with no duplicated closing vertex.
	Polygonize(maxChordError float64) Polygon

	// Contains reports whether the point lies inside or on the boundary.
	Contains(p Point2D) bool

	// Centroid returns the geometric center of the shape.
	Centroid() Point2D
}

// ArcParams describes one circular arc of a primitive's boundary.
type ArcParams struct {
	Center           Point2D
	Radius           float64
	StartAngle       float64 // radians, angle of the start point from Center
	EndAngle         float64 // radians, angle of the end point from Center
	Counterclockwise bool
}

// arcSegmentCount returns the number of chords needed to keep the sagitta
// error of an arc of the given radius at or below maxChordError.
func arcSegmentCount(radius, maxChordError float64) int {
	if radius < Epsilon || maxChordError <= 0 || maxChordError >= radius {
		return minArcSegments
	}
	n := int(math.Ceil(math.Pi / math.Acos(1-maxChordError/radius)))
	if n < minArcSegments {
		n = minArcSegments
	}
	return n
}

// wrapAngle wraps an angle difference into (-π, π], selecting the minor arc
// between two boundary points.
func wrapAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// appendArcInterior appends the n-1 interior points of the minor arc from
// start angle a0 to end angle a1 around center c. The arc endpoints are the
// caller's responsibility so shared vertices appear exactly once.
func appendArcInterior(dst []Point2D, c Point2D, radius, a0, a1 float64, n int) []Point2D {
	sweep := wrapAngle(a1 - a0)
	for i := 1; i < n; i++ {
		a := a0 + sweep*float64(i)/float64(n)
		dst = append(dst, Point2D{c.X + radius*math.Cos(a), c.Y + radius*math.Sin(a)})
	}
	return dst
}

// VerticesCentroid returns the arithmetic mean of a vertex list, the
// centroid definition shared by all primitives.
func VerticesCentroid(vertices []Point2D) Point2D {
	if len(vertices) == 0 {
		return Point2D{}
	}
	var sum Point2D
	for _, v := range vertices {
		sum = sum.Add(v)
	}
	return sum.Scale(1 / float64(len(vertices)))
}
