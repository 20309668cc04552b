// Package geometry defines the planar primitives used for chip carving:
// vesica-piscis leaves, three-sided curved triangles (tri-arcs), and
// polygons. Every primitive can reduce itself to a chord-tolerance-bounded
// polygon, which is the only representation the medial-axis stage consumes.
package geometry

import "math"

// Epsilon is the floating point comparison tolerance for geometric
// calculations.
const Epsilon = 1e-9

// Point2D is a point (or vector) in the sketch plane. Coordinates are in a
// single world length unit; millimetres everywhere except inside the
// medial-axis stage, which works in the host CAD system's native
// centimetres.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p + q.
func (p Point2D) Add(q Point2D) Point2D {
	return Point2D{p.X + q.X, p.Y + q.Y}
}

// Sub returns p - q.
func (p Point2D) Sub(q Point2D) Point2D {
	return Point2D{p.X - q.X, p.Y - q.Y}
}

// Scale returns p scaled by s.
func (p Point2D) Scale(s float64) Point2D {
	return Point2D{p.X * s, p.Y * s}
}

// Dot returns the dot product p · q.
func (p Point2D) Dot(q Point2D) float64 {
	return p.X*q.X + p.Y*q.Y
}

// Cross returns the z component of the cross product p × q.
func (p Point2D) Cross(q Point2D) float64 {
	return p.X*q.Y - p.Y*q.X
}

// Length returns the Euclidean norm of p treated as a vector.
func (p Point2D) Length() float64 {
	return math.Hypot(p.X, p.Y)
}

// Distance returns the Euclidean distance between two points.
func Distance(a, b Point2D) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// Midpoint returns the point halfway between a and b.
func Midpoint(a, b Point2D) Point2D {
	return Point2D{(a.X + b.X) / 2, (a.Y + b.Y) / 2}
}

// Lerp linearly interpolates between a and b at parameter t in [0, 1].
func Lerp(a, b Point2D, t float64) Point2D {
	return Point2D{a.X + t*(b.X-a.X), a.Y + t*(b.Y-a.Y)}
}

// Perpendicular returns the unit vector perpendicular to the segment a→b,
// rotated +90° (counter-clockwise). Returns the zero vector for a
// degenerate segment.
func Perpendicular(a, b Point2D) Point2D {
	d := b.Sub(a)
	l := d.Length()
	if l < Epsilon {
		return Point2D{}
	}
	return Point2D{-d.Y / l, d.X / l}
}

// SegmentDistance returns the distance from point p to the segment a→b.
func SegmentDistance(p, a, b Point2D) float64 {
	ab := b.Sub(a)
	l2 := ab.Dot(ab)
	if l2 < Epsilon*Epsilon {
		return Distance(p, a)
	}
	t := p.Sub(a).Dot(ab) / l2
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return Distance(p, a.Add(ab.Scale(t)))
}
