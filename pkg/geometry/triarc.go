package geometry

import (
	"fmt"
	"math"
)

// Bulge factor limits for tri-arc edges. Bulges are negative: every edge is
// concave toward the triangle interior.
const (
	BulgeMin = -0.2
	BulgeMax = -0.001
)

// DefaultBulge is the bulge applied when a design supplies no curvature.
const DefaultBulge = -0.125

// TriArc is a three-sided region bounded by circular arcs. Each edge i runs
// from vertex i to vertex (i+1)%3 and carries a bulge factor: the signed
// sagitta-to-chord ratio of the edge. Bulges with magnitude below Epsilon
// leave the edge straight; all others are forced negative and clamped into
// [BulgeMin, BulgeMax] on construction.
type TriArc struct {
	vertices [3]Point2D
	bulges   [3]float64
}

// NewTriArc constructs a tri-arc from three non-collinear vertices and
// three bulge factors. Positive bulges are negated, then clamped.
func NewTriArc(v0, v1, v2 Point2D, bulges [3]float64) (*TriArc, error) {
	if collinear(v0, v1, v2) {
		return nil, fmt.Errorf("tri-arc vertices are collinear: %v, %v, %v", v0, v1, v2)
	}
	t := &TriArc{vertices: [3]Point2D{v0, v1, v2}}
	for i, b := range bulges {
		if math.Abs(b) < Epsilon {
			t.bulges[i] = b // straight edge, keep as supplied
			continue
		}
		if b > 0 {
			b = -b
		}
		t.bulges[i] = math.Min(math.Max(b, BulgeMin), BulgeMax)
	}
	return t, nil
}

func collinear(a, b, c Point2D) bool {
	return math.Abs(b.Sub(a).Cross(c.Sub(a))) < Epsilon
}

// Vertex returns vertex i (0..2).
func (t *TriArc) Vertex(i int) Point2D { return t.vertices[i%3] }

// Bulge returns the bulge factor of edge i.
func (t *TriArc) Bulge(i int) float64 { return t.bulges[i%3] }

// EdgeIsStraight reports whether edge i is rendered as a straight segment.
func (t *TriArc) EdgeIsStraight(i int) bool {
	return math.Abs(t.bulges[i%3]) < Epsilon
}

// Vertices implements Shape.
func (t *TriArc) Vertices() []Point2D {
	return []Point2D{t.vertices[0], t.vertices[1], t.vertices[2]}
}

// Centroid implements Shape.
func (t *TriArc) Centroid() Point2D {
	return VerticesCentroid(t.Vertices())
}

// edgeSagitta returns the sagitta of edge i: |bulge| times the chord length.
func (t *TriArc) edgeSagitta(i int) float64 {
	i %= 3
	chord := Distance(t.vertices[i], t.vertices[(i+1)%3])
	return math.Abs(t.bulges[i]) * chord
}

// ArcParameters returns the arc of edge i. For a straight edge the zero
// ArcParams value is returned. The arc center sits outside the triangle on
// the perpendicular through the chord midpoint, so the arc bows toward the
// interior; the sweep is always the minor arc from vertex i to vertex i+1.
func (t *TriArc) ArcParameters(i int) ArcParams {
	i %= 3
	if t.EdgeIsStraight(i) {
		return ArcParams{}
	}

	p := t.vertices[i]
	q := t.vertices[(i+1)%3]
	opposite := t.vertices[(i+2)%3]

	chord := Distance(p, q)
	sagitta := math.Abs(t.bulges[i]) * chord
	radius := chord*chord/(8*sagitta) + sagitta/2

	mid := Midpoint(p, q)
	normal := Perpendicular(p, q)
	// Orient the normal away from the opposite vertex so the center lands
	// outside the triangle and the arc is concave toward the interior.
	if normal.Dot(opposite.Sub(mid)) > 0 {
		normal = normal.Scale(-1)
	}
	center := mid.Add(normal.Scale(radius - sagitta))

	return arcBetween(center, radius, p, q)
}

// Contains implements Shape: the point must lie inside the straight-edged
// triangle and, for each curved edge, on the concave side of the arc —
// no closer to the external arc center than the arc itself.
func (t *TriArc) Contains(p Point2D) bool {
	if !t.insideTriangle(p) {
		return false
	}
	for i := 0; i < 3; i++ {
		if t.EdgeIsStraight(i) {
			continue
		}
		arc := t.ArcParameters(i)
		if Distance(p, arc.Center) < arc.Radius-Epsilon {
			return false
		}
	}
	return true
}

// insideTriangle is a barycentric containment test on the vertex triangle.
func (t *TriArc) insideTriangle(p Point2D) bool {
	a, b, c := t.vertices[0], t.vertices[1], t.vertices[2]
	denom := (b.Y-c.Y)*(a.X-c.X) + (c.X-b.X)*(a.Y-c.Y)
	if math.Abs(denom) < 1e-10 {
		return false
	}
	u := ((b.Y-c.Y)*(p.X-c.X) + (c.X-b.X)*(p.Y-c.Y)) / denom
	v := ((c.Y-a.Y)*(p.X-c.X) + (a.X-c.X)*(p.Y-c.Y)) / denom
	w := 1 - u - v
	return u >= 0 && v >= 0 && w >= 0
}

// Polygonize implements Shape. Each curved edge contributes its start
// vertex plus enough interior arc points to meet the chord tolerance;
// straight edges contribute only their start vertex.
func (t *TriArc) Polygonize(maxChordError float64) Polygon {
	var pts []Point2D
	for i := 0; i < 3; i++ {
		pts = append(pts, t.vertices[i])
		if t.EdgeIsStraight(i) {
			continue
		}
		arc := t.ArcParameters(i)
		n := arcSegmentCount(arc.Radius, maxChordError)
		pts = appendArcInterior(pts, arc.Center, arc.Radius, arc.StartAngle, arc.EndAngle, n)
	}
	return Polygon(pts)
}
