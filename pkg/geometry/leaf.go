package geometry

import "math"

// DefaultLeafRadiusFactor is the factor applied to the focus distance when
// a design supplies no explicit radius.
const DefaultLeafRadiusFactor = 0.65

// Leaf is a vesica piscis: the intersection of two equal disks of radius
// Radius centred at the two foci. Both boundary arcs pass through both
// foci. A leaf whose radius is smaller than half the focus distance is
// degenerate and treated as empty.
type Leaf struct {
	focus1 Point2D
	focus2 Point2D
	radius float64
}

// NewLeaf constructs a leaf from its two foci and disk radius.
func NewLeaf(f1, f2 Point2D, radius float64) *Leaf {
	return &Leaf{focus1: f1, focus2: f2, radius: radius}
}

// Focus1 returns the first focus.
func (l *Leaf) Focus1() Point2D { return l.focus1 }

// Focus2 returns the second focus.
func (l *Leaf) Focus2() Point2D { return l.focus2 }

// Radius returns the disk radius.
func (l *Leaf) Radius() float64 { return l.radius }

// IsValid reports whether the leaf encloses a non-empty region: the foci
// must be distinct and no farther apart than the disk diameter.
func (l *Leaf) IsValid() bool {
	d := Distance(l.focus1, l.focus2)
	return d >= Epsilon && d <= 2*l.radius
}

// chordToCenter is the distance from the chord midpoint to either arc
// center, zero for degenerate leaves.
func (l *Leaf) chordToCenter() float64 {
	if !l.IsValid() {
		return 0
	}
	half := Distance(l.focus1, l.focus2) / 2
	return math.Sqrt(math.Max(0, l.radius*l.radius-half*half))
}

// Sagitta returns the maximum perpendicular distance from the chord
// f1→f2 to either arc, zero for degenerate leaves.
func (l *Leaf) Sagitta() float64 {
	if !l.IsValid() {
		return 0
	}
	return l.radius - l.chordToCenter()
}

// ArcCenters returns the two arc centers. They lie on the perpendicular
// bisector of the chord, symmetric about its midpoint.
func (l *Leaf) ArcCenters() (Point2D, Point2D) {
	mid := Midpoint(l.focus1, l.focus2)
	perp := Perpendicular(l.focus1, l.focus2)
	d := l.chordToCenter()
	return mid.Add(perp.Scale(d)), mid.Sub(perp.Scale(d))
}

// ArcParameters returns the parameters of the two boundary arcs: the first
// sweeps from focus1 to focus2, the second back from focus2 to focus1.
// Both are minor arcs. Degenerate leaves yield zero-radius arcs at the
// chord midpoint.
func (l *Leaf) ArcParameters() (ArcParams, ArcParams) {
	if !l.IsValid() {
		mid := Midpoint(l.focus1, l.focus2)
		degenerate := ArcParams{Center: mid}
		return degenerate, degenerate
	}

	c1, c2 := l.ArcCenters()

	a1 := arcBetween(c1, l.radius, l.focus1, l.focus2)
	a2 := arcBetween(c2, l.radius, l.focus2, l.focus1)
	return a1, a2
}

// arcBetween builds the minor arc from p to q around center c.
func arcBetween(c Point2D, radius float64, p, q Point2D) ArcParams {
	start := math.Atan2(p.Y-c.Y, p.X-c.X)
	end := math.Atan2(q.Y-c.Y, q.X-c.X)
	return ArcParams{
		Center:           c,
		Radius:           radius,
		StartAngle:       start,
		EndAngle:         end,
		Counterclockwise: wrapAngle(end-start) > 0,
	}
}

// Vertices implements Shape; the defining vertices are the foci.
func (l *Leaf) Vertices() []Point2D {
	return []Point2D{l.focus1, l.focus2}
}

// Centroid implements Shape; the centroid is the chord midpoint.
func (l *Leaf) Centroid() Point2D {
	return Midpoint(l.focus1, l.focus2)
}

// Contains implements Shape: a point is inside the vesica piscis iff it
// lies inside both defining disks. Degenerate leaves contain nothing.
func (l *Leaf) Contains(p Point2D) bool {
	if !l.IsValid() {
		return false
	}
	return Distance(p, l.focus1) <= l.radius && Distance(p, l.focus2) <= l.radius
}

// Polygonize implements Shape. Each arc is divided into enough chords to
// keep the sagitta error at or below maxChordError, with at least
// minArcSegments per arc. The foci appear exactly once each, as the shared
// arc endpoints.
func (l *Leaf) Polygonize(maxChordError float64) Polygon {
	if !l.IsValid() {
		return nil
	}

	arc1, arc2 := l.ArcParameters()
	n := arcSegmentCount(l.radius, maxChordError)

	pts := make([]Point2D, 0, 2*n)
	pts = append(pts, l.focus1)
	pts = appendArcInterior(pts, arc1.Center, arc1.Radius, arc1.StartAngle, arc1.EndAngle, n)
	pts = append(pts, l.focus2)
	pts = appendArcInterior(pts, arc2.Center, arc2.Radius, arc2.StartAngle, arc2.EndAngle, n)
	return Polygon(pts)
}
