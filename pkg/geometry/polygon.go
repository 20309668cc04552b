package geometry

// Polygon is an ordered vertex sequence, implicitly closed (last → first).
// A valid polygon has at least three vertices and is simple; behaviour on
// self-intersecting input is undefined.
type Polygon []Point2D

// SignedArea returns the signed area of the polygon, positive for
// counter-clockwise winding.
func (p Polygon) SignedArea() float64 {
	if len(p) < 3 {
		return 0
	}
	area := 0.0
	for i := range p {
		j := (i + 1) % len(p)
		area += p[i].X*p[j].Y - p[j].X*p[i].Y
	}
	return area / 2
}

// IsCounterClockwise reports whether the polygon winds counter-clockwise.
func (p Polygon) IsCounterClockwise() bool {
	return p.SignedArea() > 0
}

// Perimeter returns the total boundary length including the closing edge.
func (p Polygon) Perimeter() float64 {
	if len(p) < 2 {
		return 0
	}
	total := 0.0
	for i := range p {
		total += Distance(p[i], p[(i+1)%len(p)])
	}
	return total
}

// BoundingBox returns the axis-aligned bounding box of the polygon.
func (p Polygon) BoundingBox() (min, max Point2D) {
	if len(p) == 0 {
		return Point2D{}, Point2D{}
	}
	min, max = p[0], p[0]
	for _, v := range p[1:] {
		if v.X < min.X {
			min.X = v.X
		}
		if v.Y < min.Y {
			min.Y = v.Y
		}
		if v.X > max.X {
			max.X = v.X
		}
		if v.Y > max.Y {
			max.Y = v.Y
		}
	}
	return min, max
}

// Contains reports whether the point lies inside the polygon using the
// crossing-number test. Points exactly on an edge may land on either side;
// callers needing boundary inclusion should test edge distance separately.
func (p Polygon) Contains(pt Point2D) bool {
	inside := false
	n := len(p)
	if n < 3 {
		return false
	}
	j := n - 1
	for i := 0; i < n; i++ {
		if (p[i].Y > pt.Y) != (p[j].Y > pt.Y) {
			xCross := p[i].X + (pt.Y-p[i].Y)*(p[j].X-p[i].X)/(p[j].Y-p[i].Y)
			if pt.X < xCross {
				inside = !inside
			}
		}
		j = i
	}
	return inside
}

// Reverse returns a copy of the polygon with opposite winding.
func (p Polygon) Reverse() Polygon {
	out := make(Polygon, len(p))
	for i, v := range p {
		out[len(p)-1-i] = v
	}
	return out
}

// Vertices implements Shape.
func (p Polygon) Vertices() []Point2D { return p }

// Polygonize implements Shape; a polygon is already its own approximation.
func (p Polygon) Polygonize(maxChordError float64) Polygon { return p }

// Centroid implements Shape.
func (p Polygon) Centroid() Point2D { return VerticesCentroid(p) }
