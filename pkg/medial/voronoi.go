package medial

import (
	"fmt"
	"math"

	"github.com/dhconnelly/rtreego"
	"github.com/fogleman/delaunay"

	"github.com/tansell/chipcarve/pkg/geometry"
)

// siteSpacing is the sampling interval, in normalized units, at which each
// polygon segment site is discretized into point sites. The Voronoi diagram
// of the discretized sites converges on the diagram of the true point +
// segment sites as the spacing shrinks; 0.02 keeps the medial axis within
// the polygon tolerances used upstream while staying cheap to triangulate.
const siteSpacing = 0.02

// minClearanceRadius discards Voronoi vertices that sit effectively on the
// boundary; they carry no carving depth and only add noise twigs.
const minClearanceRadius = 1e-6

// voronoiEdge is one interior Voronoi edge with clearance at both ends,
// in normalized coordinates.
type voronoiEdge struct {
	a, b   geometry.Point2D
	ra, rb float64
}

// buildMedialEdges computes the filtered interior Voronoi edges of the
// normalized polygon. The polygon is treated as point sites (vertices) plus
// segment sites (edges); the diagram is obtained as the dual of the
// Delaunay triangulation of the densely sampled boundary. Two filters
// apply, in order: the interior filter keeps edges whose Voronoi vertices
// lie inside the polygon, and the medial-axis filter drops edges whose
// clearance changes faster than threshold per unit arc length.
func buildMedialEdges(polygon geometry.Polygon, threshold float64) ([]voronoiEdge, error) {
	sites := sampleBoundarySites(polygon)

	pts := make([]delaunay.Point, len(sites))
	for i, s := range sites {
		pts[i] = delaunay.Point{X: s.X, Y: s.Y}
	}
	tri, err := delaunay.Triangulate(pts)
	if err != nil {
		return nil, fmt.Errorf("voronoi triangulation failed: %w", err)
	}
	numTriangles := len(tri.Triangles) / 3
	if numTriangles == 0 {
		return nil, fmt.Errorf("voronoi triangulation produced no triangles")
	}

	clearance := newClearanceIndex(polygon)

	// Voronoi vertices are the circumcenters of the Delaunay triangles.
	// The interior filter keeps the ones inside the polygon with usable
	// clearance. Winding does not matter here: containment is tested
	// directly against the region, so counter-clockwise and clockwise
	// input select the same interior.
	centers := make([]geometry.Point2D, numTriangles)
	radii := make([]float64, numTriangles)
	keep := make([]bool, numTriangles)
	for t := 0; t < numTriangles; t++ {
		c, ok := circumcenter(
			pts[tri.Triangles[3*t]],
			pts[tri.Triangles[3*t+1]],
			pts[tri.Triangles[3*t+2]],
		)
		if !ok {
			continue
		}
		centers[t] = c
		if !polygon.Contains(c) {
			continue
		}
		r := clearance.distance(c)
		if r < minClearanceRadius {
			continue
		}
		radii[t] = r
		keep[t] = true
	}

	// A Voronoi edge joins the circumcenters of two triangles sharing a
	// Delaunay edge (a halfedge and its twin).
	var edges []voronoiEdge
	for e, twin := range tri.Halfedges {
		if twin < e {
			continue // visit each pair once; also skips hull edges (-1)
		}
		t1, t2 := e/3, twin/3
		if !keep[t1] || !keep[t2] {
			continue
		}
		a, b := centers[t1], centers[t2]
		length := geometry.Distance(a, b)
		if length < coincidentTolerance {
			continue // cocircular sites collapse to one Voronoi vertex
		}
		// Medial-axis filter: trim twigs whose clearance derivative along
		// the edge exceeds the threshold.
		if math.Abs(radii[t2]-radii[t1])/length > threshold {
			continue
		}
		edges = append(edges, voronoiEdge{a: a, b: b, ra: radii[t1], rb: radii[t2]})
	}
	return edges, nil
}

// sampleBoundarySites returns the polygon vertices plus evenly spaced
// interior samples of every edge, in boundary order.
func sampleBoundarySites(polygon geometry.Polygon) []geometry.Point2D {
	var sites []geometry.Point2D
	n := len(polygon)
	for i := 0; i < n; i++ {
		p, q := polygon[i], polygon[(i+1)%n]
		sites = append(sites, p)
		steps := int(math.Ceil(geometry.Distance(p, q) / siteSpacing))
		for j := 1; j < steps; j++ {
			sites = append(sites, geometry.Lerp(p, q, float64(j)/float64(steps)))
		}
	}
	return sites
}

// circumcenter returns the circumcenter of triangle abc, or false for a
// degenerate triangle.
func circumcenter(a, b, c delaunay.Point) (geometry.Point2D, bool) {
	d := 2 * (a.X*(b.Y-c.Y) + b.X*(c.Y-a.Y) + c.X*(a.Y-b.Y))
	if math.Abs(d) < 1e-14 {
		return geometry.Point2D{}, false
	}
	a2 := a.X*a.X + a.Y*a.Y
	b2 := b.X*b.X + b.Y*b.Y
	c2 := c.X*c.X + c.Y*c.Y
	ux := (a2*(b.Y-c.Y) + b2*(c.Y-a.Y) + c2*(a.Y-b.Y)) / d
	uy := (a2*(c.X-b.X) + b2*(a.X-c.X) + c2*(b.X-a.X)) / d
	return geometry.Point2D{X: ux, Y: uy}, true
}

// clearanceIndex answers nearest-boundary-distance queries against the
// polygon's segment sites through an R-tree.
type clearanceIndex struct {
	tree     *rtreego.Rtree
	segments []*boundarySegment
}

type boundarySegment struct {
	a, b geometry.Point2D
	rect rtreego.Rect
}

func (s *boundarySegment) Bounds() rtreego.Rect { return s.rect }

// clearanceCandidates bounds the nearest-neighbor candidate set; the
// R-tree ranks by rectangle distance, so the exact nearest segment is
// recovered by refining a handful of candidates.
const clearanceCandidates = 8

func newClearanceIndex(polygon geometry.Polygon) *clearanceIndex {
	idx := &clearanceIndex{tree: rtreego.NewTree(2, 4, 8)}
	n := len(polygon)
	for i := 0; i < n; i++ {
		a, b := polygon[i], polygon[(i+1)%n]
		minX, maxX := math.Min(a.X, b.X), math.Max(a.X, b.X)
		minY, maxY := math.Min(a.Y, b.Y), math.Max(a.Y, b.Y)
		// Pad so axis-aligned segments still form a valid rectangle.
		const pad = 1e-9
		rect, err := rtreego.NewRect(
			rtreego.Point{minX - pad, minY - pad},
			[]float64{maxX - minX + 2*pad, maxY - minY + 2*pad},
		)
		if err != nil {
			continue
		}
		seg := &boundarySegment{a: a, b: b, rect: rect}
		idx.segments = append(idx.segments, seg)
		idx.tree.Insert(seg)
	}
	return idx
}

// distance returns the exact distance from p to the nearest boundary
// segment.
func (idx *clearanceIndex) distance(p geometry.Point2D) float64 {
	k := clearanceCandidates
	if k > len(idx.segments) {
		k = len(idx.segments)
	}
	best := math.MaxFloat64
	for _, obj := range idx.tree.NearestNeighbors(k, rtreego.Point{p.X, p.Y}) {
		seg, ok := obj.(*boundarySegment)
		if !ok {
			continue
		}
		if d := geometry.SegmentDistance(p, seg.a, seg.b); d < best {
			best = d
		}
	}
	if best == math.MaxFloat64 {
		return 0
	}
	return best
}
