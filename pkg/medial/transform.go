// Package medial computes the medial axis of a closed polygon together
// with a clearance-radius function: for every medial point, the Euclidean
// distance to the nearest boundary.
//
// The engine builds a Voronoi diagram of the polygon's point and segment
// sites, filters it to the interior medial subgraph, and walks the result
// as chains of (position, clearance) samples. All computation happens in a
// normalized unit-disk space for numerical stability; results are returned
// in the caller's original coordinates.
//
// Coordinates passed to this package are in the host CAD system's native
// length unit (centimetres). Conversion to millimetres happens downstream
// in the toolpath package.
package medial

import "github.com/tansell/chipcarve/pkg/geometry"

// UnitDiskMargin is the share of the unit disk the normalized polygon may
// occupy. The Voronoi stage assumes all sites lie strictly inside the disk.
const UnitDiskMargin = 0.95

// TransformParams captures the affine map used to normalize a polygon into
// the unit disk: translation by -Offset followed by uniform scaling.
type TransformParams struct {
	Offset      geometry.Point2D // bounding-box center of the original polygon
	Scale       float64          // uniform scale factor into the unit disk
	OriginalMin geometry.Point2D
	OriginalMax geometry.Point2D
}

// identityTransform is used before any polygon has been seen.
func identityTransform() TransformParams {
	return TransformParams{Scale: 1}
}

// ToUnitDisk normalizes a single point.
func (t TransformParams) ToUnitDisk(p geometry.Point2D) geometry.Point2D {
	return p.Sub(t.Offset).Scale(t.Scale)
}

// FromUnitDisk maps a normalized point back to original coordinates.
func (t TransformParams) FromUnitDisk(p geometry.Point2D) geometry.Point2D {
	return p.Scale(1 / t.Scale).Add(t.Offset)
}

// transformToUnitDisk computes the normalization for a polygon and returns
// the normalized copy. The polygon's bounding-box center moves to the
// origin and its larger dimension is scaled to UnitDiskMargin.
func transformToUnitDisk(polygon geometry.Polygon) (geometry.Polygon, TransformParams) {
	params := identityTransform()
	if len(polygon) == 0 {
		return polygon, params
	}

	min, max := polygon.BoundingBox()
	params.OriginalMin = min
	params.OriginalMax = max
	params.Offset = geometry.Midpoint(min, max)

	maxDim := max.X - min.X
	if h := max.Y - min.Y; h > maxDim {
		maxDim = h
	}
	if maxDim > 0 {
		params.Scale = UnitDiskMargin / maxDim
	}

	out := make(geometry.Polygon, len(polygon))
	for i, p := range polygon {
		out[i] = params.ToUnitDisk(p)
	}
	return out, params
}
