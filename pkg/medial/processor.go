package medial

import (
	"fmt"
	"log"

	"github.com/tansell/chipcarve/pkg/geometry"
)

// Default processor configuration. Tolerance is in the caller's world
// units; the threshold is the unitless clearance-derivative limit of the
// medial-axis filter.
const (
	DefaultPolygonTolerance = 0.25
	DefaultMedialThreshold  = 0.8
	DefaultWalkPoints       = 0
)

// Processor computes medial axes of closed polygons. The zero value is not
// usable; construct with NewProcessor. Configuration is read-only during a
// computation, so a single Processor may serve many polygons in sequence.
type Processor struct {
	// PolygonTolerance is the chord tolerance used when the caller
	// polygonizes curved shapes; it is carried here for reporting only.
	PolygonTolerance float64

	// MedialThreshold is the maximum |d(clearance)/d(arclength)| an edge
	// may have before the medial-axis filter drops it.
	MedialThreshold float64

	// WalkPoints is the number of interpolated interior samples emitted
	// per medial edge during the walk. Zero emits edge endpoints only.
	WalkPoints int

	// Verbose enables progress logging through Logger.
	Verbose bool

	Logger *log.Logger
}

// NewProcessor returns a Processor with the default configuration and the
// standard logger.
func NewProcessor() *Processor {
	return &Processor{
		PolygonTolerance: DefaultPolygonTolerance,
		MedialThreshold:  DefaultMedialThreshold,
		WalkPoints:       DefaultWalkPoints,
		Logger:           log.Default(),
	}
}

func (p *Processor) logf(format string, args ...interface{}) {
	if p.Verbose && p.Logger != nil {
		p.Logger.Printf(format, args...)
	}
}

// ComputeMedialAxis computes the medial axis of polygon with clearance
// radii, in the polygon's own units. Failures are reported through the
// Results record rather than an error so callers always get the transform
// and statistics fields populated as far as the computation progressed.
func (p *Processor) ComputeMedialAxis(polygon geometry.Polygon) (results Results) {
	defer func() {
		if r := recover(); r != nil {
			results = failed(fmt.Sprintf("medial axis computation panicked: %v", r))
		}
	}()

	if err := validatePolygon(polygon); err != nil {
		return failed(err.Error())
	}

	normalized, transform := transformToUnitDisk(polygon)
	p.logf("medial: normalized %d vertices, scale=%g offset=(%g,%g)",
		len(normalized), transform.Scale, transform.Offset.X, transform.Offset.Y)

	if err := validateNormalizedPolygon(normalized); err != nil {
		return failed(err.Error())
	}

	edges, err := buildMedialEdges(normalized, p.MedialThreshold)
	if err != nil {
		return failed(err.Error())
	}
	if len(edges) == 0 {
		return failed("no medial axis edges survived filtering")
	}
	p.logf("medial: %d filtered edges", len(edges))

	chains := walkChains(edges, p.WalkPoints)
	for i, c := range chains {
		if err := c.selfCheck(); err != nil {
			p.logf("medial: warning: chain %d failed self-check: %v", i, err)
		}
	}

	results = Results{Transform: transform, Success: true}
	for _, c := range chains {
		if len(c.points) < 2 {
			continue
		}
		pts := make([]geometry.Point2D, len(c.points))
		radii := make([]float64, len(c.clearance))
		for j, pt := range c.points {
			pts[j] = transform.FromUnitDisk(pt)
			// Clearance is a length: the inverse map scales it but does
			// not translate it.
			radii[j] = c.clearance[j] / transform.Scale
		}
		results.Chains = append(results.Chains, pts)
		results.ClearanceRadii = append(results.ClearanceRadii, radii)
	}
	if len(results.Chains) == 0 {
		return failed("medial axis walk produced no usable chains")
	}
	results.updateStatistics()
	p.logf("medial: %d chains, %d points, total length %.4f",
		results.NumChains, results.TotalPoints, results.TotalLength)
	return results
}
