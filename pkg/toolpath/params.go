// Package toolpath converts medial-axis results into V-carve toolpaths:
// chains are resampled at a uniform spacing, clearance radii are mapped to
// cutting depths for a conical V-bit, and paths whose ends meet are merged.
//
// The medial stage works in the host CAD unit (centimetres); everything in
// this package is millimetres. The conversion happens exactly once, on
// entry, when medial results are sampled or ingested raw.
package toolpath

import "fmt"

// Defaults for the user-facing job parameters.
const (
	DefaultToolAngle        = 90.0 // degrees, included angle of the V-bit
	DefaultMaxVCarveDepth   = 10.0 // mm
	DefaultSamplingDistance = 1.0  // mm
)

// Parameters configures a V-carve job. All lengths are millimetres.
type Parameters struct {
	// ToolAngle is the included angle of the V-bit in degrees, exclusive
	// range (0, 180).
	ToolAngle float64

	// MaxVCarveDepth clamps every computed depth.
	MaxVCarveDepth float64

	// SamplingDistance is the target spacing between successive samples
	// along a medial chain.
	SamplingDistance float64

	// GenerateVCarveToolpaths gates the depth-mapping stage entirely.
	GenerateVCarveToolpaths bool

	// ProjectToSurface enables the ambient-surface query for each point.
	ProjectToSurface bool

	// PolygonTolerance is the chord tolerance handed to shape
	// polygonization, in mm.
	PolygonTolerance float64

	// MedialThreshold is forwarded to the medial-axis processor.
	MedialThreshold float64

	// MedialAxisWalkPoints is forwarded to the medial-axis processor.
	MedialAxisWalkPoints int
}

// DefaultParameters returns the parameter set used when a job specifies
// nothing.
func DefaultParameters() Parameters {
	return Parameters{
		ToolAngle:               DefaultToolAngle,
		MaxVCarveDepth:          DefaultMaxVCarveDepth,
		SamplingDistance:        DefaultSamplingDistance,
		GenerateVCarveToolpaths: true,
		PolygonTolerance:        0.25,
		MedialThreshold:         0.8,
	}
}

// ParameterError reports a parameter outside its allowed range.
type ParameterError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("invalid parameter %s=%g: %s", e.Field, e.Value, e.Reason)
}

// Validate rejects parameter sets before any computation starts.
func (p Parameters) Validate() error {
	if p.ToolAngle <= 0 || p.ToolAngle >= 180 {
		return &ParameterError{Field: "toolAngle", Value: p.ToolAngle, Reason: "must be in (0, 180) degrees"}
	}
	if p.MaxVCarveDepth <= 0 {
		return &ParameterError{Field: "maxVCarveDepth", Value: p.MaxVCarveDepth, Reason: "must be positive"}
	}
	if p.SamplingDistance <= 0 {
		return &ParameterError{Field: "samplingDistance", Value: p.SamplingDistance, Reason: "must be positive"}
	}
	if p.PolygonTolerance <= 0 {
		return &ParameterError{Field: "polygonTolerance", Value: p.PolygonTolerance, Reason: "must be positive"}
	}
	if p.MedialThreshold <= 0 {
		return &ParameterError{Field: "medialThreshold", Value: p.MedialThreshold, Reason: "must be positive"}
	}
	if p.MedialAxisWalkPoints < 0 {
		return &ParameterError{Field: "medialAxisWalkPoints", Value: float64(p.MedialAxisWalkPoints), Reason: "must be non-negative"}
	}
	return nil
}
