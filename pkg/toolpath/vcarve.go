package toolpath

import (
	"fmt"
	"log"
	"math"
	"strings"

	"github.com/tansell/chipcarve/pkg/geometry"
	"github.com/tansell/chipcarve/pkg/medial"
)

// SurfaceQueryFunc reports the ambient surface height at a planar position.
// Arguments and result are in centimetres, matching the host CAD query; a
// NaN result means no surface exists at that position. The function must be
// pure for the duration of one job.
type SurfaceQueryFunc func(xCM, yCM float64) float64

// VCarvePoint is one toolpath sample: planar position in mm, cutting depth
// in mm below the sketch plane, and the medial clearance radius in mm that
// produced the depth.
type VCarvePoint struct {
	Position  geometry.Point2D `json:"position"`
	Depth     float64          `json:"depth"`
	Clearance float64          `json:"clearance"`
}

// VCarvePath is an ordered run of V-carve points cut in sequence.
type VCarvePath struct {
	Points      []VCarvePoint `json:"points"`
	TotalLength float64       `json:"totalLength"`
	Closed      bool          `json:"closed"`
}

// IsValid reports whether the path has enough points to cut.
func (p VCarvePath) IsValid() bool { return len(p.Points) >= 2 }

// Start and End return the path's first and last points. Both panic on an
// empty path; callers check IsValid first.
func (p VCarvePath) Start() VCarvePoint { return p.Points[0] }
func (p VCarvePath) End() VCarvePoint   { return p.Points[len(p.Points)-1] }

func (p *VCarvePath) recomputeLength() {
	p.TotalLength = 0
	for i := 1; i < len(p.Points); i++ {
		p.TotalLength += geometry.Distance(p.Points[i-1].Position, p.Points[i].Position)
	}
}

// VCarveResults is the outcome of one V-carve job.
type VCarveResults struct {
	Paths []VCarvePath `json:"paths"`

	NumPaths    int     `json:"numPaths"`
	TotalPoints int     `json:"totalPoints"`
	TotalLength float64 `json:"totalLength"`
	MinDepth    float64 `json:"minDepth"`
	MaxDepth    float64 `json:"maxDepth"`

	Success      bool   `json:"success"`
	ErrorMessage string `json:"errorMessage,omitempty"`
}

func failedVCarve(msg string) VCarveResults {
	return VCarveResults{ErrorMessage: msg}
}

// UpdateStatistics recomputes the aggregate counters from Paths.
func (r *VCarveResults) UpdateStatistics() {
	r.NumPaths = len(r.Paths)
	r.TotalPoints = 0
	r.TotalLength = 0
	r.MinDepth = math.MaxFloat64
	r.MaxDepth = 0
	for _, path := range r.Paths {
		r.TotalPoints += len(path.Points)
		r.TotalLength += path.TotalLength
		for _, pt := range path.Points {
			if pt.Depth < r.MinDepth {
				r.MinDepth = pt.Depth
			}
			if pt.Depth > r.MaxDepth {
				r.MaxDepth = pt.Depth
			}
		}
	}
	if r.TotalPoints == 0 {
		r.MinDepth = 0
	}
}

// Summary formats the user-visible job statistics: total length to the
// nearest millimetre, depths to 0.1 mm.
func (r *VCarveResults) Summary() string {
	if !r.Success {
		return fmt.Sprintf("v-carve failed: %s", r.ErrorMessage)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d paths, %d points, total length %.0f mm, ",
		r.NumPaths, r.TotalPoints, r.TotalLength)
	fmt.Fprintf(&b, "depth %.1f-%.1f mm", r.MinDepth, r.MaxDepth)
	return b.String()
}

// Depth maps a clearance radius in mm to the V-carve depth for the given
// parameters: d = r / tan(θ/2), clamped to [0, MaxVCarveDepth]. Invalid
// angle, depth limit, or radius all yield zero depth.
func Depth(clearanceMM float64, params Parameters) float64 {
	if params.ToolAngle <= 0 || params.ToolAngle >= 180 ||
		params.MaxVCarveDepth <= 0 || clearanceMM <= 0 {
		return 0
	}
	d := clearanceMM / math.Tan(params.ToolAngle/2*math.Pi/180)
	if d < 0 {
		return 0
	}
	if d > params.MaxVCarveDepth {
		return params.MaxVCarveDepth
	}
	return d
}

// Generator maps medial results to V-carve toolpaths. Surface is optional;
// when present and ProjectToSurface is set, each point queries the ambient
// surface. The surface height does not alter the depth: depths are relative
// to the local surface, and the vertical placement happens downstream at
// sketch construction.
type Generator struct {
	Params  Parameters
	Surface SurfaceQueryFunc
	Verbose bool
	Logger  *log.Logger
}

// NewGenerator returns a Generator with validated parameters.
func NewGenerator(params Parameters) (*Generator, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &Generator{Params: params, Logger: log.Default()}, nil
}

func (g *Generator) logf(format string, args ...interface{}) {
	if g.Verbose && g.Logger != nil {
		g.Logger.Printf(format, args...)
	}
}

// FromMedialResults samples the medial chains at the configured spacing,
// maps depths, and merges adjoining paths.
func (g *Generator) FromMedialResults(results medial.Results) VCarveResults {
	if err := g.Params.Validate(); err != nil {
		return failedVCarve(err.Error())
	}
	if !results.Success {
		return failedVCarve(fmt.Sprintf("medial axis unavailable: %s", results.ErrorMessage))
	}
	sampled := SampleMedialResults(results, g.Params.SamplingDistance)
	return g.fromSampledPaths(sampled)
}

// FromRawMedialResults maps depths onto the engine's chains without
// resampling, preserving the medial walk's exact point count.
func (g *Generator) FromRawMedialResults(results medial.Results) VCarveResults {
	if err := g.Params.Validate(); err != nil {
		return failedVCarve(err.Error())
	}
	if !results.Success {
		return failedVCarve(fmt.Sprintf("medial axis unavailable: %s", results.ErrorMessage))
	}
	var sampled []SampledMedialPath
	for i, chainPoints := range results.Chains {
		path := SampledMedialPath{}
		for j, p := range chainPoints {
			path.Points = append(path.Points, p.Scale(cmToMM))
			path.Clearances = append(path.Clearances, results.ClearanceRadii[i][j]*cmToMM)
		}
		for j := 1; j < len(path.Points); j++ {
			path.TotalLength += geometry.Distance(path.Points[j-1], path.Points[j])
		}
		sampled = append(sampled, path)
	}
	return g.fromSampledPaths(sampled)
}

// FromSampledPaths maps depths onto pre-sampled millimetre paths.
func (g *Generator) FromSampledPaths(paths []SampledMedialPath) VCarveResults {
	if err := g.Params.Validate(); err != nil {
		return failedVCarve(err.Error())
	}
	return g.fromSampledPaths(paths)
}

func (g *Generator) fromSampledPaths(paths []SampledMedialPath) VCarveResults {
	results := VCarveResults{Success: true}
	for _, sp := range paths {
		path := VCarvePath{TotalLength: sp.TotalLength}
		for i, pos := range sp.Points {
			depth := Depth(sp.Clearances[i], g.Params)
			// Depths stay relative to the local surface whether or not a
			// surface is found; the vertical offset is applied downstream.
			// The query still runs so missing coverage is visible in logs.
			if g.Params.ProjectToSurface && g.Surface != nil {
				if z := g.Surface(pos.X/cmToMM, pos.Y/cmToMM); math.IsNaN(z) {
					g.logf("vcarve: no surface at (%.3f, %.3f) mm", pos.X, pos.Y)
				}
			}
			path.Points = append(path.Points, VCarvePoint{
				Position:  pos,
				Depth:     depth,
				Clearance: sp.Clearances[i],
			})
		}
		if !path.IsValid() {
			continue
		}
		results.Paths = append(results.Paths, path)
	}
	if len(results.Paths) == 0 {
		return failedVCarve("no valid toolpaths produced")
	}
	results.Paths = MergePaths(results.Paths, MergeTolerance)
	results.UpdateStatistics()
	g.logf("vcarve: %s", results.Summary())
	return results
}
