package medial

import (
	"math"

	"github.com/tansell/chipcarve/pkg/geometry"
)

// Results is the complete output of a medial-axis computation. Chains and
// clearance radii are in the original (pre-normalization) coordinates and
// unit. On failure Success is false and ErrorMessage describes the cause;
// no partial chains are emitted.
type Results struct {
	Chains         [][]geometry.Point2D // one slice of positions per medial chain
	ClearanceRadii [][]float64          // parallel to Chains
	Transform      TransformParams

	NumChains    int
	TotalPoints  int
	TotalLength  float64
	MinClearance float64
	MaxClearance float64

	Success      bool
	ErrorMessage string
}

// failed builds an unsuccessful Results carrying only an error message.
func failed(msg string) Results {
	return Results{Transform: identityTransform(), ErrorMessage: msg}
}

// updateStatistics recomputes the aggregate fields from the chains.
func (r *Results) updateStatistics() {
	r.NumChains = len(r.Chains)
	r.TotalPoints = 0
	r.TotalLength = 0
	r.MinClearance = math.MaxFloat64
	r.MaxClearance = 0

	for i, chain := range r.Chains {
		r.TotalPoints += len(chain)
		for j := 1; j < len(chain); j++ {
			r.TotalLength += geometry.Distance(chain[j-1], chain[j])
		}
		for _, c := range r.ClearanceRadii[i] {
			if c < r.MinClearance {
				r.MinClearance = c
			}
			if c > r.MaxClearance {
				r.MaxClearance = c
			}
		}
	}
	if r.MinClearance == math.MaxFloat64 {
		r.MinClearance = 0
	}
}
