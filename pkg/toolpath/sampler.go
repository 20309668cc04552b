package toolpath

import (
	"math"
	"sort"

	"github.com/tansell/chipcarve/pkg/geometry"
	"github.com/tansell/chipcarve/pkg/medial"
)

// cmToMM converts the medial engine's native unit into millimetres at the
// package boundary.
const cmToMM = 10.0

// Sampler tuning. Segments longer than enhanceThreshold are densified with
// one interpolated point per millimetre before sub-selection, capped at
// enhanceCap points per segment. minSampleSpacing is the Euclidean dedup
// distance between selected samples, and shortChainLength is the total
// length below which only the endpoints are kept.
const (
	enhanceThreshold = 1.5
	enhanceCap       = 50
	minSampleSpacing = 0.1
	shortChainLength = 0.2
)

// SampledMedialPath is one medial chain after resampling, in millimetres.
type SampledMedialPath struct {
	Points      []geometry.Point2D
	Clearances  []float64
	TotalLength float64
}

// SampleMedialResults converts successful medial results from centimetres
// to millimetres and resamples every chain at approximately uniform
// spacing. Chains keep their engine order; empty chains are skipped.
func SampleMedialResults(results medial.Results, spacing float64) []SampledMedialPath {
	var paths []SampledMedialPath
	for i, chainPoints := range results.Chains {
		pts := make([]geometry.Point2D, len(chainPoints))
		radii := make([]float64, len(chainPoints))
		for j, p := range chainPoints {
			pts[j] = p.Scale(cmToMM)
			radii[j] = results.ClearanceRadii[i][j] * cmToMM
		}
		path, ok := SampleChain(pts, radii, spacing)
		if ok {
			paths = append(paths, path)
		}
	}
	return paths
}

// SampleChain resamples one chain already expressed in millimetres.
// Densification runs first so that sharp corners preserved by the medial
// walk are never dropped, then a uniform sub-selection picks the sample
// nearest each target arc length. The chain endpoints are always kept. A
// false second return means the chain was empty.
func SampleChain(points []geometry.Point2D, clearances []float64, spacing float64) (SampledMedialPath, bool) {
	switch len(points) {
	case 0:
		return SampledMedialPath{}, false
	case 1:
		return SampledMedialPath{
			Points:     []geometry.Point2D{points[0]},
			Clearances: []float64{clearances[0]},
		}, true
	}

	enhanced, enhancedRadii := enhanceChain(points, clearances)

	cumulative := make([]float64, len(enhanced))
	for i := 1; i < len(enhanced); i++ {
		cumulative[i] = cumulative[i-1] + geometry.Distance(enhanced[i-1], enhanced[i])
	}
	total := cumulative[len(cumulative)-1]

	selected := []int{0, len(enhanced) - 1}
	if total > shortChainLength {
		n := int(total/spacing) + 1
		if n < 2 {
			n = 2
		}
		for i := 1; i <= n-2; i++ {
			target := total * float64(i) / float64(n-1)
			idx := nearestCumulative(cumulative, target)
			if !tooClose(enhanced, selected, idx) {
				selected = append(selected, idx)
			}
		}
	}
	sort.Ints(selected)

	path := SampledMedialPath{TotalLength: total}
	for _, idx := range selected {
		path.Points = append(path.Points, enhanced[idx])
		path.Clearances = append(path.Clearances, enhancedRadii[idx])
	}
	return path, true
}

// enhanceChain inserts linearly interpolated points on every segment longer
// than enhanceThreshold, roughly one per millimetre.
func enhanceChain(points []geometry.Point2D, clearances []float64) ([]geometry.Point2D, []float64) {
	enhanced := []geometry.Point2D{points[0]}
	radii := []float64{clearances[0]}
	for i := 1; i < len(points); i++ {
		a, b := points[i-1], points[i]
		if length := geometry.Distance(a, b); length > enhanceThreshold {
			k := int(length) - 1
			if k > enhanceCap {
				k = enhanceCap
			}
			for j := 1; j <= k; j++ {
				t := float64(j) / float64(k+1)
				enhanced = append(enhanced, geometry.Lerp(a, b, t))
				radii = append(radii, clearances[i-1]+(clearances[i]-clearances[i-1])*t)
			}
		}
		enhanced = append(enhanced, b)
		radii = append(radii, clearances[i])
	}
	return enhanced, radii
}

// nearestCumulative returns the index whose cumulative distance is closest
// to target. The array is sorted, so binary search then compare neighbors.
func nearestCumulative(cumulative []float64, target float64) int {
	idx := sort.SearchFloat64s(cumulative, target)
	if idx == len(cumulative) {
		return idx - 1
	}
	if idx > 0 && math.Abs(cumulative[idx-1]-target) < math.Abs(cumulative[idx]-target) {
		return idx - 1
	}
	return idx
}

// tooClose reports whether candidate idx sits within minSampleSpacing of an
// already-selected sample. This guards against micro-steps from zero-length
// input edges.
func tooClose(points []geometry.Point2D, selected []int, idx int) bool {
	for _, s := range selected {
		if s == idx {
			return true
		}
		if geometry.Distance(points[s], points[idx]) < minSampleSpacing {
			return true
		}
	}
	return false
}
