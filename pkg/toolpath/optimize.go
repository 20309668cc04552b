package toolpath

import (
	"sort"

	"github.com/tansell/chipcarve/pkg/geometry"
)

// MergeTolerance is the endpoint distance, in mm, under which two paths are
// joined into one continuous cut.
const MergeTolerance = 0.1

// MergePaths greedily joins paths whose endpoints coincide within tol.
// Paths are sorted by descending length first so long paths dominate
// merges; the pass repeats until no merge occurs. Callers must not rely on
// the output order beyond "each path appears once".
func MergePaths(paths []VCarvePath, tol float64) []VCarvePath {
	merged := make([]VCarvePath, len(paths))
	copy(merged, paths)
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].TotalLength > merged[j].TotalLength
	})

	for {
		changed := false
		for i := 0; i < len(merged) && !changed; i++ {
			for j := i + 1; j < len(merged); j++ {
				joined, ok := mergePair(merged[i], merged[j], tol)
				if !ok {
					continue
				}
				merged[i] = joined
				merged = append(merged[:j], merged[j+1:]...)
				changed = true
				break
			}
		}
		if !changed {
			return merged
		}
	}
}

// mergePair joins a and b if a pair of their endpoints lies within tol.
// The four cases are tried in order: end-start, end-end, start-end,
// start-start.
func mergePair(a, b VCarvePath, tol float64) (VCarvePath, bool) {
	if !a.IsValid() || !b.IsValid() {
		return VCarvePath{}, false
	}
	within := func(p, q VCarvePoint) bool {
		return geometry.Distance(p.Position, q.Position) <= tol
	}
	switch {
	case within(a.End(), b.Start()):
		return concat(a.Points, b.Points), true
	case within(a.End(), b.End()):
		return concat(a.Points, reversed(b.Points)), true
	case within(a.Start(), b.End()):
		return concat(b.Points, a.Points), true
	case within(a.Start(), b.Start()):
		return concat(reversed(b.Points), a.Points), true
	}
	return VCarvePath{}, false
}

func concat(head, tail []VCarvePoint) VCarvePath {
	points := make([]VCarvePoint, 0, len(head)+len(tail))
	points = append(points, head...)
	points = append(points, tail...)
	path := VCarvePath{Points: points}
	path.recomputeLength()
	return path
}

func reversed(points []VCarvePoint) []VCarvePoint {
	out := make([]VCarvePoint, len(points))
	for i, p := range points {
		out[len(points)-1-i] = p
	}
	return out
}
