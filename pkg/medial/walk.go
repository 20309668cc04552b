package medial

import (
	"fmt"
	"math"
	"sort"

	"github.com/tansell/chipcarve/pkg/geometry"
)

// densifyLength and densifyStep control straight-run subdivision during the
// walk: any emitted segment longer than densifyLength (normalized units) is
// split into pieces of roughly densifyStep so downstream sampling never
// starves on a long straight medial run.
const (
	densifyLength = 1.0
	densifyStep   = 0.8
)

// quantScale snaps Voronoi vertex coordinates onto a grid so that edges
// meeting at the same vertex share a node key despite float noise.
const quantScale = 1e7

type nodeKey struct{ x, y int64 }

func keyOf(p geometry.Point2D) nodeKey {
	return nodeKey{
		x: int64(math.Round(p.X * quantScale)),
		y: int64(math.Round(p.Y * quantScale)),
	}
}

// medialGraph is the filtered medial subgraph in adjacency-list form.
type medialGraph struct {
	points    map[nodeKey]geometry.Point2D
	clearance map[nodeKey]float64
	adjacency map[nodeKey][]nodeKey
	visited   map[[2]nodeKey]bool
}

func newMedialGraph(edges []voronoiEdge) *medialGraph {
	g := &medialGraph{
		points:    make(map[nodeKey]geometry.Point2D),
		clearance: make(map[nodeKey]float64),
		adjacency: make(map[nodeKey][]nodeKey),
		visited:   make(map[[2]nodeKey]bool),
	}
	for _, e := range edges {
		ka, kb := keyOf(e.a), keyOf(e.b)
		if ka == kb {
			continue
		}
		g.addNode(ka, e.a, e.ra)
		g.addNode(kb, e.b, e.rb)
		if !g.connected(ka, kb) {
			g.adjacency[ka] = append(g.adjacency[ka], kb)
			g.adjacency[kb] = append(g.adjacency[kb], ka)
		}
	}
	return g
}

func (g *medialGraph) addNode(k nodeKey, p geometry.Point2D, r float64) {
	if _, ok := g.points[k]; !ok {
		g.points[k] = p
		g.clearance[k] = r
		return
	}
	// Quantization merges near-coincident vertices; keep the larger
	// clearance so merged junctions never under-report depth.
	if r > g.clearance[k] {
		g.clearance[k] = r
	}
}

func (g *medialGraph) connected(a, b nodeKey) bool {
	for _, n := range g.adjacency[a] {
		if n == b {
			return true
		}
	}
	return false
}

func edgeID(a, b nodeKey) [2]nodeKey {
	if b.x < a.x || (b.x == a.x && b.y < a.y) {
		a, b = b, a
	}
	return [2]nodeKey{a, b}
}

// chain is one maximal simple path through the medial graph, with parallel
// clearance values, still in normalized coordinates.
type chain struct {
	points    []geometry.Point2D
	clearance []float64
}

// walkChains decomposes the medial graph into maximal simple chains. Walks
// start at every node whose degree differs from two (endpoints and
// junctions); pure cycles with no such node are walked from an arbitrary
// start back to itself. walkPoints extra samples are interpolated on each
// edge, then long runs are densified.
func walkChains(edges []voronoiEdge, walkPoints int) []chain {
	g := newMedialGraph(edges)

	starts := make([]nodeKey, 0, len(g.adjacency))
	for k := range g.adjacency {
		starts = append(starts, k)
	}
	// Map iteration order is random; sort for a stable walk order.
	sort.Slice(starts, func(i, j int) bool {
		if starts[i].x != starts[j].x {
			return starts[i].x < starts[j].x
		}
		return starts[i].y < starts[j].y
	})

	var chains []chain
	for _, k := range starts {
		if len(g.adjacency[k]) == 2 {
			continue
		}
		for _, next := range g.adjacency[k] {
			if g.visited[edgeID(k, next)] {
				continue
			}
			chains = append(chains, g.walkFrom(k, next, walkPoints))
		}
	}
	// Remaining unvisited edges belong to cycles.
	for _, k := range starts {
		for _, next := range g.adjacency[k] {
			if g.visited[edgeID(k, next)] {
				continue
			}
			chains = append(chains, g.walkFrom(k, next, walkPoints))
		}
	}
	return chains
}

// walkFrom follows edges from start through next until it reaches a node of
// degree != 2 or an already-visited edge (cycle closure).
func (g *medialGraph) walkFrom(start, next nodeKey, walkPoints int) chain {
	c := chain{
		points:    []geometry.Point2D{g.points[start]},
		clearance: []float64{g.clearance[start]},
	}
	prev, cur := start, next
	g.visited[edgeID(start, next)] = true
	c.appendEdge(g.points[prev], g.clearance[prev], g.points[cur], g.clearance[cur], walkPoints)
	for len(g.adjacency[cur]) == 2 {
		var forward nodeKey
		found := false
		for _, n := range g.adjacency[cur] {
			if n != prev && !g.visited[edgeID(cur, n)] {
				forward = n
				found = true
				break
			}
		}
		if !found {
			break
		}
		g.visited[edgeID(cur, forward)] = true
		c.appendEdge(g.points[cur], g.clearance[cur], g.points[forward], g.clearance[forward], walkPoints)
		prev, cur = cur, forward
	}
	return c
}

// appendEdge emits the interior and far endpoint of one edge, inserting
// walkPoints interpolated samples and densifying long spans.
func (c *chain) appendEdge(a geometry.Point2D, ra float64, b geometry.Point2D, rb float64, walkPoints int) {
	for j := 1; j <= walkPoints; j++ {
		t := float64(j) / float64(walkPoints+1)
		c.appendDensified(geometry.Lerp(a, b, t), ra+(rb-ra)*t)
	}
	c.appendDensified(b, rb)
}

// appendDensified appends p, first subdividing the span from the previous
// sample when it exceeds densifyLength.
func (c *chain) appendDensified(p geometry.Point2D, r float64) {
	last := c.points[len(c.points)-1]
	lastR := c.clearance[len(c.clearance)-1]
	if length := geometry.Distance(last, p); length > densifyLength {
		steps := int(math.Ceil(length / densifyStep))
		for j := 1; j < steps; j++ {
			t := float64(j) / float64(steps)
			c.points = append(c.points, geometry.Lerp(last, p, t))
			c.clearance = append(c.clearance, lastR+(r-lastR)*t)
		}
	}
	c.points = append(c.points, p)
	c.clearance = append(c.clearance, r)
}

// selfCheck verifies structural consistency between a chain's points and
// clearances; a failure is reported as a warning upstream, not an error.
func (c chain) selfCheck() error {
	if len(c.points) != len(c.clearance) {
		return fmt.Errorf("chain has %d points but %d clearance values", len(c.points), len(c.clearance))
	}
	if len(c.points) < 2 {
		return fmt.Errorf("chain has %d points, need at least 2", len(c.points))
	}
	return nil
}
