package floornav

import (
	"log"

	"github.com/paulmach/orb"
)

// VisibilityBuilder tests bitangency against a floor's obstacle blocks
// and boundary polygon.
type VisibilityBuilder struct {
	index    *SpatialIndex
	boundary orb.Ring
	margin   float64
}

// NewVisibilityBuilder prepares bitangency testing for a floor. The
// margin is the overshoot applied beyond each segment endpoint; it must
// exceed one grid unit so that corner-hugging edges grazing adjacent
// geometry are rejected.
func NewVisibilityBuilder(floor *Floor, margin float64) *VisibilityBuilder {
	return &VisibilityBuilder{
		index:    floor.Index(),
		boundary: floor.Boundary,
		margin:   margin,
	}
}

// IsBitangent reports whether the segment between p and q, extended by
// the overshoot margin past both endpoints, clears every obstacle block
// and the boundary polygon.
func (vb *VisibilityBuilder) IsBitangent(p, q Point) bool {
	seg := LineSegment{P1: p, P2: q}.Extend(vb.margin)

	for _, block := range vb.index.QuerySegment(seg, 0) {
		if SegmentIntersectsRect(seg, block) {
			return false
		}
	}

	n := len(vb.boundary)
	for i := 0; i < n-1; i++ {
		edge := LineSegment{
			P1: Point{X: vb.boundary[i][0], Y: vb.boundary[i][1]},
			P2: Point{X: vb.boundary[i+1][0], Y: vb.boundary[i+1][1]},
		}
		if DoSegmentsIntersect(seg, edge) {
			return false
		}
	}

	return true
}

// BuildVisibilityGraph constructs the canonical reduced visibility
// graph: one vertex per reflex-corner candidate, one edge per bitangent
// pair. O(V²) pairs, each tested against nearby blocks and the
// boundary.
func BuildVisibilityGraph(floor *Floor, margin float64) *Graph {
	vb := NewVisibilityBuilder(floor, margin)

	graph := &Graph{
		Vertices: make([]Point, len(floor.Corners)),
	}
	copy(graph.Vertices, floor.Corners)

	checked := 0
	for i := 0; i < len(graph.Vertices); i++ {
		for j := i + 1; j < len(graph.Vertices); j++ {
			checked++
			if vb.IsBitangent(graph.Vertices[i], graph.Vertices[j]) {
				graph.Edges = append(graph.Edges, GraphEdge{A: i, B: j})
			}
		}
	}

	log.Printf("visibility graph: %d vertices, %d edges (%d pairs checked)",
		len(graph.Vertices), len(graph.Edges), checked)

	return graph
}

// WorkingGraph is an agent-private view of the canonical graph: the
// canonical prefix plus at most two transient vertices (current start,
// chosen destination) and their bitangent edges. The prefix below
// baseVertices/baseEdges never changes; only the tail churns as the
// agent picks destinations.
type WorkingGraph struct {
	Graph
	vb           *VisibilityBuilder
	baseVertices int
	baseEdges    int
}

// NewWorkingGraph creates an agent's working copy of the canonical
// graph.
func NewWorkingGraph(canonical *Graph, vb *VisibilityBuilder) *WorkingGraph {
	wg := &WorkingGraph{
		vb:           vb,
		baseVertices: len(canonical.Vertices),
		baseEdges:    len(canonical.Edges),
	}
	wg.Vertices = make([]Point, len(canonical.Vertices), len(canonical.Vertices)+2)
	copy(wg.Vertices, canonical.Vertices)
	wg.Edges = make([]GraphEdge, len(canonical.Edges))
	copy(wg.Edges, canonical.Edges)
	return wg
}

// Reset truncates the working graph back to the canonical prefix,
// discarding any transient vertices and their edges. Idempotent.
func (wg *WorkingGraph) Reset() {
	wg.Vertices = wg.Vertices[:wg.baseVertices]
	wg.Edges = wg.Edges[:wg.baseEdges]
}

// AppendEndpoints adds the start and goal as transient vertices and
// computes their bitangent edges: each endpoint against every canonical
// vertex, plus the start-goal pair itself, tested once. Returns the two
// new vertex indices.
func (wg *WorkingGraph) AppendEndpoints(start, goal Point) (int, int) {
	wg.Reset()

	startIdx := len(wg.Vertices)
	wg.Vertices = append(wg.Vertices, start)
	goalIdx := len(wg.Vertices)
	wg.Vertices = append(wg.Vertices, goal)

	for i := 0; i < wg.baseVertices; i++ {
		if wg.vb.IsBitangent(start, wg.Vertices[i]) {
			wg.Edges = append(wg.Edges, GraphEdge{A: startIdx, B: i})
		}
	}
	for i := 0; i < wg.baseVertices; i++ {
		if wg.vb.IsBitangent(goal, wg.Vertices[i]) {
			wg.Edges = append(wg.Edges, GraphEdge{A: goalIdx, B: i})
		}
	}
	if wg.vb.IsBitangent(start, goal) {
		wg.Edges = append(wg.Edges, GraphEdge{A: startIdx, B: goalIdx})
	}

	return startIdx, goalIdx
}
