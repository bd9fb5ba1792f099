package floornav

// Graph is a planning graph: a vertex list plus an edge list. Vertices
// are referenced by index; indices stay stable within one planning
// episode because edges and paths point at them.
type Graph struct {
	Vertices []Point
	Edges    []GraphEdge
}

// GraphEdge is an unordered pair of vertex indices. Its weight is the
// Euclidean distance between the two vertices, computed on demand and
// never cached across vertex mutation.
type GraphEdge struct {
	A int
	B int
}

// Weight returns the edge's Euclidean length.
func (g *Graph) Weight(e GraphEdge) float64 {
	return g.Vertices[e.A].Distance(g.Vertices[e.B])
}

// Neighbors scans the edge list for edges incident to vertex i. Linear
// in the edge count, which is fine at this graph scale.
func (g *Graph) Neighbors(i int) []int {
	var out []int
	for _, e := range g.Edges {
		if e.A == i {
			out = append(out, e.B)
		} else if e.B == i {
			out = append(out, e.A)
		}
	}
	return out
}

// Clone returns a deep copy with freshly allocated slices.
func (g *Graph) Clone() *Graph {
	c := &Graph{
		Vertices: make([]Point, len(g.Vertices)),
		Edges:    make([]GraphEdge, len(g.Edges)),
	}
	copy(c.Vertices, g.Vertices)
	copy(c.Edges, g.Edges)
	return c
}
