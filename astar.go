package floornav

import (
	"container/heap"
)

// searchNode represents a vertex on the A* frontier
type searchNode struct {
	Vertex int     // Index of the vertex in the graph
	G      float64 // Cost from start to this vertex
	H      float64 // Heuristic cost from this vertex to the goal
	F      float64 // Total cost (G + H)
	Parent *searchNode
	Index  int // Index in the heap
}

// priorityQueue implements heap.Interface for the A* open set
type priorityQueue []*searchNode

func (pq priorityQueue) Len() int { return len(pq) }

func (pq priorityQueue) Less(i, j int) bool {
	return pq[i].F < pq[j].F
}

func (pq priorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].Index = i
	pq[j].Index = j
}

func (pq *priorityQueue) Push(x interface{}) {
	n := len(*pq)
	node := x.(*searchNode)
	node.Index = n
	*pq = append(*pq, node)
}

func (pq *priorityQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	node := old[n-1]
	old[n-1] = nil
	node.Index = -1
	*pq = old[0 : n-1]
	return node
}

// AStarPath computes the minimum-weight path between two vertex indices.
// The heuristic is the Euclidean distance to the goal, admissible and
// consistent because edge weights are Euclidean. Ties on F resolve by
// heap insertion order. A false result means the goal is unreachable
// from the start; callers treat that as routine, not fatal.
func AStarPath(g *Graph, startIdx, goalIdx int) ([]int, bool) {
	if g == nil || len(g.Vertices) == 0 {
		return nil, false
	}

	goalPoint := g.Vertices[goalIdx]

	openSet := &priorityQueue{}
	heap.Init(openSet)

	startNode := &searchNode{
		Vertex: startIdx,
		G:      0,
		H:      g.Vertices[startIdx].Distance(goalPoint),
	}
	startNode.F = startNode.H
	heap.Push(openSet, startNode)

	closedSet := make(map[int]bool)
	openSetMap := make(map[int]*searchNode)
	openSetMap[startIdx] = startNode

	for openSet.Len() > 0 {
		current := heap.Pop(openSet).(*searchNode)
		delete(openSetMap, current.Vertex)

		if current.Vertex == goalIdx {
			// Reconstruct path
			var path []int
			for node := current; node != nil; node = node.Parent {
				path = append(path, node.Vertex)
			}
			for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
				path[i], path[j] = path[j], path[i]
			}
			return path, true
		}

		closedSet[current.Vertex] = true

		// Neighbors come from a linear scan of the edge list
		for _, edge := range g.Edges {
			var neighborIdx int
			switch current.Vertex {
			case edge.A:
				neighborIdx = edge.B
			case edge.B:
				neighborIdx = edge.A
			default:
				continue
			}

			if closedSet[neighborIdx] {
				continue
			}

			tentativeG := current.G + g.Weight(edge)

			neighbor, exists := openSetMap[neighborIdx]
			if !exists {
				neighbor = &searchNode{
					Vertex: neighborIdx,
					G:      tentativeG,
					H:      g.Vertices[neighborIdx].Distance(goalPoint),
					Parent: current,
				}
				neighbor.F = neighbor.G + neighbor.H
				heap.Push(openSet, neighbor)
				openSetMap[neighborIdx] = neighbor
			} else if tentativeG < neighbor.G {
				// Found a better path to this neighbor
				neighbor.G = tentativeG
				neighbor.F = neighbor.G + neighbor.H
				neighbor.Parent = current
				heap.Fix(openSet, neighbor.Index)
			}
		}
	}

	// No path found
	return nil, false
}
