package floornav

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func emptyCells(w, h int) [][]bool {
	cells := make([][]bool, h)
	for y := range cells {
		cells[y] = make([]bool, w)
	}
	return cells
}

// singleBlockFloor is an 8x8 open grid with one obstacle cell at (4,4).
func singleBlockFloor(t *testing.T) *Floor {
	t.Helper()
	cells := emptyCells(8, 8)
	cells[4][4] = true
	f := NewFloorFromCells(cells)
	require.Len(t, f.Obstacles, 1)
	require.Len(t, f.Obstacles[0].Blocks, 1)
	return f
}

func TestReflexCornersSingleBlock(t *testing.T) {
	f := singleBlockFloor(t)

	expected := []Point{{X: 3, Y: 3}, {X: 6, Y: 3}, {X: 3, Y: 6}, {X: 6, Y: 6}}
	assert.ElementsMatch(t, expected, f.Corners)
}

func TestBitangency(t *testing.T) {
	f := singleBlockFloor(t)
	vb := NewVisibilityBuilder(f, 1.5)

	// Straight line through the block
	assert.False(t, vb.IsBitangent(Point{X: 2, Y: 4.5}, Point{X: 7, Y: 4.5}))

	// Grazing exactly along the block's bottom edge
	assert.False(t, vb.IsBitangent(Point{X: 3, Y: 4}, Point{X: 6, Y: 4}))

	// Clear of the block on one side
	assert.True(t, vb.IsBitangent(Point{X: 3, Y: 3}, Point{X: 6, Y: 3}))
}

func TestBuildVisibilityGraphSingleBlock(t *testing.T) {
	f := singleBlockFloor(t)
	g := BuildVisibilityGraph(f, 1.5)

	require.Len(t, g.Vertices, 4)

	// The four sides of the block connect; the two diagonals cross it
	assert.Len(t, g.Edges, 4)
	for _, e := range g.Edges {
		a, b := g.Vertices[e.A], g.Vertices[e.B]
		assert.True(t, a.X == b.X || a.Y == b.Y,
			"diagonal edge %v-%v should have been rejected", a, b)
	}
}

func TestBitangencyRejectsBoundaryCrossing(t *testing.T) {
	f := NewFloorFromCells(emptyCells(8, 8))
	vb := NewVisibilityBuilder(f, 1.5)

	// Both points inside, but the overshoot pokes through the west wall
	assert.False(t, vb.IsBitangent(Point{X: 1, Y: 4}, Point{X: 6, Y: 4}))

	// Far enough from every wall that the overshoot stays inside
	assert.True(t, vb.IsBitangent(Point{X: 2, Y: 4}, Point{X: 6, Y: 4}))
}

func TestWorkingGraphResetRoundTrip(t *testing.T) {
	f := singleBlockFloor(t)
	g := BuildVisibilityGraph(f, 1.5)
	vb := NewVisibilityBuilder(f, 1.5)

	wg := NewWorkingGraph(g, vb)
	baseV, baseE := len(g.Vertices), len(g.Edges)

	for i := 0; i < 5; i++ {
		start := Point{X: 2, Y: 2}
		goal := Point{X: 6.5, Y: 6.5}
		sIdx, gIdx := wg.AppendEndpoints(start, goal)
		assert.Equal(t, baseV, sIdx)
		assert.Equal(t, baseV+1, gIdx)
		assert.Greater(t, len(wg.Edges), baseE)

		// Canonical prefix untouched
		assert.Equal(t, g.Vertices, wg.Vertices[:baseV])
		assert.Equal(t, g.Edges, wg.Edges[:baseE])
	}

	wg.Reset()
	assert.Len(t, wg.Vertices, baseV)
	assert.Len(t, wg.Edges, baseE)
}

func TestWorkingGraphRoutesAroundBlock(t *testing.T) {
	f := singleBlockFloor(t)
	g := BuildVisibilityGraph(f, 1.5)
	vb := NewVisibilityBuilder(f, 1.5)
	wg := NewWorkingGraph(g, vb)

	// Endpoints on opposite sides of the block
	sIdx, gIdx := wg.AppendEndpoints(Point{X: 2.5, Y: 4.5}, Point{X: 6.5, Y: 4.5})
	path, ok := AStarPath(&wg.Graph, sIdx, gIdx)
	require.True(t, ok)
	assert.Greater(t, len(path), 2, "path must detour via reflex corners")
	assert.Equal(t, sIdx, path[0])
	assert.Equal(t, gIdx, path[len(path)-1])
}
