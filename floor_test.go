package floornav

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoundaryRingOpenGrid(t *testing.T) {
	f := NewFloorFromCells(emptyCells(6, 6))

	// Closed rectangle: four corners plus the closing point
	require.Len(t, f.Boundary, 5)
	assert.Equal(t, f.Boundary[0], f.Boundary[len(f.Boundary)-1])

	assert.True(t, f.InBounds(Point{X: 3, Y: 3}))
	assert.False(t, f.InBounds(Point{X: -1, Y: 3}))
	assert.False(t, f.InBounds(Point{X: 3, Y: 7}))
}

func TestBoundaryRingWithAlcove(t *testing.T) {
	// 8x8 grid, wall column at x=0 except a two-cell recess
	cells := emptyCells(8, 8)
	for y := 0; y < 8; y++ {
		cells[y][0] = true
	}
	cells[3][0] = false
	cells[4][0] = false

	f := NewFloorFromCells(cells)
	assert.Empty(t, f.Obstacles, "wall is border-connected, not an obstacle")

	// Recess interior is in bounds, wall cells are not
	assert.True(t, f.InBounds(Point{X: 0.5, Y: 3.5}))
	assert.False(t, f.InBounds(Point{X: 0.5, Y: 1.5}))

	// The recess mouth contributes reflex corners
	assert.NotEmpty(t, f.Corners)
	for _, c := range f.Corners {
		assert.True(t, f.InBounds(c), "corner %v outside boundary", c)
	}
}

func TestDestinationPoolExcludesWallNeighbors(t *testing.T) {
	f := singleBlockFloor(t)

	// 6x6 interior cells minus the 3x3 neighborhood of the block
	assert.Len(t, f.DestinationPool, 27)
	for _, p := range f.DestinationPool {
		cx, cy := int(p.X), int(p.Y)
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				assert.False(t, f.Blocked(cx+dx, cy+dy),
					"pool cell %v touches non-floor", p)
			}
		}
	}
}

func TestGenerateFloor(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	f := GenerateFloor(30, 20, 5, rng)

	assert.Equal(t, 30, f.Width)
	assert.Equal(t, 20, f.Height)
	assert.LessOrEqual(t, len(f.Obstacles), 5)
	assert.NotEmpty(t, f.DestinationPool)

	for _, ob := range f.Obstacles {
		assert.NotEmpty(t, ob.Blocks)
		for _, b := range ob.Blocks {
			assert.InDelta(t, 1.0, b.Max.X-b.Min.X, 1e-9)
			assert.InDelta(t, 1.0, b.Max.Y-b.Min.Y, 1e-9)
		}
	}

	for _, c := range f.Corners {
		assert.True(t, f.InBounds(c), "corner %v outside boundary", c)
	}

	// The canonical graph builds on whatever was generated
	g := BuildVisibilityGraph(f, 1.5)
	assert.Equal(t, len(f.Corners), len(g.Vertices))
	for _, e := range g.Edges {
		assert.NotEqual(t, e.A, e.B)
	}
}

func TestSpatialIndexQueries(t *testing.T) {
	f := singleBlockFloor(t)
	idx := f.Index()

	hits := idx.QueryRegion(3.5, 3.5, 5.5, 5.5)
	require.Len(t, hits, 1)
	assert.Equal(t, Rect{Min: Point{X: 4, Y: 4}, Max: Point{X: 5, Y: 5}}, hits[0])

	assert.Empty(t, idx.QueryRegion(0, 0, 2, 2))

	seg := LineSegment{P1: Point{X: 2, Y: 4.5}, P2: Point{X: 7, Y: 4.5}}
	assert.Len(t, idx.QuerySegment(seg, 1.5), 1)
}
