package floornav

import (
	"math/rand"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Obstacle is one placed obstacle, a union of axis-aligned unit blocks.
type Obstacle struct {
	Blocks []Rect
}

// Floor is the traversable area: a cell grid forming a rectangular play
// area with alcove recesses in its boundary, dotted with obstacles. It
// exposes everything the planning core consumes: obstacle footprints,
// the boundary polygon, reflex-corner candidates and the destination
// pool.
type Floor struct {
	Width  int
	Height int

	// Obstacles groups unit blocks per placed obstacle.
	Obstacles []Obstacle

	// Boundary is the outer polygon of the traversable area.
	Boundary orb.Ring

	// Corners are the deduplicated reflex-corner candidates, already
	// offset one grid unit outward from the geometry they belong to.
	Corners []Point

	// DestinationPool holds the centers of floor cells whose whole
	// 8-neighborhood is floor. Shared read-only across agents.
	DestinationPool []Point

	cells [][]bool // true = blocked
	index *SpatialIndex
}

// Blocked reports whether the cell at (cx, cy) is wall or obstacle.
// Out-of-range cells count as blocked.
func (f *Floor) Blocked(cx, cy int) bool {
	if cx < 0 || cy < 0 || cx >= f.Width || cy >= f.Height {
		return true
	}
	return f.cells[cy][cx]
}

// InBounds reports whether a point lies inside the boundary polygon.
func (f *Floor) InBounds(p Point) bool {
	return planar.RingContains(f.Boundary, orb.Point{p.X, p.Y})
}

// Index returns the spatial index over the floor's obstacle blocks.
func (f *Floor) Index() *SpatialIndex {
	return f.index
}

// NewFloorFromCells builds a floor from an explicit cell grid
// (cells[y][x], true = blocked). The free region must be a single
// 4-connected component. Obstacles are recovered as blocked components
// not reachable from the grid border.
func NewFloorFromCells(cells [][]bool) *Floor {
	height := len(cells)
	width := 0
	if height > 0 {
		width = len(cells[0])
	}

	f := &Floor{Width: width, Height: height, cells: cells}
	f.Obstacles = findObstacles(cells, width, height)
	f.derive()
	return f
}

// GenerateFloor lays out a rectangular play area with up to four alcove
// recesses and numObstacles randomly placed block obstacles, then
// derives the planning inputs.
func GenerateFloor(width, height, numObstacles int, rng *rand.Rand) *Floor {
	if width < 8 {
		width = 8
	}
	if height < 8 {
		height = 8
	}

	cells := make([][]bool, height)
	for y := range cells {
		cells[y] = make([]bool, width)
		for x := range cells[y] {
			// Blocked margin two cells deep around the play area
			cells[y][x] = x < 2 || y < 2 || x >= width-2 || y >= height-2
		}
	}

	carveAlcoves(cells, width, height, rng)

	f := &Floor{Width: width, Height: height, cells: cells}

	for i := 0; i < numObstacles; i++ {
		if ob, ok := placeObstacle(cells, width, height, rng); ok {
			f.Obstacles = append(f.Obstacles, ob)
		}
	}

	f.derive()
	return f
}

// carveAlcoves cuts up to one recess, a single cell deep, into each
// side of the blocked margin.
func carveAlcoves(cells [][]bool, width, height int, rng *rand.Rand) {
	n := rng.Intn(5)
	sides := rng.Perm(4)[:n]
	for _, side := range sides {
		span := 2 + rng.Intn(3)
		switch side {
		case 0: // left
			y0 := 2 + rng.Intn(maxInt(1, height-4-span))
			for y := y0; y < y0+span; y++ {
				cells[y][1] = false
			}
		case 1: // right
			y0 := 2 + rng.Intn(maxInt(1, height-4-span))
			for y := y0; y < y0+span; y++ {
				cells[y][width-2] = false
			}
		case 2: // bottom
			x0 := 2 + rng.Intn(maxInt(1, width-4-span))
			for x := x0; x < x0+span; x++ {
				cells[1][x] = false
			}
		case 3: // top
			x0 := 2 + rng.Intn(maxInt(1, width-4-span))
			for x := x0; x < x0+span; x++ {
				cells[height-2][x] = false
			}
		}
	}
}

// placeObstacle tries to drop one rectangular or L-shaped obstacle into
// free space, keeping a one-cell gap to every other non-floor cell so
// obstacles never merge or pinch diagonally.
func placeObstacle(cells [][]bool, width, height int, rng *rand.Rand) (Obstacle, bool) {
	for attempt := 0; attempt < 30; attempt++ {
		w := 1 + rng.Intn(3)
		h := 1 + rng.Intn(3)
		x0 := 3 + rng.Intn(maxInt(1, width-6-w))
		y0 := 3 + rng.Intn(maxInt(1, height-6-h))

		// L-shape: knock out one corner cell of a big enough rect
		cutX, cutY := -1, -1
		if w >= 2 && h >= 2 && rng.Intn(2) == 0 {
			cutX = x0 + rng.Intn(2)*(w-1)
			cutY = y0 + rng.Intn(2)*(h-1)
		}

		fits := true
		for y := y0 - 1; y <= y0+h && fits; y++ {
			for x := x0 - 1; x <= x0+w && fits; x++ {
				if cells[y][x] {
					fits = false
				}
			}
		}
		if !fits {
			continue
		}

		var ob Obstacle
		for y := y0; y < y0+h; y++ {
			for x := x0; x < x0+w; x++ {
				if x == cutX && y == cutY {
					continue
				}
				cells[y][x] = true
				ob.Blocks = append(ob.Blocks, Rect{
					Min: Point{X: float64(x), Y: float64(y)},
					Max: Point{X: float64(x + 1), Y: float64(y + 1)},
				})
			}
		}
		return ob, true
	}
	return Obstacle{}, false
}

// derive computes the boundary ring, reflex-corner candidates, the
// destination pool and the spatial index from the final cell grid.
func (f *Floor) derive() {
	wall := floodWall(f.cells, f.Width, f.Height)
	f.Boundary = traceBoundary(f.cells, wall, f.Width, f.Height)
	f.index = NewSpatialIndex(f.Obstacles)
	f.Corners = f.reflexCorners()
	f.DestinationPool = f.destinationPool()
}

// reflexCorners visits every lattice corner and keeps those where
// exactly one of the four adjacent cells is blocked: a corner of the
// blocked region poking into free space. The candidate vertex sits one
// grid unit away from the corner on both axes, diagonally opposite the
// blocked cell, so generated edges do not graze the geometry.
func (f *Floor) reflexCorners() []Point {
	seen := make(map[Point]bool)
	var corners []Point

	for y := 0; y <= f.Height; y++ {
		for x := 0; x <= f.Width; x++ {
			blockedCount := 0
			ox, oy := 0, 0
			if f.Blocked(x-1, y-1) {
				blockedCount++
				ox, oy = 1, 1
			}
			if f.Blocked(x, y-1) {
				blockedCount++
				ox, oy = -1, 1
			}
			if f.Blocked(x-1, y) {
				blockedCount++
				ox, oy = 1, -1
			}
			if f.Blocked(x, y) {
				blockedCount++
				ox, oy = -1, -1
			}
			if blockedCount != 1 {
				continue
			}

			c := Point{X: float64(x + ox), Y: float64(y + oy)}
			if seen[c] {
				continue
			}
			cx, cy := int(c.X), int(c.Y)
			if f.Blocked(cx, cy) || f.Blocked(cx-1, cy) || f.Blocked(cx, cy-1) || f.Blocked(cx-1, cy-1) {
				// Candidate landed against other geometry
				continue
			}
			if !f.InBounds(c) {
				continue
			}
			seen[c] = true
			corners = append(corners, c)
		}
	}
	return corners
}

// destinationPool collects centers of free cells with an entirely free
// 8-neighborhood.
func (f *Floor) destinationPool() []Point {
	var pool []Point
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			open := true
			for dy := -1; dy <= 1 && open; dy++ {
				for dx := -1; dx <= 1 && open; dx++ {
					if f.Blocked(x+dx, y+dy) {
						open = false
					}
				}
			}
			if open {
				pool = append(pool, Point{X: float64(x) + 0.5, Y: float64(y) + 0.5})
			}
		}
	}
	return pool
}

// findObstacles groups blocked cells not reachable from the grid border
// into obstacles, one per 4-connected component.
func findObstacles(cells [][]bool, width, height int) []Obstacle {
	wall := floodWall(cells, width, height)
	visited := make([][]bool, height)
	for y := range visited {
		visited[y] = make([]bool, width)
	}

	var obstacles []Obstacle
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if !cells[y][x] || wall[y][x] || visited[y][x] {
				continue
			}
			var ob Obstacle
			stack := [][2]int{{x, y}}
			visited[y][x] = true
			for len(stack) > 0 {
				c := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				ob.Blocks = append(ob.Blocks, Rect{
					Min: Point{X: float64(c[0]), Y: float64(c[1])},
					Max: Point{X: float64(c[0] + 1), Y: float64(c[1] + 1)},
				})
				for _, d := range [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
					nx, ny := c[0]+d[0], c[1]+d[1]
					if nx < 0 || ny < 0 || nx >= width || ny >= height {
						continue
					}
					if cells[ny][nx] && !wall[ny][nx] && !visited[ny][nx] {
						visited[ny][nx] = true
						stack = append(stack, [2]int{nx, ny})
					}
				}
			}
			obstacles = append(obstacles, ob)
		}
	}
	return obstacles
}

// floodWall marks every blocked cell 4-connected to the grid border,
// separating the outer wall from interior obstacles.
func floodWall(cells [][]bool, width, height int) [][]bool {
	wall := make([][]bool, height)
	for y := range wall {
		wall[y] = make([]bool, width)
	}

	var stack [][2]int
	push := func(x, y int) {
		if x >= 0 && y >= 0 && x < width && y < height && cells[y][x] && !wall[y][x] {
			wall[y][x] = true
			stack = append(stack, [2]int{x, y})
		}
	}
	for x := 0; x < width; x++ {
		push(x, 0)
		push(x, height-1)
	}
	for y := 0; y < height; y++ {
		push(0, y)
		push(width-1, y)
	}
	for len(stack) > 0 {
		c := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		push(c[0]+1, c[1])
		push(c[0]-1, c[1])
		push(c[0], c[1]+1)
		push(c[0], c[1]-1)
	}
	return wall
}

// traceBoundary follows the contour between free cells and the outer
// wall, counter-clockwise with the free region on the left, and returns
// it as a closed ring with collinear runs merged.
func traceBoundary(cells, wall [][]bool, width, height int) orb.Ring {
	isWall := func(x, y int) bool {
		if x < 0 || y < 0 || x >= width || y >= height {
			return true
		}
		return wall[y][x]
	}

	type ipt struct{ x, y int }
	next := make(map[ipt]ipt)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if cells[y][x] {
				continue
			}
			if isWall(x, y-1) {
				next[ipt{x, y}] = ipt{x + 1, y}
			}
			if isWall(x+1, y) {
				next[ipt{x + 1, y}] = ipt{x + 1, y + 1}
			}
			if isWall(x, y+1) {
				next[ipt{x + 1, y + 1}] = ipt{x, y + 1}
			}
			if isWall(x-1, y) {
				next[ipt{x, y + 1}] = ipt{x, y}
			}
		}
	}

	if len(next) == 0 {
		return orb.Ring{}
	}

	var start ipt
	for k := range next {
		start = k
		break
	}

	var pts []ipt
	for cur := start; ; {
		pts = append(pts, cur)
		cur = next[cur]
		if cur == start {
			break
		}
	}

	ring := make(orb.Ring, 0, len(pts)+1)
	n := len(pts)
	for i := 0; i < n; i++ {
		prev := pts[(i-1+n)%n]
		curr := pts[i]
		nxt := pts[(i+1)%n]
		// Drop points on straight runs
		if (prev.x == curr.x && curr.x == nxt.x) || (prev.y == curr.y && curr.y == nxt.y) {
			continue
		}
		ring = append(ring, orb.Point{float64(curr.x), float64(curr.y)})
	}
	ring = append(ring, ring[0])
	return ring
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
