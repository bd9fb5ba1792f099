package floornav

import (
	"github.com/dhconnelly/rtreego"
)

// BlockEntry wraps an obstacle block for R-tree storage
type BlockEntry struct {
	Block Rect
	BBox  rtreego.Rect
}

// Bounds implements rtreego.Spatial interface
func (b *BlockEntry) Bounds() rtreego.Rect {
	return b.BBox
}

// SpatialIndex manages obstacle block spatial queries
type SpatialIndex struct {
	tree *rtreego.Rtree
}

// NewSpatialIndex indexes the unit blocks of all obstacles.
func NewSpatialIndex(obstacles []Obstacle) *SpatialIndex {
	tree := rtreego.NewTree(2, 25, 50) // 2D, min 25, max 50 entries per node

	for _, obstacle := range obstacles {
		for _, block := range obstacle.Blocks {
			bbox, err := rtreego.NewRect(
				rtreego.Point{block.Min.X, block.Min.Y},
				[]float64{block.Max.X - block.Min.X, block.Max.Y - block.Min.Y},
			)
			if err != nil {
				continue
			}
			tree.Insert(&BlockEntry{Block: block, BBox: bbox})
		}
	}

	return &SpatialIndex{tree: tree}
}

// queryPad keeps window extents positive; an axis-aligned segment
// queried with zero margin would otherwise produce a degenerate window
// the tree rejects.
const queryPad = 1e-9

// QueryRegion returns obstacle blocks intersecting the given window.
func (si *SpatialIndex) QueryRegion(minX, minY, maxX, maxY float64) []Rect {
	bbox, err := rtreego.NewRect(
		rtreego.Point{minX - queryPad, minY - queryPad},
		[]float64{maxX - minX + 2*queryPad, maxY - minY + 2*queryPad},
	)
	if err != nil {
		return []Rect{}
	}

	results := si.tree.SearchIntersect(bbox)
	blocks := make([]Rect, 0, len(results))

	for _, item := range results {
		entry := item.(*BlockEntry)
		blocks = append(blocks, entry.Block)
	}

	return blocks
}

// QuerySegment returns obstacle blocks near a segment, padded so that a
// margin-extended version of the segment still falls inside the window.
func (si *SpatialIndex) QuerySegment(seg LineSegment, margin float64) []Rect {
	minX := min(seg.P1.X, seg.P2.X) - margin
	maxX := max(seg.P1.X, seg.P2.X) + margin
	minY := min(seg.P1.Y, seg.P2.Y) - margin
	maxY := max(seg.P1.Y, seg.P2.Y) + margin
	return si.QueryRegion(minX, minY, maxX, maxY)
}

func min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func max(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
