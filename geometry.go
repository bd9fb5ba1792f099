package floornav

import "math"

// Point is a position on the floor plane. The vertical axis is constant
// everywhere in the simulation, so two coordinates suffice.
type Point struct {
	X float64
	Y float64
}

// Distance calculates Euclidean distance between two points
func (p Point) Distance(other Point) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Rect is an axis-aligned rectangle. Obstacle footprints are unions of
// unit-sized Rects.
type Rect struct {
	Min, Max Point
}

// Contains reports whether p lies inside or on the rectangle.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X &&
		p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// Center returns the rectangle's midpoint.
func (r Rect) Center() Point {
	return Point{X: (r.Min.X + r.Max.X) / 2, Y: (r.Min.Y + r.Max.Y) / 2}
}

// LineSegment represents a line segment between two points
type LineSegment struct {
	P1, P2 Point
}

// Extend returns the segment pushed outward by margin beyond each
// endpoint along its own direction. A zero-length segment is returned
// unchanged.
func (s LineSegment) Extend(margin float64) LineSegment {
	dx := s.P2.X - s.P1.X
	dy := s.P2.Y - s.P1.Y
	length := math.Sqrt(dx*dx + dy*dy)
	if length == 0 {
		return s
	}
	ux := dx / length
	uy := dy / length
	return LineSegment{
		P1: Point{X: s.P1.X - ux*margin, Y: s.P1.Y - uy*margin},
		P2: Point{X: s.P2.X + ux*margin, Y: s.P2.Y + uy*margin},
	}
}

// DoSegmentsIntersect checks if two line segments intersect
func DoSegmentsIntersect(seg1, seg2 LineSegment) bool {
	p1, p2 := seg1.P1, seg1.P2
	p3, p4 := seg2.P1, seg2.P2

	// Check if the segments are the same or share endpoints
	if (p1 == p3 && p2 == p4) || (p1 == p4 && p2 == p3) {
		return false
	}
	if p1 == p3 || p1 == p4 || p2 == p3 || p2 == p4 {
		return false
	}

	d1 := direction(p3, p4, p1)
	d2 := direction(p3, p4, p2)
	d3 := direction(p1, p2, p3)
	d4 := direction(p1, p2, p4)

	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}

	// Check for collinear cases
	if d1 == 0 && onSegment(p3, p4, p1) {
		return true
	}
	if d2 == 0 && onSegment(p3, p4, p2) {
		return true
	}
	if d3 == 0 && onSegment(p1, p2, p3) {
		return true
	}
	if d4 == 0 && onSegment(p1, p2, p4) {
		return true
	}

	return false
}

// direction calculates the cross product to determine orientation
func direction(p1, p2, p3 Point) float64 {
	return (p3.X-p1.X)*(p2.Y-p1.Y) - (p2.X-p1.X)*(p3.Y-p1.Y)
}

// onSegment checks if point q lies on segment pr
func onSegment(p, r, q Point) bool {
	return q.X <= math.Max(p.X, r.X) && q.X >= math.Min(p.X, r.X) &&
		q.Y <= math.Max(p.Y, r.Y) && q.Y >= math.Min(p.Y, r.Y)
}

// SegmentIntersectsRect checks if a line segment touches an axis-aligned
// rectangle. Tests the segment against all four rectangle edges, then
// falls back to containment checks for a segment lying entirely inside.
func SegmentIntersectsRect(seg LineSegment, r Rect) bool {
	corners := [4]Point{
		{X: r.Min.X, Y: r.Min.Y},
		{X: r.Max.X, Y: r.Min.Y},
		{X: r.Max.X, Y: r.Max.Y},
		{X: r.Min.X, Y: r.Max.Y},
	}
	for i := 0; i < 4; i++ {
		edge := LineSegment{P1: corners[i], P2: corners[(i+1)%4]}
		if DoSegmentsIntersect(seg, edge) {
			return true
		}
	}

	if r.Contains(seg.P1) || r.Contains(seg.P2) {
		return true
	}

	// Midpoint inside handles a segment lying entirely within the rect
	midpoint := Point{
		X: (seg.P1.X + seg.P2.X) / 2,
		Y: (seg.P1.Y + seg.P2.Y) / 2,
	}
	return r.Contains(midpoint)
}
