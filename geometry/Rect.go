package geometry

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Rect is an axis-aligned rectangle anchored at its minimum corner
// (X, Y) and extending Width along x and Height along y
type Rect struct {
	X, Y          float64
	Width, Height float64
}

// NewRect returns a new Rect
func NewRect(x, y, width, height float64) Rect {
	return Rect{X: x, Y: y, Width: width, Height: height}
}

// DiscBounds returns the bounding box of the disc of the given radius
// centred at center
func DiscBounds(center r2.Vec, radius float64) Rect {
	return Rect{
		X:      center.X - radius,
		Y:      center.Y - radius,
		Width:  2 * radius,
		Height: 2 * radius,
	}
}

// Box returns the rectangle as an r2.Box
func (r Rect) Box() r2.Box {
	return r2.Box{
		Min: r2.Vec{X: r.X, Y: r.Y},
		Max: r2.Vec{X: r.X + r.Width, Y: r.Y + r.Height},
	}
}

// Min returns the minimum corner
func (r Rect) Min() r2.Vec {
	return r2.Vec{X: r.X, Y: r.Y}
}

// Max returns the maximum corner
func (r Rect) Max() r2.Vec {
	return r2.Vec{X: r.X + r.Width, Y: r.Y + r.Height}
}

// Area returns the area of the rectangle
func (r Rect) Area() float64 {
	return r.Width * r.Height
}

// Inflate returns the rectangle grown by dw along x and dh along y,
// keeping its minimum corner fixed
func (r Rect) Inflate(dw, dh float64) Rect {
	return Rect{X: r.X, Y: r.Y, Width: r.Width + dw, Height: r.Height + dh}
}

// Vertices returns the four corners of the rectangle in counter-clockwise
// order starting at the minimum corner
func (r Rect) Vertices() []r2.Vec {
	return r.Box().Vertices()
}

// Contains returns whether p lies in the closed rectangle
func (r Rect) Contains(p r2.Vec) bool {
	return p.X >= r.X && p.X <= r.X+r.Width &&
		p.Y >= r.Y && p.Y <= r.Y+r.Height
}

func (r Rect) String() string {
	return fmt.Sprintf("Rect{(%.2f, %.2f), %.2f x %.2f}", r.X, r.Y,
		r.Width, r.Height)
}

// Overlaps returns whether the closed rectangles a and b share at least
// one point. Two boxes are disjoint iff one lies strictly left, right,
// above or below the other; touching edges count as an overlap.
func Overlaps(a, b Rect) bool {
	aMin, aMax := a.Min(), a.Max()
	bMin, bMax := b.Min(), b.Max()

	if aMin.X > bMax.X || bMin.X > aMax.X {
		return false
	}
	if aMin.Y > bMax.Y || bMin.Y > aMax.Y {
		return false
	}
	return true
}

// PointToRectDistance returns the distance from p to the closed
// rectangle r, which is 0 if p lies inside r
func PointToRectDistance(p r2.Vec, r Rect) float64 {
	min, max := r.Min(), r.Max()
	dx := math.Max(math.Max(min.X-p.X, 0), p.X-max.X)
	dy := math.Max(math.Max(min.Y-p.Y, 0), p.Y-max.Y)
	return math.Hypot(dx, dy)
}

// SegmentToRectDistance returns the shortest distance between the
// segment [a, b] and the closed rectangle r, which is 0 if the segment
// touches or crosses r
func SegmentToRectDistance(a, b r2.Vec, r Rect) float64 {
	if r.Contains(a) || r.Contains(b) {
		return 0
	}

	vertices := r.Vertices()
	for i := range vertices {
		if SegmentsIntersect(a, b, vertices[i], vertices[(i+1)%len(vertices)]) {
			return 0
		}
	}

	// No intersection: the closest pair involves an endpoint of the
	// segment or a corner of the rectangle
	dist := math.Min(PointToRectDistance(a, r), PointToRectDistance(b, r))
	for _, v := range vertices {
		dist = math.Min(dist, PointToSegmentDistance(a, b, v))
	}
	return dist
}
