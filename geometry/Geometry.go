// Package geometry provides the planar geometry used to lay out and
// score navigation scenarios: point and segment distances, corner
// anchored axis-aligned rectangles, and the closed-interval overlap
// test used for obstacle placement.
package geometry

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// PointToPointDistance returns the Euclidean distance between p and q
func PointToPointDistance(p, q r2.Vec) float64 {
	return r2.Norm(r2.Sub(p, q))
}

// PointToSegmentDistance returns the distance from p to the closest
// point on the segment [a, b]. The projection of p onto the line
// through a and b is clamped to the segment. If a == b the segment is
// a point and the point-to-point distance is returned.
func PointToSegmentDistance(a, b, p r2.Vec) float64 {
	ab := r2.Sub(b, a)
	lengthSq := r2.Norm2(ab)
	if lengthSq == 0 {
		return PointToPointDistance(a, p)
	}

	t := r2.Dot(r2.Sub(p, a), ab) / lengthSq
	t = math.Max(0, math.Min(1, t))

	closest := r2.Add(a, r2.Scale(t, ab))
	return PointToPointDistance(closest, p)
}

// SegmentsIntersect returns whether the closed segments [p1, p2] and
// [q1, q2] share at least one point
func SegmentsIntersect(p1, p2, q1, q2 r2.Vec) bool {
	d1 := orientation(q1, q2, p1)
	d2 := orientation(q1, q2, p2)
	d3 := orientation(p1, p2, q1)
	d4 := orientation(p1, p2, q2)

	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}

	// Collinear cases
	switch {
	case d1 == 0 && onSegment(q1, q2, p1):
		return true
	case d2 == 0 && onSegment(q1, q2, p2):
		return true
	case d3 == 0 && onSegment(p1, p2, q1):
		return true
	case d4 == 0 && onSegment(p1, p2, q2):
		return true
	}
	return false
}

// orientation returns the signed area of the triangle (a, b, c)
func orientation(a, b, c r2.Vec) float64 {
	return r2.Cross(r2.Sub(b, a), r2.Sub(c, a))
}

// onSegment returns whether p, known to be collinear with [a, b], lies
// within the bounding box of the segment
func onSegment(a, b, p r2.Vec) bool {
	return p.X >= math.Min(a.X, b.X) && p.X <= math.Max(a.X, b.X) &&
		p.Y >= math.Min(a.Y, b.Y) && p.Y <= math.Max(a.Y, b.Y)
}
