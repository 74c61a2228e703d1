// Package difficulty maps a navigation scenario to a scalar difficulty
// score used by the curriculum to set and track its target.
package difficulty

import (
	"math"

	"github.com/samuelfneumann/highrl/geometry"
	"github.com/samuelfneumann/highrl/obstacle"
	"gonum.org/v1/gonum/spatial/r2"
)

// Epsilon is the lower clamp applied to every denominator of the
// difficulty score (arena diagonal, arena area and corridor scale), so
// that degenerate scenarios still score finitely.
const Epsilon float64 = 1e-6

// Default weights of the difficulty terms
const (
	DefaultDistanceWeight float64 = 2.0
	DefaultDensityWeight  float64 = 10.0
	DefaultCountWeight    float64 = 0.5
	DefaultCorridorWeight float64 = 2.0
	DefaultCorridorScale  float64 = 20.0
)

// Estimator scores scenarios. The score is a weighted sum of four
// non-negative terms:
//
//	distance:  |goal - start| / arena diagonal
//	density:   Σ obstacle area / arena area
//	count:     number of obstacles
//	corridor:  Σ 1 / (1 + d_i / CorridorScale)
//
// where d_i is the distance of obstacle i from the straight start→goal
// segment. An obstacle lying on the segment contributes a full unit of
// corridor difficulty, and the contribution decays as the obstacle moves
// away from the direct path.
//
// The score never decreases when an obstacle is added, or when the goal
// is moved further along the start→goal direction.
type Estimator struct {
	DistanceWeight float64
	DensityWeight  float64
	CountWeight    float64
	CorridorWeight float64
	CorridorScale  float64
}

// NewEstimator returns an Estimator with the default weights
func NewEstimator() Estimator {
	return Estimator{
		DistanceWeight: DefaultDistanceWeight,
		DensityWeight:  DefaultDensityWeight,
		CountWeight:    DefaultCountWeight,
		CorridorWeight: DefaultCorridorWeight,
		CorridorScale:  DefaultCorridorScale,
	}
}

// Estimate returns the difficulty of navigating from start to goal in
// an arena of the given dimensions containing obstacles. The result is
// finite and non-negative for any finite input, including scenarios
// with no obstacles, coincident start and goal, or a zero-size arena.
func (e Estimator) Estimate(obstacles []obstacle.Obstacle, width, height float64,
	start, goal r2.Vec) float64 {
	diagonal := math.Max(math.Hypot(width, height), Epsilon)
	area := math.Max(width*height, Epsilon)
	scale := math.Max(e.CorridorScale, Epsilon)

	distance := geometry.PointToPointDistance(start, goal) / diagonal

	var covered, corridor float64
	for _, o := range obstacles {
		covered += math.Max(o.Width, 0) * math.Max(o.Height, 0)

		d := geometry.SegmentToRectDistance(start, goal, o.Rect())
		corridor += 1 / (1 + d/scale)
	}
	density := covered / area

	score := e.DistanceWeight*distance +
		e.DensityWeight*density +
		e.CountWeight*float64(len(obstacles)) +
		e.CorridorWeight*corridor

	return math.Max(score, 0)
}

// EstimateCollection is a convenience wrapper around Estimate for an
// obstacle.Collection
func (e Estimator) EstimateCollection(c *obstacle.Collection, width,
	height float64, start, goal r2.Vec) float64 {
	return e.Estimate(c.All(), width, height, start, goal)
}
