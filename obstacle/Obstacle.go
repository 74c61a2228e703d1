// Package obstacle implements the rectangular obstacles of a navigation
// arena and the collection that owns them for the lifetime of a
// scenario.
package obstacle

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
	"github.com/samuelfneumann/highrl/geometry"
	"gonum.org/v1/gonum/spatial/r2"
)

// ErrInvalidObstacle is returned when an obstacle has negative or
// non-finite dimensions
var ErrInvalidObstacle = errors.New("invalid obstacle")

// Obstacle is an axis-aligned rectangle anchored at its minimum corner
type Obstacle struct {
	X, Y          float64
	Width, Height float64
}

// New returns a new Obstacle
func New(x, y, width, height float64) (Obstacle, error) {
	for _, v := range []float64{x, y, width, height} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Obstacle{}, errors.Wrapf(ErrInvalidObstacle,
				"new: non-finite value in (%v, %v, %v, %v)", x, y, width,
				height)
		}
	}
	if width < 0 || height < 0 {
		return Obstacle{}, errors.Wrapf(ErrInvalidObstacle,
			"new: negative dimensions %v x %v", width, height)
	}
	return Obstacle{x, y, width, height}, nil
}

// Rect returns the obstacle as a geometry.Rect
func (o Obstacle) Rect() geometry.Rect {
	return geometry.NewRect(o.X, o.Y, o.Width, o.Height)
}

// Contour returns the corners of the obstacle in counter-clockwise
// order, as consumed by the ray caster and the renderer
func (o Obstacle) Contour() []r2.Vec {
	return o.Rect().Vertices()
}

// DistanceTo returns the distance from p to the obstacle, 0 if p is
// inside it
func (o Obstacle) DistanceTo(p r2.Vec) float64 {
	return geometry.PointToRectDistance(p, o.Rect())
}

func (o Obstacle) String() string {
	return fmt.Sprintf("Obstacle{(%v, %v), %v x %v}", o.X, o.Y, o.Width,
		o.Height)
}
