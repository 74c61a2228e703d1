package lidar

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r2"
)

// Rasterize converts a polar scan into a side x side occupancy image of
// an envSide x envSide arena. Each ray that hit something before
// maxRange marks the pixel containing its hit point with 1. Hit points
// outside the arena are dropped. Row i of the image holds world
// y-coordinates in [i, i+1) * envSide / side.
func Rasterize(origin r2.Vec, angles, ranges []float64, maxRange,
	envSide float64, side int) *mat.Dense {
	if len(angles) != len(ranges) {
		panic(fmt.Sprintf("rasterize: %d angles but %d ranges", len(angles),
			len(ranges)))
	}
	if side <= 0 || envSide <= 0 {
		panic(fmt.Sprintf("rasterize: invalid image side %d or arena "+
			"side %v", side, envSide))
	}

	image := mat.NewDense(side, side, nil)
	scale := float64(side) / envSide

	for i, r := range ranges {
		if r >= maxRange {
			continue
		}

		hit := r2.Add(origin, r2.Scale(r, r2.Vec{X: math.Cos(angles[i]),
			Y: math.Sin(angles[i])}))
		col := int(math.Floor(hit.X * scale))
		row := int(math.Floor(hit.Y * scale))
		if col < 0 || col >= side || row < 0 || row >= side {
			continue
		}
		image.Set(row, col, 1.0)
	}

	return image
}
