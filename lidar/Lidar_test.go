package lidar

import (
	"math"
	"testing"

	"github.com/samuelfneumann/highrl/obstacle"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r2"
)

const tolerance = 1e-6

func TestScanNoObstacles(t *testing.T) {
	c := NewCaster(DefaultMaxRange)
	ranges := c.Scan(r2.Vec{X: 100, Y: 100}, Angles(64, 0))

	for i, r := range ranges {
		if r != DefaultMaxRange {
			t.Errorf("ray %d: want sentinel %v, got %v", i, DefaultMaxRange,
				r)
		}
	}
}

func TestScanHits(t *testing.T) {
	c := NewCaster(DefaultMaxRange)
	c.SetContours(obstacle.NewCollection(
		obstacle.Obstacle{X: 110, Y: 90, Width: 20, Height: 20},
	).Contours())

	origin := r2.Vec{X: 100, Y: 100}
	ranges := c.Scan(origin, []float64{0, math.Pi / 2, math.Pi})

	if math.Abs(ranges[0]-10) > tolerance {
		t.Errorf("ray towards obstacle: want 10, got %v", ranges[0])
	}
	if ranges[1] != DefaultMaxRange {
		t.Errorf("ray along obstacle edge: want sentinel, got %v", ranges[1])
	}
	if ranges[2] != DefaultMaxRange {
		t.Errorf("ray away from obstacle: want sentinel, got %v", ranges[2])
	}
}

func TestScanClosestHit(t *testing.T) {
	c := NewCaster(DefaultMaxRange)
	c.SetContours(obstacle.NewCollection(
		obstacle.Obstacle{X: 115, Y: 90, Width: 5, Height: 20},
		obstacle.Obstacle{X: 105, Y: 90, Width: 5, Height: 20},
	).Contours())

	ranges := c.Scan(r2.Vec{X: 100, Y: 100}, []float64{0})
	if math.Abs(ranges[0]-5) > tolerance {
		t.Errorf("want closest hit at 5, got %v", ranges[0])
	}
}

func TestSetContoursReplaces(t *testing.T) {
	c := NewCaster(DefaultMaxRange)
	c.SetContours(obstacle.NewCollection(
		obstacle.Obstacle{X: 110, Y: 90, Width: 20, Height: 20},
		obstacle.Obstacle{X: 0, Y: 0, Width: 20, Height: 20},
	).Contours())
	if c.Len() != 2 {
		t.Fatalf("want 2 bodies, got %d", c.Len())
	}

	c.SetContours(nil)
	if c.Len() != 0 {
		t.Fatalf("want 0 bodies, got %d", c.Len())
	}
	ranges := c.Scan(r2.Vec{X: 100, Y: 100}, []float64{0})
	if ranges[0] != DefaultMaxRange {
		t.Errorf("want sentinel after clearing, got %v", ranges[0])
	}
}

func TestAngles(t *testing.T) {
	angles := Angles(4, math.Pi/4)
	want := []float64{math.Pi / 4, 3 * math.Pi / 4, 5 * math.Pi / 4,
		7 * math.Pi / 4}

	for i := range want {
		if math.Abs(angles[i]-want[i]) > tolerance {
			t.Errorf("angle %d: want %v, got %v", i, want[i], angles[i])
		}
	}
}

func TestRasterize(t *testing.T) {
	origin := r2.Vec{X: 100, Y: 100}
	angles := []float64{0, math.Pi}
	ranges := []float64{10, DefaultMaxRange}

	image := Rasterize(origin, angles, ranges, DefaultMaxRange, 720, 64)
	r, c := image.Dims()
	if r != 64 || c != 64 {
		t.Fatalf("want 64x64 image, got %dx%d", r, c)
	}

	// Hit at (110, 100) lands in pixel (floor(100*64/720), floor(110*64/720))
	if image.At(8, 9) != 1.0 {
		t.Errorf("want hit pixel set")
	}
	if sum := mat.Sum(image); sum != 1.0 {
		t.Errorf("want exactly one pixel set, got %v", sum)
	}
}

func BenchmarkScan(b *testing.B) {
	c := NewCaster(DefaultMaxRange)
	c.SetContours(obstacle.NewCollection(
		obstacle.Obstacle{X: 0, Y: 0, Width: 100, Height: 100},
		obstacle.Obstacle{X: 400, Y: 400, Width: 300, Height: 300},
	).Contours())
	angles := Angles(1024, 0)

	for i := 0; i < b.N; i++ {
		c.Scan(r2.Vec{X: 110, Y: 110}, angles)
	}
}
