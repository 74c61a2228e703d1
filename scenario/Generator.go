// Package scenario samples random obstacle layouts that keep the
// robot start and goal discs clear.
package scenario

import (
	"context"
	"math"

	"github.com/pkg/errors"
	"github.com/samuelfneumann/highrl/geometry"
	"github.com/samuelfneumann/highrl/obstacle"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/stat/distuv"
)

// Default generator parameters
const (
	DefaultMinSize     float64 = 50
	DefaultMaxSize     float64 = 500
	DefaultMaxAttempts int     = 10000
)

var (
	// ErrInvalidScenarioParams is returned when the generator is asked
	// for a negative number of obstacles or a degenerate arena
	ErrInvalidScenarioParams = errors.New("invalid scenario parameters")

	// ErrGenerationExhausted is returned when an obstacle could not be
	// placed within the retry budget
	ErrGenerationExhausted = errors.New("scenario generation exhausted")
)

// Placement describes the start and goal of the robot for which a
// layout is generated
type Placement struct {
	Start  r2.Vec
	Goal   r2.Vec
	Radius float64
}

// Generator samples obstacle layouts. Obstacle origins are sampled
// uniformly over the arena and sizes uniformly over [MinSize, MaxSize].
// Obstacles are not clipped to the arena and may overlap each other;
// only the bounding boxes of the start and goal discs are kept free.
type Generator struct {
	MinSize     float64
	MaxSize     float64
	MaxAttempts int

	seed uint64
	rng  rand.Source
}

// NewGenerator returns a new Generator with the default sizes and retry
// budget
func NewGenerator(seed uint64) *Generator {
	return &Generator{
		MinSize:     DefaultMinSize,
		MaxSize:     DefaultMaxSize,
		MaxAttempts: DefaultMaxAttempts,
		seed:        seed,
		rng:         rand.NewSource(seed),
	}
}

// Seed returns the seed of the generator
func (g *Generator) Seed() uint64 {
	return g.seed
}

// Generate returns count obstacles in a width x height arena
func (g *Generator) Generate(count int, width, height float64,
	p Placement) (*obstacle.Collection, error) {
	return g.GenerateContext(context.Background(), count, width, height, p)
}

// GenerateContext is like Generate but stops early when ctx is done
func (g *Generator) GenerateContext(ctx context.Context, count int, width,
	height float64, p Placement) (*obstacle.Collection, error) {
	if err := g.validate(count, width, height, p); err != nil {
		return nil, err
	}

	x := distuv.Uniform{Min: 0, Max: width, Src: g.rng}
	y := distuv.Uniform{Min: 0, Max: height, Src: g.rng}
	size := distuv.Uniform{Min: g.MinSize, Max: g.MaxSize, Src: g.rng}

	startBounds := geometry.DiscBounds(p.Start, p.Radius)
	goalBounds := geometry.DiscBounds(p.Goal, p.Radius)

	c := obstacle.NewCollection()
	for i := 0; i < count; i++ {
		placed := false
		for attempt := 0; attempt < g.MaxAttempts; attempt++ {
			if attempt%1000 == 0 {
				if err := ctx.Err(); err != nil {
					return nil, errors.Wrapf(err, "generate: placed %d of "+
						"%d obstacles", i, count)
				}
			}

			candidate := obstacle.Obstacle{
				X:      x.Rand(),
				Y:      y.Rand(),
				Width:  size.Rand(),
				Height: size.Rand(),
			}
			r := candidate.Rect()
			if geometry.Overlaps(r, startBounds) ||
				geometry.Overlaps(r, goalBounds) {
				continue
			}

			c.Add(candidate)
			placed = true
			break
		}

		if !placed {
			return nil, errors.Wrapf(ErrGenerationExhausted, "obstacle %d "+
				"of %d not placed after %d attempts", i+1, count,
				g.MaxAttempts)
		}
	}

	return c, nil
}

func (g *Generator) validate(count int, width, height float64,
	p Placement) error {
	if count < 0 {
		return errors.Wrapf(ErrInvalidScenarioParams, "negative obstacle "+
			"count %d", count)
	}
	if !finite(width, height) || width <= 0 || height <= 0 {
		return errors.Wrapf(ErrInvalidScenarioParams, "arena dimensions "+
			"must be positive, got %v x %v", width, height)
	}
	if !finite(p.Start.X, p.Start.Y, p.Goal.X, p.Goal.Y, p.Radius) ||
		p.Radius < 0 {
		return errors.Wrapf(ErrInvalidScenarioParams, "invalid placement "+
			"%+v", p)
	}
	if !finite(g.MinSize, g.MaxSize) || g.MinSize < 0 ||
		g.MaxSize < g.MinSize {
		return errors.Wrapf(ErrInvalidScenarioParams, "invalid obstacle "+
			"size range [%v, %v]", g.MinSize, g.MaxSize)
	}
	if g.MaxAttempts <= 0 {
		return errors.Wrapf(ErrInvalidScenarioParams, "max attempts must "+
			"be positive, got %d", g.MaxAttempts)
	}
	return nil
}

func finite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
