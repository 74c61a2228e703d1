// Package lidar simulates a planar range sensor over rectangular
// obstacles and converts its scans into occupancy images.
package lidar

import (
	"fmt"
	"math"

	"github.com/ByteArena/box2d"
	"gonum.org/v1/gonum/spatial/r2"
)

// DefaultMaxRange is the range reported by rays that hit nothing
const DefaultMaxRange float64 = 25.0

// maxVertices is the largest polygon box2d supports
const maxVertices int = 8

// minExtent is the smallest polygon extent box2d can represent; thinner
// contours are not added to the world
const minExtent float64 = 0.01

// Caster casts rays against a set of polygonal contours. Each contour
// becomes one static box2d body. The world is never stepped, it is only
// used for its broad-phase ray queries.
type Caster struct {
	MaxRange float64

	world  box2d.B2World
	bodies []*box2d.B2Body
}

// NewCaster returns a new Caster with no contours
func NewCaster(maxRange float64) *Caster {
	if maxRange <= 0 || math.IsNaN(maxRange) || math.IsInf(maxRange, 0) {
		panic(fmt.Sprintf("newCaster: max range must be positive and "+
			"finite, got %v", maxRange))
	}

	return &Caster{
		MaxRange: maxRange,
		world:    box2d.MakeB2World(box2d.B2Vec2{X: 0.0, Y: 0.0}),
	}
}

// SetContours replaces all bodies in the world with one static polygon
// per contour. Contours must be convex and have between 3 and
// maxVertices vertices.
func (c *Caster) SetContours(contours [][]r2.Vec) {
	for _, body := range c.bodies {
		c.world.DestroyBody(body)
	}
	c.bodies = c.bodies[:0]

	for i, contour := range contours {
		if len(contour) < 3 || len(contour) > maxVertices {
			panic(fmt.Sprintf("setContours: contour %d has %d vertices",
				i, len(contour)))
		}
		if degenerate(contour) {
			continue
		}

		bodyDef := box2d.NewB2BodyDef()
		bodyDef.Type = box2d.B2BodyType.B2_staticBody
		body := c.world.CreateBody(bodyDef)

		vertices := make([]box2d.B2Vec2, len(contour))
		for j, v := range contour {
			vertices[j] = box2d.MakeB2Vec2(v.X, v.Y)
		}
		shape := box2d.NewB2PolygonShape()
		shape.Set(vertices, len(vertices))

		fixture := box2d.MakeB2FixtureDef()
		fixture.Shape = shape
		body.CreateFixtureFromDef(&fixture)

		c.bodies = append(c.bodies, body)
	}
}

// Len returns the number of bodies in the world
func (c *Caster) Len() int {
	return len(c.bodies)
}

// Scan casts one ray from origin along each angle and returns the
// distance to the closest hit. Rays that hit nothing within MaxRange
// report MaxRange.
func (c *Caster) Scan(origin r2.Vec, angles []float64) []float64 {
	ranges := make([]float64, len(angles))
	p1 := box2d.MakeB2Vec2(origin.X, origin.Y)

	for i, angle := range angles {
		ranges[i] = c.MaxRange
		if len(c.bodies) == 0 {
			continue
		}

		end := r2.Add(origin, r2.Scale(c.MaxRange,
			r2.Vec{X: math.Cos(angle), Y: math.Sin(angle)}))
		p2 := box2d.MakeB2Vec2(end.X, end.Y)

		closest := 1.0
		c.world.RayCast(
			func(fixture *box2d.B2Fixture, point box2d.B2Vec2,
				normal box2d.B2Vec2, fraction float64) float64 {
				if fraction < closest {
					closest = fraction
				}
				return fraction // clip the ray to the closest hit
			},
			p1,
			p2,
		)
		ranges[i] = closest * c.MaxRange
	}

	return ranges
}

// Angles returns n ray angles evenly spaced over a full turn, starting
// at heading
func Angles(n int, heading float64) []float64 {
	if n <= 0 {
		panic(fmt.Sprintf("angles: number of rays must be positive, got %d",
			n))
	}

	increment := 2 * math.Pi / float64(n)
	angles := make([]float64, n)
	for i := range angles {
		angles[i] = heading + float64(i)*increment
	}
	return angles
}

func degenerate(contour []r2.Vec) bool {
	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, v := range contour {
		minX, maxX = math.Min(minX, v.X), math.Max(maxX, v.X)
		minY, maxY = math.Min(minY, v.Y), math.Max(maxY, v.Y)
	}
	return maxX-minX < minExtent || maxY-minY < minExtent
}
