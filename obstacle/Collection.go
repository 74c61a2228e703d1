package obstacle

import (
	"fmt"
	"math"

	"github.com/dhconnelly/rtreego"
	"github.com/samuelfneumann/highrl/geometry"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	// Branching factors of the R-tree
	minChildren int = 4
	maxChildren int = 16

	// indexTolerance pads every indexed box so that zero-size obstacles
	// can be indexed and touching boxes are returned by the broad phase.
	// The closed-interval test in geometry.Overlaps is authoritative.
	indexTolerance float64 = 1e-6
)

// indexed wraps an Obstacle so that it can be stored in an R-tree
type indexed struct {
	Obstacle
	bounds rtreego.Rect
}

// Bounds implements rtreego.Spatial
func (i *indexed) Bounds() rtreego.Rect {
	return i.bounds
}

// Collection is an ordered set of obstacles. Insertion order is kept so
// that rendering and replay are deterministic. Obstacles are allowed to
// overlap each other.
//
// A Collection is owned by a single scenario and is not safe for
// concurrent mutation.
type Collection struct {
	obstacles []Obstacle
	index     *rtreego.Rtree
}

// NewCollection returns a Collection holding obstacles in the given
// order
func NewCollection(obstacles ...Obstacle) *Collection {
	c := &Collection{}
	c.Clear()
	for _, o := range obstacles {
		c.Add(o)
	}
	return c
}

// Add appends an obstacle to the collection
func (c *Collection) Add(o Obstacle) {
	c.obstacles = append(c.obstacles, o)
	c.index.Insert(&indexed{Obstacle: o, bounds: searchRect(o.Rect())})
}

// All returns a copy of the obstacles in insertion order
func (c *Collection) All() []Obstacle {
	out := make([]Obstacle, len(c.obstacles))
	copy(out, c.obstacles)
	return out
}

// At returns the i-th obstacle
func (c *Collection) At(i int) Obstacle {
	return c.obstacles[i]
}

// Len returns the number of obstacles in the collection
func (c *Collection) Len() int {
	return len(c.obstacles)
}

// Clear removes all obstacles
func (c *Collection) Clear() {
	c.obstacles = nil
	c.index = rtreego.NewTree(2, minChildren, maxChildren)
}

// OverlapsAny returns whether query overlaps any obstacle in the
// collection. Touching edges count as overlap.
func (c *Collection) OverlapsAny(query geometry.Rect) bool {
	for _, s := range c.index.SearchIntersect(searchRect(query)) {
		if geometry.Overlaps(s.(*indexed).Rect(), query) {
			return true
		}
	}
	return false
}

// Near returns the obstacles whose bounding boxes lie within distance
// of p, in no particular order
func (c *Collection) Near(p r2.Vec, distance float64) []Obstacle {
	query := geometry.DiscBounds(p, distance)
	hits := c.index.SearchIntersect(searchRect(query))

	out := make([]Obstacle, 0, len(hits))
	for _, s := range hits {
		out = append(out, s.(*indexed).Obstacle)
	}
	return out
}

// Contours returns the contour of each obstacle in insertion order
func (c *Collection) Contours() [][]r2.Vec {
	contours := make([][]r2.Vec, len(c.obstacles))
	for i, o := range c.obstacles {
		contours[i] = o.Contour()
	}
	return contours
}

// searchRect converts r into a padded rtreego.Rect
func searchRect(r geometry.Rect) rtreego.Rect {
	point := rtreego.Point{r.X - indexTolerance, r.Y - indexTolerance}
	lengths := []float64{
		math.Max(r.Width, 0) + 2*indexTolerance,
		math.Max(r.Height, 0) + 2*indexTolerance,
	}

	rect, err := rtreego.NewRect(point, lengths)
	if err != nil {
		panic(fmt.Sprintf("searchRect: cannot index %v: %v", r, err))
	}
	return rect
}
