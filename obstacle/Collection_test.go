package obstacle

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/samuelfneumann/highrl/geometry"
	"gonum.org/v1/gonum/spatial/r2"
)

func TestNewRejectsInvalid(t *testing.T) {
	if _, err := New(0, 0, -1, 10); !errors.Is(err, ErrInvalidObstacle) {
		t.Errorf("want ErrInvalidObstacle for negative width, got %v", err)
	}
	if _, err := New(0, 0, 10, 10); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestCollectionOrder(t *testing.T) {
	obstacles := []Obstacle{
		{400, 400, 300, 300},
		{0, 0, 100, 100},
		{50, 600, 60, 60},
	}
	c := NewCollection(obstacles...)

	if diff := cmp.Diff(obstacles, c.All()); diff != "" {
		t.Errorf("All() mismatch (-want +got):\n%s", diff)
	}
	if c.Len() != 3 {
		t.Errorf("want 3 obstacles, got %d", c.Len())
	}

	// All returns a snapshot
	all := c.All()
	all[0].X = -1
	if c.At(0).X != 400 {
		t.Error("mutating All() result changed the collection")
	}

	c.Clear()
	if c.Len() != 0 || len(c.All()) != 0 {
		t.Errorf("want empty collection after Clear, got %v", c.All())
	}
	if c.OverlapsAny(geometry.NewRect(0, 0, 1000, 1000)) {
		t.Error("cleared collection should not overlap anything")
	}
}

func TestOverlapsAny(t *testing.T) {
	c := NewCollection(Obstacle{0, 0, 100, 100}, Obstacle{400, 400, 300, 300})

	tests := []struct {
		name  string
		query geometry.Rect
		want  bool
	}{
		{"inside first", geometry.NewRect(10, 10, 5, 5), true},
		{"touching first", geometry.NewRect(100, 50, 10, 10), true},
		{"between", geometry.NewRect(150, 150, 100, 100), false},
		{"touching second corner", geometry.NewRect(380, 380, 20, 20), true},
		{"far away", geometry.NewRect(800, 0, 10, 10), false},
		{"zero size on edge", geometry.NewRect(400, 500, 0, 0), true},
	}
	for _, test := range tests {
		if got := c.OverlapsAny(test.query); got != test.want {
			t.Errorf("%v: want %v, got %v", test.name, test.want, got)
		}
	}
}

func TestOverlapsAnyMatchesBruteForce(t *testing.T) {
	c := NewCollection()
	for i := 0; i < 40; i++ {
		c.Add(Obstacle{float64(i * 17 % 700), float64(i * 31 % 700),
			float64(10 + i%7*5), float64(10 + i%5*9)})
	}

	for x := 0.0; x < 720; x += 23 {
		for y := 0.0; y < 720; y += 29 {
			q := geometry.NewRect(x, y, 12, 8)

			want := false
			for _, o := range c.All() {
				want = want || geometry.Overlaps(o.Rect(), q)
			}
			if got := c.OverlapsAny(q); got != want {
				t.Fatalf("query %v: index says %v, brute force says %v", q,
					got, want)
			}
		}
	}
}

func TestNearAndContours(t *testing.T) {
	c := NewCollection(Obstacle{0, 0, 10, 10}, Obstacle{500, 500, 10, 10})

	near := c.Near(r2.Vec{X: 15, Y: 5}, 10)
	if len(near) != 1 || near[0] != c.At(0) {
		t.Errorf("want only first obstacle near (15, 5), got %v", near)
	}

	contours := c.Contours()
	want := []r2.Vec{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}
	if diff := cmp.Diff(want, contours[0]); diff != "" {
		t.Errorf("contour mismatch (-want +got):\n%s", diff)
	}
}

func TestDistanceTo(t *testing.T) {
	// A robot centred on an obstacle corner is at distance 0
	o := Obstacle{100, 100, 50, 50}
	if d := o.DistanceTo(r2.Vec{X: 100, Y: 100}); d != 0 {
		t.Errorf("want 0, got %v", d)
	}
}
