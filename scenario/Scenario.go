package scenario

import (
	"fmt"

	"github.com/samuelfneumann/highrl/obstacle"
	"gonum.org/v1/gonum/spatial/r2"
)

// Scenario is a concrete obstacle layout together with the robot start
// and goal of a single trainee sub-session
type Scenario struct {
	Start     r2.Vec
	Goal      r2.Vec
	Obstacles *obstacle.Collection
}

// New returns a new Scenario
func New(start, goal r2.Vec, obstacles *obstacle.Collection) Scenario {
	if obstacles == nil {
		obstacles = obstacle.NewCollection()
	}
	return Scenario{Start: start, Goal: goal, Obstacles: obstacles}
}

// Default returns the two-obstacle layout the navigation environment
// starts with before the curriculum installs its first scenario. The
// robot starts and finishes at the origin.
func Default() Scenario {
	return New(r2.Vec{}, r2.Vec{}, obstacle.NewCollection(
		obstacle.Obstacle{X: 0, Y: 0, Width: 100, Height: 100},
		obstacle.Obstacle{X: 400, Y: 400, Width: 300, Height: 300},
	))
}

func (s Scenario) String() string {
	return fmt.Sprintf("Scenario{Start: %v, Goal: %v, Obstacles: %d}",
		s.Start, s.Goal, s.Obstacles.Len())
}
