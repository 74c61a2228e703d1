// Package environment outlines the interfaces and structs needed to
// implement concrete environments
package environment

import (
	"context"

	"github.com/samuelfneumann/highrl/timestep"
	"gonum.org/v1/gonum/mat"
)

// Starter implements a distribution of starting states and samples
// starting states for environments
type Starter interface {
	Start() *mat.VecDense
}

// Ender determines when episodes end. If an episode should end, End
// adjusts the argument TimeStep so that its StepType is timestep.Last
// and sets its EndType.
type Ender interface {
	End(*timestep.TimeStep) bool
}

// Environment implements a simulated environment. Both the inner robot
// navigation environment and the outer curriculum (teacher) environment
// satisfy this interface, so that any optimizer consuming one can
// consume the other.
type Environment interface {
	// Reset resets the environment between episodes
	Reset() (timestep.TimeStep, error)

	// Step takes one step in the environment, returning the next
	// TimeStep and whether or not the episode has ended
	Step(action *mat.VecDense) (timestep.TimeStep, bool, error)

	ActionSpec() Spec
	ObservationSpec() Spec
	DiscountSpec() Spec
}

// ContextStepper is implemented by environments whose steps may block
// for a long time and should stop when ctx is done
type ContextStepper interface {
	StepContext(ctx context.Context, action *mat.VecDense) (timestep.TimeStep,
		bool, error)
}
