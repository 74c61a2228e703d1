// Package agent defines an agent interface
package agent

import (
	"encoding/gob"

	"github.com/samuelfneumann/highrl/environment"
	"github.com/samuelfneumann/highrl/timestep"
	"github.com/samuelfneumann/highrl/utils/matutils"
	"gonum.org/v1/gonum/mat"
)

// Agent determines the implementation details of an agent or algorithm
//
// An Agent is composed of a Learner, which learns weights, and a Policy
// which chooses actions in each state. The Policy chooses which actions
// are taken, and the Learner uses these actions to update the Policy.
type Agent interface {
	Learner
	Policy
}

// Learner implements a learning algorithm that defines how weights are
// updated.
type Learner interface {
	// Step performs a single update to the learner
	Step() error

	// Observe records that an action lead to some timestep
	Observe(action mat.Vector, nextObs timestep.TimeStep) error

	// ObserveFirst records the first timestep in an episode
	ObserveFirst(timestep.TimeStep) error

	// EndEpisode performs cleanup at the end of an episode
	EndEpisode()
}

// Policy represents a policy that an agent can have.
//
// Policies determine how agents select actions. For a given agent, the
// Policy and Learner should have pointers to the same weights so that
// any changes the learner makes to the weights are reflected in the
// actions the Policy chooses
type Policy interface {
	SelectAction(t timestep.TimeStep) *mat.VecDense
}

// Checkpointable is an Agent that can be saved to and restored from a
// checkpoint
type Checkpointable interface {
	Agent
	gob.GobEncoder
	gob.GobDecoder
}

// Factory creates a fresh agent for an environment
type Factory func(env environment.Environment,
	seed uint64) (Checkpointable, error)

// Config represents a configuration for creating an agent
type Config interface {
	// CreateAgent creates the agent that the config describes
	CreateAgent(env environment.Environment,
		seed uint64) (Checkpointable, error)

	// Validate returns an error describing whether or not the
	// configuration is valid or not.
	Validate() error
}

// ClipToSpec clips each element of a in place to the bounds of the
// Spec s
func ClipToSpec(a *mat.VecDense, s environment.Spec) {
	matutils.VecClip(a, s.LowerBound, s.UpperBound)
}
