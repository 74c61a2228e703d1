// Package random implements agents that act uniformly at random
package random

import (
	"bytes"
	"encoding/gob"

	"github.com/pkg/errors"
	"github.com/samuelfneumann/highrl/agent"
	"github.com/samuelfneumann/highrl/environment"
	"github.com/samuelfneumann/highrl/timestep"
	"gonum.org/v1/gonum/mat"
)

// Uniform selects actions uniformly at random from the action Spec of
// an environment and never learns. It counts the transitions it
// observes so that a restored checkpoint can be told apart from a
// fresh agent.
type Uniform struct {
	sampler *environment.UniformStarter
	spec    environment.Spec
	seed    uint64
	steps   int
}

// New returns a new Uniform agent for env
func New(env environment.Environment, seed uint64) (*Uniform, error) {
	s := env.ActionSpec()
	if s.Cardinality != environment.Continuous {
		return nil, errors.New("new: actions must be continuous")
	}

	return &Uniform{
		sampler: environment.NewSpecStarter(s, seed),
		spec:    s,
		seed:    seed,
	}, nil
}

// Factory is an agent.Factory creating Uniform agents
func Factory(env environment.Environment,
	seed uint64) (agent.Checkpointable, error) {
	return New(env, seed)
}

// SelectAction samples an action uniformly from the action Spec
func (u *Uniform) SelectAction(timestep.TimeStep) *mat.VecDense {
	return u.sampler.Start()
}

// Steps returns the number of transitions observed so far
func (u *Uniform) Steps() int {
	return u.steps
}

// Step is a no-op
func (u *Uniform) Step() error { return nil }

// Observe counts the observed transition
func (u *Uniform) Observe(mat.Vector, timestep.TimeStep) error {
	u.steps++
	return nil
}

// ObserveFirst is a no-op
func (u *Uniform) ObserveFirst(timestep.TimeStep) error { return nil }

// EndEpisode is a no-op
func (u *Uniform) EndEpisode() {}

// GobEncode implements the gob.GobEncoder interface
func (u *Uniform) GobEncode() ([]byte, error) {
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)

	if err := enc.Encode(u.seed); err != nil {
		return nil, errors.Wrap(err, "gobencode: could not encode seed")
	}
	if err := enc.Encode(u.steps); err != nil {
		return nil, errors.Wrap(err, "gobencode: could not encode steps")
	}
	if err := enc.Encode(u.spec.LowerBound.RawVector().Data); err != nil {
		return nil, errors.Wrap(err, "gobencode: could not encode lower bound")
	}
	if err := enc.Encode(u.spec.UpperBound.RawVector().Data); err != nil {
		return nil, errors.Wrap(err, "gobencode: could not encode upper bound")
	}

	return buf.Bytes(), nil
}

// GobDecode implements the gob.GobDecoder interface
func (u *Uniform) GobDecode(in []byte) error {
	dec := gob.NewDecoder(bytes.NewReader(in))

	var low, high []float64
	if err := dec.Decode(&u.seed); err != nil {
		return errors.Wrap(err, "gobdecode: could not decode seed")
	}
	if err := dec.Decode(&u.steps); err != nil {
		return errors.Wrap(err, "gobdecode: could not decode steps")
	}
	if err := dec.Decode(&low); err != nil {
		return errors.Wrap(err, "gobdecode: could not decode lower bound")
	}
	if err := dec.Decode(&high); err != nil {
		return errors.Wrap(err, "gobdecode: could not decode upper bound")
	}
	if len(low) != len(high) || len(low) == 0 {
		return errors.Errorf("gobdecode: invalid bounds %v, %v", low, high)
	}

	n := len(low)
	u.spec = environment.NewSpec(mat.NewVecDense(n, nil),
		environment.Action, mat.NewVecDense(n, low),
		mat.NewVecDense(n, high), environment.Continuous)
	u.sampler = environment.NewSpecStarter(u.spec, u.seed)

	return nil
}
