package experiment

import (
	"context"

	"github.com/pkg/errors"
	"github.com/samuelfneumann/highrl/agent"
	env "github.com/samuelfneumann/highrl/environment"
	"github.com/samuelfneumann/highrl/experiment/checkpointer"
	"github.com/samuelfneumann/highrl/experiment/tracker"
	ts "github.com/samuelfneumann/highrl/timestep"
	"gonum.org/v1/gonum/mat"
)

// Online is an Experiment that runs an agent online only. No offline
// evaluation is performed.
type Online struct {
	env.Environment
	agent.Agent
	maxSteps      int
	currentSteps  int
	trackers      []tracker.Tracker
	checkpointers []checkpointer.Checkpointer
}

// NewOnline creates and returns a new online experiment on a given
// environment with a given agent. The steps parameter determines how
// many timesteps the experiment is run for, and the t parameter
// is a slice of tracker.Tracker which determine what data is saved.
func NewOnline(e env.Environment, a agent.Agent, steps int,
	t []tracker.Tracker, c []checkpointer.Checkpointer) *Online {
	return &Online{
		Environment:   e,
		Agent:         a,
		maxSteps:      steps,
		trackers:      t,
		checkpointers: c,
	}
}

// Register registers a tracker.Tracker with an Experiment so that data
// generated during the experiment can be tracked and saved
func (o *Online) Register(t tracker.Tracker) {
	o.trackers = append(o.trackers, t)
}

// Steps returns the number of steps taken so far
func (o *Online) Steps() int {
	return o.currentSteps
}

// RunEpisode runs a single episode of the experiment. It returns
// whether the step limit of the experiment has been reached.
func (o *Online) RunEpisode(ctx context.Context) (bool, error) {
	step, err := o.Environment.Reset()
	if err != nil {
		return false, errors.Wrap(err, "runEpisode: could not reset")
	}
	if err := o.Agent.ObserveFirst(step); err != nil {
		return false, errors.Wrap(err, "runEpisode")
	}
	o.track(step)

	for !step.Last() && o.currentSteps < o.maxSteps {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		o.currentSteps++

		// Select action, step in environment
		action := o.Agent.SelectAction(step)
		step, err = o.step(ctx, action)
		if err != nil {
			return false, errors.Wrapf(err, "runEpisode: step %d",
				o.currentSteps)
		}

		o.track(step)
		if err := o.checkpoint(step); err != nil {
			return false, err
		}

		// Observe the timestep and step the agent
		if err := o.Agent.Observe(action, step); err != nil {
			return false, errors.Wrap(err, "runEpisode")
		}
		if err := o.Agent.Step(); err != nil {
			return false, errors.Wrap(err, "runEpisode")
		}
	}
	o.Agent.EndEpisode()

	return o.currentSteps >= o.maxSteps, nil
}

// Run runs the entire experiment for all timesteps
func (o *Online) Run(ctx context.Context) error {
	for {
		ended, err := o.RunEpisode(ctx)
		if err != nil {
			return err
		}
		if ended {
			return nil
		}
	}
}

// Save saves all the data cached by the Trackers to disk
func (o *Online) Save() error {
	for _, t := range o.trackers {
		if err := t.Save(); err != nil {
			return err
		}
	}
	return nil
}

// step steps the environment, passing ctx along if the environment
// accepts one
func (o *Online) step(ctx context.Context, a *mat.VecDense) (ts.TimeStep,
	error) {
	if s, ok := o.Environment.(env.ContextStepper); ok {
		step, _, err := s.StepContext(ctx, a)
		return step, err
	}
	step, _, err := o.Environment.Step(a)
	return step, err
}

// track tracks the current timestep by caching its data in each tracker
func (o *Online) track(t ts.TimeStep) {
	for _, tracker := range o.trackers {
		tracker.Track(t)
	}
}

// checkpoint passes the current timestep to each checkpointer
func (o *Online) checkpoint(t ts.TimeStep) error {
	for _, c := range o.checkpointers {
		if err := c.Checkpoint(t); err != nil {
			return errors.Wrap(err, "checkpoint")
		}
	}
	return nil
}
