// Package actorcritic implements linear Actor-Critic algorithms
package actorcritic

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"math"

	"github.com/pkg/errors"
	"github.com/samuelfneumann/highrl/agent"
	"github.com/samuelfneumann/highrl/agent/linear/continuous/policy"
	"github.com/samuelfneumann/highrl/environment"
	ts "github.com/samuelfneumann/highrl/timestep"
	"github.com/samuelfneumann/highrl/utils/matutils"
	"github.com/samuelfneumann/highrl/utils/matutils/initializers/weights"
	"gonum.org/v1/gonum/mat"
)

// LinearGaussian implements the Linear-Gaussian Actor-Critic algorithm:
//
// https://hal.inria.fr/hal-00764281/PDF/DegrisACC2012.pdf
//
// This algorithm uses linear function approximation to learn both
// a linear state value function critic and a Gaussian policy actor.
// The policy itself may select n-dimensional actions. The algorithm
// uses eligibility traces for both actor and critic gradients.
//
// Selected actions are clipped to the bounds of the action Spec of the
// environment the agent was created for.
type LinearGaussian struct {
	*policy.Gaussian
	actionSpec environment.Spec

	step     ts.TimeStep
	action   *mat.VecDense
	nextStep ts.TimeStep

	seed uint64

	// Weights for linear function approximation
	meanWeights   *mat.Dense
	stdWeights    *mat.Dense
	criticWeights *mat.VecDense

	// Eligibility traces
	meanTrace   *mat.Dense
	stdTrace    *mat.Dense
	criticTrace *mat.VecDense

	actorLR      float64
	criticLR     float64
	decay        float64
	scaleActorLR bool
}

// NewLinearGaussian returns a new LinearGaussian. The weights for
// the linear function approximators (actor and critic) are initialized
// using the init Initializer argument. The eligibility traces are
// always initialized to 0.
func NewLinearGaussian(env environment.Environment, c Config,
	init weights.Initializer, seed uint64) (*LinearGaussian, error) {
	actionSpec := env.ActionSpec()
	if actionSpec.Cardinality != environment.Continuous {
		return nil, fmt.Errorf("newLinearGaussian: actions must be " +
			"continuous")
	}
	if err := c.Validate(); err != nil {
		return nil, errors.Wrap(err, "newLinearGaussian")
	}

	pol := policy.NewGaussian(seed, env)
	l := newLinearGaussian(pol, actionSpec, c, seed)

	init.Initialize(l.meanWeights)
	init.Initialize(l.stdWeights)
	criticWeights := mat.NewDense(1, l.Features(),
		l.criticWeights.RawVector().Data)
	init.Initialize(criticWeights)

	return l, nil
}

func newLinearGaussian(pol *policy.Gaussian, actionSpec environment.Spec,
	c Config, seed uint64) *LinearGaussian {
	w := pol.Weights()
	meanWeights := w[policy.MeanWeightsKey]
	stdWeights := w[policy.StdWeightsKey]
	rows, cols := meanWeights.Dims()

	return &LinearGaussian{
		Gaussian:   pol,
		actionSpec: actionSpec,
		seed:       seed,

		meanWeights:   meanWeights,
		stdWeights:    stdWeights,
		criticWeights: mat.NewVecDense(cols, nil),

		meanTrace:   mat.NewDense(rows, cols, nil),
		stdTrace:    mat.NewDense(rows, cols, nil),
		criticTrace: mat.NewVecDense(cols, nil),

		actorLR:      c.ActorLearningRate,
		criticLR:     c.CriticLearningRate,
		decay:        c.Decay,
		scaleActorLR: c.ScaleActorLR,
	}
}

// SelectAction samples an action from the Gaussian policy and clips it
// to the action Spec
func (l *LinearGaussian) SelectAction(t ts.TimeStep) *mat.VecDense {
	action := l.Gaussian.SelectAction(t)
	agent.ClipToSpec(action, l.actionSpec)
	return action
}

// TdError computes the TD error of the critic on the last observed
// transition
func (l *LinearGaussian) TdError() float64 {
	r := l.nextStep.Reward
	ℽ := l.nextStep.Discount
	if l.nextStep.Last() {
		ℽ = 0
	}
	stateValue := mat.Dot(l.criticWeights, l.step.Observation)
	nextStateValue := mat.Dot(l.criticWeights, l.nextStep.Observation)

	return r + ℽ*nextStateValue - stateValue
}

// Step updates the algorithm's weights
func (l *LinearGaussian) Step() error {
	if l.action == nil || l.step.Observation == nil {
		return nil
	}

	state := l.step.Observation
	ℽ := l.nextStep.Discount

	// Calculate TD error δ
	δ := l.TdError()
	if math.IsNaN(δ) || math.IsInf(δ, 0) {
		return fmt.Errorf("step: TD error diverged at timestep %d",
			l.nextStep.Number)
	}

	// Update the critic trace
	l.criticTrace.AddScaledVec(state, ℽ*l.decay, l.criticTrace)

	// Update critic weights
	l.criticWeights.AddScaledVec(l.criticWeights, l.criticLR*δ, l.criticTrace)

	// Variables needed for gradient computation
	mean := l.Gaussian.Mean(state)
	std := l.Gaussian.Std(state)
	action := l.action
	actionDims := l.ActionDims()
	row, col := l.meanWeights.Dims()

	// Compute the gradient of the mean
	meanGradScale := mat.NewVecDense(actionDims, nil)
	meanGradScale.SubVec(action, mean)
	meanGradDiv := mat.NewVecDense(actionDims, nil)
	meanGradDiv.MulElemVec(std, std)
	meanGradScale.DivElemVec(meanGradScale, meanGradDiv)
	meanGrad := mat.NewDense(row, col, nil)
	meanGrad.Outer(1.0, meanGradScale, state)

	// Compute the gradient of the standard deviation
	stdGradScale := mat.NewVecDense(actionDims, nil)
	stdGradScale.SubVec(action, mean)
	stdGradScale.MulElemVec(stdGradScale, stdGradScale)
	stdGradDiv := mat.NewVecDense(actionDims, nil)
	stdGradDiv.MulElemVec(std, std)
	stdGradScale.DivElemVec(stdGradScale, stdGradDiv)
	stdGradScale.SubVec(stdGradScale, matutils.VecOnes(actionDims))
	stdGrad := mat.NewDense(row, col, nil)
	stdGrad.Outer(1.0, stdGradScale, state)

	// Calculate and update the actor traces
	addMeanTrace := mat.NewDense(row, col, nil)
	addMeanTrace.Scale(ℽ*l.decay, l.meanTrace)
	l.meanTrace.Add(meanGrad, addMeanTrace)

	addStdTrace := mat.NewDense(row, col, nil)
	addStdTrace.Scale(ℽ*l.decay, l.stdTrace)
	l.stdTrace.Add(stdGrad, addStdTrace)

	// Update actor weights
	actorLR := l.actorLR
	if l.scaleActorLR && std.Len() == 1 {
		actorLR *= math.Pow(std.AtVec(0), 2)
	}
	addMean := mat.NewDense(row, col, nil)
	addMean.Scale(actorLR*δ, l.meanTrace)
	l.meanWeights.Add(l.meanWeights, addMean)

	addStd := mat.NewDense(row, col, nil)
	addStd.Scale(actorLR*δ, l.stdTrace)
	l.stdWeights.Add(l.stdWeights, addStd)

	return nil
}

// Observe records the previously selected action and the timestep
// that it led to
func (l *LinearGaussian) Observe(a mat.Vector, nextStep ts.TimeStep) error {
	if a.Len() != l.ActionDims() {
		return fmt.Errorf("observe: want %d action dimensions, got %d",
			l.ActionDims(), a.Len())
	}
	l.step = l.nextStep
	l.action = mat.VecDenseCopyOf(a)
	l.nextStep = nextStep
	return nil
}

// ObserveFirst observes the first timestep in an episode
func (l *LinearGaussian) ObserveFirst(t ts.TimeStep) error {
	if !t.First() {
		return fmt.Errorf("observeFirst: called on %v timestep",
			t.StepType)
	}
	l.step = t
	l.nextStep = t
	l.action = nil
	return nil
}

// EndEpisode adjusts variables after an episode has completed
func (l *LinearGaussian) EndEpisode() {
	l.criticTrace.Zero()
	l.stdTrace.Zero()
	l.meanTrace.Zero()
}

// CriticWeights returns the weights of the state value critic
func (l *LinearGaussian) CriticWeights() *mat.VecDense {
	return l.criticWeights
}

// checkpoint is the serialized form of a LinearGaussian
type checkpoint struct {
	Seed         uint64
	ActionDims   int
	Features     int
	Mean         []float64
	Std          []float64
	Critic       []float64
	Low          []float64
	High         []float64
	ActorLR      float64
	CriticLR     float64
	Decay        float64
	ScaleActorLR bool
}

// GobEncode implements the gob.GobEncoder interface. Eligibility traces
// are not saved.
func (l *LinearGaussian) GobEncode() ([]byte, error) {
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)

	c := checkpoint{
		Seed:         l.seed,
		ActionDims:   l.ActionDims(),
		Features:     l.Features(),
		Mean:         l.meanWeights.RawMatrix().Data,
		Std:          l.stdWeights.RawMatrix().Data,
		Critic:       l.criticWeights.RawVector().Data,
		Low:          l.actionSpec.LowerBound.RawVector().Data,
		High:         l.actionSpec.UpperBound.RawVector().Data,
		ActorLR:      l.actorLR,
		CriticLR:     l.criticLR,
		Decay:        l.decay,
		ScaleActorLR: l.scaleActorLR,
	}
	if err := enc.Encode(c); err != nil {
		return nil, errors.Wrap(err, "gobencode: could not encode agent")
	}

	return buf.Bytes(), nil
}

// GobDecode implements the gob.GobDecoder interface
func (l *LinearGaussian) GobDecode(in []byte) error {
	var c checkpoint
	if err := gob.NewDecoder(bytes.NewReader(in)).Decode(&c); err != nil {
		return errors.Wrap(err, "gobdecode: could not decode agent")
	}

	size := c.ActionDims * c.Features
	if len(c.Mean) != size || len(c.Std) != size ||
		len(c.Critic) != c.Features || len(c.Low) != c.ActionDims ||
		len(c.High) != c.ActionDims {
		return fmt.Errorf("gobdecode: inconsistent checkpoint for (%d, %d) "+
			"weights", c.ActionDims, c.Features)
	}

	pol := policy.NewGaussianDims(c.Seed, c.ActionDims, c.Features)
	err := pol.SetWeights(map[string]*mat.Dense{
		policy.MeanWeightsKey: mat.NewDense(c.ActionDims, c.Features, c.Mean),
		policy.StdWeightsKey:  mat.NewDense(c.ActionDims, c.Features, c.Std),
	})
	if err != nil {
		return errors.Wrap(err, "gobdecode")
	}

	actionSpec := environment.NewSpec(mat.NewVecDense(c.ActionDims, nil),
		environment.Action, mat.NewVecDense(c.ActionDims, c.Low),
		mat.NewVecDense(c.ActionDims, c.High), environment.Continuous)

	config := Config{
		ActorLearningRate:  c.ActorLR,
		CriticLearningRate: c.CriticLR,
		Decay:              c.Decay,
		ScaleActorLR:       c.ScaleActorLR,
	}
	*l = *newLinearGaussian(pol, actionSpec, config, c.Seed)
	l.criticWeights = mat.NewVecDense(c.Features, c.Critic)

	return nil
}
