// Package policy implements linear continuous-action policies
package policy

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"

	"github.com/samuelfneumann/highrl/environment"
	"github.com/samuelfneumann/highrl/timestep"
	"github.com/samuelfneumann/highrl/utils/floatutils"
	"github.com/samuelfneumann/highrl/utils/matutils"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distmv"
)

// StdOffset is added to every standard deviation to keep the policy
// from collapsing to a deterministic one
const StdOffset float64 = 1e-3

// Bounds of the log standard deviation
const (
	MinLogStd float64 = -20
	MaxLogStd float64 = 2
)

const (
	// Keys for weights map: map[string]*mat.Dense
	MeanWeightsKey   string = "mean"
	StdWeightsKey    string = "standard deviation"
	CriticWeightsKey string = "critic"
)

// Gaussian implements a multi-dimensional linear Gaussian policy.
// The policy uses linear function approximation to compute the mean
// and the log of the standard deviation of the policy, independently
// for each action dimension.
type Gaussian struct {
	meanWeights *mat.Dense
	stdWeights  *mat.Dense
	actionDims  int
	features    int
	stdNormal   *distmv.Normal
}

// NewGaussian creates a new Gaussian policy with zero weights
func NewGaussian(seed uint64, env environment.Environment) *Gaussian {
	actionDims := env.ActionSpec().Shape.Len()
	features := env.ObservationSpec().Shape.Len()

	return NewGaussianDims(seed, actionDims, features)
}

// NewGaussianDims creates a new Gaussian policy with zero weights for
// the given number of action dimensions and features
func NewGaussianDims(seed uint64, actionDims, features int) *Gaussian {
	meanWeights := mat.NewDense(actionDims, features, nil)
	stdWeights := mat.NewDense(actionDims, features, nil)

	means := make([]float64, actionDims)
	std := mat.NewDiagDense(actionDims, matutils.VecOnes(actionDims).RawVector().Data)
	stdNormal, ok := distmv.NewNormal(means, std, rand.NewSource(seed))
	if !ok {
		panic("newGaussian: could not construct standard normal")
	}

	return &Gaussian{meanWeights, stdWeights, actionDims, features,
		stdNormal}
}

// Std gets the standard deviation of the policy given some state
// observation obs
func (g *Gaussian) Std(obs mat.Vector) *mat.VecDense {
	stdVec := mat.NewVecDense(g.actionDims, nil)
	stdVec.MulVec(g.stdWeights, obs)
	for i := 0; i < stdVec.Len(); i++ {
		logStd := floatutils.Clip(stdVec.AtVec(i), MinLogStd, MaxLogStd)
		stdVec.SetVec(i, math.Exp(logStd)+StdOffset)
	}
	return stdVec
}

// Mean gets the mean of the policy given some state observation obs
func (g *Gaussian) Mean(obs mat.Vector) *mat.VecDense {
	mean := mat.NewVecDense(g.actionDims, nil)
	mean.MulVec(g.meanWeights, obs)
	return mean
}

// SelectAction selects an action from the policy for a given timestep
func (g *Gaussian) SelectAction(t timestep.TimeStep) *mat.VecDense {
	obs := t.Observation
	if obs.Len() != g.features {
		panic(fmt.Sprintf("selectAction: want %d features, got %d",
			g.features, obs.Len()))
	}

	mean := g.Mean(obs)
	std := g.Std(obs)

	// Reparameterize a standard normal sample
	action := mat.NewVecDense(g.actionDims, g.stdNormal.Rand(nil))
	action.MulElemVec(action, std)
	action.AddVec(action, mean)

	return action
}

// Features returns the number of features the policy expects
func (g *Gaussian) Features() int {
	return g.features
}

// ActionDims returns the dimension of actions the policy selects
func (g *Gaussian) ActionDims() int {
	return g.actionDims
}

// Weights gets and returns the weights of the policy
func (g *Gaussian) Weights() map[string]*mat.Dense {
	weights := make(map[string]*mat.Dense)

	weights[MeanWeightsKey] = g.meanWeights
	weights[StdWeightsKey] = g.stdWeights

	return weights
}

// SetWeights sets the weight pointers to point to a new set of weights.
func (g *Gaussian) SetWeights(weights map[string]*mat.Dense) error {
	meanWeights, ok := weights[MeanWeightsKey]
	if !ok {
		return fmt.Errorf("SetWeights: no weights named \"%v\"",
			MeanWeightsKey)
	}
	stdWeights, ok := weights[StdWeightsKey]
	if !ok {
		return fmt.Errorf("SetWeights: no weights named \"%v\"",
			StdWeightsKey)
	}

	for key, w := range map[string]*mat.Dense{MeanWeightsKey: meanWeights,
		StdWeightsKey: stdWeights} {
		if r, c := w.Dims(); r != g.actionDims || c != g.features {
			return fmt.Errorf("SetWeights: %v weights have shape (%d, %d), "+
				"want (%d, %d)", key, r, c, g.actionDims, g.features)
		}
	}

	g.meanWeights = meanWeights
	g.stdWeights = stdWeights

	return nil
}
