// Package weights defines weight initializers for linear agents
package weights

import (
	"fmt"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Initializer initializes weights
type Initializer interface {
	Initialize(weights *mat.Dense) // initializes weights
}

// Linear initializes every weight of a linear layer with a value drawn
// from a univariate distribution
type Linear struct {
	distuv.Rander
}

// NewLinear creates and returns a new Linear initializer
func NewLinear(rand distuv.Rander) Linear {
	if rand == nil {
		panic("newLinear: rand cannot be nil")
	}
	return Linear{rand}
}

// NewZero returns a Linear initializer setting all weights to 0
func NewZero() Linear {
	return NewLinear(Zero{})
}

// NewNormal returns a Linear initializer drawing weights from a
// zero-mean normal distribution with standard deviation std
func NewNormal(std float64, seed uint64) Linear {
	if std <= 0 {
		panic(fmt.Sprintf("newNormal: standard deviation must be "+
			"positive, got %v", std))
	}
	return NewLinear(distuv.Normal{Mu: 0, Sigma: std,
		Src: rand.NewSource(seed)})
}

// Initialize initializes a matrix of weights using values drawn from
// the distribution
func (l Linear) Initialize(weights *mat.Dense) {
	if weights == nil {
		return
	}

	r, c := weights.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			weights.Set(i, j, l.Rand())
		}
	}
}

// Zero implements the distuv.Rander interface, always drawing 0
type Zero struct{}

// Rand returns 0
func (Zero) Rand() float64 {
	return 0.0
}
