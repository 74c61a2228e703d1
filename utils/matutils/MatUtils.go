// Package matutils implements utility function for working with mat.Matrix
// structs
package matutils

import (
	"fmt"

	"github.com/samuelfneumann/highrl/utils/floatutils"
	"gonum.org/v1/gonum/mat"
)

// VecOnes returns a vector of 1.0's
func VecOnes(length int) *mat.VecDense {
	ones := make([]float64, length)
	for i := range ones {
		ones[i] = 1.0
	}
	return mat.NewVecDense(length, ones)
}

// VecClip clips each element of a in place to the bounds at the same
// index of low and high
func VecClip(a *mat.VecDense, low, high mat.Vector) {
	if low.Len() != a.Len() || high.Len() != a.Len() {
		panic(fmt.Sprintf("vecClip: bounds of length %d, %d cannot clip "+
			"vector of length %d", low.Len(), high.Len(), a.Len()))
	}
	for i := 0; i < a.Len(); i++ {
		a.SetVec(i, floatutils.Clip(a.AtVec(i), low.AtVec(i), high.AtVec(i)))
	}
}
