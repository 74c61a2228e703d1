package matutils

import (
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestVecOnes(t *testing.T) {
	v := VecOnes(3)
	if !mat.Equal(v, mat.NewVecDense(3, []float64{1, 1, 1})) {
		t.Errorf("want ones, got %v", mat.Formatted(v.T()))
	}
}

func TestVecClip(t *testing.T) {
	a := mat.NewVecDense(3, []float64{-5, 0.5, 9})
	VecClip(a, mat.NewVecDense(3, []float64{-1, 0, 1}),
		mat.NewVecDense(3, []float64{1, 1, 7}))

	want := mat.NewVecDense(3, []float64{-1, 0.5, 7})
	if !mat.Equal(a, want) {
		t.Errorf("want %v, got %v", mat.Formatted(want.T()),
			mat.Formatted(a.T()))
	}
}
