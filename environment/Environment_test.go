package environment

import (
	"testing"

	"github.com/samuelfneumann/highrl/timestep"
	"gonum.org/v1/gonum/mat"
)

func TestBoxSpecContains(t *testing.T) {
	s := NewBoxSpec(3, Action, 1, 7)

	tests := []struct {
		v    *mat.VecDense
		want bool
	}{
		{mat.NewVecDense(3, []float64{1, 4, 7}), true},
		{mat.NewVecDense(3, []float64{0.5, 4, 7}), false},
		{mat.NewVecDense(3, []float64{1, 4, 7.5}), false},
		{mat.NewVecDense(2, []float64{1, 4}), false},
	}

	for _, test := range tests {
		if got := s.Contains(test.v); got != test.want {
			t.Errorf("Contains(%v): want %v, got %v",
				mat.Formatted(test.v.T()), test.want, got)
		}
	}
}

func TestNewSpecMismatch(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("want panic on mismatched bounds")
		}
	}()
	NewSpec(mat.NewVecDense(2, nil), Observation, mat.NewVecDense(3, nil),
		mat.NewVecDense(2, nil), Continuous)
}

func TestStepLimit(t *testing.T) {
	s := NewStepLimit(5)

	step := timestep.New(timestep.Mid, 0, 1, nil, 4)
	if s.End(&step) || step.Last() {
		t.Errorf("want episode continued at step 4")
	}

	step.Number = 5
	if !s.End(&step) || !step.Last() {
		t.Errorf("want episode ended at step 5")
	}
	if step.EndType() != timestep.Timeout {
		t.Errorf("want end type %v, got %v", timestep.Timeout,
			step.EndType())
	}
}

func TestSpecStarter(t *testing.T) {
	s := NewBoxSpec(3, Action, -2, 2)
	a := NewSpecStarter(s, 11)
	b := NewSpecStarter(s, 11)

	for i := 0; i < 100; i++ {
		x, y := a.Start(), b.Start()
		if !s.Contains(x) {
			t.Fatalf("sample %v outside spec", mat.Formatted(x.T()))
		}
		if !mat.Equal(x, y) {
			t.Fatalf("want equal samples for equal seeds")
		}
	}
	if a.Seed() != 11 {
		t.Errorf("want seed 11, got %d", a.Seed())
	}
}
