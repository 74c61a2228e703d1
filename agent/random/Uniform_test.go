package random

import (
	"bytes"
	"encoding/gob"
	"io"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/samuelfneumann/highrl/environment"
	"github.com/samuelfneumann/highrl/timestep"
	"gonum.org/v1/gonum/mat"
)

// box is a minimal environment exposing only its specs
type box struct {
	environment.Environment
	low, high float64
}

func (b box) ActionSpec() environment.Spec {
	return environment.NewBoxSpec(3, environment.Action, b.low, b.high)
}

func TestSelectActionWithinSpec(t *testing.T) {
	env := box{low: 1, high: 7}
	u, err := New(env, 3)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 1000; i++ {
		a := u.SelectAction(timestep.TimeStep{})
		if !env.ActionSpec().Contains(a) {
			t.Fatalf("action %v outside of spec", a.RawVector().Data)
		}
	}
}

func TestGobRoundTrip(t *testing.T) {
	env := box{low: -1, high: 1}
	u, err := New(env, 11)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		u.Observe(mat.NewVecDense(3, nil), timestep.TimeStep{})
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(u); err != nil {
		t.Fatal(err)
	}

	restored := &Uniform{}
	if err := gob.NewDecoder(&buf).Decode(restored); err != nil {
		t.Fatal(err)
	}

	if restored.Steps() != 5 {
		t.Errorf("want 5 steps, got %d", restored.Steps())
	}
	a := restored.SelectAction(timestep.TimeStep{})
	if !env.ActionSpec().Contains(a) {
		t.Errorf("restored agent selects %v outside of spec",
			a.RawVector().Data)
	}
}

// grid exposes a discrete action Spec
type grid struct {
	environment.Environment
}

func (grid) ActionSpec() environment.Spec {
	return environment.NewSpec(mat.NewVecDense(1, nil), environment.Action,
		mat.NewVecDense(1, []float64{0}), mat.NewVecDense(1, []float64{3}),
		environment.Discrete)
}

func TestNewRejectsDiscreteActions(t *testing.T) {
	if _, err := New(grid{}, 1); err == nil {
		t.Error("want error for discrete actions, got nil")
	}
}

func TestGobDecodeTruncated(t *testing.T) {
	u := &Uniform{}
	err := u.GobDecode(nil)
	if err == nil {
		t.Fatal("want error decoding empty checkpoint, got nil")
	}
	if errors.Cause(err) != io.EOF {
		t.Errorf("want cause %v, got %v", io.EOF, errors.Cause(err))
	}
	if !strings.HasPrefix(err.Error(), "gobdecode: could not decode seed") {
		t.Errorf("unexpected error message %q", err.Error())
	}
}
