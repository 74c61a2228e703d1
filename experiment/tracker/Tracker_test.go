package tracker

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	ts "github.com/samuelfneumann/highrl/timestep"
)

func episode(rewards ...float64) []ts.TimeStep {
	steps := []ts.TimeStep{ts.New(ts.First, 0, 1, nil, 0)}
	for i, r := range rewards {
		stepType := ts.Mid
		if i == len(rewards)-1 {
			stepType = ts.Last
		}
		steps = append(steps, ts.New(stepType, r, 1, nil, i+1))
	}
	return steps
}

func TestReturnAndLengthSaveLoad(t *testing.T) {
	dir := t.TempDir()
	ret := NewReturn(filepath.Join(dir, "Returns"))
	length := NewEpisodeLength(filepath.Join(dir, "Lengths"))

	var steps []ts.TimeStep
	steps = append(steps, episode(1, 2, 3)...)
	steps = append(steps, episode(-1, 5)...)
	// An episode cut short contributes nothing
	steps = append(steps, episode(10, 10, 10)[:2]...)
	steps = append(steps, episode(4)...)

	for _, step := range steps {
		ret.Track(step)
		length.Track(step)
	}

	if diff := cmp.Diff([]float64{6, 4, 4}, ret.Returns()); diff != "" {
		t.Errorf("returns mismatch (-want +got):\n%v", diff)
	}
	if ret.Sum() != 14 {
		t.Errorf("want return sum 14, got %v", ret.Sum())
	}
	if diff := cmp.Diff([]float64{3, 2, 1}, length.Lengths()); diff != "" {
		t.Errorf("lengths mismatch (-want +got):\n%v", diff)
	}

	for _, tracker := range []Tracker{ret, length} {
		if err := tracker.Save(); err != nil {
			t.Fatal(err)
		}
	}

	data, err := LoadData(filepath.Join(dir, "Returns"))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(ret.Returns(), data); diff != "" {
		t.Errorf("loaded returns mismatch (-want +got):\n%v", diff)
	}

	data, err = LoadData(filepath.Join(dir, "Lengths"))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(length.Lengths(), data); diff != "" {
		t.Errorf("loaded lengths mismatch (-want +got):\n%v", diff)
	}
}

func TestLoadDataMissing(t *testing.T) {
	if _, err := LoadData(filepath.Join(t.TempDir(), "nothing")); err == nil {
		t.Errorf("want error for missing file")
	}
}
