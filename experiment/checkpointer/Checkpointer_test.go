package checkpointer

import (
	"bytes"
	"encoding/gob"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	ts "github.com/samuelfneumann/highrl/timestep"
)

type counter struct {
	n int
}

func (c *counter) GobEncode() ([]byte, error) {
	var buf bytes.Buffer
	err := gob.NewEncoder(&buf).Encode(c.n)
	return buf.Bytes(), err
}

func (c *counter) GobDecode(in []byte) error {
	return gob.NewDecoder(bytes.NewReader(in)).Decode(&c.n)
}

func TestStorePaths(t *testing.T) {
	s := NewStore("models")

	tests := []struct {
		got, want string
	}{
		{s.AgentPath(3), filepath.Join("models", "Agent_Model_3")},
		{s.PlannerPath(0), filepath.Join("models", "Planner_Model_0")},
		{s.ReturnsPath(12), filepath.Join("models", "Returns_12")},
	}
	for _, test := range tests {
		if test.got != test.want {
			t.Errorf("want path %v, got %v", test.want, test.got)
		}
	}
}

func TestSaveLoad(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "nested", "dir"))
	path := s.AgentPath(2)

	if err := Save(&counter{n: 42}, path); err != nil {
		t.Fatal(err)
	}
	if !s.Exists(path) {
		t.Fatalf("checkpoint not written to %v", path)
	}

	var restored counter
	if err := Load(path, &restored); err != nil {
		t.Fatal(err)
	}
	if restored.n != 42 {
		t.Errorf("want 42, got %d", restored.n)
	}
}

func TestLoadMissing(t *testing.T) {
	s := NewStore(t.TempDir())

	err := Load(s.AgentPath(7), &counter{})
	if !errors.Is(err, ErrCheckpointMissing) {
		t.Errorf("want ErrCheckpointMissing, got %v", err)
	}
}

func TestNStepWithEnumerator(t *testing.T) {
	s := NewStore(t.TempDir())
	c := &counter{}
	check := NewNStep(2, c, s.PlannerEnumerator(0))

	for i := 0; i <= 4; i++ {
		c.n = i
		if err := check.Checkpoint(ts.New(ts.Mid, 0, 1, nil, i)); err != nil {
			t.Fatal(err)
		}
	}

	for i, want := range map[int]int{1: 2, 2: 4} {
		var restored counter
		if err := Load(s.PlannerPath(i), &restored); err != nil {
			t.Fatal(err)
		}
		if restored.n != want {
			t.Errorf("checkpoint %d: want %d, got %d", i, want, restored.n)
		}
	}
	if s.Exists(s.PlannerPath(3)) {
		t.Errorf("unexpected third checkpoint")
	}
}
