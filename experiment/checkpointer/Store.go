package checkpointer

import (
	"fmt"
	"os"
	"path/filepath"
)

// Prefixes of checkpoint file names
const (
	AgentPrefix   string = "Agent_Model_"
	PlannerPrefix string = "Planner_Model_"
	ReturnsPrefix string = "Returns_"
)

// Store names checkpoints of trainee agents and planners inside a
// directory. Trainee agents are keyed by the curriculum episode they
// were trained in, planners by the training iteration.
type Store struct {
	Dir string
}

// NewStore returns a new Store rooted at dir
func NewStore(dir string) Store {
	return Store{Dir: dir}
}

// AgentPath returns the path of the trainee checkpoint for episode i
func (s Store) AgentPath(i int) string {
	return filepath.Join(s.Dir, fmt.Sprintf("%v%d", AgentPrefix, i))
}

// PlannerPath returns the path of the planner checkpoint for
// iteration i
func (s Store) PlannerPath(i int) string {
	return filepath.Join(s.Dir, fmt.Sprintf("%v%d", PlannerPrefix, i))
}

// ReturnsPath returns the path of the trainee returns tracked during
// episode i
func (s Store) ReturnsPath(i int) string {
	return filepath.Join(s.Dir, fmt.Sprintf("%v%d", ReturnsPrefix, i))
}

// Exists returns whether a checkpoint exists at path
func (s Store) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
