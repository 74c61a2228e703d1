package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/samuelfneumann/highrl/difficulty"
	"github.com/samuelfneumann/highrl/environment/robot"
	"github.com/samuelfneumann/highrl/environment/teacher"
)

func TestDefaultValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("want default config valid, got %v", err)
	}
}

func TestDefaultMatchesComponents(t *testing.T) {
	c := Default()

	if diff := cmp.Diff(robot.DefaultConfig(), c.NavigationConfig()); diff != "" {
		t.Errorf("navigation config mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(difficulty.NewEstimator(), c.Estimator()); diff != "" {
		t.Errorf("estimator mismatch (-want +got):\n%s", diff)
	}

	want := teacher.DefaultConfig()
	want.CheckpointDir = "models"
	if diff := cmp.Diff(want, c.TeacherConfig("models")); diff != "" {
		t.Errorf("teacher config mismatch (-want +got):\n%s", diff)
	}
}

func TestParseKeepsDefaults(t *testing.T) {
	c, err := Parse([]byte(`
seed: 7
arena:
  width: 400
teacher:
  initial_difficulty: 5
obstacles:
  size:
    min: 10
    max: 20
agent:
  name: linear-gaussian
`))
	if err != nil {
		t.Fatal(err)
	}

	want := Default()
	want.Seed = 7
	want.Arena.Width = 400
	want.Teacher.InitialDifficulty = 5
	want.Obstacles.Size.Min = 10
	want.Obstacles.Size.Max = 20
	want.Agent.Name = LinearGaussianAgent

	if diff := cmp.Diff(want, c); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data, err := Default().Marshal()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(Default(), c); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Errorf("want error loading missing file")
	}
}

func TestValidate(t *testing.T) {
	tests := map[string]func(*Config){
		"zero width":       func(c *Config) { c.Arena.Width = 0 },
		"negative radius":  func(c *Config) { c.Robot.Radius = -1 },
		"zero rays":        func(c *Config) { c.Lidar.Rays = 0 },
		"inverted sizes":   func(c *Config) { c.Obstacles.Size.Min = 600 },
		"no attempts":      func(c *Config) { c.Obstacles.MaxAttempts = 0 },
		"zero growth":      func(c *Config) { c.Teacher.Growth = 0 },
		"probability":      func(c *Config) { c.Teacher.AdvanceProbability = 2 },
		"zero sub-session": func(c *Config) { c.Teacher.SubSessionSteps = 0 },
		"action bounds":    func(c *Config) { c.Teacher.ActionLow = 8 },
		"negative weight":  func(c *Config) { c.Difficulty.CountWeight = -1 },
		"unknown agent":    func(c *Config) { c.Agent.Name = "dqn" },
		"negative rate": func(c *Config) {
			c.Agent.Name = LinearGaussianAgent
			c.Agent.ActorCritic.ActorLearningRate = -1
		},
	}

	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			c := Default()
			mutate(&c)
			if err := c.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("want ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestParseInvalidYAML(t *testing.T) {
	_, err := Parse([]byte("arena: [1, 2"))
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("want ErrInvalidConfig, got %v", err)
	}
}
