package actorcritic

import (
	"fmt"

	"github.com/samuelfneumann/highrl/agent"
	"github.com/samuelfneumann/highrl/environment"
	"github.com/samuelfneumann/highrl/utils/matutils/initializers/weights"
)

// Config represents a configuration for a LinearGaussian agent
type Config struct {
	ActorLearningRate  float64 `yaml:"actor_learning_rate"`
	CriticLearningRate float64 `yaml:"critic_learning_rate"`
	Decay              float64 `yaml:"decay"`
	ScaleActorLR       bool    `yaml:"scale_actor_lr"`

	// InitStd is the standard deviation of the zero-mean normal
	// distribution weights are initialized from. If 0, weights are
	// initialized to 0.
	InitStd float64 `yaml:"init_std"`
}

// CreateAgent creates the agent from the Config
func (c Config) CreateAgent(env environment.Environment,
	seed uint64) (agent.Checkpointable, error) {
	var init weights.Initializer = weights.NewZero()
	if c.InitStd > 0 {
		init = weights.NewNormal(c.InitStd, seed)
	}

	return NewLinearGaussian(env, c, init, seed)
}

// Factory returns an agent.Factory creating agents from the Config
func (c Config) Factory() agent.Factory {
	return c.CreateAgent
}

// Validate ensures that the Config is valid
func (c Config) Validate() error {
	if c.ActorLearningRate < 0 || c.CriticLearningRate < 0 {
		return fmt.Errorf("learning rates must be non-negative, got "+
			"actor: %v, critic: %v", c.ActorLearningRate,
			c.CriticLearningRate)
	}
	if c.InitStd < 0 {
		return fmt.Errorf("initial weight std must be non-negative, got "+
			"%v", c.InitStd)
	}
	if c.Decay < 0 || c.Decay > 1 {
		return fmt.Errorf("trace decay must be in [0, 1], got %v", c.Decay)
	}
	return nil
}
