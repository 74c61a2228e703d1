// Package config provides the configuration of a curriculum run:
// the arena, the robot, the LiDAR, rewards, scenario generation, the
// curriculum and the trainee agent. Configurations are YAML
// serializable and any field omitted from a file keeps its default.
package config

import (
	"math"
	"os"

	"github.com/pkg/errors"
	"github.com/samuelfneumann/highrl/agent"
	"github.com/samuelfneumann/highrl/agent/linear/continuous/actorcritic"
	"github.com/samuelfneumann/highrl/agent/random"
	"github.com/samuelfneumann/highrl/difficulty"
	"github.com/samuelfneumann/highrl/environment/robot"
	"github.com/samuelfneumann/highrl/environment/teacher"
	"github.com/samuelfneumann/highrl/lidar"
	"github.com/samuelfneumann/highrl/scenario"
	"gonum.org/v1/gonum/spatial/r1"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned when a configuration fails validation
var ErrInvalidConfig = errors.New("invalid configuration")

// Agent names available for trainees
const (
	RandomAgent         string = "random"
	LinearGaussianAgent string = "linear-gaussian"
)

// Arena configures the dimensions of the arena
type Arena struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// Robot configures the trainee robot and its episodes
type Robot struct {
	Radius          float64 `yaml:"radius"`
	MaxSpeed        float64 `yaml:"max_speed"`
	DeltaT          float64 `yaml:"delta_t"`
	GoalThreshold   float64 `yaml:"goal_threshold"`
	MaxEpisodeSteps int     `yaml:"max_episode_steps"`
	Discount        float64 `yaml:"discount"`
}

// Lidar configures the LiDAR scan and its occupancy image
type Lidar struct {
	Rays      int     `yaml:"rays"`
	MaxRange  float64 `yaml:"max_range"`
	ImageSide int     `yaml:"image_side"`
}

// Rewards configures the terminal rewards of trainee episodes
type Rewards struct {
	CollisionPenalty float64 `yaml:"collision_penalty"`
	GoalBonus        float64 `yaml:"goal_bonus"`
}

// Obstacles configures scenario generation. Size bounds both the width
// and the height of generated obstacles.
type Obstacles struct {
	Size        r1.Interval `yaml:"size"`
	MaxAttempts int         `yaml:"max_attempts"`
}

// Teacher configures the curriculum
type Teacher struct {
	InitialDifficulty  float64 `yaml:"initial_difficulty"`
	Growth             float64 `yaml:"growth"`
	AdvanceProbability float64 `yaml:"advance_probability"`
	GammaDifficulty    float64 `yaml:"gamma_difficulty"`
	GammaReward        float64 `yaml:"gamma_reward"`
	GammaEpisode       float64 `yaml:"gamma_episode"`
	RewardNorm         float64 `yaml:"reward_norm"`
	SubSessionSteps    int     `yaml:"sub_session_steps"`
	RobotXScale        float64 `yaml:"robot_x_scale"`
	RobotYScale        float64 `yaml:"robot_y_scale"`
	GoalXScale         float64 `yaml:"goal_x_scale"`
	GoalYScale         float64 `yaml:"goal_y_scale"`
	ActionLow          float64 `yaml:"action_low"`
	ActionHigh         float64 `yaml:"action_high"`
	ObservationBound   float64 `yaml:"observation_bound"`
	Discount           float64 `yaml:"discount"`
	TrackReturns       bool    `yaml:"track_returns"`
}

// Difficulty configures the weights of the difficulty estimator
type Difficulty struct {
	DistanceWeight float64 `yaml:"distance_weight"`
	DensityWeight  float64 `yaml:"density_weight"`
	CountWeight    float64 `yaml:"count_weight"`
	CorridorWeight float64 `yaml:"corridor_weight"`
	CorridorScale  float64 `yaml:"corridor_scale"`
}

// Render configures rendering of trainee episodes
type Render struct {
	Each int    `yaml:"each"`
	Dir  string `yaml:"dir"`
}

// Agent configures the trainee agent
type Agent struct {
	Name        string             `yaml:"name"`
	ActorCritic  actorcritic.Config `yaml:"actor_critic"`
}

// Config is the configuration of a curriculum run
type Config struct {
	Seed       uint64     `yaml:"seed"`
	Arena      Arena      `yaml:"arena"`
	Robot      Robot      `yaml:"robot"`
	Lidar      Lidar      `yaml:"lidar"`
	Rewards    Rewards    `yaml:"rewards"`
	Obstacles  Obstacles  `yaml:"obstacles"`
	Teacher    Teacher    `yaml:"teacher"`
	Difficulty Difficulty `yaml:"difficulty"`
	Render     Render     `yaml:"render"`
	Agent      Agent      `yaml:"agent"`
}

// Default returns the default configuration
func Default() Config {
	n := robot.DefaultConfig()
	t := teacher.DefaultConfig()
	e := difficulty.NewEstimator()

	return Config{
		Arena: Arena{Width: n.Width, Height: n.Height},
		Robot: Robot{
			Radius:          n.Radius,
			MaxSpeed:        n.MaxSpeed,
			DeltaT:          n.DeltaT,
			GoalThreshold:   n.GoalThreshold,
			MaxEpisodeSteps: n.MaxEpisodeSteps,
			Discount:        n.Discount,
		},
		Lidar: Lidar{
			Rays:      n.Rays,
			MaxRange:  lidar.DefaultMaxRange,
			ImageSide: n.ImageSide,
		},
		Rewards: Rewards{
			CollisionPenalty: n.CollisionPenalty,
			GoalBonus:        n.GoalBonus,
		},
		Obstacles: Obstacles{
			Size: r1.Interval{Min: scenario.DefaultMinSize,
				Max: scenario.DefaultMaxSize},
			MaxAttempts: scenario.DefaultMaxAttempts,
		},
		Teacher: Teacher{
			Growth:             t.Growth,
			AdvanceProbability: t.AdvanceProbability,
			GammaDifficulty:    t.GammaDifficulty,
			GammaReward:        t.GammaReward,
			GammaEpisode:       t.GammaEpisode,
			RewardNorm:         t.RewardNorm,
			SubSessionSteps:    t.SubSessionSteps,
			RobotXScale:        t.RobotXScale,
			RobotYScale:        t.RobotYScale,
			GoalXScale:         t.GoalXScale,
			GoalYScale:         t.GoalYScale,
			ActionLow:          t.ActionLow,
			ActionHigh:         t.ActionHigh,
			ObservationBound:   t.ObservationBound,
			Discount:           t.Discount,
		},
		Difficulty: Difficulty{
			DistanceWeight: e.DistanceWeight,
			DensityWeight:  e.DensityWeight,
			CountWeight:    e.CountWeight,
			CorridorWeight: e.CorridorWeight,
			CorridorScale:  e.CorridorScale,
		},
		Agent: Agent{
			Name: RandomAgent,
			ActorCritic: actorcritic.Config{
				ActorLearningRate:  0.01,
				CriticLearningRate: 0.1,
				Decay:              0.5,
			},
		},
	}
}

// Load reads the YAML configuration at path. Fields omitted from the
// file keep their defaults. The returned configuration is validated.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "load: could not read %v", path)
	}
	return Parse(data)
}

// Parse decodes a YAML configuration over the defaults and validates it
func Parse(data []byte) (Config, error) {
	c := Default()
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, errors.Wrapf(ErrInvalidConfig, "parse: %v", err)
	}

	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Marshal encodes the configuration as YAML
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// Validate returns an error wrapping ErrInvalidConfig if the
// configuration cannot be used to build a run
func (c Config) Validate() error {
	if !finite(c.Arena.Width, c.Arena.Height) || c.Arena.Width <= 0 ||
		c.Arena.Height <= 0 {
		return errors.Wrapf(ErrInvalidConfig, "arena must have positive "+
			"size, got %v x %v", c.Arena.Width, c.Arena.Height)
	}

	r := c.Robot
	if !finite(r.Radius, r.MaxSpeed, r.DeltaT, r.GoalThreshold) ||
		r.Radius < 0 || r.MaxSpeed < 0 || r.DeltaT <= 0 ||
		r.GoalThreshold < 0 || r.MaxEpisodeSteps <= 0 {
		return errors.Wrapf(ErrInvalidConfig, "invalid robot %+v", r)
	}
	if r.Discount < 0 || r.Discount > 1 {
		return errors.Wrapf(ErrInvalidConfig, "robot discount must be in "+
			"[0, 1], got %v", r.Discount)
	}

	if c.Lidar.Rays <= 0 || c.Lidar.ImageSide <= 0 ||
		!(c.Lidar.MaxRange > 0) || math.IsInf(c.Lidar.MaxRange, 0) {
		return errors.Wrapf(ErrInvalidConfig, "invalid lidar %+v", c.Lidar)
	}

	size := c.Obstacles.Size
	if !finite(size.Min, size.Max) || size.Min < 0 || size.Max < size.Min {
		return errors.Wrapf(ErrInvalidConfig, "invalid obstacle size "+
			"range [%v, %v]", size.Min, size.Max)
	}
	if c.Obstacles.MaxAttempts <= 0 {
		return errors.Wrapf(ErrInvalidConfig, "max attempts must be "+
			"positive, got %d", c.Obstacles.MaxAttempts)
	}

	if err := c.validateTeacher(); err != nil {
		return err
	}

	d := c.Difficulty
	if !finite(d.DistanceWeight, d.DensityWeight, d.CountWeight,
		d.CorridorWeight, d.CorridorScale) || d.DistanceWeight < 0 ||
		d.DensityWeight < 0 || d.CountWeight < 0 || d.CorridorWeight < 0 ||
		d.CorridorScale < 0 {
		return errors.Wrapf(ErrInvalidConfig, "difficulty weights must be "+
			"non-negative, got %+v", d)
	}

	if c.Render.Each < 0 {
		return errors.Wrapf(ErrInvalidConfig, "render cadence must be "+
			"non-negative, got %d", c.Render.Each)
	}

	switch c.Agent.Name {
	case RandomAgent:
	case LinearGaussianAgent:
		if err := c.Agent.ActorCritic.Validate(); err != nil {
			return errors.Wrapf(ErrInvalidConfig, "agent: %v", err)
		}
	default:
		return errors.Wrapf(ErrInvalidConfig, "unknown agent %q",
			c.Agent.Name)
	}

	return nil
}

func (c Config) validateTeacher() error {
	t := c.Teacher
	if !finite(t.InitialDifficulty, t.Growth, t.RewardNorm) ||
		t.InitialDifficulty < 0 || t.Growth <= 0 || t.RewardNorm == 0 {
		return errors.Wrapf(ErrInvalidConfig, "teacher difficulty "+
			"schedule invalid: initial %v, growth %v, reward norm %v",
			t.InitialDifficulty, t.Growth, t.RewardNorm)
	}
	if t.AdvanceProbability < 0 || t.AdvanceProbability > 1 {
		return errors.Wrapf(ErrInvalidConfig, "advance probability must "+
			"be in [0, 1], got %v", t.AdvanceProbability)
	}
	if t.SubSessionSteps <= 0 {
		return errors.Wrapf(ErrInvalidConfig, "sub-session steps must be "+
			"positive, got %d", t.SubSessionSteps)
	}
	if !finite(t.ActionLow, t.ActionHigh) || t.ActionLow > t.ActionHigh {
		return errors.Wrapf(ErrInvalidConfig, "invalid teacher action "+
			"bounds [%v, %v]", t.ActionLow, t.ActionHigh)
	}
	if !(t.ObservationBound > 0) {
		return errors.Wrapf(ErrInvalidConfig, "observation bound must be "+
			"positive, got %v", t.ObservationBound)
	}
	if t.Discount < 0 || t.Discount > 1 {
		return errors.Wrapf(ErrInvalidConfig, "teacher discount must be "+
			"in [0, 1], got %v", t.Discount)
	}
	return nil
}

// Estimator returns the difficulty estimator of the configuration
func (c Config) Estimator() difficulty.Estimator {
	return difficulty.Estimator{
		DistanceWeight: c.Difficulty.DistanceWeight,
		DensityWeight:  c.Difficulty.DensityWeight,
		CountWeight:    c.Difficulty.CountWeight,
		CorridorWeight: c.Difficulty.CorridorWeight,
		CorridorScale:  c.Difficulty.CorridorScale,
	}
}

// NavigationConfig returns the configuration of the trainee
// environment
func (c Config) NavigationConfig() robot.Config {
	return robot.Config{
		Width:            c.Arena.Width,
		Height:           c.Arena.Height,
		Radius:           c.Robot.Radius,
		MaxSpeed:         c.Robot.MaxSpeed,
		DeltaT:           c.Robot.DeltaT,
		GoalThreshold:    c.Robot.GoalThreshold,
		MaxEpisodeSteps:  c.Robot.MaxEpisodeSteps,
		Rays:             c.Lidar.Rays,
		MaxRange:         c.Lidar.MaxRange,
		ImageSide:        c.Lidar.ImageSide,
		CollisionPenalty: c.Rewards.CollisionPenalty,
		GoalBonus:        c.Rewards.GoalBonus,
		Discount:         c.Robot.Discount,
		RenderEach:       c.Render.Each,
		RenderDir:        c.Render.Dir,
	}
}

// TeacherConfig returns the configuration of the curriculum, storing
// trainee checkpoints in checkpointDir
func (c Config) TeacherConfig(checkpointDir string) teacher.Config {
	t := c.Teacher
	return teacher.Config{
		InitialDifficulty:  t.InitialDifficulty,
		Growth:             t.Growth,
		AdvanceProbability: t.AdvanceProbability,
		GammaDifficulty:    t.GammaDifficulty,
		GammaReward:        t.GammaReward,
		GammaEpisode:       t.GammaEpisode,
		RewardNorm:         t.RewardNorm,
		SubSessionSteps:    t.SubSessionSteps,
		RobotXScale:        t.RobotXScale,
		RobotYScale:        t.RobotYScale,
		GoalXScale:         t.GoalXScale,
		GoalYScale:         t.GoalYScale,
		ActionLow:          t.ActionLow,
		ActionHigh:         t.ActionHigh,
		ObservationBound:   t.ObservationBound,
		Discount:           t.Discount,
		MinObstacleSize:    c.Obstacles.Size.Min,
		MaxObstacleSize:    c.Obstacles.Size.Max,
		MaxAttempts:        c.Obstacles.MaxAttempts,
		Estimator:          c.Estimator(),
		CheckpointDir:      checkpointDir,
		TrackReturns:       t.TrackReturns,
	}
}

// TraineeFactory returns the factory of the configured trainee agent
func (c Config) TraineeFactory() agent.Factory {
	if c.Agent.Name == LinearGaussianAgent {
		return c.Agent.ActorCritic.Factory()
	}
	return random.Factory
}

// Generator returns a generator of scenarios in the configured arena
func (c Config) Generator(seed uint64) *scenario.Generator {
	g := scenario.NewGenerator(seed)
	g.MinSize = c.Obstacles.Size.Min
	g.MaxSize = c.Obstacles.Size.Max
	g.MaxAttempts = c.Obstacles.MaxAttempts
	return g
}

func finite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
