package robot

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
	"github.com/samuelfneumann/highrl/environment"
	"github.com/samuelfneumann/highrl/geometry"
	"github.com/samuelfneumann/highrl/lidar"
	"github.com/samuelfneumann/highrl/scenario"
	"github.com/samuelfneumann/highrl/timestep"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r2"
)

// Default environment parameters
const (
	DefaultWidth            float64 = 720
	DefaultHeight           float64 = 720
	DefaultRadius           float64 = 20
	DefaultMaxSpeed         float64 = 1
	DefaultDeltaT           float64 = 1
	DefaultGoalThreshold    float64 = 20
	DefaultMaxEpisodeSteps  int     = 1_000_000
	DefaultRays             int     = 1024
	DefaultImageSide        int     = 64
	DefaultCollisionPenalty float64 = -100
	DefaultGoalBonus        float64 = 1800
	DefaultDiscount         float64 = 0.99

	// StateDims is the number of robot state features appended to the
	// LiDAR image in each observation
	StateDims int = 5
)

// Config holds the physical and reward parameters of a Navigation
// environment
type Config struct {
	Width, Height float64

	Radius          float64
	MaxSpeed        float64
	DeltaT          float64
	GoalThreshold   float64
	MaxEpisodeSteps int

	Rays      int
	MaxRange  float64
	ImageSide int

	CollisionPenalty float64
	GoalBonus        float64
	Discount         float64

	// RenderEach renders a frame every RenderEach steps, 0 disables
	// rendering
	RenderEach int
	RenderDir  string
}

// DefaultConfig returns the default Navigation configuration
func DefaultConfig() Config {
	return Config{
		Width:            DefaultWidth,
		Height:           DefaultHeight,
		Radius:           DefaultRadius,
		MaxSpeed:         DefaultMaxSpeed,
		DeltaT:           DefaultDeltaT,
		GoalThreshold:    DefaultGoalThreshold,
		MaxEpisodeSteps:  DefaultMaxEpisodeSteps,
		Rays:             DefaultRays,
		MaxRange:         lidar.DefaultMaxRange,
		ImageSide:        DefaultImageSide,
		CollisionPenalty: DefaultCollisionPenalty,
		GoalBonus:        DefaultGoalBonus,
		Discount:         DefaultDiscount,
	}
}

// ObservationDims returns the length of observation vectors
func (c Config) ObservationDims() int {
	return c.ImageSide*c.ImageSide + StateDims
}

func (c Config) validate() {
	if c.Width <= 0 || c.Height <= 0 {
		panic(fmt.Sprintf("navigation: arena must have positive size, got "+
			"%v x %v", c.Width, c.Height))
	}
	if c.Radius < 0 || c.MaxSpeed < 0 || c.DeltaT <= 0 ||
		c.GoalThreshold < 0 {
		panic(fmt.Sprintf("navigation: invalid robot parameters %+v", c))
	}
	if c.MaxEpisodeSteps <= 0 || c.Rays <= 0 || c.ImageSide <= 0 {
		panic(fmt.Sprintf("navigation: episode steps, rays and image "+
			"side must be positive, got %d, %d, %d", c.MaxEpisodeSteps,
			c.Rays, c.ImageSide))
	}
	if c.RenderEach < 0 {
		panic(fmt.Sprintf("navigation: render cadence must be "+
			"non-negative, got %d", c.RenderEach))
	}
}

// Navigation is the trainee environment. A disc robot must travel from
// the start of the installed scenario to its goal without touching an
// obstacle or the arena border.
//
// Observations are the flattened ImageSide x ImageSide LiDAR occupancy
// image followed by the StateDims robot state features of Robot.State.
// Actions are 3-dimensional (see DecodeAction) and bounded by [-1, 1].
//
// Each step is rewarded with the reduction in distance to the goal.
// Episodes end, checked in this order, when the robot collides with an
// obstacle or the border (CollisionPenalty is added), when it reaches
// the goal (GoalBonus is added) or when MaxEpisodeSteps steps have been
// taken. Once an episode has ended, Step returns the last TimeStep
// until Reset is called.
//
// Navigation implements the environment.Environment interface
type Navigation struct {
	Config
	robot    Robot
	scenario scenario.Scenario
	borders  [4][2]r2.Vec

	caster    *lidar.Caster
	stepLimit *environment.StepLimit
	renderer  *Renderer
	logger    *zap.Logger

	lastStep      timestep.TimeStep
	done          bool
	success       bool
	episodeReward float64
	totalReward   float64
}

var _ environment.Environment = &Navigation{}

// New creates and returns a new Navigation environment with the given
// scenario installed, together with its first TimeStep. If logger is
// nil, nothing is logged.
func New(c Config, s scenario.Scenario, logger *zap.Logger) (*Navigation,
	timestep.TimeStep, error) {
	c.validate()
	if logger == nil {
		logger = zap.NewNop()
	}

	var renderer *Renderer
	if c.RenderEach > 0 {
		var err error
		renderer, err = NewRenderer(c.RenderDir, c.Width, c.Height)
		if err != nil {
			return nil, timestep.TimeStep{}, errors.Wrap(err, "new")
		}
	}

	w, h := c.Width, c.Height
	n := &Navigation{
		Config: c,
		robot:  Robot{Radius: c.Radius, MaxSpeed: c.MaxSpeed},
		borders: [4][2]r2.Vec{
			{{X: 0, Y: 0}, {X: w, Y: 0}},
			{{X: w, Y: 0}, {X: w, Y: h}},
			{{X: w, Y: h}, {X: 0, Y: h}},
			{{X: 0, Y: h}, {X: 0, Y: 0}},
		},
		caster:    lidar.NewCaster(c.MaxRange),
		stepLimit: environment.NewStepLimit(c.MaxEpisodeSteps),
		renderer:  renderer,
		logger:    logger,
	}

	return n, n.Install(s), nil
}

// Install replaces the scenario of the environment and resets it
func (n *Navigation) Install(s scenario.Scenario) timestep.TimeStep {
	if s.Obstacles == nil {
		s = scenario.New(s.Start, s.Goal, nil)
	}
	n.scenario = s
	n.caster.SetContours(s.Obstacles.Contours())

	return n.reset()
}

// Scenario returns the installed scenario
func (n *Navigation) Scenario() scenario.Scenario {
	return n.scenario
}

// Reset resets the environment to the start of the installed scenario
// and returns the first TimeStep of the new episode
func (n *Navigation) Reset() (timestep.TimeStep, error) {
	return n.reset(), nil
}

func (n *Navigation) reset() timestep.TimeStep {
	n.robot.Pose = geometry.Pose{X: n.scenario.Start.X,
		Y: n.scenario.Start.Y}
	n.robot.Velocity = geometry.Velocity{}
	n.robot.Goal = n.scenario.Goal

	n.done = false
	n.success = false
	n.episodeReward = 0

	n.lastStep = timestep.New(timestep.First, 0, n.Discount, n.observe(), 0)
	return n.lastStep
}

// Step takes one step in the environment
func (n *Navigation) Step(a *mat.VecDense) (timestep.TimeStep, bool, error) {
	if n.done {
		return n.lastStep, true, nil
	}

	action, err := DecodeAction(a)
	if err != nil {
		return n.lastStep, false, errors.Wrap(err, "step")
	}

	oldDistance := n.robot.DistanceToGoal()
	n.robot.Step(action, n.DeltaT)
	reward := oldDistance - n.robot.DistanceToGoal()

	next := timestep.New(timestep.Mid, 0, n.Discount, n.observe(),
		n.lastStep.Number+1)

	switch {
	case n.InCollision() || n.PassedBorders():
		reward += n.CollisionPenalty
		next.StepType = timestep.Last
		next.SetEnd(timestep.TerminalStateReached)
		n.success = false

	case n.robot.DistanceToGoal() < n.GoalThreshold:
		reward += n.GoalBonus
		next.StepType = timestep.Last
		next.SetEnd(timestep.TerminalStateReached)
		n.success = true

	default:
		n.stepLimit.End(&next)
	}
	next.Reward = reward
	n.done = next.Last()

	n.episodeReward += reward
	n.totalReward += reward
	n.lastStep = next

	if n.done {
		n.logger.Debug("navigation episode ended",
			zap.Int("steps", next.Number),
			zap.Stringer("end", next.EndType()),
			zap.Bool("success", n.success),
			zap.Float64("episodeReward", n.episodeReward),
		)
	}

	if n.renderer != nil && next.Number%n.RenderEach == 0 {
		if err := n.renderer.Render(n.robot, n.scenario); err != nil {
			return next, n.done, errors.Wrap(err, "step")
		}
	}

	return next, n.done, nil
}

// InCollision returns whether the robot disc intersects an obstacle
func (n *Navigation) InCollision() bool {
	p := n.robot.Position()
	for _, o := range n.scenario.Obstacles.Near(p, n.robot.Radius) {
		if o.DistanceTo(p) < n.robot.Radius {
			return true
		}
	}
	return false
}

// PassedBorders returns whether the robot disc touches or crosses the
// arena border
func (n *Navigation) PassedBorders() bool {
	p := n.robot.Position()
	for _, segment := range n.borders {
		if geometry.PointToSegmentDistance(segment[0], segment[1], p) <=
			n.robot.Radius {
			return true
		}
	}
	return false
}

// observe assembles the observation for the current robot state
func (n *Navigation) observe() *mat.VecDense {
	origin := n.robot.Position()
	angles := lidar.Angles(n.Rays, n.robot.Pose.Theta)
	ranges := n.caster.Scan(origin, angles)
	image := lidar.Rasterize(origin, angles, ranges, n.MaxRange,
		math.Max(n.Width, n.Height), n.ImageSide)

	obs := make([]float64, 0, n.ObservationDims())
	obs = append(obs, image.RawMatrix().Data...)
	obs = append(obs, n.robot.State()...)

	for i, v := range obs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			panic(fmt.Sprintf("observe: observation feature %d is %v "+
				"for %v", i, v, n.robot))
		}
	}

	return mat.NewVecDense(len(obs), obs)
}

// LastTimeStep returns the last TimeStep that occurred in the
// environment
func (n *Navigation) LastTimeStep() timestep.TimeStep {
	return n.lastStep
}

// Done returns whether the current episode has ended
func (n *Navigation) Done() bool {
	return n.done
}

// Success returns whether the current episode ended at the goal
func (n *Navigation) Success() bool {
	return n.success
}

// EpisodeReward returns the reward accumulated in the current episode
func (n *Navigation) EpisodeReward() float64 {
	return n.episodeReward
}

// TotalReward returns the reward accumulated since the last call to
// ResetAccumulators, across episodes
func (n *Navigation) TotalReward() float64 {
	return n.totalReward
}

// ResetAccumulators zeroes the reward accumulated across episodes
func (n *Navigation) ResetAccumulators() {
	n.totalReward = 0
}

// Robot returns a copy of the robot
func (n *Navigation) Robot() Robot {
	return n.robot
}

// ActionSpec returns the action specification of the environment
func (n *Navigation) ActionSpec() environment.Spec {
	return environment.NewBoxSpec(ActionDims, environment.Action, -1, 1)
}

// ObservationSpec returns the observation specification of the
// environment. Image features are bounded by [0, 1], robot state
// features are unbounded.
func (n *Navigation) ObservationSpec() environment.Spec {
	dims := n.ObservationDims()
	lower := make([]float64, dims)
	upper := make([]float64, dims)
	for i := range lower {
		if i < n.ImageSide*n.ImageSide {
			upper[i] = 1
		} else {
			lower[i] = math.Inf(-1)
			upper[i] = math.Inf(1)
		}
	}

	return environment.NewSpec(mat.NewVecDense(dims, nil),
		environment.Observation, mat.NewVecDense(dims, lower),
		mat.NewVecDense(dims, upper), environment.Continuous)
}

// DiscountSpec returns the discount specification of the environment
func (n *Navigation) DiscountSpec() environment.Spec {
	return environment.NewBoxSpec(1, environment.Discount, n.Discount,
		n.Discount)
}

func (n *Navigation) String() string {
	return fmt.Sprintf("Navigation  |  %v  |  %v  |  done: %v", n.robot,
		n.scenario, n.done)
}
