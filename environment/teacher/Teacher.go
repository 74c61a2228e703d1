// Package teacher implements a curriculum controller environment. Each
// step of the environment builds a navigation scenario from the
// action, trains a trainee agent on it for a bounded number of steps
// and rewards the controller for escalating scenario difficulty while
// the trainee keeps up.
package teacher

import (
	"context"
	"fmt"
	"math"

	"github.com/pkg/errors"
	"github.com/samuelfneumann/highrl/agent"
	"github.com/samuelfneumann/highrl/difficulty"
	"github.com/samuelfneumann/highrl/environment"
	"github.com/samuelfneumann/highrl/environment/robot"
	"github.com/samuelfneumann/highrl/experiment"
	"github.com/samuelfneumann/highrl/experiment/checkpointer"
	"github.com/samuelfneumann/highrl/experiment/tracker"
	"github.com/samuelfneumann/highrl/scenario"
	"github.com/samuelfneumann/highrl/timestep"
	"go.uber.org/zap"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/stat/distuv"
)

// Default curriculum parameters
const (
	DefaultGrowth             float64 = 1.15
	DefaultAdvanceProbability float64 = 0.9
	DefaultGammaDifficulty    float64 = 10
	DefaultGammaReward        float64 = 10
	DefaultGammaEpisode       float64 = 10
	DefaultRewardNorm         float64 = 3600
	DefaultSubSessionSteps    int     = 1000
	DefaultRobotXScale        float64 = 100
	DefaultRobotYScale        float64 = 150
	DefaultGoalXScale         float64 = 100
	DefaultGoalYScale         float64 = 400
	DefaultActionLow          float64 = 1
	DefaultActionHigh         float64 = 7
	DefaultObservationBound   float64 = 1000
	DefaultDiscount           float64 = 0.99

	// ObservationDims is the length of curriculum observations:
	// [robot level, trainee reward, current difficulty]
	ObservationDims int = 3
)

// Config holds the parameters of a curriculum
type Config struct {
	// InitialDifficulty is the desired difficulty of the first stage.
	// If zero, the difficulty of the default scenario is used.
	InitialDifficulty float64

	// Growth is the factor by which the desired difficulty grows from
	// one stage to the next
	Growth float64

	AdvanceProbability float64

	GammaDifficulty float64
	GammaReward     float64
	GammaEpisode    float64
	RewardNorm      float64

	// SubSessionSteps bounds the number of trainee steps per curriculum
	// step
	SubSessionSteps int

	// Start = (RobotXScale, RobotYScale) * RobotParam and
	// goal = (GoalXScale, GoalYScale) * GoalParam
	RobotXScale, RobotYScale float64
	GoalXScale, GoalYScale   float64

	ActionLow, ActionHigh float64
	ObservationBound      float64
	Discount              float64

	MinObstacleSize float64
	MaxObstacleSize float64
	MaxAttempts     int

	Estimator difficulty.Estimator

	// CheckpointDir holds trainee checkpoints, keyed by stage
	CheckpointDir string

	// TrackReturns saves the episodic returns of each sub-session next
	// to the trainee checkpoints
	TrackReturns bool
}

// DefaultConfig returns the default curriculum configuration
func DefaultConfig() Config {
	return Config{
		Growth:             DefaultGrowth,
		AdvanceProbability: DefaultAdvanceProbability,
		GammaDifficulty:    DefaultGammaDifficulty,
		GammaReward:        DefaultGammaReward,
		GammaEpisode:       DefaultGammaEpisode,
		RewardNorm:         DefaultRewardNorm,
		SubSessionSteps:    DefaultSubSessionSteps,
		RobotXScale:        DefaultRobotXScale,
		RobotYScale:        DefaultRobotYScale,
		GoalXScale:         DefaultGoalXScale,
		GoalYScale:         DefaultGoalYScale,
		ActionLow:          DefaultActionLow,
		ActionHigh:         DefaultActionHigh,
		ObservationBound:   DefaultObservationBound,
		Discount:           DefaultDiscount,
		MinObstacleSize:    scenario.DefaultMinSize,
		MaxObstacleSize:    scenario.DefaultMaxSize,
		MaxAttempts:        scenario.DefaultMaxAttempts,
		Estimator:          difficulty.NewEstimator(),
		CheckpointDir:      "agent_models",
	}
}

func (c Config) validate() {
	if c.Growth <= 0 || c.RewardNorm == 0 || c.SubSessionSteps <= 0 {
		panic(fmt.Sprintf("teacher: growth, reward norm and sub-session "+
			"steps must be positive, got %v, %v, %v", c.Growth,
			c.RewardNorm, c.SubSessionSteps))
	}
	if c.AdvanceProbability < 0 || c.AdvanceProbability > 1 {
		panic(fmt.Sprintf("teacher: advance probability must be in "+
			"[0, 1], got %v", c.AdvanceProbability))
	}
	if c.ActionLow > c.ActionHigh {
		panic(fmt.Sprintf("teacher: action bounds [%v, %v] are empty",
			c.ActionLow, c.ActionHigh))
	}
}

// Teacher is the curriculum controller environment. Each call to Step
// decodes an Action, places the robot and goal, generates obstacles,
// scores the scenario, draws whether the trainee advances a level,
// trains the trainee on the scenario for at most SubSessionSteps steps
// and saves the trainee. The reward is
//
//	-(GammaDifficulty / (current + 1)
//	  + GammaReward * traineeReward / RewardNorm
//	  + GammaEpisode * [current >= desired])
//
// where desired = InitialDifficulty * Growth^Episodes. When the
// scenario is at least as hard as desired, the stage is complete:
// Episodes is incremented and the TimeStep is Last.
//
// If no scenario can be generated for an action, Step returns the
// error without changing the Session.
//
// Teacher implements the environment.Environment interface
type Teacher struct {
	Config
	trainee   *robot.Navigation
	factory   agent.Factory
	generator *scenario.Generator
	advance   distuv.Bernoulli
	store     checkpointer.Store
	logger    *zap.Logger
	seed      uint64

	session  Session
	lastStep timestep.TimeStep
}

var (
	_ environment.Environment    = &Teacher{}
	_ environment.ContextStepper = &Teacher{}
)

// New creates and returns a new Teacher training trainee agents created
// by factory on the trainee environment, together with its first
// TimeStep. If logger is nil, nothing is logged.
func New(c Config, trainee *robot.Navigation, factory agent.Factory,
	seed uint64, logger *zap.Logger) (*Teacher, timestep.TimeStep) {
	c.validate()
	if trainee == nil || factory == nil {
		panic("teacher: trainee environment and agent factory required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	generator := scenario.NewGenerator(seed)
	generator.MinSize = c.MinObstacleSize
	generator.MaxSize = c.MaxObstacleSize
	generator.MaxAttempts = c.MaxAttempts

	if c.InitialDifficulty == 0 {
		c.InitialDifficulty = DefaultInitialDifficulty(c.Estimator,
			trainee.Width, trainee.Height)
	}

	t := &Teacher{
		Config:    c,
		trainee:   trainee,
		factory:   factory,
		generator: generator,
		advance: distuv.Bernoulli{
			P:   c.AdvanceProbability,
			Src: rand.NewSource(seed + 1),
		},
		store:  checkpointer.NewStore(c.CheckpointDir),
		logger: logger,
		seed:   seed,
	}

	first, _ := t.Reset()
	return t, first
}

// DefaultInitialDifficulty returns the difficulty of the default
// scenario in a width x height arena
func DefaultInitialDifficulty(e difficulty.Estimator, width,
	height float64) float64 {
	s := scenario.Default()
	return e.EstimateCollection(s.Obstacles, width, height, s.Start, s.Goal)
}

// Session returns a copy of the curriculum state
func (t *Teacher) Session() Session {
	return t.session
}

// Trainee returns the trainee environment
func (t *Teacher) Trainee() *robot.Navigation {
	return t.trainee
}

// Reset starts a new curriculum episode. Stage progress is kept; only
// the step counter is zeroed, so the next step trains a fresh trainee.
func (t *Teacher) Reset() (timestep.TimeStep, error) {
	t.session.TimeSteps = 0
	t.session.Phase = Idle

	t.lastStep = timestep.New(timestep.First, 0, t.Discount, t.observe(), 0)
	return t.lastStep, nil
}

// Step takes one curriculum step
func (t *Teacher) Step(a *mat.VecDense) (timestep.TimeStep, bool, error) {
	return t.StepContext(context.Background(), a)
}

// StepContext is like Step but stops scenario generation and the
// trainee sub-session when ctx is done
func (t *Teacher) StepContext(ctx context.Context,
	a *mat.VecDense) (timestep.TimeStep, bool, error) {
	action, err := DecodeAction(a, t.ActionLow, t.ActionHigh)
	if err != nil {
		return t.lastStep, false, errors.Wrap(err, "step")
	}

	// Build the scenario before touching any state
	start := r2.Vec{X: t.RobotXScale * action.RobotParam,
		Y: t.RobotYScale * action.RobotParam}
	goal := r2.Vec{X: t.GoalXScale * action.GoalParam,
		Y: t.GoalYScale * action.GoalParam}
	obstacles, err := t.generator.GenerateContext(ctx, action.ObstacleCount,
		t.trainee.Width, t.trainee.Height, scenario.Placement{
			Start:  start,
			Goal:   goal,
			Radius: t.trainee.Radius,
		})
	if err != nil {
		return t.lastStep, false, errors.Wrap(err, "step")
	}
	s := scenario.New(start, goal, obstacles)

	// Committed to t.session only once the sub-session succeeds
	session := t.session
	session.Phase = ScenarioBuilt
	session.CurrentDifficulty = t.Estimator.EstimateCollection(obstacles,
		t.trainee.Width, t.trainee.Height, start, goal)
	session.DesiredDifficulty = t.InitialDifficulty *
		math.Pow(t.Growth, float64(session.Episodes))

	advanced := t.advance.Rand() == 1
	if advanced {
		session.RobotLevel++
	} else {
		session.RobotLevel = 0
	}

	session.Phase = SubSessionRunning
	t.trainee.Install(s)
	if err := t.runSubSession(ctx, advanced); err != nil {
		t.trainee.ResetAccumulators()
		return t.lastStep, false, errors.Wrap(err, "step")
	}

	session.Phase = Evaluated
	current, desired := session.CurrentDifficulty, session.DesiredDifficulty
	session.TraineeReward = t.trainee.TotalReward()

	reached := current >= desired
	var indicator float64
	if reached {
		indicator = 1
	}
	reward := -(t.GammaDifficulty/(current+1) +
		t.GammaReward*session.TraineeReward/t.RewardNorm +
		t.GammaEpisode*indicator)

	next := timestep.New(timestep.Mid, reward, t.Discount, nil,
		t.lastStep.Number+1)
	if reached {
		session.Episodes++
		session.Phase = Advanced
		next.StepType = timestep.Last
		next.SetEnd(timestep.TerminalStateReached)
	} else {
		session.Phase = Stalled
	}

	session.TimeSteps++
	t.trainee.ResetAccumulators()
	t.session = session

	next.Observation = t.observe()
	t.lastStep = next

	t.logger.Info("curriculum step",
		zap.Int("timeSteps", t.session.TimeSteps),
		zap.Int("episodes", t.session.Episodes),
		zap.Int("obstacles", action.ObstacleCount),
		zap.Float64("currentDifficulty", current),
		zap.Float64("desiredDifficulty", desired),
		zap.Int("robotLevel", t.session.RobotLevel),
		zap.Float64("traineeReward", t.session.TraineeReward),
		zap.Float64("reward", reward),
		zap.Stringer("phase", t.session.Phase),
	)

	return next, next.Last(), nil
}

// runSubSession trains a trainee agent on the installed scenario and
// saves it under the current stage
func (t *Teacher) runSubSession(ctx context.Context, advanced bool) error {
	stage := t.session.Episodes
	seed := t.seed + uint64(t.session.TimeSteps)

	trainee, err := t.factory(t.trainee, seed)
	if err != nil {
		return errors.Wrap(err, "runSubSession: could not create trainee")
	}

	if t.session.TimeSteps > 0 && advanced {
		path := t.store.AgentPath(stage)
		err := checkpointer.Load(path, trainee)
		if errors.Is(err, checkpointer.ErrCheckpointMissing) {
			t.logger.Warn("no trainee checkpoint, starting fresh",
				zap.String("path", path))
		} else if err != nil {
			return errors.Wrap(err, "runSubSession")
		}
	}

	var trackers []tracker.Tracker
	var returns *tracker.Return
	if t.TrackReturns {
		returns = tracker.NewReturn(t.store.ReturnsPath(stage))
		trackers = append(trackers, returns)
	}

	online := experiment.NewOnline(t.trainee, trainee, t.SubSessionSteps,
		trackers, nil)
	if err := online.Run(ctx); err != nil {
		return errors.Wrap(err, "runSubSession")
	}

	if err := checkpointer.Save(trainee, t.store.AgentPath(stage)); err != nil {
		return errors.Wrap(err, "runSubSession")
	}
	if returns != nil {
		if err := returns.Save(); err != nil {
			return errors.Wrap(err, "runSubSession")
		}
	}

	return nil
}

// observe returns the curriculum observation
func (t *Teacher) observe() *mat.VecDense {
	obs := []float64{
		float64(t.session.RobotLevel),
		t.session.TraineeReward,
		t.session.CurrentDifficulty,
	}
	for i, v := range obs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			panic(fmt.Sprintf("observe: observation feature %d is %v for "+
				"%v", i, v, t.session))
		}
	}
	return mat.NewVecDense(ObservationDims, obs)
}

// LastTimeStep returns the last TimeStep that occurred in the
// environment
func (t *Teacher) LastTimeStep() timestep.TimeStep {
	return t.lastStep
}

// ActionSpec returns the action specification of the environment
func (t *Teacher) ActionSpec() environment.Spec {
	return environment.NewBoxSpec(ActionDims, environment.Action,
		t.ActionLow, t.ActionHigh)
}

// ObservationSpec returns the observation specification of the
// environment
func (t *Teacher) ObservationSpec() environment.Spec {
	return environment.NewBoxSpec(ObservationDims, environment.Observation,
		-t.ObservationBound, t.ObservationBound)
}

// DiscountSpec returns the discount specification of the environment
func (t *Teacher) DiscountSpec() environment.Spec {
	return environment.NewBoxSpec(1, environment.Discount, t.Discount,
		t.Discount)
}

func (t *Teacher) String() string {
	return fmt.Sprintf("Teacher  |  %v", t.session)
}
