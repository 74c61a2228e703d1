package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/samuelfneumann/highrl/agent"
	"github.com/samuelfneumann/highrl/agent/random"
	"github.com/samuelfneumann/highrl/config"
	"github.com/samuelfneumann/highrl/environment/robot"
	"github.com/samuelfneumann/highrl/environment/teacher"
	"github.com/samuelfneumann/highrl/experiment"
	"github.com/samuelfneumann/highrl/experiment/checkpointer"
	"github.com/samuelfneumann/highrl/experiment/tracker"
	"github.com/samuelfneumann/highrl/scenario"
	"github.com/samuelfneumann/highrl/utils/progressbar"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"
)

// Directories created inside each run directory
const (
	agentDir   = "agent_models"
	plannerDir = "planner_models"
	renderDir  = "renders"
)

var trainFlags struct {
	out             string
	runs            int
	parallel        int
	plannerIters    int
	teacherSteps    int
	checkpointEvery int
	planner         string
}

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train curriculum planners",
	Long: "train runs planner iterations of teacher steps. Each teacher " +
		"step generates a\nscenario from the planner action and trains a " +
		"trainee agent on it.",
	RunE: runTrain,
}

func init() {
	f := trainCmd.Flags()
	f.StringVarP(&trainFlags.out, "out", "o", "runs", "output directory")
	f.IntVar(&trainFlags.runs, "runs", 1, "number of independent runs")
	f.IntVar(&trainFlags.parallel, "parallel", 0,
		"maximum concurrent runs (0 = all)")
	f.IntVar(&trainFlags.plannerIters, "planner-iters", 1,
		"planner iterations per run")
	f.IntVar(&trainFlags.teacherSteps, "teacher-steps", 10,
		"teacher steps per planner iteration")
	f.IntVar(&trainFlags.checkpointEvery, "checkpoint-every", 0,
		"checkpoint the planner every n teacher steps (0 = never)")
	f.StringVar(&trainFlags.planner, "planner", config.RandomAgent,
		"planner agent: random or linear-gaussian")
}

// runResult summarizes a single training run
type runResult struct {
	id         string
	seed       uint64
	session    teacher.Session
	returns    []float64
	elapsed    time.Duration
	plannerDir string
}

func runTrain(cmd *cobra.Command, _ []string) error {
	if trainFlags.runs <= 0 || trainFlags.plannerIters <= 0 ||
		trainFlags.teacherSteps <= 0 {
		return fmt.Errorf("runs, planner iterations and teacher steps " +
			"must be positive")
	}

	c, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	planner, err := plannerFactory(c, trainFlags.planner)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	bar := progressbar.NewManualProgressBar(cmd.ErrOrStderr(), "train", 40,
		trainFlags.runs*trainFlags.plannerIters)
	results := make([]runResult, trainFlags.runs)

	g, gCtx := errgroup.WithContext(ctx)
	if trainFlags.parallel > 0 {
		g.SetLimit(trainFlags.parallel)
	}
	for i := range results {
		i := i
		g.Go(func() error {
			seed := c.Seed + uint64(i)
			r, err := train(gCtx, c, planner, seed, logger, bar)
			if err != nil {
				return errors.Wrapf(err, "run %d", i)
			}
			results[i] = r
			return nil
		})
	}
	err = g.Wait()
	bar.Done()
	if err != nil {
		return err
	}

	printSummary(cmd, results)
	return nil
}

// train runs all planner iterations of a single run
func train(ctx context.Context, c config.Config, planner agent.Factory,
	seed uint64, logger *zap.Logger, bar *progressbar.ManualProgressBar) (
	runResult, error) {
	start := time.Now()
	id := uuid.New().String()
	dir := filepath.Join(trainFlags.out, id)
	logger = logger.With(zap.String("run", id), zap.Uint64("seed", seed))

	nc := c.NavigationConfig()
	if nc.RenderEach > 0 && nc.RenderDir == "" {
		nc.RenderDir = filepath.Join(dir, renderDir)
	}
	trainee, _, err := robot.New(nc, scenario.Default(), logger)
	if err != nil {
		return runResult{}, err
	}

	t, _ := teacher.New(c.TeacherConfig(filepath.Join(dir, agentDir)),
		trainee, c.TraineeFactory(), seed, logger)
	p, err := planner(t, seed)
	if err != nil {
		return runResult{}, errors.Wrap(err, "train: could not create planner")
	}

	store := checkpointer.NewStore(filepath.Join(dir, plannerDir))
	var checkpointers []checkpointer.Checkpointer
	if trainFlags.checkpointEvery > 0 {
		steps := checkpointer.NewStore(filepath.Join(store.Dir, "steps"))
		checkpointers = append(checkpointers, checkpointer.NewNStep(
			trainFlags.checkpointEvery, p, steps.PlannerEnumerator(0)))
	}
	returnsPath := filepath.Join(dir, "planner_returns")
	returns := tracker.NewReturn(returnsPath)

	logger.Info("starting run", zap.String("dir", dir))
	for i := 0; i < trainFlags.plannerIters; i++ {
		online := experiment.NewOnline(t, p, trainFlags.teacherSteps, nil,
			checkpointers)
		online.Register(returns)
		if err := online.Run(ctx); err != nil {
			return runResult{}, errors.Wrapf(err, "train: iteration %d", i)
		}

		if err := checkpointer.Save(p, store.PlannerPath(i)); err != nil {
			return runResult{}, errors.Wrapf(err, "train: iteration %d", i)
		}
		logger.Info("planner iteration complete", zap.Int("iteration", i),
			zap.Stringer("session", t.Session()))

		bar.Increment()
		bar.Display()
	}

	if err := returns.Save(); err != nil {
		return runResult{}, err
	}
	saved, err := tracker.LoadData(returnsPath)
	if err != nil {
		return runResult{}, errors.Wrap(err, "train")
	}

	return runResult{
		id:         id,
		seed:       seed,
		session:    t.Session(),
		returns:    saved,
		elapsed:    time.Since(start),
		plannerDir: store.Dir,
	}, nil
}

// plannerFactory returns the factory of the named planner agent
func plannerFactory(c config.Config, name string) (agent.Factory, error) {
	switch name {
	case config.RandomAgent:
		return random.Factory, nil
	case config.LinearGaussianAgent:
		if err := c.Agent.ActorCritic.Validate(); err != nil {
			return nil, err
		}
		return c.Agent.ActorCritic.Factory(), nil
	}
	return nil, fmt.Errorf("unknown planner %q", name)
}

func printSummary(cmd *cobra.Command, results []runResult) {
	w := table.NewWriter()
	w.SetOutputMirror(cmd.OutOrStdout())
	w.SetStyle(table.StyleLight)
	w.AppendHeader(table.Row{"Run", "Seed", "Stages", "Level",
		"Difficulty", "Desired", "Episodes", "Mean Return", "Elapsed"})

	for _, r := range results {
		mean := "-"
		if len(r.returns) > 0 {
			mean = fmt.Sprintf("%.3f", stat.Mean(r.returns, nil))
		}

		w.AppendRow(table.Row{
			r.id,
			r.seed,
			r.session.Episodes,
			r.session.RobotLevel,
			fmt.Sprintf("%.3f", r.session.CurrentDifficulty),
			fmt.Sprintf("%.3f", r.session.DesiredDifficulty),
			len(r.returns),
			mean,
			r.elapsed.Truncate(time.Millisecond),
		})
	}
	w.Render()
}
