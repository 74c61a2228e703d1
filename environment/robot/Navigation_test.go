package robot

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/samuelfneumann/highrl/obstacle"
	"github.com/samuelfneumann/highrl/scenario"
	"github.com/samuelfneumann/highrl/timestep"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r2"
)

func testConfig() Config {
	c := DefaultConfig()
	c.Rays = 64
	c.ImageSide = 16
	return c
}

func newNavigation(t *testing.T, c Config, s scenario.Scenario) *Navigation {
	t.Helper()
	n, _, err := New(c, s, nil)
	if err != nil {
		t.Fatalf("could not create environment: %v", err)
	}
	return n
}

func action(vx, vy float64) *mat.VecDense {
	return mat.NewVecDense(ActionDims, []float64{vx, vy, 0})
}

// Robot at (100, 100) with radius 20 and an obstacle anchored at the
// robot centre
func TestInCollisionOverlappingObstacle(t *testing.T) {
	s := scenario.New(r2.Vec{X: 100, Y: 100}, r2.Vec{X: 600, Y: 600},
		obstacle.NewCollection(obstacle.Obstacle{X: 100, Y: 100, Width: 50,
			Height: 50}))
	n := newNavigation(t, testConfig(), s)

	if !n.InCollision() {
		t.Errorf("want collision at distance 0")
	}
}

func TestTerminalPriority(t *testing.T) {
	// The step reaches the goal while moving next to an obstacle
	s := scenario.New(r2.Vec{X: 100, Y: 100}, r2.Vec{X: 101, Y: 100},
		obstacle.NewCollection(obstacle.Obstacle{X: 110, Y: 90, Width: 20,
			Height: 20}))
	n := newNavigation(t, testConfig(), s)

	step, done, err := n.Step(action(1, 0))
	if err != nil {
		t.Fatal(err)
	}
	if !done || !step.Last() {
		t.Fatalf("want episode to end")
	}
	if want := 1 + DefaultCollisionPenalty; step.Reward != want {
		t.Errorf("want collision reward %v, got %v", want, step.Reward)
	}
	if n.Success() {
		t.Errorf("collision must not count as success")
	}
	if step.EndType() != timestep.TerminalStateReached {
		t.Errorf("want TerminalStateReached, got %v", step.EndType())
	}
}

func TestGoalReached(t *testing.T) {
	s := scenario.New(r2.Vec{X: 100, Y: 100}, r2.Vec{X: 130, Y: 100}, nil)
	n := newNavigation(t, testConfig(), s)

	var step timestep.TimeStep
	done := false
	steps := 0
	for !done {
		var err error
		step, done, err = n.Step(action(1, 0))
		if err != nil {
			t.Fatal(err)
		}
		steps++
		if steps > 100 {
			t.Fatalf("goal never reached")
		}
	}

	if steps != 11 {
		t.Errorf("want goal after 11 steps, got %d", steps)
	}
	if !n.Success() {
		t.Errorf("want success")
	}
	if want := 1 + DefaultGoalBonus; step.Reward != want {
		t.Errorf("want final reward %v, got %v", want, step.Reward)
	}
	if want := 11 + DefaultGoalBonus; n.EpisodeReward() != want {
		t.Errorf("want episode reward %v, got %v", want, n.EpisodeReward())
	}
}

func TestPassedBorders(t *testing.T) {
	s := scenario.New(r2.Vec{X: 25, Y: 100}, r2.Vec{X: 600, Y: 600}, nil)
	n := newNavigation(t, testConfig(), s)

	for i := 0; i < 4; i++ {
		if _, done, _ := n.Step(action(-1, 0)); done {
			t.Fatalf("episode ended early at step %d", i+1)
		}
	}

	// Distance to the left border is now exactly the radius
	step, done, _ := n.Step(action(-1, 0))
	if !done || !n.PassedBorders() {
		t.Fatalf("want border collision")
	}
	if step.Reward >= 0 {
		t.Errorf("want collision penalty, got reward %v", step.Reward)
	}
}

func TestTimeout(t *testing.T) {
	c := testConfig()
	c.MaxEpisodeSteps = 3
	s := scenario.New(r2.Vec{X: 100, Y: 100}, r2.Vec{X: 600, Y: 600}, nil)
	n := newNavigation(t, c, s)

	var step timestep.TimeStep
	for i := 0; i < 3; i++ {
		step, _, _ = n.Step(action(0, 0))
	}
	if !step.Last() || step.EndType() != timestep.Timeout {
		t.Errorf("want timeout after 3 steps, got %v", step)
	}
	if n.Success() {
		t.Errorf("timeout must not count as success")
	}
}

func TestStepNoOpWhenDone(t *testing.T) {
	c := testConfig()
	c.MaxEpisodeSteps = 1
	s := scenario.New(r2.Vec{X: 100, Y: 100}, r2.Vec{X: 600, Y: 600}, nil)
	n := newNavigation(t, c, s)

	last, _, _ := n.Step(action(1, 1))
	robot := n.Robot()
	total := n.TotalReward()

	again, done, err := n.Step(action(1, 1))
	if err != nil || !done {
		t.Fatalf("want done without error, got %v, %v", done, err)
	}
	if again.Number != last.Number || again.Reward != last.Reward {
		t.Errorf("want last timestep repeated, got %v", again)
	}
	if n.Robot().Pose != robot.Pose {
		t.Errorf("robot moved after episode end")
	}
	if n.TotalReward() != total {
		t.Errorf("reward accumulated after episode end")
	}
}

func TestResetAndAccumulators(t *testing.T) {
	c := testConfig()
	c.MaxEpisodeSteps = 2
	s := scenario.New(r2.Vec{X: 100, Y: 100}, r2.Vec{X: 600, Y: 100}, nil)
	n := newNavigation(t, c, s)

	for i := 0; i < 2; i++ {
		n.Step(action(1, 0))
	}
	if n.TotalReward() != 2 {
		t.Fatalf("want total reward 2, got %v", n.TotalReward())
	}

	step, err := n.Reset()
	if err != nil {
		t.Fatal(err)
	}
	if !step.First() || step.Number != 0 {
		t.Errorf("want first timestep, got %v", step)
	}
	if n.Done() || n.EpisodeReward() != 0 {
		t.Errorf("reset did not clear episode state")
	}
	if n.Robot().Position() != s.Start {
		t.Errorf("want robot at %v, got %v", s.Start, n.Robot().Position())
	}
	if n.TotalReward() != 2 {
		t.Errorf("reset must keep the total reward, got %v",
			n.TotalReward())
	}

	n.ResetAccumulators()
	if n.TotalReward() != 0 {
		t.Errorf("want total reward 0, got %v", n.TotalReward())
	}
}

func TestStepInvalidAction(t *testing.T) {
	s := scenario.New(r2.Vec{X: 100, Y: 100}, r2.Vec{X: 600, Y: 600}, nil)
	n := newNavigation(t, testConfig(), s)

	tests := []*mat.VecDense{
		mat.NewVecDense(2, []float64{1, 1}),
		mat.NewVecDense(3, []float64{math.NaN(), 0, 0}),
	}
	for _, a := range tests {
		if _, _, err := n.Step(a); !errors.Is(err, ErrInvalidAction) {
			t.Errorf("want ErrInvalidAction for %v, got %v", a.RawVector().Data,
				err)
		}
	}
}

func TestObservation(t *testing.T) {
	c := testConfig()
	s := scenario.New(r2.Vec{X: 100, Y: 100}, r2.Vec{X: 100, Y: 200},
		obstacle.NewCollection(obstacle.Obstacle{X: 110, Y: 90, Width: 20,
			Height: 20}))
	n, first, err := New(c, s, nil)
	if err != nil {
		t.Fatal(err)
	}

	obs := first.Observation
	if obs.Len() != c.ObservationDims() {
		t.Fatalf("want %d features, got %d", c.ObservationDims(), obs.Len())
	}
	if !n.ObservationSpec().Contains(obs) {
		t.Errorf("observation outside of observation spec")
	}

	image := c.ImageSide * c.ImageSide
	var occupied float64
	for i := 0; i < image; i++ {
		occupied += obs.AtVec(i)
	}
	if occupied == 0 {
		t.Errorf("want the nearby obstacle in the LiDAR image")
	}

	// Goal 100 units ahead along y in the robot frame
	if obs.AtVec(image) != 0 || obs.AtVec(image+1) != 100 {
		t.Errorf("want goal (0, 100) in robot frame, got (%v, %v)",
			obs.AtVec(image), obs.AtVec(image+1))
	}
}

func TestRender(t *testing.T) {
	c := testConfig()
	c.RenderEach = 2
	c.RenderDir = filepath.Join(t.TempDir(), "frames")
	s := scenario.New(r2.Vec{X: 100, Y: 100}, r2.Vec{X: 600, Y: 600},
		obstacle.NewCollection(obstacle.Obstacle{X: 300, Y: 300, Width: 50,
			Height: 80}))
	n := newNavigation(t, c, s)

	for i := 0; i < 4; i++ {
		if _, _, err := n.Step(action(1, 1)); err != nil {
			t.Fatal(err)
		}
	}

	entries, err := os.ReadDir(c.RenderDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Errorf("want 2 frames, got %d", len(entries))
	}
}

func TestDecodeActionHeading(t *testing.T) {
	a, err := DecodeAction(mat.NewVecDense(3, []float64{0.5, -0.5, 0.5}))
	if err != nil {
		t.Fatal(err)
	}
	if a.VX != 0.5 || a.VY != -0.5 || a.Heading != math.Pi/2 {
		t.Errorf("unexpected decoded action %+v", a)
	}

	// Heading is not applied
	r := Robot{Radius: 20, MaxSpeed: 1}
	r.Step(a, 1)
	if r.Pose.Theta != 0 {
		t.Errorf("want heading unchanged, got %v", r.Pose.Theta)
	}
}

func BenchmarkStep(b *testing.B) {
	s := scenario.New(r2.Vec{X: 100, Y: 100}, r2.Vec{X: 600, Y: 600},
		obstacle.NewCollection(
			obstacle.Obstacle{X: 0, Y: 0, Width: 50, Height: 50},
			obstacle.Obstacle{X: 400, Y: 400, Width: 100, Height: 100}))
	n, _, err := New(DefaultConfig(), s, nil)
	if err != nil {
		b.Fatal(err)
	}
	a := action(0.1, 0.1)

	for i := 0; i < b.N; i++ {
		if _, done, _ := n.Step(a); done {
			n.Reset()
		}
	}
}
