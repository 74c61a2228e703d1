package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/samuelfneumann/highrl/obstacle"
	"github.com/samuelfneumann/highrl/scenario"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/spatial/r2"
)

var estimateFlags struct {
	start     []float64
	goal      []float64
	obstacles []string
	generate  int
	seed      uint64
}

var estimateCmd = &cobra.Command{
	Use:   "estimate",
	Short: "Estimate the difficulty of a scenario",
	Long: "estimate prints the difficulty of navigating from --start to " +
		"--goal among the\ngiven obstacles. With --generate, obstacles are " +
		"sampled instead.",
	Example: "  highrl estimate --start 100,150 --goal 100,400 " +
		"--obstacle 0,0,100,100\n  highrl estimate --generate 4 --seed 7",
	RunE: runEstimate,
}

func init() {
	f := estimateCmd.Flags()
	f.Float64SliceVar(&estimateFlags.start, "start", []float64{0, 0},
		"robot start x,y")
	f.Float64SliceVar(&estimateFlags.goal, "goal", []float64{0, 0},
		"goal x,y")
	f.StringArrayVar(&estimateFlags.obstacles, "obstacle", nil,
		"obstacle x,y,width,height (repeatable)")
	f.IntVar(&estimateFlags.generate, "generate", 0,
		"number of obstacles to generate")
	f.Uint64Var(&estimateFlags.seed, "seed", 0, "generation seed")
}

func runEstimate(cmd *cobra.Command, _ []string) error {
	c, err := loadConfig()
	if err != nil {
		return err
	}

	start, err := point(estimateFlags.start)
	if err != nil {
		return errors.Wrap(err, "start")
	}
	goal, err := point(estimateFlags.goal)
	if err != nil {
		return errors.Wrap(err, "goal")
	}

	obstacles := obstacle.NewCollection()
	for _, spec := range estimateFlags.obstacles {
		o, err := parseObstacle(spec)
		if err != nil {
			return err
		}
		obstacles.Add(o)
	}

	if estimateFlags.generate > 0 {
		generated, err := c.Generator(estimateFlags.seed).Generate(
			estimateFlags.generate, c.Arena.Width, c.Arena.Height,
			scenario.Placement{Start: start, Goal: goal,
				Radius: c.Robot.Radius})
		if err != nil {
			return err
		}
		for _, o := range generated.All() {
			obstacles.Add(o)
		}
	}

	s := scenario.New(start, goal, obstacles)
	d := c.Estimator().EstimateCollection(s.Obstacles, c.Arena.Width,
		c.Arena.Height, s.Start, s.Goal)

	w := table.NewWriter()
	w.SetOutputMirror(cmd.OutOrStdout())
	w.SetStyle(table.StyleLight)
	w.AppendHeader(table.Row{"#", "X", "Y", "Width", "Height"})
	for i := 0; i < s.Obstacles.Len(); i++ {
		o := s.Obstacles.At(i)
		w.AppendRow(table.Row{i, o.X, o.Y, o.Width, o.Height})
	}
	w.AppendFooter(table.Row{"", "", "", "Difficulty",
		fmt.Sprintf("%.4f", d)})
	w.Render()

	return nil
}

func point(v []float64) (r2.Vec, error) {
	if len(v) != 2 {
		return r2.Vec{}, fmt.Errorf("want x,y, got %d values", len(v))
	}
	return r2.Vec{X: v[0], Y: v[1]}, nil
}

// parseObstacle parses an obstacle given as x,y,width,height
func parseObstacle(s string) (obstacle.Obstacle, error) {
	fields := strings.Split(s, ",")
	if len(fields) != 4 {
		return obstacle.Obstacle{}, fmt.Errorf("obstacle %q: want "+
			"x,y,width,height", s)
	}

	var v [4]float64
	for i, f := range fields {
		var err error
		v[i], err = strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return obstacle.Obstacle{}, errors.Wrapf(err, "obstacle %q", s)
		}
	}
	return obstacle.New(v[0], v[1], v[2], v[3])
}
