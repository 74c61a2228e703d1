package geometry

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func vecClose(a, b r2.Vec) bool {
	return math.Abs(a.X-b.X) < 1e-9 && math.Abs(a.Y-b.Y) < 1e-9
}

func TestPoseInverse(t *testing.T) {
	poses := []Pose{
		{X: 0, Y: 0, Theta: 0},
		{X: 100, Y: 150, Theta: math.Pi / 3},
		{X: -20, Y: 7, Theta: -2.5},
	}
	points := []r2.Vec{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 700, Y: -42}}

	for _, pose := range poses {
		inv := pose.Inverse()
		for _, p := range points {
			if got := inv.ApplyToPoint(pose.ApplyToPoint(p)); !vecClose(got, p) {
				t.Errorf("pose %v: round trip of %v gave %v", pose, p, got)
			}
		}

		id := pose.Compose(inv)
		if math.Abs(id.X) > 1e-9 || math.Abs(id.Y) > 1e-9 ||
			math.Abs(id.Theta) > 1e-9 {
			t.Errorf("pose %v: compose with inverse gave %v", pose, id)
		}
	}
}

func TestGoalInRobotFrame(t *testing.T) {
	// Robot at (100, 100) facing +y: a goal straight ahead is at +x in
	// the robot frame
	robot := Pose{X: 100, Y: 100, Theta: math.Pi / 2}
	goal := r2.Vec{X: 100, Y: 200}

	got := robot.Inverse().ApplyToPoint(goal)
	if !vecClose(got, r2.Vec{X: 100, Y: 0}) {
		t.Errorf("want (100, 0), got %v", got)
	}
}

func TestApplyToVelocity(t *testing.T) {
	robot := Pose{X: 5, Y: -3, Theta: math.Pi / 2}
	v := robot.Inverse().ApplyToVelocity(Velocity{VX: 0, VY: 1, W: 0.25})

	if math.Abs(v.VX-1) > 1e-9 || math.Abs(v.VY) > 1e-9 || v.W != 0.25 {
		t.Errorf("want {1 0 0.25}, got %v", v)
	}
}
