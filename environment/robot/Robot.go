// Package robot implements a holonomic disc robot navigating a
// rectangular arena of axis-aligned obstacles using a simulated LiDAR
package robot

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
	"github.com/samuelfneumann/highrl/geometry"
	"github.com/samuelfneumann/highrl/utils/floatutils"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r2"
)

// ActionDims is the length of action vectors
const ActionDims int = 3

// ErrInvalidAction is returned when an action vector cannot be decoded
var ErrInvalidAction = errors.New("invalid action")

// Action is a decoded trainee action. VX and VY are normalized velocity
// commands in [-1, 1]. Heading is the third action component scaled to
// [-π, π]; it is decoded but not applied, the robot never rotates.
type Action struct {
	VX      float64
	VY      float64
	Heading float64
}

// DecodeAction decodes an action vector of length ActionDims by
// position
func DecodeAction(a mat.Vector) (Action, error) {
	if a == nil || a.Len() != ActionDims {
		length := 0
		if a != nil {
			length = a.Len()
		}
		return Action{}, errors.Wrapf(ErrInvalidAction, "want %d "+
			"components, got %d", ActionDims, length)
	}
	for i := 0; i < a.Len(); i++ {
		if v := a.AtVec(i); math.IsNaN(v) || math.IsInf(v, 0) {
			return Action{}, errors.Wrapf(ErrInvalidAction, "component %d "+
				"is %v", i, v)
		}
	}

	return Action{
		VX:      a.AtVec(0),
		VY:      a.AtVec(1),
		Heading: a.AtVec(2) * math.Pi,
	}, nil
}

// Robot is a holonomic disc robot
type Robot struct {
	Pose     geometry.Pose
	Velocity geometry.Velocity
	Goal     r2.Vec
	Radius   float64
	MaxSpeed float64
}

// Position returns the position of the robot centre
func (r Robot) Position() r2.Vec {
	return r.Pose.Translation()
}

// DistanceToGoal returns the distance from the robot centre to the goal
func (r Robot) DistanceToGoal() float64 {
	return geometry.PointToPointDistance(r.Position(), r.Goal)
}

// Step integrates one kinematic step of length dt. Velocity commands
// are clipped to [-1, 1] and scaled by MaxSpeed.
func (r *Robot) Step(a Action, dt float64) {
	r.Velocity = geometry.Velocity{
		VX: floatutils.Clip(a.VX, -1, 1) * r.MaxSpeed,
		VY: floatutils.Clip(a.VY, -1, 1) * r.MaxSpeed,
	}
	displacement := geometry.Pose{X: r.Velocity.VX * dt, Y: r.Velocity.VY * dt}
	r.Pose = displacement.Compose(r.Pose)
}

// State returns the goal position and the robot velocity expressed in
// the robot frame:
//
//	[goal x, goal y, velocity x, velocity y, angular velocity]
func (r Robot) State() []float64 {
	worldInRobot := r.Pose.Inverse()
	goal := worldInRobot.ApplyToPoint(r.Goal)
	vel := worldInRobot.ApplyToVelocity(r.Velocity)

	return []float64{goal.X, goal.Y, vel.VX, vel.VY, vel.W}
}

func (r Robot) String() string {
	return fmt.Sprintf("Robot{Pose: %+v, Velocity: %+v, Goal: %v}", r.Pose,
		r.Velocity, r.Goal)
}
