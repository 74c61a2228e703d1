package geometry

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Pose is a rigid transform in SE(2): a translation (X, Y) and a
// rotation Theta. A Pose of frame B expressed in frame A maps points
// from B into A.
type Pose struct {
	X, Y, Theta float64
}

// Velocity is a planar twist: linear velocity (VX, VY) and angular
// velocity W
type Velocity struct {
	VX, VY, W float64
}

// Translation returns the translational part of the pose
func (p Pose) Translation() r2.Vec {
	return r2.Vec{X: p.X, Y: p.Y}
}

// Inverse returns the inverse transform, so that
// p.Compose(p.Inverse()) is the identity
func (p Pose) Inverse() Pose {
	t := r2.Rotate(r2.Vec{X: -p.X, Y: -p.Y}, -p.Theta, r2.Vec{})
	return Pose{X: t.X, Y: t.Y, Theta: -p.Theta}
}

// Compose returns the transform applying other first and then p
func (p Pose) Compose(other Pose) Pose {
	t := p.ApplyToPoint(other.Translation())
	return Pose{X: t.X, Y: t.Y, Theta: wrapAngle(p.Theta + other.Theta)}
}

// ApplyToPoint maps a point through the transform
func (p Pose) ApplyToPoint(q r2.Vec) r2.Vec {
	return r2.Add(r2.Rotate(q, p.Theta, r2.Vec{}), p.Translation())
}

// ApplyToVelocity maps a velocity through the transform. Translation
// does not affect velocities; the linear part is rotated and the
// angular part is unchanged.
func (p Pose) ApplyToVelocity(v Velocity) Velocity {
	lin := r2.Rotate(r2.Vec{X: v.VX, Y: v.VY}, p.Theta, r2.Vec{})
	return Velocity{VX: lin.X, VY: lin.Y, W: v.W}
}

// wrapAngle wraps an angle to [-π, π)
func wrapAngle(a float64) float64 {
	a = math.Mod(a+math.Pi, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a - math.Pi
}
