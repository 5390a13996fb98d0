// Package vehicle implements the car's pose and kinematics.
package vehicle

import (
	"math"

	"github.com/pthm-cable/micromachine/components"
	"github.com/pthm-cable/micromachine/sensor"
)

// Kinematics constants.
const (
	MaxSpeed = 3.0 // world units per step
	TurnStep = 3.0 // degrees per Left/Right decision
)

// Throttle is the speed state. Speed is never continuously variable.
type Throttle int8

const (
	Reversing    Throttle = -1
	Idle         Throttle = 0
	Accelerating Throttle = 1
)

// String returns the display name for a Throttle.
func (t Throttle) String() string {
	switch t {
	case Reversing:
		return "reverse"
	case Idle:
		return "idle"
	case Accelerating:
		return "accelerate"
	}
	return "unknown"
}

// Pilot picks a direction from a feature vector.
type Pilot interface {
	Evaluate(features []float32) (components.Direction, error)
}

// Vehicle holds a car's pose.
// X, Y is the top-left corner of the unrotated body; Angle is in degrees,
// 0 pointing up the screen and increasing clockwise. Angle is never wrapped.
type Vehicle struct {
	X, Y          float64
	Angle         float64
	Width, Height float64
	Autopilot     bool

	throttle Throttle
}

// New creates an idle vehicle.
func New(x, y, angle, width, height float64) Vehicle {
	return Vehicle{X: x, Y: y, Angle: angle, Width: width, Height: height}
}

// Speed returns the signed speed: -MaxSpeed, 0 or +MaxSpeed.
func (v *Vehicle) Speed() float64 {
	return float64(v.throttle) * MaxSpeed
}

// Throttle returns the current speed state.
func (v *Vehicle) Throttle() Throttle {
	return v.throttle
}

// Accelerate sets speed to +MaxSpeed.
func (v *Vehicle) Accelerate() {
	v.throttle = Accelerating
}

// Decelerate stops the car.
func (v *Vehicle) Decelerate() {
	v.throttle = Idle
}

// Reverse sets speed to -MaxSpeed.
func (v *Vehicle) Reverse() {
	v.throttle = Reversing
}

// Rotate turns by TurnStep degrees: Left is counter-clockwise, Right clockwise.
func (v *Vehicle) Rotate(d components.Direction) {
	switch d {
	case components.Left:
		v.Angle -= TurnStep
	case components.Right:
		v.Angle += TurnStep
	}
}

// Drive applies an autopilot decision: rotate, then full speed ahead.
func (v *Vehicle) Drive(d components.Direction) {
	v.Rotate(d)
	v.Accelerate()
}

// Autodrive asks p for a direction and drives with it.
// On error the pose is left untouched.
func (v *Vehicle) Autodrive(p Pilot, features []float32) (components.Direction, error) {
	d, err := p.Evaluate(features)
	if err != nil {
		return components.Straight, err
	}
	v.Drive(d)
	return d, nil
}

// Integrate advances the position by dt steps along the heading and
// returns the distance covered.
func (v *Vehicle) Integrate(dt float64) float64 {
	rad := v.Angle / 360.0 * 2 * math.Pi
	step := v.Speed() * dt
	v.X += step * math.Sin(rad)
	v.Y -= step * math.Cos(rad)
	return math.Abs(step)
}

// Center returns the point the body is drawn and rotated about.
func (v *Vehicle) Center() (cx, cy float64) {
	return v.X + v.Width/2, v.Y + v.Height/2
}

// Frame returns the geometry the camera samples from.
func (v *Vehicle) Frame() sensor.Frame {
	return sensor.Frame{X: v.X, Y: v.Y, Width: v.Width, Height: v.Height, Angle: v.Angle}
}
