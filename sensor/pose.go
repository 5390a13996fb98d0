package sensor

import "math"

// Surface is the rendered world as seen by the camera.
// ok is false when (x, y) lies outside the surface.
type Surface interface {
	ColorAt(x, y int) (r, g, b uint8, ok bool)
}

// Transform maps a world point to the surface pixel it is drawn at.
type Transform interface {
	WorldToScreen(wx, wy float64) (sx, sy float64)
}

// Frame is the car geometry the sampler needs.
type Frame struct {
	X, Y          float64 // Top-left corner of the unrotated body
	Width, Height float64
	Angle         float64 // Degrees, clockwise on screen, 0 = up
}

// Center returns the visual center the body is rotated about.
func (f Frame) Center() (cx, cy float64) {
	return f.X + f.Width/2, f.Y + f.Height/2
}

// Contains reports whether the surface point (x, y) lies on the rotated body.
func (f Frame) Contains(x, y float64) bool {
	lx, ly := f.Pose().ScreenToWorld(x, y)
	return lx >= f.X && lx <= f.X+f.Width && ly >= f.Y && ly <= f.Y+f.Height
}

// Pose returns the transform the renderer applies when drawing this frame.
func (f Frame) Pose() Pose {
	cx, cy := f.Center()
	return NewPose(cx, cy, f.Angle)
}

// Pose rotates points by Angle degrees about (CX, CY).
// With y pointing down the screen, positive angles turn clockwise.
type Pose struct {
	CX, CY float64
	Angle  float64
	sin    float64
	cos    float64
}

// NewPose creates a rotation of angleDeg degrees about (cx, cy).
func NewPose(cx, cy, angleDeg float64) Pose {
	rad := angleDeg * math.Pi / 180
	return Pose{
		CX:    cx,
		CY:    cy,
		Angle: angleDeg,
		sin:   math.Sin(rad),
		cos:   math.Cos(rad),
	}
}

// WorldToScreen applies the rotation.
func (p Pose) WorldToScreen(wx, wy float64) (sx, sy float64) {
	dx := wx - p.CX
	dy := wy - p.CY
	sx = p.CX + dx*p.cos - dy*p.sin
	sy = p.CY + dx*p.sin + dy*p.cos
	return sx, sy
}

// ScreenToWorld undoes the rotation.
func (p Pose) ScreenToWorld(sx, sy float64) (wx, wy float64) {
	dx := sx - p.CX
	dy := sy - p.CY
	wx = p.CX + dx*p.cos + dy*p.sin
	wy = p.CY - dx*p.sin + dy*p.cos
	return wx, wy
}
