package sensor

import (
	"math"
	"testing"
)

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestPoseIdentity(t *testing.T) {
	p := NewPose(100, 100, 0)
	sx, sy := p.WorldToScreen(130, 40)
	if !near(sx, 130) || !near(sy, 40) {
		t.Errorf("zero rotation moved point to (%f, %f)", sx, sy)
	}
}

func TestPoseQuarterTurn(t *testing.T) {
	// A point straight ahead (up the screen) ends up to the right after +90 degrees
	p := NewPose(100, 100, 90)
	sx, sy := p.WorldToScreen(100, 90)
	if !near(sx, 110) || !near(sy, 100) {
		t.Errorf("expected (110, 100), got (%f, %f)", sx, sy)
	}

	p = NewPose(100, 100, -90)
	sx, sy = p.WorldToScreen(100, 90)
	if !near(sx, 90) || !near(sy, 100) {
		t.Errorf("expected (90, 100), got (%f, %f)", sx, sy)
	}
}

func TestPoseRoundtrip(t *testing.T) {
	p := NewPose(37, -12, 33)
	for _, pt := range [][2]float64{{0, 0}, {37, -12}, {100, 250}, {-40, 8}} {
		sx, sy := p.WorldToScreen(pt[0], pt[1])
		wx, wy := p.ScreenToWorld(sx, sy)
		if !near(wx, pt[0]) || !near(wy, pt[1]) {
			t.Errorf("roundtrip (%f,%f) -> (%f,%f)", pt[0], pt[1], wx, wy)
		}
	}
}

func TestFramePoseCenter(t *testing.T) {
	f := Frame{X: 120, Y: 200, Width: 20, Height: 36, Angle: 45}
	p := f.Pose()
	if !near(p.CX, 130) || !near(p.CY, 218) {
		t.Errorf("expected center (130, 218), got (%f, %f)", p.CX, p.CY)
	}
	// The center is a fixed point of the rotation
	sx, sy := p.WorldToScreen(130, 218)
	if !near(sx, 130) || !near(sy, 218) {
		t.Errorf("center moved to (%f, %f)", sx, sy)
	}
}

func TestFrameContains(t *testing.T) {
	// 20x36 body centered on (100, 100)
	upright := Frame{X: 90, Y: 82, Width: 20, Height: 36}
	turned := upright
	turned.Angle = 90

	tests := []struct {
		name  string
		frame Frame
		x, y  float64
		want  bool
	}{
		{"center", upright, 100, 100, true},
		{"corner", upright, 90, 82, true},
		{"beside upright body", upright, 115, 100, false},
		{"above upright body", upright, 100, 85, true},
		{"beside turned body", turned, 115, 100, true},
		{"above turned body", turned, 100, 85, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.frame.Contains(tt.x, tt.y); got != tt.want {
				t.Errorf("Contains(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}
