package camera

import (
	"math"
	"testing"
)

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 0.01
}

func TestNew(t *testing.T) {
	cam := New(1280, 720, 2560, 1440)

	if cam.X != 1280 || cam.Y != 720 {
		t.Errorf("expected camera at (1280, 720), got (%f, %f)", cam.X, cam.Y)
	}
	if cam.Zoom != 1.0 {
		t.Errorf("expected zoom 1.0, got %f", cam.Zoom)
	}
	if !near(cam.MinZoom, 0.5) {
		t.Errorf("expected min zoom 0.5 to fit world, got %f", cam.MinZoom)
	}
}

func TestWorldToScreenCentered(t *testing.T) {
	cam := New(1280, 720, 2560, 1440)

	sx, sy := cam.WorldToScreen(1280, 720)
	if !near(sx, 640) || !near(sy, 360) {
		t.Errorf("expected screen center (640, 360), got (%f, %f)", sx, sy)
	}
}

func TestScreenToWorldRoundtrip(t *testing.T) {
	cam := New(1280, 720, 2560, 1440)
	cam.SetZoom(2)

	testCases := []struct{ sx, sy float32 }{
		{640, 360},
		{100, 100},
		{1200, 600},
	}

	for _, tc := range testCases {
		wx, wy := cam.ScreenToWorld(tc.sx, tc.sy)
		sx, sy := cam.WorldToScreen(wx, wy)
		if !near(sx, tc.sx) || !near(sy, tc.sy) {
			t.Errorf("roundtrip failed: (%f,%f) -> (%f,%f) -> (%f,%f)",
				tc.sx, tc.sy, wx, wy, sx, sy)
		}
	}
}

func TestFollowClampsToWorld(t *testing.T) {
	cam := New(400, 300, 900, 600)

	tests := []struct {
		name         string
		wx, wy       float32
		wantX, wantY float32
	}{
		{"inside", 450, 300, 450, 300},
		{"top left corner", 0, 0, 200, 150},
		{"bottom right corner", 900, 600, 700, 450},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam.Follow(tt.wx, tt.wy, 1)
			if !near(cam.X, tt.wantX) || !near(cam.Y, tt.wantY) {
				t.Errorf("Follow(%v, %v) -> (%v, %v), want (%v, %v)",
					tt.wx, tt.wy, cam.X, cam.Y, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestFollowSmoothing(t *testing.T) {
	cam := New(400, 300, 900, 600)
	cam.Follow(550, 300, 0.5)
	if !near(cam.X, 500) {
		t.Errorf("expected half-way to target, got %f", cam.X)
	}
}

func TestWorldSmallerThanViewportIsCentered(t *testing.T) {
	cam := New(1280, 720, 900, 600)
	cam.Follow(0, 0, 1)
	if cam.X != 450 || cam.Y != 300 {
		t.Errorf("expected centered world, got (%f, %f)", cam.X, cam.Y)
	}
	if cam.MinZoom != 1 {
		t.Errorf("expected min zoom capped at 1, got %f", cam.MinZoom)
	}
}

func TestZoomClamp(t *testing.T) {
	cam := New(1280, 720, 2560, 1440)

	cam.SetZoom(10)
	if cam.Zoom != cam.MaxZoom {
		t.Errorf("expected zoom clamped to max %f, got %f", cam.MaxZoom, cam.Zoom)
	}
	cam.SetZoom(0.01)
	if cam.Zoom != cam.MinZoom {
		t.Errorf("expected zoom clamped to min %f, got %f", cam.MinZoom, cam.Zoom)
	}
	cam.ZoomBy(2)
	if !near(cam.Zoom, 2*cam.MinZoom) {
		t.Errorf("expected zoom %f, got %f", 2*cam.MinZoom, cam.Zoom)
	}
}

func TestIsVisible(t *testing.T) {
	cam := New(400, 300, 900, 600)
	cam.Follow(200, 150, 1)

	if !cam.IsVisible(200, 150, 0) {
		t.Error("center should be visible")
	}
	if cam.IsVisible(800, 500, 10) {
		t.Error("far corner should not be visible")
	}
	if !cam.IsVisible(405, 150, 10) {
		t.Error("point within radius of the edge should be visible")
	}
}

func TestResize(t *testing.T) {
	cam := New(400, 300, 900, 600)
	cam.Follow(900, 600, 1)
	cam.Resize(800, 600)

	minX, minY, maxX, maxY := cam.VisibleWorldBounds()
	if maxX > 900.01 || maxY > 600.01 || minX < -0.01 || minY < -0.01 {
		t.Errorf("view escaped world after resize: (%f,%f)-(%f,%f)", minX, minY, maxX, maxY)
	}
}

func TestReset(t *testing.T) {
	cam := New(400, 300, 900, 600)
	cam.Follow(0, 0, 1)
	cam.SetZoom(3)
	cam.Reset()
	if cam.X != 450 || cam.Y != 300 || cam.Zoom != 1 {
		t.Errorf("unexpected state after reset: (%f, %f) zoom %f", cam.X, cam.Y, cam.Zoom)
	}
}

func TestPan(t *testing.T) {
	cam := New(400, 300, 900, 600)
	cam.SetZoom(2)

	// Screen pixels are divided by zoom
	cam.Pan(40, -20)
	if !near(cam.X, 470) || !near(cam.Y, 290) {
		t.Errorf("expected (470, 290) after pan, got (%f, %f)", cam.X, cam.Y)
	}

	cam.Pan(10000, 0)
	if !near(cam.X, 800) {
		t.Errorf("expected pan clamped at x=800, got %f", cam.X)
	}
}
