package sensor

import (
	"math"
	"testing"
)

// surfaceFunc adapts a function to Surface.
type surfaceFunc func(x, y int) (r, g, b uint8, ok bool)

func (f surfaceFunc) ColorAt(x, y int) (r, g, b uint8, ok bool) {
	return f(x, y)
}

// bounded returns a surface of the given size painted by paint.
func bounded(w, h int, paint func(x, y int) (r, g, b uint8)) Surface {
	return surfaceFunc(func(x, y int) (uint8, uint8, uint8, bool) {
		if x < 0 || y < 0 || x >= w || y >= h {
			return 0, 0, 0, false
		}
		r, g, b := paint(x, y)
		return r, g, b, true
	})
}

func testGrid(t *testing.T) *RectangularGrid {
	t.Helper()
	g, err := NewRectangularGrid(10, 10, 0.4, 0.2, 5)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestGrayscale(t *testing.T) {
	tests := []struct {
		r, g, b uint8
		want    float32
	}{
		{0, 0, 0, 0},
		{255, 255, 255, 1},
		{255, 0, 0, 1.0 / 3},
		{51, 102, 153, 0.4},
	}
	for _, tt := range tests {
		got := Grayscale(tt.r, tt.g, tt.b)
		if math.Abs(float64(got-tt.want)) > 1e-6 {
			t.Errorf("Grayscale(%d,%d,%d) = %f, want %f", tt.r, tt.g, tt.b, got, tt.want)
		}
	}
}

func TestSampleUniformSurface(t *testing.T) {
	s := NewSampler(testGrid(t), 0)
	surface := bounded(900, 600, func(x, y int) (uint8, uint8, uint8) { return 255, 255, 255 })

	frame := Frame{X: 120, Y: 200, Width: 20, Height: 36}
	features := s.Sample(frame, frame.Pose(), surface)

	if len(features) != 200 {
		t.Fatalf("expected 200 features, got %d", len(features))
	}
	for i, v := range features {
		if v != 1 {
			t.Fatalf("feature %d = %f, want 1", i, v)
		}
	}
}

func TestSampleValuesInUnitRange(t *testing.T) {
	s := NewSampler(testGrid(t), 0.5)
	// Noisy surface with a hole in it
	surface := bounded(300, 300, func(x, y int) (uint8, uint8, uint8) {
		return uint8(x * 7), uint8(y * 13), uint8((x + y) * 3)
	})

	for angle := -180.0; angle <= 180; angle += 15 {
		frame := Frame{X: 140, Y: 150, Width: 20, Height: 36, Angle: angle}
		for i, v := range s.Sample(frame, frame.Pose(), surface) {
			if v < 0 || v > 1 {
				t.Fatalf("angle %f: feature %d = %f out of [0,1]", angle, i, v)
			}
		}
	}
}

func TestSampleOutOfBoundsNeutral(t *testing.T) {
	s := NewSampler(testGrid(t), 0.25)
	surface := bounded(10, 10, func(x, y int) (uint8, uint8, uint8) { return 255, 255, 255 })

	// Car far off the surface: every sample is neutral
	frame := Frame{X: 5000, Y: 5000, Width: 20, Height: 36}
	for i, v := range s.Sample(frame, frame.Pose(), surface) {
		if v != 0.25 {
			t.Fatalf("feature %d = %f, want neutral 0.25", i, v)
		}
	}
}

func TestSampleNearRowAtEnd(t *testing.T) {
	g := testGrid(t)
	s := NewSampler(g, 0)

	// Rows closer to the car than y=170 are white, farther rows black
	surface := bounded(900, 600, func(x, y int) (uint8, uint8, uint8) {
		if y >= 170 {
			return 255, 255, 255
		}
		return 0, 0, 0
	})

	frame := Frame{X: 120, Y: 200, Width: 20, Height: 36}
	features := s.Sample(frame, frame.Pose(), surface)

	// Nearest row (j=0, y=195) lives in the last 2W slots
	for k := 180; k < 200; k++ {
		if features[k] != 1 {
			t.Errorf("near-row feature %d = %f, want 1", k, features[k])
		}
	}
	// Farthest row (j=9, y=150) lives in the first 2W slots
	for k := 0; k < 20; k++ {
		if features[k] != 0 {
			t.Errorf("far-row feature %d = %f, want 0", k, features[k])
		}
	}
}

func TestSampleReusesBuffer(t *testing.T) {
	s := NewSampler(testGrid(t), 0)
	if s.Features() != nil || s.Clone() != nil {
		t.Fatal("expected no buffer before the first sample")
	}

	white := bounded(900, 600, func(x, y int) (uint8, uint8, uint8) { return 255, 255, 255 })
	black := bounded(900, 600, func(x, y int) (uint8, uint8, uint8) { return 0, 0, 0 })
	frame := Frame{X: 120, Y: 200, Width: 20, Height: 36}

	first := s.Sample(frame, frame.Pose(), white)
	clone := s.Clone()
	second := s.Sample(frame, frame.Pose(), black)

	if &first[0] != &second[0] {
		t.Error("expected the buffer to be reused between samples")
	}
	if first[0] != 0 {
		t.Errorf("shared buffer should hold the latest reading, got %f", first[0])
	}
	if clone[0] != 1 {
		t.Errorf("clone should keep the earlier reading, got %f", clone[0])
	}
}

func TestSampleFollowsRotation(t *testing.T) {
	g := testGrid(t)
	s := NewSampler(g, 0)

	// Right half of the world is white
	surface := bounded(900, 600, func(x, y int) (uint8, uint8, uint8) {
		if x >= 300 {
			return 255, 255, 255
		}
		return 0, 0, 0
	})

	// Car centered at x=290 facing right: the whole grid lands in the white half
	frame := Frame{X: 280, Y: 282, Width: 20, Height: 36, Angle: 90}
	for i, v := range s.Sample(frame, frame.Pose(), surface) {
		if v != 1 {
			t.Fatalf("feature %d = %f, want 1 when facing the white half", i, v)
		}
	}

	// Facing left: the grid lands in the black half
	frame.Angle = -90
	for i, v := range s.Sample(frame, frame.Pose(), surface) {
		if v != 0 {
			t.Fatalf("feature %d = %f, want 0 when facing the black half", i, v)
		}
	}
}

func TestProjectMatchesSample(t *testing.T) {
	g := testGrid(t)
	surface := bounded(900, 600, func(x, y int) (uint8, uint8, uint8) {
		return uint8(x % 256), uint8(y % 256), 90
	})
	frame := Frame{X: 300, Y: 300, Width: 20, Height: 36, Angle: 33}

	points := Project(g, frame, frame.Pose(), nil)
	if len(points) != g.TotalPoints() {
		t.Fatalf("got %d points, want %d", len(points), g.TotalPoints())
	}

	// Each point sits at its buffer index
	pose := frame.Pose()
	_ = g.Apply(frame.X, frame.Y, frame.Width, func(i, j int, wx, wy float64) error {
		sx, sy := pose.WorldToScreen(wx, wy)
		if p := points[g.Index(i, j)]; p.X != sx || p.Y != sy {
			t.Errorf("point (%d,%d) = %+v, want (%f, %f)", i, j, p, sx, sy)
		}
		return nil
	})

	filled := NewSampler(g, 0).Fill(points, surface)
	sampled := NewSampler(g, 0).Sample(frame, pose, surface)
	for k := range sampled {
		if filled[k] != sampled[k] {
			t.Fatalf("feature %d: Fill %f, Sample %f", k, filled[k], sampled[k])
		}
	}

	// dst is reused when large enough
	again := Project(g, frame, pose, points)
	if &again[0] != &points[0] {
		t.Error("expected Project to reuse dst")
	}
}
