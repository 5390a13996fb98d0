package sensor

import "math"

// Sampler fills a feature vector by reading the surface under every grid point.
//
// The buffer is allocated on the first Sample and overwritten in place afterwards,
// so callers that keep a reading must take a Clone. Sampler does no locking of
// its own; the owning session serialises Fill, Sample, Clone and inference.
// Project needs no lock and can run ahead of Fill.
type Sampler struct {
	grid        Grid
	outOfBounds float32
	features    []float32
	points      []Point // scratch for Sample
}

// NewSampler creates a sampler over grid. Points that fall off the surface
// read as outOfBounds, clamped to [0, 1].
func NewSampler(grid Grid, outOfBounds float64) *Sampler {
	return &Sampler{
		grid:        grid,
		outOfBounds: clamp01(float32(outOfBounds)),
	}
}

// Grid returns the sampling geometry.
func (s *Sampler) Grid() Grid {
	return s.grid
}

// Point is a grid sample position on the surface.
type Point struct {
	X, Y float64
}

// Project enumerates grid for a car at frame and returns the surface position
// of every point seen through xf, indexed like the feature buffer. dst is reused
// when it has room. Project only does geometry and touches no shared state.
func Project(grid Grid, frame Frame, xf Transform, dst []Point) []Point {
	n := grid.TotalPoints()
	if cap(dst) < n {
		dst = make([]Point, n)
	}
	dst = dst[:n]

	// visit never fails, so Apply cannot either
	_ = grid.Apply(frame.X, frame.Y, frame.Width, func(i, j int, wx, wy float64) error {
		sx, sy := xf.WorldToScreen(wx, wy)
		dst[grid.Index(i, j)] = Point{X: sx, Y: sy}
		return nil
	})
	return dst
}

// Fill reads one grayscale intensity per projected point into the shared buffer
// and returns it. points must come from Project over the sampler's grid.
// Screen coordinates are floored to pixels.
func (s *Sampler) Fill(points []Point, surface Surface) []float32 {
	if s.features == nil {
		s.features = make([]float32, s.grid.TotalPoints())
	}
	for i := range s.features {
		s.features[i] = s.intensity(surface, points[i].X, points[i].Y)
	}
	return s.features
}

// Sample projects the grid for frame and fills the buffer in one pass.
func (s *Sampler) Sample(frame Frame, xf Transform, surface Surface) []float32 {
	s.points = Project(s.grid, frame, xf, s.points)
	return s.Fill(s.points, surface)
}

// intensity returns the mean of the three channels scaled to [0, 1].
func (s *Sampler) intensity(surface Surface, sx, sy float64) float32 {
	if math.IsNaN(sx) || math.IsNaN(sy) {
		return s.outOfBounds
	}
	r, g, b, ok := surface.ColorAt(int(math.Floor(sx)), int(math.Floor(sy)))
	if !ok {
		return s.outOfBounds
	}
	return Grayscale(r, g, b)
}

// Features returns the current buffer, or nil before the first Sample.
func (s *Sampler) Features() []float32 {
	return s.features
}

// Clone returns an independent copy of the current buffer, or nil before the first Sample.
func (s *Sampler) Clone() []float32 {
	if s.features == nil {
		return nil
	}
	clone := make([]float32, len(s.features))
	copy(clone, s.features)
	return clone
}

// Grayscale converts an 8-bit color to an intensity in [0, 1].
func Grayscale(r, g, b uint8) float32 {
	return clamp01((float32(r) + float32(g) + float32(b)) / (3 * 255.0))
}

// clamp01 clamps x to [0, 1].
func clamp01(x float32) float32 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
