// Package sensor provides the camera grid geometry and the feature sampler
// that turns a rendered surface into classifier inputs.
package sensor

import (
	"fmt"

	"github.com/pthm-cable/micromachine/config"
)

// VisitFunc receives one sample point. i is the column, j the row,
// (worldX, worldY) the unrotated world position.
type VisitFunc func(i, j int, worldX, worldY float64) error

// Grid enumerates sample points relative to a car.
// Implementations must be stateless: Apply is a pure function of its inputs.
type Grid interface {
	// TotalPoints is the feature vector length.
	TotalPoints() int
	// Columns and Rows give the preview layout of the feature vector.
	Columns() int
	Rows() int
	// Index maps a sample point to its slot in the feature vector.
	Index(i, j int) int
	// Apply visits every sample point in a fixed order.
	// The first error returned by visit stops the walk and is returned unchanged.
	Apply(carX, carY, carWidth float64, visit VisitFunc) error
}

// Default rectangular grid geometry.
const (
	DefaultXDensity      = 0.4
	DefaultYDensity      = 0.2
	DefaultFrontDistance = 5.0
)

// RectangularGrid samples a 2W x H block in front of the car.
// Columns run from -W to W-1 across the car's center line, rows from 0 (nearest) to H-1.
type RectangularGrid struct {
	halfWidth     int
	height        int
	xDensity      float64
	yDensity      float64
	frontDistance float64
}

// NewRectangularGrid creates a grid with explicit geometry.
func NewRectangularGrid(halfWidth, height int, xDensity, yDensity, frontDistance float64) (*RectangularGrid, error) {
	if halfWidth <= 0 || height <= 0 {
		return nil, fmt.Errorf("grid must be non-empty, got %dx%d", halfWidth, height)
	}
	if xDensity <= 0 || yDensity <= 0 {
		return nil, fmt.Errorf("grid densities must be positive, got x=%g y=%g", xDensity, yDensity)
	}
	return &RectangularGrid{
		halfWidth:     halfWidth,
		height:        height,
		xDensity:      xDensity,
		yDensity:      yDensity,
		frontDistance: frontDistance,
	}, nil
}

// NewGridFromConfig creates a grid from sensor configuration.
func NewGridFromConfig(cfg config.SensorConfig) (*RectangularGrid, error) {
	return NewRectangularGrid(cfg.HalfWidth, cfg.Height, cfg.XDensity, cfg.YDensity, cfg.FrontDistance)
}

// HalfWidth returns W.
func (g *RectangularGrid) HalfWidth() int { return g.halfWidth }

// Height returns H.
func (g *RectangularGrid) Height() int { return g.height }

// TotalPoints returns 2*W*H.
func (g *RectangularGrid) TotalPoints() int {
	return g.height * g.halfWidth * 2
}

// Columns returns 2*W.
func (g *RectangularGrid) Columns() int { return g.halfWidth * 2 }

// Rows returns H.
func (g *RectangularGrid) Rows() int { return g.height }

// Index returns i + W + (H - j - 1) * 2W.
// Rows are stored far-to-near, so the nearest row ends the buffer.
// Trained models depend on this layout.
func (g *RectangularGrid) Index(i, j int) int {
	return i + g.halfWidth + (g.height-j-1)*g.halfWidth*2
}

// Apply visits columns -W..W-1 (outer) and rows 0..H-1 (inner).
// Trained models depend on this order.
func (g *RectangularGrid) Apply(carX, carY, carWidth float64, visit VisitFunc) error {
	centerX := carX + carWidth/2

	for i := -g.halfWidth; i < g.halfWidth; i++ {
		for j := 0; j < g.height; j++ {
			worldX := centerX + float64(i)/g.xDensity
			worldY := carY - float64(j)/g.yDensity - g.frontDistance
			if err := visit(i, j, worldX, worldY); err != nil {
				return err
			}
		}
	}
	return nil
}
