package main

import (
	"math"

	"github.com/pthm-cable/micromachine/config"
)

// ParamSpec defines a single tunable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Integer bool    // Rounded before it is applied

	get func(*config.Config) float64
	set func(*config.Config, float64)
}

// ParamVector holds the set of all tunable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of tunable parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Classifier
			{
				Name: "learning_rate", Path: "neural.learning_rate", Min: 0.01, Max: 1.0,
				get: func(c *config.Config) float64 { return c.Neural.LearningRate },
				set: func(c *config.Config, v float64) { c.Neural.LearningRate = v },
			},
			// Coaching
			{
				Name: "teach_every", Path: "coach.teach_every", Min: 2, Max: 40, Integer: true,
				get: func(c *config.Config) float64 { return float64(c.Coach.TeachEvery) },
				set: func(c *config.Config, v float64) { c.Coach.TeachEvery = int(v) },
			},
			// Camera geometry; the point count stays fixed
			{
				Name: "x_density", Path: "sensor.x_density", Min: 0.1, Max: 1.0,
				get: func(c *config.Config) float64 { return c.Sensor.XDensity },
				set: func(c *config.Config, v float64) { c.Sensor.XDensity = v },
			},
			{
				Name: "y_density", Path: "sensor.y_density", Min: 0.05, Max: 1.0,
				get: func(c *config.Config) float64 { return c.Sensor.YDensity },
				set: func(c *config.Config, v float64) { c.Sensor.YDensity = v },
			},
			{
				Name: "front_distance", Path: "sensor.front_distance", Min: 0, Max: 40,
				get: func(c *config.Config) float64 { return c.Sensor.FrontDistance },
				set: func(c *config.Config, v float64) { c.Sensor.FrontDistance = v },
			},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds, rounding integer parameters.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		val := math.Max(spec.Min, math.Min(spec.Max, v[i]))
		if spec.Integer {
			val = math.Round(val)
		}
		clamped[i] = val
	}
	return clamped
}

// ApplyToConfig applies parameter values to a Config struct.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	for i, v := range pv.Clamp(values) {
		pv.Specs[i].set(cfg, v)
	}
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	values := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		values[i] = spec.get(cfg)
	}
	return values
}
