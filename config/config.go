// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Track     TrackConfig     `yaml:"track"`
	Car       CarConfig       `yaml:"car"`
	Sensor    SensorConfig    `yaml:"sensor"`
	Neural    NeuralConfig    `yaml:"neural"`
	Physics   PhysicsConfig   `yaml:"physics"`
	Coach     CoachConfig     `yaml:"coach"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// TrackConfig describes the world surface the car drives on.
// An empty Path selects the generated oval track.
type TrackConfig struct {
	Path      string  `yaml:"path"`
	Width     int     `yaml:"width"`      // Generated track width in pixels (0 = screen width)
	Height    int     `yaml:"height"`     // Generated track height in pixels (0 = screen height)
	RoadWidth float64 `yaml:"road_width"` // Generated road width in pixels
}

// CarConfig holds the starting pose and body size of every car.
type CarConfig struct {
	StartX     float64 `yaml:"start_x"`
	StartY     float64 `yaml:"start_y"`
	StartAngle float64 `yaml:"start_angle"` // degrees, 0 = up the screen
	Width      float64 `yaml:"width"`
	Height     float64 `yaml:"height"`
}

// SensorConfig holds camera grid geometry.
// Changing any of these invalidates a trained brain.
type SensorConfig struct {
	HalfWidth     int     `yaml:"half_width"`     // Columns run from -HalfWidth to HalfWidth-1
	Height        int     `yaml:"height"`         // Rows run from 0 to Height-1
	XDensity      float64 `yaml:"x_density"`      // Samples per world unit across
	YDensity      float64 `yaml:"y_density"`      // Samples per world unit ahead
	FrontDistance float64 `yaml:"front_distance"` // Forward shift from the car's front edge
	OutOfBounds   float64 `yaml:"out_of_bounds"`  // Intensity used for samples off the surface
}

// NeuralConfig holds classifier training parameters.
type NeuralConfig struct {
	LearningRate         float64 `yaml:"learning_rate"`
	ConvergenceThreshold float64 `yaml:"convergence_threshold"` // Stop when |prev loss - loss| <= this
	MaxIterations        int     `yaml:"max_iterations"`        // Hard cap on gradient steps per Train
	Seed                 int64   `yaml:"seed"`                  // Weight init seed (0 = time-based)
}

// PhysicsConfig holds integration parameters.
type PhysicsConfig struct {
	DT float64 `yaml:"dt"` // Steps per tick; 1 = one kinematics step per frame
}

// CoachConfig drives the scripted demonstrator used in headless runs.
type CoachConfig struct {
	Ticks      int `yaml:"ticks"`       // Ticks of coached driving before handing over to autopilot
	TeachEvery int `yaml:"teach_every"` // Ticks between Teach commands while coaching
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	PerfWindow  int `yaml:"perf_window"`
	StatsWindow int `yaml:"stats_window"` // Ticks per driving stats window
	LogLines    int `yaml:"log_lines"`    // Messages kept in the on-screen log
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	TotalPoints int // Sensor.HalfWidth * 2 * Sensor.Height
	TrackW      int // Effective generated track width
	TrackH      int // Effective generated track height
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// validate rejects geometry the sensor and trainer cannot work with.
func (c *Config) validate() error {
	if c.Sensor.HalfWidth <= 0 || c.Sensor.Height <= 0 {
		return fmt.Errorf("sensor grid must be non-empty, got half_width=%d height=%d",
			c.Sensor.HalfWidth, c.Sensor.Height)
	}
	if c.Sensor.XDensity <= 0 || c.Sensor.YDensity <= 0 {
		return fmt.Errorf("sensor densities must be positive, got x=%g y=%g",
			c.Sensor.XDensity, c.Sensor.YDensity)
	}
	if c.Sensor.OutOfBounds < 0 || c.Sensor.OutOfBounds > 1 {
		return fmt.Errorf("sensor.out_of_bounds must be in [0,1], got %g", c.Sensor.OutOfBounds)
	}
	if c.Neural.MaxIterations <= 0 {
		return fmt.Errorf("neural.max_iterations must be positive, got %d", c.Neural.MaxIterations)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.TotalPoints = c.Sensor.HalfWidth * 2 * c.Sensor.Height

	// Track dimensions default to screen size if not specified
	c.Derived.TrackW = c.Track.Width
	if c.Derived.TrackW == 0 {
		c.Derived.TrackW = c.Screen.Width
	}
	c.Derived.TrackH = c.Track.Height
	if c.Derived.TrackH == 0 {
		c.Derived.TrackH = c.Screen.Height
	}
	if c.Physics.DT <= 0 {
		c.Physics.DT = 1
	}
	if c.Telemetry.StatsWindow <= 0 {
		c.Telemetry.StatsWindow = 600
	}
	if c.Telemetry.LogLines <= 0 {
		c.Telemetry.LogLines = 5
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
