package neural

import "github.com/pthm-cable/micromachine/config"

// Options holds training parameters.
type Options struct {
	LearningRate         float64
	ConvergenceThreshold float64 // Stop when |prev loss - loss| <= this
	MaxIterations        int     // Hard cap on gradient steps per Train
	Seed                 int64
}

// DefaultOptions returns the training parameters the simulation ships with.
func DefaultOptions() Options {
	return Options{
		LearningRate:         0.1,
		ConvergenceThreshold: 0.01,
		MaxIterations:        5000,
		Seed:                 42,
	}
}

// OptionsFromConfig converts neural configuration to Options.
// Zero values fall back to DefaultOptions.
func OptionsFromConfig(cfg config.NeuralConfig) Options {
	opts := DefaultOptions()
	if cfg.LearningRate > 0 {
		opts.LearningRate = cfg.LearningRate
	}
	if cfg.ConvergenceThreshold > 0 {
		opts.ConvergenceThreshold = cfg.ConvergenceThreshold
	}
	if cfg.MaxIterations > 0 {
		opts.MaxIterations = cfg.MaxIterations
	}
	opts.Seed = cfg.Seed
	return opts
}
