package game

import "github.com/pthm-cable/micromachine/telemetry"

// MaxDrones caps the number of autopilot drones alive at once.
const MaxDrones = 16

// Options holds configuration for game initialization.
type Options struct {
	Seed           int64  // Brain init seed (0 = neural.seed from config)
	LogStats       bool   // Emit window and perf stats via slog
	OutputDir      string // CSV and config snapshot directory (empty = disabled)
	Headless       bool   // Coach drives the player; no raylib
	StepsPerUpdate int    // Simulation ticks per Update call
	AsyncTraining  bool   // Train in a background goroutine after Teach

	// StatsCallback receives every flushed stats window.
	StatsCallback func(telemetry.WindowStats)
}

// DefaultOptions returns options for an interactive session.
func DefaultOptions() Options {
	return Options{
		StepsPerUpdate: 1,
		AsyncTraining:  true,
	}
}
