package main

import (
	"log/slog"
	"math"
	"sync"

	"github.com/pthm-cable/micromachine/config"
	"github.com/pthm-cable/micromachine/game"
	"github.com/pthm-cable/micromachine/telemetry"
	"github.com/pthm-cable/micromachine/vehicle"
)

// FitnessEvaluator runs coached headless sessions and scores the autopilot.
type FitnessEvaluator struct {
	params     *ParamVector
	maxTicks   int32
	seeds      []int64
	baseConfig *config.Config

	mu          sync.Mutex
	lastOnRoad  float64 // mean on-road rate from the most recent Evaluate call
	lastSamples int     // examples the coach taught in the most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int32, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:     params,
		maxTicks:   maxTicks,
		seeds:      seeds,
		baseConfig: baseCfg,
	}
}

// LastOnRoad returns the mean autopilot on-road rate from the most recent evaluation.
func (fe *FitnessEvaluator) LastOnRoad() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastOnRoad
}

// LastSamples returns the mean example count from the most recent evaluation.
func (fe *FitnessEvaluator) LastSamples() int {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastSamples
}

// runResult holds the results from a single session.
type runResult struct {
	windows       []telemetry.WindowStats
	trainingCount int
	err           error
}

// Evaluate computes fitness for a parameter vector (lower = better).
// Fitness is the negated autopilot score averaged over seeds.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	results := make([]runResult, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx] = fe.runSession(x, s)
		}(i, seed)
	}
	wg.Wait()

	var totalScore, totalOnRoad float64
	var totalSamples int
	for _, r := range results {
		if r.err != nil {
			slog.Error("session failed", "error", r.err)
			continue
		}
		score, onRoad := autopilotScore(r.windows)
		totalScore += score
		totalOnRoad += onRoad
		totalSamples += r.trainingCount
	}

	n := float64(len(fe.seeds))
	fe.mu.Lock()
	fe.lastOnRoad = totalOnRoad / n
	fe.lastSamples = totalSamples / len(fe.seeds)
	fe.mu.Unlock()

	return -totalScore / n
}

// runSession executes a single coached session to maxTicks.
func (fe *FitnessEvaluator) runSession(x []float64, seed int64) runResult {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)

	var result runResult
	opts := game.DefaultOptions()
	opts.Seed = seed
	opts.Headless = true
	opts.AsyncTraining = false
	opts.StatsCallback = func(stats telemetry.WindowStats) {
		result.windows = append(result.windows, stats)
	}

	g, err := game.NewGame(cfg, opts)
	if err != nil {
		result.err = err
		return result
	}
	defer g.Unload()

	for g.Tick() < fe.maxTicks {
		g.Update()
	}
	result.trainingCount = g.Status().TrainingCount
	return result
}

// copyConfig returns a copy of the base config. Config holds no reference
// types, so a value copy is deep.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	return &cfg
}

// autopilotScore rates the windows driven entirely on autopilot.
// Each window scores its on-road rate times its speed as a fraction of
// full throttle. Sessions that never hand over score zero.
func autopilotScore(windows []telemetry.WindowStats) (score, onRoad float64) {
	var n int
	for _, w := range windows {
		if w.AutopilotTicks == 0 || w.ManualTicks > 0 {
			continue
		}
		pace := w.AutopilotDistance / (float64(w.AutopilotTicks) * vehicle.MaxSpeed)
		score += w.OnRoadRate * clamp01(pace)
		onRoad += w.OnRoadRate
		n++
	}
	if n == 0 {
		return 0, 0
	}
	return score / float64(n), onRoad / float64(n)
}

// clamp01 clamps x to [0, 1].
func clamp01(x float64) float64 {
	return math.Max(0, math.Min(1, x))
}
