package game

import (
	"log/slog"

	"github.com/pthm-cable/micromachine/neural"
	"github.com/pthm-cable/micromachine/telemetry"
)

// recordTrain feeds a completed Train into the stats window, perf and train.csv.
func (g *Game) recordTrain(rec telemetry.TrainRecord, res neural.TrainResult) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.collector.RecordTrain(res.Converged)
	g.perfCollector.AddPhase(telemetry.PhaseTrain, res.Duration)

	if g.logStats {
		slog.Info("train", "record", rec)
	}
	if err := g.outputManager.WriteTrain(rec); err != nil {
		slog.Error("failed to write train record", "error", err)
	}
}

// flushTelemetry checks if the stats window should be flushed. g.mu must be held.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	bs := g.brain.Status()
	stats := g.collector.Flush(g.tick, g.numDrones+1, bs.TrainingCount, bs.Loss)
	perfStats := g.perfCollector.Stats()

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if err := g.outputManager.WriteTelemetry(stats); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}
	if err := g.outputManager.WritePerf(g.session, perfStats, stats.WindowEndTick); err != nil {
		slog.Error("failed to write perf", "error", err)
	}
}
