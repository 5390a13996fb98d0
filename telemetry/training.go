package telemetry

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/pthm-cable/micromachine/components"
	"github.com/pthm-cable/micromachine/neural"
)

// NewSessionID returns a fresh identifier that tags every row written in one run.
func NewSessionID() string {
	return uuid.NewString()
}

// TrainRecord is one Teach: the stored label and the retraining that followed it.
type TrainRecord struct {
	SessionID   string  `csv:"session"`
	Tick        int32   `csv:"tick"`
	Label       string  `csv:"label"`
	Examples    int     `csv:"examples"`
	Iterations  int     `csv:"iterations"`
	Loss        float64 `csv:"loss"`         // Final unrounded loss
	DisplayLoss float64 `csv:"display_loss"` // Loss as reported by the brain
	Converged   bool    `csv:"converged"`
	Discarded   bool    `csv:"discarded"`
	DurationUS  int64   `csv:"duration_us"`
}

// NewTrainRecord flattens a training result for export.
func NewTrainRecord(session string, tick int32, label components.Direction, res neural.TrainResult, displayLoss float64) TrainRecord {
	return TrainRecord{
		SessionID:   session,
		Tick:        tick,
		Label:       label.String(),
		Examples:    res.Examples,
		Iterations:  res.Iterations,
		Loss:        res.Loss,
		DisplayLoss: displayLoss,
		Converged:   res.Converged,
		Discarded:   res.Discarded,
		DurationUS:  res.Duration.Microseconds(),
	}
}

// LogValue implements slog.LogValuer for structured logging.
func (r TrainRecord) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("tick", int(r.Tick)),
		slog.String("label", r.Label),
		slog.Int("examples", r.Examples),
		slog.Int("iterations", r.Iterations),
		slog.Float64("loss", r.DisplayLoss),
		slog.Bool("converged", r.Converged),
		slog.Bool("discarded", r.Discarded),
		slog.Int64("duration_us", r.DurationUS),
	)
}
