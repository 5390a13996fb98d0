package telemetry

import (
	"log/slog"
	"sort"
)

// WindowStats holds aggregated driving statistics for a window of ticks.
type WindowStats struct {
	SessionID       string `csv:"session"`
	WindowStartTick int32  `csv:"-"`
	WindowEndTick   int32  `csv:"window_end"`

	// Cars alive at window end
	Cars int `csv:"cars"`

	// Decisions during window
	ManualTicks    int `csv:"manual_ticks"`
	AutopilotTicks int `csv:"autopilot_ticks"`
	Lefts          int `csv:"lefts"`
	Straights      int `csv:"straights"`
	Rights         int `csv:"rights"`
	EvalErrors     int `csv:"eval_errors"`

	// Distance covered during window, all cars
	ManualDistance    float64 `csv:"manual_distance"`
	AutopilotDistance float64 `csv:"autopilot_distance"`

	// Fraction of car-ticks spent with the body center on the road
	OnRoadRate float64 `csv:"on_road_rate"`

	// Teaching
	Teaches       int     `csv:"teaches"`
	Trains        int     `csv:"trains"`
	NotConverged  int     `csv:"not_converged"`
	TrainingCount int     `csv:"training_count"`
	Loss          float64 `csv:"loss"`

	// Winning-class probability of autopilot decisions
	ConfidenceMean float64 `csv:"confidence_mean"`
	ConfidenceP10  float64 `csv:"confidence_p10"`
	ConfidenceP50  float64 `csv:"confidence_p50"`
	ConfidenceP90  float64 `csv:"confidence_p90"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeDistribution calculates mean and percentiles from values.
func ComputeDistribution(values []float64) (mean, p10, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	mean = sum / float64(n)

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	p10 = Percentile(sorted, 0.10)
	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)

	return mean, p10, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Int("cars", s.Cars),
		slog.Int("manual_ticks", s.ManualTicks),
		slog.Int("autopilot_ticks", s.AutopilotTicks),
		slog.Int("lefts", s.Lefts),
		slog.Int("straights", s.Straights),
		slog.Int("rights", s.Rights),
		slog.Int("eval_errors", s.EvalErrors),
		slog.Float64("manual_distance", s.ManualDistance),
		slog.Float64("autopilot_distance", s.AutopilotDistance),
		slog.Float64("on_road_rate", s.OnRoadRate),
		slog.Int("teaches", s.Teaches),
		slog.Int("trains", s.Trains),
		slog.Int("not_converged", s.NotConverged),
		slog.Int("training_count", s.TrainingCount),
		slog.Float64("loss", s.Loss),
		slog.Float64("confidence_mean", s.ConfidenceMean),
		slog.Float64("confidence_p50", s.ConfidenceP50),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"cars", s.Cars,
		"autopilot_ticks", s.AutopilotTicks,
		"autopilot_distance", s.AutopilotDistance,
		"on_road_rate", s.OnRoadRate,
		"teaches", s.Teaches,
		"trains", s.Trains,
		"training_count", s.TrainingCount,
		"loss", s.Loss,
		"confidence_mean", s.ConfidenceMean,
	)
}
