// Package telemetry provides driving statistics, training records and performance tracking.
package telemetry

import "github.com/pthm-cable/micromachine/components"

// Collector accumulates per-tick observations within windows and produces WindowStats.
type Collector struct {
	session             string
	windowDurationTicks int32

	// Current window tracking
	windowStartTick int32

	// Counters for current window
	manualTicks       int
	autopilotTicks    int
	directions        [components.NumDirections]int
	evalErrors        int
	manualDistance    float64
	autopilotDistance float64
	carTicks          int
	onRoadTicks       int
	teaches           int
	trains            int
	notConverged      int
	confidences       []float64
}

// NewCollector creates a new stats collector that flushes every windowTicks ticks.
func NewCollector(session string, windowTicks int32) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{
		session:             session,
		windowDurationTicks: windowTicks,
	}
}

// Decision is one car's outcome for one tick.
type Decision struct {
	Autopilot  bool
	Direction  components.Direction
	Confidence float64 // Winning-class probability; autopilot only
	Distance   float64
	OnRoad     bool
}

// RecordDecision records one car-tick.
func (c *Collector) RecordDecision(d Decision) {
	c.carTicks++
	if d.OnRoad {
		c.onRoadTicks++
	}
	if d.Autopilot {
		c.autopilotTicks++
		c.autopilotDistance += d.Distance
		if d.Direction.Valid() {
			c.directions[d.Direction]++
		}
		c.confidences = append(c.confidences, d.Confidence)
		return
	}
	c.manualTicks++
	c.manualDistance += d.Distance
}

// RecordEvalError records an autopilot tick where the classifier refused the input.
func (c *Collector) RecordEvalError() {
	c.evalErrors++
}

// RecordTeach records a stored example.
func (c *Collector) RecordTeach() {
	c.teaches++
}

// RecordTrain records a completed Train.
func (c *Collector) RecordTrain(converged bool) {
	c.trains++
	if !converged {
		c.notConverged++
	}
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces a WindowStats and resets counters for the next window.
// cars, trainingCount and loss are sampled by the caller at window end.
func (c *Collector) Flush(currentTick int32, cars, trainingCount int, loss float64) WindowStats {
	var onRoadRate float64
	if c.carTicks > 0 {
		onRoadRate = float64(c.onRoadTicks) / float64(c.carTicks)
	}
	confMean, confP10, confP50, confP90 := ComputeDistribution(c.confidences)

	stats := WindowStats{
		SessionID:       c.session,
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,

		Cars: cars,

		ManualTicks:    c.manualTicks,
		AutopilotTicks: c.autopilotTicks,
		Straights:      c.directions[components.Straight],
		Lefts:          c.directions[components.Left],
		Rights:         c.directions[components.Right],
		EvalErrors:     c.evalErrors,

		ManualDistance:    c.manualDistance,
		AutopilotDistance: c.autopilotDistance,
		OnRoadRate:        onRoadRate,

		Teaches:       c.teaches,
		Trains:        c.trains,
		NotConverged:  c.notConverged,
		TrainingCount: trainingCount,
		Loss:          loss,

		ConfidenceMean: confMean,
		ConfidenceP10:  confP10,
		ConfidenceP50:  confP50,
		ConfidenceP90:  confP90,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.manualTicks = 0
	c.autopilotTicks = 0
	c.directions = [components.NumDirections]int{}
	c.evalErrors = 0
	c.manualDistance = 0
	c.autopilotDistance = 0
	c.carTicks = 0
	c.onRoadTicks = 0
	c.teaches = 0
	c.trains = 0
	c.notConverged = 0
	c.confidences = c.confidences[:0]

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
