package telemetry

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pthm-cable/micromachine/components"
)

func TestCollectorFlush(t *testing.T) {
	c := NewCollector("s1", 10)

	c.RecordDecision(Decision{Distance: 3, OnRoad: true})
	c.RecordDecision(Decision{Autopilot: true, Direction: components.Left, Confidence: 0.8, Distance: 3, OnRoad: true})
	c.RecordDecision(Decision{Autopilot: true, Direction: components.Right, Confidence: 0.6, Distance: 3})
	c.RecordDecision(Decision{Autopilot: true, Direction: components.Right, Confidence: 0.7, Distance: 3, OnRoad: true})
	c.RecordEvalError()
	c.RecordTeach()
	c.RecordTeach()
	c.RecordTrain(true)
	c.RecordTrain(false)

	assert.False(t, c.ShouldFlush(9))
	assert.True(t, c.ShouldFlush(10))

	s := c.Flush(10, 2, 7, 0.31)

	assert.Equal(t, "s1", s.SessionID)
	assert.Equal(t, int32(0), s.WindowStartTick)
	assert.Equal(t, int32(10), s.WindowEndTick)
	assert.Equal(t, 2, s.Cars)
	assert.Equal(t, 1, s.ManualTicks)
	assert.Equal(t, 3, s.AutopilotTicks)
	assert.Equal(t, 1, s.Lefts)
	assert.Equal(t, 2, s.Rights)
	assert.Equal(t, 0, s.Straights)
	assert.Equal(t, 1, s.EvalErrors)
	assert.InDelta(t, 3.0, s.ManualDistance, 1e-9)
	assert.InDelta(t, 9.0, s.AutopilotDistance, 1e-9)
	assert.InDelta(t, 0.75, s.OnRoadRate, 1e-9)
	assert.Equal(t, 2, s.Teaches)
	assert.Equal(t, 2, s.Trains)
	assert.Equal(t, 1, s.NotConverged)
	assert.Equal(t, 7, s.TrainingCount)
	assert.InDelta(t, 0.31, s.Loss, 1e-9)
	assert.InDelta(t, 0.7, s.ConfidenceMean, 1e-9)
	assert.InDelta(t, 0.7, s.ConfidenceP50, 1e-9)
}

func TestCollectorResetsAfterFlush(t *testing.T) {
	c := NewCollector("s1", 5)
	c.RecordDecision(Decision{Autopilot: true, Direction: components.Straight, Confidence: 1, Distance: 3})
	c.RecordTeach()
	c.Flush(5, 1, 1, 0)

	assert.False(t, c.ShouldFlush(9))
	s := c.Flush(10, 1, 1, 0)

	assert.Equal(t, int32(5), s.WindowStartTick)
	assert.Zero(t, s.AutopilotTicks)
	assert.Zero(t, s.Straights)
	assert.Zero(t, s.Teaches)
	assert.Zero(t, s.AutopilotDistance)
	assert.Zero(t, s.OnRoadRate)
	assert.Zero(t, s.ConfidenceMean)
}

func TestCollectorMinimumWindow(t *testing.T) {
	c := NewCollector("s1", 0)
	assert.Equal(t, int32(1), c.WindowDurationTicks())
}
