package game

import (
	"github.com/pthm-cable/micromachine/components"
	"github.com/pthm-cable/micromachine/config"
	"github.com/pthm-cable/micromachine/sensor"
	"github.com/pthm-cable/micromachine/track"
)

// minRoadLead is how many more road samples one side needs before the coach turns.
const minRoadLead = 3

// Coach is a scripted demonstrator for headless runs. It keeps the car on
// the road by steering toward the half of the camera that sees more road,
// and teaches the brain what it did.
type Coach struct {
	columns    int
	ticks      int32
	teachEvery int32

	// Intensities in (roadMin, roadMax) read as road
	roadMin float32
	roadMax float32
}

// NewCoach creates a coach for readings laid out by grid.
func NewCoach(grid sensor.Grid, cfg config.CoachConfig) *Coach {
	road := sensor.Grayscale(track.RoadColor.R, track.RoadColor.G, track.RoadColor.B)
	grass := sensor.Grayscale(track.GrassColor.R, track.GrassColor.G, track.GrassColor.B)

	teachEvery := cfg.TeachEvery
	if teachEvery < 1 {
		teachEvery = 1
	}
	return &Coach{
		columns:    grid.Columns(),
		ticks:      int32(cfg.Ticks),
		teachEvery: int32(teachEvery),
		roadMin:    road / 4,
		roadMax:    (road + grass) / 2,
	}
}

// Active reports whether the coach still drives at tick.
func (c *Coach) Active(tick int32) bool {
	return tick < c.ticks
}

// ShouldTeach reports whether the coach teaches at tick.
func (c *Coach) ShouldTeach(tick int32) bool {
	return c.Active(tick) && tick%c.teachEvery == 0
}

// Decide picks a direction from one reading.
// Columns left of the car's center line are the first half of every row.
func (c *Coach) Decide(features []float32) components.Direction {
	half := c.columns / 2
	var left, right int
	for idx, v := range features {
		if v <= c.roadMin || v >= c.roadMax {
			continue
		}
		if idx%c.columns < half {
			left++
		} else {
			right++
		}
	}

	switch {
	case left >= right+minRoadLead:
		return components.Left
	case right >= left+minRoadLead:
		return components.Right
	}
	return components.Straight
}

// runCoach drives and teaches the player for one tick, then hands over to the
// autopilot once the coached ticks are used up.
func (g *Game) runCoach() {
	tick := g.Tick()

	if !g.coach.Active(tick) {
		if !g.coachDone {
			g.coachDone = true
			if !g.Player().Autopilot {
				g.logf("Coach handing over after %d ticks", tick)
				g.apply(ToggleAutopilot())
			}
		}
		return
	}

	features := g.PlayerFeatures()
	d := g.coach.Decide(features)

	if g.coach.ShouldTeach(tick) {
		g.apply(Teach(d))
	}
	g.apply(Rotate(d))
	g.apply(Accelerate())
}

// apply runs a command issued internally and logs failures.
func (g *Game) apply(cmd Command) {
	if err := g.Apply(cmd); err != nil {
		g.logf("%s failed: %v", cmd.Kind, err)
	}
}
