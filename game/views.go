package game

import (
	"github.com/pthm-cable/micromachine/components"
	"github.com/pthm-cable/micromachine/neural"
	"github.com/pthm-cable/micromachine/sensor"
	"github.com/pthm-cable/micromachine/vehicle"
)

// CarView is a read-only snapshot of one car.
type CarView struct {
	ID        uint32
	Kind      components.DriverKind
	Frame     sensor.Frame
	Throttle  vehicle.Throttle
	Autopilot bool
	Odometer  components.Odometer
}

// Status is a snapshot of the session for the HUD.
type Status struct {
	Tick          int32
	Cars          int
	Drones        int
	Autopilot     bool
	Loss          float64
	TrainingCount int

	// Player classifier output on the latest reading; valid once the player was stepped
	Probs      [neural.NumOutputs]float64
	Decision   components.Direction
	ProbsValid bool
}

// Cars returns a snapshot of every car, player first.
func (g *Game) Cars() []CarView {
	g.mu.Lock()
	defer g.mu.Unlock()

	views := make([]CarView, 0, g.numDrones+1)
	if g.world.Alive(g.player) {
		views = append(views, g.playerViewLocked())
	}

	query := g.carFilter.Query()
	for query.Next() {
		if query.Entity() == g.player {
			continue
		}
		v, _, drv, odo := query.Get()
		views = append(views, carView(v, drv, odo))
	}
	return views
}

func carView(v *vehicle.Vehicle, drv *components.Driver, odo *components.Odometer) CarView {
	return CarView{
		ID:        drv.ID,
		Kind:      drv.Kind,
		Frame:     v.Frame(),
		Throttle:  v.Throttle(),
		Autopilot: v.Autopilot,
		Odometer:  *odo,
	}
}

// Player returns a snapshot of the player car.
func (g *Game) Player() CarView {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.playerViewLocked()
}

func (g *Game) playerViewLocked() CarView {
	return carView(g.vehMap.Get(g.player), g.drvMap.Get(g.player), g.odoMap.Get(g.player))
}

// PlayerFeatures samples the player's camera and returns a copy of the reading.
func (g *Game) PlayerFeatures() []float32 {
	return g.samplePlayer()
}

// Status returns a snapshot of the session.
func (g *Game) Status() Status {
	bs := g.brain.Status()

	g.mu.Lock()
	defer g.mu.Unlock()

	v := g.vehMap.Get(g.player)
	return Status{
		Tick:          g.tick,
		Cars:          g.numDrones + 1,
		Drones:        g.numDrones,
		Autopilot:     v.Autopilot,
		Loss:          bs.Loss,
		TrainingCount: bs.TrainingCount,
		Probs:         g.playerProbs,
		Decision:      g.playerDir,
		ProbsValid:    g.probsValid,
	}
}
