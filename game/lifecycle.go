package game

import (
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/micromachine/components"
	"github.com/pthm-cable/micromachine/sensor"
	"github.com/pthm-cable/micromachine/vehicle"
)

// spawnCar creates a car at the configured start pose with its own camera.
// g.mu must be held, or the game not yet shared.
func (g *Game) spawnCar(kind components.DriverKind, autopilot bool) ecs.Entity {
	car := g.cfg.Car

	id := g.nextID
	g.nextID++

	v := vehicle.New(car.StartX, car.StartY, car.StartAngle, car.Width, car.Height)
	v.Autopilot = autopilot
	cam := components.Camera{Sampler: sensor.NewSampler(g.grid, g.cfg.Sensor.OutOfBounds)}
	drv := components.Driver{Kind: kind, ID: id}
	odo := components.Odometer{}

	return g.carMapper.NewEntity(&v, &cam, &drv, &odo)
}

// spawnDrone adds an autopilot car sharing the brain.
// Returns false when MaxDrones are already alive.
func (g *Game) spawnDrone() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.numDrones >= MaxDrones {
		return false
	}
	g.spawnCar(components.DriverDrone, true)
	g.numDrones++
	return true
}

// clearDrones removes every drone and returns how many were removed.
func (g *Game) clearDrones() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	// Collect first; the world is locked while a query is open
	var drones []ecs.Entity
	query := g.carFilter.Query()
	for query.Next() {
		_, _, drv, _ := query.Get()
		if drv.Kind == components.DriverDrone {
			drones = append(drones, query.Entity())
		}
	}

	for _, e := range drones {
		g.world.RemoveEntity(e)
	}
	g.numDrones = 0

	if len(drones) > 0 {
		slog.Debug("drones cleared", "count", len(drones))
	}
	return len(drones)
}
