package game

import (
	"github.com/pthm-cable/micromachine/components"
	"github.com/pthm-cable/micromachine/sensor"
	"github.com/pthm-cable/micromachine/vehicle"
)

// projection is a car's camera grid laid onto the surface for one pose.
type projection struct {
	frame  sensor.Frame
	points []sensor.Point
}

// carPose identifies a car's pose at the time it was read.
type carPose struct {
	id    uint32
	frame sensor.Frame
}

// posesLocked reads every car's pose. g.mu must be held.
func (g *Game) posesLocked() []carPose {
	poses := make([]carPose, 0, g.numDrones+1)
	query := g.carFilter.Query()
	for query.Next() {
		v, _, drv, _ := query.Get()
		poses = append(poses, carPose{id: drv.ID, frame: v.Frame()})
	}
	return poses
}

// project enumerates the grid for each pose without holding g.mu.
// g.stepMu must be held. With prune set, projections of cars not in poses are dropped.
func (g *Game) project(poses []carPose, prune bool) {
	for _, cp := range poses {
		p := g.projections[cp.id]
		if p == nil {
			p = &projection{}
			g.projections[cp.id] = p
		}
		p.frame = cp.frame
		p.points = sensor.Project(g.grid, cp.frame, cp.frame.Pose(), p.points)
	}
	if !prune {
		return
	}

	live := make(map[uint32]struct{}, len(poses))
	for _, cp := range poses {
		live[cp.id] = struct{}{}
	}
	for id := range g.projections {
		if _, ok := live[id]; !ok {
			delete(g.projections, id)
		}
	}
}

// senseLocked fills the car's camera buffer from its projection. A car that
// moved or appeared since it was projected is projected again here.
// g.mu and g.stepMu must be held.
func (g *Game) senseLocked(id uint32, v *vehicle.Vehicle, cam *components.Camera) []float32 {
	frame := v.Frame()
	if p, ok := g.projections[id]; ok && p.frame == frame {
		return cam.Sampler.Fill(p.points, g.track)
	}
	return cam.Sampler.Sample(frame, frame.Pose(), g.track)
}

// samplePlayer refreshes the player's camera buffer and returns a copy.
func (g *Game) samplePlayer() []float32 {
	g.stepMu.Lock()
	defer g.stepMu.Unlock()

	g.mu.Lock()
	drv := g.drvMap.Get(g.player)
	pose := carPose{id: drv.ID, frame: g.vehMap.Get(g.player).Frame()}
	g.mu.Unlock()

	g.project([]carPose{pose}, false)

	g.mu.Lock()
	defer g.mu.Unlock()
	cam := g.camMap.Get(g.player)
	g.senseLocked(pose.id, g.vehMap.Get(g.player), cam)
	return cam.Sampler.Clone()
}
