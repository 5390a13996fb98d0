package game

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/pthm-cable/micromachine/components"
	"github.com/pthm-cable/micromachine/telemetry"
)

// CommandKind identifies a user command.
type CommandKind uint8

const (
	CmdRotate CommandKind = iota
	CmdAccelerate
	CmdReverse
	CmdDecelerate
	CmdToggleAutopilot
	CmdResetClassifier
	CmdTeach
	CmdSpawnDrone
	CmdClearDrones
)

// String returns the display name for a CommandKind.
func (k CommandKind) String() string {
	switch k {
	case CmdRotate:
		return "rotate"
	case CmdAccelerate:
		return "accelerate"
	case CmdReverse:
		return "reverse"
	case CmdDecelerate:
		return "decelerate"
	case CmdToggleAutopilot:
		return "toggle_autopilot"
	case CmdResetClassifier:
		return "reset_classifier"
	case CmdTeach:
		return "teach"
	case CmdSpawnDrone:
		return "spawn_drone"
	case CmdClearDrones:
		return "clear_drones"
	}
	return "unknown"
}

// Command is a request from the UI or the coach.
// Direction is used by CmdRotate and CmdTeach only.
type Command struct {
	Kind      CommandKind
	Direction components.Direction
}

// Rotate turns the player car.
func Rotate(d components.Direction) Command { return Command{Kind: CmdRotate, Direction: d} }

// Accelerate sets the player to full speed ahead.
func Accelerate() Command { return Command{Kind: CmdAccelerate} }

// Reverse sets the player to full speed backwards.
func Reverse() Command { return Command{Kind: CmdReverse} }

// Decelerate stops the player.
func Decelerate() Command { return Command{Kind: CmdDecelerate} }

// ToggleAutopilot hands the player car to the brain, or takes it back.
func ToggleAutopilot() Command { return Command{Kind: CmdToggleAutopilot} }

// ResetClassifier discards every example and the trained model.
func ResetClassifier() Command { return Command{Kind: CmdResetClassifier} }

// Teach labels the player's current camera reading with d and retrains.
func Teach(d components.Direction) Command { return Command{Kind: CmdTeach, Direction: d} }

// SpawnDrone adds an autopilot car at the start pose.
func SpawnDrone() Command { return Command{Kind: CmdSpawnDrone} }

// ClearDrones removes every drone.
func ClearDrones() Command { return Command{Kind: CmdClearDrones} }

// Apply executes a command.
// Pose commands act on the player immediately and are ignored while the
// autopilot drives. Teach trains synchronously unless AsyncTraining is set.
func (g *Game) Apply(cmd Command) error {
	switch cmd.Kind {
	case CmdRotate, CmdAccelerate, CmdReverse, CmdDecelerate:
		g.drive(cmd)
	case CmdToggleAutopilot:
		g.mu.Lock()
		v := g.vehMap.Get(g.player)
		v.Autopilot = !v.Autopilot
		on := v.Autopilot
		g.mu.Unlock()
		g.logf("Autopilot = %t", on)
	case CmdResetClassifier:
		g.brain.Reset()
		g.logf("Reset")
	case CmdTeach:
		if !cmd.Direction.Valid() {
			return fmt.Errorf("teach: invalid direction %d", cmd.Direction)
		}
		return g.teach(cmd.Direction)
	case CmdSpawnDrone:
		if !g.spawnDrone() {
			g.logf("Drone limit reached (%d)", MaxDrones)
			return nil
		}
		g.logf("Drone spawned")
	case CmdClearDrones:
		n := g.clearDrones()
		g.logf("Cleared %d drones", n)
	default:
		return fmt.Errorf("unknown command %d", cmd.Kind)
	}
	return nil
}

// drive applies a manual pose command to the player.
func (g *Game) drive(cmd Command) {
	g.mu.Lock()
	defer g.mu.Unlock()

	v := g.vehMap.Get(g.player)
	if v.Autopilot {
		return
	}
	switch cmd.Kind {
	case CmdRotate:
		v.Rotate(cmd.Direction)
	case CmdAccelerate:
		v.Accelerate()
	case CmdReverse:
		v.Reverse()
	case CmdDecelerate:
		v.Decelerate()
	}
}

// teach stores the player's current reading under d, then retrains.
func (g *Game) teach(d components.Direction) error {
	g.mu.Lock()
	features := g.camMap.Get(g.player).Sampler.Clone()
	tick := g.tick
	g.collector.RecordTeach()
	g.mu.Unlock()

	if features == nil {
		// Not stepped yet
		features = g.samplePlayer()
	}

	g.brain.AddTrainingData(features, d)
	g.logf("Teach %s", d)

	if !g.asyncTraining {
		return g.train(tick, d)
	}

	g.training.Add(1)
	go func() {
		defer g.training.Done()
		if err := g.train(tick, d); err != nil {
			slog.Error("training failed", "error", err)
		}
	}()
	return nil
}

// train runs one Train and records its outcome.
func (g *Game) train(tick int32, d components.Direction) error {
	start := time.Now()
	res, err := g.brain.Train()
	if err != nil {
		g.logf("Training failed: %v", err)
		return fmt.Errorf("training after teach %s: %w", d, err)
	}

	if res.Discarded {
		slog.Info("training discarded after reset", "result", res)
		return nil
	}

	loss := g.brain.Loss()
	rec := telemetry.NewTrainRecord(g.session, tick, d, res, loss)
	g.recordTrain(rec, res)

	if !res.Converged {
		g.logf("Loss %.2f (not converged)", loss)
	} else {
		g.logf("Loss %.2f", loss)
	}
	slog.Debug("trained", "record", rec, "wall", time.Since(start))
	return nil
}
