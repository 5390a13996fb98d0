// Package game runs a driving session: cars on a track, the shared brain,
// and the commands that teach it. It has no graphics dependency.
package game

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/micromachine/components"
	"github.com/pthm-cable/micromachine/config"
	"github.com/pthm-cable/micromachine/neural"
	"github.com/pthm-cable/micromachine/sensor"
	"github.com/pthm-cable/micromachine/telemetry"
	"github.com/pthm-cable/micromachine/track"
	"github.com/pthm-cable/micromachine/vehicle"
)

// Game holds the complete session state.
//
// mu serialises the ECS world: filling camera buffers, pose changes,
// clone-for-storage and inference. Grid enumeration and training run outside it.
//
// stepMu serialises sensing passes and guards projections, which are computed
// without mu. Lock order is stepMu, then mu.
type Game struct {
	mu          sync.Mutex
	stepMu      sync.Mutex
	projections map[uint32]*projection

	cfg   *config.Config
	world *ecs.World

	carMapper *ecs.Map4[
		vehicle.Vehicle,
		components.Camera,
		components.Driver,
		components.Odometer,
	]
	carFilter *ecs.Filter4[
		vehicle.Vehicle,
		components.Camera,
		components.Driver,
		components.Odometer,
	]

	// Individual component mappers for lookups
	vehMap *ecs.Map1[vehicle.Vehicle]
	camMap *ecs.Map1[components.Camera]
	drvMap *ecs.Map1[components.Driver]
	odoMap *ecs.Map1[components.Odometer]

	player ecs.Entity
	track  *track.Track
	grid   *sensor.RectangularGrid
	brain  *neural.Brain

	// Player's last classifier output, for the HUD
	playerProbs [neural.NumOutputs]float64
	playerDir   components.Direction
	probsValid  bool

	// State
	tick           int32
	nextID         uint32
	numDrones      int
	stepsPerUpdate int
	headless       bool
	coach          *Coach
	coachDone      bool

	// Training
	asyncTraining bool
	training      sync.WaitGroup

	logs *LogRing

	// Telemetry
	session       string
	collector     *telemetry.Collector
	perfCollector *telemetry.PerfCollector
	outputManager *telemetry.OutputManager
	logStats      bool
	statsCallback func(telemetry.WindowStats)
}

// NewGame creates a session with one player car at the configured start pose.
func NewGame(cfg *config.Config, opts Options) (*Game, error) {
	grid, err := sensor.NewGridFromConfig(cfg.Sensor)
	if err != nil {
		return nil, fmt.Errorf("building sensor grid: %w", err)
	}

	trk, err := loadTrack(cfg.Track, cfg.Derived)
	if err != nil {
		return nil, err
	}

	nopts := neural.OptionsFromConfig(cfg.Neural)
	if opts.Seed != 0 {
		nopts.Seed = opts.Seed
	}

	steps := opts.StepsPerUpdate
	if steps < 1 {
		steps = 1
	}

	world := ecs.NewWorld()
	session := telemetry.NewSessionID()

	g := &Game{
		cfg:         cfg,
		world:       world,
		projections: make(map[uint32]*projection),
		carMapper: ecs.NewMap4[
			vehicle.Vehicle,
			components.Camera,
			components.Driver,
			components.Odometer,
		](world),
		carFilter: ecs.NewFilter4[
			vehicle.Vehicle,
			components.Camera,
			components.Driver,
			components.Odometer,
		](world),
		vehMap:         ecs.NewMap1[vehicle.Vehicle](world),
		camMap:         ecs.NewMap1[components.Camera](world),
		drvMap:         ecs.NewMap1[components.Driver](world),
		odoMap:         ecs.NewMap1[components.Odometer](world),
		track:          trk,
		grid:           grid,
		brain:          neural.NewBrain(grid.TotalPoints(), nopts),
		stepsPerUpdate: steps,
		headless:       opts.Headless,
		coach:          NewCoach(grid, cfg.Coach),
		asyncTraining:  opts.AsyncTraining,
		logs:           NewLogRing(cfg.Telemetry.LogLines),
		session:        session,
		collector:      telemetry.NewCollector(session, int32(cfg.Telemetry.StatsWindow)),
		perfCollector:  telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		logStats:       opts.LogStats,
		statsCallback:  opts.StatsCallback,
	}

	g.outputManager, err = telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("creating output: %w", err)
	}
	if err := g.outputManager.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config snapshot", "error", err)
	}

	g.player = g.spawnCar(components.DriverPlayer, false)

	g.brain.OnChange(func(s neural.Status) {
		slog.Debug("brain changed", "loss", s.Loss, "training_count", s.TrainingCount)
	})

	slog.Info("session started",
		"session", session,
		"track_w", trk.Width(),
		"track_h", trk.Height(),
		"inputs", grid.TotalPoints(),
		"seed", nopts.Seed,
	)

	return g, nil
}

// loadTrack loads the configured track image, or generates the default oval.
func loadTrack(cfg config.TrackConfig, derived config.DerivedConfig) (*track.Track, error) {
	if cfg.Path != "" {
		t, err := track.Load(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("loading track: %w", err)
		}
		return t, nil
	}
	t, err := track.Generate(derived.TrackW, derived.TrackH, cfg.RoadWidth)
	if err != nil {
		return nil, fmt.Errorf("generating track: %w", err)
	}
	return t, nil
}

// Update runs StepsPerUpdate ticks. In headless mode the coach drives the
// player before each tick.
func (g *Game) Update() {
	for i := 0; i < g.stepsPerUpdate; i++ {
		if g.headless {
			g.runCoach()
		}
		g.Step()
	}
}

// Step advances every car by one tick: sense, decide, integrate.
func (g *Game) Step() {
	g.stepMu.Lock()
	defer g.stepMu.Unlock()

	g.mu.Lock()
	poses := g.posesLocked()
	g.mu.Unlock()

	projectStart := time.Now()
	g.project(poses, true)
	projectTime := time.Since(projectStart)

	g.mu.Lock()
	defer g.mu.Unlock()

	dt := g.cfg.Physics.DT
	g.perfCollector.StartTick()
	g.perfCollector.AddPhase(telemetry.PhaseSense, projectTime)

	query := g.carFilter.Query()
	for query.Next() {
		entity := query.Entity()
		v, cam, drv, odo := query.Get()
		isPlayer := entity == g.player

		g.perfCollector.StartPhase(telemetry.PhaseSense)
		features := g.senseLocked(drv.ID, v, cam)

		g.perfCollector.StartPhase(telemetry.PhaseDecide)
		decision := telemetry.Decision{Autopilot: v.Autopilot}
		if v.Autopilot {
			pilot := &confidencePilot{brain: g.brain}
			d, err := v.Autodrive(pilot, features)
			if err != nil {
				g.collector.RecordEvalError()
				slog.Error("autopilot evaluation failed", "car", drv.ID, "error", err)
				v.Decelerate()
			} else {
				decision.Direction = d
				decision.Confidence = pilot.probs[d]
			}
			if isPlayer {
				g.playerProbs, g.playerDir, g.probsValid = pilot.probs, d, err == nil
			}
		} else if isPlayer {
			g.updatePlayerProbs(features)
		}

		g.perfCollector.StartPhase(telemetry.PhaseIntegrate)
		dist := v.Integrate(dt)
		if v.Autopilot {
			odo.Autopilot += dist
		} else {
			odo.Manual += dist
		}
		odo.Ticks++

		cx, cy := v.Center()
		decision.Distance = dist
		decision.OnRoad = g.track.OnRoad(cx, cy)
		g.collector.RecordDecision(decision)
	}

	g.tick++

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.flushTelemetry()
	g.perfCollector.EndTick()
}

// updatePlayerProbs refreshes the HUD confidence while driving manually.
func (g *Game) updatePlayerProbs(features []float32) {
	probs, err := g.brain.Probabilities(features)
	if err != nil {
		g.probsValid = false
		return
	}
	g.playerProbs = probs
	g.playerDir = neural.Decode(probs)
	g.probsValid = true
}

// confidencePilot evaluates with the brain and keeps the probabilities it saw.
type confidencePilot struct {
	brain *neural.Brain
	probs [neural.NumOutputs]float64
}

func (p *confidencePilot) Evaluate(features []float32) (components.Direction, error) {
	probs, err := p.brain.Probabilities(features)
	if err != nil {
		return components.Straight, err
	}
	p.probs = probs
	return neural.Decode(probs), nil
}

// Wait blocks until background training has finished.
func (g *Game) Wait() {
	g.training.Wait()
}

// Unload waits for training and closes telemetry output.
func (g *Game) Unload() {
	g.Wait()
	if err := g.outputManager.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}

// Tick returns the current simulation tick.
func (g *Game) Tick() int32 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.tick
}

// Brain returns the shared classifier.
func (g *Game) Brain() *neural.Brain {
	return g.brain
}

// Track returns the driving surface.
func (g *Game) Track() *track.Track {
	return g.track
}

// Grid returns the camera grid shared by every car.
func (g *Game) Grid() *sensor.RectangularGrid {
	return g.grid
}

// Session returns the telemetry session ID.
func (g *Game) Session() string {
	return g.session
}

// Logs returns the recent log messages, oldest first.
func (g *Game) Logs() []string {
	return g.logs.Lines()
}

// PerfStats returns rolling step timings.
func (g *Game) PerfStats() telemetry.PerfStats {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.perfCollector.Stats()
}

// RecordFrame records render frame timing for the perf collector.
func (g *Game) RecordFrame() {
	g.mu.Lock()
	g.perfCollector.RecordFrame()
	g.mu.Unlock()
}
