package ui

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/micromachine/camera"
	"github.com/pthm-cable/micromachine/game"
)

const (
	previewScale    = 5
	followSmoothing = 0.15
	panelWidth      = 240

	controlsLegend = "Arrows: drive | Z/X/C: teach L/S/R | A: autopilot | Bksp: reset | D: drone | G: grid | P: perf | Click: inspect | Wheel: zoom | Right drag: pan | Home: follow"
)

// App is the graphical frontend. It reads input, forwards commands to the
// game, and draws the session. NewApp must be called after the raylib window
// is created.
type App struct {
	game *game.Game
	cam  *camera.Camera

	track      TrackRenderer
	cars       *CarRenderer
	preview    *CameraPreview
	hud        *HUD
	classifier *ClassifierPanel
	log        *LogPanel
	perf       *PerfPanel
	controls   *ControlsPanel
	inspector  *Inspector

	screenW, screenH float32
	showGrid         bool
	showPerf         bool
	follow           bool

	// Buttons are handled while drawing; their commands run on the next Update
	clicked []game.Command
}

// NewApp creates the frontend for g.
func NewApp(g *game.Game) *App {
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	trk := g.Track()
	grid := g.Grid()

	a := &App{
		game:       g,
		cam:        camera.New(w, h, float32(trk.Width()), float32(trk.Height())),
		cars:       NewCarRenderer(grid),
		preview:    NewCameraPreview(grid.Columns(), grid.Rows(), previewScale),
		hud:        NewHUD(),
		classifier: NewClassifierPanel(0, 0, panelWidth),
		log:        NewLogPanel(0, 0, panelWidth*2),
		perf:       NewPerfPanel(0, 0),
		controls:   NewControlsPanel(0, 0),
		inspector:  NewInspector(0, 0, panelWidth),
		screenW:    w,
		screenH:    h,
		showGrid:   true,
		follow:     true,
	}
	a.track.Init(trk)
	a.preview.Init()
	a.layout()

	p := g.Player()
	cx, cy := p.Frame.Center()
	a.cam.Follow(float32(cx), float32(cy), 1)
	return a
}

// layout positions the panels for the current screen size.
func (a *App) layout() {
	pad := a.hud.renderer.Theme.Padding
	w, h := int32(a.screenW), int32(a.screenH)

	a.classifier.SetPosition(w-panelWidth-pad, pad)
	a.perf.SetPosition(pad, 110)
	a.controls.SetPosition(w-a.controls.Width()-pad, h-a.controls.Height()-30)
	a.log.SetPosition(pad, h-150)
	a.inspector.SetPosition(pad, 230)
}

// Update handles one frame of input and advances the game.
func (a *App) Update() {
	a.handleViewInput()
	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) && !a.controls.Contains(rl.GetMousePosition()) {
		a.inspector.HandleClick(a.cam, a.game.Cars())
	}

	cmds := readKeys().Commands(a.game.Status().Autopilot)
	cmds = append(a.clicked, cmds...)
	a.clicked = nil
	for _, cmd := range cmds {
		if err := a.game.Apply(cmd); err != nil {
			slog.Error("command failed", "command", cmd.Kind.String(), "error", err)
		}
	}

	a.game.Update()

	if a.follow {
		p := a.game.Player()
		cx, cy := p.Frame.Center()
		a.cam.Follow(float32(cx), float32(cy), followSmoothing)
	}

	a.preview.Update(a.game.PlayerFeatures())
	a.game.RecordFrame()
}

// Draw renders the track, the cars and the HUD.
func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(rl.Color{R: 15, G: 20, B: 15, A: 255})

	cars := a.game.Cars()
	status := a.game.Status()

	a.track.Draw(a.cam)
	if a.showGrid && len(cars) > 0 {
		a.cars.DrawGrid(a.cam, cars[0])
	}
	a.cars.Draw(a.cam, cars)

	var player game.CarView
	if len(cars) > 0 {
		player = cars[0]
	}
	a.hud.Draw(HUDData{
		Title:  "Micromachine",
		Status: status,
		Player: player,
		FPS:    rl.GetFPS(),
	})
	if a.showPerf {
		a.perf.Draw(a.game.PerfStats())
	}

	bottom := a.classifier.Draw(status)
	pw, _ := a.preview.Size()
	pad := float32(a.hud.renderer.Theme.Padding)
	a.preview.Draw(a.screenW-pw-pad, float32(bottom)+pad+14)

	a.inspector.Draw(cars)
	a.log.Draw(a.game.Logs())
	a.clicked = append(a.clicked, a.controls.Draw(status.Autopilot)...)
	a.hud.DrawControls(int32(a.screenH), controlsLegend)

	rl.EndDrawing()
}

// Unload frees GPU resources. The game is unloaded by its owner.
func (a *App) Unload() {
	a.track.Unload()
	a.preview.Unload()
}
