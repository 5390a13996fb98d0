package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/micromachine/game"
)

// readKeys samples the keyboard for one frame.
func readKeys() game.Keys {
	modifier := rl.IsKeyDown(rl.KeyLeftShift) || rl.IsKeyDown(rl.KeyRightShift) ||
		rl.IsKeyDown(rl.KeyLeftControl) || rl.IsKeyDown(rl.KeyRightControl) ||
		rl.IsKeyDown(rl.KeyLeftAlt) || rl.IsKeyDown(rl.KeyRightAlt)

	return game.Keys{
		Left:     rl.IsKeyDown(rl.KeyLeft),
		Right:    rl.IsKeyDown(rl.KeyRight),
		Up:       rl.IsKeyDown(rl.KeyUp),
		Down:     rl.IsKeyDown(rl.KeyDown),
		Modifier: modifier,

		TeachLeft:       rl.IsKeyPressed(rl.KeyZ),
		TeachStraight:   rl.IsKeyPressed(rl.KeyX),
		TeachRight:      rl.IsKeyPressed(rl.KeyC),
		ToggleAutopilot: rl.IsKeyPressed(rl.KeyA),
		Reset:           rl.IsKeyPressed(rl.KeyBackspace),
		Drone:           rl.IsKeyPressed(rl.KeyD),
	}
}

// handleViewInput processes keys and mouse input that only affect the view.
func (a *App) handleViewInput() {
	a.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}
	if rl.IsKeyPressed(rl.KeyG) {
		a.showGrid = !a.showGrid
	}
	if rl.IsKeyPressed(rl.KeyP) {
		a.showPerf = !a.showPerf
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		a.cam.ZoomBy(1 + wheel*0.1)
	}
	// Dragging with the right button detaches the view from the player; Home reattaches it
	if rl.IsMouseButtonDown(rl.MouseButtonRight) {
		if d := rl.GetMouseDelta(); d.X != 0 || d.Y != 0 {
			a.cam.Pan(-d.X, -d.Y)
			a.follow = false
		}
	}
	if rl.IsKeyPressed(rl.KeyHome) {
		a.cam.Reset()
		a.follow = true
	}
}

// handleResize checks for window resize and propagates new dimensions.
func (a *App) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == a.screenW && h == a.screenH {
		return
	}
	a.screenW = w
	a.screenH = h
	a.cam.Resize(w, h)
	a.layout()
}
