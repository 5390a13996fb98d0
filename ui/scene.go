package ui

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/micromachine/camera"
	"github.com/pthm-cable/micromachine/components"
	"github.com/pthm-cable/micromachine/game"
	"github.com/pthm-cable/micromachine/sensor"
	"github.com/pthm-cable/micromachine/track"
)

// TrackRenderer draws the track image through the camera.
type TrackRenderer struct {
	tex         rl.Texture2D
	w, h        int
	initialized bool
}

// Init uploads the track (must be called after raylib window is created).
func (r *TrackRenderer) Init(t *track.Track) {
	if r.initialized {
		return
	}
	r.w, r.h = t.Width(), t.Height()

	img := rl.GenImageColor(r.w, r.h, rl.Black)
	r.tex = rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)

	pixels := make([]color.RGBA, r.w*r.h)
	for y := 0; y < r.h; y++ {
		for x := 0; x < r.w; x++ {
			cr, cg, cb, _ := t.ColorAt(x, y)
			pixels[y*r.w+x] = color.RGBA{R: cr, G: cg, B: cb, A: 255}
		}
	}
	rl.UpdateTexture(r.tex, pixels)
	r.initialized = true
}

// Draw renders the visible part of the track.
func (r *TrackRenderer) Draw(cam *camera.Camera) {
	if !r.initialized {
		return
	}
	sx, sy := cam.WorldToScreen(0, 0)
	srcRect := rl.Rectangle{X: 0, Y: 0, Width: float32(r.w), Height: float32(r.h)}
	dstRect := rl.Rectangle{X: sx, Y: sy, Width: float32(r.w) * cam.Zoom, Height: float32(r.h) * cam.Zoom}
	rl.DrawTexturePro(r.tex, srcRect, dstRect, rl.Vector2{}, 0, rl.White)
}

// Unload frees GPU resources.
func (r *TrackRenderer) Unload() {
	if r.initialized {
		rl.UnloadTexture(r.tex)
		r.initialized = false
	}
}

// CarRenderer draws cars and the player's camera grid.
type CarRenderer struct {
	theme Theme
	grid  *sensor.RectangularGrid
}

// NewCarRenderer creates a car renderer for the shared camera grid.
func NewCarRenderer(grid *sensor.RectangularGrid) *CarRenderer {
	return &CarRenderer{theme: DefaultTheme(), grid: grid}
}

// Draw renders every car. The player is drawn last so it stays on top.
func (r *CarRenderer) Draw(cam *camera.Camera, cars []game.CarView) {
	for i := len(cars) - 1; i >= 0; i-- {
		r.drawCar(cam, cars[i])
	}
}

func (r *CarRenderer) drawCar(cam *camera.Camera, car game.CarView) {
	f := car.Frame
	cx, cy := f.Center()
	radius := float32(f.Width+f.Height) / 2
	if !cam.IsVisible(float32(cx), float32(cy), radius) {
		return
	}

	fill := r.theme.DroneCar
	switch {
	case car.Kind == components.DriverPlayer && car.Autopilot:
		fill = r.theme.AutopilotCar
	case car.Kind == components.DriverPlayer:
		fill = r.theme.PlayerCar
	}

	sx, sy := cam.WorldToScreen(float32(cx), float32(cy))
	w := float32(f.Width) * cam.Zoom
	h := float32(f.Height) * cam.Zoom
	rect := rl.Rectangle{X: sx, Y: sy, Width: w, Height: h}
	rl.DrawRectanglePro(rect, rl.Vector2{X: w / 2, Y: h / 2}, float32(f.Angle), fill)

	// Windscreen marks the front
	front := rl.Rectangle{X: sx, Y: sy, Width: w * 0.7, Height: h * 0.2}
	rl.DrawRectanglePro(front, rl.Vector2{X: w * 0.35, Y: h * 0.4}, float32(f.Angle), rl.Color{R: 30, G: 30, B: 40, A: 255})
}

// DrawGrid renders the sample points of one car's camera in world space.
func (r *CarRenderer) DrawGrid(cam *camera.Camera, car game.CarView) {
	f := car.Frame
	pose := f.Pose()
	minX, minY, maxX, maxY := cam.VisibleWorldBounds()
	_ = r.grid.Apply(f.X, f.Y, f.Width, func(_, _ int, wx, wy float64) error {
		px, py := pose.WorldToScreen(wx, wy)
		if float32(px) < minX || float32(px) > maxX || float32(py) < minY || float32(py) > maxY {
			return nil
		}
		sx, sy := cam.WorldToScreen(float32(px), float32(py))
		rl.DrawCircleV(rl.Vector2{X: sx, Y: sy}, 1.5, r.theme.GridPoint)
		return nil
	})
}
