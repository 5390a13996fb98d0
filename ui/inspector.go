package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/micromachine/camera"
	"github.com/pthm-cable/micromachine/game"
)

// maxPickDistance is how far from a car's center a click still selects it, in world units.
const maxPickDistance = 30

// Inspector shows details of a clicked car.
type Inspector struct {
	renderer *Renderer
	x, y     int32
	width    int32

	selected uint32
	active   bool
}

// NewInspector creates a new inspector panel.
func NewInspector(x, y, width int32) *Inspector {
	return &Inspector{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the panel position.
func (ins *Inspector) SetPosition(x, y int32) {
	ins.x = x
	ins.y = y
}

// HandleClick selects the car under the cursor, or clears the selection.
func (ins *Inspector) HandleClick(cam *camera.Camera, cars []game.CarView) {
	mouse := rl.GetMousePosition()
	wx, wy := cam.ScreenToWorld(mouse.X, mouse.Y)
	car, ok := game.NearestCar(cars, float64(wx), float64(wy), maxPickDistance)
	ins.selected, ins.active = car.ID, ok
}

// Selected returns the selected car from the snapshot, if it still exists.
func (ins *Inspector) Selected(cars []game.CarView) (game.CarView, bool) {
	if !ins.active {
		return game.CarView{}, false
	}
	return game.CarByID(cars, ins.selected)
}

// Draw renders the selected car's details.
func (ins *Inspector) Draw(cars []game.CarView) {
	car, ok := ins.Selected(cars)
	if !ok {
		return
	}

	r := ins.renderer
	padding := r.Theme.Padding
	height := r.Theme.LineHeight*8 + padding*2

	r.DrawPanel(ins.x, ins.y, ins.width, height)

	y := r.DrawSectionHeader(ins.x+padding, ins.y+padding, fmt.Sprintf("Car #%d (%s)", car.ID, car.Kind))
	x := ins.x + padding
	cx, cy := car.Frame.Center()
	y = r.DrawLabelValue(x, y, "Position", fmt.Sprintf("%.0f, %.0f", cx, cy))
	y = r.DrawLabelValue(x, y, "Angle", fmt.Sprintf("%.0f", car.Frame.Angle))
	y = r.DrawLabelValue(x, y, "Throttle", car.Throttle.String())
	y = r.DrawLabelValue(x, y, "Autopilot", fmt.Sprintf("%t", car.Autopilot))
	y = r.DrawLabelValue(x, y, "Manual", fmt.Sprintf("%.0f", car.Odometer.Manual))
	y = r.DrawLabelValue(x, y, "Auto", fmt.Sprintf("%.0f", car.Odometer.Autopilot))
	r.DrawLabelValue(x, y, "Ticks", fmt.Sprintf("%d", car.Odometer.Ticks))
}
