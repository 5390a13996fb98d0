package ui

import (
	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/micromachine/components"
	"github.com/pthm-cable/micromachine/game"
)

const (
	buttonWidth   = 96
	buttonHeight  = 26
	buttonGap     = 6
	buttonColumns = 3
)

// button is one clickable control.
type button struct {
	label string
	cmd   game.Command
}

// ControlsPanel renders the teaching and session buttons.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
	}
}

// SetPosition updates the panel position.
func (c *ControlsPanel) SetPosition(x, y int32) {
	c.x = x
	c.y = y
}

// Width returns the panel width.
func (c *ControlsPanel) Width() int32 {
	return c.renderer.Theme.Padding*2 + buttonWidth*buttonColumns + buttonGap*(buttonColumns-1)
}

// Height returns the panel height.
func (c *ControlsPanel) Height() int32 {
	t := c.renderer.Theme
	rows := int32(3)
	return t.Padding*2 + t.LineHeight + rows*buttonHeight + (rows-1)*buttonGap
}

// Contains reports whether the screen point lies over the panel.
func (c *ControlsPanel) Contains(p rl.Vector2) bool {
	rect := rl.Rectangle{X: float32(c.x), Y: float32(c.y), Width: float32(c.Width()), Height: float32(c.Height())}
	return rl.CheckCollisionPointRec(p, rect)
}

// buttons returns the controls in layout order, three per row.
func buttons(autopilot bool) []button {
	pilot := "Autopilot [A]"
	if autopilot {
		pilot = "Manual [A]"
	}
	return []button{
		{"Left [Z]", game.Teach(components.Left)},
		{"Straight [X]", game.Teach(components.Straight)},
		{"Right [C]", game.Teach(components.Right)},
		{pilot, game.ToggleAutopilot()},
		{"Reset [Bksp]", game.ResetClassifier()},
		{"Drone [D]", game.SpawnDrone()},
		{"Clear [Shift+D]", game.ClearDrones()},
	}
}

// Draw renders the buttons and returns the commands for those clicked this frame.
func (c *ControlsPanel) Draw(autopilot bool) []game.Command {
	r := c.renderer
	padding := r.Theme.Padding

	r.DrawPanel(c.x, c.y, c.Width(), c.Height())
	top := r.DrawSectionHeader(c.x+padding, c.y+padding, "Teach / Session")

	var cmds []game.Command
	for i, b := range buttons(autopilot) {
		col := int32(i % buttonColumns)
		row := int32(i / buttonColumns)
		rect := rl.Rectangle{
			X:      float32(c.x + padding + col*(buttonWidth+buttonGap)),
			Y:      float32(top + row*(buttonHeight+buttonGap)),
			Width:  buttonWidth,
			Height: buttonHeight,
		}
		if gui.Button(rect, b.label) {
			cmds = append(cmds, b.cmd)
		}
	}
	return cmds
}
