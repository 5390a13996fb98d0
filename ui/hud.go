package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/micromachine/components"
	"github.com/pthm-cable/micromachine/game"
	"github.com/pthm-cable/micromachine/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title  string
	Status game.Status
	Player game.CarView
	FPS    int32
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
	}
}

// Draw renders the session summary in the top-left corner.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText(data.Title, 10, 10, 20, rl.White)

	st := data.Status
	rl.DrawText(
		fmt.Sprintf("Tick: %d | FPS: %d | Cars: %d", st.Tick, data.FPS, st.Cars),
		10, 35, 16, rl.LightGray,
	)
	rl.DrawText(
		fmt.Sprintf("Loss: %.2f | Examples: %d | Speed: %s", st.Loss, st.TrainingCount, data.Player.Throttle),
		10, 55, 16, rl.LightGray,
	)

	mode := "Manual"
	if st.Autopilot {
		mode = "AUTOPILOT"
	}
	rl.DrawText(mode, 10, 75, 16, rl.Yellow)
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// classifierGap separates the probability bars from the summary lines.
const classifierGap = 6

// ClassifierPanel shows the classifier's output for the player's current reading.
type ClassifierPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewClassifierPanel creates a new classifier panel.
func NewClassifierPanel(x, y, width int32) *ClassifierPanel {
	return &ClassifierPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the panel position.
func (c *ClassifierPanel) SetPosition(x, y int32) {
	c.x = x
	c.y = y
}

// Draw renders one confidence bar per direction and returns the Y below the panel.
func (c *ClassifierPanel) Draw(st game.Status) int32 {
	r := c.renderer
	padding := r.Theme.Padding
	height := r.Theme.LineHeight*7 + classifierGap + padding*2

	r.DrawPanel(c.x, c.y, c.width, height)

	x := c.x + padding
	y := r.DrawSectionHeader(x, c.y+padding, "Classifier")
	for _, d := range []components.Direction{components.Left, components.Straight, components.Right} {
		value := float32(0)
		if st.ProbsValid {
			value = float32(st.Probs[d])
		}
		y = r.DrawBar(x, y, d.String(), value, c.width-padding*2, st.ProbsValid && d == st.Decision)
	}

	y = r.DrawSpacer(y, classifierGap)
	decision := "-"
	if st.ProbsValid {
		decision = st.Decision.String()
	}
	y = r.DrawLabelValue(x, y, "Decision", decision)
	r.DrawLabelValue(x, y, "Examples", fmt.Sprintf("%d", st.TrainingCount))
	return c.y + height
}

// LogPanel shows the most recent session messages, oldest first.
type LogPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewLogPanel creates a new log panel.
func NewLogPanel(x, y, width int32) *LogPanel {
	return &LogPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the panel position.
func (l *LogPanel) SetPosition(x, y int32) {
	l.x = x
	l.y = y
}

// Draw renders the log lines.
func (l *LogPanel) Draw(lines []string) {
	r := l.renderer
	padding := r.Theme.Padding
	height := r.Theme.LineHeight*int32(len(lines)+1) + padding*2

	r.DrawPanel(l.x, l.y, l.width, height)

	y := r.DrawSectionHeader(l.x+padding, l.y+padding, "Log")
	for _, line := range lines {
		r.DrawLabel(l.x+padding, y, line)
		y += r.Theme.LineHeight
	}
}

// PerfPanel renders the step phase breakdown.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
	}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	x := p.x
	y := p.y

	rl.DrawText("Step Performance", x, y, 16, rl.White)
	y += 20

	rl.DrawText(fmt.Sprintf("Tick: %s (%.0f/s)", stats.AvgTickDuration.Round(time.Microsecond), stats.TicksPerSecond),
		x, y, 14, rl.Yellow)
	y += 16

	for _, phase := range telemetry.PhaseOrder() {
		pct := stats.PhasePct[phase]
		color := rl.LightGray
		if pct > 50 {
			color = rl.Red
		} else if pct > 25 {
			color = rl.Orange
		}
		rl.DrawText(
			fmt.Sprintf("%-10s %8s %5.1f%%", phase, stats.PhaseAvg[phase].Round(time.Microsecond), pct),
			x, y, 12, color,
		)
		y += 14
	}
}
