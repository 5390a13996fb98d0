// Package ui draws the driving session with raylib and turns keyboard,
// mouse and button input into game commands.
package ui

import rl "github.com/gen2brain/raylib-go/raylib"

// Theme holds UI styling constants.
type Theme struct {
	PanelBg       rl.Color
	PanelBorder   rl.Color
	SectionHeader rl.Color
	LabelColor    rl.Color
	ValueColor    rl.Color
	BarBg         rl.Color
	BarFill       rl.Color
	BarFillActive rl.Color

	PlayerCar    rl.Color
	AutopilotCar rl.Color
	DroneCar     rl.Color
	GridPoint    rl.Color

	Padding        int32
	LineHeight     int32
	LabelWidth     int32
	BarHeight      int32
	FontSize       int32
	HeaderFontSize int32
}

// DefaultTheme returns the default UI theme.
func DefaultTheme() Theme {
	return Theme{
		PanelBg:       rl.Color{R: 20, G: 25, B: 30, A: 230},
		PanelBorder:   rl.Color{R: 60, G: 70, B: 80, A: 255},
		SectionHeader: rl.Yellow,
		LabelColor:    rl.LightGray,
		ValueColor:    rl.LightGray,
		BarBg:         rl.Color{R: 40, G: 40, B: 40, A: 255},
		BarFill:       rl.Color{R: 100, G: 150, B: 200, A: 255},
		BarFillActive: rl.Color{R: 100, G: 200, B: 100, A: 255},

		PlayerCar:    rl.Color{R: 220, G: 60, B: 50, A: 255},
		AutopilotCar: rl.Color{R: 240, G: 200, B: 40, A: 255},
		DroneCar:     rl.Color{R: 60, G: 130, B: 230, A: 255},
		GridPoint:    rl.Color{R: 255, G: 255, B: 255, A: 160},

		Padding:        10,
		LineHeight:     16,
		LabelWidth:     70,
		BarHeight:      12,
		FontSize:       12,
		HeaderFontSize: 14,
	}
}
