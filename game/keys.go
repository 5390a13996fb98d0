package game

import "github.com/pthm-cable/micromachine/components"

// Keys is one frame of keyboard state as read by a frontend.
// Driving keys are held; the rest fire once when pressed.
type Keys struct {
	Left, Right, Up, Down bool
	Modifier              bool // Shift, Ctrl or Alt held

	TeachLeft, TeachStraight, TeachRight bool
	ToggleAutopilot                      bool
	Reset                                bool
	Drone                                bool // with Modifier: clear drones
}

// Commands translates a frame of keys into commands, in the order they
// should be applied. While autopilot is on the driving keys are skipped.
// A held modifier disables driving, so the car coasts to a stop.
func (k Keys) Commands(autopilot bool) []Command {
	var cmds []Command

	if !autopilot {
		drive := !k.Modifier
		if drive && k.Right {
			cmds = append(cmds, Rotate(components.Right))
		}
		if drive && k.Left {
			cmds = append(cmds, Rotate(components.Left))
		}
		switch {
		case drive && k.Up:
			cmds = append(cmds, Accelerate())
		case drive && k.Down:
			cmds = append(cmds, Reverse())
		default:
			cmds = append(cmds, Decelerate())
		}
	}

	if k.TeachLeft {
		cmds = append(cmds, Teach(components.Left))
	}
	if k.TeachStraight {
		cmds = append(cmds, Teach(components.Straight))
	}
	if k.TeachRight {
		cmds = append(cmds, Teach(components.Right))
	}
	if k.ToggleAutopilot {
		cmds = append(cmds, ToggleAutopilot())
	}
	if k.Reset {
		cmds = append(cmds, ResetClassifier())
	}
	if k.Drone {
		if k.Modifier {
			cmds = append(cmds, ClearDrones())
		} else {
			cmds = append(cmds, SpawnDrone())
		}
	}
	return cmds
}
