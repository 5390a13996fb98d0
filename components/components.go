// Package components defines ECS components for the simulation.
package components

import "github.com/pthm-cable/micromachine/sensor"

// DriverKind identifies who steers a car.
type DriverKind uint8

const (
	DriverPlayer DriverKind = iota // Manual input, or autopilot when toggled
	DriverDrone                    // Always on autopilot
)

// String returns the display name for a DriverKind.
func (k DriverKind) String() string {
	switch k {
	case DriverPlayer:
		return "player"
	case DriverDrone:
		return "drone"
	}
	return "unknown"
}

// Driver marks how a car entity is controlled.
type Driver struct {
	Kind DriverKind
	ID   uint32
}

// Camera holds the car's sensor sampler and its feature buffer.
type Camera struct {
	Sampler *sensor.Sampler
}

// Odometer accumulates distance travelled, split by control mode.
type Odometer struct {
	Manual    float64
	Autopilot float64
	Ticks     int32
}

// Total returns the distance travelled in either mode.
func (o Odometer) Total() float64 {
	return o.Manual + o.Autopilot
}
