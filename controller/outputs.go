package controller

import eisenbahn "github.com/niklas-mlrr/projektwoche-2025-eisenbahn"

// Outputs receives the pin-level effects of the control core. The firmware
// implements this against real hardware; the simulator uses NoopOutputs.
type Outputs interface {
	// ServoAngle is called whenever a channel's angle changes.
	ServoAngle(ch eisenbahn.Channel, angle int)
	// Lamps sets the two alternating crossing lamps.
	Lamps(lamp1, lamp2 bool)
	// ActivityLED is the "something is moving" indicator.
	ActivityLED(on bool)
}

// NoopOutputs discards every output. Useful for simulation and tests.
type NoopOutputs struct{}

var _ Outputs = NoopOutputs{}

// ServoAngle implements Outputs.
func (NoopOutputs) ServoAngle(eisenbahn.Channel, int) {}

// Lamps implements Outputs.
func (NoopOutputs) Lamps(bool, bool) {}

// ActivityLED implements Outputs.
func (NoopOutputs) ActivityLED(bool) {}
