//go:build tinygo

package device

import (
	"machine"

	"tinygo.org/x/drivers/servo"
)

// ServoConfig pairs a PWM peripheral with its output pin.
type ServoConfig struct {
	Pin machine.Pin
	PWM servo.PWM
}

// Config has the full pin assignment of the layout board.
type Config struct {
	Points  ServoConfig
	Barrier ServoConfig

	Lamp1       machine.Pin
	Lamp2       machine.Pin
	ActivityLED machine.Pin
}

// InputConfig has the pins of the operator inputs. The buttons are wired
// active-low with internal pull-ups.
type InputConfig struct {
	// Crank is the hand-crank potentiometer for manual points control
	Crank machine.ADC

	// Flex is the flex sensor whose raw readings stream to the host
	Flex machine.ADC

	StopButton machine.Pin
	DirButton  machine.Pin

	ColorButton machine.Pin
	Red         machine.Pin
	Green       machine.Pin
	Blue        machine.Pin
}
