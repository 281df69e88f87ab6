//go:build tinygo

package device

import (
	"errors"
	"machine"

	"tinygo.org/x/drivers/servo"

	eisenbahn "github.com/niklas-mlrr/projektwoche-2025-eisenbahn"
)

// Device drives the layout board: both servos, the crossing lamps and the
// movement LED. It implements controller.Outputs.
type Device struct {
	points  servo.Servo
	barrier servo.Servo

	lamp1       machine.Pin
	lamp2       machine.Pin
	activityLED machine.Pin
}

// New configures the output pins. The servos stay wherever they are until
// the controller writes its initial angles.
func New(cfg Config) (Device, error) {
	points, err := servo.New(cfg.Points.PWM, cfg.Points.Pin)
	if err != nil {
		return Device{}, errors.New("error creating points servo: " + err.Error())
	}

	barrier, err := servo.New(cfg.Barrier.PWM, cfg.Barrier.Pin)
	if err != nil {
		return Device{}, errors.New("error creating barrier servo: " + err.Error())
	}

	for _, p := range []machine.Pin{cfg.Lamp1, cfg.Lamp2, cfg.ActivityLED} {
		p.Configure(machine.PinConfig{Mode: machine.PinOutput})
		p.Low()
	}

	return Device{
		points:      points,
		barrier:     barrier,
		lamp1:       cfg.Lamp1,
		lamp2:       cfg.Lamp2,
		activityLED: cfg.ActivityLED,
	}, nil
}

// ServoAngle moves one channel to the given angle.
func (d *Device) ServoAngle(ch eisenbahn.Channel, angle int) {
	var err error
	switch ch {
	case eisenbahn.ChannelPoints:
		err = d.points.SetAngle(angle)
	case eisenbahn.ChannelBarrier:
		err = d.barrier.SetAngle(angle)
	}
	if err != nil {
		println("error setting servo angle:", err.Error())
	}
}

// Lamps sets both crossing lamps.
func (d *Device) Lamps(lamp1, lamp2 bool) {
	d.lamp1.Set(lamp1)
	d.lamp2.Set(lamp2)
}

// ActivityLED sets the movement indicator.
func (d *Device) ActivityLED(on bool) {
	d.activityLED.Set(on)
}
