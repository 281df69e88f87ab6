package lwp3

import (
	"fmt"
	"io"
	"time"
)

// Hub drives a connected Train Base over any frame transport. Each method
// writes exactly one LWP3 frame.
type Hub struct {
	w io.Writer
}

// NewHub wraps a connected transport.
func NewHub(w io.Writer) *Hub {
	return &Hub{w: w}
}

func (h *Hub) send(frame []byte, err error) error {
	if err != nil {
		return err
	}
	if _, err := h.w.Write(frame); err != nil {
		return fmt.Errorf("error writing frame: %w", err)
	}
	return nil
}

// Drive runs the train motor at the given speed until stopped.
func (h *Hub) Drive(speed int) error {
	return h.send(StartSpeed(PortMotorA, speed, 100))
}

// DriveFor runs the train motor for a fixed duration, then brakes.
func (h *Hub) DriveFor(d time.Duration, speed int) error {
	return h.send(StartSpeedForTime(PortMotorA, d, speed, 100, EndStateBrake))
}

// Stop halts the train motor.
func (h *Hub) Stop() error {
	return h.Drive(0)
}

// SetLED sets the hub's status LED color.
func (h *Hub) SetLED(c Color) error {
	return h.send(HubLEDColor(c), nil)
}

// EnableColorSensor subscribes to color notifications on the given port.
func (h *Hub) EnableColorSensor(port byte) error {
	return h.send(PortInputFormatSetup(port, 0, 1, true), nil)
}
