//go:build !tinygo

package controller

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.bug.st/serial"
)

// SerialPortNone lets the UI run without a board attached.
const SerialPortNone = "none"

// ErrNoUSBSerial means no USB serial device is currently connected.
var ErrNoUSBSerial = errors.New("no USB serial ports found")

// GetSerialPorts lists connected USB serial devices. On macOS the driver
// exposes both cu.* and tty.* names for the same device; only cu.* is kept.
func GetSerialPorts() ([]string, error) {
	all, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("error listing serial ports: %w", err)
	}

	var ports []string
	for _, p := range all {
		if strings.Contains(p, "tty.usb") {
			continue
		}
		if strings.Contains(p, "usb") || strings.Contains(p, "USB") || strings.Contains(p, "ACM") {
			ports = append(ports, p)
		}
	}

	if len(ports) == 0 {
		return nil, ErrNoUSBSerial
	}
	return ports, nil
}

// OpenSerial opens the board's serial port. baud is a string because it
// comes straight from config/preferences entries.
func OpenSerial(portName, baud string) (serial.Port, error) {
	baudRate, err := strconv.Atoi(baud)
	if err != nil {
		return nil, fmt.Errorf("invalid baud rate %q: %w", baud, err)
	}

	port, err := serial.Open(portName, &serial.Mode{BaudRate: baudRate})
	if err != nil {
		return nil, fmt.Errorf("error opening serial port %q: %w", portName, err)
	}
	return port, nil
}
