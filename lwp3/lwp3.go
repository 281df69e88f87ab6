// Package lwp3 encodes and decodes LEGO Wireless Protocol v3 messages for
// the DUPLO Train Base hub. Only the small subset the layout uses is
// implemented: port output commands for the train motor, the hub LED, and
// the notifications of the onboard color sensor.
//
// The BLE link itself is out of scope; frames go to any io.Writer.
package lwp3

import (
	"encoding/binary"
	"fmt"
	"time"
)

// GATT identifiers of the LWP3 hub service. The hub exposes a single
// characteristic for both directions.
const (
	ServiceUUID        = "00001623-1212-efde-1623-785feabcd123"
	CharacteristicUUID = "00001624-1212-efde-1623-785feabcd123"
)

// MessageType is the third byte of every LWP3 frame.
type MessageType byte

const (
	MessageTypeHubProperties      MessageType = 0x01
	MessageTypeHubActions         MessageType = 0x02
	MessageTypeHubAttachedIO      MessageType = 0x04
	MessageTypePortInputFormat    MessageType = 0x41
	MessageTypePortValue          MessageType = 0x43
	MessageTypePortValueSingle    MessageType = 0x45
	MessageTypePortOutput         MessageType = 0x81
	MessageTypePortOutputFeedback MessageType = 0x82
)

func (t MessageType) String() string {
	switch t {
	case MessageTypeHubProperties:
		return "HubProperties"
	case MessageTypeHubActions:
		return "HubActions"
	case MessageTypeHubAttachedIO:
		return "HubAttachedIO"
	case MessageTypePortInputFormat:
		return "PortInputFormat"
	case MessageTypePortValue:
		return "PortValue"
	case MessageTypePortValueSingle:
		return "PortValueSingle"
	case MessageTypePortOutput:
		return "PortOutput"
	case MessageTypePortOutputFeedback:
		return "PortOutputFeedback"
	default:
		return fmt.Sprintf("Unknown(0x%02X)", byte(t))
	}
}

// Well-known ports on the Train Base.
const (
	PortMotorA byte = 0x00
	PortMotorB byte = 0x01
	PortHubLED byte = 0x32
)

// IOTypeColorDistanceSensor is the device type reported for the color
// sensor in HubAttachedIO notifications.
const IOTypeColorDistanceSensor uint16 = 0x0025

// startup/completion byte: execute immediately, request feedback
const startupImmediateFeedback = 0x11

// port output subcommands
const (
	subStartSpeed           = 0x07
	subStartSpeedForTime    = 0x09
	subStartSpeedForDegrees = 0x0B
	subWriteDirectModeData  = 0x51
)

// EndState tells the motor what to do when a timed/position command finishes.
type EndState byte

const (
	EndStateFloat EndState = 0
	EndStateHold  EndState = 126
	EndStateBrake EndState = 127
)

// frame prepends the total-length byte. LWP3 counts the length byte itself.
func frame(payload []byte) []byte {
	return append([]byte{byte(len(payload) + 1)}, payload...)
}

func checkSpeed(speed int) error {
	if speed < -100 || speed > 100 {
		return fmt.Errorf("speed %d out of range [-100, 100]", speed)
	}
	return nil
}

func checkMaxPower(maxPower int) error {
	if maxPower < 0 || maxPower > 100 {
		return fmt.Errorf("max power %d out of range [0, 100]", maxPower)
	}
	return nil
}

// StartSpeed builds a StartSpeed port output command. The motor runs at the
// given speed until told otherwise; speed 0 stops it.
func StartSpeed(port byte, speed, maxPower int) ([]byte, error) {
	if err := checkSpeed(speed); err != nil {
		return nil, err
	}
	if err := checkMaxPower(maxPower); err != nil {
		return nil, err
	}

	return frame([]byte{
		0x00, byte(MessageTypePortOutput), port, startupImmediateFeedback, subStartSpeed,
		byte(int8(speed)),
		byte(maxPower),
		0x00, // profile
	}), nil
}

// StartSpeedForTime builds a StartSpeedForTime command: run at speed for the
// given duration, then apply the end state. Durations are truncated to
// whole milliseconds and capped at the protocol's 16-bit field.
func StartSpeedForTime(port byte, d time.Duration, speed, maxPower int, end EndState) ([]byte, error) {
	if err := checkSpeed(speed); err != nil {
		return nil, err
	}
	if err := checkMaxPower(maxPower); err != nil {
		return nil, err
	}

	ms := d.Milliseconds()
	if ms < 0 {
		return nil, fmt.Errorf("negative duration %v", d)
	}
	if ms > 0xFFFF {
		ms = 0xFFFF
	}

	payload := []byte{
		0x00, byte(MessageTypePortOutput), port, startupImmediateFeedback, subStartSpeedForTime,
		0, 0, // time, filled below
		byte(int8(speed)),
		byte(maxPower),
		byte(end),
		0x00, // profile
	}
	binary.LittleEndian.PutUint16(payload[5:7], uint16(ms))

	return frame(payload), nil
}

// StartSpeedForDegrees builds a StartSpeedForDegrees command: run at speed
// for the given number of encoder degrees, then apply the end state.
func StartSpeedForDegrees(port byte, degrees int32, speed, maxPower int, end EndState) ([]byte, error) {
	if err := checkSpeed(speed); err != nil {
		return nil, err
	}
	if err := checkMaxPower(maxPower); err != nil {
		return nil, err
	}

	payload := []byte{
		0x00, byte(MessageTypePortOutput), port, startupImmediateFeedback, subStartSpeedForDegrees,
		0, 0, 0, 0, // degrees, filled below
		byte(int8(speed)),
		byte(maxPower),
		byte(end),
		0x00, // profile
	}
	binary.LittleEndian.PutUint32(payload[5:9], uint32(degrees))

	return frame(payload), nil
}

// WriteDirectModeData builds a raw mode-data write for a port.
func WriteDirectModeData(port, mode byte, data ...byte) []byte {
	payload := append([]byte{
		0x00, byte(MessageTypePortOutput), port, startupImmediateFeedback, subWriteDirectModeData,
		mode,
	}, data...)
	return frame(payload)
}

// HubLEDColor sets the hub's status LED to one of the preset colors.
func HubLEDColor(c Color) []byte {
	return WriteDirectModeData(PortHubLED, 0, byte(c))
}

// PortInputFormatSetup enables (or disables) value notifications for a port
// mode. delta is the minimum change required to trigger a notification.
func PortInputFormatSetup(port, mode byte, delta uint32, notify bool) []byte {
	payload := []byte{
		0x00, byte(MessageTypePortInputFormat), port, mode,
		0, 0, 0, 0, // delta, filled below
		0,
	}
	binary.LittleEndian.PutUint32(payload[4:8], delta)
	if notify {
		payload[8] = 1
	}
	return frame(payload)
}
