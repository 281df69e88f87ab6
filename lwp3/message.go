package lwp3

import (
	"encoding/binary"
	"fmt"
)

// Message is one decoded frame received from the hub.
type Message struct {
	HubID byte
	Type  MessageType
	// Payload is everything after the message type byte.
	Payload []byte
}

// Decode validates the length byte and splits a received frame.
func Decode(data []byte) (Message, error) {
	if len(data) < 3 {
		return Message{}, fmt.Errorf("frame too short: %d bytes", len(data))
	}
	if int(data[0]) != len(data) {
		return Message{}, fmt.Errorf("length byte %d does not match frame size %d", data[0], len(data))
	}

	return Message{
		HubID:   data[1],
		Type:    MessageType(data[2]),
		Payload: data[3:],
	}, nil
}

// AttachedIO describes a HubAttachedIO notification.
type AttachedIO struct {
	Port     byte
	Attached bool
	// IOType is only set when Attached is true.
	IOType uint16
}

// AttachedIO decodes a HubAttachedIO payload.
func (m Message) AttachedIO() (AttachedIO, error) {
	if m.Type != MessageTypeHubAttachedIO {
		return AttachedIO{}, fmt.Errorf("not a HubAttachedIO message: %v", m.Type)
	}
	if len(m.Payload) < 2 {
		return AttachedIO{}, fmt.Errorf("HubAttachedIO payload too short: %d bytes", len(m.Payload))
	}

	io := AttachedIO{Port: m.Payload[0]}
	if m.Payload[1] == 0 {
		return io, nil
	}

	if len(m.Payload) < 4 {
		return AttachedIO{}, fmt.Errorf("attach event payload too short: %d bytes", len(m.Payload))
	}
	io.Attached = true
	io.IOType = binary.LittleEndian.Uint16(m.Payload[2:4])
	return io, nil
}

// PortValue is a PortValueSingle notification.
type PortValue struct {
	Port   byte
	Values []byte
}

// PortValueSingle decodes a PortValueSingle payload.
func (m Message) PortValueSingle() (PortValue, error) {
	if m.Type != MessageTypePortValueSingle {
		return PortValue{}, fmt.Errorf("not a PortValueSingle message: %v", m.Type)
	}
	if len(m.Payload) < 2 {
		return PortValue{}, fmt.Errorf("PortValueSingle payload too short: %d bytes", len(m.Payload))
	}
	return PortValue{Port: m.Payload[0], Values: m.Payload[1:]}, nil
}

// Color is a color-sensor reading or a hub LED preset.
type Color byte

// Colors reported by the Train Base sensor. 0xFF means nothing detected.
const (
	ColorBlack     Color = 0
	ColorPink      Color = 1
	ColorPurple    Color = 2
	ColorBlue      Color = 3
	ColorLightBlue Color = 4
	ColorCyan      Color = 5
	ColorGreen     Color = 6
	ColorYellow    Color = 7
	ColorOrange    Color = 8
	ColorRed       Color = 9
	ColorWhite     Color = 10
	ColorNone      Color = 0xFF
)

var colorNames = []string{
	"Black", "Pink", "Purple", "Blue", "Light Blue",
	"Cyan", "Green", "Yellow", "Orange", "Red", "White",
}

func (c Color) String() string {
	if int(c) < len(colorNames) {
		return colorNames[c]
	}
	if c == ColorNone {
		return "None"
	}
	return fmt.Sprintf("Unknown(0x%02X)", byte(c))
}

// Color interprets a single-byte port value as a color reading. ok is false
// for "nothing detected" and for values outside the known palette.
func (pv PortValue) Color() (Color, bool) {
	if len(pv.Values) != 1 {
		return ColorNone, false
	}
	c := Color(pv.Values[0])
	if c > ColorWhite {
		return ColorNone, false
	}
	return c, true
}

// ColorStabilizer filters the sensor's flickering readings: a color is only
// reported once it dominates the recent history, and only when it differs
// from the previously reported color.
type ColorStabilizer struct {
	history   []Color
	window    int
	threshold int
	last      Color
	hasLast   bool
}

// NewColorStabilizer requires threshold matching readings within a window.
func NewColorStabilizer(window, threshold int) *ColorStabilizer {
	if window < 1 {
		window = 1
	}
	if threshold < 1 || threshold > window {
		threshold = window
	}
	return &ColorStabilizer{window: window, threshold: threshold}
}

// Add records a reading and returns a newly stable color, if any.
func (s *ColorStabilizer) Add(c Color) (Color, bool) {
	s.history = append(s.history, c)
	if len(s.history) > s.window {
		s.history = s.history[1:]
	}
	if len(s.history) < s.threshold {
		return ColorNone, false
	}

	counts := map[Color]int{}
	best, bestCount := ColorNone, 0
	for _, h := range s.history {
		counts[h]++
		if counts[h] > bestCount {
			best, bestCount = h, counts[h]
		}
	}

	if bestCount < s.threshold {
		return ColorNone, false
	}
	if s.hasLast && best == s.last {
		return ColorNone, false
	}

	s.last = best
	s.hasLast = true
	return best, true
}
