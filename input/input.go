// Package input has the logic behind the board's buttons and sensors:
// press edge detection for the active-low buttons, the raw stream of the
// flex sensor and the color cycle of the RGB button toy. Pin access stays
// in the firmware package so this logic is testable on the host.
package input

import (
	"strconv"
	"time"
)

// Edge detects presses of an active-low button (internal pull-up, pressed
// reads LOW). Only the HIGH to LOW transition counts as a press.
type Edge struct {
	prevHigh bool
}

// NewEdge returns a detector assuming the button starts released.
func NewEdge() *Edge {
	return &Edge{prevHigh: true}
}

// Pressed consumes one pin reading and reports whether a press edge occurred.
func (e *Edge) Pressed(high bool) bool {
	pressed := e.prevHigh && !high
	e.prevHigh = high
	return pressed
}

// DefaultFlexInterval paces the flex sensor stream so it does not drown
// out the angle feedback on the shared serial line.
const DefaultFlexInterval = 100 * time.Millisecond

// FlexStreamer emits the flex sensor's raw readings as FLEX lines for the
// host, which does its own mapping. Readings between emissions are dropped.
type FlexStreamer struct {
	interval time.Duration
	last     time.Time
}

// NewFlexStreamer returns a streamer emitting at most one line per interval.
func NewFlexStreamer(interval time.Duration) *FlexStreamer {
	if interval <= 0 {
		interval = DefaultFlexInterval
	}
	return &FlexStreamer{interval: interval}
}

// Sample consumes one raw reading. ok is true when a line is due.
func (f *FlexStreamer) Sample(raw int, now time.Time) (line string, ok bool) {
	if !f.last.IsZero() && now.Sub(f.last) < f.interval {
		return "", false
	}
	f.last = now
	return "FLEX " + strconv.Itoa(raw) + "\n", true
}

// Color is an RGB PWM triple for the button toy.
type Color struct {
	R, G, B uint8
}

var palette = []Color{
	{255, 0, 0},   // red
	{0, 255, 0},   // green
	{0, 0, 255},   // blue
	{255, 255, 0}, // yellow
}

// Cycler walks the toy's color palette, one step per button press.
type Cycler struct {
	idx int
}

// Current returns the active color. A fresh Cycler starts on red.
func (c *Cycler) Current() Color {
	return palette[c.idx]
}

// Next advances to the following color and returns it, wrapping around
// after yellow.
func (c *Cycler) Next() Color {
	c.idx = (c.idx + 1) % len(palette)
	return palette[c.idx]
}
