package controller

import (
	"math"
	"time"

	eisenbahn "github.com/niklas-mlrr/projektwoche-2025-eisenbahn"
)

// Axis tracks one servo channel. A channel is either Idle, holding its
// current angle, running a fixed-duration interpolated move, or stepping
// toward a target at a fixed rate (the legacy slider mode).
type Axis struct {
	current int
	target  int

	// timed move state
	moving     bool
	startAngle int
	endAngle   int
	startTime  time.Time
	duration   time.Duration

	// step mode state
	lastStep     time.Time
	stepSize     int
	stepInterval time.Duration
}

// NewAxis returns an Axis resting at the initial angle. stepSize and
// stepInterval control the untimed slider mode.
func NewAxis(initial, stepSize int, stepInterval time.Duration) *Axis {
	initial = eisenbahn.ClampAngle(initial)
	return &Axis{
		current:      initial,
		target:       initial,
		stepSize:     stepSize,
		stepInterval: stepInterval,
	}
}

// Current returns the angle most recently produced by Tick.
func (a *Axis) Current() int {
	return a.current
}

// Moving reports whether the axis still has distance to cover, either in a
// timed move or in step mode.
func (a *Axis) Moving() bool {
	return a.moving || a.current != a.target
}

// Set jumps the axis to an angle immediately, cancelling any motion.
func (a *Axis) Set(angle int) {
	angle = eisenbahn.ClampAngle(angle)
	a.current = angle
	a.target = angle
	a.moving = false
}

// SetTarget begins stepping toward an angle, cancelling any timed move.
func (a *Axis) SetTarget(angle int) {
	a.target = eisenbahn.ClampAngle(angle)
	a.moving = false
}

// StartMove begins a fixed-duration move from the current angle. The move
// takes the full duration regardless of distance; duration zero jumps to the
// end angle on the next tick. A new move preempts whatever was in flight.
func (a *Axis) StartMove(angle int, duration time.Duration, now time.Time) {
	a.startAngle = a.current
	a.endAngle = eisenbahn.ClampAngle(angle)
	a.startTime = now
	a.duration = duration
	a.moving = true
}

// Tick advances the axis and returns the current angle.
func (a *Axis) Tick(now time.Time) int {
	if a.moving {
		t := 1.0
		if a.duration > 0 {
			t = float64(now.Sub(a.startTime)) / float64(a.duration)
			if t < 0 {
				t = 0
			}
			if t > 1 {
				t = 1
			}
		}
		a.current = int(math.Round(float64(a.startAngle) + float64(a.endAngle-a.startAngle)*t))
		if t >= 1 {
			a.moving = false
			// keep step mode in sync so the slider does not snap back
			a.target = a.current
		}
		return a.current
	}

	if a.current == a.target {
		return a.current
	}

	if now.Sub(a.lastStep) < a.stepInterval {
		return a.current
	}
	a.lastStep = now

	if a.current < a.target {
		a.current += a.stepSize
		if a.current > a.target {
			a.current = a.target
		}
	} else {
		a.current -= a.stepSize
		if a.current < a.target {
			a.current = a.target
		}
	}

	return a.current
}
