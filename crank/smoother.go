// Package crank turns the noisy analog signal of the hand-crank
// potentiometer into a stable servo angle. The crank powers the manual
// points control: the board reads A0, smooths it, and feeds the result
// into the channel-1 step mode.
package crank

import eisenbahn "github.com/niklas-mlrr/projektwoche-2025-eisenbahn"

const (
	// DefaultWindow is the moving-average length. Larger means steadier.
	DefaultWindow = 20
	// DefaultDeadband suppresses jitter: the output angle only changes when
	// the new reading maps at least this many degrees away.
	DefaultDeadband = 5

	// adcMax is the 10-bit ADC full-scale reading.
	adcMax = 1023
	// minValidReading rejects glitch readings that indicate a loose wire.
	minValidReading = 6
)

// Smoother is a ring-buffer moving average with a deadband, mapping raw ADC
// readings onto the servo range.
type Smoother struct {
	readings []int
	idx      int
	total    int

	deadband  int
	lastAngle int
}

// NewSmoother seeds the window with an initial reading so the output does
// not ramp up from zero at power-on.
func NewSmoother(window, deadband, initialReading int) *Smoother {
	if window <= 0 {
		window = DefaultWindow
	}
	if deadband <= 0 {
		deadband = DefaultDeadband
	}

	readings := make([]int, window)
	for i := range readings {
		readings[i] = initialReading
	}

	return &Smoother{
		readings:  readings,
		total:     initialReading * window,
		deadband:  deadband,
		lastAngle: mapToAngle(initialReading),
	}
}

// Sample filters a burst of raw readings and returns the new target angle.
// ok is false when either every reading was a glitch or the averaged value
// stayed inside the deadband; in both cases the angle is unchanged.
func (s *Smoother) Sample(raw ...int) (angle int, ok bool) {
	sum, valid := 0, 0
	for _, r := range raw {
		if r < minValidReading {
			continue
		}
		sum += r
		valid++
	}
	if valid == 0 {
		return s.lastAngle, false
	}

	s.total -= s.readings[s.idx]
	s.readings[s.idx] = sum / valid
	s.total += s.readings[s.idx]
	s.idx = (s.idx + 1) % len(s.readings)

	average := s.total / len(s.readings)
	angle = mapToAngle(average)

	if abs(angle-s.lastAngle) < s.deadband {
		return s.lastAngle, false
	}

	s.lastAngle = angle
	return angle, true
}

// Angle returns the last stable angle.
func (s *Smoother) Angle() int {
	return s.lastAngle
}

func mapToAngle(reading int) int {
	return eisenbahn.ClampAngle(reading * eisenbahn.MaxAngle / adcMax)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
