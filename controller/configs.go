package controller

import "time"

// Step-mode defaults taken over from the original board setup.
const (
	DefaultStepSize     = 2
	DefaultStepInterval = 15 * time.Millisecond
)

// CrossingConfig has the timing and end positions for the level crossing.
type CrossingConfig struct {
	// PreCloseDelay is how long the lamps blink before the barrier drops.
	PreCloseDelay time.Duration
	// CloseMoveDuration is the length of the timed barrier-close move.
	CloseMoveDuration time.Duration
	// OpenMoveDuration is the length of the timed barrier-open move.
	OpenMoveDuration time.Duration
	// LampStopDelay keeps the lamps blinking after an open command.
	LampStopDelay time.Duration
	// BlinkInterval is the alternating lamp toggle period.
	BlinkInterval time.Duration

	// Servo angles for the barrier end positions.
	ClosedAngle int
	OpenAngle   int
}

// Config has everything the control core needs. The zero value is not
// usable; start from DefaultConfig and adjust.
type Config struct {
	// InitialAngle is written to both servos on startup.
	InitialAngle int

	// StepSize and StepInterval control the untimed slider mode on channel 1.
	StepSize     int
	StepInterval time.Duration

	// ActivityBlinkInterval is the movement LED toggle period.
	ActivityBlinkInterval time.Duration

	// TickInterval paces the Run loop. The core itself is tick-rate
	// independent; this only bounds output latency.
	TickInterval time.Duration

	Crossing CrossingConfig
}

// DefaultConfig returns the timings the layout was built with.
func DefaultConfig() Config {
	return Config{
		InitialAngle:          90,
		StepSize:              DefaultStepSize,
		StepInterval:          DefaultStepInterval,
		ActivityBlinkInterval: 150 * time.Millisecond,
		TickInterval:          5 * time.Millisecond,
		Crossing: CrossingConfig{
			PreCloseDelay:     6 * time.Second,
			CloseMoveDuration: 2 * time.Second,
			OpenMoveDuration:  3 * time.Second,
			LampStopDelay:     500 * time.Millisecond,
			BlinkInterval:     400 * time.Millisecond,
			ClosedAngle:       0,
			OpenAngle:         90,
		},
	}
}
