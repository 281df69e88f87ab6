package controller

import "time"

// Crossing sequences the level-crossing warning lamps and decides when the
// barrier move may start. It holds no reference to the barrier servo itself:
// Tick reports the lamp outputs and whether the close move is due, and the
// Controller wires those into the barrier Axis.
//
// Sequence on Close (BZU): lamps start blinking immediately, and only after
// PreCloseDelay of uninterrupted blinking does the barrier drop. This mimics
// the warning time a real crossing gives before the barrier moves.
//
// Sequence on Open (BAUF): the barrier starts rising immediately, but the
// lamps keep blinking for LampStopDelay so the light does not cut out
// abruptly the moment the command arrives.
type Crossing struct {
	cfg CrossingConfig

	blinkActive bool
	blinkStart  time.Time
	lastToggle  time.Time
	phase       bool

	closeCommanded bool

	openingDelayActive bool
	openingStart       time.Time
}

// NewCrossing returns an open, dark crossing.
func NewCrossing(cfg CrossingConfig) *Crossing {
	return &Crossing{cfg: cfg}
}

// Close handles a BZU command. Any pending lamp-stop is cancelled and the
// blink timer (re)starts, so a Close while already closing restarts the
// pre-close delay.
func (c *Crossing) Close(now time.Time) {
	c.openingDelayActive = false
	c.blinkActive = true
	c.blinkStart = now
	c.lastToggle = now
	c.phase = true
	c.closeCommanded = false
}

// Open handles a BAUF command. If the lamps are blinking they keep doing so
// for LampStopDelay; a pending barrier close is cancelled either way.
func (c *Crossing) Open(now time.Time) {
	if c.blinkActive {
		c.openingDelayActive = true
		c.openingStart = now
	}
	c.closeCommanded = false
}

// Tick advances the crossing timers. It returns the two lamp outputs and
// whether the timed barrier-close move should start on this tick. startClose
// is reported at most once per Close command.
func (c *Crossing) Tick(now time.Time) (lamp1, lamp2, startClose bool) {
	if c.blinkActive && !c.closeCommanded && !c.openingDelayActive &&
		now.Sub(c.blinkStart) >= c.cfg.PreCloseDelay {
		c.closeCommanded = true
		startClose = true
	}

	if c.openingDelayActive && now.Sub(c.openingStart) >= c.cfg.LampStopDelay {
		c.openingDelayActive = false
		c.blinkActive = false
		c.phase = false
	}

	if c.blinkActive {
		if now.Sub(c.lastToggle) >= c.cfg.BlinkInterval {
			c.phase = !c.phase
			c.lastToggle = now
		}
		lamp1 = c.phase
		lamp2 = !c.phase
	}

	return lamp1, lamp2, startClose
}

// Blinking reports whether the warning lamps are active.
func (c *Crossing) Blinking() bool {
	return c.blinkActive
}

// CloseCommanded reports whether the barrier-close move has been triggered
// for the current Close sequence.
func (c *Crossing) CloseCommanded() bool {
	return c.closeCommanded
}
