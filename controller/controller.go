package controller

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	eisenbahn "github.com/niklas-mlrr/projektwoche-2025-eisenbahn"
)

// Controller is the single control loop for the layout board: two servo
// channels, the level-crossing sequencer, and the movement LED. All timing
// is derived from the time passed into Tick, so tests drive it with a fake
// clock and the firmware drives it with time.Now.
type Controller struct {
	mu sync.Mutex

	cfg      Config
	points   *Axis
	barrier  *Axis
	crossing *Crossing
	out      Outputs
	events   EventRecorder
	feedback io.Writer

	lastPoints  int
	lastBarrier int
	lamp1       bool
	lamp2       bool

	ledOn         bool
	lastLEDToggle time.Time
}

// New initializes the controller and writes the resting state to the
// outputs: both servos at the initial angle, lamps and LED off.
func New(cfg Config, out Outputs) *Controller {
	c := &Controller{
		cfg:         cfg,
		points:      NewAxis(cfg.InitialAngle, cfg.StepSize, cfg.StepInterval),
		barrier:     NewAxis(cfg.InitialAngle, cfg.StepSize, cfg.StepInterval),
		crossing:    NewCrossing(cfg.Crossing),
		out:         out,
		events:      noopEventRecorder{},
		lastPoints:  eisenbahn.ClampAngle(cfg.InitialAngle),
		lastBarrier: eisenbahn.ClampAngle(cfg.InitialAngle),
	}

	out.ServoAngle(eisenbahn.ChannelPoints, c.lastPoints)
	out.ServoAngle(eisenbahn.ChannelBarrier, c.lastBarrier)
	out.Lamps(false, false)
	out.ActivityLED(false)

	return c
}

// SetEvents attaches an event recorder. The default discards everything.
func (c *Controller) SetEvents(r EventRecorder) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = r
}

// SetFeedback sets the writer that receives channel-1 angle feedback lines.
func (c *Controller) SetFeedback(w io.Writer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.feedback = w
}

// HandleLine decodes one input line and applies it. Malformed lines are
// silently ignored.
func (c *Controller) HandleLine(line string, now time.Time) {
	cmd, ok := eisenbahn.ParseCommand(line)
	if !ok {
		return
	}
	c.Apply(cmd, now)
}

// Apply executes a decoded command. A newer command always preempts an
// in-flight motion of the same channel; nothing queues.
func (c *Controller) Apply(cmd eisenbahn.Command, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch cmd.Kind {
	case eisenbahn.CommandSetAngle:
		c.points.SetTarget(cmd.Angle)
		c.events.PointsMoved(eisenbahn.ChannelPoints, cmd.Angle, 0)
	case eisenbahn.CommandSetAngleTimed:
		c.points.StartMove(cmd.Angle, cmd.Duration, now)
		c.events.PointsMoved(eisenbahn.ChannelPoints, cmd.Angle, cmd.Duration)
	case eisenbahn.CommandSetChannel2:
		if cmd.Duration > 0 {
			c.barrier.StartMove(cmd.Angle, cmd.Duration, now)
		} else {
			c.barrier.Set(cmd.Angle)
		}
		c.events.PointsMoved(eisenbahn.ChannelBarrier, cmd.Angle, cmd.Duration)
	case eisenbahn.CommandCrossingClose:
		c.crossing.Close(now)
		c.events.CrossingClosing()
	case eisenbahn.CommandCrossingOpen:
		c.crossing.Open(now)
		// The barrier starts opening immediately, preempting any close.
		c.barrier.StartMove(c.cfg.Crossing.OpenAngle, c.cfg.Crossing.OpenMoveDuration, now)
		c.events.CrossingOpened()
	}
}

// Tick advances every sub-state once and emits any changed outputs.
func (c *Controller) Tick(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if angle := c.points.Tick(now); angle != c.lastPoints {
		c.lastPoints = angle
		c.out.ServoAngle(eisenbahn.ChannelPoints, angle)
		if c.feedback != nil {
			fmt.Fprintf(c.feedback, "%d\n", angle)
		}
	}

	if angle := c.barrier.Tick(now); angle != c.lastBarrier {
		c.lastBarrier = angle
		// no feedback for channel 2
		c.out.ServoAngle(eisenbahn.ChannelBarrier, angle)
	}

	lamp1, lamp2, startClose := c.crossing.Tick(now)
	if startClose {
		c.barrier.StartMove(c.cfg.Crossing.ClosedAngle, c.cfg.Crossing.CloseMoveDuration, now)
	}
	if lamp1 != c.lamp1 || lamp2 != c.lamp2 {
		c.lamp1, c.lamp2 = lamp1, lamp2
		c.out.Lamps(lamp1, lamp2)
	}

	c.tickActivityLED(now)
}

func (c *Controller) tickActivityLED(now time.Time) {
	moving := c.points.Moving() || c.barrier.Moving()
	if !moving {
		if c.ledOn {
			c.ledOn = false
			c.out.ActivityLED(false)
		}
		return
	}

	if now.Sub(c.lastLEDToggle) >= c.cfg.ActivityBlinkInterval {
		c.ledOn = !c.ledOn
		c.lastLEDToggle = now
		c.out.ActivityLED(c.ledOn)
	}
}

// State is a snapshot of the controller for the status server.
type State struct {
	PointsAngle    int  `json:"pointsAngle"`
	BarrierAngle   int  `json:"barrierAngle"`
	PointsMoving   bool `json:"pointsMoving"`
	BarrierMoving  bool `json:"barrierMoving"`
	Blinking       bool `json:"blinking"`
	BarrierClosing bool `json:"barrierClosing"`
	Lamp1          bool `json:"lamp1"`
	Lamp2          bool `json:"lamp2"`
}

// State returns a snapshot. Safe to call from other goroutines.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{
		PointsAngle:    c.points.Current(),
		BarrierAngle:   c.barrier.Current(),
		PointsMoving:   c.points.Moving(),
		BarrierMoving:  c.barrier.Moving(),
		Blinking:       c.crossing.Blinking(),
		BarrierClosing: c.crossing.CloseCommanded(),
		Lamp1:          c.lamp1,
		Lamp2:          c.lamp2,
	}
}

// Run reads command lines from r and ticks the controller until ctx is
// canceled or r is exhausted. Channel-1 angle feedback is written to w.
func (c *Controller) Run(ctx context.Context, r io.Reader, w io.Writer) error {
	c.SetFeedback(w)

	lines := make(chan string)
	errs := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		errs <- scanner.Err()
	}()

	ticker := time.NewTicker(c.cfg.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line := <-lines:
			c.HandleLine(line, time.Now())
		case now := <-ticker.C:
			c.Tick(now)
		case err := <-errs:
			if err != nil {
				return fmt.Errorf("error reading input: %w", err)
			}
			return nil
		}
	}
}
