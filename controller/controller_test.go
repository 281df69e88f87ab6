package controller

import (
	"bytes"
	"strings"
	"testing"
	"time"

	eisenbahn "github.com/niklas-mlrr/projektwoche-2025-eisenbahn"
)

// recordingOutputs captures every output write for assertions.
type recordingOutputs struct {
	servo map[eisenbahn.Channel][]int
	lamps [][2]bool
	led   []bool
}

func newRecordingOutputs() *recordingOutputs {
	return &recordingOutputs{servo: map[eisenbahn.Channel][]int{}}
}

func (r *recordingOutputs) ServoAngle(ch eisenbahn.Channel, angle int) {
	r.servo[ch] = append(r.servo[ch], angle)
}

func (r *recordingOutputs) Lamps(lamp1, lamp2 bool) {
	r.lamps = append(r.lamps, [2]bool{lamp1, lamp2})
}

func (r *recordingOutputs) ActivityLED(on bool) {
	r.led = append(r.led, on)
}

func (r *recordingOutputs) lastServo(ch eisenbahn.Channel) int {
	angles := r.servo[ch]
	return angles[len(angles)-1]
}

func tickRange(c *Controller, from time.Time, upto, step time.Duration) {
	for elapsed := time.Duration(0); elapsed <= upto; elapsed += step {
		c.Tick(from.Add(elapsed))
	}
}

func TestControllerInitialState(t *testing.T) {
	out := newRecordingOutputs()
	New(DefaultConfig(), out)

	if got := out.lastServo(eisenbahn.ChannelPoints); got != 90 {
		t.Errorf("points initialized to %d, expected 90", got)
	}
	if got := out.lastServo(eisenbahn.ChannelBarrier); got != 90 {
		t.Errorf("barrier initialized to %d, expected 90", got)
	}
	if len(out.lamps) != 1 || out.lamps[0] != [2]bool{false, false} {
		t.Errorf("lamps initialized to %v, expected one (false, false) write", out.lamps)
	}
}

func TestControllerFeedback(t *testing.T) {
	base := time.Now()

	t.Run("Channel1EmitsOnChangeOnly", func(t *testing.T) {
		out := newRecordingOutputs()
		c := New(DefaultConfig(), out)
		var feedback bytes.Buffer
		c.SetFeedback(&feedback)

		c.HandleLine("90", base) // already at 90
		tickRange(c, base, 200*time.Millisecond, 5*time.Millisecond)
		if feedback.Len() != 0 {
			t.Errorf("feedback emitted without an angle change: %q", feedback.String())
		}

		c.HandleLine("94", base)
		tickRange(c, base, 200*time.Millisecond, 5*time.Millisecond)
		lines := strings.Fields(feedback.String())
		expected := []string{"92", "94"}
		if len(lines) != len(expected) {
			t.Fatalf("feedback lines %v, expected %v", lines, expected)
		}
		for i := range expected {
			if lines[i] != expected[i] {
				t.Errorf("feedback line %d is %q, expected %q", i, lines[i], expected[i])
			}
		}
	})

	t.Run("Channel2IsSilent", func(t *testing.T) {
		out := newRecordingOutputs()
		c := New(DefaultConfig(), out)
		var feedback bytes.Buffer
		c.SetFeedback(&feedback)

		c.HandleLine("M2 120", base)
		tickRange(c, base, 100*time.Millisecond, 5*time.Millisecond)

		if feedback.Len() != 0 {
			t.Errorf("channel 2 emitted feedback: %q", feedback.String())
		}
		if got := out.lastServo(eisenbahn.ChannelBarrier); got != 120 {
			t.Errorf("barrier at %d, expected 120", got)
		}
	})
}

func TestControllerCrossing(t *testing.T) {
	base := time.Now()
	cfg := DefaultConfig()

	t.Run("CloseMovesBarrierAfterDelay", func(t *testing.T) {
		out := newRecordingOutputs()
		c := New(cfg, out)

		c.HandleLine("BZU", base)

		// before the pre-close delay, the barrier must not move
		tickRange(c, base, 5900*time.Millisecond, 100*time.Millisecond)
		if got := out.lastServo(eisenbahn.ChannelBarrier); got != 90 {
			t.Fatalf("barrier moved to %d before pre-close delay", got)
		}

		// the move starts on the first tick past the delay
		c.Tick(base.Add(6 * time.Second))
		if got := out.lastServo(eisenbahn.ChannelBarrier); got != 90 {
			t.Fatalf("barrier at %d on the trigger tick, expected 90", got)
		}

		// halfway through the 2s close move the barrier is halfway down
		c.Tick(base.Add(7 * time.Second))
		if got := out.lastServo(eisenbahn.ChannelBarrier); got != 45 {
			t.Errorf("barrier at %d halfway through close, expected 45", got)
		}

		c.Tick(base.Add(8 * time.Second))
		if got := out.lastServo(eisenbahn.ChannelBarrier); got != cfg.Crossing.ClosedAngle {
			t.Errorf("barrier at %d after close move, expected %d", got, cfg.Crossing.ClosedAngle)
		}

		// lamps keep blinking while closed
		st := c.State()
		if !st.Blinking {
			t.Error("lamps stopped blinking while crossing closed")
		}
	})

	t.Run("OpenBeforeDelayNeverCloses", func(t *testing.T) {
		out := newRecordingOutputs()
		c := New(cfg, out)

		c.HandleLine("BZU", base)
		tickRange(c, base, 3*time.Second, 100*time.Millisecond)
		c.HandleLine("BAUF", base.Add(3*time.Second))
		tickRange(c, base.Add(3*time.Second), 12*time.Second, 100*time.Millisecond)

		for _, angle := range out.servo[eisenbahn.ChannelBarrier] {
			if angle < cfg.Crossing.OpenAngle {
				t.Fatalf("barrier dipped to %d, close move ran despite open command", angle)
			}
		}
	})

	t.Run("OpenPreemptsInFlightClose", func(t *testing.T) {
		out := newRecordingOutputs()
		c := New(cfg, out)

		c.HandleLine("BZU", base)
		tickRange(c, base, 6500*time.Millisecond, 100*time.Millisecond)
		mid := out.lastServo(eisenbahn.ChannelBarrier)
		if mid >= 90 {
			t.Fatalf("barrier did not start closing, at %d", mid)
		}

		opened := base.Add(6500 * time.Millisecond)
		c.HandleLine("BAUF", opened)
		tickRange(c, opened, cfg.Crossing.OpenMoveDuration+time.Second, 100*time.Millisecond)

		if got := out.lastServo(eisenbahn.ChannelBarrier); got != cfg.Crossing.OpenAngle {
			t.Errorf("barrier at %d after open move, expected %d", got, cfg.Crossing.OpenAngle)
		}
	})

	t.Run("StateSnapshot", func(t *testing.T) {
		out := newRecordingOutputs()
		c := New(cfg, out)

		c.HandleLine("BZU", base)
		c.Tick(base)
		st := c.State()
		if !st.Blinking {
			t.Error("snapshot not blinking after BZU")
		}
		if st.BarrierClosing {
			t.Error("snapshot reports barrier closing before delay")
		}
		if st.PointsAngle != 90 || st.BarrierAngle != 90 {
			t.Errorf("snapshot angles (%d, %d), expected (90, 90)", st.PointsAngle, st.BarrierAngle)
		}
	})
}

func TestControllerActivityLED(t *testing.T) {
	base := time.Now()
	out := newRecordingOutputs()
	c := New(DefaultConfig(), out)

	c.HandleLine("0 1000", base)
	tickRange(c, base, 2*time.Second, 50*time.Millisecond)

	var sawOn bool
	for _, on := range out.led {
		if on {
			sawOn = true
		}
	}
	if !sawOn {
		t.Error("activity LED never turned on during a move")
	}
	if last := out.led[len(out.led)-1]; last {
		t.Error("activity LED still on after movement finished")
	}
}

func TestControllerIgnoresGarbage(t *testing.T) {
	base := time.Now()
	out := newRecordingOutputs()
	c := New(DefaultConfig(), out)

	before := len(out.servo[eisenbahn.ChannelPoints]) + len(out.servo[eisenbahn.ChannelBarrier])
	c.HandleLine("hello", base)
	c.HandleLine("M2", base)
	c.HandleLine("", base)
	tickRange(c, base, time.Second, 50*time.Millisecond)
	after := len(out.servo[eisenbahn.ChannelPoints]) + len(out.servo[eisenbahn.ChannelBarrier])

	if before != after {
		t.Errorf("garbage input caused %d servo writes", after-before)
	}
}
