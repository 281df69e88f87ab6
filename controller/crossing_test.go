package controller

import (
	"testing"
	"time"
)

func crossingCfg() CrossingConfig {
	return DefaultConfig().Crossing
}

func TestCrossingCloseSequence(t *testing.T) {
	base := time.Now()

	t.Run("LampsStartImmediately", func(t *testing.T) {
		c := NewCrossing(crossingCfg())
		c.Close(base)
		lamp1, lamp2, startClose := c.Tick(base)
		if !lamp1 || lamp2 {
			t.Errorf("lamps (%v, %v), expected (true, false) right after close", lamp1, lamp2)
		}
		if startClose {
			t.Error("barrier close triggered before pre-close delay")
		}
	})

	t.Run("CloseTriggersExactlyOnceAfterDelay", func(t *testing.T) {
		c := NewCrossing(crossingCfg())
		c.Close(base)

		triggers := 0
		var triggeredAt time.Duration
		for ms := 0; ms <= 10000; ms += 100 {
			elapsed := time.Duration(ms) * time.Millisecond
			if _, _, startClose := c.Tick(base.Add(elapsed)); startClose {
				triggers++
				triggeredAt = elapsed
			}
		}
		if triggers != 1 {
			t.Fatalf("barrier close triggered %d times, expected exactly once", triggers)
		}
		if triggeredAt < 6*time.Second {
			t.Errorf("barrier close triggered at %v, expected >= 6s", triggeredAt)
		}
	})

	t.Run("OpenBeforeDelayCancelsClose", func(t *testing.T) {
		c := NewCrossing(crossingCfg())
		c.Close(base)
		for ms := 0; ms <= 3000; ms += 100 {
			if _, _, startClose := c.Tick(base.Add(time.Duration(ms) * time.Millisecond)); startClose {
				t.Fatal("barrier close triggered before delay elapsed")
			}
		}

		c.Open(base.Add(3 * time.Second))
		for ms := 3000; ms <= 15000; ms += 100 {
			if _, _, startClose := c.Tick(base.Add(time.Duration(ms) * time.Millisecond)); startClose {
				t.Fatal("barrier close triggered after open command")
			}
		}
	})

	t.Run("RepeatedCloseRestartsBlinkTimer", func(t *testing.T) {
		c := NewCrossing(crossingCfg())
		c.Close(base)
		c.Tick(base.Add(5 * time.Second))

		c.Close(base.Add(5 * time.Second))
		for ms := 5000; ms < 11000; ms += 100 {
			if _, _, startClose := c.Tick(base.Add(time.Duration(ms) * time.Millisecond)); startClose {
				t.Fatalf("barrier close triggered %dms after first close, timer was not restarted", ms)
			}
		}
		if _, _, startClose := c.Tick(base.Add(11 * time.Second)); !startClose {
			t.Error("barrier close missing after restarted delay elapsed")
		}
	})
}

func TestCrossingOpenSequence(t *testing.T) {
	base := time.Now()

	t.Run("LampsKeepBlinkingForStopDelay", func(t *testing.T) {
		c := NewCrossing(crossingCfg())
		c.Close(base)
		c.Tick(base)

		opened := base.Add(time.Second)
		c.Open(opened)

		lamp1, lamp2, _ := c.Tick(opened.Add(499 * time.Millisecond))
		if !lamp1 && !lamp2 {
			t.Error("lamps already off 499ms after open, expected them still blinking")
		}

		lamp1, lamp2, _ = c.Tick(opened.Add(500 * time.Millisecond))
		if lamp1 || lamp2 {
			t.Errorf("lamps (%v, %v) 500ms after open, expected both off", lamp1, lamp2)
		}
		if c.Blinking() {
			t.Error("still blinking after lamp-stop delay")
		}
	})

	t.Run("OpenWhileIdleKeepsLampsOff", func(t *testing.T) {
		c := NewCrossing(crossingCfg())
		c.Open(base)
		lamp1, lamp2, startClose := c.Tick(base.Add(time.Second))
		if lamp1 || lamp2 || startClose {
			t.Errorf("idle open produced lamps (%v, %v) startClose=%v", lamp1, lamp2, startClose)
		}
	})
}

func TestLampBlinker(t *testing.T) {
	base := time.Now()
	c := NewCrossing(crossingCfg())
	c.Close(base)

	// phases must alternate every 400ms and stay mutually exclusive
	prev1, prev2, _ := c.Tick(base)
	for ms := 400; ms <= 2000; ms += 400 {
		lamp1, lamp2, _ := c.Tick(base.Add(time.Duration(ms) * time.Millisecond))
		if lamp1 == lamp2 {
			t.Fatalf("lamps not mutually exclusive at %dms: (%v, %v)", ms, lamp1, lamp2)
		}
		if lamp1 == prev1 && lamp2 == prev2 {
			t.Fatalf("lamps did not toggle at %dms", ms)
		}
		prev1, prev2 = lamp1, lamp2
	}
}
