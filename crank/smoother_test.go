package crank

import "testing"

func TestSmootherMapsFullRange(t *testing.T) {
	s := NewSmoother(4, 1, 0)
	if got := s.Angle(); got != 0 {
		t.Fatalf("initial angle %d, expected 0", got)
	}

	// saturate the window at full scale
	var angle int
	for range 4 {
		angle, _ = s.Sample(1023)
	}
	if angle != 180 {
		t.Errorf("full-scale angle %d, expected 180", angle)
	}
}

func TestSmootherDeadband(t *testing.T) {
	s := NewSmoother(2, 5, 512)
	start := s.Angle()

	// a wiggle of a few counts maps to <5 degrees and must not move the output
	if _, ok := s.Sample(516); ok {
		t.Error("deadband did not suppress a small change")
	}
	if s.Angle() != start {
		t.Errorf("angle drifted to %d inside deadband", s.Angle())
	}

	// a real swing passes through
	s2 := NewSmoother(1, 5, 512)
	angle, ok := s2.Sample(700)
	if !ok {
		t.Fatal("large change was suppressed")
	}
	if angle <= start {
		t.Errorf("angle %d did not increase from %d", angle, start)
	}
}

func TestSmootherRejectsGlitches(t *testing.T) {
	s := NewSmoother(2, 5, 512)

	// disconnected-sensor readings are dropped entirely
	if _, ok := s.Sample(0, 1, 3); ok {
		t.Error("glitch-only burst changed the angle")
	}
	if got := s.Angle(); got != mapToAngle(512) {
		t.Errorf("angle %d after glitch burst, expected unchanged", got)
	}

	// mixed burst averages only the valid readings
	s2 := NewSmoother(1, 1, 512)
	angle, ok := s2.Sample(0, 800, 800)
	if !ok {
		t.Fatal("valid readings in a mixed burst were dropped")
	}
	if expected := mapToAngle(800); angle != expected {
		t.Errorf("angle %d, expected %d from the valid readings only", angle, expected)
	}
}

func TestSmootherAveragesOverWindow(t *testing.T) {
	s := NewSmoother(4, 1, 0)
	s.Sample(400)
	angle, _ := s.Sample(400)

	// only half the window is filled with 400s
	if expected := mapToAngle(200); angle != expected {
		t.Errorf("angle %d, expected %d from a half-filled window", angle, expected)
	}
}
