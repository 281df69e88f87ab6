package controller

import (
	"time"

	eisenbahn "github.com/niklas-mlrr/projektwoche-2025-eisenbahn"
)

// EventRecorder receives notable layout events. Implementations must not
// block; the telemetry client queues internally.
type EventRecorder interface {
	PointsMoved(ch eisenbahn.Channel, angle int, duration time.Duration)
	CrossingClosing()
	CrossingOpened()
}

type noopEventRecorder struct{}

var _ EventRecorder = noopEventRecorder{}

// PointsMoved implements EventRecorder.
func (noopEventRecorder) PointsMoved(eisenbahn.Channel, int, time.Duration) {}

// CrossingClosing implements EventRecorder.
func (noopEventRecorder) CrossingClosing() {}

// CrossingOpened implements EventRecorder.
func (noopEventRecorder) CrossingOpened() {}
