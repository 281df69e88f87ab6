// Package telemetry posts layout events to the project's logging server so
// a run of the layout can be replayed afterwards. When no server address is
// configured the controller keeps its default no-op recorder instead.
package telemetry

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/calvinmclean/babyapi"
	"github.com/google/uuid"

	eisenbahn "github.com/niklas-mlrr/projektwoche-2025-eisenbahn"
	"github.com/niklas-mlrr/projektwoche-2025-eisenbahn/logger"
)

// Kind classifies a layout event.
type Kind string

const (
	KindPointsMoved     Kind = "points_moved"
	KindCrossingClosing Kind = "crossing_closing"
	KindCrossingOpened  Kind = "crossing_opened"
	KindShutdown        Kind = "shutdown"
)

// Event is one recorded layout event.
type Event struct {
	ID   string    `json:"id"`
	Kind Kind      `json:"kind"`
	Note string    `json:"note"`
	Time time.Time `json:"time"`
}

type event struct {
	// include NilResource so we don't implement Render/Bind which are not needed
	*babyapi.NilResource
	Event
}

func (e event) GetID() string {
	return e.Event.ID
}

const (
	postTimeout = 5 * time.Second
	queueSize   = 64
)

// Client queues events and posts them from a background goroutine, so
// recording never blocks the control loop.
type Client struct {
	client *babyapi.Client[*event]
	log    *logger.Logger
	queue  chan Event
	done   chan struct{}

	// mu orders record against Close: the controller may still emit events
	// while the process shuts down.
	mu     sync.Mutex
	closed bool
}

// NewClient starts the background sender. Call Close to flush and stop.
func NewClient(addr string, log *logger.Logger) *Client {
	c := &Client{
		client: babyapi.NewClient[*event](addr, "/events"),
		log:    log,
		queue:  make(chan Event, queueSize),
		done:   make(chan struct{}),
	}
	go c.run()
	return c
}

func (c *Client) run() {
	defer close(c.done)
	for ev := range c.queue {
		ctx, cancel := context.WithTimeout(context.Background(), postTimeout)
		_, err := c.client.Post(ctx, &event{Event: ev})
		cancel()
		if err != nil {
			c.log.Warnw("error posting layout event", "kind", ev.Kind, "err", err)
		}
	}
}

func (c *Client) record(kind Kind, note string) {
	ev := Event{
		ID:   uuid.NewString(),
		Kind: kind,
		Note: note,
		Time: time.Now(),
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}

	select {
	case c.queue <- ev:
	default:
		c.log.Debugw("telemetry queue full, dropping event", "kind", kind)
	}
}

// PointsMoved implements controller.EventRecorder.
func (c *Client) PointsMoved(ch eisenbahn.Channel, angle int, duration time.Duration) {
	note := fmt.Sprintf("%s to %d°", ch, angle)
	if duration > 0 {
		note += fmt.Sprintf(" over %s", duration)
	}
	c.record(KindPointsMoved, note)
}

// CrossingClosing implements controller.EventRecorder.
func (c *Client) CrossingClosing() {
	c.record(KindCrossingClosing, "BZU")
}

// CrossingOpened implements controller.EventRecorder.
func (c *Client) CrossingOpened() {
	c.record(KindCrossingOpened, "BAUF")
}

// Close flushes queued events and stops the sender. Events recorded after
// Close are dropped.
func (c *Client) Close() {
	c.record(KindShutdown, "controller stopped")

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.queue)
	c.mu.Unlock()

	<-c.done
}
