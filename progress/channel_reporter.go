package progress

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-logr/logr"
)

// ChannelReporter sends progress events to a Go channel for programmatic
// consumption: custom UIs, dashboards, or anything else that wants the raw
// event stream inside a Go program.
//
// Events are delivered with non-blocking sends on a buffered channel, so a
// slow consumer drops events instead of stalling the workload. The reporter
// closes automatically when the construction context is cancelled; Close may
// also be called directly and is safe to call more than once.
type ChannelReporter struct {
	events        chan Event
	mu            sync.RWMutex
	closed        bool
	droppedEvents atomic.Uint64
	log           logr.Logger
}

// ChannelReporterOption configures a ChannelReporter.
type ChannelReporterOption func(*ChannelReporter)

// WithLogger sets a logger used to record dropped events.
func WithLogger(log logr.Logger) ChannelReporterOption {
	return func(r *ChannelReporter) {
		r.log = log
	}
}

// NewChannelReporter creates a channel-based reporter with a buffer of 100
// events. The channel closes when ctx is cancelled.
func NewChannelReporter(ctx context.Context, opts ...ChannelReporterOption) *ChannelReporter {
	r := &ChannelReporter{
		events: make(chan Event, 100),
		log:    logr.Discard(),
	}
	for _, opt := range opts {
		opt(r)
	}

	go func() {
		<-ctx.Done()
		r.Close()
	}()

	return r
}

// Report sends an event to the channel with a non-blocking send. If the
// buffer is full the event is dropped and counted; if the reporter is closed
// the call returns immediately.
func (c *ChannelReporter) Report(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	// Hold the read lock for the whole send so Close cannot close the
	// channel underneath us.
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return
	}

	select {
	case c.events <- event:
	default:
		dropped := c.droppedEvents.Add(1)
		c.log.V(1).Info("progress event dropped due to slow consumer",
			"stage", event.Stage,
			"message", event.Message,
			"total_dropped", dropped,
		)
	}
}

// Events returns the read-only channel consumers range over. It is closed by
// Close or by cancellation of the construction context.
func (c *ChannelReporter) Events() <-chan Event {
	return c.events
}

// DroppedEvents returns how many events were dropped because the channel
// buffer was full. A high number means the consumer is not keeping up.
func (c *ChannelReporter) DroppedEvents() uint64 {
	return c.droppedEvents.Load()
}

// Close closes the events channel. Subsequent calls have no effect.
func (c *ChannelReporter) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.events)
	}
}
