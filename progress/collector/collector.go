package collector

import (
	"math/rand"

	"github.com/stepbar/stepbar/progress"
)

// collector is a simple pass-through collector that forwards every event.
//
// It accepts events via Report and exposes them on a buffered channel for
// the Progress hub to subscribe to. Use this when the event source already
// controls its own rate; for high-frequency loops use ThrottledCollector.
type collector struct {
	id int
	ch chan progress.Event
}

// New creates a pass-through collector with a buffered channel (capacity
// 100). Events are dropped if the buffer is full.
//
// Example:
//
//	col := collector.New()
//	prog, _ := progress.New(
//	    progress.WithCollectors(col),
//	)
//	col.Report(progress.Event{Stage: progress.StageInit})
func New() progress.Collector {
	return &collector{
		id: rand.Int(),
		ch: make(chan progress.Event, 100),
	}
}

// ID returns the unique identifier for this collector.
func (c *collector) ID() int {
	return c.id
}

// CollectChannel returns the channel that the hub reads events from.
func (c *collector) CollectChannel() chan progress.Event {
	return c.ch
}

// Report accepts an event and forwards it to the collection channel with a
// non-blocking send. A full or closed channel drops the event; the recover
// handles a channel closed mid-send during shutdown.
func (c *collector) Report(event progress.Event) {
	defer func() {
		if r := recover(); r != nil {
			// Channel closed during send, ignore
		}
	}()
	select {
	case c.ch <- event:
	default:
		// Channel full, drop the event
	}
}
