package collector

import (
	"math/rand"
	"sync"
	"time"

	"github.com/stepbar/stepbar/progress"
)

// ThrottledCollector is a collector with interval throttling for
// high-frequency event sources.
//
// Per-batch progress inside a tight training loop can produce thousands of
// events per second; forwarding them all just burns cycles in the reporters.
// The throttled collector forwards:
//   - the first event of a sequence (Current == 1 or nothing forwarded yet)
//   - the last event (Current == Total)
//   - intermediate events at most once per interval (default 500ms)
//
// and drops the rest. Safe for concurrent use.
type ThrottledCollector struct {
	// stage is stamped onto events that arrive without one
	stage progress.Stage

	throttleInterval time.Duration
	lastReportTime   time.Time
	lastReported     int
	reportMu         sync.Mutex

	ch chan progress.Event
	id int
}

// NewThrottledCollector creates a throttled collector with the default 500ms
// interval. Events without a Stage are stamped with the given default.
func NewThrottledCollector(stage progress.Stage) *ThrottledCollector {
	return NewThrottledCollectorWithInterval(stage, 500*time.Millisecond)
}

// NewThrottledCollectorWithInterval creates a throttled collector with a
// custom throttle interval.
func NewThrottledCollectorWithInterval(stage progress.Stage, interval time.Duration) *ThrottledCollector {
	return &ThrottledCollector{
		stage:            stage,
		throttleInterval: interval,
		id:               rand.Int(),
		ch:               make(chan progress.Event, 100),
	}
}

// ID returns the unique identifier for this collector.
func (t *ThrottledCollector) ID() int {
	return t.id
}

// CollectChannel returns the channel that the hub reads events from.
func (t *ThrottledCollector) CollectChannel() chan progress.Event {
	return t.ch
}

// Report accepts an event and forwards it if the throttling rules allow:
// first event, last event, or interval elapsed. Forwarding uses a
// non-blocking send; a full buffer drops the event. Safe for concurrent use.
func (t *ThrottledCollector) Report(event progress.Event) {
	defer func() {
		if r := recover(); r != nil {
			// Channel closed during send, ignore
		}
	}()

	if event.Stage == "" {
		event.Stage = t.stage
	}

	t.reportMu.Lock()
	now := time.Now()
	sinceLast := now.Sub(t.lastReportTime)
	current := event.Current
	total := event.Total

	isFirst := current == 1 || t.lastReported == 0
	isLast := current == total && total > 0
	intervalElapsed := sinceLast >= t.throttleInterval

	if !(isFirst || isLast || intervalElapsed) {
		t.reportMu.Unlock()
		return
	}

	t.lastReportTime = now
	t.lastReported = current
	t.reportMu.Unlock()

	select {
	case t.ch <- event:
	default:
		// Channel full, drop the event
	}
}
