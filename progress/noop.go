package progress

// NoopReporter discards all events. It is installed automatically when a hub
// is created without reporters, so progress reporting costs nothing when
// disabled.
type NoopReporter struct{}

// NewNoopReporter creates a no-op progress reporter.
func NewNoopReporter() *NoopReporter {
	return &NoopReporter{}
}

// Report discards the event.
func (n *NoopReporter) Report(event Event) {
}
