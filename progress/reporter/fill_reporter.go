package reporter

import (
	"fmt"
	"io"
	"sync"

	"github.com/stepbar/stepbar/progress"
)

// FillReporter renders step events as an append-only fill bar.
//
// It drives a progress.Renderer from the event stream: when the first step
// event of a run arrives, a renderer sized to the event's Total is armed and
// a header line is printed; every step event then advances the bar by one
// step. The bar reaches exactly its configured width on the final step and a
// newline finishes the line. Epoch and completion events close the current
// bar so the next run starts fresh.
//
// Because the output is append-only (no carriage returns, no redrawing) the
// bar is safe for CI logs, files and notebook output, unlike an in-place
// terminal bar.
//
// Example output for a two-epoch run:
//
//	0%       epoch 1/2        100%
//	================================
//	0%       epoch 2/2        100%
//	================================
type FillReporter struct {
	writer   io.Writer
	barWidth int
	label    string

	mu         sync.Mutex
	bar        *progress.Renderer
	armedTotal int
	runLabel   string
	finished   bool
}

// FillReporterOption configures a FillReporter.
type FillReporterOption func(*FillReporter)

// WithBarWidth sets the rendered bar width in characters. The default is 60.
func WithBarWidth(width int) FillReporterOption {
	return func(f *FillReporter) {
		f.barWidth = width
	}
}

// WithRunLabel sets the header label used when no epoch event has supplied
// one.
func WithRunLabel(label string) FillReporterOption {
	return func(f *FillReporter) {
		f.label = label
	}
}

// NewFillReporter creates a fill-bar reporter that writes to w, typically
// os.Stderr.
func NewFillReporter(w io.Writer, opts ...FillReporterOption) *FillReporter {
	f := &FillReporter{
		writer:   w,
		barWidth: 60,
	}
	for _, opt := range opts {
		opt(f)
	}
	f.runLabel = f.label
	return f
}

// Report processes a progress event. Step events advance the bar; epoch
// events close the current bar and set the next run's header label;
// completion events close the bar. Other stages are ignored here (pair with
// a TextReporter for message output). Render errors are silently skipped so
// reporting can never disrupt the workload. Safe for concurrent use.
func (f *FillReporter) Report(event progress.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()

	normalize(&event)

	switch event.Stage {
	case progress.StageEpoch:
		f.closeBar()
		if event.Total > 0 {
			f.runLabel = fmt.Sprintf("epoch %d/%d", event.Current, event.Total)
		} else if event.Message != "" {
			f.runLabel = event.Message
		}

	case progress.StageStep:
		if event.Total <= 0 {
			return
		}
		if f.bar == nil || f.armedTotal != event.Total {
			f.closeBar()
			bar, err := progress.NewRenderer(event.Total,
				progress.WithBarWidth(f.barWidth),
				progress.WithLabel(f.runLabel),
				progress.WithWriter(f.writer),
			)
			if err != nil {
				return
			}
			f.bar = bar
			f.armedTotal = event.Total
			f.finished = false
		}
		if _, err := f.bar.Advance(); err != nil {
			return
		}
		if f.bar.Complete() && !f.finished {
			fmt.Fprint(f.writer, "\n")
			f.finished = true
		}

	case progress.StageComplete:
		f.closeBar()
	}
}

// closeBar finishes an in-flight bar line and disarms the renderer.
func (f *FillReporter) closeBar() {
	if f.bar != nil && !f.finished {
		fmt.Fprint(f.writer, "\n")
	}
	f.bar = nil
	f.armedTotal = 0
	f.finished = false
}
