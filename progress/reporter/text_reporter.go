package reporter

import (
	"fmt"
	"io"
	"sync"

	"github.com/stepbar/stepbar/progress"
)

// TextReporter writes progress events as timestamped human-readable lines,
// one per event. Suitable for terminals, log files and CI output.
//
// Example output:
//
//	[17:06:14] Starting run
//	[17:06:15] Loaded 60000 samples
//	[17:06:15] Epoch 1/5
//	[17:06:22] Step 120/600 (20.0%)
//	[17:06:40] Eval: accuracy=0.98
//	[17:06:41] Run complete!
type TextReporter struct {
	writer io.Writer
	mu     sync.Mutex
}

// NewTextReporter creates a text progress reporter that writes to w,
// typically os.Stderr.
func NewTextReporter(w io.Writer) *TextReporter {
	return &TextReporter{
		writer: w,
	}
}

// Report writes a progress event as human-readable text. Safe for concurrent
// use.
func (t *TextReporter) Report(event progress.Event) {
	t.mu.Lock()
	defer t.mu.Unlock()

	normalize(&event)
	ts := event.Timestamp.Format("15:04:05")

	var output string
	switch event.Stage {
	case progress.StageInit:
		if event.Message != "" {
			output = fmt.Sprintf("[%s] %s\n", ts, event.Message)
		} else {
			output = fmt.Sprintf("[%s] Starting run\n", ts)
		}
	case progress.StageDataLoad:
		if event.Total > 0 {
			output = fmt.Sprintf("[%s] Loaded %d samples\n", ts, event.Total)
		} else if event.Message != "" {
			output = fmt.Sprintf("[%s] %s\n", ts, event.Message)
		}
	case progress.StageEpoch:
		if event.Total > 0 {
			output = fmt.Sprintf("[%s] Epoch %d/%d\n", ts, event.Current, event.Total)
		} else if event.Message != "" {
			output = fmt.Sprintf("[%s] %s\n", ts, event.Message)
		}
	case progress.StageStep:
		if event.Total > 0 {
			output = fmt.Sprintf("[%s] Step %d/%d (%.1f%%)\n",
				ts, event.Current, event.Total, event.Percent)
		}
		if event.Message != "" {
			output += fmt.Sprintf("[%s] %s\n", ts, event.Message)
		}
	case progress.StageEval:
		if event.Message != "" {
			output = fmt.Sprintf("[%s] Eval: %s\n", ts, event.Message)
		}
	case progress.StageComplete:
		output = fmt.Sprintf("[%s] Run complete!\n", ts)
	default:
		if event.Message != "" {
			output = fmt.Sprintf("[%s] %s\n", ts, event.Message)
		}
	}

	if output != "" {
		t.writer.Write([]byte(output))
	}
}
