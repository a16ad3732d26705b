package reporter

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/stepbar/stepbar/progress"
)

// JSONReporter writes progress events as newline-delimited JSON (NDJSON).
//
// Each line is a complete JSON object that can be parsed independently,
// which makes the stream robust to interruption and easy to feed into log
// aggregation or pipeline tooling.
//
// Example output:
//
//	{"timestamp":"2026-08-27T17:06:15Z","stage":"epoch","current":1,"total":5}
//	{"timestamp":"2026-08-27T17:06:22Z","stage":"step","current":120,"total":600,"percent":20}
//	{"timestamp":"2026-08-27T17:06:41Z","stage":"complete"}
type JSONReporter struct {
	writer io.Writer
	mu     sync.Mutex
}

// NewJSONReporter creates a JSON progress reporter that writes to w.
func NewJSONReporter(w io.Writer) *JSONReporter {
	return &JSONReporter{
		writer: w,
	}
}

// Report writes a progress event as a single JSON line. Marshal and write
// errors are silently skipped so reporting can never disrupt the workload.
// Safe for concurrent use.
func (j *JSONReporter) Report(event progress.Event) {
	j.mu.Lock()
	defer j.mu.Unlock()

	normalize(&event)

	data, err := json.Marshal(event)
	if err != nil {
		return
	}
	fmt.Fprintln(j.writer, string(data))
}
