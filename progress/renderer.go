package progress

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// ErrInvalidConfig is returned by NewRenderer when the step count or bar
// width is not positive.
var ErrInvalidConfig = errors.New("invalid renderer configuration")

// flusher is implemented by buffered writers (bufio.Writer and friends).
type flusher interface {
	Flush() error
}

// Renderer draws a fixed-width, append-only fill bar for a loop with a known
// number of steps.
//
// Each call to Advance writes zero or more fill characters ('=') so that
// after exactly the configured number of steps the bar has exactly the
// configured width: no overshoot, no undershoot, regardless of whether the
// width divides evenly into the step count. The distribution is computed
// with an integer error-diffusion accumulator, the same technique used by
// line-rasterization algorithms, so consecutive steps differ by at most one
// fill character.
//
// Unlike a carriage-return bar, the output is append-only: nothing is ever
// redrawn, which makes the bar safe for dumb terminals, CI logs and
// notebooks. A header line showing "0%", the label and "100%" is written
// before the first fill character of each run.
//
// Renderer is safe for concurrent use; calls are serialized and the emitted
// character sequence reflects their lock-acquisition order.
type Renderer struct {
	totalSteps int
	barWidth   int
	label      string
	writer     io.Writer

	mu            sync.Mutex
	acc           int // error-diffusion accumulator
	stepIndex     int
	emitted       int
	lastFill      int
	headerWritten bool
}

// RendererOption configures a Renderer during creation.
type RendererOption func(*Renderer)

// WithBarWidth sets the number of fill characters representing 100%.
// The default is 100.
func WithBarWidth(width int) RendererOption {
	return func(r *Renderer) {
		r.barWidth = width
	}
}

// WithLabel sets the text centered in the header line of each run.
func WithLabel(label string) RendererOption {
	return func(r *Renderer) {
		r.label = label
	}
}

// WithWriter sets the output stream the bar is written to.
// The default is os.Stdout. If the writer is buffered (has a Flush method),
// it is flushed after every write so the bar appears in real time.
func WithWriter(w io.Writer) RendererOption {
	return func(r *Renderer) {
		r.writer = w
	}
}

// NewRenderer creates a renderer expecting totalSteps calls to Advance.
//
// Returns an error wrapping ErrInvalidConfig if totalSteps or the configured
// bar width is not positive.
func NewRenderer(totalSteps int, opts ...RendererOption) (*Renderer, error) {
	r := &Renderer{
		totalSteps: totalSteps,
		barWidth:   100,
		writer:     os.Stdout,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.totalSteps <= 0 {
		return nil, fmt.Errorf("%w: total steps must be positive, got %d", ErrInvalidConfig, r.totalSteps)
	}
	if r.barWidth <= 0 {
		return nil, fmt.Errorf("%w: bar width must be positive, got %d", ErrInvalidConfig, r.barWidth)
	}
	r.acc = r.barWidth - r.totalSteps
	return r, nil
}

// Advance records one completed step and writes this step's share of fill
// characters, with no trailing newline. The first call of a run writes the
// header line first.
//
// Returns the number of fill characters attributed to this step. Calling
// Advance more than totalSteps times keeps returning the final step's fill
// count without writing anything further; the bar never grows past its
// configured width.
//
// If a write fails, the error is returned and no counter advances: the step
// is not counted and a subsequent call retries it.
func (r *Renderer) Advance() (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.headerWritten {
		if err := r.write(r.header()); err != nil {
			return 0, err
		}
		r.headerWritten = true
	}

	if r.stepIndex >= r.totalSteps {
		// Driven past the configured total: keep yielding the final
		// step's fill count rather than erroring.
		return r.lastFill, nil
	}

	// Compute the step into locals and commit only after the write
	// succeeds, so a failed write leaves the run where it was.
	fill := 0
	acc := r.acc
	for acc >= 0 {
		fill++
		acc -= r.totalSteps
	}
	acc += r.barWidth

	if fill > 0 {
		if err := r.write(strings.Repeat("=", fill)); err != nil {
			return 0, err
		}
	}

	r.acc = acc
	r.stepIndex++
	r.emitted += fill
	r.lastFill = fill
	return fill, nil
}

// Reset reinitializes the run. The next Advance writes a fresh header and
// the fill sequence repeats identically.
func (r *Renderer) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.acc = r.barWidth - r.totalSteps
	r.stepIndex = 0
	r.emitted = 0
	r.lastFill = 0
	r.headerWritten = false
}

// Emitted returns the number of fill characters written in the current run.
func (r *Renderer) Emitted() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.emitted
}

// Complete reports whether the current run has received all of its steps.
func (r *Renderer) Complete() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stepIndex >= r.totalSteps
}

// header builds the run header: "0%", the label centered in a field of
// barWidth-6, then "100%", so the line spans exactly barWidth columns.
func (r *Renderer) header() string {
	return "0%" + center(r.label, r.barWidth-6) + "100%\n"
}

func (r *Renderer) write(s string) error {
	if _, err := io.WriteString(r.writer, s); err != nil {
		return fmt.Errorf("progress write failed: %w", err)
	}
	if f, ok := r.writer.(flusher); ok {
		if err := f.Flush(); err != nil {
			return fmt.Errorf("progress flush failed: %w", err)
		}
	}
	return nil
}

// center pads s with spaces to the given width, odd padding going to the
// right. Returns s unchanged if it is already at least width long.
func center(s string, width int) string {
	pad := width - len(s)
	if pad <= 0 {
		return s
	}
	left := pad / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", pad-left)
}
