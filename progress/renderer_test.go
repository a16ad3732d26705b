package progress

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingWriter fails the first failures writes, then succeeds.
type failingWriter struct {
	failures int
	buf      bytes.Buffer
}

func (w *failingWriter) Write(p []byte) (int, error) {
	if w.failures > 0 {
		w.failures--
		return 0, errors.New("sink rejected write")
	}
	return w.buf.Write(p)
}

// flushRecorder counts Flush calls so tests can verify the renderer flushes
// after every write.
type flushRecorder struct {
	buf     bytes.Buffer
	flushes int
}

func (w *flushRecorder) Write(p []byte) (int, error) { return w.buf.Write(p) }
func (w *flushRecorder) Flush() error                { w.flushes++; return nil }

func advanceAll(t *testing.T, r *Renderer, steps int) []int {
	t.Helper()
	fills := make([]int, 0, steps)
	for i := 0; i < steps; i++ {
		k, err := r.Advance()
		require.NoError(t, err)
		fills = append(fills, k)
	}
	return fills
}

func TestRendererExactSequence(t *testing.T) {
	var buf bytes.Buffer
	r, err := NewRenderer(3, WithBarWidth(10), WithWriter(&buf))
	require.NoError(t, err)

	fills := advanceAll(t, r, 3)

	assert.Equal(t, []int{3, 3, 4}, fills)
	assert.Equal(t, "0%    100%\n==========", buf.String())
	assert.Equal(t, 10, r.Emitted())
	assert.True(t, r.Complete())
}

func TestRendererFillSumsToWidth(t *testing.T) {
	cases := []struct {
		steps int
		width int
	}{
		{1, 1},
		{1, 100},
		{3, 7},
		{7, 3},
		{5, 5},
		{10, 100},
		{33, 100},
		{64, 80},
		{100, 10},
		{128, 1},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("steps=%d,width=%d", tc.steps, tc.width), func(t *testing.T) {
			var buf bytes.Buffer
			r, err := NewRenderer(tc.steps, WithBarWidth(tc.width), WithWriter(&buf))
			require.NoError(t, err)

			sum := 0
			for i := 0; i < tc.steps; i++ {
				k, err := r.Advance()
				require.NoError(t, err)
				assert.GreaterOrEqual(t, k, 0)
				sum += k
				assert.LessOrEqual(t, sum, tc.width, "partial sum overshot the bar")
			}
			assert.Equal(t, tc.width, sum)
			assert.Equal(t, tc.width, r.Emitted())
		})
	}
}

func TestRendererResetReproducesSequence(t *testing.T) {
	var buf bytes.Buffer
	r, err := NewRenderer(7, WithBarWidth(23), WithLabel("train"), WithWriter(&buf))
	require.NoError(t, err)

	first := advanceAll(t, r, 7)
	r.Reset()
	assert.Equal(t, 0, r.Emitted())
	second := advanceAll(t, r, 7)

	assert.Equal(t, first, second)

	// Header printed exactly once per run.
	assert.Equal(t, 2, strings.Count(buf.String(), "0%"))
	assert.Equal(t, 2, strings.Count(buf.String(), "100%\n"))
}

func TestRendererDegenerateContinuation(t *testing.T) {
	var buf bytes.Buffer
	r, err := NewRenderer(3, WithBarWidth(10), WithWriter(&buf))
	require.NoError(t, err)

	fills := advanceAll(t, r, 3)
	final := fills[len(fills)-1]
	before := buf.String()

	// Extra calls keep yielding the last step's fill count but write
	// nothing, and the emitted count stops at the bar width.
	for i := 0; i < 5; i++ {
		k, err := r.Advance()
		require.NoError(t, err)
		assert.Equal(t, final, k)
	}
	assert.Equal(t, before, buf.String())
	assert.Equal(t, 10, r.Emitted())
}

func TestRendererHeader(t *testing.T) {
	var buf bytes.Buffer
	r, err := NewRenderer(4, WithBarWidth(20), WithLabel("epoch 1"), WithWriter(&buf))
	require.NoError(t, err)

	_, err = r.Advance()
	require.NoError(t, err)

	lines := strings.SplitN(buf.String(), "\n", 2)
	require.Len(t, lines, 2)
	header := lines[0]

	// "0%" + label centered in width-6 + "100%" spans exactly the bar width.
	assert.Len(t, header, 20)
	assert.True(t, strings.HasPrefix(header, "0%"))
	assert.True(t, strings.HasSuffix(header, "100%"))
	assert.Contains(t, header, "epoch 1")

	// Fill starts only after the header.
	assert.NotContains(t, header, "=")
	assert.True(t, strings.HasPrefix(lines[1], "="))
}

func TestRendererInvalidConfig(t *testing.T) {
	_, err := NewRenderer(0)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewRenderer(-4)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewRenderer(3, WithBarWidth(0))
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewRenderer(3, WithBarWidth(-10))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestRendererWriteFailureDoesNotCountStep(t *testing.T) {
	// First write (the header) fails; nothing is counted and the full run
	// still lands exactly on the bar width afterwards.
	w := &failingWriter{failures: 1}
	r, err := NewRenderer(3, WithBarWidth(10), WithWriter(w))
	require.NoError(t, err)

	_, err = r.Advance()
	require.Error(t, err)
	assert.Equal(t, 0, r.Emitted())

	fills := advanceAll(t, r, 3)
	assert.Equal(t, []int{3, 3, 4}, fills)
	assert.Equal(t, "0%    100%\n==========", w.buf.String())
}

func TestRendererWriteFailureMidRun(t *testing.T) {
	// Header and first step succeed, second step's write fails; the failed
	// step is retried and the sequence is unchanged.
	w := &failingWriter{}
	r, err := NewRenderer(3, WithBarWidth(10), WithWriter(w))
	require.NoError(t, err)

	k, err := r.Advance()
	require.NoError(t, err)
	assert.Equal(t, 3, k)

	w.failures = 1
	_, err = r.Advance()
	require.Error(t, err)
	assert.Equal(t, 3, r.Emitted())

	k, err = r.Advance()
	require.NoError(t, err)
	assert.Equal(t, 3, k)

	k, err = r.Advance()
	require.NoError(t, err)
	assert.Equal(t, 4, k)
	assert.Equal(t, 10, r.Emitted())
}

func TestRendererFlushesAfterEveryWrite(t *testing.T) {
	w := &flushRecorder{}
	r, err := NewRenderer(3, WithBarWidth(10), WithWriter(w))
	require.NoError(t, err)

	advanceAll(t, r, 3)

	// One flush for the header plus one per fill write.
	assert.Equal(t, 4, w.flushes)
}

func TestRendererConcurrentAdvance(t *testing.T) {
	var buf bytes.Buffer
	r, err := NewRenderer(100, WithBarWidth(37), WithWriter(&buf))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for g := 0; g < 10; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 10; i++ {
				_, err := r.Advance()
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 37, r.Emitted())
	out := buf.String()
	assert.Equal(t, 37, strings.Count(out, "="))
	assert.Equal(t, 1, strings.Count(out, "\n"))
}

func TestRendererDefaultWidth(t *testing.T) {
	var buf bytes.Buffer
	r, err := NewRenderer(9, WithWriter(&buf))
	require.NoError(t, err)

	sum := 0
	for i := 0; i < 9; i++ {
		k, err := r.Advance()
		require.NoError(t, err)
		sum += k
	}
	assert.Equal(t, 100, sum)
}
