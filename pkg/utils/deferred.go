// Package utils holds small shared helpers with no project dependencies.
package utils

import (
	"bytes"
	"io"
	"sync"
)

// DeferredWriter buffers log output while the TUI owns the terminal, so it
// can be replayed once the program returns to the shell.
type DeferredWriter struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

// Write appends to the buffer. Always succeeds.
func (w *DeferredWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.Write(p)
}

// Flush replays everything buffered so far through out, one line per write,
// and resets the buffer. Line-at-a-time keeps zerolog's ConsoleWriter happy;
// it expects a single event per Write call.
func (w *DeferredWriter) Flush(out io.Writer) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.buf.Len() == 0 {
		return nil
	}
	defer w.buf.Reset()

	for _, line := range bytes.SplitAfter(w.buf.Bytes(), []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		if _, err := out.Write(line); err != nil {
			return err
		}
	}
	return nil
}
