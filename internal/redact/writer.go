package redact

import (
	"bytes"
	"io"
	"sync"
)

// Writer scrubs registered secrets from a byte stream before forwarding it
// to the underlying writer. Output is processed line-wise: complete lines
// are scrubbed and forwarded immediately, a trailing partial line is held
// back until the next write or Flush so a secret split across two writes
// cannot slip through. Safe for concurrent use.
type Writer struct {
	mu       sync.Mutex
	registry *Registry
	dst      io.Writer
	pending  bytes.Buffer
}

// NewWriter wraps dst with scrubbing backed by the given registry.
func NewWriter(dst io.Writer, registry *Registry) *Writer {
	return &Writer{registry: registry, dst: dst}
}

// Write implements io.Writer. It always reports the full input length as
// written once the data is accepted, even while a partial line is buffered.
func (w *Writer) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pending.Write(p)

	for {
		line, err := w.pending.ReadString('\n')
		if err != nil {
			// No newline yet, keep the partial line for the next write.
			w.pending.Reset()
			w.pending.WriteString(line)
			break
		}
		if _, err := io.WriteString(w.dst, w.registry.Scrub(line)); err != nil {
			return 0, err
		}
	}

	return len(p), nil
}

// Flush scrubs and forwards any buffered partial line. Call after the
// producing process has exited.
func (w *Writer) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.pending.Len() == 0 {
		return nil
	}
	line := w.pending.String()
	w.pending.Reset()
	_, err := io.WriteString(w.dst, w.registry.Scrub(line))
	return err
}
