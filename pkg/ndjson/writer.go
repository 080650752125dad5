// Package ndjson implements newline-delimited JSON framing: each frame is
// one JSON document terminated by a single '\n'. The decoder tolerates
// arbitrary chunk boundaries and malformed lines, which makes the format
// safe to consume incrementally over a streaming HTTP body.
package ndjson

import (
	"fmt"
	"io"

	"github.com/bytedance/sonic"
)

// flusher is satisfied by hertz's hijacked chunked body writer; net/http
// response writers expose the same method without an error return.
type flusher interface {
	Flush() error
}

// Writer frames values onto a byte stream.
type Writer struct {
	w io.Writer
}

// NewWriter creates a Writer. If w also implements Flush, every frame is
// flushed immediately so the client sees increments as they are produced.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// WriteFrame encodes v as one JSON document plus a trailing newline.
// Standard JSON string escaping guarantees the payload itself never
// contains a raw newline, so the frame boundary stays unambiguous.
func (w *Writer) WriteFrame(v interface{}) error {
	data, err := sonic.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal frame: %w", err)
	}
	data = append(data, '\n')

	if _, err := w.w.Write(data); err != nil {
		return fmt.Errorf("failed to write frame: %w", err)
	}
	if f, ok := w.w.(flusher); ok {
		if err := f.Flush(); err != nil {
			return fmt.Errorf("failed to flush frame: %w", err)
		}
	}
	return nil
}
