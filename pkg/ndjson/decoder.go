package ndjson

import (
	"bytes"
	"io"

	"github.com/bytedance/sonic"
)

// readChunkSize is deliberately small-ish; frames are tiny and the decoder
// must behave identically no matter how the transport slices them.
const readChunkSize = 4096

// DropFunc is invoked for every line that fails to parse. The line is
// skipped and decoding continues; parse failures never abort the stream.
type DropFunc func(line []byte, err error)

// Decoder reassembles frames from a byte stream that may split or coalesce
// them arbitrarily. It keeps the trailing incomplete segment buffered until
// the next read delivers the rest; at EOF a final unterminated line is
// still decoded, since the last frame may lack its newline.
type Decoder struct {
	r      io.Reader
	buf    []byte
	chunk  []byte
	onDrop DropFunc
	err    error
}

// NewDecoder creates a Decoder reading from r. onDrop may be nil.
func NewDecoder(r io.Reader, onDrop DropFunc) *Decoder {
	return &Decoder{
		r:      r,
		chunk:  make([]byte, readChunkSize),
		onDrop: onDrop,
	}
}

// Decode parses the next frame into v. It returns io.EOF once the stream is
// exhausted, and any transport read error as-is. Malformed lines are
// reported to the drop hook and skipped.
func (d *Decoder) Decode(v interface{}) error {
	for {
		if line, ok := d.nextLine(); ok {
			if len(line) == 0 {
				continue
			}
			if err := sonic.Unmarshal(line, v); err != nil {
				if d.onDrop != nil {
					d.onDrop(line, err)
				}
				continue
			}
			return nil
		}

		if d.err != nil {
			// Stream ended; the buffer may still hold one unterminated line.
			if line := d.takeRemainder(); len(line) > 0 {
				if err := sonic.Unmarshal(line, v); err != nil {
					if d.onDrop != nil {
						d.onDrop(line, err)
					}
					return d.err
				}
				return nil
			}
			return d.err
		}

		n, err := d.r.Read(d.chunk)
		if n > 0 {
			d.buf = append(d.buf, d.chunk[:n]...)
		}
		if err != nil {
			d.err = err
		}
	}
}

// nextLine splits one complete newline-terminated line off the buffer.
func (d *Decoder) nextLine() ([]byte, bool) {
	idx := bytes.IndexByte(d.buf, '\n')
	if idx < 0 {
		return nil, false
	}
	line := bytes.TrimSpace(d.buf[:idx])
	d.buf = d.buf[idx+1:]
	return line, true
}

// takeRemainder drains whatever is left in the buffer after EOF.
func (d *Decoder) takeRemainder() []byte {
	line := bytes.TrimSpace(d.buf)
	d.buf = nil
	return line
}
