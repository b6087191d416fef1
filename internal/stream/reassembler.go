package stream

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// ErrInvalidEncoding reports a chunk that is not valid UTF-8 text.
// The offending chunk is dropped in full; the retained buffer is
// never polluted with undecodable bytes.
var ErrInvalidEncoding = errors.New("chunk is not valid UTF-8 text")

// Reassembler accumulates raw byte chunks and emits complete
// newline-terminated lines, carrying any trailing partial line over
// to the next call. It is owned by a single session and is not safe
// for concurrent use.
type Reassembler struct {
	buf string // at most one partial line, never contains '\n'
}

// NewReassembler returns an empty reassembler.
func NewReassembler() *Reassembler {
	return &Reassembler{}
}

// Ingest appends a chunk to the retained buffer and returns all
// complete lines in arrival order, trimmed of surrounding whitespace.
// Blank lines are filtered out here so downstream parsing never sees
// an empty line. The trailing piece after the last newline (possibly
// empty) becomes the new retained buffer.
func (r *Reassembler) Ingest(chunk []byte) ([]string, error) {
	if !utf8.Valid(chunk) {
		return nil, ErrInvalidEncoding
	}

	r.buf += string(chunk)
	if !strings.Contains(r.buf, "\n") {
		return nil, nil
	}

	parts := strings.Split(r.buf, "\n")
	r.buf = parts[len(parts)-1]

	lines := make([]string, 0, len(parts)-1)
	for _, p := range parts[:len(parts)-1] {
		if line := strings.TrimSpace(p); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, nil
}

// Buffered returns the retained partial line.
func (r *Reassembler) Buffered() string {
	return r.buf
}

// Reset discards the retained partial line. Called on disconnect:
// partial lines do not survive a session.
func (r *Reassembler) Reset() {
	r.buf = ""
}
