// Package transport abstracts the byte-stream source consumed by a
// connection session. The production implementation is a serial port;
// tests substitute in-memory fakes.
package transport

import (
	"context"
	"errors"
)

// ErrNoDevice reports a provisioning failure: no serial device is
// available or selected. It is fatal to the connect attempt, not to
// the process.
var ErrNoDevice = errors.New("no serial device available")

// Config carries the single supported open parameter.
type Config struct {
	Port     string // device path; empty means pick the first available
	BaudRate int
}

// Capability is the result of a non-invasive environment probe.
type Capability struct {
	Supported bool   `json:"supported"`
	Details   string `json:"details"`
}

// Handle is an open byte stream, exclusively owned by one session.
type Handle interface {
	// ReadChunk blocks until the next chunk of raw bytes arrives,
	// the stream ends (io.EOF), or ctx is canceled.
	ReadChunk(ctx context.Context) ([]byte, error)
	// Close releases the underlying device and unblocks any pending
	// read. Best-effort: a close failure never prevents the session
	// from going idle.
	Close() error
}

// Provider provisions and opens transport handles. Open covers both
// steps: device selection (failing with ErrNoDevice) and the actual
// open (failing with a wrapped device error).
type Provider interface {
	Open(ctx context.Context, cfg Config) (Handle, error)
	// Probe reports whether the environment can supply a transport at
	// all, without opening one.
	Probe() Capability
}
