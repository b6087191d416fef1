package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	serial "go.bug.st/serial"
)

// readBufSize is the per-read scratch buffer; one serial chunk is at
// most this many bytes.
const readBufSize = 256

// chunkQueue bounds chunks buffered between the port reader goroutine
// and the consuming session.
const chunkQueue = 8

// SerialProvider opens real serial ports via go.bug.st/serial.
type SerialProvider struct{}

func NewSerialProvider() *SerialProvider { return &SerialProvider{} }

var _ Provider = (*SerialProvider)(nil)

// Open selects a device (configured port, or the first enumerated one)
// and opens it at the configured baud rate.
func (p *SerialProvider) Open(_ context.Context, cfg Config) (Handle, error) {
	name := cfg.Port
	if name == "" {
		ports, err := serial.GetPortsList()
		if err != nil {
			return nil, fmt.Errorf("%w: enumerate ports: %v", ErrNoDevice, err)
		}
		if len(ports) == 0 {
			return nil, ErrNoDevice
		}
		name = ports[0]
	}

	port, err := serial.Open(name, &serial.Mode{BaudRate: cfg.BaudRate})
	if err != nil {
		return nil, fmt.Errorf("open serial %s: %w", name, err)
	}

	h := &serialHandle{
		port:   port,
		chunks: make(chan []byte, chunkQueue),
		done:   make(chan struct{}),
	}
	go h.pump()
	return h, nil
}

// Probe enumerates serial ports without opening any.
func (p *SerialProvider) Probe() Capability {
	ports, err := serial.GetPortsList()
	if err != nil {
		return Capability{Supported: false, Details: fmt.Sprintf("port enumeration failed: %v", err)}
	}
	if len(ports) == 0 {
		return Capability{Supported: false, Details: "no serial ports detected"}
	}
	return Capability{
		Supported: true,
		Details:   fmt.Sprintf("%d port(s) available: %s", len(ports), strings.Join(ports, ", ")),
	}
}

// serialHandle adapts a blocking serial.Port to the cancellable
// ReadChunk contract. A single pump goroutine owns the raw reads;
// closing the port unblocks it.
type serialHandle struct {
	port    serial.Port
	chunks  chan []byte
	done    chan struct{}
	readErr error // set by pump before chunks is closed

	closeOnce sync.Once
	closeErr  error
}

var _ Handle = (*serialHandle)(nil)

// pump moves raw reads onto the chunk channel until the port fails,
// reports end-of-stream, or the handle is closed.
func (h *serialHandle) pump() {
	defer close(h.chunks)
	buf := make([]byte, readBufSize)
	for {
		n, err := h.port.Read(buf)
		if err != nil {
			h.readErr = err
			return
		}
		if n == 0 {
			// go.bug.st/serial reports a closed stream as a zero-byte read
			h.readErr = io.EOF
			return
		}
		chunk := make([]byte, n)
		copy(chunk, buf[:n])
		select {
		case h.chunks <- chunk:
		case <-h.done:
			return
		}
	}
}

// ReadChunk returns the next chunk, io.EOF at end of stream, or the
// context error once ctx is canceled.
func (h *serialHandle) ReadChunk(ctx context.Context) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case chunk, ok := <-h.chunks:
		if !ok {
			if h.readErr == nil || isClosedPortErr(h.readErr) {
				return nil, io.EOF
			}
			return nil, h.readErr
		}
		return chunk, nil
	}
}

// Close releases the port; the pending blocking read inside pump
// errors out and the goroutine exits.
func (h *serialHandle) Close() error {
	h.closeOnce.Do(func() {
		close(h.done)
		h.closeErr = h.port.Close()
	})
	return h.closeErr
}

// isClosedPortErr recognizes the read failure produced when Close
// races a pending read; that is a normal teardown, not a fault.
func isClosedPortErr(err error) bool {
	var pe *serial.PortError
	if errors.As(err, &pe) {
		return pe.Code() == serial.PortClosed
	}
	return false
}
