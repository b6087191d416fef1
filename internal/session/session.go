// Package session implements the connection lifecycle state machine
// that owns the serial transport and runs the single read loop
// feeding the readings store and event log.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"soil_monitor/internal/logger"
	"soil_monitor/internal/models"
	"soil_monitor/internal/store"
	"soil_monitor/internal/stream"
	"soil_monitor/internal/transport"
)

// ErrBusy rejects a connect or disconnect that races an in-flight
// lifecycle transition. Policy: a second connect while connecting or
// active is rejected, never queued and never an implicit teardown;
// the observer must disconnect first.
var ErrBusy = errors.New("session busy")

// Session drives one connect/disconnect cycle over a transport.
// It is the exclusive owner of the handle and of the line
// reassembler; at most one read loop runs at any time.
type Session struct {
	provider transport.Provider
	cfg      transport.Config
	readings *store.ReadingsStore
	events   *store.EventLog
	log      *logger.Logger
	onChange func(models.Readings) // optional hook, fires on changed merges

	mu     sync.Mutex
	state  models.ConnState
	handle transport.Handle
	cancel context.CancelFunc
	done   chan struct{} // closed when the read loop exits
	reasm  *stream.Reassembler
}

// New creates an idle session over the given provider.
func New(provider transport.Provider, cfg transport.Config, readings *store.ReadingsStore, events *store.EventLog, log *logger.Logger) *Session {
	return &Session{
		provider: provider,
		cfg:      cfg,
		readings: readings,
		events:   events,
		log:      log,
		state:    models.StateIdle,
		reasm:    stream.NewReassembler(),
	}
}

// SetOnChange installs a hook invoked with each snapshot that a merge
// actually changed. Must be set before Connect.
func (s *Session) SetOnChange(fn func(models.Readings)) {
	s.onChange = fn
}

// State returns the current lifecycle state.
func (s *Session) State() models.ConnState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Capability probes whether the environment can provide a transport
// at all, without opening one.
func (s *Session) Capability() transport.Capability {
	return s.provider.Probe()
}

// Connect provisions and opens the transport and starts the read
// loop. Rejected with ErrBusy unless the session is idle. Failures
// are logged to the event log and leave the session idle; nothing is
// retried automatically.
func (s *Session) Connect(ctx context.Context) error {
	s.mu.Lock()
	if s.state != models.StateIdle {
		s.mu.Unlock()
		return fmt.Errorf("%w: state is %s", ErrBusy, s.state)
	}
	s.state = models.StateConnecting
	s.mu.Unlock()

	handle, err := s.provider.Open(ctx, s.cfg)
	if err != nil {
		s.mu.Lock()
		s.state = models.StateIdle
		s.mu.Unlock()
		if errors.Is(err, transport.ErrNoDevice) {
			s.events.Append(models.SeverityError, "connect failed: "+err.Error())
		} else {
			s.events.Append(models.SeverityError, "device open failed: "+err.Error())
		}
		return err
	}

	loopCtx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	s.mu.Lock()
	s.handle = handle
	s.cancel = cancel
	s.done = done
	s.reasm.Reset()
	s.state = models.StateActive
	s.mu.Unlock()

	s.events.Append(models.SeveritySuccess, fmt.Sprintf("device connected at %d baud", s.cfg.BaudRate))
	go s.readLoop(loopCtx, handle, done)
	return nil
}

// Disconnect cancels the in-flight read, waits for the loop to exit,
// releases the transport and returns the session to idle
// unconditionally; a close failure is logged, never fatal.
// Calling it while idle is a safe no-op.
func (s *Session) Disconnect(ctx context.Context) error {
	s.mu.Lock()
	switch s.state {
	case models.StateIdle:
		s.mu.Unlock()
		return nil
	case models.StateConnecting, models.StateClosing:
		s.mu.Unlock()
		return fmt.Errorf("%w: state is %s", ErrBusy, s.state)
	}
	s.state = models.StateClosing
	handle, cancel, done := s.handle, s.cancel, s.done
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		select {
		case <-done:
		case <-ctx.Done():
			// proceed anyway; the loop unblocks within one suspension point
		}
	}
	if handle != nil {
		if err := handle.Close(); err != nil {
			s.events.Append(models.SeverityWarning, "transport close failed: "+err.Error())
		}
	}

	s.mu.Lock()
	s.handle, s.cancel, s.done = nil, nil, nil
	s.reasm.Reset() // partial lines do not survive a disconnect
	s.state = models.StateIdle
	s.mu.Unlock()

	s.events.Append(models.SeverityInfo, "device disconnected")
	return nil
}

// readLoop pulls chunks until cancellation, end-of-stream, or a read
// fault. Per-chunk and per-line failures are logged and isolated:
// one bad line never kills the session.
func (s *Session) readLoop(ctx context.Context, h transport.Handle, done chan struct{}) {
	defer close(done)
	for {
		chunk, err := h.ReadChunk(ctx)
		if err != nil {
			if ctx.Err() != nil {
				// canceled by Disconnect, which owns the teardown
				return
			}
			if errors.Is(err, io.EOF) {
				s.events.Append(models.SeverityWarning, "device stream ended")
			} else {
				s.events.Append(models.SeverityWarning, "device read failed: "+err.Error())
			}
			s.teardownFromLoop(h)
			return
		}

		s.log.Debugw("chunk received", "bytes", len(chunk), "raw", string(chunk))

		lines, err := s.reasm.Ingest(chunk)
		if err != nil {
			s.events.Append(models.SeverityError,
				fmt.Sprintf("dropped undecodable %d-byte chunk", len(chunk)))
			continue
		}
		for _, line := range lines {
			s.handleLine(line)
		}
	}
}

// handleLine parses one complete line and merges it into the store.
// A success event fires only when the merge changed at least one
// field.
func (s *Session) handleLine(line string) {
	upd := stream.Parse(line)
	if len(upd) == 0 {
		s.events.Append(models.SeverityError, fmt.Sprintf("discarded unparseable line %q", line))
		return
	}
	snap, changed := s.readings.Merge(upd)
	if !changed {
		return
	}
	s.events.Append(models.SeveritySuccess,
		fmt.Sprintf("readings updated (%d field(s) from line)", len(upd)))
	if s.onChange != nil {
		s.onChange(snap)
	}
}

// teardownFromLoop releases the transport after end-of-stream or a
// read fault, landing the session in idle without an explicit
// disconnect call.
func (s *Session) teardownFromLoop(h transport.Handle) {
	if err := h.Close(); err != nil {
		s.events.Append(models.SeverityWarning, "transport close failed: "+err.Error())
	}
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.handle, s.cancel, s.done = nil, nil, nil
	s.reasm.Reset()
	s.state = models.StateIdle
	s.mu.Unlock()
}
