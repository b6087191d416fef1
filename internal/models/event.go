package models

import "time"

// Severity tags a diagnostic event.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Valid reports whether s is one of the four known severities.
func (s Severity) Valid() bool {
	switch s {
	case SeverityInfo, SeveritySuccess, SeverityWarning, SeverityError:
		return true
	}
	return false
}

// Event is a single immutable log entry.
type Event struct {
	EventID    string    `json:"event_id"`
	OccurredAt time.Time `json:"occurred_at"`
	Severity   Severity  `json:"severity"` // info | success | warning | error
	Message    string    `json:"message"`  // human-readable
}

// ConnState is the connection session lifecycle state.
type ConnState string

const (
	StateIdle       ConnState = "idle"       // no transport held
	StateConnecting ConnState = "connecting" // open requested, awaiting result
	StateActive     ConnState = "active"     // transport open, read loop running
	StateClosing    ConnState = "closing"    // disconnect in progress
)

// SensorState is the composite observer view: lifecycle state plus
// the latest readings snapshot.
type SensorState struct {
	State    ConnState `json:"state"`
	Readings Readings  `json:"readings"`
}
