package service

import (
	"context"
	"errors"
	"strings"

	"soil_monitor/internal/models"
	"soil_monitor/internal/store"
)

type EventLogService struct {
	events *store.EventLog
}

func NewEventLogService(events *store.EventLog) *EventLogService {
	return &EventLogService{events: events}
}

var errInvalidSeverity = errors.New("invalid severity: must be info, success, warning or error")

// normalizeSeverity trims spaces and lowercases the severity filter.
func normalizeSeverity(s string) string {
	return strings.TrimSpace(strings.ToLower(s))
}

// List returns events newest-first, optionally filtered by severity
// and truncated to f.Limit.
func (s *EventLogService) List(_ context.Context, f LogFilter) ([]models.Event, error) {
	sev := models.Severity(normalizeSeverity(f.Severity))
	if sev != "" && !sev.Valid() {
		return nil, errInvalidSeverity
	}

	all := s.events.Events()
	out := make([]models.Event, 0, len(all))
	for _, e := range all {
		if sev != "" && e.Severity != sev {
			continue
		}
		out = append(out, e)
		if f.Limit > 0 && len(out) == f.Limit {
			break
		}
	}
	return out, nil
}

// Subscribe registers a push channel for new events.
func (s *EventLogService) Subscribe() chan models.Event {
	return s.events.Subscribe()
}

// Unsubscribe releases a channel returned by Subscribe.
func (s *EventLogService) Unsubscribe(ch chan models.Event) {
	s.events.Unsubscribe(ch)
}
