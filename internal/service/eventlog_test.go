package service

import (
	"context"
	"errors"
	"testing"

	"soil_monitor/internal/models"
	"soil_monitor/internal/store"
)

// normalizeSeverity

func Test_normalizeSeverity(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
		exp  string
	}{
		{name: "empty stays empty", in: "", exp: ""},
		{name: "trim spaces", in: "  warning ", exp: "warning"},
		{name: "lowercase", in: "ERROR", exp: "error"},
		{name: "mixed case and spaces", in: " Success ", exp: "success"},
	}

	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()
			got := normalizeSeverity(c.in)
			if got != c.exp {
				t.Fatalf("normalizeSeverity(%q) = %q; want %q", c.in, got, c.exp)
			}
		})
	}
}

// EventLogService.List

func newSeededEventLog(t *testing.T) *store.EventLog {
	t.Helper()
	// Appended oldest to newest; Events() returns newest first.
	log := store.NewEventLog(10)
	log.Append(models.SeverityInfo, "device disconnected")
	log.Append(models.SeverityWarning, "device stream ended")
	log.Append(models.SeveritySuccess, "readings updated (2 field(s) from line)")
	log.Append(models.SeverityWarning, "device read failed: port gone")
	return log
}

func TestEventLogService_List_NewestFirst(t *testing.T) {
	t.Parallel()

	svc := NewEventLogService(newSeededEventLog(t))

	out, err := svc.List(context.Background(), LogFilter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 4 {
		t.Fatalf("expected 4 events, got %d", len(out))
	}
	if out[0].Message != "device read failed: port gone" {
		t.Fatalf("expected newest event first, got %q", out[0].Message)
	}
	if out[3].Severity != models.SeverityInfo {
		t.Fatalf("expected oldest event last, got %+v", out[3])
	}
}

func TestEventLogService_List_SeverityFilter(t *testing.T) {
	t.Parallel()

	svc := NewEventLogService(newSeededEventLog(t))

	// Mixed case input must be normalized before matching.
	out, err := svc.List(context.Background(), LogFilter{Severity: " WARNING "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 warning events, got %d", len(out))
	}
	for _, e := range out {
		if e.Severity != models.SeverityWarning {
			t.Fatalf("unexpected severity in filtered output: %+v", e)
		}
	}
}

func TestEventLogService_List_LimitAppliesAfterFilter(t *testing.T) {
	t.Parallel()

	svc := NewEventLogService(newSeededEventLog(t))

	out, err := svc.List(context.Background(), LogFilter{Severity: "warning", Limit: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected 1 event, got %d", len(out))
	}
	// The newest of the two warnings.
	if out[0].Message != "device read failed: port gone" {
		t.Fatalf("expected newest warning, got %q", out[0].Message)
	}
}

func TestEventLogService_List_InvalidSeverity(t *testing.T) {
	t.Parallel()

	svc := NewEventLogService(newSeededEventLog(t))

	_, err := svc.List(context.Background(), LogFilter{Severity: "fatal"})
	if !errors.Is(err, errInvalidSeverity) {
		t.Fatalf("expected errInvalidSeverity; got %v", err)
	}
}

func TestEventLogService_List_ZeroLimitReturnsAll(t *testing.T) {
	t.Parallel()

	svc := NewEventLogService(newSeededEventLog(t))

	out, err := svc.List(context.Background(), LogFilter{Limit: 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 4 {
		t.Fatalf("expected all 4 events with zero limit, got %d", len(out))
	}
}

// Subscribe / Unsubscribe delegation

func TestEventLogService_SubscribeReceivesAppends(t *testing.T) {
	t.Parallel()

	log := store.NewEventLog(10)
	svc := NewEventLogService(log)

	ch := svc.Subscribe()
	defer svc.Unsubscribe(ch)

	appended := log.Append(models.SeverityInfo, "device disconnected")

	select {
	case got := <-ch:
		if got.EventID != appended.EventID {
			t.Fatalf("subscriber got %+v, want %+v", got, appended)
		}
	default:
		t.Fatalf("expected a pushed event on the subscription channel")
	}
}

func TestEventLogService_UnsubscribeClosesChannel(t *testing.T) {
	t.Parallel()

	svc := NewEventLogService(store.NewEventLog(10))

	ch := svc.Subscribe()
	svc.Unsubscribe(ch)

	if _, ok := <-ch; ok {
		t.Fatalf("expected closed channel after Unsubscribe")
	}
}
