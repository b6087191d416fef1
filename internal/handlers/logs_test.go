package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"soil_monitor/internal/models"
	"soil_monitor/internal/service"
)

func TestLogsHandler_ListAndValidation(t *testing.T) {
	auth := &mockAuth{parseID: 99}
	now := time.Now().UTC().Truncate(time.Second)
	events := []models.Event{
		{EventID: "e1", OccurredAt: now.Add(1 * time.Second), Severity: models.SeverityWarning, Message: "device stream ended"},
		{EventID: "e2", OccurredAt: now, Severity: models.SeverityWarning, Message: "device read failed"},
	}
	logs := &mockEventLog{resp: events}
	s := &service.Service{
		Authorization: auth,
		EventLog:      logs,
	}
	r := newTestRouter(s)

	// Invalid 'limit' → 400
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/logs/?limit=notanumber", nil)
	for k, vv := range authHeader("valid") {
		for _, v := range vv {
			req.Header.Add(k, v)
		}
	}
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 invalid 'limit', got %d", w.Code)
	}

	// Negative 'limit' → 400
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/v1/logs/?limit=-1", nil)
	for k, vv := range authHeader("valid") {
		for _, v := range vv {
			req.Header.Add(k, v)
		}
	}
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 negative 'limit', got %d", w.Code)
	}

	// Valid filter (mixed-case severity should be normalized before the service call)
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/v1/logs/?severity=WARNING&limit=10", nil)
	for k, vv := range authHeader("valid") {
		for _, v := range vv {
			req.Header.Add(k, v)
		}
	}
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("logs status=%d, body=%s", w.Code, w.Body.String())
	}
	var out struct {
		Count  int            `json:"count"`
		Events []models.Event `json:"events"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	if out.Count != 2 || len(out.Events) != 2 {
		t.Fatalf("unexpected response: %+v", out)
	}
	if logs.lastSeverity != "warning" {
		t.Fatalf("expected lastSeverity warning, got %q", logs.lastSeverity)
	}
	if logs.lastLimit != 10 {
		t.Fatalf("expected lastLimit 10, got %d", logs.lastLimit)
	}
}

func TestLogsHandler_ServiceErrorMapsTo400(t *testing.T) {
	auth := &mockAuth{parseID: 1}
	logs := &mockEventLog{err: errors.New("unknown severity")}
	s := &service.Service{
		Authorization: auth,
		EventLog:      logs,
	}
	r := newTestRouter(s)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/logs/?severity=bogus", nil)
	for k, vv := range authHeader("valid") {
		for _, v := range vv {
			req.Header.Add(k, v)
		}
	}
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for service error, got %d (body=%s)", w.Code, w.Body.String())
	}
}
