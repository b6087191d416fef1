package handlers

import (
	"context"
	"net/http"
	"sync"

	"soil_monitor/internal/models"
	"soil_monitor/internal/service"
	"soil_monitor/internal/transport"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpID      int
	signUpErr     error
	genTokenToken string
	genTokenErr   error
	parseID       int
	parseErr      error

	lastSignUpUsername string
	lastSignUpPassword string
	lastGenUsername    string
	lastGenPassword    string
	lastParseToken     string
}

func (m *mockAuth) SignUp(username, password string) (int, error) {
	m.lastSignUpUsername = username
	m.lastSignUpPassword = password
	return m.signUpID, m.signUpErr
}
func (m *mockAuth) GenerateToken(username, password string) (string, error) {
	m.lastGenUsername = username
	m.lastGenPassword = password
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

type mockConnection struct {
	connectErr    error
	disconnectErr error
	capability    transport.Capability

	connectCalls    int
	disconnectCalls int
	capabilityCalls int
}

func (m *mockConnection) Connect(ctx context.Context) error {
	m.connectCalls++
	return m.connectErr
}
func (m *mockConnection) Disconnect(ctx context.Context) error {
	m.disconnectCalls++
	return m.disconnectErr
}
func (m *mockConnection) Capability(ctx context.Context) transport.Capability {
	m.capabilityCalls++
	return m.capability
}

type mockMonitoring struct {
	state models.SensorState
	err   error
}

func (m *mockMonitoring) GetState(ctx context.Context) (models.SensorState, error) {
	return m.state, m.err
}

type mockEventLog struct {
	resp []models.Event
	err  error

	lastSeverity string
	lastLimit    int

	mu  sync.Mutex
	sub chan models.Event
}

func (m *mockEventLog) List(ctx context.Context, f service.LogFilter) ([]models.Event, error) {
	m.lastSeverity = f.Severity
	m.lastLimit = f.Limit
	return m.resp, m.err
}

func (m *mockEventLog) Subscribe() chan models.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sub == nil {
		m.sub = make(chan models.Event, 16)
	}
	return m.sub
}

func (m *mockEventLog) Unsubscribe(ch chan models.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ch == m.sub && ch != nil {
		close(ch)
		m.sub = nil
	}
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
