package service

import (
	"context"

	"soil_monitor/internal/models"
	"soil_monitor/internal/repository"
	"soil_monitor/internal/session"
	"soil_monitor/internal/store"
	"soil_monitor/internal/transport"
)

type Authorization interface {
	SignUp(username, password string) (int, error)
	GenerateToken(username, password string) (string, error)
	ParseToken(accessToken string) (int, error)
}

// Connection exposes the sensor lifecycle: connect, disconnect, and
// the non-invasive capability probe.
type Connection interface {
	Connect(ctx context.Context) error
	Disconnect(ctx context.Context) error
	Capability(ctx context.Context) transport.Capability
}

// Monitoring exposes the read-only composite view: connection state
// plus the latest readings snapshot.
type Monitoring interface {
	GetState(ctx context.Context) (models.SensorState, error)
}

// EventLog exposes the bounded diagnostic log: filtered listing plus
// the push-model subscription used by the WebSocket feed.
type EventLog interface {
	List(ctx context.Context, f LogFilter) ([]models.Event, error)
	Subscribe() chan models.Event
	Unsubscribe(ch chan models.Event)
}

// LogFilter narrows a log listing. Zero values mean "no filter".
type LogFilter struct {
	Severity string // info | success | warning | error
	Limit    int    // max entries, newest first; <=0 means all
}

// Service aggregates all sub-services.
type Service struct {
	Connection
	Monitoring
	EventLog
	Authorization
}

// NewService wires the session, stores and repository into concrete
// services.
func NewService(repos *repository.Repository, sess *session.Session, readings *store.ReadingsStore, events *store.EventLog) *Service {
	return &Service{
		Connection:    NewConnectionService(sess),
		Monitoring:    NewMonitoringService(sess, readings),
		EventLog:      NewEventLogService(events),
		Authorization: NewAuthService(repos.Auth),
	}
}
