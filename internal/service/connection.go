package service

import (
	"context"

	"soil_monitor/internal/session"
	"soil_monitor/internal/transport"
)

// ConnectionService delegates lifecycle operations to the session.
// It is a thin facade: all policy (single read loop, reject-while-busy,
// unconditional idle after disconnect) lives in the session itself.
type ConnectionService struct {
	sess *session.Session
}

func NewConnectionService(sess *session.Session) *ConnectionService {
	return &ConnectionService{sess: sess}
}

func (s *ConnectionService) Connect(ctx context.Context) error {
	return s.sess.Connect(ctx)
}

func (s *ConnectionService) Disconnect(ctx context.Context) error {
	return s.sess.Disconnect(ctx)
}

func (s *ConnectionService) Capability(_ context.Context) transport.Capability {
	return s.sess.Capability()
}
