package service

import (
	"context"

	"soil_monitor/internal/models"
	"soil_monitor/internal/session"
	"soil_monitor/internal/store"
)

// MonitoringService serves the composite observer view.
type MonitoringService struct {
	sess     *session.Session
	readings *store.ReadingsStore
}

func NewMonitoringService(sess *session.Session, readings *store.ReadingsStore) *MonitoringService {
	return &MonitoringService{sess: sess, readings: readings}
}

// GetState returns the current connection state and the latest
// readings snapshot. Before any data has arrived the snapshot is all
// zeros, which is the documented baseline.
func (s *MonitoringService) GetState(_ context.Context) (models.SensorState, error) {
	return models.SensorState{
		State:    s.sess.State(),
		Readings: s.readings.Snapshot(),
	}, nil
}
