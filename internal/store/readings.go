package store

import (
	"sync"
	"time"

	"soil_monitor/internal/models"
)

// ReadingsStore holds the latest known value for each schema field.
// Single-writer (the session read loop), multi-reader: the snapshot
// is replaced atomically under the mutex, readers get a copy.
type ReadingsStore struct {
	mu       sync.RWMutex
	snapshot models.Readings
}

func NewReadingsStore() *ReadingsStore {
	return &ReadingsStore{}
}

// Merge applies a partial update onto the prior snapshot and returns
// the new snapshot plus whether any field actually changed value.
// An empty update is a no-op.
func (s *ReadingsStore) Merge(u models.Update) (models.Readings, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(u) == 0 {
		return s.snapshot, false
	}
	next, changed := s.snapshot.Apply(u)
	if changed {
		next.UpdatedAt = time.Now().UTC()
		s.snapshot = next
	}
	return s.snapshot, changed
}

// Snapshot returns a copy of the current readings.
func (s *ReadingsStore) Snapshot() models.Readings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}
