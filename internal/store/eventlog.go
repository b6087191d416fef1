package store

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"soil_monitor/internal/models"
)

// DefaultEventCapacity bounds the event log when no capacity is configured.
const DefaultEventCapacity = 100

// subscriberBuffer sizes each subscriber channel; a subscriber that
// falls further behind than this starts losing events rather than
// blocking the writer.
const subscriberBuffer = 16

// EventLog is a bounded, most-recent-first record of diagnostic
// events. Appending never fails; once full, the oldest entry is
// evicted. Observers may subscribe to be pushed each new event.
type EventLog struct {
	mu       sync.RWMutex
	capacity int
	events   []models.Event // index 0 is the newest
	subs     map[chan models.Event]struct{}
}

// NewEventLog creates a log bounded to the given capacity.
// Non-positive capacities fall back to DefaultEventCapacity.
func NewEventLog(capacity int) *EventLog {
	if capacity <= 0 {
		capacity = DefaultEventCapacity
	}
	return &EventLog{
		capacity: capacity,
		subs:     make(map[chan models.Event]struct{}),
	}
}

// Append records a new event stamped at call time and notifies
// subscribers. Always succeeds.
func (l *EventLog) Append(severity models.Severity, message string) models.Event {
	e := models.Event{
		EventID:    uuid.NewString(),
		OccurredAt: time.Now().UTC(),
		Severity:   severity,
		Message:    message,
	}

	l.mu.Lock()
	l.events = append([]models.Event{e}, l.events...)
	if len(l.events) > l.capacity {
		l.events = l.events[:l.capacity]
	}
	for ch := range l.subs {
		select {
		case ch <- e:
		default: // slow subscriber, drop rather than block the writer
		}
	}
	l.mu.Unlock()

	return e
}

// Events returns a copy of the log, most-recent-first.
func (l *EventLog) Events() []models.Event {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]models.Event, len(l.events))
	copy(out, l.events)
	return out
}

// Len returns the current number of stored events.
func (l *EventLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.events)
}

// Subscribe registers a channel that receives every event appended
// after this call. Release it with Unsubscribe.
func (l *EventLog) Subscribe() chan models.Event {
	ch := make(chan models.Event, subscriberBuffer)
	l.mu.Lock()
	l.subs[ch] = struct{}{}
	l.mu.Unlock()
	return ch
}

// Unsubscribe removes and closes a channel returned by Subscribe.
func (l *EventLog) Unsubscribe(ch chan models.Event) {
	l.mu.Lock()
	if _, ok := l.subs[ch]; ok {
		delete(l.subs, ch)
		close(ch)
	}
	l.mu.Unlock()
}
