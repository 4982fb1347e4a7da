package notifications

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cloudstreamhq/studio-backend/internal/models"
)

// Sink is an append/expire queue of user-facing toast events. Every pushed
// event schedules its own expiry; Close cancels all pending expiries so a
// torn-down sink leaks no timers.
type Sink struct {
	mu     sync.Mutex
	ttl    time.Duration
	events []models.NotificationEvent
	timers map[string]*time.Timer
	closed bool
}

func NewSink(ttl time.Duration) *Sink {
	return &Sink{
		ttl:    ttl,
		timers: make(map[string]*time.Timer),
	}
}

// Push appends an event and schedules its removal after the display timeout.
func (s *Sink) Push(message string, kind models.NotificationKind) *models.NotificationEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	event := models.NotificationEvent{
		ID:        uuid.New().String(),
		Message:   message,
		Kind:      kind,
		CreatedAt: time.Now(),
	}
	s.events = append(s.events, event)
	id := event.ID
	s.timers[id] = time.AfterFunc(s.ttl, func() {
		s.expire(id)
	})
	return &event
}

// Events returns the live events in insertion order.
func (s *Sink) Events() []models.NotificationEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.NotificationEvent, len(s.events))
	copy(out, s.events)
	return out
}

// Close stops every pending expiry and drops all events. Pushes after Close
// are no-ops.
func (s *Sink) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	for id, timer := range s.timers {
		timer.Stop()
		delete(s.timers, id)
	}
	s.events = nil
}

func (s *Sink) expire(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	delete(s.timers, id)
	for i := range s.events {
		if s.events[i].ID == id {
			s.events = append(s.events[:i], s.events[i+1:]...)
			return
		}
	}
}
