package audit

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// InMemory is the trail store used in tests and when no database is
// configured.
type InMemory struct {
	mu     sync.RWMutex
	events []Event
}

func NewInMemory() *InMemory {
	return &InMemory{}
}

func (s *InMemory) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

// ListByAdmin returns one admin's events newest first, matching the
// Postgres ordering.
func (s *InMemory) ListByAdmin(_ context.Context, adminID uuid.UUID) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Event
	for i := len(s.events) - 1; i >= 0; i-- {
		if s.events[i].AdminID == adminID {
			out = append(out, s.events[i])
		}
	}
	return out, nil
}

// Events returns everything appended so far. Test helper.
func (s *InMemory) Events() []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}
