package store

import (
	"context"
	"sync"

	"gatepass/internal/audit/models"
)

// InMemoryStore keeps the audit trail in a slice, newest last. It backs local
// development and the unit-test suites.
type InMemoryStore struct {
	mu     sync.RWMutex
	events []models.Event
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Append(_ context.Context, e models.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	return nil
}

func (s *InMemoryStore) ListRecent(_ context.Context, limit int) ([]models.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.events)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]models.Event, 0, n)
	for i := len(s.events) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, s.events[i])
	}
	return out, nil
}

func (s *InMemoryStore) ListByBadge(_ context.Context, badgeNum string) ([]models.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Event
	for i := len(s.events) - 1; i >= 0; i-- {
		if s.events[i].BadgeNum == badgeNum {
			out = append(out, s.events[i])
		}
	}
	return out, nil
}
