package store

import (
	"context"
	"sync"
	"time"

	"gatepass/internal/badge/models"
	"gatepass/pkg/platform/sentinel"
)

// In-memory stores back local development and the unit-test suites. They keep
// per-collection insertion order so listings and the notification feed stay
// deterministic.
type InMemoryBadgeStore struct {
	mu     sync.RWMutex
	badges map[models.Kind]map[string]models.Badge
	order  map[models.Kind][]string
}

func NewInMemoryBadgeStore() *InMemoryBadgeStore {
	s := &InMemoryBadgeStore{
		badges: make(map[models.Kind]map[string]models.Badge),
		order:  make(map[models.Kind][]string),
	}
	for _, kind := range models.Kinds() {
		s.badges[kind] = make(map[string]models.Badge)
	}
	return s
}

func (s *InMemoryBadgeStore) Create(_ context.Context, b models.Badge) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	coll, ok := s.badges[b.Kind]
	if !ok {
		return sentinel.ErrInvalidState
	}
	if _, exists := coll[b.BadgeNum]; exists {
		return sentinel.ErrConflict
	}
	coll[b.BadgeNum] = b
	s.order[b.Kind] = append(s.order[b.Kind], b.BadgeNum)
	return nil
}

func (s *InMemoryBadgeStore) Get(_ context.Context, kind models.Kind, badgeNum string) (models.Badge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if b, ok := s.badges[kind][badgeNum]; ok {
		return b, nil
	}
	return models.Badge{}, sentinel.ErrNotFound
}

func (s *InMemoryBadgeStore) Update(_ context.Context, kind models.Kind, badgeNum string, b models.Badge) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	coll, ok := s.badges[kind]
	if !ok {
		return sentinel.ErrInvalidState
	}
	if _, exists := coll[badgeNum]; !exists {
		return sentinel.ErrNotFound
	}
	if b.BadgeNum != badgeNum {
		if _, taken := coll[b.BadgeNum]; taken {
			return sentinel.ErrConflict
		}
		delete(coll, badgeNum)
		for i, num := range s.order[kind] {
			if num == badgeNum {
				s.order[kind][i] = b.BadgeNum
				break
			}
		}
	}
	coll[b.BadgeNum] = b
	return nil
}

func (s *InMemoryBadgeStore) Delete(_ context.Context, kind models.Kind, badgeNum string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	coll := s.badges[kind]
	if _, exists := coll[badgeNum]; !exists {
		return sentinel.ErrNotFound
	}
	delete(coll, badgeNum)
	for i, num := range s.order[kind] {
		if num == badgeNum {
			s.order[kind] = append(s.order[kind][:i], s.order[kind][i+1:]...)
			break
		}
	}
	return nil
}

func (s *InMemoryBadgeStore) List(_ context.Context, kind models.Kind) ([]models.Badge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Badge, 0, len(s.order[kind]))
	for _, num := range s.order[kind] {
		out = append(out, s.badges[kind][num])
	}
	return out, nil
}

func (s *InMemoryBadgeStore) Count(_ context.Context, kind models.Kind) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.badges[kind]), nil
}

func (s *InMemoryBadgeStore) ExistsAnywhere(_ context.Context, badgeNum string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, kind := range models.Kinds() {
		if _, ok := s.badges[kind][badgeNum]; ok {
			return true, nil
		}
	}
	return false, nil
}

type InMemoryAdditionLog struct {
	mu      sync.RWMutex
	entries []models.BadgeAddition
}

func NewInMemoryAdditionLog() *InMemoryAdditionLog {
	return &InMemoryAdditionLog{}
}

func (l *InMemoryAdditionLog) Append(_ context.Context, a models.BadgeAddition) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, a)
	return nil
}

func (l *InMemoryAdditionLog) ListNewSince(_ context.Context, cutoff time.Time) ([]models.BadgeAddition, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var out []models.BadgeAddition
	for _, e := range l.entries {
		if e.Status == models.AdditionNew && !e.AddedAt.Before(cutoff) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (l *InMemoryAdditionLog) Acknowledge(_ context.Context, badgeNum string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	changed := false
	for i := range l.entries {
		if l.entries[i].BadgeNum == badgeNum && l.entries[i].Status == models.AdditionNew {
			l.entries[i].Status = models.AdditionAcknowledged
			changed = true
		}
	}
	return changed, nil
}

func (l *InMemoryAdditionLog) DeleteByBadge(_ context.Context, badgeNum string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	kept := l.entries[:0]
	for _, e := range l.entries {
		if e.BadgeNum != badgeNum {
			kept = append(kept, e)
		}
	}
	l.entries = kept
	return nil
}

func (l *InMemoryAdditionLog) RenameBadge(_ context.Context, oldNum, newNum string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.entries {
		if l.entries[i].BadgeNum == oldNum {
			l.entries[i].BadgeNum = newNum
		}
	}
	return nil
}

func (l *InMemoryAdditionLog) Purge(_ context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = nil
	return nil
}

type InMemoryResolutionLedger struct {
	mu      sync.RWMutex
	entries []models.ResolvedNotification
	index   map[[2]string]struct{}
}

func NewInMemoryResolutionLedger() *InMemoryResolutionLedger {
	return &InMemoryResolutionLedger{index: make(map[[2]string]struct{})}
}

func (l *InMemoryResolutionLedger) Record(_ context.Context, r models.ResolvedNotification) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	key := [2]string{r.BadgeNum, r.Type}
	if _, ok := l.index[key]; ok {
		return sentinel.ErrConflict
	}
	l.index[key] = struct{}{}
	l.entries = append(l.entries, r)
	return nil
}

func (l *InMemoryResolutionLedger) Exists(_ context.Context, badgeNum, notifType string) (bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.index[[2]string{badgeNum, notifType}]
	return ok, nil
}

func (l *InMemoryResolutionLedger) DeleteByBadge(_ context.Context, badgeNum string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	kept := l.entries[:0]
	for _, e := range l.entries {
		if e.BadgeNum == badgeNum {
			delete(l.index, [2]string{e.BadgeNum, e.Type})
			continue
		}
		kept = append(kept, e)
	}
	l.entries = kept
	return nil
}

func (l *InMemoryResolutionLedger) RenameBadge(_ context.Context, oldNum, newNum string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.entries {
		if l.entries[i].BadgeNum == oldNum {
			delete(l.index, [2]string{oldNum, l.entries[i].Type})
			l.entries[i].BadgeNum = newNum
			l.index[[2]string{newNum, l.entries[i].Type}] = struct{}{}
		}
	}
	return nil
}
