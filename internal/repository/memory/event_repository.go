package memory

import (
	"context"
	"sort"
	"time"

	"github.com/gdugdh24/party-match-backend/internal/domain"
	"github.com/gdugdh24/party-match-backend/internal/repository"
	"github.com/google/uuid"
)

type eventRepository struct {
	s *Store
}

func NewEventRepository(s *Store) repository.EventRepository {
	return &eventRepository{s: s}
}

func (r *eventRepository) Create(ctx context.Context, event *domain.Event) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	r.s.events[event.ID] = cloneEvent(event)
	return nil
}

func (r *eventRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Event, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	e, ok := r.s.events[id]
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	return cloneEvent(e), nil
}

func (r *eventRepository) List(ctx context.Context, from time.Time, limit, offset int) ([]*domain.Event, error) {
	r.s.mu.RLock()
	var events []*domain.Event
	for _, e := range r.s.events {
		if !e.StartsAt.Before(from) {
			events = append(events, cloneEvent(e))
		}
	}
	r.s.mu.RUnlock()

	sort.Slice(events, func(i, j int) bool {
		return events[i].StartsAt.Before(events[j].StartsAt)
	})
	if offset >= len(events) {
		return []*domain.Event{}, nil
	}
	events = events[offset:]
	if limit > 0 && limit < len(events) {
		events = events[:limit]
	}
	return events, nil
}

func (r *eventRepository) ListDueForMatching(ctx context.Context, now time.Time) ([]*domain.Event, error) {
	r.s.mu.RLock()
	var events []*domain.Event
	for _, e := range r.s.events {
		if !e.MatchingStarted && !e.MatchingStartsAt.After(now) {
			events = append(events, cloneEvent(e))
		}
	}
	r.s.mu.RUnlock()

	sort.Slice(events, func(i, j int) bool {
		return events[i].MatchingStartsAt.Before(events[j].MatchingStartsAt)
	})
	return events, nil
}

func (r *eventRepository) MarkMatchingStarted(ctx context.Context, id uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.events[id]
	if !ok {
		return false, domain.ErrEventNotFound
	}
	if e.MatchingStarted {
		return false, nil
	}
	e.MatchingStarted = true
	return true, nil
}

func (r *eventRepository) DeleteStartedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	expired := make(map[uuid.UUID]bool)
	for id, e := range r.s.events {
		if e.StartsAt.Before(cutoff) {
			expired[id] = true
			delete(r.s.events, id)
		}
	}
	if len(expired) == 0 {
		return 0, nil
	}
	for id, en := range r.s.enrollments {
		if expired[en.EventID] {
			delete(r.s.enrollments, id)
		}
	}
	for id, p := range r.s.pairings {
		if expired[p.EventID] {
			delete(r.s.pairKeys, p.Key())
			delete(r.s.pairings, id)
		}
	}
	return int64(len(expired)), nil
}
