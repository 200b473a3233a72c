// Package memory keeps all party state in process memory. It backs the
// "memory" storage type and the use case tests. Profiles are owned by another
// service, so in memory mode they come from a seed file (see LoadProfiles).
package memory

import (
	"slices"
	"sync"

	"github.com/gdugdh24/party-match-backend/internal/domain"
	"github.com/google/uuid"
)

// Store holds every table behind one lock so that cascading deletes and
// check-then-write transitions are atomic.
type Store struct {
	mu          sync.RWMutex
	profiles    map[uuid.UUID]*domain.Profile
	events      map[uuid.UUID]*domain.Event
	enrollments map[uuid.UUID]*domain.Enrollment
	pairings    map[uuid.UUID]*domain.Pairing
	pairKeys    map[domain.PairKey]uuid.UUID
}

func NewStore() *Store {
	return &Store{
		profiles:    make(map[uuid.UUID]*domain.Profile),
		events:      make(map[uuid.UUID]*domain.Event),
		enrollments: make(map[uuid.UUID]*domain.Enrollment),
		pairings:    make(map[uuid.UUID]*domain.Pairing),
		pairKeys:    make(map[domain.PairKey]uuid.UUID),
	}
}

// PutProfile inserts or replaces a profile. Profiles are written by the
// profile service in production; here it seeds development data and tests.
func (s *Store) PutProfile(p *domain.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[p.ID] = cloneProfile(p)
}

func cloneProfile(p *domain.Profile) *domain.Profile {
	c := *p
	c.Photos = slices.Clone(p.Photos)
	c.Interests = slices.Clone(p.Interests)
	return &c
}

func cloneEvent(e *domain.Event) *domain.Event {
	c := *e
	return &c
}

func cloneEnrollment(e *domain.Enrollment) *domain.Enrollment {
	c := *e
	return &c
}

func clonePairing(p *domain.Pairing) *domain.Pairing {
	c := *p
	c.Icebreakers = slices.Clone(p.Icebreakers)
	return &c
}
