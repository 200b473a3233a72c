package memory

import (
	"context"
	"slices"
	"sort"
	"time"

	"github.com/gdugdh24/party-match-backend/internal/domain"
	"github.com/gdugdh24/party-match-backend/internal/repository"
	"github.com/google/uuid"
)

type pairingRepository struct {
	s *Store
}

func NewPairingRepository(s *Store) repository.PairingRepository {
	return &pairingRepository{s: s}
}

func (r *pairingRepository) CreateIfAbsent(ctx context.Context, pairing *domain.Pairing) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.events[pairing.EventID]; !ok {
		return false, domain.ErrEventNotFound
	}
	key := pairing.Key()
	if _, exists := r.s.pairKeys[key]; exists {
		return false, nil
	}
	if pairing.ID == uuid.Nil {
		pairing.ID = uuid.New()
	}
	now := time.Now().UTC()
	pairing.CreatedAt = now
	pairing.UpdatedAt = now
	pairing.Mutual = pairing.IsMutual()
	r.s.pairings[pairing.ID] = clonePairing(pairing)
	r.s.pairKeys[key] = pairing.ID
	return true, nil
}

func (r *pairingRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Pairing, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.pairings[id]
	if !ok {
		return nil, domain.ErrPairingNotFound
	}
	return clonePairing(p), nil
}

func (r *pairingRepository) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]*domain.Pairing, error) {
	return r.list(func(p *domain.Pairing) bool { return p.EventID == eventID }), nil
}

func (r *pairingRepository) ListByEventAndProfile(ctx context.Context, eventID, profileID uuid.UUID) ([]*domain.Pairing, error) {
	return r.list(func(p *domain.Pairing) bool {
		return p.EventID == eventID && p.HasProfile(profileID)
	}), nil
}

func (r *pairingRepository) ListMutualByProfile(ctx context.Context, profileID uuid.UUID) ([]*domain.Pairing, error) {
	pairings := r.list(func(p *domain.Pairing) bool {
		return p.Mutual && p.HasProfile(profileID)
	})
	slices.Reverse(pairings)
	return pairings, nil
}

func (r *pairingRepository) list(keep func(*domain.Pairing) bool) []*domain.Pairing {
	r.s.mu.RLock()
	var out []*domain.Pairing
	for _, p := range r.s.pairings {
		if keep(p) {
			out = append(out, clonePairing(p))
		}
	}
	r.s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].UpdatedAt.Before(out[j].UpdatedAt)
	})
	return out
}

func (r *pairingRepository) RecordResponse(ctx context.Context, id uuid.UUID, side domain.Side, status domain.ResponseStatus) (*domain.Pairing, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.pairings[id]
	if !ok {
		return nil, false, domain.ErrPairingNotFound
	}
	becameMutual, err := p.Apply(side, status)
	if err != nil {
		return nil, false, err
	}
	p.UpdatedAt = time.Now().UTC()
	return clonePairing(p), becameMutual, nil
}

func (r *pairingRepository) UpdateIcebreakers(ctx context.Context, id uuid.UUID, icebreakers []string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.pairings[id]
	if !ok {
		return domain.ErrPairingNotFound
	}
	p.Icebreakers = slices.Clone(icebreakers)
	return nil
}
