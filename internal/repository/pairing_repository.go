package repository

import (
	"context"

	"github.com/gdugdh24/party-match-backend/internal/domain"
	"github.com/google/uuid"
)

type PairingRepository interface {
	// CreateIfAbsent inserts the pairing unless one already exists for the same
	// event and unordered profile pair. It reports whether a row was inserted.
	CreateIfAbsent(ctx context.Context, pairing *domain.Pairing) (bool, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Pairing, error)
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]*domain.Pairing, error)
	ListByEventAndProfile(ctx context.Context, eventID, profileID uuid.UUID) ([]*domain.Pairing, error)
	ListMutualByProfile(ctx context.Context, profileID uuid.UUID) ([]*domain.Pairing, error)
	// RecordResponse sets one side's status if that side is still pending and
	// recomputes mutual in the same write. It returns the pairing after the
	// write and whether the write flipped mutual from false to true.
	RecordResponse(ctx context.Context, id uuid.UUID, side domain.Side, status domain.ResponseStatus) (*domain.Pairing, bool, error)
	UpdateIcebreakers(ctx context.Context, id uuid.UUID, icebreakers []string) error
}
