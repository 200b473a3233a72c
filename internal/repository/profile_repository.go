package repository

import (
	"context"

	"github.com/gdugdh24/party-match-backend/internal/domain"
	"github.com/google/uuid"
)

// ProfileRepository is a read-only view of the profile store.
type ProfileRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Profile, error)
}
