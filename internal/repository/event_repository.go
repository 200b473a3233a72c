package repository

import (
	"context"
	"time"

	"github.com/gdugdh24/party-match-backend/internal/domain"
	"github.com/google/uuid"
)

type EventRepository interface {
	Create(ctx context.Context, event *domain.Event) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Event, error)
	List(ctx context.Context, from time.Time, limit, offset int) ([]*domain.Event, error)
	// ListDueForMatching returns events whose matching has not run and whose
	// trigger time is at or before now.
	ListDueForMatching(ctx context.Context, now time.Time) ([]*domain.Event, error)
	// MarkMatchingStarted flips the matching flag if it is still false and
	// reports whether this call flipped it.
	MarkMatchingStarted(ctx context.Context, id uuid.UUID) (bool, error)
	// DeleteStartedBefore removes events (and their enrollments and pairings)
	// that started before cutoff.
	DeleteStartedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
