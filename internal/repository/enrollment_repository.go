package repository

import (
	"context"
	"time"

	"github.com/gdugdh24/party-match-backend/internal/domain"
	"github.com/google/uuid"
)

type EnrollmentRepository interface {
	// Create returns domain.ErrAlreadyJoined when the profile already holds an
	// enrollment for the event.
	Create(ctx context.Context, enrollment *domain.Enrollment) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Enrollment, error)
	GetByEventAndProfile(ctx context.Context, eventID, profileID uuid.UUID) (*domain.Enrollment, error)
	GetByEventAndCode(ctx context.Context, eventID uuid.UUID, code string) (*domain.Enrollment, error)
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]*domain.Enrollment, error)
	// ListMatchable returns opted-in enrollments that reference a profile.
	ListMatchable(ctx context.Context, eventID uuid.UUID) ([]*domain.Enrollment, error)
	SetOptIn(ctx context.Context, id uuid.UUID, optIn bool) (*domain.Enrollment, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.EntryStatus) (*domain.Enrollment, error)
	// Redeem marks an accepted, unredeemed ticket as used. It returns
	// domain.ErrTicketAlreadyUsed when the ticket was redeemed concurrently.
	Redeem(ctx context.Context, id uuid.UUID, at time.Time) (*domain.Enrollment, error)
}
