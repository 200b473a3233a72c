package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/gdugdh24/party-match-backend/internal/domain"
	"github.com/gdugdh24/party-match-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type enrollmentRepository struct {
	db *sqlx.DB
}

func NewEnrollmentRepository(db *sqlx.DB) repository.EnrollmentRepository {
	return &enrollmentRepository{db: db}
}

func (r *enrollmentRepository) Create(ctx context.Context, enrollment *domain.Enrollment) error {
	if enrollment.ID == uuid.Nil {
		enrollment.ID = uuid.New()
	}
	query := `
		INSERT INTO enrollments (id, event_id, profile_id, guest_name, guest_email, opt_in, status, ticket_code)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING joined_at
	`
	err := r.db.QueryRowContext(
		ctx, query,
		enrollment.ID, enrollment.EventID, enrollment.ProfileID, enrollment.GuestName,
		enrollment.GuestEmail, enrollment.OptIn, enrollment.Status, enrollment.TicketCode,
	).Scan(&enrollment.JoinedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyJoined
		}
		return fmt.Errorf("insert enrollment: %w", err)
	}
	return nil
}

func (r *enrollmentRepository) get(ctx context.Context, query string, args ...any) (*domain.Enrollment, error) {
	var enrollment domain.Enrollment
	err := r.db.GetContext(ctx, &enrollment, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrEnrollmentNotFound
		}
		return nil, err
	}
	return &enrollment, nil
}

func (r *enrollmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Enrollment, error) {
	return r.get(ctx, `SELECT * FROM enrollments WHERE id = $1`, id)
}

func (r *enrollmentRepository) GetByEventAndProfile(ctx context.Context, eventID, profileID uuid.UUID) (*domain.Enrollment, error) {
	return r.get(ctx, `SELECT * FROM enrollments WHERE event_id = $1 AND profile_id = $2`, eventID, profileID)
}

func (r *enrollmentRepository) GetByEventAndCode(ctx context.Context, eventID uuid.UUID, code string) (*domain.Enrollment, error) {
	return r.get(ctx, `SELECT * FROM enrollments WHERE event_id = $1 AND ticket_code = $2`, eventID, code)
}

func (r *enrollmentRepository) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]*domain.Enrollment, error) {
	var enrollments []*domain.Enrollment
	query := `SELECT * FROM enrollments WHERE event_id = $1 ORDER BY joined_at ASC, id ASC`
	err := r.db.SelectContext(ctx, &enrollments, query, eventID)
	return enrollments, err
}

func (r *enrollmentRepository) ListMatchable(ctx context.Context, eventID uuid.UUID) ([]*domain.Enrollment, error) {
	var enrollments []*domain.Enrollment
	query := `
		SELECT * FROM enrollments
		WHERE event_id = $1 AND opt_in = TRUE AND profile_id IS NOT NULL
		ORDER BY joined_at ASC, id ASC
	`
	err := r.db.SelectContext(ctx, &enrollments, query, eventID)
	return enrollments, err
}

func (r *enrollmentRepository) SetOptIn(ctx context.Context, id uuid.UUID, optIn bool) (*domain.Enrollment, error) {
	return r.get(ctx, `UPDATE enrollments SET opt_in = $1 WHERE id = $2 RETURNING *`, optIn, id)
}

func (r *enrollmentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.EntryStatus) (*domain.Enrollment, error) {
	return r.get(ctx, `UPDATE enrollments SET status = $1 WHERE id = $2 RETURNING *`, status, id)
}

func (r *enrollmentRepository) Redeem(ctx context.Context, id uuid.UUID, at time.Time) (*domain.Enrollment, error) {
	query := `
		UPDATE enrollments SET checked_in = TRUE, checked_in_at = $1
		WHERE id = $2 AND status = 'accepted' AND checked_in = FALSE
		RETURNING *
	`
	enrollment, err := r.get(ctx, query, at, id)
	if !errors.Is(err, domain.ErrEnrollmentNotFound) {
		return enrollment, err
	}

	// The guarded update matched nothing: report why.
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.CheckedIn && current.CheckedInAt != nil {
		return nil, &domain.TicketUsedError{CheckedInAt: *current.CheckedInAt}
	}
	return nil, domain.ErrNotAccepted
}
