package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/gdugdh24/party-match-backend/internal/domain"
	"github.com/gdugdh24/party-match-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type eventRepository struct {
	db *sqlx.DB
}

func NewEventRepository(db *sqlx.DB) repository.EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) Create(ctx context.Context, event *domain.Event) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	query := `
		INSERT INTO events (id, name, location, starts_at, matching_starts_at, matching_started, ticket_price, expenses)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at
	`
	return r.db.QueryRowContext(
		ctx, query,
		event.ID, event.Name, event.Location, event.StartsAt, event.MatchingStartsAt,
		event.MatchingStarted, event.TicketPrice, event.Expenses,
	).Scan(&event.CreatedAt)
}

func (r *eventRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Event, error) {
	var event domain.Event
	query := `SELECT * FROM events WHERE id = $1`
	err := r.db.GetContext(ctx, &event, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrEventNotFound
		}
		return nil, err
	}
	return &event, nil
}

func (r *eventRepository) List(ctx context.Context, from time.Time, limit, offset int) ([]*domain.Event, error) {
	events := []*domain.Event{}
	query := `
		SELECT * FROM events
		WHERE starts_at >= $1
		ORDER BY starts_at ASC
		LIMIT $2 OFFSET $3
	`
	err := r.db.SelectContext(ctx, &events, query, from, limit, offset)
	return events, err
}

func (r *eventRepository) ListDueForMatching(ctx context.Context, now time.Time) ([]*domain.Event, error) {
	var events []*domain.Event
	query := `
		SELECT * FROM events
		WHERE matching_started = FALSE AND matching_starts_at <= $1
		ORDER BY matching_starts_at ASC
	`
	err := r.db.SelectContext(ctx, &events, query, now)
	return events, err
}

func (r *eventRepository) MarkMatchingStarted(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `UPDATE events SET matching_started = TRUE WHERE id = $1 AND matching_started = FALSE`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows == 1, nil
}

func (r *eventRepository) DeleteStartedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	// Enrollments and pairings go with the event through ON DELETE CASCADE.
	query := `DELETE FROM events WHERE starts_at < $1`
	result, err := r.db.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
