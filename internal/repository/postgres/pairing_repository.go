package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gdugdh24/party-match-backend/internal/domain"
	"github.com/gdugdh24/party-match-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type pairingRepository struct {
	db *sqlx.DB
}

func NewPairingRepository(db *sqlx.DB) repository.PairingRepository {
	return &pairingRepository{db: db}
}

const pairingColumns = `id, event_id, profile_a_id, profile_b_id, status_a, status_b, mutual, icebreakers, created_at, updated_at`

func scanPairing(row rowScanner) (*domain.Pairing, error) {
	var p domain.Pairing
	err := row.Scan(
		&p.ID, &p.EventID, &p.ProfileAID, &p.ProfileBID, &p.StatusA, &p.StatusB,
		&p.Mutual, pq.Array(&p.Icebreakers), &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *pairingRepository) CreateIfAbsent(ctx context.Context, pairing *domain.Pairing) (bool, error) {
	if pairing.ID == uuid.Nil {
		pairing.ID = uuid.New()
	}
	// The unique index on (event_id, LEAST, GREATEST) makes the insert a no-op
	// for a pair that already exists in either order.
	query := `
		INSERT INTO pairings (id, event_id, profile_a_id, profile_b_id, status_a, status_b, mutual)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT DO NOTHING
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(
		ctx, query,
		pairing.ID, pairing.EventID, pairing.ProfileAID, pairing.ProfileBID,
		pairing.StatusA, pairing.StatusB, pairing.IsMutual(),
	).Scan(&pairing.CreatedAt, &pairing.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("insert pairing: %w", err)
	}
	pairing.Mutual = pairing.IsMutual()
	return true, nil
}

func (r *pairingRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Pairing, error) {
	query := `SELECT ` + pairingColumns + ` FROM pairings WHERE id = $1`
	p, err := scanPairing(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPairingNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *pairingRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Pairing, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pairings []*domain.Pairing
	for rows.Next() {
		p, err := scanPairing(rows)
		if err != nil {
			return nil, err
		}
		pairings = append(pairings, p)
	}
	return pairings, rows.Err()
}

func (r *pairingRepository) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]*domain.Pairing, error) {
	query := `SELECT ` + pairingColumns + ` FROM pairings WHERE event_id = $1 ORDER BY created_at ASC`
	return r.list(ctx, query, eventID)
}

func (r *pairingRepository) ListByEventAndProfile(ctx context.Context, eventID, profileID uuid.UUID) ([]*domain.Pairing, error) {
	query := `
		SELECT ` + pairingColumns + ` FROM pairings
		WHERE event_id = $1 AND (profile_a_id = $2 OR profile_b_id = $2)
		ORDER BY created_at ASC
	`
	return r.list(ctx, query, eventID, profileID)
}

func (r *pairingRepository) ListMutualByProfile(ctx context.Context, profileID uuid.UUID) ([]*domain.Pairing, error) {
	query := `
		SELECT ` + pairingColumns + ` FROM pairings
		WHERE (profile_a_id = $1 OR profile_b_id = $1) AND mutual = TRUE
		ORDER BY updated_at DESC
	`
	return r.list(ctx, query, profileID)
}

func (r *pairingRepository) RecordResponse(ctx context.Context, id uuid.UUID, side domain.Side, status domain.ResponseStatus) (*domain.Pairing, bool, error) {
	if status != domain.ResponseAccepted && status != domain.ResponseRejected {
		return nil, false, domain.ErrInvalidAction
	}

	// SET expressions see the pre-update row, so mutual is computed from the
	// new value of the answering side and the stored value of the other one.
	// The pending guard makes the false-to-true edge observable exactly once.
	var query string
	if side == domain.SideA {
		query = `
			UPDATE pairings
			SET status_a = $2, mutual = ($2 = 'accepted' AND status_b = 'accepted'), updated_at = CURRENT_TIMESTAMP
			WHERE id = $1 AND status_a = 'pending'
			RETURNING ` + pairingColumns
	} else {
		query = `
			UPDATE pairings
			SET status_b = $2, mutual = (status_a = 'accepted' AND $2 = 'accepted'), updated_at = CURRENT_TIMESTAMP
			WHERE id = $1 AND status_b = 'pending'
			RETURNING ` + pairingColumns
	}

	p, err := scanPairing(r.db.QueryRowContext(ctx, query, id, string(status)))
	if err == nil {
		return p, p.Mutual, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, err
	}
	if _, err := r.GetByID(ctx, id); err != nil {
		return nil, false, err
	}
	return nil, false, domain.ErrAlreadyResponded
}

func (r *pairingRepository) UpdateIcebreakers(ctx context.Context, id uuid.UUID, icebreakers []string) error {
	query := `UPDATE pairings SET icebreakers = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, pq.Array(icebreakers), id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrPairingNotFound
	}
	return nil
}
