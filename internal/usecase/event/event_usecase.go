package event

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gdugdh24/party-match-backend/internal/clock"
	"github.com/gdugdh24/party-match-backend/internal/domain"
	"github.com/gdugdh24/party-match-backend/internal/repository"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

type EventUseCase struct {
	eventRepo      repository.EventRepository
	enrollmentRepo repository.EnrollmentRepository
	pairingRepo    repository.PairingRepository
	clock          clock.Clock
	leadTime       time.Duration
	validate       *validator.Validate
	logger         *slog.Logger
}

// NewEventUseCase builds the event use case. leadTime is how long before the
// start matching is triggered.
func NewEventUseCase(
	eventRepo repository.EventRepository,
	enrollmentRepo repository.EnrollmentRepository,
	pairingRepo repository.PairingRepository,
	clk clock.Clock,
	leadTime time.Duration,
	logger *slog.Logger,
) *EventUseCase {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.SetTagName("binding")
	return &EventUseCase{
		eventRepo:      eventRepo,
		enrollmentRepo: enrollmentRepo,
		pairingRepo:    pairingRepo,
		clock:          clk,
		leadTime:       leadTime,
		validate:       validate,
		logger:         logger,
	}
}

type CreateEventRequest struct {
	Name        string    `json:"name" binding:"required,max=200"`
	Location    string    `json:"location" binding:"max=300"`
	StartsAt    time.Time `json:"starts_at" binding:"required"`
	TicketPrice *int64    `json:"ticket_price" binding:"omitempty,min=0"`
	Expenses    *int64    `json:"expenses" binding:"omitempty,min=0"`
}

type ListEventsRequest struct {
	Limit  int `form:"limit" binding:"omitempty,min=1,max=100"`
	Offset int `form:"offset" binding:"omitempty,min=0"`
}

// CreateEvent schedules a party. Its matching trigger is the start time minus
// the configured lead time.
func (uc *EventUseCase) CreateEvent(ctx context.Context, req *CreateEventRequest) (*domain.Event, error) {
	if err := uc.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	now := uc.clock.Now()
	if !req.StartsAt.After(now) {
		return nil, fmt.Errorf("%w: starts_at must be in the future", domain.ErrInvalidInput)
	}

	startsAt := req.StartsAt.UTC()
	event := &domain.Event{
		Name:             strings.TrimSpace(req.Name),
		Location:         strings.TrimSpace(req.Location),
		StartsAt:         startsAt,
		MatchingStartsAt: startsAt.Add(-uc.leadTime),
		TicketPrice:      req.TicketPrice,
		Expenses:         req.Expenses,
		CreatedAt:        now,
	}
	if err := uc.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	uc.logger.Info("event created",
		"event_id", event.ID,
		"starts_at", event.StartsAt,
		"matching_starts_at", event.MatchingStartsAt,
	)
	return event, nil
}

func (uc *EventUseCase) GetEvent(ctx context.Context, id uuid.UUID) (*domain.Event, error) {
	return uc.eventRepo.GetByID(ctx, id)
}

// ListEvents returns events that have not started yet, soonest first.
func (uc *EventUseCase) ListEvents(ctx context.Context, req *ListEventsRequest) ([]*domain.Event, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	limit = min(limit, maxListLimit)
	offset := max(req.Offset, 0)

	events, err := uc.eventRepo.List(ctx, uc.clock.Now(), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

// Stats summarises admissions, matching and money for one event. Income
// counts accepted entries at the ticket price.
func (uc *EventUseCase) Stats(ctx context.Context, id uuid.UUID) (*domain.EventStats, error) {
	event, err := uc.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	enrollments, err := uc.enrollmentRepo.ListByEvent(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	pairings, err := uc.pairingRepo.ListByEvent(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list pairings: %w", err)
	}

	stats := &domain.EventStats{EventID: id, Pairings: len(pairings)}
	for _, e := range enrollments {
		switch e.Status {
		case domain.EntryPending:
			stats.Pending++
		case domain.EntryAccepted:
			stats.Accepted++
		case domain.EntryRejected:
			stats.Rejected++
		case domain.EntryAbandoned:
			stats.Abandoned++
		}
		if e.IsGuest() {
			stats.Guests++
		}
		if e.CheckedIn {
			stats.CheckedIn++
		}
		if e.OptIn && !e.IsGuest() {
			stats.OptedIn++
		}
	}
	for _, p := range pairings {
		if p.Mutual {
			stats.MutualMatches++
		}
	}

	if event.TicketPrice != nil {
		stats.TotalIncome = int64(stats.Accepted) * *event.TicketPrice
	}
	if event.Expenses != nil {
		stats.Expenses = *event.Expenses
	}
	stats.GrossRevenue = stats.TotalIncome - stats.Expenses
	return stats, nil
}
