package ticketing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gdugdh24/party-match-backend/internal/clock"
	"github.com/gdugdh24/party-match-backend/internal/domain"
	"github.com/gdugdh24/party-match-backend/internal/repository"
	"github.com/gdugdh24/party-match-backend/internal/usecase/eligibility"
	"github.com/google/uuid"
)

type TicketingUseCase struct {
	eventRepo      repository.EventRepository
	enrollmentRepo repository.EnrollmentRepository
	profileRepo    repository.ProfileRepository
	clock          clock.Clock
	logger         *slog.Logger
}

func NewTicketingUseCase(
	eventRepo repository.EventRepository,
	enrollmentRepo repository.EnrollmentRepository,
	profileRepo repository.ProfileRepository,
	clk clock.Clock,
	logger *slog.Logger,
) *TicketingUseCase {
	return &TicketingUseCase{
		eventRepo:      eventRepo,
		enrollmentRepo: enrollmentRepo,
		profileRepo:    profileRepo,
		clock:          clk,
		logger:         logger,
	}
}

type GuestJoinRequest struct {
	Name  string `json:"name" binding:"required,max=100"`
	Email string `json:"email" binding:"omitempty,email"`
}

type OptInRequest struct {
	OptIn *bool `json:"opt_in" binding:"required"`
}

type CheckInRequest struct {
	Code string `json:"code" binding:"required"`
}

type UpdateStatusRequest struct {
	Status domain.EntryStatus `json:"status" binding:"required,oneof=pending accepted rejected abandoned"`
}

// Join enrolls a profile in an event and issues its ticket. Joining before
// the matching trigger opts the profile into matching.
func (uc *TicketingUseCase) Join(ctx context.Context, eventID, profileID uuid.UUID) (*domain.Enrollment, error) {
	event, err := uc.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	profile, err := uc.profileRepo.GetByID(ctx, profileID)
	if err != nil {
		return nil, err
	}
	if !eligibility.IsProfileComplete(profile) {
		return nil, domain.ErrProfileIncomplete
	}

	if _, err := uc.enrollmentRepo.GetByEventAndProfile(ctx, eventID, profileID); err == nil {
		return nil, domain.ErrAlreadyJoined
	} else if !errors.Is(err, domain.ErrEnrollmentNotFound) {
		return nil, fmt.Errorf("check enrollment: %w", err)
	}

	now := uc.clock.Now()
	enrollment := &domain.Enrollment{
		EventID:    eventID,
		ProfileID:  &profileID,
		OptIn:      event.MatchingOpen(now),
		Status:     domain.EntryPending,
		TicketCode: newTicketCode(),
		JoinedAt:   now,
	}
	// The unique (event, profile) index catches a concurrent join that
	// passed the check above.
	if err := uc.enrollmentRepo.Create(ctx, enrollment); err != nil {
		return nil, err
	}

	uc.logger.Info("profile joined event",
		"event_id", eventID,
		"profile_id", profileID,
		"enrollment_id", enrollment.ID,
		"opt_in", enrollment.OptIn,
	)
	return enrollment, nil
}

// JoinAsGuest issues a ticket to someone without a profile. Guests are never
// matched.
func (uc *TicketingUseCase) JoinAsGuest(ctx context.Context, eventID uuid.UUID, req *GuestJoinRequest) (*domain.Enrollment, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	if _, err := uc.eventRepo.GetByID(ctx, eventID); err != nil {
		return nil, err
	}

	enrollment := &domain.Enrollment{
		EventID:    eventID,
		GuestName:  &name,
		Status:     domain.EntryPending,
		TicketCode: newTicketCode(),
		JoinedAt:   uc.clock.Now(),
	}
	if email := strings.TrimSpace(req.Email); email != "" {
		enrollment.GuestEmail = &email
	}
	if err := uc.enrollmentRepo.Create(ctx, enrollment); err != nil {
		return nil, err
	}

	uc.logger.Info("guest joined event", "event_id", eventID, "enrollment_id", enrollment.ID)
	return enrollment, nil
}

// ToggleOptIn changes whether the caller takes part in matching. Intent is
// frozen once the matching trigger has passed.
func (uc *TicketingUseCase) ToggleOptIn(ctx context.Context, eventID, profileID uuid.UUID, optIn bool) (*domain.Enrollment, error) {
	event, err := uc.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	enrollment, err := uc.enrollment(ctx, eventID, profileID)
	if err != nil {
		return nil, err
	}

	if !event.MatchingOpen(uc.clock.Now()) {
		return nil, domain.ErrMatchingAlreadyStarted
	}

	if optIn {
		profile, err := uc.profileRepo.GetByID(ctx, profileID)
		if err != nil {
			return nil, err
		}
		if !eligibility.IsProfileComplete(profile) {
			return nil, domain.ErrProfileIncomplete
		}
	}

	if enrollment.OptIn == optIn {
		return enrollment, nil
	}
	return uc.enrollmentRepo.SetOptIn(ctx, enrollment.ID, optIn)
}

// CheckIn redeems a ticket at the door. A ticket is redeemed at most once;
// later scans report the original redemption time.
func (uc *TicketingUseCase) CheckIn(ctx context.Context, eventID uuid.UUID, code string) (*domain.Enrollment, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, domain.ErrInvalidTicket
	}

	enrollment, err := uc.enrollmentRepo.GetByEventAndCode(ctx, eventID, code)
	if errors.Is(err, domain.ErrEnrollmentNotFound) {
		return nil, domain.ErrInvalidTicket
	}
	if err != nil {
		return nil, fmt.Errorf("find ticket: %w", err)
	}

	if enrollment.Status != domain.EntryAccepted {
		return nil, domain.ErrNotAccepted
	}
	if enrollment.CheckedIn && enrollment.CheckedInAt != nil {
		return nil, &domain.TicketUsedError{CheckedInAt: *enrollment.CheckedInAt}
	}

	redeemed, err := uc.enrollmentRepo.Redeem(ctx, enrollment.ID, uc.clock.Now())
	if err != nil {
		return nil, err
	}

	uc.logger.Info("ticket redeemed",
		"event_id", eventID,
		"enrollment_id", redeemed.ID,
	)
	return redeemed, nil
}

// UpdateEntryStatus sets the admission state of one enrollment.
func (uc *TicketingUseCase) UpdateEntryStatus(ctx context.Context, eventID, enrollmentID uuid.UUID, status domain.EntryStatus) (*domain.Enrollment, error) {
	if !status.Valid() {
		return nil, domain.ErrInvalidEntryStatus
	}

	enrollment, err := uc.enrollmentRepo.GetByID(ctx, enrollmentID)
	if err != nil {
		return nil, err
	}
	if enrollment.EventID != eventID {
		return nil, domain.ErrEnrollmentNotFound
	}

	updated, err := uc.enrollmentRepo.UpdateStatus(ctx, enrollmentID, status)
	if err != nil {
		return nil, err
	}

	uc.logger.Info("entry status updated",
		"event_id", eventID,
		"enrollment_id", enrollmentID,
		"status", status,
	)
	return updated, nil
}

// GetTicket returns the caller's enrollment in an event.
func (uc *TicketingUseCase) GetTicket(ctx context.Context, eventID, profileID uuid.UUID) (*domain.Enrollment, error) {
	if _, err := uc.eventRepo.GetByID(ctx, eventID); err != nil {
		return nil, err
	}
	return uc.enrollment(ctx, eventID, profileID)
}

func (uc *TicketingUseCase) enrollment(ctx context.Context, eventID, profileID uuid.UUID) (*domain.Enrollment, error) {
	enrollment, err := uc.enrollmentRepo.GetByEventAndProfile(ctx, eventID, profileID)
	if errors.Is(err, domain.ErrEnrollmentNotFound) {
		return nil, domain.ErrNotEnrolled
	}
	if err != nil {
		return nil, fmt.Errorf("get enrollment: %w", err)
	}
	return enrollment, nil
}

// newTicketCode returns a random 128-bit code.
func newTicketCode() string {
	return uuid.NewString()
}
