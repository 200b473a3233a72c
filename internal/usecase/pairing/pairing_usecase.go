package pairing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gdugdh24/party-match-backend/internal/domain"
	"github.com/gdugdh24/party-match-backend/internal/repository"
	"github.com/google/uuid"
)

// MutualMatchNotifier is told when a pairing turns mutual. It is called once
// per pairing, after the write that flipped the flag.
type MutualMatchNotifier interface {
	OnMutualMatch(ctx context.Context, pairingID, profileA, profileB uuid.UUID)
}

type PairingUseCase struct {
	pairingRepo repository.PairingRepository
	eventRepo   repository.EventRepository
	profileRepo repository.ProfileRepository
	notifier    MutualMatchNotifier
	logger      *slog.Logger
}

func NewPairingUseCase(
	pairingRepo repository.PairingRepository,
	eventRepo repository.EventRepository,
	profileRepo repository.ProfileRepository,
	notifier MutualMatchNotifier,
	logger *slog.Logger,
) *PairingUseCase {
	return &PairingUseCase{
		pairingRepo: pairingRepo,
		eventRepo:   eventRepo,
		profileRepo: profileRepo,
		notifier:    notifier,
		logger:      logger,
	}
}

// RespondRequest is a participant's answer to one of their pairings.
type RespondRequest struct {
	Action domain.Action `json:"action" binding:"required,oneof=accept reject"`
}

// Partner is the part of the other profile a participant sees.
type Partner struct {
	ID          uuid.UUID `json:"id"`
	DisplayName string    `json:"display_name"`
	Bio         *string   `json:"bio,omitempty"`
	Photos      []string  `json:"photos"`
	Interests   []string  `json:"interests"`
}

// PairingView is a pairing as seen from one of its sides.
type PairingView struct {
	*domain.Pairing
	MyStatus      domain.ResponseStatus `json:"my_status"`
	PartnerStatus domain.ResponseStatus `json:"partner_status"`
	Outcome       domain.Outcome        `json:"outcome"`
	Partner       *Partner              `json:"partner,omitempty"`
}

// Respond records profileID's answer on a pairing. A side answers once: a
// repeated call returns the stored pairing unchanged. The notifier fires only
// for the call whose write made the pairing mutual.
func (uc *PairingUseCase) Respond(ctx context.Context, pairingID, profileID uuid.UUID, action domain.Action) (*domain.Pairing, error) {
	pairing, err := uc.pairingRepo.GetByID(ctx, pairingID)
	if err != nil {
		return nil, err
	}

	side, ok := pairing.SideOf(profileID)
	if !ok {
		return nil, domain.ErrForbidden
	}

	status, err := action.Status()
	if err != nil {
		return nil, err
	}

	updated, becameMutual, err := uc.pairingRepo.RecordResponse(ctx, pairingID, side, status)
	if errors.Is(err, domain.ErrAlreadyResponded) {
		uc.logger.Debug("repeat response ignored",
			"pairing_id", pairingID,
			"profile_id", profileID,
			"side", side,
		)
		return uc.pairingRepo.GetByID(ctx, pairingID)
	}
	if err != nil {
		return nil, fmt.Errorf("record response: %w", err)
	}

	if becameMutual {
		uc.logger.Info("mutual match",
			"pairing_id", updated.ID,
			"event_id", updated.EventID,
		)
		if uc.notifier != nil {
			uc.notifier.OnMutualMatch(ctx, updated.ID, updated.ProfileAID, updated.ProfileBID)
		}
	}
	return updated, nil
}

// ListForEvent returns the caller's pairings in an event.
func (uc *PairingUseCase) ListForEvent(ctx context.Context, eventID, profileID uuid.UUID) ([]*PairingView, error) {
	if _, err := uc.eventRepo.GetByID(ctx, eventID); err != nil {
		return nil, err
	}
	pairings, err := uc.pairingRepo.ListByEventAndProfile(ctx, eventID, profileID)
	if err != nil {
		return nil, fmt.Errorf("list pairings: %w", err)
	}
	return uc.views(ctx, pairings, profileID)
}

// ListChats returns the caller's mutual pairings across events, newest first.
// Each one keys a chat thread.
func (uc *PairingUseCase) ListChats(ctx context.Context, profileID uuid.UUID) ([]*PairingView, error) {
	pairings, err := uc.pairingRepo.ListMutualByProfile(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("list mutual pairings: %w", err)
	}
	return uc.views(ctx, pairings, profileID)
}

func (uc *PairingUseCase) views(ctx context.Context, pairings []*domain.Pairing, profileID uuid.UUID) ([]*PairingView, error) {
	partnerIDs := make([]uuid.UUID, 0, len(pairings))
	for _, p := range pairings {
		if other, ok := p.OtherProfile(profileID); ok {
			partnerIDs = append(partnerIDs, other)
		}
	}
	profiles, err := uc.profileRepo.GetByIDs(ctx, partnerIDs)
	if err != nil {
		return nil, fmt.Errorf("load partners: %w", err)
	}
	partners := make(map[uuid.UUID]*Partner, len(profiles))
	for _, p := range profiles {
		partners[p.ID] = &Partner{
			ID:          p.ID,
			DisplayName: p.DisplayName,
			Bio:         p.Bio,
			Photos:      p.Photos,
			Interests:   p.Interests,
		}
	}

	views := make([]*PairingView, 0, len(pairings))
	for _, p := range pairings {
		side, ok := p.SideOf(profileID)
		if !ok {
			continue
		}
		other := domain.SideB
		if side == domain.SideB {
			other = domain.SideA
		}
		partnerID, _ := p.OtherProfile(profileID)
		views = append(views, &PairingView{
			Pairing:       p,
			MyStatus:      p.StatusOf(side),
			PartnerStatus: p.StatusOf(other),
			Outcome:       p.Outcome(),
			Partner:       partners[partnerID],
		})
	}
	return views, nil
}
