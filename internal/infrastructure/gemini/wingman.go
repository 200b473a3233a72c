package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/gdugdh24/party-match-backend/internal/domain"
	"github.com/gdugdh24/party-match-backend/internal/repository"
	"github.com/google/uuid"
)

type IcebreakerGenerator interface {
	GenerateIcebreakers(ctx context.Context, a, b *domain.Profile) ([]string, error)
}

// Wingman writes opening lines onto pairings as they turn mutual. Generation
// runs in the background; when the model is unavailable it falls back to
// lines built from shared interests.
type Wingman struct {
	generator   IcebreakerGenerator
	profileRepo repository.ProfileRepository
	pairingRepo repository.PairingRepository
	timeout     time.Duration
	logger      *slog.Logger
	wg          sync.WaitGroup
}

// NewWingman builds a Wingman. generator may be nil, in which case only the
// fallback lines are used.
func NewWingman(
	generator IcebreakerGenerator,
	profileRepo repository.ProfileRepository,
	pairingRepo repository.PairingRepository,
	timeout time.Duration,
	logger *slog.Logger,
) *Wingman {
	return &Wingman{
		generator:   generator,
		profileRepo: profileRepo,
		pairingRepo: pairingRepo,
		timeout:     timeout,
		logger:      logger,
	}
}

func (w *Wingman) OnMutualMatch(ctx context.Context, pairingID, profileA, profileB uuid.UUID) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		// The request that triggered the match may finish first.
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), w.timeout)
		defer cancel()
		if err := w.writeIcebreakers(ctx, pairingID, profileA, profileB); err != nil {
			w.logger.Warn("icebreakers not written", "pairing_id", pairingID, "error", err)
		}
	}()
}

// Wait blocks until every pending generation has finished.
func (w *Wingman) Wait() {
	w.wg.Wait()
}

func (w *Wingman) writeIcebreakers(ctx context.Context, pairingID, profileA, profileB uuid.UUID) error {
	a, err := w.profileRepo.GetByID(ctx, profileA)
	if err != nil {
		return fmt.Errorf("load profile %s: %w", profileA, err)
	}
	b, err := w.profileRepo.GetByID(ctx, profileB)
	if err != nil {
		return fmt.Errorf("load profile %s: %w", profileB, err)
	}

	lines := w.generate(ctx, a, b)
	if err := w.pairingRepo.UpdateIcebreakers(ctx, pairingID, lines); err != nil {
		return fmt.Errorf("store icebreakers: %w", err)
	}
	w.logger.Debug("icebreakers written", "pairing_id", pairingID, "count", len(lines))
	return nil
}

func (w *Wingman) generate(ctx context.Context, a, b *domain.Profile) []string {
	if w.generator != nil {
		lines, err := w.generator.GenerateIcebreakers(ctx, a, b)
		if err == nil && len(lines) > 0 {
			return lines
		}
		w.logger.Warn("gemini unavailable, using fallback icebreakers", "error", err)
	}
	return fallbackIcebreakers(a, b)
}

func fallbackIcebreakers(a, b *domain.Profile) []string {
	shared := sharedInterests(a.Interests, b.Interests)
	lines := make([]string, 0, maxIcebreakers)
	if len(shared) > 0 {
		lines = append(lines, fmt.Sprintf("You both like %s. Best memory of it so far?", shared[0]))
	}
	lines = append(lines,
		"What song would make you drag me to the dance floor?",
		"If tonight had a theme, what would you pick?",
		"Which snack here deserves an award?",
	)
	return lines[:maxIcebreakers]
}

func sharedInterests(a, b []string) []string {
	seen := make(map[string]bool, len(a))
	for _, interest := range a {
		seen[strings.ToLower(strings.TrimSpace(interest))] = true
	}
	var shared []string
	for _, interest := range b {
		key := strings.ToLower(strings.TrimSpace(interest))
		if key != "" && seen[key] {
			shared = append(shared, strings.TrimSpace(interest))
			delete(seen, key)
		}
	}
	return shared
}
