// Package matching builds the candidate pairings of an event once its matching
// time has come.
package matching

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"

	"github.com/gdugdh24/party-match-backend/internal/clock"
	"github.com/gdugdh24/party-match-backend/internal/domain"
	"github.com/gdugdh24/party-match-backend/internal/repository"
	"github.com/gdugdh24/party-match-backend/internal/usecase/eligibility"
	"github.com/google/uuid"
)

// MaxCandidatesPerUser bounds how many pairings a profile starts in one event,
// counted over every run of the generator.
const MaxCandidatesPerUser = 3

// ShuffleFunc permutes n elements in place through swap.
type ShuffleFunc func(n int, swap func(i, j int))

type Generator struct {
	eventRepo      repository.EventRepository
	enrollmentRepo repository.EnrollmentRepository
	profileRepo    repository.ProfileRepository
	pairingRepo    repository.PairingRepository
	clock          clock.Clock
	shuffle        ShuffleFunc
	logger         *slog.Logger

	// mu serializes runs so the per-profile cap is counted against a settled
	// set of pairings. Instances are serialized by the scheduler's shared lock.
	mu sync.Mutex
}

type Option func(*Generator)

// WithShuffle replaces the uniform random permutation, mainly for tests.
func WithShuffle(fn ShuffleFunc) Option {
	return func(g *Generator) { g.shuffle = fn }
}

func NewGenerator(
	eventRepo repository.EventRepository,
	enrollmentRepo repository.EnrollmentRepository,
	profileRepo repository.ProfileRepository,
	pairingRepo repository.PairingRepository,
	clk clock.Clock,
	logger *slog.Logger,
	opts ...Option,
) *Generator {
	g := &Generator{
		eventRepo:      eventRepo,
		enrollmentRepo: enrollmentRepo,
		profileRepo:    profileRepo,
		pairingRepo:    pairingRepo,
		clock:          clk,
		shuffle:        rand.Shuffle,
		logger:         logger,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// GenerateMatches creates the pairings of one event and flags the event as
// matched. It returns only the pairings created by this call. Re-running it,
// also concurrently, never creates a second pairing for the same pair.
func (g *Generator) GenerateMatches(ctx context.Context, eventID uuid.UUID) ([]*domain.Pairing, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	event, err := g.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	profiles, err := g.matchableProfiles(ctx, eventID)
	if err != nil {
		return nil, err
	}

	if !eligibility.CanRunMatching(event, len(profiles), g.clock.Now()) {
		g.logger.Debug("matching skipped",
			"event_id", eventID,
			"participants", len(profiles),
			"matching_started", event.MatchingStarted,
		)
		return nil, nil
	}

	created, err := g.generate(ctx, eventID, profiles)
	if err != nil {
		return created, err
	}

	flipped, err := g.eventRepo.MarkMatchingStarted(ctx, eventID)
	if err != nil {
		return created, fmt.Errorf("mark matching started: %w", err)
	}
	if !flipped {
		g.logger.Info("matching flag already set by a concurrent run", "event_id", eventID)
	}

	g.logger.Info("matching completed",
		"event_id", eventID,
		"participants", len(profiles),
		"pairings_created", len(created),
	)
	return created, nil
}

// matchableProfiles returns the complete profiles behind the opted-in,
// non-guest enrollments, in enrollment order.
func (g *Generator) matchableProfiles(ctx context.Context, eventID uuid.UUID) ([]*domain.Profile, error) {
	enrollments, err := g.enrollmentRepo.ListMatchable(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list matchable enrollments: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(enrollments))
	seen := make(map[uuid.UUID]bool, len(enrollments))
	for _, e := range enrollments {
		if e.ProfileID == nil || seen[*e.ProfileID] {
			continue
		}
		seen[*e.ProfileID] = true
		ids = append(ids, *e.ProfileID)
	}

	loaded, err := g.profileRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load profiles: %w", err)
	}
	byID := make(map[uuid.UUID]*domain.Profile, len(loaded))
	for _, p := range loaded {
		byID[p.ID] = p
	}

	profiles := make([]*domain.Profile, 0, len(ids))
	for _, id := range ids {
		p, ok := byID[id]
		if !ok || !eligibility.IsProfileComplete(p) {
			continue
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}

// generate runs the per-profile candidate selection. Pairs already stored for
// the event are excluded up front and each profile only gets what is left of
// its cap after the pairings it started before (side A is the starter).
// CreateIfAbsent is the authoritative guard against duplicate pairs.
func (g *Generator) generate(ctx context.Context, eventID uuid.UUID, profiles []*domain.Profile) ([]*domain.Pairing, error) {
	existing, err := g.pairingRepo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list existing pairings: %w", err)
	}
	paired := make(map[domain.PairKey]bool, len(existing))
	started := make(map[uuid.UUID]int)
	for _, p := range existing {
		paired[p.Key()] = true
		started[p.ProfileAID]++
	}

	var created []*domain.Pairing
	for _, p := range profiles {
		room := MaxCandidatesPerUser - started[p.ID]
		if room <= 0 {
			continue
		}

		var candidates []*domain.Profile
		for _, q := range profiles {
			if q.ID == p.ID || !AreCompatible(p, q) {
				continue
			}
			if paired[domain.NewPairKey(eventID, p.ID, q.ID)] {
				continue
			}
			candidates = append(candidates, q)
		}

		g.shuffle(len(candidates), func(i, j int) {
			candidates[i], candidates[j] = candidates[j], candidates[i]
		})
		if len(candidates) > room {
			candidates = candidates[:room]
		}

		for _, q := range candidates {
			key := domain.NewPairKey(eventID, p.ID, q.ID)
			if paired[key] {
				continue
			}
			pairing := domain.NewPairing(eventID, p.ID, q.ID)
			inserted, err := g.pairingRepo.CreateIfAbsent(ctx, pairing)
			if err != nil {
				return created, fmt.Errorf("create pairing %s-%s: %w", p.ID, q.ID, err)
			}
			paired[key] = true
			if inserted {
				started[p.ID]++
				created = append(created, pairing)
			}
		}
	}
	return created, nil
}
