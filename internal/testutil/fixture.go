// Package testutil builds in-memory party state for use case and handler tests.
package testutil

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/gdugdh24/party-match-backend/internal/clock"
	"github.com/gdugdh24/party-match-backend/internal/domain"
	"github.com/gdugdh24/party-match-backend/internal/repository"
	"github.com/gdugdh24/party-match-backend/internal/repository/memory"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// Now is the fixed instant fixtures start at.
var Now = time.Date(2026, 7, 10, 18, 0, 0, 0, time.UTC)

type Fixture struct {
	Store       *memory.Store
	Events      repository.EventRepository
	Enrollments repository.EnrollmentRepository
	Profiles    repository.ProfileRepository
	Pairings    repository.PairingRepository
	Clock       *clock.FakeClock
	Logger      *slog.Logger
}

func New() *Fixture {
	store := memory.NewStore()
	return &Fixture{
		Store:       store,
		Events:      memory.NewEventRepository(store),
		Enrollments: memory.NewEnrollmentRepository(store),
		Profiles:    memory.NewProfileRepository(store),
		Pairings:    memory.NewPairingRepository(store),
		Clock:       clock.Fake(Now),
		Logger:      DiscardLogger(),
	}
}

func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// AddProfile stores a complete profile with the given gender and preference.
func (f *Fixture) AddProfile(gender, preference string) *domain.Profile {
	bio := "Here for the music and good conversation."
	p := &domain.Profile{
		ID:               uuid.New(),
		DisplayName:      "guest-" + gender,
		Gender:           gender,
		GenderPreference: preference,
		Photos:           []string{"https://cdn.example.com/photo.jpg"},
		Bio:              &bio,
		Interests:        []string{"dancing"},
		CreatedAt:        Now,
		UpdatedAt:        Now,
	}
	f.Store.PutProfile(p)
	return p
}

// AddEvent stores an event whose matching trigger is matchingIn from the
// fixture clock's current time; the event starts a day after the trigger.
func (f *Fixture) AddEvent(t *testing.T, matchingIn time.Duration) *domain.Event {
	t.Helper()
	trigger := f.Clock.Now().Add(matchingIn)
	price := int64(5000)
	event := &domain.Event{
		Name:             "Rooftop Party",
		Location:         "Tel Aviv",
		StartsAt:         trigger.Add(24 * time.Hour),
		MatchingStartsAt: trigger,
		TicketPrice:      &price,
	}
	require.NoError(t, f.Events.Create(context.Background(), event))
	return event
}

// Enroll stores an enrollment for profile in event.
func (f *Fixture) Enroll(t *testing.T, event *domain.Event, profile *domain.Profile, optIn bool) *domain.Enrollment {
	t.Helper()
	id := profile.ID
	enrollment := &domain.Enrollment{
		EventID:    event.ID,
		ProfileID:  &id,
		OptIn:      optIn,
		Status:     domain.EntryPending,
		TicketCode: uuid.NewString(),
		JoinedAt:   f.Clock.Now(),
	}
	require.NoError(t, f.Enrollments.Create(context.Background(), enrollment))
	return enrollment
}

// EnrollAll opts every profile into event, one second apart.
func (f *Fixture) EnrollAll(t *testing.T, event *domain.Event, profiles ...*domain.Profile) {
	t.Helper()
	for _, p := range profiles {
		f.Enroll(t, event, p, true)
		f.Clock.Advance(time.Second)
	}
}

// Accept moves an enrollment to the accepted entry status.
func (f *Fixture) Accept(t *testing.T, enrollment *domain.Enrollment) *domain.Enrollment {
	t.Helper()
	updated, err := f.Enrollments.UpdateStatus(context.Background(), enrollment.ID, domain.EntryAccepted)
	require.NoError(t, err)
	return updated
}
