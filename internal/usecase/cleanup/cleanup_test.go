package cleanup

import (
	"context"
	"testing"
	"time"

	"github.com/gdugdh24/party-match-backend/internal/domain"
	"github.com/gdugdh24/party-match-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeleteExpiredEvents(t *testing.T) {
	f := testutil.New()
	ctx := context.Background()

	// AddEvent starts events a day after their trigger.
	expired := f.AddEvent(t, -50*time.Hour)
	recent := f.AddEvent(t, -30*time.Hour)
	upcoming := f.AddEvent(t, time.Hour)

	a := f.AddProfile("A", "B")
	b := f.AddProfile("B", "A")
	enrollment := f.Enroll(t, expired, a, true)
	pairing := domain.NewPairing(expired.ID, a.ID, b.ID)
	_, err := f.Pairings.CreateIfAbsent(ctx, pairing)
	require.NoError(t, err)
	f.Enroll(t, recent, a, true)

	deleted, err := NewCleaner(f.Events, f.Clock, f.Logger).DeleteExpiredEvents(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	_, err = f.Events.GetByID(ctx, expired.ID)
	assert.ErrorIs(t, err, domain.ErrEventNotFound)
	_, err = f.Enrollments.GetByID(ctx, enrollment.ID)
	assert.ErrorIs(t, err, domain.ErrEnrollmentNotFound)
	_, err = f.Pairings.GetByID(ctx, pairing.ID)
	assert.ErrorIs(t, err, domain.ErrPairingNotFound)

	for _, kept := range []*domain.Event{recent, upcoming} {
		_, err := f.Events.GetByID(ctx, kept.ID)
		assert.NoError(t, err)
	}
	ticket, err := f.Enrollments.GetByEventAndProfile(ctx, recent.ID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, recent.ID, ticket.EventID)
}

func TestDeleteExpiredEventsNothingToDo(t *testing.T) {
	f := testutil.New()
	f.AddEvent(t, time.Hour)

	cleaner := NewCleaner(f.Events, f.Clock, f.Logger)
	for range 2 {
		deleted, err := cleaner.DeleteExpiredEvents(context.Background(), 24*time.Hour)
		require.NoError(t, err)
		assert.Zero(t, deleted)
	}
}
