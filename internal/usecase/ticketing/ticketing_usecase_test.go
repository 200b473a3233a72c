package ticketing

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gdugdh24/party-match-backend/internal/domain"
	"github.com/gdugdh24/party-match-backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUseCase(f *testutil.Fixture) *TicketingUseCase {
	return NewTicketingUseCase(f.Events, f.Enrollments, f.Profiles, f.Clock, f.Logger)
}

func TestJoin(t *testing.T) {
	f := testutil.New()
	uc := newUseCase(f)
	event := f.AddEvent(t, time.Hour)
	p := f.AddProfile("A", "B")
	ctx := context.Background()

	enrollment, err := uc.Join(ctx, event.ID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, event.ID, enrollment.EventID)
	require.NotNil(t, enrollment.ProfileID)
	assert.Equal(t, p.ID, *enrollment.ProfileID)
	assert.Equal(t, domain.EntryPending, enrollment.Status)
	assert.True(t, enrollment.OptIn)
	assert.False(t, enrollment.CheckedIn)
	assert.Nil(t, enrollment.CheckedInAt)
	_, err = uuid.Parse(enrollment.TicketCode)
	assert.NoError(t, err)

	_, err = uc.Join(ctx, event.ID, p.ID)
	assert.ErrorIs(t, err, domain.ErrAlreadyJoined)

	stored, err := uc.GetTicket(ctx, event.ID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, enrollment.TicketCode, stored.TicketCode)
}

func TestJoinAfterTriggerDoesNotOptIn(t *testing.T) {
	f := testutil.New()
	event := f.AddEvent(t, -time.Minute)
	p := f.AddProfile("A", "B")

	enrollment, err := newUseCase(f).Join(context.Background(), event.ID, p.ID)
	require.NoError(t, err)
	assert.False(t, enrollment.OptIn)
}

func TestJoinErrors(t *testing.T) {
	f := testutil.New()
	uc := newUseCase(f)
	event := f.AddEvent(t, time.Hour)
	ctx := context.Background()

	incomplete := f.AddProfile("A", "B")
	incomplete.Bio = nil
	f.Store.PutProfile(incomplete)
	_, err := uc.Join(ctx, event.ID, incomplete.ID)
	assert.ErrorIs(t, err, domain.ErrProfileIncomplete)

	_, err = uc.Join(ctx, uuid.New(), f.AddProfile("A", "B").ID)
	assert.ErrorIs(t, err, domain.ErrEventNotFound)

	_, err = uc.Join(ctx, event.ID, uuid.New())
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)
}

func TestJoinConcurrentCreatesOneEnrollment(t *testing.T) {
	f := testutil.New()
	uc := newUseCase(f)
	event := f.AddEvent(t, time.Hour)
	p := f.AddProfile("A", "B")
	ctx := context.Background()

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.Join(ctx, event.ID, p.ID)
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
				return
			}
			assert.ErrorIs(t, err, domain.ErrAlreadyJoined)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	all, err := f.Enrollments.ListByEvent(ctx, event.ID)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestJoinAsGuest(t *testing.T) {
	f := testutil.New()
	uc := newUseCase(f)
	event := f.AddEvent(t, time.Hour)
	ctx := context.Background()

	first, err := uc.JoinAsGuest(ctx, event.ID, &GuestJoinRequest{Name: " Dana ", Email: "dana@example.com"})
	require.NoError(t, err)
	assert.True(t, first.IsGuest())
	assert.False(t, first.OptIn)
	require.NotNil(t, first.GuestName)
	assert.Equal(t, "Dana", *first.GuestName)

	second, err := uc.JoinAsGuest(ctx, event.ID, &GuestJoinRequest{Name: "Dana"})
	require.NoError(t, err)
	assert.NotEqual(t, first.TicketCode, second.TicketCode)
	assert.Nil(t, second.GuestEmail)

	_, err = uc.JoinAsGuest(ctx, event.ID, &GuestJoinRequest{Name: "  "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.JoinAsGuest(ctx, uuid.New(), &GuestJoinRequest{Name: "Dana"})
	assert.ErrorIs(t, err, domain.ErrEventNotFound)
}

func TestToggleOptIn(t *testing.T) {
	f := testutil.New()
	uc := newUseCase(f)
	event := f.AddEvent(t, time.Hour)
	p := f.AddProfile("A", "B")
	ctx := context.Background()

	_, err := uc.ToggleOptIn(ctx, event.ID, p.ID, true)
	assert.ErrorIs(t, err, domain.ErrNotEnrolled)

	_, err = uc.Join(ctx, event.ID, p.ID)
	require.NoError(t, err)

	off, err := uc.ToggleOptIn(ctx, event.ID, p.ID, false)
	require.NoError(t, err)
	assert.False(t, off.OptIn)

	on, err := uc.ToggleOptIn(ctx, event.ID, p.ID, true)
	require.NoError(t, err)
	assert.True(t, on.OptIn)

	f.Clock.Set(event.MatchingStartsAt)
	_, err = uc.ToggleOptIn(ctx, event.ID, p.ID, false)
	assert.ErrorIs(t, err, domain.ErrMatchingAlreadyStarted)
	_, err = uc.ToggleOptIn(ctx, event.ID, p.ID, true)
	assert.ErrorIs(t, err, domain.ErrMatchingAlreadyStarted)
}

func TestToggleOptInRevalidatesProfile(t *testing.T) {
	f := testutil.New()
	uc := newUseCase(f)
	event := f.AddEvent(t, time.Hour)
	p := f.AddProfile("A", "B")
	ctx := context.Background()

	_, err := uc.Join(ctx, event.ID, p.ID)
	require.NoError(t, err)
	_, err = uc.ToggleOptIn(ctx, event.ID, p.ID, false)
	require.NoError(t, err)

	p.Photos = nil
	f.Store.PutProfile(p)

	_, err = uc.ToggleOptIn(ctx, event.ID, p.ID, true)
	assert.ErrorIs(t, err, domain.ErrProfileIncomplete)

	// Leaving the pool never needs a complete profile.
	off, err := uc.ToggleOptIn(ctx, event.ID, p.ID, false)
	require.NoError(t, err)
	assert.False(t, off.OptIn)
}

func TestCheckInRedeemsExactlyOnce(t *testing.T) {
	f := testutil.New()
	uc := newUseCase(f)
	event := f.AddEvent(t, time.Hour)
	p := f.AddProfile("A", "B")
	ctx := context.Background()

	enrollment, err := uc.Join(ctx, event.ID, p.ID)
	require.NoError(t, err)

	_, err = uc.CheckIn(ctx, event.ID, enrollment.TicketCode)
	assert.ErrorIs(t, err, domain.ErrNotAccepted)

	_, err = uc.UpdateEntryStatus(ctx, event.ID, enrollment.ID, domain.EntryAccepted)
	require.NoError(t, err)

	redeemed, err := uc.CheckIn(ctx, event.ID, enrollment.TicketCode)
	require.NoError(t, err)
	assert.True(t, redeemed.CheckedIn)
	require.NotNil(t, redeemed.CheckedInAt)
	firstAt := *redeemed.CheckedInAt
	assert.Equal(t, f.Clock.Now(), firstAt)

	f.Clock.Advance(10 * time.Minute)
	_, err = uc.CheckIn(ctx, event.ID, enrollment.TicketCode)
	require.ErrorIs(t, err, domain.ErrTicketAlreadyUsed)
	var used *domain.TicketUsedError
	require.True(t, errors.As(err, &used))
	assert.Equal(t, firstAt, used.CheckedInAt)

	stored, err := f.Enrollments.GetByID(ctx, enrollment.ID)
	require.NoError(t, err)
	assert.Equal(t, firstAt, *stored.CheckedInAt)
}

func TestCheckInConcurrentScans(t *testing.T) {
	f := testutil.New()
	uc := newUseCase(f)
	event := f.AddEvent(t, time.Hour)
	enrollment := f.Accept(t, f.Enroll(t, event, f.AddProfile("A", "B"), true))
	ctx := context.Background()

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.CheckIn(ctx, event.ID, enrollment.TicketCode)
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
				return
			}
			assert.ErrorIs(t, err, domain.ErrTicketAlreadyUsed)
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, succeeded)
}

func TestCheckInInvalidTicket(t *testing.T) {
	f := testutil.New()
	uc := newUseCase(f)
	event := f.AddEvent(t, time.Hour)
	other := f.AddEvent(t, time.Hour)
	enrollment := f.Accept(t, f.Enroll(t, event, f.AddProfile("A", "B"), true))
	ctx := context.Background()

	_, err := uc.CheckIn(ctx, event.ID, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrInvalidTicket)

	_, err = uc.CheckIn(ctx, event.ID, "")
	assert.ErrorIs(t, err, domain.ErrInvalidTicket)

	_, err = uc.CheckIn(ctx, other.ID, enrollment.TicketCode)
	assert.ErrorIs(t, err, domain.ErrInvalidTicket)
}

func TestCheckInGuest(t *testing.T) {
	f := testutil.New()
	uc := newUseCase(f)
	event := f.AddEvent(t, time.Hour)
	ctx := context.Background()

	guest, err := uc.JoinAsGuest(ctx, event.ID, &GuestJoinRequest{Name: "Dana"})
	require.NoError(t, err)
	_, err = uc.UpdateEntryStatus(ctx, event.ID, guest.ID, domain.EntryAccepted)
	require.NoError(t, err)

	redeemed, err := uc.CheckIn(ctx, event.ID, guest.TicketCode)
	require.NoError(t, err)
	assert.True(t, redeemed.CheckedIn)
}

func TestUpdateEntryStatusErrors(t *testing.T) {
	f := testutil.New()
	uc := newUseCase(f)
	event := f.AddEvent(t, time.Hour)
	other := f.AddEvent(t, time.Hour)
	enrollment := f.Enroll(t, event, f.AddProfile("A", "B"), true)
	ctx := context.Background()

	_, err := uc.UpdateEntryStatus(ctx, event.ID, enrollment.ID, domain.EntryStatus("vip"))
	assert.ErrorIs(t, err, domain.ErrInvalidEntryStatus)

	_, err = uc.UpdateEntryStatus(ctx, other.ID, enrollment.ID, domain.EntryAccepted)
	assert.ErrorIs(t, err, domain.ErrEnrollmentNotFound)

	_, err = uc.UpdateEntryStatus(ctx, event.ID, uuid.New(), domain.EntryAccepted)
	assert.ErrorIs(t, err, domain.ErrEnrollmentNotFound)

	rejected, err := uc.UpdateEntryStatus(ctx, event.ID, enrollment.ID, domain.EntryRejected)
	require.NoError(t, err)
	assert.Equal(t, domain.EntryRejected, rejected.Status)
}

func TestGetTicketNotEnrolled(t *testing.T) {
	f := testutil.New()
	event := f.AddEvent(t, time.Hour)

	_, err := newUseCase(f).GetTicket(context.Background(), event.ID, uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotEnrolled)
}
