package memory

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gdugdh24/party-match-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadProfiles(t *testing.T) {
	s := NewStore()
	n, err := s.LoadProfiles(filepath.Join("testdata", "profiles.json"))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	p, err := NewProfileRepository(s).GetByID(context.Background(), uuid.MustParse("6f1c2b64-1f0a-4a5e-9c1e-0b7f5d3a9a01"))
	require.NoError(t, err)
	assert.Equal(t, "Maya", p.DisplayName)
	assert.Equal(t, "B", p.GenderPreference)
	require.NotNil(t, p.Bio)
}

func TestLoadProfilesRejectsBadSeed(t *testing.T) {
	dir := t.TempDir()
	tests := map[string]string{
		"missing id": `[{"display_name": "Nameless"}]`,
		"not json":   `display_name: Nameless`,
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name+".json")
			require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

			s := NewStore()
			_, err := s.LoadProfiles(path)
			assert.Error(t, err)
			assert.Empty(t, s.profiles)
		})
	}

	_, err := NewStore().LoadProfiles(filepath.Join(dir, "absent.json"))
	assert.Error(t, err)
}

func TestListMatchableOrderIsDeterministic(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	event := &domain.Event{Name: "Same Second", StartsAt: time.Now().Add(time.Hour)}
	require.NoError(t, NewEventRepository(s).Create(ctx, event))

	repo := NewEnrollmentRepository(s)
	joined := time.Date(2026, 7, 10, 18, 0, 0, 0, time.UTC)
	for range 12 {
		id := uuid.New()
		require.NoError(t, repo.Create(ctx, &domain.Enrollment{
			EventID:    event.ID,
			ProfileID:  &id,
			OptIn:      true,
			Status:     domain.EntryPending,
			TicketCode: uuid.NewString(),
			JoinedAt:   joined,
		}))
	}
	late := uuid.New()
	require.NoError(t, repo.Create(ctx, &domain.Enrollment{
		EventID:    event.ID,
		ProfileID:  &late,
		OptIn:      true,
		Status:     domain.EntryPending,
		TicketCode: uuid.NewString(),
		JoinedAt:   joined.Add(-time.Minute),
	}))

	first, err := repo.ListMatchable(ctx, event.ID)
	require.NoError(t, err)
	require.Len(t, first, 13)
	assert.Equal(t, late, *first[0].ProfileID, "earlier join comes first")
	for i := 2; i < len(first); i++ {
		assert.Less(t, first[i-1].ID.String(), first[i].ID.String(), "equal join times are ordered by id")
	}

	for range 20 {
		again, err := repo.ListMatchable(ctx, event.ID)
		require.NoError(t, err)
		for i := range first {
			assert.Equal(t, first[i].ID, again[i].ID)
		}
	}
}
