package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Stevefe123/estat-predict/internal/domain/prediction"
	"github.com/Stevefe123/estat-predict/internal/domain/profile"
)

func TestPredictionRepository_UpsertReplacesDay(t *testing.T) {
	t.Parallel()

	repo := NewPredictionRepository()
	ctx := context.Background()
	date := "2026-03-14"

	first := prediction.Day{
		Date: date,
		Records: []prediction.Record{
			{ID: "1001", FixtureID: 1001, League: "Premier League"},
		},
	}
	require.NoError(t, repo.UpsertDay(ctx, first))

	second := prediction.Day{
		Date: date,
		Records: []prediction.Record{
			{ID: "2001", FixtureID: 2001, League: "La Liga"},
			{ID: "2002", FixtureID: 2002, League: "Serie A"},
		},
	}
	require.NoError(t, repo.UpsertDay(ctx, second))

	got, found, err := repo.GetByDate(ctx, date)
	require.NoError(t, err)
	require.True(t, found)
	require.Len(t, got.Records, 2)
	require.Equal(t, "2001", got.Records[0].ID)
}

func TestPredictionRepository_GetByDate_MissingDate(t *testing.T) {
	t.Parallel()

	repo := NewPredictionRepository()

	_, found, err := repo.GetByDate(context.Background(), "2026-01-01")
	require.NoError(t, err)
	require.False(t, found)
}

func TestPredictionRepository_GetByDate_CopiesRecords(t *testing.T) {
	t.Parallel()

	repo := NewPredictionRepository()
	ctx := context.Background()
	date := "2026-03-14"

	require.NoError(t, repo.UpsertDay(ctx, prediction.Day{
		Date:    date,
		Records: []prediction.Record{{ID: "1001", League: "Premier League"}},
	}))

	first, _, err := repo.GetByDate(ctx, date)
	require.NoError(t, err)
	first.Records[0].League = "mutated"

	second, _, err := repo.GetByDate(ctx, date)
	require.NoError(t, err)
	require.Equal(t, "Premier League", second.Records[0].League)
}

func TestProfileRepository_SeededLookup(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	repo := NewProfileRepository([]profile.Profile{
		profile.NewWithTrial("user-1", "one@example.com", now),
	})

	got, found, err := repo.GetByID(context.Background(), "user-1")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "one@example.com", got.Email)
	require.True(t, got.HasAccess(now))

	_, found, err = repo.GetByID(context.Background(), "ghost")
	require.NoError(t, err)
	require.False(t, found)
}

func TestProfileRepository_CreateIsIdempotent(t *testing.T) {
	t.Parallel()

	repo := NewProfileRepository(nil)
	ctx := context.Background()
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Create(ctx, profile.NewWithTrial("user-1", "one@example.com", now)))
	require.NoError(t, repo.Create(ctx, profile.NewWithTrial("user-1", "other@example.com", now)))

	got, found, err := repo.GetByID(ctx, "user-1")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "one@example.com", got.Email)
}

func TestProfileRepository_ActivateSubscription(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	repo := NewProfileRepository([]profile.Profile{
		profile.NewWithTrial("user-1", "one@example.com", now),
	})
	ctx := context.Background()

	require.NoError(t, repo.ActivateSubscription(ctx, "user-1"))

	got, _, err := repo.GetByID(ctx, "user-1")
	require.NoError(t, err)
	require.Equal(t, profile.SubscriptionActive, got.SubscriptionStatus)

	// Activation for an unseen id materializes the profile so later
	// access checks pass.
	require.NoError(t, repo.ActivateSubscription(ctx, "user-2"))
	created, found, err := repo.GetByID(ctx, "user-2")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, profile.SubscriptionActive, created.SubscriptionStatus)
}
