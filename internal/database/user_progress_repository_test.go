package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/leitnerbot/pkg/models"
)

func TestUserProgressRepository_GetNotFound(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserProgressRepository(db)

	_, err := repo.Get(context.Background(), 1, 1)
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.NotErrorIs(t, err, models.ErrStoreUnavailable)
}

func TestUserProgressRepository_UpsertRoundTrip(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewUserProgressRepository(db)
	seedUser(t, db, 42)
	word := seedWord(t, db, "serendipity")

	now := time.Date(2026, 5, 20, 9, 15, 0, 0, time.UTC)
	rec := models.NewReviewRecord(42, word.ID, now, today)
	rec.TimesReviewed = 1
	rec.TimesCorrect = 1
	rec.LastDifficulty = models.DifficultyHard
	rec.LastReviewedAt = &now

	saved, err := repo.Upsert(ctx, rec)
	require.NoError(t, err)
	assert.Equal(t, 1, saved.Version)
	assert.Equal(t, 0, rec.Version, "input record is not mutated")

	got, err := repo.Get(ctx, 42, word.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MinBox, got.Box)
	assert.Equal(t, "2026-05-21", got.NextReviewDate.Format(time.DateOnly))
	assert.Equal(t, 1, got.TimesReviewed)
	assert.Equal(t, 1, got.TimesCorrect)
	assert.Equal(t, models.DifficultyHard, got.LastDifficulty)
	require.NotNil(t, got.LastReviewedAt)
	assert.True(t, now.Equal(*got.LastReviewedAt))
	assert.Equal(t, 1, got.Version)

	got.Box = 2
	got.NextReviewDate = today.AddDate(0, 0, 2)
	got.TimesReviewed++
	saved, err = repo.Upsert(ctx, got)
	require.NoError(t, err)
	assert.Equal(t, 2, saved.Version)

	again, err := repo.Get(ctx, 42, word.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, again.Box)
	assert.Equal(t, 2, again.TimesReviewed)
	assert.Equal(t, 2, again.Version)
}

func TestUserProgressRepository_UpsertConflicts(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewUserProgressRepository(db)
	seedUser(t, db, 1)
	word := seedWord(t, db, "ephemeral")
	seedProgress(t, db, 1, word.ID, 3, today)

	t.Run("second insert of the same pair", func(t *testing.T) {
		rec := models.NewReviewRecord(1, word.ID, time.Now().UTC(), today)
		_, err := repo.Upsert(ctx, rec)
		assert.ErrorIs(t, err, models.ErrVersionConflict)
	})

	t.Run("stale version", func(t *testing.T) {
		first, err := repo.Get(ctx, 1, word.ID)
		require.NoError(t, err)
		second := *first

		first.Box = 4
		_, err = repo.Upsert(ctx, first)
		require.NoError(t, err)

		second.Box = 1
		_, err = repo.Upsert(ctx, &second)
		assert.ErrorIs(t, err, models.ErrVersionConflict)

		got, err := repo.Get(ctx, 1, word.ID)
		require.NoError(t, err)
		assert.Equal(t, 4, got.Box)
	})
}

func TestUserProgressRepository_QueryDue(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewUserProgressRepository(db)
	seedUser(t, db, 1)
	seedUser(t, db, 2)

	w := make([]*models.Word, 7)
	for i, text := range []string{"alpha", "bravo", "charlie", "delta", "echo", "foxtrot", "golf"} {
		w[i] = seedWord(t, db, text)
	}

	seedProgress(t, db, 1, w[0].ID, 3, today.AddDate(0, 0, -1))
	seedProgress(t, db, 1, w[1].ID, 1, today)
	seedProgress(t, db, 1, w[2].ID, 3, today.AddDate(0, 0, -4))
	seedProgress(t, db, 1, w[3].ID, 5, today.AddDate(0, 0, 1)) // not due yet
	seedProgress(t, db, 1, w[4].ID, 1, today.AddDate(0, 0, -2))
	seedProgress(t, db, 1, w[5].ID, 2, today) // deactivated below
	seedProgress(t, db, 2, w[6].ID, 1, today) // other learner
	require.NoError(t, NewWordRepository(db).SetActive(ctx, w[5].ID, false))

	t.Run("ordered by box then due date", func(t *testing.T) {
		got, err := repo.QueryDue(ctx, 1, today, 10)
		require.NoError(t, err)
		assert.Equal(t, []int64{w[4].ID, w[1].ID, w[2].ID, w[0].ID}, wordIDs(got))
		for _, r := range got {
			assert.False(t, r.NextReviewDate.After(today))
		}
	})

	t.Run("truncated to limit", func(t *testing.T) {
		got, err := repo.QueryDue(ctx, 1, today, 2)
		require.NoError(t, err)
		assert.Equal(t, []int64{w[4].ID, w[1].ID}, wordIDs(got))
		assert.Equal(t, []string{"2026-05-18", "2026-05-20"}, dates(got))
	})

	t.Run("non-positive limit", func(t *testing.T) {
		got, err := repo.QueryDue(ctx, 1, today, 0)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("stable between calls", func(t *testing.T) {
		a, err := repo.QueryDue(ctx, 1, today, 10)
		require.NoError(t, err)
		b, err := repo.QueryDue(ctx, 1, today, 10)
		require.NoError(t, err)
		assert.Equal(t, wordIDs(a), wordIDs(b))
	})
}

func TestUserProgressRepository_QueryWithoutProgress(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewUserProgressRepository(db)
	seedUser(t, db, 1)
	seedUser(t, db, 2)

	seen := seedWord(t, db, "seen")
	fresh1 := seedWord(t, db, "fresh")
	inactive := seedWord(t, db, "retired")
	fresh2 := seedWord(t, db, "novel")
	seedProgress(t, db, 1, seen.ID, 2, today)
	seedProgress(t, db, 2, fresh1.ID, 2, today)
	require.NoError(t, NewWordRepository(db).SetActive(ctx, inactive.ID, false))

	got, err := repo.QueryWithoutProgress(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, fresh1.ID, got[0].ID)
	assert.Equal(t, fresh2.ID, got[1].ID)
	assert.Equal(t, "definition of fresh", got[0].Definition)

	got, err = repo.QueryWithoutProgress(ctx, 1, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, fresh1.ID, got[0].ID)
}

func TestUserProgressRepository_GetAllByUser(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewUserProgressRepository(db)
	seedUser(t, db, 1)

	got, err := repo.GetAllByUser(ctx, 1)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	a := seedWord(t, db, "one")
	b := seedWord(t, db, "two")
	seedProgress(t, db, 1, b.ID, 7, today.AddDate(0, 0, 60))
	seedProgress(t, db, 1, a.ID, 1, today)

	got, err = repo.GetAllByUser(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{a.ID, b.ID}, wordIDs(got))
}
