package database

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/example/leitnerbot/internal/config"
	"github.com/example/leitnerbot/pkg/models"
)

var today = time.Date(2026, 5, 20, 0, 0, 0, 0, time.UTC)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := Connect(context.Background(), config.DatabaseConfig{Driver: DriverSQLite, DSN: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func seedUser(t *testing.T, db *sqlx.DB, id int64) *models.User {
	t.Helper()
	user := models.NewUser(id, "learner", "Test")
	require.NoError(t, NewUserRepository(db).Create(context.Background(), user))
	return user
}

func seedWord(t *testing.T, db *sqlx.DB, text string) *models.Word {
	t.Helper()
	word := &models.Word{Word: text, Definition: "definition of " + text}
	require.NoError(t, NewWordRepository(db).Create(context.Background(), word))
	return word
}

func seedProgress(t *testing.T, db *sqlx.DB, userID, wordID int64, box int, due time.Time) *models.ReviewRecord {
	t.Helper()
	now := time.Now().UTC()
	rec := &models.ReviewRecord{
		UserID:         userID,
		WordID:         wordID,
		Box:            box,
		NextReviewDate: due,
		FirstSeenAt:    now,
		UpdatedAt:      now,
	}
	saved, err := NewUserProgressRepository(db).Upsert(context.Background(), rec)
	require.NoError(t, err)
	return saved
}

func dates(records []models.ReviewRecord) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.NextReviewDate.Format(time.DateOnly))
	}
	return out
}

func wordIDs(records []models.ReviewRecord) []int64 {
	out := make([]int64, 0, len(records))
	for _, r := range records {
		out = append(out, r.WordID)
	}
	return out
}
