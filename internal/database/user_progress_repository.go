package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/example/leitnerbot/pkg/models"
)

const progressColumns = `
	p.user_id, p.word_id, p.leitner_box, p.next_review_date,
	p.times_reviewed, p.times_correct, p.times_incorrect,
	COALESCE(p.last_difficulty, '') AS last_difficulty, p.last_reviewed_at,
	p.version, p.first_seen_at, p.updated_at`

// UserProgressRepository handles database operations for review records
type UserProgressRepository struct {
	db *sqlx.DB
}

// NewUserProgressRepository creates a new repository instance
func NewUserProgressRepository(db *sqlx.DB) *UserProgressRepository {
	return &UserProgressRepository{db: db}
}

// Get returns the record for a learner and word, or ErrNotFound
func (r *UserProgressRepository) Get(ctx context.Context, userID, wordID int64) (*models.ReviewRecord, error) {
	var rec models.ReviewRecord
	query := r.db.Rebind(`SELECT` + progressColumns + `
		FROM user_progress p
		WHERE p.user_id = ? AND p.word_id = ?`)
	if err := r.db.GetContext(ctx, &rec, query, userID, wordID); err != nil {
		return nil, storeError("get user progress", err)
	}
	return &rec, nil
}

// Upsert stores rec if its version still matches the stored one.
// A record with version 0 is inserted; a stale version yields ErrVersionConflict.
func (r *UserProgressRepository) Upsert(ctx context.Context, rec *models.ReviewRecord) (*models.ReviewRecord, error) {
	var (
		res sql.Result
		err error
	)

	if rec.Version == 0 {
		query := r.db.Rebind(`
			INSERT INTO user_progress (
				user_id, word_id, leitner_box, next_review_date,
				times_reviewed, times_correct, times_incorrect,
				last_difficulty, last_reviewed_at, version, first_seen_at, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, NULLIF(?, ''), ?, 1, ?, ?)
			ON CONFLICT (user_id, word_id) DO NOTHING`)
		res, err = r.db.ExecContext(ctx, query,
			rec.UserID, rec.WordID, rec.Box, rec.NextReviewDate,
			rec.TimesReviewed, rec.TimesCorrect, rec.TimesIncorrect,
			string(rec.LastDifficulty), rec.LastReviewedAt, rec.FirstSeenAt, rec.UpdatedAt,
		)
	} else {
		query := r.db.Rebind(`
			UPDATE user_progress SET
				leitner_box = ?,
				next_review_date = ?,
				times_reviewed = ?,
				times_correct = ?,
				times_incorrect = ?,
				last_difficulty = NULLIF(?, ''),
				last_reviewed_at = ?,
				version = version + 1,
				updated_at = ?
			WHERE user_id = ? AND word_id = ? AND version = ?`)
		res, err = r.db.ExecContext(ctx, query,
			rec.Box, rec.NextReviewDate,
			rec.TimesReviewed, rec.TimesCorrect, rec.TimesIncorrect,
			string(rec.LastDifficulty), rec.LastReviewedAt, rec.UpdatedAt,
			rec.UserID, rec.WordID, rec.Version,
		)
	}
	if err != nil {
		return nil, storeError("upsert user progress", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return nil, storeError("upsert user progress", err)
	}
	if n == 0 {
		return nil, fmt.Errorf("upsert user progress (user %d, word %d): %w", rec.UserID, rec.WordID, models.ErrVersionConflict)
	}

	saved := *rec
	saved.Version++
	return &saved, nil
}

// QueryDue returns records due on or before today for active words, weakest box first
func (r *UserProgressRepository) QueryDue(ctx context.Context, userID int64, today time.Time, limit int) ([]models.ReviewRecord, error) {
	records := []models.ReviewRecord{}
	if limit <= 0 {
		return records, nil
	}

	query := r.db.Rebind(`SELECT` + progressColumns + `
		FROM user_progress p
		JOIN words w ON w.id = p.word_id
		WHERE p.user_id = ? AND p.next_review_date <= ? AND w.is_active
		ORDER BY p.leitner_box ASC, p.next_review_date ASC, p.word_id ASC
		LIMIT ?`)
	if err := r.db.SelectContext(ctx, &records, query, userID, today, limit); err != nil {
		return nil, storeError("query due words", err)
	}
	return records, nil
}

// QueryWithoutProgress returns active words the learner has never seen, in catalog order
func (r *UserProgressRepository) QueryWithoutProgress(ctx context.Context, userID int64, limit int) ([]models.Word, error) {
	words := []models.Word{}
	if limit <= 0 {
		return words, nil
	}

	query := r.db.Rebind(`SELECT ` + wordColumns + `
		FROM words w
		LEFT JOIN user_progress p ON p.word_id = w.id AND p.user_id = ?
		WHERE p.word_id IS NULL AND w.is_active
		ORDER BY w.id ASC
		LIMIT ?`)
	if err := r.db.SelectContext(ctx, &words, query, userID, limit); err != nil {
		return nil, storeError("query new words", err)
	}
	return words, nil
}

// GetAllByUser returns every record of a learner
func (r *UserProgressRepository) GetAllByUser(ctx context.Context, userID int64) ([]models.ReviewRecord, error) {
	records := []models.ReviewRecord{}
	query := r.db.Rebind(`SELECT` + progressColumns + `
		FROM user_progress p
		WHERE p.user_id = ?
		ORDER BY p.word_id`)
	if err := r.db.SelectContext(ctx, &records, query, userID); err != nil {
		return nil, storeError("get user progress", err)
	}
	return records, nil
}
