package database

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/example/leitnerbot/pkg/models"
)

// StudySessionRepository stores finished session summaries
type StudySessionRepository struct {
	db *sqlx.DB
}

// NewStudySessionRepository creates a new repository instance
func NewStudySessionRepository(db *sqlx.DB) *StudySessionRepository {
	return &StudySessionRepository{db: db}
}

// Save inserts the summary row of a session
func (r *StudySessionRepository) Save(ctx context.Context, s *models.StudySession) error {
	query := r.db.Rebind(`
		INSERT INTO study_sessions (id, user_id, started_at, ended_at, words_reviewed, words_correct, words_incorrect, new_words)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err := r.db.ExecContext(ctx, query,
		s.ID, s.UserID, s.StartedAt, s.EndedAt,
		s.WordsReviewed, s.WordsCorrect, s.WordsIncorrect, s.NewWords,
	)
	if err != nil {
		return storeError("save study session", err)
	}
	return nil
}

// ListByUser returns a learner's sessions, most recent first
func (r *StudySessionRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]models.StudySession, error) {
	sessions := []models.StudySession{}
	query := r.db.Rebind(`
		SELECT id, user_id, started_at, ended_at, words_reviewed, words_correct, words_incorrect, new_words
		FROM study_sessions
		WHERE user_id = ?
		ORDER BY started_at DESC
		LIMIT ?`)
	if err := r.db.SelectContext(ctx, &sessions, query, userID, limit); err != nil {
		return nil, storeError("list study sessions", err)
	}
	return sessions, nil
}
