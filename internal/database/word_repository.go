package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"golang.org/x/text/cases"

	"github.com/example/leitnerbot/pkg/models"
)

const wordColumns = `w.id, w.word, w.definition, w.example, w.translation, w.is_active, w.added_by, w.created_at, w.updated_at`

// wordKey is the case-folded headword the unique index is built on.
// Folding happens here so SQLite and PostgreSQL agree on non-ASCII words.
func wordKey(text string) string {
	return cases.Fold().String(strings.TrimSpace(text))
}

// WordRepository handles database operations for the word catalog
type WordRepository struct {
	db *sqlx.DB
}

// NewWordRepository creates a new repository instance
func NewWordRepository(db *sqlx.DB) *WordRepository {
	return &WordRepository{db: db}
}

// GetByID returns a word by ID, active or not
func (r *WordRepository) GetByID(ctx context.Context, id int64) (*models.Word, error) {
	var word models.Word
	query := r.db.Rebind(`SELECT ` + wordColumns + ` FROM words w WHERE w.id = ?`)
	if err := r.db.GetContext(ctx, &word, query, id); err != nil {
		return nil, storeError(fmt.Sprintf("get word %d", id), err)
	}
	return &word, nil
}

// FindByText looks a headword up ignoring case
func (r *WordRepository) FindByText(ctx context.Context, text string) (*models.Word, error) {
	var word models.Word
	query := r.db.Rebind(`SELECT ` + wordColumns + ` FROM words w WHERE w.word_key = ?`)
	if err := r.db.GetContext(ctx, &word, query, wordKey(text)); err != nil {
		return nil, storeError("find word", err)
	}
	return &word, nil
}

// Create inserts a new word; headwords are unique regardless of case
func (r *WordRepository) Create(ctx context.Context, word *models.Word) error {
	word.Word = strings.TrimSpace(word.Word)
	word.Definition = strings.TrimSpace(word.Definition)
	if word.Word == "" || word.Definition == "" {
		return fmt.Errorf("%w: word and definition are required", models.ErrValidation)
	}

	existing, err := r.FindByText(ctx, word.Word)
	if err == nil {
		return fmt.Errorf("%w: word %q already exists with id %d", models.ErrValidation, word.Word, existing.ID)
	}
	if !isNotFound(err) {
		return err
	}

	now := time.Now().UTC()
	word.IsActive = true
	word.CreatedAt = now
	word.UpdatedAt = now

	query := r.db.Rebind(`
		INSERT INTO words (word, word_key, definition, example, translation, is_active, added_by, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`)
	err = r.db.QueryRowxContext(ctx, query,
		word.Word, wordKey(word.Word), word.Definition, word.Example, word.Translation,
		word.IsActive, word.AddedBy, word.CreatedAt, word.UpdatedAt,
	).Scan(&word.ID)
	if err != nil {
		return storeError("create word", err)
	}
	return nil
}

// SetActive activates or deactivates a word; inactive words are skipped by sessions
func (r *WordRepository) SetActive(ctx context.Context, id int64, active bool) error {
	query := r.db.Rebind(`UPDATE words SET is_active = ?, updated_at = ? WHERE id = ?`)
	res, err := r.db.ExecContext(ctx, query, active, time.Now().UTC(), id)
	if err != nil {
		return storeError("update word", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storeError("update word", err)
	}
	if n == 0 {
		return fmt.Errorf("update word %d: %w", id, models.ErrNotFound)
	}
	return nil
}

// CountActive returns the number of words learners can be shown
func (r *WordRepository) CountActive(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM words WHERE is_active`); err != nil {
		return 0, storeError("count words", err)
	}
	return n, nil
}
