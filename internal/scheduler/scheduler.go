package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/avast/retry-go"

	"github.com/example/leitnerbot/internal/spaced_repetition"
	"github.com/example/leitnerbot/pkg/models"
)

// ProgressStore is the durable mapping of (learner, word) to review records
type ProgressStore interface {
	// Get returns models.ErrNotFound when the learner never saw the word.
	Get(ctx context.Context, userID, wordID int64) (*models.ReviewRecord, error)
	// Upsert is a compare-and-swap on the record version.
	Upsert(ctx context.Context, rec *models.ReviewRecord) (*models.ReviewRecord, error)
	QueryDue(ctx context.Context, userID int64, today time.Time, limit int) ([]models.ReviewRecord, error)
	QueryWithoutProgress(ctx context.Context, userID int64, limit int) ([]models.Word, error)
}

// Scheduler decides which words a learner studies and how a review moves them between boxes
type Scheduler struct {
	store         ProgressStore
	leitner       *spaced_repetition.Leitner
	location      *time.Location
	now           func() time.Time
	retryAttempts uint
	retryDelay    time.Duration
	logger        *slog.Logger
}

// Option configures a Scheduler
type Option func(*Scheduler)

// WithLocation sets the timezone that decides the current day
func WithLocation(loc *time.Location) Option {
	return func(s *Scheduler) { s.location = loc }
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) { s.now = now }
}

// WithRetry sets how often a conflicting update is retried and the base back-off delay
func WithRetry(attempts uint, delay time.Duration) Option {
	if attempts == 0 {
		attempts = 1
	}
	return func(s *Scheduler) {
		s.retryAttempts = attempts
		s.retryDelay = delay
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Scheduler) { s.logger = logger }
}

// New creates a scheduler over store
func New(store ProgressStore, opts ...Option) *Scheduler {
	s := &Scheduler{
		store:         store,
		leitner:       spaced_repetition.NewLeitner(),
		location:      time.UTC,
		now:           time.Now,
		retryAttempts: 5,
		retryDelay:    10 * time.Millisecond,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Today returns the current calendar day
func (s *Scheduler) Today() time.Time {
	return spaced_repetition.DateOf(s.now(), s.location)
}

// SelectDue returns up to limit records due today or earlier, weakest box first
func (s *Scheduler) SelectDue(ctx context.Context, userID int64, limit int) ([]models.ReviewRecord, error) {
	if limit <= 0 {
		return []models.ReviewRecord{}, nil
	}

	today := s.Today()
	records, err := s.store.QueryDue(ctx, userID, today, limit)
	if err != nil {
		return nil, fmt.Errorf("select due words for user %d: %w", userID, err)
	}

	due := records[:0]
	for _, r := range records {
		if r.IsDue(today) {
			due = append(due, r)
		}
	}
	spaced_repetition.SortDue(due)
	if len(due) > limit {
		due = due[:limit]
	}
	return due, nil
}

// SelectNew returns up to limit active words the learner has never reviewed
func (s *Scheduler) SelectNew(ctx context.Context, userID int64, limit int) ([]models.Word, error) {
	if limit <= 0 {
		return []models.Word{}, nil
	}

	words, err := s.store.QueryWithoutProgress(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("select new words for user %d: %w", userID, err)
	}
	if len(words) > limit {
		words = words[:limit]
	}
	return words, nil
}

// Update applies one answer to the learner's record for word and persists it.
// Concurrent writers to the same record are detected by version and the whole
// read-modify-write is replayed, so no answer is lost. Store failures are returned as is.
func (s *Scheduler) Update(ctx context.Context, userID, wordID int64, correct bool, difficulty models.Difficulty) (*models.ReviewRecord, error) {
	if !difficulty.IsValid() {
		return nil, fmt.Errorf("%w: unknown difficulty %q", models.ErrValidation, difficulty)
	}

	var saved *models.ReviewRecord
	err := retry.Do(
		func() error {
			now := s.now()
			today := spaced_repetition.DateOf(now, s.location)

			rec, err := s.store.Get(ctx, userID, wordID)
			switch {
			case errors.Is(err, models.ErrNotFound):
				rec = models.NewReviewRecord(userID, wordID, now, today)
			case err != nil:
				return err
			}

			if err := s.leitner.Process(rec, correct, difficulty, now, today); err != nil {
				return err
			}

			saved, err = s.store.Upsert(ctx, rec)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(s.retryAttempts),
		retry.Delay(s.retryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return errors.Is(err, models.ErrVersionConflict)
		}),
		retry.OnRetry(func(n uint, err error) {
			s.logger.Debug("review record changed concurrently, retrying",
				slog.Int64("user_id", userID),
				slog.Int64("word_id", wordID),
				slog.Uint64("attempt", uint64(n+1)))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("update progress for user %d word %d: %w", userID, wordID, err)
	}
	return saved, nil
}
