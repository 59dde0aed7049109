package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/example/leitnerbot/pkg/models"
)

// learner holds the state machine of one learner; mu serializes their calls
type learner struct {
	mu      sync.Mutex
	state   State
	session *Session
	card    *Card
	correct bool
}

// Manager runs the learning flow for every learner
type Manager struct {
	scheduler Scheduler
	catalog   Catalog
	settings  LearnerSettings
	summaries SummaryStore
	now       func() time.Time
	logger    *slog.Logger

	mu       sync.Mutex
	learners map[int64]*learner
}

// Option configures a Manager
type Option func(*Manager)

// WithSummaryStore persists a row for every finished session
func WithSummaryStore(store SummaryStore) Option {
	return func(m *Manager) { m.summaries = store }
}

func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) { m.logger = logger }
}

// NewManager creates a session manager
func NewManager(scheduler Scheduler, catalog Catalog, settings LearnerSettings, opts ...Option) *Manager {
	m := &Manager{
		scheduler: scheduler,
		catalog:   catalog,
		settings:  settings,
		now:       time.Now,
		logger:    slog.Default(),
		learners:  make(map[int64]*learner),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) learner(userID int64) *learner {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.learners[userID]
	if !ok {
		l = &learner{}
		m.learners[userID] = l
	}
	return l
}

// State returns the learner's current state
func (m *Manager) State(userID int64) State {
	l := m.learner(userID)
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Begin starts a session: due reviews first, then new words up to the daily limit.
// It returns models.ErrNothingDue when there is nothing to study.
func (m *Manager) Begin(ctx context.Context, userID int64) (Step, error) {
	l := m.learner(userID)
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state != StateIdle {
		return Step{State: l.state, Card: l.card}, fmt.Errorf("begin for user %d: %w", userID, models.ErrSessionActive)
	}
	l.state = StateLoading

	sess, err := m.load(ctx, userID)
	if err != nil {
		l.state = StateIdle
		return Step{State: StateIdle}, err
	}

	l.session = sess
	l.state = StatePresenting
	m.logger.Info("session started",
		slog.Int64("user_id", userID),
		slog.String("session_id", sess.ID),
		slog.Int("review", len(sess.Review)),
		slog.Int("new", len(sess.New)))

	return m.present(ctx, l), nil
}

func (m *Manager) load(ctx context.Context, userID int64) (*Session, error) {
	profile, err := m.settings.GetProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load settings for user %d: %w", userID, err)
	}
	limit := profile.DailyWordLimit
	if limit < models.MinDailyWordLimit || limit > models.MaxDailyWordLimit {
		return nil, fmt.Errorf("%w: daily word limit %d is outside [%d, %d]",
			models.ErrValidation, limit, models.MinDailyWordLimit, models.MaxDailyWordLimit)
	}

	due, err := m.scheduler.SelectDue(ctx, userID, limit)
	if err != nil {
		return nil, err
	}

	sess := &Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		Review:    make([]int64, 0, len(due)),
		StartedAt: m.now(),
	}
	seen := make(map[int64]struct{}, limit)
	for _, r := range due {
		sess.Review = append(sess.Review, r.WordID)
		seen[r.WordID] = struct{}{}
	}

	if remaining := limit - len(sess.Review); remaining > 0 {
		words, err := m.scheduler.SelectNew(ctx, userID, remaining)
		if err != nil {
			return nil, err
		}
		for _, w := range words {
			if _, dup := seen[w.ID]; dup {
				continue
			}
			sess.New = append(sess.New, w.ID)
			seen[w.ID] = struct{}{}
		}
	}

	if sess.Total() == 0 {
		return nil, fmt.Errorf("begin for user %d: %w", userID, models.ErrNothingDue)
	}
	return sess, nil
}

// present resolves the word at the cursor and reports the resulting step.
// A lookup failure leaves the card unresolved; CurrentWord retries it.
func (m *Manager) present(ctx context.Context, l *learner) Step {
	if err := m.resolve(ctx, l); err != nil {
		m.logger.Warn("failed to load word for presentation",
			slog.Int64("user_id", l.session.UserID),
			slog.Any("error", err))
	}
	return Step{State: l.state, Card: l.card}
}

// resolve loads the word at the cursor, skipping words that were deleted or
// deactivated since selection. Skipped words are not counted as reviewed.
func (m *Manager) resolve(ctx context.Context, l *learner) error {
	sess := l.session
	for l.card == nil && !sess.Complete() {
		id, isNew := sess.wordAt(sess.Cursor)
		w, err := m.catalog.GetByID(ctx, id)
		switch {
		case err == nil && w.IsActive:
			l.card = &Card{Word: *w, IsNew: isNew, Position: sess.Cursor + 1, Total: sess.Total()}
			return nil
		case err != nil && !errors.Is(err, models.ErrNotFound):
			return err
		}

		m.logger.Info("skipping unavailable word",
			slog.Int64("user_id", sess.UserID),
			slog.Int64("word_id", id))
		sess.Cursor++
	}

	if sess.Complete() && l.card == nil {
		m.finish(l)
	}
	return nil
}

func (m *Manager) finish(l *learner) {
	l.session.end(m.now())
	l.card = nil
	l.state = StateSummarizing
}

// CurrentWord returns the presented word without changing anything
func (m *Manager) CurrentWord(ctx context.Context, userID int64) (*Card, error) {
	l := m.learner(userID)
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state != StatePresenting {
		return nil, m.stale(userID, "current word", l.state)
	}
	if err := m.resolve(ctx, l); err != nil {
		return nil, fmt.Errorf("current word for user %d: %w", userID, err)
	}
	if l.card == nil {
		return nil, fmt.Errorf("current word for user %d: session complete: %w", userID, models.ErrStaleSession)
	}
	card := *l.card
	return &card, nil
}

// SubmitCorrectness records whether the learner knew the presented word.
// Nothing is persisted until the difficulty is known.
func (m *Manager) SubmitCorrectness(ctx context.Context, userID int64, correct bool) (Step, error) {
	l := m.learner(userID)
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state != StatePresenting {
		return Step{State: l.state, Card: l.card}, m.stale(userID, "submit correctness", l.state)
	}
	if err := m.resolve(ctx, l); err != nil {
		return Step{State: l.state}, fmt.Errorf("submit correctness for user %d: %w", userID, err)
	}
	if l.card == nil {
		return Step{State: l.state}, fmt.Errorf("submit correctness for user %d: session complete: %w", userID, models.ErrStaleSession)
	}

	l.correct = correct
	l.state = StateAwaitingDifficulty
	return Step{State: l.state, Card: l.card}, nil
}

// SubmitDifficulty persists the answer and moves to the next word.
// If persisting fails the session stays on the same word.
func (m *Manager) SubmitDifficulty(ctx context.Context, userID int64, difficulty models.Difficulty) (Step, error) {
	l := m.learner(userID)
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state != StateAwaitingDifficulty {
		return Step{State: l.state, Card: l.card}, m.stale(userID, "submit difficulty", l.state)
	}
	if !difficulty.IsValid() {
		return Step{State: l.state, Card: l.card}, fmt.Errorf("%w: unknown difficulty %q", models.ErrValidation, difficulty)
	}

	card, sess := l.card, l.session
	if _, err := m.scheduler.Update(ctx, userID, card.Word.ID, l.correct, difficulty); err != nil {
		return Step{State: l.state, Card: card}, err
	}

	sess.WordsReviewed++
	if l.correct {
		sess.WordsCorrect++
	} else {
		sess.WordsIncorrect++
	}
	if card.IsNew {
		sess.NewWordsCovered++
	}
	sess.Cursor++
	l.card = nil
	l.state = StatePresenting

	return m.present(ctx, l), nil
}

// Stop ends the session early, keeping what was answered so far
func (m *Manager) Stop(_ context.Context, userID int64) (Step, error) {
	l := m.learner(userID)
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state != StatePresenting && l.state != StateAwaitingDifficulty {
		return Step{State: l.state}, m.stale(userID, "stop", l.state)
	}
	m.finish(l)
	return Step{State: l.state}, nil
}

// Summary returns the session totals and discards the session
func (m *Manager) Summary(ctx context.Context, userID int64) (Summary, error) {
	l := m.learner(userID)
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state != StateSummarizing {
		return Summary{}, m.stale(userID, "summary", l.state)
	}

	sess := l.session
	sum := sess.summary()
	if m.summaries != nil {
		if err := m.summaries.Save(ctx, sess.studySession()); err != nil {
			m.logger.Warn("failed to save session summary",
				slog.Int64("user_id", userID),
				slog.String("session_id", sess.ID),
				slog.Any("error", err))
		}
	}

	m.logger.Info("session finished",
		slog.Int64("user_id", userID),
		slog.String("session_id", sess.ID),
		slog.Int("reviewed", sum.WordsReviewed),
		slog.Int("correct", sum.WordsCorrect))

	l.session = nil
	l.card = nil
	l.correct = false
	l.state = StateIdle
	return sum, nil
}

func (m *Manager) stale(userID int64, op string, state State) error {
	return fmt.Errorf("%s for user %d in state %s: %w", op, userID, state, models.ErrStaleSession)
}
