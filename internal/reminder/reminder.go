package reminder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/example/leitnerbot/internal/session"
	"github.com/example/leitnerbot/internal/spaced_repetition"
	"github.com/example/leitnerbot/pkg/models"
)

// Starter begins a learning session on the learner's behalf and closes
// sessions that were never answered
type Starter interface {
	Begin(ctx context.Context, userID int64) (session.Step, error)
	Stop(ctx context.Context, userID int64) (session.Step, error)
	Summary(ctx context.Context, userID int64) (session.Summary, error)
}

// UserSource finds learners due for their daily reminder
type UserSource interface {
	GetUsersForReminder(ctx context.Context, clock string, today time.Time) ([]models.User, error)
	MarkReminded(ctx context.Context, userID int64, today time.Time) error
}

// Notifier delivers the started session to the learner
type Notifier interface {
	NotifySession(ctx context.Context, userID int64, step session.Step) error
}

// Reminder starts a session once a day for every learner with reminders enabled
type Reminder struct {
	scheduler *gocron.Scheduler
	starter   Starter
	users     UserSource
	notifier  Notifier
	location  *time.Location
	now       func() time.Time
	logger    *slog.Logger

	mu sync.Mutex
	// started holds the day of every session this reminder opened and has not closed yet.
	started map[int64]time.Time
}

// New creates a reminder; loc decides both the reminder clock and the current day
func New(starter Starter, users UserSource, notifier Notifier, loc *time.Location, logger *slog.Logger) *Reminder {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := gocron.NewScheduler(loc)
	s.SingletonModeAll()
	return &Reminder{
		scheduler: s,
		starter:   starter,
		users:     users,
		notifier:  notifier,
		location:  loc,
		now:       time.Now,
		logger:    logger,
		started:   make(map[int64]time.Time),
	}
}

// Start checks for due reminders every minute
func (r *Reminder) Start() error {
	if _, err := r.scheduler.Every(1).Minute().Do(r.checkAndSendReminders); err != nil {
		return fmt.Errorf("failed to schedule reminders: %w", err)
	}

	// Start the scheduler in a non-blocking manner
	r.scheduler.StartAsync()
	return nil
}

// Stop terminates all scheduled tasks
func (r *Reminder) Stop() {
	r.scheduler.Stop()
}

func (r *Reminder) checkAndSendReminders() {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Second)
	defer cancel()

	if _, err := r.RunOnce(ctx); err != nil {
		r.logger.Error("reminder run failed", slog.Any("error", err))
	}
}

// RunOnce starts sessions for learners whose reminder time has passed today
// and returns how many learners were notified. A session opened on an earlier
// day that nobody answered is closed first so it does not block today's one.
func (r *Reminder) RunOnce(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now().In(r.location)
	today := spaced_repetition.DateOf(now, r.location)

	users, err := r.users.GetUsersForReminder(ctx, now.Format("15:04"), today)
	if err != nil {
		return 0, fmt.Errorf("get users for reminder: %w", err)
	}

	sent := 0
	for _, user := range users {
		log := r.logger.With(slog.Int64("user_id", user.ID))

		if day, ok := r.started[user.ID]; ok && day.Before(today) {
			r.close(ctx, log, user.ID)
		}

		step, err := r.starter.Begin(ctx, user.ID)
		switch {
		case err == nil:
			if err := r.notifier.NotifySession(ctx, user.ID, step); err != nil {
				// Not marked; the next run starts and delivers a fresh session.
				log.Warn("failed to deliver reminder", slog.Any("error", err))
				r.close(ctx, log, user.ID)
				continue
			}
			r.started[user.ID] = today
			sent++
		case errors.Is(err, models.ErrNothingDue):
			log.Debug("no words due, reminder skipped")
		case errors.Is(err, models.ErrSessionActive):
			log.Debug("session already active, reminder skipped")
		default:
			// Not marked, so the next run retries this learner.
			log.Warn("failed to start reminded session", slog.Any("error", err))
			continue
		}

		if err := r.users.MarkReminded(ctx, user.ID, today); err != nil {
			log.Warn("failed to mark reminder as sent", slog.Any("error", err))
		}
	}
	return sent, nil
}

// close ends a session this reminder opened, keeping whatever was answered
func (r *Reminder) close(ctx context.Context, log *slog.Logger, userID int64) {
	delete(r.started, userID)

	if _, err := r.starter.Stop(ctx, userID); err != nil && !errors.Is(err, models.ErrStaleSession) {
		log.Warn("failed to stop reminded session", slog.Any("error", err))
		return
	}
	sum, err := r.starter.Summary(ctx, userID)
	if err != nil {
		if !errors.Is(err, models.ErrStaleSession) {
			log.Warn("failed to summarize reminded session", slog.Any("error", err))
		}
		return
	}
	log.Info("closed unanswered reminded session",
		slog.String("session_id", sum.SessionID),
		slog.Int("reviewed", sum.WordsReviewed))
}
