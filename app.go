package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/example/leitnerbot/internal/config"
	"github.com/example/leitnerbot/internal/database"
	"github.com/example/leitnerbot/internal/logger"
	"github.com/example/leitnerbot/internal/scheduler"
	"github.com/example/leitnerbot/internal/session"
	"github.com/example/leitnerbot/internal/statistics"
)

const retryDelay = 20 * time.Millisecond

// app is the wired object graph shared by all commands
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	db     *sqlx.DB

	users    *database.UserRepository
	words    *database.WordRepository
	progress *database.UserProgressRepository
	history  *database.StudySessionRepository

	scheduler *scheduler.Scheduler
	sessions  *session.Manager
	stats     *statistics.Aggregator

	logFile io.Closer
}

func openApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, logFile, err := logger.New(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}
	slog.SetDefault(log)

	db, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	a := &app{
		cfg:      cfg,
		logger:   log,
		db:       db,
		users:    database.NewUserRepository(db),
		words:    database.NewWordRepository(db),
		progress: database.NewUserProgressRepository(db),
		history:  database.NewStudySessionRepository(db),
		logFile:  logFile,
	}
	a.scheduler = scheduler.New(a.progress,
		scheduler.WithLocation(cfg.Location()),
		scheduler.WithRetry(cfg.Learning.UpdateRetryAttempts, retryDelay),
		scheduler.WithLogger(log),
	)
	a.sessions = session.NewManager(a.scheduler, a.words, a.users,
		session.WithSummaryStore(a.history),
		session.WithLogger(log),
	)
	a.stats = statistics.NewAggregator(a.progress, cfg.Location())
	return a, nil
}

func (a *app) Close() error {
	return errors.Join(a.db.Close(), a.logFile.Close())
}

func parseUserID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid learner id %q", arg)
	}
	return id, nil
}
