package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/example/leitnerbot/internal/config"
	"github.com/example/leitnerbot/pkg/models"
)

// Supported driver names
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
	DriverPgx      = "pgx"
)

// Connect opens the configured database and makes sure the schema exists
func Connect(ctx context.Context, cfg config.DatabaseConfig) (*sqlx.DB, error) {
	if cfg.Driver == DriverSQLite && !isMemoryDSN(cfg.DSN) {
		// Create data directory if it doesn't exist
		if dir := filepath.Dir(cfg.DSN); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create data directory: %w", err)
			}
		}
	}

	db, err := sqlx.ConnectContext(ctx, cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w: %w", models.ErrStoreUnavailable, err)
	}

	if cfg.Driver == DriverSQLite {
		if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
		// SQLite doesn't support multiple writers
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	} else if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	if err := InitSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// InitSchema creates the tables if they don't exist
func InitSchema(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range schemaFor(db.DriverName()) {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to initialize schema: %w", err)
		}
	}
	return nil
}

func schemaFor(driver string) []string {
	idColumn := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if driver != DriverSQLite {
		idColumn = "BIGSERIAL PRIMARY KEY"
	}

	return []string{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGINT PRIMARY KEY,
			username TEXT NOT NULL DEFAULT '',
			first_name TEXT NOT NULL DEFAULT '',
			daily_word_limit INTEGER NOT NULL DEFAULT 10 CHECK (daily_word_limit BETWEEN 1 AND 100),
			reminder_enabled BOOLEAN NOT NULL DEFAULT TRUE,
			reminder_time TEXT NOT NULL DEFAULT '09:00',
			last_reminded_on DATE,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS words (
			id ` + idColumn + `,
			word TEXT NOT NULL,
			word_key TEXT NOT NULL,
			definition TEXT NOT NULL,
			example TEXT NOT NULL DEFAULT '',
			translation TEXT NOT NULL DEFAULT '',
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			added_by BIGINT,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_words_word_key ON words (word_key)`,
		`CREATE TABLE IF NOT EXISTS user_progress (
			user_id BIGINT NOT NULL REFERENCES users(id),
			word_id BIGINT NOT NULL REFERENCES words(id),
			leitner_box INTEGER NOT NULL DEFAULT 1 CHECK (leitner_box BETWEEN 1 AND 7),
			next_review_date DATE NOT NULL,
			times_reviewed INTEGER NOT NULL DEFAULT 0,
			times_correct INTEGER NOT NULL DEFAULT 0,
			times_incorrect INTEGER NOT NULL DEFAULT 0,
			last_difficulty TEXT,
			last_reviewed_at TIMESTAMP,
			version INTEGER NOT NULL DEFAULT 1,
			first_seen_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL,
			PRIMARY KEY (user_id, word_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_user_progress_due ON user_progress (user_id, next_review_date)`,
		`CREATE TABLE IF NOT EXISTS study_sessions (
			id TEXT PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users(id),
			started_at TIMESTAMP NOT NULL,
			ended_at TIMESTAMP,
			words_reviewed INTEGER NOT NULL DEFAULT 0,
			words_correct INTEGER NOT NULL DEFAULT 0,
			words_incorrect INTEGER NOT NULL DEFAULT 0,
			new_words INTEGER NOT NULL DEFAULT 0
		)`,
	}
}

func isMemoryDSN(dsn string) bool {
	return dsn == ":memory:" || strings.HasPrefix(dsn, "file::memory:")
}

// storeError maps driver errors onto the store error taxonomy
func storeError(op string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}
	return fmt.Errorf("%s: %w: %w", op, models.ErrStoreUnavailable, err)
}

func isNotFound(err error) bool {
	return errors.Is(err, models.ErrNotFound)
}
