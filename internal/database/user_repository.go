package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/example/leitnerbot/pkg/models"
)

const userColumns = `id, username, first_name, daily_word_limit, reminder_enabled, reminder_time,
	last_reminded_on, is_active, created_at, updated_at`

// UserRepository handles database operations for learners and their settings
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new repository instance
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetByID returns a learner by Telegram ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	query := r.db.Rebind(`SELECT ` + userColumns + ` FROM users WHERE id = ?`)
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		return nil, storeError(fmt.Sprintf("get user %d", id), err)
	}
	return &user, nil
}

// Create inserts a learner
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if err := user.Validate(); err != nil {
		return err
	}

	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	query := r.db.Rebind(`
		INSERT INTO users (id, username, first_name, daily_word_limit, reminder_enabled, reminder_time, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Username, user.FirstName, user.DailyWordLimit,
		user.ReminderEnabled, user.ReminderTime, user.IsActive, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		return storeError("create user", err)
	}
	return nil
}

// GetOrCreate returns the learner, registering them with default settings on first contact
func (r *UserRepository) GetOrCreate(ctx context.Context, id int64) (*models.User, error) {
	user, err := r.GetByID(ctx, id)
	if err == nil {
		return user, nil
	}
	if !isNotFound(err) {
		return nil, err
	}

	user = models.NewUser(id, "", "")
	if err := r.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// GetProfile is the settings lookup used when a session begins
func (r *UserRepository) GetProfile(ctx context.Context, id int64) (*models.User, error) {
	return r.GetOrCreate(ctx, id)
}

// UpdateSettings stores the learner's daily limit and reminder preferences
func (r *UserRepository) UpdateSettings(ctx context.Context, user *models.User) error {
	if err := user.Validate(); err != nil {
		return err
	}

	user.UpdatedAt = time.Now().UTC()
	query := r.db.Rebind(`
		UPDATE users SET
			daily_word_limit = ?,
			reminder_enabled = ?,
			reminder_time = ?,
			updated_at = ?
		WHERE id = ?`)
	res, err := r.db.ExecContext(ctx, query,
		user.DailyWordLimit, user.ReminderEnabled, user.ReminderTime, user.UpdatedAt, user.ID)
	if err != nil {
		return storeError("update user settings", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storeError("update user settings", err)
	}
	if n == 0 {
		return fmt.Errorf("update user %d: %w", user.ID, models.ErrNotFound)
	}
	return nil
}

// GetUsersForReminder returns active learners whose reminder time has passed by clock and
// who have not been reminded on today yet
func (r *UserRepository) GetUsersForReminder(ctx context.Context, clock string, today time.Time) ([]models.User, error) {
	users := []models.User{}
	query := r.db.Rebind(`SELECT ` + userColumns + `
		FROM users
		WHERE is_active AND reminder_enabled AND reminder_time <= ?
			AND (last_reminded_on IS NULL OR last_reminded_on < ?)
		ORDER BY id`)
	if err := r.db.SelectContext(ctx, &users, query, clock, today); err != nil {
		return nil, storeError("get users for reminder", err)
	}
	return users, nil
}

// MarkReminded records that the learner got their reminder for today
func (r *UserRepository) MarkReminded(ctx context.Context, id int64, today time.Time) error {
	query := r.db.Rebind(`UPDATE users SET last_reminded_on = ? WHERE id = ?`)
	if _, err := r.db.ExecContext(ctx, query, today, id); err != nil {
		return storeError("mark user reminded", err)
	}
	return nil
}
