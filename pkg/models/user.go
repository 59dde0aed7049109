package models

import "time"

// Defaults applied to newly registered learners
const (
	DefaultDailyWordLimit = 10
	DefaultReminderTime   = "09:00"
	MinDailyWordLimit     = 1
	MaxDailyWordLimit     = 100
)

// User is a learner together with the settings the core reads
type User struct {
	ID              int64      `json:"id" db:"id"` // Telegram user ID
	Username        string     `json:"username" db:"username"`
	FirstName       string     `json:"first_name" db:"first_name"`
	DailyWordLimit  int        `json:"daily_word_limit" db:"daily_word_limit" validate:"min=1,max=100"`
	ReminderEnabled bool       `json:"reminder_enabled" db:"reminder_enabled"`
	ReminderTime    string     `json:"reminder_time" db:"reminder_time" validate:"datetime=15:04"`
	LastRemindedOn  *time.Time `json:"last_reminded_on,omitempty" db:"last_reminded_on"`
	IsActive        bool       `json:"is_active" db:"is_active"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at" db:"updated_at"`
}

// NewUser returns a learner carrying the default settings
func NewUser(id int64, username, firstName string) *User {
	return &User{
		ID:              id,
		Username:        username,
		FirstName:       firstName,
		DailyWordLimit:  DefaultDailyWordLimit,
		ReminderEnabled: true,
		ReminderTime:    DefaultReminderTime,
		IsActive:        true,
	}
}
