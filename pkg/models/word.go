package models

import "time"

// Word is a catalog entry a learner studies
type Word struct {
	ID          int64     `json:"id" db:"id"`
	Word        string    `json:"word" db:"word"`
	Definition  string    `json:"definition" db:"definition"`
	Example     string    `json:"example" db:"example"`
	Translation string    `json:"translation" db:"translation"`
	IsActive    bool      `json:"is_active" db:"is_active"`
	AddedBy     *int64    `json:"added_by,omitempty" db:"added_by"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}
