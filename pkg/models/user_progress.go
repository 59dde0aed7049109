package models

import "time"

// Leitner box bounds
const (
	MinBox = 1
	MaxBox = 7
)

// ReviewRecord tracks one learner's progress with one word
type ReviewRecord struct {
	UserID         int64      `json:"user_id" db:"user_id"`
	WordID         int64      `json:"word_id" db:"word_id"`
	Box            int        `json:"box" db:"leitner_box"`
	NextReviewDate time.Time  `json:"next_review_date" db:"next_review_date"`
	TimesReviewed  int        `json:"times_reviewed" db:"times_reviewed"`
	TimesCorrect   int        `json:"times_correct" db:"times_correct"`
	TimesIncorrect int        `json:"times_incorrect" db:"times_incorrect"`
	LastDifficulty Difficulty `json:"last_difficulty,omitempty" db:"last_difficulty"`
	LastReviewedAt *time.Time `json:"last_reviewed_at,omitempty" db:"last_reviewed_at"`
	// Version is the optimistic concurrency token; zero means not yet stored.
	Version     int       `json:"version" db:"version"`
	FirstSeenAt time.Time `json:"first_seen_at" db:"first_seen_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// NewReviewRecord returns the record created on first exposure to a word
func NewReviewRecord(userID, wordID int64, now, today time.Time) *ReviewRecord {
	return &ReviewRecord{
		UserID:         userID,
		WordID:         wordID,
		Box:            MinBox,
		NextReviewDate: today.AddDate(0, 0, 1),
		FirstSeenAt:    now,
		UpdatedAt:      now,
	}
}

// IsMastered reports whether the word reached the last box
func (r *ReviewRecord) IsMastered() bool {
	return r.Box == MaxBox
}

// IsDue reports whether the record should be reviewed on the given day
func (r *ReviewRecord) IsDue(today time.Time) bool {
	return !r.NextReviewDate.After(today)
}
