package models

import "time"

// StudySession is the durable summary of a finished learning session
type StudySession struct {
	ID             string     `json:"id" db:"id"`
	UserID         int64      `json:"user_id" db:"user_id"`
	StartedAt      time.Time  `json:"started_at" db:"started_at"`
	EndedAt        *time.Time `json:"ended_at,omitempty" db:"ended_at"`
	WordsReviewed  int        `json:"words_reviewed" db:"words_reviewed"`
	WordsCorrect   int        `json:"words_correct" db:"words_correct"`
	WordsIncorrect int        `json:"words_incorrect" db:"words_incorrect"`
	NewWords       int        `json:"new_words" db:"new_words"`
}

// Accuracy returns the share of correct answers, or 0 when nothing was reviewed
func (s *StudySession) Accuracy() float64 {
	if s.WordsReviewed == 0 {
		return 0
	}
	return float64(s.WordsCorrect) / float64(s.WordsReviewed)
}
