package session

import (
	"fmt"
	"time"

	"github.com/example/leitnerbot/pkg/models"
)

// State is the position of a learner in the learning flow
type State int

const (
	StateIdle State = iota
	StateLoading
	// StatePresenting shows the current word and waits for the correctness answer.
	StatePresenting
	StateAwaitingDifficulty
	StateSummarizing
)

var stateNames = [...]string{
	StateIdle:               "idle",
	StateLoading:            "loading",
	StatePresenting:         "presenting",
	StateAwaitingDifficulty: "awaiting_difficulty",
	StateSummarizing:        "summarizing",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("state(%d)", int(s))
	}
	return stateNames[s]
}

// Session is one bounded learning interaction.
// Review and New are disjoint; Cursor indexes the concatenation of both.
type Session struct {
	ID     string
	UserID int64
	Review []int64
	New    []int64
	Cursor int

	WordsReviewed   int
	WordsCorrect    int
	WordsIncorrect  int
	NewWordsCovered int

	StartedAt time.Time
	EndedAt   *time.Time
}

// Total is the number of queued words
func (s *Session) Total() int {
	return len(s.Review) + len(s.New)
}

// Complete reports whether every queued word was processed
func (s *Session) Complete() bool {
	return s.Cursor >= s.Total()
}

func (s *Session) wordAt(i int) (id int64, isNew bool) {
	if i < len(s.Review) {
		return s.Review[i], false
	}
	return s.New[i-len(s.Review)], true
}

func (s *Session) end(at time.Time) {
	if s.EndedAt == nil {
		s.EndedAt = &at
	}
}

// Card is the word currently presented to the learner
type Card struct {
	Word  models.Word
	IsNew bool
	// Position is 1-based within the session queue.
	Position int
	Total    int
}

// Step tells the caller where the learner is after an operation
type Step struct {
	State State
	// Card is set while a word is presented or awaiting its difficulty rating.
	Card *Card
}

// Summary is what the learner sees when a session ends
type Summary struct {
	SessionID       string
	WordsReviewed   int
	WordsCorrect    int
	WordsIncorrect  int
	NewWordsCovered int
	// Accuracy is WordsCorrect/WordsReviewed, 0 when nothing was reviewed.
	Accuracy  float64
	StartedAt time.Time
	EndedAt   time.Time
}

func (s *Session) summary() Summary {
	row := s.studySession()
	sum := Summary{
		SessionID:       s.ID,
		WordsReviewed:   s.WordsReviewed,
		WordsCorrect:    s.WordsCorrect,
		WordsIncorrect:  s.WordsIncorrect,
		NewWordsCovered: s.NewWordsCovered,
		Accuracy:        row.Accuracy(),
		StartedAt:       s.StartedAt,
	}
	if s.EndedAt != nil {
		sum.EndedAt = *s.EndedAt
	}
	return sum
}

func (s *Session) studySession() *models.StudySession {
	return &models.StudySession{
		ID:             s.ID,
		UserID:         s.UserID,
		StartedAt:      s.StartedAt,
		EndedAt:        s.EndedAt,
		WordsReviewed:  s.WordsReviewed,
		WordsCorrect:   s.WordsCorrect,
		WordsIncorrect: s.WordsIncorrect,
		NewWords:       s.NewWordsCovered,
	}
}
