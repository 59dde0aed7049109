package session

import (
	"context"

	"github.com/example/leitnerbot/pkg/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mocks/session/mock_interfaces.go -package=mock_session

// Scheduler selects words and records answers
type Scheduler interface {
	SelectDue(ctx context.Context, userID int64, limit int) ([]models.ReviewRecord, error)
	SelectNew(ctx context.Context, userID int64, limit int) ([]models.Word, error)
	Update(ctx context.Context, userID, wordID int64, correct bool, difficulty models.Difficulty) (*models.ReviewRecord, error)
}

// Catalog gives read access to words. GetByID returns inactive words too.
type Catalog interface {
	GetByID(ctx context.Context, id int64) (*models.Word, error)
}

// LearnerSettings provides the learner's daily word limit
type LearnerSettings interface {
	GetProfile(ctx context.Context, userID int64) (*models.User, error)
}

// SummaryStore keeps a row per finished session
type SummaryStore interface {
	Save(ctx context.Context, s *models.StudySession) error
}
