package statistics

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/example/leitnerbot/internal/spaced_repetition"
	"github.com/example/leitnerbot/pkg/models"
)

// RecordLister reads every review record of a learner
type RecordLister interface {
	GetAllByUser(ctx context.Context, userID int64) ([]models.ReviewRecord, error)
}

// Aggregator derives progress summaries from review records
type Aggregator struct {
	records  RecordLister
	location *time.Location
	now      func() time.Time
}

// NewAggregator creates an aggregator; loc decides the current day
func NewAggregator(records RecordLister, loc *time.Location) *Aggregator {
	return &Aggregator{records: records, location: loc, now: time.Now}
}

// Statistics returns the learner's progress; a learner with no records gets zeros
func (a *Aggregator) Statistics(ctx context.Context, userID int64) (*models.Statistics, error) {
	records, err := a.records.GetAllByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("statistics for user %d: %w", userID, err)
	}
	stats := Aggregate(records, spaced_repetition.DateOf(a.now(), a.location))
	stats.UserID = userID
	return stats, nil
}

// Aggregate folds records into statistics as of today
func Aggregate(records []models.ReviewRecord, today time.Time) *models.Statistics {
	stats := &models.Statistics{
		BoxDistribution: make(map[int]int, models.MaxBox),
	}
	for box := models.MinBox; box <= models.MaxBox; box++ {
		stats.BoxDistribution[box] = 0
	}

	for i := range records {
		r := &records[i]
		stats.TotalWords++
		stats.BoxDistribution[r.Box]++
		if r.IsMastered() {
			stats.MasteredWords++
		}
		stats.TotalReviews += r.TimesReviewed
		stats.TotalCorrect += r.TimesCorrect
		stats.TotalIncorrect += r.TimesIncorrect
		if r.IsDue(today) {
			stats.DueToday++
		}
	}

	if stats.TotalReviews > 0 {
		stats.Accuracy = math.Round(float64(stats.TotalCorrect)/float64(stats.TotalReviews)*100*100) / 100
	}
	return stats
}
