package spaced_repetition

import (
	"fmt"
	"sort"
	"time"

	"github.com/example/leitnerbot/pkg/models"
)

// DefaultBoxIntervals maps a Leitner box to its review interval in days
var DefaultBoxIntervals = map[int]int{
	1: 1,
	2: 2,
	3: 4,
	4: 7,
	5: 14,
	6: 30,
	7: 60,
}

// Leitner implements the seven box Leitner system with a difficulty adjustment
type Leitner struct {
	// Интервалы повторения по коробкам, в днях
	BoxIntervals map[int]int
	// EasyPercent stretches the interval of an easy answer below the last box
	EasyPercent int
	// HardPercent shrinks the interval of a hard answer
	HardPercent int
	// MinInterval is the shortest interval a correct answer can produce
	MinInterval int
}

// NewLeitner создает новый экземпляр Leitner с настройками по умолчанию
func NewLeitner() *Leitner {
	return &Leitner{
		BoxIntervals: DefaultBoxIntervals,
		EasyPercent:  150,
		HardPercent:  70,
		MinInterval:  1,
	}
}

// BaseInterval returns the unadjusted interval of a box
func (l *Leitner) BaseInterval(box int) int {
	return l.BoxIntervals[clampBox(box)]
}

// NextInterval computes the interval after a correct answer that moved the word to newBox
func (l *Leitner) NextInterval(newBox int, difficulty models.Difficulty) int {
	base := l.BaseInterval(newBox)

	switch difficulty {
	case models.DifficultyEasy:
		if newBox < models.MaxBox {
			return base * l.EasyPercent / 100
		}
		return base
	case models.DifficultyHard:
		interval := base * l.HardPercent / 100
		if interval < l.MinInterval {
			interval = l.MinInterval
		}
		return interval
	default:
		return base
	}
}

// Process applies one answer to the record.
// An incorrect answer always returns the word to the first box for tomorrow;
// difficulty only adjusts the interval of correct answers.
func (l *Leitner) Process(record *models.ReviewRecord, correct bool, difficulty models.Difficulty, now, today time.Time) error {
	if !difficulty.IsValid() {
		return fmt.Errorf("%w: unknown difficulty %q", models.ErrValidation, difficulty)
	}

	record.TimesReviewed++
	record.LastDifficulty = difficulty
	reviewedAt := now
	record.LastReviewedAt = &reviewedAt
	record.UpdatedAt = now

	if !correct {
		record.TimesIncorrect++
		record.Box = models.MinBox
		record.NextReviewDate = today.AddDate(0, 0, 1)
		return nil
	}

	record.TimesCorrect++
	newBox := clampBox(record.Box + 1)
	record.Box = newBox
	record.NextReviewDate = today.AddDate(0, 0, l.NextInterval(newBox, difficulty))
	return nil
}

// SortDue orders due records weakest first: by box, then due date, then word ID
func SortDue(records []models.ReviewRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Box != records[j].Box {
			return records[i].Box < records[j].Box
		}
		if !records[i].NextReviewDate.Equal(records[j].NextReviewDate) {
			return records[i].NextReviewDate.Before(records[j].NextReviewDate)
		}
		return records[i].WordID < records[j].WordID
	})
}

// DateOf returns the calendar day of t in loc, as midnight UTC
func DateOf(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func clampBox(box int) int {
	if box < models.MinBox {
		return models.MinBox
	}
	if box > models.MaxBox {
		return models.MaxBox
	}
	return box
}
