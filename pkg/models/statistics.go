package models

// Statistics summarises a learner's progress over all review records
type Statistics struct {
	UserID          int64       `json:"user_id"`
	TotalWords      int         `json:"total_words"`
	MasteredWords   int         `json:"mastered_words"`
	BoxDistribution map[int]int `json:"box_distribution"`
	TotalReviews    int         `json:"total_reviews"`
	TotalCorrect    int         `json:"total_correct"`
	TotalIncorrect  int         `json:"total_incorrect"`
	Accuracy        float64     `json:"accuracy"` // Percent, two decimals
	DueToday        int         `json:"due_today"`
}
