package models

import (
	"fmt"
	"strings"
)

// Difficulty is the learner's self-rating after answering
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyNormal Difficulty = "normal"
	DifficultyHard   Difficulty = "hard"
)

// IsValid reports whether d is one of the known ratings
func (d Difficulty) IsValid() bool {
	switch d {
	case DifficultyEasy, DifficultyNormal, DifficultyHard:
		return true
	}
	return false
}

func (d Difficulty) String() string {
	return string(d)
}

// ParseDifficulty converts a user supplied rating
func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(s)))
	if !d.IsValid() {
		return "", fmt.Errorf("%w: unknown difficulty %q", ErrValidation, s)
	}
	return d, nil
}
