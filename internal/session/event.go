package session

import (
	"context"
	"fmt"
	"strings"

	"github.com/example/leitnerbot/pkg/models"
)

// EventKind tags an Event
type EventKind int

const (
	EventBegin EventKind = iota + 1
	EventCorrectness
	EventDifficulty
	EventStop
)

func (k EventKind) String() string {
	switch k {
	case EventBegin:
		return "begin"
	case EventCorrectness:
		return "correctness"
	case EventDifficulty:
		return "difficulty"
	case EventStop:
		return "stop"
	}
	return fmt.Sprintf("event(%d)", int(k))
}

// Event is an intent coming from a front end. Correct is only meaningful for
// EventCorrectness and Difficulty only for EventDifficulty.
type Event struct {
	Kind       EventKind
	Correct    bool
	Difficulty models.Difficulty
}

func BeginEvent() Event { return Event{Kind: EventBegin} }

func AnswerEvent(correct bool) Event { return Event{Kind: EventCorrectness, Correct: correct} }

func DifficultyEvent(d models.Difficulty) Event { return Event{Kind: EventDifficulty, Difficulty: d} }

func StopEvent() Event { return Event{Kind: EventStop} }

// Validate rejects events that cannot be dispatched
func (e Event) Validate() error {
	switch e.Kind {
	case EventBegin, EventCorrectness, EventStop:
		return nil
	case EventDifficulty:
		if !e.Difficulty.IsValid() {
			return fmt.Errorf("%w: unknown difficulty %q", models.ErrValidation, e.Difficulty)
		}
		return nil
	}
	return fmt.Errorf("%w: unknown event kind %d", models.ErrValidation, int(e.Kind))
}

// Payload encodes the event as button callback data
func (e Event) Payload() string {
	switch e.Kind {
	case EventBegin:
		return "learn:start"
	case EventCorrectness:
		if e.Correct {
			return "answer:correct"
		}
		return "answer:incorrect"
	case EventDifficulty:
		return "difficulty:" + string(e.Difficulty)
	case EventStop:
		return "learn:stop"
	}
	return ""
}

// ParseEvent decodes button callback data such as "answer:correct" or "difficulty:easy"
func ParseEvent(payload string) (Event, error) {
	prefix, value, ok := strings.Cut(strings.TrimSpace(payload), ":")
	if !ok {
		return Event{}, fmt.Errorf("%w: malformed event %q", models.ErrValidation, payload)
	}

	switch prefix {
	case "learn":
		switch value {
		case "start":
			return BeginEvent(), nil
		case "stop":
			return StopEvent(), nil
		}
	case "answer":
		switch value {
		case "correct":
			return AnswerEvent(true), nil
		case "incorrect":
			return AnswerEvent(false), nil
		}
	case "difficulty":
		d, err := models.ParseDifficulty(value)
		if err != nil {
			return Event{}, err
		}
		return DifficultyEvent(d), nil
	}
	return Event{}, fmt.Errorf("%w: unknown event %q", models.ErrValidation, payload)
}

// Dispatch routes a validated event to the matching operation
func (m *Manager) Dispatch(ctx context.Context, userID int64, e Event) (Step, error) {
	if err := e.Validate(); err != nil {
		return Step{State: m.State(userID)}, err
	}

	switch e.Kind {
	case EventBegin:
		return m.Begin(ctx, userID)
	case EventCorrectness:
		return m.SubmitCorrectness(ctx, userID, e.Correct)
	case EventDifficulty:
		return m.SubmitDifficulty(ctx, userID, e.Difficulty)
	default:
		return m.Stop(ctx, userID)
	}
}
