package session

import "errors"

// State is the coarse position of a session in its lifecycle.
type State int

const (
	StateIdle        State = iota // No quiz loaded
	StateInProgress               // Answering the current question
	StateAnswerShown              // Submitted; feedback and explanation visible
	StateCompleted                // Quiz finished
	StateInvalid                  // Index out of bounds; only Reset is allowed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateInProgress:
		return "in_progress"
	case StateAnswerShown:
		return "answer_shown"
	case StateCompleted:
		return "completed"
	case StateInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// MarshalText encodes the state by name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

var (
	// ErrInvalidState is returned when the question index is outside the
	// quiz. Reset is the only way out.
	ErrInvalidState = errors.New("invalid session state")

	// ErrInvalidTransition is returned when an action is not allowed in the
	// current state.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrEmptyQuiz is returned when starting with no questions.
	ErrEmptyQuiz = errors.New("quiz has no questions")
)
