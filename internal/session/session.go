// Package session holds the state machine that walks a user through one quiz.
package session

import (
	"fmt"
	"slices"

	"github.com/abhisek/quizai/internal/quizgen"
)

// Session is the state of one quiz attempt. All mutation goes through the
// transition methods. A Session is not safe for concurrent use.
type Session struct {
	quiz            quizgen.Quiz
	index           int
	score           int
	showExplanation bool
	completed       bool
	selected        string
	lastCorrect     bool
}

// New returns an idle session.
func New() *Session {
	return &Session{}
}

// State derives the current state from the session fields.
func (s *Session) State() State {
	switch {
	case len(s.quiz) == 0:
		return StateIdle
	case s.index < 0 || s.index >= len(s.quiz):
		return StateInvalid
	case s.completed:
		return StateCompleted
	case s.showExplanation:
		return StateAnswerShown
	default:
		return StateInProgress
	}
}

// check fails with ErrInvalidState when the index is out of bounds, then
// with ErrInvalidTransition unless the state is one of allowed.
func (s *Session) check(action string, allowed ...State) error {
	st := s.State()
	if st == StateInvalid {
		return fmt.Errorf("%s: %w: question %d of %d", action, ErrInvalidState, s.index+1, len(s.quiz))
	}
	if !slices.Contains(allowed, st) {
		return fmt.Errorf("%s: %w from %s", action, ErrInvalidTransition, st)
	}
	return nil
}

// Start loads quiz and positions the session on its first question. Starting
// over an unfinished quiz abandons it.
func (s *Session) Start(quiz quizgen.Quiz) error {
	if err := s.check("start", StateIdle, StateInProgress, StateAnswerShown, StateCompleted); err != nil {
		return err
	}
	if len(quiz) == 0 {
		return fmt.Errorf("start: %w", ErrEmptyQuiz)
	}
	*s = Session{quiz: slices.Clone(quiz)}
	return nil
}

// Select records the chosen option key for the current question.
func (s *Session) Select(choice string) error {
	if err := s.check("select", StateInProgress); err != nil {
		return err
	}
	if !s.quiz[s.index].Options.Has(choice) {
		return fmt.Errorf("select: %w: option %q not offered", ErrInvalidTransition, choice)
	}
	s.selected = choice
	return nil
}

// Submit scores the selected option and reveals the explanation. It reports
// whether the answer was correct. A second Submit on the same question fails.
func (s *Session) Submit() (bool, error) {
	if err := s.check("submit", StateInProgress); err != nil {
		return false, err
	}
	if s.selected == "" {
		return false, fmt.Errorf("submit: %w: no option selected", ErrInvalidTransition)
	}
	s.lastCorrect = s.quiz[s.index].IsCorrect(s.selected)
	if s.lastCorrect {
		s.score++
	}
	s.showExplanation = true
	return s.lastCorrect, nil
}

// Next moves to the following question.
func (s *Session) Next() error {
	if err := s.check("next", StateAnswerShown); err != nil {
		return err
	}
	if s.IsLast() {
		return fmt.Errorf("next: %w: already on the last question", ErrInvalidTransition)
	}
	s.index++
	s.showExplanation = false
	s.selected = ""
	s.lastCorrect = false
	return nil
}

// Finish completes the quiz after the last answer is shown.
func (s *Session) Finish() error {
	if err := s.check("finish", StateAnswerShown); err != nil {
		return err
	}
	if !s.IsLast() {
		return fmt.Errorf("finish: %w: %d questions left", ErrInvalidTransition, len(s.quiz)-s.index-1)
	}
	s.completed = true
	return nil
}

// Restart replays the finished quiz from the first question.
func (s *Session) Restart() error {
	if err := s.check("restart", StateCompleted); err != nil {
		return err
	}
	*s = Session{quiz: s.quiz}
	return nil
}

// Reset drops the quiz and returns to idle. It is always allowed.
func (s *Session) Reset() {
	*s = Session{}
}

// Quiz returns the loaded quiz.
func (s *Session) Quiz() quizgen.Quiz { return s.quiz }

// Index returns the 0-based position of the current question.
func (s *Session) Index() int { return s.index }

// Total returns the number of questions.
func (s *Session) Total() int { return len(s.quiz) }

// Score returns the number of correct answers so far.
func (s *Session) Score() int { return s.score }

// Selected returns the chosen option key, if any.
func (s *Session) Selected() (string, bool) { return s.selected, s.selected != "" }

// ShowExplanation reports whether feedback for the current question is due.
func (s *Session) ShowExplanation() bool { return s.showExplanation }

// Completed reports whether the quiz was finished.
func (s *Session) Completed() bool { return s.completed }

// LastCorrect reports whether the last submitted answer was right.
func (s *Session) LastCorrect() bool { return s.lastCorrect }

// IsLast reports whether the current question is the final one.
func (s *Session) IsLast() bool { return s.index+1 == len(s.quiz) }

// Current returns the question being answered.
func (s *Session) Current() (quizgen.Question, error) {
	switch st := s.State(); st {
	case StateInvalid:
		return quizgen.Question{}, fmt.Errorf("current: %w", ErrInvalidState)
	case StateIdle:
		return quizgen.Question{}, fmt.Errorf("current: %w: no quiz", ErrInvalidTransition)
	}
	return s.quiz[s.index], nil
}

// Percentage returns score over total as a percentage.
func (s *Session) Percentage() float64 {
	if len(s.quiz) == 0 {
		return 0
	}
	return float64(s.score) / float64(len(s.quiz)) * 100
}

// Progress returns the fraction of the quiz reached, 1 once completed.
func (s *Session) Progress() float64 {
	switch s.State() {
	case StateIdle, StateInvalid:
		return 0
	case StateCompleted:
		return 1
	}
	return float64(s.index+1) / float64(len(s.quiz))
}
