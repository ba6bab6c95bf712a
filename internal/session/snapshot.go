package session

import "github.com/abhisek/quizai/internal/quizgen"

// Snapshot is a read-only view of a session for rendering and the HTTP API.
type Snapshot struct {
	State           State             `json:"state"`
	Index           int               `json:"index"`
	Total           int               `json:"total"`
	Score           int               `json:"score"`
	Selected        string            `json:"selected,omitempty"`
	ShowExplanation bool              `json:"show_explanation"`
	LastCorrect     bool              `json:"last_correct"`
	Completed       bool              `json:"completed"`
	Percentage      float64           `json:"percentage"`
	Progress        float64           `json:"progress"`
	Current         *quizgen.Question `json:"current,omitempty"`
}

// Snapshot captures the session. The answer and explanation of the current
// question are withheld until it has been submitted.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		State:           s.State(),
		Index:           s.index,
		Total:           len(s.quiz),
		Score:           s.score,
		Selected:        s.selected,
		ShowExplanation: s.showExplanation,
		LastCorrect:     s.lastCorrect,
		Completed:       s.completed,
		Percentage:      s.Percentage(),
		Progress:        s.Progress(),
	}
	if q, err := s.Current(); err == nil {
		if !s.showExplanation && !s.completed {
			q.Answer = ""
			q.Explanation = ""
		}
		snap.Current = &q
	}
	return snap
}
