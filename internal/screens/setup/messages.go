package setup

import (
	"time"

	"github.com/abhisek/quizai/internal/quizgen"
)

// quizReadyMsg carries the outcome of a generation request. Result is never
// nil; Err reports a degraded quiz.
type quizReadyMsg struct {
	Result *quizgen.Result
	Err    error
}

// spinnerTickMsg animates the loading indicator.
type spinnerTickMsg time.Time
