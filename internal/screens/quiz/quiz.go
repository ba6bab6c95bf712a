package quiz

import (
	"errors"
	"fmt"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/quizai/internal/quizgen"
	"github.com/abhisek/quizai/internal/router"
	"github.com/abhisek/quizai/internal/screen"
	"github.com/abhisek/quizai/internal/screens/result"
	"github.com/abhisek/quizai/internal/session"
	"github.com/abhisek/quizai/internal/telemetry"
	"github.com/abhisek/quizai/internal/ui/components"
	"github.com/abhisek/quizai/internal/ui/layout"
)

// Outcome describes how the quiz being played was produced.
type Outcome struct {
	Topic   string
	Err     error
	Repairs int
}

// QuizScreen walks the user through the questions of the shared session.
type QuizScreen struct {
	sess    *session.Session
	outcome Outcome
	choices components.MultiChoice
	shownAt int
	errMsg  string
}

var _ screen.Screen = (*QuizScreen)(nil)
var _ screen.KeyHintProvider = (*QuizScreen)(nil)
var _ screen.StatusProvider = (*QuizScreen)(nil)

// New creates a quiz screen over a started session.
func New(sess *session.Session, outcome Outcome) *QuizScreen {
	q := &QuizScreen{sess: sess, outcome: outcome, shownAt: -1}
	q.syncChoices()
	return q
}

func (q *QuizScreen) Init() tea.Cmd {
	return nil
}

func (q *QuizScreen) Title() string {
	return "Quiz"
}

func (q *QuizScreen) Status() string {
	if q.sess.State() == session.StateInvalid {
		return ""
	}
	return fmt.Sprintf("%s · Pontuação: %d", q.outcome.Topic, q.sess.Score())
}

func (q *QuizScreen) KeyHints() []layout.KeyHint {
	switch q.sess.State() {
	case session.StateInvalid:
		return []layout.KeyHint{{Key: "Enter", Description: "Reiniciar Quiz"}}
	case session.StateAnswerShown:
		label := "Próxima pergunta"
		if q.sess.IsLast() {
			label = "Finalizar Quiz"
		}
		return []layout.KeyHint{
			{Key: "Enter", Description: label},
			{Key: "Esc", Description: "Voltar"},
		}
	default:
		return []layout.KeyHint{
			{Key: "↑↓/A-D", Description: "Escolher"},
			{Key: "Enter", Description: "Responder"},
			{Key: "Esc", Description: "Voltar"},
		}
	}
}

// syncChoices rebuilds the option picker when the question changes.
func (q *QuizScreen) syncChoices() {
	if q.shownAt == q.sess.Index() {
		return
	}
	cur, err := q.sess.Current()
	if err != nil {
		return
	}
	q.shownAt = q.sess.Index()
	keys := cur.Options.Keys()
	texts := make([]string, len(keys))
	for i, k := range keys {
		texts[i], _ = cur.Options.Get(k)
	}
	q.choices = components.NewMultiChoice(keys, texts)
}

func (q *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return q, nil
	}

	switch q.sess.State() {
	case session.StateInvalid:
		if kmsg.String() == "enter" {
			q.sess.Reset()
			return q, func() tea.Msg { return router.PopToRootMsg{} }
		}
		return q, nil

	case session.StateInProgress:
		if kmsg.String() == "enter" {
			return q, q.submit()
		}
		q.choices = q.choices.Update(kmsg)
		return q, nil

	case session.StateAnswerShown:
		if kmsg.String() == "enter" {
			return q, q.advance()
		}
	}
	return q, nil
}

func (q *QuizScreen) submit() tea.Cmd {
	q.errMsg = ""
	choice := q.choices.Current()
	if err := q.sess.Select(choice); err != nil {
		q.errMsg = err.Error()
		return nil
	}
	correct, err := q.sess.Submit()
	if err != nil {
		q.errMsg = err.Error()
		return nil
	}
	cur, _ := q.sess.Current()
	q.choices.Lock(choice, cur.Answer)
	telemetry.L().Debug().
		Int("index", q.sess.Index()).
		Bool("correct", correct).
		Msg("answer submitted")
	return nil
}

func (q *QuizScreen) advance() tea.Cmd {
	q.errMsg = ""
	if q.sess.IsLast() {
		if err := q.sess.Finish(); err != nil {
			q.errMsg = err.Error()
			return nil
		}
		sess, outcome := q.sess, q.outcome
		next := result.New(sess, func() screen.Screen { return New(sess, outcome) })
		return func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
	}
	if err := q.sess.Next(); err != nil {
		q.errMsg = err.Error()
		return nil
	}
	q.syncChoices()
	return nil
}

// bannerText formats a generation error for display.
func bannerText(err error) (msg, cleaned string) {
	var perr *quizgen.ParseError
	if errors.As(err, &perr) {
		return "Erro ao processar JSON: " + perr.Err.Error(), perr.Cleaned
	}
	return "Erro ao gerar quiz: " + err.Error(), ""
}
