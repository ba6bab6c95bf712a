package result

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizai/internal/router"
	"github.com/abhisek/quizai/internal/screen"
	"github.com/abhisek/quizai/internal/session"
	"github.com/abhisek/quizai/internal/ui/components"
	"github.com/abhisek/quizai/internal/ui/layout"
	"github.com/abhisek/quizai/internal/ui/theme"
)

// ResultScreen shows the final score of a completed session.
type ResultScreen struct {
	sess   *session.Session
	replay func() screen.Screen
	menu   components.Menu
	errMsg string
}

var _ screen.Screen = (*ResultScreen)(nil)
var _ screen.KeyHintProvider = (*ResultScreen)(nil)

// New creates the result screen. replay builds the screen that plays the
// same quiz again.
func New(sess *session.Session, replay func() screen.Screen) *ResultScreen {
	r := &ResultScreen{sess: sess, replay: replay}
	r.menu = components.NewMenu([]components.MenuItem{
		{Label: "Iniciar Novo Quiz", Key: "n", Action: r.newQuiz},
		{Label: "Refazer Quiz", Key: "r", Action: r.restart},
	})
	return r
}

func (r *ResultScreen) Init() tea.Cmd {
	return nil
}

func (r *ResultScreen) Title() string {
	return "Resultado"
}

func (r *ResultScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navegar"},
		{Key: "Enter", Description: "Selecionar"},
		{Key: "N/R", Description: "Novo / Refazer"},
	}
}

// ScoreLine formats the final score with one decimal place.
func ScoreLine(score, total int, pct float64) string {
	return fmt.Sprintf("Quiz finalizado! Sua pontuação: %d/%d (%.1f%%)", score, total, pct)
}

func (r *ResultScreen) newQuiz() tea.Cmd {
	r.sess.Reset()
	return func() tea.Msg { return router.PopToRootMsg{} }
}

func (r *ResultScreen) restart() tea.Cmd {
	if err := r.sess.Restart(); err != nil {
		r.errMsg = err.Error()
		return nil
	}
	next := r.replay()
	return func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
}

func (r *ResultScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	r.menu, cmd = r.menu.Update(msg)
	return r, cmd
}

func (r *ResultScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	style := theme.Correct
	if r.sess.Percentage() < 50 {
		style = theme.Incorrect
	}

	var b strings.Builder
	b.WriteString(style.Render(ScoreLine(r.sess.Score(), r.sess.Total(), r.sess.Percentage())))
	b.WriteString("\n\n")
	b.WriteString(components.NewProgressBar("Acertos", r.sess.Percentage()/100, true, cw-6).View())
	if r.errMsg != "" {
		b.WriteString("\n\n")
		b.WriteString(theme.Incorrect.Render(r.errMsg))
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		components.ArcadeCard(b.String(), cw),
		"",
		r.menu.View(min(cw, 32)),
	)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
