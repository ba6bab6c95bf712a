package quiz

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizai/internal/session"
	"github.com/abhisek/quizai/internal/ui/components"
	"github.com/abhisek/quizai/internal/ui/theme"
)

const (
	invalidStateMessage = "Índice de questão inválido. Reinicie o quiz."
	maxCleanedLines     = 8
)

func (q *QuizScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	var sections []string
	if q.outcome.Err != nil {
		sections = append(sections, q.renderError(cw))
	}
	if q.outcome.Repairs > 0 && q.outcome.Err == nil {
		sections = append(sections, components.InfoBanner(
			fmt.Sprintf("%d questão(ões) corrigida(s) automaticamente", q.outcome.Repairs), cw))
	}

	if q.sess.State() == session.StateInvalid {
		sections = append(sections, q.renderInvalid(cw))
	} else {
		sections = append(sections, q.renderQuestion(cw))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (q *QuizScreen) renderError(cw int) string {
	msg, cleaned := bannerText(q.outcome.Err)
	if cleaned != "" {
		lines := strings.Split(cleaned, "\n")
		if len(lines) > maxCleanedLines {
			lines = append(lines[:maxCleanedLines], "…")
		}
		msg += "\n\n" + strings.Join(lines, "\n")
	}
	return components.ErrorBanner(msg, cw)
}

func (q *QuizScreen) renderInvalid(cw int) string {
	body := theme.Incorrect.Render(invalidStateMessage) + "\n\n" +
		components.Button{Label: "Reiniciar Quiz", Focused: true}.View()
	return components.ArcadeCard(body, cw)
}

func (q *QuizScreen) renderQuestion(cw int) string {
	cur, err := q.sess.Current()
	if err != nil {
		return components.ArcadeCard(theme.Incorrect.Render(invalidStateMessage), cw)
	}

	var b strings.Builder
	b.WriteString(components.QuizProgress(q.sess.Index()+1, q.sess.Total(), cw-6).View())
	b.WriteString("\n\n")
	b.WriteString(theme.Label.Render(fmt.Sprintf("Pergunta %d", q.sess.Index()+1)))
	b.WriteString("\n")
	b.WriteString(theme.Body.Width(cw - 6).Render(cur.Question))
	b.WriteString("\n\n")

	if q.sess.ShowExplanation() {
		b.WriteString(q.choices.View())
		b.WriteString("\n")
		if q.sess.LastCorrect() {
			b.WriteString(theme.Correct.Render("Correto! ✅"))
		} else {
			b.WriteString(theme.Incorrect.Render(fmt.Sprintf(
				"Incorreto ❌ Resposta correta: %s. %s", cur.Answer, cur.AnswerText())))
		}
		b.WriteString("\n\n")
		b.WriteString(theme.Label.Render("Explicação:"))
		b.WriteString("\n")
		b.WriteString(theme.Body.Width(cw - 6).Render(cur.Explanation))
		b.WriteString("\n\n")
		label := "Próxima pergunta"
		if q.sess.IsLast() {
			label = "Finalizar Quiz"
		}
		b.WriteString(components.Button{Label: label, Focused: true}.View())
	} else {
		b.WriteString(theme.Hint.Render("Selecione uma opção:"))
		b.WriteString("\n")
		b.WriteString(q.choices.View())
		b.WriteString("\n")
		b.WriteString(components.Button{Label: "Responder", Focused: true}.View())
	}

	if q.errMsg != "" {
		b.WriteString("\n\n")
		b.WriteString(theme.Incorrect.Render(q.errMsg))
	}

	return components.ArcadeCard(b.String(), cw)
}
