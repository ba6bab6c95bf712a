package setup

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizai/internal/ui/components"
	"github.com/abhisek/quizai/internal/ui/theme"
)

func (s *SetupScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	var b strings.Builder
	b.WriteString(theme.Title.Render("Gerador de Quiz"))
	b.WriteString("\n\n")

	b.WriteString(theme.Label.Render("Tópico"))
	b.WriteString("\n")
	b.WriteString(s.topic.View())
	b.WriteString("\n")
	b.WriteString(theme.Hint.Render("Pode deixar em branco para um quiz geral de TI"))
	b.WriteString("\n\n")

	b.WriteString(s.count.View())
	b.WriteString("\n\n")

	start := components.Button{
		Label:    "Iniciar Quiz",
		Focused:  s.focus == fieldStart,
		Disabled: s.loading,
	}
	refresh := components.Button{
		Label:    "Atualizar Cache",
		Focused:  s.focus == fieldRefresh,
		Disabled: s.loading,
	}
	buttons := []string{start.View(), "  ", refresh.View()}
	if s.history != nil {
		history := components.Button{
			Label:    "Histórico",
			Focused:  s.focus == fieldHistory,
			Disabled: s.loading,
		}
		buttons = append(buttons, "  ", history.View())
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, buttons...))

	if s.loading {
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Secondary).
			Render(spinnerFrames[s.spinner] + " Gerando quiz..."))
	}

	card := components.ArcadeCard(b.String(), cw)
	if s.notice != "" {
		card = lipgloss.JoinVertical(lipgloss.Left, card, components.InfoBanner(s.notice, cw))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}
