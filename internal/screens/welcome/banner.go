package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizai/internal/ui/theme"
)

const bannerArt = `
  ██████╗ ██╗   ██╗██╗███████╗ █████╗ ██╗
 ██╔═══██╗██║   ██║██║╚══███╔╝██╔══██╗██║
 ██║   ██║██║   ██║██║  ███╔╝ ███████║██║
 ██║▄▄ ██║██║   ██║██║ ███╔╝  ██╔══██║██║
 ╚██████╔╝╚██████╔╝██║███████╗██║  ██║██║
  ╚══▀▀═╝  ╚═════╝ ╚═╝╚══════╝╚═╝  ╚═╝╚═╝`

const bannerCompact = "Q U I Z A I"

// RenderBanner returns the QuizAI banner. Terminals narrower than 46
// columns get the compact form.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < 46 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
