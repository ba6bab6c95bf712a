package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizai/internal/ui/theme"
)

// ContentWidth returns the uniform inner width used for all card sections.
func ContentWidth(frameWidth int) int {
	// Leave room for the frame border (2) and padding (4).
	return min(max(frameWidth-6, 20), 72)
}

// ArcadeCard wraps content in a rounded-border card at the given content width.
func ArcadeCard(content string, cw int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(cw-2).
		Padding(1, 2).
		Render(content)
}

// ArcadeButton renders a full-width button.
func ArcadeButton(label string, selected bool, width int) string {
	if selected {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Bold(true).
			Foreground(theme.BgDark).
			Background(theme.ArcadeYellow).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.ArcadeYellow).
			Padding(0, 1).
			Render("▸ " + label)
	}
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1).
		Render(label)
}

// ErrorBanner renders msg in a red box of the given width.
func ErrorBanner(msg string, width int) string {
	return theme.ErrorBanner.Width(width).Render(msg)
}

// InfoBanner renders msg in an amber box of the given width.
func InfoBanner(msg string, width int) string {
	return theme.InfoBanner.Width(width).Render(msg)
}
