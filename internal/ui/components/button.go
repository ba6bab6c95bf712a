package components

import (
	"github.com/abhisek/quizai/internal/ui/theme"
)

// Button is a styled push button. Focused buttons are highlighted; disabled
// ones are greyed out and ignore presses.
type Button struct {
	Label    string
	Focused  bool
	Disabled bool
}

// NewButton creates a new button.
func NewButton(label string) Button {
	return Button{Label: label}
}

// Pressable reports whether Enter on this button should act.
func (b Button) Pressable() bool {
	return b.Focused && !b.Disabled
}

// View renders the button.
func (b Button) View() string {
	switch {
	case b.Disabled:
		return theme.Disabled.Render(b.Label)
	case b.Focused:
		return theme.ButtonActive.Render("▸ " + b.Label)
	default:
		return theme.ButtonInactive.Render(b.Label)
	}
}
