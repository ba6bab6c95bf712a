package components

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizai/internal/ui/theme"
)

// Stepper picks an integer in [Min, Max] with ←/→ or -/+.
type Stepper struct {
	Label   string
	Value   int
	Min     int
	Max     int
	Focused bool
}

// NewStepper returns a stepper clamped to [lo, hi].
func NewStepper(label string, value, lo, hi int) Stepper {
	return Stepper{Label: label, Value: min(max(value, lo), hi), Min: lo, Max: hi}
}

// Update moves the value when focused.
func (s Stepper) Update(msg tea.Msg) Stepper {
	if !s.Focused {
		return s
	}
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return s
	}
	switch kmsg.String() {
	case "left", "-", "h":
		if s.Value > s.Min {
			s.Value--
		}
	case "right", "+", "=", "l":
		if s.Value < s.Max {
			s.Value++
		}
	}
	return s
}

// View renders "Label  ◂ 3 ▸".
func (s Stepper) View() string {
	label := theme.Label.Render(s.Label)
	arrowStyle := lipgloss.NewStyle().Foreground(theme.TextDim)
	valueStyle := theme.Unselected
	if s.Focused {
		arrowStyle = arrowStyle.Foreground(theme.Primary)
		valueStyle = theme.Selected
	}
	return fmt.Sprintf("%s  %s %s %s  %s",
		label,
		arrowStyle.Render("◂"),
		valueStyle.Render(fmt.Sprintf("%2d", s.Value)),
		arrowStyle.Render("▸"),
		theme.Hint.Render(fmt.Sprintf("(%d-%d)", s.Min, s.Max)),
	)
}
