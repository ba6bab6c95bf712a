package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizai/internal/ui/theme"
)

// MultiChoice is a lettered option picker. Once Locked it shows the correct
// option in green and a wrong choice in red.
type MultiChoice struct {
	Keys    []string
	Texts   []string
	Cursor  int
	Locked  bool
	Chosen  string
	Correct string
}

// NewMultiChoice creates a picker over parallel keys and texts.
func NewMultiChoice(keys, texts []string) MultiChoice {
	return MultiChoice{Keys: keys, Texts: texts}
}

// Current returns the key under the cursor.
func (m MultiChoice) Current() string {
	if m.Cursor < 0 || m.Cursor >= len(m.Keys) {
		return ""
	}
	return m.Keys[m.Cursor]
}

// Update handles navigation. Pressing an option's letter jumps to it.
func (m MultiChoice) Update(msg tea.Msg) MultiChoice {
	if m.Locked {
		return m
	}
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m
	}

	switch key := kmsg.String(); key {
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(m.Keys)-1 {
			m.Cursor++
		}
	default:
		for i, k := range m.Keys {
			if strings.EqualFold(k, key) {
				m.Cursor = i
				break
			}
		}
	}
	return m
}

// Lock freezes the picker after an answer is submitted.
func (m *MultiChoice) Lock(chosen, correct string) {
	m.Locked = true
	m.Chosen = chosen
	m.Correct = correct
}

// View renders the options, one per line.
func (m MultiChoice) View() string {
	var b strings.Builder
	for i, key := range m.Keys {
		prefix := "  "
		if i == m.Cursor && !m.Locked {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%s) %s", prefix, key, m.Texts[i])

		var style lipgloss.Style
		switch {
		case m.Locked && key == m.Correct:
			style = theme.Correct
		case m.Locked && key == m.Chosen:
			style = theme.Incorrect
		case m.Locked:
			style = lipgloss.NewStyle().Foreground(theme.TextDim)
		case i == m.Cursor:
			style = theme.Selected
		default:
			style = theme.Unselected
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}
