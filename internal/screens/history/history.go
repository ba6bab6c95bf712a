package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizai/internal/datefmt"
	"github.com/abhisek/quizai/internal/router"
	"github.com/abhisek/quizai/internal/screen"
	"github.com/abhisek/quizai/internal/store"
	"github.com/abhisek/quizai/internal/ui/layout"
	"github.com/abhisek/quizai/internal/ui/theme"
)

const pageSize = 50

type historyLoadedMsg struct {
	Events []store.GenerationEventRecord
	Err    error
}

// HistoryScreen lists recent quiz generations from the diagnostics store.
type HistoryScreen struct {
	eventRepo store.EventRepo
	format    datefmt.Formatter
	events    []store.GenerationEventRecord
	selected  int
	expanded  map[int]bool
	loaded    bool
	errMsg    string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(eventRepo store.EventRepo, format datefmt.Formatter) *HistoryScreen {
	if format == nil {
		format = datefmt.PTBR
	}
	return &HistoryScreen{
		eventRepo: eventRepo,
		format:    format,
		expanded:  make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	repo := s.eventRepo
	return func() tea.Msg {
		events, err := repo.QueryGenerationEvents(context.Background(), store.QueryOpts{Limit: pageSize})
		return historyLoadedMsg{Events: events, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "Histórico"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Detalhes"},
		{Key: "↑↓", Description: "Navegar"},
		{Key: "Esc", Description: "Voltar"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.events = msg.Events
		}
		s.loaded = true
		return s, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.events)-1 {
				s.selected++
			}
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
		}
	}
	return s, nil
}

func centered(width int, style lipgloss.Style, text string) string {
	return style.Width(width).Align(lipgloss.Center).Render(text)
}

func (s *HistoryScreen) View(width, height int) string {
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)
	if s.errMsg != "" {
		return centered(width, lipgloss.NewStyle().Foreground(theme.Error), "\n\nErro: "+s.errMsg)
	}
	if !s.loaded {
		return centered(width, dim, "\n\n  Carregando histórico...")
	}
	if len(s.events) == 0 {
		return centered(width, dim.Italic(true), "\n\n  Nenhum quiz gerado ainda.")
	}

	var b strings.Builder
	b.WriteString("\n")

	for i, e := range s.events {
		prefix := "  "
		if i == s.selected {
			prefix = "▸ "
		}

		status := "ok"
		switch {
		case e.Placeholder:
			status = "falhou"
		case e.CacheHit:
			status = "cache"
		}

		line := fmt.Sprintf("%s%s  %-24s  %2d questões  %-6s",
			prefix, e.Timestamp.Local().Format("02/01 15:04"), clip(e.Topic, 24), e.Count, status)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		switch {
		case i == s.selected:
			style = style.Foreground(theme.Primary).Bold(true)
		case e.Placeholder:
			style = style.Foreground(theme.Error)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")

		if s.expanded[i] {
			for _, detail := range s.details(e) {
				b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, dim.Render(detail)))
				b.WriteString("\n")
			}
		}
	}

	return b.String()
}

func (s *HistoryScreen) details(e store.GenerationEventRecord) []string {
	out := []string{
		"    " + s.format.Format(e.Timestamp.Local()),
		fmt.Sprintf("    chave %s  %dms  %d correção(ões)", e.CacheKey, e.LatencyMs, e.Repairs),
	}
	if e.ErrorMessage != "" {
		out = append(out, "    erro: "+e.ErrorMessage)
	}
	return out
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
