package app

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/quizai/internal/datefmt"
	"github.com/abhisek/quizai/internal/quizgen"
	"github.com/abhisek/quizai/internal/screens/setup"
	"github.com/abhisek/quizai/internal/screens/welcome"
)

type nopGenerator struct{}

func (nopGenerator) GenerateDetailed(context.Context, string, int) (*quizgen.Result, error) {
	return &quizgen.Result{Quiz: quizgen.PlaceholderQuiz(1)}, nil
}
func (nopGenerator) RequestRefresh()        {}
func (nopGenerator) RefreshPending() bool   { return false }
func (nopGenerator) Config() quizgen.Config { return quizgen.DefaultConfig() }

func fixedClock() datefmt.Clock {
	at := time.Date(2026, time.October, 17, 10, 4, 5, 0, time.UTC)
	return datefmt.Clock{Now: func() time.Time { return at }, Formatter: datefmt.PTBR}
}

func TestFooterShowsClock(t *testing.T) {
	m := newAppModel(Options{Generator: nopGenerator{}, Clock: fixedClock(), SkipWelcome: true})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = updated.(AppModel)

	view := m.render()
	if !strings.Contains(view, "Sábado, 17 de outubro de 2026 às 10:04:05") {
		t.Error("footer should show the pt-BR clock")
	}
	if !strings.Contains(view, "Novo Quiz") {
		t.Error("header should show the setup title")
	}
}

func TestWelcomeIsRoot(t *testing.T) {
	m := newAppModel(Options{Generator: nopGenerator{}, Clock: fixedClock()})
	if _, ok := m.router.Active().(*welcome.WelcomeScreen); !ok {
		t.Errorf("root screen = %T, want welcome", m.router.Active())
	}
	m = newAppModel(Options{Generator: nopGenerator{}, Clock: fixedClock(), SkipWelcome: true})
	if _, ok := m.router.Active().(*setup.SetupScreen); !ok {
		t.Errorf("root screen = %T, want setup", m.router.Active())
	}
}

func TestEscLeftToTextInput(t *testing.T) {
	m := newAppModel(Options{Generator: nopGenerator{}, Clock: fixedClock(), SkipWelcome: true})
	if !m.capturing() {
		t.Fatal("setup screen should capture input while the topic field is focused")
	}
	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd != nil {
		if _, quit := cmd().(tea.QuitMsg); quit {
			t.Error("esc must not quit")
		}
	}
}

func TestCtrlCQuits(t *testing.T) {
	m := newAppModel(Options{Generator: nopGenerator{}, Clock: fixedClock(), SkipWelcome: true})
	_, cmd := m.Update(tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("expected QuitMsg, got %T", cmd())
	}
}
