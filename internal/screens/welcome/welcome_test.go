package welcome

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/quizai/internal/router"
	"github.com/abhisek/quizai/internal/screen"
)

// stubScreen is a minimal screen implementation for testing.
type stubScreen struct{}

func (s *stubScreen) Init() tea.Cmd                           { return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                    { return "setup" }
func (s *stubScreen) Title() string                           { return "Setup" }

func newTestWelcome() (*WelcomeScreen, *int) {
	callCount := 0
	factory := func() screen.Screen {
		callCount++
		return &stubScreen{}
	}
	return New(factory), &callCount
}

func sendTicks(w *WelcomeScreen, n int) {
	for range n {
		w.Update(tickMsg(time.Now()))
	}
}

func TestPhases(t *testing.T) {
	w, _ := newTestWelcome()

	if strings.Contains(w.View(80, 24), "gerados por IA") {
		t.Error("tagline should not be visible at start")
	}

	sendTicks(w, 4)
	view := w.View(80, 24)
	if !strings.Contains(view, "gerados por IA") {
		t.Error("tagline should be visible after phase 1")
	}
	if strings.Contains(view, "qualquer tecla") {
		t.Error("hint should wait for the full animation")
	}

	sendTicks(w, 20)
	if w.elapsed != totalDur {
		t.Errorf("elapsed = %v, want capped at %v", w.elapsed, totalDur)
	}
	if !strings.Contains(w.View(80, 24), "qualquer tecla") {
		t.Error("hint should be visible after animation")
	}
}

func TestKeypressEmitsReplace(t *testing.T) {
	w, callCount := newTestWelcome()
	sendTicks(w, 2)

	_, cmd := w.Update(tea.KeyPressMsg{Code: ' ', Text: " "})
	if cmd == nil {
		t.Fatal("keypress should trigger transition")
	}
	msg, ok := cmd().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatalf("expected ReplaceScreenMsg, got %T", cmd())
	}
	if msg.Screen == nil {
		t.Error("replace screen should not be nil")
	}
	if *callCount != 1 {
		t.Errorf("factory called %d times, want 1", *callCount)
	}

	_, cmd = w.Update(tea.KeyPressMsg{Code: 'b', Text: "b"})
	if cmd != nil {
		t.Error("second keypress should not produce a command")
	}
	if *callCount != 1 {
		t.Errorf("factory called %d times, want 1", *callCount)
	}
}

func TestTicksStopAfterTransition(t *testing.T) {
	w, _ := newTestWelcome()
	w.Update(tea.KeyPressMsg{Code: 'a', Text: "a"})
	if _, cmd := w.Update(tickMsg(time.Now())); cmd != nil {
		t.Error("ticks should stop once the screen is replaced")
	}
}

func TestNoAutoTransition(t *testing.T) {
	w, callCount := newTestWelcome()
	sendTicks(w, 40)
	if *callCount != 0 {
		t.Errorf("factory should not be called without keypress, got %d", *callCount)
	}
}

func TestCompactBanner(t *testing.T) {
	if !strings.Contains(RenderBanner(30), "Q U I Z A I") {
		t.Error("narrow terminals should get the compact banner")
	}
}
