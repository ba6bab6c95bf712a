package history

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/quizai/internal/datefmt"
	"github.com/abhisek/quizai/internal/router"
	"github.com/abhisek/quizai/internal/store"
)

func openStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open("file:history_test?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func load(t *testing.T, s *HistoryScreen) {
	t.Helper()
	s.Update(s.Init()())
}

func TestListsGenerations(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()
	repo := st.EventRepo()
	if err := repo.AppendGeneration(ctx, store.GenerationEventData{Topic: "redes", Count: 3, CacheKey: "k1"}); err != nil {
		t.Fatal(err)
	}
	if err := repo.AppendGeneration(ctx, store.GenerationEventData{
		Topic: "bancos de dados", Count: 5, CacheKey: "k2", Placeholder: true, ErrorMessage: "timeout",
	}); err != nil {
		t.Fatal(err)
	}

	fixed := datefmt.FormatterFunc(func(time.Time) string { return "quando" })
	s := New(repo, fixed)
	load(t, s)

	view := s.View(100, 30)
	for _, want := range []string{"redes", "bancos de dados", "falhou"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}

	// Newest first: the failed generation is on top.
	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	view = s.View(100, 30)
	if !strings.Contains(view, "erro: timeout") || !strings.Contains(view, "quando") {
		t.Errorf("expanded details missing: %q", view)
	}
}

func TestEmptyHistory(t *testing.T) {
	st, err := store.Open("file:history_empty?mode=memory&cache=shared")
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()

	s := New(st.EventRepo(), nil)
	if !strings.Contains(s.View(80, 20), "Carregando") {
		t.Error("expected loading text before data arrives")
	}
	load(t, s)
	if !strings.Contains(s.View(80, 20), "Nenhum quiz gerado") {
		t.Error("expected empty-state text")
	}
}

func TestEscPops(t *testing.T) {
	s := New(openStore(t).EventRepo(), nil)
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd == nil {
		t.Fatal("expected command")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Errorf("expected PopScreenMsg, got %T", cmd())
	}
}
