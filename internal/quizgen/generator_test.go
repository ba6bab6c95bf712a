package quizgen

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/abhisek/quizai/internal/llm"
	"github.com/abhisek/quizai/internal/quizcache"
	"github.com/abhisek/quizai/internal/store"
)

func quizJSON(n int) string {
	var parts []string
	for i := 1; i <= n; i++ {
		parts = append(parts, fmt.Sprintf(
			`{"question": "Pergunta %d", "options": {"A": "a", "B": "b", "C": "c", "D": "d"}, "answer": "C", "explanation": "Porque sim %d"}`, i, i))
	}
	return "[" + strings.Join(parts, ",") + "]"
}

func providerErr() llm.MockResponse {
	return llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("connection refused")}}
}

func TestGenerate_HappyPath(t *testing.T) {
	mock := llm.NewMockProvider(llm.TextResponse("```json\n" + quizJSON(3) + "\n```"))
	gen := New(mock, DefaultConfig())

	res, err := gen.GenerateDetailed(context.Background(), "Redes", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Quiz) != 3 {
		t.Fatalf("expected 3 questions, got %d", len(res.Quiz))
	}
	if res.Quiz[2].Question != "Pergunta 3" || res.Quiz[2].Answer != "C" {
		t.Errorf("unexpected question %+v", res.Quiz[2])
	}
	if res.CacheHit || len(res.Repairs) != 0 {
		t.Errorf("expected fresh unrepaired quiz, got hit=%v repairs=%v", res.CacheHit, res.Repairs)
	}
	if res.CacheKey != quizcache.Key("Redes", 3) {
		t.Errorf("CacheKey = %q", res.CacheKey)
	}

	req := mock.LastRequest()
	if req.System != systemPrompt {
		t.Errorf("unexpected system prompt %q", req.System)
	}
	if req.MaxTokens != 2000 || req.Temperature != 0.7 {
		t.Errorf("unexpected params max_tokens=%d temperature=%v", req.MaxTokens, req.Temperature)
	}
	if len(req.Messages) != 1 || req.Messages[0].Role != llm.RoleUser {
		t.Fatalf("expected one user message, got %+v", req.Messages)
	}
	msg := req.Messages[0].Content
	if !strings.Contains(msg, "Gere 3 questões") || !strings.Contains(msg, "'Redes'") {
		t.Errorf("prompt missing count or topic: %q", msg)
	}
}

func TestGenerate_ClampsCount(t *testing.T) {
	tests := []struct {
		count int
		want  int
	}{
		{0, 1},
		{-4, 1},
		{25, 10},
	}
	for _, tt := range tests {
		mock := llm.NewMockProvider(llm.TextResponse(quizJSON(3)))
		gen := New(mock, DefaultConfig())

		quiz, err := gen.Generate(context.Background(), "Go", tt.count)
		if err != nil {
			t.Fatalf("count %d: unexpected error: %v", tt.count, err)
		}
		if len(quiz) != tt.want {
			t.Errorf("count %d: got %d questions, want %d", tt.count, len(quiz), tt.want)
		}
		if !strings.Contains(mock.LastRequest().Messages[0].Content, fmt.Sprintf("Gere %d questões", tt.want)) {
			t.Errorf("count %d: prompt should ask for %d", tt.count, tt.want)
		}
	}
}

func TestGenerate_BlankTopicUsesDefault(t *testing.T) {
	mock := llm.NewMockProvider(llm.TextResponse(quizJSON(2)))
	gen := New(mock, DefaultConfig())

	res, err := gen.GenerateDetailed(context.Background(), "   ", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Topic != DefaultTopic {
		t.Errorf("Topic = %q, want %q", res.Topic, DefaultTopic)
	}
	if !strings.Contains(mock.LastRequest().Messages[0].Content, DefaultTopic) {
		t.Error("prompt should name the default topic")
	}
}

func TestGenerate_CachesByTopicAndCount(t *testing.T) {
	mock := llm.NewMockProvider()
	mock.Fallback = &llm.MockResponse{Content: []byte(quizJSON(3))}
	gen := New(mock, DefaultConfig())
	ctx := context.Background()

	first, _ := gen.GenerateDetailed(ctx, "Docker", 3)
	second, _ := gen.GenerateDetailed(ctx, " Docker ", 3)
	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 provider call, got %d", mock.CallCount())
	}
	if !second.CacheHit || first.CacheHit {
		t.Errorf("cache hits: first=%v second=%v", first.CacheHit, second.CacheHit)
	}
	if second.Quiz[0].Question != first.Quiz[0].Question {
		t.Error("cached quiz should match the original")
	}

	if _, err := gen.Generate(ctx, "Docker", 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := gen.Generate(ctx, "Kubernetes", 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mock.CallCount() != 3 {
		t.Errorf("different count or topic should miss, got %d calls", mock.CallCount())
	}
}

func TestGenerate_RefreshIsOneShot(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.TextResponse(quizJSON(1)),
		llm.TextResponse(strings.Replace(quizJSON(1), "Pergunta 1", "Nova pergunta", 1)),
	)
	gen := New(mock, DefaultConfig())
	ctx := context.Background()

	if _, err := gen.Generate(ctx, "SQL", 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	gen.RequestRefresh()
	if !gen.RefreshPending() {
		t.Fatal("refresh should be pending")
	}
	quiz, err := gen.Generate(ctx, "SQL", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if quiz[0].Question != "Nova pergunta" {
		t.Errorf("refresh should fetch a new quiz, got %q", quiz[0].Question)
	}
	if gen.RefreshPending() {
		t.Error("refresh flag should be consumed")
	}

	res, _ := gen.GenerateDetailed(ctx, "SQL", 1)
	if !res.CacheHit || res.Quiz[0].Question != "Nova pergunta" {
		t.Errorf("refreshed quiz should be cached, got hit=%v %q", res.CacheHit, res.Quiz[0].Question)
	}
	if mock.CallCount() != 2 {
		t.Errorf("expected 2 provider calls, got %d", mock.CallCount())
	}
}

func TestGenerate_TransportErrorYieldsPlaceholders(t *testing.T) {
	mock := llm.NewMockProvider(providerErr())
	gen := New(mock, DefaultConfig())

	quiz, err := gen.Generate(context.Background(), "Linux", 4)
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("expected TransportError, got %v", err)
	}
	if len(quiz) != 4 || !quiz.AllPlaceholders() {
		t.Fatalf("expected 4 placeholders, got %v", quiz)
	}
	if !strings.HasPrefix(quiz[0].Question, "Questão exemplo 1") {
		t.Errorf("unexpected placeholder text %q", quiz[0].Question)
	}
}

func TestGenerate_HTTPErrorFromProvider(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": {"message": "internal error", "type": "server_error"}}`))
	}))
	defer server.Close()

	provider, err := llm.NewOpenAIProvider(llm.OpenAIConfig{APIKey: "test-key", Model: "gpt-3.5-turbo", BaseURL: server.URL + "/v1"})
	if err != nil {
		t.Fatalf("provider: %v", err)
	}
	gen := New(provider, DefaultConfig())

	quiz, err := gen.Generate(context.Background(), "Go", 3)
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("expected TransportError, got %v", err)
	}
	if len(quiz) != 3 || !quiz.AllPlaceholders() {
		t.Errorf("expected 3 placeholders, got %v", quiz)
	}
}

func TestGenerate_ParseErrorYieldsPlaceholders(t *testing.T) {
	mock := llm.NewMockProvider(llm.TextResponse("```json\n[{\"question\": \"Q\", \"options\": \n```"))
	gen := New(mock, DefaultConfig())

	quiz, err := gen.Generate(context.Background(), "Python", 2)
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if !strings.HasPrefix(pe.Cleaned, "[{") {
		t.Errorf("ParseError should carry the cleaned text, got %q", pe.Cleaned)
	}
	if len(quiz) != 2 || !quiz.AllPlaceholders() {
		t.Errorf("expected 2 placeholders, got %v", quiz)
	}
}

func TestGenerate_RepairsAreReported(t *testing.T) {
	mock := llm.NewMockProvider(llm.TextResponse(`[{"question": "Q1", "options": {"A": "a", "B": "b"}, "answer": "Z", "explanation": "e"}, 42]`))
	gen := New(mock, DefaultConfig())

	res, err := gen.GenerateDetailed(context.Background(), "Redes", 3)
	if err != nil {
		t.Fatalf("repairs are not errors: %v", err)
	}
	if len(res.Quiz) != 3 {
		t.Fatalf("expected 3 questions, got %d", len(res.Quiz))
	}
	kinds := make([]RepairKind, 0, len(res.Repairs))
	for _, r := range res.Repairs {
		kinds = append(kinds, r.Kind)
	}
	want := []RepairKind{RepairAnswer, RepairReplace, RepairPad}
	if fmt.Sprint(kinds) != fmt.Sprint(want) {
		t.Errorf("repairs = %v, want %v", kinds, want)
	}
	if res.Quiz[0].Answer != "A" || res.Quiz[0].Placeholder {
		t.Errorf("answer should be repaired in place, got %+v", res.Quiz[0])
	}
}

func TestGenerate_FailureCaching(t *testing.T) {
	t.Run("cached within window", func(t *testing.T) {
		mock := llm.NewMockProvider(providerErr(), llm.TextResponse(quizJSON(2)))
		gen := New(mock, DefaultConfig())
		ctx := context.Background()

		if _, err := gen.Generate(ctx, "Git", 2); err == nil {
			t.Fatal("expected error from failed call")
		}
		quiz, err := gen.Generate(ctx, "Git", 2)
		if !errors.Is(err, ErrRecentFailure) {
			t.Fatalf("expected ErrRecentFailure, got %v", err)
		}
		if !quiz.AllPlaceholders() {
			t.Error("cached failure should replay placeholders")
		}
		if mock.CallCount() != 1 {
			t.Errorf("expected 1 provider call, got %d", mock.CallCount())
		}

		gen.RequestRefresh()
		quiz, err = gen.Generate(ctx, "Git", 2)
		if err != nil {
			t.Fatalf("refresh should retry the provider: %v", err)
		}
		if quiz.Placeholders() != 0 {
			t.Error("refreshed quiz should be real")
		}
	})

	t.Run("disabled", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.FailureTTL = 0
		mock := llm.NewMockProvider(providerErr(), llm.TextResponse(quizJSON(2)))
		gen := New(mock, cfg)
		ctx := context.Background()

		if _, err := gen.Generate(ctx, "Git", 2); err == nil {
			t.Fatal("expected error from failed call")
		}
		quiz, err := gen.Generate(ctx, "Git", 2)
		if err != nil {
			t.Fatalf("second call should reach the provider: %v", err)
		}
		if quiz.Placeholders() != 0 || mock.CallCount() != 2 {
			t.Errorf("expected a real quiz after 2 calls, got %d placeholders, %d calls", quiz.Placeholders(), mock.CallCount())
		}
	})
}

func TestGenerate_ConcurrentCallsShareOneRequest(t *testing.T) {
	mock := llm.NewMockProvider()
	mock.Fallback = &llm.MockResponse{Content: []byte(quizJSON(3))}
	mock.Delay = 100 * time.Millisecond
	gen := New(mock, DefaultConfig())

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			quiz, err := gen.Generate(context.Background(), "Cloud", 3)
			if err == nil && len(quiz) != 3 {
				err = fmt.Errorf("got %d questions", len(quiz))
			}
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	}
	if mock.CallCount() != 1 {
		t.Errorf("expected 1 provider call, got %d", mock.CallCount())
	}
}

func TestGenerate_Timeout(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Timeout = 20 * time.Millisecond
	mock := llm.NewMockProvider(llm.TextResponse(quizJSON(1)))
	mock.Delay = 2 * time.Second
	gen := New(mock, cfg)

	start := time.Now()
	quiz, err := gen.Generate(context.Background(), "Go", 1)
	if time.Since(start) > time.Second {
		t.Error("timeout should cut the call short")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
	if len(quiz) != 1 || !quiz[0].Placeholder {
		t.Errorf("expected one placeholder, got %v", quiz)
	}
}

func TestGenerate_ScopeSeparatesCaches(t *testing.T) {
	mock := llm.NewMockProvider()
	mock.Fallback = &llm.MockResponse{Content: []byte(quizJSON(1))}
	shared := quizcache.New(nil, quizcache.Options{FailureTTL: time.Minute})

	a := New(mock, DefaultConfig(), WithCache(shared), WithScope("sess-a"))
	b := New(mock, DefaultConfig(), WithCache(shared), WithScope("sess-b"))
	ctx := context.Background()

	resA, _ := a.GenerateDetailed(ctx, "Go", 1)
	resB, _ := b.GenerateDetailed(ctx, "Go", 1)
	if !strings.HasPrefix(resA.CacheKey, "sess-a:") || !strings.HasPrefix(resB.CacheKey, "sess-b:") {
		t.Errorf("keys should be scoped: %q %q", resA.CacheKey, resB.CacheKey)
	}
	if mock.CallCount() != 2 {
		t.Errorf("scopes should not share entries, got %d calls", mock.CallCount())
	}

	b.RequestRefresh()
	if a.RefreshPending() {
		t.Error("refresh flag belongs to one generator")
	}
}

func TestGenerate_RecordsEvents(t *testing.T) {
	s, err := store.Open("file:quizgen_events?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer s.Close()

	mock := llm.NewMockProvider(llm.TextResponse(quizJSON(2)))
	gen := New(mock, DefaultConfig(), WithEventRepo(s.EventRepo()), WithScope("s1"))
	ctx := context.Background()

	gen.Generate(ctx, "Redes", 2)
	gen.Generate(ctx, "Redes", 2)

	events, err := s.EventRepo().QueryGenerationEvents(ctx, store.QueryOpts{SessionID: "s1"})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	// Newest first.
	if !events[0].CacheHit || events[1].CacheHit {
		t.Errorf("cache hits: newest=%v oldest=%v", events[0].CacheHit, events[1].CacheHit)
	}
	if events[1].Topic != "Redes" || events[1].Count != 2 || events[1].Placeholder {
		t.Errorf("unexpected event %+v", events[1].GenerationEventData)
	}
}

func TestGenerate_DemoProvider(t *testing.T) {
	gen := New(llm.NewDemoProvider(), DefaultConfig())
	res, err := gen.GenerateDetailed(context.Background(), "", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Quiz.Placeholders() != 0 {
		t.Errorf("demo quiz should parse cleanly, repairs %v", res.Repairs)
	}
}

func TestGenerate_ForgetDropsOwnEntries(t *testing.T) {
	mem := quizcache.NewMemoryStore()
	shared := quizcache.New(mem, quizcache.Options{})
	mock := llm.NewMockProvider()
	mock.Fallback = &llm.MockResponse{Content: []byte(quizJSON(2))}
	ctx := context.Background()

	mine := New(mock, DefaultConfig(), WithCache(shared), WithScope("s1"))
	other := New(mock, DefaultConfig(), WithCache(shared), WithScope("s2"))
	for _, topic := range []string{"Docker", "Linux"} {
		if _, err := mine.Generate(ctx, topic, 2); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if _, err := other.Generate(ctx, "Docker", 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mem.Len() != 3 {
		t.Fatalf("expected 3 cached entries, got %d", mem.Len())
	}

	if err := mine.Forget(ctx); err != nil {
		t.Fatalf("forget: %v", err)
	}
	if mem.Len() != 1 {
		t.Fatalf("expected only the other session's entry, got %d", mem.Len())
	}
	if res, _ := other.GenerateDetailed(ctx, "Docker", 2); !res.CacheHit {
		t.Error("other session's entry should survive")
	}
}
