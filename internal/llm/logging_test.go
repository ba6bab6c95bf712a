package llm

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/abhisek/quizai/internal/store"
)

func openEventRepo(t *testing.T) store.EventRepo {
	t.Helper()
	s, err := store.Open("file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s.EventRepo()
}

func TestLogging_RecordsSuccess(t *testing.T) {
	repo := openEventRepo(t)
	mock := NewMockProvider(MockResponse{
		Content: json.RawMessage(`[]`),
		Usage:   Usage{InputTokens: 12, OutputTokens: 34},
	})
	p := WithLogging(mock, ProviderMock, repo)

	ctx := WithSession(WithPurpose(context.Background(), "quiz-gen"), "sess-1")
	_, err := p.Generate(ctx, Request{
		System:      "sys",
		Messages:    []Message{{Role: RoleUser, Content: "Gere 1 questão"}},
		MaxTokens:   2000,
		Temperature: 0.7,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	events, err := repo.QueryLLMEvents(context.Background(), store.QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	e := events[0]
	if e.Provider != "mock" || e.Purpose != "quiz-gen" || e.SessionID != "sess-1" {
		t.Fatalf("unexpected event metadata: %+v", e.LLMRequestEventData)
	}
	if !e.Success || e.InputTokens != 12 || e.OutputTokens != 34 {
		t.Fatalf("unexpected event usage: %+v", e.LLMRequestEventData)
	}
	if !strings.Contains(e.RequestBody, "[user]\nGere 1 questão") {
		t.Fatalf("request body not captured: %q", e.RequestBody)
	}
	if !strings.Contains(e.RequestBody, "max_tokens=2000") {
		t.Fatalf("params not captured: %q", e.RequestBody)
	}
	if e.ResponseBody != "[]" {
		t.Fatalf("response body = %q", e.ResponseBody)
	}
}

func TestLogging_RecordsFailure(t *testing.T) {
	repo := openEventRepo(t)
	mock := NewMockProvider(MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("connection refused")}})
	p := WithLogging(mock, ProviderOpenRouter, repo)

	if _, err := p.Generate(context.Background(), Request{}); err == nil {
		t.Fatal("expected error to pass through")
	}

	events, _ := repo.QueryLLMEvents(context.Background(), store.QueryOpts{})
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Success {
		t.Fatal("expected failed event")
	}
	if !strings.Contains(events[0].ErrorMessage, "connection refused") {
		t.Fatalf("error message = %q", events[0].ErrorMessage)
	}
	if events[0].Purpose != "unknown" {
		t.Fatalf("purpose = %q, want 'unknown'", events[0].Purpose)
	}
}

func TestLogging_NilRepo(t *testing.T) {
	p := WithLogging(NewMockProvider(TextResponse("[]")), ProviderMock, nil)
	if _, err := p.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRateLimit_DisabledReturnsInner(t *testing.T) {
	mock := NewMockProvider()
	if p := WithRateLimit(mock, RateLimitConfig{}); p != Provider(mock) {
		t.Fatal("expected provider to be returned unchanged when RPS is zero")
	}
}

func TestRateLimit_Throttles(t *testing.T) {
	fb := TextResponse("[]")
	mock := NewMockProvider()
	mock.Fallback = &fb
	p := WithRateLimit(mock, RateLimitConfig{RPS: 20, Burst: 1})

	start := time.Now()
	for i := 0; i < 3; i++ {
		if _, err := p.Generate(context.Background(), Request{}); err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
	}
	// Burst 1 at 20/s: the 2nd and 3rd calls wait ~50ms each.
	if elapsed := time.Since(start); elapsed < 80*time.Millisecond {
		t.Fatalf("expected throttling, finished in %s", elapsed)
	}
}

func TestRateLimit_ContextCancelled(t *testing.T) {
	fb := TextResponse("[]")
	mock := NewMockProvider()
	mock.Fallback = &fb
	p := WithRateLimit(mock, RateLimitConfig{RPS: 0.001, Burst: 1})

	if _, err := p.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("first call should use the burst: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := p.Generate(ctx, Request{})
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable, got: %T (%v)", err, err)
	}
	if mock.CallCount() != 1 {
		t.Fatalf("expected throttled call not to reach provider, got %d calls", mock.CallCount())
	}
}
