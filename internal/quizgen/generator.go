package quizgen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tidwall/gjson"

	"github.com/abhisek/quizai/internal/llm"
	"github.com/abhisek/quizai/internal/quizcache"
	"github.com/abhisek/quizai/internal/store"
	"github.com/abhisek/quizai/internal/telemetry"
)

// ErrRecentFailure is returned with a cached placeholder quiz while the
// failure that produced it is still inside its caching window.
var ErrRecentFailure = errors.New("recent generation failed")

// Generator produces quizzes.
type Generator interface {
	// Generate returns exactly ClampCount(count) questions. A non-nil error
	// reports a degraded result; the quiz is still complete.
	Generate(ctx context.Context, topic string, count int) (Quiz, error)
}

// Result is a quiz plus what it took to produce it.
type Result struct {
	Quiz     Quiz
	Topic    string
	Count    int
	CacheKey string
	CacheHit bool
	Repairs  []Repair
}

// LLMGenerator implements Generator using the LLM provider.
type LLMGenerator struct {
	provider llm.Provider
	config   Config
	cache    *quizcache.Cache
	events   store.EventRepo
	scope    string
	refresh  atomic.Bool

	mu   sync.Mutex
	keys map[string]struct{}
}

// GeneratorOption customizes an LLMGenerator.
type GeneratorOption func(*LLMGenerator)

// WithCache shares c between generators. Its own Options govern failure
// caching; Config.FailureTTL only applies to the default private cache.
func WithCache(c *quizcache.Cache) GeneratorOption {
	return func(g *LLMGenerator) { g.cache = c }
}

// WithEventRepo records every generation in repo.
func WithEventRepo(repo store.EventRepo) GeneratorOption {
	return func(g *LLMGenerator) { g.events = repo }
}

// WithScope prefixes cache keys with scope, typically a session ID.
func WithScope(scope string) GeneratorOption {
	return func(g *LLMGenerator) { g.scope = scope }
}

// New creates a new LLMGenerator with the given provider and config.
func New(provider llm.Provider, cfg Config, opts ...GeneratorOption) *LLMGenerator {
	g := &LLMGenerator{provider: provider, config: cfg}
	for _, opt := range opts {
		opt(g)
	}
	if g.cache == nil {
		g.cache = quizcache.New(nil, quizcache.Options{FailureTTL: cfg.FailureTTL})
	}
	return g
}

// RequestRefresh makes the next Generate call skip the cache lookup. The
// flag is consumed by that call whether or not it had a cached quiz.
func (g *LLMGenerator) RequestRefresh() {
	g.refresh.Store(true)
}

// RefreshPending reports whether RequestRefresh is waiting to be consumed.
func (g *LLMGenerator) RefreshPending() bool {
	return g.refresh.Load()
}

// Config returns the generator configuration.
func (g *LLMGenerator) Config() Config {
	return g.config
}

// Generate produces a quiz for topic.
func (g *LLMGenerator) Generate(ctx context.Context, topic string, count int) (Quiz, error) {
	res, err := g.GenerateDetailed(ctx, topic, count)
	return res.Quiz, err
}

// GenerateDetailed is Generate with cache and repair details. The returned
// Result is never nil.
func (g *LLMGenerator) GenerateDetailed(ctx context.Context, topic string, count int) (*Result, error) {
	start := time.Now()
	n := g.config.ClampCount(count)
	t := g.config.ResolveTopic(topic)
	key := quizcache.Scoped(g.scope, quizcache.Key(t, n))
	refresh := g.refresh.Swap(false)

	res := &Result{Topic: t, Count: n, CacheKey: key}

	var repairs []Repair
	fill := func(ctx context.Context) (quizcache.Entry, error) {
		quiz, reps, err := g.fetch(ctx, t, n)
		repairs = reps
		return encodeEntry(quiz, err)
	}

	entry, hit, err := g.cache.Do(ctx, key, refresh, fill)
	quiz, decErr := decodeEntry(entry, n)
	if decErr != nil {
		// Unreadable entry: drop it and fetch once more.
		telemetry.L().Warn().Err(decErr).Str("cache_key", key).Msg("discarding cached quiz")
		_ = g.cache.Invalidate(ctx, key)
		entry, hit, err = g.cache.Do(ctx, key, true, fill)
		if quiz, decErr = decodeEntry(entry, n); decErr != nil {
			quiz, err = PlaceholderQuiz(n), errors.Join(err, decErr)
		}
	}

	g.remember(key)

	if hit && entry.Placeholder {
		err = fmt.Errorf("%w: %s", ErrRecentFailure, entry.Err)
	}

	res.Quiz = quiz
	res.CacheHit = hit
	res.Repairs = repairs

	g.record(ctx, res, time.Since(start), err)
	return res, err
}

func (g *LLMGenerator) remember(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.keys == nil {
		g.keys = make(map[string]struct{})
	}
	g.keys[key] = struct{}{}
}

// Forget drops every cache entry this generator has used. Servers call it
// when the owning session goes away.
func (g *LLMGenerator) Forget(ctx context.Context) error {
	g.mu.Lock()
	keys := g.keys
	g.keys = nil
	g.mu.Unlock()

	var errs []error
	for key := range keys {
		if err := g.cache.Invalidate(ctx, key); err != nil {
			errs = append(errs, fmt.Errorf("invalidate %s: %w", key, err))
		}
	}
	return errors.Join(errs...)
}

// fetch performs one provider round trip and turns the answer into a quiz.
func (g *LLMGenerator) fetch(ctx context.Context, topic string, n int) (Quiz, []Repair, error) {
	ctx = llm.WithPurpose(ctx, "quiz-gen")
	if g.scope != "" && llm.SessionFrom(ctx) == "" {
		ctx = llm.WithSession(ctx, g.scope)
	}
	if g.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.config.Timeout)
		defer cancel()
	}

	req := llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(topic, n)},
		},
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	}

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return PlaceholderQuiz(n), nil, &TransportError{Err: err}
	}

	if resp.StopReason == "max_tokens" {
		telemetry.L().Warn().Str("topic", topic).Int("count", n).
			Int("max_tokens", g.config.MaxTokens).Msg("quiz response truncated")
	}

	cleaned := Sanitize(resp.Text())

	// gjson tolerates garbage; the standard decoder gives a precise error.
	var doc any
	if err := json.Unmarshal([]byte(cleaned), &doc); err != nil {
		return PlaceholderQuiz(n), nil, &ParseError{Cleaned: cleaned, Err: err}
	}

	quiz, repairs := Validate(gjson.Parse(cleaned), n)
	return quiz, repairs, nil
}

func encodeEntry(quiz Quiz, fetchErr error) (quizcache.Entry, error) {
	raw, err := json.Marshal(quiz)
	if err != nil {
		return quizcache.Entry{}, errors.Join(fetchErr, fmt.Errorf("encode quiz: %w", err))
	}
	e := quizcache.Entry{Value: raw}
	if fetchErr != nil {
		e.Placeholder = true
		e.Err = fetchErr.Error()
	}
	return e, fetchErr
}

func decodeEntry(e quizcache.Entry, n int) (Quiz, error) {
	if e.Value == nil {
		return nil, fmt.Errorf("empty cache entry")
	}
	var quiz Quiz
	if err := json.Unmarshal(e.Value, &quiz); err != nil {
		return nil, fmt.Errorf("decode cached quiz: %w", err)
	}
	if len(quiz) != n {
		return nil, fmt.Errorf("cached quiz has %d questions, want %d", len(quiz), n)
	}
	return quiz, nil
}

func (g *LLMGenerator) record(ctx context.Context, res *Result, elapsed time.Duration, err error) {
	log := telemetry.L()
	ev := log.Info()
	if err != nil {
		ev = log.Warn().Err(err)
	}
	ev.Str("topic", res.Topic).
		Int("count", res.Count).
		Str("cache_key", res.CacheKey).
		Bool("cache_hit", res.CacheHit).
		Int("repairs", len(res.Repairs)).
		Int("placeholders", res.Quiz.Placeholders()).
		Dur("elapsed", elapsed).
		Msg("quiz generated")
	for _, r := range res.Repairs {
		log.Debug().Str("cache_key", res.CacheKey).Str("repair", r.String()).Msg("quiz repaired")
	}

	if g.events == nil {
		return
	}
	data := store.GenerationEventData{
		SessionID:   g.scope,
		Topic:       res.Topic,
		Count:       res.Count,
		CacheKey:    res.CacheKey,
		CacheHit:    res.CacheHit,
		Placeholder: res.Quiz.AllPlaceholders(),
		Repairs:     len(res.Repairs),
		LatencyMs:   elapsed.Milliseconds(),
	}
	if err != nil {
		data.ErrorMessage = err.Error()
	}
	if logErr := g.events.AppendGeneration(context.WithoutCancel(ctx), data); logErr != nil {
		log.Warn().Err(logErr).Msg("failed to record generation event")
	}
}
