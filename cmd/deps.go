package cmd

import (
	"context"
	"fmt"

	"github.com/abhisek/quizai/internal/llm"
	"github.com/abhisek/quizai/internal/quizcache"
	"github.com/abhisek/quizai/internal/quizgen"
	"github.com/abhisek/quizai/internal/store"
	"github.com/abhisek/quizai/internal/telemetry"
)

// openStore opens the diagnostics database named by the config.
func openStore() (*store.Store, error) {
	dsn, err := store.ResolveDSN(cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dsn)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return st, nil
}

// newGenerator builds the provider stack and a generator over it.
func newGenerator(ctx context.Context, st *store.Store, opts ...quizgen.GeneratorOption) (*quizgen.LLMGenerator, llm.Provider, error) {
	provider, err := llm.NewProvider(ctx, cfg.LLM, st.EventRepo())
	if err != nil {
		return nil, nil, err
	}
	telemetry.L().Info().
		Str("provider", cfg.LLM.Provider).
		Str("model", provider.ModelID()).
		Msg("LLM provider ready")
	opts = append([]quizgen.GeneratorOption{quizgen.WithEventRepo(st.EventRepo())}, opts...)
	gen := quizgen.New(provider, cfg.Quiz, opts...)
	return gen, provider, nil
}

// newSharedCache returns the Redis-backed cache when configured, otherwise
// nil so callers fall back to memory.
func newSharedCache(ctx context.Context) (*quizcache.Cache, func(), error) {
	if cfg.Server.RedisAddr == "" {
		return nil, func() {}, nil
	}
	rdb, err := quizcache.Connect(ctx, cfg.Server.RedisAddr, cfg.Server.RedisDB)
	if err != nil {
		return nil, nil, fmt.Errorf("connect redis: %w", err)
	}
	cache := quizcache.New(quizcache.NewRedisStore(rdb), quizcache.Options{
		FailureTTL: cfg.Quiz.FailureTTL,
		TTL:        cfg.Server.SessionTTL,
	})
	return cache, func() { _ = rdb.Close() }, nil
}
