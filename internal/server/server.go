// Package server exposes quiz sessions over HTTP. Each session owns its state
// machine and a generator whose cache entries are scoped to the session.
package server

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/abhisek/quizai/internal/llm"
	"github.com/abhisek/quizai/internal/quizcache"
	"github.com/abhisek/quizai/internal/quizgen"
	"github.com/abhisek/quizai/internal/store"
	"github.com/abhisek/quizai/internal/telemetry"
)

// defaultCount matches the terminal UI's initial question count.
const defaultCount = 3

// Deps are the collaborators a Server needs.
type Deps struct {
	Provider llm.Provider
	Quiz     quizgen.Config

	// Cache is shared by all sessions; keys are prefixed with the session
	// ID and dropped with the session. Nil gets an in-memory cache.
	Cache *quizcache.Cache

	// Events records generations and serves /api/usage. May be nil.
	Events store.EventRepo

	// SessionTTL expires idle sessions. Zero keeps them.
	SessionTTL time.Duration

	// RateLimit caps API requests per client IP per minute. Zero disables it.
	RateLimit int
}

// Server is the HTTP API.
type Server struct {
	app    *fiber.App
	reg    *registry
	events store.EventRepo
	ttl    time.Duration
}

// New builds the fiber app and its routes.
func New(d Deps) *Server {
	cache := d.Cache
	if cache == nil {
		cache = quizcache.New(nil, quizcache.Options{
			FailureTTL: d.Quiz.FailureTTL,
			TTL:        d.SessionTTL,
		})
	}

	s := &Server{
		events: d.Events,
		ttl:    d.SessionTTL,
		reg: newRegistry(func(id string) *quizgen.LLMGenerator {
			return quizgen.New(d.Provider, d.Quiz,
				quizgen.WithCache(cache),
				quizgen.WithEventRepo(d.Events),
				quizgen.WithScope(id),
			)
		}),
	}

	s.reg.evict = s.forget

	app := fiber.New(fiber.Config{
		AppName:               "quizai",
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})

	app.Use(RequestID())
	app.Use(Recover())
	app.Use(RequestLog())
	app.Use(RateLimiter(d.RateLimit, time.Minute))

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	api := app.Group("/api")
	api.Get("/usage", s.usage)

	sessions := api.Group("/sessions")
	sessions.Post("/", s.createSession)
	sessions.Get("/:id", s.getSession)
	sessions.Delete("/:id", s.deleteSession)
	sessions.Post("/:id/quiz", s.startQuiz)
	sessions.Post("/:id/select", s.selectOption)
	sessions.Post("/:id/submit", s.submit)
	sessions.Post("/:id/next", s.next)
	sessions.Post("/:id/finish", s.finish)
	sessions.Post("/:id/restart", s.restart)
	sessions.Post("/:id/reset", s.reset)
	sessions.Post("/:id/refresh", s.refresh)

	s.app = app
	return s
}

// App returns the underlying fiber app.
func (s *Server) App() *fiber.App {
	return s.app
}

// Run serves on addr until ctx is done, sweeping idle sessions meanwhile.
func (s *Server) Run(ctx context.Context, addr string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if s.ttl > 0 {
		go s.sweepLoop(ctx, max(s.ttl/4, time.Minute))
	}

	errc := make(chan error, 1)
	go func() { errc <- s.app.Listen(addr) }()

	telemetry.L().Info().Str("addr", addr).Msg("http server listening")

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	if err := s.app.ShutdownWithContext(shutdownCtx); err != nil {
		return err
	}
	return <-errc
}

func (s *Server) sweepLoop(ctx context.Context, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := s.reg.sweep(s.ttl); n > 0 {
				telemetry.L().Info().Int("expired", n).Int("live", s.reg.count()).Msg("swept idle sessions")
			}
		}
	}
}

// forget drops the cache entries of a session that is gone. A generation
// still in flight for it may store one more entry; the cache TTL bounds it.
func (s *Server) forget(qs *quizSession) {
	if qs.gen == nil {
		return
	}
	if err := qs.gen.Forget(context.Background()); err != nil {
		telemetry.L().Warn().Err(err).Str("session_id", qs.id).Msg("failed to drop session cache")
	}
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	if code >= fiber.StatusInternalServerError {
		telemetry.L().Error().Err(err).Str("req_id", reqID(c)).Msg("request failed")
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}
