package server

import (
	"runtime/debug"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/google/uuid"

	"github.com/abhisek/quizai/internal/telemetry"
)

// ReqIDKey is the fiber.Locals key holding the request ID.
const ReqIDKey = "reqID"

// RequestID tags every request with X-Request-ID, generating one if absent.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rid := c.Get("X-Request-ID")
		if rid == "" {
			rid = uuid.New().String()
		}
		c.Set("X-Request-ID", rid)
		c.Locals(ReqIDKey, rid)
		return c.Next()
	}
}

// RequestLog logs one line per request.
func RequestLog() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		telemetry.L().Info().
			Str("req_id", reqID(c)).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", c.Response().StatusCode()).
			Dur("elapsed", time.Since(start)).
			Str("ip", c.IP()).
			Msg("request")
		return err
	}
}

// Recover turns panics into 500 responses.
func Recover() fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				telemetry.L().Error().
					Str("req_id", reqID(c)).
					Interface("panic", r).
					Str("stack", string(debug.Stack())).
					Msg("panic: recovered")
				err = c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
			}
		}()
		return c.Next()
	}
}

// RateLimiter caps requests per client IP. max <= 0 disables it.
func RateLimiter(max int, window time.Duration) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "rate limit exceeded",
			})
		},
		Next: func(c *fiber.Ctx) bool {
			return max <= 0 || !strings.HasPrefix(c.Path(), "/api/")
		},
	})
}

func reqID(c *fiber.Ctx) string {
	rid, _ := c.Locals(ReqIDKey).(string)
	return rid
}
