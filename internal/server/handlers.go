package server

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/abhisek/quizai/internal/quizgen"
	"github.com/abhisek/quizai/internal/session"
	"github.com/abhisek/quizai/internal/telemetry"
)

// invalidStateMessage is shown when only a hard reset can recover a session.
const invalidStateMessage = "Índice de questão inválido. Reinicie o quiz."

type startRequest struct {
	Topic string `json:"topic"`
	Count int    `json:"count"`
}

type selectRequest struct {
	Option string `json:"option"`
}

type sessionView struct {
	ID             string           `json:"id"`
	Topic          string           `json:"topic,omitempty"`
	Count          int              `json:"count,omitempty"`
	Session        session.Snapshot `json:"session"`
	Correct        *bool            `json:"correct,omitempty"`
	Error          string           `json:"error,omitempty"`
	Cleaned        string           `json:"cleaned,omitempty"`
	Repairs        []string         `json:"repairs,omitempty"`
	Placeholders   int              `json:"placeholders"`
	RefreshPending bool             `json:"refresh_pending"`
	Generating     bool             `json:"generating"`
}

// view renders qs. The caller holds qs.mu.
func view(qs *quizSession) sessionView {
	v := sessionView{
		ID:             qs.id,
		Topic:          qs.topic,
		Count:          qs.count,
		Session:        qs.sess.Snapshot(),
		Placeholders:   qs.sess.Quiz().Placeholders(),
		RefreshPending: qs.gen.RefreshPending(),
		Generating:     qs.generating,
	}
	if qs.lastErr != nil {
		v.Error = qs.lastErr.Error()
		var pe *quizgen.ParseError
		if errors.As(qs.lastErr, &pe) {
			v.Cleaned = pe.Cleaned
		}
	}
	for _, r := range qs.repairs {
		v.Repairs = append(v.Repairs, r.String())
	}
	return v
}

// transitionError maps session errors to HTTP responses.
func transitionError(c *fiber.Ctx, qs *quizSession, err error) error {
	switch {
	case errors.Is(err, session.ErrInvalidState):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":   invalidStateMessage,
			"code":    "invalid_state",
			"detail":  err.Error(),
			"session": view(qs),
		})
	case errors.Is(err, session.ErrInvalidTransition):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":   err.Error(),
			"code":    "invalid_transition",
			"session": view(qs),
		})
	case errors.Is(err, session.ErrEmptyQuiz):
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	}
	return err
}

// lookup fetches the session named by the :id route parameter.
func (s *Server) lookup(c *fiber.Ctx) (*quizSession, error) {
	qs, ok := s.reg.get(c.Params("id"))
	if !ok {
		return nil, fiber.NewError(fiber.StatusNotFound, "session not found")
	}
	return qs, nil
}

// withSession runs fn under the session lock and answers with the view.
func (s *Server) withSession(c *fiber.Ctx, fn func(qs *quizSession) error) error {
	qs, err := s.lookup(c)
	if err != nil {
		return err
	}
	qs.mu.Lock()
	defer qs.mu.Unlock()

	if err := fn(qs); err != nil {
		return transitionError(c, qs, err)
	}
	return c.JSON(view(qs))
}

func (s *Server) createSession(c *fiber.Ctx) error {
	var req startRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	qs := s.reg.create()
	telemetry.L().Info().Str("session_id", qs.id).Str("req_id", reqID(c)).Msg("session created")

	if req.Topic != "" || req.Count != 0 {
		if err := s.generate(c, qs, req); err != nil {
			return s.fail(c, qs, err)
		}
	}
	qs.mu.Lock()
	defer qs.mu.Unlock()
	return c.Status(fiber.StatusCreated).JSON(view(qs))
}

func (s *Server) getSession(c *fiber.Ctx) error {
	return s.withSession(c, func(*quizSession) error { return nil })
}

func (s *Server) deleteSession(c *fiber.Ctx) error {
	if !s.reg.remove(c.Params("id")) {
		return fiber.NewError(fiber.StatusNotFound, "session not found")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) startQuiz(c *fiber.Ctx) error {
	qs, err := s.lookup(c)
	if err != nil {
		return err
	}
	var req startRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := s.generate(c, qs, req); err != nil {
		return s.fail(c, qs, err)
	}
	qs.mu.Lock()
	defer qs.mu.Unlock()
	return c.JSON(view(qs))
}

// generate fetches a quiz and starts it. The session lock is released during
// the provider call; concurrent starts on one session get 409. Generation
// failures are not errors here: the placeholder quiz starts and the failure
// is reported in the view.
func (s *Server) generate(c *fiber.Ctx, qs *quizSession, req startRequest) error {
	if req.Count == 0 {
		req.Count = defaultCount
	}

	qs.mu.Lock()
	if qs.generating {
		qs.mu.Unlock()
		return fiber.NewError(fiber.StatusConflict, "quiz generation already in progress")
	}
	if qs.sess.State() == session.StateInvalid {
		qs.mu.Unlock()
		return fmt.Errorf("start: %w", session.ErrInvalidState)
	}
	qs.generating = true
	qs.mu.Unlock()

	res, genErr := qs.gen.GenerateDetailed(c.UserContext(), req.Topic, req.Count)

	qs.mu.Lock()
	defer qs.mu.Unlock()
	qs.generating = false
	qs.topic = res.Topic
	qs.count = res.Count
	qs.lastErr = genErr
	qs.repairs = res.Repairs

	if genErr != nil {
		telemetry.L().Warn().Err(genErr).Str("session_id", qs.id).Msg("quiz generation degraded")
	}
	return qs.sess.Start(res.Quiz)
}

// fail answers with err, rendering session errors with the session view.
func (s *Server) fail(c *fiber.Ctx, qs *quizSession, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return err
	}
	qs.mu.Lock()
	defer qs.mu.Unlock()
	return transitionError(c, qs, err)
}

func (s *Server) selectOption(c *fiber.Ctx) error {
	var req selectRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if req.Option == "" {
		return fiber.NewError(fiber.StatusBadRequest, "option is required")
	}
	return s.withSession(c, func(qs *quizSession) error {
		return qs.sess.Select(req.Option)
	})
}

func (s *Server) submit(c *fiber.Ctx) error {
	qs, err := s.lookup(c)
	if err != nil {
		return err
	}
	qs.mu.Lock()
	defer qs.mu.Unlock()

	correct, err := qs.sess.Submit()
	if err != nil {
		return transitionError(c, qs, err)
	}
	v := view(qs)
	v.Correct = &correct
	return c.JSON(v)
}

func (s *Server) next(c *fiber.Ctx) error {
	return s.withSession(c, func(qs *quizSession) error { return qs.sess.Next() })
}

func (s *Server) finish(c *fiber.Ctx) error {
	return s.withSession(c, func(qs *quizSession) error { return qs.sess.Finish() })
}

func (s *Server) restart(c *fiber.Ctx) error {
	return s.withSession(c, func(qs *quizSession) error { return qs.sess.Restart() })
}

func (s *Server) reset(c *fiber.Ctx) error {
	return s.withSession(c, func(qs *quizSession) error {
		qs.sess.Reset()
		qs.lastErr = nil
		qs.repairs = nil
		return nil
	})
}

func (s *Server) refresh(c *fiber.Ctx) error {
	return s.withSession(c, func(qs *quizSession) error {
		qs.gen.RequestRefresh()
		return nil
	})
}

func (s *Server) usage(c *fiber.Ctx) error {
	if s.events == nil {
		return fiber.NewError(fiber.StatusNotFound, "diagnostics store disabled")
	}
	ctx := c.UserContext()
	byPurpose, err := s.events.LLMUsageByPurpose(ctx)
	if err != nil {
		return err
	}
	byModel, err := s.events.LLMUsageByModel(ctx)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"by_purpose": byPurpose, "by_model": byModel, "sessions": s.reg.count()})
}

func parseBody(c *fiber.Ctx, dst any) error {
	if len(c.Body()) == 0 {
		return nil
	}
	if err := c.BodyParser(dst); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body: "+err.Error())
	}
	return nil
}
