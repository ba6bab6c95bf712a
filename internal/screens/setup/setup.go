package setup

import (
	"context"
	"math"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/quizai/internal/quizgen"
	"github.com/abhisek/quizai/internal/router"
	"github.com/abhisek/quizai/internal/screen"
	"github.com/abhisek/quizai/internal/screens/quiz"
	"github.com/abhisek/quizai/internal/session"
	"github.com/abhisek/quizai/internal/ui/components"
	"github.com/abhisek/quizai/internal/ui/layout"
)

const (
	defaultCount    = 3
	topicCharLimit  = 120
	spinnerInterval = 100 * time.Millisecond
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Generator is the part of quizgen.LLMGenerator the setup screen drives.
type Generator interface {
	GenerateDetailed(ctx context.Context, topic string, count int) (*quizgen.Result, error)
	RequestRefresh()
	RefreshPending() bool
	Config() quizgen.Config
}

type field int

const (
	fieldTopic field = iota
	fieldCount
	fieldStart
	fieldRefresh
	fieldHistory
)

// SetupScreen collects topic and question count and runs generation.
type SetupScreen struct {
	gen     Generator
	sess    *session.Session
	topic   components.TextInput
	count   components.Stepper
	focus   field
	loading bool
	spinner int
	notice  string
	history func() screen.Screen
}

// Option customizes a SetupScreen.
type Option func(*SetupScreen)

// WithHistory adds a "Histórico" button that pushes the screen built by f.
func WithHistory(f func() screen.Screen) Option {
	return func(s *SetupScreen) { s.history = f }
}

var _ screen.Screen = (*SetupScreen)(nil)
var _ screen.KeyHintProvider = (*SetupScreen)(nil)
var _ screen.StatusProvider = (*SetupScreen)(nil)
var _ screen.InputCapturer = (*SetupScreen)(nil)

// New creates the setup screen. sess is shared with the quiz screens.
func New(gen Generator, sess *session.Session, opts ...Option) *SetupScreen {
	s := &SetupScreen{
		gen:   gen,
		sess:  sess,
		topic: components.NewTextInput("ex.: redes de computadores", topicCharLimit),
		count: components.NewStepper("Número de questões", defaultCount, 1, gen.Config().ClampCount(math.MaxInt)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *SetupScreen) numFields() field {
	if s.history != nil {
		return fieldHistory + 1
	}
	return fieldHistory
}

func (s *SetupScreen) Init() tea.Cmd {
	s.loading = false
	return s.setFocus(s.focus)
}

func (s *SetupScreen) Title() string {
	return "Novo Quiz"
}

func (s *SetupScreen) Status() string {
	if s.gen.RefreshPending() {
		return "cache: atualização pendente"
	}
	return ""
}

func (s *SetupScreen) CapturingInput() bool {
	return s.focus == fieldTopic && !s.loading
}

func (s *SetupScreen) KeyHints() []layout.KeyHint {
	if s.loading {
		return []layout.KeyHint{{Key: "Ctrl+C", Description: "Sair"}}
	}
	hints := []layout.KeyHint{
		{Key: "Tab", Description: "Próximo campo"},
		{Key: "Enter", Description: "Confirmar"},
		{Key: "Ctrl+R", Description: "Atualizar cache"},
	}
	if s.focus == fieldCount {
		hints = append(hints, layout.KeyHint{Key: "←→", Description: "Ajustar"})
	}
	return hints
}

func (s *SetupScreen) setFocus(f field) tea.Cmd {
	s.focus = f
	s.count.Focused = f == fieldCount
	if f == fieldTopic {
		return s.topic.Focus()
	}
	s.topic.Blur()
	return nil
}

func (s *SetupScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case spinnerTickMsg:
		if !s.loading {
			return s, nil
		}
		s.spinner = (s.spinner + 1) % len(spinnerFrames)
		return s, spinnerTick()

	case quizReadyMsg:
		return s, s.handleQuizReady(msg)

	case tea.KeyPressMsg:
		if s.loading {
			return s, nil
		}
		return s, s.handleKey(msg)
	}

	if s.focus == fieldTopic && !s.loading {
		var cmd tea.Cmd
		s.topic, cmd = s.topic.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *SetupScreen) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+r":
		return s.refresh()
	case "tab", "down":
		return s.setFocus((s.focus + 1) % s.numFields())
	case "shift+tab", "up":
		return s.setFocus((s.focus + s.numFields() - 1) % s.numFields())
	case "enter":
		switch s.focus {
		case fieldTopic, fieldCount:
			return s.setFocus(s.focus + 1)
		case fieldStart:
			return s.start()
		case fieldRefresh:
			return s.refresh()
		case fieldHistory:
			next := s.history()
			return func() tea.Msg { return router.PushScreenMsg{Screen: next} }
		}
		return nil
	}

	switch s.focus {
	case fieldTopic:
		var cmd tea.Cmd
		s.topic, cmd = s.topic.Update(msg)
		return cmd
	case fieldCount:
		s.count = s.count.Update(msg)
	}
	return nil
}

func (s *SetupScreen) refresh() tea.Cmd {
	s.gen.RequestRefresh()
	s.notice = "Cache será atualizado na próxima execução"
	return nil
}

func (s *SetupScreen) start() tea.Cmd {
	s.loading = true
	s.spinner = 0
	s.notice = ""
	topic, count := s.topic.Value(), s.count.Value
	gen := s.gen
	return tea.Batch(spinnerTick(), func() tea.Msg {
		res, err := gen.GenerateDetailed(context.Background(), topic, count)
		return quizReadyMsg{Result: res, Err: err}
	})
}

func (s *SetupScreen) handleQuizReady(msg quizReadyMsg) tea.Cmd {
	s.loading = false
	if err := s.sess.Start(msg.Result.Quiz); err != nil {
		s.notice = err.Error()
		return nil
	}
	next := quiz.New(s.sess, quiz.Outcome{
		Topic:   msg.Result.Topic,
		Err:     msg.Err,
		Repairs: len(msg.Result.Repairs),
	})
	return func() tea.Msg { return router.PushScreenMsg{Screen: next} }
}

func spinnerTick() tea.Cmd {
	return tea.Tick(spinnerInterval, func(t time.Time) tea.Msg {
		return spinnerTickMsg(t)
	})
}
