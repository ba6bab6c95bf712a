package app

import (
	"fmt"
	"os"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizai/internal/datefmt"
	"github.com/abhisek/quizai/internal/router"
	"github.com/abhisek/quizai/internal/screen"
	"github.com/abhisek/quizai/internal/screens/history"
	"github.com/abhisek/quizai/internal/screens/setup"
	"github.com/abhisek/quizai/internal/screens/welcome"
	"github.com/abhisek/quizai/internal/session"
	"github.com/abhisek/quizai/internal/store"
	"github.com/abhisek/quizai/internal/telemetry"
	"github.com/abhisek/quizai/internal/ui/layout"
)

// Options holds dependencies for the app.
type Options struct {
	Generator setup.Generator
	Clock     datefmt.Clock

	// Events backs the history screen. Nil hides it.
	Events store.EventRepo

	// SkipWelcome opens the setup screen directly.
	SkipWelcome bool
}

type clockTickMsg time.Time

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	clock  datefmt.Clock
	now    string
	width  int
	height int
}

// newAppModel creates a new AppModel over one shared quiz session.
func newAppModel(opts Options) AppModel {
	sess := session.New()
	var setupOpts []setup.Option
	if opts.Events != nil {
		setupOpts = append(setupOpts, setup.WithHistory(func() screen.Screen {
			return history.New(opts.Events, opts.Clock.Formatter)
		}))
	}
	newSetup := func() screen.Screen { return setup.New(opts.Generator, sess, setupOpts...) }

	var root screen.Screen
	if opts.SkipWelcome {
		root = newSetup()
	} else {
		root = welcome.New(newSetup)
	}
	return AppModel{
		router: router.New(root),
		clock:  opts.Clock,
		now:    opts.Clock.String(),
	}
}

func clockTick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return clockTickMsg(t)
	})
}

func (m AppModel) Init() tea.Cmd {
	var rootInit tea.Cmd
	if active := m.router.Active(); active != nil {
		rootInit = active.Init()
	}
	return tea.Batch(rootInit, clockTick())
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case clockTickMsg:
		m.now = m.clock.String()
		return m, clockTick()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.capturing() {
				break
			}
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) capturing() bool {
	c, ok := m.router.Active().(screen.InputCapturer)
	return ok && c.CapturingInput()
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}
	v.SetContent(m.render())
	return v
}

// render draws the whole frame for the current terminal size.
func (m AppModel) render() string {
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title, status := "", ""
	if active != nil {
		title = active.Title()
		if sp, ok := active.(screen.StatusProvider); ok {
			status = sp.Status()
		}
	}
	header := layout.RenderHeader(title, status, m.width)

	var footerHints []layout.KeyHint
	if kp, ok := active.(screen.KeyHintProvider); ok {
		footerHints = kp.KeyHints()
	}
	footerHints = append(footerHints, layout.KeyHint{Key: "Ctrl+C", Description: "Sair"})
	footer := layout.RenderFooter(footerHints, m.now, m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	content := m.router.View(m.width, contentHeight)

	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	if _, err := p.Run(); err != nil {
		telemetry.L().Error().Err(err).Msg("tui exited with error")
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
