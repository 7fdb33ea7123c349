// Package app selects a frontend for the menu and runs it until the user
// quits or the process is interrupted.
package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/atomicstack/ascm/internal/backend"
	"github.com/atomicstack/ascm/internal/launch"
	"github.com/atomicstack/ascm/internal/lineui"
	"github.com/atomicstack/ascm/internal/logging/events"
	"github.com/atomicstack/ascm/internal/menu"
	"github.com/atomicstack/ascm/internal/nav"
	"github.com/atomicstack/ascm/internal/ui"
	"github.com/atomicstack/ascm/internal/ui/command"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"
)

// Frontend names a user interface implementation.
type Frontend string

const (
	FrontendAuto Frontend = "auto"
	FrontendTUI  Frontend = "tui"
	FrontendLine Frontend = "line"
)

// Config describes user-provided application options.
type Config struct {
	MenuFile         string
	Frontend         Frontend
	Width            int
	Height           int
	ShowFooter       bool
	Clamp            bool
	ExitAfterCommand bool
	Escalation       launch.Escalation
	Editor           string
	ReloadInterval   time.Duration
	Launch           launch.Options
}

func (c Config) policy() nav.Policy {
	return nav.Policy{Clamp: c.Clamp, ExitAfterCommand: c.ExitAfterCommand}
}

// Session is a running frontend.
type Session interface {
	Run(ctx context.Context) error
	Close() error
}

var (
	stdin  io.Reader = os.Stdin
	stdout io.Writer = os.Stdout

	isTerminal = func() bool {
		return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
	}
)

// Resolve picks the concrete frontend; auto means the full-screen UI when
// attached to a terminal.
func Resolve(f Frontend, tty bool) Frontend {
	if f == FrontendAuto || f == "" {
		if tty {
			return FrontendTUI
		}
		return FrontendLine
	}
	return f
}

// Run executes the menu in the configured frontend. Cancelling ctx closes
// the session and Run returns nil.
func Run(ctx context.Context, cfg Config, tree *menu.Tree, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	hooks := &shutdownHooks{}
	defer hooks.run()

	frontend := Resolve(cfg.Frontend, isTerminal())
	events.App.Frontend(string(cfg.Frontend), string(frontend))
	logger.Info("starting frontend", "frontend", string(frontend), "menu", cfg.MenuFile)

	dispatcher := launch.NewDispatcher(cfg.Escalation, logger)
	shell := launch.NewShell(cfg.Launch, logger)

	var sess Session
	switch frontend {
	case FrontendLine:
		shell.Stdin = stdin
		shell.Stdout = stdout
		sess = lineui.New(lineui.Options{
			Tree:       tree,
			Path:       cfg.MenuFile,
			Policy:     cfg.policy(),
			Dispatcher: dispatcher,
			Launcher:   shell,
			In:         stdin,
			Out:        stdout,
			Width:      cfg.Width,
			Logger:     logger,
		})
	default:
		var watcher *backend.Watcher
		if cfg.ReloadInterval > 0 && cfg.MenuFile != "" {
			watcher = backend.NewWatcher(cfg.MenuFile, cfg.ReloadInterval)
			hooks.add(watcher.Stop)
		}
		model := ui.NewModel(ui.Options{
			Tree:       tree,
			Path:       cfg.MenuFile,
			Policy:     cfg.policy(),
			Width:      cfg.Width,
			Height:     cfg.Height,
			ShowFooter: cfg.ShowFooter,
			Bus:        command.New(ctx, dispatcher, shell),
			Watcher:    watcher,
			Editor:     cfg.Editor,
			Logger:     logger,
		})
		sess = &tuiSession{program: tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))}
	}
	hooks.add(func() { _ = sess.Close() })
	stop := context.AfterFunc(ctx, func() {
		events.App.Shutdown("interrupted")
		hooks.run()
	})
	defer stop()

	return sess.Run(ctx)
}

type tuiSession struct {
	program *tea.Program
}

func (s *tuiSession) Run(context.Context) error {
	_, err := s.program.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}

func (s *tuiSession) Close() error {
	s.program.Quit()
	return nil
}

// shutdownHooks runs registered cleanups exactly once.
type shutdownHooks struct {
	mu   sync.Mutex
	fns  []func()
	once sync.Once
}

func (h *shutdownHooks) add(fn func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.fns = append(h.fns, fn)
}

func (h *shutdownHooks) run() {
	h.once.Do(func() {
		h.mu.Lock()
		fns := h.fns
		h.mu.Unlock()
		for i := len(fns) - 1; i >= 0; i-- {
			fns[i]()
		}
	})
}
