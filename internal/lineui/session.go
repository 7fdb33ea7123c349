package lineui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/atomicstack/ascm/internal/launch"
	"github.com/atomicstack/ascm/internal/logging/events"
	"github.com/atomicstack/ascm/internal/menu"
	"github.com/atomicstack/ascm/internal/nav"
)

// Options configures a Session.
type Options struct {
	Tree       *menu.Tree
	Path       string
	Policy     nav.Policy
	Dispatcher *launch.Dispatcher
	Launcher   launch.Launcher
	In         io.Reader
	Out        io.Writer
	Width      int
	Logger     *slog.Logger
}

// Session runs a menu over plain line input and output.
type Session struct {
	machine    *nav.Machine
	path       string
	dispatcher *launch.Dispatcher
	launcher   launch.Launcher
	reader     *Reader
	printer    *Printer
	logger     *slog.Logger

	closeOnce sync.Once
	done      chan struct{}
}

type readResult struct {
	in  Input
	err error
}

// New builds a session positioned at the root of opts.Tree.
func New(opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	dispatcher := opts.Dispatcher
	if dispatcher == nil {
		dispatcher = launch.NewDispatcher(launch.EscalationSudo, logger)
	}
	printer := NewPrinter(opts.Out)
	printer.Width = opts.Width
	return &Session{
		machine:    nav.New(opts.Tree, opts.Policy),
		path:       opts.Path,
		dispatcher: dispatcher,
		launcher:   opts.Launcher,
		reader:     NewReader(opts.In),
		printer:    printer,
		logger:     logger,
		done:       make(chan struct{}),
	}
}

// Machine exposes the navigation state.
func (s *Session) Machine() *nav.Machine {
	return s.machine
}

// Run reads inputs until the user quits, the input ends, ctx is cancelled or
// Close is called.
func (s *Session) Run(ctx context.Context) error {
	defer s.Close()
	// Lines are read only on request, so nothing is pending on the input
	// while a command runs.
	requests := make(chan struct{}, 1)
	inputs := make(chan readResult)
	go func() {
		defer close(inputs)
		for {
			select {
			case <-requests:
			case <-s.done:
				return
			}
			in, err := s.reader.Next()
			select {
			case inputs <- readResult{in: in, err: err}:
			case <-s.done:
				return
			}
			if err != nil {
				return
			}
		}
	}()

	s.printer.Menu(s.machine)
	for {
		s.printer.Prompt()
		requests <- struct{}{}
		var res readResult
		select {
		case <-ctx.Done():
			events.App.Shutdown("interrupted")
			return nil
		case <-s.done:
			return nil
		case r, ok := <-inputs:
			if !ok {
				return nil
			}
			res = r
		}
		if errors.Is(res.err, io.EOF) {
			events.App.Shutdown("end of input")
			return nil
		}
		if res.err != nil {
			return fmt.Errorf("read input: %w", res.err)
		}
		if s.handle(ctx, res.in) {
			return nil
		}
	}
}

// Close stops a running session.
func (s *Session) Close() error {
	s.closeOnce.Do(func() { close(s.done) })
	return nil
}

// handle applies one input and reports whether the session is over.
func (s *Session) handle(ctx context.Context, in Input) bool {
	switch {
	case in.Unknown:
		s.printer.Info(fmt.Sprintf("unknown input %q, type ? for help", in.Raw))
		return false
	case in.Action == ActionReload:
		s.reload()
		s.printer.Menu(s.machine)
		return false
	case in.Action == ActionRedraw:
		s.printer.Menu(s.machine)
		return false
	}
	if in.Index >= 0 && !s.machine.Focus(in.Index) && s.machine.Selected() != in.Index {
		s.printer.Info(fmt.Sprintf("no entry %d", in.Index+1))
		return false
	}
	out := s.machine.Apply(in.Event)
	switch {
	case s.machine.State() == nav.Exiting:
		events.App.Shutdown("quit")
		return true
	case out.Help:
		s.printer.Help()
	case out.Command != nil:
		if s.run(ctx, out.Command) {
			return true
		}
		s.printer.Menu(s.machine)
	case out.Pushed || out.Popped || out.Changed:
		s.printer.Menu(s.machine)
	case in.Event == nav.Select:
		if node := s.machine.SelectedNode(); node == nil {
			s.printer.Info("nothing to select")
		}
	}
	return false
}

func (s *Session) run(ctx context.Context, node *menu.Node) bool {
	if node.IsPlaceholder() {
		s.printer.Info(fmt.Sprintf("%s has no command", node.Label))
		return false
	}
	if s.launcher == nil {
		s.printer.Info(fmt.Sprintf("%s: no launcher configured", node.Label))
		return false
	}
	err := s.dispatcher.Dispatch(ctx, node, s.launcher)
	if err != nil {
		s.logger.Warn("command failed", "label", node.Label, "error", err)
		s.printer.Error(err)
	} else if node.Attributes.Background {
		s.printer.Info(fmt.Sprintf("Started %s", node.Label))
	}
	s.machine.Complete(err)
	if s.machine.State() == nav.Exiting {
		events.App.Shutdown("command completed")
		return true
	}
	return false
}

func (s *Session) reload() {
	if s.path == "" {
		s.printer.Info("no menu file to reload")
		return
	}
	tree, err := menu.ParseFile(s.path)
	if err != nil {
		events.Menu.ReloadFailed(s.path, err)
		s.logger.Warn("menu reload failed", "path", s.path, "error", err)
		s.printer.Error(fmt.Errorf("reload failed: %w", err))
		return
	}
	s.machine.Reset(tree)
	events.Menu.Loaded(s.path, tree.Title(), tree.Count())
	s.printer.Info("Reloaded " + s.path)
}
