package command

import (
	"context"

	"github.com/atomicstack/ascm/internal/launch"
	"github.com/atomicstack/ascm/internal/logging/events"
	"github.com/atomicstack/ascm/internal/menu"
	tea "github.com/charmbracelet/bubbletea"
)

// Preparer resolves launch requests into runnable processes.
type Preparer interface {
	Prepare(ctx context.Context, req launch.Request) (*launch.Process, error)
}

// ResultMsg reports the outcome of a launched command.
type ResultMsg struct {
	Label string
	Mode  launch.Mode
	// Blocking marks the result of a command navigation was waiting for.
	Blocking bool
	Err      error
}

// Bus turns command entries into Bubble Tea commands.
type Bus struct {
	ctx        context.Context
	dispatcher *launch.Dispatcher
	launcher   Preparer

	// Exec hands the terminal to a foreground process. Defaults to tea.Exec.
	Exec func(tea.ExecCommand, tea.ExecCallback) tea.Cmd
}

// New initialises a command bus instance.
func New(ctx context.Context, dispatcher *launch.Dispatcher, launcher Preparer) *Bus {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Bus{ctx: ctx, dispatcher: dispatcher, launcher: launcher, Exec: tea.Exec}
}

// Execute returns the command that runs node, and whether navigation must
// wait for its result. Submenus and placeholders yield a nil command.
func (b *Bus) Execute(node *menu.Node) (tea.Cmd, bool) {
	req, ok := b.dispatcher.Request(node)
	if !ok {
		events.Command.Skip(node.Label)
		return nil, false
	}
	mode := req.Mode()
	events.Command.Queue(req.Label, mode.String())
	proc, err := b.launcher.Prepare(b.ctx, req)
	if err != nil {
		return func() tea.Msg { return result(req, false, err) }, false
	}
	switch mode {
	case launch.ModeForeground:
		return b.Exec(proc, func(err error) tea.Msg { return result(req, true, err) }), true
	case launch.ModeTerminal:
		return func() tea.Msg { return result(req, true, proc.Run()) }, true
	default:
		return func() tea.Msg { return result(req, false, proc.Run()) }, false
	}
}

func result(req launch.Request, blocking bool, err error) ResultMsg {
	events.Command.Result(req.Label, err)
	return ResultMsg{Label: req.Label, Mode: req.Mode(), Blocking: blocking, Err: err}
}
