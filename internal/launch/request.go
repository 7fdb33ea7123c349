// Package launch turns selected menu commands into launch requests and runs
// them as operating system processes.
package launch

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/atomicstack/ascm/internal/menu"
)

// Escalation names the helper used for entries with root privileges.
type Escalation string

const (
	EscalationSudo   Escalation = "sudo"
	EscalationSu     Escalation = "su"
	EscalationPkexec Escalation = "pkexec"
)

// ParseEscalation validates an escalation name. Empty selects sudo.
func ParseEscalation(name string) (Escalation, error) {
	switch e := Escalation(strings.ToLower(strings.TrimSpace(name))); e {
	case "":
		return EscalationSudo, nil
	case EscalationSudo, EscalationSu, EscalationPkexec:
		return e, nil
	default:
		return "", fmt.Errorf("unknown escalation method %q (want sudo, su or pkexec)", name)
	}
}

// Wrap returns command as run through the escalation helper.
func (e Escalation) Wrap(command string) string {
	quoted := shellQuote(command)
	switch e {
	case EscalationSu:
		return "su -c " + quoted
	case EscalationPkexec:
		return "pkexec sh -c " + quoted
	default:
		return "sudo -- sh -c " + quoted
	}
}

// Mode is how a request is executed relative to the menu.
type Mode int

const (
	// ModeForeground runs attached to the invoking terminal.
	ModeForeground Mode = iota
	// ModeTerminal runs in a new terminal window and blocks until it closes.
	ModeTerminal
	// ModeDetached starts the process and returns immediately.
	ModeDetached
)

func (m Mode) String() string {
	switch m {
	case ModeForeground:
		return "foreground"
	case ModeTerminal:
		return "terminal"
	case ModeDetached:
		return "detached"
	default:
		return "unknown"
	}
}

// Request is a single execution request.
type Request struct {
	Label string
	// Template is the command as written in the menu file.
	Template string
	// Command is the effective shell command, escalation included.
	Command       string
	RunInTerminal bool
	WaitAfter     bool
	Detached      bool
	Elevate       bool
}

// Mode derives the execution mode from the request flags.
func (r Request) Mode() Mode {
	switch {
	case r.Detached:
		return ModeDetached
	case r.RunInTerminal:
		return ModeTerminal
	default:
		return ModeForeground
	}
}

// Launcher executes launch requests. For blocking modes Launch returns once
// the process has exited.
type Launcher interface {
	Launch(ctx context.Context, req Request) error
}

// Dispatcher translates command entries into launch requests.
type Dispatcher struct {
	Escalation Escalation
	logger     *slog.Logger
}

// NewDispatcher builds a dispatcher using esc for elevated entries.
func NewDispatcher(esc Escalation, logger *slog.Logger) *Dispatcher {
	if esc == "" {
		esc = EscalationSudo
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Dispatcher{Escalation: esc, logger: logger}
}

// Request builds the launch request for node. It reports false for
// submenus and placeholder entries, which launch nothing.
func (d *Dispatcher) Request(node *menu.Node) (Request, bool) {
	if !node.IsCommand() || node.IsPlaceholder() {
		return Request{}, false
	}
	attrs := node.Attributes
	req := Request{
		Label:         node.Label,
		Template:      node.Command,
		Command:       node.Command,
		RunInTerminal: attrs.Terminal,
		WaitAfter:     attrs.Wait,
		Detached:      attrs.Background,
		Elevate:       attrs.Root,
	}
	if req.Elevate {
		req.Command = d.Escalation.Wrap(req.Command)
	}
	return req, true
}

// Dispatch hands the request for node to l. Placeholders are a no-op.
func (d *Dispatcher) Dispatch(ctx context.Context, node *menu.Node, l Launcher) error {
	req, ok := d.Request(node)
	if !ok {
		d.logger.Debug("nothing to launch", "label", node.Label)
		return nil
	}
	d.logger.Info("dispatching command", "label", req.Label, "mode", req.Mode().String(), "elevate", req.Elevate)
	return l.Launch(ctx, req)
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
