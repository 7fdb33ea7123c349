package launch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"sync/atomic"

	"github.com/atomicstack/ascm/internal/logging/events"
	"github.com/atomicstack/ascm/internal/tmux"
)

const (
	defaultShell = "/bin/sh"
	separator    = "____________________________________________________________"
	holdPrompt   = "... press <Enter> to return"
)

// Options configures a Shell launcher.
type Options struct {
	// Shell runs every command with -c. Defaults to /bin/sh.
	Shell string
	// Terminal is the preferred emulator, or "tmux" for popups. Empty
	// discovers one from DefaultTerminals, or uses tmux when inside it.
	Terminal     string
	TerminalArgs []string
	Icon         string
	// SocketPath is the tmux server used for popups.
	SocketPath string
	Tmux       tmux.Env
	// Quiet drops the separator printed before foreground output.
	Quiet bool
}

// Shell launches requests as processes on the local machine.
type Shell struct {
	opts   Options
	logger *slog.Logger

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	lookPath func(string) (string, error)
	clientID func(socketPath, pane string) string
}

// NewShell builds a launcher wired to the process's standard streams.
func NewShell(opts Options, logger *slog.Logger) *Shell {
	if opts.Shell == "" {
		opts.Shell = defaultShell
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Shell{
		opts:     opts,
		logger:   logger,
		Stdin:    os.Stdin,
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
		lookPath: exec.LookPath,
		clientID: tmux.CurrentClientID,
	}
}

// Launch runs req to completion using the shell's standard streams.
func (s *Shell) Launch(ctx context.Context, req Request) error {
	p, err := s.Prepare(ctx, req)
	if err != nil {
		return err
	}
	p.SetStdin(s.Stdin)
	p.SetStdout(s.Stdout)
	p.SetStderr(s.Stderr)
	return p.Run()
}

// Prepare resolves the command line for req without starting anything.
func (s *Shell) Prepare(ctx context.Context, req Request) (*Process, error) {
	argv := []string{s.opts.Shell, "-c", req.Command}
	if req.RunInTerminal {
		var err error
		if argv, err = s.terminalArgv(req); err != nil {
			return nil, &LaunchError{Label: req.Label, Command: req.Command, ExitCode: -1, Err: err}
		}
	}
	return &Process{
		ctx:    ctx,
		req:    req,
		mode:   req.Mode(),
		argv:   argv,
		quiet:  s.opts.Quiet,
		logger: s.logger,
	}, nil
}

func (s *Shell) terminalArgv(req Request) ([]string, error) {
	script := req.Command
	if req.WaitAfter {
		script += "; printf '\\n%s ' " + shellQuote(holdPrompt) + "; read _"
	}
	if s.usePopup() {
		socket, err := tmux.ResolveSocketPath(s.opts.SocketPath, s.opts.Tmux)
		if err != nil {
			s.logger.Debug("tmux socket not resolved, using default server", "error", err)
			socket = s.opts.SocketPath
		}
		popup := tmux.Popup{
			SocketPath: socket,
			Client:     s.clientID(socket, s.opts.Tmux.TMUXPane),
			Title:      req.Label,
			Script:     script,
		}
		return append([]string{"tmux"}, popup.Args()...), nil
	}
	candidates := DefaultTerminals
	if s.opts.Terminal != "" {
		candidates = append([]string{s.opts.Terminal}, DefaultTerminals...)
	}
	path, err := findTerminal(candidates, s.lookPath)
	if err != nil {
		return nil, err
	}
	term := Terminal{Path: path, Args: s.opts.TerminalArgs, Icon: s.opts.Icon}
	return term.Argv(req.Label, s.opts.Shell, script), nil
}

func (s *Shell) usePopup() bool {
	if s.opts.Terminal == TmuxTerminal {
		return true
	}
	return s.opts.Terminal == "" && s.opts.Tmux.Inside()
}

// foreground counts running foreground commands.
var foreground atomic.Int32

// ForegroundRunning reports whether a foreground command currently has the
// terminal.
func ForegroundRunning() bool {
	return foreground.Load() > 0
}

// Process is a prepared launch. It satisfies Bubble Tea's ExecCommand so a
// full-screen frontend can hand over the terminal while it runs.
type Process struct {
	ctx    context.Context
	req    Request
	mode   Mode
	argv   []string
	quiet  bool
	logger *slog.Logger

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func (p *Process) SetStdin(r io.Reader)  { p.stdin = r }
func (p *Process) SetStdout(w io.Writer) { p.stdout = w }
func (p *Process) SetStderr(w io.Writer) { p.stderr = w }

// Argv returns the command line that Run executes.
func (p *Process) Argv() []string {
	return append([]string(nil), p.argv...)
}

// Mode returns how the process will be run.
func (p *Process) Mode() Mode {
	return p.mode
}

// Run executes the process. Detached processes return as soon as they have
// started and are reaped in the background.
func (p *Process) Run() error {
	events.Launch.Start(p.req.Label, p.mode.String(), p.argv)
	p.logger.Info("launching command", "label", p.req.Label, "mode", p.mode.String(), "argv", p.argv)

	var cmd *exec.Cmd
	if p.mode == ModeDetached {
		// Not bound to ctx: background commands outlive the menu.
		cmd = exec.Command(p.argv[0], p.argv[1:]...)
		detach(cmd)
		if err := cmd.Start(); err != nil {
			return p.fail(-1, err)
		}
		go func() {
			err := cmd.Wait()
			p.logger.Debug("background command finished", "label", p.req.Label, "error", err)
		}()
		return nil
	}

	ctx := p.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	cmd = exec.CommandContext(ctx, p.argv[0], p.argv[1:]...)
	if p.mode == ModeForeground {
		if p.stdout != nil && !p.quiet {
			fmt.Fprintln(p.stdout, separator)
		}
		cmd.Stdin = p.stdin
		cmd.Stdout = p.stdout
		cmd.Stderr = p.stderr
		foreground.Add(1)
	}
	err := cmd.Run()
	if p.mode == ModeForeground {
		foreground.Add(-1)
		if p.req.WaitAfter {
			p.hold()
		}
	}
	if err != nil {
		code := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code = exitErr.ExitCode()
		}
		return p.fail(code, err)
	}
	events.Launch.Exit(p.req.Label, 0)
	return nil
}

func (p *Process) hold() {
	if p.stdout != nil {
		fmt.Fprintf(p.stdout, "\n%s ", holdPrompt)
	}
	if p.stdin != nil {
		awaitNewline(p.stdin)
	}
}

// awaitNewline consumes input up to the next newline. It reads byte by byte
// so a shared input keeps everything after the acknowledgement.
func awaitNewline(r io.Reader) {
	var b [1]byte
	for {
		n, err := r.Read(b[:])
		if (n > 0 && b[0] == '\n') || err != nil {
			return
		}
	}
}

func (p *Process) fail(code int, err error) error {
	lerr := &LaunchError{Label: p.req.Label, Command: p.req.Command, ExitCode: code, Err: err}
	events.Launch.Error(p.req.Label, lerr)
	p.logger.Warn("command failed", "label", p.req.Label, "exit", code, "error", err)
	return lerr
}

// String renders the command line for display.
func (p *Process) String() string {
	return strings.Join(p.argv, " ")
}
