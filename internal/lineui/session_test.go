package lineui

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/atomicstack/ascm/internal/launch"
	"github.com/atomicstack/ascm/internal/menu"
	"github.com/atomicstack/ascm/internal/nav"
	"github.com/atomicstack/ascm/internal/testutil"
)

const testMenu = `Main
    Tools
        Top &&t  top
        Update &&r  apt-get update
    Echo &&  echo hi
    Soon &&
`

type recordingLauncher struct {
	requests []launch.Request
	err      error
}

func (l *recordingLauncher) Launch(_ context.Context, req launch.Request) error {
	l.requests = append(l.requests, req)
	return l.err
}

func runSession(t *testing.T, input string, policy nav.Policy, l *recordingLauncher) (*Session, string) {
	t.Helper()
	tree, err := menu.Parse("test.menu", []byte(testMenu))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	var out bytes.Buffer
	s := New(Options{
		Tree:       tree,
		Policy:     policy,
		Dispatcher: launch.NewDispatcher(launch.EscalationPkexec, nil),
		Launcher:   l,
		In:         strings.NewReader(input),
		Out:        &out,
	})
	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	return s, out.String()
}

func TestSessionPrintsNumberedMenu(t *testing.T) {
	_, out := runSession(t, "", nav.Policy{}, &recordingLauncher{})
	for _, want := range []string{"Main\n", "> 1) Tools...", "  2) Echo", "  3) Soon (unavailable)"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestSessionRunsNumberedCommand(t *testing.T) {
	l := &recordingLauncher{}
	_, out := runSession(t, "1\n2\nb\n", nav.Policy{}, l)
	if len(l.requests) != 1 {
		t.Fatalf("expected one launch, got %d", len(l.requests))
	}
	want := launch.Request{
		Label:    "Update",
		Template: "apt-get update",
		Command:  "pkexec sh -c 'apt-get update'",
		Elevate:  true,
	}
	if l.requests[0] != want {
		t.Fatalf("expected %+v, got %+v", want, l.requests[0])
	}
	if !strings.Contains(out, "Main > Tools") {
		t.Fatalf("expected breadcrumb in output:\n%s", out)
	}
}

func TestSessionReportsFailureAndContinues(t *testing.T) {
	l := &recordingLauncher{err: &launch.LaunchError{Label: "Echo", ExitCode: 2, Err: errors.New("exit status 2")}}
	s, out := runSession(t, "2\n2\n", nav.Policy{ExitAfterCommand: true}, l)
	if len(l.requests) != 2 {
		t.Fatalf("expected the session to continue after a failure, got %d launches", len(l.requests))
	}
	if !strings.Contains(out, "Error: Echo: exited with status 2") {
		t.Fatalf("expected error line:\n%s", out)
	}
	if s.Machine().State() == nav.Exiting {
		t.Fatalf("failures must not end the session")
	}
}

func TestSessionExitAfterCommand(t *testing.T) {
	l := &recordingLauncher{}
	_, _ = runSession(t, "2\n2\n", nav.Policy{ExitAfterCommand: true}, l)
	if len(l.requests) != 1 {
		t.Fatalf("expected exit after the first command, got %d launches", len(l.requests))
	}
}

func TestSessionPlaceholderAndUnknownInput(t *testing.T) {
	l := &recordingLauncher{}
	_, out := runSession(t, "3\n9\nwhat\n?\n", nav.Policy{}, l)
	if len(l.requests) != 0 {
		t.Fatalf("expected nothing launched")
	}
	for _, want := range []string{"Soon has no command", "no entry 9", `unknown input "what"`, "Inputs:"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestSessionQuitStopsReading(t *testing.T) {
	l := &recordingLauncher{}
	s, _ := runSession(t, "q\n2\n", nav.Policy{}, l)
	if len(l.requests) != 0 {
		t.Fatalf("input after quit must be ignored")
	}
	if s.Machine().State() != nav.Exiting {
		t.Fatalf("expected exiting state")
	}
}

func TestSessionReload(t *testing.T) {
	path := testutil.WriteMenuFile(t, "Old\n    A &&  true\n")
	tree, err := menu.ParseFile(path)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	input := strings.NewReader("r\n")
	var out bytes.Buffer
	s := New(Options{Tree: tree, Path: path, In: input, Out: &out, Launcher: &recordingLauncher{}})
	if err := os.WriteFile(path, []byte("New\n    B &&  true\n"), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if got := s.Machine().Current().Label; got != "New" {
		t.Fatalf("expected reloaded root, got %q", got)
	}
	if !strings.Contains(out.String(), "1) B") {
		t.Fatalf("expected new entries listed:\n%s", out.String())
	}
}

func TestSessionCloseStopsRun(t *testing.T) {
	tree, err := menu.Parse("test.menu", []byte(testMenu))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	pr, pw := io.Pipe()
	defer pw.Close()
	s := New(Options{Tree: tree, In: pr, Out: &bytes.Buffer{}})
	done := make(chan error, 1)
	go func() { done <- s.Run(context.Background()) }()
	if err := s.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if err := <-done; err != nil {
		t.Fatalf("expected clean stop, got %v", err)
	}
}

// runWithShell runs a session whose commands share its input pipe, the way
// the terminal is shared in real use. It returns the menu output.
func runWithShell(t *testing.T, src, input string) string {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("skipping: sh not available")
	}
	tree, err := menu.Parse("test.menu", []byte(src))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	pr, pw, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe failed: %v", err)
	}
	t.Cleanup(func() { _ = pr.Close() })
	if _, err := io.WriteString(pw, input); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	_ = pw.Close()

	shell := launch.NewShell(launch.Options{Shell: "sh", Quiet: true}, nil)
	shell.Stdin = pr
	shell.Stdout = &bytes.Buffer{}
	shell.Stderr = &bytes.Buffer{}
	var out bytes.Buffer
	s := New(Options{
		Tree:       tree,
		Dispatcher: launch.NewDispatcher(launch.EscalationSudo, nil),
		Launcher:   shell,
		In:         pr,
		Out:        &out,
	})
	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	return out.String()
}

func TestForegroundCommandReadsItsOwnInput(t *testing.T) {
	log := filepath.Join(t.TempDir(), "log")
	src := "Main\n    Ask &&  read x; echo \"got=$x\" >> '" + log + "'\n"
	out := runWithShell(t, src, "1\nhello\nq\n")
	data, err := os.ReadFile(log)
	if err != nil {
		t.Fatalf("command did not run: %v", err)
	}
	if string(data) != "got=hello\n" {
		t.Fatalf("expected the command to read hello, got %q", data)
	}
	if strings.Contains(out, "unknown input") {
		t.Fatalf("menu consumed the command's input:\n%s", out)
	}
}

func TestWaitAcknowledgementDoesNotReselect(t *testing.T) {
	log := filepath.Join(t.TempDir(), "log")
	src := "Main\n    Ack &&w  echo ran >> '" + log + "'\n"
	runWithShell(t, src, "1\n\nq\n")
	data, err := os.ReadFile(log)
	if err != nil {
		t.Fatalf("command did not run: %v", err)
	}
	if string(data) != "ran\n" {
		t.Fatalf("expected exactly one run, got %q", data)
	}
}
