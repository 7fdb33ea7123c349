package launch

import (
	"context"
	"errors"
	"testing"

	"github.com/atomicstack/ascm/internal/menu"
	"github.com/atomicstack/ascm/internal/nav"
)

type recordingLauncher struct {
	requests []Request
	err      error
}

func (r *recordingLauncher) Launch(_ context.Context, req Request) error {
	r.requests = append(r.requests, req)
	return r.err
}

func parse(t *testing.T, src string) *menu.Tree {
	t.Helper()
	tree, err := menu.Parse("test.menu", []byte(src))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	return tree
}

func TestNestedTerminalCommandDispatchesOnce(t *testing.T) {
	tree := parse(t, "Main\n    Sub\n        Item &&t  ls\n")
	m := nav.New(tree, nav.Policy{})
	d := NewDispatcher(EscalationSudo, nil)
	l := &recordingLauncher{}

	if out := m.Apply(nav.Select); !out.Pushed {
		t.Fatalf("expected first select to enter Sub")
	}
	out := m.Apply(nav.Select)
	if out.Command == nil {
		t.Fatalf("expected second select to yield a command")
	}
	if err := d.Dispatch(context.Background(), out.Command, l); err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}
	if len(l.requests) != 1 {
		t.Fatalf("expected exactly one request, got %d", len(l.requests))
	}
	req := l.requests[0]
	want := Request{Label: "Item", Template: "ls", Command: "ls", RunInTerminal: true}
	if req != want {
		t.Fatalf("expected %+v, got %+v", want, req)
	}
}

func TestRequestTranslatesAttributes(t *testing.T) {
	tree := parse(t, "Main\n    Up &&wr  apt-get update\n    Bg &&b  sleep 5\n")
	d := NewDispatcher(EscalationPkexec, nil)

	req, ok := d.Request(tree.Root.Children[0])
	if !ok {
		t.Fatalf("expected request")
	}
	if !req.WaitAfter || !req.Elevate || req.Detached || req.RunInTerminal {
		t.Fatalf("unexpected flags %+v", req)
	}
	if req.Command != "pkexec sh -c 'apt-get update'" {
		t.Fatalf("unexpected wrapped command %q", req.Command)
	}
	if req.Template != "apt-get update" {
		t.Fatalf("template must stay unwrapped, got %q", req.Template)
	}
	if req.Mode() != ModeForeground {
		t.Fatalf("expected foreground mode, got %v", req.Mode())
	}

	bg, _ := d.Request(tree.Root.Children[1])
	if !bg.Detached || bg.Mode() != ModeDetached {
		t.Fatalf("expected detached request, got %+v", bg)
	}
}

func TestPlaceholderAndSubmenuAreInert(t *testing.T) {
	tree := parse(t, "Main\n    Soon &&t\n    Sub\n")
	d := NewDispatcher("", nil)
	l := &recordingLauncher{}
	for _, node := range tree.Root.Children {
		if _, ok := d.Request(node); ok {
			t.Fatalf("%q must not produce a request", node.Label)
		}
		if err := d.Dispatch(context.Background(), node, l); err != nil {
			t.Fatalf("dispatch failed: %v", err)
		}
	}
	if len(l.requests) != 0 {
		t.Fatalf("expected no launches, got %d", len(l.requests))
	}
}

func TestDispatchSurfacesLauncherError(t *testing.T) {
	tree := parse(t, "Main\n    Fail &&  false\n")
	d := NewDispatcher("", nil)
	boom := &LaunchError{Label: "Fail", ExitCode: 1, Err: errors.New("exit status 1")}
	err := d.Dispatch(context.Background(), tree.Root.Children[0], &recordingLauncher{err: boom})
	var lerr *LaunchError
	if !errors.As(err, &lerr) || lerr.ExitCode != 1 {
		t.Fatalf("expected launch error, got %v", err)
	}
}

func TestEscalationWrap(t *testing.T) {
	cases := map[Escalation]string{
		EscalationSudo:   `sudo -- sh -c 'echo '\''hi'\'''`,
		EscalationSu:     `su -c 'echo '\''hi'\'''`,
		EscalationPkexec: `pkexec sh -c 'echo '\''hi'\'''`,
	}
	for esc, want := range cases {
		if got := esc.Wrap("echo 'hi'"); got != want {
			t.Fatalf("%s: expected %q, got %q", esc, want, got)
		}
	}
}

func TestParseEscalation(t *testing.T) {
	if e, err := ParseEscalation(""); err != nil || e != EscalationSudo {
		t.Fatalf("expected sudo default, got %q %v", e, err)
	}
	if e, err := ParseEscalation("PKEXEC"); err != nil || e != EscalationPkexec {
		t.Fatalf("expected pkexec, got %q %v", e, err)
	}
	if _, err := ParseEscalation("doas"); err == nil {
		t.Fatalf("expected error for unknown method")
	}
}
