package ui

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/atomicstack/ascm/internal/backend"
	"github.com/atomicstack/ascm/internal/menu"
	"github.com/atomicstack/ascm/internal/nav"
	"github.com/atomicstack/ascm/internal/testutil"
)

func newFileModel(t *testing.T, path string, w *backend.Watcher) *Harness {
	t.Helper()
	tree, err := menu.ParseFile(path)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	return NewHarness(NewModel(Options{Tree: tree, Path: path, Watcher: w, Policy: nav.Policy{}}))
}

func TestReloadKeyPicksUpChanges(t *testing.T) {
	path := testutil.WriteMenuFile(t, testMenu)
	h := newFileModel(t, path, nil)
	h.Key("enter")
	if err := os.WriteFile(path, []byte(testMenu+"    Fresh &&  true\n"), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	h.Key("r")
	view := plainView(h)
	if !strings.Contains(view, "Reloaded") {
		t.Fatalf("expected reload notice, got:\n%s", view)
	}
	if h.Model().Machine().Breadcrumb("/") != "Main/Tools" {
		t.Fatalf("expected open submenu kept, got %q", h.Model().Machine().Breadcrumb("/"))
	}
	h.Key("esc")
	if !strings.Contains(plainView(h), "Fresh") {
		t.Fatalf("expected new entry, got:\n%s", plainView(h))
	}
}

func TestReloadFailureKeepsTree(t *testing.T) {
	path := testutil.WriteMenuFile(t, testMenu)
	h := newFileModel(t, path, nil)
	before := h.Model().Tree()
	if err := os.WriteFile(path, []byte("Main\n   Bad &&  true\n"), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	h.Key("r")
	if h.Model().Tree() != before {
		t.Fatalf("expected previous tree kept")
	}
	if !strings.Contains(plainView(h), "Error: reload failed") {
		t.Fatalf("expected reload error, got:\n%s", plainView(h))
	}
	h.Key("j")
	if h.Model().Machine().Selected() != 1 {
		t.Fatalf("expected navigation to keep working")
	}
}

func TestWatcherEventsReachModel(t *testing.T) {
	path := testutil.WriteMenuFile(t, testMenu)
	w := backend.NewWatcher(path, 0)
	t.Cleanup(w.Stop)
	h := newFileModel(t, path, w)
	if err := os.WriteFile(path, []byte("Other\n    One &&  true\n"), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	h.Key("r")
	// Update directly: the returned command waits for the next event.
	h.Model().Update(waitForBackendEvent(w)())
	if title := h.Model().Tree().Title(); title != "Other" {
		t.Fatalf("expected reloaded tree, got %q", title)
	}
	if !strings.Contains(plainView(h), "One") {
		t.Fatalf("expected new entries, got:\n%s", plainView(h))
	}
}

func TestEditorFailureReported(t *testing.T) {
	path := testutil.WriteMenuFile(t, testMenu)
	h := newFileModel(t, path, nil)
	h.Send(editorFinishedMsg{err: errors.New("exit status 1")})
	if !strings.Contains(plainView(h), "Error: editor: exit status 1") {
		t.Fatalf("expected editor error, got:\n%s", plainView(h))
	}
	h.Key("e")
	if !strings.Contains(plainView(h), "No editor configured") {
		t.Fatalf("expected missing editor notice, got:\n%s", plainView(h))
	}
}
