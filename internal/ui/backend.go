package ui

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/atomicstack/ascm/internal/backend"
	"github.com/atomicstack/ascm/internal/logging/events"
	"github.com/atomicstack/ascm/internal/menu"
	tea "github.com/charmbracelet/bubbletea"
)

func waitForBackendEvent(w *backend.Watcher) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-w.Events()
		if !ok {
			return backendDoneMsg{}
		}
		return backendEventMsg{event: evt}
	}
}

type backendEventMsg struct {
	event backend.Event
}

type backendDoneMsg struct{}

// reloadedMsg carries the result of a reload done without a watcher.
type reloadedMsg struct {
	event backend.Event
}

type editorFinishedMsg struct {
	err error
}

func (m *Model) handleBackendEventMsg(msg tea.Msg) tea.Cmd {
	eventMsg, ok := msg.(backendEventMsg)
	if !ok {
		return nil
	}
	m.applyReload(eventMsg.event)
	if m.watcher != nil {
		return waitForBackendEvent(m.watcher)
	}
	return nil
}

func (m *Model) handleBackendDoneMsg(tea.Msg) tea.Cmd {
	m.watcher = nil
	return nil
}

func (m *Model) handleReloadedMsg(msg tea.Msg) tea.Cmd {
	if reloaded, ok := msg.(reloadedMsg); ok {
		m.applyReload(reloaded.event)
	}
	return nil
}

// reload re-reads the menu file, through the watcher when there is one.
func (m *Model) reload() tea.Cmd {
	if m.path == "" {
		return nil
	}
	if m.watcher != nil {
		m.watcher.Reload()
		return nil
	}
	path := m.path
	return func() tea.Msg {
		tree, err := menu.ParseFile(path)
		return reloadedMsg{event: backend.Event{Kind: backend.KindRequested, Path: path, Tree: tree, Err: err}}
	}
}

// applyReload swaps in a freshly parsed tree. A failed reload keeps the
// current tree and reports the error.
func (m *Model) applyReload(evt backend.Event) {
	if evt.Err != nil {
		events.Menu.ReloadFailed(evt.Path, evt.Err)
		m.logger.Warn("menu reload failed", "path", evt.Path, "error", evt.Err)
		m.errMsg = fmt.Sprintf("reload failed: %v", evt.Err)
		return
	}
	if evt.Tree == nil {
		return
	}
	m.tree = evt.Tree
	m.machine.Reset(evt.Tree)
	m.stack = nil
	if m.mode == ModeFilter {
		m.setMode(ModeMenu)
	}
	m.syncLevels()
	m.errMsg = ""
	m.setInfo(fmt.Sprintf("Reloaded %s", filepath.Base(evt.Path)))
	events.UI.Reloaded(evt.Path, evt.Tree.Count())
	m.logger.Info("menu reloaded", "path", evt.Path, "trigger", evt.Kind.String(), "nodes", evt.Tree.Count())
}

func (m *Model) editMenu() tea.Cmd {
	fields := strings.Fields(m.editor)
	if m.path == "" || len(fields) == 0 {
		m.setInfo("No editor configured")
		return nil
	}
	args := append(fields[1:], m.path)
	cmd := exec.Command(fields[0], args...)
	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return editorFinishedMsg{err: err}
	})
}

func (m *Model) handleEditorFinishedMsg(msg tea.Msg) tea.Cmd {
	done, ok := msg.(editorFinishedMsg)
	if !ok {
		return nil
	}
	if done.err != nil {
		m.errMsg = fmt.Sprintf("editor: %v", done.err)
		return nil
	}
	return m.reload()
}
