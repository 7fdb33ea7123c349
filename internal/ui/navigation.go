package ui

import (
	"fmt"

	"github.com/atomicstack/ascm/internal/launch"
	"github.com/atomicstack/ascm/internal/logging/events"
	"github.com/atomicstack/ascm/internal/menu"
	"github.com/atomicstack/ascm/internal/nav"
	"github.com/atomicstack/ascm/internal/ui/command"
	tea "github.com/charmbracelet/bubbletea"
)

var menuKeys = map[string]nav.Event{
	"up":        nav.MoveUp,
	"k":         nav.MoveUp,
	"down":      nav.MoveDown,
	"j":         nav.MoveDown,
	"home":      nav.MoveHome,
	"g":         nav.MoveHome,
	"end":       nav.MoveEnd,
	"G":         nav.MoveEnd,
	"pgup":      nav.PageUp,
	"u":         nav.PageUp,
	"pgdown":    nav.PageDown,
	"d":         nav.PageDown,
	"enter":     nav.Select,
	" ":         nav.Select,
	"right":     nav.Select,
	"l":         nav.Select,
	"esc":       nav.Back,
	"left":      nav.Back,
	"h":         nav.Back,
	"backspace": nav.Back,
	"q":         nav.Quit,
	"?":         nav.Help,
	"f1":        nav.Help,
}

func (m *Model) handleKeyMsg(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	key := keyMsg.String()
	if key == "ctrl+c" {
		return m.apply(nav.Quit)
	}
	if m.busy {
		return nil
	}
	switch m.mode {
	case ModeHelp:
		return m.handleHelpKey(key)
	case ModeFilter:
		return m.handleFilterKey(keyMsg)
	}
	switch key {
	case "/":
		m.startFilter()
		return nil
	case "e":
		return m.editMenu()
	case "r":
		return m.reload()
	}
	if ev, ok := menuKeys[key]; ok {
		return m.apply(ev)
	}
	return nil
}

func (m *Model) handleHelpKey(key string) tea.Cmd {
	if key == "q" {
		return m.apply(nav.Quit)
	}
	m.setMode(ModeMenu)
	return nil
}

// apply feeds ev to the navigation machine and reflects the outcome.
func (m *Model) apply(ev nav.Event) tea.Cmd {
	before := m.currentLevel()
	out := m.machine.Apply(ev)
	if m.machine.State() == nav.Exiting {
		events.App.Shutdown("quit")
		return tea.Quit
	}
	if out.Help {
		m.setMode(ModeHelp)
		return nil
	}
	if out.Command != nil {
		return m.launch(out.Command)
	}
	if out.Pushed || out.Popped {
		m.errMsg = ""
		m.forceClearInfo()
	}
	if out.Popped && before != nil {
		events.UI.MenuBack(before.ID)
	}
	if out.Changed {
		m.syncLevels()
		if current := m.currentLevel(); current != nil {
			if out.Pushed {
				events.UI.MenuEnter(current.ID, current.Title, menu.KindSubmenu.String(), "")
			}
			events.UI.MenuCursor(current.ID, current.Cursor)
		}
	}
	return nil
}

func (m *Model) launch(node *menu.Node) tea.Cmd {
	if current := m.currentLevel(); current != nil {
		events.UI.MenuEnter(current.ID, node.Label, node.Kind.String(), current.Filter)
	}
	if m.bus == nil {
		m.setInfo(fmt.Sprintf("%s: no launcher configured", node.Label))
		return nil
	}
	cmd, busy := m.bus.Execute(node)
	if cmd == nil {
		m.setInfo(fmt.Sprintf("%s has no command", node.Label))
		return nil
	}
	m.errMsg = ""
	m.forceClearInfo()
	m.busy = busy
	if busy {
		m.busyLabel = node.Label
	}
	return cmd
}

func (m *Model) handleResultMsg(msg tea.Msg) tea.Cmd {
	res, ok := msg.(command.ResultMsg)
	if !ok {
		return nil
	}
	if res.Blocking {
		m.busy = false
		m.busyLabel = ""
	}
	m.machine.Complete(res.Err)
	if res.Err != nil {
		m.logger.Warn("command failed", "label", res.Label, "error", res.Err)
		m.errMsg = res.Err.Error()
	} else if res.Mode == launch.ModeDetached {
		m.setInfo(fmt.Sprintf("Started %s", res.Label))
	} else {
		m.setInfo(fmt.Sprintf("%s finished", res.Label))
	}
	if m.machine.State() == nav.Exiting {
		events.App.Shutdown("command completed")
		return tea.Quit
	}
	return nil
}

// syncLevels rebuilds the display levels so they mirror the machine's stack.
// Levels whose submenu is still open keep their filter and viewport.
func (m *Model) syncLevels() {
	frames := m.machine.Stack()
	levels := make([]*level, len(frames))
	for i, frame := range frames {
		var lvl *level
		if i < len(m.stack) && m.stack[i].Node == frame.Node {
			lvl = m.stack[i]
		} else {
			lvl = newLevel(frame.Node)
		}
		if pos := lvl.PositionOf(frame.Selected); pos >= 0 {
			lvl.Cursor = pos
		}
		levels[i] = lvl
	}
	m.stack = levels
	m.syncViewport(m.currentLevel())
}

// focusCursor moves the machine's selection to the item under the level cursor.
func (m *Model) focusCursor() {
	current := m.currentLevel()
	if current == nil {
		return
	}
	if item, ok := current.Current(); ok {
		m.machine.Focus(item.Index)
		events.UI.MenuCursor(current.ID, current.Cursor)
	}
}

func (m *Model) currentLevel() *level {
	if len(m.stack) == 0 {
		return nil
	}
	return m.stack[len(m.stack)-1]
}

func (m *Model) syncViewport(l *level) {
	if l == nil {
		return
	}
	visible := m.maxVisibleItems()
	l.EnsureCursorVisible(visible)
	if visible > 0 {
		m.machine.SetPageSize(visible)
	}
}
