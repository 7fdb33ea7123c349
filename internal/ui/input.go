package ui

import (
	"unicode"

	"github.com/atomicstack/ascm/internal/logging/events"
	"github.com/atomicstack/ascm/internal/nav"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

func (m *Model) updateFilterCursorModel(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	m.filterCursor, cmd = m.filterCursor.Update(msg)
	return cmd
}

func (m *Model) noteFilterCursorChange(l *level, before int) {
	if l == nil {
		return
	}
	if before != l.FilterCursorPos() {
		m.filterCursorDirty = true
	}
}

func (m *Model) startFilter() {
	m.errMsg = ""
	m.forceClearInfo()
	m.setMode(ModeFilter)
	m.filterCursorDirty = true
}

// endFilter clears the query and returns to plain navigation.
func (m *Model) endFilter() {
	if current := m.currentLevel(); current != nil && current.Filter != "" {
		current.SetFilter("", 0)
		events.Filter.Cleared(current.ID)
		m.focusCursor()
		m.syncViewport(current)
	}
	m.setMode(ModeMenu)
}

func (m *Model) handleFilterKey(msg tea.KeyMsg) tea.Cmd {
	current := m.currentLevel()
	if current == nil {
		return nil
	}
	switch msg.String() {
	case "esc":
		m.endFilter()
		return nil
	case "enter":
		item, ok := current.Current()
		if !ok {
			return nil
		}
		m.endFilter()
		m.machine.Focus(item.Index)
		m.syncLevels()
		return m.apply(nav.Select)
	case "up", "ctrl+p":
		m.moveFilteredCursor(-1)
		return nil
	case "down", "ctrl+n":
		m.moveFilteredCursor(1)
		return nil
	case "home":
		if current.MoveCursorHome() {
			m.focusCursor()
		}
		m.syncViewport(current)
		return nil
	case "end":
		if current.MoveCursorEnd() {
			m.focusCursor()
		}
		m.syncViewport(current)
		return nil
	case "pgup":
		if current.MoveCursorPageUp(m.maxVisibleItems()) {
			m.focusCursor()
		}
		m.syncViewport(current)
		return nil
	case "pgdown":
		if current.MoveCursorPageDown(m.maxVisibleItems()) {
			m.focusCursor()
		}
		m.syncViewport(current)
		return nil
	}
	m.handleTextInput(msg)
	return nil
}

func (m *Model) moveFilteredCursor(delta int) {
	current := m.currentLevel()
	if current == nil {
		return
	}
	if !current.MoveCursor(delta, m.machine.Policy().Clamp) {
		return
	}
	m.focusCursor()
	m.syncViewport(current)
}

func (m *Model) handleTextInput(msg tea.KeyMsg) bool {
	current := m.currentLevel()
	if current == nil {
		return false
	}
	switch msg.String() {
	case "ctrl+u":
		if current.Filter == "" {
			return false
		}
		before := current.FilterCursorPos()
		current.SetFilter("", 0)
		m.noteFilterCursorChange(current, before)
		events.Filter.Cleared(current.ID)
		m.afterFilterEdit(current)
		return true
	case "ctrl+w":
		before := current.FilterCursorPos()
		if !current.DeleteFilterWordBackward() {
			return false
		}
		m.noteFilterCursorChange(current, before)
		events.Filter.WordBackspace(current.ID, current.Filter)
		m.afterFilterEdit(current)
		return true
	case "ctrl+a":
		before := current.FilterCursorPos()
		if !current.MoveFilterCursorStart() {
			return false
		}
		m.noteFilterCursorChange(current, before)
		events.Filter.Cursor(current.ID, current.FilterCursor)
		return true
	case "ctrl+e":
		before := current.FilterCursorPos()
		if !current.MoveFilterCursorEnd() {
			return false
		}
		m.noteFilterCursorChange(current, before)
		events.Filter.Cursor(current.ID, current.FilterCursor)
		return true
	case "alt+b":
		before := current.FilterCursorPos()
		if !current.MoveFilterCursorWordBackward() {
			return false
		}
		m.noteFilterCursorChange(current, before)
		events.Filter.CursorWord(current.ID, current.FilterCursor)
		return true
	case "alt+f":
		before := current.FilterCursorPos()
		if !current.MoveFilterCursorWordForward() {
			return false
		}
		m.noteFilterCursorChange(current, before)
		events.Filter.CursorWord(current.ID, current.FilterCursor)
		return true
	}
	switch msg.Type {
	case tea.KeyBackspace, tea.KeyCtrlH:
		return m.removeFilterRune()
	case tea.KeyRunes:
		if msg.Alt || len(msg.Runes) == 0 {
			return false
		}
		for _, r := range msg.Runes {
			if unicode.IsControl(r) {
				return false
			}
		}
		return m.appendToFilter(string(msg.Runes))
	case tea.KeySpace:
		return m.appendToFilter(" ")
	case tea.KeyLeft:
		before := current.FilterCursorPos()
		if !current.MoveFilterCursorRuneBackward() {
			return false
		}
		m.noteFilterCursorChange(current, before)
		events.Filter.Cursor(current.ID, current.FilterCursor)
		return true
	case tea.KeyRight:
		before := current.FilterCursorPos()
		if !current.MoveFilterCursorRuneForward() {
			return false
		}
		m.noteFilterCursorChange(current, before)
		events.Filter.Cursor(current.ID, current.FilterCursor)
		return true
	}
	return false
}

func (m *Model) afterFilterEdit(current *level) {
	m.forceClearInfo()
	m.errMsg = ""
	m.focusCursor()
	m.syncViewport(current)
}

func (m *Model) appendToFilter(text string) bool {
	if text == "" {
		return false
	}
	current := m.currentLevel()
	if current == nil {
		return false
	}
	before := current.FilterCursorPos()
	if !current.InsertFilterText(text) {
		return false
	}
	m.noteFilterCursorChange(current, before)
	events.Filter.Append(current.ID, current.Filter)
	m.afterFilterEdit(current)
	return true
}

func (m *Model) removeFilterRune() bool {
	current := m.currentLevel()
	if current == nil {
		return false
	}
	before := current.FilterCursorPos()
	if !current.DeleteFilterRuneBackward() {
		return false
	}
	m.noteFilterCursorChange(current, before)
	events.Filter.Backspace(current.ID, current.Filter)
	m.afterFilterEdit(current)
	return true
}

func (m *Model) filterPrompt() string {
	current := m.currentLevel()
	prompt := "» "
	if styles.FilterPrompt != nil {
		prompt = styles.FilterPrompt.Render(prompt)
	}
	if current == nil {
		return prompt
	}
	render := func(style *lipgloss.Style, value string) string {
		if style == nil || value == "" {
			return value
		}
		return style.Render(value)
	}
	if m.mode != ModeFilter {
		return prompt + render(styles.FilterPlaceholder, "(press / to search, ? for help)")
	}
	if styles.Cursor != nil {
		m.filterCursor.Style = styles.Cursor.Copy()
	}
	if styles.Filter != nil {
		m.filterCursor.TextStyle = styles.Filter.Copy()
	} else {
		m.filterCursor.TextStyle = lipgloss.Style{}
	}
	text := current.Filter
	if text == "" {
		runes := []rune("(type to search)")
		if styles.FilterPlaceholder != nil {
			m.filterCursor.TextStyle = styles.FilterPlaceholder.Copy()
		}
		caret := m.renderFilterCursor(string(runes[0]))
		return prompt + caret + render(styles.FilterPlaceholder, string(runes[1:]))
	}
	runes := []rune(text)
	pos := min(max(current.FilterCursorPos(), 0), len(runes))
	before := render(styles.Filter, string(runes[:pos]))
	caretRune := " "
	after := ""
	if pos < len(runes) {
		caretRune = string(runes[pos])
		after = render(styles.Filter, string(runes[pos+1:]))
	}
	return prompt + before + m.renderFilterCursor(caretRune) + after
}

func (m *Model) renderFilterCursor(char string) string {
	if char == "" {
		char = " "
	}
	m.filterCursor.SetChar(char)

	base := m.filterCursor.TextStyle.Copy()
	base = base.Inline(true)

	if m.filterCursor.Blink {
		return base.Render(char)
	}

	if styles.Cursor != nil {
		cursorStyle := styles.Cursor.Copy().Inline(true)
		base = base.Inherit(cursorStyle).Blink(false)
		return base.Render(char)
	}

	return base.Reverse(true).Render(char)
}
