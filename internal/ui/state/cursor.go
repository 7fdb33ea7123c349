package state

// MoveCursor steps over the visible items, wrapping at either end unless
// clamp is set.
func (l *Level) MoveCursor(delta int, clamp bool) bool {
	n := len(l.Items)
	if n == 0 {
		return false
	}
	next := max(l.Cursor, 0) + delta
	if clamp {
		next = min(max(next, 0), n-1)
	} else {
		next = ((next % n) + n) % n
	}
	return l.setCursor(next)
}

func (l *Level) MoveCursorHome() bool {
	if len(l.Items) == 0 {
		return false
	}
	return l.setCursor(0)
}

func (l *Level) MoveCursorEnd() bool {
	if len(l.Items) == 0 {
		return false
	}
	return l.setCursor(len(l.Items) - 1)
}

// MoveCursorPageUp moves up by one screen of maxVisible rows.
func (l *Level) MoveCursorPageUp(maxVisible int) bool {
	if len(l.Items) == 0 {
		return false
	}
	return l.setCursor(max(l.Cursor-l.page(maxVisible), 0))
}

// MoveCursorPageDown moves down by one screen of maxVisible rows.
func (l *Level) MoveCursorPageDown(maxVisible int) bool {
	if len(l.Items) == 0 {
		return false
	}
	return l.setCursor(min(max(l.Cursor, 0)+l.page(maxVisible), len(l.Items)-1))
}

func (l *Level) page(maxVisible int) int {
	if maxVisible <= 0 || maxVisible > len(l.Items) {
		return len(l.Items)
	}
	return maxVisible
}

func (l *Level) setCursor(i int) bool {
	if l.Cursor == i {
		return false
	}
	l.Cursor = i
	return true
}

// EnsureCursorVisible clamps the cursor and scrolls the viewport the least
// amount needed to show it.
func (l *Level) EnsureCursorVisible(maxVisible int) {
	n := len(l.Items)
	if n == 0 {
		l.Cursor, l.ViewportOffset = 0, 0
		return
	}
	l.Cursor = min(max(l.Cursor, 0), n-1)
	if maxVisible <= 0 {
		l.ViewportOffset = 0
		return
	}
	lowest := l.Cursor - maxVisible + 1
	offset := max(l.ViewportOffset, lowest, 0)
	l.ViewportOffset = min(offset, l.Cursor, max(n-maxVisible, 0))
}
