package state

import (
	"slices"
	"unicode"
)

// FilterCursorPos returns the caret position clamped to the query.
func (l *Level) FilterCursorPos() int {
	return min(max(l.FilterCursor, 0), len([]rune(l.Filter)))
}

// editFilter applies edit to the query and caret. Text changes refilter the
// level; caret-only changes do not. It reports whether anything changed.
func (l *Level) editFilter(edit func(q []rune, pos int) ([]rune, int)) bool {
	q := []rune(l.Filter)
	pos := l.FilterCursorPos()
	next, nextPos := edit(slices.Clone(q), pos)
	if string(next) != l.Filter {
		l.SetFilter(string(next), nextPos)
		return true
	}
	if nextPos == pos {
		return false
	}
	l.FilterCursor = nextPos
	return true
}

func (l *Level) InsertFilterText(text string) bool {
	ins := []rune(text)
	if len(ins) == 0 {
		return false
	}
	return l.editFilter(func(q []rune, pos int) ([]rune, int) {
		return slices.Insert(q, pos, ins...), pos + len(ins)
	})
}

func (l *Level) DeleteFilterRuneBackward() bool {
	return l.editFilter(func(q []rune, pos int) ([]rune, int) {
		if pos == 0 {
			return q, pos
		}
		return slices.Delete(q, pos-1, pos), pos - 1
	})
}

func (l *Level) DeleteFilterWordBackward() bool {
	return l.editFilter(func(q []rune, pos int) ([]rune, int) {
		start := wordStart(q, pos)
		return slices.Delete(q, start, pos), start
	})
}

func (l *Level) MoveFilterCursorStart() bool {
	return l.editFilter(func(q []rune, _ int) ([]rune, int) { return q, 0 })
}

func (l *Level) MoveFilterCursorEnd() bool {
	return l.editFilter(func(q []rune, _ int) ([]rune, int) { return q, len(q) })
}

func (l *Level) MoveFilterCursorWordBackward() bool {
	return l.editFilter(func(q []rune, pos int) ([]rune, int) { return q, wordStart(q, pos) })
}

func (l *Level) MoveFilterCursorWordForward() bool {
	return l.editFilter(func(q []rune, pos int) ([]rune, int) { return q, wordEnd(q, pos) })
}

func (l *Level) MoveFilterCursorRuneBackward() bool {
	return l.editFilter(func(q []rune, pos int) ([]rune, int) { return q, max(pos-1, 0) })
}

func (l *Level) MoveFilterCursorRuneForward() bool {
	return l.editFilter(func(q []rune, pos int) ([]rune, int) { return q, min(pos+1, len(q)) })
}

// wordStart skips spaces then a word, backwards from pos.
func wordStart(q []rune, pos int) int {
	for pos > 0 && unicode.IsSpace(q[pos-1]) {
		pos--
	}
	for pos > 0 && !unicode.IsSpace(q[pos-1]) {
		pos--
	}
	return pos
}

// wordEnd skips a word then spaces, forwards from pos.
func wordEnd(q []rune, pos int) int {
	for pos < len(q) && !unicode.IsSpace(q[pos]) {
		pos++
	}
	for pos < len(q) && unicode.IsSpace(q[pos]) {
		pos++
	}
	return pos
}
