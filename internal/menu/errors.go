package menu

import (
	"errors"
	"fmt"
)

var (
	ErrNoTitle               = errors.New("no menu title")
	ErrTitleCommand          = errors.New("menu title cannot carry a command")
	ErrIndentation           = errors.New("non-multiple-of-4 indentation")
	ErrTabIndentation        = errors.New("tab in indentation")
	ErrIndentJump            = errors.New("invalid indentation jump")
	ErrOutsideTitle          = errors.New("entry must be indented below the menu title")
	ErrEmptyLabel            = errors.New("entry has no label")
	ErrCommandChildren       = errors.New("command entry cannot have children")
	ErrUnknownAttribute      = errors.New("unrecognized attribute letter")
	ErrConflictingAttributes = errors.New("conflicting wait/background attributes")
)

// ParseError reports a malformed menu file.
type ParseError struct {
	File string
	// Line is 1-based; zero when the error is not tied to a line.
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	file := e.File
	if file == "" {
		file = "<input>"
	}
	if e.Line > 0 {
		return fmt.Sprintf("menu file %s, line %d: %v", file, e.Line, e.Err)
	}
	return fmt.Sprintf("menu file %s: %v", file, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// IOError reports a menu file that could not be read.
type IOError struct {
	File string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("menu file %s: %v", e.File, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}
