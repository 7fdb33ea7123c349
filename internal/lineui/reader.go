// Package lineui is a line-oriented frontend for sessions without a terminal:
// entries are printed as a numbered list and answered with one word per line.
package lineui

import (
	"io"
	"strconv"
	"strings"

	"github.com/atomicstack/ascm/internal/nav"
)

// Action is a non-navigation request read from the input.
type Action int

const (
	ActionNone Action = iota
	ActionReload
	ActionRedraw
)

// Input is one parsed line.
type Input struct {
	Event nav.Event
	// Index is the zero-based entry picked by number, or -1.
	Index  int
	Action Action
	// Raw is the trimmed line, kept for error messages.
	Raw string
	// Unknown is set when the line could not be understood.
	Unknown bool
}

var words = map[string]nav.Event{
	"b":    nav.Back,
	"back": nav.Back,
	"..":   nav.Back,
	"q":    nav.Quit,
	"quit": nav.Quit,
	"exit": nav.Quit,
	"?":    nav.Help,
	"h":    nav.Help,
	"help": nav.Help,
	"k":    nav.MoveUp,
	"up":   nav.MoveUp,
	"j":    nav.MoveDown,
	"down": nav.MoveDown,
}

// Reader parses selections from a line stream. It reads one byte at a time
// and never past the newline, so commands sharing the stream see the input
// that follows their selection.
type Reader struct {
	r   io.Reader
	buf [1]byte
}

// NewReader wraps r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// Next returns the next input. It returns io.EOF once the stream is drained.
func (r *Reader) Next() (Input, error) {
	line, err := r.readLine()
	if err != nil {
		return Input{}, err
	}
	return ParseInput(line), nil
}

// readLine returns the next line without its newline. A final line without
// one is returned before io.EOF.
func (r *Reader) readLine() (string, error) {
	var line []byte
	for {
		n, err := r.r.Read(r.buf[:])
		if n > 0 {
			if r.buf[0] == '\n' {
				return string(line), nil
			}
			line = append(line, r.buf[0])
		}
		if err != nil {
			if err == io.EOF && len(line) > 0 {
				return string(line), nil
			}
			return "", err
		}
	}
}

// ParseInput interprets a single line. Numbers pick entries counted from 1;
// an empty line selects the highlighted entry.
func ParseInput(line string) Input {
	raw := strings.TrimSpace(line)
	in := Input{Index: -1, Raw: raw}
	word := strings.ToLower(raw)
	switch word {
	case "":
		in.Event = nav.Select
		return in
	case "r", "reload":
		in.Action = ActionReload
		return in
	case "l", "list":
		in.Action = ActionRedraw
		return in
	}
	if ev, ok := words[word]; ok {
		in.Event = ev
		return in
	}
	if n, err := strconv.Atoi(word); err == nil && n > 0 {
		in.Event = nav.Select
		in.Index = n - 1
		return in
	}
	in.Unknown = true
	return in
}
