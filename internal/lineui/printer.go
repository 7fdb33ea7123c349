package lineui

import (
	"fmt"
	"io"
	"strings"

	"github.com/atomicstack/ascm/internal/format/table"
	"github.com/atomicstack/ascm/internal/nav"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/reflow/truncate"
)

const breadcrumbSeparator = " > "

var helpRows = [][]string{
	{"NUMBER", "open submenu or run command"},
	{"enter", "select the highlighted entry"},
	{"j / k", "move the highlight"},
	{"b", "back to the parent menu"},
	{"l", "list the entries again"},
	{"r", "reload the menu file"},
	{"?", "show this help"},
	{"q", "quit"},
}

// Printer renders menus as numbered plain-text lists.
type Printer struct {
	w io.Writer
	// Width truncates entry lines when positive.
	Width int
}

// NewPrinter writes to w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// Menu prints the current submenu of m.
func (p *Printer) Menu(m *nav.Machine) {
	fmt.Fprintf(p.w, "\n%s\n", plain(m.Breadcrumb(breadcrumbSeparator)))
	children := m.Current().Children
	if len(children) == 0 {
		fmt.Fprintln(p.w, "  (no entries)")
		return
	}
	digits := len(fmt.Sprint(len(children)))
	for i, child := range children {
		marker := " "
		if i == m.Selected() {
			marker = ">"
		}
		line := fmt.Sprintf("%s %*d) %s", marker, digits, i+1, plain(child.DisplayLabel()))
		if child.IsPlaceholder() {
			line += " (unavailable)"
		}
		fmt.Fprintln(p.w, p.fit(line))
	}
}

// Help prints the accepted inputs.
func (p *Printer) Help() {
	fmt.Fprintln(p.w, "Inputs:")
	for _, row := range table.Format(helpRows, nil) {
		fmt.Fprintln(p.w, "  "+strings.TrimRight(row, " "))
	}
}

func (p *Printer) Info(msg string) {
	fmt.Fprintln(p.w, msg)
}

func (p *Printer) Error(err error) {
	fmt.Fprintf(p.w, "Error: %v\n", err)
}

// Prompt asks for the next input.
func (p *Printer) Prompt() {
	fmt.Fprint(p.w, "> ")
}

func (p *Printer) fit(line string) string {
	if p.Width <= 0 || ansi.StringWidth(line) <= p.Width {
		return line
	}
	return truncate.StringWithTail(line, uint(p.Width), "…")
}

// plain drops escape sequences a menu file may smuggle into labels.
func plain(s string) string {
	return ansi.Strip(s)
}
