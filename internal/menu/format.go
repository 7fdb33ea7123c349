package menu

import (
	"strconv"
	"strings"

	"github.com/atomicstack/ascm/internal/format/table"
)

// Format re-emits the significant lines of the file the tree was parsed from.
func Format(t *Tree) string {
	var b strings.Builder
	t.Walk(func(n *Node) bool {
		b.WriteString(strings.Repeat(" ", n.Depth*indentWidth))
		b.WriteString(n.Label)
		b.WriteString(n.Specifier)
		b.WriteByte('\n')
		return true
	})
	return b.String()
}

// Dump renders the tree as an aligned listing for inspection.
func Dump(t *Tree) string {
	rows := [][]string{{"LINE", "ENTRY", "KIND", "ATTRS", "COMMAND"}}
	t.Walk(func(n *Node) bool {
		rows = append(rows, []string{
			strconv.Itoa(n.Line),
			strings.Repeat("  ", n.Depth) + n.DisplayLabel(),
			n.Kind.String(),
			n.Attributes.Letters(),
			n.Command,
		})
		return true
	})
	lines := table.Format(rows, []table.Alignment{table.AlignRight})
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " ")
	}
	return strings.Join(lines, "\n") + "\n"
}
