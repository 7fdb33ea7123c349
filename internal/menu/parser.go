package menu

import (
	"os"
	"strings"
)

// Delimiter separates an entry's label from its attribute letters and command.
const Delimiter = "&&"

const indentWidth = 4

// ParseFile reads and parses the menu file at path.
func ParseFile(path string) (*Tree, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &IOError{File: path, Err: err}
	}
	return Parse(path, data)
}

// Parse builds a menu tree from the contents of a menu file. name is only
// used for error reporting.
func Parse(name string, data []byte) (*Tree, error) {
	fail := func(line int, err error) (*Tree, error) {
		return nil, &ParseError{File: name, Line: line, Err: err}
	}

	var root *Node
	// open[d] is the most recent node at depth d.
	var open []*Node
	for i, raw := range strings.Split(string(data), "\n") {
		lineNo := i + 1
		line := strings.TrimRight(raw, " \t\r")
		body := strings.TrimLeft(line, " ")
		if body == "" || strings.HasPrefix(strings.TrimSpace(body), "#") {
			continue
		}
		indent := len(line) - len(body)
		if strings.HasPrefix(body, "\t") {
			return fail(lineNo, ErrTabIndentation)
		}

		// The title may be indented; only entries are measured.
		if root == nil {
			if strings.Contains(body, Delimiter) {
				return fail(lineNo, ErrTitleCommand)
			}
			root = &Node{Label: body, Kind: KindSubmenu, Line: lineNo}
			open = []*Node{root}
			continue
		}

		if indent%indentWidth != 0 {
			return fail(lineNo, ErrIndentation)
		}
		depth := indent / indentWidth
		if depth == 0 {
			return fail(lineNo, ErrOutsideTitle)
		}
		if depth > len(open) {
			return fail(lineNo, ErrIndentJump)
		}
		parent := open[depth-1]
		if parent.Kind == KindCommand {
			return fail(lineNo, ErrCommandChildren)
		}

		node, err := parseEntry(body)
		if err != nil {
			return fail(lineNo, err)
		}
		node.Depth = depth
		node.Line = lineNo
		node.Parent = parent
		parent.Children = append(parent.Children, node)
		open = append(open[:depth], node)
	}
	if root == nil {
		return fail(0, ErrNoTitle)
	}
	return &Tree{Root: root, Source: name}, nil
}

func parseEntry(body string) (*Node, error) {
	idx := strings.Index(body, Delimiter)
	if idx < 0 {
		return &Node{Label: body, Kind: KindSubmenu}, nil
	}
	label := strings.TrimRight(body[:idx], " \t")
	if label == "" {
		return nil, ErrEmptyLabel
	}
	rest := body[idx+len(Delimiter):]
	n := 0
	for n < len(rest) && isLetter(rest[n]) {
		n++
	}
	attrs, err := ResolveAttributes(rest[:n])
	if err != nil {
		return nil, err
	}
	return &Node{
		Label:      label,
		Kind:       KindCommand,
		Command:    strings.TrimSpace(rest[n:]),
		Attributes: attrs,
		Specifier:  body[len(label):],
	}, nil
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
