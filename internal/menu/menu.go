package menu

import (
	"strconv"
	"strings"
)

// Kind distinguishes submenus from executable entries.
type Kind int

const (
	KindSubmenu Kind = iota
	KindCommand
)

func (k Kind) String() string {
	switch k {
	case KindSubmenu:
		return "submenu"
	case KindCommand:
		return "command"
	default:
		return "unknown"
	}
}

const submenuSuffix = "..."

// Node is a single entry of the menu tree.
type Node struct {
	Label      string
	Kind       Kind
	Children   []*Node
	Command    string
	Attributes Attributes
	Depth      int
	// Line is the 1-based source line the node was parsed from.
	Line int
	// Specifier holds the raw text following the label on its source line.
	Specifier string
	Parent    *Node
}

// Tree is a parsed menu file.
type Tree struct {
	Root   *Node
	Source string
}

// Title returns the menu's declared name.
func (t *Tree) Title() string {
	if t == nil || t.Root == nil {
		return ""
	}
	return t.Root.Label
}

// Walk visits every node depth-first in source order. Returning false from fn
// skips the node's children.
func (t *Tree) Walk(fn func(*Node) bool) {
	if t == nil || t.Root == nil {
		return
	}
	walk(t.Root, fn)
}

func walk(n *Node, fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, child := range n.Children {
		walk(child, fn)
	}
}

// Count returns the number of nodes in the tree, root included.
func (t *Tree) Count() int {
	count := 0
	t.Walk(func(*Node) bool {
		count++
		return true
	})
	return count
}

// IsCommand reports whether the node carries a command specifier.
func (n *Node) IsCommand() bool {
	return n != nil && n.Kind == KindCommand
}

// IsPlaceholder reports whether selecting the node can never launch anything.
func (n *Node) IsPlaceholder() bool {
	return n.IsCommand() && strings.TrimSpace(n.Command) == ""
}

// DisplayLabel is the label shown in menus; submenus carry a trailing ellipsis.
func (n *Node) DisplayLabel() string {
	if n == nil {
		return ""
	}
	if n.Kind == KindSubmenu {
		return n.Label + submenuSuffix
	}
	return n.Label
}

// Path returns the labels from the root down to n.
func (n *Node) Path() []string {
	var labels []string
	for cur := n; cur != nil; cur = cur.Parent {
		labels = append(labels, cur.Label)
	}
	for i, j := 0, len(labels)-1; i < j; i, j = i+1, j-1 {
		labels[i], labels[j] = labels[j], labels[i]
	}
	return labels
}

// Item represents a selectable menu entry as presented by a frontend.
type Item struct {
	ID    string
	Label string
	// Index is the position of the entry among its parent's children.
	Index int
	Kind  Kind
}

// Items lists n's children as display entries.
func (n *Node) Items() []Item {
	if n == nil {
		return nil
	}
	items := make([]Item, 0, len(n.Children))
	for i, child := range n.Children {
		items = append(items, Item{
			ID:    strconv.Itoa(i),
			Label: child.DisplayLabel(),
			Index: i,
			Kind:  child.Kind,
		})
	}
	return items
}
