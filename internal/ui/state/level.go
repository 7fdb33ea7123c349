// Package state holds the display state of the menu levels shown by the
// full-screen frontend: which entries survive the filter, where the cursor
// sits among them, and which slice of them is on screen.
package state

import (
	"slices"

	"github.com/atomicstack/ascm/internal/menu"
)

// Level is the display state of one open submenu.
type Level struct {
	ID    string
	Title string
	// Full holds every entry; Items the ones matching Filter, in menu order.
	Full  []menu.Item
	Items []menu.Item

	Filter       string
	FilterCursor int

	// Cursor indexes Items. LastCursor remembers it while a filter is active.
	Cursor     int
	LastCursor int

	Node           *menu.Node
	ViewportOffset int
}

// NewLevel builds the state for node's entries.
func NewLevel(id, title string, items []menu.Item, node *menu.Node) *Level {
	l := &Level{
		ID:         id,
		Title:      title,
		Cursor:     -1,
		LastCursor: -1,
		Node:       node,
	}
	l.UpdateItems(items)
	return l
}

// UpdateItems replaces the entries and reapplies the current filter.
func (l *Level) UpdateItems(items []menu.Item) {
	l.Full = slices.Clone(items)
	l.Items = FilterItems(l.Full, l.Filter)
	if len(l.Items) == 0 || l.ViewportOffset >= len(l.Items) {
		l.ViewportOffset = 0
	}
}

// PositionOf returns where the child at index sits among the visible items,
// or -1 when it is filtered out.
func (l *Level) PositionOf(index int) int {
	return slices.IndexFunc(l.Items, func(item menu.Item) bool { return item.Index == index })
}

// Current returns the item under the cursor.
func (l *Level) Current() (menu.Item, bool) {
	if l.Cursor < 0 || l.Cursor >= len(l.Items) {
		return menu.Item{}, false
	}
	return l.Items[l.Cursor], true
}
