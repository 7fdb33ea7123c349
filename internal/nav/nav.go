// Package nav holds the navigation state of a menu session: the stack of open
// submenus and the selection within each. It is frontend agnostic; input is
// delivered as Events and the resulting Outcome tells the caller what to do.
package nav

import (
	"strings"

	"github.com/atomicstack/ascm/internal/menu"
)

// Event is a discrete navigation input.
type Event int

const (
	MoveUp Event = iota
	MoveDown
	MoveHome
	MoveEnd
	PageUp
	PageDown
	Select
	Back
	Quit
	Help
)

var eventNames = map[Event]string{
	MoveUp:   "up",
	MoveDown: "down",
	MoveHome: "home",
	MoveEnd:  "end",
	PageUp:   "page-up",
	PageDown: "page-down",
	Select:   "select",
	Back:     "back",
	Quit:     "quit",
	Help:     "help",
}

func (e Event) String() string {
	if name, ok := eventNames[e]; ok {
		return name
	}
	return "unknown"
}

// State is the machine's coarse state.
type State int

const (
	AtSubmenu State = iota
	Exiting
)

// NoSelection marks a frame whose submenu has no entries.
const NoSelection = -1

// Frame is one level of the navigation stack.
type Frame struct {
	Node     *menu.Node
	Selected int
}

// Policy holds the documented choices left open by the menu format.
type Policy struct {
	// Clamp stops MoveUp/MoveDown at the list ends instead of wrapping.
	Clamp bool
	// ExitAfterCommand ends the session once a command completes successfully.
	ExitAfterCommand bool
}

// Outcome reports the effect of an event.
type Outcome struct {
	// Command is the entry to dispatch, set when Select lands on a command.
	Command *menu.Node
	Pushed  bool
	Popped  bool
	Help    bool
	// Changed is set whenever the stack or a selection changed.
	Changed bool
}

const defaultPageSize = 10

// Machine is the navigation state machine.
type Machine struct {
	stack    []Frame
	state    State
	policy   Policy
	pageSize int
}

// New creates a machine positioned at the root of tree.
func New(tree *menu.Tree, policy Policy) *Machine {
	m := &Machine{policy: policy, pageSize: defaultPageSize}
	m.Reset(tree)
	return m
}

// Reset re-roots the machine on tree. The submenus that were open before are
// re-entered, matched by label, as far as they still exist.
func (m *Machine) Reset(tree *menu.Tree) {
	previous := m.stack
	m.stack = []Frame{newFrame(tree.Root)}
	m.state = AtSubmenu
	for i := 1; i < len(previous); i++ {
		parent := m.top().Node
		idx := childIndexByLabel(parent, previous[i].Node.Label, previous[i-1].Selected)
		if idx < 0 || parent.Children[idx].Kind != menu.KindSubmenu {
			break
		}
		m.stack[len(m.stack)-1].Selected = idx
		m.stack = append(m.stack, newFrame(parent.Children[idx]))
	}
	if len(previous) > 0 && len(previous) == len(m.stack) {
		m.setSelected(previous[len(previous)-1].Selected)
	}
}

// childIndexByLabel finds a child labelled label, preferring index hint.
func childIndexByLabel(node *menu.Node, label string, hint int) int {
	if hint >= 0 && hint < len(node.Children) && node.Children[hint].Label == label {
		return hint
	}
	for i, child := range node.Children {
		if child.Label == label {
			return i
		}
	}
	return -1
}

func newFrame(node *menu.Node) Frame {
	f := Frame{Node: node, Selected: NoSelection}
	if len(node.Children) > 0 {
		f.Selected = 0
	}
	return f
}

// SetPageSize sets the distance covered by PageUp and PageDown.
func (m *Machine) SetPageSize(n int) {
	if n < 1 {
		n = 1
	}
	m.pageSize = n
}

// Policy returns the machine's policy.
func (m *Machine) Policy() Policy {
	return m.policy
}

// State returns the current coarse state.
func (m *Machine) State() State {
	return m.state
}

// Stack returns a copy of the navigation stack, root first.
func (m *Machine) Stack() []Frame {
	out := make([]Frame, len(m.stack))
	copy(out, m.stack)
	return out
}

// Depth is the number of open frames.
func (m *Machine) Depth() int {
	return len(m.stack)
}

// Current returns the submenu being browsed.
func (m *Machine) Current() *menu.Node {
	return m.top().Node
}

// Selected returns the selected index in the current submenu, or NoSelection.
func (m *Machine) Selected() int {
	return m.top().Selected
}

// SelectedNode returns the highlighted entry, if any.
func (m *Machine) SelectedNode() *menu.Node {
	f := m.top()
	if f.Selected == NoSelection {
		return nil
	}
	return f.Node.Children[f.Selected]
}

// Breadcrumb joins the labels of the open frames.
func (m *Machine) Breadcrumb(sep string) string {
	labels := make([]string, len(m.stack))
	for i, f := range m.stack {
		labels[i] = f.Node.Label
	}
	return strings.Join(labels, sep)
}

// Focus moves the selection to index i of the current submenu.
func (m *Machine) Focus(i int) bool {
	if m.state == Exiting {
		return false
	}
	return m.setSelected(i)
}

func (m *Machine) top() Frame {
	return m.stack[len(m.stack)-1]
}

func (m *Machine) setSelected(i int) bool {
	f := &m.stack[len(m.stack)-1]
	n := len(f.Node.Children)
	if n == 0 || i < 0 || i >= n || f.Selected == i {
		return false
	}
	f.Selected = i
	return true
}

// Apply processes one event. Events received after the machine reached
// Exiting are ignored.
func (m *Machine) Apply(ev Event) Outcome {
	if m.state == Exiting {
		return Outcome{}
	}
	switch ev {
	case MoveUp:
		return Outcome{Changed: m.step(-1)}
	case MoveDown:
		return Outcome{Changed: m.step(1)}
	case MoveHome:
		return Outcome{Changed: m.setSelected(0)}
	case MoveEnd:
		return Outcome{Changed: m.setSelected(len(m.Current().Children) - 1)}
	case PageUp:
		return Outcome{Changed: m.jump(-m.pageSize)}
	case PageDown:
		return Outcome{Changed: m.jump(m.pageSize)}
	case Select:
		return m.selectEntry()
	case Back:
		if len(m.stack) == 1 {
			return Outcome{}
		}
		m.stack = m.stack[:len(m.stack)-1]
		return Outcome{Popped: true, Changed: true}
	case Quit:
		m.state = Exiting
		return Outcome{Changed: true}
	case Help:
		return Outcome{Help: true}
	}
	return Outcome{}
}

func (m *Machine) step(delta int) bool {
	f := m.top()
	n := len(f.Node.Children)
	if n == 0 {
		return false
	}
	next := f.Selected + delta
	switch {
	case next < 0 && m.policy.Clamp:
		next = 0
	case next < 0:
		next = n - 1
	case next >= n && m.policy.Clamp:
		next = n - 1
	case next >= n:
		next = 0
	}
	return m.setSelected(next)
}

func (m *Machine) jump(delta int) bool {
	f := m.top()
	n := len(f.Node.Children)
	if n == 0 {
		return false
	}
	return m.setSelected(min(max(f.Selected+delta, 0), n-1))
}

func (m *Machine) selectEntry() Outcome {
	child := m.SelectedNode()
	if child == nil {
		return Outcome{}
	}
	if child.Kind == menu.KindSubmenu {
		m.stack = append(m.stack, newFrame(child))
		return Outcome{Pushed: true, Changed: true}
	}
	return Outcome{Command: child}
}

// Complete records the result of the command dispatched for the last Select.
// A successful command ends the session when the policy asks for it; failures
// never do.
func (m *Machine) Complete(err error) {
	if err == nil && m.policy.ExitAfterCommand {
		m.state = Exiting
	}
}
