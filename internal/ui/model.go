package ui

import (
	"log/slog"
	"reflect"
	"strings"
	"time"

	"github.com/atomicstack/ascm/internal/backend"
	"github.com/atomicstack/ascm/internal/logging/events"
	"github.com/atomicstack/ascm/internal/menu"
	"github.com/atomicstack/ascm/internal/nav"
	"github.com/atomicstack/ascm/internal/theme"
	"github.com/atomicstack/ascm/internal/ui/command"
	uistate "github.com/atomicstack/ascm/internal/ui/state"
	"github.com/charmbracelet/bubbles/cursor"
	tea "github.com/charmbracelet/bubbletea"
)

type level = uistate.Level

type Mode int

const (
	ModeMenu Mode = iota
	ModeFilter
	ModeHelp
)

func (m Mode) String() string {
	switch m {
	case ModeFilter:
		return "filter"
	case ModeHelp:
		return "help"
	default:
		return "menu"
	}
}

const menuHeaderSeparator = " → "

var styles = theme.Default()

type msgHandler func(tea.Msg) tea.Cmd

func newLevel(node *menu.Node) *level {
	return uistate.NewLevel(strings.Join(node.Path(), "/"), node.Label, node.Items(), node)
}

// Options configures a Model.
type Options struct {
	Tree *menu.Tree
	// Path is the menu file, used for editing and reloading.
	Path       string
	Policy     nav.Policy
	Width      int
	Height     int
	ShowFooter bool
	Bus        *command.Bus
	Watcher    *backend.Watcher
	// Editor is the command line used to edit Path.
	Editor string
	Logger *slog.Logger
}

// Model implements the Bubble Tea model for the menu launcher.
type Model struct {
	tree    *menu.Tree
	path    string
	machine *nav.Machine
	stack   []*level
	mode    Mode

	busy      bool
	busyLabel string

	errMsg      string
	infoMsg     string
	infoExpire  time.Time
	width       int
	height      int
	fixedWidth  bool
	fixedHeight bool
	showFooter  bool

	filterCursor      cursor.Model
	filterCursorDirty bool

	handlers map[reflect.Type]msgHandler

	bus     *command.Bus
	watcher *backend.Watcher
	editor  string
	logger  *slog.Logger
}

// NewModel initialises the UI state positioned at the root of the tree.
func NewModel(opts Options) *Model {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	m := &Model{
		tree:       opts.Tree,
		path:       opts.Path,
		machine:    nav.New(opts.Tree, opts.Policy),
		mode:       ModeMenu,
		showFooter: opts.ShowFooter,
		bus:        opts.Bus,
		watcher:    opts.Watcher,
		editor:     opts.Editor,
		logger:     logger,
	}
	if opts.Width > 0 {
		m.width = opts.Width
		m.fixedWidth = true
	}
	if opts.Height > 0 {
		m.height = opts.Height
		m.fixedHeight = true
	}
	c := cursor.New()
	if styles.Cursor != nil {
		c.Style = styles.Cursor.Copy()
	}
	if styles.Filter != nil {
		c.TextStyle = styles.Filter.Copy()
	}
	c.SetChar(" ")
	m.filterCursor = c
	m.syncLevels()
	m.registerHandlers()
	return m
}

// Init is part of the tea.Model interface.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{}
	if m.watcher != nil {
		cmds = append(cmds, waitForBackendEvent(m.watcher))
	}
	if cmd := m.filterCursor.Focus(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

// Update responds to Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmds := make([]tea.Cmd, 0, 4)
	if cmd := m.updateFilterCursorModel(msg); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if handler := m.handlerFor(msg); handler != nil {
		if cmd := handler(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return m, m.finishUpdate(cmds)
}

func (m *Model) registerHandlers() {
	m.handlers = map[reflect.Type]msgHandler{
		reflect.TypeOf(tea.KeyMsg{}):        m.handleKeyMsg,
		reflect.TypeOf(tea.WindowSizeMsg{}): m.handleWindowSizeMsg,
		reflect.TypeOf(command.ResultMsg{}): m.handleResultMsg,
		reflect.TypeOf(backendEventMsg{}):   m.handleBackendEventMsg,
		reflect.TypeOf(backendDoneMsg{}):    m.handleBackendDoneMsg,
		reflect.TypeOf(reloadedMsg{}):       m.handleReloadedMsg,
		reflect.TypeOf(editorFinishedMsg{}): m.handleEditorFinishedMsg,
	}
}

func (m *Model) handlerFor(msg tea.Msg) msgHandler {
	if msg == nil || m.handlers == nil {
		return nil
	}
	t := reflect.TypeOf(msg)
	if handler, ok := m.handlers[t]; ok {
		return handler
	}
	if t.Kind() == reflect.Ptr {
		if handler, ok := m.handlers[t.Elem()]; ok {
			return handler
		}
	}
	return nil
}

func (m *Model) finishUpdate(cmds []tea.Cmd) tea.Cmd {
	if m.filterCursorDirty {
		m.filterCursorDirty = false
		m.filterCursor.Blink = false
		if cmd := m.filterCursor.BlinkCmd(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

// Mode reports the current input mode.
func (m *Model) Mode() Mode {
	return m.mode
}

// Busy reports whether a blocking command is running.
func (m *Model) Busy() bool {
	return m.busy
}

// Machine exposes the navigation state.
func (m *Model) Machine() *nav.Machine {
	return m.machine
}

// Tree returns the menu currently shown.
func (m *Model) Tree() *menu.Tree {
	return m.tree
}

func (m *Model) setMode(mode Mode) {
	if m.mode == mode {
		return
	}
	m.mode = mode
	events.UI.Mode(mode.String())
}
