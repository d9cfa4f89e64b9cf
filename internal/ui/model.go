package ui

import (
	"reflect"
	"time"

	"github.com/atotto/clipboard"

	"github.com/atomicstack/erp-navstate/internal/backend"
	"github.com/atomicstack/erp-navstate/internal/data/dispatcher"
	"github.com/atomicstack/erp-navstate/internal/session"
	"github.com/atomicstack/erp-navstate/internal/shell"
	"github.com/atomicstack/erp-navstate/internal/theme"
	"github.com/atomicstack/erp-navstate/internal/ui/command"
	uistate "github.com/atomicstack/erp-navstate/internal/ui/state"
	"github.com/charmbracelet/bubbles/cursor"
	tea "github.com/charmbracelet/bubbletea"
)

type level = uistate.Level

const (
	menuHeaderSeparator = "→"
	defaultRootTitle    = "windows"
)

var styles = theme.Default()

type msgHandler func(tea.Msg) tea.Cmd

// Model implements the Bubble Tea model for the navigation browser.
type Model struct {
	stack        []*level
	loading      bool
	pendingID    string
	pendingLabel string
	errMsg       string
	errKind      string
	infoMsg      string
	infoExpire   time.Time
	width        int
	height       int
	fixedWidth   bool
	fixedHeight  bool
	backend      *backend.Watcher
	backendErr   string
	showFooter   bool
	verbose      bool
	filterCursor cursor.Model
	keys         keyMap

	handlers map[reflect.Type]msgHandler

	bus        *command.Bus
	session    *session.Session
	dispatcher *dispatcher.Dispatcher
	copyText   func(string) error

	// restored is the saved tab bar, shown until the first refresh.
	restored []shell.NavigationTab
}

// NewModel initialises the browser on the windows level of sess.
func NewModel(sess *session.Session, width, height int, showFooter bool, verbose bool, watcher *backend.Watcher) *Model {
	m := &Model{
		bus:        command.New(),
		backend:    watcher,
		showFooter: showFooter,
		verbose:    verbose,
		keys:       defaultKeyMap(),
		session:    sess,
		dispatcher: dispatcher.New(sess),
		copyText:   clipboard.WriteAll,
		restored:   sess.RestoredTabs(),
	}
	root := uistate.WindowsLevel(m.windowItems())
	root.Title = defaultRootTitle
	m.stack = []*level{root}
	if width > 0 {
		m.width = width
		m.fixedWidth = true
	}
	if height > 0 {
		m.height = height
		m.fixedHeight = true
	}
	m.syncViewport(root)
	c := cursor.New()
	if styles.Cursor != nil {
		c.Style = styles.Cursor.Copy()
	}
	if styles.Filter != nil {
		c.TextStyle = styles.Filter.Copy()
	}
	c.SetMode(cursor.CursorStatic)
	c.SetChar(" ")
	m.filterCursor = c
	m.registerHandlers()
	return m
}

// Init is part of the tea.Model interface.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{}
	if m.backend != nil {
		cmds = append(cmds, waitForBackendEvent(m.backend))
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
	cmds := make([]tea.Cmd, 0, 2)
	var cursorCmd tea.Cmd
	m.filterCursor, cursorCmd = m.filterCursor.Update(msg)
	if cursorCmd != nil {
		cmds = append(cmds, cursorCmd)
	}
	if handler := m.handlerFor(msg); handler != nil {
		if cmd := handler(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	switch len(cmds) {
	case 0:
		return m, nil
	case 1:
		return m, cmds[0]
	default:
		return m, tea.Batch(cmds...)
	}
}

func (m *Model) registerHandlers() {
	m.handlers = map[reflect.Type]msgHandler{
		reflect.TypeOf(tea.KeyMsg{}):        m.handleKeyMsg,
		reflect.TypeOf(tea.WindowSizeMsg{}): m.handleWindowSizeMsg,
		reflect.TypeOf(command.Result{}):    m.handleActionResultMsg,
		reflect.TypeOf(backendEventMsg{}):   m.handleBackendEventMsg,
		reflect.TypeOf(backendDoneMsg{}):    m.handleBackendDoneMsg,
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
