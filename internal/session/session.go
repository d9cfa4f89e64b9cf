// Package session owns one navigation context: the router, the controller
// mutating it, the recovery orchestrator publishing window state, the
// selection graph and the persisted shell. Nothing in it is global, so two
// sessions in one process never share state.
package session

import (
	"sort"

	"pkt.systems/pslog"

	"github.com/atomicstack/erp-navstate/internal/logging"
	"github.com/atomicstack/erp-navstate/internal/logging/events"
	"github.com/atomicstack/erp-navstate/internal/metadata"
	"github.com/atomicstack/erp-navstate/internal/navigation"
	"github.com/atomicstack/erp-navstate/internal/recovery"
	"github.com/atomicstack/erp-navstate/internal/selection"
	"github.com/atomicstack/erp-navstate/internal/shell"
	"github.com/atomicstack/erp-navstate/internal/state"
	"github.com/atomicstack/erp-navstate/internal/urlstate"
)

// Catalog is the metadata a session browses.
type Catalog interface {
	metadata.Provider
	Windows() []metadata.Window
}

type options struct {
	shell      *shell.Persistence
	log        pslog.Logger
	hasLog     bool
	controller []navigation.Option
	recovery   []recovery.Option
}

// Option customises a Session.
type Option func(*options)

// WithShell persists the tab bar through p after every sync.
func WithShell(p *shell.Persistence) Option {
	return func(o *options) { o.shell = p }
}

func WithLogger(l pslog.Logger) Option {
	return func(o *options) {
		o.log = l
		o.hasLog = true
	}
}

// WithControllerOptions forwards options to the navigation controller.
func WithControllerOptions(opts ...navigation.Option) Option {
	return func(o *options) { o.controller = append(o.controller, opts...) }
}

// WithRecoveryOptions forwards options to the recovery orchestrator.
func WithRecoveryOptions(opts ...recovery.Option) Option {
	return func(o *options) { o.recovery = append(o.recovery, opts...) }
}

// Session is one navigation context.
type Session struct {
	router     navigation.Router
	catalog    Catalog
	controller *navigation.Controller
	recovery   *recovery.Orchestrator
	store      state.WindowStore
	graph      *selection.Graph
	shell      *shell.Persistence
	restored   []shell.NavigationTab
	log        pslog.Logger
}

// New wires a session around router and catalog. Call Sync to recover the
// state already in the router.
func New(router navigation.Router, catalog Catalog, opts ...Option) *Session {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if !o.hasLog {
		o.log = logging.Logger()
	}
	store := state.NewWindowStore()
	ctrlOpts := append([]navigation.Option{navigation.WithLogger(o.log)}, o.controller...)
	recOpts := append([]recovery.Option{recovery.WithLogger(o.log)}, o.recovery...)
	return &Session{
		router:     router,
		catalog:    catalog,
		controller: navigation.New(router, catalog, ctrlOpts...),
		recovery:   recovery.New(catalog, store, recOpts...),
		store:      store,
		graph:      selection.New(),
		shell:      o.shell,
		log:        o.log,
	}
}

func (s *Session) Controller() *navigation.Controller { return s.controller }
func (s *Session) Recovery() *recovery.Orchestrator   { return s.recovery }
func (s *Session) Store() state.WindowStore           { return s.store }
func (s *Session) Graph() *selection.Graph            { return s.graph }
func (s *Session) Catalog() Catalog                   { return s.catalog }

// Query returns the committed URL query.
func (s *Session) Query() string {
	return s.controller.Query()
}

// Navigate replaces the whole URL, as a reload or pasted link would, and
// recovers from it.
func (s *Session) Navigate(query string) ([]recovery.Run, error) {
	if err := s.router.Replace(query); err != nil {
		return nil, err
	}
	return s.Sync(), nil
}

// Sync recovers every window in the committed URL, drops state of windows no
// longer present, rebuilds the selection graph and saves the shell.
func (s *Session) Sync() []recovery.Run {
	windows := urlstate.Decode(s.router.Current())
	runs := s.recovery.RecoverAll(windows)
	s.syncGraph()
	s.saveShell(windows)
	return runs
}

// syncGraph mirrors the selected record of every active tab into the graph,
// emitting only for tabs whose selection changed.
func (s *Session) syncGraph() {
	want := make(map[selection.Tab]string)
	open := make(map[string]struct{})
	for _, ws := range s.store.Entries() {
		open[ws.WindowIdentifier] = struct{}{}
		for _, tabID := range ws.Navigation.ActiveTabsByLevel {
			if rec := ws.Tabs[tabID].SelectedRecord; rec != "" {
				want[selection.Tab{Window: ws.WindowIdentifier, ID: tabID}] = rec
			}
		}
	}

	var rebuilt []string
	for _, tab := range s.graph.Tabs() {
		if _, ok := open[tab.Window]; !ok {
			s.graph.Clear(tab)
			continue
		}
		if _, ok := want[tab]; ok {
			continue
		}
		if _, selected := s.graph.Selected(tab); selected {
			s.graph.Unselect(tab)
			rebuilt = append(rebuilt, tab.Window+"/"+tab.ID)
		}
	}
	for tab, rec := range want {
		if cur, ok := s.graph.Selected(tab); ok && cur.ID() == rec {
			continue
		}
		s.graph.Select(tab, selection.Record{"id": rec})
		rebuilt = append(rebuilt, tab.Window+"/"+tab.ID)
	}
	if len(rebuilt) > 0 {
		sort.Strings(rebuilt)
		events.Selection.Rebuild(rebuilt)
	}
}

func (s *Session) saveShell(windows []urlstate.Window) {
	if s.shell == nil {
		return
	}
	entries := make([]shell.Entry, 0, len(windows))
	for _, w := range windows {
		entries = append(entries, s.entry(w))
	}
	s.shell.Save(shell.FromWindows(entries))
}

func (s *Session) entry(w urlstate.Window) shell.Entry {
	e := shell.Entry{
		Identifier: w.Identifier,
		WindowID:   w.WindowID,
		Title:      w.WindowID,
		Query:      urlstate.EncodeQuery([]urlstate.Window{w}),
	}
	meta, err := s.catalog.Window(w.WindowID)
	if err == nil {
		e.Title = meta.Title()
	}
	ws, ok := s.store.Get(w.Identifier)
	if !ok || len(ws.Navigation.ActiveLevels) == 0 {
		return e
	}
	deepest := ws.Navigation.ActiveLevels[len(ws.Navigation.ActiveLevels)-1]
	tabID := ws.Navigation.ActiveTabsByLevel[deepest]
	e.TabID = tabID
	e.Mode = ws.Tabs[tabID].Form.Mode
	e.RecordID = ws.Tabs[tabID].SelectedRecord
	if tab, ok := meta.Tab(tabID); ok {
		e.EntityName = tab.EntityName
	}
	return e
}

// ShellTabs returns the tab bar as currently persisted.
func (s *Session) ShellTabs() []shell.NavigationTab {
	return s.shell.Load()
}

// RestoreShell reads the tab bar saved by an earlier run. Call it before the
// first Sync, which overwrites the stored value.
func (s *Session) RestoreShell() []shell.NavigationTab {
	s.restored = s.shell.Load()
	return s.RestoredTabs()
}

// RestoredTabs returns the tab bar read by RestoreShell, or nil.
func (s *Session) RestoredTabs() []shell.NavigationTab {
	if s.restored == nil {
		return nil
	}
	return append([]shell.NavigationTab(nil), s.restored...)
}

// WindowState returns the recovered state of one instance.
func (s *Session) WindowState(identifier string) (state.WindowState, bool) {
	return s.store.Get(identifier)
}

// ActiveState returns the recovered state of the visible window.
func (s *Session) ActiveState() (state.WindowState, bool) {
	return s.store.Current()
}

// Windows lists the open windows in tab-bar order.
func (s *Session) Windows() []navigation.WindowSummary {
	return s.controller.Windows()
}

func (s *Session) OpenWindow(windowID string) (string, error) {
	id, err := s.controller.OpenWindow(windowID)
	if err != nil {
		return "", err
	}
	s.Sync()
	return id, nil
}

func (s *Session) OpenWindowInstance(windowID string) (string, error) {
	id, err := s.controller.OpenWindowInstance(windowID)
	if err != nil {
		return "", err
	}
	s.Sync()
	return id, nil
}

func (s *Session) OpenWindowAndSelect(windowID string, sel navigation.Selection) (string, error) {
	id, err := s.controller.OpenWindowAndSelect(windowID, sel)
	if err != nil {
		return "", err
	}
	s.Sync()
	return id, nil
}

func (s *Session) SelectRecordInTab(identifier, tabID, recordID string) error {
	return s.after(s.controller.SelectRecordInTab(identifier, tabID, recordID))
}

func (s *Session) ClearChildrenSelections(identifier string, tabIDs []string) error {
	return s.after(s.controller.ClearChildrenSelections(identifier, tabIDs))
}

func (s *Session) CloseWindow(identifier string) error {
	return s.after(s.controller.CloseWindow(identifier))
}

func (s *Session) SetTabMode(identifier, tabID string, mode state.TabMode, recordID string) error {
	return s.after(s.controller.SetTabMode(identifier, tabID, mode, recordID))
}

func (s *Session) ActivateWindow(identifier string) error {
	return s.after(s.controller.ActivateWindow(identifier))
}

func (s *Session) GoHome() error {
	return s.after(s.controller.GoHome())
}

func (s *Session) after(err error) error {
	if err != nil {
		return err
	}
	s.Sync()
	return nil
}
