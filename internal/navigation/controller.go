package navigation

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"pkt.systems/pslog"

	"github.com/atomicstack/erp-navstate/internal/logging"
	"github.com/atomicstack/erp-navstate/internal/logging/events"
	"github.com/atomicstack/erp-navstate/internal/metadata"
	"github.com/atomicstack/erp-navstate/internal/state"
	"github.com/atomicstack/erp-navstate/internal/urlstate"
)

// Selection names a record to select in a tab.
type Selection struct {
	TabID    string
	RecordID string
}

// WindowSummary describes an open window for the tab bar.
type WindowSummary struct {
	Identifier string
	WindowID   string
	Title      string
	Order      int
	Active     bool
}

// Option customises a Controller.
type Option func(*Controller)

// WithSuffixFunc overrides how identifier suffixes for additional window
// instances are generated.
func WithSuffixFunc(fn func() string) Option {
	return func(c *Controller) {
		if fn != nil {
			c.suffix = fn
		}
	}
}

// WithLogger sets the logger used for commit diagnostics.
func WithLogger(l pslog.Logger) Option {
	return func(c *Controller) {
		c.log = l
	}
}

// Controller is the mutation API over the URL. Every mutating call decodes
// the committed URL, computes the full next state and issues one Replace.
type Controller struct {
	router  Router
	catalog metadata.Provider
	suffix  func() string
	log     pslog.Logger
}

// New returns a Controller committing through router.
func New(router Router, catalog metadata.Provider, opts ...Option) *Controller {
	c := &Controller{
		router:  router,
		catalog: catalog,
		suffix:  randomSuffix,
		log:     logging.Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func randomSuffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

func (c *Controller) load() []urlstate.Window {
	return urlstate.Decode(c.router.Current())
}

func (c *Controller) commit(windows []urlstate.Window) error {
	query := urlstate.EncodeQuery(windows)
	if err := c.router.Replace(query); err != nil {
		return fmt.Errorf("commit navigation: %w", err)
	}
	c.log.Debug("navigation committed", "query", query)
	events.URL.Commit(query)
	return nil
}

func (c *Controller) window(windowID string) (metadata.Window, error) {
	if c.catalog == nil {
		return metadata.Window{}, fmt.Errorf("%w: %s", ErrMetadataUnavailable, windowID)
	}
	win, err := c.catalog.Window(windowID)
	if err != nil {
		return metadata.Window{}, fmt.Errorf("%w: %w", ErrMetadataUnavailable, err)
	}
	return win, nil
}

func find(windows []urlstate.Window, identifier string) int {
	for i, w := range windows {
		if w.Identifier == identifier {
			return i
		}
	}
	return -1
}

func activate(windows []urlstate.Window, idx int) {
	for i := range windows {
		windows[i].Active = i == idx
	}
}

func validateWindowID(windowID string) error {
	if windowID == "" || strings.Contains(windowID, "_") {
		return fmt.Errorf("%w: %q", ErrInvalidWindowID, windowID)
	}
	return nil
}

// reuseIndex picks the instance OpenWindow reactivates: the active one if it
// shows windowID, otherwise the lowest-order instance.
func reuseIndex(windows []urlstate.Window, windowID string) int {
	idx := -1
	for i, w := range windows {
		if w.WindowID != windowID {
			continue
		}
		if w.Active {
			return i
		}
		if idx < 0 || w.Order < windows[idx].Order {
			idx = i
		}
	}
	return idx
}

func (c *Controller) create(windows []urlstate.Window, windowID string) ([]urlstate.Window, int) {
	taken := make(map[string]struct{}, len(windows))
	maxOrder := 0
	for _, w := range windows {
		taken[w.Identifier] = struct{}{}
		if w.Order > maxOrder {
			maxOrder = w.Order
		}
	}
	identifier := windowID
	for {
		if _, used := taken[identifier]; !used {
			break
		}
		identifier = windowID + "_" + c.suffix()
	}
	windows = append(windows, urlstate.NewWindow(windowID, identifier, maxOrder+1))
	return windows, len(windows) - 1
}

func (c *Controller) open(windows []urlstate.Window, windowID string, forceNew bool) ([]urlstate.Window, int) {
	reason := events.ReasonReuse
	idx := -1
	if !forceNew {
		idx = reuseIndex(windows, windowID)
	}
	if idx < 0 {
		reason = events.ReasonCreate
		if forceNew {
			reason = events.ReasonInstance
		}
		windows, idx = c.create(windows, windowID)
	}
	activate(windows, idx)
	events.Window.Open(windowID, windows[idx].Identifier, windows[idx].Order, reason)
	return windows, idx
}

// OpenWindow shows windowID, reusing an open instance when there is one.
func (c *Controller) OpenWindow(windowID string) (string, error) {
	if err := validateWindowID(windowID); err != nil {
		return "", err
	}
	windows, idx := c.open(c.load(), windowID, false)
	if err := c.commit(windows); err != nil {
		return "", err
	}
	return windows[idx].Identifier, nil
}

// OpenWindowInstance always opens a new instance of windowID.
func (c *Controller) OpenWindowInstance(windowID string) (string, error) {
	if err := validateWindowID(windowID); err != nil {
		return "", err
	}
	windows, idx := c.open(c.load(), windowID, true)
	if err := c.commit(windows); err != nil {
		return "", err
	}
	return windows[idx].Identifier, nil
}

// OpenWindowAndSelect opens windowID and selects a record in one commit.
func (c *Controller) OpenWindowAndSelect(windowID string, sel Selection) (string, error) {
	if err := validateWindowID(windowID); err != nil {
		return "", err
	}
	if sel.TabID == "" || sel.RecordID == "" {
		return "", fmt.Errorf("%w: tab and record are required", ErrInvalidSelection)
	}
	current := c.load()
	reused := reuseIndex(current, windowID) >= 0
	windows, idx := c.open(current, windowID, false)

	var cleared []string
	if reused {
		win, err := c.window(windowID)
		if err != nil {
			return "", err
		}
		cleared = win.Descendants(sel.TabID)
	}
	applySelect(&windows[idx], sel.TabID, sel.RecordID, cleared)
	if err := c.commit(windows); err != nil {
		return "", err
	}
	events.Tab.Select(windows[idx].Identifier, sel.TabID, sel.RecordID, cleared)
	return windows[idx].Identifier, nil
}

// SelectRecordInTab selects recordID in tabID and clears the state of every
// descendant tab in the same commit.
func (c *Controller) SelectRecordInTab(identifier, tabID, recordID string) error {
	if tabID == "" || recordID == "" {
		return fmt.Errorf("%w: tab and record are required", ErrInvalidSelection)
	}
	windows := c.load()
	idx := find(windows, identifier)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrWindowNotFound, identifier)
	}
	win, err := c.window(windows[idx].WindowID)
	if err != nil {
		return err
	}
	if _, ok := win.Tab(tabID); !ok {
		return fmt.Errorf("%w: %s in window %s", ErrTabNotFound, tabID, win.ID)
	}
	cleared := win.Descendants(tabID)
	applySelect(&windows[idx], tabID, recordID, cleared)
	if err := c.commit(windows); err != nil {
		return err
	}
	events.Tab.Select(identifier, tabID, recordID, cleared)
	return nil
}

func applySelect(w *urlstate.Window, tabID, recordID string, cleared []string) {
	entry := w.Tabs[tabID]
	entry.Selected = recordID
	w.Tabs[tabID] = entry
	for _, id := range cleared {
		delete(w.Tabs, id)
	}
}

// ClearChildrenSelections removes every selection and form key of exactly the
// given tabs.
func (c *Controller) ClearChildrenSelections(identifier string, tabIDs []string) error {
	windows := c.load()
	idx := find(windows, identifier)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrWindowNotFound, identifier)
	}
	for _, id := range tabIDs {
		delete(windows[idx].Tabs, id)
	}
	if err := c.commit(windows); err != nil {
		return err
	}
	events.Tab.Clear(identifier, tabIDs)
	return nil
}

// CloseWindow removes the instance. Closing the active window activates the
// remaining window with the highest order, or goes home when none is left.
func (c *Controller) CloseWindow(identifier string) error {
	windows := c.load()
	idx := find(windows, identifier)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrWindowNotFound, identifier)
	}
	wasActive := windows[idx].Active
	windows = append(windows[:idx], windows[idx+1:]...)

	next := ""
	if wasActive && len(windows) > 0 {
		best := 0
		for i, w := range windows {
			if w.Order > windows[best].Order {
				best = i
			}
		}
		activate(windows, best)
		next = windows[best].Identifier
	}
	if err := c.commit(windows); err != nil {
		return err
	}
	events.Window.Close(identifier, next)
	return nil
}

// SetTabMode switches a tab between table and form. Form mode opens recordID,
// falling back to the record already in the form or the selection.
func (c *Controller) SetTabMode(identifier, tabID string, mode state.TabMode, recordID string) error {
	if !mode.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}
	if tabID == "" {
		return fmt.Errorf("%w: tab is required", ErrInvalidSelection)
	}
	windows := c.load()
	idx := find(windows, identifier)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrWindowNotFound, identifier)
	}
	entry := windows[idx].Tabs[tabID]
	switch mode {
	case state.ModeForm:
		record := recordID
		if record == "" {
			record = entry.FormRecordID
		}
		if record == "" {
			record = entry.Selected
		}
		if record == "" {
			return fmt.Errorf("%w: no record to open in tab %s", ErrInvalidSelection, tabID)
		}
		form := state.NewFormState(record)
		entry.Mode = form.Mode
		entry.FormRecordID = form.RecordID
		entry.FormMode = form.SubMode
	case state.ModeTable:
		entry.Mode = state.ModeTable
		entry.FormRecordID = ""
		entry.FormMode = ""
	}
	windows[idx].Tabs[tabID] = entry
	if err := c.commit(windows); err != nil {
		return err
	}
	events.Tab.Mode(identifier, tabID, string(mode), entry.FormRecordID)
	return nil
}

// ActivateWindow makes an open instance the visible window.
func (c *Controller) ActivateWindow(identifier string) error {
	windows := c.load()
	idx := find(windows, identifier)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrWindowNotFound, identifier)
	}
	activate(windows, idx)
	if err := c.commit(windows); err != nil {
		return err
	}
	events.Window.Activate(identifier)
	return nil
}

// GoHome deactivates every window without closing any.
func (c *Controller) GoHome() error {
	windows := c.load()
	activate(windows, -1)
	if err := c.commit(windows); err != nil {
		return err
	}
	events.Window.Home()
	return nil
}

// Current returns the decoded committed state.
func (c *Controller) Current() []urlstate.Window {
	return c.load()
}

// Query returns the committed state re-encoded.
func (c *Controller) Query() string {
	return urlstate.EncodeQuery(c.load())
}

// Windows lists open windows in tab-bar order.
func (c *Controller) Windows() []WindowSummary {
	windows := c.load()
	out := make([]WindowSummary, 0, len(windows))
	for _, w := range windows {
		title := w.WindowID
		if c.catalog != nil {
			if meta, err := c.catalog.Window(w.WindowID); err == nil {
				title = meta.Title()
			}
		}
		out = append(out, WindowSummary{
			Identifier: w.Identifier,
			WindowID:   w.WindowID,
			Title:      title,
			Order:      w.Order,
			Active:     w.Active,
		})
	}
	return out
}

// Window returns the URL slice of one instance.
func (c *Controller) Window(identifier string) (urlstate.Window, bool) {
	windows := c.load()
	if idx := find(windows, identifier); idx >= 0 {
		return windows[idx], true
	}
	return urlstate.Window{}, false
}

// ActiveWindow returns the visible window, if any.
func (c *Controller) ActiveWindow() (urlstate.Window, bool) {
	for _, w := range c.load() {
		if w.Active {
			return w, true
		}
	}
	return urlstate.Window{}, false
}

// SelectedRecord returns the selected record of a tab.
func (c *Controller) SelectedRecord(identifier, tabID string) (string, bool) {
	w, ok := c.Window(identifier)
	if !ok {
		return "", false
	}
	rec := w.Tabs[tabID].Selected
	return rec, rec != ""
}

// TabMode returns the mode of a tab, table unless set otherwise.
func (c *Controller) TabMode(identifier, tabID string) state.TabMode {
	w, ok := c.Window(identifier)
	if !ok {
		return state.ModeTable
	}
	if mode := w.Tabs[tabID].Mode; mode != "" {
		return mode
	}
	return state.ModeTable
}
