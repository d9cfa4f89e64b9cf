package urlstate

import (
	"sort"

	"github.com/atomicstack/erp-navstate/internal/state"
)

// TabEntry is the raw URL state of one tab: the values of its s_, tf_, tm_
// and tfm_ keys.
type TabEntry struct {
	Selected     string
	FormRecordID string
	Mode         state.TabMode
	FormMode     state.FormMode
}

// IsZero reports whether the entry carries no keys at all.
func (e TabEntry) IsZero() bool {
	return e == TabEntry{}
}

// InForm reports whether the tab is shown in form mode.
func (e TabEntry) InForm() bool {
	return e.Mode == state.ModeForm
}

// RecordContext returns the record that child tabs are scoped to: the
// selection, or the record open in the form unless it is a new record.
func (e TabEntry) RecordContext() string {
	if e.Selected != "" {
		return e.Selected
	}
	if e.FormRecordID != "" && e.FormRecordID != state.NewRecordID && e.FormMode != state.FormNew {
		return e.FormRecordID
	}
	return ""
}

// Window is the URL slice of one window instance.
type Window struct {
	Identifier string
	WindowID   string
	Order      int
	Active     bool
	Tabs       map[string]TabEntry
}

// NewWindow returns an empty window slice for the given instance.
func NewWindow(windowID, identifier string, order int) Window {
	return Window{
		Identifier: identifier,
		WindowID:   windowID,
		Order:      order,
		Tabs:       map[string]TabEntry{},
	}
}

// HasTabState reports whether any selection or form key exists for the window.
func (w Window) HasTabState() bool {
	for _, tab := range w.Tabs {
		if !tab.IsZero() {
			return true
		}
	}
	return false
}

// TabIDs returns the ids of tabs carrying state, sorted.
func (w Window) TabIDs() []string {
	ids := make([]string, 0, len(w.Tabs))
	for id, tab := range w.Tabs {
		if tab.IsZero() {
			continue
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Clone returns a deep copy of w.
func (w Window) Clone() Window {
	dup := w
	dup.Tabs = make(map[string]TabEntry, len(w.Tabs))
	for id, tab := range w.Tabs {
		dup.Tabs[id] = tab
	}
	return dup
}

// CloneAll deep-copies a window list.
func CloneAll(windows []Window) []Window {
	if windows == nil {
		return nil
	}
	dup := make([]Window, len(windows))
	for i, w := range windows {
		dup[i] = w.Clone()
	}
	return dup
}

// Sort orders windows by tab-bar position, then identifier.
func Sort(windows []Window) {
	sort.SliceStable(windows, func(i, j int) bool {
		if windows[i].Order != windows[j].Order {
			return windows[i].Order < windows[j].Order
		}
		return windows[i].Identifier < windows[j].Identifier
	})
}
