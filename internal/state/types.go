package state

import (
	"sort"
	"strings"
)

// TabMode selects between the table (grid) and form (single record) view of a tab.
type TabMode string

const (
	ModeTable TabMode = "table"
	ModeForm  TabMode = "form"
)

// Valid reports whether m is one of the known modes.
func (m TabMode) Valid() bool {
	return m == ModeTable || m == ModeForm
}

// FormMode distinguishes editing an existing record from creating one.
type FormMode string

const (
	FormEdit FormMode = "edit"
	FormNew  FormMode = "new"
)

// Valid reports whether m is one of the known form sub-modes.
func (m FormMode) Valid() bool {
	return m == FormEdit || m == FormNew
}

// NewRecordID is the record id used for a record that does not exist yet.
const NewRecordID = "new"

// FormState holds the view mode of a tab and, in form mode, the open record.
type FormState struct {
	Mode     TabMode  `json:"mode"`
	RecordID string   `json:"formRecordId,omitempty"`
	SubMode  FormMode `json:"formSubMode,omitempty"`
}

// NewFormState returns the form state for opening recordID in form mode.
func NewFormState(recordID string) FormState {
	sub := FormEdit
	if recordID == NewRecordID {
		sub = FormNew
	}
	return FormState{Mode: ModeForm, RecordID: recordID, SubMode: sub}
}

// TabState is the navigation state of a single tab within a window.
type TabState struct {
	Level          int       `json:"level"`
	SelectedRecord string    `json:"selectedRecord,omitempty"`
	Form           FormState `json:"form"`
}

// NavigationState tracks which tab is visible at each nesting level.
type NavigationState struct {
	ActiveLevels      []int          `json:"activeLevels"`
	ActiveTabsByLevel map[int]string `json:"activeTabsByLevel"`
	Initialized       bool           `json:"initialized"`
}

// WindowState is the full navigation state of one open window instance.
type WindowState struct {
	WindowID         string              `json:"windowId"`
	WindowIdentifier string              `json:"windowIdentifier"`
	Order            int                 `json:"order"`
	IsActive         bool                `json:"isActive"`
	Tabs             map[string]TabState `json:"tabs"`
	Navigation       NavigationState     `json:"navigation"`
}

// NewWindowState returns an uninitialized window with level 0 active.
func NewWindowState(windowID, identifier string, order int) WindowState {
	return WindowState{
		WindowID:         windowID,
		WindowIdentifier: identifier,
		Order:            order,
		Tabs:             map[string]TabState{},
		Navigation: NavigationState{
			ActiveLevels:      []int{0},
			ActiveTabsByLevel: map[int]string{},
		},
	}
}

// ActiveTab returns the active tab id at level.
func (w WindowState) ActiveTab(level int) (string, bool) {
	id, ok := w.Navigation.ActiveTabsByLevel[level]
	return id, ok && id != ""
}

// Clone returns a deep copy of w.
func (w WindowState) Clone() WindowState {
	dup := w
	if w.Tabs != nil {
		dup.Tabs = make(map[string]TabState, len(w.Tabs))
		for id, tab := range w.Tabs {
			dup.Tabs[id] = tab
		}
	}
	dup.Navigation.ActiveLevels = append([]int(nil), w.Navigation.ActiveLevels...)
	if w.Navigation.ActiveTabsByLevel != nil {
		dup.Navigation.ActiveTabsByLevel = make(map[int]string, len(w.Navigation.ActiveTabsByLevel))
		for level, id := range w.Navigation.ActiveTabsByLevel {
			dup.Navigation.ActiveTabsByLevel[level] = id
		}
	}
	return dup
}

// WindowIDFromIdentifier derives the catalog window id from an instance
// identifier: everything before the first underscore.
func WindowIDFromIdentifier(identifier string) string {
	if idx := strings.Index(identifier, "_"); idx >= 0 {
		return identifier[:idx]
	}
	return identifier
}

// SortWindows orders windows by tab-bar position, then identifier.
func SortWindows(windows []WindowState) {
	sort.SliceStable(windows, func(i, j int) bool {
		if windows[i].Order != windows[j].Order {
			return windows[i].Order < windows[j].Order
		}
		return windows[i].WindowIdentifier < windows[j].WindowIdentifier
	})
}
