package reconstruct

import (
	"github.com/atomicstack/erp-navstate/internal/hierarchy"
	"github.com/atomicstack/erp-navstate/internal/metadata"
	"github.com/atomicstack/erp-navstate/internal/state"
	"github.com/atomicstack/erp-navstate/internal/urlstate"
)

// Reconstruct builds the full window state from the hierarchy result. Every
// metadata tab gets a TabState; only active tabs keep their URL state.
func Reconstruct(win metadata.Window, raw urlstate.Window, h hierarchy.Result) state.WindowState {
	out := shell(raw)
	for _, tab := range win.Tabs {
		ts := state.TabState{Level: tab.Level, Form: state.FormState{Mode: state.ModeTable}}
		if active, ok := h.ActiveTab(tab.Level); ok && active == tab.ID {
			ts = tabState(tab.Level, raw.Tabs[tab.ID])
		}
		out.Tabs[tab.ID] = ts
	}
	for level, id := range h.ActiveTabsByLevel {
		out.Navigation.ActiveTabsByLevel[level] = id
	}
	out.Navigation.ActiveLevels = append([]int(nil), h.ActiveLevels...)
	out.Navigation.Initialized = true
	return out
}

// Empty returns the initialized window with no tab state, used when there is
// nothing to recover or recovery failed.
func Empty(raw urlstate.Window) state.WindowState {
	out := shell(raw)
	out.Navigation.Initialized = true
	return out
}

func shell(raw urlstate.Window) state.WindowState {
	windowID := raw.WindowID
	if windowID == "" {
		windowID = state.WindowIDFromIdentifier(raw.Identifier)
	}
	out := state.NewWindowState(windowID, raw.Identifier, raw.Order)
	out.IsActive = raw.Active
	return out
}

func tabState(level int, entry urlstate.TabEntry) state.TabState {
	ts := state.TabState{
		Level:          level,
		SelectedRecord: entry.Selected,
		Form:           state.FormState{Mode: state.ModeTable},
	}
	if entry.Mode != state.ModeForm {
		return ts
	}
	record := entry.FormRecordID
	if record == "" {
		record = entry.Selected
	}
	if record == "" {
		ts.Form.Mode = state.ModeForm
		ts.Form.SubMode = entry.FormMode
		return ts
	}
	ts.Form = state.NewFormState(record)
	if entry.FormMode != "" {
		ts.Form.SubMode = entry.FormMode
	}
	return ts
}
