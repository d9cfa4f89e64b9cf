package ui

import (
	"fmt"
	"strings"

	"github.com/atomicstack/erp-navstate/internal/metadata"
	"github.com/atomicstack/erp-navstate/internal/state"
	uistate "github.com/atomicstack/erp-navstate/internal/ui/state"
)

const (
	instancePrefix = "instance:"
	catalogPrefix  = "catalog:"
)

// windowItems lists the open instances in tab-bar order, then every catalog
// window that can be opened.
func (m *Model) windowItems() []uistate.Item {
	if m.session == nil {
		return nil
	}
	summaries := m.session.Windows()
	perWindow := make(map[string]int, len(summaries))
	for _, s := range summaries {
		perWindow[s.WindowID]++
	}
	catalog := m.session.Catalog().Windows()
	items := make([]uistate.Item, 0, len(summaries)+len(catalog))
	for _, s := range summaries {
		label := s.Title
		if perWindow[s.WindowID] > 1 {
			label = fmt.Sprintf("%s (%s)", s.Title, s.Identifier)
		}
		items = append(items, uistate.Item{
			ID:     instancePrefix + s.Identifier,
			Label:  label,
			Detail: fmt.Sprintf("#%d", s.Order),
			Kind:   uistate.ItemInstance,
			Window: s.Identifier,
			Active: s.Active,
		})
	}
	for _, w := range catalog {
		items = append(items, uistate.Item{
			ID:     catalogPrefix + w.ID,
			Label:  "+ Open " + w.Title(),
			Detail: w.ID,
			Kind:   uistate.ItemCatalog,
			Window: w.ID,
		})
	}
	return items
}

func (m *Model) windowMetadata(identifier string) (state.WindowState, metadata.Window, error) {
	ws, ok := m.session.WindowState(identifier)
	if !ok {
		return state.WindowState{}, metadata.Window{}, fmt.Errorf("window %s is not open", identifier)
	}
	meta, err := m.session.Catalog().Window(ws.WindowID)
	if err != nil {
		return ws, metadata.Window{}, err
	}
	return ws, meta, nil
}

// tabItems lists the tabs of an instance that can be browsed right now: the
// root tab, and child tabs of an active parent that scopes a record.
func (m *Model) tabItems(identifier string) ([]uistate.Item, error) {
	ws, meta, err := m.windowMetadata(identifier)
	if err != nil {
		return nil, err
	}
	items := make([]uistate.Item, 0, len(meta.Tabs))
	for _, tab := range meta.Tabs {
		if !tabBrowsable(ws, meta, tab) {
			continue
		}
		ts := ws.Tabs[tab.ID]
		active := ws.Navigation.ActiveTabsByLevel[tab.Level] == tab.ID
		items = append(items, uistate.Item{
			ID:     tab.ID,
			Label:  strings.Repeat("  ", tab.Level) + tab.Name,
			Detail: tabDetail(ts),
			Kind:   uistate.ItemTab,
			Window: identifier,
			Tab:    tab.ID,
			Record: ts.SelectedRecord,
			Active: active,
		})
	}
	return items, nil
}

func tabBrowsable(ws state.WindowState, meta metadata.Window, tab metadata.Tab) bool {
	if tab.Level == 0 {
		return meta.ShouldShowTab(tab, "")
	}
	parent := ws.Navigation.ActiveTabsByLevel[tab.Level-1]
	if !meta.ShouldShowTab(tab, parent) {
		return false
	}
	ps := ws.Tabs[parent]
	return ps.SelectedRecord != "" || ps.Form.RecordID != ""
}

func tabDetail(ts state.TabState) string {
	parts := make([]string, 0, 2)
	if ts.SelectedRecord != "" {
		parts = append(parts, ts.SelectedRecord)
	}
	if ts.Form.Mode == state.ModeForm {
		parts = append(parts, fmt.Sprintf("form:%s %s", ts.Form.RecordID, ts.Form.SubMode))
	}
	return strings.Join(parts, " ")
}

// recordItems lists the records of one tab.
func (m *Model) recordItems(identifier, tabID string) ([]uistate.Item, error) {
	ws, meta, err := m.windowMetadata(identifier)
	if err != nil {
		return nil, err
	}
	tab, ok := meta.Tab(tabID)
	if !ok {
		return nil, fmt.Errorf("tab %s not found in window %s", tabID, meta.ID)
	}
	if !tabBrowsable(ws, meta, tab) {
		return nil, fmt.Errorf("tab %s is not reachable", tab.Name)
	}
	ts := ws.Tabs[tabID]
	items := make([]uistate.Item, 0, len(tab.Records))
	for _, rec := range tab.Records {
		detail := ""
		if ts.Form.Mode == state.ModeForm && ts.Form.RecordID == rec {
			detail = "form"
		}
		items = append(items, uistate.Item{
			ID:     rec,
			Label:  rec,
			Detail: detail,
			Kind:   uistate.ItemRecord,
			Window: identifier,
			Tab:    tabID,
			Record: rec,
			Active: ts.SelectedRecord == rec,
		})
	}
	return items, nil
}

func (m *Model) tabTitle(identifier, tabID string) string {
	if _, meta, err := m.windowMetadata(identifier); err == nil {
		if tab, ok := meta.Tab(tabID); ok {
			return tab.Name
		}
	}
	return tabID
}

func (m *Model) windowTitle(identifier string) string {
	for _, s := range m.session.Windows() {
		if s.Identifier == identifier {
			return s.Title
		}
	}
	return identifier
}
