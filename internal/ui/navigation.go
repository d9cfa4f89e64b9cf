package ui

import (
	"fmt"

	"github.com/atomicstack/erp-navstate/internal/logging/events"
	uistate "github.com/atomicstack/erp-navstate/internal/ui/state"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

func (m *Model) handleEscapeKey() tea.Cmd {
	if len(m.stack) <= 1 {
		return tea.Quit
	}
	current := m.currentLevel()
	events.UI.Back(current.ID)
	m.popLevel()
	m.errMsg = ""
	m.errKind = ""
	m.forceClearInfo()
	return nil
}

func (m *Model) popLevel() {
	if len(m.stack) <= 1 {
		return
	}
	m.stack = m.stack[:len(m.stack)-1]
	parent := m.currentLevel()
	if parent.LastCursor >= 0 && parent.LastCursor < len(parent.Items) {
		parent.Cursor = parent.LastCursor
	}
	parent.LastCursor = -1
	m.syncViewport(parent)
}

func (m *Model) popToRoot() {
	for len(m.stack) > 1 {
		m.popLevel()
	}
}

func (m *Model) pushLevel(l *level) {
	if parent := m.currentLevel(); parent != nil {
		parent.LastCursor = parent.Cursor
	}
	m.syncViewport(l)
	m.stack = append(m.stack, l)
	if len(l.Items) == 0 {
		m.setInfo("No entries found.")
	} else if m.infoMsg != "" {
		m.clearInfo()
	}
}

// pushTabs opens the tabs level of an instance, starting on its deepest
// active tab.
func (m *Model) pushTabs(identifier string) {
	items, err := m.tabItems(identifier)
	if err != nil {
		m.setError(err)
		return
	}
	l := uistate.TabsLevel(identifier, m.windowTitle(identifier), items)
	for i, item := range l.Items {
		if item.Active {
			l.Cursor = i
		}
	}
	m.pushLevel(l)
}

func (m *Model) pushRecords(identifier, tabID string) {
	items, err := m.recordItems(identifier, tabID)
	if err != nil {
		m.setError(err)
		return
	}
	l := uistate.RecordsLevel(identifier, tabID, m.tabTitle(identifier, tabID), items)
	for i, item := range l.Items {
		if item.Active {
			l.Cursor = i
		}
	}
	m.pushLevel(l)
}

func (m *Model) handleEnterKey() tea.Cmd {
	if m.loading {
		return nil
	}
	current := m.currentLevel()
	item, ok := current.Current()
	if !ok {
		return nil
	}
	events.UI.Enter(current.ID, item.ID, item.Label, current.Filter)
	beforeCursor := current.FilterCursorPos()
	current.SetFilter("", 0)
	m.noteFilterCursorChange(current, beforeCursor)
	switch item.Kind {
	case uistate.ItemInstance:
		return m.run(activateRequest(m.session, item))
	case uistate.ItemCatalog:
		return m.run(openRequest(m.session, item))
	case uistate.ItemTab:
		m.errMsg = ""
		m.pushRecords(item.Window, item.Tab)
		return nil
	case uistate.ItemRecord:
		if marked := current.SelectedItems(); len(marked) > 0 {
			n := markRecords(m.session, current.Window, current.Tab, marked)
			current.ClearSelection()
			m.setInfo(pluralRecords(n) + " marked in " + current.Title)
			return nil
		}
		return m.run(selectRequest(m.session, item))
	}
	return nil
}

func (m *Model) moveCursor(down bool) {
	if current := m.currentLevel(); current != nil {
		if current.MoveCursor(down) {
			events.UI.Cursor(current.ID, current.Cursor)
		}
		m.syncViewport(current)
	}
}

func (m *Model) moveCursorWith(move func(*level) bool) {
	if current := m.currentLevel(); current != nil {
		if move(current) {
			events.UI.Cursor(current.ID, current.Cursor)
		}
		m.syncViewport(current)
	}
}

func (m *Model) syncViewport(l *level) {
	if l == nil {
		return
	}
	l.EnsureCursorVisible(m.maxVisibleItems())
}

func (m *Model) handleKeyMsg(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	if key.Matches(keyMsg, m.keys.Mark) {
		if current := m.currentLevel(); current != nil && current.MultiSelect {
			current.ToggleCurrentSelection()
		}
		return nil
	}
	if m.handleTextInput(keyMsg) {
		return nil
	}
	switch {
	case key.Matches(keyMsg, m.keys.Quit):
		return tea.Quit
	case key.Matches(keyMsg, m.keys.Back):
		return m.handleEscapeKey()
	case key.Matches(keyMsg, m.keys.Enter):
		return m.handleEnterKey()
	case key.Matches(keyMsg, m.keys.Up):
		m.moveCursor(false)
	case key.Matches(keyMsg, m.keys.Down):
		m.moveCursor(true)
	case key.Matches(keyMsg, m.keys.PageUp):
		m.moveCursorWith(func(l *level) bool { return l.MoveCursorPageUp(m.maxVisibleItems()) })
	case key.Matches(keyMsg, m.keys.PageDown):
		m.moveCursorWith(func(l *level) bool { return l.MoveCursorPageDown(m.maxVisibleItems()) })
	case key.Matches(keyMsg, m.keys.Top):
		m.moveCursorWith((*level).MoveCursorHome)
	case key.Matches(keyMsg, m.keys.Bottom):
		m.moveCursorWith((*level).MoveCursorEnd)
	case key.Matches(keyMsg, m.keys.NewInstance):
		return m.handleNewInstanceKey()
	case key.Matches(keyMsg, m.keys.Close):
		return m.handleCloseKey()
	case key.Matches(keyMsg, m.keys.Mode):
		return m.handleModeKey()
	case key.Matches(keyMsg, m.keys.ClearChildren):
		return m.handleClearChildrenKey()
	case key.Matches(keyMsg, m.keys.ClearMarks):
		m.handleClearMarksKey()
	case key.Matches(keyMsg, m.keys.GoHome):
		return m.run(homeRequest(m.session))
	case key.Matches(keyMsg, m.keys.Copy):
		m.handleCopyKey()
	}
	return nil
}

func (m *Model) handleNewInstanceKey() tea.Cmd {
	current := m.currentLevel()
	if m.loading || current.Kind != uistate.KindWindows {
		return nil
	}
	item, ok := current.Current()
	if !ok {
		return nil
	}
	return m.run(newInstanceRequest(m.session, item))
}

func (m *Model) handleCloseKey() tea.Cmd {
	if m.loading {
		return nil
	}
	current := m.currentLevel()
	identifier := current.Window
	if current.Kind == uistate.KindWindows {
		item, ok := current.Current()
		if !ok || item.Kind != uistate.ItemInstance {
			return nil
		}
		identifier = item.Window
	}
	return m.run(closeRequest(m.session, identifier, m.windowTitle(identifier)))
}

func (m *Model) handleModeKey() tea.Cmd {
	if m.loading {
		return nil
	}
	current := m.currentLevel()
	item, ok := current.Current()
	if !ok {
		return nil
	}
	switch item.Kind {
	case uistate.ItemTab:
		return m.run(toggleModeRequest(m.session, item.Window, item.Tab, ""))
	case uistate.ItemRecord:
		return m.run(toggleModeRequest(m.session, item.Window, item.Tab, item.Record))
	}
	return nil
}

func (m *Model) handleClearChildrenKey() tea.Cmd {
	if m.loading {
		return nil
	}
	current := m.currentLevel()
	tabID := current.Tab
	if current.Kind == uistate.KindTabs {
		item, ok := current.Current()
		if !ok {
			return nil
		}
		tabID = item.Tab
	}
	if tabID == "" {
		return nil
	}
	_, meta, err := m.windowMetadata(current.Window)
	if err != nil {
		m.setError(err)
		return nil
	}
	return m.run(clearChildrenRequest(m.session, current.Window, tabID, meta.Descendants(tabID)))
}

func (m *Model) handleClearMarksKey() {
	current := m.currentLevel()
	if current.Kind != uistate.KindRecords {
		return
	}
	current.ClearSelection()
	unmarkRecords(m.session, current.Window, current.Tab)
	m.setInfo("Cleared marks in " + current.Title)
}

func (m *Model) handleCopyKey() {
	query := m.session.Query()
	if err := m.copyText(query); err != nil {
		m.setError(fmt.Errorf("copy url: %w", err))
		return
	}
	m.errMsg = ""
	m.setInfo("Copied URL to clipboard")
}

func (m *Model) currentLevel() *level {
	if len(m.stack) == 0 {
		return nil
	}
	return m.stack[len(m.stack)-1]
}

// refreshLevels rebuilds every level from the session. Levels whose window
// was closed, or whose tab is no longer reachable, are dropped together with
// everything above them.
func (m *Model) refreshLevels() {
	m.restored = nil
	for i, lvl := range m.stack {
		var (
			items []uistate.Item
			err   error
		)
		switch lvl.Kind {
		case uistate.KindWindows:
			items = m.windowItems()
		case uistate.KindTabs:
			items, err = m.tabItems(lvl.Window)
		case uistate.KindRecords:
			items, err = m.recordItems(lvl.Window, lvl.Tab)
		}
		if err != nil {
			m.stack = m.stack[:i]
			if parent := m.currentLevel(); parent != nil {
				parent.LastCursor = -1
			}
			break
		}
		lvl.UpdateItems(items)
		m.syncViewport(lvl)
	}
	events.UI.Refresh(len(m.stack), m.session.Query())
}
