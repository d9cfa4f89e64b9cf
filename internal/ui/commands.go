package ui

import (
	"fmt"

	"github.com/atomicstack/erp-navstate/internal/logging/events"
	"github.com/atomicstack/erp-navstate/internal/navigation"
	"github.com/atomicstack/erp-navstate/internal/selection"
	"github.com/atomicstack/erp-navstate/internal/session"
	"github.com/atomicstack/erp-navstate/internal/state"
	"github.com/atomicstack/erp-navstate/internal/ui/command"
	uistate "github.com/atomicstack/erp-navstate/internal/ui/state"
	tea "github.com/charmbracelet/bubbletea"
)

func (m *Model) run(req command.Request) tea.Cmd {
	m.loading = true
	m.pendingID = req.ID
	m.pendingLabel = req.Label
	m.errMsg = ""
	m.errKind = ""
	m.forceClearInfo()
	return m.bus.Execute(req)
}

func (m *Model) handleActionResultMsg(msg tea.Msg) tea.Cmd {
	result, ok := msg.(command.Result)
	if !ok {
		return nil
	}
	m.loading = false
	m.pendingID = ""
	m.pendingLabel = ""
	if result.Err != nil {
		m.setError(result.Err)
		events.Action.Error(result.ID, result.Err)
		m.refreshLevels()
		return nil
	}
	events.Action.Success(result.ID, result.Info)
	if result.Info != "" && m.verbose {
		m.setInfo(result.Info)
	}
	switch {
	case result.ID == reqHome:
		m.popToRoot()
	case result.Back:
		m.popLevel()
	}
	m.refreshLevels()
	if current := m.currentLevel(); current.Kind == uistate.KindWindows && result.Window != "" {
		m.pushTabs(result.Window)
	}
	return nil
}

const (
	reqActivate = "window:activate"
	reqOpen     = "window:open"
	reqInstance = "window:new"
	reqClose    = "window:close"
	reqSelect   = "tab:select"
	reqMode     = "tab:mode"
	reqClear    = "tab:clear"
	reqHome     = "window:home"
)

func activateRequest(s *session.Session, item uistate.Item) command.Request {
	return command.Request{ID: reqActivate, Label: item.Label, Run: func() (command.Result, error) {
		err := s.ActivateWindow(item.Window)
		return command.Result{Window: item.Window, Info: "Activated " + item.Window}, err
	}}
}

func openRequest(s *session.Session, item uistate.Item) command.Request {
	return command.Request{ID: reqOpen, Label: item.Label, Run: func() (command.Result, error) {
		id, err := s.OpenWindow(item.Window)
		return command.Result{Window: id, Info: "Opened " + id}, err
	}}
}

func newInstanceRequest(s *session.Session, item uistate.Item) command.Request {
	windowID := item.Window
	if item.Kind == uistate.ItemInstance {
		windowID = state.WindowIDFromIdentifier(item.Window)
	}
	return command.Request{ID: reqInstance, Label: item.Label, Run: func() (command.Result, error) {
		id, err := s.OpenWindowInstance(windowID)
		return command.Result{Window: id, Info: "Opened " + id}, err
	}}
}

func closeRequest(s *session.Session, identifier, title string) command.Request {
	return command.Request{ID: reqClose, Label: title, Run: func() (command.Result, error) {
		err := s.CloseWindow(identifier)
		return command.Result{Info: "Closed " + identifier}, err
	}}
}

func selectRequest(s *session.Session, item uistate.Item) command.Request {
	return command.Request{ID: reqSelect, Label: item.Label, Run: func() (command.Result, error) {
		err := s.SelectRecordInTab(item.Window, item.Tab, item.Record)
		return command.Result{Back: true, Info: fmt.Sprintf("Selected %s in tab %s", item.Record, item.Tab)}, err
	}}
}

// toggleModeRequest switches a tab to form, or back to table when the form
// already shows record (or any record when record is empty).
func toggleModeRequest(s *session.Session, identifier, tabID, record string) command.Request {
	return command.Request{ID: reqMode, Label: tabID, Run: func() (command.Result, error) {
		mode := state.ModeForm
		if ws, ok := s.WindowState(identifier); ok {
			form := ws.Tabs[tabID].Form
			if form.Mode == state.ModeForm && (record == "" || form.RecordID == record) {
				mode = state.ModeTable
			}
		}
		err := s.SetTabMode(identifier, tabID, mode, record)
		return command.Result{Info: fmt.Sprintf("Tab %s in %s mode", tabID, mode)}, err
	}}
}

func clearChildrenRequest(s *session.Session, identifier, tabID string, children []string) command.Request {
	return command.Request{ID: reqClear, Label: tabID, Run: func() (command.Result, error) {
		if len(children) == 0 {
			return command.Result{Info: "Nothing to clear below tab " + tabID}, nil
		}
		err := s.ClearChildrenSelections(identifier, children)
		return command.Result{Info: fmt.Sprintf("Cleared %d tabs below %s", len(children), tabID)}, err
	}}
}

func homeRequest(s *session.Session) command.Request {
	return command.Request{ID: reqHome, Label: "home", Run: func() (command.Result, error) {
		return command.Result{Info: "Home"}, s.GoHome()
	}}
}

// markRecords publishes marked records as a multiple selection. Marks live
// only in the selection graph; they never reach the URL.
func markRecords(s *session.Session, identifier, tabID string, items []uistate.Item) int {
	records := make([]selection.Record, 0, len(items))
	for _, item := range items {
		records = append(records, selection.Record{"id": item.Record})
	}
	s.Graph().SelectMultiple(selection.Tab{Window: identifier, ID: tabID}, records)
	return len(records)
}

func unmarkRecords(s *session.Session, identifier, tabID string) {
	s.Graph().UnselectMultiple(selection.Tab{Window: identifier, ID: tabID})
}

func pluralRecords(n int) string {
	if n == 1 {
		return "1 record"
	}
	return fmt.Sprintf("%d records", n)
}

func errorKind(err error) string {
	return string(navigation.Classify(err))
}
