package ui

import (
	"fmt"
	"strings"

	"github.com/atomicstack/erp-navstate/internal/backend"
	tea "github.com/charmbracelet/bubbletea"
)

func waitForBackendEvent(w *backend.Watcher) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-w.Events()
		if !ok {
			return backendDoneMsg{}
		}
		return backendEventMsg{event: evt}
	}
}

type backendEventMsg struct {
	event backend.Event
}

type backendDoneMsg struct{}

func (m *Model) handleBackendEventMsg(msg tea.Msg) tea.Cmd {
	eventMsg, ok := msg.(backendEventMsg)
	if !ok {
		return nil
	}
	m.applyBackendEvent(eventMsg.event)
	if m.backend != nil {
		return waitForBackendEvent(m.backend)
	}
	return nil
}

func (m *Model) handleBackendDoneMsg(msg tea.Msg) tea.Cmd {
	m.backend = nil
	return nil
}

// applyBackendEvent recovers from a changed URL and refreshes every level.
func (m *Model) applyBackendEvent(evt backend.Event) {
	if evt.Err != nil {
		m.backendErr = evt.Err.Error()
		return
	}
	m.backendErr = ""
	res := m.dispatcher.Handle(evt)
	if len(res.Failed) > 0 {
		m.setInfo(fmt.Sprintf("Recovery failed for %s", strings.Join(res.Failed, ", ")))
	}
	if res.WindowsUpdated {
		m.refreshLevels()
	}
}
