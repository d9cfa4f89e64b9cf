package ui

import (
	"unicode"

	"github.com/atomicstack/erp-navstate/internal/logging/events"
	tea "github.com/charmbracelet/bubbletea"
)

func (m *Model) noteFilterCursorChange(l *level, before int) {
	if l == nil || before == l.FilterCursorPos() {
		return
	}
	events.Filter.Cursor(l.ID, l.FilterCursorPos())
}

func (m *Model) handleTextInput(msg tea.KeyMsg) bool {
	if m.loading {
		return false
	}
	current := m.currentLevel()
	if current == nil {
		return false
	}
	switch msg.String() {
	case "ctrl+u":
		if current.Filter == "" {
			return false
		}
		current.SetFilter("", 0)
		m.afterFilterEdit(current)
		events.Filter.Cleared(current.ID)
		return true
	case "ctrl+w":
		if !current.DeleteFilterWordBackward() {
			return false
		}
		m.afterFilterEdit(current)
		events.Filter.WordBackspace(current.ID, current.Filter)
		return true
	case "ctrl+a":
		before := current.FilterCursorPos()
		if !current.MoveFilterCursorStart() {
			return false
		}
		m.noteFilterCursorChange(current, before)
		return true
	case "ctrl+e":
		before := current.FilterCursorPos()
		if !current.MoveFilterCursorEnd() {
			return false
		}
		m.noteFilterCursorChange(current, before)
		return true
	}
	switch msg.Type {
	case tea.KeyBackspace, tea.KeyCtrlH:
		if !current.DeleteFilterRuneBackward() {
			return false
		}
		m.afterFilterEdit(current)
		events.Filter.Backspace(current.ID, current.Filter)
		return true
	case tea.KeyRunes:
		if msg.Alt || len(msg.Runes) == 0 {
			return false
		}
		for _, r := range msg.Runes {
			if unicode.IsControl(r) {
				return false
			}
		}
		return m.appendToFilter(string(msg.Runes))
	case tea.KeySpace:
		return m.appendToFilter(" ")
	case tea.KeyLeft, tea.KeyRight:
		if current.Filter == "" {
			return false
		}
		before := current.FilterCursorPos()
		delta := 1
		if msg.Type == tea.KeyLeft {
			delta = -1
		}
		if !current.MoveFilterCursor(delta) {
			return false
		}
		m.noteFilterCursorChange(current, before)
		return true
	}
	return false
}

func (m *Model) appendToFilter(text string) bool {
	current := m.currentLevel()
	if current == nil || !current.InsertFilterText(text) {
		return false
	}
	m.afterFilterEdit(current)
	events.Filter.Append(current.ID, current.Filter)
	return true
}

func (m *Model) afterFilterEdit(l *level) {
	m.forceClearInfo()
	m.errMsg = ""
	m.errKind = ""
	m.syncViewport(l)
}

func (m *Model) filterPrompt() string {
	current := m.currentLevel()
	prompt := "» "
	if styles.FilterPrompt != nil {
		prompt = styles.FilterPrompt.Render(prompt)
	}
	render := func(value string) string {
		if styles.Filter == nil || value == "" {
			return value
		}
		return styles.Filter.Render(value)
	}
	if current == nil || current.Filter == "" {
		placeholder := []rune("(type to filter)")
		rest := string(placeholder[1:])
		if styles.FilterPlaceholder != nil {
			rest = styles.FilterPlaceholder.Render(rest)
		}
		return prompt + m.renderFilterCursor(string(placeholder[0])) + rest
	}
	runes := []rune(current.Filter)
	pos := current.FilterCursorPos()
	caret := " "
	after := ""
	if pos < len(runes) {
		caret = string(runes[pos])
		after = render(string(runes[pos+1:]))
	}
	return prompt + render(string(runes[:pos])) + m.renderFilterCursor(caret) + after
}

func (m *Model) renderFilterCursor(char string) string {
	if char == "" {
		char = " "
	}
	m.filterCursor.SetChar(char)
	return m.filterCursor.View()
}
