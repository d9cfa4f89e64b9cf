package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/atomicstack/erp-navstate/internal/shell"
	uistate "github.com/atomicstack/erp-navstate/internal/ui/state"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

type styledLine struct {
	text          string
	style         *lipgloss.Style
	prefixStyle   *lipgloss.Style
	highlightFrom int
	raw           bool // already styled; only truncated
}

// View implements tea.Model.
func (m *Model) View() string {
	lines := make([]styledLine, 0, 16)
	lines = append(lines, styledLine{text: m.tabBar(), raw: true})
	if header := m.menuHeader(); header != "" {
		lines = append(lines, styledLine{text: header, style: styles.Header})
	}
	if current := m.currentLevel(); current != nil {
		m.syncViewport(current)
		displayItems, start := current.Visible(m.maxVisibleItems())
		if len(current.Items) == 0 {
			msg := "(no entries)"
			if current.Filter != "" {
				msg = fmt.Sprintf("No matches for %q", current.Filter)
			}
			lines = append(lines, styledLine{text: msg, style: styles.Info})
		}
		for i, item := range displayItems {
			lines = append(lines, m.buildItemLine(item, start+i, current, m.width))
		}
	}
	if info := m.currentInfo(); info != "" {
		lines = append(lines, styledLine{})
		lines = append(lines, styledLine{text: info, style: styles.Info})
	}
	if m.showFooter {
		lines = append(lines, styledLine{})
		lines = append(lines, styledLine{text: m.footerHelp(), style: styles.Footer})
		lines = append(lines, styledLine{text: "?" + m.session.Query(), style: styles.Query})
	}
	lines = limitHeight(lines, m.height-2, m.width)
	lines = applyWidth(lines, m.width)

	bottomLines := applyWidth([]styledLine{
		m.statusLine(),
		{text: m.filterPrompt(), raw: true},
	}, m.width)
	lines = append(lines, bottomLines...)
	return renderLines(lines)
}

func (m *Model) statusLine() styledLine {
	switch {
	case m.errMsg != "":
		label := "Error"
		if m.errKind != "" {
			label = fmt.Sprintf("Error [%s]", m.errKind)
		}
		return styledLine{text: fmt.Sprintf("%s: %s", label, m.errMsg), style: styles.Error}
	case m.loading:
		return styledLine{text: fmt.Sprintf("Running %s…", m.pendingLabel), style: styles.Loading}
	case m.backendErr != "":
		return styledLine{text: "Backend: " + m.backendErr, style: styles.Error}
	}
	return styledLine{}
}

// tabBar renders Home followed by every open window; the visible one is
// highlighted, Home when none is.
func (m *Model) tabBar() string {
	render := func(active bool, title string) string {
		style := styles.TabInactive
		if active {
			style = styles.TabActive
		}
		if style == nil {
			return title
		}
		return style.Render(title)
	}
	summaries := m.session.Windows()
	anyActive := false
	activeID := ""
	for _, s := range summaries {
		if s.Active {
			anyActive = true
			activeID = s.WindowID
		}
	}
	if len(m.restored) > 0 {
		parts := make([]string, 0, len(m.restored))
		for _, tab := range m.restored {
			if tab.Type == shell.TypeHome {
				parts = append(parts, render(!anyActive, tab.Title))
				continue
			}
			parts = append(parts, render(anyActive && tab.WindowID == activeID, tab.Title))
		}
		return strings.Join(parts, " ")
	}
	parts := make([]string, 0, len(summaries)+1)
	parts = append(parts, render(!anyActive, "Home"))
	for _, s := range summaries {
		parts = append(parts, render(s.Active, s.Title))
	}
	return strings.Join(parts, " ")
}

func (m *Model) footerHelp() string {
	bindings := m.keys.help()
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		if h.Key == "" {
			continue
		}
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, "  ")
}

// buildItemLine renders one row. width is the target column width; when > 0
// the text is padded so that the selected item's background spans the row.
func (m *Model) buildItemLine(item uistate.Item, idx int, current *level, width int) styledLine {
	indicator := "▌"
	lineStyle := styles.Item
	indicatorStyle := styles.ItemIndicator
	selectDisplay := ""
	if current.MultiSelect {
		mark := " "
		if current.IsSelected(item.ID) {
			mark = "✓"
		}
		selectDisplay = fmt.Sprintf("[%s] ", mark)
	}
	active := "  "
	if item.Active {
		active = "● "
	}
	if idx == current.Cursor {
		indicatorStyle = styles.SelectedItemIndicator
		lineStyle = styles.SelectedItem
	}
	fullText := indicator + " " + selectDisplay + active + item.Label
	if item.Detail != "" {
		fullText += "  " + item.Detail
	}
	if width > 0 {
		if pad := width - ansi.StringWidth(fullText); pad > 0 {
			fullText += strings.Repeat(" ", pad)
		}
	}
	return styledLine{
		text:          fullText,
		style:         lineStyle,
		prefixStyle:   indicatorStyle,
		highlightFrom: 1,
	}
}

func (m *Model) menuHeader() string {
	segments := m.headerSegments()
	if len(segments) == 0 {
		return ""
	}
	return strings.Join(segments, menuHeaderSeparator)
}

func (m *Model) headerSegments() []string {
	segments := make([]string, 0, len(m.stack))
	for _, l := range m.stack {
		if title := strings.TrimSpace(l.Title); title != "" {
			segments = append(segments, title)
		}
	}
	return segments
}

func (m *Model) handleWindowSizeMsg(msg tea.Msg) tea.Cmd {
	resize, ok := msg.(tea.WindowSizeMsg)
	if !ok {
		return nil
	}
	if !m.fixedWidth {
		m.width = resize.Width
	}
	if !m.fixedHeight {
		m.height = resize.Height
	}
	if current := m.currentLevel(); current != nil {
		m.syncViewport(current)
	}
	return nil
}

func (m *Model) maxVisibleItems() int {
	if m.height <= 0 {
		return -1
	}
	used := 3 // tab bar, status line and filter prompt
	if header := m.menuHeader(); header != "" {
		used++
	}
	if info := m.currentInfo(); info != "" {
		used += 2
	}
	if m.showFooter {
		used += 3
	}
	remain := m.height - used
	if remain < 1 {
		return 1
	}
	return remain
}

func (m *Model) setError(err error) {
	if err == nil {
		return
	}
	m.errMsg = err.Error()
	m.errKind = errorKind(err)
	m.forceClearInfo()
}

func (m *Model) setInfo(message string) {
	m.infoMsg = message
	m.infoExpire = time.Now().Add(5 * time.Second)
}

func (m *Model) clearInfo() {
	if m.infoMsg == "" {
		return
	}
	if !m.infoExpire.IsZero() && time.Now().Before(m.infoExpire) {
		return
	}
	m.infoMsg = ""
	m.infoExpire = time.Time{}
}

func (m *Model) forceClearInfo() {
	m.infoMsg = ""
	m.infoExpire = time.Time{}
}

func (m *Model) currentInfo() string {
	if m.infoMsg != "" && !m.infoExpire.IsZero() && time.Now().After(m.infoExpire) {
		m.infoMsg = ""
		m.infoExpire = time.Time{}
	}
	return m.infoMsg
}

func limitHeight(lines []styledLine, height, width int) []styledLine {
	if height <= 0 || len(lines) <= height {
		return lines
	}
	if height == 1 {
		return []styledLine{{text: truncateText("…", width)}}
	}
	trimmed := make([]styledLine, 0, height)
	trimmed = append(trimmed, lines[:height-1]...)
	trimmed = append(trimmed, styledLine{text: truncateText("…", width)})
	return trimmed
}

func applyWidth(lines []styledLine, width int) []styledLine {
	if width <= 0 {
		return lines
	}
	result := make([]styledLine, len(lines))
	for i, line := range lines {
		line.text = truncateText(line.text, width)
		result[i] = line
	}
	return result
}

func renderLines(lines []styledLine) string {
	out := make([]string, len(lines))
	for i, line := range lines {
		text := line.text
		if line.raw {
			out[i] = text
			continue
		}
		runes := []rune(text)
		if line.highlightFrom > 0 && line.highlightFrom < len(runes) {
			head := string(runes[:line.highlightFrom])
			tail := string(runes[line.highlightFrom:])
			if line.prefixStyle != nil {
				head = line.prefixStyle.Render(head)
			}
			if line.style != nil {
				tail = line.style.Render(tail)
			}
			text = head + tail
		} else if line.style != nil && text != "" {
			text = line.style.Render(text)
		}
		out[i] = text
	}
	return strings.Join(out, "\n")
}

func truncateText(text string, width int) string {
	if width <= 0 || ansi.StringWidth(text) <= width {
		return text
	}
	if width == 1 {
		return ansi.Truncate(text, 1, "")
	}
	return ansi.Truncate(text, width, "…")
}
