package ui

import (
	"errors"
	"strings"
	"testing"

	"github.com/atomicstack/erp-navstate/internal/selection"
	uistate "github.com/atomicstack/erp-navstate/internal/ui/state"
	tea "github.com/charmbracelet/bubbletea"
)

func TestOpenFromCatalogPushesTabs(t *testing.T) {
	h := NewHarness(newTestModel(t, ""))
	root := h.Model().currentLevel()
	root.Cursor = root.IndexOf("catalog:143")
	h.Send(keyPress(tea.KeyEnter))

	m := h.Model()
	current := m.currentLevel()
	if current.Kind != uistate.KindTabs || current.Window != "143" {
		t.Fatalf("expected tabs level for 143, got %s/%s", current.Kind, current.Window)
	}
	if m.loading {
		t.Fatalf("expected loading cleared after result")
	}
	if q := m.session.Query(); q != "w_143=active&o_143=1&wi_143=143" {
		t.Fatalf("unexpected query %q", q)
	}
	if m.stack[0].IndexOf("instance:143") != 0 {
		t.Fatalf("expected root refreshed with the new instance, got %v", itemIDs(m.stack[0]))
	}
}

func TestSelectRecordReturnsToTabs(t *testing.T) {
	m := newTestModel(t, "w_143=active&o_143=1&wi_143=143")
	m.pushTabs("143")
	h := NewHarness(m)
	h.Send(keyPress(tea.KeyEnter))
	if kind := h.Model().currentLevel().Kind; kind != uistate.KindRecords {
		t.Fatalf("expected records level, got %s", kind)
	}
	h.Send(keyPress(tea.KeyDown))
	h.Send(keyPress(tea.KeyEnter))

	m = h.Model()
	tabs := m.currentLevel()
	if tabs.Kind != uistate.KindTabs {
		t.Fatalf("expected to return to tabs, got %s", tabs.Kind)
	}
	if got := itemIDs(tabs); strings.Join(got, ",") != "186,187,188" {
		t.Fatalf("expected child tabs after selecting a header, got %v", got)
	}
	if tabs.Items[0].Record != "SO-1002" {
		t.Fatalf("expected header to carry SO-1002, got %q", tabs.Items[0].Record)
	}
	if !strings.Contains(m.session.Query(), "s_143_186=SO-1002") {
		t.Fatalf("expected selection committed, got %q", m.session.Query())
	}
	rec, ok := m.session.Graph().Selected(selection.Tab{Window: "143", ID: "186"})
	if !ok || rec.ID() != "SO-1002" {
		t.Fatalf("expected graph to follow selection, got %v", rec)
	}
}

func TestToggleFormMode(t *testing.T) {
	m := newTestModel(t, "w_143=active&o_143=1&wi_143=143&s_143_186=SO-1001")
	m.pushTabs("143")
	h := NewHarness(m)
	h.Send(keyPress(tea.KeyCtrlF))
	q := h.Model().session.Query()
	if !strings.Contains(q, "tf_143_186=SO-1001&tm_143_186=form&tfm_143_186=edit") {
		t.Fatalf("expected form keys, got %q", q)
	}
	if detail := h.Model().currentLevel().Items[0].Detail; detail != "SO-1001 form:SO-1001 edit" {
		t.Fatalf("expected tab detail refreshed, got %q", detail)
	}
	h.Send(keyPress(tea.KeyCtrlF))
	q = h.Model().session.Query()
	if strings.Contains(q, "tf_143_186") || !strings.Contains(q, "tm_143_186=table") {
		t.Fatalf("expected table mode, got %q", q)
	}
}

func TestFormModeWithoutRecordReportsKind(t *testing.T) {
	m := newTestModel(t, "w_143=active&o_143=1&wi_143=143")
	m.pushTabs("143")
	h := NewHarness(m)
	h.Send(keyPress(tea.KeyCtrlF))
	if h.Model().errKind != "invalid_parameters" {
		t.Fatalf("expected invalid parameters, got %q (%s)", h.Model().errKind, h.Model().errMsg)
	}
	if view := h.View(); !strings.Contains(view, "Error [invalid_parameters]") {
		t.Fatalf("expected error in view, got:\n%s", view)
	}
}

func TestOpenRecordInForm(t *testing.T) {
	m := newTestModel(t, "w_143=active&o_143=1&wi_143=143&s_143_186=SO-1001")
	m.pushTabs("143")
	m.pushRecords("143", "187")
	h := NewHarness(m)
	h.Send(keyPress(tea.KeyDown))
	h.Send(keyPress(tea.KeyCtrlF))
	q := h.Model().session.Query()
	if !strings.Contains(q, "tf_143_187=L-20&tm_143_187=form&tfm_143_187=edit") {
		t.Fatalf("expected L-20 opened in form, got %q", q)
	}
	if h.Model().currentLevel().Items[1].Detail != "form" {
		t.Fatalf("expected record marked as open in form")
	}
}

func TestMarkedRecordsGoToGraphOnly(t *testing.T) {
	m := newTestModel(t, "w_143=active&o_143=1&wi_143=143&s_143_186=SO-1001")
	m.pushTabs("143")
	m.pushRecords("143", "187")
	before := m.session.Query()
	h := NewHarness(m)
	h.Send(keyPress(tea.KeyTab))
	h.Send(keyPress(tea.KeyDown))
	h.Send(keyPress(tea.KeyTab))
	h.Send(keyPress(tea.KeyEnter))

	tab := selection.Tab{Window: "143", ID: "187"}
	if got := h.Model().session.Graph().SelectedMultiple(tab); len(got) != 2 {
		t.Fatalf("expected two marked records, got %v", got)
	}
	if q := h.Model().session.Query(); q != before {
		t.Fatalf("expected url untouched by marks, got %q", q)
	}
	if h.Model().currentLevel().Kind != uistate.KindRecords {
		t.Fatalf("expected to stay on the records level")
	}

	h.Send(keyPress(tea.KeyCtrlR))
	if got := h.Model().session.Graph().SelectedMultiple(tab); len(got) != 0 {
		t.Fatalf("expected marks cleared, got %v", got)
	}
}

func TestClearChildren(t *testing.T) {
	m := newTestModel(t, "w_143=active&o_143=1&wi_143=143&s_143_186=SO-1001&s_143_187=L-10&s_143_189=LT-1")
	m.pushTabs("143")
	tabs := m.currentLevel()
	tabs.Cursor = tabs.IndexOf("186")
	h := NewHarness(m)
	h.Send(keyPress(tea.KeyCtrlD))
	q := h.Model().session.Query()
	if q != "w_143=active&o_143=1&wi_143=143&s_143_186=SO-1001" {
		t.Fatalf("expected descendants cleared, got %q", q)
	}
}

func TestNewInstanceFromWindowsLevel(t *testing.T) {
	h := NewHarness(newTestModel(t, "w_143=active&o_143=1&wi_143=143"))
	h.Send(keyPress(tea.KeyCtrlN))
	m := h.Model()
	if w := m.currentLevel().Window; w != "143_abcd1234" {
		t.Fatalf("expected new instance level, got %q", w)
	}
	root := m.stack[0]
	if idx := root.IndexOf("instance:143_abcd1234"); idx < 0 {
		t.Fatalf("expected new instance listed, got %v", itemIDs(root))
	}
	if !strings.Contains(root.Items[0].Label, "(143)") {
		t.Fatalf("expected instances of one window to be told apart, got %q", root.Items[0].Label)
	}
}

func TestCloseDropsLevelsOfClosedWindow(t *testing.T) {
	m := newTestModel(t, "w_143=active&o_143=1&wi_143=143&s_143_186=SO-1001")
	m.pushTabs("143")
	m.pushRecords("143", "187")
	h := NewHarness(m)
	h.Send(keyPress(tea.KeyCtrlX))
	m = h.Model()
	if len(m.stack) != 1 {
		t.Fatalf("expected only the root level, got %d", len(m.stack))
	}
	if q := m.session.Query(); q != "" {
		t.Fatalf("expected empty query, got %q", q)
	}
	if _, ok := m.session.WindowState("143"); ok {
		t.Fatalf("expected window state dropped")
	}
}

func TestGoHome(t *testing.T) {
	m := newTestModel(t, "w_143=active&o_143=1&wi_143=143")
	m.pushTabs("143")
	h := NewHarness(m)
	h.Send(keyPress(tea.KeyCtrlG))
	m = h.Model()
	if len(m.stack) != 1 {
		t.Fatalf("expected to return to the root")
	}
	if q := m.session.Query(); q != "w_143=inactive&o_143=1&wi_143=143" {
		t.Fatalf("unexpected query %q", q)
	}
	if !strings.Contains(h.View(), "Home") {
		t.Fatalf("expected Home tab in view")
	}
}

func TestCopyURL(t *testing.T) {
	m := newTestModel(t, "w_143=active&o_143=1&wi_143=143")
	var copied string
	m.copyText = func(text string) error {
		copied = text
		return nil
	}
	h := NewHarness(m)
	h.Send(keyPress(tea.KeyCtrlY))
	if copied != "w_143=active&o_143=1&wi_143=143" {
		t.Fatalf("unexpected clipboard text %q", copied)
	}
	if !strings.Contains(h.View(), "Copied URL") {
		t.Fatalf("expected copy confirmation in view")
	}
}

func TestCopyURLFailure(t *testing.T) {
	m := newTestModel(t, "w_143=active&o_143=1&wi_143=143")
	m.copyText = func(string) error { return errors.New("no clipboard") }
	h := NewHarness(m)
	h.Send(keyPress(tea.KeyCtrlY))
	if !strings.Contains(h.Model().errMsg, "no clipboard") {
		t.Fatalf("expected clipboard error, got %q", h.Model().errMsg)
	}
}
