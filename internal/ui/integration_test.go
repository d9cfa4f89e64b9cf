package ui

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/atomicstack/erp-navstate/internal/backend"
	"github.com/atomicstack/erp-navstate/internal/metadata"
	"github.com/atomicstack/erp-navstate/internal/navigation"
	"github.com/atomicstack/erp-navstate/internal/session"
	"github.com/atomicstack/erp-navstate/internal/shell"
	tea "github.com/charmbracelet/bubbletea"
)

func TestCatalogPaginationRespectsViewport(t *testing.T) {
	catalog := metadata.NewCatalog()
	for i := 1; i <= 10; i++ {
		err := catalog.Add(metadata.Window{
			ID:   fmt.Sprintf("9%02d", i),
			Name: fmt.Sprintf("win-%02d", i),
			Tabs: []metadata.Tab{{ID: "1", Name: "Main", Level: 0}},
		})
		if err != nil {
			t.Fatalf("add window: %v", err)
		}
	}
	sess, _ := newTestSession(t, "", catalog)
	harness := NewHarness(NewModel(sess, 40, 8, false, false, nil))
	harness.Send(tea.WindowSizeMsg{Width: 40, Height: 8})

	view := harness.View()
	if !strings.Contains(view, "win-01") {
		t.Fatalf("expected win-01 in initial viewport, view =\n%s", view)
	}
	if strings.Contains(view, "win-07") {
		t.Fatalf("expected win-07 to be outside initial viewport, view =\n%s", view)
	}

	for i := 0; i < 7; i++ {
		harness.Send(keyPress(tea.KeyDown))
	}
	view = harness.View()
	if !strings.Contains(view, "win-08") {
		t.Fatalf("expected win-08 to be visible after scrolling, view =\n%s", view)
	}
	if lines := strings.Count(view, "\n") + 1; lines > 8 {
		t.Fatalf("expected at most 8 lines, got %d:\n%s", lines, view)
	}
}

func TestBackendEventRecoversExternalChange(t *testing.T) {
	sess, router := newTestSession(t, "", nil)
	harness := NewHarness(NewModel(sess, 0, 0, false, false, nil))

	if err := router.Replace("w_181=active&o_181=1&wi_181=181&s_181_294=PO-1"); err != nil {
		t.Fatalf("replace: %v", err)
	}
	harness.Send(backendEventMsg{event: backend.Event{Kind: backend.KindURL, Query: router.Query()}})

	root := harness.Model().currentLevel()
	if root.IndexOf("instance:181") != 0 {
		t.Fatalf("expected recovered instance listed first, got %v", itemIDs(root))
	}
	ws, ok := sess.WindowState("181")
	if !ok || !ws.Navigation.Initialized {
		t.Fatalf("expected 181 recovered, got %#v", ws)
	}
}

func TestBackendEventDropsLevelsOfRemovedWindow(t *testing.T) {
	sess, router := newTestSession(t, "w_143=active&o_143=1&wi_143=143", nil)
	m := NewModel(sess, 0, 0, false, false, nil)
	m.pushTabs("143")
	harness := NewHarness(m)

	if err := router.Replace(""); err != nil {
		t.Fatalf("replace: %v", err)
	}
	harness.Send(backendEventMsg{event: backend.Event{Kind: backend.KindURL}})
	if n := len(harness.Model().stack); n != 1 {
		t.Fatalf("expected stack trimmed to root, got %d", n)
	}
}

func TestBackendErrorShownInStatus(t *testing.T) {
	harness := NewHarness(newTestModel(t, ""))
	harness.Send(backendEventMsg{event: backend.Event{Kind: backend.KindURL, Err: errors.New("poll failed")}})
	if view := harness.View(); !strings.Contains(view, "Backend: poll failed") {
		t.Fatalf("expected backend error, got:\n%s", view)
	}
	harness.Send(backendDoneMsg{})
	if harness.Model().backend != nil {
		t.Fatalf("expected watcher detached")
	}
}

func TestRestoredTabBarShownUntilFirstRefresh(t *testing.T) {
	persistence := shell.NewPersistence(shell.NewMemoryStorage())
	persistence.Save(shell.FromWindows([]shell.Entry{{
		Identifier: "123",
		WindowID:   "123",
		Title:      "Business Partner",
		Query:      "w_123=active&o_123=1&wi_123=123",
	}}))
	router, err := navigation.NewMemoryRouter("w_143=active&o_143=1&wi_143=143")
	if err != nil {
		t.Fatalf("router: %v", err)
	}
	sess := session.New(router, metadata.Default(), session.WithShell(persistence))
	if restored := sess.RestoreShell(); len(restored) != 2 {
		t.Fatalf("expected home plus one saved window, got %#v", restored)
	}
	sess.Sync()

	harness := NewHarness(NewModel(sess, 0, 0, false, false, nil))
	bar := strings.SplitN(harness.View(), "\n", 2)[0]
	if !strings.Contains(bar, "Business Partner") || strings.Contains(bar, "Sales Order") {
		t.Fatalf("expected saved tab bar before the first refresh, got %q", bar)
	}

	harness.Send(backendEventMsg{event: backend.Event{Kind: backend.KindURL, Query: router.Query()}})
	bar = strings.SplitN(harness.View(), "\n", 2)[0]
	if !strings.Contains(bar, "Sales Order") || strings.Contains(bar, "Business Partner") {
		t.Fatalf("expected live tab bar after recovery, got %q", bar)
	}
}
