package ui

import (
	"testing"

	"github.com/atomicstack/erp-navstate/internal/metadata"
	"github.com/atomicstack/erp-navstate/internal/navigation"
	"github.com/atomicstack/erp-navstate/internal/session"
	tea "github.com/charmbracelet/bubbletea"
)

func newTestSession(t *testing.T, query string, catalog session.Catalog) (*session.Session, *navigation.MemoryRouter) {
	t.Helper()
	router, err := navigation.NewMemoryRouter(query)
	if err != nil {
		t.Fatalf("router: %v", err)
	}
	if catalog == nil {
		catalog = metadata.Default()
	}
	sess := session.New(router, catalog, session.WithControllerOptions(
		navigation.WithSuffixFunc(func() string { return "abcd1234" }),
	))
	sess.Sync()
	return sess, router
}

func newTestModel(t *testing.T, query string) *Model {
	t.Helper()
	sess, _ := newTestSession(t, query, nil)
	return NewModel(sess, 0, 0, false, false, nil)
}

func keyPress(k tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: k}
}

func itemIDs(l *level) []string {
	ids := make([]string, 0, len(l.Items))
	for _, item := range l.Items {
		ids = append(ids, item.ID)
	}
	return ids
}
