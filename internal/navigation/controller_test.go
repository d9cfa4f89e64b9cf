package navigation

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atomicstack/erp-navstate/internal/metadata"
	"github.com/atomicstack/erp-navstate/internal/state"
)

func testCatalog(t *testing.T) *metadata.Catalog {
	t.Helper()
	c := metadata.NewCatalog()
	require.NoError(t, c.Add(metadata.Window{
		ID:   "W123",
		Name: "Sales Order",
		Tabs: []metadata.Tab{
			{ID: "H", Level: 0},
			{ID: "C1", ParentTabID: "H", Level: 1},
			{ID: "C2", ParentTabID: "H", Level: 1},
			{ID: "G1", ParentTabID: "C1", Level: 2},
		},
	}))
	require.NoError(t, c.Add(metadata.Window{
		ID:   "W9",
		Name: "Partner",
		Tabs: []metadata.Tab{{ID: "T10", Level: 0}, {ID: "T11", ParentTabID: "T10", Level: 1}},
	}))
	return c
}

func newController(t *testing.T, query string) (*Controller, *MemoryRouter) {
	t.Helper()
	router, err := NewMemoryRouter(query)
	require.NoError(t, err)
	n := 0
	ctrl := New(router, testCatalog(t), WithSuffixFunc(func() string {
		n++
		return fmt.Sprintf("s%d", n)
	}))
	return ctrl, router
}

func TestOpenWindowAndSelectOnEmptyURL(t *testing.T) {
	router, err := NewMemoryRouter("")
	require.NoError(t, err)
	ctrl := New(router, nil)

	id, err := ctrl.OpenWindowAndSelect("W9", Selection{TabID: "T10", RecordID: "R77"})
	require.NoError(t, err)

	assert.Equal(t, "W9", id)
	assert.Equal(t, 1, router.Commits())
	assert.Equal(t, "w_W9=active&o_W9=1&wi_W9=W9&s_W9_T10=R77", router.Query())
	assert.Len(t, router.Current(), 4)
}

func TestClearChildrenSelectionsKeepsWindowKeys(t *testing.T) {
	ctrl, router := newController(t, "w_W123=active&o_W123=1&wi_W123=W123&s_W123_C1=R1&tf_W123_C1=R1&tm_W123_C1=form&s_W123_C2=R2&tf_W123_C2=R2&tm_W123_C2=form")

	require.NoError(t, ctrl.ClearChildrenSelections("W123", []string{"C1", "C2"}))

	assert.Equal(t, 1, router.Commits())
	assert.Equal(t, "w_W123=active&o_W123=1&wi_W123=W123", router.Query())
}

func TestTwoSelectionsBeforeRenderBothPersist(t *testing.T) {
	ctrl, router := newController(t, "w_W123=active&o_W123=1&wi_W123=W123&s_W123_H=SO1")
	snapshot := ctrl.Current()

	require.NoError(t, ctrl.SelectRecordInTab("W123", "C1", "L1"))
	require.NoError(t, ctrl.SelectRecordInTab("W123", "C2", "X1"))

	assert.Equal(t, 2, router.Commits())
	c1, ok := ctrl.SelectedRecord("W123", "C1")
	require.True(t, ok)
	assert.Equal(t, "L1", c1)
	c2, ok := ctrl.SelectedRecord("W123", "C2")
	require.True(t, ok)
	assert.Equal(t, "X1", c2)
	assert.Empty(t, snapshot[0].Tabs["C1"].Selected)
}

func TestSelectRecordClearsOnlyDescendants(t *testing.T) {
	ctrl, router := newController(t, "w_W123=active&o_W123=1&wi_W123=W123"+
		"&s_W123_H=SO1&s_W123_C1=L1&tf_W123_C1=L1&tm_W123_C1=form&tfm_W123_C1=edit"+
		"&s_W123_G1=G1&s_W123_C2=X1")

	require.NoError(t, ctrl.SelectRecordInTab("W123", "H", "SO2"))

	assert.Equal(t, 1, router.Commits())
	assert.Equal(t, "w_W123=active&o_W123=1&wi_W123=W123&s_W123_H=SO2", router.Query())

	ctrl, router = newController(t, "w_W123=active&o_W123=1&wi_W123=W123"+
		"&s_W123_H=SO1&s_W123_C1=L1&s_W123_G1=G1&s_W123_C2=X1&tm_W123_C2=table")
	require.NoError(t, ctrl.SelectRecordInTab("W123", "C1", "L2"))

	assert.Equal(t, 1, router.Commits())
	assert.Equal(t, "w_W123=active&o_W123=1&wi_W123=W123&s_W123_C1=L2&s_W123_C2=X1&tm_W123_C2=table&s_W123_H=SO1", router.Query())
}

func TestOpenWindowReusesExistingInstance(t *testing.T) {
	ctrl, router := newController(t, "w_W123=inactive&o_W123=3&wi_W123=W123&w_W9=active&o_W9=5&wi_W9=W9")

	id, err := ctrl.OpenWindow("W123")
	require.NoError(t, err)
	assert.Equal(t, "W123", id)
	assert.Equal(t, 1, router.Commits())
	assert.Equal(t, "w_W123=active&o_W123=3&wi_W123=W123&w_W9=inactive&o_W9=5&wi_W9=W9", router.Query())
}

func TestOpenWindowCreatesWithNextOrder(t *testing.T) {
	ctrl, router := newController(t, "w_W9=active&o_W9=7&wi_W9=W9")

	id, err := ctrl.OpenWindow("W123")
	require.NoError(t, err)
	assert.Equal(t, "W123", id)
	assert.Equal(t, "w_W9=inactive&o_W9=7&wi_W9=W9&w_W123=active&o_W123=8&wi_W123=W123", router.Query())

	summaries := ctrl.Windows()
	require.Len(t, summaries, 2)
	assert.Equal(t, WindowSummary{Identifier: "W9", WindowID: "W9", Title: "Partner", Order: 7}, summaries[0])
	assert.Equal(t, WindowSummary{Identifier: "W123", WindowID: "W123", Title: "Sales Order", Order: 8, Active: true}, summaries[1])
}

func TestOpenWindowInstanceAddsSecondInstance(t *testing.T) {
	ctrl, router := newController(t, "w_W9=active&o_W9=1&wi_W9=W9&s_W9_T10=R1")

	id, err := ctrl.OpenWindowInstance("W9")
	require.NoError(t, err)
	assert.Equal(t, "W9_s1", id)
	assert.Equal(t, "w_W9=inactive&o_W9=1&wi_W9=W9&s_W9_T10=R1&w_W9_s1=active&o_W9_s1=2&wi_W9_s1=W9_s1", router.Query())

	require.NoError(t, ctrl.SelectRecordInTab("W9_s1", "T10", "R2"))
	first, _ := ctrl.SelectedRecord("W9", "T10")
	second, _ := ctrl.SelectedRecord("W9_s1", "T10")
	assert.Equal(t, "R1", first)
	assert.Equal(t, "R2", second)
}

func TestCloseWindowActivatesHighestOrder(t *testing.T) {
	ctrl, router := newController(t, "w_A=inactive&o_A=1&wi_A=A&w_B=active&o_B=2&wi_B=B&w_C=inactive&o_C=3&wi_C=C&s_B_T=R")

	require.NoError(t, ctrl.CloseWindow("B"))
	assert.Equal(t, 1, router.Commits())
	assert.Equal(t, "w_A=inactive&o_A=1&wi_A=A&w_C=active&o_C=3&wi_C=C", router.Query())

	require.NoError(t, ctrl.CloseWindow("A"))
	active, ok := ctrl.ActiveWindow()
	require.True(t, ok)
	assert.Equal(t, "C", active.Identifier)

	require.NoError(t, ctrl.CloseWindow("C"))
	assert.Equal(t, "", router.Query())
	_, ok = ctrl.ActiveWindow()
	assert.False(t, ok)
	assert.Equal(t, 3, router.Commits())
}

func TestSetTabMode(t *testing.T) {
	ctrl, router := newController(t, "w_W123=active&o_W123=1&wi_W123=W123&s_W123_H=SO1")

	require.NoError(t, ctrl.SetTabMode("W123", "H", state.ModeForm, ""))
	assert.Equal(t, "w_W123=active&o_W123=1&wi_W123=W123&s_W123_H=SO1&tf_W123_H=SO1&tm_W123_H=form&tfm_W123_H=edit", router.Query())
	assert.Equal(t, state.ModeForm, ctrl.TabMode("W123", "H"))

	require.NoError(t, ctrl.SetTabMode("W123", "C1", state.ModeForm, state.NewRecordID))
	w, _ := ctrl.Window("W123")
	assert.Equal(t, state.FormNew, w.Tabs["C1"].FormMode)

	require.NoError(t, ctrl.SetTabMode("W123", "H", state.ModeTable, ""))
	w, _ = ctrl.Window("W123")
	assert.Equal(t, state.ModeTable, w.Tabs["H"].Mode)
	assert.Empty(t, w.Tabs["H"].FormRecordID)
	assert.Empty(t, w.Tabs["H"].FormMode)
	assert.Equal(t, "SO1", w.Tabs["H"].Selected)
	assert.Equal(t, 3, router.Commits())
}

func TestActivateWindowAndGoHome(t *testing.T) {
	ctrl, router := newController(t, "w_A=active&o_A=1&wi_A=A&w_B=inactive&o_B=2&wi_B=B")

	require.NoError(t, ctrl.ActivateWindow("B"))
	active, _ := ctrl.ActiveWindow()
	assert.Equal(t, "B", active.Identifier)

	require.NoError(t, ctrl.GoHome())
	_, ok := ctrl.ActiveWindow()
	assert.False(t, ok)
	assert.Len(t, ctrl.Windows(), 2)
	assert.Equal(t, 2, router.Commits())
}

func TestEveryOperationCommitsExactlyOnce(t *testing.T) {
	ops := map[string]func(*Controller) error{
		"open":          func(c *Controller) error { _, err := c.OpenWindow("W9"); return err },
		"open instance": func(c *Controller) error { _, err := c.OpenWindowInstance("W123"); return err },
		"open select": func(c *Controller) error {
			_, err := c.OpenWindowAndSelect("W123", Selection{TabID: "C1", RecordID: "L9"})
			return err
		},
		"select":   func(c *Controller) error { return c.SelectRecordInTab("W123", "H", "SO9") },
		"clear":    func(c *Controller) error { return c.ClearChildrenSelections("W123", []string{"C1", "C2", "G1"}) },
		"close":    func(c *Controller) error { return c.CloseWindow("W123") },
		"mode":     func(c *Controller) error { return c.SetTabMode("W123", "C1", state.ModeForm, "L1") },
		"activate": func(c *Controller) error { return c.ActivateWindow("W123") },
		"home":     func(c *Controller) error { return c.GoHome() },
	}
	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			ctrl, router := newController(t, "w_W123=active&o_W123=1&wi_W123=W123&s_W123_H=SO1&s_W123_C1=L1&s_W123_C2=X1&s_W123_G1=G1")
			require.NoError(t, op(ctrl))
			assert.Equal(t, 1, router.Commits())
		})
	}
}

func TestFailedOperationsDoNotCommit(t *testing.T) {
	ctrl, router := newController(t, "w_W123=active&o_W123=1&wi_W123=W123&w_W7=inactive&o_W7=2&wi_W7=W7")

	err := ctrl.SelectRecordInTab("missing", "H", "R")
	assert.True(t, errors.Is(err, ErrWindowNotFound))
	assert.Equal(t, KindNotFound, Classify(err))

	err = ctrl.SelectRecordInTab("W123", "nope", "R")
	assert.True(t, errors.Is(err, ErrTabNotFound))

	err = ctrl.SelectRecordInTab("W7", "H", "R")
	assert.True(t, errors.Is(err, ErrMetadataUnavailable))
	assert.True(t, errors.Is(err, metadata.ErrUnavailable))
	assert.Equal(t, KindMetadata, Classify(err))

	err = ctrl.SetTabMode("W123", "H", state.TabMode("grid"), "")
	assert.True(t, errors.Is(err, ErrInvalidMode))
	assert.Equal(t, KindInvalidParameters, Classify(err))

	err = ctrl.SetTabMode("W123", "H", state.ModeForm, "")
	assert.True(t, errors.Is(err, ErrInvalidSelection))

	_, err = ctrl.OpenWindow("bad_id")
	assert.True(t, errors.Is(err, ErrInvalidWindowID))

	assert.Equal(t, KindUnknown, Classify(errors.New("boom")))
	assert.Equal(t, 0, router.Commits())
}

func TestTabModeDefaultsToTable(t *testing.T) {
	ctrl, _ := newController(t, "w_W123=active&o_W123=1&wi_W123=W123")
	assert.Equal(t, state.ModeTable, ctrl.TabMode("W123", "H"))
	assert.Equal(t, state.ModeTable, ctrl.TabMode("missing", "H"))
	_, ok := ctrl.SelectedRecord("W123", "H")
	assert.False(t, ok)
}

func TestCommitLeavesOneActiveWindow(t *testing.T) {
	ctrl, router := newController(t, "w_W123=active&o_W123=1&wi_W123=W123&w_W9=active&o_W9=2&wi_W9=W9")

	require.NoError(t, ctrl.SelectRecordInTab("W123", "H", "R1"))
	assert.Equal(t, "w_W123=active&o_W123=1&wi_W123=W123&s_W123_H=R1&w_W9=inactive&o_W9=2&wi_W9=W9", router.Query())

	active := 0
	for _, w := range ctrl.Windows() {
		if w.Active {
			active++
			assert.Equal(t, "W123", w.Identifier)
		}
	}
	assert.Equal(t, 1, active)
}
