package reconstruct

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atomicstack/erp-navstate/internal/hierarchy"
	"github.com/atomicstack/erp-navstate/internal/metadata"
	"github.com/atomicstack/erp-navstate/internal/state"
	"github.com/atomicstack/erp-navstate/internal/urlstate"
)

func window() metadata.Window {
	return metadata.Window{
		ID: "143",
		Tabs: []metadata.Tab{
			{ID: "H", Level: 0},
			{ID: "L", ParentTabID: "H", Level: 1},
			{ID: "X", ParentTabID: "H", Level: 1},
			{ID: "LT", ParentTabID: "L", Level: 2},
		},
	}
}

func TestReconstructPopulatesEveryTab(t *testing.T) {
	raw := urlstate.NewWindow("143", "143", 2)
	raw.Active = true
	raw.Tabs["H"] = urlstate.TabEntry{Selected: "SO1"}
	raw.Tabs["L"] = urlstate.TabEntry{Selected: "L10", FormRecordID: "L10", Mode: state.ModeForm}
	raw.Tabs["X"] = urlstate.TabEntry{Selected: "stale"}

	h, err := hierarchy.Calculate(window(), raw.Tabs)
	require.NoError(t, err)
	got := Reconstruct(window(), raw, h)

	assert.Equal(t, "143", got.WindowID)
	assert.Equal(t, 2, got.Order)
	assert.True(t, got.IsActive)
	assert.True(t, got.Navigation.Initialized)
	assert.Equal(t, []int{0, 1}, got.Navigation.ActiveLevels)
	assert.Equal(t, map[int]string{0: "H", 1: "L"}, got.Navigation.ActiveTabsByLevel)

	require.Len(t, got.Tabs, 4)
	assert.Equal(t, "SO1", got.Tabs["H"].SelectedRecord)
	assert.Equal(t, state.FormState{Mode: state.ModeForm, RecordID: "L10", SubMode: state.FormEdit}, got.Tabs["L"].Form)
	assert.Equal(t, state.TabState{Level: 1, Form: state.FormState{Mode: state.ModeTable}}, got.Tabs["X"])
	assert.Equal(t, state.TabState{Level: 2, Form: state.FormState{Mode: state.ModeTable}}, got.Tabs["LT"])
}

func TestReconstructDerivesNewSubMode(t *testing.T) {
	raw := urlstate.NewWindow("143", "143", 1)
	raw.Tabs["H"] = urlstate.TabEntry{FormRecordID: state.NewRecordID, Mode: state.ModeForm}
	h, err := hierarchy.Calculate(window(), raw.Tabs)
	require.NoError(t, err)

	got := Reconstruct(window(), raw, h)
	assert.Equal(t, state.FormNew, got.Tabs["H"].Form.SubMode)
}

func TestEmptyIsInitializedWithoutTabs(t *testing.T) {
	raw := urlstate.NewWindow("", "143_ab12", 3)
	got := Empty(raw)
	assert.Equal(t, "143", got.WindowID)
	assert.True(t, got.Navigation.Initialized)
	assert.Empty(t, got.Tabs)
	assert.Equal(t, []int{0}, got.Navigation.ActiveLevels)
}
