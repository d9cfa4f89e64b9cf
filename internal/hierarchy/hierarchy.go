// Package hierarchy decides which tab is active at every nesting level of a
// window from the raw per-tab URL state.
//
// The walk is top-down. The root tab is always active. A child level is
// entered only when the active tab above it scopes a record, and only
// through a child that carries a selection or form entry. When several
// children qualify, one in form mode wins, then declaration order. State on
// any tab that is not reached this way is reported as discarded.
package hierarchy

import (
	"fmt"
	"sort"

	"github.com/atomicstack/erp-navstate/internal/metadata"
	"github.com/atomicstack/erp-navstate/internal/urlstate"
)

// Result is the active tab per level of one window.
type Result struct {
	ActiveTabsByLevel map[int]string
	ActiveLevels      []int
	Discarded         []string
}

// ActiveTab returns the active tab at level.
func (r Result) ActiveTab(level int) (string, bool) {
	id, ok := r.ActiveTabsByLevel[level]
	return id, ok
}

// IsActive reports whether tabID is the active tab of its level.
func (r Result) IsActive(tabID string) bool {
	for _, id := range r.ActiveTabsByLevel {
		if id == tabID {
			return true
		}
	}
	return false
}

// Calculate computes the active tab per level.
func Calculate(win metadata.Window, tabs map[string]urlstate.TabEntry) (Result, error) {
	root, ok := win.Root()
	if !ok {
		return Result{}, fmt.Errorf("window %s: %w", win.ID, metadata.ErrNoRootTab)
	}
	res := Result{ActiveTabsByLevel: map[int]string{root.Level: root.ID}}

	current := root
	visited := map[string]struct{}{root.ID: {}}
	for {
		if tabs[current.ID].RecordContext() == "" {
			break
		}
		next, found := pick(win.Children(current.ID), tabs)
		if !found {
			break
		}
		if _, seen := visited[next.ID]; seen {
			break
		}
		visited[next.ID] = struct{}{}
		res.ActiveTabsByLevel[next.Level] = next.ID
		current = next
	}

	for level := range res.ActiveTabsByLevel {
		res.ActiveLevels = append(res.ActiveLevels, level)
	}
	sort.Ints(res.ActiveLevels)

	// tab ids the metadata does not know are discarded too
	for id, entry := range tabs {
		if _, active := visited[id]; active || entry.IsZero() {
			continue
		}
		res.Discarded = append(res.Discarded, id)
	}
	sort.Strings(res.Discarded)
	return res, nil
}

func pick(children []metadata.Tab, tabs map[string]urlstate.TabEntry) (metadata.Tab, bool) {
	var (
		best  metadata.Tab
		found bool
	)
	for _, child := range children {
		entry, ok := tabs[child.ID]
		if !ok || !carriesState(entry) {
			continue
		}
		if !found {
			best, found = child, true
			continue
		}
		if entry.InForm() && !tabs[best.ID].InForm() {
			best = child
		}
	}
	return best, found
}

func carriesState(entry urlstate.TabEntry) bool {
	return entry.Selected != "" || entry.FormRecordID != "" || entry.InForm()
}
