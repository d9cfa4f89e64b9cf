package metadata

import (
	"errors"
	"fmt"
)

// Tab is one tab definition of a window: its place in the parent/child tree
// and the entity it shows.
type Tab struct {
	ID          string   `yaml:"id" json:"id"`
	Name        string   `yaml:"name" json:"name"`
	ParentTabID string   `yaml:"parentTabId,omitempty" json:"parentTabId,omitempty"`
	Level       int      `yaml:"level" json:"level"`
	EntityName  string   `yaml:"entityName,omitempty" json:"entityName,omitempty"`
	Records     []string `yaml:"records,omitempty" json:"records,omitempty"`
}

// Window is a window definition. Tabs keep their declaration order, which
// breaks ties during hierarchy calculation.
type Window struct {
	ID   string `yaml:"id" json:"id"`
	Name string `yaml:"name" json:"name"`
	Tabs []Tab  `yaml:"tabs" json:"tabs"`
}

var (
	ErrNoRootTab     = errors.New("window has no root tab")
	ErrInvalidWindow = errors.New("invalid window definition")
)

// Title returns the display name, falling back to the id.
func (w Window) Title() string {
	if w.Name != "" {
		return w.Name
	}
	return w.ID
}

// Root returns the first declared tab without a parent.
func (w Window) Root() (Tab, bool) {
	for _, tab := range w.Tabs {
		if tab.ParentTabID == "" {
			return tab, true
		}
	}
	return Tab{}, false
}

// Tab looks up a tab by id.
func (w Window) Tab(id string) (Tab, bool) {
	for _, tab := range w.Tabs {
		if tab.ID == id {
			return tab, true
		}
	}
	return Tab{}, false
}

// Children returns the direct children of parentID in declaration order.
func (w Window) Children(parentID string) []Tab {
	var children []Tab
	for _, tab := range w.Tabs {
		if tab.ParentTabID == parentID && tab.ID != parentID {
			children = append(children, tab)
		}
	}
	return children
}

// Descendants returns every tab below tabID, breadth first.
func (w Window) Descendants(tabID string) []string {
	var out []string
	seen := map[string]struct{}{tabID: {}}
	queue := []string{tabID}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, child := range w.Children(current) {
			if _, ok := seen[child.ID]; ok {
				continue
			}
			seen[child.ID] = struct{}{}
			out = append(out, child.ID)
			queue = append(queue, child.ID)
		}
	}
	return out
}

// ShouldShowTab reports whether tab is visible given the active tab of the
// level above it: root-level tabs always are, deeper tabs only under their
// own parent.
func (w Window) ShouldShowTab(tab Tab, activeParentID string) bool {
	if tab.Level == 0 {
		return true
	}
	return tab.ParentTabID != "" && tab.ParentTabID == activeParentID
}

// Validate checks the tab tree: unique ids, a single root at level 0, known
// parents and levels one below their parent.
func (w Window) Validate() error {
	if w.ID == "" {
		return fmt.Errorf("%w: missing window id", ErrInvalidWindow)
	}
	ids := make(map[string]Tab, len(w.Tabs))
	roots := 0
	for _, tab := range w.Tabs {
		if tab.ID == "" {
			return fmt.Errorf("%w: window %s has a tab without id", ErrInvalidWindow, w.ID)
		}
		if _, dup := ids[tab.ID]; dup {
			return fmt.Errorf("%w: window %s declares tab %s twice", ErrInvalidWindow, w.ID, tab.ID)
		}
		ids[tab.ID] = tab
		if tab.ParentTabID == "" {
			roots++
			if tab.Level != 0 {
				return fmt.Errorf("%w: window %s root tab %s has level %d", ErrInvalidWindow, w.ID, tab.ID, tab.Level)
			}
		}
	}
	if roots == 0 {
		return fmt.Errorf("%w: window %s", ErrNoRootTab, w.ID)
	}
	if roots > 1 {
		return fmt.Errorf("%w: window %s has %d root tabs", ErrInvalidWindow, w.ID, roots)
	}
	for _, tab := range w.Tabs {
		if tab.ParentTabID == "" {
			continue
		}
		parent, ok := ids[tab.ParentTabID]
		if !ok {
			return fmt.Errorf("%w: window %s tab %s references unknown parent %s", ErrInvalidWindow, w.ID, tab.ID, tab.ParentTabID)
		}
		if tab.Level != parent.Level+1 {
			return fmt.Errorf("%w: window %s tab %s has level %d under level %d", ErrInvalidWindow, w.ID, tab.ID, tab.Level, parent.Level)
		}
	}
	return nil
}
