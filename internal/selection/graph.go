package selection

import (
	"sync"

	"github.com/atomicstack/erp-navstate/internal/logging/events"
)

// Event names a selection change.
type Event string

const (
	EventSelected           Event = "selected"
	EventSelectedMultiple   Event = "selectedMultiple"
	EventUnselected         Event = "unselected"
	EventUnselectedMultiple Event = "unselectedMultiple"
)

// Record is an entity row as handed over by a datasource.
type Record map[string]any

// ID returns the record's "id" field as a string.
func (r Record) ID() string {
	if r == nil {
		return ""
	}
	if id, ok := r["id"].(string); ok {
		return id
	}
	return ""
}

func (r Record) clone() Record {
	if r == nil {
		return nil
	}
	dup := make(Record, len(r))
	for k, v := range r {
		dup[k] = v
	}
	return dup
}

// Tab addresses a tab of a specific window instance. The zero value matches
// every tab when used to register a listener.
type Tab struct {
	Window string
	ID     string
}

// IsZero reports whether t is the wildcard tab.
func (t Tab) IsZero() bool {
	return t == Tab{}
}

// Notification is delivered to listeners.
type Notification struct {
	Event   Event
	Tab     Tab
	Record  Record
	Records []Record
}

// Listener receives selection notifications.
type Listener func(Notification)

// ListenerID identifies a registration for RemoveListener.
type ListenerID uint64

type node struct {
	selected         Record
	selectedMultiple []Record
}

type registration struct {
	id    ListenerID
	event Event
	tab   Tab
	fn    Listener
}

// Graph caches per-tab selections and notifies listeners of changes. It is
// rebuilt from the URL on recovery and never cascades to child tabs.
type Graph struct {
	mu        sync.Mutex
	nodes     map[Tab]*node
	listeners []registration
	nextID    ListenerID
}

// New returns an empty Graph.
func New() *Graph {
	return &Graph{nodes: make(map[Tab]*node)}
}

func (g *Graph) ensure(tab Tab) *node {
	n, ok := g.nodes[tab]
	if !ok {
		n = &node{}
		g.nodes[tab] = n
	}
	return n
}

// Select replaces the single selection of tab and emits EventSelected.
func (g *Graph) Select(tab Tab, record Record) {
	g.mu.Lock()
	g.ensure(tab).selected = record.clone()
	g.mu.Unlock()
	g.emit(Notification{Event: EventSelected, Tab: tab, Record: record.clone()})
}

// SelectMultiple replaces the multiple selection of tab and emits
// EventSelectedMultiple.
func (g *Graph) SelectMultiple(tab Tab, records []Record) {
	g.mu.Lock()
	g.ensure(tab).selectedMultiple = cloneRecords(records)
	g.mu.Unlock()
	g.emit(Notification{Event: EventSelectedMultiple, Tab: tab, Records: cloneRecords(records)})
}

// Unselect clears the single selection of tab and emits EventUnselected.
func (g *Graph) Unselect(tab Tab) {
	g.mu.Lock()
	if n, ok := g.nodes[tab]; ok {
		n.selected = nil
	}
	g.mu.Unlock()
	g.emit(Notification{Event: EventUnselected, Tab: tab})
}

// UnselectMultiple clears the multiple selection of tab and emits
// EventUnselectedMultiple.
func (g *Graph) UnselectMultiple(tab Tab) {
	g.mu.Lock()
	if n, ok := g.nodes[tab]; ok {
		n.selectedMultiple = nil
	}
	g.mu.Unlock()
	g.emit(Notification{Event: EventUnselectedMultiple, Tab: tab})
}

// Selected returns the single selection of tab.
func (g *Graph) Selected(tab Tab) (Record, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	n, ok := g.nodes[tab]
	if !ok || n.selected == nil {
		return nil, false
	}
	return n.selected.clone(), true
}

// SelectedMultiple returns the multiple selection of tab.
func (g *Graph) SelectedMultiple(tab Tab) []Record {
	g.mu.Lock()
	defer g.mu.Unlock()
	n, ok := g.nodes[tab]
	if !ok {
		return nil
	}
	return cloneRecords(n.selectedMultiple)
}

// Clear drops the node of tab without notifying anyone.
func (g *Graph) Clear(tab Tab) {
	g.mu.Lock()
	delete(g.nodes, tab)
	g.mu.Unlock()
}

// Reset drops every node. Listeners stay registered.
func (g *Graph) Reset() {
	g.mu.Lock()
	g.nodes = make(map[Tab]*node)
	g.mu.Unlock()
}

// Tabs returns the tabs that currently hold a node.
func (g *Graph) Tabs() []Tab {
	g.mu.Lock()
	defer g.mu.Unlock()
	tabs := make([]Tab, 0, len(g.nodes))
	for tab := range g.nodes {
		tabs = append(tabs, tab)
	}
	return tabs
}

// AddListener registers fn for event on tab. Several listeners may share the
// same event and tab; a zero Tab listens on every tab.
func (g *Graph) AddListener(event Event, tab Tab, fn Listener) ListenerID {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.nextID++
	g.listeners = append(g.listeners, registration{id: g.nextID, event: event, tab: tab, fn: fn})
	return g.nextID
}

// RemoveListener unregisters a listener. Unknown ids are ignored.
func (g *Graph) RemoveListener(id ListenerID) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for i, reg := range g.listeners {
		if reg.id == id {
			g.listeners = append(g.listeners[:i:i], g.listeners[i+1:]...)
			return
		}
	}
}

func (g *Graph) emit(n Notification) {
	g.mu.Lock()
	targets := make([]Listener, 0, len(g.listeners))
	for _, reg := range g.listeners {
		if reg.event != n.Event || reg.fn == nil {
			continue
		}
		if !reg.tab.IsZero() && reg.tab != n.Tab {
			continue
		}
		targets = append(targets, reg.fn)
	}
	g.mu.Unlock()
	events.Selection.Emit(string(n.Event), n.Tab.Window, n.Tab.ID, len(targets))
	for _, fn := range targets {
		fn(n)
	}
}

func cloneRecords(records []Record) []Record {
	if len(records) == 0 {
		return nil
	}
	dup := make([]Record, len(records))
	for i, r := range records {
		dup[i] = r.clone()
	}
	return dup
}
