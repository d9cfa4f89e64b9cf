package state

import "sync"

// WindowStore holds the published window states recovered from the URL.
type WindowStore interface {
	Entries() []WindowState
	Get(identifier string) (WindowState, bool)
	Put(WindowState)
	Remove(identifier string)
	Retain(identifiers []string) []string
	Current() (WindowState, bool)
}

type windowStore struct {
	mu      sync.Mutex
	entries map[string]WindowState
}

func NewWindowStore() WindowStore {
	return &windowStore{entries: make(map[string]WindowState)}
}

// Entries returns copies of every window ordered by tab-bar position.
func (w *windowStore) Entries() []WindowState {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.entries) == 0 {
		return nil
	}
	dup := make([]WindowState, 0, len(w.entries))
	for _, entry := range w.entries {
		dup = append(dup, entry.Clone())
	}
	SortWindows(dup)
	return dup
}

func (w *windowStore) Get(identifier string) (WindowState, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	entry, ok := w.entries[identifier]
	if !ok {
		return WindowState{}, false
	}
	return entry.Clone(), true
}

func (w *windowStore) Put(entry WindowState) {
	w.mu.Lock()
	w.entries[entry.WindowIdentifier] = entry.Clone()
	w.mu.Unlock()
}

func (w *windowStore) Remove(identifier string) {
	w.mu.Lock()
	delete(w.entries, identifier)
	w.mu.Unlock()
}

// Retain drops every window not listed and returns the dropped identifiers.
func (w *windowStore) Retain(identifiers []string) []string {
	keep := make(map[string]struct{}, len(identifiers))
	for _, id := range identifiers {
		keep[id] = struct{}{}
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	var dropped []string
	for id := range w.entries {
		if _, ok := keep[id]; !ok {
			delete(w.entries, id)
			dropped = append(dropped, id)
		}
	}
	return dropped
}

// Current returns the active window, if any. Should several be marked
// active, the first by order then identifier wins.
func (w *windowStore) Current() (WindowState, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	var (
		best  WindowState
		found bool
	)
	for _, entry := range w.entries {
		if !entry.IsActive {
			continue
		}
		if !found || entry.Order < best.Order ||
			(entry.Order == best.Order && entry.WindowIdentifier < best.WindowIdentifier) {
			best = entry
			found = true
		}
	}
	if !found {
		return WindowState{}, false
	}
	return best.Clone(), true
}
