// Package shell mirrors the open-window tab bar into a Storage backend so it
// can be painted before URL recovery finishes. The URL stays authoritative;
// every storage or decoding failure here is logged and ignored.
package shell

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"pkt.systems/pslog"

	"github.com/atomicstack/erp-navstate/internal/logging"
	"github.com/atomicstack/erp-navstate/internal/logging/events"
	"github.com/atomicstack/erp-navstate/internal/state"
)

const (
	StorageKey = "navigationTabs"
	MaxTabs    = 10
	HomeURL    = "/"
	HomeTitle  = "Home"
	homeIcon   = "🏠"
)

// TabType is the kind of shell entry.
type TabType string

const (
	TypeHome    TabType = "home"
	TypeWindow  TabType = "window"
	TypeProcess TabType = "process"
	TypeReport  TabType = "report"
)

// TabMetadata is optional detail about the entry's focused tab.
type TabMetadata struct {
	EntityName string        `json:"entityName,omitempty"`
	TabID      string        `json:"tabId,omitempty"`
	Mode       state.TabMode `json:"mode,omitempty"`
}

// NavigationTab is one persisted tab-bar entry.
type NavigationTab struct {
	Title    string       `json:"title"`
	WindowID string       `json:"windowId,omitempty"`
	RecordID string       `json:"recordId,omitempty"`
	URL      string       `json:"url"`
	Type     TabType      `json:"type"`
	Metadata *TabMetadata `json:"metadata,omitempty"`
	Icon     string       `json:"icon,omitempty"`
}

// CanClose reports whether the entry may be closed from the tab bar.
func (t NavigationTab) CanClose() bool {
	return t.Type != TypeHome
}

// HomeTab is the fixed first entry.
func HomeTab() NavigationTab {
	return NavigationTab{Title: HomeTitle, URL: HomeURL, Type: TypeHome, Icon: homeIcon}
}

// Entry describes one open window instance for FromWindows.
type Entry struct {
	Identifier string
	WindowID   string
	Title      string
	Query      string
	RecordID   string
	TabID      string
	EntityName string
	Mode       state.TabMode
}

// FromWindows builds the shell: the home tab followed by one entry per open
// window, capped at MaxTabs by dropping the oldest windows.
func FromWindows(entries []Entry) []NavigationTab {
	if len(entries) > MaxTabs-1 {
		entries = entries[len(entries)-(MaxTabs-1):]
	}
	tabs := make([]NavigationTab, 0, len(entries)+1)
	tabs = append(tabs, HomeTab())
	for _, e := range entries {
		title := e.Title
		if title == "" {
			title = e.WindowID
		}
		tab := NavigationTab{
			Title:    title,
			WindowID: e.WindowID,
			RecordID: e.RecordID,
			URL:      windowURL(e.Query),
			Type:     TypeWindow,
		}
		if e.TabID != "" {
			tab.Metadata = &TabMetadata{EntityName: e.EntityName, TabID: e.TabID, Mode: e.Mode}
		}
		tabs = append(tabs, tab)
	}
	return tabs
}

func windowURL(query string) string {
	query = strings.TrimPrefix(query, "?")
	if query == "" {
		return "/window"
	}
	return "/window?" + query
}

// Persistence reads and writes the shell under StorageKey.
type Persistence struct {
	storage Storage
	log     pslog.Logger
}

func NewPersistence(storage Storage) *Persistence {
	return &Persistence{storage: storage, log: logging.Logger()}
}

// WithLogger returns a copy writing warnings to l.
func (p *Persistence) WithLogger(l pslog.Logger) *Persistence {
	cp := *p
	cp.log = l
	return &cp
}

// Load returns the persisted tabs, or nil when nothing usable is stored.
func (p *Persistence) Load() []NavigationTab {
	if p == nil || p.storage == nil {
		return nil
	}
	raw, ok, err := p.storage.GetItem(StorageKey)
	if err != nil {
		p.log.Warn("reading navigation tabs failed", "err", err)
		return nil
	}
	if !ok || raw == "" {
		return nil
	}
	var tabs []NavigationTab
	if err := json.Unmarshal([]byte(raw), &tabs); err != nil {
		p.log.Warn("decoding navigation tabs failed", "err", err)
		return nil
	}
	events.Shell.Load(len(tabs))
	return tabs
}

// Save stores tabs. It reports whether the write went through.
func (p *Persistence) Save(tabs []NavigationTab) bool {
	if p == nil || p.storage == nil {
		return false
	}
	if tabs == nil {
		tabs = []NavigationTab{}
	}
	data, err := json.Marshal(tabs)
	if err != nil {
		p.log.Warn("encoding navigation tabs failed", "err", err)
		return false
	}
	if err := p.storage.SetItem(StorageKey, string(data)); err != nil {
		p.log.Warn("writing navigation tabs failed", "err", err)
		return false
	}
	events.Shell.Save(len(tabs))
	return true
}

// Clear removes the stored shell.
func (p *Persistence) Clear() {
	if p == nil || p.storage == nil {
		return
	}
	if err := p.storage.RemoveItem(StorageKey); err != nil {
		p.log.Warn("removing navigation tabs failed", "err", err)
	}
}

// Kind names a storage backend.
type Kind string

const (
	KindMemory Kind = "memory"
	KindFile   Kind = "file"
	KindSQLite Kind = "sqlite"
)

// ErrUnknownKind is returned by Open for an unrecognised backend.
var ErrUnknownKind = errors.New("unknown storage kind")

// Open returns the backend for kind. The returned close func is never nil.
func Open(kind Kind, path string) (Storage, func() error, error) {
	noop := func() error { return nil }
	switch kind {
	case "", KindMemory:
		return NewMemoryStorage(), noop, nil
	case KindFile:
		if path == "" {
			path = "navstate-shell"
		}
		return NewFileStorage(path), noop, nil
	case KindSQLite:
		if path == "" {
			path = "navstate.db"
		}
		s, err := OpenSQLite(path)
		if err != nil {
			return nil, noop, err
		}
		return s, s.Close, nil
	default:
		return nil, noop, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}
