package metadata

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

// ErrUnavailable is returned when no metadata is loaded for a window.
var ErrUnavailable = errors.New("window metadata unavailable")

// Provider supplies window metadata by window id.
type Provider interface {
	Window(windowID string) (Window, error)
}

//go:embed catalog.yaml
var defaultCatalog []byte

type catalogFile struct {
	Windows []Window `yaml:"windows"`
}

// Catalog is an in-memory Provider backed by a list of window definitions.
type Catalog struct {
	mu      sync.RWMutex
	windows map[string]Window
	order   []string
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{windows: make(map[string]Window)}
}

// Parse builds a catalog from YAML.
func Parse(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	c := NewCatalog()
	for _, w := range file.Windows {
		if err := c.Add(w); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Load reads a YAML catalog from path.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// Default returns the built-in demo catalog.
func Default() *Catalog {
	c, err := Parse(defaultCatalog)
	if err != nil {
		panic(fmt.Sprintf("built-in catalog: %v", err))
	}
	return c
}

// Add validates and registers a window, replacing any previous definition.
func (c *Catalog) Add(w Window) error {
	if err := w.Validate(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.windows[w.ID]; !exists {
		c.order = append(c.order, w.ID)
	}
	c.windows[w.ID] = cloneWindow(w)
	return nil
}

// Window implements Provider.
func (c *Catalog) Window(windowID string) (Window, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	w, ok := c.windows[windowID]
	if !ok {
		return Window{}, fmt.Errorf("%w: %s", ErrUnavailable, windowID)
	}
	return cloneWindow(w), nil
}

// Windows returns every window in declaration order.
func (c *Catalog) Windows() []Window {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Window, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, cloneWindow(c.windows[id]))
	}
	return out
}

func cloneWindow(w Window) Window {
	dup := w
	dup.Tabs = make([]Tab, len(w.Tabs))
	for i, tab := range w.Tabs {
		tab.Records = append([]string(nil), tab.Records...)
		dup.Tabs[i] = tab
	}
	return dup
}
