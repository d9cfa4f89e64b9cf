package navigation

import (
	"fmt"
	"net/url"
	"strings"
	"sync"
)

// Router is the URL collaborator: a readable snapshot of the committed query
// and a replace that adds no history entry.
type Router interface {
	Current() url.Values
	Replace(rawQuery string) error
}

// MemoryRouter is an in-process Router. Replace commits synchronously and
// notifies subscribers without blocking.
type MemoryRouter struct {
	mu      sync.Mutex
	query   string
	values  url.Values
	commits int
	history []string
	subs    map[int]chan string
	nextSub int
}

// NewMemoryRouter returns a router positioned at the given query.
func NewMemoryRouter(initial string) (*MemoryRouter, error) {
	r := &MemoryRouter{subs: make(map[int]chan string)}
	values, err := parse(initial)
	if err != nil {
		return nil, err
	}
	r.query = strings.TrimPrefix(initial, "?")
	r.values = values
	return r, nil
}

func parse(raw string) (url.Values, error) {
	values, err := url.ParseQuery(strings.TrimPrefix(raw, "?"))
	if err != nil {
		return nil, fmt.Errorf("parse query: %w", err)
	}
	return values, nil
}

// Current returns a copy of the committed query values.
func (r *MemoryRouter) Current() url.Values {
	r.mu.Lock()
	defer r.mu.Unlock()
	dup := make(url.Values, len(r.values))
	for k, v := range r.values {
		dup[k] = append([]string(nil), v...)
	}
	return dup
}

// Query returns the committed query string as it was written.
func (r *MemoryRouter) Query() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.query
}

// Replace commits a new query string.
func (r *MemoryRouter) Replace(rawQuery string) error {
	values, err := parse(rawQuery)
	if err != nil {
		return err
	}
	query := strings.TrimPrefix(rawQuery, "?")
	r.mu.Lock()
	r.query = query
	r.values = values
	r.commits++
	r.history = append(r.history, query)
	for _, ch := range r.subs {
		select {
		case ch <- query:
		default:
		}
	}
	r.mu.Unlock()
	return nil
}

// Commits returns how many times Replace succeeded.
func (r *MemoryRouter) Commits() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.commits
}

// History returns every committed query in order. It is diagnostic only;
// Replace never creates back-navigation entries.
func (r *MemoryRouter) History() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.history...)
}

// Subscribe returns a channel receiving committed queries and a cancel func.
// Slow subscribers miss intermediate commits.
func (r *MemoryRouter) Subscribe() (<-chan string, func()) {
	ch := make(chan string, 8)
	r.mu.Lock()
	id := r.nextSub
	r.nextSub++
	r.subs[id] = ch
	r.mu.Unlock()
	var once sync.Once
	return ch, func() {
		once.Do(func() {
			r.mu.Lock()
			delete(r.subs, id)
			r.mu.Unlock()
			close(ch)
		})
	}
}
