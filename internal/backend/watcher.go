package backend

import (
	"context"
	"net/url"
	"sync"
	"time"

	"github.com/atomicstack/erp-navstate/internal/logging/events"
	"github.com/atomicstack/erp-navstate/internal/urlstate"
)

// Source is the URL the watcher observes.
type Source interface {
	Current() url.Values
}

// Notifier is implemented by sources that can push change notifications.
type Notifier interface {
	Subscribe() (<-chan string, func())
}

// Kind represents the type of data emitted by the backend watcher.
type Kind int

const (
	KindURL Kind = iota
)

// Event conveys a changed URL or an error from a poll.
type Event struct {
	Kind    Kind
	Query   string
	Windows []urlstate.Window
	Err     error
}

const minSpacing = 50 * time.Millisecond

// Watcher polls a Source at a fixed interval and publishes an event whenever
// the encoded query changes. The first poll always emits.
type Watcher struct {
	source   Source
	interval time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	events chan Event
	wg     sync.WaitGroup
}

// NewWatcher starts watching source until ctx is cancelled or Stop is called.
func NewWatcher(ctx context.Context, source Source, interval time.Duration) *Watcher {
	if interval <= 0 {
		interval = time.Second
	}
	ctx, cancel := context.WithCancel(ctx)
	w := &Watcher{
		source:   source,
		interval: interval,
		ctx:      ctx,
		cancel:   cancel,
		events:   make(chan Event, 16),
	}

	w.wg.Add(1)
	go w.poll()

	go func() {
		w.wg.Wait()
		close(w.events)
	}()

	return w
}

// Events returns a channel of backend events.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Stop cancels the watcher. The poller exits after its current fetch; use
// Wait if a clean drain is required (e.g. in tests).
func (w *Watcher) Stop() {
	w.cancel()
}

// Wait blocks until the poller has exited and the events channel is closed.
func (w *Watcher) Wait() {
	w.wg.Wait()
}

func (w *Watcher) fetch() Event {
	windows := urlstate.Decode(w.source.Current())
	return Event{Kind: KindURL, Query: urlstate.EncodeQuery(windows), Windows: windows}
}

func (w *Watcher) poll() {
	defer w.wg.Done()

	var wake <-chan string
	if n, ok := w.source.(Notifier); ok {
		ch, unsubscribe := n.Subscribe()
		defer unsubscribe()
		wake = ch
	}

	throttle := newThrottle(minSpacing)
	last := ""
	first := true
	emit := func() bool {
		if !throttle.wait(w.ctx) {
			return false
		}
		evt := w.fetch()
		if !first && evt.Query == last {
			return true
		}
		first = false
		last = evt.Query
		events.URL.Changed(evt.Query)
		select {
		case <-w.ctx.Done():
			return false
		case w.events <- evt:
			return true
		}
	}

	if !emit() {
		return
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			if !emit() {
				return
			}
		case <-wake:
			if !emit() {
				return
			}
		}
	}
}
