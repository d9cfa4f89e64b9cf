// Package recovery rebuilds window state from the URL once per change.
//
// Each window instance has a run record holding the signature of the URL
// slice it was recovered from and the run status. A run for an unchanged
// signature is a no-op, and a trigger arriving while the same signature is
// in progress is dropped. Failures never block a window: it is published
// initialized with empty state and the run is marked failed.
package recovery

import (
	"errors"
	"fmt"
	"sync"

	"pkt.systems/pslog"

	"github.com/atomicstack/erp-navstate/internal/hierarchy"
	"github.com/atomicstack/erp-navstate/internal/logging"
	"github.com/atomicstack/erp-navstate/internal/logging/events"
	"github.com/atomicstack/erp-navstate/internal/metadata"
	"github.com/atomicstack/erp-navstate/internal/reconstruct"
	"github.com/atomicstack/erp-navstate/internal/state"
	"github.com/atomicstack/erp-navstate/internal/urlstate"
)

// Status is the lifecycle position of a window's recovery run.
type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// ErrRecoveryPanic wraps a panic raised while recovering a window.
var ErrRecoveryPanic = errors.New("recovery panicked")

const pendingMetadata = "+pending-metadata"

// Run records one recovery attempt.
type Run struct {
	Identifier string
	Signature  string
	Status     Status
	Trivial    bool
	Err        error
}

// Calculator computes the active tab per level.
type Calculator func(metadata.Window, map[string]urlstate.TabEntry) (hierarchy.Result, error)

// Reconstructor builds the window state from a hierarchy result.
type Reconstructor func(metadata.Window, urlstate.Window, hierarchy.Result) state.WindowState

// Option customises an Orchestrator.
type Option func(*Orchestrator)

func WithCalculator(fn Calculator) Option {
	return func(o *Orchestrator) {
		if fn != nil {
			o.calc = fn
		}
	}
}

func WithReconstructor(fn Reconstructor) Option {
	return func(o *Orchestrator) {
		if fn != nil {
			o.rebuild = fn
		}
	}
}

func WithLogger(l pslog.Logger) Option {
	return func(o *Orchestrator) {
		o.log = l
	}
}

// Orchestrator runs recovery per window instance and publishes the result to
// a WindowStore.
type Orchestrator struct {
	mu       sync.Mutex
	provider metadata.Provider
	store    state.WindowStore
	runs     map[string]Run
	gens     map[string]uint64
	calc     Calculator
	rebuild  Reconstructor
	log      pslog.Logger
}

// New returns an Orchestrator reading metadata from provider.
func New(provider metadata.Provider, store state.WindowStore, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		provider: provider,
		store:    store,
		runs:     make(map[string]Run),
		gens:     make(map[string]uint64),
		calc:     hierarchy.Calculate,
		rebuild:  reconstruct.Reconstruct,
		log:      logging.Logger(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Recover brings the published state of raw's window in line with its URL
// slice.
func (o *Orchestrator) Recover(raw urlstate.Window) Run {
	id := raw.Identifier
	trivial := !raw.HasTabState()
	sig := urlstate.Signature(raw)
	if !trivial && !o.ready(raw.WindowID) {
		sig += pendingMetadata
	}

	o.mu.Lock()
	if prev, ok := o.runs[id]; ok && prev.Signature == sig {
		switch prev.Status {
		case StatusInProgress:
			o.mu.Unlock()
			events.Recovery.Skip(id, string(prev.Status))
			return prev
		case StatusCompleted, StatusFailed:
			o.refreshLocked(raw)
			o.mu.Unlock()
			return prev
		}
	}
	gen := o.gens[id]
	run := Run{Identifier: id, Signature: sig, Status: StatusInProgress, Trivial: trivial}
	o.runs[id] = run
	o.mu.Unlock()

	events.Recovery.Start(id, sig, trivial)
	ws, err := o.execute(raw, trivial)
	if err != nil {
		run.Status = StatusFailed
		run.Err = err
		ws = reconstruct.Empty(raw)
		o.log.Error("window recovery failed", "window", raw.WindowID, "identifier", id, "err", err)
		events.Recovery.Fail(id, err)
	} else {
		run.Status = StatusCompleted
		events.Recovery.Complete(id, ws.Navigation.ActiveLevels)
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.gens[id] != gen {
		o.log.Debug("dropping recovery result for unmounted window", "identifier", id)
		return run
	}
	o.runs[id] = run
	o.store.Put(ws)
	return run
}

func (o *Orchestrator) execute(raw urlstate.Window, trivial bool) (ws state.WindowState, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrRecoveryPanic, r)
		}
	}()
	if trivial {
		return reconstruct.Empty(raw), nil
	}
	meta, err := o.lookup(raw.WindowID)
	if errors.Is(err, metadata.ErrUnavailable) {
		o.log.Info("no metadata for window, opening without recovery", "window", raw.WindowID, "identifier", raw.Identifier)
		return reconstruct.Empty(raw), nil
	}
	if err != nil {
		return state.WindowState{}, fmt.Errorf("load metadata: %w", err)
	}
	h, err := o.calc(meta, raw.Tabs)
	if err != nil {
		return state.WindowState{}, fmt.Errorf("calculate hierarchy: %w", err)
	}
	if len(h.Discarded) > 0 {
		o.log.Debug("discarding dangling tab state", "window", meta.ID, "tabs", h.Discarded)
		events.Hierarchy.Discard(meta.ID, h.Discarded)
	}
	return o.rebuild(meta, raw, h), nil
}

func (o *Orchestrator) lookup(windowID string) (metadata.Window, error) {
	if o.provider == nil {
		return metadata.Window{}, fmt.Errorf("%w: %s", metadata.ErrUnavailable, windowID)
	}
	return o.provider.Window(windowID)
}

func (o *Orchestrator) ready(windowID string) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
		}
	}()
	_, err := o.lookup(windowID)
	return err == nil
}

// refreshLocked carries activation and order changes into the published
// state; they do not affect the signature.
func (o *Orchestrator) refreshLocked(raw urlstate.Window) {
	ws, ok := o.store.Get(raw.Identifier)
	if !ok || (ws.IsActive == raw.Active && ws.Order == raw.Order) {
		return
	}
	ws.IsActive = raw.Active
	ws.Order = raw.Order
	o.store.Put(ws)
}

// RecoverAll recovers every window and forgets windows no longer in the URL.
func (o *Orchestrator) RecoverAll(windows []urlstate.Window) []Run {
	runs := make([]Run, 0, len(windows))
	ids := make([]string, 0, len(windows))
	for _, w := range windows {
		ids = append(ids, w.Identifier)
		runs = append(runs, o.Recover(w))
	}
	o.mu.Lock()
	keep := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		keep[id] = struct{}{}
	}
	for id := range o.runs {
		if _, ok := keep[id]; !ok {
			delete(o.runs, id)
			o.gens[id]++
		}
	}
	o.store.Retain(ids)
	o.mu.Unlock()
	return runs
}

// Unmount forgets a window. A run still in progress for it will not publish.
func (o *Orchestrator) Unmount(identifier string) {
	o.mu.Lock()
	o.gens[identifier]++
	delete(o.runs, identifier)
	o.store.Remove(identifier)
	o.mu.Unlock()
	events.Recovery.Unmount(identifier)
}

// Status returns the run status of a window.
func (o *Orchestrator) Status(identifier string) Status {
	o.mu.Lock()
	defer o.mu.Unlock()
	if run, ok := o.runs[identifier]; ok {
		return run.Status
	}
	return StatusNotStarted
}

// Run returns the latest run record of a window.
func (o *Orchestrator) Run(identifier string) (Run, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	run, ok := o.runs[identifier]
	return run, ok
}
