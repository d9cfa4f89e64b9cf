package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/atomicstack/erp-navstate/internal/backend"
	"github.com/atomicstack/erp-navstate/internal/logging"
	"github.com/atomicstack/erp-navstate/internal/metadata"
	"github.com/atomicstack/erp-navstate/internal/navigation"
	"github.com/atomicstack/erp-navstate/internal/session"
	"github.com/atomicstack/erp-navstate/internal/shell"
	"github.com/atomicstack/erp-navstate/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
)

// Config describes user-provided application options.
type Config struct {
	URL          string
	CatalogPath  string
	Storage      shell.Kind
	StoragePath  string
	Width        int
	Height       int
	ShowFooter   bool
	Verbose      bool
	PollInterval time.Duration
}

// Env is a recovered session together with the resources behind it.
type Env struct {
	Session  *session.Session
	Router   *navigation.MemoryRouter
	Catalog  *metadata.Catalog
	Restored []shell.NavigationTab // tab bar saved by the previous run
	close    func() error
}

// Close releases the tab bar storage.
func (e *Env) Close() error {
	if e == nil || e.close == nil {
		return nil
	}
	return e.close()
}

// Bootstrap loads the catalog, opens the tab bar storage and recovers the
// session for cfg.URL.
func Bootstrap(cfg Config, opts ...session.Option) (*Env, error) {
	catalog := metadata.Default()
	if cfg.CatalogPath != "" {
		loaded, err := metadata.Load(cfg.CatalogPath)
		if err != nil {
			return nil, fmt.Errorf("load catalog: %w", err)
		}
		catalog = loaded
	}
	storage, closeStorage, err := shell.Open(cfg.Storage, cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	router, err := navigation.NewMemoryRouter(cfg.URL)
	if err != nil {
		_ = closeStorage()
		return nil, fmt.Errorf("parse url: %w", err)
	}
	log := logging.Logger()
	persistence := shell.NewPersistence(storage).WithLogger(log)
	opts = append([]session.Option{session.WithShell(persistence), session.WithLogger(log)}, opts...)
	sess := session.New(router, catalog, opts...)
	restored := sess.RestoreShell()
	sess.Sync()
	return &Env{Session: sess, Router: router, Catalog: catalog, Restored: restored, close: closeStorage}, nil
}

// Run bootstraps and executes the Bubble Tea program.
func Run(ctx context.Context, cfg Config) error {
	env, err := Bootstrap(cfg)
	if err != nil {
		return err
	}
	defer env.Close()

	watcher := backend.NewWatcher(ctx, env.Router, cfg.PollInterval)
	defer watcher.Stop()
	model := ui.NewModel(env.Session, cfg.Width, cfg.Height, cfg.ShowFooter, cfg.Verbose, watcher)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = program.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}
