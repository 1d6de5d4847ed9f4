// Package app wires the focusguard components into one explicit context
// shared by the CLI commands and the interactive screens.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/runnerr0/focusguard/internal/blocker"
	"github.com/runnerr0/focusguard/internal/config"
	"github.com/runnerr0/focusguard/internal/session"
	"github.com/runnerr0/focusguard/internal/storage"
	"github.com/runnerr0/focusguard/internal/todo"
)

var timeNow = time.Now

// ErrDegraded is returned by operations that need the database while
// running without one.
var ErrDegraded = errors.New("database unavailable")

// App is the application context.
type App struct {
	Config   *config.Config
	Logger   *slog.Logger
	Store    storage.Store // nil in degraded mode
	Blocker  blocker.Blocker
	Sessions *session.Store
	Status   *todo.StatusCell

	// StoreErr is why Store is nil.
	StoreErr error

	closers []io.Closer
}

// New assembles an App from ready components. Nil Config, Logger and
// Status are defaulted; the caller keeps ownership of the rest.
func New(a App) *App {
	if a.Config == nil {
		a.Config = config.DefaultConfig()
	}
	if a.Logger == nil {
		a.Logger = slog.Default()
	}
	if a.Status == nil {
		a.Status = &todo.StatusCell{}
	}
	if a.Store == nil && a.StoreErr == nil {
		a.StoreErr = ErrDegraded
	}
	return &a
}

// Open builds the App described by cfg. A database that cannot be reached
// puts the App in degraded mode instead of failing; the session store is
// required.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	statePath, err := cfg.StatePath()
	if err != nil {
		return nil, err
	}
	sessions, err := session.Open(statePath)
	if err != nil {
		return nil, err
	}

	a := New(App{
		Config:   cfg,
		Logger:   logger,
		Blocker:  blocker.NewFromConfig(cfg, logger),
		Sessions: sessions,
	})
	a.closers = append(a.closers, sessions)

	store, err := storage.Open(ctx, cfg, a.Logger)
	if err != nil {
		a.Logger.Warn("running without database", "driver", cfg.Database.Driver, "error", err)
		a.StoreErr = err
		return a, nil
	}
	a.Store = store
	a.StoreErr = nil
	a.closers = append(a.closers, store)
	return a, nil
}

// Degraded reports whether the App runs without a database.
func (a *App) Degraded() bool {
	return a.Store == nil
}

// RequireStore returns the store or an error wrapping ErrDegraded.
func (a *App) RequireStore() (storage.Store, error) {
	if a.Store == nil {
		return nil, fmt.Errorf("%w: %v", ErrDegraded, a.StoreErr)
	}
	return a.Store, nil
}

// Close releases what Open acquired, newest first.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
