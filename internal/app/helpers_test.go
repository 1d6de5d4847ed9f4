package app

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/runnerr0/focusguard/internal/blocker"
	"github.com/runnerr0/focusguard/internal/config"
	"github.com/runnerr0/focusguard/internal/session"
	"github.com/runnerr0/focusguard/internal/storage"
)

type fakeBlocker struct {
	mu       sync.Mutex
	applied  [][]string
	removed  int
	blocked  bool
	applyErr error
}

func (f *fakeBlocker) Apply(ctx context.Context, sites []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.applyErr != nil {
		return f.applyErr
	}
	f.applied = append(f.applied, append([]string(nil), sites...))
	f.blocked = true
	return nil
}

func (f *fakeBlocker) Remove(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed++
	f.blocked = false
	return nil
}

func (f *fakeBlocker) Status(ctx context.Context) (*blocker.Status, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return &blocker.Status{Path: "hosts", Blocked: f.blocked, Hosts: []string{}}, nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func openTestSessions(t *testing.T) *session.Store {
	t.Helper()
	s, err := session.Open(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func openTestStore(t *testing.T) *storage.SQLStore {
	t.Helper()
	db, err := sqlx.Open("sqlite3", ":memory:?_foreign_keys=on")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	store, err := storage.New(db, storage.WithBcryptCost(bcrypt.MinCost), storage.WithLocation(time.UTC))
	require.NoError(t, err)
	require.NoError(t, store.EnsureSchema(t.Context()))
	return store
}

// newTestApp returns an App on an in-memory store, a fake blocker and a
// temporary session file.
func newTestApp(t *testing.T) (*App, *fakeBlocker) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Hosts.Path = filepath.Join(t.TempDir(), "hosts")
	cfg.Focus.TickInterval = time.Millisecond

	fb := &fakeBlocker{}
	a := New(App{
		Config:   cfg,
		Logger:   quietLogger(),
		Store:    openTestStore(t),
		Blocker:  fb,
		Sessions: openTestSessions(t),
	})
	return a, fb
}

func mustCreateUser(t *testing.T, a *App, name string) int64 {
	t.Helper()
	id, err := a.Store.CreateUser(t.Context(), name, "secret1")
	require.NoError(t, err)
	return id
}

// fastClock makes timeNow advance by step on every call until the test
// ends.
func fastClock(t *testing.T, step time.Duration) {
	t.Helper()
	var mu sync.Mutex
	now := time.Date(2026, time.October, 14, 9, 0, 0, 0, time.UTC)
	old := timeNow
	timeNow = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now = now.Add(step)
		return now
	}
	t.Cleanup(func() { timeNow = old })
}
