package app

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runnerr0/focusguard/internal/config"
	"github.com/runnerr0/focusguard/internal/storage"
)

func TestNew_Degraded(t *testing.T) {
	a := New(App{Sessions: openTestSessions(t), Blocker: &fakeBlocker{}})

	assert.True(t, a.Degraded())
	assert.NotNil(t, a.Config)
	assert.NotNil(t, a.Logger)
	assert.NotNil(t, a.Status)

	_, err := a.RequireStore()
	assert.ErrorIs(t, err, ErrDegraded)
}

func TestRequireStore(t *testing.T) {
	a, _ := newTestApp(t)
	assert.False(t, a.Degraded())

	store, err := a.RequireStore()
	require.NoError(t, err)
	assert.Same(t, a.Store, store)
}

func TestOpen_SQLite(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Storage.Path = t.TempDir()
	cfg.Hosts.Path = filepath.Join(cfg.Storage.Path, "hosts")

	a, err := Open(t.Context(), cfg, quietLogger())
	require.NoError(t, err)
	assert.False(t, a.Degraded())

	_, err = a.Store.CreateUser(t.Context(), "alice", "secret1")
	require.NoError(t, err)
	require.NoError(t, a.Close())
	assert.FileExists(t, filepath.Join(cfg.Storage.Path, "focusguard.db"))
	assert.FileExists(t, filepath.Join(cfg.Storage.Path, "state.db"))
}

func TestOpen_ConcurrentAppsShareState(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Storage.Path = t.TempDir()
	cfg.Hosts.Path = filepath.Join(cfg.Storage.Path, "hosts")

	first, err := Open(t.Context(), cfg, quietLogger())
	require.NoError(t, err)
	defer first.Close()

	second, err := Open(t.Context(), cfg, quietLogger())
	require.NoError(t, err)
	defer second.Close()

	_, err = first.Sessions.Begin(t.Context(), 1, "alice")
	require.NoError(t, err)

	rec, err := second.Sessions.Current(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "alice", rec.Username)
}

func TestOpen_DegradedWhenDatabaseUnreachable(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Storage.Path = t.TempDir()
	cfg.Database.Driver = "postgres"
	cfg.Database.Host = "127.0.0.1"
	cfg.Database.Port = 1
	cfg.Database.RetryAttempts = 1
	cfg.Database.RetryBackoff = 0

	a, err := Open(t.Context(), cfg, quietLogger())
	require.NoError(t, err)
	defer a.Close()

	assert.True(t, a.Degraded())
	assert.True(t, errors.Is(a.StoreErr, storage.ErrConnection))
}
