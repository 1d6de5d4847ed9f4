package cli

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/runnerr0/focusguard/internal/app"
	"github.com/runnerr0/focusguard/internal/blocker"
	"github.com/runnerr0/focusguard/internal/config"
	"github.com/runnerr0/focusguard/internal/iocli"
	"github.com/runnerr0/focusguard/internal/session"
	"github.com/runnerr0/focusguard/internal/storage"
)

const testHostsContent = "127.0.0.1 localhost\n::1 localhost\n"

// newTestApp returns an App on an in-memory database, a temporary session file
// and a hosts file in a temporary directory that the blocker may edit.
func newTestApp(t *testing.T) *app.App {
	t.Helper()
	dir := t.TempDir()

	db, err := sqlx.Open("sqlite3", ":memory:?_foreign_keys=on")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	store, err := storage.New(db, storage.WithBcryptCost(bcrypt.MinCost))
	require.NoError(t, err)
	require.NoError(t, store.EnsureSchema(t.Context()))

	sessions, err := session.Open(filepath.Join(dir, "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sessions.Close() })

	cfg := config.DefaultConfig()
	cfg.Storage.Path = dir
	cfg.Hosts.Path = filepath.Join(dir, "hosts")
	cfg.Focus.TickInterval = time.Millisecond
	require.NoError(t, os.WriteFile(cfg.Hosts.Path, []byte(testHostsContent), 0o644))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return app.New(app.App{
		Config: cfg,
		Logger: logger,
		Store:  store,
		Blocker: blocker.New(blocker.Options{
			Path:       cfg.Hosts.Path,
			Logger:     logger,
			Elevated:   func() bool { return true },
			GOOS:       "linux",
			PolicyDirs: []string{},
		}),
		Sessions: sessions,
	})
}

// testRun executes args against a and returns stdout.
func testRun(t *testing.T, a *app.App, input string, args ...string) (string, error) {
	t.Helper()
	var out, stderr bytes.Buffer
	e := &env{
		globals: &GlobalFlags{},
		version: "test",
		out:     &out,
		stderr:  &stderr,
		prompt:  iocli.New(strings.NewReader(input), &out),
		now:     time.Now,
		app:     a,
	}
	err := runWithEnv(e, args)
	return out.String(), err
}

// mustRun is testRun failing the test on error.
func mustRun(t *testing.T, a *app.App, input string, args ...string) string {
	t.Helper()
	out, err := testRun(t, a, input, args...)
	require.NoError(t, err, out)
	return out
}

// loginAs creates name with password secret1 and logs in.
func loginAs(t *testing.T, a *app.App, name string) {
	t.Helper()
	mustRun(t, a, "secret1\nsecret1\n", "user", "add", name)
	mustRun(t, a, "secret1\n", "login", name)
}

func writeSiteFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "blocked_sites.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func readHosts(t *testing.T, a *app.App) string {
	t.Helper()
	b, err := os.ReadFile(a.Config.Hosts.Path)
	require.NoError(t, err)
	return string(b)
}

// restoreHosts puts the original hosts file back behind the app's back.
func restoreHosts(t *testing.T, a *app.App) {
	t.Helper()
	require.NoError(t, os.WriteFile(a.Config.Hosts.Path, []byte(testHostsContent), 0o644))
}
