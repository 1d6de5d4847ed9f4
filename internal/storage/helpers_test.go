package storage

import (
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// testNow is a Wednesday.
var testNow = time.Date(2026, time.October, 14, 12, 0, 0, 0, time.UTC)

func openTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Open("sqlite3", ":memory:?_foreign_keys=on")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

// openTestStore creates a migrated in-memory store with a fixed clock.
func openTestStore(t *testing.T) *SQLStore {
	t.Helper()
	db := openTestDB(t)

	store, err := New(db,
		WithClock(func() time.Time { return testNow }),
		WithLocation(time.UTC),
		WithBcryptCost(bcrypt.MinCost),
	)
	require.NoError(t, err)
	require.NoError(t, store.EnsureSchema(t.Context()))
	t.Cleanup(func() { store.Close() })

	return store
}

func mustCreateUser(t *testing.T, s *SQLStore, name string) int64 {
	t.Helper()
	id, err := s.CreateUser(t.Context(), name, "secret1")
	require.NoError(t, err)
	return id
}

func intPtr(v int) *int { return &v }
