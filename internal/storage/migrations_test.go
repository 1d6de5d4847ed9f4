package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationRunner_FreshDB(t *testing.T) {
	db := openTestDB(t)
	runner, err := NewMigrationRunner(db)
	require.NoError(t, err)
	require.NoError(t, runner.Run(t.Context()))

	expectedTables := []string{
		"users",
		"study_sessions",
		"blocked_sites",
		"todos",
		"personal_records",
		"schema_migrations",
	}
	for _, table := range expectedTables {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}

	v, err := runner.Version(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 2, v)
}

func TestMigrationRunner_Idempotent(t *testing.T) {
	db := openTestDB(t)
	runner, err := NewMigrationRunner(db)
	require.NoError(t, err)

	require.NoError(t, runner.Run(t.Context()))
	require.NoError(t, runner.Run(t.Context()))

	var count int
	require.NoError(t, db.Get(&count, "SELECT COUNT(*) FROM schema_migrations"))
	assert.Equal(t, 2, count)
}

func TestMigrationRunner_LegacySessionsTable(t *testing.T) {
	db := openTestDB(t)

	// Layout written by builds that predate session analytics.
	_, err := db.Exec(`CREATE TABLE users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username VARCHAR(50) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE study_sessions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		start_time DATETIME NOT NULL,
		end_time DATETIME,
		duration_minutes INTEGER
	)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO users (username, password_hash, created_at) VALUES ('alice', 'x', ?)`, testNow)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO study_sessions (user_id, start_time, end_time, duration_minutes) VALUES (1, ?, NULL, 25)`,
		testNow.Add(-time.Hour))
	require.NoError(t, err)

	store, err := New(db, WithClock(func() time.Time { return testNow }), WithLocation(time.UTC))
	require.NoError(t, err)
	require.NoError(t, store.EnsureSchema(t.Context()))

	for _, col := range []string{"focus_rating", "subject_tag", "distractions_count", "notes"} {
		ok, err := store.dialect.hasColumn(t.Context(), db, "study_sessions", col)
		require.NoError(t, err)
		assert.True(t, ok, "column %s should exist", col)
	}

	sessions, err := store.RecentSessions(t.Context(), 1, 10)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, 25, sessions[0].DurationMinutes)
	assert.Nil(t, sessions[0].FocusRating)
	assert.Nil(t, sessions[0].EndTime)
	assert.Equal(t, 0, sessions[0].DistractionsCount)

	// New sessions use the added columns.
	_, err = store.RecordStudySession(t.Context(), SessionInput{UserID: 1, DurationMinutes: 10, FocusRating: intPtr(3), SubjectTag: "math"})
	require.NoError(t, err)
}

func TestMigrationRunner_UnsupportedDriver(t *testing.T) {
	_, err := dialectFor("oracle")
	assert.Error(t, err)
}
