package storage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runnerr0/focusguard/internal/crypto"
)

func TestCreateUser_VerifyUser(t *testing.T) {
	store := openTestStore(t)
	ctx := t.Context()

	id, err := store.CreateUser(ctx, "  alice ", "secret1")
	require.NoError(t, err)
	assert.Positive(t, id)

	u, err := store.VerifyUser(ctx, "alice", "secret1")
	require.NoError(t, err)
	assert.Equal(t, id, u.ID)
	assert.Equal(t, "alice", u.Username)
	assert.True(t, strings.HasPrefix(u.PasswordHash, "$2"), "new hashes are bcrypt")
	assert.WithinDuration(t, testNow, u.CreatedAt, 0)
}

func TestCreateUser_Duplicate(t *testing.T) {
	store := openTestStore(t)
	ctx := t.Context()

	mustCreateUser(t, store, "alice")

	_, err := store.CreateUser(ctx, "alice", "another")
	assert.ErrorIs(t, err, ErrDuplicateUser)

	// Usernames are case-sensitive.
	_, err = store.CreateUser(ctx, "Alice", "another")
	assert.NoError(t, err)

	n, err := store.CountUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestCreateUser_Validation(t *testing.T) {
	store := openTestStore(t)
	ctx := t.Context()

	cases := []struct {
		name     string
		username string
		password string
	}{
		{"short username", "ab", "secret1"},
		{"long username", strings.Repeat("a", 51), "secret1"},
		{"blank username", "   ", "secret1"},
		{"bad characters", "al!ce", "secret1"},
		{"short password", "alice", "abc"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := store.CreateUser(ctx, tc.username, tc.password)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestVerifyUser_InvalidCredentials(t *testing.T) {
	store := openTestStore(t)
	ctx := t.Context()
	mustCreateUser(t, store, "alice")

	_, err := store.VerifyUser(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = store.VerifyUser(ctx, "bob", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = store.VerifyUser(ctx, "ALICE", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestVerifyUser_UpgradesLegacyHash(t *testing.T) {
	store := openTestStore(t)
	ctx := t.Context()

	_, err := store.db.Exec(
		"INSERT INTO users (username, password_hash, created_at) VALUES (?, ?, ?)",
		"legacy", crypto.LegacyHash("password"), testNow,
	)
	require.NoError(t, err)

	_, err = store.VerifyUser(ctx, "legacy", "nope")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	u, err := store.VerifyUser(ctx, "legacy", "password")
	require.NoError(t, err)

	stored, err := store.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, crypto.IsLegacyHash(stored.PasswordHash))

	_, err = store.VerifyUser(ctx, "legacy", "password")
	assert.NoError(t, err)
}

func TestListUsers_Ordered(t *testing.T) {
	store := openTestStore(t)
	ctx := t.Context()

	empty, err := store.ListUsers(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)

	mustCreateUser(t, store, "carol")
	mustCreateUser(t, store, "alice")
	mustCreateUser(t, store, "bob")

	users, err := store.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, "alice", users[0].Username)
	assert.Equal(t, "bob", users[1].Username)
	assert.Equal(t, "carol", users[2].Username)
}

func TestUpdateUsername(t *testing.T) {
	store := openTestStore(t)
	ctx := t.Context()

	alice := mustCreateUser(t, store, "alice")
	mustCreateUser(t, store, "bob")

	require.NoError(t, store.UpdateUsername(ctx, alice, "alicia"))
	u, err := store.GetUser(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, "alicia", u.Username)

	assert.ErrorIs(t, store.UpdateUsername(ctx, alice, "bob"), ErrDuplicateUser)
	assert.ErrorIs(t, store.UpdateUsername(ctx, alice, "x"), ErrInvalidInput)
	assert.ErrorIs(t, store.UpdateUsername(ctx, 999, "nobody"), ErrNotFound)
}

func TestUpdatePassword(t *testing.T) {
	store := openTestStore(t)
	ctx := t.Context()
	id := mustCreateUser(t, store, "alice")

	require.NoError(t, store.UpdatePassword(ctx, id, "newpass"))

	_, err := store.VerifyUser(ctx, "alice", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = store.VerifyUser(ctx, "alice", "newpass")
	assert.NoError(t, err)

	assert.ErrorIs(t, store.UpdatePassword(ctx, id, "x"), ErrInvalidInput)
	assert.ErrorIs(t, store.UpdatePassword(ctx, 999, "newpass"), ErrNotFound)
}

func TestDeleteUser_Cascades(t *testing.T) {
	store := openTestStore(t)
	ctx := t.Context()

	alice := mustCreateUser(t, store, "alice")
	bob := mustCreateUser(t, store, "bob")

	for _, id := range []int64{alice, bob} {
		_, err := store.AddBlockedSite(ctx, id, "youtube.com")
		require.NoError(t, err)
		_, err = store.RecordStudySession(ctx, SessionInput{UserID: id, DurationMinutes: 25, FocusRating: intPtr(4)})
		require.NoError(t, err)
		require.NoError(t, store.SaveTodos(ctx, id, []TodoItem{{Task: "read"}}))
	}

	require.NoError(t, store.DeleteUser(ctx, alice))

	_, err := store.GetUser(ctx, alice)
	assert.ErrorIs(t, err, ErrNotFound)

	for _, table := range []string{"blocked_sites", "study_sessions", "personal_records", "todos"} {
		var n int
		require.NoError(t, store.db.Get(&n, "SELECT COUNT(*) FROM "+table+" WHERE user_id = ?", alice))
		assert.Zero(t, n, "%s rows for deleted user", table)

		require.NoError(t, store.db.Get(&n, "SELECT COUNT(*) FROM "+table+" WHERE user_id = ?", bob))
		assert.NotZero(t, n, "%s rows for other user", table)
	}

	assert.ErrorIs(t, store.DeleteUser(ctx, alice), ErrNotFound)
}
