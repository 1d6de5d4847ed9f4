package session

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "state", "state.db")

	store, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return store, path
}

func TestStore_BeginCurrentEnd(t *testing.T) {
	ctx := context.Background()
	store, _ := createTestStore(t)
	fixed := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return fixed }

	_, err := store.Current(ctx)
	assert.ErrorIs(t, err, ErrNoSession)

	rec, err := store.Begin(ctx, 7, "alice")
	require.NoError(t, err)
	_, err = uuid.Parse(rec.ID)
	assert.NoError(t, err)

	got, err := store.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, int64(7), got.UserID)
	assert.Equal(t, "alice", got.Username)
	assert.True(t, got.StartedAt.Equal(fixed))

	require.NoError(t, store.End(ctx))
	_, err = store.Current(ctx)
	assert.ErrorIs(t, err, ErrNoSession)

	assert.NoError(t, store.End(ctx), "ending twice is fine")
}

func TestStore_BeginReplaces(t *testing.T) {
	ctx := context.Background()
	store, _ := createTestStore(t)

	first, err := store.Begin(ctx, 1, "alice")
	require.NoError(t, err)
	second, err := store.Begin(ctx, 2, "bob")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	got, err := store.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, "bob", got.Username)
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	store, path := createTestStore(t)

	_, err := store.Begin(ctx, 1, "alice")
	require.NoError(t, err)
	require.NoError(t, store.SaveBlockState(ctx, BlockState{Active: true, Sites: []string{"reddit.com"}, HostsPath: "/etc/hosts"}))
	require.NoError(t, store.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)

	st, err := reopened.LoadBlockState(ctx)
	require.NoError(t, err)
	assert.True(t, st.Active)
	assert.Equal(t, []string{"reddit.com"}, st.Sites)
}

func TestStore_BlockState(t *testing.T) {
	ctx := context.Background()
	store, _ := createTestStore(t)

	st, err := store.LoadBlockState(ctx)
	require.NoError(t, err)
	assert.False(t, st.Active)
	assert.Empty(t, st.Sites)

	require.NoError(t, store.SaveBlockState(ctx, BlockState{Active: true, Sites: []string{"a.com"}}))
	require.NoError(t, store.ClearBlockState(ctx))

	st, err = store.LoadBlockState(ctx)
	require.NoError(t, err)
	assert.False(t, st.Active)
}

func TestStore_SharedBetweenProcesses(t *testing.T) {
	ctx := context.Background()
	first, path := createTestStore(t)

	second, err := Open(path)
	require.NoError(t, err)
	defer second.Close()

	_, err = first.Begin(ctx, 1, "alice")
	require.NoError(t, err)

	got, err := second.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)

	require.NoError(t, second.SaveBlockState(ctx, BlockState{Active: true, Timer: true, Sites: []string{"reddit.com"}}))
	st, err := first.LoadBlockState(ctx)
	require.NoError(t, err)
	assert.True(t, st.Timer)

	require.NoError(t, second.End(ctx))
	_, err = first.Current(ctx)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestStore_ConcurrentWriters(t *testing.T) {
	ctx := context.Background()
	first, path := createTestStore(t)
	second, err := Open(path)
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := range 10 {
		for _, s := range []*Store{first, second} {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := s.Begin(ctx, int64(i), "user")
				errs <- err
			}()
		}
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}

	_, err = first.Current(ctx)
	assert.NoError(t, err)
}
