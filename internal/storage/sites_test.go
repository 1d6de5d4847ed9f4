package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddBlockedSite_Normalizes(t *testing.T) {
	store := openTestStore(t)
	ctx := t.Context()
	id := mustCreateUser(t, store, "alice")

	site, err := store.AddBlockedSite(ctx, id, "https://www.YouTube.com/watch?v=1")
	require.NoError(t, err)
	assert.Equal(t, "youtube.com", site)

	_, err = store.AddBlockedSite(ctx, id, "youtube.com")
	assert.ErrorIs(t, err, ErrSiteExists)

	_, err = store.AddBlockedSite(ctx, id, "not a site")
	assert.ErrorIs(t, err, ErrInvalidSite)
}

func TestListBlockedSites_OrderedAndScoped(t *testing.T) {
	store := openTestStore(t)
	ctx := t.Context()
	alice := mustCreateUser(t, store, "alice")
	bob := mustCreateUser(t, store, "bob")

	for _, s := range []string{"reddit.com", "facebook.com", "youtube.com"} {
		_, err := store.AddBlockedSite(ctx, alice, s)
		require.NoError(t, err)
	}
	_, err := store.AddBlockedSite(ctx, bob, "netflix.com")
	require.NoError(t, err)

	sites, err := store.ListBlockedSites(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, []string{"facebook.com", "reddit.com", "youtube.com"}, sites)

	details, err := store.BlockedSiteDetails(ctx, bob)
	require.NoError(t, err)
	require.Len(t, details, 1)
	assert.Equal(t, "netflix.com", details[0].Website)
	assert.WithinDuration(t, testNow, details[0].AddedAt, 0)

	none, err := store.ListBlockedSites(ctx, 999)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestRemoveBlockedSite(t *testing.T) {
	store := openTestStore(t)
	ctx := t.Context()
	id := mustCreateUser(t, store, "alice")

	_, err := store.AddBlockedSite(ctx, id, "reddit.com")
	require.NoError(t, err)

	require.NoError(t, store.RemoveBlockedSite(ctx, id, "www.reddit.com"))
	assert.ErrorIs(t, store.RemoveBlockedSite(ctx, id, "reddit.com"), ErrNotFound)

	sites, err := store.ListBlockedSites(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, sites)
}
