package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runnerr0/focusguard/internal/config"
	"github.com/runnerr0/focusguard/internal/focus"
	"github.com/runnerr0/focusguard/internal/session"
)

func TestNewFocus_RunsBlocksAndRecords(t *testing.T) {
	fastClock(t, 20*time.Second)
	a, fb := newTestApp(t)
	ctx := t.Context()
	id := mustCreateUser(t, a, "alice")
	_, err := a.Store.AddBlockedSite(ctx, id, "youtube.com")
	require.NoError(t, err)

	c, err := a.NewFocus(ctx, id, FocusOptions{Minutes: 1, Subject: "math", Rating: 4})
	require.NoError(t, err)

	res, err := c.Run(ctx, time.Millisecond)
	require.NoError(t, err)
	assert.True(t, res.Recorded)
	assert.Equal(t, 1, res.Minutes)
	assert.Equal(t, focus.Finished, c.State())

	assert.Equal(t, [][]string{{"youtube.com"}}, fb.applied)
	assert.Equal(t, 1, fb.removed)

	st, err := a.Sessions.LoadBlockState(ctx)
	require.NoError(t, err)
	assert.False(t, st.Active)

	sessions, err := a.Store.RecentSessions(ctx, id, 10)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, 1, sessions[0].DurationMinutes)
	require.NotNil(t, sessions[0].FocusRating)
	assert.Equal(t, 4, *sessions[0].FocusRating)
	require.NotNil(t, sessions[0].SubjectTag)
	assert.Equal(t, "math", *sessions[0].SubjectTag)
}

func TestNewFocus_BlockStateWhileRunning(t *testing.T) {
	a, _ := newTestApp(t)
	ctx := t.Context()
	id := mustCreateUser(t, a, "alice")
	_, err := a.Store.AddBlockedSite(ctx, id, "reddit.com")
	require.NoError(t, err)

	c, err := a.NewFocus(ctx, id, FocusOptions{Minutes: 25})
	require.NoError(t, err)
	require.NoError(t, c.Start(ctx))

	st, err := a.Sessions.LoadBlockState(ctx)
	require.NoError(t, err)
	assert.True(t, st.Active)
	assert.True(t, st.Timer)
	assert.Equal(t, []string{"reddit.com"}, st.Sites)

	require.NoError(t, c.Stop(ctx))
	st, err = a.Sessions.LoadBlockState(ctx)
	require.NoError(t, err)
	assert.False(t, st.Active)
}

func TestNewFocus_Defaults(t *testing.T) {
	a, _ := newTestApp(t)
	id := mustCreateUser(t, a, "alice")

	c, err := a.NewFocus(t.Context(), id, FocusOptions{})
	require.NoError(t, err)
	assert.Equal(t, 25*time.Minute, c.Remaining())

	_, err = a.NewFocus(t.Context(), id, FocusOptions{Minutes: 10, Rating: 9})
	assert.Error(t, err)
}

func TestNewFocus_Degraded(t *testing.T) {
	fb := &fakeBlocker{}
	a := New(App{Sessions: openTestSessions(t), Blocker: fb, Logger: quietLogger()})

	c, err := a.NewFocus(t.Context(), 1, FocusOptions{Minutes: 5})
	require.NoError(t, err)
	require.NoError(t, c.Start(t.Context()))
	assert.Empty(t, fb.applied)
}

func TestRunFocus_RequiresLogin(t *testing.T) {
	a, _ := newTestApp(t)
	err := a.RunFocus(t.Context(), config.ScheduleEntry{Cron: "* * * * *", Minutes: 1})
	assert.ErrorIs(t, err, session.ErrNoSession)
}

func TestRunFocus_Cancelled(t *testing.T) {
	a, fb := newTestApp(t)
	id := mustCreateUser(t, a, "alice")
	_, err := a.Store.AddBlockedSite(t.Context(), id, "reddit.com")
	require.NoError(t, err)
	_, err = a.Login(t.Context(), "alice", "secret1")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(t.Context(), 50*time.Millisecond)
	defer cancel()

	err = a.RunFocus(ctx, config.ScheduleEntry{Cron: "* * * * *", Minutes: 30})
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Len(t, fb.applied, 1)
	assert.Equal(t, 1, fb.removed)

	sessions, err := a.Store.RecentSessions(t.Context(), id, 10)
	require.NoError(t, err)
	assert.Empty(t, sessions)
}
