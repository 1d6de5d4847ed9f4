package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runnerr0/focusguard/internal/app"
)

func TestStatus_NotLoggedIn(t *testing.T) {
	a := newTestApp(t)

	out := mustRun(t, a, "", "status")

	assert.Contains(t, out, "focusguard status")
	assert.Contains(t, out, "not logged in")
	assert.Contains(t, out, "Blocking:")
	assert.Contains(t, out, "off")
}

func TestStatus_WithUserAndBlock(t *testing.T) {
	a := newTestApp(t)
	loginAs(t, a, "alice")
	mustRun(t, a, "", "sites", "add", "reddit.com")
	mustRun(t, a, "", "record", "--minutes", "25")
	mustRun(t, a, "", "block")

	out := mustRun(t, a, "", "status")

	assert.Contains(t, out, "alice")
	assert.Contains(t, out, "25 min")
	assert.Contains(t, out, "active")
	assert.Contains(t, out, a.Config.Hosts.Path)
}

func TestStatus_JSONOutput(t *testing.T) {
	a := newTestApp(t)
	loginAs(t, a, "alice")
	mustRun(t, a, "", "sites", "add", "reddit.com")
	mustRun(t, a, "", "block")

	out := mustRun(t, a, "", "--json", "status")

	var s statusJSON
	require.NoError(t, json.Unmarshal([]byte(out), &s))
	assert.Equal(t, "test", s.Version)
	assert.True(t, s.DatabaseOK)
	assert.Equal(t, "alice", s.User)
	require.NotNil(t, s.Hosts)
	assert.True(t, s.Hosts.Blocked)
	assert.Contains(t, s.Hosts.Hosts, "www.reddit.com")
	assert.True(t, s.BlockRecorded)
	assert.NotEmpty(t, s.BlockedSince)
}

func TestStatus_Degraded(t *testing.T) {
	base := newTestApp(t)
	a := app.New(app.App{
		Config:   base.Config,
		Logger:   base.Logger,
		Blocker:  base.Blocker,
		Sessions: base.Sessions,
	})

	out := mustRun(t, a, "", "--json", "status")

	var s statusJSON
	require.NoError(t, json.Unmarshal([]byte(out), &s))
	assert.False(t, s.DatabaseOK)
	assert.Equal(t, app.ErrDegraded.Error(), s.DatabaseError)

	human := mustRun(t, a, "", "status")
	assert.Contains(t, human, "unavailable")
}

func TestStatus_StaleBlockWarning(t *testing.T) {
	a := newTestApp(t)
	loginAs(t, a, "alice")
	mustRun(t, a, "", "block", "--from-file", writeSiteFile(t, "reddit.com\n"))

	// Someone else restored the hosts file.
	restoreHosts(t, a)

	out := mustRun(t, a, "", "status")
	assert.Contains(t, out, "run focusguard unblock")
}
