package cli

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/runnerr0/focusguard/internal/app"
	"github.com/runnerr0/focusguard/internal/blocker"
	"github.com/runnerr0/focusguard/internal/session"
)

// statusJSON is the JSON output structure for the status command.
type statusJSON struct {
	Version           string          `json:"version"`
	ConfigDriver      string          `json:"database_driver"`
	DatabaseOK        bool            `json:"database_ok"`
	DatabaseError     string          `json:"database_error,omitempty"`
	DatabaseSizeBytes int64           `json:"database_size_bytes,omitempty"`
	User              string          `json:"user,omitempty"`
	TodayMinutes      int64           `json:"today_minutes"`
	Hosts             *blocker.Status `json:"hosts"`
	BlockRecorded     bool            `json:"block_recorded"`
	BlockedSince      string          `json:"blocked_since,omitempty"`
}

// Execute implements the go-flags Commander interface for StatusCommand.
func (c *StatusCommand) Execute(args []string) error {
	ctx := context.Background()
	a, err := c.env.open(ctx)
	if err != nil {
		return err
	}
	out, err := c.collect(ctx, a)
	if err != nil {
		return err
	}
	if c.env.globals.JSON {
		return c.env.printJSON(out)
	}
	c.printStatusHuman(out)
	return nil
}

func (c *StatusCommand) collect(ctx context.Context, a *app.App) (*statusJSON, error) {
	out := &statusJSON{
		Version:      c.env.version,
		ConfigDriver: a.Config.Database.Driver,
		DatabaseOK:   !a.Degraded(),
	}
	if a.Degraded() {
		out.DatabaseError = a.StoreErr.Error()
	}
	if a.Config.Database.Driver == "sqlite3" {
		if path, err := a.Config.SQLitePath(); err == nil {
			out.DatabaseSizeBytes = fileSize(path)
		}
	}

	hosts, err := a.Blocker.Status(ctx)
	if err != nil {
		return nil, err
	}
	out.Hosts = hosts

	bs, err := a.Sessions.LoadBlockState(ctx)
	if err != nil {
		return nil, err
	}
	if bs.Active {
		out.BlockRecorded = true
		out.BlockedSince = bs.AppliedAt.Format(time.RFC3339)
	}

	rec, err := a.CurrentUser(ctx)
	switch {
	case errors.Is(err, session.ErrNoSession):
	case err != nil:
		return nil, err
	default:
		out.User = rec.Username
		if a.Store != nil {
			now := c.env.now()
			midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
			if out.TodayMinutes, err = a.Store.StudyMinutesSince(ctx, rec.UserID, midnight); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

func (c *StatusCommand) printStatusHuman(s *statusJSON) {
	st := c.env.styles()
	line := func(label, value string) {
		c.env.printf("%s%s\n", st.label.Render(label), value)
	}

	c.env.printf("%s\n", st.title.Render("focusguard status"))
	line("Version:", s.Version)

	db := st.ok.Render("ok") + " (" + s.ConfigDriver
	if s.DatabaseSizeBytes > 0 {
		db += ", " + formatBytes(s.DatabaseSizeBytes)
	}
	db += ")"
	if !s.DatabaseOK {
		db = st.warn.Render("unavailable") + " (" + s.DatabaseError + ")"
	}
	line("Database:", db)

	if s.User == "" {
		line("User:", st.muted.Render("not logged in"))
	} else {
		line("User:", s.User)
		line("Today:", formatMinutes(s.TodayMinutes))
	}

	if s.Hosts.Blocked {
		line("Blocking:", st.warn.Render("active")+" ("+formatNumber(int64(len(s.Hosts.Hosts)))+" hosts in "+s.Hosts.Path+")")
	} else {
		line("Blocking:", "off")
	}
	if s.BlockRecorded && !s.Hosts.Blocked {
		line("", st.warn.Render("a block was recorded but the hosts file has none; run focusguard unblock to clear it"))
	}
}

// fileSize returns the size of path, or 0 when it cannot be read.
func fileSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}
