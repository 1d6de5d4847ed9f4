package cli

import (
	"context"
	"errors"
	"time"

	"github.com/runnerr0/focusguard/internal/session"
)

// Execute implements the go-flags Commander interface for LoginCommand.
func (c *LoginCommand) Execute(args []string) error {
	ctx := context.Background()
	a, err := c.env.open(ctx)
	if err != nil {
		return err
	}

	name := c.Args.Username
	if name == "" {
		if name, err = c.env.console().ReadInput("Username: "); err != nil {
			return err
		}
	}
	pw, err := c.env.console().ReadPassword("Password: ")
	if err != nil {
		return err
	}

	rec, err := a.Login(ctx, name, pw)
	if err != nil {
		return err
	}
	if c.env.globals.JSON {
		return c.env.printJSON(rec)
	}
	c.env.printf("Logged in as %s\n", rec.Username)
	return nil
}

// Execute implements the go-flags Commander interface for LogoutCommand.
func (c *LogoutCommand) Execute(args []string) error {
	ctx := context.Background()
	a, err := c.env.open(ctx)
	if err != nil {
		return err
	}
	if err := a.Logout(ctx); err != nil {
		return err
	}
	c.env.printf("Logged out\n")
	return nil
}

type whoamiJSON struct {
	LoggedIn  bool   `json:"logged_in"`
	UserID    int64  `json:"user_id,omitempty"`
	Username  string `json:"username,omitempty"`
	Session   string `json:"session,omitempty"`
	StartedAt string `json:"started_at,omitempty"`
}

// Execute implements the go-flags Commander interface for WhoamiCommand.
func (c *WhoamiCommand) Execute(args []string) error {
	ctx := context.Background()
	a, err := c.env.open(ctx)
	if err != nil {
		return err
	}

	rec, err := a.CurrentUser(ctx)
	if errors.Is(err, session.ErrNoSession) {
		if c.env.globals.JSON {
			return c.env.printJSON(whoamiJSON{})
		}
		c.env.printf("Not logged in\n")
		return nil
	}
	if err != nil {
		return err
	}

	if c.env.globals.JSON {
		return c.env.printJSON(whoamiJSON{
			LoggedIn:  true,
			UserID:    rec.UserID,
			Username:  rec.Username,
			Session:   rec.ID,
			StartedAt: rec.StartedAt.Format(time.RFC3339),
		})
	}
	c.env.printf("%s (since %s)\n", rec.Username, rec.StartedAt.Local().Format("2006-01-02 15:04"))
	return nil
}
