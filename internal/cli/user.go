package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/runnerr0/focusguard/internal/session"
)

// Execute implements the go-flags Commander interface for UserAddCommand.
func (c *UserAddCommand) Execute(args []string) error {
	ctx := context.Background()
	_, store, err := c.env.store(ctx)
	if err != nil {
		return err
	}

	pw, err := c.env.readNewPassword("Password: ")
	if err != nil {
		return err
	}
	id, err := store.CreateUser(ctx, c.Args.Username, pw)
	if err != nil {
		return err
	}

	if c.env.globals.JSON {
		return c.env.printJSON(map[string]any{"id": id, "username": c.Args.Username})
	}
	c.env.printf("Created user %s (id %d)\n", c.Args.Username, id)
	return nil
}

// Execute implements the go-flags Commander interface for UserListCommand.
func (c *UserListCommand) Execute(args []string) error {
	ctx := context.Background()
	_, store, err := c.env.store(ctx)
	if err != nil {
		return err
	}

	users, err := store.ListUsers(ctx)
	if err != nil {
		return err
	}
	if c.env.globals.JSON {
		return c.env.printJSON(users)
	}
	if len(users) == 0 {
		c.env.printf("No users.\n")
		return nil
	}

	rows := make([][]string, len(users))
	for i, u := range users {
		rows[i] = []string{strconv.FormatInt(u.ID, 10), u.Username, u.CreatedAt.Local().Format(time.DateOnly)}
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "USERNAME", "CREATED").
		Rows(rows...)
	c.env.printf("%s\n", t.Render())
	return nil
}

// Execute implements the go-flags Commander interface for UserRenameCommand.
func (c *UserRenameCommand) Execute(args []string) error {
	ctx := context.Background()
	a, store, err := c.env.store(ctx)
	if err != nil {
		return err
	}

	u, err := store.GetUserByUsername(ctx, c.Args.Username)
	if err != nil {
		return fmt.Errorf("user %q: %w", c.Args.Username, err)
	}
	if err := store.UpdateUsername(ctx, u.ID, c.Args.NewName); err != nil {
		return err
	}

	// Keep a session of the renamed user valid under the new name.
	if rec, err := a.Sessions.Current(ctx); err == nil && rec.UserID == u.ID {
		if _, err := a.Sessions.Begin(ctx, u.ID, c.Args.NewName); err != nil {
			return err
		}
	}

	c.env.printf("Renamed %s to %s\n", c.Args.Username, c.Args.NewName)
	return nil
}

// Execute implements the go-flags Commander interface for UserPasswdCommand.
func (c *UserPasswdCommand) Execute(args []string) error {
	ctx := context.Background()
	_, store, err := c.env.store(ctx)
	if err != nil {
		return err
	}

	current, err := c.env.console().ReadPassword("Current password: ")
	if err != nil {
		return err
	}
	u, err := store.VerifyUser(ctx, c.Args.Username, current)
	if err != nil {
		return err
	}
	pw, err := c.env.readNewPassword("New password: ")
	if err != nil {
		return err
	}
	if err := store.UpdatePassword(ctx, u.ID, pw); err != nil {
		return err
	}

	c.env.printf("Password changed for %s\n", u.Username)
	return nil
}

// Execute implements the go-flags Commander interface for UserDeleteCommand.
func (c *UserDeleteCommand) Execute(args []string) error {
	ctx := context.Background()
	a, store, err := c.env.store(ctx)
	if err != nil {
		return err
	}

	u, err := store.GetUserByUsername(ctx, c.Args.Username)
	if err != nil {
		return fmt.Errorf("user %q: %w", c.Args.Username, err)
	}

	if !c.Force {
		c.env.printf("This permanently deletes %s with all blocked sites, sessions, records and todos.\n", u.Username)
		answer, err := c.env.console().ReadInput(fmt.Sprintf("Type %q to confirm: ", u.Username))
		if err != nil {
			return fmt.Errorf("aborted: %w", err)
		}
		if answer != u.Username {
			return fmt.Errorf("aborted: confirmation text did not match")
		}
	}

	if err := store.DeleteUser(ctx, u.ID); err != nil {
		return err
	}
	if rec, err := a.Sessions.Current(ctx); err == nil && rec.UserID == u.ID {
		if err := a.Logout(ctx); err != nil {
			return err
		}
	} else if err != nil && !errors.Is(err, session.ErrNoSession) {
		return err
	}

	if c.env.globals.JSON {
		return c.env.printJSON(map[string]any{"deleted": true, "username": u.Username})
	}
	c.env.printf("Deleted user %s\n", u.Username)
	return nil
}
