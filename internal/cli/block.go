package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/runnerr0/focusguard/internal/blocker"
)

func elevationHint(err error) error {
	if errors.Is(err, blocker.ErrNotElevated) {
		return fmt.Errorf("%w: run focusguard as root or from an elevated prompt", err)
	}
	return err
}

// Execute implements the go-flags Commander interface for BlockCommand.
func (c *BlockCommand) Execute(args []string) error {
	ctx := context.Background()

	var sites []string
	a, err := c.env.open(ctx)
	if err != nil {
		return err
	}
	if c.FromFile != "" {
		if sites, err = blocker.ReadSiteFile(c.FromFile); err != nil {
			return err
		}
	} else {
		_, _, rec, err := c.env.user(ctx)
		if err != nil {
			return err
		}
		if sites, err = a.UserSites(ctx, rec.UserID); err != nil {
			return err
		}
	}
	if len(sites) == 0 {
		return fmt.Errorf("no sites to block")
	}

	if err := a.Block(ctx, sites); err != nil {
		return elevationHint(err)
	}

	st, err := a.Blocker.Status(ctx)
	if err != nil {
		return err
	}
	if c.env.globals.JSON {
		return c.env.printJSON(st)
	}
	c.env.printf("Blocked %d sites (%d hosts) in %s\n", len(sites), len(st.Hosts), st.Path)
	return nil
}

// Execute implements the go-flags Commander interface for UnblockCommand.
func (c *UnblockCommand) Execute(args []string) error {
	ctx := context.Background()
	a, err := c.env.open(ctx)
	if err != nil {
		return err
	}
	if err := a.Unblock(ctx); err != nil {
		return elevationHint(err)
	}
	c.env.printf("Websites unblocked\n")
	return nil
}
