package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/runnerr0/focusguard/internal/blocker"
	"github.com/runnerr0/focusguard/internal/storage"
)

// Execute implements the go-flags Commander interface for SitesAddCommand.
// Sites already on the list are reported and skipped.
func (c *SitesAddCommand) Execute(args []string) error {
	ctx := context.Background()
	_, store, rec, err := c.env.user(ctx)
	if err != nil {
		return err
	}

	added := []string{}
	for _, raw := range c.Args.Sites {
		site, err := store.AddBlockedSite(ctx, rec.UserID, raw)
		if errors.Is(err, storage.ErrSiteExists) {
			c.env.printf("Already blocked: %s\n", raw)
			continue
		}
		if err != nil {
			return fmt.Errorf("%s: %w", raw, err)
		}
		added = append(added, site)
	}

	if c.env.globals.JSON {
		return c.env.printJSON(map[string]any{"added": added})
	}
	for _, s := range added {
		c.env.printf("Blocked %s\n", s)
	}
	return nil
}

// Execute implements the go-flags Commander interface for SitesListCommand.
func (c *SitesListCommand) Execute(args []string) error {
	ctx := context.Background()
	_, store, rec, err := c.env.user(ctx)
	if err != nil {
		return err
	}

	sites, err := store.BlockedSiteDetails(ctx, rec.UserID)
	if err != nil {
		return err
	}
	if c.env.globals.JSON {
		return c.env.printJSON(sites)
	}
	if len(sites) == 0 {
		c.env.printf("No blocked sites. Add some with: focusguard sites add <site>\n")
		return nil
	}

	st := c.env.styles()
	for _, s := range sites {
		c.env.printf("%-30s %s\n", s.Website, st.muted.Render("added "+s.AddedAt.Local().Format("2006-01-02")))
	}
	return nil
}

// Execute implements the go-flags Commander interface for SitesRemoveCommand.
func (c *SitesRemoveCommand) Execute(args []string) error {
	ctx := context.Background()
	_, store, rec, err := c.env.user(ctx)
	if err != nil {
		return err
	}

	for _, raw := range c.Args.Sites {
		if err := store.RemoveBlockedSite(ctx, rec.UserID, raw); err != nil {
			return fmt.Errorf("%s: %w", raw, err)
		}
		c.env.printf("Unblocked %s\n", raw)
	}
	return nil
}

// Execute implements the go-flags Commander interface for SitesExportCommand.
func (c *SitesExportCommand) Execute(args []string) error {
	ctx := context.Background()
	_, store, rec, err := c.env.user(ctx)
	if err != nil {
		return err
	}

	sites, err := store.ListBlockedSites(ctx, rec.UserID)
	if err != nil {
		return err
	}
	if err := blocker.WriteSiteFile(c.Args.File, sites); err != nil {
		return err
	}
	c.env.printf("Wrote %d sites to %s\n", len(sites), c.Args.File)
	return nil
}
