package cli

import (
	"context"
	"math"

	"github.com/runnerr0/focusguard/internal/export"
)

// Execute implements the go-flags Commander interface for ExportCommand.
func (c *ExportCommand) Execute(args []string) error {
	format, err := export.FormatFor(c.Args.File, c.Format)
	if err != nil {
		return err
	}

	ctx := context.Background()
	_, store, rec, err := c.env.user(ctx)
	if err != nil {
		return err
	}

	sessions, err := store.RecentSessions(ctx, rec.UserID, math.MaxInt32)
	if err != nil {
		return err
	}
	analytics, err := store.GetStudyAnalytics(ctx, rec.UserID)
	if err != nil {
		return err
	}

	if err := export.ToFile(c.Args.File, format, sessions, analytics); err != nil {
		return err
	}
	if c.env.globals.JSON {
		return c.env.printJSON(map[string]any{"file": c.Args.File, "format": format, "sessions": len(sessions)})
	}
	c.env.printf("Exported %d sessions to %s\n", len(sessions), c.Args.File)
	return nil
}
