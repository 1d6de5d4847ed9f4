package cli

import (
	"context"
	"fmt"

	"github.com/runnerr0/focusguard/internal/storage"
)

// Execute implements the go-flags Commander interface for RecordCommand.
func (c *RecordCommand) Execute(args []string) error {
	if c.Minutes <= 0 {
		return fmt.Errorf("--minutes is required and must be positive")
	}

	ctx := context.Background()
	_, store, rec, err := c.env.user(ctx)
	if err != nil {
		return err
	}

	in := storage.SessionInput{
		UserID:            rec.UserID,
		DurationMinutes:   c.Minutes,
		SubjectTag:        c.Subject,
		DistractionsCount: c.Distractions,
		Notes:             c.Notes,
	}
	if c.Rating != 0 {
		rating := c.Rating
		in.FocusRating = &rating
	}
	if c.Ago != "" {
		d, err := parseDuration(c.Ago)
		if err != nil {
			return err
		}
		in.StartTime = c.env.now().Add(-d)
	}

	id, err := store.RecordStudySession(ctx, in)
	if err != nil {
		return err
	}
	if c.env.globals.JSON {
		return c.env.printJSON(map[string]any{"id": id, "minutes": c.Minutes})
	}
	c.env.printf("Recorded %s (session %d)\n", formatMinutes(int64(c.Minutes)), id)
	return nil
}
