package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/runnerr0/focusguard/internal/app"
	"github.com/runnerr0/focusguard/internal/focus"
	"github.com/runnerr0/focusguard/internal/iocli"
)

// Execute implements the go-flags Commander interface for FocusCommand.
// An interrupt stops the run without recording it.
func (c *FocusCommand) Execute(args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return c.run(ctx)
}

func (c *FocusCommand) run(ctx context.Context) error {
	a, _, rec, err := c.env.user(ctx)
	if err != nil {
		return err
	}

	ctl, err := a.NewFocus(ctx, rec.UserID, app.FocusOptions{
		Minutes: c.Minutes,
		Subject: c.Subject,
		Notes:   c.Notes,
		Rating:  c.Rating,
	})
	if err != nil {
		return err
	}

	st := c.env.styles()
	if !c.env.globals.JSON {
		ends := c.env.now().Add(ctl.Remaining())
		c.env.printf("%s until %s. Press Ctrl+C to stop.\n",
			st.title.Render("Focusing"), ends.Format("15:04"))
		if c.Distractions {
			c.env.printf("Press Enter whenever you get distracted.\n")
		}
	}

	if c.Distractions {
		go countDistractions(c.env.console(), ctl)
	}

	res, err := ctl.Run(ctx, a.Config.Focus.TickInterval)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		if c.env.globals.JSON {
			return c.env.printJSON(map[string]any{"state": focus.Idle.String(), "recorded": false})
		}
		c.env.printf("Focus stopped after %s; nothing recorded.\n", ctl.Elapsed().Round(time.Second))
		return nil
	}
	if err != nil {
		return err
	}

	if c.env.globals.JSON {
		return c.env.printJSON(map[string]any{
			"state":      ctl.State().String(),
			"minutes":    res.Minutes,
			"recorded":   res.Recorded,
			"session_id": res.SessionID,
		})
	}
	if res.Recorded {
		c.env.printf("%s %s recorded.\n", st.ok.Render("Done!"), formatMinutes(int64(res.Minutes)))
	} else {
		c.env.printf("%s %s, not recorded.\n", st.ok.Render("Done!"), formatMinutes(int64(res.Minutes)))
	}
	return nil
}

// countDistractions adds one distraction per line read until input ends.
func countDistractions(in iocli.IO, ctl interface{ AddDistraction() }) int {
	n := 0
	for {
		if _, err := in.ReadInput(""); err != nil {
			return n
		}
		ctl.AddDistraction()
		n++
	}
}
