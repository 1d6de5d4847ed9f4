package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/runnerr0/focusguard/internal/scheduler"
)

// Execute implements the go-flags Commander interface for ScheduleCommand.
func (c *ScheduleCommand) Execute(args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return c.run(ctx)
}

func (c *ScheduleCommand) run(ctx context.Context) error {
	a, err := c.env.open(ctx)
	if err != nil {
		return err
	}

	s := scheduler.New(time.Local, a.RunFocus, a.Logger)
	if err := s.Add(a.Config.Schedule); err != nil {
		return err
	}
	s.Start()
	defer s.Stop()

	blocks := s.Blocks()
	if c.List {
		return c.print(blocks)
	}

	if len(blocks) == 0 {
		c.env.printf("No focus blocks configured. Add entries under \"schedule:\" in the config file.\n")
		return nil
	}
	if _, _, _, err := c.env.user(ctx); err != nil {
		return err
	}
	if err := c.print(blocks); err != nil {
		return err
	}

	<-ctx.Done()
	return nil
}

func (c *ScheduleCommand) print(blocks []scheduler.Block) error {
	if c.env.globals.JSON {
		if blocks == nil {
			blocks = []scheduler.Block{}
		}
		return c.env.printJSON(blocks)
	}
	if len(blocks) == 0 {
		c.env.printf("No focus blocks configured.\n")
		return nil
	}
	st := c.env.styles()
	for _, b := range blocks {
		subject := b.Subject
		if subject == "" {
			subject = "-"
		}
		c.env.printf("%-16s %-9s %-15s %s\n", b.Cron, formatMinutes(int64(b.Minutes)), subject,
			st.muted.Render("next "+b.NextRun.Local().Format("Mon 2006-01-02 15:04")))
	}
	return nil
}
