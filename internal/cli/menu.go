package cli

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/runnerr0/focusguard/internal/app"
)

// Execute implements the go-flags Commander interface for MenuCommand.
func (c *MenuCommand) Execute(args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return c.run(ctx)
}

func (c *MenuCommand) run(ctx context.Context) error {
	a, err := c.env.open(ctx)
	if err != nil {
		return err
	}
	if _, err := a.Recover(ctx); err != nil {
		a.Logger.Warn("could not remove stale block", "error", err)
	}
	err = a.Navigator(c.env.console()).Run(ctx, app.ScreenLogin)
	if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
