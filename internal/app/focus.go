package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/runnerr0/focusguard/internal/config"
	"github.com/runnerr0/focusguard/internal/focus"
)

// FocusOptions describes a focus run.
type FocusOptions struct {
	Minutes int
	Subject string
	Notes   string
	Rating  int // 0 means no rating
}

// NewFocus prepares a focus run for a user. Without a database the run
// neither blocks nor records.
func (a *App) NewFocus(ctx context.Context, userID int64, opts FocusOptions) (*focus.Controller, error) {
	if opts.Minutes <= 0 {
		opts.Minutes = a.Config.Focus.DefaultMinutes
	}
	if opts.Minutes <= 0 {
		return nil, fmt.Errorf("focus length must be positive")
	}

	cfg := focus.Config{
		UserID:   userID,
		Duration: time.Duration(opts.Minutes) * time.Minute,
		Subject:  opts.Subject,
		Notes:    opts.Notes,
		Blocker:  a.Blocker,
		Logger:   a.Logger,
		Now:      timeNow,
	}

	if a.Store != nil {
		sites, err := a.Store.ListBlockedSites(ctx, userID)
		if err != nil {
			return nil, err
		}
		cfg.Sites = sites
		cfg.Recorder = a.Store
	} else {
		a.Logger.Warn("focus without database: nothing is blocked or recorded")
	}

	sites := cfg.Sites
	cfg.OnBlockChange = func(active bool) {
		a.saveBlockState(context.WithoutCancel(ctx), active, true, sites)
	}

	c := focus.New(cfg)
	if opts.Rating != 0 {
		if err := c.SetRating(opts.Rating); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// RunFocus runs a scheduled block for the logged-in user until it
// finishes or ctx is cancelled.
func (a *App) RunFocus(ctx context.Context, entry config.ScheduleEntry) error {
	rec, err := a.CurrentUser(ctx)
	if err != nil {
		return err
	}

	c, err := a.NewFocus(ctx, rec.UserID, FocusOptions{Minutes: entry.Minutes, Subject: entry.Subject})
	if err != nil {
		return err
	}
	res, err := c.Run(ctx, a.Config.Focus.TickInterval)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			a.Logger.Info("scheduled focus block cancelled", "user", rec.Username)
		}
		return err
	}
	a.Logger.Info("scheduled focus block finished", "user", rec.Username,
		"minutes", res.Minutes, "recorded", res.Recorded)
	return nil
}
