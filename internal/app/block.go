package app

import (
	"context"
	"fmt"

	"github.com/runnerr0/focusguard/internal/session"
)

// Block applies sites to the hosts file and remembers that it did.
func (a *App) Block(ctx context.Context, sites []string) error {
	if len(sites) == 0 {
		return a.Unblock(ctx)
	}
	if err := a.Blocker.Apply(ctx, sites); err != nil {
		return err
	}
	a.saveBlockState(ctx, true, false, sites)
	return nil
}

// Unblock removes the managed section and forgets the block.
func (a *App) Unblock(ctx context.Context) error {
	if err := a.Blocker.Remove(ctx); err != nil {
		return err
	}
	a.saveBlockState(ctx, false, false, nil)
	return nil
}

// UserSites returns the block list of a user.
func (a *App) UserSites(ctx context.Context, userID int64) ([]string, error) {
	store, err := a.RequireStore()
	if err != nil {
		return nil, err
	}
	return store.ListBlockedSites(ctx, userID)
}

// Recover removes a block left active by a focus run that did not end
// cleanly. Blocks applied by hand are kept. It reports whether anything
// was cleaned up.
func (a *App) Recover(ctx context.Context) (bool, error) {
	st, err := a.Sessions.LoadBlockState(ctx)
	if err != nil {
		return false, err
	}
	if !st.Active || !st.Timer {
		return false, nil
	}

	a.Logger.Warn("removing stale block", "sites", len(st.Sites), "applied_at", st.AppliedAt)
	if err := a.Unblock(ctx); err != nil {
		return false, fmt.Errorf("remove stale block: %w", err)
	}
	return true, nil
}

// saveBlockState failures are logged; the hosts file is the source of truth.
func (a *App) saveBlockState(ctx context.Context, active, timer bool, sites []string) {
	var err error
	if active {
		err = a.Sessions.SaveBlockState(ctx, session.BlockState{
			Active:    true,
			Timer:     timer,
			Sites:     sites,
			HostsPath: a.Config.Hosts.Path,
			AppliedAt: timeNow().UTC(),
		})
	} else {
		err = a.Sessions.ClearBlockState(ctx)
	}
	if err != nil {
		a.Logger.Warn("failed to persist block state", "error", err)
	}
}
