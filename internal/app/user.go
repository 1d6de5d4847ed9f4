package app

import (
	"context"
	"errors"

	"github.com/runnerr0/focusguard/internal/session"
	"github.com/runnerr0/focusguard/internal/storage"
)

// Login verifies the credentials and makes the user the current one.
func (a *App) Login(ctx context.Context, username, password string) (*session.Record, error) {
	store, err := a.RequireStore()
	if err != nil {
		return nil, err
	}

	user, err := store.VerifyUser(ctx, username, password)
	if err != nil {
		return nil, err
	}

	rec, err := a.Sessions.Begin(ctx, user.ID, user.Username)
	if err != nil {
		return nil, err
	}
	a.Logger.Info("logged in", "user", user.Username, "session", rec.ID)
	return rec, nil
}

// Logout ends the current session. Logging out twice is not an error.
func (a *App) Logout(ctx context.Context) error {
	rec, err := a.Sessions.Current(ctx)
	if errors.Is(err, session.ErrNoSession) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := a.Sessions.End(ctx); err != nil {
		return err
	}
	a.Logger.Info("logged out", "user", rec.Username)
	return nil
}

// CurrentUser returns the logged-in user. A session whose user has since
// been deleted is ended and reported as session.ErrNoSession.
func (a *App) CurrentUser(ctx context.Context) (*session.Record, error) {
	rec, err := a.Sessions.Current(ctx)
	if err != nil {
		return nil, err
	}
	if a.Store == nil {
		return rec, nil
	}

	_, err = a.Store.GetUser(ctx, rec.UserID)
	if errors.Is(err, storage.ErrNotFound) {
		if err := a.Sessions.End(ctx); err != nil {
			return nil, err
		}
		return nil, session.ErrNoSession
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}
