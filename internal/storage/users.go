package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/runnerr0/focusguard/internal/crypto"
	"github.com/runnerr0/focusguard/internal/validation"
)

const userColumns = "id, username, password_hash, created_at"

// CreateUser validates and stores a new account and returns its id.
func (s *SQLStore) CreateUser(ctx context.Context, username, password string) (int64, error) {
	username = validation.NormalizeUsername(username)
	if err := validation.ValidateUsername(username); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if err := validation.ValidatePassword(password); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	hash, err := crypto.HashPassword(password, s.cost)
	if err != nil {
		return 0, err
	}

	id, err := s.dialect.insertID(ctx, s.db,
		"INSERT INTO users (username, password_hash, created_at) VALUES (?, ?, ?)",
		username, hash, s.timestamp(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrDuplicateUser
		}
		return 0, fmt.Errorf("insert user: %w", err)
	}

	s.logger.Info("user created", "user_id", id, "username", username)
	return id, nil
}

// VerifyUser checks a username and password. Accounts still carrying a
// legacy SHA-256 hash are rehashed with bcrypt on success.
func (s *SQLStore) VerifyUser(ctx context.Context, username, password string) (*User, error) {
	u, err := s.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !crypto.VerifyPassword(password, u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	if crypto.IsLegacyHash(u.PasswordHash) {
		if err := s.setPasswordHash(ctx, u.ID, password); err != nil {
			s.logger.Warn("could not upgrade legacy password hash", "user_id", u.ID, "error", err)
		} else {
			s.logger.Info("upgraded legacy password hash", "user_id", u.ID)
		}
	}

	return u, nil
}

func (s *SQLStore) GetUser(ctx context.Context, id int64) (*User, error) {
	var u User
	err := s.db.GetContext(ctx, &u,
		s.db.Rebind("SELECT "+userColumns+" FROM users WHERE id = ?"), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

// GetUserByUsername looks up an exact, case-sensitive username.
func (s *SQLStore) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	username = validation.NormalizeUsername(username)

	var u User
	err := s.db.GetContext(ctx, &u,
		s.db.Rebind("SELECT "+userColumns+" FROM users WHERE username = ?"), username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %q: %w", username, ErrNotFound)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

// ListUsers returns every account ordered by username.
func (s *SQLStore) ListUsers(ctx context.Context) ([]User, error) {
	users := []User{}
	if err := s.db.SelectContext(ctx, &users,
		"SELECT "+userColumns+" FROM users ORDER BY username"); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *SQLStore) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM users"); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

// UpdateUsername renames an account.
func (s *SQLStore) UpdateUsername(ctx context.Context, id int64, username string) error {
	username = validation.NormalizeUsername(username)
	if err := validation.ValidateUsername(username); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	res, err := s.db.ExecContext(ctx,
		s.db.Rebind("UPDATE users SET username = ? WHERE id = ?"), username, id)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateUser
		}
		return fmt.Errorf("rename user: %w", err)
	}
	return expectRow(res, fmt.Sprintf("user %d", id))
}

// UpdatePassword replaces the password of an account.
func (s *SQLStore) UpdatePassword(ctx context.Context, id int64, password string) error {
	if err := validation.ValidatePassword(password); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return s.setPasswordHash(ctx, id, password)
}

func (s *SQLStore) setPasswordHash(ctx context.Context, id int64, password string) error {
	hash, err := crypto.HashPassword(password, s.cost)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx,
		s.db.Rebind("UPDATE users SET password_hash = ? WHERE id = ?"), hash, id)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return expectRow(res, fmt.Sprintf("user %d", id))
}

// DeleteUser removes an account and everything it owns in one transaction.
func (s *SQLStore) DeleteUser(ctx context.Context, id int64) error {
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		for _, table := range []string{"blocked_sites", "study_sessions", "personal_records", "todos"} {
			if _, err := tx.ExecContext(ctx,
				tx.Rebind("DELETE FROM "+table+" WHERE user_id = ?"), id); err != nil {
				return fmt.Errorf("delete %s: %w", table, err)
			}
		}

		res, err := tx.ExecContext(ctx, tx.Rebind("DELETE FROM users WHERE id = ?"), id)
		if err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		return expectRow(res, fmt.Sprintf("user %d", id))
	})
	if err != nil {
		return err
	}

	s.logger.Info("user deleted", "user_id", id)
	return nil
}

// expectRow returns ErrNotFound when res affected no rows.
func expectRow(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return nil
}
