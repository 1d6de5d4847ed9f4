package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/runnerr0/focusguard/internal/config"
	"github.com/runnerr0/focusguard/internal/crypto"
)

// Store defines the per-user data operations of focusguard.
type Store interface {
	EnsureSchema(ctx context.Context) error

	CreateUser(ctx context.Context, username, password string) (int64, error)
	VerifyUser(ctx context.Context, username, password string) (*User, error)
	GetUser(ctx context.Context, id int64) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	ListUsers(ctx context.Context) ([]User, error)
	CountUsers(ctx context.Context) (int64, error)
	UpdateUsername(ctx context.Context, id int64, username string) error
	UpdatePassword(ctx context.Context, id int64, password string) error
	DeleteUser(ctx context.Context, id int64) error

	AddBlockedSite(ctx context.Context, userID int64, raw string) (string, error)
	ListBlockedSites(ctx context.Context, userID int64) ([]string, error)
	BlockedSiteDetails(ctx context.Context, userID int64) ([]BlockedSite, error)
	RemoveBlockedSite(ctx context.Context, userID int64, raw string) error

	RecordStudySession(ctx context.Context, in SessionInput) (int64, error)
	RecentSessions(ctx context.Context, userID int64, limit int) ([]StudySession, error)
	StudyMinutesSince(ctx context.Context, userID int64, since time.Time) (int64, error)
	PersonalRecords(ctx context.Context, userID int64) ([]PersonalRecord, error)
	GetStudyAnalytics(ctx context.Context, userID int64) (*Analytics, error)

	ListTodos(ctx context.Context, userID int64) ([]Todo, error)
	SaveTodos(ctx context.Context, userID int64, items []TodoItem) error

	Close() error
}

// SQLStore implements Store on any of the supported SQL backends.
type SQLStore struct {
	db      *sqlx.DB
	dialect dialect
	now     func() time.Time
	loc     *time.Location
	cost    int
	logger  *slog.Logger
	ownsDB  bool
}

// Option configures a SQLStore.
type Option func(*SQLStore)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *SQLStore) { s.now = now }
}

// WithLocation sets the time zone used for daily and weekly buckets.
func WithLocation(loc *time.Location) Option {
	return func(s *SQLStore) { s.loc = loc }
}

// WithBcryptCost sets the cost of new password hashes.
func WithBcryptCost(cost int) Option {
	return func(s *SQLStore) { s.cost = cost }
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *SQLStore) { s.logger = logger }
}

// New creates a SQLStore from an already-opened database. The database is
// not migrated; call EnsureSchema.
func New(db *sqlx.DB, opts ...Option) (*SQLStore, error) {
	d, err := dialectFor(db.DriverName())
	if err != nil {
		return nil, err
	}

	s := &SQLStore{
		db:      db,
		dialect: d,
		now:     time.Now,
		loc:     time.Local,
		cost:    crypto.DefaultCost,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Open connects to the configured backend, applies migrations, and returns
// a store that owns the connection.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts ...Option) (*SQLStore, error) {
	db, err := Connect(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	if logger != nil {
		opts = append([]Option{WithLogger(logger)}, opts...)
	}
	s, err := New(db, opts...)
	if err != nil {
		db.Close() //nolint:errcheck
		return nil, err
	}
	s.ownsDB = true

	if err := s.EnsureSchema(ctx); err != nil {
		db.Close() //nolint:errcheck
		return nil, err
	}
	return s, nil
}

// EnsureSchema creates or upgrades the schema. It is safe to call on
// every start.
func (s *SQLStore) EnsureSchema(ctx context.Context) error {
	runner, err := NewMigrationRunner(s.db)
	if err != nil {
		return err
	}
	if err := runner.Run(ctx); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// Close closes the database when the store opened it itself. A database
// passed to New is the caller's to close.
func (s *SQLStore) Close() error {
	if s.ownsDB {
		return s.db.Close()
	}
	return nil
}

// timestamp returns the current time as stored in the database.
func (s *SQLStore) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Second)
}

// withTx runs fn in a transaction, committing when it returns nil.
func (s *SQLStore) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

var _ Store = (*SQLStore)(nil)
