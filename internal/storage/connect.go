package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sethvargo/go-retry"

	"github.com/runnerr0/focusguard/internal/config"
)

var databaseNamePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// Connect opens the configured backend. Pings are retried with a constant
// backoff; when every attempt fails the database is created (probing
// candidate credentials) and the connection is tried once more.
func Connect(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*sqlx.DB, error) {
	if logger == nil {
		logger = slog.Default()
	}

	dbCfg := cfg.Database
	d, err := dialectFor(dbCfg.Driver)
	if err != nil {
		return nil, err
	}

	sqlitePath := ""
	if d.name == "sqlite3" {
		if sqlitePath, err = cfg.SQLitePath(); err != nil {
			return nil, err
		}
		// Nothing to probe for a file database; make sure its directory exists.
		if _, err := createDatabaseIfMissing(ctx, d, dbCfg, sqlitePath, logger); err != nil {
			return nil, err
		}
	}

	db, err := openWithRetry(ctx, d, dataSourceName(d, dbCfg, sqlitePath, dbCfg.Password, true), dbCfg, logger)
	if err == nil {
		return db, nil
	}
	if ctx.Err() != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnection, ctx.Err())
	}

	logger.Warn("database unreachable, attempting to create it",
		"driver", d.name, "name", dbCfg.Name, "error", err)

	password, cerr := createDatabaseIfMissing(ctx, d, dbCfg, sqlitePath, logger)
	if cerr != nil {
		return nil, cerr
	}

	db, err = openWithRetry(ctx, d, dataSourceName(d, dbCfg, sqlitePath, password, true), dbCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnection, err)
	}
	return db, nil
}

// openWithRetry opens and pings dsn up to RetryAttempts times.
func openWithRetry(ctx context.Context, d dialect, dsn string, cfg config.DatabaseConfig, logger *slog.Logger) (*sqlx.DB, error) {
	attempts := cfg.RetryAttempts
	if attempts < 1 {
		attempts = 1
	}
	backoff := cfg.RetryBackoff
	if backoff <= 0 {
		backoff = time.Millisecond
	}

	var db *sqlx.DB
	attempt := 0
	b := retry.WithMaxRetries(uint64(attempts-1), retry.NewConstant(backoff))
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		attempt++
		conn, err := open(ctx, d, dsn)
		if err != nil {
			logger.Debug("database connection attempt failed",
				"driver", d.name, "attempt", attempt, "of", attempts, "error", err)
			return retry.RetryableError(err)
		}
		db = conn
		return nil
	})
	if err != nil {
		return nil, err
	}
	return db, nil
}

func open(ctx context.Context, d dialect, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open(d.name, dsn)
	if err != nil {
		return nil, err
	}
	if d.name == "sqlite3" {
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close() //nolint:errcheck
		return nil, err
	}
	return db, nil
}

// createDatabaseIfMissing creates the configured database and returns the
// password that was able to do it. For SQLite it only creates the parent
// directory of the database file.
func createDatabaseIfMissing(ctx context.Context, d dialect, cfg config.DatabaseConfig, sqlitePath string, logger *slog.Logger) (string, error) {
	if d.name == "sqlite3" {
		if sqlitePath == ":memory:" || sqlitePath == "" {
			return "", nil
		}
		if err := os.MkdirAll(filepath.Dir(sqlitePath), 0o700); err != nil {
			return "", fmt.Errorf("%w: creating database directory: %w", ErrConnection, err)
		}
		return "", nil
	}

	if !databaseNamePattern.MatchString(cfg.Name) {
		return "", fmt.Errorf("%w: invalid database name %q", ErrConnection, cfg.Name)
	}

	var lastErr error
	for _, password := range candidatePasswords(cfg) {
		db, err := open(ctx, d, dataSourceName(d, cfg, "", password, false))
		if err != nil {
			lastErr = err
			continue
		}

		err = createDatabase(ctx, d, db, cfg.Name)
		db.Close() //nolint:errcheck
		if err != nil {
			lastErr = err
			continue
		}

		if password != cfg.Password {
			logger.Warn("database created with a fallback credential; update the configured password",
				"user", cfg.User)
		}
		logger.Info("database ready", "driver", d.name, "name", cfg.Name)
		return password, nil
	}

	if lastErr == nil {
		lastErr = errors.New("no credentials to try")
	}
	return "", fmt.Errorf("%w: %w", ErrConnection, lastErr)
}

func createDatabase(ctx context.Context, d dialect, db *sqlx.DB, name string) error {
	if d.name == "postgres" {
		var n int
		if err := db.GetContext(ctx, &n, `SELECT COUNT(*) FROM pg_database WHERE datname = $1`, name); err != nil {
			return err
		}
		if n > 0 {
			return nil
		}
		_, err := db.ExecContext(ctx, "CREATE DATABASE "+name)
		return err
	}

	_, err := db.ExecContext(ctx, "CREATE DATABASE IF NOT EXISTS "+name)
	return err
}

// candidatePasswords lists the configured password, the empty password and
// the configured fallbacks, without repeats.
func candidatePasswords(cfg config.DatabaseConfig) []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range append([]string{cfg.Password, ""}, cfg.FallbackPasswords...) {
		if seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}

// dataSourceName builds the driver DSN. withName=false connects to the
// server without selecting the application database.
func dataSourceName(d dialect, cfg config.DatabaseConfig, sqlitePath, password string, withName bool) string {
	switch d.name {
	case "sqlite3":
		if sqlitePath == ":memory:" {
			return ":memory:?_foreign_keys=on"
		}
		return sqlitePath + "?_foreign_keys=on&_busy_timeout=5000"

	case "mysql":
		mc := mysql.NewConfig()
		mc.User = cfg.User
		mc.Passwd = password
		mc.Net = "tcp"
		mc.Addr = net.JoinHostPort(cfg.Host, strconv.Itoa(portOrDefault(cfg.Port, 3306)))
		if withName {
			mc.DBName = cfg.Name
		}
		mc.ParseTime = true
		mc.ClientFoundRows = true
		mc.Loc = time.UTC
		return mc.FormatDSN()

	default:
		name := "postgres"
		if withName {
			name = cfg.Name
		}
		u := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(cfg.User, password),
			Host:     net.JoinHostPort(cfg.Host, strconv.Itoa(portOrDefault(cfg.Port, 5432))),
			Path:     "/" + name,
			RawQuery: "sslmode=disable",
		}
		return u.String()
	}
}

func portOrDefault(port, def int) int {
	if port <= 0 {
		return def
	}
	return port
}
