package storage

import (
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

// Common storage errors
var (
	// ErrConnection indicates that no backend connection could be made
	// after retries and credential probing.
	ErrConnection = errors.New("database unreachable")

	// ErrDuplicateUser indicates that the username is taken.
	ErrDuplicateUser = errors.New("user already exists")

	// ErrInvalidCredentials indicates an unknown user or a wrong password.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrNotFound indicates that the requested row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrSiteExists indicates that the site is already on the block list.
	ErrSiteExists = errors.New("website already blocked")

	// ErrInvalidSite indicates a site that cannot be normalized.
	ErrInvalidSite = errors.New("invalid website")

	// ErrInvalidInput indicates rejected arguments (bad rating, empty task...).
	ErrInvalidInput = errors.New("invalid input")
)

// isUniqueViolation reports whether err is a unique constraint failure
// from any supported driver.
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1062
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}

	return false
}
