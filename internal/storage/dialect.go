package storage

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// dialect captures the DDL and catalog differences between backends.
// Everything else goes through sqlx.Rebind.
type dialect struct {
	name      string
	idColumn  string
	timestamp string
	float     string
	// binary makes string comparisons on the column case-sensitive.
	binary string
	// returning is set when LastInsertId is unsupported.
	returning bool
}

var dialects = map[string]dialect{
	"sqlite3": {
		name:      "sqlite3",
		idColumn:  "INTEGER PRIMARY KEY AUTOINCREMENT",
		timestamp: "DATETIME",
		float:     "REAL",
	},
	"mysql": {
		name:      "mysql",
		idColumn:  "INT PRIMARY KEY AUTO_INCREMENT",
		timestamp: "DATETIME",
		float:     "DOUBLE",
		binary:    " COLLATE utf8mb4_bin",
	},
	"postgres": {
		name:      "postgres",
		idColumn:  "SERIAL PRIMARY KEY",
		timestamp: "TIMESTAMP",
		float:     "DOUBLE PRECISION",
		returning: true,
	},
}

func dialectFor(driver string) (dialect, error) {
	d, ok := dialects[driver]
	if !ok {
		return dialect{}, fmt.Errorf("unsupported database driver %q", driver)
	}
	return d, nil
}

// hasColumn reports whether table has column.
func (d dialect) hasColumn(ctx context.Context, q sqlx.QueryerContext, table, column string) (bool, error) {
	var query string
	switch d.name {
	case "sqlite3":
		query = `SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?`
	case "mysql":
		query = `SELECT COUNT(*) FROM information_schema.columns
			WHERE table_schema = DATABASE() AND table_name = ? AND column_name = ?`
	default:
		query = `SELECT COUNT(*) FROM information_schema.columns
			WHERE table_schema = current_schema() AND table_name = $1 AND column_name = $2`
	}

	var n int
	if err := q.QueryRowxContext(ctx, query, table, column).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

// insertID runs an INSERT and returns the generated id.
func (d dialect) insertID(ctx context.Context, q sqlx.ExtContext, query string, args ...any) (int64, error) {
	if d.returning {
		var id int64
		err := q.QueryRowxContext(ctx, q.Rebind(query+" RETURNING id"), args...).Scan(&id)
		return id, err
	}

	res, err := q.ExecContext(ctx, q.Rebind(query), args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}
