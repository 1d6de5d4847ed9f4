package storage

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// migrateV002 adds the analytics columns to study_sessions tables that
// predate them.
func migrateV002(ctx context.Context, tx *sqlx.Tx, d dialect) error {
	columns := []struct {
		name string
		ddl  string
	}{
		{"focus_rating", "ALTER TABLE study_sessions ADD COLUMN focus_rating INTEGER"},
		{"subject_tag", "ALTER TABLE study_sessions ADD COLUMN subject_tag VARCHAR(50)"},
		{"distractions_count", "ALTER TABLE study_sessions ADD COLUMN distractions_count INTEGER NOT NULL DEFAULT 0"},
		{"notes", "ALTER TABLE study_sessions ADD COLUMN notes TEXT"},
	}

	for _, c := range columns {
		ok, err := d.hasColumn(ctx, tx, "study_sessions", c.name)
		if err != nil {
			return err
		}
		if ok {
			continue
		}
		if _, err := tx.ExecContext(ctx, c.ddl); err != nil {
			return err
		}
	}

	return nil
}
