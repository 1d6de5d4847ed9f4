package storage

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// migrateV001 creates the five application tables. Every statement uses
// IF NOT EXISTS so databases created by older builds are left alone;
// migrateV002 fills in their missing columns.
func migrateV001(ctx context.Context, tx *sqlx.Tx, d dialect) error {
	stmts := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS users (
			id            %s,
			username      VARCHAR(50)%s NOT NULL UNIQUE,
			password_hash VARCHAR(255) NOT NULL,
			created_at    %s NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`, d.idColumn, d.binary, d.timestamp),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS study_sessions (
			id                 %s,
			user_id            INTEGER NOT NULL REFERENCES users(id),
			start_time         %s NOT NULL,
			end_time           %s,
			duration_minutes   INTEGER,
			focus_rating       INTEGER,
			subject_tag        VARCHAR(50),
			notes              TEXT,
			distractions_count INTEGER NOT NULL DEFAULT 0
		)`, d.idColumn, d.timestamp, d.timestamp),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS blocked_sites (
			id       %s,
			user_id  INTEGER NOT NULL REFERENCES users(id),
			website  VARCHAR(255) NOT NULL,
			added_at %s NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (user_id, website)
		)`, d.idColumn, d.timestamp),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS todos (
			id         %s,
			user_id    INTEGER NOT NULL REFERENCES users(id),
			task       VARCHAR(500) NOT NULL,
			completed  BOOLEAN NOT NULL DEFAULT FALSE,
			created_at %s NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`, d.idColumn, d.timestamp),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS personal_records (
			id           %s,
			user_id      INTEGER NOT NULL REFERENCES users(id),
			record_type  VARCHAR(50) NOT NULL,
			record_value %s NOT NULL,
			achieved_at  %s NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (user_id, record_type)
		)`, d.idColumn, d.float, d.timestamp),
	}

	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}

	return nil
}
