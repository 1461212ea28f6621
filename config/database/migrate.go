package database

import (
	"context"
	"database/sql"
	"fmt"
)

type migration struct {
	version    string
	statements []string
}

var migrations = []migration{
	{
		version: "0001_tasks_notes",
		statements: []string{
			`CREATE TABLE IF NOT EXISTS tasks (
				id TEXT PRIMARY KEY,
				owner_id TEXT NOT NULL,
				title TEXT NOT NULL,
				description TEXT NULL,
				completed BOOLEAN NOT NULL DEFAULT FALSE,
				created_at TIMESTAMPTZ NULL
			)`,
			`CREATE TABLE IF NOT EXISTS notes (
				id TEXT PRIMARY KEY,
				owner_id TEXT NOT NULL,
				title TEXT NOT NULL,
				content TEXT NOT NULL DEFAULT '',
				created_at TIMESTAMPTZ NULL
			)`,
		},
	},
	{
		version: "0002_owner_created_idx",
		statements: []string{
			`CREATE INDEX IF NOT EXISTS tasks_owner_created_idx ON tasks (owner_id, created_at DESC)`,
			`CREATE INDEX IF NOT EXISTS notes_owner_created_idx ON notes (owner_id, created_at DESC)`,
		},
	},
}

// Migrate applies every migration not yet recorded in schema_migrations, each
// in its own transaction.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`); err != nil {
		return fmt.Errorf("ensure schema_migrations: %w", err)
	}

	for _, m := range migrations {
		var applied bool
		err := db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)`, m.version).Scan(&applied)
		if err != nil {
			return fmt.Errorf("check migration %s: %w", m.version, err)
		}
		if applied {
			continue
		}

		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin migration %s: %w", m.version, err)
		}
		for _, stmt := range m.statements {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("execute migration %s: %w", m.version, err)
			}
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, m.version); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record migration %s: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %s: %w", m.version, err)
		}
	}
	return nil
}
