package storage

import (
	"database/sql"
	"fmt"
	"time"
)

// migration is one ordered schema change. Migrations only ever append;
// edits to shipped schemas get a new version.
type migration struct {
	version int
	name    string
	sql     string
}

var migrations = []migration{
	{
		version: 1,
		name:    "create_runs",
		sql: `
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			started_at TIMESTAMP NOT NULL,
			finished_at TIMESTAMP,
			transaction_count INTEGER NOT NULL DEFAULT 0,
			matched_count INTEGER NOT NULL DEFAULT 0,
			unmatched_count INTEGER NOT NULL DEFAULT 0,
			skipped_count INTEGER NOT NULL DEFAULT 0,
			dry_run BOOLEAN NOT NULL DEFAULT 0
		)`,
	},
	{
		version: 2,
		name:    "create_proposals",
		sql: `
		CREATE TABLE IF NOT EXISTS proposals (
			id TEXT PRIMARY KEY,
			run_id TEXT NOT NULL REFERENCES runs(id),
			transaction_id TEXT NOT NULL,
			transaction_date TEXT NOT NULL,
			account TEXT NOT NULL,
			payee TEXT NOT NULL,
			amount_cents INTEGER NOT NULL,
			method TEXT NOT NULL,
			confidence REAL NOT NULL,
			matched_total_cents INTEGER NOT NULL,
			unmatched_cents INTEGER NOT NULL,
			message TEXT NOT NULL DEFAULT '',
			splits_json TEXT NOT NULL DEFAULT '[]',
			status TEXT NOT NULL DEFAULT 'proposed',
			created_at TIMESTAMP NOT NULL,
			reviewed_at TIMESTAMP
		)`,
	},
	{
		version: 3,
		name:    "index_proposals_run_and_status",
		sql: `
		CREATE INDEX IF NOT EXISTS idx_proposals_run_id ON proposals(run_id);
		CREATE INDEX IF NOT EXISTS idx_proposals_status ON proposals(status);
		CREATE INDEX IF NOT EXISTS idx_proposals_transaction_id ON proposals(transaction_id)`,
	},
}

// runMigrations applies all pending migrations in order.
func (s *Store) runMigrations() error {
	_, err := s.db.Exec(`
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		applied_at TIMESTAMP NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations: %w", err)
	}

	var current int
	err = s.db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&current)
	if err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		if err := s.applyMigration(m); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) applyMigration(m migration) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(m.sql); err != nil {
		return fmt.Errorf("migration %d (%s): %w", m.version, m.name, err)
	}
	if _, err := tx.Exec(
		`INSERT INTO schema_migrations (version, name, applied_at) VALUES (?, ?, ?)`,
		m.version, m.name, time.Now().UTC(),
	); err != nil {
		return fmt.Errorf("recording migration %d: %w", m.version, err)
	}
	return tx.Commit()
}

// schemaVersion returns the highest applied migration version.
func (s *Store) schemaVersion() (int, error) {
	var version int
	err := s.db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&version)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	return version, err
}
