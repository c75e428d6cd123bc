// ABOUTME: Forward-only migration engine with an append-only version ledger
// ABOUTME: Applies pending migrations transactionally, one ledger row each
package sqlite

import (
	"database/sql"
	"fmt"
	"time"
)

// ledgerSchema creates the append-only version ledger. It runs before
// any migration so version lookup always has a table to read.
const ledgerSchema = `
CREATE TABLE IF NOT EXISTS schema_version (
	version    INTEGER PRIMARY KEY,
	applied_at TEXT NOT NULL
)`

// Migrate brings the database to the current schema version. Pending
// migrations are applied in ascending version order; each migration's
// operations and its ledger row commit as one transaction. The first
// failure aborts the run, leaving the store at the last committed
// version.
func (db *DB) Migrate() error {
	return applyMigrations(db.conn, migrations)
}

func applyMigrations(conn *sql.DB, migs []Migration) error {
	if err := validateOrder(migs); err != nil {
		return err
	}

	if _, err := conn.Exec(ledgerSchema); err != nil {
		return fmt.Errorf("failed to create version ledger: %w", err)
	}

	current, err := currentVersion(conn)
	if err != nil {
		return err
	}

	for _, m := range migs {
		if m.Version <= current {
			continue
		}
		if err := applyOne(conn, m); err != nil {
			return fmt.Errorf("migration v%d (%s): %w", m.Version, m.Name, err)
		}
	}
	return nil
}

// validateOrder rejects migration lists that are not strictly
// ascending by version. Gaps are fine; duplicates and regressions are
// not.
func validateOrder(migs []Migration) error {
	prev := 0
	for _, m := range migs {
		if m.Version <= prev {
			return fmt.Errorf("migration versions must be strictly increasing: v%d follows v%d", m.Version, prev)
		}
		prev = m.Version
	}
	return nil
}

func currentVersion(conn *sql.DB) (int, error) {
	var version int
	err := conn.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_version`).Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return version, nil
}

func applyOne(conn *sql.DB, m Migration) error {
	tx, err := conn.Begin()
	if err != nil {
		return err
	}
	for _, op := range m.Ops {
		if err := op.apply(tx); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	if _, err := tx.Exec(
		`INSERT INTO schema_version (version, applied_at) VALUES (?, ?)`,
		m.Version, formatTime(time.Now()),
	); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
