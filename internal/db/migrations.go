package db

import (
	"database/sql"
	"fmt"
)

// Migration is one forward-only schema change.
type Migration struct {
	Version int
	Name    string
	Up      func(tx *sql.Tx) error
}

var migrations = []Migration{
	{
		Version: 1,
		Name:    "create_catalog_blobs",
		Up:      migrationV1,
	},
	{
		Version: 2,
		Name:    "add_catalog_blobs_updated_at",
		Up:      migrationV2,
	},
	{
		Version: 3,
		Name:    "create_catalog_log",
		Up:      migrationV3,
	},
}

// RunMigrations executes all pending migrations, each in its own transaction.
func RunMigrations(conn *sql.DB) error {
	if err := createVersionTable(conn); err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}

	var currentVersion int
	err := conn.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get current schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, err := conn.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin transaction for migration %d: %w", migration.Version, err)
		}

		if err := migration.Up(tx); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d (%s) failed: %w", migration.Version, migration.Name, err)
		}

		if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", migration.Version); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
		}
	}

	return nil
}

func createVersionTable(conn *sql.DB) error {
	_, err := conn.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	return err
}

// migrationV1 creates the blob table without timestamps.
func migrationV1(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS catalog_blobs (
			name TEXT PRIMARY KEY,
			data BLOB NOT NULL
		)
	`)
	return err
}

// migrationV2 adds updated_at to catalog_blobs.
func migrationV2(tx *sql.Tx) error {
	var count int
	err := tx.QueryRow("SELECT COUNT(*) FROM pragma_table_info('catalog_blobs') WHERE name = 'updated_at'").Scan(&count)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	// SQLite rejects non-constant defaults in ALTER TABLE, so existing rows stay NULL
	_, err = tx.Exec("ALTER TABLE catalog_blobs ADD COLUMN updated_at DATETIME")
	return err
}

// migrationV3 creates the catalog log.
func migrationV3(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS catalog_log (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT,
			item_id TEXT NOT NULL,
			action TEXT NOT NULL CHECK (action IN ('add', 'remove')),
			kind TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return err
	}
	_, err = tx.Exec("CREATE INDEX IF NOT EXISTS idx_catalog_log_item ON catalog_log(item_id)")
	return err
}
