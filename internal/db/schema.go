package db

import (
	"database/sql"
	"fmt"
)

// SchemaSQL is the complete schema for fresh installs.
// This schema reflects the current state after all migrations.
//
// Tests use this schema via GetSchemaSQL() so repository code and tests
// cannot drift apart. When adding a column:
//  1. Add a migration in migrations.go
//  2. Update SchemaSQL here
const SchemaSQL = `
-- Catalog blobs (one row per named catalog; the default catalog is "items")
CREATE TABLE IF NOT EXISTS catalog_blobs (
	name TEXT PRIMARY KEY,
	data BLOB NOT NULL,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Catalog log (append-only audit trail of adds and removes)
CREATE TABLE IF NOT EXISTS catalog_log (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id TEXT,
	item_id TEXT NOT NULL,
	action TEXT NOT NULL CHECK (action IN ('add', 'remove')),
	kind TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_catalog_log_item ON catalog_log(item_id);
`

// InitSchema creates the schema on a fresh database and migrates an existing one.
func InitSchema(conn *sql.DB) error {
	var tableCount int
	err := conn.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'").Scan(&tableCount)
	if err != nil {
		return err
	}

	if tableCount > 0 {
		return RunMigrations(conn)
	}

	// Fresh install - create modern schema directly and mark every migration applied
	if _, err := conn.Exec(SchemaSQL); err != nil {
		return err
	}
	if err := createVersionTable(conn); err != nil {
		return err
	}
	for _, m := range migrations {
		if _, err := conn.Exec("INSERT INTO schema_version (version) VALUES (?)", m.Version); err != nil {
			return fmt.Errorf("failed to record migration %d: %w", m.Version, err)
		}
	}
	return nil
}

// GetSchemaSQL returns the authoritative schema SQL for use by tests.
// Tests should use this instead of hardcoding their own schema to prevent drift.
func GetSchemaSQL() string {
	return SchemaSQL
}
