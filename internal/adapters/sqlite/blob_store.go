// Package sqlite contains SQLite implementations of storage ports.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/geoanchor/internal/ports/secondary"
)

// DefaultBlobName is the row holding the item catalog.
const DefaultBlobName = "items"

// BlobStore implements secondary.BlobStore with one row of catalog_blobs.
type BlobStore struct {
	db   *sql.DB
	name string
	path string
}

// NewBlobStore creates a new SQLite blob store. path is only used for display.
func NewBlobStore(db *sql.DB, name, path string) *BlobStore {
	if name == "" {
		name = DefaultBlobName
	}
	return &BlobStore{db: db, name: name, path: path}
}

// Exists reports whether the blob row is present.
func (s *BlobStore) Exists(ctx context.Context) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM catalog_blobs WHERE name = ?",
		s.name,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check blob %s: %w", s.name, err)
	}
	return count > 0, nil
}

// Read returns the stored blob, or secondary.ErrBlobNotFound.
func (s *BlobStore) Read(ctx context.Context) ([]byte, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx,
		"SELECT data FROM catalog_blobs WHERE name = ?",
		s.name,
	).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, secondary.ErrBlobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read blob %s: %w", s.name, err)
	}
	return data, nil
}

// Write replaces the blob in a single transaction.
func (s *BlobStore) Write(ctx context.Context, data []byte) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO catalog_blobs (name, data, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(name) DO UPDATE SET data = excluded.data, updated_at = CURRENT_TIMESTAMP`,
		s.name, data,
	)
	if err != nil {
		return fmt.Errorf("failed to write blob %s: %w", s.name, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit blob %s: %w", s.name, err)
	}
	return nil
}

// Location describes where the blob lives.
func (s *BlobStore) Location() string {
	return fmt.Sprintf("sqlite://%s#%s", s.path, s.name)
}

var _ secondary.BlobStore = (*BlobStore)(nil)
