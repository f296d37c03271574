// Package secondary defines the secondary ports (driven adapters) for the application.
// These are the interfaces through which the application drives external systems.
package secondary

import (
	"context"
	"errors"
)

// ErrBlobNotFound is returned by BlobStore.Read when nothing has been saved yet.
var ErrBlobNotFound = errors.New("catalog blob not found")

// BlobStore defines the secondary port for durable catalog storage.
// The catalog is always written wholesale; presence of the blob is the only
// persisted-state indicator.
type BlobStore interface {
	// Exists reports whether a blob has been written.
	Exists(ctx context.Context) (bool, error)

	// Read returns the stored blob, or ErrBlobNotFound.
	Read(ctx context.Context) ([]byte, error)

	// Write replaces the stored blob. Readers never observe a partial write.
	Write(ctx context.Context, data []byte) error

	// Location describes where the blob lives (for status output).
	Location() string
}
