// Package primary defines the primary ports (driving adapters) for the application.
// These are the interfaces through which the CLI and host drive the application.
package primary

import (
	"context"

	"github.com/example/geoanchor/internal/core/item"
	"github.com/example/geoanchor/internal/ports/secondary"
)

// CatalogService defines the primary port for the geolocated item catalog.
type CatalogService interface {
	// Exists reports whether durable storage holds a saved catalog.
	// It does not depend on whether the catalog has been loaded.
	Exists(ctx context.Context) (bool, error)

	// Load replaces the in-memory catalog with durable storage.
	// Missing storage is "no saved data": the catalog is left untouched.
	Load(ctx context.Context) error

	// Unload empties the in-memory catalog without touching storage.
	Unload()

	// Add appends a record and writes the catalog through to storage.
	Add(ctx context.Context, record item.Record) error

	// Remove deletes the first record with id and writes through.
	// An unknown id is logged and reported as removed=false with no state change.
	Remove(ctx context.Context, id string) (removed bool, err error)

	// Save writes the whole in-memory catalog to storage.
	Save(ctx context.Context) error

	// Rehydrate instantiates every record into the current local frame.
	Rehydrate(ctx context.Context, anchors secondary.GeoAnchorService, factory secondary.ObjectFactory) ([]RehydratedItem, error)

	// Records returns a copy of the catalog in insertion order.
	Records() []item.Record

	// Len returns the number of records.
	Len() int
}

// RehydratedItem pairs a record with the scene object created for it.
type RehydratedItem struct {
	Record item.Record
	Handle secondary.ObjectHandle
}
