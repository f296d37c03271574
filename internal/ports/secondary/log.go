package secondary

import (
	"context"
	"time"

	"github.com/example/geoanchor/internal/core/item"
)

// Catalog log actions.
const (
	LogActionAdd    = "add"
	LogActionRemove = "remove"
)

// LogEntry is one recorded catalog mutation.
type LogEntry struct {
	ID        int64
	SessionID string
	ItemID    string
	Action    string
	Kind      string
	CreatedAt time.Time
}

// CatalogLog defines the interface for writing an audit trail of catalog mutations.
// Implementations extract the session from context.
type CatalogLog interface {
	// LogAdd records a saved placement.
	LogAdd(ctx context.Context, record item.Record) error

	// LogRemove records a removal.
	LogRemove(ctx context.Context, id string) error

	// List returns the newest entries first. limit <= 0 means no limit.
	List(ctx context.Context, limit int) ([]LogEntry, error)
}
