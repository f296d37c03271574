package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/geoanchor/internal/core/item"
	"github.com/example/geoanchor/internal/ctxutil"
	"github.com/example/geoanchor/internal/ports/secondary"
)

// LogWriter implements secondary.CatalogLog on the catalog_log table.
type LogWriter struct {
	db *sql.DB
}

// NewLogWriter creates a new LogWriter.
func NewLogWriter(db *sql.DB) *LogWriter {
	return &LogWriter{db: db}
}

// LogAdd records a saved placement.
func (w *LogWriter) LogAdd(ctx context.Context, record item.Record) error {
	return w.writeLog(ctx, record.ID, secondary.LogActionAdd, record.Kind.String())
}

// LogRemove records a removal.
func (w *LogWriter) LogRemove(ctx context.Context, id string) error {
	return w.writeLog(ctx, id, secondary.LogActionRemove, "")
}

// List returns the newest entries first.
func (w *LogWriter) List(ctx context.Context, limit int) ([]secondary.LogEntry, error) {
	query := "SELECT id, session_id, item_id, action, kind, created_at FROM catalog_log ORDER BY id DESC"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := w.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list catalog log: %w", err)
	}
	defer rows.Close()

	var entries []secondary.LogEntry
	for rows.Next() {
		var (
			e       secondary.LogEntry
			session sql.NullString
			kind    sql.NullString
		)
		if err := rows.Scan(&e.ID, &session, &e.ItemID, &e.Action, &kind, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan catalog log: %w", err)
		}
		e.SessionID = session.String
		e.Kind = kind.String
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (w *LogWriter) writeLog(ctx context.Context, itemID, action, kind string) error {
	_, err := w.db.ExecContext(ctx,
		"INSERT INTO catalog_log (session_id, item_id, action, kind) VALUES (?, ?, ?, ?)",
		nullString(ctxutil.SessionFromContext(ctx)), itemID, action, nullString(kind),
	)
	if err != nil {
		return fmt.Errorf("failed to write catalog log: %w", err)
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

var _ secondary.CatalogLog = (*LogWriter)(nil)
