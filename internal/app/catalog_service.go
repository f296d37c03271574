package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/example/geoanchor/internal/codec"
	"github.com/example/geoanchor/internal/core/item"
	"github.com/example/geoanchor/internal/ctxutil"
	"github.com/example/geoanchor/internal/ports/primary"
	"github.com/example/geoanchor/internal/ports/secondary"
)

// ErrRemovalIDNotFound is logged when a removal names an id the catalog does not hold.
var ErrRemovalIDNotFound = errors.New("removed item's id not found in catalog")

// CatalogServiceImpl implements the CatalogService interface.
// It owns the in-memory record list and writes it through to a BlobStore
// on every mutation.
type CatalogServiceImpl struct {
	store   secondary.BlobStore
	audit   secondary.CatalogLog
	logger  *slog.Logger
	records []item.Record
}

// NewCatalogService creates a new CatalogService with injected dependencies.
func NewCatalogService(store secondary.BlobStore, logger *slog.Logger) *CatalogServiceImpl {
	if logger == nil {
		logger = slog.Default()
	}
	return &CatalogServiceImpl{
		store:  store,
		logger: logger,
	}
}

// WithLog records every successful mutation to audit. Audit failures are
// logged and never fail the mutation.
func (s *CatalogServiceImpl) WithLog(audit secondary.CatalogLog) *CatalogServiceImpl {
	s.audit = audit
	return s
}

// Exists reports whether durable storage holds a saved catalog.
func (s *CatalogServiceImpl) Exists(ctx context.Context) (bool, error) {
	ok, err := s.store.Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check catalog storage: %w", err)
	}
	return ok, nil
}

// Load replaces the in-memory catalog with durable storage.
func (s *CatalogServiceImpl) Load(ctx context.Context) error {
	data, err := s.store.Read(ctx)
	if errors.Is(err, secondary.ErrBlobNotFound) {
		s.log(ctx).Info("no saved catalog", "location", s.store.Location())
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read catalog: %w", err)
	}

	records, version, err := codec.Decode(data)
	if err != nil {
		return fmt.Errorf("failed to decode catalog: %w", err)
	}

	s.records = records
	s.log(ctx).Info("loaded catalog", "items", len(records), "version", version)
	return nil
}

// Unload empties the in-memory catalog without touching storage.
func (s *CatalogServiceImpl) Unload() {
	s.records = nil
}

// Add appends a record and writes the catalog through to storage.
// On a failed write the append is rolled back.
func (s *CatalogServiceImpl) Add(ctx context.Context, record item.Record) error {
	if record.ID == "" {
		return errors.New("cannot add item without an id")
	}
	if !record.Kind.Valid() {
		return fmt.Errorf("cannot add item %s with invalid kind %d", record.ID, int(record.Kind))
	}
	if s.indexOf(record.ID) >= 0 {
		return fmt.Errorf("item %s is already in the catalog", record.ID)
	}

	n := len(s.records)
	s.records = append(s.records, record)
	if err := s.Save(ctx); err != nil {
		s.records = s.records[:n:n]
		return err
	}

	s.log(ctx).Info("added item to catalog", "id", record.ID, "kind", record.Kind.String())
	if s.audit != nil {
		if err := s.audit.LogAdd(ctx, record); err != nil {
			s.log(ctx).Warn("failed to record catalog log", "id", record.ID, "err", err)
		}
	}
	return nil
}

// Remove deletes the first record with id and writes through.
func (s *CatalogServiceImpl) Remove(ctx context.Context, id string) (bool, error) {
	idx := s.indexOf(id)
	if idx < 0 {
		s.log(ctx).Error("nothing was removed from catalog", "id", id, "err", ErrRemovalIDNotFound)
		return false, nil
	}

	previous := s.records
	s.records = slices.Delete(slices.Clone(previous), idx, idx+1)
	if err := s.Save(ctx); err != nil {
		s.records = previous
		return false, err
	}

	s.log(ctx).Info("removed item from catalog", "id", id)
	if s.audit != nil {
		if err := s.audit.LogRemove(ctx, id); err != nil {
			s.log(ctx).Warn("failed to record catalog log", "id", id, "err", err)
		}
	}
	return true, nil
}

// Save writes the whole in-memory catalog to storage.
func (s *CatalogServiceImpl) Save(ctx context.Context) error {
	data, err := codec.Encode(s.records)
	if err != nil {
		return fmt.Errorf("failed to encode catalog: %w", err)
	}
	if err := s.store.Write(ctx, data); err != nil {
		return fmt.Errorf("failed to save catalog: %w", err)
	}
	s.log(ctx).Debug("saved catalog", "items", len(s.records), "bytes", len(data))
	return nil
}

// Rehydrate instantiates every record into the current local frame, in catalog order.
// It stops at the first object the factory cannot create and returns what was
// created so far along with the error.
func (s *CatalogServiceImpl) Rehydrate(ctx context.Context, anchors secondary.GeoAnchorService, factory secondary.ObjectFactory) ([]primary.RehydratedItem, error) {
	out := make([]primary.RehydratedItem, 0, len(s.records))
	for _, r := range s.records {
		local := anchors.GpsToLocal(r.Position)
		h, err := factory.Instantiate(r.Kind, local, r.Orientation)
		if err != nil {
			return out, fmt.Errorf("failed to instantiate item %s: %w", r.ID, err)
		}
		factory.AssignID(h, r.ID)
		out = append(out, primary.RehydratedItem{Record: r, Handle: h})
	}
	s.log(ctx).Info("rehydrated catalog", "items", len(out))
	return out, nil
}

// Records returns a copy of the catalog in insertion order.
func (s *CatalogServiceImpl) Records() []item.Record {
	return slices.Clone(s.records)
}

// Len returns the number of records.
func (s *CatalogServiceImpl) Len() int {
	return len(s.records)
}

// Helper methods

func (s *CatalogServiceImpl) indexOf(id string) int {
	return slices.IndexFunc(s.records, func(r item.Record) bool { return r.ID == id })
}

func (s *CatalogServiceImpl) log(ctx context.Context) *slog.Logger {
	if sid := ctxutil.SessionFromContext(ctx); sid != "" {
		return s.logger.With("session", sid)
	}
	return s.logger
}

// Ensure CatalogServiceImpl implements the interface.
var _ primary.CatalogService = (*CatalogServiceImpl)(nil)
