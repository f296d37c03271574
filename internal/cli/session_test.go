package cli

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/example/geoanchor/internal/adapters/filesystem"
	"github.com/example/geoanchor/internal/app"
	"github.com/example/geoanchor/internal/config"
	"github.com/example/geoanchor/internal/core/item"
	"github.com/example/geoanchor/internal/ctxutil"
)

func TestNewSimSession_DistinctSessionIDs(t *testing.T) {
	cfg := config.Default()
	catalog := app.NewCatalogService(filesystem.NewBlobStore(filepath.Join(t.TempDir(), "items.json")), nil)

	first, err := newSimSession(cfg, catalog, io.Discard, false)
	if err != nil {
		t.Fatalf("newSimSession failed: %v", err)
	}
	second, err := newSimSession(cfg, catalog, io.Discard, false)
	if err != nil {
		t.Fatalf("newSimSession failed: %v", err)
	}

	a := ctxutil.SessionFromContext(first.ctx)
	b := ctxutil.SessionFromContext(second.ctx)
	if a == "" || a == b {
		t.Errorf("expected distinct session ids, got %q and %q", a, b)
	}
}

func TestNewSimSession_Fresh(t *testing.T) {
	tests := []struct {
		name        string
		fresh       bool
		wantObjects int
	}{
		{name: "rehydrates saved items", fresh: false, wantObjects: 1},
		{name: "new unloads the catalog", fresh: true, wantObjects: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			cfg := config.Default()
			catalog := app.NewCatalogService(filesystem.NewBlobStore(filepath.Join(t.TempDir(), "items.json")), nil)
			record := item.Record{ID: item.NewItemID(), Kind: item.KindTier2, Position: item.GpsPosition{
				Latitude: cfg.Origin.Latitude, Longitude: cfg.Origin.Longitude, Height: cfg.Origin.Height,
			}, Orientation: item.IdentityOrientation}
			if err := catalog.Add(ctx, record); err != nil {
				t.Fatalf("Add failed: %v", err)
			}

			s, err := newSimSession(cfg, catalog, io.Discard, tt.fresh)
			if err != nil {
				t.Fatalf("newSimSession failed: %v", err)
			}

			if got := len(s.host.Scene.Objects()); got != tt.wantObjects {
				t.Errorf("expected %d scene objects, got %d", tt.wantObjects, got)
			}
			if catalog.Len() != tt.wantObjects {
				t.Errorf("expected %d catalog records, got %d", tt.wantObjects, catalog.Len())
			}
			exists, err := catalog.Exists(ctx)
			if err != nil || !exists {
				t.Errorf("expected stored catalog to survive, got %v (err=%v)", exists, err)
			}
		})
	}
}
