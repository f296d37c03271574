// Package wire provides dependency injection for the geoanchor application.
// It creates singleton services with lazy initialization.
package wire

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	cliadapter "github.com/example/geoanchor/internal/adapters/cli"
	"github.com/example/geoanchor/internal/adapters/filesystem"
	"github.com/example/geoanchor/internal/adapters/sim"
	"github.com/example/geoanchor/internal/adapters/sqlite"
	"github.com/example/geoanchor/internal/app"
	"github.com/example/geoanchor/internal/config"
	"github.com/example/geoanchor/internal/core/item"
	"github.com/example/geoanchor/internal/db"
	"github.com/example/geoanchor/internal/ports/primary"
	"github.com/example/geoanchor/internal/ports/secondary"
)

var (
	workDir = "."
	logger  = slog.Default()

	cfg            *config.Config
	database       *sql.DB
	catalogService *app.CatalogServiceImpl
	initErr        error
	once           sync.Once
)

// Configure sets the workspace directory and logger. It must be called
// before any service is requested.
func Configure(dir string, l *slog.Logger) {
	workDir = dir
	if l != nil {
		logger = l
	}
}

// Logger returns the application logger.
func Logger() *slog.Logger {
	return logger
}

// WorkDir returns the workspace directory.
func WorkDir() string {
	return workDir
}

// Config returns the loaded workspace configuration.
func Config() (*config.Config, error) {
	once.Do(initServices)
	return cfg, initErr
}

// CatalogService returns the singleton CatalogService, loaded from storage.
func CatalogService() (primary.CatalogService, error) {
	once.Do(initServices)
	if initErr != nil {
		return nil, initErr
	}
	return catalogService, nil
}

// CatalogLog returns the catalog log, or nil when the backend keeps none.
func CatalogLog() (secondary.CatalogLog, error) {
	once.Do(initServices)
	if initErr != nil {
		return nil, initErr
	}
	if database == nil {
		return nil, nil
	}
	return sqlite.NewLogWriter(database), nil
}

// Close releases the database connection, if one was opened.
func Close() error {
	if database != nil {
		return database.Close()
	}
	return nil
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	cfg, initErr = config.Load(workDir)
	if initErr != nil {
		return
	}

	var store secondary.BlobStore
	store, database, initErr = NewBlobStore(cfg, workDir)
	if initErr != nil {
		return
	}

	catalogService = app.NewCatalogService(store, logger)
	if database != nil {
		catalogService.WithLog(sqlite.NewLogWriter(database))
	}
	if cfg.AllowSaveLoad {
		if err := catalogService.Load(context.Background()); err != nil {
			initErr = err
		}
	}
}

// NewBlobStore builds the storage adapter selected by cfg. The returned
// database is nil for the file backend.
func NewBlobStore(c *config.Config, dir string) (secondary.BlobStore, *sql.DB, error) {
	path := c.StoragePath(dir)
	switch c.Storage.Backend {
	case config.BackendSQLite:
		conn, err := db.Open(path)
		if err != nil {
			return nil, nil, err
		}
		return sqlite.NewBlobStore(conn, sqlite.DefaultBlobName, path), conn, nil
	case config.BackendFile:
		return filesystem.NewBlobStore(path), nil, nil
	}
	return nil, nil, fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
}

// NewSimHost builds a simulated host from cfg.
func NewSimHost(c *config.Config) *sim.Host {
	buildings := make([]sim.Building, 0, len(c.Sim.Buildings))
	for _, b := range c.Sim.Buildings {
		buildings = append(buildings, sim.Building{
			Name: b.Name, MinX: b.MinX, MinZ: b.MinZ, MaxX: b.MaxX, MaxZ: b.MaxZ, Height: b.Height,
		})
	}
	return sim.NewHost(sim.HostConfig{
		Origin:       item.GpsPosition{Latitude: c.Origin.Latitude, Longitude: c.Origin.Longitude, Height: c.Origin.Height},
		Buildings:    buildings,
		GroundRadius: c.Sim.GroundRadius,
		Scale:        c.Sim.Scale,
		Latency:      time.Duration(c.Sim.LatencyMS) * time.Millisecond,
	})
}

// NewSession builds a placement session on a simulated host.
func NewSession(c *config.Config, catalog primary.CatalogService, host *sim.Host) *app.PlacementSessionImpl {
	return app.NewPlacementSession(
		app.SessionConfig{
			Tier:          c.Tier,
			AllowSaveLoad: c.AllowSaveLoad,
			Detection:     c.DetectionPolicy(),
		},
		catalog,
		host.Anchors,
		host.Scene,
		host.Clock,
		app.NewEffectExecutor(host.Console, host.Console, logger),
		logger,
	)
}

// CatalogAdapter returns a new CatalogAdapter writing to stdout.
// Each call creates a new adapter (adapters are stateless translators).
func CatalogAdapter() (*cliadapter.CatalogAdapter, error) {
	return CatalogAdapterWithOutput(os.Stdout)
}

// CatalogAdapterWithOutput returns a new CatalogAdapter writing to the given output.
// This variant allows testing or alternate output destinations.
func CatalogAdapterWithOutput(out io.Writer) (*cliadapter.CatalogAdapter, error) {
	svc, err := CatalogService()
	if err != nil {
		return nil, err
	}
	return cliadapter.NewCatalogAdapter(svc, out), nil
}
