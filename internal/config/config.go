// Package config reads and writes the workspace configuration in
// .geoanchor/config.json. Values from the process environment (and a .env
// file in the workspace) override the file.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/example/geoanchor/internal/core/detection"
)

// DirName is the workspace directory holding config and storage.
const DirName = ".geoanchor"

// CurrentVersion is written into new configs.
const CurrentVersion = "1"

// Storage backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Environment overrides.
const (
	EnvTier           = "GEOANCHOR_TIER"
	EnvAllowSaveLoad  = "GEOANCHOR_ALLOW_SAVE_LOAD"
	EnvStorageBackend = "GEOANCHOR_STORAGE_BACKEND"
	EnvStoragePath    = "GEOANCHOR_STORAGE_PATH"
)

// ErrNotInitialized is returned by LoadConfig when the workspace has no config.
var ErrNotInitialized = errors.New("not a geoanchor workspace (run 'geoanchor init')")

// Config represents the geoanchor workspace configuration.
type Config struct {
	Version         string        `json:"version"`
	Tier            int           `json:"tier"`            // external service tier, 1..3
	AllowSaveLoad   bool          `json:"allow_save_load"` // false keeps placements in memory only
	Storage         StorageConfig `json:"storage"`
	Origin          Origin        `json:"origin"`
	RemoteTimeoutMS int           `json:"remote_timeout_ms"`
	LocalTimeoutMS  int           `json:"local_timeout_ms"`
	Sim             SimConfig     `json:"sim"`
}

// StorageConfig selects where the catalog blob lives.
type StorageConfig struct {
	Backend string `json:"backend"`        // "file" or "sqlite"
	Path    string `json:"path,omitempty"` // relative paths resolve against the workspace
}

// Origin is the GPS position of the local frame origin.
type Origin struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
	Height    float64 `json:"height"`
}

// SimConfig describes the simulated environment used by the CLI.
type SimConfig struct {
	LatencyMS    int              `json:"latency_ms"`
	GroundRadius float64          `json:"ground_radius"`
	Scale        float64          `json:"scale"`
	Buildings    []BuildingConfig `json:"buildings,omitempty"`
}

// BuildingConfig is an axis-aligned building footprint in local meters.
type BuildingConfig struct {
	Name   string  `json:"name"`
	MinX   float64 `json:"min_x"`
	MinZ   float64 `json:"min_z"`
	MaxX   float64 `json:"max_x"`
	MaxZ   float64 `json:"max_z"`
	Height float64 `json:"height"`
}

// Default returns the configuration written by 'geoanchor init'.
func Default() *Config {
	return &Config{
		Version:         CurrentVersion,
		Tier:            3,
		AllowSaveLoad:   true,
		Storage:         StorageConfig{Backend: BackendFile},
		Origin:          Origin{Latitude: 47.6062, Longitude: -122.3321, Height: 56},
		RemoteTimeoutMS: int(detection.DefaultRemoteTimeout / time.Millisecond),
		LocalTimeoutMS:  int(detection.DefaultLocalTimeout / time.Millisecond),
		Sim: SimConfig{
			LatencyMS:    250,
			GroundRadius: 500,
			Scale:        1,
			Buildings: []BuildingConfig{
				{Name: "tower", MinX: 20, MinZ: 20, MaxX: 40, MaxZ: 40, Height: 30},
			},
		},
	}
}

// Path returns the config file path for a workspace directory.
func Path(dir string) string {
	return filepath.Join(dir, DirName, "config.json")
}

// LoadConfig reads .geoanchor/config.json from dir.
// Returns ErrNotInitialized if no config exists.
func LoadConfig(dir string) (*Config, error) {
	data, err := os.ReadFile(Path(dir))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotInitialized
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

// SaveConfig writes config.json to dir.
func SaveConfig(dir string, cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	cfgDir := filepath.Join(dir, DirName)
	if err := os.MkdirAll(cfgDir, 0755); err != nil {
		return fmt.Errorf("failed to create %s dir: %w", DirName, err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(Path(dir), data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Load reads the workspace config and applies .env and environment overrides.
func Load(dir string) (*Config, error) {
	if err := LoadEnvFile(dir); err != nil {
		return nil, err
	}
	cfg, err := LoadConfig(dir)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadEnvFile loads dir/.env into the process environment if present.
// Variables already set take precedence.
func LoadEnvFile(dir string) error {
	path := filepath.Join(dir, ".env")
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides fields from environment variables looked up with lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvTier); ok && v != "" {
		tier, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvTier, v, err)
		}
		c.Tier = tier
	}
	if v, ok := lookup(EnvAllowSaveLoad); ok && v != "" {
		allow, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvAllowSaveLoad, v, err)
		}
		c.AllowSaveLoad = allow
	}
	if v, ok := lookup(EnvStorageBackend); ok && v != "" {
		c.Storage.Backend = strings.ToLower(v)
	}
	if v, ok := lookup(EnvStoragePath); ok && v != "" {
		c.Storage.Path = v
	}
	return nil
}

// Validate checks field ranges.
func (c *Config) Validate() error {
	if c.Tier < 1 || c.Tier > 3 {
		return fmt.Errorf("tier must be 1, 2 or 3, got %d", c.Tier)
	}
	switch c.Storage.Backend {
	case BackendFile, BackendSQLite:
	default:
		return fmt.Errorf("unknown storage backend %q (expected %s or %s)", c.Storage.Backend, BackendFile, BackendSQLite)
	}
	if c.RemoteTimeoutMS < 0 || c.LocalTimeoutMS < 0 {
		return fmt.Errorf("timeouts must not be negative")
	}
	// the local frame scales longitude by cos(latitude)
	if c.Origin.Latitude <= -90 || c.Origin.Latitude >= 90 {
		return fmt.Errorf("origin latitude must be strictly between -90 and 90, got %v", c.Origin.Latitude)
	}
	return nil
}

// StoragePath resolves the catalog location for workspace dir.
func (c *Config) StoragePath(dir string) string {
	p := c.Storage.Path
	if p == "" {
		if c.Storage.Backend == BackendSQLite {
			p = "catalog.db"
		} else {
			p = "items.json"
		}
		return filepath.Join(dir, DirName, p)
	}
	if filepath.IsAbs(p) || p == ":memory:" {
		return p
	}
	return filepath.Join(dir, p)
}

// DetectionPolicy returns the detection deadline policy for the configured tier.
func (c *Config) DetectionPolicy() detection.Policy {
	return detection.Policy{
		Tier:          c.Tier,
		RemoteTimeout: time.Duration(c.RemoteTimeoutMS) * time.Millisecond,
		LocalTimeout:  time.Duration(c.LocalTimeoutMS) * time.Millisecond,
	}
}
