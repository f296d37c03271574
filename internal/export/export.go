// Package export writes catalog records as flat rows for analysis tools.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/parquet-go/parquet-go"
	"gopkg.in/yaml.v3"

	"github.com/example/geoanchor/internal/core/item"
)

// Format is an export file format.
type Format string

const (
	FormatJSON    Format = "json"
	FormatYAML    Format = "yaml"
	FormatParquet Format = "parquet"
)

// Formats lists the supported formats.
var Formats = []Format{FormatJSON, FormatYAML, FormatParquet}

// Row is one exported record.
type Row struct {
	ID        string  `json:"id" yaml:"id" parquet:"id"`
	Kind      string  `json:"kind" yaml:"kind" parquet:"kind,dict"`
	Latitude  float64 `json:"latitude" yaml:"latitude" parquet:"latitude"`
	Longitude float64 `json:"longitude" yaml:"longitude" parquet:"longitude"`
	Height    float64 `json:"height" yaml:"height" parquet:"height"`
	QX        float32 `json:"qx" yaml:"qx" parquet:"qx"`
	QY        float32 `json:"qy" yaml:"qy" parquet:"qy"`
	QZ        float32 `json:"qz" yaml:"qz" parquet:"qz"`
	QW        float32 `json:"qw" yaml:"qw" parquet:"qw"`
}

// ParseFormat parses a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatYAML, FormatParquet:
		return f, nil
	case "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unknown export format %q (expected json, yaml or parquet)", s)
}

// FormatFromPath guesses the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", fmt.Errorf("cannot infer export format from %q", path)
	}
	return ParseFormat(ext)
}

// Rows flattens records in catalog order.
func Rows(records []item.Record) []Row {
	rows := make([]Row, 0, len(records))
	for _, r := range records {
		rows = append(rows, Row{
			ID:        r.ID,
			Kind:      r.Kind.String(),
			Latitude:  r.Position.Latitude,
			Longitude: r.Position.Longitude,
			Height:    r.Position.Height,
			QX:        r.Orientation.X,
			QY:        r.Orientation.Y,
			QZ:        r.Orientation.Z,
			QW:        r.Orientation.W,
		})
	}
	return rows
}

// Write encodes records to w in format.
func Write(w io.Writer, format Format, records []item.Record) error {
	rows := Rows(records)
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rows); err != nil {
			return fmt.Errorf("failed to write json: %w", err)
		}
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(rows); err != nil {
			return fmt.Errorf("failed to write yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("failed to flush yaml: %w", err)
		}
	case FormatParquet:
		pw := parquet.NewGenericWriter[Row](w)
		if _, err := pw.Write(rows); err != nil {
			return fmt.Errorf("failed to write parquet rows: %w", err)
		}
		if err := pw.Close(); err != nil {
			return fmt.Errorf("failed to close parquet writer: %w", err)
		}
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
	return nil
}
