// Package cli provides thin CLI adapters that translate between CLI concerns
// and application services. Adapters handle output formatting but delegate
// business logic to services.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/example/geoanchor/internal/core/item"
	"github.com/example/geoanchor/internal/export"
	"github.com/example/geoanchor/internal/ports/primary"
	"github.com/example/geoanchor/internal/query"
)

// CatalogAdapter translates CLI operations to CatalogService calls.
type CatalogAdapter struct {
	service primary.CatalogService
	out     io.Writer
}

// NewCatalogAdapter creates a new CatalogAdapter with the given service.
func NewCatalogAdapter(service primary.CatalogService, out io.Writer) *CatalogAdapter {
	return &CatalogAdapter{
		service: service,
		out:     out,
	}
}

// List prints the loaded catalog, optionally filtered by an expression.
func (a *CatalogAdapter) List(ctx context.Context, where string) error {
	records := a.service.Records()
	if where != "" {
		f, err := query.Compile(where)
		if err != nil {
			return err
		}
		if records, err = f.Apply(records); err != nil {
			return err
		}
	}

	if len(records) == 0 {
		fmt.Fprintln(a.out, "No items found")
		return nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tKIND\tLATITUDE\tLONGITUDE\tHEIGHT")
	fmt.Fprintln(w, "--\t----\t--------\t---------\t------")
	for _, r := range records {
		fmt.Fprintf(w, "%s\t%s\t%.7f\t%.7f\t%.2f\n",
			r.ID, kindLabel(r.Kind), r.Position.Latitude, r.Position.Longitude, r.Position.Height)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "\n%d item(s)\n", len(records))
	return nil
}

// Show prints a single record.
func (a *CatalogAdapter) Show(ctx context.Context, id string) (*item.Record, error) {
	for _, r := range a.service.Records() {
		if r.ID != id {
			continue
		}
		fmt.Fprintf(a.out, "\nItem:        %s\n", r.ID)
		fmt.Fprintf(a.out, "Kind:        %s\n", kindLabel(r.Kind))
		fmt.Fprintf(a.out, "Position:    %.7f, %.7f @ %.2fm\n", r.Position.Latitude, r.Position.Longitude, r.Position.Height)
		fmt.Fprintf(a.out, "Orientation: (%.4f, %.4f, %.4f, %.4f)\n", r.Orientation.X, r.Orientation.Y, r.Orientation.Z, r.Orientation.W)
		fmt.Fprintln(a.out)
		return &r, nil
	}
	return nil, fmt.Errorf("item %s not found", id)
}

// Export writes the catalog to path in format. An empty format is inferred
// from the file extension; "-" writes json (or format) to the adapter's output.
func (a *CatalogAdapter) Export(ctx context.Context, format, path string) error {
	var (
		f   export.Format
		err error
	)
	switch {
	case format != "":
		f, err = export.ParseFormat(format)
	case path == "-":
		f = export.FormatJSON
	default:
		f, err = export.FormatFromPath(path)
	}
	if err != nil {
		return err
	}

	records := a.service.Records()
	if path == "-" {
		return export.Write(a.out, f, records)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := export.Write(file, f, records); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}

	fmt.Fprintf(a.out, "✓ Exported %d item(s) to %s (%s)\n", len(records), path, f)
	return nil
}

func kindLabel(k item.Kind) string {
	switch k {
	case item.KindTier1:
		return color.New(color.FgCyan).Sprint(k.String())
	case item.KindTier2:
		return color.New(color.FgYellow).Sprint(k.String())
	case item.KindTier3:
		return color.New(color.FgMagenta).Sprint(k.String())
	}
	return k.String()
}
