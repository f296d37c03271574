package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/example/geoanchor/internal/wire"
)

// ExportCmd returns the export command
func ExportCmd() *cobra.Command {
	var (
		format string
		out    string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export saved items as json, yaml or parquet",
		RunE: func(cmd *cobra.Command, args []string) error {
			adapter, err := wire.CatalogAdapterWithOutput(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return adapter.Export(context.Background(), format, out)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "json, yaml or parquet (default: from --out extension)")
	cmd.Flags().StringVarP(&out, "out", "o", "-", "output file, - for stdout")
	return cmd
}
