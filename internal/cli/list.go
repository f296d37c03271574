package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/example/geoanchor/internal/wire"
)

// ListCmd returns the list command
func ListCmd() *cobra.Command {
	var where string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved items",
		Long: `List saved items in catalog order.

--where takes an expression over id, kind, tier, latitude, longitude and height:
  geoanchor list --where 'kind == "tier3" && height > 20'
  geoanchor list --where 'distance(latitude, longitude, 47.6062, -122.3321) < 100'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			adapter, err := wire.CatalogAdapterWithOutput(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return adapter.List(context.Background(), where)
		},
	}

	cmd.Flags().StringVarP(&where, "where", "w", "", "filter expression")
	return cmd
}

// ShowCmd returns the show command
func ShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show ITEM_ID",
		Short: "Show one saved item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			adapter, err := wire.CatalogAdapterWithOutput(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			_, err = adapter.Show(context.Background(), args[0])
			return err
		},
	}
}
