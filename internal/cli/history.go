package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	cliadapter "github.com/example/geoanchor/internal/adapters/cli"
	"github.com/example/geoanchor/internal/wire"
)

// HistoryCmd returns the history command
func HistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the catalog add/remove history (sqlite backend)",
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := wire.CatalogLog()
			if err != nil {
				return err
			}
			if log == nil {
				return errors.New("catalog history needs the sqlite storage backend (geoanchor init --backend sqlite)")
			}
			return cliadapter.NewLogAdapter(log, cmd.OutOrStdout()).History(context.Background(), limit)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of entries (0 for all)")
	return cmd
}
