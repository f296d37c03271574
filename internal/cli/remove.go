package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/geoanchor/internal/core/placement"
	"github.com/example/geoanchor/internal/script"
	"github.com/example/geoanchor/internal/wire"
)

// RemoveCmd returns the remove command
func RemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove ITEM_ID",
		Short: "Remove a saved item",
		Long: `Remove a saved item the way a user would: rehydrate the catalog into the
simulated scene, tap the item in remove mode and confirm.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := wire.Config()
			if err != nil {
				return err
			}
			if err := requireSaveLoad(cfg); err != nil {
				return err
			}
			catalog, err := wire.CatalogService()
			if err != nil {
				return err
			}
			s, err := newSimSession(cfg, catalog, cmd.OutOrStdout(), false)
			if err != nil {
				return err
			}

			sc := &script.Script{Steps: []script.Step{
				{Action: script.ActionMode, Mode: string(placement.ModeRemove)},
				{Action: script.ActionSelect, ID: args[0]},
				{Action: script.ActionRemove},
			}}
			if _, err := s.run(sc); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✓ Removed item %s\n", args[0])
			return nil
		},
	}
}
