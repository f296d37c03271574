package cli

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/example/geoanchor/internal/adapters/filesystem"
	"github.com/example/geoanchor/internal/app"
	"github.com/example/geoanchor/internal/ports/primary"
	"github.com/example/geoanchor/internal/script"
	"github.com/example/geoanchor/internal/wire"
)

// ReplayCmd returns the replay command
func ReplayCmd() *cobra.Command {
	var (
		scratch bool
		fresh   bool
	)

	cmd := &cobra.Command{
		Use:   "replay SCRIPT.yaml",
		Short: "Replay an interaction script against the simulated host",
		Long: `Replay a YAML interaction script frame by frame and check its expectations.

Script tier and allow_save_load override the workspace config. With --scratch
the replay starts from an empty catalog in a temporary file and leaves the
workspace catalog untouched.

With --new the saved catalog is unloaded before the replay, so the scene
starts empty. Stored items are not deleted until the replay saves or removes
an item: the catalog is then written through as it is in memory, which
replaces the stored list.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := script.LoadFile(args[0])
			if err != nil {
				return err
			}
			base, err := wire.Config()
			if err != nil {
				return err
			}
			cfg := *base
			if sc.Tier != 0 {
				cfg.Tier = sc.Tier
			}
			if sc.AllowSaveLoad != nil {
				cfg.AllowSaveLoad = *sc.AllowSaveLoad
			}

			var catalog primary.CatalogService
			if scratch {
				tmp, err := os.MkdirTemp("", "geoanchor-replay")
				if err != nil {
					return err
				}
				defer os.RemoveAll(tmp)
				catalog = app.NewCatalogService(filesystem.NewBlobStore(filepath.Join(tmp, "items.json")), wire.Logger())
			} else if catalog, err = wire.CatalogService(); err != nil {
				return err
			}

			s, err := newSimSession(&cfg, catalog, cmd.OutOrStdout(), fresh)
			if err != nil {
				return err
			}
			runner := script.NewRunner(s.session, catalog, s.host, wire.Logger())
			report, err := runner.Run(s.ctx, sc)
			s.session.Close()
			if err != nil {
				return err
			}
			return s.printer.Report(report)
		},
	}

	cmd.Flags().BoolVar(&scratch, "scratch", false, "replay against an empty temporary catalog")
	cmd.Flags().BoolVar(&fresh, "new", false, "unload the saved catalog and start from an empty scene")
	return cmd
}
