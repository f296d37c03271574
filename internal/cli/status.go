package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	cliadapter "github.com/example/geoanchor/internal/adapters/cli"
	"github.com/example/geoanchor/internal/config"
	"github.com/example/geoanchor/internal/wire"
)

// StatusCmd returns the status command
func StatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show workspace configuration and catalog state",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := wire.Config()
			if err != nil {
				return err
			}
			catalog, err := wire.CatalogService()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			dir := wire.WorkDir()
			fmt.Fprintf(out, "Workspace:   %s\n", dir)
			fmt.Fprintf(out, "Tier:        %d\n", cfg.Tier)
			cliadapter.NewSessionAdapter(out, time.Time{}).Modes(cfg.Tier)
			fmt.Fprintf(out, "Timeout:     %s\n", cfg.DetectionPolicy().Timeout())

			if !cfg.AllowSaveLoad {
				fmt.Fprintf(out, "Storage:     %s\n", color.New(color.FgYellow).Sprint("disabled"))
				return nil
			}

			fmt.Fprintf(out, "Storage:     %s (%s)\n", cfg.StoragePath(dir), cfg.Storage.Backend)
			exists, err := catalog.Exists(context.Background())
			if err != nil {
				return err
			}
			if !exists {
				fmt.Fprintf(out, "Catalog:     %s\n", color.New(color.FgYellow).Sprint("(not saved yet)"))
				return nil
			}
			fmt.Fprintf(out, "Catalog:     %s\n", color.New(color.FgGreen).Sprintf("%d item(s)", catalog.Len()))
			return nil
		},
	}
}

// requireSaveLoad fails commands that only make sense with persistence on.
func requireSaveLoad(cfg *config.Config) error {
	if !cfg.AllowSaveLoad {
		return fmt.Errorf("persistence is disabled in %s", config.Path(wire.WorkDir()))
	}
	return nil
}
