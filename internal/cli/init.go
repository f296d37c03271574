package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/geoanchor/internal/config"
	"github.com/example/geoanchor/internal/wire"
)

// InitCmd returns the init command
func InitCmd() *cobra.Command {
	var (
		tier    int
		backend string
		noSave  bool
		force   bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a geoanchor workspace",
		Long:  `Create .geoanchor/config.json in the workspace directory with default settings.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := wire.WorkDir()
			if _, err := config.LoadConfig(dir); err == nil && !force {
				return fmt.Errorf("workspace already initialized at %s (use --force to overwrite)", config.Path(dir))
			} else if err != nil && !errors.Is(err, config.ErrNotInitialized) && !force {
				return err
			}

			cfg := config.Default()
			cfg.Tier = tier
			cfg.Storage.Backend = backend
			cfg.AllowSaveLoad = !noSave
			if err := config.SaveConfig(dir, cfg); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "✓ Workspace initialized at %s\n", config.Path(dir))
			fmt.Fprintf(out, "  tier %d, %s storage at %s\n", cfg.Tier, cfg.Storage.Backend, cfg.StoragePath(dir))
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Next steps:")
			fmt.Fprintln(out, "  geoanchor place --kind tier2 --x 1 --y 5")
			fmt.Fprintln(out, "  geoanchor list")
			return nil
		},
	}

	cmd.Flags().IntVar(&tier, "tier", 3, "external service tier (1-3)")
	cmd.Flags().StringVar(&backend, "backend", config.BackendFile, "storage backend (file or sqlite)")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "disable persistence")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config")

	return cmd
}
