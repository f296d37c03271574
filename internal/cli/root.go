// Package cli contains the cobra command tree.
package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/example/geoanchor/internal/wire"
	"github.com/example/geoanchor/internal/workspace"
)

// NewRootCmd builds the geoanchor command tree.
func NewRootCmd() *cobra.Command {
	var (
		dir     string
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "geoanchor",
		Short: "Place, persist and remove geolocated AR items",
		Long: `geoanchor manages a catalog of AR items anchored to GPS positions.

Placement runs against a simulated host: a local frame around the configured
origin with a ground plane and box buildings. Interaction scripts can be
replayed frame by frame to reproduce sessions.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if dir == "" {
				found, err := workspace.DetectFromCwd()
				if err != nil {
					return fmt.Errorf("failed to get working directory: %w", err)
				}
				dir = found
			}
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			slog.SetDefault(logger)
			wire.Configure(dir, logger)
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return wire.Close()
		},
	}

	cmd.PersistentFlags().StringVarP(&dir, "dir", "C", "", "workspace directory (default: nearest workspace above the current directory)")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(InitCmd())
	cmd.AddCommand(StatusCmd())
	cmd.AddCommand(ListCmd())
	cmd.AddCommand(ShowCmd())
	cmd.AddCommand(PlaceCmd())
	cmd.AddCommand(RemoveCmd())
	cmd.AddCommand(ReplayCmd())
	cmd.AddCommand(ExportCmd())
	cmd.AddCommand(HistoryCmd())

	return cmd
}
