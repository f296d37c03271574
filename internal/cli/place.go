package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/geoanchor/internal/core/item"
	"github.com/example/geoanchor/internal/core/placement"
	"github.com/example/geoanchor/internal/script"
	"github.com/example/geoanchor/internal/wire"
)

// PlaceCmd returns the place command
func PlaceCmd() *cobra.Command {
	var (
		kind    string
		x, y    float64
		drags   []string
		discard bool
	)

	cmd := &cobra.Command{
		Use:   "place",
		Short: "Place an item by tapping the simulated view",
		Long: `Place an item at a screen point of the simulated top-down view.

tier1 items are placed by asynchronous surface detection; tier2 items on the
ground; tier3 items on the ground or building roofs. --drag moves a tier2/tier3
candidate before it is confirmed.

Examples:
  geoanchor place --kind tier2 --x 1 --y 5
  geoanchor place --kind tier3 --x 25 --y 25 --drag 30,30 --drag 32,31
  geoanchor place --kind tier1 --x 3 --y 4 --discard`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := wire.Config()
			if err != nil {
				return err
			}
			k, err := item.ParseKind(kind)
			if err != nil {
				return err
			}
			sc, err := placeScript(k, x, y, drags, discard, cfg.DetectionPolicy().Timeout())
			if err != nil {
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

			if _, err := s.run(sc); err != nil {
				return err
			}
			if records := catalog.Records(); !discard && cfg.AllowSaveLoad && len(records) > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Placed %s item %s\n", k, records[len(records)-1].ID)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&kind, "kind", "k", "tier1", "item kind (tier1, tier2, tier3)")
	cmd.Flags().Float64Var(&x, "x", 0, "screen x")
	cmd.Flags().Float64Var(&y, "y", 0, "screen y")
	cmd.Flags().StringArrayVar(&drags, "drag", nil, "drag to X,Y before confirming (repeatable)")
	cmd.Flags().BoolVar(&discard, "discard", false, "discard instead of saving")

	return cmd
}

func placeScript(kind item.Kind, x, y float64, drags []string, discard bool, timeout time.Duration) (*script.Script, error) {
	mode := placement.Mode(kind.String())
	sc := &script.Script{FrameMS: int(script.DefaultFrame.Milliseconds())}
	sc.Steps = append(sc.Steps,
		script.Step{Action: script.ActionMode, Mode: string(mode)},
		script.Step{Action: script.ActionDown, X: x, Y: y},
	)

	if placement.StrategyFor(mode) == placement.StrategyDetection {
		// long enough for either the answer or the deadline
		sc.Steps = append(sc.Steps, script.Step{Action: script.ActionWait, Duration: (timeout + script.DefaultFrame).String()})
	}
	for _, d := range drags {
		dx, dy, err := parsePoint(d)
		if err != nil {
			return nil, err
		}
		sc.Steps = append(sc.Steps, script.Step{Action: script.ActionDrag, X: dx, Y: dy})
	}

	if discard {
		sc.Steps = append(sc.Steps, script.Step{Action: script.ActionDiscard})
	} else {
		sc.Steps = append(sc.Steps, script.Step{Action: script.ActionConfirm})
	}
	return sc, sc.Validate()
}

func parsePoint(s string) (float64, float64, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return 0, 0, fmt.Errorf("invalid point %q (expected X,Y)", s)
	}
	px, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid x in %q: %w", s, err)
	}
	py, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid y in %q: %w", s, err)
	}
	return px, py, nil
}
