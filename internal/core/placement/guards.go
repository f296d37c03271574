package placement

import (
	"fmt"

	"github.com/example/geoanchor/internal/core/item"
)

// ModeContext provides the context needed to evaluate a mode switch.
type ModeContext struct {
	Current          Mode
	Requested        Mode
	Tier             int // configured external service tier
	HasCandidate     bool
	DetectionPending bool
}

// CanEnterMode evaluates whether the session may switch to the requested mode.
// Rules:
//   - the configured tier must cover the mode;
//   - no switch while a candidate is being positioned (confirm or discard first);
//   - no switch while a detection request is in flight.
func CanEnterMode(ctx ModeContext) item.GuardResult {
	if need := RequiredTier(ctx.Requested); ctx.Tier < need {
		return item.GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("mode %s needs service tier %d (configured tier: %d)", ctx.Requested, need, ctx.Tier),
		}
	}
	if ctx.Requested == ctx.Current {
		return item.GuardResult{Allowed: true}
	}
	if ctx.HasCandidate {
		return item.GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("cannot switch to %s while an item is being placed - save or discard it first", ctx.Requested),
		}
	}
	if ctx.DetectionPending {
		return item.GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("cannot switch to %s while a placement request is in flight", ctx.Requested),
		}
	}
	return item.GuardResult{Allowed: true}
}

// AvailableModes returns the modes a tier unlocks, in button order.
func AvailableModes(tier int) []Mode {
	modes := []Mode{ModeRemove}
	for _, m := range []Mode{ModeTier1, ModeTier2, ModeTier3} {
		if RequiredTier(m) <= tier {
			modes = append(modes, m)
		}
	}
	return modes
}
