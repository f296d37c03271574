package item

import "fmt"

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string // Human-readable reason (populated when not allowed)
}

// Error returns the guard result as an error if not allowed, nil otherwise.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%s", r.Reason)
}

// PlacementContext describes the candidate side of a session for guard evaluation.
type PlacementContext struct {
	HasCandidate bool
}

// SelectionContext describes the removal side of a session for guard evaluation.
type SelectionContext struct {
	HasSelection bool
	ItemID       string // id assigned to the selected object, empty if it was never saved
}

// CanConfirmPlacement evaluates whether the current candidate can be committed.
// Rule: there must be a candidate.
func CanConfirmPlacement(ctx PlacementContext) GuardResult {
	if !ctx.HasCandidate {
		return GuardResult{
			Allowed: false,
			Reason:  "no item is being placed - tap the environment first",
		}
	}
	return GuardResult{Allowed: true}
}

// CanDiscardPlacement evaluates whether the current candidate can be thrown away.
// Rule: there must be a candidate.
func CanDiscardPlacement(ctx PlacementContext) GuardResult {
	if !ctx.HasCandidate {
		return GuardResult{
			Allowed: false,
			Reason:  "no item is being placed - nothing to discard",
		}
	}
	return GuardResult{Allowed: true}
}

// CanConfirmRemoval evaluates whether the selected object can be removed.
// Rule: there must be a selection. A selected object without an id is still
// removable from the scene; the catalog step simply reports a lookup failure.
func CanConfirmRemoval(ctx SelectionContext) GuardResult {
	if !ctx.HasSelection {
		return GuardResult{
			Allowed: false,
			Reason:  "no item is selected - tap an item in remove mode first",
		}
	}
	return GuardResult{Allowed: true}
}
