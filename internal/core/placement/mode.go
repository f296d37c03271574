// Package placement contains the pure interaction rules for placing and removing items.
// This is part of the Functional Core - no I/O, only pure functions.
package placement

import (
	"fmt"
	"strings"

	"github.com/example/geoanchor/internal/core/item"
)

// Mode is the active interaction mode. Exactly one is active at a time.
type Mode string

const (
	ModeRemove Mode = "remove"
	ModeTier1  Mode = "tier1"
	ModeTier2  Mode = "tier2"
	ModeTier3  Mode = "tier3"
)

// ParseMode parses a mode name (case-insensitive).
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeRemove, ModeTier1, ModeTier2, ModeTier3:
		return m, nil
	}
	return "", fmt.Errorf("unknown mode %q (expected remove, tier1, tier2 or tier3)", s)
}

// Strategy is how a pointer event is turned into a placement or selection.
type Strategy int

const (
	// StrategySelection hit-tests removable objects.
	StrategySelection Strategy = iota
	// StrategyDetection issues one asynchronous surface detection request.
	StrategyDetection
	// StrategyRaycast tracks a local surface hit on every pointer event.
	StrategyRaycast
)

// StrategyFor returns the placement strategy of a mode.
func StrategyFor(mode Mode) Strategy {
	switch mode {
	case ModeTier1:
		return StrategyDetection
	case ModeTier2, ModeTier3:
		return StrategyRaycast
	default:
		return StrategySelection
	}
}

// TracksDrag reports whether pointer drags are handled in mode.
func TracksDrag(mode Mode) bool {
	return StrategyFor(mode) == StrategyRaycast
}

// KindFor returns the item kind placed in mode. ok is false for ModeRemove.
func KindFor(mode Mode) (kind item.Kind, ok bool) {
	switch mode {
	case ModeTier1:
		return item.KindTier1, true
	case ModeTier2:
		return item.KindTier2, true
	case ModeTier3:
		return item.KindTier3, true
	}
	return 0, false
}

// RequiredTier returns the minimum service tier needed to enter mode.
func RequiredTier(mode Mode) int {
	if kind, ok := KindFor(mode); ok {
		return kind.Tier()
	}
	return 1
}

// Layer is a hit-test filter understood by the host raycaster.
type Layer string

const (
	LayerRemovable    Layer = "removable"
	LayerTier2Surface Layer = "tier2-surface"
	LayerTier3Surface Layer = "tier3-surface"
)

// LayerFor returns the raycast layer used by mode. Tier1 never raycasts and
// gets an empty layer.
func LayerFor(mode Mode) Layer {
	switch mode {
	case ModeRemove:
		return LayerRemovable
	case ModeTier2:
		return LayerTier2Surface
	case ModeTier3:
		return LayerTier3Surface
	}
	return ""
}

// Material names a visual material on a host object.
type Material string

const (
	MaterialCrystalOutline Material = "crystal-outline"
	MaterialEggOutline     Material = "egg-outline"
	MaterialGemOutline     Material = "gem-outline"
)

// HighlightFor returns the selection highlight material for an item kind.
// Each kind has its own outline so the highlight matches the item's shape.
func HighlightFor(kind item.Kind) Material {
	switch kind {
	case item.KindTier1:
		return MaterialCrystalOutline
	case item.KindTier2:
		return MaterialEggOutline
	default:
		return MaterialGemOutline
	}
}

// Controls is the placement UI state shown next to the AR view.
type Controls string

const (
	// ControlsReady: mode buttons enabled, save/discard hidden.
	ControlsReady Controls = "ready"
	// ControlsBusy: mode buttons disabled while a detection is in flight.
	ControlsBusy Controls = "busy"
	// ControlsPlacing: mode buttons disabled, save/discard shown.
	ControlsPlacing Controls = "placing"
)
