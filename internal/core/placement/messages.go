package placement

import "time"

// Status messages shown on the messaging surface.
const (
	MsgRemoveHint      = "Tap AR items to remove them"
	MsgTier1Hint       = "Tap the environment to place an item"
	MsgTier2Hint       = "Drag your finger across\nthe ground on screen"
	MsgTier3Hint       = "Drag your finger across the\nground and buildings on screen"
	MsgPlacing         = "Placing Item..."
	MsgDetectionFailed = "Placement Failed\nTap on the ground or a building."
	MsgRemoteTimeout   = "API hitscan call timed out"
	MsgNoSurfaceTapped = "Call failed\nDid not tap on terrain or building"
	MsgSaved           = "Saved Item Placement"
	MsgRemoved         = "Removed Item"
)

// Auto-clear durations. Zero means the message stays until replaced.
const (
	NoSurfaceClearAfter = 3 * time.Second
	SavedClearAfter     = 2500 * time.Millisecond
	RemovedClearAfter   = 3 * time.Second
)

// ModeMessage returns the hint shown when mode becomes active.
func ModeMessage(mode Mode) string {
	switch mode {
	case ModeTier1:
		return MsgTier1Hint
	case ModeTier2:
		return MsgTier2Hint
	case ModeTier3:
		return MsgTier3Hint
	default:
		return MsgRemoveHint
	}
}
