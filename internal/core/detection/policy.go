package detection

import (
	"log/slog"
	"time"

	"github.com/example/geoanchor/internal/core/effects"
	"github.com/example/geoanchor/internal/core/placement"
)

// Default deadlines.
//
// Tiers below 3 call a remote service, so the deadline covers network latency.
// Tier 3 answers from preloaded terrain and building data, so a slow answer
// already means the tap missed every surface.
const (
	DefaultRemoteTimeout = 5 * time.Second
	DefaultLocalTimeout  = 1 * time.Second
)

// LocalTier is the first tier whose detection runs locally.
const LocalTier = 3

// Policy selects the deadline and timeout message for a service tier.
type Policy struct {
	Tier          int
	RemoteTimeout time.Duration // zero means DefaultRemoteTimeout
	LocalTimeout  time.Duration // zero means DefaultLocalTimeout
}

// Local reports whether detection is answered locally for this tier.
func (p Policy) Local() bool {
	return p.Tier >= LocalTier
}

// Timeout returns the deadline duration for a new request.
func (p Policy) Timeout() time.Duration {
	if p.Local() {
		if p.LocalTimeout > 0 {
			return p.LocalTimeout
		}
		return DefaultLocalTimeout
	}
	if p.RemoteTimeout > 0 {
		return p.RemoteTimeout
	}
	return DefaultRemoteTimeout
}

// StartedEffects are applied when a request goes Pending.
func StartedEffects() []effects.Effect {
	return []effects.Effect{
		effects.ControlsEffect{State: placement.ControlsBusy},
		effects.MessageEffect{Text: placement.MsgPlacing},
	}
}

// CompletedEffects are applied when a request completes and the candidate is in place.
func CompletedEffects() []effects.Effect {
	return []effects.Effect{
		effects.ClearMessageEffect{},
		effects.ControlsEffect{State: placement.ControlsPlacing},
	}
}

// FailedEffects are applied when the external call reports failure.
func FailedEffects(requestID uint64, err error) []effects.Effect {
	return []effects.Effect{
		effects.LogEffect{Level: slog.LevelInfo, Message: "surface detection failed", Attrs: []any{"request", requestID, "err", err}},
		effects.MessageEffect{Text: placement.MsgDetectionFailed},
		effects.ControlsEffect{State: placement.ControlsReady},
	}
}

// TimedOutEffects are applied when the deadline passes with no callback.
// A remote tier reports a network/server timeout; the local tier reports that
// the tap did not land on terrain or a building.
func TimedOutEffects(p Policy, requestID uint64, hasCandidate bool) []effects.Effect {
	var msg effects.MessageEffect
	if p.Local() {
		msg = effects.MessageEffect{Text: placement.MsgNoSurfaceTapped, ClearAfter: placement.NoSurfaceClearAfter}
	} else {
		msg = effects.MessageEffect{Text: placement.MsgRemoteTimeout}
	}
	out := []effects.Effect{
		effects.LogEffect{Level: slog.LevelWarn, Message: "surface detection timed out", Attrs: []any{"request", requestID, "tier", p.Tier, "timeout", p.Timeout()}},
		msg,
	}
	if !hasCandidate {
		out = append(out, effects.ControlsEffect{State: placement.ControlsReady})
	}
	return out
}
