// Package effects defines effect types as data structures representing user-facing side effects.
// This is the foundation of the Functional Core / Imperative Shell pattern.
// Effects are pure data - they describe what should happen, not how.
package effects

import (
	"log/slog"
	"time"

	"github.com/example/geoanchor/internal/core/placement"
)

// Effect is the base interface for all effects.
// Effects represent side effects as data that can be interpreted by the shell.
type Effect interface {
	// EffectType returns a string identifier for the effect type.
	EffectType() string
}

// LogEffect represents a logging operation. Attrs are slog key/value pairs.
type LogEffect struct {
	Level   slog.Level
	Message string
	Attrs   []any
}

func (e LogEffect) EffectType() string { return "log" }

// MessageEffect sets the status message. ClearAfter of zero keeps it until replaced.
type MessageEffect struct {
	Text       string
	ClearAfter time.Duration
}

func (e MessageEffect) EffectType() string { return "message" }

// ClearMessageEffect clears the status message.
type ClearMessageEffect struct{}

func (e ClearMessageEffect) EffectType() string { return "clear_message" }

// ControlsEffect switches the placement controls.
type ControlsEffect struct {
	State placement.Controls
}

func (e ControlsEffect) EffectType() string { return "controls" }

// SelectionControlsEffect shows or hides the "item selected" affordance.
type SelectionControlsEffect struct {
	Visible bool
}

func (e SelectionControlsEffect) EffectType() string { return "selection_controls" }
