package secondary

import (
	"time"

	"github.com/example/geoanchor/internal/core/placement"
)

// Messenger defines the secondary port for the user-facing status line.
type Messenger interface {
	// SetText shows text. A positive clearAfter clears it automatically.
	SetText(text string, clearAfter time.Duration)

	// ClearText hides the status line.
	ClearText()
}

// ControlPanel defines the secondary port for the interaction controls.
type ControlPanel interface {
	// SetPlacementControls switches between ready, busy and placing layouts.
	SetPlacementControls(state placement.Controls)

	// SetSelectionControls shows or hides the "item selected" affordance.
	SetSelectionControls(visible bool)
}

// Clock defines the secondary port for the frame clock driving ticks.
type Clock interface {
	Now() time.Time
}
