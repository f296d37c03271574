package primary

import (
	"context"

	"github.com/example/geoanchor/internal/core/detection"
	"github.com/example/geoanchor/internal/core/item"
	"github.com/example/geoanchor/internal/core/placement"
	"github.com/example/geoanchor/internal/ports/secondary"
)

// PlacementSession defines the primary port for the AR interaction state machine.
// All methods must be called from the host's single interaction thread.
type PlacementSession interface {
	// PointerDown dispatches a pointer press by the current mode.
	PointerDown(ctx context.Context, point secondary.ScreenPoint)

	// PointerDrag re-runs continuous placement (tier2/tier3 only).
	PointerDrag(ctx context.Context, point secondary.ScreenPoint)

	// Tick processes queued detection results, then checks the detection deadline.
	Tick()

	// ConfirmPlacement commits the candidate to the catalog.
	ConfirmPlacement(ctx context.Context) (*ConfirmPlacementResponse, error)

	// DiscardPlacement destroys the candidate without persisting it.
	DiscardPlacement(ctx context.Context) error

	// ConfirmRemoval removes the selected object from the catalog and the scene.
	ConfirmRemoval(ctx context.Context) (*ConfirmRemovalResponse, error)

	// Deselect clears the selection and restores its material.
	Deselect()

	// SetMode switches the interaction mode.
	SetMode(mode placement.Mode) error

	// State returns a snapshot for display and tests.
	State() SessionState

	// Close drops pending work and releases candidate and selection.
	Close()
}

// ConfirmPlacementResponse describes a committed placement.
type ConfirmPlacementResponse struct {
	Record    item.Record
	Persisted bool // false when persistence is disabled
}

// ConfirmRemovalResponse describes a removal.
type ConfirmRemovalResponse struct {
	ItemID    string
	Persisted bool // true when the record was found and removed from storage
}

// SessionState is a read-only snapshot of the session.
type SessionState struct {
	Mode               placement.Mode
	HasCandidate       bool
	Candidate          secondary.ObjectHandle
	CandidateKind      item.Kind
	HasSelection       bool
	Selected           secondary.ObjectHandle
	Detection          detection.Status
	LastDetection      detection.Status
	Tier               int
	PersistenceEnabled bool
}
