// Package app contains the application layer - service implementations and effect execution.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/example/geoanchor/internal/core/effects"
	"github.com/example/geoanchor/internal/ports/secondary"
)

// EffectExecutor interprets and executes effects.
// This is the "Imperative Shell" - the only place user-facing side effects happen.
type EffectExecutor interface {
	Execute(ctx context.Context, effs []effects.Effect) error
}

// SurfaceEffectExecutor implements EffectExecutor against the messaging
// surface and control panel.
type SurfaceEffectExecutor struct {
	messenger secondary.Messenger
	controls  secondary.ControlPanel
	logger    *slog.Logger
}

// NewEffectExecutor creates a new SurfaceEffectExecutor.
func NewEffectExecutor(messenger secondary.Messenger, controls secondary.ControlPanel, logger *slog.Logger) *SurfaceEffectExecutor {
	if logger == nil {
		logger = slog.Default()
	}
	return &SurfaceEffectExecutor{
		messenger: messenger,
		controls:  controls,
		logger:    logger,
	}
}

// Execute processes a slice of effects, executing each in sequence.
func (e *SurfaceEffectExecutor) Execute(ctx context.Context, effs []effects.Effect) error {
	for _, eff := range effs {
		if err := e.executeOne(ctx, eff); err != nil {
			return fmt.Errorf("failed to execute %s effect: %w", eff.EffectType(), err)
		}
	}
	return nil
}

func (e *SurfaceEffectExecutor) executeOne(ctx context.Context, eff effects.Effect) error {
	switch typed := eff.(type) {
	case effects.MessageEffect:
		e.messenger.SetText(typed.Text, typed.ClearAfter)
		return nil
	case effects.ClearMessageEffect:
		e.messenger.ClearText()
		return nil
	case effects.ControlsEffect:
		e.controls.SetPlacementControls(typed.State)
		return nil
	case effects.SelectionControlsEffect:
		e.controls.SetSelectionControls(typed.Visible)
		return nil
	case effects.LogEffect:
		e.logger.Log(ctx, typed.Level, typed.Message, typed.Attrs...)
		return nil
	default:
		return fmt.Errorf("unknown effect type: %T", eff)
	}
}
