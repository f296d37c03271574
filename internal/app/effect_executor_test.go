package app

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/example/geoanchor/internal/core/effects"
	"github.com/example/geoanchor/internal/core/placement"
)

func TestEffectExecutor_Execute(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	surface := &mockSurface{}
	exec := NewEffectExecutor(surface, surface, logger)

	err := exec.Execute(context.Background(), []effects.Effect{
		effects.LogEffect{Level: slog.LevelWarn, Message: "surface detection timed out", Attrs: []any{"request", uint64(4)}},
		effects.MessageEffect{Text: "hello"},
		effects.ControlsEffect{State: placement.ControlsBusy},
		effects.SelectionControlsEffect{Visible: true},
	})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if surface.text != "hello" {
		t.Errorf("expected message %q, got %q", "hello", surface.text)
	}
	if surface.controls != placement.ControlsBusy {
		t.Errorf("expected busy controls, got %q", surface.controls)
	}
	if !surface.selection {
		t.Error("expected selection controls shown")
	}
	out := buf.String()
	if !strings.Contains(out, "level=WARN") || !strings.Contains(out, "surface detection timed out") || !strings.Contains(out, "request=4") {
		t.Errorf("unexpected log output %q", out)
	}
}

type unknownEffect struct{}

func (unknownEffect) EffectType() string { return "unknown" }

func TestEffectExecutor_UnknownEffect(t *testing.T) {
	surface := &mockSurface{}
	exec := NewEffectExecutor(surface, surface, discardLogger())

	if err := exec.Execute(context.Background(), []effects.Effect{unknownEffect{}}); err == nil {
		t.Error("expected error for unknown effect")
	}
}
