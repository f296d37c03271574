package script

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/example/geoanchor/internal/adapters/filesystem"
	"github.com/example/geoanchor/internal/adapters/sim"
	"github.com/example/geoanchor/internal/app"
	"github.com/example/geoanchor/internal/core/item"
)

func newTestRunner(t *testing.T, s *Script) (*Runner, *app.CatalogServiceImpl) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	host := sim.NewHost(sim.HostConfig{
		Origin:       item.GpsPosition{Latitude: 47.6062, Longitude: -122.3321, Height: 56},
		GroundRadius: 100,
		Latency:      250 * time.Millisecond,
		Buildings:    []sim.Building{{Name: "tower", MinX: 20, MinZ: 20, MaxX: 40, MaxZ: 40, Height: 30}},
	})
	catalog := app.NewCatalogService(filesystem.NewBlobStore(filepath.Join(t.TempDir(), "items.json")), logger)
	session := app.NewPlacementSession(
		app.SessionConfig{Tier: s.Tier, AllowSaveLoad: s.AllowSaveLoad == nil || *s.AllowSaveLoad},
		catalog,
		host.Anchors,
		host.Scene,
		host.Clock,
		app.NewEffectExecutor(host.Console, host.Console, logger),
		logger,
	)
	return NewRunner(session, catalog, host, logger), catalog
}

func runScript(t *testing.T, src string) (*Report, *app.CatalogServiceImpl) {
	t.Helper()
	s, err := Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	runner, catalog := newTestRunner(t, s)
	report, err := runner.Run(context.Background(), s)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	for _, f := range report.Failures() {
		t.Error(f)
	}
	return report, catalog
}

func TestRun_Tier2PlaceAndRemove(t *testing.T) {
	_, catalog := runScript(t, `
tier: 2
steps:
  - {action: mode, mode: tier2, expect: {message: "Drag your finger across\nthe ground on screen"}}
  - {action: down, x: 1, y: 5, expect: {candidate: true, controls: placing, message: ""}}
  - {action: drag, x: 2, y: 6}
  - {action: confirm, expect: {items: 1, candidate: false, controls: ready, message: "Saved Item Placement"}}
  - {action: wait, duration: 2600ms, expect: {message: ""}}
  - {action: mode, mode: remove}
  - {action: down, x: 2, y: 6, expect: {selection: true}}
  - {action: remove, expect: {items: 0, selection: false, message: "Removed Item"}}
  - {action: remove, expect: {error: true}}
`)

	if catalog.Len() != 0 {
		t.Errorf("expected empty catalog, got %d", catalog.Len())
	}
}

func TestRun_Tier1DetectionCompletes(t *testing.T) {
	_, catalog := runScript(t, `
tier: 1
steps:
  - {action: mode, mode: tier1}
  - {action: down, x: 3, y: 4, expect: {controls: busy, message: "Placing Item..."}}
  - {action: down, x: 9, y: 9}
  - {action: wait, duration: 300ms, expect: {detection: completed, candidate: true, controls: placing}}
  - {action: confirm, expect: {items: 1}}
`)

	records := catalog.Records()
	if len(records) != 1 || records[0].Kind != item.KindTier1 {
		t.Fatalf("expected one tier1 record, got %+v", records)
	}
}

func TestRun_Tier1Timeout(t *testing.T) {
	runScript(t, `
tier: 1
steps:
  - {action: silence}
  - {action: mode, mode: tier1}
  - {action: down, x: 3, y: 4}
  - {action: wait, duration: 4900ms, expect: {controls: busy}}
  - {action: wait, duration: 200ms, expect: {detection: timed_out, controls: ready, message: "API hitscan call timed out", candidate: false}}
`)
}

func TestRun_Tier3RoofAndLocalTimeout(t *testing.T) {
	_, catalog := runScript(t, `
tier: 3
steps:
  - {action: mode, mode: tier3}
  - {action: down, x: 30, y: 30}
  - {action: confirm}
  - {action: mode, mode: tier1}
  - {action: latency, duration: 2s}
  - {action: down, x: 1, y: 1}
  - {action: wait, duration: 1s, expect: {detection: timed_out, message: "Call failed\nDid not tap on terrain or building"}}
  - {action: wait, duration: 1s, expect: {candidate: false}}
  - {action: wait, duration: 2s, expect: {message: ""}}
`)

	records := catalog.Records()
	if len(records) != 1 || records[0].Position.Height != 56+30 {
		t.Fatalf("expected one record on the roof, got %+v", records)
	}
}

func TestRun_PersistenceDisabled(t *testing.T) {
	_, catalog := runScript(t, `
tier: 2
allow_save_load: false
steps:
  - {action: mode, mode: tier2}
  - {action: down, x: 1, y: 1}
  - {action: confirm, expect: {items: 0, candidate: false}}
`)

	if catalog.Len() != 0 {
		t.Errorf("expected nothing persisted, got %d", catalog.Len())
	}
}

func TestRun_ReportsFailedExpectations(t *testing.T) {
	s, err := Parse([]byte(`
tier: 2
steps:
  - {action: confirm, expect: {error: false}}
`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	runner, _ := newTestRunner(t, s)

	report, err := runner.Run(context.Background(), s)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if report.OK() || len(report.Failures()) != 1 {
		t.Errorf("expected one failure, got %v", report.Failures())
	}
	if report.Steps[0].Err == nil {
		t.Error("expected step error to be recorded")
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{name: "not yaml", src: "steps: [unterminated"},
		{name: "unknown action", src: "steps: [{action: jump}]"},
		{name: "bad mode", src: "steps: [{action: mode, mode: tier9}]"},
		{name: "wait without duration", src: "steps: [{action: wait}]"},
		{name: "bad duration", src: "steps: [{action: wait, duration: soon}]"},
		{name: "select without id", src: "steps: [{action: select}]"},
		{name: "bad tier", src: "tier: 7"},
		{name: "bad detection outcome", src: "steps: [{action: down, expect: {detection: pending}}]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.src)); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestFramesFor(t *testing.T) {
	if got := framesFor(5*time.Second, 16*time.Millisecond); got != 313 {
		t.Errorf("expected 313 frames, got %d", got)
	}
	if got := framesFor(0, 16*time.Millisecond); got != 1 {
		t.Errorf("expected at least 1 frame, got %d", got)
	}
}

func TestRun_SelectRefusesOverlappedItem(t *testing.T) {
	place, err := Parse([]byte(`
tier: 2
steps:
  - {action: mode, mode: tier2}
  - {action: down, x: 1, y: 5}
  - {action: confirm}
  - {action: down, x: 1, y: 5}
  - {action: confirm, expect: {items: 2}}
`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	runner, catalog := newTestRunner(t, place)
	ctx := context.Background()
	if _, err := runner.Run(ctx, place); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	records := catalog.Records()
	older, newer := records[0].ID, records[1].ID

	remove := &Script{Tier: 2, Steps: []Step{
		{Action: ActionMode, Mode: "remove"},
		{Action: ActionSelect, ID: newer},
		{Action: ActionRemove},
	}}
	report, err := runner.Run(ctx, remove)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if report.Steps[1].Err == nil {
		t.Error("expected select of the covered item to fail")
	}
	if report.Steps[2].Err == nil {
		t.Error("expected remove without a selection to fail")
	}
	got := catalog.Records()
	if len(got) != 2 || got[0].ID != older || got[1].ID != newer {
		t.Errorf("expected both items kept, got %+v", got)
	}
}

func TestRun_SelectThenRemoveNamedItem(t *testing.T) {
	place, err := Parse([]byte(`
tier: 2
steps:
  - {action: mode, mode: tier2}
  - {action: down, x: 1, y: 5}
  - {action: confirm}
  - {action: down, x: 40, y: 5}
  - {action: confirm, expect: {items: 2}}
`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	runner, catalog := newTestRunner(t, place)
	ctx := context.Background()
	if _, err := runner.Run(ctx, place); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	records := catalog.Records()

	remove := &Script{Tier: 2, Steps: []Step{
		{Action: ActionMode, Mode: "remove"},
		{Action: ActionSelect, ID: records[1].ID},
		{Action: ActionRemove},
	}}
	report, err := runner.Run(ctx, remove)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	for _, st := range report.Steps {
		if st.Err != nil {
			t.Fatalf("step %d (%s) failed: %v", st.Index, st.Action, st.Err)
		}
	}

	got := catalog.Records()
	if len(got) != 1 || got[0].ID != records[0].ID {
		t.Errorf("expected only %s left, got %+v", records[0].ID, got)
	}
}
