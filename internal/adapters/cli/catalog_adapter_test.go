package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"github.com/example/geoanchor/internal/adapters/sim"
	"github.com/example/geoanchor/internal/core/item"
	"github.com/example/geoanchor/internal/export"
	"github.com/example/geoanchor/internal/ports/primary"
	"github.com/example/geoanchor/internal/ports/secondary"
	"github.com/example/geoanchor/internal/script"
)

func init() {
	color.NoColor = true
}

// mockCatalogService implements primary.CatalogService for testing
type mockCatalogService struct {
	records []item.Record
}

func (m *mockCatalogService) Exists(ctx context.Context) (bool, error) {
	return len(m.records) > 0, nil
}
func (m *mockCatalogService) Load(ctx context.Context) error { return nil }
func (m *mockCatalogService) Unload()                        { m.records = nil }
func (m *mockCatalogService) Add(ctx context.Context, r item.Record) error {
	m.records = append(m.records, r)
	return nil
}
func (m *mockCatalogService) Remove(ctx context.Context, id string) (bool, error) {
	return false, errors.New("not implemented in adapter")
}
func (m *mockCatalogService) Save(ctx context.Context) error { return nil }
func (m *mockCatalogService) Rehydrate(ctx context.Context, anchors secondary.GeoAnchorService, factory secondary.ObjectFactory) ([]primary.RehydratedItem, error) {
	return nil, nil
}
func (m *mockCatalogService) Records() []item.Record { return append([]item.Record(nil), m.records...) }
func (m *mockCatalogService) Len() int               { return len(m.records) }

func newMockCatalog() *mockCatalogService {
	return &mockCatalogService{records: []item.Record{
		{ID: "item-a", Kind: item.KindTier1, Position: item.GpsPosition{Latitude: 47.6, Longitude: -122.3, Height: 5}, Orientation: item.IdentityOrientation},
		{ID: "item-b", Kind: item.KindTier3, Position: item.GpsPosition{Latitude: 47.7, Longitude: -122.4, Height: 40}, Orientation: item.IdentityOrientation},
	}}
}

func TestCatalogAdapter_List(t *testing.T) {
	var out bytes.Buffer
	adapter := NewCatalogAdapter(newMockCatalog(), &out)

	if err := adapter.List(context.Background(), ""); err != nil {
		t.Fatalf("List failed: %v", err)
	}

	got := out.String()
	for _, want := range []string{"ID", "item-a", "item-b", "tier3", "2 item(s)"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, got)
		}
	}
}

func TestCatalogAdapter_ListFiltered(t *testing.T) {
	var out bytes.Buffer
	adapter := NewCatalogAdapter(newMockCatalog(), &out)

	if err := adapter.List(context.Background(), "height > 10"); err != nil {
		t.Fatalf("List failed: %v", err)
	}

	if strings.Contains(out.String(), "item-a") || !strings.Contains(out.String(), "item-b") {
		t.Errorf("unexpected filtered output:\n%s", out.String())
	}
	if err := adapter.List(context.Background(), "height +"); err == nil {
		t.Error("expected error for invalid filter")
	}
}

func TestCatalogAdapter_ListEmpty(t *testing.T) {
	var out bytes.Buffer
	adapter := NewCatalogAdapter(&mockCatalogService{}, &out)

	if err := adapter.List(context.Background(), ""); err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if !strings.Contains(out.String(), "No items found") {
		t.Errorf("expected empty message, got %q", out.String())
	}
}

func TestCatalogAdapter_Show(t *testing.T) {
	var out bytes.Buffer
	adapter := NewCatalogAdapter(newMockCatalog(), &out)

	r, err := adapter.Show(context.Background(), "item-b")
	if err != nil {
		t.Fatalf("Show failed: %v", err)
	}
	if r.Kind != item.KindTier3 || !strings.Contains(out.String(), "40.00m") {
		t.Errorf("unexpected show output:\n%s", out.String())
	}
	if _, err := adapter.Show(context.Background(), "missing"); err == nil {
		t.Error("expected error for unknown id")
	}
}

func TestCatalogAdapter_Export(t *testing.T) {
	var out bytes.Buffer
	adapter := NewCatalogAdapter(newMockCatalog(), &out)
	path := filepath.Join(t.TempDir(), "items.json")

	if err := adapter.Export(context.Background(), "", path); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read export: %v", err)
	}
	var rows []export.Row
	if err := json.Unmarshal(data, &rows); err != nil {
		t.Fatalf("export is not json: %v", err)
	}
	if len(rows) != 2 {
		t.Errorf("expected 2 rows, got %d", len(rows))
	}
	if !strings.Contains(out.String(), "Exported 2 item(s)") {
		t.Errorf("unexpected output %q", out.String())
	}

	if err := adapter.Export(context.Background(), "", filepath.Join(t.TempDir(), "items")); err == nil {
		t.Error("expected error without format or extension")
	}
}

func TestSessionAdapter_Message(t *testing.T) {
	var out bytes.Buffer
	start := sim.DefaultStart
	adapter := NewSessionAdapter(&out, start)

	adapter.Message(sim.Entry{At: start.Add(1500 * time.Millisecond), Text: "Placement Failed\nTap on the ground or a building."})
	adapter.Message(sim.Entry{At: start.Add(2 * time.Second)})

	got := out.String()
	if !strings.Contains(got, "+  1.50s") || !strings.Contains(got, "Placement Failed / Tap") {
		t.Errorf("unexpected output:\n%s", got)
	}
	if !strings.Contains(got, "(message cleared)") {
		t.Errorf("expected cleared marker, got:\n%s", got)
	}
}

func TestSessionAdapter_Report(t *testing.T) {
	var out bytes.Buffer
	adapter := NewSessionAdapter(&out, sim.DefaultStart)

	ok := &script.Report{Steps: []script.StepResult{{Index: 1, Action: "down"}}}
	if err := adapter.Report(ok); err != nil {
		t.Errorf("expected no error, got %v", err)
	}

	bad := &script.Report{Steps: []script.StepResult{{Index: 1, Action: "confirm", Failures: []string{"expected 1 items, got 0"}}}}
	if err := adapter.Report(bad); err == nil {
		t.Error("expected error for failed expectations")
	}
	if !strings.Contains(out.String(), "expected 1 items, got 0") {
		t.Errorf("expected failure printed, got:\n%s", out.String())
	}
}
