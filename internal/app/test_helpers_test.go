package app

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/example/geoanchor/internal/core/item"
	"github.com/example/geoanchor/internal/core/placement"
	"github.com/example/geoanchor/internal/ports/secondary"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ============================================================================
// mockBlobStore
// ============================================================================

var _ secondary.BlobStore = (*mockBlobStore)(nil)

type mockBlobStore struct {
	data     []byte
	present  bool
	writes   int
	writeErr error
	readErr  error
}

func newMockBlobStore() *mockBlobStore {
	return &mockBlobStore{}
}

func (m *mockBlobStore) Exists(ctx context.Context) (bool, error) {
	return m.present, nil
}

func (m *mockBlobStore) Read(ctx context.Context) ([]byte, error) {
	if m.readErr != nil {
		return nil, m.readErr
	}
	if !m.present {
		return nil, secondary.ErrBlobNotFound
	}
	return append([]byte(nil), m.data...), nil
}

func (m *mockBlobStore) Write(ctx context.Context, data []byte) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	m.data = append([]byte(nil), data...)
	m.present = true
	m.writes++
	return nil
}

func (m *mockBlobStore) Location() string {
	return "mem://catalog"
}

// ============================================================================
// mockAnchors
// ============================================================================

var _ secondary.GeoAnchorService = (*mockAnchors)(nil)

// mockAnchors maps local (x, y, z) to (lon, height, lat) one to one so
// expected GPS values are easy to write down.
type mockAnchors struct {
	mu       sync.Mutex
	requests []pendingDetection
}

type pendingDetection struct {
	point secondary.ScreenPoint
	done  func(secondary.DetectionResult)
}

func (m *mockAnchors) LocalToGps(local r3.Vec) item.GpsPosition {
	return item.GpsPosition{Latitude: local.Z, Longitude: local.X, Height: local.Y}
}

func (m *mockAnchors) GpsToLocal(gps item.GpsPosition) r3.Vec {
	return r3.Vec{X: gps.Longitude, Y: gps.Height, Z: gps.Latitude}
}

func (m *mockAnchors) DetectSurface(ctx context.Context, point secondary.ScreenPoint, done func(secondary.DetectionResult)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, pendingDetection{point: point, done: done})
}

func (m *mockAnchors) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// answer fires the callback of the i-th detection call.
func (m *mockAnchors) answer(i int, result secondary.DetectionResult) {
	m.mu.Lock()
	done := m.requests[i].done
	m.mu.Unlock()
	done(result)
}

// ============================================================================
// mockScene
// ============================================================================

var _ secondary.SceneGraph = (*mockScene)(nil)

type sceneObject struct {
	kind        item.Kind
	position    r3.Vec
	orientation item.Orientation
	id          string
	material    placement.Material
}

type mockScene struct {
	next    secondary.ObjectHandle
	objects map[secondary.ObjectHandle]*sceneObject

	// surfaceHits answers Raycast for surface layers.
	surfaceHits map[placement.Layer]secondary.Hit
	// objectHit answers Raycast for the removable layer.
	objectHit    secondary.ObjectHandle
	instantiated int
	destroyed    []secondary.ObjectHandle
}

func newMockScene() *mockScene {
	return &mockScene{
		objects:     make(map[secondary.ObjectHandle]*sceneObject),
		surfaceHits: make(map[placement.Layer]secondary.Hit),
	}
}

func (m *mockScene) add(kind item.Kind, id string) secondary.ObjectHandle {
	m.next++
	m.objects[m.next] = &sceneObject{kind: kind, id: id, material: "base"}
	return m.next
}

func (m *mockScene) Raycast(point secondary.ScreenPoint, layer placement.Layer) (secondary.Hit, bool) {
	if layer == placement.LayerRemovable {
		if m.objectHit == 0 {
			return secondary.Hit{}, false
		}
		return secondary.Hit{Object: m.objectHit}, true
	}
	hit, ok := m.surfaceHits[layer]
	return hit, ok
}

func (m *mockScene) Instantiate(kind item.Kind, position r3.Vec, orientation item.Orientation) (secondary.ObjectHandle, error) {
	m.instantiated++
	h := m.add(kind, "")
	m.objects[h].position = position
	m.objects[h].orientation = orientation
	return h, nil
}

func (m *mockScene) Destroy(h secondary.ObjectHandle) {
	delete(m.objects, h)
	m.destroyed = append(m.destroyed, h)
}

func (m *mockScene) AssignID(h secondary.ObjectHandle, id string) {
	if o, ok := m.objects[h]; ok {
		o.id = id
	}
}

func (m *mockScene) SetPose(h secondary.ObjectHandle, position r3.Vec, orientation item.Orientation) {
	if o, ok := m.objects[h]; ok {
		o.position = position
		o.orientation = orientation
	}
}

func (m *mockScene) Pose(h secondary.ObjectHandle) (r3.Vec, item.Orientation, bool) {
	o, ok := m.objects[h]
	if !ok {
		return r3.Vec{}, item.Orientation{}, false
	}
	return o.position, o.orientation, true
}

func (m *mockScene) Kind(h secondary.ObjectHandle) (item.Kind, bool) {
	o, ok := m.objects[h]
	if !ok {
		return 0, false
	}
	return o.kind, true
}

func (m *mockScene) ItemID(h secondary.ObjectHandle) (string, bool) {
	o, ok := m.objects[h]
	if !ok || o.id == "" {
		return "", false
	}
	return o.id, true
}

func (m *mockScene) Material(h secondary.ObjectHandle) placement.Material {
	if o, ok := m.objects[h]; ok {
		return o.material
	}
	return ""
}

func (m *mockScene) SetMaterial(h secondary.ObjectHandle, mat placement.Material) {
	if o, ok := m.objects[h]; ok {
		o.material = mat
	}
}

// ============================================================================
// mockSurface (Messenger + ControlPanel)
// ============================================================================

var (
	_ secondary.Messenger    = (*mockSurface)(nil)
	_ secondary.ControlPanel = (*mockSurface)(nil)
)

type mockSurface struct {
	text       string
	clearAfter time.Duration
	messages   []string
	controls   placement.Controls
	selection  bool
}

func (m *mockSurface) SetText(text string, clearAfter time.Duration) {
	m.text = text
	m.clearAfter = clearAfter
	m.messages = append(m.messages, text)
}

func (m *mockSurface) ClearText() {
	m.text = ""
	m.clearAfter = 0
}

func (m *mockSurface) SetPlacementControls(state placement.Controls) {
	m.controls = state
}

func (m *mockSurface) SetSelectionControls(visible bool) {
	m.selection = visible
}

// ============================================================================
// mockClock
// ============================================================================

var _ secondary.Clock = (*mockClock)(nil)

type mockClock struct {
	now time.Time
}

func newMockClock() *mockClock {
	return &mockClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
}

func (m *mockClock) Now() time.Time { return m.now }

func (m *mockClock) advance(d time.Duration) { m.now = m.now.Add(d) }

// ============================================================================
// mockCatalogLog
// ============================================================================

var _ secondary.CatalogLog = (*mockCatalogLog)(nil)

type mockCatalogLog struct {
	entries []secondary.LogEntry
	err     error
}

func (m *mockCatalogLog) LogAdd(ctx context.Context, record item.Record) error {
	return m.write(record.ID, secondary.LogActionAdd, record.Kind.String())
}

func (m *mockCatalogLog) LogRemove(ctx context.Context, id string) error {
	return m.write(id, secondary.LogActionRemove, "")
}

func (m *mockCatalogLog) write(id, action, kind string) error {
	if m.err != nil {
		return m.err
	}
	m.entries = append(m.entries, secondary.LogEntry{ID: int64(len(m.entries) + 1), ItemID: id, Action: action, Kind: kind})
	return nil
}

func (m *mockCatalogLog) List(ctx context.Context, limit int) ([]secondary.LogEntry, error) {
	return m.entries, nil
}
