package sim

import (
	"context"
	"errors"
	"sync"
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/example/geoanchor/internal/core/item"
	"github.com/example/geoanchor/internal/core/placement"
	"github.com/example/geoanchor/internal/ports/secondary"
)

// ErrNoSurface is reported when a detection lands on neither terrain nor a building.
var ErrNoSurface = errors.New("no terrain or building at screen point")

type pendingCall struct {
	ctx    context.Context
	due    time.Time
	result secondary.DetectionResult
	done   func(secondary.DetectionResult)
}

// AnchorService implements secondary.GeoAnchorService over a Frame and Scene.
// Detection answers are computed when the call is made but only delivered by
// Advance once the configured latency has elapsed.
type AnchorService struct {
	frame Frame
	scene *Scene
	clock secondary.Clock

	mu      sync.Mutex
	latency time.Duration
	silent  bool
	pending []pendingCall
}

// NewAnchorService creates a new simulated anchor service.
func NewAnchorService(frame Frame, scene *Scene, clock secondary.Clock, latency time.Duration) *AnchorService {
	return &AnchorService{frame: frame, scene: scene, clock: clock, latency: latency}
}

// SetLatency changes the delay of future detection answers.
func (a *AnchorService) SetLatency(d time.Duration) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.latency = d
}

// SetSilent makes future detection calls never answer.
func (a *AnchorService) SetSilent(silent bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.silent = silent
}

// LocalToGps converts a local position to GPS.
func (a *AnchorService) LocalToGps(local r3.Vec) item.GpsPosition {
	return a.frame.LocalToGps(local)
}

// GpsToLocal converts a GPS position to local coordinates.
func (a *AnchorService) GpsToLocal(gps item.GpsPosition) r3.Vec {
	return a.frame.GpsToLocal(gps)
}

// DetectSurface queues a detection against terrain and buildings.
func (a *AnchorService) DetectSurface(ctx context.Context, point secondary.ScreenPoint, done func(secondary.DetectionResult)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.silent {
		return
	}

	var result secondary.DetectionResult
	if hit, ok := a.scene.Raycast(point, placement.LayerTier3Surface); ok {
		result = secondary.DetectionResult{OK: true, Position: a.frame.LocalToGps(hit.Point), Normal: hit.Normal}
	} else {
		result = secondary.DetectionResult{Err: ErrNoSurface}
	}

	a.pending = append(a.pending, pendingCall{
		ctx:    ctx,
		due:    a.clock.Now().Add(a.latency),
		result: result,
		done:   done,
	})
}

// Advance delivers every answer due at or before now, in call order, and
// returns how many callbacks ran. Calls whose context was cancelled are dropped.
func (a *AnchorService) Advance(now time.Time) int {
	a.mu.Lock()
	var due, rest []pendingCall
	for _, p := range a.pending {
		if now.Before(p.due) {
			rest = append(rest, p)
		} else {
			due = append(due, p)
		}
	}
	a.pending = rest
	a.mu.Unlock()

	fired := 0
	for _, p := range due {
		if p.ctx.Err() != nil {
			continue
		}
		p.done(p.result)
		fired++
	}
	return fired
}

// Outstanding returns the number of undelivered answers.
func (a *AnchorService) Outstanding() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.pending)
}

var _ secondary.GeoAnchorService = (*AnchorService)(nil)
