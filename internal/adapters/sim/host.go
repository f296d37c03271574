package sim

import (
	"time"

	"github.com/example/geoanchor/internal/core/item"
)

// DefaultStart is the simulated clock's start time.
var DefaultStart = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

// HostConfig configures a simulated host.
type HostConfig struct {
	Origin       item.GpsPosition
	Buildings    []Building
	GroundRadius float64
	Scale        float64
	Latency      time.Duration
	Start        time.Time
}

// Host bundles the simulated adapters a session needs.
type Host struct {
	Frame   Frame
	Scene   *Scene
	Anchors *AnchorService
	Clock   *Clock
	Console *Console
}

// NewHost creates a simulated host.
func NewHost(cfg HostConfig) *Host {
	if cfg.Start.IsZero() {
		cfg.Start = DefaultStart
	}
	frame := Frame{Origin: cfg.Origin}
	scene := NewScene(cfg.Scale, cfg.GroundRadius, cfg.Buildings)
	clock := NewClock(cfg.Start)
	return &Host{
		Frame:   frame,
		Scene:   scene,
		Anchors: NewAnchorService(frame, scene, clock, cfg.Latency),
		Clock:   clock,
		Console: NewConsole(clock),
	}
}

// Step advances the clock by one frame and delivers due detection answers.
// The caller ticks its session afterwards.
func (h *Host) Step(frame time.Duration) int {
	return h.Anchors.Advance(h.Clock.Advance(frame))
}
