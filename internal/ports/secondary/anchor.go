package secondary

import (
	"context"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/example/geoanchor/internal/core/item"
)

// ScreenPoint is a pointer position in screen pixels.
type ScreenPoint struct {
	X float64
	Y float64
}

// DetectionResult is the single answer of a surface detection call.
type DetectionResult struct {
	OK       bool
	Position item.GpsPosition // valid when OK
	Normal   r3.Vec           // valid when OK
	Err      error            // optional detail when !OK
}

// GeoAnchorService defines the secondary port for the host's geolocation service.
// It converts between GPS coordinates and the session's local frame and
// detects placeable surfaces.
type GeoAnchorService interface {
	// LocalToGps converts a local-frame position to GPS.
	LocalToGps(local r3.Vec) item.GpsPosition

	// GpsToLocal converts a GPS position into the current local frame.
	GpsToLocal(gps item.GpsPosition) r3.Vec

	// DetectSurface starts an asynchronous surface detection at point.
	// done is called at most once, possibly from another goroutine and
	// possibly long after the caller stopped waiting.
	DetectSurface(ctx context.Context, point ScreenPoint, done func(DetectionResult))
}
