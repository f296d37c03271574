// Package sim provides a headless host for placement sessions: a local
// east-up-north frame anchored at a GPS origin, an in-memory scene with a
// ground plane and box buildings, a latency-simulating surface detector,
// a manual clock and a console that records what the user would have seen.
package sim

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/example/geoanchor/internal/core/item"
)

// EarthRadius is the WGS84 equatorial radius in meters.
const EarthRadius = 6378137.0

// Frame converts between local coordinates and GPS with an equirectangular
// projection around Origin. Local axes: x east, y up, z north.
// Accurate to centimeters over the few hundred meters a session covers.
type Frame struct {
	Origin item.GpsPosition
}

// LocalToGps converts a local position to GPS.
func (f Frame) LocalToGps(local r3.Vec) item.GpsPosition {
	lat0 := f.Origin.Latitude * math.Pi / 180
	return item.GpsPosition{
		Latitude:  f.Origin.Latitude + local.Z/EarthRadius*180/math.Pi,
		Longitude: f.Origin.Longitude + local.X/(EarthRadius*math.Cos(lat0))*180/math.Pi,
		Height:    f.Origin.Height + local.Y,
	}
}

// GpsToLocal converts a GPS position to local coordinates.
func (f Frame) GpsToLocal(gps item.GpsPosition) r3.Vec {
	lat0 := f.Origin.Latitude * math.Pi / 180
	return r3.Vec{
		X: (gps.Longitude - f.Origin.Longitude) * math.Pi / 180 * EarthRadius * math.Cos(lat0),
		Y: gps.Height - f.Origin.Height,
		Z: (gps.Latitude - f.Origin.Latitude) * math.Pi / 180 * EarthRadius,
	}
}
