// Package item contains the pure domain types for geolocated AR items.
// This is part of the Functional Core - no I/O, only values and pure functions.
package item

import (
	"fmt"
	"strings"
)

// Kind identifies which visual an item is re-instantiated with.
type Kind int

const (
	KindTier1 Kind = iota
	KindTier2
	KindTier3
)

// Kinds lists every kind in tier order.
var Kinds = []Kind{KindTier1, KindTier2, KindTier3}

// String returns the lowercase name used in config, scripts and exports.
func (k Kind) String() string {
	switch k {
	case KindTier1:
		return "tier1"
	case KindTier2:
		return "tier2"
	case KindTier3:
		return "tier3"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	return k >= KindTier1 && k <= KindTier3
}

// Tier returns the 1-based service tier the kind belongs to.
func (k Kind) Tier() int {
	return int(k) + 1
}

// ParseKind parses "tier1".."tier3" (case-insensitive) or a bare tier number.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "tier1", "1":
		return KindTier1, nil
	case "tier2", "2":
		return KindTier2, nil
	case "tier3", "3":
		return KindTier3, nil
	}
	return 0, fmt.Errorf("unknown item kind %q (expected tier1, tier2 or tier3)", s)
}

// GpsPosition is a WGS84 anchor.
type GpsPosition struct {
	Latitude  float64
	Longitude float64
	Height    float64
}

// Orientation is a raw quaternion. It is stored exactly as produced and never
// re-normalized on load.
type Orientation struct {
	X, Y, Z, W float32
}

// IdentityOrientation is the no-rotation quaternion.
var IdentityOrientation = Orientation{W: 1}

// Record is the persisted unit of the catalog.
type Record struct {
	ID          string
	Kind        Kind
	Position    GpsPosition
	Orientation Orientation
}
