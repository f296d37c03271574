// Package codec serializes the item catalog into its durable blob format.
//
// The blob is a versioned JSON document:
//
//	{"version":1,"items":[{"id":"...","item_type":1,"gps_pos":{...},"orientation":{...}}]}
//
// Blobs written before versioning existed are a bare JSON list of items and
// decode as version 0.
package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/example/geoanchor/internal/core/item"
)

// CurrentVersion is the version written by Encode.
const CurrentVersion = 1

// ErrUnsupportedVersion is returned for blobs written by a newer format.
var ErrUnsupportedVersion = errors.New("unsupported catalog version")

type envelope struct {
	Version *int         `json:"version"`
	Items   []itemRecord `json:"items"`
}

type itemRecord struct {
	ID          string          `json:"id"`
	ItemType    int             `json:"item_type"`
	GpsPos      gpsRecord       `json:"gps_pos"`
	Orientation orientationJSON `json:"orientation"`
}

type gpsRecord struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Height    float64 `json:"height"`
}

type orientationJSON struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
	Z float32 `json:"z"`
	W float32 `json:"w"`
}

// Encode serializes records in order.
func Encode(records []item.Record) ([]byte, error) {
	v := CurrentVersion
	env := envelope{Version: &v, Items: make([]itemRecord, 0, len(records))}
	for _, r := range records {
		if !r.Kind.Valid() {
			return nil, fmt.Errorf("record %s has invalid kind %d", r.ID, int(r.Kind))
		}
		env.Items = append(env.Items, toJSON(r))
	}

	data, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal catalog: %w", err)
	}
	return data, nil
}

// Decode parses a blob written by Encode or by a pre-versioning build.
func Decode(data []byte) ([]item.Record, int, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, 0, errors.New("empty catalog blob")
	}

	var (
		items   []itemRecord
		version int
	)
	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, 0, fmt.Errorf("failed to parse legacy catalog: %w", err)
		}
	} else {
		var env envelope
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return nil, 0, fmt.Errorf("failed to parse catalog: %w", err)
		}
		if env.Version == nil {
			return nil, 0, errors.New("catalog blob has no version field")
		}
		version = *env.Version
		if version > CurrentVersion || version < 1 {
			return nil, 0, fmt.Errorf("%w: %d (this build reads up to %d)", ErrUnsupportedVersion, version, CurrentVersion)
		}
		items = env.Items
	}

	records := make([]item.Record, 0, len(items))
	for i, it := range items {
		kind := item.Kind(it.ItemType)
		if !kind.Valid() {
			return nil, 0, fmt.Errorf("item %d (%s): invalid item_type %d", i, it.ID, it.ItemType)
		}
		records = append(records, item.Record{
			ID:   it.ID,
			Kind: kind,
			Position: item.GpsPosition{
				Latitude:  it.GpsPos.Latitude,
				Longitude: it.GpsPos.Longitude,
				Height:    it.GpsPos.Height,
			},
			Orientation: item.Orientation{
				X: it.Orientation.X,
				Y: it.Orientation.Y,
				Z: it.Orientation.Z,
				W: it.Orientation.W,
			},
		})
	}
	return records, version, nil
}

func toJSON(r item.Record) itemRecord {
	return itemRecord{
		ID:       r.ID,
		ItemType: int(r.Kind),
		GpsPos: gpsRecord{
			Latitude:  r.Position.Latitude,
			Longitude: r.Position.Longitude,
			Height:    r.Position.Height,
		},
		Orientation: orientationJSON{
			X: r.Orientation.X,
			Y: r.Orientation.Y,
			Z: r.Orientation.Z,
			W: r.Orientation.W,
		},
	}
}
