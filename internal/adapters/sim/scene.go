package sim

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/example/geoanchor/internal/core/geometry"
	"github.com/example/geoanchor/internal/core/item"
	"github.com/example/geoanchor/internal/core/placement"
	"github.com/example/geoanchor/internal/ports/secondary"
)

// PickRadius is how close (in meters, horizontally) a tap must land to an
// object to select it.
const PickRadius = 0.5

// Building is an axis-aligned box standing on the ground.
type Building struct {
	Name   string  `yaml:"name" json:"name"`
	MinX   float64 `yaml:"min_x" json:"min_x"`
	MinZ   float64 `yaml:"min_z" json:"min_z"`
	MaxX   float64 `yaml:"max_x" json:"max_x"`
	MaxZ   float64 `yaml:"max_z" json:"max_z"`
	Height float64 `yaml:"height" json:"height"`
}

func (b Building) contains(x, z float64) bool {
	return x >= b.MinX && x <= b.MaxX && z >= b.MinZ && z <= b.MaxZ
}

// Object is a snapshot of a scene object.
type Object struct {
	Handle      secondary.ObjectHandle
	Kind        item.Kind
	Position    r3.Vec
	Orientation item.Orientation
	ItemID      string
	Material    placement.Material
}

// BaseMaterial is the unhighlighted material of an item kind.
func BaseMaterial(kind item.Kind) placement.Material {
	return placement.Material(kind.String())
}

// Scene implements secondary.SceneGraph with a top-down camera:
// screen (x, y) in pixels maps to local (x/Scale, z/Scale).
type Scene struct {
	Scale        float64 // pixels per meter, defaults to 1
	GroundRadius float64 // ground extent around the origin, 0 for unbounded
	Buildings    []Building

	next    secondary.ObjectHandle
	objects map[secondary.ObjectHandle]*Object
}

// NewScene creates an empty scene.
func NewScene(scale, groundRadius float64, buildings []Building) *Scene {
	if scale <= 0 {
		scale = 1
	}
	return &Scene{
		Scale:        scale,
		GroundRadius: groundRadius,
		Buildings:    buildings,
		objects:      make(map[secondary.ObjectHandle]*Object),
	}
}

// Project maps a screen point to local ground coordinates.
func (s *Scene) Project(p secondary.ScreenPoint) (x, z float64) {
	return p.X / s.Scale, p.Y / s.Scale
}

// Raycast hit-tests the scene along the vertical ray through point.
func (s *Scene) Raycast(point secondary.ScreenPoint, layer placement.Layer) (secondary.Hit, bool) {
	x, z := s.Project(point)
	switch layer {
	case placement.LayerRemovable:
		return s.pick(x, z)
	case placement.LayerTier2Surface:
		return s.ground(x, z)
	case placement.LayerTier3Surface:
		if hit, ok := s.roof(x, z); ok {
			return hit, true
		}
		return s.ground(x, z)
	}
	return secondary.Hit{}, false
}

// Instantiate creates an object of kind at a local pose.
func (s *Scene) Instantiate(kind item.Kind, position r3.Vec, orientation item.Orientation) (secondary.ObjectHandle, error) {
	if !kind.Valid() {
		return 0, fmt.Errorf("cannot instantiate invalid kind %d", int(kind))
	}
	s.next++
	s.objects[s.next] = &Object{
		Handle:      s.next,
		Kind:        kind,
		Position:    position,
		Orientation: orientation,
		Material:    BaseMaterial(kind),
	}
	return s.next, nil
}

// Destroy removes an object. Unknown handles are ignored.
func (s *Scene) Destroy(h secondary.ObjectHandle) {
	delete(s.objects, h)
}

// AssignID tags an object with its catalog id.
func (s *Scene) AssignID(h secondary.ObjectHandle, id string) {
	if o, ok := s.objects[h]; ok {
		o.ItemID = id
	}
}

// SetPose moves an object.
func (s *Scene) SetPose(h secondary.ObjectHandle, position r3.Vec, orientation item.Orientation) {
	if o, ok := s.objects[h]; ok {
		o.Position = position
		o.Orientation = orientation
	}
}

// Pose returns an object's local pose.
func (s *Scene) Pose(h secondary.ObjectHandle) (r3.Vec, item.Orientation, bool) {
	o, ok := s.objects[h]
	if !ok {
		return r3.Vec{}, item.Orientation{}, false
	}
	return o.Position, o.Orientation, true
}

// Kind returns an object's item kind.
func (s *Scene) Kind(h secondary.ObjectHandle) (item.Kind, bool) {
	o, ok := s.objects[h]
	if !ok {
		return 0, false
	}
	return o.Kind, true
}

// ItemID returns the catalog id assigned to an object.
func (s *Scene) ItemID(h secondary.ObjectHandle) (string, bool) {
	o, ok := s.objects[h]
	if !ok || o.ItemID == "" {
		return "", false
	}
	return o.ItemID, true
}

// Material returns an object's current material.
func (s *Scene) Material(h secondary.ObjectHandle) placement.Material {
	if o, ok := s.objects[h]; ok {
		return o.Material
	}
	return ""
}

// SetMaterial replaces an object's material.
func (s *Scene) SetMaterial(h secondary.ObjectHandle, m placement.Material) {
	if o, ok := s.objects[h]; ok {
		o.Material = m
	}
}

// Objects returns all live objects ordered by handle.
func (s *Scene) Objects() []Object {
	out := make([]Object, 0, len(s.objects))
	for _, o := range s.objects {
		out = append(out, *o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Handle < out[j].Handle })
	return out
}

// FindByItemID returns the handle of the object tagged with id.
func (s *Scene) FindByItemID(id string) (secondary.ObjectHandle, bool) {
	for _, o := range s.Objects() {
		if o.ItemID == id {
			return o.Handle, true
		}
	}
	return 0, false
}

// ScreenPointOf returns the screen point that projects onto an object.
func (s *Scene) ScreenPointOf(h secondary.ObjectHandle) (secondary.ScreenPoint, bool) {
	o, ok := s.objects[h]
	if !ok {
		return secondary.ScreenPoint{}, false
	}
	return secondary.ScreenPoint{X: o.Position.X * s.Scale, Y: o.Position.Z * s.Scale}, true
}

// Helper methods

func (s *Scene) ground(x, z float64) (secondary.Hit, bool) {
	if s.GroundRadius > 0 && math.Hypot(x, z) > s.GroundRadius {
		return secondary.Hit{}, false
	}
	return secondary.Hit{Point: r3.Vec{X: x, Z: z}, Normal: geometry.Up}, true
}

// roof returns the highest roof under (x, z).
func (s *Scene) roof(x, z float64) (secondary.Hit, bool) {
	best := -1
	for i, b := range s.Buildings {
		if b.contains(x, z) && (best < 0 || b.Height > s.Buildings[best].Height) {
			best = i
		}
	}
	if best < 0 {
		return secondary.Hit{}, false
	}
	return secondary.Hit{Point: r3.Vec{X: x, Y: s.Buildings[best].Height, Z: z}, Normal: geometry.Up}, true
}

// pick returns the object nearest to (x, z) within PickRadius. Ties go to
// the older object.
func (s *Scene) pick(x, z float64) (secondary.Hit, bool) {
	var (
		found secondary.ObjectHandle
		dist  = PickRadius
	)
	for _, o := range s.Objects() {
		d := math.Hypot(o.Position.X-x, o.Position.Z-z)
		if d <= dist && (found == 0 || d < dist) {
			found, dist = o.Handle, d
		}
	}
	if found == 0 {
		return secondary.Hit{}, false
	}
	o := s.objects[found]
	return secondary.Hit{Point: o.Position, Normal: geometry.Up, Object: found}, true
}

var _ secondary.SceneGraph = (*Scene)(nil)
