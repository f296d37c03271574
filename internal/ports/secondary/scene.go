package secondary

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/example/geoanchor/internal/core/item"
	"github.com/example/geoanchor/internal/core/placement"
)

// ObjectHandle identifies a live object in the host scene. Handles are only
// meaningful for the lifetime of one scene and are never persisted.
type ObjectHandle int64

// Hit is a raycast result.
type Hit struct {
	Point  r3.Vec
	Normal r3.Vec
	Object ObjectHandle // zero when the hit surface is not an item
}

// Raycaster defines the secondary port for the host's hit-testing.
type Raycaster interface {
	// Raycast hit-tests the scene along the ray through point, restricted to layer.
	Raycast(point ScreenPoint, layer placement.Layer) (Hit, bool)
}

// ObjectFactory defines the secondary port for creating and destroying item objects.
type ObjectFactory interface {
	// Instantiate creates an item object of kind at a local pose.
	Instantiate(kind item.Kind, position r3.Vec, orientation item.Orientation) (ObjectHandle, error)

	// Destroy removes the object's whole hierarchy from the scene.
	Destroy(h ObjectHandle)

	// AssignID tags the object with its catalog id for later removal matching.
	AssignID(h ObjectHandle, id string)
}

// SceneGraph defines everything the placement session needs from the host scene.
type SceneGraph interface {
	Raycaster
	ObjectFactory

	// SetPose moves an object.
	SetPose(h ObjectHandle, position r3.Vec, orientation item.Orientation)

	// Pose returns an object's current local pose.
	Pose(h ObjectHandle) (position r3.Vec, orientation item.Orientation, ok bool)

	// Kind returns the item kind of the object under h (or its root).
	Kind(h ObjectHandle) (item.Kind, bool)

	// ItemID returns the catalog id assigned to the object, if any.
	ItemID(h ObjectHandle) (string, bool)

	// Material returns the object's current material.
	Material(h ObjectHandle) placement.Material

	// SetMaterial replaces the object's material.
	SetMaterial(h ObjectHandle, m placement.Material)
}
