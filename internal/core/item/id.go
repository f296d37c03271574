package item

import "github.com/google/uuid"

// NewItemID returns a fresh random identifier for a record.
// It does not depend on the runtime object handle or on the item's coordinates,
// so two items placed at the same spot in the same frame still get distinct ids.
func NewItemID() string {
	return uuid.NewString()
}

// IsItemID reports whether id has the shape produced by NewItemID.
// Catalogs written by older builds use "<handle>.<lat>.<lon>" ids, which are
// still accepted everywhere an id is looked up; this only tells them apart.
func IsItemID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
