package ecs

import (
	"fmt"
	"maps"
	"slices"

	"homebound/internal/gamemap"
)

// World is the entity registry for one level. It exclusively owns every
// Entity; callers get copies and write changes back with Set.
type World struct {
	nextID   EntityID
	entities map[EntityID]Entity
}

// NewWorld creates an empty World.
func NewWorld() *World {
	return &World{
		nextID:   1,
		entities: make(map[EntityID]Entity),
	}
}

// Create mints a new entity ID and stores the entity at pos.
func (w *World) Create(pos gamemap.Pos, kind Kind) Entity {
	e := Entity{ID: w.nextID, Pos: pos, Kind: kind}
	w.nextID++
	w.entities[e.ID] = e
	return e
}

// Remove deletes the entity. IDs are never handed out again.
func (w *World) Remove(id EntityID) {
	delete(w.entities, id)
}

// Alive reports whether the entity exists.
func (w *World) Alive(id EntityID) bool {
	_, ok := w.entities[id]
	return ok
}

// Get returns the entity with the given id.
func (w *World) Get(id EntityID) (Entity, bool) {
	e, ok := w.entities[id]
	return e, ok
}

// MustGet returns the entity or panics. Used where a missing entity means
// the caller's bookkeeping is broken.
func (w *World) MustGet(id EntityID) Entity {
	e, ok := w.entities[id]
	if !ok {
		panic(fmt.Sprintf("ecs: entity %d does not exist", id))
	}
	return e
}

// Set writes back a modified entity. Panics if the entity was removed.
func (w *World) Set(e Entity) {
	if _, ok := w.entities[e.ID]; !ok {
		panic(fmt.Sprintf("ecs: Set on missing entity %d", e.ID))
	}
	w.entities[e.ID] = e
}

// At returns the entity standing on p. Linear in the number of entities;
// grids are small. With several candidates the lowest id wins.
func (w *World) At(p gamemap.Pos) (Entity, bool) {
	var found Entity
	ok := false
	for _, e := range w.entities {
		if e.Pos != p {
			continue
		}
		if !ok || e.ID < found.ID {
			found = e
			ok = true
		}
	}
	return found, ok
}

// IDs returns all live entity ids in ascending order.
func (w *World) IDs() []EntityID {
	return slices.Sorted(maps.Keys(w.entities))
}

// Len returns the number of live entities.
func (w *World) Len() int { return len(w.entities) }

// Count returns how many live entities are of kind k.
func (w *World) Count(k Kind) int {
	n := 0
	for _, e := range w.entities {
		if e.Kind == k {
			n++
		}
	}
	return n
}

// Clone returns an independent copy, including the id counter.
func (w *World) Clone() *World {
	return &World{
		nextID:   w.nextID,
		entities: maps.Clone(w.entities),
	}
}
