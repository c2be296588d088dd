// Package anim holds the animation feed passed from the simulation to the
// renderer: the events one tick emits, and a queue that ages them.
package anim

import (
	"fmt"

	"homebound/internal/ecs"
	"homebound/internal/gamemap"
)

// Kind tags an animation event.
type Kind uint8

const (
	Move Kind = iota
	FailedMove
	IceKick
	Goopify
	TileModification
)

func (k Kind) String() string {
	switch k {
	case Move:
		return "move"
	case FailedMove:
		return "failed-move"
	case IceKick:
		return "ice-kick"
	case Goopify:
		return "goopify"
	case TileModification:
		return "tile-modification"
	}
	return "unknown"
}

// Event is one entry of the feed. From/To are cell coordinates; for
// TileModification both hold the changed cell.
type Event struct {
	Kind   Kind
	Entity ecs.EntityID
	From   gamemap.Pos
	To     gamemap.Pos

	// Easing hints. Accelerate: the entity starts from rest. Decelerate: it
	// comes to rest at To.
	Accelerate bool
	Decelerate bool

	// Apply marks a move whose entity is consumed on arrival.
	Apply bool

	// EntityKind is the entity's kind after the event.
	EntityKind ecs.Kind
	// Tile is the new tile for TileModification.
	Tile gamemap.Tile
}

func (e Event) String() string {
	if e.Kind == TileModification {
		return fmt.Sprintf("%v %v -> %v", e.Kind, e.To, e.Tile)
	}
	s := fmt.Sprintf("%v #%d %v->%v", e.Kind, e.Entity, e.From, e.To)
	if e.Apply {
		s += " (apply)"
	}
	return s
}
