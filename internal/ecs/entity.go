package ecs

import "homebound/internal/gamemap"

// EntityID uniquely identifies an entity within one level.
type EntityID uint32

// NilEntity is the zero value — no valid entity has this ID.
const NilEntity EntityID = 0

// Kind is the closed set of things that can stand on a tile.
type Kind uint8

const (
	Player Kind = iota
	Human
	Cake
	BucketOfGoop
	HumanWithGoop
	CakeWithGoop
	Block
)

func (k Kind) String() string {
	switch k {
	case Player:
		return "player"
	case Human:
		return "human"
	case Cake:
		return "cake"
	case BucketOfGoop:
		return "bucket of goop"
	case HumanWithGoop:
		return "goopy human"
	case CakeWithGoop:
		return "goopy cake"
	case Block:
		return "block"
	}
	return "unknown"
}

// Goopified returns the goop-covered variant of k, or false when k does not
// take goop.
func (k Kind) Goopified() (Kind, bool) {
	switch k {
	case Human:
		return HumanWithGoop, true
	case Cake:
		return CakeWithGoop, true
	}
	return k, false
}

// Entity is one occupant of the grid.
type Entity struct {
	ID      EntityID
	Pos     gamemap.Pos
	Kind    Kind
	Sliding bool
}
