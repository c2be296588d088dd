package level

import (
	"slices"

	"homebound/internal/ecs"
	"homebound/internal/gamemap"
)

// TileMod is a tile consumption waiting for the next tick: the tile at Pos
// becomes Tile and Entity (if any) leaves the level.
type TileMod struct {
	Entity ecs.EntityID
	Pos    gamemap.Pos
	Tile   gamemap.Tile
}

// Data is the snapshot-able part of a level and the unit of undo.
type Data struct {
	Entities *ecs.World
	Tiles    *gamemap.Tilemap
	Moves    Moves
	TileMods []TileMod
	NHumans  int
	HasInput bool
}

// Clone returns a deep copy sharing nothing with d.
func (d *Data) Clone() *Data {
	return &Data{
		Entities: d.Entities.Clone(),
		Tiles:    d.Tiles.Clone(),
		Moves:    slices.Clone(d.Moves),
		TileMods: slices.Clone(d.TileMods),
		NHumans:  d.NHumans,
		HasInput: d.HasInput,
	}
}
