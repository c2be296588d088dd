// Package level is the puzzle simulation: a tile grid, the entities on it
// and the turn-based move resolution that advances them one step per tick.
//
// A driver feeds player input with Input and advances the simulation with
// Update, which returns the animation events for the tick. Everything runs
// on the caller's goroutine.
package level

import (
	"log/slog"

	"github.com/zyedidia/generic/mapset"

	"homebound/internal/anim"
	"homebound/internal/ecs"
	"homebound/internal/gamemap"
	"homebound/internal/sound"
)

// Options tune a level's behaviour.
type Options struct {
	// MaxUndo caps the undo history; 0 keeps everything.
	MaxUndo int
	// DeferConsumption holds tile consumptions (human gets home, cake
	// reaches a sad home) until the start of the following tick.
	DeferConsumption bool
	// Volume scales every sound the level plays.
	Volume float64
}

// DefaultOptions returns unbounded undo, immediate consumption, full volume.
func DefaultOptions() Options {
	return Options{Volume: 1}
}

// Level owns one puzzle's state, its win flag and its undo history.
type Level struct {
	Name string
	Data *Data

	HasWon bool
	// NTileChanges increases on every tile mutation so the renderer knows
	// when to rebuild its static tile layer.
	NTileChanges uint32
	PlayerID     ecs.EntityID

	undo  []*Data
	opts  Options
	sound sound.Player
	log   *slog.Logger
}

// New assembles a level around an already populated grid. NHumans is
// counted from the world.
func New(name string, tiles *gamemap.Tilemap, world *ecs.World, player ecs.EntityID) *Level {
	return &Level{
		Name: name,
		Data: &Data{
			Entities: world,
			Tiles:    tiles,
			NHumans:  world.Count(ecs.Human) + world.Count(ecs.HumanWithGoop),
		},
		PlayerID: player,
		opts:     DefaultOptions(),
		sound:    sound.Nop{},
		log:      slog.Default(),
	}
}

// Configure sets options and collaborators. Nil arguments keep the current
// ones.
func (l *Level) Configure(opts Options, p sound.Player, logger *slog.Logger) {
	l.opts = opts
	if p != nil {
		l.sound = p
	}
	if logger != nil {
		l.log = logger
	}
}

// Clone returns a fresh copy of the level with an empty undo history.
func (l *Level) Clone() *Level {
	return &Level{
		Name:         l.Name,
		Data:         l.Data.Clone(),
		HasWon:       l.HasWon,
		NTileChanges: l.NTileChanges,
		PlayerID:     l.PlayerID,
		opts:         l.opts,
		sound:        l.sound,
		log:          l.log,
	}
}

// Player returns the player entity.
func (l *Level) Player() ecs.Entity {
	return l.Data.Entities.MustGet(l.PlayerID)
}

// Width and Height return the grid size.
func (l *Level) Width() int  { return l.Data.Tiles.Width }
func (l *Level) Height() int { return l.Data.Tiles.Height }

// IsSolid reports whether nothing can move into p: it is off the grid,
// holds a wall or a happy home, or is occupied.
func (l *Level) IsSolid(p gamemap.Pos) bool {
	if l.Data.Tiles.IsSolid(p) {
		return true
	}
	_, occupied := l.Data.Entities.At(p)
	return occupied
}

// Busy reports whether Update has work queued.
func (l *Level) Busy() bool {
	return len(l.Data.Moves) > 0 || len(l.Data.TileMods) > 0
}

// UndoDepth returns the number of snapshots that can be undone.
func (l *Level) UndoDepth() int { return len(l.undo) }

// Input queues a player step. It is ignored while the player still has a
// move pending (for example mid-slide) or once the level is won.
func (l *Level) Input(dir gamemap.Direction) bool {
	if l.HasWon {
		l.log.Info("input ignored, level already won", "level", l.Name)
		return false
	}
	if l.Data.Moves.Has(l.PlayerID) {
		l.log.Info("input ignored, player still moving", "level", l.Name, "dir", dir)
		return false
	}
	p := l.Player()

	l.pushUndo()

	tile, _ := l.Data.Tiles.Get(p.Pos)
	l.Data.Moves = append(l.Data.Moves, MoveIntent{
		Entity:       p.ID,
		From:         p.Pos,
		Dir:          dir,
		FrictionPush: !tile.Slippery(),
	})
	l.Data.HasInput = true
	return true
}

func (l *Level) pushUndo() {
	l.undo = append(l.undo, l.Data.Clone())
	if l.opts.MaxUndo > 0 && len(l.undo) > l.opts.MaxUndo {
		drop := len(l.undo) - l.opts.MaxUndo
		clear(l.undo[:drop])
		l.undo = l.undo[drop:]
	}
}

// Undo restores the most recent snapshot.
func (l *Level) Undo() bool {
	n := len(l.undo)
	if n == 0 {
		l.log.Info("nothing to undo", "level", l.Name)
		return false
	}
	l.Data = l.undo[n-1]
	l.undo[n-1] = nil
	l.undo = l.undo[:n-1]
	if l.Data.NHumans > 0 {
		l.HasWon = false
	}
	// The whole grid may differ from what the renderer cached.
	l.NTileChanges++
	l.play(sound.Undo)
	return true
}

// Update runs one tick of move resolution and returns its animation
// events in the order they happened.
func (l *Level) Update() []anim.Event {
	if l.Data.HasInput {
		l.play(sound.Footstep)
		l.Data.HasInput = false
	}
	t := tick{l: l, d: l.Data, requeued: mapset.New[ecs.EntityID]()}
	return t.run()
}

func (l *Level) play(id sound.ID) {
	l.sound.Play(id, l.opts.Volume)
}
