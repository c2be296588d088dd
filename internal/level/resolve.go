package level

import (
	"slices"

	"github.com/zyedidia/generic/mapset"

	"homebound/internal/anim"
	"homebound/internal/ecs"
	"homebound/internal/gamemap"
	"homebound/internal/sound"
)

// tick is the working state of one Update call.
type tick struct {
	l      *Level
	d      *Data
	events []anim.Event
	pushed bool
	// requeued holds entities whose move Phase 1 already sent to the back.
	requeued mapset.Set[ecs.EntityID]
}

// run executes the four phases in order. Moves left over in d.Moves
// afterwards are the ice-slide continuations for the next tick.
func (t *tick) run() []anim.Event {
	t.replayTileMods()
	t.propagatePushes()
	t.d.Moves = t.execute()
	t.consume()
	if t.pushed {
		t.l.play(sound.Push)
	}
	return t.events
}

func (t *tick) emit(ev anim.Event) {
	t.events = append(t.events, ev)
}

func (t *tick) setTile(p gamemap.Pos, tile gamemap.Tile) {
	t.d.Tiles.Set(p, tile)
	t.l.NTileChanges++
	t.emit(anim.Event{Kind: anim.TileModification, From: p, To: p, Tile: tile})
}

// removeEntity takes id off the grid together with its pending moves and
// returns how many of those moves sat before index before.
func (t *tick) removeEntity(id ecs.EntityID, before int) int {
	e := t.d.Entities.MustGet(id)
	t.d.Entities.Remove(id)
	shift := t.d.Moves.purge(id, before)

	if e.Kind == ecs.Human || e.Kind == ecs.HumanWithGoop {
		if t.d.NHumans > 0 {
			t.d.NHumans--
		}
		if t.d.NHumans == 0 && !t.l.HasWon {
			t.l.HasWon = true
			t.l.log.Info("level won", "level", t.l.Name)
			t.l.play(sound.Win)
		}
	}
	return shift
}

// Phase 0: apply consumptions deferred by the previous tick.
func (t *tick) replayTileMods() {
	mods := t.d.TileMods
	t.d.TileMods = nil
	for _, m := range mods {
		t.setTile(m.Pos, m.Tile)
		if m.Entity != ecs.NilEntity && t.d.Entities.Alive(m.Entity) {
			t.removeEntity(m.Entity, 0)
		}
	}
}

// Phase 1: walk the worklist by index, turning every blocked move into a
// push, a kick or a feeding. New moves are appended, so the walk covers
// whole push chains without recursion. Each entity's move is sent to the
// back at most once per tick, which keeps cyclic conflicts finite.
func (t *tick) propagatePushes() {
	for i := 0; i < len(t.d.Moves); {
		m := t.d.Moves[i]
		to := m.To()
		target, occupied := t.d.Entities.At(to)
		if !occupied || target.ID == m.Entity {
			i++
			continue
		}

		// The occupant may already be on its way out. Let it go first by
		// moving its intent to the back, which Phase 2 executes first.
		if j := t.d.Moves.lastFrom(to, i); j >= 0 {
			if j == len(t.d.Moves)-1 {
				i++
				continue
			}
			occupant := t.d.Moves[j].Entity
			if t.requeued.Has(occupant) {
				// TODO: resolve push chains that claim each other's cells in a
				// loop; for now the mover simply waits for the occupant.
				t.l.log.Debug("unresolved move conflict",
					"level", t.l.Name, "entity", m.Entity, "blocked_by", occupant, "cell", to)
				i++
				continue
			}
			t.requeued.Put(occupant)
			t.d.Moves.moveToBack(j)
			if j < i {
				i--
			}
			continue
		}

		mover := t.d.Entities.MustGet(m.Entity)

		if eater, cake, ok := feeding(mover, target); ok {
			t.d.Moves.removeAt(i)
			i -= t.feed(eater, cake, i)
			continue
		}

		if !m.FrictionPush {
			if tile, _ := t.d.Tiles.Get(to); tile.Slippery() {
				t.d.Moves.removeAt(i)
				mover.Sliding = false
				t.d.Entities.Set(mover)
				t.emit(anim.Event{
					Kind:       anim.IceKick,
					Entity:     mover.ID,
					From:       mover.Pos,
					To:         to,
					EntityKind: mover.Kind,
				})
				t.d.Moves = append(t.d.Moves, MoveIntent{Entity: target.ID, From: to, Dir: m.Dir})
				continue
			}
		}

		t.d.Moves = append(t.d.Moves, MoveIntent{
			Entity:       target.ID,
			From:         to,
			Dir:          m.Dir,
			FrictionPush: true,
		})
		t.pushed = true
		i++
	}
}

// feeding matches a goop-covered human meeting a plain cake, in either
// order.
func feeding(a, b ecs.Entity) (eater, cake ecs.Entity, ok bool) {
	switch {
	case a.Kind == ecs.HumanWithGoop && b.Kind == ecs.Cake:
		return a, b, true
	case a.Kind == ecs.Cake && b.Kind == ecs.HumanWithGoop:
		return b, a, true
	}
	return ecs.Entity{}, ecs.Entity{}, false
}

// feed lets the human eat the cake, which washes the goop off. Returns the
// index shift caused by dropping the cake's other moves.
func (t *tick) feed(eater, cake ecs.Entity, before int) int {
	t.emit(anim.Event{
		Kind:       anim.Move,
		Entity:     cake.ID,
		From:       cake.Pos,
		To:         eater.Pos,
		Accelerate: !cake.Sliding,
		Decelerate: true,
		Apply:      true,
		EntityKind: cake.Kind,
	})
	shift := t.removeEntity(cake.ID, before)

	eater.Kind = ecs.Human
	t.d.Entities.Set(eater)
	t.emit(anim.Event{
		Kind:       anim.Goopify,
		Entity:     eater.ID,
		From:       eater.Pos,
		To:         eater.Pos,
		EntityKind: eater.Kind,
	})
	return shift
}

// Phase 2: execute the worklist back to front so pushed entities vacate
// their cells before their pushers arrive. Returns the slide
// continuations in worklist order.
func (t *tick) execute() Moves {
	var next Moves
	moves := t.d.Moves
	for k := len(moves) - 1; k >= 0; k-- {
		m := moves[k]
		e := t.d.Entities.MustGet(m.Entity)
		from := e.Pos
		to := from.Add(m.Dir)

		if t.l.IsSolid(to) {
			t.failed(e, to)
			continue
		}
		dest, _ := t.d.Tiles.Get(to)

		if e.Kind == ecs.BucketOfGoop {
			if dest.IsHome() {
				t.failed(e, to)
				continue
			}
			switch dest.Kind {
			case gamemap.TileIce:
				dest = gamemap.Tile{Kind: gamemap.TileIceWithGoop}
				t.setTile(to, dest)
			case gamemap.TileFloor:
				dest = gamemap.Tile{Kind: gamemap.TileFloorWithGoop}
				t.setTile(to, dest)
			}
		}

		wasSliding := e.Sliding
		e.Pos = to
		e.Sliding = dest.Slippery()
		if e.Sliding {
			next = append(next, MoveIntent{Entity: e.ID, From: to, Dir: m.Dir})
		}

		if goopy, ok := e.Kind.Goopified(); ok && dest.Goopy() {
			e.Kind = goopy
			t.d.Entities.Set(e)
			t.emit(anim.Event{Kind: anim.Goopify, Entity: e.ID, From: from, To: to, EntityKind: e.Kind})
			continue
		}

		t.d.Entities.Set(e)
		t.emit(anim.Event{
			Kind:       anim.Move,
			Entity:     e.ID,
			From:       from,
			To:         to,
			Accelerate: !wasSliding,
			Decelerate: !e.Sliding,
			EntityKind: e.Kind,
		})
	}
	slices.Reverse(next)
	return next
}

func (t *tick) failed(e ecs.Entity, to gamemap.Pos) {
	t.emit(anim.Event{Kind: anim.FailedMove, Entity: e.ID, From: e.Pos, To: to, EntityKind: e.Kind})
}

// Phase 3: humans standing in an empty home and cakes standing on a sad
// home are consumed and change the tile.
func (t *tick) consume() {
	var gone []ecs.EntityID
	for _, id := range t.d.Entities.IDs() {
		e := t.d.Entities.MustGet(id)
		tile, _ := t.d.Tiles.Get(e.Pos)

		var after gamemap.Tile
		switch {
		case e.Kind == ecs.Human && tile.Kind == gamemap.TileHome && !tile.Satisfied:
			after = gamemap.Tile{Kind: gamemap.TileHome, Satisfied: true}
		case e.Kind == ecs.Cake && tile.Kind == gamemap.TileSadHome:
			after = gamemap.MakeHome()
		default:
			continue
		}

		t.spliceApply(e)
		if t.l.opts.DeferConsumption {
			if !t.pendingMod(id) {
				t.d.TileMods = append(t.d.TileMods, TileMod{Entity: id, Pos: e.Pos, Tile: after})
			}
			continue
		}
		t.setTile(e.Pos, after)
		gone = append(gone, id)
	}
	for _, id := range gone {
		t.removeEntity(id, 0)
	}
}

func (t *tick) pendingMod(id ecs.EntityID) bool {
	for _, m := range t.d.TileMods {
		if m.Entity == id {
			return true
		}
	}
	return false
}

// spliceApply turns the entity's last move into the cell into an apply
// move from the same origin, so the renderer shows it walking in and
// vanishing rather than a separate zero-length step.
func (t *tick) spliceApply(e ecs.Entity) {
	for i := len(t.events) - 1; i >= 0; i-- {
		ev := t.events[i]
		if ev.Kind != anim.Move || ev.Entity != e.ID || ev.To != e.Pos {
			continue
		}
		t.events[i] = anim.Event{
			Kind:       anim.Move,
			Entity:     e.ID,
			From:       ev.From,
			To:         e.Pos,
			Accelerate: ev.Accelerate,
			Decelerate: true,
			Apply:      true,
			EntityKind: e.Kind,
		}
		return
	}
	t.emit(anim.Event{Kind: anim.Move, Entity: e.ID, From: e.Pos, To: e.Pos, Apply: true, EntityKind: e.Kind})
}
