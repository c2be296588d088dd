package level

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homebound/internal/anim"
	"homebound/internal/ecs"
	"homebound/internal/gamemap"
	"homebound/internal/sound"
)

// recorder is a sound.Player that remembers what it was asked to play.
type recorder struct{ played []sound.ID }

func (r *recorder) Play(id sound.ID, _ float64) { r.played = append(r.played, id) }

func (r *recorder) count(id sound.ID) int {
	n := 0
	for _, p := range r.played {
		if p == id {
			n++
		}
	}
	return n
}

func mustParse(t *testing.T, text string) *Level {
	t.Helper()
	l, err := Parse(text)
	require.NoError(t, err)
	return l
}

// step feeds one input and runs ticks until the level settles.
func step(t *testing.T, l *Level, dir gamemap.Direction) []anim.Event {
	t.Helper()
	require.True(t, l.Input(dir))
	var events []anim.Event
	for i := 0; l.Busy(); i++ {
		require.Less(t, i, 100, "level never settled")
		events = append(events, l.Update()...)
	}
	return events
}

func at(x, y int) gamemap.Pos { return gamemap.Pos{X: x, Y: y} }

func only(t *testing.T, l *Level, kind ecs.Kind) ecs.Entity {
	t.Helper()
	var found []ecs.Entity
	for _, id := range l.Data.Entities.IDs() {
		if e := l.Data.Entities.MustGet(id); e.Kind == kind {
			found = append(found, e)
		}
	}
	require.Len(t, found, 1, "entities of kind %v", kind)
	return found[0]
}

func kinds(events []anim.Event) []anim.Kind {
	out := make([]anim.Kind, len(events))
	for i, ev := range events {
		out[i] = ev.Kind
	}
	return out
}

func TestPushChainIntoWall(t *testing.T) {
	l := mustParse(t, "pb#")
	player := l.Player()
	human := only(t, l, ecs.Human)

	require.True(t, l.Input(gamemap.Right))
	events := l.Update()

	assert.Equal(t, []anim.Kind{anim.FailedMove, anim.FailedMove}, kinds(events))
	assert.Equal(t, at(0, 0), l.Player().Pos)
	assert.Equal(t, human.Pos, l.Data.Entities.MustGet(human.ID).Pos)
	assert.Equal(t, human.ID, events[0].Entity, "pushed entity resolves first")
	assert.Equal(t, player.ID, events[1].Entity)
	assert.False(t, l.Busy())
}

func TestPushMovesWholeChain(t *testing.T) {
	l := mustParse(t, "pxx..")
	step(t, l, gamemap.Right)

	assert.Equal(t, at(1, 0), l.Player().Pos)
	_, ok := l.Data.Entities.At(at(2, 0))
	assert.True(t, ok)
	_, ok = l.Data.Entities.At(at(3, 0))
	assert.True(t, ok)
	_, ok = l.Data.Entities.At(at(1, 0))
	assert.True(t, ok, "player should now stand where the first block was")
}

func TestIceSlideOneCellPerTick(t *testing.T) {
	l := mustParse(t, "p%%#")
	require.True(t, l.Input(gamemap.Right))

	wantX := []int{1, 2, 2}
	for tick, x := range wantX {
		l.Update()
		assert.Equal(t, at(x, 0), l.Player().Pos, "tick %d", tick+1)
	}
	assert.False(t, l.Busy())
	assert.True(t, l.Player().Sliding, "player halted against the wall still counts as sliding")
}

func TestSlidingPlayerCannotSteer(t *testing.T) {
	l := mustParse(t, "p%%#")
	require.True(t, l.Input(gamemap.Right))
	l.Update()

	assert.False(t, l.Input(gamemap.Left))
	assert.Equal(t, 1, l.UndoDepth())
}

func TestGoopification(t *testing.T) {
	l := mustParse(t, "pb~.")
	events := step(t, l, gamemap.Right)

	e, ok := l.Data.Entities.At(at(2, 0))
	require.True(t, ok)
	assert.Equal(t, ecs.HumanWithGoop, e.Kind)
	tile, _ := l.Data.Tiles.Get(at(2, 0))
	assert.Equal(t, gamemap.TileFloorWithGoop, tile.Kind)
	assert.Contains(t, kinds(events), anim.Goopify)
	assert.Equal(t, 1, l.Data.NHumans, "a goopy human still needs a home")
}

func TestCakeOnSadHome(t *testing.T) {
	l := mustParse(t, "pcS.")
	before := l.NTileChanges

	events := step(t, l, gamemap.Right)

	assert.Equal(t, 0, l.Data.Entities.Count(ecs.Cake))
	tile, _ := l.Data.Tiles.Get(at(2, 0))
	assert.Equal(t, gamemap.MakeHome(), tile)
	assert.Equal(t, before+1, l.NTileChanges)
	_, ok := l.Data.Entities.At(at(2, 0))
	assert.False(t, ok)

	var apply bool
	for _, ev := range events {
		if ev.Kind == anim.Move && ev.Apply {
			apply = true
			assert.Equal(t, at(1, 0), ev.From)
			assert.Equal(t, at(2, 0), ev.To)
		}
	}
	assert.True(t, apply, "consumption should splice an apply move")
}

func TestWinCondition(t *testing.T) {
	l := mustParse(t, `
.bH
pbH`)
	rec := &recorder{}
	l.Configure(DefaultOptions(), rec, nil)
	require.Equal(t, 2, l.Data.NHumans)

	last := l.Data.NHumans
	for _, dir := range []gamemap.Direction{gamemap.Right, gamemap.Left, gamemap.Up, gamemap.Right} {
		step(t, l, dir)
		assert.LessOrEqual(t, l.Data.NHumans, last, "NHumans never grows")
		last = l.Data.NHumans
		assert.Equal(t, l.Data.NHumans == 0, l.HasWon)
	}

	assert.True(t, l.HasWon)
	for _, p := range []gamemap.Pos{at(2, 0), at(2, 1)} {
		tile, _ := l.Data.Tiles.Get(p)
		assert.True(t, tile.Satisfied, "home at %v", p)
		assert.True(t, l.IsSolid(p), "a happy home is solid")
	}
	assert.Equal(t, 1, rec.count(sound.Win))
}

func TestWinPlaysSoundOnce(t *testing.T) {
	l := mustParse(t, "pbH")
	rec := &recorder{}
	l.Configure(DefaultOptions(), rec, nil)

	step(t, l, gamemap.Right)

	assert.True(t, l.HasWon)
	assert.Equal(t, 0, l.Data.NHumans)
	assert.Equal(t, 1, rec.count(sound.Win))
	assert.Equal(t, 1, rec.count(sound.Footstep))
	assert.Equal(t, 1, rec.count(sound.Push))
	assert.False(t, l.Input(gamemap.Left), "won level takes no input")
}

func TestUndoRoundTrip(t *testing.T) {
	l := mustParse(t, `
#####
#pb.%
#.cS#`)
	before := l.Data.Clone()

	require.True(t, l.Input(gamemap.Right))
	require.True(t, l.Undo())

	assert.Equal(t, before, l.Data)
	assert.Equal(t, 0, l.UndoDepth())
}

func TestUndoRestoresWonLevel(t *testing.T) {
	l := mustParse(t, "pbH")
	rec := &recorder{}
	l.Configure(DefaultOptions(), rec, nil)
	step(t, l, gamemap.Right)
	require.True(t, l.HasWon)
	changes := l.NTileChanges

	require.True(t, l.Undo())

	assert.False(t, l.HasWon)
	assert.Equal(t, 1, l.Data.NHumans)
	assert.Equal(t, at(0, 0), l.Player().Pos)
	assert.Greater(t, l.NTileChanges, changes)
	assert.Equal(t, 1, rec.count(sound.Undo))
	assert.False(t, l.Undo(), "history is empty")
}

func TestMaxUndo(t *testing.T) {
	l := mustParse(t, "p.....")
	opts := DefaultOptions()
	opts.MaxUndo = 2
	l.Configure(opts, nil, nil)

	for range 4 {
		step(t, l, gamemap.Right)
	}
	assert.Equal(t, 2, l.UndoDepth())
	require.True(t, l.Undo())
	assert.Equal(t, at(3, 0), l.Player().Pos)
}

func TestIceKick(t *testing.T) {
	// Player slides along the ice into a block resting on ice.
	l := mustParse(t, "p%X%#")
	block := only(t, l, ecs.Block)

	events := step(t, l, gamemap.Right)

	assert.Contains(t, kinds(events), anim.IceKick)
	assert.Equal(t, at(1, 0), l.Player().Pos)
	assert.False(t, l.Player().Sliding, "kicking stops the kicker")
	assert.Equal(t, at(3, 0), l.Data.Entities.MustGet(block.ID).Pos)
}

func TestFrictionPushOnIceIsNotAKick(t *testing.T) {
	// Standing on floor, the player shoves the block onto more ice.
	l := mustParse(t, "pX%%#")
	block := only(t, l, ecs.Block)

	events := step(t, l, gamemap.Right)

	// Both slide; the player trails the block and stops when it does.
	assert.NotContains(t, kinds(events), anim.IceKick)
	assert.Equal(t, at(2, 0), l.Player().Pos)
	assert.Equal(t, at(3, 0), l.Data.Entities.MustGet(block.ID).Pos)
}

func TestBucketPaintsFloorAndIce(t *testing.T) {
	l := mustParse(t, "pG.%.")
	before := l.NTileChanges

	events := step(t, l, gamemap.Right)

	tile, _ := l.Data.Tiles.Get(at(2, 0))
	assert.Equal(t, gamemap.TileFloorWithGoop, tile.Kind)
	assert.Contains(t, kinds(events), anim.TileModification)
	assert.Equal(t, before+1, l.NTileChanges)

	step(t, l, gamemap.Right)
	tile, _ = l.Data.Tiles.Get(at(3, 0))
	assert.Equal(t, gamemap.TileIceWithGoop, tile.Kind)
	bucket := only(t, l, ecs.BucketOfGoop)
	assert.Equal(t, at(3, 0), bucket.Pos, "goop on ice is not slippery, so no slide")
	assert.False(t, bucket.Sliding)
	tile, _ = l.Data.Tiles.Get(at(4, 0))
	assert.Equal(t, gamemap.TileFloor, tile.Kind)
}

func TestBucketRefusedByHome(t *testing.T) {
	l := mustParse(t, "pGH")
	bucket := only(t, l, ecs.BucketOfGoop)

	events := step(t, l, gamemap.Right)

	assert.Equal(t, []anim.Kind{anim.FailedMove, anim.FailedMove}, kinds(events))
	assert.Equal(t, at(1, 0), l.Data.Entities.MustGet(bucket.ID).Pos)
	tile, _ := l.Data.Tiles.Get(at(2, 0))
	assert.Equal(t, gamemap.MakeHome(), tile)
}

func TestGoopyHumanEatsCake(t *testing.T) {
	l := mustParse(t, "pb~c.")
	step(t, l, gamemap.Right)
	human := only(t, l, ecs.HumanWithGoop)

	events := step(t, l, gamemap.Right)

	assert.Equal(t, 0, l.Data.Entities.Count(ecs.Cake))
	got := l.Data.Entities.MustGet(human.ID)
	assert.Equal(t, ecs.Human, got.Kind)
	assert.Equal(t, at(2, 0), got.Pos)
	assert.Equal(t, 1, l.Data.NHumans)
	assert.Contains(t, kinds(events), anim.Goopify)
}

func TestCakeWalksIntoGoopyHuman(t *testing.T) {
	l := mustParse(t, "pb~c.")
	step(t, l, gamemap.Right)
	human := only(t, l, ecs.HumanWithGoop)

	// Swap roles: the cake is the mover.
	cake := only(t, l, ecs.Cake)
	l.Data.Moves = append(l.Data.Moves, MoveIntent{Entity: cake.ID, From: cake.Pos, Dir: gamemap.Left, FrictionPush: true})
	l.Update()

	assert.Equal(t, 0, l.Data.Entities.Count(ecs.Cake))
	assert.Equal(t, ecs.Human, l.Data.Entities.MustGet(human.ID).Kind)
}

func TestSliderTrainKeepsTogether(t *testing.T) {
	l := mustParse(t, `
%%%%%%
XX%%%p`)
	ids := l.Data.Entities.IDs()
	a, b := ids[0], ids[1]
	l.Data.Moves = Moves{
		{Entity: a, From: at(0, 0), Dir: gamemap.Right},
		{Entity: b, From: at(1, 0), Dir: gamemap.Right},
	}

	l.Update()

	assert.Equal(t, at(1, 0), l.Data.Entities.MustGet(a).Pos)
	assert.Equal(t, at(2, 0), l.Data.Entities.MustGet(b).Pos)
	require.Len(t, l.Data.Moves, 2)
	assert.Equal(t, a, l.Data.Moves[0].Entity, "continuations keep worklist order")
}

func TestOccupantLeavingIsExecutedFirst(t *testing.T) {
	l := mustParse(t, `
%%%%%%
XXX%%p`)
	ids := l.Data.Entities.IDs()
	a, b, c := ids[0], ids[1], ids[2]
	l.Data.Moves = Moves{
		{Entity: a, From: at(0, 0), Dir: gamemap.Right},
		{Entity: b, From: at(1, 0), Dir: gamemap.Right},
		{Entity: c, From: at(2, 0), Dir: gamemap.Up},
	}

	events := l.Update()

	// b goes behind a, then c behind b, so c leaves first and the train
	// follows into the freed cells.
	assert.Equal(t, at(1, 0), l.Data.Entities.MustGet(a).Pos)
	assert.Equal(t, at(2, 0), l.Data.Entities.MustGet(b).Pos)
	assert.Equal(t, at(2, 1), l.Data.Entities.MustGet(c).Pos)
	assert.Equal(t, []anim.Kind{anim.Move, anim.Move, anim.Move}, kinds(events))
	require.Len(t, l.Data.Moves, 3)
	assert.Equal(t, []ecs.EntityID{a, b, c},
		[]ecs.EntityID{l.Data.Moves[0].Entity, l.Data.Moves[1].Entity, l.Data.Moves[2].Entity})
}

func TestPlayerFollowsSlidingBlock(t *testing.T) {
	l := mustParse(t, "px%%%#")

	require.True(t, l.Input(gamemap.Right))
	l.Update()
	block := only(t, l, ecs.Block)
	require.Equal(t, at(2, 0), block.Pos)
	require.True(t, l.Data.Moves.Has(block.ID), "block still sliding")

	// The block's continuation sits ahead of the new input in the worklist.
	require.True(t, l.Input(gamemap.Right))
	events := l.Update()

	assert.NotContains(t, kinds(events), anim.FailedMove)
	assert.Equal(t, at(3, 0), only(t, l, ecs.Block).Pos)
	assert.Equal(t, at(2, 0), l.Player().Pos)
}

func TestCyclicConflictTerminates(t *testing.T) {
	l := mustParse(t, `
XX.
XX.
..p`)
	// Four blocks each sliding into the next one's cell.
	byPos := map[gamemap.Pos]ecs.EntityID{}
	for _, id := range l.Data.Entities.IDs() {
		byPos[l.Data.Entities.MustGet(id).Pos] = id
	}
	l.Data.Moves = Moves{
		{Entity: byPos[at(0, 1)], From: at(0, 1), Dir: gamemap.Right},
		{Entity: byPos[at(1, 1)], From: at(1, 1), Dir: gamemap.Up},
		{Entity: byPos[at(1, 2)], From: at(1, 2), Dir: gamemap.Left},
		{Entity: byPos[at(0, 2)], From: at(0, 2), Dir: gamemap.Down},
	}

	events := l.Update()

	assert.Equal(t, []anim.Kind{anim.FailedMove, anim.FailedMove, anim.FailedMove, anim.FailedMove}, kinds(events))
	for pos, id := range byPos {
		assert.Equal(t, pos, l.Data.Entities.MustGet(id).Pos)
	}
	assert.Empty(t, l.Data.Moves)
}

func TestGoopyHumanIsNotTakenHome(t *testing.T) {
	l := mustParse(t, "pb~H.")

	step(t, l, gamemap.Right)
	step(t, l, gamemap.Right)

	human := only(t, l, ecs.HumanWithGoop)
	assert.Equal(t, at(3, 0), human.Pos)
	tile, _ := l.Data.Tiles.Get(at(3, 0))
	assert.Equal(t, gamemap.MakeHome(), tile)
	assert.Equal(t, 1, l.Data.NHumans)
	assert.False(t, l.HasWon)
}

func TestDeferredConsumption(t *testing.T) {
	l := mustParse(t, "pcS.")
	opts := DefaultOptions()
	opts.DeferConsumption = true
	l.Configure(opts, nil, nil)

	require.True(t, l.Input(gamemap.Right))
	l.Update()

	cake := only(t, l, ecs.Cake)
	assert.Equal(t, at(2, 0), cake.Pos, "cake lingers until the next tick")
	tile, _ := l.Data.Tiles.Get(at(2, 0))
	assert.Equal(t, gamemap.TileSadHome, tile.Kind)
	require.True(t, l.Busy())

	events := l.Update()

	assert.Equal(t, 0, l.Data.Entities.Count(ecs.Cake))
	tile, _ = l.Data.Tiles.Get(at(2, 0))
	assert.Equal(t, gamemap.MakeHome(), tile)
	assert.Equal(t, uint32(1), l.NTileChanges)
	assert.Equal(t, []anim.Kind{anim.TileModification}, kinds(events))
	assert.False(t, l.Busy())
}

func TestFootstepOncePerTickWithInput(t *testing.T) {
	l := mustParse(t, "p%%#")
	rec := &recorder{}
	l.Configure(DefaultOptions(), rec, nil)

	step(t, l, gamemap.Right)

	assert.Equal(t, 1, rec.count(sound.Footstep))
	assert.Equal(t, 0, rec.count(sound.Push))
}

func TestCloneIsIndependent(t *testing.T) {
	l := mustParse(t, "pb.")
	c := l.Clone()
	step(t, c, gamemap.Right)

	assert.Equal(t, at(0, 0), l.Player().Pos)
	assert.Equal(t, at(1, 0), c.Player().Pos)
	assert.Equal(t, 1, c.UndoDepth())
	assert.Zero(t, l.UndoDepth())
}
