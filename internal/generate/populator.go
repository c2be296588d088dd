package generate

import (
	"github.com/zyedidia/generic/mapset"

	"homebound/internal/ecs"
	"homebound/internal/gamemap"
	"homebound/internal/level"
)

// populator hands out free floor cells in a random order.
type populator struct {
	tiles    *gamemap.Tilemap
	cfg      *Config
	cells    []gamemap.Pos
	occupied mapset.Set[gamemap.Pos]
}

func newPopulator(tiles *gamemap.Tilemap, cfg *Config) *populator {
	p := &populator{tiles: tiles, cfg: cfg, occupied: mapset.New[gamemap.Pos]()}
	for y := 0; y < tiles.Height; y++ {
		for x := 0; x < tiles.Width; x++ {
			pos := gamemap.Pos{X: x, Y: y}
			if t, _ := tiles.Get(pos); t.Kind == gamemap.TileFloor {
				p.cells = append(p.cells, pos)
			}
		}
	}
	cfg.Rand.Shuffle(len(p.cells), func(i, j int) { p.cells[i], p.cells[j] = p.cells[j], p.cells[i] })
	return p
}

// open reports whether no wall touches pos on any side, so whatever stands
// there can be pushed in every direction.
func (p *populator) open(pos gamemap.Pos) bool {
	for _, d := range []gamemap.Direction{gamemap.Up, gamemap.Down, gamemap.Left, gamemap.Right} {
		if p.tiles.IsSolid(pos.Add(d)) {
			return false
		}
	}
	return true
}

// pick claims the first free cell accepted by keep. It prefers open cells
// and falls back to any free one.
func (p *populator) pick(keep func(gamemap.Pos) bool) (gamemap.Pos, bool) {
	for _, strict := range []bool{true, false} {
		for _, pos := range p.cells {
			if p.occupied.Has(pos) || (keep != nil && !keep(pos)) {
				continue
			}
			if strict && !p.open(pos) {
				continue
			}
			p.occupied.Put(pos)
			return pos, true
		}
	}
	return gamemap.Pos{}, false
}

func (p *populator) floor(pos gamemap.Pos) bool {
	t, _ := p.tiles.Get(pos)
	return t.Kind == gamemap.TileFloor
}

// icePatch freezes the free floor in a 3x3 square around c.
func (p *populator) icePatch(c gamemap.Pos) {
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			pos := gamemap.Pos{X: c.X + dx, Y: c.Y + dy}
			if p.floor(pos) && !p.occupied.Has(pos) {
				p.tiles.Set(pos, gamemap.MakeIce())
			}
		}
	}
}

// Populate places the player in the first room and spreads everything else
// over the remaining floor. It returns a ready level with exactly one
// player; counts the grid has no room for are skipped.
func Populate(tiles *gamemap.Tilemap, rooms []gamemap.Rect, cfg *Config) *level.Level {
	world := ecs.NewWorld()
	p := newPopulator(tiles, cfg)

	start := rooms[0]
	pos, ok := p.pick(start.Contains)
	if !ok {
		pos, ok = p.pick(nil)
	}
	if !ok {
		// Generate always carves a room, so this is a caller bug.
		panic("generate: no floor for the player")
	}
	player := world.Create(pos, ecs.Player)

	for range cfg.IcePatches {
		c := p.cells[cfg.Rand.Intn(len(p.cells))]
		p.icePatch(c)
	}

	// Homes and sad homes go on plain floor so an ice slide can stop in them.
	pair := func(home gamemap.Tile, kind ecs.Kind) {
		h, ok := p.pick(p.floor)
		if !ok {
			return
		}
		e, ok := p.pick(nil)
		if !ok {
			p.occupied.Remove(h)
			return
		}
		tiles.Set(h, home)
		world.Create(e, kind)
	}
	for range cfg.Humans {
		pair(gamemap.MakeHome(), ecs.Human)
	}
	for range cfg.Cakes {
		pair(gamemap.MakeSadHome(), ecs.Cake)
	}

	single := func(kind ecs.Kind) {
		if pos, ok := p.pick(nil); ok {
			world.Create(pos, kind)
		}
	}
	for range cfg.Buckets {
		single(ecs.BucketOfGoop)
	}
	for range cfg.Blocks {
		single(ecs.Block)
	}

	return level.New("random", tiles, world, player.ID)
}
