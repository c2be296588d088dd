// Package generate builds random puzzles: a BSP room layout carved out of
// solid wall, sprinkled with ice and populated with the player, humans and
// their homes, cakes with their sad homes, goop buckets and blocks.
package generate

import (
	"fmt"
	"math/rand"

	"homebound/internal/gamemap"
	"homebound/internal/level"
)

// CorridorStyle selects the shape of connecting tunnels.
type CorridorStyle uint8

const (
	CorridorLShaped CorridorStyle = iota
	CorridorZShaped
	CorridorStraight
)

// Smallest map Generate accepts; smaller requests are clamped.
const (
	MinWidth  = 7
	MinHeight = 7
)

// Config drives procedural generation for one puzzle.
type Config struct {
	Width, Height int
	MinLeafSize   int
	MaxLeafSize   int
	MinRoomSize   int
	RoomPadding   int
	CorridorStyle CorridorStyle

	Humans     int // human/home pairs
	Cakes      int // cake/sad-home pairs
	Buckets    int
	Blocks     int
	IcePatches int

	Rand *rand.Rand
}

// DefaultConfig scales the population to the map area.
func DefaultConfig(width, height int, rng *rand.Rand) *Config {
	width = max(width, MinWidth)
	height = max(height, MinHeight)
	area := width * height
	return &Config{
		Width:         width,
		Height:        height,
		MinLeafSize:   6,
		MaxLeafSize:   14,
		MinRoomSize:   3,
		RoomPadding:   1,
		CorridorStyle: CorridorStyle(rng.Intn(3)),
		Humans:        1 + area/150,
		Cakes:         area / 200,
		Buckets:       area / 250,
		Blocks:        area / 120,
		IcePatches:    1 + area/100,
		Rand:          rng,
	}
}

// Random generates a puzzle of roughly the given size.
func Random(rng *rand.Rand, width, height int) *level.Level {
	cfg := DefaultConfig(width, height, rng)
	tiles, rooms := Generate(cfg)
	l := Populate(tiles, rooms, cfg)
	l.Name = fmt.Sprintf("random %dx%d", cfg.Width, cfg.Height)
	return l
}

// bspLeaf is a node in the BSP tree.
type bspLeaf struct {
	X, Y, W, H  int
	left, right *bspLeaf
	room        *gamemap.Rect
}

// split divides the leaf into two children, returning false when leaf is too small.
func (l *bspLeaf) split(cfg *Config) bool {
	if l.left != nil || l.right != nil {
		return false
	}
	// Horizontal when taller, vertical when wider.
	splitH := cfg.Rand.Intn(2) == 0
	if l.W > l.H && float64(l.W)/float64(l.H) >= 1.25 {
		splitH = false
	} else if l.H > l.W && float64(l.H)/float64(l.W) >= 1.25 {
		splitH = true
	}

	size := l.H
	if !splitH {
		size = l.W
	}
	lo := cfg.MinLeafSize
	hi := size - cfg.MinLeafSize
	if lo >= hi {
		return false
	}
	at := lo + cfg.Rand.Intn(hi-lo+1)

	if splitH {
		l.left = &bspLeaf{X: l.X, Y: l.Y, W: l.W, H: at}
		l.right = &bspLeaf{X: l.X, Y: l.Y + at, W: l.W, H: l.H - at}
	} else {
		l.left = &bspLeaf{X: l.X, Y: l.Y, W: at, H: l.H}
		l.right = &bspLeaf{X: l.X + at, Y: l.Y, W: l.W - at, H: l.H}
	}
	return true
}

// createRooms recursively carves rooms inside terminal leaves.
func (l *bspLeaf) createRooms(m *gamemap.Tilemap, cfg *Config, rooms *[]gamemap.Rect) {
	if l.left != nil || l.right != nil {
		if l.left != nil {
			l.left.createRooms(m, cfg, rooms)
		}
		if l.right != nil {
			l.right.createRooms(m, cfg, rooms)
		}
		return
	}
	pad := cfg.RoomPadding
	minSize := cfg.MinRoomSize

	availW := max(l.W-2*pad, minSize)
	availH := max(l.H-2*pad, minSize)
	rw := min(minSize+cfg.Rand.Intn(max(1, availW-minSize+1)), l.W-2*pad)
	rh := min(minSize+cfg.Rand.Intn(max(1, availH-minSize+1)), l.H-2*pad)

	rx := max(l.X+pad+cfg.Rand.Intn(max(1, l.W-rw-2*pad+1)), 1)
	ry := max(l.Y+pad+cfg.Rand.Intn(max(1, l.H-rh-2*pad+1)), 1)

	// Keep the outer ring solid.
	if rx+rw >= m.Width {
		rw = m.Width - rx - 1
	}
	if ry+rh >= m.Height {
		rh = m.Height - ry - 1
	}
	if rw < 2 || rh < 2 {
		return
	}

	room := gamemap.Rect{X1: rx, Y1: ry, X2: rx + rw - 1, Y2: ry + rh - 1}
	l.room = &room
	carveRect(m, room)
	*rooms = append(*rooms, room)
}

// getRoom returns a room from this leaf or one of its descendants.
func (l *bspLeaf) getRoom() *gamemap.Rect {
	if l.room != nil {
		return l.room
	}
	var r *gamemap.Rect
	if l.left != nil {
		r = l.left.getRoom()
	}
	if r == nil && l.right != nil {
		r = l.right.getRoom()
	}
	return r
}

// connectChildren carves corridors between the two children of a split leaf.
func (l *bspLeaf) connectChildren(m *gamemap.Tilemap, cfg *Config) {
	if l.left == nil || l.right == nil {
		return
	}
	l.left.connectChildren(m, cfg)
	l.right.connectChildren(m, cfg)

	lRoom := l.left.getRoom()
	rRoom := l.right.getRoom()
	if lRoom == nil || rRoom == nil {
		return
	}
	carveCorridor(m, lRoom.Center(), rRoom.Center(), cfg)
}

// Generate lays out rooms and corridors and returns the grid with the rooms
// in carving order. The grid always has at least one room.
func Generate(cfg *Config) (*gamemap.Tilemap, []gamemap.Rect) {
	cfg.Width = max(cfg.Width, MinWidth)
	cfg.Height = max(cfg.Height, MinHeight)

	m := gamemap.New(cfg.Width, cfg.Height)
	m.Fill(gamemap.MakeWall())

	root := &bspLeaf{W: cfg.Width, H: cfg.Height}
	leaves := []*bspLeaf{root}
	splitAny := true
	for splitAny {
		splitAny = false
		var next []*bspLeaf
		for _, leaf := range leaves {
			if leaf.left != nil || leaf.right != nil {
				next = append(next, leaf.left, leaf.right)
				continue
			}
			if leaf.W > cfg.MaxLeafSize || leaf.H > cfg.MaxLeafSize ||
				cfg.Rand.Float64() > 0.25 {
				if leaf.split(cfg) {
					next = append(next, leaf.left, leaf.right)
					splitAny = true
					continue
				}
			}
			next = append(next, leaf)
		}
		leaves = next
	}

	var rooms []gamemap.Rect
	root.createRooms(m, cfg, &rooms)
	root.connectChildren(m, cfg)

	if len(rooms) == 0 {
		room := gamemap.Rect{X1: 1, Y1: 1, X2: cfg.Width - 2, Y2: cfg.Height - 2}
		carveRect(m, room)
		rooms = append(rooms, room)
	}
	return m, rooms
}

func carveRect(m *gamemap.Tilemap, r gamemap.Rect) {
	for y := r.Y1; y <= r.Y2; y++ {
		for x := r.X1; x <= r.X2; x++ {
			m.Set(gamemap.Pos{X: x, Y: y}, gamemap.MakeFloor())
		}
	}
}
