package gamemap

import "fmt"

// Rect is an axis-aligned rectangle of cells (inclusive edges).
type Rect struct {
	X1, Y1, X2, Y2 int
}

// Contains reports whether p lies inside r.
func (r Rect) Contains(p Pos) bool {
	return p.X >= r.X1 && p.X <= r.X2 && p.Y >= r.Y1 && p.Y <= r.Y2
}

// Center returns the middle cell of r.
func (r Rect) Center() Pos {
	return Pos{X: (r.X1 + r.X2) / 2, Y: (r.Y1 + r.Y2) / 2}
}

// Intersects reports whether r and o share any cell.
func (r Rect) Intersects(o Rect) bool {
	return r.X1 <= o.X2 && r.X2 >= o.X1 && r.Y1 <= o.Y2 && r.Y2 >= o.Y1
}

// Tilemap is a fixed-size grid of tiles stored row-major, row 0 first.
type Tilemap struct {
	Width, Height int
	tiles         []Tile
}

// New creates a Tilemap filled with floor.
func New(width, height int) *Tilemap {
	if width < 0 || height < 0 {
		panic(fmt.Sprintf("gamemap: negative size %dx%d", width, height))
	}
	return &Tilemap{Width: width, Height: height, tiles: make([]Tile, width*height)}
}

// FromTiles wraps a row-major tile slice. The slice length must equal
// width*height.
func FromTiles(width, height int, tiles []Tile) (*Tilemap, error) {
	if len(tiles) != width*height {
		return nil, fmt.Errorf("tilemap %dx%d needs %d tiles, got %d", width, height, width*height, len(tiles))
	}
	return &Tilemap{Width: width, Height: height, tiles: tiles}, nil
}

// Fill sets every cell to t.
func (m *Tilemap) Fill(t Tile) {
	m.check()
	for i := range m.tiles {
		m.tiles[i] = t
	}
}

// Len returns the number of stored tiles.
func (m *Tilemap) Len() int {
	m.check()
	return len(m.tiles)
}

// InBounds reports whether p is within the map.
func (m *Tilemap) InBounds(p Pos) bool {
	return p.X >= 0 && p.X < m.Width && p.Y >= 0 && p.Y < m.Height
}

// Get returns the tile at p, or false when p is out of bounds.
func (m *Tilemap) Get(p Pos) (Tile, bool) {
	m.check()
	if !m.InBounds(p) {
		return Tile{}, false
	}
	return m.tiles[p.Y*m.Width+p.X], true
}

// Set replaces the tile at p. Panics if p is out of bounds; callers
// bounds-check first.
func (m *Tilemap) Set(p Pos, t Tile) {
	m.check()
	if !m.InBounds(p) {
		panic(fmt.Sprintf("gamemap: Set(%d,%d) outside %dx%d", p.X, p.Y, m.Width, m.Height))
	}
	m.tiles[p.Y*m.Width+p.X] = t
}

// IsSolid reports whether p is out of bounds or holds a solid tile.
func (m *Tilemap) IsSolid(p Pos) bool {
	t, ok := m.Get(p)
	return !ok || t.Solid()
}

// Clone returns an independent copy.
func (m *Tilemap) Clone() *Tilemap {
	tiles := make([]Tile, len(m.tiles))
	copy(tiles, m.tiles)
	return &Tilemap{Width: m.Width, Height: m.Height, tiles: tiles}
}

func (m *Tilemap) check() {
	if len(m.tiles) != m.Width*m.Height {
		panic(fmt.Sprintf("gamemap: %d tiles in a %dx%d map", len(m.tiles), m.Width, m.Height))
	}
}
