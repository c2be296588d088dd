package gamemap

// TileKind identifies the type of a map tile.
type TileKind uint8

const (
	TileFloor TileKind = iota
	TileWall
	TileHome
	TileSadHome
	TileIce
	TileFloorWithGoop
	TileIceWithGoop
)

// WallKind selects the wall decoration. It has no gameplay effect.
type WallKind uint8

const (
	WallPlain WallKind = iota
	WallBrick
	WallHedge
)

// Tile holds the kind and state of one map cell.
type Tile struct {
	Kind TileKind
	// Satisfied marks a Home that a human has moved into. Only meaningful
	// when Kind is TileHome.
	Satisfied bool
	Wall      WallKind
}

// MakeFloor returns a plain floor tile.
func MakeFloor() Tile { return Tile{Kind: TileFloor} }

// MakeWall returns a blocking wall tile.
func MakeWall() Tile { return Tile{Kind: TileWall} }

// MakeHome returns an empty home.
func MakeHome() Tile { return Tile{Kind: TileHome} }

// MakeSadHome returns a home that wants cake.
func MakeSadHome() Tile { return Tile{Kind: TileSadHome} }

// MakeIce returns a slippery ice tile.
func MakeIce() Tile { return Tile{Kind: TileIce} }

// Solid reports whether nothing may ever enter the tile.
func (t Tile) Solid() bool {
	return t.Kind == TileWall || (t.Kind == TileHome && t.Satisfied)
}

// Slippery reports whether entities keep sliding after entering the tile.
func (t Tile) Slippery() bool { return t.Kind == TileIce }

// Goopy reports whether the tile carries goop.
func (t Tile) Goopy() bool {
	return t.Kind == TileFloorWithGoop || t.Kind == TileIceWithGoop
}

// IsHome reports whether the tile is any kind of home.
func (t Tile) IsHome() bool {
	return t.Kind == TileHome || t.Kind == TileSadHome
}

func (t Tile) String() string {
	switch t.Kind {
	case TileFloor:
		return "floor"
	case TileWall:
		return "wall"
	case TileHome:
		if t.Satisfied {
			return "happy home"
		}
		return "home"
	case TileSadHome:
		return "sad home"
	case TileIce:
		return "ice"
	case TileFloorWithGoop:
		return "goopy floor"
	case TileIceWithGoop:
		return "goopy ice"
	}
	return "unknown"
}
