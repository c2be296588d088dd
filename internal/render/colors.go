package render

import (
	"homebound/internal/ecs"
	"homebound/internal/gamemap"
)

// Theme holds the emoji used to draw a level. Emoji carry their own
// colours, so states are told apart by glyph rather than tint.
type Theme struct {
	Floor         string
	Walls         [3]string // indexed by gamemap.WallKind
	Home          string
	HappyHome     string
	SadHome       string
	Ice           string
	FloorWithGoop string
	IceWithGoop   string

	Entities map[ecs.Kind]string
}

// DefaultTheme is the stock look.
var DefaultTheme = Theme{
	Floor:         "🟫",
	Walls:         [3]string{"⬜", "🧱", "🌳"},
	Home:          "🏠",
	HappyHome:     "🏡",
	SadHome:       "🏚️",
	Ice:           "🧊",
	FloorWithGoop: "🟩",
	IceWithGoop:   "🟢",
	Entities: map[ecs.Kind]string{
		ecs.Player:        "🧑",
		ecs.Human:         "🙂",
		ecs.HumanWithGoop: "🤢",
		ecs.Cake:          "🎂",
		ecs.CakeWithGoop:  "🧁",
		ecs.BucketOfGoop:  "🪣",
		ecs.Block:         "📦",
	},
}

// TileGlyph returns the emoji for t.
func (th Theme) TileGlyph(t gamemap.Tile) string {
	switch t.Kind {
	case gamemap.TileWall:
		if int(t.Wall) < len(th.Walls) {
			return th.Walls[t.Wall]
		}
		return th.Walls[0]
	case gamemap.TileHome:
		if t.Satisfied {
			return th.HappyHome
		}
		return th.Home
	case gamemap.TileSadHome:
		return th.SadHome
	case gamemap.TileIce:
		return th.Ice
	case gamemap.TileFloorWithGoop:
		return th.FloorWithGoop
	case gamemap.TileIceWithGoop:
		return th.IceWithGoop
	}
	return th.Floor
}

// EntityGlyph returns the emoji for kind, or "?" for kinds the theme misses.
func (th Theme) EntityGlyph(kind ecs.Kind) string {
	if g, ok := th.Entities[kind]; ok {
		return g
	}
	return "?"
}
