package level

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/rotisserie/eris"

	"homebound/internal/ecs"
	"homebound/internal/gamemap"
)

// Parse errors. Match them with errors.Is against a *ParseError.
var (
	ErrNoLevels     = eris.New("no levels in input")
	ErrRowWidth     = eris.New("rows differ in width")
	ErrUnknownGlyph = eris.New("unknown glyph")
	ErrNoPlayer     = eris.New("level has no player")
	ErrManyPlayers  = eris.New("level has more than one player")
)

// ParseError locates a problem in level text. Line is 1-based in the
// input; Col is 1-based in runes, 0 when the whole block is at fault.
type ParseError struct {
	Level int // 0-based block index
	Name  string
	Line  int
	Col   int
	Err   error
}

func (e *ParseError) Error() string {
	where := fmt.Sprintf("level %d", e.Level+1)
	if e.Name != "" {
		where += fmt.Sprintf(" (%s)", e.Name)
	}
	if e.Col > 0 {
		return fmt.Sprintf("%s, line %d col %d: %v", where, e.Line, e.Col, e.Err)
	}
	return fmt.Sprintf("%s, line %d: %v", where, e.Line, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// glyph describes what one character places on its cell.
type glyph struct {
	tile      gamemap.Tile
	kind      ecs.Kind
	hasEntity bool
}

var glyphs = map[rune]glyph{
	'.': {tile: gamemap.MakeFloor()},
	'#': {tile: gamemap.MakeWall()},
	'H': {tile: gamemap.MakeHome()},
	'S': {tile: gamemap.MakeSadHome()},
	'%': {tile: gamemap.MakeIce()},
	'~': {tile: gamemap.Tile{Kind: gamemap.TileFloorWithGoop}},
	'&': {tile: gamemap.Tile{Kind: gamemap.TileIceWithGoop}},

	'p': {tile: gamemap.MakeFloor(), kind: ecs.Player, hasEntity: true},
	'P': {tile: gamemap.MakeIce(), kind: ecs.Player, hasEntity: true},
	'b': {tile: gamemap.MakeFloor(), kind: ecs.Human, hasEntity: true},
	'B': {tile: gamemap.MakeIce(), kind: ecs.Human, hasEntity: true},
	'c': {tile: gamemap.MakeFloor(), kind: ecs.Cake, hasEntity: true},
	'C': {tile: gamemap.MakeIce(), kind: ecs.Cake, hasEntity: true},
	// Buckets are the other way round: lowercase sits on ice.
	'g': {tile: gamemap.MakeIce(), kind: ecs.BucketOfGoop, hasEntity: true},
	'G': {tile: gamemap.MakeFloor(), kind: ecs.BucketOfGoop, hasEntity: true},
	'x': {tile: gamemap.MakeFloor(), kind: ecs.Block, hasEntity: true},
	'X': {tile: gamemap.MakeIce(), kind: ecs.Block, hasEntity: true},
}

// block is one level's rows as they appear in the file.
type block struct {
	name  string
	first int // 1-based line of the first row
	rows  []string
}

// LoadFile reads and parses a level file.
func LoadFile(path string) ([]*Level, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "read level file %s", path)
	}
	levels, err := ParseSet(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return levels, nil
}

// ParseSet parses every level in text. Levels are separated by blank lines
// or lines starting with "//"; a comment line right above a level names it.
func ParseSet(text string) ([]*Level, error) {
	blocks := splitBlocks(text)
	if len(blocks) == 0 {
		return nil, ErrNoLevels
	}
	levels := make([]*Level, 0, len(blocks))
	for i, b := range blocks {
		l, err := parseBlock(i, b)
		if err != nil {
			return nil, err
		}
		levels = append(levels, l)
	}
	return levels, nil
}

// Parse parses text holding exactly one level. Extra levels are ignored.
func Parse(text string) (*Level, error) {
	levels, err := ParseSet(text)
	if err != nil {
		return nil, err
	}
	return levels[0], nil
}

func splitBlocks(text string) []block {
	var (
		blocks  []block
		cur     *block
		pending string
	)
	for n, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		switch {
		case strings.HasPrefix(line, "//"):
			cur = nil
			pending = strings.TrimSpace(strings.TrimPrefix(line, "//"))
		case line == "":
			cur = nil
			pending = ""
		default:
			if cur == nil {
				blocks = append(blocks, block{name: pending, first: n + 1})
				cur = &blocks[len(blocks)-1]
				pending = ""
			}
			cur.rows = append(cur.rows, line)
		}
	}
	return blocks
}

func parseBlock(index int, b block) (*Level, error) {
	fail := func(line, col int, err error) error {
		return &ParseError{Level: index, Name: b.name, Line: line, Col: col, Err: err}
	}

	width := utf8.RuneCountInString(b.rows[0])
	height := len(b.rows)
	for i, row := range b.rows {
		if utf8.RuneCountInString(row) != width {
			return nil, fail(b.first+i, 0, ErrRowWidth)
		}
	}

	tiles := gamemap.New(width, height)
	world := ecs.NewWorld()
	player := ecs.NilEntity

	// The last row in the file is y = 0 so levels read the right way up.
	for i, row := range b.rows {
		y := height - 1 - i
		x := 0
		for _, r := range row {
			g, ok := glyphs[r]
			if !ok {
				return nil, fail(b.first+i, x+1, fmt.Errorf("%w %q", ErrUnknownGlyph, r))
			}
			p := gamemap.Pos{X: x, Y: y}
			tiles.Set(p, g.tile)
			if g.hasEntity {
				e := world.Create(p, g.kind)
				if g.kind == ecs.Player {
					if player != ecs.NilEntity {
						return nil, fail(b.first+i, x+1, ErrManyPlayers)
					}
					player = e.ID
				}
			}
			x++
		}
	}
	if player == ecs.NilEntity {
		return nil, fail(b.first, 0, ErrNoPlayer)
	}

	name := b.name
	if name == "" {
		name = fmt.Sprintf("level %d", index+1)
	}
	return New(name, tiles, world, player), nil
}

// IsParseError reports whether err came from malformed level text.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe) || errors.Is(err, ErrNoLevels)
}
