package level

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homebound/internal/ecs"
	"homebound/internal/gamemap"
)

func TestParseRowsReversed(t *testing.T) {
	l := mustParse(t, `
#####
#pbH#
#%S.#
#####`)

	assert.Equal(t, 5, l.Width())
	assert.Equal(t, 4, l.Height())
	assert.Equal(t, l.Width()*l.Height(), l.Data.Tiles.Len())
	assert.Equal(t, at(1, 2), l.Player().Pos, "second line from the top is y=2")

	tile, _ := l.Data.Tiles.Get(at(3, 2))
	assert.Equal(t, gamemap.TileHome, tile.Kind)
	tile, _ = l.Data.Tiles.Get(at(1, 1))
	assert.Equal(t, gamemap.TileIce, tile.Kind)
	tile, _ = l.Data.Tiles.Get(at(2, 1))
	assert.Equal(t, gamemap.TileSadHome, tile.Kind)
}

func TestParseGlyphs(t *testing.T) {
	tests := []struct {
		glyph rune
		tile  gamemap.TileKind
		kind  ecs.Kind
		has   bool
	}{
		{'.', gamemap.TileFloor, 0, false},
		{'#', gamemap.TileWall, 0, false},
		{'H', gamemap.TileHome, 0, false},
		{'S', gamemap.TileSadHome, 0, false},
		{'%', gamemap.TileIce, 0, false},
		{'~', gamemap.TileFloorWithGoop, 0, false},
		{'&', gamemap.TileIceWithGoop, 0, false},
		{'b', gamemap.TileFloor, ecs.Human, true},
		{'B', gamemap.TileIce, ecs.Human, true},
		{'c', gamemap.TileFloor, ecs.Cake, true},
		{'C', gamemap.TileIce, ecs.Cake, true},
		{'g', gamemap.TileIce, ecs.BucketOfGoop, true},
		{'G', gamemap.TileFloor, ecs.BucketOfGoop, true},
		{'x', gamemap.TileFloor, ecs.Block, true},
		{'X', gamemap.TileIce, ecs.Block, true},
		{'P', gamemap.TileIce, ecs.Player, true},
	}
	for _, tt := range tests {
		t.Run(string(tt.glyph), func(t *testing.T) {
			text := "p" + string(tt.glyph)
			if tt.glyph == 'P' {
				text = ".P"
			}
			l := mustParse(t, text)

			tile, ok := l.Data.Tiles.Get(at(1, 0))
			require.True(t, ok)
			assert.Equal(t, tt.tile, tile.Kind)

			e, ok := l.Data.Entities.At(at(1, 0))
			assert.Equal(t, tt.has, ok)
			if tt.has {
				assert.Equal(t, tt.kind, e.Kind)
			}
		})
	}
}

func TestParseSetNamesAndSeparators(t *testing.T) {
	text := `// First steps
p.bH

// Slippery
p%%#
// Cake walk
pcS

p..`
	levels, err := ParseSet(text)
	require.NoError(t, err)
	require.Len(t, levels, 4)

	assert.Equal(t, "First steps", levels[0].Name)
	assert.Equal(t, "Slippery", levels[1].Name)
	assert.Equal(t, "Cake walk", levels[2].Name)
	assert.Equal(t, "level 4", levels[3].Name)
	assert.Equal(t, 4, levels[0].Width())
}

func TestParseCountsHumans(t *testing.T) {
	l := mustParse(t, "pbBH")
	assert.Equal(t, 2, l.Data.NHumans)
	assert.False(t, l.HasWon)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
		want error
		line int
		col  int
	}{
		{"empty", "\n\n// nothing\n", ErrNoLevels, 0, 0},
		{"ragged rows", "p..\n..\n", ErrRowWidth, 2, 0},
		{"unknown glyph", "p.?", ErrUnknownGlyph, 1, 3},
		{"no player", "...\n.b.", ErrNoPlayer, 1, 0},
		{"two players", "p.\n.P", ErrManyPlayers, 2, 2},
		{"second level bad", "p.\n\n..", ErrNoPlayer, 3, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSet(tt.text)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
			assert.True(t, IsParseError(err))
			if tt.line == 0 {
				return
			}
			var pe *ParseError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, tt.line, pe.Line)
			assert.Equal(t, tt.col, pe.Col)
		})
	}
}

func TestParseErrorMessage(t *testing.T) {
	_, err := ParseSet("// Broken\np.?")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Broken")
	assert.Contains(t, err.Error(), "line 2 col 3")
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "levels.txt")
	require.NoError(t, os.WriteFile(path, []byte("// one\np.bH\n"), 0o644))

	levels, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, levels, 1)
	assert.Equal(t, "one", levels[0].Name)

	_, err = LoadFile(filepath.Join(dir, "missing.txt"))
	assert.Error(t, err)
	assert.False(t, IsParseError(err))
}
