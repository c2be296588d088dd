// Package render draws a level onto a tcell screen with emoji, sliding
// entities between cells while their animation events play.
package render

import (
	"slices"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"homebound/internal/anim"
	"homebound/internal/ecs"
	"homebound/internal/gamemap"
	"homebound/internal/level"
)

// hudRows is the number of screen rows reserved for the HUD.
const hudRows = 6

// Renderer draws levels onto a tcell screen.
type Renderer struct {
	screen tcell.Screen
	theme  Theme

	// Tile glyphs are rebuilt only when the level or its tile-change
	// counter moves on.
	tiles      []string
	tilesFor   *level.Level
	tilesStamp uint32
	rebuilds   int
}

// NewRenderer creates a Renderer for the given screen.
func NewRenderer(screen tcell.Screen) *Renderer {
	return &Renderer{screen: screen, theme: DefaultTheme}
}

// SetTheme replaces the glyph set.
func (r *Renderer) SetTheme(th Theme) {
	r.theme = th
	r.tilesFor = nil
}

func (r *Renderer) camera(l *level.Level) *Camera {
	w, h := r.screen.Size()
	return NewCamera(l.Width()/2, l.Height()/2, w, max(h-hudRows, 1), l.Height())
}

// DrawFrame renders tiles, entities and the HUD, then shows the screen.
func (r *Renderer) DrawFrame(l *level.Level, q *anim.Queue, hud HUD) {
	r.screen.Clear()
	cam := r.camera(l)
	r.drawTiles(l, cam)
	r.drawEntities(l, q, cam)
	r.DrawHUD(l, hud)
	r.screen.Show()
}

// refreshTiles rebuilds the tile glyph cache if the level changed.
func (r *Renderer) refreshTiles(l *level.Level) {
	if r.tilesFor == l && r.tilesStamp == l.NTileChanges && r.tiles != nil {
		return
	}
	w, h := l.Width(), l.Height()
	r.tiles = slices.Grow(r.tiles[:0], w*h)[:w*h]
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			t, _ := l.Data.Tiles.Get(gamemap.Pos{X: x, Y: y})
			r.tiles[y*w+x] = r.theme.TileGlyph(t)
		}
	}
	r.tilesFor = l
	r.tilesStamp = l.NTileChanges
	r.rebuilds++
}

func (r *Renderer) drawTiles(l *level.Level, cam *Camera) {
	r.refreshTiles(l)
	style := tcell.StyleDefault.Background(tcell.ColorBlack)
	w := l.Width()
	for y := 0; y < l.Height(); y++ {
		for x := 0; x < w; x++ {
			sx, sy, onScreen := cam.WorldToScreen(x, y)
			if !onScreen {
				continue
			}
			r.putGlyph(sx, sy, r.tiles[y*w+x], style)
		}
	}
}

// drawEntities renders every entity, nudged by its animation offset. The
// player is drawn last so it stays on top.
func (r *Renderer) drawEntities(l *level.Level, q *anim.Queue, cam *Camera) {
	ids := l.Data.Entities.IDs()
	slices.SortStableFunc(ids, func(a, b ecs.EntityID) int {
		switch {
		case a == l.PlayerID:
			return 1
		case b == l.PlayerID:
			return -1
		}
		return 0
	})

	style := tcell.StyleDefault.Background(tcell.ColorBlack)
	for _, id := range ids {
		e := l.Data.Entities.MustGet(id)
		x, y := float64(e.Pos.X), float64(e.Pos.Y)
		if q != nil {
			if dx, dy, ok := q.Offset(id, e.Pos); ok {
				x += dx
				y += dy
			}
		}
		sx, sy, onScreen := cam.WorldToScreenF(x, y)
		if !onScreen {
			continue
		}
		r.putGlyph(sx, sy, r.theme.EntityGlyph(e.Kind), style)
	}
}

// putGlyph draws a single glyph (ASCII or multi-rune emoji) at screen position (x, y).
func (r *Renderer) putGlyph(x, y int, glyph string, style tcell.Style) {
	runes := []rune(glyph)
	if len(runes) == 0 {
		return
	}
	mainc := runes[0]
	var combc []rune
	if len(runes) > 1 {
		combc = runes[1:]
	}
	r.screen.SetContent(x, y, mainc, combc, style)
	if runewidth.StringWidth(glyph) == 2 {
		// Fill the second column to avoid rendering artifacts.
		r.screen.SetContent(x+1, y, ' ', nil, style)
	}
}
