package render

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"homebound/internal/level"
)

// HUD is the session state shown under the level.
type HUD struct {
	Index, Count int
	Random       bool
	Moves        int
	Messages     []string
}

// HelpLine lists the keys.
const HelpLine = "arrows/hjkl move  u undo  r restart  n/p next/prev  x random  ? help  q quit"

// DrawHUD renders the status bar and message log at the bottom of the screen.
func (r *Renderer) DrawHUD(l *level.Level, hud HUD) {
	_, screenH := r.screen.Size()
	hudY := screenH - hudRows

	r.drawHLine(hudY, tcell.ColorGray)

	where := fmt.Sprintf("Level %d/%d", hud.Index+1, hud.Count)
	if hud.Random {
		where = "Random"
	}
	status := fmt.Sprintf("%s: %s   Humans left: %d   Moves: %d", where, l.Name, l.Data.NHumans, hud.Moves)
	r.drawText(0, hudY+1, status, tcell.StyleDefault.Foreground(tcell.ColorWhite))

	if l.HasWon {
		r.drawText(0, hudY+2, "Everyone is home! Enter for the next level.",
			tcell.StyleDefault.Foreground(tcell.ColorLime).Bold(true))
	} else {
		r.drawText(0, hudY+2, HelpLine, tcell.StyleDefault.Foreground(tcell.ColorSilver))
	}

	// Message log (last 3 messages).
	start := max(len(hud.Messages)-3, 0)
	for i, msg := range hud.Messages[start:] {
		r.drawText(0, hudY+3+i, msg, tcell.StyleDefault.Foreground(tcell.ColorLightYellow))
	}
}

func (r *Renderer) drawHLine(y int, color tcell.Color) {
	w, _ := r.screen.Size()
	style := tcell.StyleDefault.Foreground(color)
	for x := 0; x < w; x++ {
		r.screen.SetContent(x, y, '─', nil, style)
	}
}

func (r *Renderer) drawText(x, y int, text string, style tcell.Style) {
	col := x
	for _, ch := range text {
		r.screen.SetContent(col, y, ch, nil, style)
		col += max(runewidth.RuneWidth(ch), 1)
	}
}
