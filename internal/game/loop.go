package game

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"

	"homebound/internal/level"
	"homebound/internal/render"
)

// frame is the redraw interval.
const frame = time.Second / 30

// Run drives one screen until the player quits, the screen closes or ctx
// ends. reloads may be nil.
func Run(ctx context.Context, screen tcell.Screen, p *Player, reloads <-chan []*level.Level) {
	r := render.NewRenderer(screen)

	// Start an async input reader goroutine.
	eventCh := make(chan tcell.Event, 32)
	go func() {
		defer close(eventCh)
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case eventCh <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	ticker := time.NewTicker(frame)
	defer ticker.Stop()
	last := time.Now()

	draw := func() {
		r.DrawFrame(p.Level(), p.Anims(), render.HUD{
			Index:    p.Index(),
			Count:    p.Count(),
			Random:   p.Random(),
			Moves:    p.Moves(),
			Messages: p.Messages(),
		})
	}
	draw()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-eventCh:
			if !ok {
				return // screen closed / disconnected
			}
			switch ev := ev.(type) {
			case *tcell.EventResize:
				screen.Sync()
			case *tcell.EventKey:
				in := keyToIntent(ev)
				if in == IntentHelp {
					if !runHelp(screen, eventCh) {
						return
					}
					break
				}
				if !p.Handle(in) {
					return
				}
			}
		case levels, ok := <-reloads:
			if !ok {
				reloads = nil
				continue
			}
			p.Reload(levels)
		case now := <-ticker.C:
			p.Tick(now.Sub(last))
			last = now
			draw()
		}
	}
}

// runHelp shows a keybinding reference overlay. Any key dismisses it.
// Returns false if the screen closed meanwhile.
func runHelp(screen tcell.Screen, eventCh <-chan tcell.Event) bool {
	lines := []string{
		"── Movement ──────────────────────────",
		"  Arrow keys / hjkl / wasd",
		"",
		"── Puzzle ────────────────────────────",
		"  u / z / Backspace   Undo",
		"  r                   Restart level",
		"  Enter / Space       Next level once won",
		"  n / ]               Skip to next level",
		"  p / [               Previous level",
		"  x                   Random puzzle",
		"",
		"── Rules ─────────────────────────────",
		"  Push every human into a home.",
		"  Cake cheers up a sad home.",
		"  Ice is slippery; goop is sticky.",
		"",
		"  q / Esc             Quit",
		"",
		"  [any key to close]",
	}

	header := " Controls "
	width := 42
	hdrStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	bodyStyle := tcell.StyleDefault.Foreground(tcell.ColorSilver)
	borderStyle := tcell.StyleDefault.Foreground(tcell.ColorGray)

	draw := func() {
		screen.Clear()
		sw, sh := screen.Size()
		boxH := len(lines) + 3
		x0 := (sw - width) / 2
		y0 := (sh - boxH) / 2

		for col := x0; col < x0+width; col++ {
			screen.SetContent(col, y0, '─', nil, borderStyle)
			screen.SetContent(col, y0+boxH-1, '─', nil, borderStyle)
		}
		for row := y0; row < y0+boxH; row++ {
			screen.SetContent(x0, row, '│', nil, borderStyle)
			screen.SetContent(x0+width-1, row, '│', nil, borderStyle)
		}
		screen.SetContent(x0, y0, '┌', nil, borderStyle)
		screen.SetContent(x0+width-1, y0, '┐', nil, borderStyle)
		screen.SetContent(x0, y0+boxH-1, '└', nil, borderStyle)
		screen.SetContent(x0+width-1, y0+boxH-1, '┘', nil, borderStyle)

		hx := x0 + (width-len([]rune(header)))/2
		for i, r := range []rune(header) {
			screen.SetContent(hx+i, y0, r, nil, hdrStyle)
		}
		for i, line := range lines {
			x := x0 + 2
			for _, r := range line {
				screen.SetContent(x, y0+1+i, r, nil, bodyStyle)
				x++
			}
		}
		screen.Show()
	}

	for {
		draw()
		ev, ok := <-eventCh
		if !ok {
			return false
		}
		switch ev.(type) {
		case *tcell.EventResize:
			screen.Sync()
		case *tcell.EventKey:
			return true
		}
	}
}
