package generate

import "homebound/internal/gamemap"

// carveCorridor digs a tunnel between a and b in the configured style.
func carveCorridor(m *gamemap.Tilemap, a, b gamemap.Pos, cfg *Config) {
	switch cfg.CorridorStyle {
	case CorridorZShaped:
		carveZShaped(m, a, b)
	case CorridorStraight:
		carveH(m, a.X, b.X, a.Y)
		carveV(m, a.Y, b.Y, b.X)
	default: // LShaped
		if cfg.Rand.Intn(2) == 0 {
			carveH(m, a.X, b.X, a.Y)
			carveV(m, a.Y, b.Y, b.X)
		} else {
			carveV(m, a.Y, b.Y, a.X)
			carveH(m, a.X, b.X, b.Y)
		}
	}
}

// carveFloor opens p unless it is on the outer ring.
func carveFloor(m *gamemap.Tilemap, p gamemap.Pos) {
	if p.X <= 0 || p.Y <= 0 || p.X >= m.Width-1 || p.Y >= m.Height-1 {
		return
	}
	m.Set(p, gamemap.MakeFloor())
}

func carveH(m *gamemap.Tilemap, x1, x2, y int) {
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	for x := x1; x <= x2; x++ {
		carveFloor(m, gamemap.Pos{X: x, Y: y})
	}
}

func carveV(m *gamemap.Tilemap, y1, y2, x int) {
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	for y := y1; y <= y2; y++ {
		carveFloor(m, gamemap.Pos{X: x, Y: y})
	}
}

func carveZShaped(m *gamemap.Tilemap, a, b gamemap.Pos) {
	midY := (a.Y + b.Y) / 2
	carveV(m, a.Y, midY, a.X)
	carveH(m, a.X, b.X, midY)
	carveV(m, midY, b.Y, b.X)
}
