package generate

import (
	"math/rand"
	"testing"

	"homebound/internal/gamemap"
)

func walled(w, h int) *gamemap.Tilemap {
	m := gamemap.New(w, h)
	m.Fill(gamemap.MakeWall())
	return m
}

// allFloorRow checks that every tile at y between x1 and x2 (inclusive) is open.
func allFloorRow(m *gamemap.Tilemap, x1, x2, y int) bool {
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	for x := x1; x <= x2; x++ {
		if m.IsSolid(gamemap.Pos{X: x, Y: y}) {
			return false
		}
	}
	return true
}

// allFloorCol checks that every tile at x between y1 and y2 (inclusive) is open.
func allFloorCol(m *gamemap.Tilemap, y1, y2, x int) bool {
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	for y := y1; y <= y2; y++ {
		if m.IsSolid(gamemap.Pos{X: x, Y: y}) {
			return false
		}
	}
	return true
}

func TestCarveH(t *testing.T) {
	m := walled(20, 20)
	carveH(m, 3, 8, 5)

	if !allFloorRow(m, 3, 8, 5) {
		t.Error("carveH(3,8,5) should carve floor tiles from x=3 to x=8 at y=5")
	}
	if !m.IsSolid(gamemap.Pos{X: 2, Y: 5}) {
		t.Error("tile at x=2 should remain wall")
	}
	if !m.IsSolid(gamemap.Pos{X: 9, Y: 5}) {
		t.Error("tile at x=9 should remain wall")
	}
}

func TestCarveHReversedArgs(t *testing.T) {
	m := walled(20, 20)
	carveH(m, 8, 3, 5)
	if !allFloorRow(m, 3, 8, 5) {
		t.Error("carveH with reversed x args should still carve x=3..8")
	}
}

func TestCarveV(t *testing.T) {
	m := walled(20, 20)
	carveV(m, 2, 7, 4)

	if !allFloorCol(m, 2, 7, 4) {
		t.Error("carveV(2,7,4) should carve floor tiles from y=2 to y=7 at x=4")
	}
	if !m.IsSolid(gamemap.Pos{X: 4, Y: 1}) {
		t.Error("tile at y=1 should remain wall")
	}
	if !m.IsSolid(gamemap.Pos{X: 4, Y: 8}) {
		t.Error("tile at y=8 should remain wall")
	}
}

func TestCarveNeverOpensBorder(t *testing.T) {
	m := walled(10, 10)
	carveH(m, 0, 9, 0)
	carveV(m, 0, 9, 9)
	for i := 0; i < 10; i++ {
		if !m.IsSolid(gamemap.Pos{X: i, Y: 0}) || !m.IsSolid(gamemap.Pos{X: 9, Y: i}) {
			t.Fatalf("border opened at index %d", i)
		}
	}
}

func TestCarveZShaped(t *testing.T) {
	m := walled(20, 20)
	carveZShaped(m, gamemap.Pos{X: 2, Y: 2}, gamemap.Pos{X: 8, Y: 10})
	midY := (2 + 10) / 2

	if !allFloorCol(m, 2, midY, 2) {
		t.Errorf("Z-shaped: first vertical segment (x=2, y=2..%d) should be floor", midY)
	}
	if !allFloorRow(m, 2, 8, midY) {
		t.Errorf("Z-shaped: horizontal segment (y=%d, x=2..8) should be floor", midY)
	}
	if !allFloorCol(m, midY, 10, 8) {
		t.Errorf("Z-shaped: last vertical segment (x=8, y=%d..10) should be floor", midY)
	}
}

func TestCorridorStyleStraight(t *testing.T) {
	m := walled(20, 20)
	cfg := &Config{CorridorStyle: CorridorStraight, Rand: rand.New(rand.NewSource(0))}
	carveCorridor(m, gamemap.Pos{X: 2, Y: 2}, gamemap.Pos{X: 8, Y: 8}, cfg)

	if !allFloorRow(m, 2, 8, 2) {
		t.Error("straight corridor: horizontal segment at y=2 should be floor")
	}
	if !allFloorCol(m, 2, 8, 8) {
		t.Error("straight corridor: vertical segment at x=8 should be floor")
	}
}

func TestCorridorStyleLShaped(t *testing.T) {
	// Several seeds so both branches run.
	for seed := range 10 {
		m := walled(20, 20)
		cfg := &Config{CorridorStyle: CorridorLShaped, Rand: rand.New(rand.NewSource(int64(seed)))}
		carveCorridor(m, gamemap.Pos{X: 2, Y: 2}, gamemap.Pos{X: 10, Y: 8}, cfg)

		if m.IsSolid(gamemap.Pos{X: 2, Y: 2}) || m.IsSolid(gamemap.Pos{X: 10, Y: 8}) {
			t.Errorf("seed %d: endpoints should be floor after L-shaped corridor", seed)
		}
	}
}
