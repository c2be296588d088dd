package render

// Camera translates between grid coordinates and screen coordinates.
// Grid X is multiplied by 2 because emoji occupy 2 terminal columns, and
// grid Y grows upward while screen rows grow downward.
type Camera struct {
	OffsetX    int
	OffsetY    int
	ViewWidth  int // in terminal columns
	ViewHeight int // in terminal rows
	GridHeight int
}

// NewCamera creates a camera centered on (cx, cy).
func NewCamera(cx, cy, viewW, viewH, gridH int) *Camera {
	c := &Camera{ViewWidth: viewW, ViewHeight: viewH, GridHeight: gridH}
	c.Center(cx, cy)
	return c
}

// Center repositions the camera so that grid position (cx, cy) is in the middle.
func (c *Camera) Center(cx, cy int) {
	c.OffsetX = cx - (c.ViewWidth/2)/2
	c.OffsetY = c.row(cy) - c.ViewHeight/2
}

func (c *Camera) row(y int) int { return c.GridHeight - 1 - y }

// WorldToScreen converts grid (wx, wy) to screen (sx, sy).
// visible is false when the result falls outside the viewport.
func (c *Camera) WorldToScreen(wx, wy int) (sx, sy int, visible bool) {
	sx = (wx - c.OffsetX) * 2
	sy = c.row(wy) - c.OffsetY
	visible = c.onScreen(sx, sy)
	return
}

// WorldToScreenF is WorldToScreen for positions between cells. Columns are
// rounded to the nearest half cell, rows to the nearest cell.
func (c *Camera) WorldToScreenF(wx, wy float64) (sx, sy int, visible bool) {
	sx = int(roundHalfUp((wx - float64(c.OffsetX)) * 2))
	sy = int(roundHalfUp(float64(c.GridHeight-1) - wy - float64(c.OffsetY)))
	visible = c.onScreen(sx, sy)
	return
}

func (c *Camera) onScreen(sx, sy int) bool {
	return sx >= 0 && sx+1 < c.ViewWidth && sy >= 0 && sy < c.ViewHeight
}

// ScreenToWorld converts screen (sx, sy) to grid coordinates.
func (c *Camera) ScreenToWorld(sx, sy int) (int, int) {
	return sx/2 + c.OffsetX, c.row(sy + c.OffsetY)
}

func roundHalfUp(f float64) float64 {
	if f < 0 {
		return -roundHalfUp(-f)
	}
	return float64(int(f + 0.5))
}
