package gamemap

// Pos is a cell coordinate. Row 0 is the bottom row of a level.
type Pos struct {
	X, Y int
}

// Add returns p offset by the unit step of d.
func (p Pos) Add(d Direction) Pos {
	dx, dy := d.Delta()
	return Pos{X: p.X + dx, Y: p.Y + dy}
}

// Direction is one of the four cardinal directions.
type Direction uint8

const (
	Up Direction = iota
	Down
	Left
	Right
)

// Delta converts a direction to (dx, dy). Up increases Y.
func (d Direction) Delta() (int, int) {
	switch d {
	case Up:
		return 0, 1
	case Down:
		return 0, -1
	case Left:
		return -1, 0
	case Right:
		return 1, 0
	}
	return 0, 0
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return "none"
}
