// Package sound plays short synthesized effects off the simulation
// goroutine. Callers fire and forget; nothing ever waits on playback.
package sound

// ID names a sound effect.
type ID uint8

const (
	Footstep ID = iota
	Push
	Win
	Undo
)

func (id ID) String() string {
	switch id {
	case Footstep:
		return "footstep"
	case Push:
		return "push"
	case Win:
		return "win"
	case Undo:
		return "undo"
	}
	return "unknown"
}

// Player accepts play requests. Implementations must not block.
type Player interface {
	Play(id ID, volume float64)
}

// Nop discards every request.
type Nop struct{}

func (Nop) Play(ID, float64) {}
