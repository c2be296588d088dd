package level

import (
	"homebound/internal/ecs"
	"homebound/internal/gamemap"
)

// MoveIntent asks for one entity to step one cell.
type MoveIntent struct {
	Entity ecs.EntityID
	From   gamemap.Pos
	Dir    gamemap.Direction
	// FrictionPush is set when the mover has footing and can shove what
	// is in front of it. Sliding movers only kick.
	FrictionPush bool
}

// To returns the destination cell.
func (m MoveIntent) To() gamemap.Pos { return m.From.Add(m.Dir) }

// Moves is the ordered worklist of pending intents.
type Moves []MoveIntent

// Has reports whether id has a pending move.
func (ms Moves) Has(id ecs.EntityID) bool {
	for _, m := range ms {
		if m.Entity == id {
			return true
		}
	}
	return false
}

// lastFrom returns the index of the last move other than skip that starts
// at p, or -1.
func (ms Moves) lastFrom(p gamemap.Pos, skip int) int {
	for j := len(ms) - 1; j >= 0; j-- {
		if j != skip && ms[j].From == p {
			return j
		}
	}
	return -1
}

func (ms *Moves) removeAt(i int) {
	*ms = append((*ms)[:i], (*ms)[i+1:]...)
}

func (ms *Moves) moveToBack(j int) {
	m := (*ms)[j]
	ms.removeAt(j)
	*ms = append(*ms, m)
}

// purge drops every move of id and returns how many of them sat before
// index before.
func (ms *Moves) purge(id ecs.EntityID, before int) int {
	shift := 0
	kept := (*ms)[:0]
	for i, m := range *ms {
		if m.Entity == id {
			if i < before {
				shift++
			}
			continue
		}
		kept = append(kept, m)
	}
	*ms = kept
	return shift
}
