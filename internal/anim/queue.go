package anim

import (
	"time"

	"homebound/internal/ecs"
	"homebound/internal/gamemap"
)

// Queue is the renderer side of the feed. Each event carries its own timer
// and leaves the queue once it has played for the queue's duration.
type Queue struct {
	duration time.Duration
	items    []item
}

type item struct {
	ev      Event
	elapsed time.Duration
}

// NewQueue creates a queue whose events each play for d.
func NewQueue(d time.Duration) *Queue {
	if d <= 0 {
		d = time.Millisecond
	}
	return &Queue{duration: d}
}

// Push appends events in order.
func (q *Queue) Push(evs ...Event) {
	for _, ev := range evs {
		q.items = append(q.items, item{ev: ev})
	}
}

// Advance ages every event by dt and drops the finished ones.
func (q *Queue) Advance(dt time.Duration) {
	kept := q.items[:0]
	for _, it := range q.items {
		it.elapsed += dt
		if it.elapsed < q.duration {
			kept = append(kept, it)
		}
	}
	clear(q.items[len(kept):])
	q.items = kept
}

// Clear drops every event.
func (q *Queue) Clear() { q.items = q.items[:0] }

// Len returns the number of events still playing.
func (q *Queue) Len() int { return len(q.items) }

// Progress is an event paired with how far through it the renderer is.
type Progress struct {
	Event
	T float64 // 0..1
}

// Active returns the playing events in feed order.
func (q *Queue) Active() []Progress {
	out := make([]Progress, 0, len(q.items))
	for _, it := range q.items {
		t := float64(it.elapsed) / float64(q.duration)
		out = append(out, Progress{Event: it.ev, T: min(t, 1)})
	}
	return out
}

// Offset returns where an entity should be drawn relative to its cell, as
// fractional (dx, dy) in cells, and whether any event is animating it. The
// last event for the entity wins.
func (q *Queue) Offset(id ecs.EntityID, at gamemap.Pos) (float64, float64, bool) {
	var last *item
	for i := range q.items {
		if q.items[i].ev.Entity == id && q.items[i].ev.Kind != TileModification {
			last = &q.items[i]
		}
	}
	if last == nil {
		return 0, 0, false
	}
	ev := last.ev
	t := min(float64(last.elapsed)/float64(q.duration), 1)
	fx, fy := float64(ev.From.X), float64(ev.From.Y)
	tx, ty := float64(ev.To.X), float64(ev.To.Y)

	var x, y float64
	switch ev.Kind {
	case FailedMove, IceKick:
		// Nudge toward the target and come back.
		bump := 0.5 * Bounce(t)
		x, y = fx+(tx-fx)*bump, fy+(ty-fy)*bump
	default:
		e := Ease(t, ev.Accelerate, ev.Decelerate)
		x, y = fx+(tx-fx)*e, fy+(ty-fy)*e
	}
	return x - float64(at.X), y - float64(at.Y), true
}

// Ease maps linear progress t in [0,1] to eased progress. Accelerate starts
// slow, decelerate ends slow, neither is linear (mid-slide).
func Ease(t float64, accelerate, decelerate bool) float64 {
	t = max(0, min(t, 1))
	switch {
	case accelerate && decelerate:
		return t * t * (3 - 2*t)
	case accelerate:
		return t * t
	case decelerate:
		return 1 - (1-t)*(1-t)
	}
	return t
}

// Bounce rises from 0 to 1 at t=0.5 and falls back to 0 at t=1.
func Bounce(t float64) float64 {
	t = max(0, min(t, 1))
	return 4 * t * (1 - t)
}
