package event

import "time"

// Clipped is an event intersected with a visible window. It exists for one
// render pass of one day and is discarded afterwards.
type Clipped struct {
	Event
	ClippedStart time.Time
	ClippedEnd   time.Time
}

// Clip intersects an event with the half-open window [winStart, winEnd).
// An event ending exactly at winStart or starting exactly at winEnd does
// not intersect. The second return value is false when there is no
// intersection.
func Clip(e Event, winStart, winEnd time.Time) (Clipped, bool) {
	if !e.Start.Before(winEnd) || !e.End.After(winStart) {
		return Clipped{}, false
	}

	c := Clipped{Event: e, ClippedStart: e.Start, ClippedEnd: e.End}
	if c.ClippedStart.Before(winStart) {
		c.ClippedStart = winStart
	}
	if c.ClippedEnd.After(winEnd) {
		c.ClippedEnd = winEnd
	}
	return c, true
}

// ClipAll clips a merged event sequence to one window, keeping order and
// dropping events that fall entirely outside it.
func ClipAll(events []Event, winStart, winEnd time.Time) []Clipped {
	out := make([]Clipped, 0, len(events))
	for _, e := range events {
		if c, ok := Clip(e, winStart, winEnd); ok {
			out = append(out, c)
		}
	}
	return out
}
