package layout

import (
	"testing"
	"time"

	"aawo/internal/event"
)

func clip(id string, startH, startM, endH, endM int) event.Clipped {
	start := time.Date(2025, 1, 15, startH, startM, 0, 0, time.UTC)
	end := time.Date(2025, 1, 15, endH, endM, 0, 0, time.UTC)
	return event.Clipped{
		Event:        event.Event{ID: id, Start: start, End: end},
		ClippedStart: start,
		ClippedEnd:   end,
	}
}

func byID(t *testing.T, out []Positioned, id string) Positioned {
	t.Helper()
	for _, p := range out {
		if p.ID == id {
			return p
		}
	}
	t.Fatalf("event %q missing from layout output", id)
	return Positioned{}
}

func TestAssignEmpty(t *testing.T) {
	if out := Assign(nil); out != nil {
		t.Errorf("Assign(nil) = %v, want nil", out)
	}
}

func TestAssignSingleEventFullWidth(t *testing.T) {
	out := Assign([]event.Clipped{clip("a", 9, 0, 10, 0)})
	if len(out) != 1 {
		t.Fatalf("got %d events, want 1", len(out))
	}
	if out[0].Lane != 0 || out[0].LaneCount != 1 {
		t.Errorf("lane/count = %d/%d, want 0/1", out[0].Lane, out[0].LaneCount)
	}
}

func TestAssignReusesFreedLane(t *testing.T) {
	// A and B overlap; C starts after A ends and should slot back into
	// A's lane instead of opening a third.
	out := Assign([]event.Clipped{
		clip("a", 9, 0, 10, 0),
		clip("b", 9, 30, 10, 30),
		clip("c", 10, 15, 11, 0),
	})

	a, b, c := byID(t, out, "a"), byID(t, out, "b"), byID(t, out, "c")
	if a.Lane != 0 || b.Lane != 1 {
		t.Errorf("a/b lanes = %d/%d, want 0/1", a.Lane, b.Lane)
	}
	if c.Lane != 0 {
		t.Errorf("c lane = %d, want 0 (reuse of a's lane)", c.Lane)
	}
	for _, p := range out {
		if p.LaneCount != 2 {
			t.Errorf("event %s LaneCount = %d, want 2", p.ID, p.LaneCount)
		}
	}
}

func TestAssignBackToBackShareLane(t *testing.T) {
	// End-at-start is not a conflict under half-open intervals.
	out := Assign([]event.Clipped{
		clip("a", 9, 0, 10, 0),
		clip("b", 10, 0, 11, 0),
	})
	a, b := byID(t, out, "a"), byID(t, out, "b")
	if a.Lane != 0 || b.Lane != 0 {
		t.Errorf("lanes = %d/%d, want both 0", a.Lane, b.Lane)
	}
	if a.LaneCount != 1 || b.LaneCount != 1 {
		t.Errorf("counts = %d/%d, want both 1", a.LaneCount, b.LaneCount)
	}
}

func TestAssignClustersAreIndependent(t *testing.T) {
	// Morning pair overlaps; afternoon event stands alone. The lane
	// count of the morning cluster must not widen the afternoon one.
	out := Assign([]event.Clipped{
		clip("m1", 9, 0, 10, 0),
		clip("m2", 9, 30, 10, 30),
		clip("aft", 14, 0, 15, 0),
	})

	if got := byID(t, out, "m1").LaneCount; got != 2 {
		t.Errorf("morning LaneCount = %d, want 2", got)
	}
	aft := byID(t, out, "aft")
	if aft.Lane != 0 || aft.LaneCount != 1 {
		t.Errorf("afternoon lane/count = %d/%d, want 0/1", aft.Lane, aft.LaneCount)
	}
}

func TestAssignBridgedCluster(t *testing.T) {
	// A and C do not touch each other but both overlap B, so all three
	// belong to one cluster and share a lane count.
	out := Assign([]event.Clipped{
		clip("a", 9, 0, 10, 0),
		clip("b", 9, 45, 11, 0),
		clip("c", 10, 30, 11, 30),
	})

	a, b, c := byID(t, out, "a"), byID(t, out, "b"), byID(t, out, "c")
	if a.LaneCount != 2 || b.LaneCount != 2 || c.LaneCount != 2 {
		t.Errorf("lane counts = %d/%d/%d, want all 2",
			a.LaneCount, b.LaneCount, c.LaneCount)
	}
	if c.Lane != 0 {
		t.Errorf("c lane = %d, want 0 (a's lane is free by 10:30)", c.Lane)
	}
}

func TestAssignLaneCountEqualsMaxConcurrency(t *testing.T) {
	out := Assign([]event.Clipped{
		clip("a", 9, 0, 12, 0),
		clip("b", 9, 30, 10, 0),
		clip("c", 9, 45, 10, 30),
		clip("d", 10, 0, 11, 0),
	})

	// Peak concurrency is 3 (a, c and either b or d).
	for _, p := range out {
		if p.LaneCount != 3 {
			t.Errorf("event %s LaneCount = %d, want 3", p.ID, p.LaneCount)
		}
		if p.Lane < 0 || p.Lane >= p.LaneCount {
			t.Errorf("event %s lane %d out of range [0,%d)", p.ID, p.Lane, p.LaneCount)
		}
	}
}

func TestAssignNoLaneSharingOverlap(t *testing.T) {
	events := []event.Clipped{
		clip("a", 9, 0, 10, 0),
		clip("b", 9, 15, 9, 45),
		clip("c", 9, 30, 10, 30),
		clip("d", 9, 50, 11, 0),
		clip("e", 10, 45, 11, 30),
	}
	out := Assign(events)

	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			p, q := out[i], out[j]
			if p.Lane != q.Lane {
				continue
			}
			if p.ClippedStart.Before(q.ClippedEnd) && q.ClippedStart.Before(p.ClippedEnd) {
				t.Errorf("events %s and %s overlap in lane %d", p.ID, q.ID, p.Lane)
			}
		}
	}
}

func TestAssignDeterministic(t *testing.T) {
	shuffled := []event.Clipped{
		clip("c", 10, 15, 11, 0),
		clip("a", 9, 0, 10, 0),
		clip("b", 9, 30, 10, 30),
	}
	sorted := []event.Clipped{
		clip("a", 9, 0, 10, 0),
		clip("b", 9, 30, 10, 30),
		clip("c", 10, 15, 11, 0),
	}

	first, second := Assign(shuffled), Assign(sorted)
	if len(first) != len(second) {
		t.Fatalf("lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID || first[i].Lane != second[i].Lane {
			t.Errorf("position %d differs: %s lane %d vs %s lane %d",
				i, first[i].ID, first[i].Lane, second[i].ID, second[i].Lane)
		}
	}
}
