// Package layout assigns overlapping day events to horizontal lanes so
// that no two events sharing a lane overlap in time. Events that overlap
// transitively form a cluster; lane counts are computed per cluster, so
// an isolated event is always full width.
package layout

import (
	"sort"
	"time"

	"aawo/internal/event"
)

// Positioned is a clipped event annotated with its lane assignment.
// Lane is zero-based; LaneCount is the number of lanes in the event's
// cluster and is identical for every member of that cluster.
type Positioned struct {
	event.Clipped
	Lane      int
	LaneCount int
}

// Assign places each clipped event into a lane. Input order does not
// matter; output is sorted by clipped start time, with earlier end
// times first on ties. Overlap is half-open: an event starting exactly
// when another ends does not conflict with it.
func Assign(clipped []event.Clipped) []Positioned {
	if len(clipped) == 0 {
		return nil
	}

	events := make([]event.Clipped, len(clipped))
	copy(events, clipped)
	sort.SliceStable(events, func(i, j int) bool {
		if !events[i].ClippedStart.Equal(events[j].ClippedStart) {
			return events[i].ClippedStart.Before(events[j].ClippedStart)
		}
		return events[i].ClippedEnd.Before(events[j].ClippedEnd)
	})

	out := make([]Positioned, 0, len(events))
	clusterStart := 0
	var clusterMaxEnd time.Time

	for i, e := range events {
		// A gap between the running max end and the next start closes
		// the cluster: nothing later can overlap anything earlier.
		if i > clusterStart && !e.ClippedStart.Before(clusterMaxEnd) {
			out = append(out, packCluster(events[clusterStart:i])...)
			clusterStart = i
		}
		if e.ClippedEnd.After(clusterMaxEnd) {
			clusterMaxEnd = e.ClippedEnd
		}
	}
	out = append(out, packCluster(events[clusterStart:])...)

	return out
}

// packCluster greedily assigns lanes within one overlap cluster. Events
// arrive sorted by start; each takes the lowest-indexed lane that has
// already ended, opening a new lane only when every existing one is
// still busy. The result uses the minimum possible number of lanes.
func packCluster(cluster []event.Clipped) []Positioned {
	positioned := make([]Positioned, len(cluster))
	var laneEnds []time.Time

	for i, e := range cluster {
		lane := -1
		for l, end := range laneEnds {
			if !e.ClippedStart.Before(end) {
				lane = l
				break
			}
		}
		if lane == -1 {
			lane = len(laneEnds)
			laneEnds = append(laneEnds, time.Time{})
		}
		laneEnds[lane] = e.ClippedEnd
		positioned[i] = Positioned{Clipped: e, Lane: lane}
	}

	count := len(laneEnds)
	if count < 1 {
		count = 1
	}
	for i := range positioned {
		positioned[i].LaneCount = count
	}
	return positioned
}
