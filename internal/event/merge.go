package event

import "sort"

// Merge combines local and remote canonical events into one time-ordered
// sequence.
//
// Remote events whose ExternalID is already mirrored by a local event are
// excluded: the same meeting must not render twice once it has been
// imported as a local block. Events with missing or inverted timestamps
// are dropped. The sort by start time is stable, so events that tie keep
// their original order (locals before the filtered remotes).
func Merge(local, remote []Event) []Event {
	mirrored := make(map[string]struct{}, len(local))
	for _, e := range local {
		if e.ExternalID != "" {
			mirrored[e.ExternalID] = struct{}{}
		}
	}

	merged := make([]Event, 0, len(local)+len(remote))
	for _, e := range local {
		if e.Valid() {
			merged = append(merged, e)
		}
	}
	for _, e := range remote {
		if !e.Valid() {
			continue
		}
		if _, ok := mirrored[e.ExternalID]; ok {
			continue
		}
		merged = append(merged, e)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Start.Before(merged[j].Start)
	})
	return merged
}
