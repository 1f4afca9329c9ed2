// Package timeline assembles the merged calendar view. A Controller
// owns the local and remote event sources and stamps every snapshot
// with a generation number so that out-of-order fetch results can be
// recognized and discarded.
package timeline

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"aawo/internal/block"
	"aawo/internal/dateutil"
	"aawo/internal/event"
	"aawo/internal/layout"
	"aawo/internal/remote"
)

// Snapshot is one consistent view of the calendar for a time window.
type Snapshot struct {
	Generation uint64
	Start      time.Time
	End        time.Time
	Events     []event.Event
	// Notice carries a user-facing degradation message, e.g. when the
	// provider was unreachable and only local events are shown.
	Notice    string
	FetchedAt time.Time
}

// Controller coordinates refreshes of the merged calendar.
type Controller struct {
	blocks     block.Repository
	remote     remote.Lister // nil when no provider is configured
	generation atomic.Uint64
}

// New creates a Controller. remoteLister may be nil for local-only use.
func New(blocks block.Repository, remoteLister remote.Lister) *Controller {
	return &Controller{blocks: blocks, remote: remoteLister}
}

// Refresh fetches both sources for [start, end) and returns a merged
// snapshot. A remote failure degrades to local-only with a notice; a
// local failure is fatal because blocks are the system of record.
// Each call takes a fresh generation, superseding all earlier ones.
func (c *Controller) Refresh(ctx context.Context, start, end time.Time) (*Snapshot, error) {
	generation := c.generation.Add(1)

	blocks, err := c.blocks.ListBlocks(ctx, start, end)
	if err != nil {
		return nil, err
	}
	local := event.NormalizeBlocks(blocks)

	var remoteEvents []event.Event
	var notice string
	if c.remote != nil {
		fetched, err := c.remote.ListEvents(ctx, start, end)
		switch {
		case errors.Is(err, remote.ErrNotConnected):
			// Not linked yet: a plain local calendar, not a failure.
		case err != nil:
			notice = "calendar provider unavailable, showing local events only"
		default:
			remoteEvents = event.NormalizeRemote(fetched)
		}
	}

	return &Snapshot{
		Generation: generation,
		Start:      start,
		End:        end,
		Events:     event.Merge(local, remoteEvents),
		Notice:     notice,
		FetchedAt:  time.Now(),
	}, nil
}

// Current reports whether the snapshot is still the newest one. A
// snapshot that lost the race to a later Refresh must be dropped, never
// rendered over fresher data.
func (c *Controller) Current(s *Snapshot) bool {
	return s != nil && s.Generation == c.generation.Load()
}

// Day clips the snapshot to one day's visible hours and lays the
// surviving events out into lanes. dayStartMin and dayEndMin are
// minutes from midnight, e.g. 8*60 and 22*60.
func (s *Snapshot) Day(date time.Time, dayStartMin, dayEndMin int) []layout.Positioned {
	winStart := dateutil.AtClock(date, dayStartMin)
	winEnd := dateutil.AtClock(date, dayEndMin)
	return layout.Assign(event.ClipAll(s.Events, winStart, winEnd))
}
