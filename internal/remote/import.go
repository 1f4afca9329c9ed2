package remote

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"aawo/internal/block"
	"aawo/internal/event"
)

// Lister is the slice of Client the importer needs.
type Lister interface {
	ListEvents(ctx context.Context, start, end time.Time) ([]event.RemoteEvent, error)
}

// Importer mirrors provider events into local blocks so they appear on
// the calendar even when the provider is unreachable.
type Importer struct {
	client Lister
	blocks block.Repository
}

// NewImporter creates an Importer.
func NewImporter(client Lister, blocks block.Repository) *Importer {
	return &Importer{client: client, blocks: blocks}
}

// ImportResult summarizes one import run.
type ImportResult struct {
	Fetched int
	Created int
	Updated int
	Skipped int
}

// Run fetches the provider's events for [start, end) and upserts a
// locked mirror block per event. Mirrors are keyed by the provider's
// event id and refreshed in place when the provider moves an event.
func (im *Importer) Run(ctx context.Context, start, end time.Time) (*ImportResult, error) {
	events, err := im.client.ListEvents(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("listing provider events: %w", err)
	}

	result := &ImportResult{Fetched: len(events)}
	for _, ev := range events {
		if ev.ID == "" || ev.Start.IsZero() || ev.End.IsZero() || !ev.End.After(ev.Start.Time) {
			result.Skipped++
			continue
		}

		title := ev.Subject
		if title == "" {
			title = event.DefaultTitle
		}

		now := time.Now()
		mirror := &block.Block{
			ID:            uuid.NewString(),
			Type:          block.TypeOther,
			Title:         title,
			Start:         ev.Start.Time,
			End:           ev.End.Time,
			Locked:        true,
			Source:        block.SourceExternal,
			RemoteEventID: ev.ID,
			Version:       1,
			CreatedAt:     now,
			UpdatedAt:     now,
		}

		created, err := im.blocks.UpsertRemoteBlock(ctx, mirror)
		if err != nil {
			return result, fmt.Errorf("mirroring event %q: %w", ev.ID, err)
		}
		if created {
			result.Created++
		} else {
			result.Updated++
		}
	}

	return result, nil
}
