package timeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"aawo/internal/block"
	"aawo/internal/event"
	"aawo/internal/remote"
)

type fakeBlocks struct {
	blocks []*block.Block
	err    error
}

func (f *fakeBlocks) CreateBlock(ctx context.Context, b *block.Block) error { return nil }
func (f *fakeBlocks) GetBlock(ctx context.Context, id string) (*block.Block, error) {
	return nil, nil
}
func (f *fakeBlocks) ListBlocks(ctx context.Context, start, end time.Time) ([]*block.Block, error) {
	return f.blocks, f.err
}
func (f *fakeBlocks) UpdateBlockTimes(ctx context.Context, id string, start, end time.Time) error {
	return nil
}
func (f *fakeBlocks) DeleteBlock(ctx context.Context, id string) error { return nil }
func (f *fakeBlocks) UpsertRemoteBlock(ctx context.Context, b *block.Block) (bool, error) {
	return false, nil
}

type fakeLister struct {
	events []event.RemoteEvent
	err    error
}

func (f *fakeLister) ListEvents(ctx context.Context, start, end time.Time) ([]event.RemoteEvent, error) {
	return f.events, f.err
}

func at(h, m int) time.Time {
	return time.Date(2025, 1, 15, h, m, 0, 0, time.UTC)
}

func ts(h, m int) event.Timestamp {
	return event.Timestamp{Time: at(h, m)}
}

var window = struct{ start, end time.Time }{
	start: time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC),
	end:   time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC),
}

func TestRefreshMergesSources(t *testing.T) {
	blocks := &fakeBlocks{blocks: []*block.Block{
		{ID: "b1", Title: "Deep work", Start: at(9, 0), End: at(10, 0), Source: block.SourceApp},
		{ID: "b2", Title: "Standup", Start: at(10, 0), End: at(10, 30), Source: block.SourceExternal, RemoteEventID: "ev-1"},
	}}
	lister := &fakeLister{events: []event.RemoteEvent{
		{ID: "ev-1", Subject: "Standup", Start: ts(10, 0), End: ts(10, 30)},
		{ID: "ev-2", Subject: "1:1", Start: ts(14, 0), End: ts(14, 30)},
	}}

	c := New(blocks, lister)
	snap, err := c.Refresh(context.Background(), window.start, window.end)
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	// Two local events plus one remote; ev-1 is deduplicated into its mirror.
	if len(snap.Events) != 3 {
		t.Fatalf("got %d events, want 3", len(snap.Events))
	}
	if snap.Notice != "" {
		t.Errorf("Notice = %q, want empty on success", snap.Notice)
	}
	for _, e := range snap.Events {
		if e.ExternalID == "ev-1" && e.Kind == event.KindRemote {
			t.Error("mirrored event survived as its remote twin")
		}
	}
}

func TestRefreshRemoteFailureDegrades(t *testing.T) {
	blocks := &fakeBlocks{blocks: []*block.Block{
		{ID: "b1", Title: "Deep work", Start: at(9, 0), End: at(10, 0), Source: block.SourceApp},
	}}
	lister := &fakeLister{err: &remote.APIError{StatusCode: 500, Message: "boom"}}

	c := New(blocks, lister)
	snap, err := c.Refresh(context.Background(), window.start, window.end)
	if err != nil {
		t.Fatalf("Refresh must degrade, not fail: %v", err)
	}
	if len(snap.Events) != 1 {
		t.Errorf("got %d events, want local-only view", len(snap.Events))
	}
	if snap.Notice == "" {
		t.Error("degraded snapshot is missing its notice")
	}
}

func TestRefreshNotConnectedIsQuiet(t *testing.T) {
	c := New(&fakeBlocks{}, &fakeLister{err: remote.ErrNotConnected})

	snap, err := c.Refresh(context.Background(), window.start, window.end)
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if snap.Notice != "" {
		t.Errorf("unconnected provider produced notice %q, want none", snap.Notice)
	}
}

func TestRefreshLocalFailureIsFatal(t *testing.T) {
	boom := errors.New("db down")
	c := New(&fakeBlocks{err: boom}, nil)

	_, err := c.Refresh(context.Background(), window.start, window.end)
	if !errors.Is(err, boom) {
		t.Errorf("Refresh = %v, want local error propagated", err)
	}
}

func TestCurrentRejectsSupersededSnapshots(t *testing.T) {
	c := New(&fakeBlocks{}, nil)
	ctx := context.Background()

	first, err := c.Refresh(ctx, window.start, window.end)
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if !c.Current(first) {
		t.Error("only snapshot is not current")
	}

	second, err := c.Refresh(ctx, window.start, window.end)
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if c.Current(first) {
		t.Error("superseded snapshot still reported current")
	}
	if !c.Current(second) {
		t.Error("latest snapshot not reported current")
	}
	if c.Current(nil) {
		t.Error("nil snapshot reported current")
	}
}

func TestSnapshotDay(t *testing.T) {
	snap := &Snapshot{Events: []event.Event{
		{ID: "a", Start: at(9, 0), End: at(10, 0), Kind: event.KindLocal},
		{ID: "b", Start: at(9, 30), End: at(10, 30), Kind: event.KindLocal},
		{ID: "night", Start: at(23, 0), End: at(23, 30), Kind: event.KindLocal},
	}}

	day := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	positioned := snap.Day(day, 8*60, 22*60)

	if len(positioned) != 2 {
		t.Fatalf("got %d events in visible hours, want 2", len(positioned))
	}
	for _, p := range positioned {
		if p.LaneCount != 2 {
			t.Errorf("event %s LaneCount = %d, want 2", p.ID, p.LaneCount)
		}
	}
}
