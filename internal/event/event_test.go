package event

import (
	"encoding/json"
	"testing"
	"time"

	"aawo/internal/block"
)

func at(hour, min int) time.Time {
	return time.Date(2025, 1, 15, hour, min, 0, 0, time.UTC)
}

func TestTimestampUnmarshal(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		want     time.Time
		wantZero bool
	}{
		{
			name: "rfc3339 string",
			in:   `"2025-01-15T10:00:00Z"`,
			want: at(10, 0),
		},
		{
			name: "nested dateTime object",
			in:   `{"dateTime":"2025-01-15T10:00:00","timeZone":"UTC"}`,
			want: at(10, 0),
		},
		{
			name: "nested with fractional seconds",
			in:   `{"dateTime":"2025-01-15T10:00:00.0000000","timeZone":"UTC"}`,
			want: at(10, 0),
		},
		{
			name:     "garbage string",
			in:       `"yesterday-ish"`,
			wantZero: true,
		},
		{
			name:     "wrong shape",
			in:       `42`,
			wantZero: true,
		},
		{
			name:     "empty object",
			in:       `{}`,
			wantZero: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts Timestamp
			if err := json.Unmarshal([]byte(tt.in), &ts); err != nil {
				t.Fatalf("Unmarshal(%s) returned error: %v", tt.in, err)
			}
			if tt.wantZero {
				if !ts.IsZero() {
					t.Errorf("Unmarshal(%s) = %v, want zero", tt.in, ts.Time)
				}
				return
			}
			if !ts.Equal(tt.want) {
				t.Errorf("Unmarshal(%s) = %v, want %v", tt.in, ts.Time, tt.want)
			}
		})
	}
}

func TestNormalizeBlocksKinds(t *testing.T) {
	blocks := []*block.Block{
		{ID: "b1", Title: "Deep work", Start: at(9, 0), End: at(10, 0), Source: block.SourceApp},
		{ID: "b2", Title: "Standup", Start: at(10, 0), End: at(10, 30), Source: block.SourceApp, RemoteEventID: "ev-1"},
		{ID: "b3", Title: "Imported", Start: at(11, 0), End: at(12, 0), Source: block.SourceExternal, RemoteEventID: "ev-2"},
	}

	events := NormalizeBlocks(blocks)
	if len(events) != 3 {
		t.Fatalf("NormalizeBlocks returned %d events, want 3", len(events))
	}

	if events[0].Kind != KindLocal {
		t.Errorf("plain block kind = %s, want local", events[0].Kind)
	}
	if events[1].Kind != KindMixed {
		t.Errorf("mirror block kind = %s, want mixed", events[1].Kind)
	}
	if events[2].Kind != KindRemote {
		t.Errorf("external block kind = %s, want remote", events[2].Kind)
	}
	if events[0].ID != "local-b1" {
		t.Errorf("event ID = %q, want source-prefixed id", events[0].ID)
	}
}

func TestNormalizeRemoteDefaults(t *testing.T) {
	events := NormalizeRemote([]RemoteEvent{
		{ID: "ev-1", Start: Timestamp{at(9, 0)}, End: Timestamp{at(10, 0)}},
		{ID: ""}, // no id: unusable, skipped
	})

	if len(events) != 1 {
		t.Fatalf("NormalizeRemote returned %d events, want 1", len(events))
	}
	e := events[0]
	if e.ID != "remote-ev-1" {
		t.Errorf("ID = %q, want remote-ev-1", e.ID)
	}
	if e.Title != DefaultTitle {
		t.Errorf("Title = %q, want fallback %q", e.Title, DefaultTitle)
	}
	if e.Kind != KindRemote || e.ExternalID != "ev-1" {
		t.Errorf("Kind/ExternalID = %s/%q, want remote/ev-1", e.Kind, e.ExternalID)
	}
}

func TestMergeDeduplicatesMirroredRemote(t *testing.T) {
	local := []Event{
		{ID: "local-b1", Title: "Standup", Start: at(10, 0), End: at(10, 30), Kind: KindMixed, ExternalID: "ev-1"},
	}
	remote := []Event{
		{ID: "remote-ev-1", Title: "Standup", Start: at(10, 0), End: at(10, 30), Kind: KindRemote, ExternalID: "ev-1"},
		{ID: "remote-ev-2", Title: "1:1", Start: at(14, 0), End: at(14, 30), Kind: KindRemote, ExternalID: "ev-2"},
	}

	merged := Merge(local, remote)
	if len(merged) != 2 {
		t.Fatalf("Merge returned %d events, want 2", len(merged))
	}

	seen := 0
	for _, e := range merged {
		if e.ExternalID == "ev-1" {
			seen++
			if e.Kind == KindRemote {
				t.Errorf("mirrored event kept the remote twin, kind = %s", e.Kind)
			}
		}
	}
	if seen != 1 {
		t.Errorf("externalId ev-1 appears %d times, want exactly 1", seen)
	}
}

func TestMergeDropsMalformedAndSorts(t *testing.T) {
	local := []Event{
		{ID: "local-b1", Start: at(15, 0), End: at(16, 0), Kind: KindLocal},
		{ID: "local-b2", Start: time.Time{}, End: at(9, 0), Kind: KindLocal}, // missing start
		{ID: "local-b3", Start: at(12, 0), End: at(11, 0), Kind: KindLocal},  // inverted
		{ID: "local-b4", Start: at(8, 0), End: at(8, 0), Kind: KindLocal},    // zero duration
	}
	remote := []Event{
		{ID: "remote-ev-1", Start: at(9, 0), End: at(10, 0), Kind: KindRemote, ExternalID: "ev-1"},
	}

	merged := Merge(local, remote)
	if len(merged) != 2 {
		t.Fatalf("Merge returned %d events, want 2 (malformed dropped)", len(merged))
	}
	for i := 1; i < len(merged); i++ {
		if merged[i].Start.Before(merged[i-1].Start) {
			t.Errorf("merge output not sorted: %v before %v", merged[i].Start, merged[i-1].Start)
		}
	}
}

func TestMergeStableOnStartTies(t *testing.T) {
	local := []Event{
		{ID: "local-a", Start: at(9, 0), End: at(10, 0), Kind: KindLocal},
	}
	remote := []Event{
		{ID: "remote-b", Start: at(9, 0), End: at(9, 30), Kind: KindRemote, ExternalID: "b"},
	}

	merged := Merge(local, remote)
	if len(merged) != 2 {
		t.Fatalf("Merge returned %d events, want 2", len(merged))
	}
	if merged[0].ID != "local-a" || merged[1].ID != "remote-b" {
		t.Errorf("tie order = [%s, %s], want locals before remotes", merged[0].ID, merged[1].ID)
	}
}

func TestClip(t *testing.T) {
	winStart := at(10, 0)
	winEnd := at(11, 0)

	tests := []struct {
		name       string
		start, end time.Time
		wantOK     bool
		wantStart  time.Time
		wantEnd    time.Time
	}{
		{
			name:  "overlapping tail is clamped",
			start: at(10, 30), end: at(12, 0),
			wantOK: true, wantStart: at(10, 30), wantEnd: at(11, 0),
		},
		{
			name:  "event ending at window start is excluded",
			start: at(9, 0), end: at(10, 0),
			wantOK: false,
		},
		{
			name:  "event starting at window end is excluded",
			start: at(11, 0), end: at(12, 0),
			wantOK: false,
		},
		{
			name:  "event spanning the whole window",
			start: at(8, 0), end: at(20, 0),
			wantOK: true, wantStart: at(10, 0), wantEnd: at(11, 0),
		},
		{
			name:  "event fully inside keeps its bounds",
			start: at(10, 15), end: at(10, 45),
			wantOK: true, wantStart: at(10, 15), wantEnd: at(10, 45),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ok := Clip(Event{ID: "e", Start: tt.start, End: tt.end}, winStart, winEnd)
			if ok != tt.wantOK {
				t.Fatalf("Clip ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if !c.ClippedStart.Equal(tt.wantStart) || !c.ClippedEnd.Equal(tt.wantEnd) {
				t.Errorf("Clip = [%v, %v), want [%v, %v)",
					c.ClippedStart, c.ClippedEnd, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestClipAllPreservesOrder(t *testing.T) {
	events := []Event{
		{ID: "a", Start: at(9, 0), End: at(10, 30)},
		{ID: "b", Start: at(10, 0), End: at(10, 15)},
		{ID: "c", Start: at(23, 0), End: at(23, 30)}, // outside
	}

	clipped := ClipAll(events, at(10, 0), at(11, 0))
	if len(clipped) != 2 {
		t.Fatalf("ClipAll returned %d events, want 2", len(clipped))
	}
	if clipped[0].ID != "a" || clipped[1].ID != "b" {
		t.Errorf("ClipAll order = [%s, %s], want [a, b]", clipped[0].ID, clipped[1].ID)
	}
}
