// Package event builds the unified timeline: it normalizes locally owned
// calendar blocks and remote provider events into one canonical shape,
// deduplicates mirrored events, and clips the result to a visible window.
package event

import (
	"encoding/json"
	"time"
)

// Kind records where a canonical event came from.
type Kind string

const (
	// KindLocal is a block authored in this application.
	KindLocal Kind = "local"
	// KindRemote is an event owned by the remote calendar provider.
	KindRemote Kind = "remote"
	// KindMixed is a local block that mirrors a remote provider event.
	KindMixed Kind = "mixed"
)

// DefaultTitle is used when a source event carries no title.
const DefaultTitle = "Event"

// ID prefixes keep the two source namespaces from colliding.
const (
	localIDPrefix  = "local-"
	remoteIDPrefix = "remote-"
)

// Event is the canonical calendar item, regardless of origin. Events are
// transient view-model values: they are rebuilt from raw inputs on every
// refresh and never persisted.
//
// Zero Start/End values mark malformed source timestamps. Such events
// survive normalization but are dropped by Merge, as are events whose End
// does not lie after their Start.
type Event struct {
	ID         string
	Title      string
	Start, End time.Time
	Kind       Kind
	// ExternalID back-references the remote provider's event identifier.
	// It is used only for deduplication, never for ownership decisions.
	ExternalID string
}

// Valid reports whether the event has usable timestamps.
func (e Event) Valid() bool {
	return !e.Start.IsZero() && !e.End.IsZero() && e.End.After(e.Start)
}

// Timestamp decodes the two timestamp shapes the remote provider emits:
// a plain RFC3339 string, or a nested {"dateTime": ..., "timeZone": ...}
// object. Anything else leaves the timestamp zero rather than failing the
// surrounding decode.
type Timestamp struct {
	time.Time
}

type nestedDateTime struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone"`
}

// UnmarshalJSON never returns an error: malformed input yields a zero
// timestamp, which the merge step later filters out.
func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	ts.Time = time.Time{}

	var direct string
	if err := json.Unmarshal(data, &direct); err == nil {
		ts.Time = parseProviderTime(direct, "")
		return nil
	}

	var nested nestedDateTime
	if err := json.Unmarshal(data, &nested); err == nil {
		ts.Time = parseProviderTime(nested.DateTime, nested.TimeZone)
		return nil
	}

	return nil
}

// parseProviderTime parses a provider timestamp string. The provider sends
// either RFC3339 or a zone-less "2006-01-02T15:04:05" paired with a named
// timeZone field.
func parseProviderTime(value, zone string) time.Time {
	if value == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t
	}

	loc := time.UTC
	if zone != "" {
		if parsed, err := time.LoadLocation(zone); err == nil {
			loc = parsed
		}
	}
	if t, err := time.ParseInLocation("2006-01-02T15:04:05", value, loc); err == nil {
		return t
	}
	if t, err := time.ParseInLocation("2006-01-02T15:04:05.999999999", value, loc); err == nil {
		return t
	}
	return time.Time{}
}

// RemoteEvent is the raw remote provider event as received on the wire.
type RemoteEvent struct {
	ID      string    `json:"id"`
	Subject string    `json:"subject"`
	Start   Timestamp `json:"start"`
	End     Timestamp `json:"end"`
}
