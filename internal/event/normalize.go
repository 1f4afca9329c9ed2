package event

import (
	"aawo/internal/block"
)

// NormalizeBlocks converts locally owned calendar blocks into canonical
// events. Pure transform: no input is rejected, malformed timestamps ride
// along as zero values until Merge drops them.
func NormalizeBlocks(blocks []*block.Block) []Event {
	events := make([]Event, 0, len(blocks))
	for _, b := range blocks {
		if b == nil {
			continue
		}
		events = append(events, Event{
			ID:         localIDPrefix + b.ID,
			Title:      orDefault(b.Title),
			Start:      b.Start,
			End:        b.End,
			Kind:       blockKind(b),
			ExternalID: b.RemoteEventID,
		})
	}
	return events
}

// blockKind classifies a local block: blocks flagged as externally sourced
// are remote, blocks carrying a remote back-reference are mixed mirrors,
// everything else is purely local.
func blockKind(b *block.Block) Kind {
	switch {
	case b.IsExternal():
		return KindRemote
	case b.IsMirror():
		return KindMixed
	default:
		return KindLocal
	}
}

// NormalizeRemote converts raw remote provider events into canonical
// events. Remote events always carry KindRemote and reference themselves
// through ExternalID so Merge can spot local mirrors.
func NormalizeRemote(events []RemoteEvent) []Event {
	out := make([]Event, 0, len(events))
	for _, re := range events {
		if re.ID == "" {
			continue
		}
		out = append(out, Event{
			ID:         remoteIDPrefix + re.ID,
			Title:      orDefault(re.Subject),
			Start:      re.Start.Time,
			End:        re.End.Time,
			Kind:       KindRemote,
			ExternalID: re.ID,
		})
	}
	return out
}

func orDefault(title string) string {
	if title == "" {
		return DefaultTitle
	}
	return title
}
