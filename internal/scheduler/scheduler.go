// Package scheduler finds free calendar slots for task execution blocks.
package scheduler

import (
	"context"
	"errors"
	"time"

	"aawo/internal/block"
)

const (
	// slotStep is the alignment grid for candidate slots.
	slotStep = 30 * time.Minute
	// horizon bounds the search; past it the calendar is too uncertain
	// to book automatically.
	horizon = 48 * time.Hour

	minSlotMinutes = 30
	maxSlotMinutes = 120
)

// ErrNoFreeSlot means no gap fits the duration within the search horizon.
var ErrNoFreeSlot = errors.New("no free slot within scheduling horizon")

// Scheduler picks execution slots against the stored calendar.
type Scheduler struct {
	blocks block.Repository
}

// New creates a Scheduler backed by the given block repository.
func New(blocks block.Repository) *Scheduler {
	return &Scheduler{blocks: blocks}
}

// NextFreeSlot returns the first conflict-free slot after now that fits
// the effort. The slot duration is the effort clamped to [30, 120]
// minutes; larger tasks get a first working session, not a marathon.
// Candidates advance on a 30 minute grid.
func (s *Scheduler) NextFreeSlot(ctx context.Context, now time.Time, effortMinutes int) (start, end time.Time, err error) {
	duration := time.Duration(clampInt(effortMinutes, minSlotMinutes, maxSlotMinutes)) * time.Minute

	cursor := now.Truncate(slotStep)
	if cursor.Before(now) {
		cursor = cursor.Add(slotStep)
	}
	horizonEnd := now.Add(horizon)

	// One window query covers every candidate; checking conflicts in
	// memory avoids a round trip per grid step.
	busy, err := s.blocks.ListBlocks(ctx, cursor, horizonEnd.Add(duration))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	for cursor.Before(horizonEnd) {
		candidateEnd := cursor.Add(duration)
		if !conflicts(busy, cursor, candidateEnd) {
			return cursor, candidateEnd, nil
		}
		cursor = cursor.Add(slotStep)
	}

	return time.Time{}, time.Time{}, ErrNoFreeSlot
}

func conflicts(busy []*block.Block, start, end time.Time) bool {
	for _, b := range busy {
		if block.Overlaps(start, end, b.Start, b.End) {
			return true
		}
	}
	return false
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
