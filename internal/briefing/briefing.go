// Package briefing builds the daily briefing: where the day's time
// goes, which open tasks deserve it, and what is at risk.
package briefing

import (
	"context"
	"fmt"
	"sort"
	"time"

	"aawo/internal/block"
	"aawo/internal/dateutil"
	"aawo/internal/task"
)

// maxSlotMinutes caps a recommended work slot.
const maxSlotMinutes = 90

// topTaskCount is how many open tasks the briefing surfaces.
const topTaskCount = 5

var priorityScore = map[task.Priority]int{
	task.PriorityCritical: 4,
	task.PriorityHigh:     3,
	task.PriorityMedium:   2,
	task.PriorityLow:      1,
}

// Slot is a concrete free time range recommended for a task.
type Slot struct {
	Start time.Time
	End   time.Time
}

// Recommendation pairs an open task with the day's first free slot.
// Slot is nil when the working window has no room left.
type Recommendation struct {
	TaskID string
	Title  string
	Reason string
	Slot   *Slot
}

// Stats aggregates where the day's minutes go. FreeMinutes is the
// working window minus everything already booked, floored at zero.
type Stats struct {
	MeetingMinutes int
	FocusMinutes   int
	FreeMinutes    int
}

// Briefing is one day's summary.
type Briefing struct {
	Date      time.Time
	TopTasks  []Recommendation
	Risks     []string
	Reminders []string
	Stats     Stats
}

// Summarize builds a briefing from already-loaded data. The working
// window is given as minutes from midnight; blocks outside the day are
// clamped to it before counting.
func Summarize(date time.Time, dayStartMin, dayEndMin int, blocks []*block.Block, tasks []*task.Task) *Briefing {
	date = dateutil.TruncateToDay(date)
	dayStart := date
	dayEnd := date.AddDate(0, 0, 1)
	workStart := dateutil.AtClock(date, dayStartMin)
	workEnd := dateutil.AtClock(date, dayEndMin)

	var busy []Slot
	var busyMinutes, focusMinutes, meetingMinutes int
	for _, b := range blocks {
		start, end := clampRange(b.Start, b.End, dayStart, dayEnd)
		if !end.After(start) {
			continue
		}
		busy = append(busy, Slot{Start: start, End: end})
		busyMinutes += minutesBetween(start, end)

		switch {
		case b.Type == block.TypeFocus || b.Type == block.TypeTask:
			focusMinutes += minutesBetween(start, end)
		case b.Type == block.TypeOther && b.IsExternal():
			meetingMinutes += minutesBetween(start, end)
		}
	}

	workMinutes := dayEndMin - dayStartMin
	freeMinutes := workMinutes - busyMinutes
	if freeMinutes < 0 {
		freeMinutes = 0
	}

	open := sortedByUrgency(tasks)
	slot := firstFreeSlot(workStart, workEnd, busy)

	var top []Recommendation
	for _, t := range open {
		if len(top) == topTaskCount {
			break
		}
		rec := Recommendation{
			TaskID: t.ID,
			Title:  t.Title,
			Reason: fmt.Sprintf("priority %s, estimated %dm", t.Priority, t.EffortMinutes),
		}
		if slot != nil {
			s := *slot
			rec.Slot = &s
		}
		top = append(top, rec)
	}

	var overdue, dueToday []*task.Task
	for _, t := range open {
		if t.Due == nil {
			continue
		}
		due := t.Due.In(date.Location())
		switch {
		case due.Before(dayStart):
			overdue = append(overdue, t)
		case due.Before(dayEnd):
			dueToday = append(dueToday, t)
		}
	}

	var risks []string
	if len(overdue) > 0 {
		risks = append(risks, fmt.Sprintf("%d overdue task(s)", len(overdue)))
	}
	if len(dueToday) >= 3 {
		risks = append(risks, "three or more tasks are due today")
	}
	if freeMinutes < 120 {
		risks = append(risks, "less than two hours of free focus time")
	}

	var reminders []string
	for i, t := range dueToday {
		if i == 3 {
			break
		}
		reminders = append(reminders, fmt.Sprintf("%s is due today", t.Title))
	}

	return &Briefing{
		Date:      date,
		TopTasks:  top,
		Risks:     risks,
		Reminders: reminders,
		Stats: Stats{
			MeetingMinutes: meetingMinutes,
			FocusMinutes:   focusMinutes,
			FreeMinutes:    freeMinutes,
		},
	}
}

// Build loads the day's blocks and the open tasks, then summarizes.
func Build(ctx context.Context, blocks block.Repository, tasks task.Repository, date time.Time, dayStartMin, dayEndMin int) (*Briefing, error) {
	date = dateutil.TruncateToDay(date)

	dayBlocks, err := blocks.ListBlocks(ctx, date, date.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("fetching blocks: %w", err)
	}
	open, err := tasks.ListOpenTasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching tasks: %w", err)
	}

	return Summarize(date, dayStartMin, dayEndMin, dayBlocks, open), nil
}

// sortedByUrgency orders tasks by priority, then earliest due date;
// tasks without a due date sort last within their priority.
func sortedByUrgency(tasks []*task.Task) []*task.Task {
	sorted := make([]*task.Task, len(tasks))
	copy(sorted, tasks)
	sort.SliceStable(sorted, func(i, j int) bool {
		pi, pj := priorityScore[sorted[i].Priority], priorityScore[sorted[j].Priority]
		if pi != pj {
			return pi > pj
		}
		di, dj := sorted[i].Due, sorted[j].Due
		switch {
		case di == nil:
			return false
		case dj == nil:
			return true
		default:
			return di.Before(*dj)
		}
	})
	return sorted
}

// firstFreeSlot walks the busy ranges inside the working window and
// returns the first gap, capped at maxSlotMinutes. Nil means the
// window is fully booked.
func firstFreeSlot(workStart, workEnd time.Time, busy []Slot) *Slot {
	if !workEnd.After(workStart) {
		return nil
	}

	sorted := make([]Slot, len(busy))
	copy(sorted, busy)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start.Before(sorted[j].Start) })

	cursor := workStart
	for _, b := range sorted {
		if !b.End.After(cursor) {
			continue
		}
		if b.Start.After(cursor) {
			return capSlot(cursor, b.Start)
		}
		if b.End.After(cursor) {
			cursor = b.End
		}
	}
	if cursor.Before(workEnd) {
		return capSlot(cursor, workEnd)
	}
	return nil
}

func capSlot(start, end time.Time) *Slot {
	max := start.Add(maxSlotMinutes * time.Minute)
	if end.After(max) {
		end = max
	}
	return &Slot{Start: start, End: end}
}

func clampRange(start, end, lo, hi time.Time) (time.Time, time.Time) {
	if start.Before(lo) {
		start = lo
	}
	if end.After(hi) {
		end = hi
	}
	return start, end
}

func minutesBetween(start, end time.Time) int {
	return int(end.Sub(start) / time.Minute)
}
