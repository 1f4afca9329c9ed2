// Package nav models calendar navigation as a pure state machine.
// Transitions return the next state plus a signal describing what data,
// if any, must be refetched. No transition performs I/O itself.
package nav

import (
	"time"

	"aawo/internal/dateutil"
)

// State captures the navigation position. WeekStart is always the
// Monday of the week containing Selected. MonthCursor tracks the month
// grid independently so that browsing months does not move Selected.
type State struct {
	Selected    time.Time
	WeekStart   time.Time
	MonthCursor time.Time
}

// Signal tells the caller what a transition invalidated. WeekChanged
// means the visible week window moved and its events must be refetched.
type Signal struct {
	WeekChanged bool
}

// New builds the initial state centered on the given day.
func New(day time.Time) State {
	day = dateutil.TruncateToDay(day)
	return State{
		Selected:    day,
		WeekStart:   dateutil.WeekStart(day),
		MonthCursor: dateutil.MonthStart(day),
	}
}

// SelectDay moves the selection to an arbitrary day, realigning the
// week and the month cursor around it.
func (s State) SelectDay(day time.Time) (State, Signal) {
	day = dateutil.TruncateToDay(day)
	next := State{
		Selected:    day,
		WeekStart:   dateutil.WeekStart(day),
		MonthCursor: dateutil.MonthStart(day),
	}
	return next, Signal{WeekChanged: !next.WeekStart.Equal(s.WeekStart)}
}

// StepDay moves the selection by whole days. Crossing a Monday boundary
// in either direction changes the week.
func (s State) StepDay(days int) (State, Signal) {
	return s.SelectDay(s.Selected.AddDate(0, 0, days))
}

// PageWeek shifts the selection by whole weeks, keeping the weekday.
func (s State) PageWeek(weeks int) (State, Signal) {
	return s.SelectDay(s.Selected.AddDate(0, 0, 7*weeks))
}

// JumpToToday recenters everything on the current day.
func (s State) JumpToToday(now time.Time) (State, Signal) {
	return s.SelectDay(now)
}

// PageMonth moves only the month cursor. The selected day and week stay
// where they are, so no refetch is needed.
func (s State) PageMonth(months int) (State, Signal) {
	s.MonthCursor = s.MonthCursor.AddDate(0, months, 0)
	return s, Signal{}
}

// WeekEnd is the exclusive end of the visible week window.
func (s State) WeekEnd() time.Time {
	return s.WeekStart.AddDate(0, 0, 7)
}
