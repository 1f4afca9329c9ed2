// Package dateutil provides date and clock arithmetic shared by the
// navigation, clipping, and scheduling code.
package dateutil

import (
	"errors"
	"fmt"
	"time"
)

// Validation errors.
var (
	ErrInvalidDateFormat  = errors.New("date must be in YYYY-MM-DD format")
	ErrInvalidClockFormat = errors.New("time must be in HH:MM format")
)

// TruncateToDay returns t with time set to midnight in t's location.
func TruncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// WeekStart returns the Monday on or before the given date, at midnight.
func WeekStart(t time.Time) time.Time {
	t = TruncateToDay(t)
	weekday := int(t.Weekday())
	// Sunday becomes day 7 so the week runs Monday through Sunday.
	if weekday == 0 {
		weekday = 7
	}
	return t.AddDate(0, 0, -(weekday - 1))
}

// WeekEnd returns the Sunday of the week containing t, at midnight.
func WeekEnd(t time.Time) time.Time {
	return WeekStart(t).AddDate(0, 0, 6)
}

// MonthStart returns the first day of the month containing t, at midnight.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return TruncateToDay(a).Equal(TruncateToDay(b))
}

// ParseDate parses a date string in YYYY-MM-DD format in the given location.
// An empty string returns today's date.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	if s == "" {
		return TruncateToDay(time.Now().In(loc)), nil
	}
	t, err := time.ParseInLocation("2006-01-02", s, loc)
	if err != nil {
		return time.Time{}, ErrInvalidDateFormat
	}
	return t, nil
}

// ParseClock parses an "HH:MM" string into minutes since midnight.
func ParseClock(s string) (int, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, ErrInvalidClockFormat
	}
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, ErrInvalidClockFormat
	}
	return t.Hour()*60 + t.Minute(), nil
}

// ClockToString formats minutes since midnight as "HH:MM".
func ClockToString(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	if minutes > 23*60+59 {
		minutes = 23*60 + 59
	}
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// AtClock returns the given day with the clock (minutes since midnight)
// applied, preserving the day's location.
func AtClock(day time.Time, minutes int) time.Time {
	day = TruncateToDay(day)
	return day.Add(time.Duration(minutes) * time.Minute)
}
