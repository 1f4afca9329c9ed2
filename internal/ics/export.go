// Package ics serializes merged calendar events to iCalendar for use in
// other calendar applications.
package ics

import (
	"fmt"
	"time"

	ical "github.com/arran4/golang-ical"

	"aawo/internal/event"
)

const prodID = "-//aawo//calendar export//EN"

// Export renders the events as a VCALENDAR. Event IDs become UIDs, so
// repeated exports of the same window produce stable identifiers.
// Invalid events are skipped rather than poisoning the whole file.
func Export(events []event.Event, now time.Time) string {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(prodID)

	for _, e := range events {
		if !e.Valid() {
			continue
		}

		ve := cal.AddEvent(fmt.Sprintf("%s@aawo", e.ID))
		ve.SetDtStampTime(now)
		ve.SetStartAt(e.Start)
		ve.SetEndAt(e.End)

		title := e.Title
		if title == "" {
			title = event.DefaultTitle
		}
		ve.SetSummary(title)

		// Kind travels as a category so round trips keep provenance.
		ve.AddProperty(ical.ComponentPropertyCategories, string(e.Kind))
	}

	return cal.Serialize()
}
