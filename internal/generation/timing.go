// Copyright (c) 2026 Peter Pitcher
// All rights reserved. See LICENSE for details.

package generation

import (
	"fmt"
	"time"
)

// DefaultLocation is the venue operating region assumed when a tenant has no
// explicit timezone. All relative date phrasing resolves against it.
var DefaultLocation = func() *time.Location {
	loc, err := time.LoadLocation("Europe/London")
	if err != nil {
		return time.UTC
	}
	return loc
}()

// RelativeTimingLabel describes how far event is from scheduled, phrased the
// way the caption should phrase it at posting time. Both times are
// interpreted in loc (the venue's operating region):
//
//	same calendar day            → "today"
//	next calendar day            → "tomorrow"
//	2-7 days, same Monday week   → "this Friday"
//	2-7 days, following week     → "next Monday"
//	anything else                → "31 January 2026"
func RelativeTimingLabel(event, scheduled time.Time, loc *time.Location) string {
	ev := dateOnly(event, loc)
	sc := dateOnly(scheduled, loc)

	days := calendarDays(sc, ev)
	switch {
	case days == 0:
		return "today"
	case days == 1:
		return "tomorrow"
	case days >= 2 && days <= 7:
		if startOfWeek(ev).Equal(startOfWeek(sc)) {
			return "this " + ev.Weekday().String()
		}
		return "next " + ev.Weekday().String()
	default:
		return LongFormDate(event, loc)
	}
}

// LongFormDate renders a date in the British long form, e.g. "31 January 2026".
func LongFormDate(t time.Time, loc *time.Location) string {
	t = t.In(loc)
	return fmt.Sprintf("%d %s %d", t.Day(), t.Month().String(), t.Year())
}

// calendarDays counts whole calendar days from one local midnight to
// another. The dates are re-anchored in UTC first: a DST clock change makes
// local midnights 23 or 25 hours apart, so dividing the wall-clock duration
// would miscount any span crossing the change.
func calendarDays(from, to time.Time) int {
	f := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	t := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(t.Sub(f).Hours() / 24)
}

// dateOnly truncates a time to local midnight in loc.
func dateOnly(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// startOfWeek returns Monday 00:00 of the week containing t.
// t must already be a local midnight from dateOnly.
func startOfWeek(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7 // Monday=0 ... Sunday=6
	return t.AddDate(0, 0, -offset)
}

// sameCalendarDay reports whether a and b fall on the same date in loc.
func sameCalendarDay(a, b time.Time, loc *time.Location) bool {
	return dateOnly(a, loc).Equal(dateOnly(b, loc))
}
