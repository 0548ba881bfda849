// Copyright (c) 2026 Peter Pitcher
// All rights reserved. See LICENSE for details.

package generation

import (
	"testing"
	"time"
)

// Wednesday 2 September 2026, 10:00 UTC. The Monday of that week is 31 August.
var baseWednesday = time.Date(2026, time.September, 2, 10, 0, 0, 0, time.UTC)

func TestRelativeTimingLabel(t *testing.T) {
	day := func(d int) time.Time { return baseWednesday.AddDate(0, 0, d) }

	tests := []struct {
		name  string
		event time.Time
		want  string
	}{
		{"same day", day(0), "today"},
		{"same day different hour", day(0).Add(9 * time.Hour), "today"},
		{"next day", day(1), "tomorrow"},
		{"two days same week", day(2), "this Friday"},
		{"four days same week", day(4), "this Sunday"},
		{"five days following week", day(5), "next Monday"},
		{"seven days following week", day(7), "next Wednesday"},
		{"eight days out", day(8), "10 September 2026"},
		{"past event", day(-3), "30 August 2026"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RelativeTimingLabel(tt.event, baseWednesday, time.UTC)
			if got != tt.want {
				t.Errorf("RelativeTimingLabel(%v, %v) = %q, want %q",
					tt.event, baseWednesday, got, tt.want)
			}
		})
	}
}

// A late-evening UTC instant is already the next calendar day in the venue's
// timezone during BST; the label must follow the venue's calendar.
func TestRelativeTimingLabelTimezoneBoundary(t *testing.T) {
	london, err := time.LoadLocation("Europe/London")
	if err != nil {
		t.Skipf("timezone database unavailable: %v", err)
	}

	// 23:30 UTC on 1 September is 00:30 BST on 2 September.
	scheduled := time.Date(2026, time.September, 1, 23, 30, 0, 0, time.UTC)
	event := time.Date(2026, time.September, 2, 19, 0, 0, 0, time.UTC)

	if got := RelativeTimingLabel(event, scheduled, london); got != "today" {
		t.Errorf("label in London = %q, want %q", got, "today")
	}
	if got := RelativeTimingLabel(event, scheduled, time.UTC); got != "tomorrow" {
		t.Errorf("label in UTC = %q, want %q", got, "tomorrow")
	}
}

// UK clocks go forward on Sunday 29 March 2026, so local midnights that
// weekend are 23 hours apart. Day counts must follow the calendar, not the
// elapsed wall-clock duration.
func TestRelativeTimingLabelAcrossClockChange(t *testing.T) {
	london, err := time.LoadLocation("Europe/London")
	if err != nil {
		t.Skipf("timezone database unavailable: %v", err)
	}

	springSunday := time.Date(2026, time.March, 29, 10, 0, 0, 0, london)

	tests := []struct {
		name      string
		event     time.Time
		scheduled time.Time
		want      string
	}{
		{
			"change day itself",
			time.Date(2026, time.March, 29, 19, 0, 0, 0, london),
			springSunday,
			"today",
		},
		{
			"next day over the change",
			time.Date(2026, time.March, 30, 19, 0, 0, 0, london),
			springSunday,
			"tomorrow",
		},
		{
			"two days over the change",
			time.Date(2026, time.March, 31, 19, 0, 0, 0, london),
			springSunday,
			"next Tuesday",
		},
		{
			"seven days over the change",
			time.Date(2026, time.April, 5, 19, 0, 0, 0, london),
			springSunday,
			"next Sunday",
		},
		{
			"span starting before the change weekend",
			time.Date(2026, time.April, 1, 19, 0, 0, 0, london),
			time.Date(2026, time.March, 27, 10, 0, 0, 0, london),
			"next Wednesday",
		},
		{
			"autumn change day to next day",
			time.Date(2026, time.October, 26, 19, 0, 0, 0, london),
			time.Date(2026, time.October, 25, 10, 0, 0, 0, london),
			"tomorrow",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RelativeTimingLabel(tt.event, tt.scheduled, london)
			if got != tt.want {
				t.Errorf("RelativeTimingLabel(%v, %v) = %q, want %q",
					tt.event, tt.scheduled, got, tt.want)
			}
		})
	}
}

func TestLongFormDate(t *testing.T) {
	tests := []struct {
		t    time.Time
		want string
	}{
		{time.Date(2026, time.January, 31, 12, 0, 0, 0, time.UTC), "31 January 2026"},
		{time.Date(2026, time.September, 5, 0, 0, 0, 0, time.UTC), "5 September 2026"},
	}
	for _, tt := range tests {
		if got := LongFormDate(tt.t, time.UTC); got != tt.want {
			t.Errorf("LongFormDate(%v) = %q, want %q", tt.t, got, tt.want)
		}
	}
}

func TestStartOfWeek(t *testing.T) {
	tests := []struct {
		name string
		day  time.Time
		want time.Time
	}{
		{
			"wednesday resolves to monday",
			time.Date(2026, time.September, 2, 0, 0, 0, 0, time.UTC),
			time.Date(2026, time.August, 31, 0, 0, 0, 0, time.UTC),
		},
		{
			"monday resolves to itself",
			time.Date(2026, time.August, 31, 0, 0, 0, 0, time.UTC),
			time.Date(2026, time.August, 31, 0, 0, 0, 0, time.UTC),
		},
		{
			"sunday belongs to the week started six days earlier",
			time.Date(2026, time.September, 6, 0, 0, 0, 0, time.UTC),
			time.Date(2026, time.August, 31, 0, 0, 0, 0, time.UTC),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := startOfWeek(tt.day); !got.Equal(tt.want) {
				t.Errorf("startOfWeek(%v) = %v, want %v", tt.day, got, tt.want)
			}
		})
	}
}
