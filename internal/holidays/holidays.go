// Package holidays resolves public-holiday calendars for the regions the
// feature pipeline supports. Calendars are computed, not fetched, so a
// build never depends on the network.
package holidays

import (
	"strings"
	"time"

	apperrors "callcast/internal/errors"
)

// Calendar maps holiday dates (midnight UTC) to their names.
type Calendar map[time.Time]string

// Contains reports whether the calendar holds t's calendar date.
func (c Calendar) Contains(t time.Time) bool {
	_, ok := c[DateOf(t)]
	return ok
}

// DateOf truncates t to its calendar date at midnight UTC.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

type yearFunc func(year int) Calendar

var regions = map[string]yearFunc{
	"CO": colombiaHolidays,
}

// ForYears builds the holiday calendar for region covering every given
// year. Unknown regions return a HolidayResolutionError; callers treat
// that as "no holidays" rather than failing the run.
func ForYears(region string, years []int) (Calendar, error) {
	build, ok := regions[strings.ToUpper(strings.TrimSpace(region))]
	if !ok {
		return nil, apperrors.NewHolidayResolutionError(region, nil)
	}

	cal := make(Calendar)
	for _, year := range years {
		for date, name := range build(year) {
			cal[date] = name
		}
	}
	return cal, nil
}

// YearsSpanned lists every calendar year touched by [first, last].
func YearsSpanned(first, last time.Time) []int {
	if last.Before(first) {
		first, last = last, first
	}
	var years []int
	for y := first.Year(); y <= last.Year(); y++ {
		years = append(years, y)
	}
	return years
}
