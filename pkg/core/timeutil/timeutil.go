// Package timeutil implements the time arithmetic the scheduling core is
// built on: workweek boundary calculation, paid-duration calculation with
// break deduction, and calendar grid bounds for month views.
package timeutil

import (
	"time"

	"github.com/shiftledger/shiftledger/pkg/core/model"
)

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) strictly overlap. Touching endpoints do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// WorkweekBounds returns the start and end of the workweek containing t.
//
// The workweek starts at the employer-configured weekday and time of day,
// so it cannot be derived from the calendar week. The start is the
// nearest configured weekday/time at or before t: an instant exactly at
// the configured start belongs to its own week. The end is start plus
// seven days minus one second, so every instant belongs to exactly one
// workweek.
func WorkweekBounds(t time.Time, settings model.BusinessSettings) (time.Time, time.Time) {
	dayDiff := (int(t.Weekday()) - int(settings.WorkweekStartDay) + 7) % 7
	if dayDiff == 0 {
		tod := model.TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}
		// Same weekday but before the start time means t still belongs
		// to the previous week.
		if tod.Before(settings.WorkweekStartTime) {
			dayDiff = 7
		}
	}

	startDate := t.AddDate(0, 0, -dayDiff)
	start := settings.WorkweekStartTime.On(startDate)
	end := start.AddDate(0, 0, 7).Add(-time.Second)
	return start, end
}

// DurationHours returns the paid length of [start, end) in hours. If
// minHoursForBreak is positive and the raw duration is at least that many
// hours, breakMinutes are deducted.
//
// An interval whose end is not after its start, or whose break deduction
// exceeds its raw duration, yields an InvalidIntervalError.
func DurationHours(start, end time.Time, minHoursForBreak, breakMinutes float64) (float64, error) {
	if !end.After(start) {
		return 0, &model.InvalidIntervalError{Start: start, End: end, Reason: "end is not after start"}
	}

	hours := end.Sub(start).Hours()
	if minHoursForBreak > 0 && hours >= minHoursForBreak {
		hours -= breakMinutes / 60.0
	}
	if hours < 0 {
		return 0, &model.InvalidIntervalError{Start: start, End: end, Reason: "break exceeds duration"}
	}
	return hours, nil
}

// ShiftHours returns the paid duration of a shift under the employee's
// break rule.
func ShiftHours(s model.Shift, emp model.Employee) (float64, error) {
	return DurationHours(s.Start, s.End, emp.MinHoursForBreak, emp.BreakMinutes)
}

// CalendarGridBounds returns the first and last instants of the calendar
// grid displaying the given month. The grid extends the month outward to
// whole Sunday-to-Saturday weeks so spillover days from the neighbouring
// months are included. The end is a Saturday at 23:59:59.
func CalendarGridBounds(year int, month time.Month) (time.Time, time.Time) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)

	start := first.AddDate(0, 0, -int(first.Weekday()))
	daysToSaturday := (int(time.Saturday) - int(last.Weekday()) + 7) % 7
	end := last.AddDate(0, 0, daysToSaturday+1).Add(-time.Second)
	return start, end
}
