package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiftledger/shiftledger/pkg/core/model"
)

func date(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
}

func mondaySettings() model.BusinessSettings {
	return model.BusinessSettings{
		OvertimeThreshold:  40,
		OvertimeMultiplier: 1.5,
		WorkweekStartDay:   time.Monday,
		WorkweekStartTime:  model.TimeOfDay{Hour: 0, Minute: 0},
	}
}

func TestOverlaps(t *testing.T) {
	a1 := date(2026, 8, 3, 9, 0)
	a2 := date(2026, 8, 3, 17, 0)

	assert.True(t, Overlaps(a1, a2, date(2026, 8, 3, 16, 0), date(2026, 8, 3, 18, 0)))
	assert.True(t, Overlaps(a1, a2, date(2026, 8, 3, 10, 0), date(2026, 8, 3, 12, 0)))

	// Touching endpoints do not overlap
	assert.False(t, Overlaps(a1, a2, a2, date(2026, 8, 3, 18, 0)))
	assert.False(t, Overlaps(a1, a2, date(2026, 8, 3, 8, 0), a1))
	assert.False(t, Overlaps(a1, a2, date(2026, 8, 4, 9, 0), date(2026, 8, 4, 17, 0)))
}

func TestWorkweekBounds_MidWeek(t *testing.T) {
	// Wednesday 2026-08-05 belongs to the week of Monday 2026-08-03
	start, end := WorkweekBounds(date(2026, 8, 5, 14, 30), mondaySettings())

	assert.Equal(t, date(2026, 8, 3, 0, 0), start)
	assert.Equal(t, date(2026, 8, 10, 0, 0).Add(-time.Second), end)
}

func TestWorkweekBounds_ExactlyAtStart(t *testing.T) {
	// An instant exactly at the configured start opens its own week
	start, _ := WorkweekBounds(date(2026, 8, 3, 0, 0), mondaySettings())

	assert.Equal(t, date(2026, 8, 3, 0, 0), start)
}

func TestWorkweekBounds_StartDayBeforeStartTime(t *testing.T) {
	settings := mondaySettings()
	settings.WorkweekStartTime = model.TimeOfDay{Hour: 4, Minute: 0}

	// Monday 02:00 is before the 04:00 boundary, so it still belongs to
	// the previous week
	start, end := WorkweekBounds(date(2026, 8, 3, 2, 0), settings)

	assert.Equal(t, date(2026, 7, 27, 4, 0), start)
	assert.Equal(t, date(2026, 8, 3, 4, 0).Add(-time.Second), end)
}

func TestWorkweekBounds_SundayStart(t *testing.T) {
	settings := mondaySettings()
	settings.WorkweekStartDay = time.Sunday

	start, _ := WorkweekBounds(date(2026, 8, 5, 9, 0), settings)

	assert.Equal(t, date(2026, 8, 2, 0, 0), start)
}

func TestDurationHours_NoBreak(t *testing.T) {
	hours, err := DurationHours(date(2026, 8, 3, 9, 0), date(2026, 8, 3, 17, 0), 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 8.0, hours)
}

func TestDurationHours_BreakDeducted(t *testing.T) {
	// 9 hours with a 30 minute break once the shift reaches 8 hours
	hours, err := DurationHours(date(2026, 8, 3, 9, 0), date(2026, 8, 3, 18, 0), 8, 30)
	require.NoError(t, err)
	assert.Equal(t, 8.5, hours)
}

func TestDurationHours_BelowBreakThreshold(t *testing.T) {
	hours, err := DurationHours(date(2026, 8, 3, 9, 0), date(2026, 8, 3, 13, 0), 8, 30)
	require.NoError(t, err)
	assert.Equal(t, 4.0, hours)
}

func TestDurationHours_EndNotAfterStart(t *testing.T) {
	at := date(2026, 8, 3, 9, 0)

	_, err := DurationHours(at, at, 0, 0)
	var invalid *model.InvalidIntervalError
	require.ErrorAs(t, err, &invalid)

	_, err = DurationHours(at, at.Add(-time.Hour), 0, 0)
	require.ErrorAs(t, err, &invalid)
}

func TestDurationHours_BreakExceedsDuration(t *testing.T) {
	// 15 minute shift with a 30 minute break would go negative
	_, err := DurationHours(date(2026, 8, 3, 9, 0), date(2026, 8, 3, 9, 15), 0.1, 30)

	var invalid *model.InvalidIntervalError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "break exceeds duration", invalid.Reason)
}

func TestShiftHours(t *testing.T) {
	emp := model.Employee{ID: "e1", MinHoursForBreak: 8, BreakMinutes: 30}
	shift := model.Shift{Start: date(2026, 8, 3, 9, 0), End: date(2026, 8, 3, 18, 0)}

	hours, err := ShiftHours(shift, emp)
	require.NoError(t, err)
	assert.Equal(t, 8.5, hours)
}

func TestCalendarGridBounds(t *testing.T) {
	// August 2026 starts on a Saturday and ends on a Monday, so the grid
	// spans Sunday July 26 through Saturday September 5
	start, end := CalendarGridBounds(2026, time.August)

	assert.Equal(t, date(2026, 7, 26, 0, 0), start)
	assert.Equal(t, time.Sunday, start.Weekday())
	assert.Equal(t, date(2026, 9, 6, 0, 0).Add(-time.Second), end)
	assert.Equal(t, time.Saturday, end.Weekday())
}

func TestCalendarGridBounds_MonthAlignedToGrid(t *testing.T) {
	// February 2026 starts on a Sunday and ends on a Saturday
	start, end := CalendarGridBounds(2026, time.February)

	assert.Equal(t, date(2026, 2, 1, 0, 0), start)
	assert.Equal(t, date(2026, 3, 1, 0, 0).Add(-time.Second), end)
}
