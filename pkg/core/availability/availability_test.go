package availability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiftledger/shiftledger/pkg/core/model"
)

const testTenant = model.TenantID("tenant-1")

// mockStore returns canned records regardless of the query range; the
// engine under test is responsible for identity filtering and slot
// projection, not the store.
type mockStore struct {
	overlapping []model.Shift
	weekShifts  []model.Shift
	timeOff     map[model.TimeOffKind][]model.TimeOff
	slots       map[model.RecurringKind][]model.RecurringSlot
	err         error
}

func (m *mockStore) ShiftsOverlapping(ctx context.Context, tenant model.TenantID, employeeID string, start, end time.Time) ([]model.Shift, error) {
	return m.overlapping, m.err
}

func (m *mockStore) ShiftsStartingBetween(ctx context.Context, tenant model.TenantID, employeeID string, start, end time.Time) ([]model.Shift, error) {
	return m.weekShifts, m.err
}

func (m *mockStore) TimeOffOverlapping(ctx context.Context, tenant model.TenantID, employeeID string, kind model.TimeOffKind, start, end time.Time) ([]model.TimeOff, error) {
	return m.timeOff[kind], m.err
}

func (m *mockStore) RecurringSlots(ctx context.Context, tenant model.TenantID, employeeID string, kind model.RecurringKind, weekday time.Weekday) ([]model.RecurringSlot, error) {
	return m.slots[kind], m.err
}

func date(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
}

func testSettings() model.BusinessSettings {
	return model.BusinessSettings{
		OvertimeThreshold:  40,
		OvertimeMultiplier: 1.5,
		WorkweekStartDay:   time.Monday,
	}
}

// Monday 2026-08-03, 09:00-17:00
func testShift() model.Shift {
	return model.Shift{
		ID:           "shift-1",
		DepartmentID: "dep-1",
		Start:        date(2026, 8, 3, 9, 0),
		End:          date(2026, 8, 3, 17, 0),
	}
}

func TestEvaluate_NoConflicts(t *testing.T) {
	emp := model.Employee{ID: "emp-1"}
	store := &mockStore{}

	report, err := Evaluate(context.Background(), store, testTenant, emp, testShift(), testSettings())
	require.NoError(t, err)

	assert.False(t, report.HasConflict())
	assert.False(t, report.Overtime)
	assert.Equal(t, 0.0, report.CurrentHours)
	assert.Equal(t, 8.0, report.HoursIfAssigned)
}

func TestEvaluate_ShiftConflict(t *testing.T) {
	emp := model.Employee{ID: "emp-1"}
	store := &mockStore{
		overlapping: []model.Shift{
			{ID: "other", Start: date(2026, 8, 3, 14, 0), End: date(2026, 8, 3, 22, 0)},
		},
	}

	report, err := Evaluate(context.Background(), store, testTenant, emp, testShift(), testSettings())
	require.NoError(t, err)

	assert.True(t, report.HasConflict())
	require.Len(t, report.Shifts, 1)
	assert.Equal(t, "other", report.Shifts[0].ID)
}

func TestEvaluate_ExcludesCandidateFromOwnConflicts(t *testing.T) {
	// Re-evaluating an already-assigned shift: the candidate appears in
	// the store's overlap result but must not conflict with itself, and
	// its hours are already in the weekly total.
	emp := model.Employee{ID: "emp-1"}
	shift := testShift()
	shift.EmployeeID = emp.ID
	store := &mockStore{
		overlapping: []model.Shift{shift},
		weekShifts:  []model.Shift{shift},
	}

	report, err := Evaluate(context.Background(), store, testTenant, emp, shift, testSettings())
	require.NoError(t, err)

	assert.False(t, report.HasConflict())
	assert.Equal(t, 8.0, report.CurrentHours)
	assert.Equal(t, report.CurrentHours, report.HoursIfAssigned)
}

func TestEvaluate_VacationAndAbsence(t *testing.T) {
	emp := model.Employee{ID: "emp-1"}
	store := &mockStore{
		timeOff: map[model.TimeOffKind][]model.TimeOff{
			model.TimeOffVacation: {
				{ID: "v1", Kind: model.TimeOffVacation, Start: date(2026, 8, 1, 0, 0), End: date(2026, 8, 8, 0, 0)},
			},
			model.TimeOffAbsence: {
				{ID: "a1", Kind: model.TimeOffAbsence, Start: date(2026, 8, 3, 0, 0), End: date(2026, 8, 4, 0, 0)},
			},
		},
	}

	report, err := Evaluate(context.Background(), store, testTenant, emp, testShift(), testSettings())
	require.NoError(t, err)

	assert.True(t, report.HasConflict())
	assert.Len(t, report.Vacations, 1)
	assert.Len(t, report.Absences, 1)
}

func TestEvaluate_RecurringUnavailability(t *testing.T) {
	emp := model.Employee{ID: "emp-1"}
	store := &mockStore{
		slots: map[model.RecurringKind][]model.RecurringSlot{
			model.RecurringUnavailability: {
				{
					ID:        "u1",
					Kind:      model.RecurringUnavailability,
					Weekday:   time.Monday,
					StartTime: model.TimeOfDay{Hour: 9, Minute: 0},
					EndTime:   model.TimeOfDay{Hour: 12, Minute: 0},
				},
			},
		},
	}

	report, err := Evaluate(context.Background(), store, testTenant, emp, testShift(), testSettings())
	require.NoError(t, err)

	assert.True(t, report.HasConflict())
	assert.Len(t, report.RepeatUnavailabilities, 1)
}

func TestEvaluate_RecurringSlotTouchingDoesNotConflict(t *testing.T) {
	emp := model.Employee{ID: "emp-1"}
	store := &mockStore{
		slots: map[model.RecurringKind][]model.RecurringSlot{
			model.RecurringUnavailability: {
				{
					ID:        "u1",
					Kind:      model.RecurringUnavailability,
					Weekday:   time.Monday,
					StartTime: model.TimeOfDay{Hour: 6, Minute: 0},
					EndTime:   model.TimeOfDay{Hour: 9, Minute: 0},
				},
			},
		},
	}

	report, err := Evaluate(context.Background(), store, testTenant, emp, testShift(), testSettings())
	require.NoError(t, err)

	assert.False(t, report.HasConflict())
}

func TestEvaluate_DesiredTimesAreNotConflicts(t *testing.T) {
	emp := model.Employee{ID: "emp-1"}
	store := &mockStore{
		slots: map[model.RecurringKind][]model.RecurringSlot{
			model.RecurringDesiredTime: {
				{
					ID:        "d1",
					Kind:      model.RecurringDesiredTime,
					Weekday:   time.Monday,
					StartTime: model.TimeOfDay{Hour: 8, Minute: 0},
					EndTime:   model.TimeOfDay{Hour: 16, Minute: 0},
				},
			},
		},
	}

	report, err := Evaluate(context.Background(), store, testTenant, emp, testShift(), testSettings())
	require.NoError(t, err)

	assert.False(t, report.HasConflict())
	assert.Len(t, report.DesiredTimes, 1)
}

func TestEvaluate_MidnightCrossingShift(t *testing.T) {
	// Saturday 22:00 to Sunday 06:00. A slot ending at 02:00 projects
	// its end onto the shift's end date, producing a full overnight
	// interval instead of an inverted one.
	emp := model.Employee{ID: "emp-1"}
	shift := model.Shift{
		ID:           "night",
		DepartmentID: "dep-1",
		Start:        date(2026, 8, 8, 22, 0),
		End:          date(2026, 8, 9, 6, 0),
	}
	store := &mockStore{
		slots: map[model.RecurringKind][]model.RecurringSlot{
			model.RecurringUnavailability: {
				{
					ID:        "u1",
					Kind:      model.RecurringUnavailability,
					Weekday:   time.Saturday,
					StartTime: model.TimeOfDay{Hour: 23, Minute: 0},
					EndTime:   model.TimeOfDay{Hour: 2, Minute: 0},
				},
			},
		},
	}

	report, err := Evaluate(context.Background(), store, testTenant, emp, shift, testSettings())
	require.NoError(t, err)

	assert.True(t, report.HasConflict())
	assert.Len(t, report.RepeatUnavailabilities, 1)
}

func TestEvaluate_Overtime(t *testing.T) {
	emp := model.Employee{ID: "emp-1"}
	store := &mockStore{
		weekShifts: []model.Shift{
			{ID: "s1", Start: date(2026, 8, 4, 6, 0), End: date(2026, 8, 4, 18, 0)},
			{ID: "s2", Start: date(2026, 8, 5, 6, 0), End: date(2026, 8, 5, 18, 0)},
			{ID: "s3", Start: date(2026, 8, 6, 6, 0), End: date(2026, 8, 6, 18, 0)},
		},
	}

	report, err := Evaluate(context.Background(), store, testTenant, emp, testShift(), testSettings())
	require.NoError(t, err)

	// 36 worked plus the 8 hour candidate exceeds the 40 hour threshold.
	// Overtime is a soft signal, not a hard conflict.
	assert.Equal(t, 36.0, report.CurrentHours)
	assert.Equal(t, 44.0, report.HoursIfAssigned)
	assert.True(t, report.Overtime)
	assert.False(t, report.HasConflict())
}

func TestEvaluate_InvalidInterval(t *testing.T) {
	emp := model.Employee{ID: "emp-1"}
	shift := testShift()
	shift.End = shift.Start

	_, err := Evaluate(context.Background(), &mockStore{}, testTenant, emp, shift, testSettings())

	var invalid *model.InvalidIntervalError
	require.ErrorAs(t, err, &invalid)
}

func TestEvaluate_StoreError(t *testing.T) {
	emp := model.Employee{ID: "emp-1"}
	storeErr := errors.New("connection lost")
	store := &mockStore{err: storeErr}

	_, err := Evaluate(context.Background(), store, testTenant, emp, testShift(), testSettings())
	require.Error(t, err)
	assert.ErrorIs(t, err, storeErr)
}

func TestProjectSlot(t *testing.T) {
	slot := model.RecurringSlot{
		StartTime: model.TimeOfDay{Hour: 23, Minute: 30},
		EndTime:   model.TimeOfDay{Hour: 4, Minute: 0},
	}
	shift := model.Shift{
		Start: date(2026, 8, 8, 22, 0),
		End:   date(2026, 8, 9, 6, 0),
	}

	start, end := ProjectSlot(slot, shift)
	assert.Equal(t, date(2026, 8, 8, 23, 30), start)
	assert.Equal(t, date(2026, 8, 9, 4, 0), end)
}
