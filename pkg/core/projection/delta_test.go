package projection

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiftledger/shiftledger/pkg/core/model"
)

const testTenant = model.TenantID("tenant-1")

// mockDeltaStore serves each employee's persisted workweek shifts.
type mockDeltaStore struct {
	shifts map[string][]model.Shift
}

func (m *mockDeltaStore) ShiftsIntersecting(ctx context.Context, tenant model.TenantID, employeeID string, start, end time.Time) ([]model.Shift, error) {
	return m.shifts[employeeID], nil
}

func TestAddShiftDelta_EmptyWeek(t *testing.T) {
	emp := model.Employee{ID: "emp-1", Wage: 10}
	store := &mockDeltaStore{shifts: map[string][]model.Shift{}}
	shift := shiftOn("new", 3, 9, 17, "dep-1", "")

	delta, err := AddShiftDelta(context.Background(), store, testTenant, shift, emp, testDepartments(), testSettings(), time.August, 2026)
	require.NoError(t, err)

	require.Len(t, delta.Workweeks, 1)
	week := delta.Workweeks[0]
	assert.Equal(t, date(2026, 8, 3, 0, 0), week.Start)
	assert.Equal(t, 8.0, week.Departments["dep-1"].Hours)
	assert.Equal(t, 80.0, week.Departments["dep-1"].Cost)
	assert.Equal(t, 80.0, week.Departments[TotalKey].Cost)

	assert.Equal(t, 8.0, delta.Days["2026-08-03"]["dep-1"].Hours)
	assert.Equal(t, 80.0, delta.Month[TotalKey].Cost)
}

func TestAddShiftDelta_PushesIntoOvertime(t *testing.T) {
	// 35 hours already worked; adding 10 pushes 5 past the threshold.
	emp := model.Employee{ID: "emp-1", Wage: 10}
	store := &mockDeltaStore{shifts: map[string][]model.Shift{
		"emp-1": {
			shiftOn("mon", 3, 6, 18, "dep-1", "emp-1"),
			shiftOn("tue", 4, 6, 18, "dep-1", "emp-1"),
			shiftOn("wed", 5, 7, 18, "dep-1", "emp-1"),
		},
	}}
	shift := shiftOn("new", 6, 8, 18, "dep-2", "")

	delta, err := AddShiftDelta(context.Background(), store, testTenant, shift, emp, testDepartments(), testSettings(), time.August, 2026)
	require.NoError(t, err)

	week := delta.Workweeks[0].Departments
	assert.Equal(t, 5.0, week["dep-2"].Hours)
	assert.Equal(t, 5.0, week["dep-2"].OvertimeHours)
	assert.Equal(t, 0.0, week["dep-1"].Hours)
	assert.Equal(t, 0.0, week["dep-1"].OvertimeHours)

	// 5h at 10 plus 5h at 15
	assert.Equal(t, 125.0, week[TotalKey].Cost)
	assert.Equal(t, 125.0, delta.Month[TotalKey].Cost)
}

func TestRemoveShiftDelta_NegatesAdd(t *testing.T) {
	// Removing a shift produces the exact negation of what adding it
	// produced, including an overtime-affected week.
	emp := model.Employee{ID: "emp-1", Wage: 10}
	week := []model.Shift{
		shiftOn("mon", 3, 6, 18, "dep-1", "emp-1"),
		shiftOn("tue", 4, 6, 18, "dep-1", "emp-1"),
		shiftOn("wed", 5, 7, 18, "dep-1", "emp-1"),
		shiftOn("target", 6, 8, 18, "dep-2", "emp-1"),
	}
	store := &mockDeltaStore{shifts: map[string][]model.Shift{"emp-1": week}}
	target := week[3]

	addStore := &mockDeltaStore{shifts: map[string][]model.Shift{"emp-1": week[:3]}}
	added, err := AddShiftDelta(context.Background(), addStore, testTenant, target, emp, testDepartments(), testSettings(), time.August, 2026)
	require.NoError(t, err)

	removed, err := RemoveShiftDelta(context.Background(), store, testTenant, target, emp, testDepartments(), testSettings(), time.August, 2026)
	require.NoError(t, err)

	for key, cost := range added.Workweeks[0].Departments {
		assert.Equal(t, -cost.Hours, removed.Workweeks[0].Departments[key].Hours, key)
		assert.Equal(t, -cost.OvertimeHours, removed.Workweeks[0].Departments[key].OvertimeHours, key)
		assert.Equal(t, -cost.Cost, removed.Workweeks[0].Departments[key].Cost, key)
	}
	assert.Equal(t, -added.Month[TotalKey].Cost, removed.Month[TotalKey].Cost)
}

func TestRemoveShiftDelta_ShiftNotInWeek(t *testing.T) {
	emp := model.Employee{ID: "emp-1", Wage: 10}
	store := &mockDeltaStore{shifts: map[string][]model.Shift{}}
	shift := shiftOn("ghost", 3, 9, 17, "dep-1", "emp-1")

	_, err := RemoveShiftDelta(context.Background(), store, testTenant, shift, emp, testDepartments(), testSettings(), time.August, 2026)
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestEditShiftDelta(t *testing.T) {
	emp := model.Employee{ID: "emp-1", Wage: 10}
	shift := shiftOn("target", 3, 9, 17, "dep-1", "emp-1")
	store := &mockDeltaStore{shifts: map[string][]model.Shift{"emp-1": {shift}}}

	// Shorten from 8 to 4 hours
	delta, err := EditShiftDelta(context.Background(), store, testTenant, shift,
		date(2026, 8, 3, 9, 0), date(2026, 8, 3, 13, 0),
		emp, testDepartments(), testSettings(), time.August, 2026)
	require.NoError(t, err)

	assert.Equal(t, -4.0, delta.Workweeks[0].Departments["dep-1"].Hours)
	assert.Equal(t, -40.0, delta.Workweeks[0].Departments[TotalKey].Cost)
	assert.Equal(t, -40.0, delta.Month[TotalKey].Cost)
}

func TestEditShiftDelta_InvalidInterval(t *testing.T) {
	emp := model.Employee{ID: "emp-1", Wage: 10}
	shift := shiftOn("target", 3, 9, 17, "dep-1", "emp-1")
	store := &mockDeltaStore{shifts: map[string][]model.Shift{"emp-1": {shift}}}

	at := date(2026, 8, 3, 9, 0)
	_, err := EditShiftDelta(context.Background(), store, testTenant, shift, at, at, emp, testDepartments(), testSettings(), time.August, 2026)

	var invalid *model.InvalidIntervalError
	require.ErrorAs(t, err, &invalid)
}

func TestReassignShiftDelta(t *testing.T) {
	// Same wage, no overtime on either side: the combined delta nets to
	// zero hours and zero cost while the day buckets show the movement.
	current := model.Employee{ID: "emp-1", Wage: 10}
	replacement := model.Employee{ID: "emp-2", Wage: 10}
	shift := shiftOn("target", 3, 9, 17, "dep-1", "emp-1")
	store := &mockDeltaStore{shifts: map[string][]model.Shift{
		"emp-1": {shift},
	}}

	delta, err := ReassignShiftDelta(context.Background(), store, testTenant, shift, current, replacement, testDepartments(), testSettings(), time.August, 2026)
	require.NoError(t, err)

	assert.Equal(t, 0.0, delta.Workweeks[0].Departments["dep-1"].Hours)
	assert.Equal(t, 0.0, delta.Workweeks[0].Departments[TotalKey].Cost)
	assert.Equal(t, 0.0, delta.Month[TotalKey].Cost)
}

func TestReassignShiftDelta_WageDifference(t *testing.T) {
	current := model.Employee{ID: "emp-1", Wage: 10}
	replacement := model.Employee{ID: "emp-2", Wage: 12.5}
	shift := shiftOn("target", 3, 9, 17, "dep-1", "emp-1")
	store := &mockDeltaStore{shifts: map[string][]model.Shift{
		"emp-1": {shift},
	}}

	delta, err := ReassignShiftDelta(context.Background(), store, testTenant, shift, current, replacement, testDepartments(), testSettings(), time.August, 2026)
	require.NoError(t, err)

	// 8h moves from wage 10 to wage 12.5: +20
	assert.Equal(t, 0.0, delta.Workweeks[0].Departments["dep-1"].Hours)
	assert.Equal(t, 20.0, delta.Workweeks[0].Departments["dep-1"].Cost)
	assert.Equal(t, 20.0, delta.Month[TotalKey].Cost)
}

func TestReassignShiftDelta_StaleAssignment(t *testing.T) {
	current := model.Employee{ID: "emp-1", Wage: 10}
	replacement := model.Employee{ID: "emp-2", Wage: 10}
	shift := shiftOn("target", 3, 9, 17, "dep-1", "someone-else")
	store := &mockDeltaStore{shifts: map[string][]model.Shift{}}

	_, err := ReassignShiftDelta(context.Background(), store, testTenant, shift, current, replacement, testDepartments(), testSettings(), time.August, 2026)

	var inconsistent *model.InconsistentAssignmentError
	require.ErrorAs(t, err, &inconsistent)
	assert.Equal(t, "someone-else", inconsistent.AssignedID)
}

func TestInsertByEnd(t *testing.T) {
	shifts := []model.Shift{
		shiftOn("a", 3, 9, 12, "dep-1", "emp-1"),
		shiftOn("b", 3, 9, 17, "dep-1", "emp-1"),
		shiftOn("c", 4, 9, 17, "dep-1", "emp-1"),
	}

	out := InsertByEnd(shifts, shiftOn("mid", 3, 13, 15, "dep-1", "emp-1"))

	require.Len(t, out, 4)
	assert.Equal(t, []string{"a", "mid", "b", "c"}, []string{out[0].ID, out[1].ID, out[2].ID, out[3].ID})

	// Original slice untouched
	assert.Len(t, shifts, 3)
}
