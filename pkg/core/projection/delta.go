package projection

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shiftledger/shiftledger/pkg/core/model"
	"github.com/shiftledger/shiftledger/pkg/core/timeutil"
)

// Store defines the read-only query the delta engine needs. All queries
// are scoped to one tenant.
type Store interface {
	// ShiftsIntersecting returns the employee's shifts that strictly
	// overlap [start, end), ordered by (start, end).
	ShiftsIntersecting(ctx context.Context, tenant model.TenantID, employeeID string, start, end time.Time) ([]model.Shift, error)
}

// Every mutation delta follows the same pattern: build the affected
// employee's workweek summary before the mutation, materialize the
// mutation against an in-memory copy of the shift list, build the summary
// again, and subtract. Recomputing one employee-workweek keeps the delta
// consistent with the aggregator's own overtime attribution order without
// closed-form incremental formulas.

// AddShiftDelta computes the cost change from assigning the given shift
// to the assignee. The shift itself must not already be part of the
// assignee's persisted workweek.
func AddShiftDelta(ctx context.Context, store Store, tenant model.TenantID, shift model.Shift, assignee model.Employee, departments []model.Department, settings model.BusinessSettings, month time.Month, year int) (*Summary, error) {
	weekStart, weekEnd := timeutil.WorkweekBounds(shift.Start, settings)

	existing, err := store.ShiftsIntersecting(ctx, tenant, assignee.ID, weekStart, weekEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to query workweek shifts: %w", err)
	}
	before := withoutShift(existing, shift.ID)

	assigned := shift
	assigned.EmployeeID = assignee.ID
	after := InsertByEnd(before, assigned)

	return diffSummaries(weekStart, weekEnd, assignee, before, after, departments, settings, month, year)
}

// RemoveShiftDelta computes the cost change from deleting the given
// shift from its assignee's workweek.
func RemoveShiftDelta(ctx context.Context, store Store, tenant model.TenantID, shift model.Shift, assignee model.Employee, departments []model.Department, settings model.BusinessSettings, month time.Month, year int) (*Summary, error) {
	weekStart, weekEnd := timeutil.WorkweekBounds(shift.Start, settings)

	before, err := store.ShiftsIntersecting(ctx, tenant, assignee.ID, weekStart, weekEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to query workweek shifts: %w", err)
	}
	if !containsShift(before, shift.ID) {
		return nil, &model.NotFoundError{Kind: "shift", ID: shift.ID}
	}
	after := withoutShift(before, shift.ID)

	return diffSummaries(weekStart, weekEnd, assignee, before, after, departments, settings, month, year)
}

// EditShiftDelta computes the cost change from moving the given shift to
// [newStart, newEnd) while keeping its assignee.
func EditShiftDelta(ctx context.Context, store Store, tenant model.TenantID, shift model.Shift, newStart, newEnd time.Time, assignee model.Employee, departments []model.Department, settings model.BusinessSettings, month time.Month, year int) (*Summary, error) {
	if !newEnd.After(newStart) {
		return nil, &model.InvalidIntervalError{Start: newStart, End: newEnd, Reason: "end is not after start"}
	}

	weekStart, weekEnd := timeutil.WorkweekBounds(shift.Start, settings)

	before, err := store.ShiftsIntersecting(ctx, tenant, assignee.ID, weekStart, weekEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to query workweek shifts: %w", err)
	}
	if !containsShift(before, shift.ID) {
		return nil, &model.NotFoundError{Kind: "shift", ID: shift.ID}
	}

	edited := shift
	edited.Start = newStart
	edited.End = newEnd
	after := InsertByEnd(withoutShift(before, shift.ID), edited)

	return diffSummaries(weekStart, weekEnd, assignee, before, after, departments, settings, month, year)
}

// ReassignShiftDelta computes the cost change from moving the shift from
// its current assignee to a replacement. The caller states who it
// believes the current assignee is; a mismatch with the shift's record is
// a contract violation, not something to auto-correct.
//
// The result is the sum of an add-delta for the replacement and a
// remove-delta for the current assignee.
func ReassignShiftDelta(ctx context.Context, store Store, tenant model.TenantID, shift model.Shift, current, replacement model.Employee, departments []model.Department, settings model.BusinessSettings, month time.Month, year int) (*Summary, error) {
	if shift.EmployeeID != current.ID {
		return nil, &model.InconsistentAssignmentError{
			ShiftID:    shift.ID,
			WantedID:   current.ID,
			AssignedID: shift.EmployeeID,
		}
	}

	gained, err := AddShiftDelta(ctx, store, tenant, shift, replacement, departments, settings, month, year)
	if err != nil {
		return nil, err
	}
	lost, err := RemoveShiftDelta(ctx, store, tenant, shift, current, departments, settings, month, year)
	if err != nil {
		return nil, err
	}

	combine(gained, lost, 1)
	return gained, nil
}

// InsertByEnd returns a copy of shifts with s inserted, keeping the
// slice ordered by end instant (then start). The comparator lives here
// rather than on the Shift type so the entity stays free of ordering
// semantics.
func InsertByEnd(shifts []model.Shift, s model.Shift) []model.Shift {
	i := sort.Search(len(shifts), func(i int) bool {
		if !shifts[i].End.Equal(s.End) {
			return shifts[i].End.After(s.End)
		}
		return !shifts[i].Start.Before(s.Start)
	})

	out := make([]model.Shift, 0, len(shifts)+1)
	out = append(out, shifts[:i]...)
	out = append(out, s)
	out = append(out, shifts[i:]...)
	return out
}

func withoutShift(shifts []model.Shift, id string) []model.Shift {
	out := make([]model.Shift, 0, len(shifts))
	for _, s := range shifts {
		if s.ID == id {
			continue
		}
		out = append(out, s)
	}
	return out
}

func containsShift(shifts []model.Shift, id string) bool {
	for _, s := range shifts {
		if s.ID == id {
			return true
		}
	}
	return false
}

// diffSummaries builds before/after summaries for the employee-workweek
// and returns the element-wise after-minus-before difference.
func diffSummaries(weekStart, weekEnd time.Time, emp model.Employee, beforeShifts, afterShifts []model.Shift, departments []model.Department, settings model.BusinessSettings, month time.Month, year int) (*Summary, error) {
	before, err := singleEmployeeSummary(weekStart, weekEnd, emp, beforeShifts, departments, settings, month, year)
	if err != nil {
		return nil, err
	}
	after, err := singleEmployeeSummary(weekStart, weekEnd, emp, afterShifts, departments, settings, month, year)
	if err != nil {
		return nil, err
	}

	combine(after, before, -1)
	return after, nil
}

// combine folds other into dst element-wise: sign +1 adds, -1 subtracts.
// Buckets missing on either side are treated as zero.
func combine(dst, other *Summary, sign float64) {
	for date, otherCosts := range other.Days {
		dstCosts, ok := dst.Days[date]
		if !ok {
			dstCosts = make(map[string]DayCost, len(otherCosts))
			dst.Days[date] = dstCosts
		}
		for key, cost := range otherCosts {
			bucket := dstCosts[key]
			bucket.Hours += sign * cost.Hours
			bucket.OvertimeHours += sign * cost.OvertimeHours
			bucket.Cost += sign * cost.Cost
			dstCosts[key] = bucket
		}
	}

	for i := range other.Workweeks {
		if i >= len(dst.Workweeks) {
			dst.Workweeks = append(dst.Workweeks, WorkweekCosts{
				Start:       other.Workweeks[i].Start,
				End:         other.Workweeks[i].End,
				Departments: make(map[string]WeekCost),
			})
		}
		dstWeek := dst.Workweeks[i].Departments
		for key, cost := range other.Workweeks[i].Departments {
			bucket := dstWeek[key]
			bucket.Hours += sign * cost.Hours
			bucket.OvertimeHours += sign * cost.OvertimeHours
			bucket.Cost += sign * cost.Cost
			dstWeek[key] = bucket
		}
	}

	for key, cost := range other.Month {
		bucket, ok := dst.Month[key]
		if !ok {
			bucket = MonthCost{Name: cost.Name}
		}
		bucket.Cost += sign * cost.Cost
		dst.Month[key] = bucket
	}
}
