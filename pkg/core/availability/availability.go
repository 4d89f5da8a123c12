// Package availability computes an employee's conflict profile relative
// to one candidate shift: overlapping shifts, time off, recurring
// unavailability, desired-time alignment and overtime exposure.
package availability

import (
	"context"
	"fmt"
	"time"

	"github.com/shiftledger/shiftledger/pkg/core/model"
	"github.com/shiftledger/shiftledger/pkg/core/timeutil"
)

// Store defines the read-only queries the availability engine needs. All
// queries are scoped to one tenant; implementations must never return
// records owned by another tenant.
type Store interface {
	// ShiftsOverlapping returns the employee's shifts whose interval
	// strictly overlaps [start, end).
	ShiftsOverlapping(ctx context.Context, tenant model.TenantID, employeeID string, start, end time.Time) ([]model.Shift, error)

	// ShiftsStartingBetween returns the employee's shifts whose start
	// instant lies inside [start, end], ordered by (start, end).
	ShiftsStartingBetween(ctx context.Context, tenant model.TenantID, employeeID string, start, end time.Time) ([]model.Shift, error)

	// TimeOffOverlapping returns the employee's time off of the given
	// kind whose interval strictly overlaps [start, end).
	TimeOffOverlapping(ctx context.Context, tenant model.TenantID, employeeID string, kind model.TimeOffKind, start, end time.Time) ([]model.TimeOff, error)

	// RecurringSlots returns the employee's recurring slots of the given
	// kind that fall on the given weekday.
	RecurringSlots(ctx context.Context, tenant model.TenantID, employeeID string, kind model.RecurringKind, weekday time.Weekday) ([]model.RecurringSlot, error)
}

// Report is the conflict profile of one employee for one candidate shift.
type Report struct {
	// Conflicting records, each strictly overlapping the candidate.
	Shifts                 []model.Shift
	Vacations              []model.TimeOff
	Absences               []model.TimeOff
	RepeatUnavailabilities []model.RecurringSlot

	// DesiredTimes holds the employee's desired working times, projected
	// onto the candidate's dates, that overlap the candidate.
	DesiredTimes []model.RecurringSlot

	// CurrentHours is how many hours the employee already works in the
	// candidate's workweek. HoursIfAssigned adds the candidate's own
	// duration unless the employee is already its assignee.
	CurrentHours    float64
	HoursIfAssigned float64

	// Overtime reports whether HoursIfAssigned exceeds the tenant's
	// overtime threshold.
	Overtime bool
}

// HasConflict reports whether the employee has any hard conflict with
// the candidate shift (not counting overtime or desired times).
func (r *Report) HasConflict() bool {
	return len(r.Shifts) > 0 || len(r.Vacations) > 0 || len(r.Absences) > 0 ||
		len(r.RepeatUnavailabilities) > 0
}

// ProjectSlot projects a recurring slot onto the candidate shift's dates,
// returning a full interval that can be overlap-tested. The start borrows
// the shift's start date and the end borrows the shift's end date, which
// keeps shifts crossing midnight comparable.
func ProjectSlot(slot model.RecurringSlot, shift model.Shift) (time.Time, time.Time) {
	return slot.StartTime.On(shift.Start), slot.EndTime.On(shift.End)
}

// Evaluate builds the availability report for one employee and one
// candidate shift. If the candidate is already persisted it is excluded
// from its own conflict set by identity.
func Evaluate(ctx context.Context, store Store, tenant model.TenantID, emp model.Employee, shift model.Shift, settings model.BusinessSettings) (*Report, error) {
	if !shift.End.After(shift.Start) {
		return nil, &model.InvalidIntervalError{Start: shift.Start, End: shift.End, Reason: "end is not after start"}
	}

	report := &Report{}

	overlapping, err := store.ShiftsOverlapping(ctx, tenant, emp.ID, shift.Start, shift.End)
	if err != nil {
		return nil, fmt.Errorf("failed to query overlapping shifts: %w", err)
	}
	for _, other := range overlapping {
		if other.ID == shift.ID {
			continue
		}
		report.Shifts = append(report.Shifts, other)
	}

	report.Vacations, err = store.TimeOffOverlapping(ctx, tenant, emp.ID, model.TimeOffVacation, shift.Start, shift.End)
	if err != nil {
		return nil, fmt.Errorf("failed to query vacations: %w", err)
	}

	report.Absences, err = store.TimeOffOverlapping(ctx, tenant, emp.ID, model.TimeOffAbsence, shift.Start, shift.End)
	if err != nil {
		return nil, fmt.Errorf("failed to query absences: %w", err)
	}

	weekday := shift.Start.Weekday()

	unavailable, err := store.RecurringSlots(ctx, tenant, emp.ID, model.RecurringUnavailability, weekday)
	if err != nil {
		return nil, fmt.Errorf("failed to query recurring unavailabilities: %w", err)
	}
	for _, slot := range unavailable {
		start, end := ProjectSlot(slot, shift)
		if timeutil.Overlaps(start, end, shift.Start, shift.End) {
			report.RepeatUnavailabilities = append(report.RepeatUnavailabilities, slot)
		}
	}

	desired, err := store.RecurringSlots(ctx, tenant, emp.ID, model.RecurringDesiredTime, weekday)
	if err != nil {
		return nil, fmt.Errorf("failed to query desired times: %w", err)
	}
	for _, slot := range desired {
		start, end := ProjectSlot(slot, shift)
		if timeutil.Overlaps(start, end, shift.Start, shift.End) {
			report.DesiredTimes = append(report.DesiredTimes, slot)
		}
	}

	report.CurrentHours, err = weeklyHours(ctx, store, tenant, emp, shift.Start, settings)
	if err != nil {
		return nil, err
	}

	if shift.EmployeeID == emp.ID {
		// Already the assignee: the candidate's hours are in CurrentHours.
		report.HoursIfAssigned = report.CurrentHours
	} else {
		duration, err := timeutil.ShiftHours(shift, emp)
		if err != nil {
			return nil, err
		}
		report.HoursIfAssigned = report.CurrentHours + duration
	}

	report.Overtime = report.HoursIfAssigned > settings.OvertimeThreshold

	return report, nil
}

// weeklyHours sums the employee's paid hours for the workweek containing
// the given instant. Shifts are selected by their start instant.
func weeklyHours(ctx context.Context, store Store, tenant model.TenantID, emp model.Employee, t time.Time, settings model.BusinessSettings) (float64, error) {
	weekStart, weekEnd := timeutil.WorkweekBounds(t, settings)

	shifts, err := store.ShiftsStartingBetween(ctx, tenant, emp.ID, weekStart, weekEnd)
	if err != nil {
		return 0, fmt.Errorf("failed to query workweek shifts: %w", err)
	}

	var hours float64
	for _, s := range shifts {
		duration, err := timeutil.ShiftHours(s, emp)
		if err != nil {
			return 0, err
		}
		hours += duration
	}
	return hours, nil
}
