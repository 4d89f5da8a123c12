// Package projection computes workweek-aware hours and labor cost for
// sets of shifts: per-schedule, per-day, per-workweek and per-month
// breakdowns split by department, plus incremental deltas for single
// shift mutations.
package projection

import (
	"sort"
	"time"

	"github.com/shiftledger/shiftledger/pkg/core/model"
	"github.com/shiftledger/shiftledger/pkg/core/timeutil"
)

// TotalKey is the pseudo-department that accumulates hours and cost
// across all departments.
const TotalKey = "total"

// dayKey formats a date as the day-bucket key.
func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// ScheduleHours is one shift's split into regular and overtime hours.
// Duration is the shift's full paid duration (Regular + Overtime).
type ScheduleHours struct {
	Regular  float64
	Overtime float64
	Duration float64
}

// DayHours accumulates one day's hours for one department bucket.
type DayHours struct {
	Regular  float64
	Overtime float64
}

// WeekHours accumulates a workweek's hours for one department bucket.
// The InMonth fields count only shifts whose start date falls in the
// aggregation's month/year filter; they prorate a month's cost when a
// workweek straddles a month boundary.
type WeekHours struct {
	Regular         float64
	Overtime        float64
	RegularInMonth  float64
	OvertimeInMonth float64
}

// EmployeeWeekHours is one employee's hours for one workweek, bucketed
// by shift, by day and by department. Day and Week maps are keyed by
// department ID plus TotalKey.
type EmployeeWeekHours struct {
	Schedules map[string]ScheduleHours
	Days      map[string]map[string]DayHours
	Week      map[string]WeekHours
}

// EmployeeWeek computes one employee's regular/overtime split for one
// workweek starting at weekStart.
//
// Shifts are processed in (start, end) order with a running total of the
// employee's regular hours across all departments. Once the running
// total passes the overtime threshold, the remainder of the current
// shift's duration is overtime, attributed to that shift's department
// and to the total bucket. This makes the split order-dependent on
// purpose: overtime lands in the department where it chronologically
// occurred, even when the employee changes department mid-week.
//
// If year is non-zero, shifts whose start instant falls in month/year
// also accumulate into the InMonth fields. A shift belongs to the month
// of its start instant only; shifts crossing a month boundary are not
// split (documented approximation).
func EmployeeWeek(weekStart time.Time, emp model.Employee, departments []model.Department, settings model.BusinessSettings, shifts []model.Shift, month time.Month, year int) (*EmployeeWeekHours, error) {
	hours := &EmployeeWeekHours{
		Schedules: make(map[string]ScheduleHours, len(shifts)),
		Days:      make(map[string]map[string]DayHours, 7),
		Week:      make(map[string]WeekHours, len(departments)+1),
	}

	keys := make([]string, 0, len(departments)+1)
	for _, dep := range departments {
		keys = append(keys, dep.ID)
	}
	keys = append(keys, TotalKey)

	for _, key := range keys {
		hours.Week[key] = WeekHours{}
	}
	for i := 0; i < 7; i++ {
		day := make(map[string]DayHours, len(keys))
		for _, key := range keys {
			day[key] = DayHours{}
		}
		hours.Days[dayKey(weekStart.AddDate(0, 0, i))] = day
	}

	ordered := make([]model.Shift, len(shifts))
	copy(ordered, shifts)
	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].Start.Equal(ordered[j].Start) {
			return ordered[i].Start.Before(ordered[j].Start)
		}
		return ordered[i].End.Before(ordered[j].End)
	})

	for _, shift := range ordered {
		duration, err := timeutil.ShiftHours(shift, emp)
		if err != nil {
			return nil, err
		}

		regular := duration
		overtime := 0.0
		if runningTotal := hours.Week[TotalKey].Regular + duration; runningTotal > settings.OvertimeThreshold {
			overtime = runningTotal - settings.OvertimeThreshold
			if overtime > duration {
				overtime = duration
			}
			regular = duration - overtime
		}

		hours.Schedules[shift.ID] = ScheduleHours{Regular: regular, Overtime: overtime, Duration: duration}

		day := hours.Days[dayKey(shift.Start)]
		if day == nil {
			// Shifts late in a week whose start time is not midnight can
			// begin on an eighth calendar date.
			day = make(map[string]DayHours, len(keys))
			for _, key := range keys {
				day[key] = DayHours{}
			}
			hours.Days[dayKey(shift.Start)] = day
		}
		addDay(day, shift.DepartmentID, regular, overtime)
		addDay(day, TotalKey, regular, overtime)

		inMonth := year != 0 && shift.Start.Year() == year && shift.Start.Month() == month
		addWeek(hours.Week, shift.DepartmentID, regular, overtime, inMonth)
		addWeek(hours.Week, TotalKey, regular, overtime, inMonth)
	}

	return hours, nil
}

func addDay(day map[string]DayHours, key string, regular, overtime float64) {
	bucket := day[key]
	bucket.Regular += regular
	bucket.Overtime += overtime
	day[key] = bucket
}

func addWeek(week map[string]WeekHours, key string, regular, overtime float64, inMonth bool) {
	bucket := week[key]
	bucket.Regular += regular
	bucket.Overtime += overtime
	if inMonth {
		bucket.RegularInMonth += regular
		bucket.OvertimeInMonth += overtime
	}
	week[key] = bucket
}

// AggregateWeek computes EmployeeWeek for every assigned employee in the
// given workweek's shifts. Shifts with no assignee are skipped. The
// result is keyed by employee ID.
func AggregateWeek(weekStart time.Time, shifts []model.Shift, employees map[string]model.Employee, departments []model.Department, settings model.BusinessSettings, month time.Month, year int) (map[string]*EmployeeWeekHours, error) {
	byEmployee := make(map[string][]model.Shift)
	for _, shift := range shifts {
		if !shift.Assigned() {
			continue
		}
		byEmployee[shift.EmployeeID] = append(byEmployee[shift.EmployeeID], shift)
	}

	result := make(map[string]*EmployeeWeekHours, len(byEmployee))
	for employeeID, employeeShifts := range byEmployee {
		emp, ok := employees[employeeID]
		if !ok {
			return nil, &model.NotFoundError{Kind: "employee", ID: employeeID}
		}
		hours, err := EmployeeWeek(weekStart, emp, departments, settings, employeeShifts, month, year)
		if err != nil {
			return nil, err
		}
		result[employeeID] = hours
	}
	return result, nil
}
