package projection

import (
	"time"

	"github.com/shiftledger/shiftledger/pkg/core/model"
	"github.com/shiftledger/shiftledger/pkg/core/timeutil"
)

// WorkweekCosts is one workweek's cost breakdown by department bucket.
type WorkweekCosts struct {
	Start       time.Time
	End         time.Time
	Departments map[string]WeekCost
}

// Summary is the hours-and-cost breakdown of a set of shifts: per day,
// per workweek and per month, each split by department plus the total
// bucket. It is the shape returned by the calendar projection and, as an
// element-wise difference, by the delta engine.
type Summary struct {
	Days      map[string]map[string]DayCost
	Workweeks []WorkweekCosts
	Month     map[string]MonthCost
}

// Calendar projects hours and cost for every workweek intersecting the
// given month.
//
// Shifts are bucketed into workweeks by their start instant; shifts with
// no assignee are skipped. The month costs cover only the hours whose
// shifts start inside the month, then each employee's fixed monthly
// benefit is added: split evenly across departments (not hours-weighted)
// with the full sum landing in the total bucket.
func Calendar(shifts []model.Shift, employees []model.Employee, departments []model.Department, settings model.BusinessSettings, month time.Month, year int) (*Summary, error) {
	summary := &Summary{
		Days:  make(map[string]map[string]DayCost),
		Month: make(map[string]MonthCost, len(departments)+1),
	}

	employeesByID := make(map[string]model.Employee, len(employees))
	for _, emp := range employees {
		employeesByID[emp.ID] = emp
	}

	for _, dep := range departments {
		summary.Month[dep.ID] = MonthCost{Name: dep.Name}
	}
	summary.Month[TotalKey] = MonthCost{Name: "Total"}

	weekStarts := monthWorkweekStarts(month, year, settings)
	weekShifts := make([][]model.Shift, len(weekStarts))
	for _, shift := range shifts {
		if !shift.Assigned() {
			continue
		}
		for i, weekStart := range weekStarts {
			weekEnd := weekStart.AddDate(0, 0, 7).Add(-time.Second)
			if !shift.Start.Before(weekStart) && !shift.Start.After(weekEnd) {
				weekShifts[i] = append(weekShifts[i], shift)
				break
			}
		}
	}

	for i, weekStart := range weekStarts {
		hours, err := AggregateWeek(weekStart, weekShifts[i], employeesByID, departments, settings, month, year)
		if err != nil {
			return nil, err
		}

		for date, costs := range dayCosts(hours, employeesByID, settings) {
			summary.Days[date] = costs
		}

		summary.Workweeks = append(summary.Workweeks, WorkweekCosts{
			Start:       weekStart,
			End:         weekStart.AddDate(0, 0, 7).Add(-time.Second),
			Departments: weekCosts(hours, employeesByID, departments, settings, false),
		})

		for key, cost := range weekCosts(hours, employeesByID, departments, settings, true) {
			bucket := summary.Month[key]
			bucket.Cost += cost.Cost
			summary.Month[key] = bucket
		}
	}

	addMonthlyBenefits(summary.Month, employees, departments)

	return summary, nil
}

// monthWorkweekStarts returns the start instants of every workweek
// intersecting the month: the week containing the first of the month,
// plus following weeks whose start still lies inside the month.
func monthWorkweekStarts(month time.Month, year int, settings model.BusinessSettings) []time.Time {
	first, _ := timeutil.WorkweekBounds(time.Date(year, month, 1, 0, 0, 0, 0, time.UTC), settings)
	starts := []time.Time{first}
	for i := 1; i <= 5; i++ {
		next := first.AddDate(0, 0, 7*i)
		if next.Month() == month {
			starts = append(starts, next)
		}
	}
	return starts
}

// addMonthlyBenefits folds fixed monthly benefit costs into the month
// buckets. The benefit is deliberately not hours-weighted.
func addMonthlyBenefits(monthCosts map[string]MonthCost, employees []model.Employee, departments []model.Department) {
	var total float64
	for _, emp := range employees {
		total += emp.MonthlyBenefits
	}
	if total == 0 || len(departments) == 0 {
		if bucket, ok := monthCosts[TotalKey]; ok {
			bucket.Cost += total
			monthCosts[TotalKey] = bucket
		}
		return
	}

	perDepartment := total / float64(len(departments))
	for key, bucket := range monthCosts {
		if key == TotalKey {
			bucket.Cost += total
		} else {
			bucket.Cost += perDepartment
		}
		monthCosts[key] = bucket
	}
}

// singleEmployeeSummary builds a Summary for one employee and one
// workweek. It is the before/after building block of the delta engine
// and intentionally mirrors Calendar's shape with a single workweek.
func singleEmployeeSummary(weekStart, weekEnd time.Time, emp model.Employee, shifts []model.Shift, departments []model.Department, settings model.BusinessSettings, month time.Month, year int) (*Summary, error) {
	hours, err := EmployeeWeek(weekStart, emp, departments, settings, shifts, month, year)
	if err != nil {
		return nil, err
	}

	byEmployee := map[string]*EmployeeWeekHours{emp.ID: hours}
	employees := map[string]model.Employee{emp.ID: emp}

	summary := &Summary{
		Days:  dayCosts(byEmployee, employees, settings),
		Month: make(map[string]MonthCost, len(departments)+1),
	}
	summary.Workweeks = []WorkweekCosts{{
		Start:       weekStart,
		End:         weekEnd,
		Departments: weekCosts(byEmployee, employees, departments, settings, false),
	}}

	names := make(map[string]string, len(departments)+1)
	for _, dep := range departments {
		names[dep.ID] = dep.Name
	}
	names[TotalKey] = "Total"
	for key, cost := range weekCosts(byEmployee, employees, departments, settings, true) {
		summary.Month[key] = MonthCost{Name: names[key], Cost: cost.Cost}
	}

	return summary, nil
}
