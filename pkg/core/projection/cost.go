package projection

import (
	"github.com/shiftledger/shiftledger/pkg/core/model"
)

// Cost converts an hours split into currency.
//
// Regular hours are paid at the wage, overtime hours at the wage times
// the overtime multiplier, and the employer surcharge (a social-security
// style percentage) is applied to the sum.
func Cost(regularHours, overtimeHours, wage, overtimeMultiplier, surchargePct float64) float64 {
	gross := regularHours*wage + overtimeHours*wage*overtimeMultiplier
	return gross * (1 + surchargePct/100)
}

// DayCost is one day's hours and cost for one department bucket.
type DayCost struct {
	Hours         float64
	OvertimeHours float64
	Cost          float64
}

// WeekCost is one workweek's hours and cost for one department bucket.
type WeekCost struct {
	Hours         float64
	OvertimeHours float64
	Cost          float64
}

// MonthCost is one month's cost for one department bucket.
type MonthCost struct {
	Name string
	Cost float64
}

// weekCosts sums each employee's weekly cost contribution per department
// bucket. With monthOnly set, only the month-restricted hours count.
func weekCosts(hours map[string]*EmployeeWeekHours, employees map[string]model.Employee, departments []model.Department, settings model.BusinessSettings, monthOnly bool) map[string]WeekCost {
	costs := make(map[string]WeekCost, len(departments)+1)
	for _, dep := range departments {
		costs[dep.ID] = WeekCost{}
	}
	costs[TotalKey] = WeekCost{}

	for employeeID, employeeHours := range hours {
		emp := employees[employeeID]
		for key, week := range employeeHours.Week {
			regular, overtime := week.Regular, week.Overtime
			if monthOnly {
				regular, overtime = week.RegularInMonth, week.OvertimeInMonth
			}

			bucket := costs[key]
			bucket.Hours += regular
			bucket.OvertimeHours += overtime
			bucket.Cost += Cost(regular, overtime, emp.Wage, settings.OvertimeMultiplier, emp.SocialSecurityPct)
			costs[key] = bucket
		}
	}
	return costs
}

// dayCosts sums each employee's daily cost contribution per date and
// department bucket.
func dayCosts(hours map[string]*EmployeeWeekHours, employees map[string]model.Employee, settings model.BusinessSettings) map[string]map[string]DayCost {
	costs := make(map[string]map[string]DayCost)

	for employeeID, employeeHours := range hours {
		emp := employees[employeeID]
		for date, day := range employeeHours.Days {
			dateCosts, ok := costs[date]
			if !ok {
				dateCosts = make(map[string]DayCost, len(day))
				costs[date] = dateCosts
			}
			for key, bucket := range day {
				cost := Cost(bucket.Regular, bucket.Overtime, emp.Wage, settings.OvertimeMultiplier, emp.SocialSecurityPct)
				dayCost := dateCosts[key]
				dayCost.Hours += bucket.Regular
				dayCost.OvertimeHours += bucket.Overtime
				dayCost.Cost += cost
				dateCosts[key] = dayCost
			}
		}
	}
	return costs
}
