package model

import "time"

// TenantID identifies the business/manager that owns a set of records.
// Every store lookup is scoped by a TenantID; records from different
// tenants must never be combined in one computation.
type TenantID string

// TimeOffKind distinguishes the two single-occurrence unavailability types.
type TimeOffKind string

const (
	TimeOffVacation TimeOffKind = "vacation"
	TimeOffAbsence  TimeOffKind = "absence"
)

// RecurringKind distinguishes the two weekly recurring interval types.
type RecurringKind string

const (
	RecurringUnavailability RecurringKind = "unavailability"
	RecurringDesiredTime    RecurringKind = "desired_time"
)

// TimeOfDay is a wall-clock time with no date attached. Recurring slots
// and the workweek start are stored this way and only become comparable
// instants once projected onto a concrete date.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// On projects the time of day onto ref's date, in ref's location.
func (t TimeOfDay) On(ref time.Time) time.Time {
	return time.Date(ref.Year(), ref.Month(), ref.Day(), t.Hour, t.Minute, 0, 0, ref.Location())
}

// Before reports whether t is earlier in the day than other.
func (t TimeOfDay) Before(other TimeOfDay) bool {
	if t.Hour != other.Hour {
		return t.Hour < other.Hour
	}
	return t.Minute < other.Minute
}

// Employee holds the wage, break rule and benefit figures the cost
// engines need. Names and email are carried for display and notification.
type Employee struct {
	ID        string
	FirstName string
	LastName  string
	Email     string
	Phone     string

	Wage         float64 // currency per hour
	DesiredHours float64 // target hours per workweek

	// Break rule: shifts of at least MinHoursForBreak raw hours have
	// BreakMinutes deducted from their paid duration. Zero disables it.
	MinHoursForBreak float64
	BreakMinutes     float64

	MonthlyBenefits   float64 // fixed monthly benefit cost
	SocialSecurityPct float64 // employer surcharge, percent of gross
}

// Department is a unit of the business that shifts belong to.
type Department struct {
	ID   string
	Name string
}

// DepartmentMembership relates an employee to a department. Priority 0 is
// the employee's home department; higher values mean less central.
// Seniority is a tiebreak value kept for reporting.
type DepartmentMembership struct {
	EmployeeID   string
	DepartmentID string
	Priority     int
	Seniority    int
}

// Shift is a scheduled work interval for a department, optionally
// assigned to an employee (empty EmployeeID means open).
type Shift struct {
	ID           string
	Start        time.Time
	End          time.Time
	DepartmentID string
	EmployeeID   string
	Note         string
	HideStart    bool
	HideEnd      bool
}

// Assigned reports whether the shift has an employee.
func (s Shift) Assigned() bool {
	return s.EmployeeID != ""
}

// TimeOff is a single-occurrence unavailability interval (vacation or
// absence) for one employee.
type TimeOff struct {
	ID         string
	EmployeeID string
	Kind       TimeOffKind
	Start      time.Time
	End        time.Time
}

// RecurringSlot is a weekly recurring interval for one employee: either
// an unavailability or a desired working time. It carries only a weekday
// and times of day; overlap testing requires projecting it onto a
// concrete shift's dates first.
type RecurringSlot struct {
	ID         string
	EmployeeID string
	Kind       RecurringKind
	Weekday    time.Weekday
	StartTime  TimeOfDay
	EndTime    TimeOfDay
}

// BusinessSettings are the per-tenant scheduling knobs.
type BusinessSettings struct {
	// OvertimeThreshold is the number of hours per workweek after which
	// additional hours are paid at the overtime rate.
	OvertimeThreshold  float64
	OvertimeMultiplier float64

	// The workweek is a fixed 7x24h window starting at this weekday and
	// time of day; it is unrelated to the calendar week.
	WorkweekStartDay  time.Weekday
	WorkweekStartTime TimeOfDay
}

// MonthlyRevenue is one revenue data point for a month, used to show the
// ratio of projected labor cost to typical revenue.
type MonthlyRevenue struct {
	ID    string
	Month time.Month
	Year  int
	Total float64
}
