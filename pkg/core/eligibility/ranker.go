// Package eligibility ranks a department's employees by fitness for an
// open shift. Each candidate gets a four-tier score and the list is
// stable-sorted so later tiers only refine ties in earlier tiers.
package eligibility

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shiftledger/shiftledger/pkg/core/availability"
	"github.com/shiftledger/shiftledger/pkg/core/model"
)

// Conflict weights. Each weight exceeds the sum of all lower weights, so
// any single higher-severity conflict outranks every combination of
// lower-severity ones.
const (
	WeightShiftConflict       = 16
	WeightVacationConflict    = 8
	WeightAbsenceConflict     = 4
	WeightUnavailableConflict = 2
	WeightOvertime            = 1
)

// Store defines the queries the ranker needs on top of the availability
// engine's own.
type Store interface {
	availability.Store

	// MembershipsByDepartment returns every membership in the given
	// department for the tenant.
	MembershipsByDepartment(ctx context.Context, tenant model.TenantID, departmentID string) ([]model.DepartmentMembership, error)

	// EmployeeByID returns one employee, or an error wrapping
	// model.ErrNotFound.
	EmployeeByID(ctx context.Context, tenant model.TenantID, employeeID string) (model.Employee, error)
}

// Score is the four-tier sort key, compared lexicographically.
// Lower sorts earlier, meaning more eligible.
type Score struct {
	// Conflict is the weighted sum of the candidate's conflicts.
	Conflict int

	// DepartmentPriority is the membership priority (0 = home department).
	DepartmentPriority int

	// DesiredOverlapSeconds is the negative of the total overlap, in
	// seconds, between the shift and the candidate's desired times.
	DesiredOverlapSeconds float64

	// HoursDeviation is hours-if-assigned minus the candidate's desired
	// weekly hours. Signed: under-target candidates sort ahead of
	// equally over-target ones.
	HoursDeviation float64
}

// Less compares scores tier by tier.
func (s Score) Less(other Score) bool {
	if s.Conflict != other.Conflict {
		return s.Conflict < other.Conflict
	}
	if s.DepartmentPriority != other.DepartmentPriority {
		return s.DepartmentPriority < other.DepartmentPriority
	}
	if s.DesiredOverlapSeconds != other.DesiredOverlapSeconds {
		return s.DesiredOverlapSeconds < other.DesiredOverlapSeconds
	}
	return s.HoursDeviation < other.HoursDeviation
}

// Ranked is one entry of the eligibility list.
type Ranked struct {
	Employee   model.Employee
	Membership model.DepartmentMembership
	Report     *availability.Report
	Score      Score
}

// Rank evaluates every member of the shift's department and returns them
// ordered from most to least eligible.
//
// The sort is stable and candidates are evaluated in membership order, so
// equal scores keep a deterministic encounter order.
func Rank(ctx context.Context, store Store, tenant model.TenantID, shift model.Shift, settings model.BusinessSettings) ([]Ranked, error) {
	memberships, err := store.MembershipsByDepartment(ctx, tenant, shift.DepartmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query department memberships: %w", err)
	}

	ranked := make([]Ranked, 0, len(memberships))
	for _, membership := range memberships {
		emp, err := store.EmployeeByID(ctx, tenant, membership.EmployeeID)
		if err != nil {
			return nil, fmt.Errorf("failed to load employee %s: %w", membership.EmployeeID, err)
		}

		report, err := availability.Evaluate(ctx, store, tenant, emp, shift, settings)
		if err != nil {
			return nil, fmt.Errorf("failed to evaluate employee %s: %w", emp.ID, err)
		}

		ranked = append(ranked, Ranked{
			Employee:   emp,
			Membership: membership,
			Report:     report,
			Score: Score{
				Conflict:              conflictScore(report),
				DepartmentPriority:    membership.Priority,
				DesiredOverlapSeconds: desiredOverlapScore(report, shift),
				HoursDeviation:        report.HoursIfAssigned - emp.DesiredHours,
			},
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score.Less(ranked[j].Score)
	})

	return ranked, nil
}

// conflictScore sums the conflict weights present in the report.
func conflictScore(report *availability.Report) int {
	score := 0
	if len(report.Shifts) > 0 {
		score += WeightShiftConflict
	}
	if len(report.Vacations) > 0 {
		score += WeightVacationConflict
	}
	if len(report.Absences) > 0 {
		score += WeightAbsenceConflict
	}
	if len(report.RepeatUnavailabilities) > 0 {
		score += WeightUnavailableConflict
	}
	if report.Overtime {
		score += WeightOvertime
	}
	return score
}

// desiredOverlapScore returns the negative of the total overlap, in
// seconds, between the shift and the report's desired times. Each desired
// interval is clipped to its intersection with the shift and the clipped
// durations are summed, so more overlap sorts earlier.
func desiredOverlapScore(report *availability.Report, shift model.Shift) float64 {
	var total time.Duration
	for _, slot := range report.DesiredTimes {
		start, end := availability.ProjectSlot(slot, shift)
		if start.Before(shift.Start) {
			start = shift.Start
		}
		if end.After(shift.End) {
			end = shift.End
		}
		if end.After(start) {
			total += end.Sub(start)
		}
	}
	return -total.Seconds()
}
