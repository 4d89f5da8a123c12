package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/shiftledger/shiftledger/pkg/core/model"
	"github.com/shiftledger/shiftledger/pkg/core/timeutil"
)

// Notifier delivers a published schedule to an employee. Implementations
// decide the channel; the service only formats the message.
type Notifier interface {
	Notify(ctx context.Context, employee model.Employee, message string) error
}

// PublishScheduleStore defines the database operations needed to publish
// a department's month of shifts.
type PublishScheduleStore interface {
	DepartmentByID(ctx context.Context, tenant model.TenantID, departmentID string) (model.Department, error)
	EmployeeByID(ctx context.Context, tenant model.TenantID, employeeID string) (model.Employee, error)
	ShiftsForDepartmentBetween(ctx context.Context, tenant model.TenantID, departmentID string, start, end time.Time) ([]model.Shift, error)
}

// PublishScheduleResult reports which employees were notified.
type PublishScheduleResult struct {
	Department model.Department
	Notified   []string
}

// PublishSchedule sends every employee assigned to the department during
// the month a summary of their shifts.
func PublishSchedule(
	ctx context.Context,
	store PublishScheduleStore,
	notifier Notifier,
	tenant model.TenantID,
	departmentID string,
	month time.Month,
	year int,
	logger *zap.Logger,
) (*PublishScheduleResult, error) {
	department, err := store.DepartmentByID(ctx, tenant, departmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load department: %w", err)
	}

	gridStart, gridEnd := timeutil.CalendarGridBounds(year, month)
	shifts, err := store.ShiftsForDepartmentBetween(ctx, tenant, departmentID, gridStart, gridEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to load shifts: %w", err)
	}

	logger.Debug("Publishing schedule",
		zap.String("department", department.Name),
		zap.Int("month", int(month)),
		zap.Int("year", year),
		zap.Int("shifts", len(shifts)))

	byEmployee := make(map[string][]model.Shift)
	for _, shift := range shifts {
		if !shift.Assigned() {
			continue
		}
		byEmployee[shift.EmployeeID] = append(byEmployee[shift.EmployeeID], shift)
	}

	employeeIDs := make([]string, 0, len(byEmployee))
	for id := range byEmployee {
		employeeIDs = append(employeeIDs, id)
	}
	sort.Strings(employeeIDs)

	result := &PublishScheduleResult{Department: department}
	for _, employeeID := range employeeIDs {
		employee, err := store.EmployeeByID(ctx, tenant, employeeID)
		if err != nil {
			return nil, fmt.Errorf("failed to load employee: %w", err)
		}

		message := buildScheduleMessage(department, byEmployee[employeeID], month, year)
		if err := notifier.Notify(ctx, employee, message); err != nil {
			return nil, fmt.Errorf("failed to notify employee %s: %w", employeeID, err)
		}
		result.Notified = append(result.Notified, employeeID)
	}

	logger.Info("Published schedule",
		zap.String("department", department.Name),
		zap.Int("notified", len(result.Notified)))

	return result, nil
}

func buildScheduleMessage(department model.Department, shifts []model.Shift, month time.Month, year int) string {
	sort.Slice(shifts, func(i, j int) bool {
		return shifts[i].Start.Before(shifts[j].Start)
	})

	var b strings.Builder
	fmt.Fprintf(&b, "You have %d schedule(s) for department %s in %s %d:",
		len(shifts), department.Name, month.String(), year)
	for _, shift := range shifts {
		fmt.Fprintf(&b, "\n%s %s - %s",
			shift.Start.Format("Monday, January 2"),
			shift.Start.Format("15:04"),
			shift.End.Format("15:04"))
	}
	return b.String()
}
