package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shiftledger/shiftledger/pkg/core/model"
	"github.com/shiftledger/shiftledger/pkg/core/projection"
)

// EditScheduleStore defines the database operations needed by the
// schedule mutation services.
type EditScheduleStore interface {
	projection.Store

	ShiftByID(ctx context.Context, tenant model.TenantID, shiftID string) (model.Shift, error)
	EmployeeByID(ctx context.Context, tenant model.TenantID, employeeID string) (model.Employee, error)
	SettingsByTenant(ctx context.Context, tenant model.TenantID) (model.BusinessSettings, error)
	Departments(ctx context.Context, tenant model.TenantID) ([]model.Department, error)

	InsertShift(ctx context.Context, tenant model.TenantID, shift model.Shift) error
	UpdateShift(ctx context.Context, tenant model.TenantID, shift model.Shift) error
	DeleteShift(ctx context.Context, tenant model.TenantID, shiftID string) error
}

// MutationResult is the outcome of a schedule mutation: the shift as it
// stands after the change and the cost delta the change causes.
type MutationResult struct {
	Shift model.Shift

	// Delta holds the cost difference for each affected employee's
	// workweek, nil when the mutation touches no assigned employee.
	Delta *projection.Summary
}

// AddShift creates a shift, optionally assigned to an employee, and
// returns the cost delta the assignment causes. With dryRun set the
// shift is not persisted.
func AddShift(
	ctx context.Context,
	store EditScheduleStore,
	tenant model.TenantID,
	shift model.Shift,
	employeeID string,
	month time.Month,
	year int,
	logger *zap.Logger,
	dryRun bool,
) (*MutationResult, error) {
	if shift.ID == "" {
		shift.ID = uuid.New().String()
	}
	shift.EmployeeID = employeeID

	logger.Debug("Adding shift",
		zap.String("shift_id", shift.ID),
		zap.String("department_id", shift.DepartmentID),
		zap.String("employee_id", employeeID),
		zap.Bool("dry_run", dryRun))

	result := &MutationResult{Shift: shift}

	if shift.Assigned() {
		assignee, err := store.EmployeeByID(ctx, tenant, employeeID)
		if err != nil {
			return nil, fmt.Errorf("failed to load employee: %w", err)
		}

		departments, settings, err := loadCostContext(ctx, store, tenant)
		if err != nil {
			return nil, err
		}

		result.Delta, err = projection.AddShiftDelta(ctx, store, tenant, shift, assignee, departments, settings, month, year)
		if err != nil {
			return nil, fmt.Errorf("failed to compute cost delta: %w", err)
		}
	}

	if !dryRun {
		if err := store.InsertShift(ctx, tenant, shift); err != nil {
			return nil, fmt.Errorf("failed to insert shift: %w", err)
		}
	}

	logger.Info("Added shift", zap.String("shift_id", shift.ID), zap.Bool("dry_run", dryRun))
	return result, nil
}

// RemoveShift deletes a shift and returns the cost delta of losing it.
// Unassigned shifts carry no delta.
func RemoveShift(
	ctx context.Context,
	store EditScheduleStore,
	tenant model.TenantID,
	shiftID string,
	month time.Month,
	year int,
	logger *zap.Logger,
	dryRun bool,
) (*MutationResult, error) {
	shift, err := store.ShiftByID(ctx, tenant, shiftID)
	if err != nil {
		return nil, fmt.Errorf("failed to load shift: %w", err)
	}

	logger.Debug("Removing shift",
		zap.String("shift_id", shift.ID),
		zap.Bool("dry_run", dryRun))

	result := &MutationResult{Shift: shift}

	if shift.Assigned() {
		assignee, err := store.EmployeeByID(ctx, tenant, shift.EmployeeID)
		if err != nil {
			return nil, fmt.Errorf("failed to load employee: %w", err)
		}

		departments, settings, err := loadCostContext(ctx, store, tenant)
		if err != nil {
			return nil, err
		}

		result.Delta, err = projection.RemoveShiftDelta(ctx, store, tenant, shift, assignee, departments, settings, month, year)
		if err != nil {
			return nil, fmt.Errorf("failed to compute cost delta: %w", err)
		}
	}

	if !dryRun {
		if err := store.DeleteShift(ctx, tenant, shiftID); err != nil {
			return nil, fmt.Errorf("failed to delete shift: %w", err)
		}
	}

	logger.Info("Removed shift", zap.String("shift_id", shift.ID), zap.Bool("dry_run", dryRun))
	return result, nil
}

// EditShift moves a shift to a new time range and returns the cost
// delta of the move.
func EditShift(
	ctx context.Context,
	store EditScheduleStore,
	tenant model.TenantID,
	shiftID string,
	newStart, newEnd time.Time,
	month time.Month,
	year int,
	logger *zap.Logger,
	dryRun bool,
) (*MutationResult, error) {
	shift, err := store.ShiftByID(ctx, tenant, shiftID)
	if err != nil {
		return nil, fmt.Errorf("failed to load shift: %w", err)
	}

	logger.Debug("Editing shift",
		zap.String("shift_id", shift.ID),
		zap.Time("new_start", newStart),
		zap.Time("new_end", newEnd),
		zap.Bool("dry_run", dryRun))

	result := &MutationResult{}

	if shift.Assigned() {
		assignee, err := store.EmployeeByID(ctx, tenant, shift.EmployeeID)
		if err != nil {
			return nil, fmt.Errorf("failed to load employee: %w", err)
		}

		departments, settings, err := loadCostContext(ctx, store, tenant)
		if err != nil {
			return nil, err
		}

		result.Delta, err = projection.EditShiftDelta(ctx, store, tenant, shift, newStart, newEnd, assignee, departments, settings, month, year)
		if err != nil {
			return nil, fmt.Errorf("failed to compute cost delta: %w", err)
		}
	} else if !newEnd.After(newStart) {
		return nil, &model.InvalidIntervalError{Start: newStart, End: newEnd, Reason: "end must be after start"}
	}

	shift.Start = newStart
	shift.End = newEnd
	result.Shift = shift

	if !dryRun {
		if err := store.UpdateShift(ctx, tenant, shift); err != nil {
			return nil, fmt.Errorf("failed to update shift: %w", err)
		}
	}

	logger.Info("Edited shift", zap.String("shift_id", shift.ID), zap.Bool("dry_run", dryRun))
	return result, nil
}

// ReassignShift moves a shift from its current assignee to a new one
// and returns the combined cost delta for both employees.
func ReassignShift(
	ctx context.Context,
	store EditScheduleStore,
	tenant model.TenantID,
	shiftID string,
	currentEmployeeID, newEmployeeID string,
	month time.Month,
	year int,
	logger *zap.Logger,
	dryRun bool,
) (*MutationResult, error) {
	shift, err := store.ShiftByID(ctx, tenant, shiftID)
	if err != nil {
		return nil, fmt.Errorf("failed to load shift: %w", err)
	}

	current, err := store.EmployeeByID(ctx, tenant, currentEmployeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to load current employee: %w", err)
	}
	replacement, err := store.EmployeeByID(ctx, tenant, newEmployeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to load new employee: %w", err)
	}

	logger.Debug("Reassigning shift",
		zap.String("shift_id", shift.ID),
		zap.String("from_employee", currentEmployeeID),
		zap.String("to_employee", newEmployeeID),
		zap.Bool("dry_run", dryRun))

	departments, settings, err := loadCostContext(ctx, store, tenant)
	if err != nil {
		return nil, err
	}

	delta, err := projection.ReassignShiftDelta(ctx, store, tenant, shift, current, replacement, departments, settings, month, year)
	if err != nil {
		return nil, fmt.Errorf("failed to compute cost delta: %w", err)
	}

	shift.EmployeeID = newEmployeeID
	result := &MutationResult{Shift: shift, Delta: delta}

	if !dryRun {
		if err := store.UpdateShift(ctx, tenant, shift); err != nil {
			return nil, fmt.Errorf("failed to update shift: %w", err)
		}
	}

	logger.Info("Reassigned shift", zap.String("shift_id", shift.ID), zap.Bool("dry_run", dryRun))
	return result, nil
}

func loadCostContext(ctx context.Context, store EditScheduleStore, tenant model.TenantID) ([]model.Department, model.BusinessSettings, error) {
	departments, err := store.Departments(ctx, tenant)
	if err != nil {
		return nil, model.BusinessSettings{}, fmt.Errorf("failed to load departments: %w", err)
	}
	settings, err := store.SettingsByTenant(ctx, tenant)
	if err != nil {
		return nil, model.BusinessSettings{}, fmt.Errorf("failed to load business settings: %w", err)
	}
	return departments, settings, nil
}
