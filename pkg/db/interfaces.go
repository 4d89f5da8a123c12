package db

import (
	"context"
	"time"

	"github.com/shiftledger/shiftledger/pkg/core/model"
)

// Store defines the full set of database operations. Each service
// declares the narrow subset it needs; postgres.DB implements this
// aggregate so a single value satisfies them all.
type Store interface {
	// Employees and departments
	EmployeeByID(ctx context.Context, tenant model.TenantID, employeeID string) (model.Employee, error)
	Employees(ctx context.Context, tenant model.TenantID) ([]model.Employee, error)
	DepartmentByID(ctx context.Context, tenant model.TenantID, departmentID string) (model.Department, error)
	Departments(ctx context.Context, tenant model.TenantID) ([]model.Department, error)
	MembershipsByDepartment(ctx context.Context, tenant model.TenantID, departmentID string) ([]model.DepartmentMembership, error)

	// Shifts
	ShiftByID(ctx context.Context, tenant model.TenantID, shiftID string) (model.Shift, error)
	ShiftsBetween(ctx context.Context, tenant model.TenantID, start, end time.Time) ([]model.Shift, error)
	ShiftsForDepartmentBetween(ctx context.Context, tenant model.TenantID, departmentID string, start, end time.Time) ([]model.Shift, error)
	ShiftsOverlapping(ctx context.Context, tenant model.TenantID, employeeID string, start, end time.Time) ([]model.Shift, error)
	ShiftsStartingBetween(ctx context.Context, tenant model.TenantID, employeeID string, start, end time.Time) ([]model.Shift, error)
	ShiftsIntersecting(ctx context.Context, tenant model.TenantID, employeeID string, start, end time.Time) ([]model.Shift, error)
	InsertShift(ctx context.Context, tenant model.TenantID, shift model.Shift) error
	UpdateShift(ctx context.Context, tenant model.TenantID, shift model.Shift) error
	DeleteShift(ctx context.Context, tenant model.TenantID, shiftID string) error

	// Availability records
	TimeOffOverlapping(ctx context.Context, tenant model.TenantID, employeeID string, kind model.TimeOffKind, start, end time.Time) ([]model.TimeOff, error)
	RecurringSlots(ctx context.Context, tenant model.TenantID, employeeID string, kind model.RecurringKind, weekday time.Weekday) ([]model.RecurringSlot, error)

	// Tenant-level records
	SettingsByTenant(ctx context.Context, tenant model.TenantID) (model.BusinessSettings, error)
	MonthlyRevenues(ctx context.Context, tenant model.TenantID, month time.Month) ([]model.MonthlyRevenue, error)
}
