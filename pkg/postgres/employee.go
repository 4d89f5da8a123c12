package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/shiftledger/shiftledger/pkg/core/model"
)

const employeeColumns = `id, first_name, last_name, email, phone, wage, desired_hours,
	min_hours_for_break, break_minutes, monthly_benefits, social_security_pct`

func scanEmployee(row pgx.Row) (model.Employee, error) {
	var e model.Employee
	err := row.Scan(&e.ID, &e.FirstName, &e.LastName, &e.Email, &e.Phone, &e.Wage, &e.DesiredHours,
		&e.MinHoursForBreak, &e.BreakMinutes, &e.MonthlyBenefits, &e.SocialSecurityPct)
	if err != nil {
		return model.Employee{}, err
	}
	return e, nil
}

// EmployeeByID retrieves a single employee record
func (d *DB) EmployeeByID(ctx context.Context, tenant model.TenantID, employeeID string) (model.Employee, error) {
	row := d.pool.QueryRow(ctx, `
		SELECT `+employeeColumns+`
		FROM employee
		WHERE tenant_id = $1 AND id = $2
	`, tenant, employeeID)

	e, err := scanEmployee(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Employee{}, &model.NotFoundError{Kind: "employee", ID: employeeID}
	}
	if err != nil {
		return model.Employee{}, fmt.Errorf("failed to query employee: %w", err)
	}
	return e, nil
}

// Employees retrieves all employee records of the tenant
func (d *DB) Employees(ctx context.Context, tenant model.TenantID) ([]model.Employee, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT `+employeeColumns+`
		FROM employee
		WHERE tenant_id = $1
		ORDER BY last_name, first_name
	`, tenant)
	if err != nil {
		return nil, fmt.Errorf("failed to query employees: %w", err)
	}
	defer rows.Close()

	var employees []model.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating employees: %w", err)
	}
	return employees, nil
}

// DepartmentByID retrieves a single department record
func (d *DB) DepartmentByID(ctx context.Context, tenant model.TenantID, departmentID string) (model.Department, error) {
	var dept model.Department
	err := d.pool.QueryRow(ctx, `
		SELECT id, name FROM department WHERE tenant_id = $1 AND id = $2
	`, tenant, departmentID).Scan(&dept.ID, &dept.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Department{}, &model.NotFoundError{Kind: "department", ID: departmentID}
	}
	if err != nil {
		return model.Department{}, fmt.Errorf("failed to query department: %w", err)
	}
	return dept, nil
}

// Departments retrieves all department records of the tenant
func (d *DB) Departments(ctx context.Context, tenant model.TenantID) ([]model.Department, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, name FROM department WHERE tenant_id = $1 ORDER BY name
	`, tenant)
	if err != nil {
		return nil, fmt.Errorf("failed to query departments: %w", err)
	}
	defer rows.Close()

	var departments []model.Department
	for rows.Next() {
		var dept model.Department
		if err := rows.Scan(&dept.ID, &dept.Name); err != nil {
			return nil, fmt.Errorf("failed to scan department: %w", err)
		}
		departments = append(departments, dept)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating departments: %w", err)
	}
	return departments, nil
}

// MembershipsByDepartment retrieves all membership records of a department
func (d *DB) MembershipsByDepartment(ctx context.Context, tenant model.TenantID, departmentID string) ([]model.DepartmentMembership, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT employee_id, department_id, priority, seniority
		FROM department_membership
		WHERE tenant_id = $1 AND department_id = $2
		ORDER BY priority, seniority DESC, employee_id
	`, tenant, departmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query department memberships: %w", err)
	}
	defer rows.Close()

	var memberships []model.DepartmentMembership
	for rows.Next() {
		var m model.DepartmentMembership
		if err := rows.Scan(&m.EmployeeID, &m.DepartmentID, &m.Priority, &m.Seniority); err != nil {
			return nil, fmt.Errorf("failed to scan department membership: %w", err)
		}
		memberships = append(memberships, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating department memberships: %w", err)
	}
	return memberships, nil
}
