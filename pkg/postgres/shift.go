package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/shiftledger/shiftledger/pkg/core/model"
)

const shiftColumns = `id, department_id, employee_id, start_at, end_at, note, hide_start, hide_end`

func scanShift(row pgx.Row) (model.Shift, error) {
	var s model.Shift
	var employeeID *string
	err := row.Scan(&s.ID, &s.DepartmentID, &employeeID, &s.Start, &s.End, &s.Note, &s.HideStart, &s.HideEnd)
	if err != nil {
		return model.Shift{}, err
	}
	if employeeID != nil {
		s.EmployeeID = *employeeID
	}
	return s, nil
}

func collectShifts(rows pgx.Rows) ([]model.Shift, error) {
	defer rows.Close()

	var shifts []model.Shift
	for rows.Next() {
		s, err := scanShift(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shift: %w", err)
		}
		shifts = append(shifts, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating shifts: %w", err)
	}
	return shifts, nil
}

// ShiftByID retrieves a single shift record
func (d *DB) ShiftByID(ctx context.Context, tenant model.TenantID, shiftID string) (model.Shift, error) {
	row := d.pool.QueryRow(ctx, `
		SELECT `+shiftColumns+`
		FROM shift
		WHERE tenant_id = $1 AND id = $2
	`, tenant, shiftID)

	s, err := scanShift(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Shift{}, &model.NotFoundError{Kind: "shift", ID: shiftID}
	}
	if err != nil {
		return model.Shift{}, fmt.Errorf("failed to query shift: %w", err)
	}
	return s, nil
}

// ShiftsBetween retrieves all shifts of the tenant starting inside [start, end]
func (d *DB) ShiftsBetween(ctx context.Context, tenant model.TenantID, start, end time.Time) ([]model.Shift, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT `+shiftColumns+`
		FROM shift
		WHERE tenant_id = $1 AND start_at >= $2 AND start_at <= $3
		ORDER BY start_at, end_at
	`, tenant, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query shifts: %w", err)
	}
	return collectShifts(rows)
}

// ShiftsForDepartmentBetween retrieves a department's shifts starting inside [start, end]
func (d *DB) ShiftsForDepartmentBetween(ctx context.Context, tenant model.TenantID, departmentID string, start, end time.Time) ([]model.Shift, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT `+shiftColumns+`
		FROM shift
		WHERE tenant_id = $1 AND department_id = $2 AND start_at >= $3 AND start_at <= $4
		ORDER BY start_at, end_at
	`, tenant, departmentID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query department shifts: %w", err)
	}
	return collectShifts(rows)
}

// ShiftsOverlapping retrieves an employee's shifts strictly overlapping (start, end)
func (d *DB) ShiftsOverlapping(ctx context.Context, tenant model.TenantID, employeeID string, start, end time.Time) ([]model.Shift, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT `+shiftColumns+`
		FROM shift
		WHERE tenant_id = $1 AND employee_id = $2 AND start_at < $4 AND end_at > $3
		ORDER BY start_at, end_at
	`, tenant, employeeID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query overlapping shifts: %w", err)
	}
	return collectShifts(rows)
}

// ShiftsStartingBetween retrieves an employee's shifts starting inside [start, end]
func (d *DB) ShiftsStartingBetween(ctx context.Context, tenant model.TenantID, employeeID string, start, end time.Time) ([]model.Shift, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT `+shiftColumns+`
		FROM shift
		WHERE tenant_id = $1 AND employee_id = $2 AND start_at >= $3 AND start_at <= $4
		ORDER BY start_at, end_at
	`, tenant, employeeID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query shifts starting in range: %w", err)
	}
	return collectShifts(rows)
}

// ShiftsIntersecting retrieves an employee's shifts intersecting [start, end],
// boundary touches included
func (d *DB) ShiftsIntersecting(ctx context.Context, tenant model.TenantID, employeeID string, start, end time.Time) ([]model.Shift, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT `+shiftColumns+`
		FROM shift
		WHERE tenant_id = $1 AND employee_id = $2 AND start_at <= $4 AND end_at >= $3
		ORDER BY start_at, end_at
	`, tenant, employeeID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query intersecting shifts: %w", err)
	}
	return collectShifts(rows)
}

// InsertShift inserts a new shift record
func (d *DB) InsertShift(ctx context.Context, tenant model.TenantID, shift model.Shift) error {
	var employeeID *string
	if shift.EmployeeID != "" {
		employeeID = &shift.EmployeeID
	}

	_, err := d.pool.Exec(ctx, `
		INSERT INTO shift (tenant_id, id, department_id, employee_id, start_at, end_at, note, hide_start, hide_end)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, tenant, shift.ID, shift.DepartmentID, employeeID, shift.Start, shift.End, shift.Note, shift.HideStart, shift.HideEnd)
	if err != nil {
		return fmt.Errorf("failed to insert shift: %w", err)
	}
	return nil
}

// UpdateShift updates an existing shift record
func (d *DB) UpdateShift(ctx context.Context, tenant model.TenantID, shift model.Shift) error {
	var employeeID *string
	if shift.EmployeeID != "" {
		employeeID = &shift.EmployeeID
	}

	tag, err := d.pool.Exec(ctx, `
		UPDATE shift
		SET department_id = $3, employee_id = $4, start_at = $5, end_at = $6, note = $7, hide_start = $8, hide_end = $9
		WHERE tenant_id = $1 AND id = $2
	`, tenant, shift.ID, shift.DepartmentID, employeeID, shift.Start, shift.End, shift.Note, shift.HideStart, shift.HideEnd)
	if err != nil {
		return fmt.Errorf("failed to update shift: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &model.NotFoundError{Kind: "shift", ID: shift.ID}
	}
	return nil
}

// DeleteShift deletes a shift record
func (d *DB) DeleteShift(ctx context.Context, tenant model.TenantID, shiftID string) error {
	tag, err := d.pool.Exec(ctx, `
		DELETE FROM shift WHERE tenant_id = $1 AND id = $2
	`, tenant, shiftID)
	if err != nil {
		return fmt.Errorf("failed to delete shift: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &model.NotFoundError{Kind: "shift", ID: shiftID}
	}
	return nil
}
