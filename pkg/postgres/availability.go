package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shiftledger/shiftledger/pkg/core/model"
)

// TimeOffOverlapping retrieves an employee's time-off records of one kind
// strictly overlapping (start, end)
func (d *DB) TimeOffOverlapping(ctx context.Context, tenant model.TenantID, employeeID string, kind model.TimeOffKind, start, end time.Time) ([]model.TimeOff, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, employee_id, kind, start_at, end_at
		FROM time_off
		WHERE tenant_id = $1 AND employee_id = $2 AND kind = $3 AND start_at < $5 AND end_at > $4
		ORDER BY start_at
	`, tenant, employeeID, kind, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query time off: %w", err)
	}
	defer rows.Close()

	var records []model.TimeOff
	for rows.Next() {
		var t model.TimeOff
		if err := rows.Scan(&t.ID, &t.EmployeeID, &t.Kind, &t.Start, &t.End); err != nil {
			return nil, fmt.Errorf("failed to scan time off: %w", err)
		}
		records = append(records, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating time off: %w", err)
	}
	return records, nil
}

// RecurringSlots retrieves an employee's recurring slots of one kind for a weekday
func (d *DB) RecurringSlots(ctx context.Context, tenant model.TenantID, employeeID string, kind model.RecurringKind, weekday time.Weekday) ([]model.RecurringSlot, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, employee_id, kind, weekday, start_hour, start_minute, end_hour, end_minute
		FROM recurring_slot
		WHERE tenant_id = $1 AND employee_id = $2 AND kind = $3 AND weekday = $4
		ORDER BY start_hour, start_minute
	`, tenant, employeeID, kind, int(weekday))
	if err != nil {
		return nil, fmt.Errorf("failed to query recurring slots: %w", err)
	}
	defer rows.Close()

	var slots []model.RecurringSlot
	for rows.Next() {
		var s model.RecurringSlot
		var wd int
		err := rows.Scan(&s.ID, &s.EmployeeID, &s.Kind, &wd,
			&s.StartTime.Hour, &s.StartTime.Minute, &s.EndTime.Hour, &s.EndTime.Minute)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recurring slot: %w", err)
		}
		s.Weekday = time.Weekday(wd)
		slots = append(slots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recurring slots: %w", err)
	}
	return slots, nil
}
