package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/shiftledger/shiftledger/pkg/core/model"
)

// SettingsByTenant retrieves the tenant's business settings
func (d *DB) SettingsByTenant(ctx context.Context, tenant model.TenantID) (model.BusinessSettings, error) {
	var s model.BusinessSettings
	var startDay int
	err := d.pool.QueryRow(ctx, `
		SELECT overtime_threshold, overtime_multiplier, workweek_start_day, workweek_start_hour, workweek_start_minute
		FROM business_settings
		WHERE tenant_id = $1
	`, tenant).Scan(&s.OvertimeThreshold, &s.OvertimeMultiplier, &startDay,
		&s.WorkweekStartTime.Hour, &s.WorkweekStartTime.Minute)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.BusinessSettings{}, &model.NotFoundError{Kind: "business settings", ID: string(tenant)}
	}
	if err != nil {
		return model.BusinessSettings{}, fmt.Errorf("failed to query business settings: %w", err)
	}
	s.WorkweekStartDay = time.Weekday(startDay)
	return s, nil
}

// MonthlyRevenues retrieves the tenant's revenue records for a calendar
// month, across all years
func (d *DB) MonthlyRevenues(ctx context.Context, tenant model.TenantID, month time.Month) ([]model.MonthlyRevenue, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, month, year, total
		FROM monthly_revenue
		WHERE tenant_id = $1 AND month = $2
		ORDER BY year
	`, tenant, int(month))
	if err != nil {
		return nil, fmt.Errorf("failed to query monthly revenues: %w", err)
	}
	defer rows.Close()

	var revenues []model.MonthlyRevenue
	for rows.Next() {
		var r model.MonthlyRevenue
		var m int
		if err := rows.Scan(&r.ID, &m, &r.Year, &r.Total); err != nil {
			return nil, fmt.Errorf("failed to scan monthly revenue: %w", err)
		}
		r.Month = time.Month(m)
		revenues = append(revenues, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating monthly revenues: %w", err)
	}
	return revenues, nil
}
