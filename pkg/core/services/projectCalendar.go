package services

import (
	"context"
	"fmt"
	"time"

	"github.com/teambition/rrule-go"
	"go.uber.org/zap"

	"github.com/shiftledger/shiftledger/internal/config"
	"github.com/shiftledger/shiftledger/pkg/core/model"
	"github.com/shiftledger/shiftledger/pkg/core/projection"
	"github.com/shiftledger/shiftledger/pkg/core/timeutil"
)

// ProjectCalendarStore defines the database operations needed to project
// a month's hours and costs.
type ProjectCalendarStore interface {
	SettingsByTenant(ctx context.Context, tenant model.TenantID) (model.BusinessSettings, error)
	Departments(ctx context.Context, tenant model.TenantID) ([]model.Department, error)
	Employees(ctx context.Context, tenant model.TenantID) ([]model.Employee, error)

	// ShiftsBetween returns every shift whose start instant lies inside
	// [start, end], across all departments and employees of the tenant.
	ShiftsBetween(ctx context.Context, tenant model.TenantID, start, end time.Time) ([]model.Shift, error)

	// MonthlyRevenues returns the tenant's revenue data points for the
	// given calendar month, across all years.
	MonthlyRevenues(ctx context.Context, tenant model.TenantID, month time.Month) ([]model.MonthlyRevenue, error)
}

// ProjectCalendarResult contains the month's cost summary plus the
// revenue context used by the dashboard.
type ProjectCalendarResult struct {
	Month   time.Month
	Year    int
	Summary *projection.Summary

	// AvgMonthlyRevenue is the average of the tenant's revenue data
	// points for this calendar month, or -1 when no data exists.
	AvgMonthlyRevenue float64

	// CostRatio is total month cost / AvgMonthlyRevenue, or 0 when no
	// revenue data exists.
	CostRatio float64

	// HolidayDates are grid dates matched by a configured holiday rule,
	// for display only; they do not change hours or cost.
	HolidayDates []string
}

// ProjectCalendar computes the calendar-wide hours and cost summary for
// one month: every workweek intersecting the month, bucketed per day,
// week and month per department.
func ProjectCalendar(
	ctx context.Context,
	store ProjectCalendarStore,
	tenant model.TenantID,
	month time.Month,
	year int,
	cfg *config.Config,
	logger *zap.Logger,
) (*ProjectCalendarResult, error) {
	logger.Debug("Projecting calendar",
		zap.Int("month", int(month)),
		zap.Int("year", year))

	settings, err := store.SettingsByTenant(ctx, tenant)
	if err != nil {
		return nil, fmt.Errorf("failed to load business settings: %w", err)
	}

	departments, err := store.Departments(ctx, tenant)
	if err != nil {
		return nil, fmt.Errorf("failed to load departments: %w", err)
	}

	employees, err := store.Employees(ctx, tenant)
	if err != nil {
		return nil, fmt.Errorf("failed to load employees: %w", err)
	}

	gridStart, gridEnd := timeutil.CalendarGridBounds(year, month)
	shifts, err := store.ShiftsBetween(ctx, tenant, gridStart, gridEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to load shifts: %w", err)
	}
	logger.Debug("Loaded calendar records",
		zap.Int("departments", len(departments)),
		zap.Int("employees", len(employees)),
		zap.Int("shifts", len(shifts)))

	summary, err := projection.Calendar(shifts, employees, departments, settings, month, year)
	if err != nil {
		return nil, fmt.Errorf("projection failed: %w", err)
	}

	result := &ProjectCalendarResult{
		Month:             month,
		Year:              year,
		Summary:           summary,
		AvgMonthlyRevenue: -1,
	}

	revenues, err := store.MonthlyRevenues(ctx, tenant, month)
	if err != nil {
		return nil, fmt.Errorf("failed to load monthly revenues: %w", err)
	}
	if len(revenues) > 0 {
		var sum float64
		for _, rev := range revenues {
			sum += rev.Total
		}
		result.AvgMonthlyRevenue = sum / float64(len(revenues))
		if result.AvgMonthlyRevenue != 0 {
			result.CostRatio = summary.Month[projection.TotalKey].Cost / result.AvgMonthlyRevenue
		}
	}

	result.HolidayDates, err = expandHolidays(cfg.Holidays, gridStart, gridEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to expand holiday rules: %w", err)
	}

	logger.Info("Projected calendar",
		zap.Int("workweeks", len(summary.Workweeks)),
		zap.Float64("total_cost", summary.Month[projection.TotalKey].Cost))

	return result, nil
}

// expandHolidays evaluates the configured holiday rrules over the grid
// range and returns the matching dates.
func expandHolidays(rules []config.HolidayRule, start, end time.Time) ([]string, error) {
	var dates []string
	for i, rule := range rules {
		parsed, err := rrule.StrToRRule(rule.RRule)
		if err != nil {
			return nil, fmt.Errorf("invalid rrule in holidays[%d]: %w", i, err)
		}
		parsed.DTStart(start)
		for _, occurrence := range parsed.Between(start, end, true) {
			dates = append(dates, occurrence.Format("2006-01-02"))
		}
	}
	return dates, nil
}
