package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/shiftledger/shiftledger/pkg/core/eligibility"
	"github.com/shiftledger/shiftledger/pkg/core/model"
)

// RankEligiblesStore defines the database operations needed to rank
// employees for a shift.
type RankEligiblesStore interface {
	eligibility.Store

	ShiftByID(ctx context.Context, tenant model.TenantID, shiftID string) (model.Shift, error)
	SettingsByTenant(ctx context.Context, tenant model.TenantID) (model.BusinessSettings, error)
}

// RankEligiblesResult contains the candidate shift and the ordered
// eligibility list for it.
type RankEligiblesResult struct {
	Shift    model.Shift
	Eligible []eligibility.Ranked
}

// RankEligibles loads a shift and ranks every member of its department by
// fitness for it. A missing shift or missing business settings propagate
// as not-found errors; they are never treated as an empty ranking.
func RankEligibles(
	ctx context.Context,
	store RankEligiblesStore,
	tenant model.TenantID,
	shiftID string,
	logger *zap.Logger,
) (*RankEligiblesResult, error) {
	logger.Debug("Ranking eligibles", zap.String("shift_id", shiftID))

	shift, err := store.ShiftByID(ctx, tenant, shiftID)
	if err != nil {
		return nil, fmt.Errorf("failed to load shift: %w", err)
	}

	settings, err := store.SettingsByTenant(ctx, tenant)
	if err != nil {
		return nil, fmt.Errorf("failed to load business settings: %w", err)
	}

	eligible, err := eligibility.Rank(ctx, store, tenant, shift, settings)
	if err != nil {
		return nil, fmt.Errorf("ranking failed: %w", err)
	}

	logger.Info("Ranked eligibles",
		zap.String("shift_id", shiftID),
		zap.String("department_id", shift.DepartmentID),
		zap.Int("candidates", len(eligible)))

	return &RankEligiblesResult{Shift: shift, Eligible: eligible}, nil
}
