package commands

import (
	"context"

	"go.uber.org/zap"

	"github.com/shiftledger/shiftledger/internal/config"
	"github.com/shiftledger/shiftledger/pkg/core/model"
	"github.com/shiftledger/shiftledger/pkg/db"
)

// AppContext holds the application dependencies shared across all commands
type AppContext struct {
	Cfg      *config.Config
	Database db.Store
	Logger   *zap.Logger
	Ctx      context.Context
}

// Tenant returns the tenant every command operates on.
func (a *AppContext) Tenant() model.TenantID {
	return model.TenantID(a.Cfg.Tenant)
}
