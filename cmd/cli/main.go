package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/shiftledger/shiftledger/cmd/cli/commands"
	"github.com/shiftledger/shiftledger/internal/config"
	"github.com/shiftledger/shiftledger/pkg/postgres"
	"github.com/shiftledger/shiftledger/pkg/utils/logging"
)

var (
	logLevel string
	app      *commands.AppContext
	database *postgres.DB
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "shiftledger",
		Short: "ShiftLedger CLI - Rank eligible employees and project schedule costs",
		Long:  `A CLI tool for shift scheduling: rank employees for open shifts, project workweek labor costs, and preview the cost impact of schedule changes.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app != nil && app.Logger != nil {
				app.Logger.Sync()
			}
			if database != nil {
				database.Close()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "l", "", "Console log level (overrides config)")

	rootCmd.AddCommand(commands.RankEligiblesCmd(appRef()))
	rootCmd.AddCommand(commands.ProjectCalendarCmd(appRef()))
	rootCmd.AddCommand(commands.ShiftCmd(appRef()))
	rootCmd.AddCommand(commands.PublishScheduleCmd(appRef()))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// appRef returns the shared AppContext. It is allocated up front so the
// command constructors can close over it before initApp fills it in.
func appRef() *commands.AppContext {
	if app == nil {
		app = &commands.AppContext{Ctx: context.Background()}
	}
	return app
}

// initApp sets up config, logger, and database
func initApp() error {
	appRef()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.Cfg = cfg

	level := cfg.LogLevel
	if logLevel != "" {
		level = logLevel
	}
	app.Logger, err = logging.InitLogger(level)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.Logger.Info("Starting application", zap.String("tenant", cfg.Tenant))

	app.Logger.Info("Connecting to database")
	database, err = postgres.NewDB(app.Ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	app.Logger.Info("Running migrations")
	if err := database.RunMigrations(app.Ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	app.Database = database
	app.Logger.Info("Database initialized successfully")

	return nil
}
