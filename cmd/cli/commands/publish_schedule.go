package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/shiftledger/shiftledger/pkg/core/model"
	"github.com/shiftledger/shiftledger/pkg/core/services"
)

// consoleNotifier prints each employee's schedule message to stdout.
// Stands in for an SMS or email channel.
type consoleNotifier struct{}

func (consoleNotifier) Notify(ctx context.Context, employee model.Employee, message string) error {
	fmt.Printf("--- To %s %s <%s> ---\n%s\n\n", employee.FirstName, employee.LastName, employee.Email, message)
	return nil
}

// PublishScheduleCmd creates the publishSchedule command
func PublishScheduleCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "publishSchedule <department_id> <year> <month>",
		Short: "Send every assigned employee their month of shifts for a department",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			year, month, err := parseYearMonth(args[1], args[2])
			if err != nil {
				return err
			}

			app.Logger.Debug("publishSchedule command",
				zap.String("department_id", args[0]),
				zap.Int("year", year),
				zap.Int("month", int(month)))

			result, err := services.PublishSchedule(app.Ctx, app.Database, consoleNotifier{}, app.Tenant(), args[0], month, year, app.Logger)
			if err != nil {
				return err
			}

			fmt.Printf("✓ Published %s schedule for %s %d to %d employee(s)\n\n",
				result.Department.Name, month, year, len(result.Notified))
			return nil
		},
	}
}
