package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/shiftledger/shiftledger/pkg/core/model"
	"github.com/shiftledger/shiftledger/pkg/core/projection"
	"github.com/shiftledger/shiftledger/pkg/core/services"
)

const shiftTimeLayout = "2006-01-02T15:04"

// ShiftCmd creates the shift command group: add, remove, edit, reassign
func ShiftCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shift",
		Short: "Add, remove, edit or reassign shifts with cost deltas",
	}

	cmd.PersistentFlags().Bool("dry-run", false, "Compute the cost delta without saving")
	cmd.PersistentFlags().Int("year", 0, "Restrict month figures to this year's month (with --month)")
	cmd.PersistentFlags().Int("month", 0, "Restrict month figures to this month (with --year)")

	cmd.AddCommand(addShiftCmd(app))
	cmd.AddCommand(removeShiftCmd(app))
	cmd.AddCommand(editShiftCmd(app))
	cmd.AddCommand(reassignShiftCmd(app))

	return cmd
}

func addShiftCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <department_id> <start> <end>",
		Short: "Add a shift, optionally assigned to an employee",
		Long:  "Times use the format 2006-01-02T15:04 in the local timezone.",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := time.ParseInLocation(shiftTimeLayout, args[1], time.Local)
			if err != nil {
				return fmt.Errorf("invalid start time %q: %w", args[1], err)
			}
			end, err := time.ParseInLocation(shiftTimeLayout, args[2], time.Local)
			if err != nil {
				return fmt.Errorf("invalid end time %q: %w", args[2], err)
			}

			employeeID, _ := cmd.Flags().GetString("employee")
			note, _ := cmd.Flags().GetString("note")
			dryRun, year, month := mutationFlags(cmd)

			app.Logger.Debug("shift add command",
				zap.String("department_id", args[0]),
				zap.String("employee_id", employeeID))

			shift := model.Shift{
				DepartmentID: args[0],
				Start:        start,
				End:          end,
				Note:         note,
			}

			result, err := services.AddShift(app.Ctx, app.Database, app.Tenant(), shift, employeeID, month, year, app.Logger, dryRun)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Shift %s added%s\n", result.Shift.ID, dryRunSuffix(dryRun))
			printDelta(result.Delta)
			return nil
		},
	}

	cmd.Flags().String("employee", "", "Employee to assign the shift to")
	cmd.Flags().String("note", "", "Free-form note attached to the shift")

	return cmd
}

func removeShiftCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <shift_id>",
		Short: "Remove a shift",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dryRun, year, month := mutationFlags(cmd)

			app.Logger.Debug("shift remove command", zap.String("shift_id", args[0]))

			result, err := services.RemoveShift(app.Ctx, app.Database, app.Tenant(), args[0], month, year, app.Logger, dryRun)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Shift %s removed%s\n", result.Shift.ID, dryRunSuffix(dryRun))
			printDelta(result.Delta)
			return nil
		},
	}
}

func editShiftCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <shift_id> <new_start> <new_end>",
		Short: "Move a shift to a new time range",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			newStart, err := time.ParseInLocation(shiftTimeLayout, args[1], time.Local)
			if err != nil {
				return fmt.Errorf("invalid start time %q: %w", args[1], err)
			}
			newEnd, err := time.ParseInLocation(shiftTimeLayout, args[2], time.Local)
			if err != nil {
				return fmt.Errorf("invalid end time %q: %w", args[2], err)
			}

			dryRun, year, month := mutationFlags(cmd)

			app.Logger.Debug("shift edit command", zap.String("shift_id", args[0]))

			result, err := services.EditShift(app.Ctx, app.Database, app.Tenant(), args[0], newStart, newEnd, month, year, app.Logger, dryRun)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Shift %s moved to %s - %s%s\n",
				result.Shift.ID,
				result.Shift.Start.Format(shiftTimeLayout),
				result.Shift.End.Format(shiftTimeLayout),
				dryRunSuffix(dryRun))
			printDelta(result.Delta)
			return nil
		},
	}
}

func reassignShiftCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "reassign <shift_id> <current_employee_id> <new_employee_id>",
		Short: "Move a shift from one employee to another",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			dryRun, year, month := mutationFlags(cmd)

			app.Logger.Debug("shift reassign command",
				zap.String("shift_id", args[0]),
				zap.String("from", args[1]),
				zap.String("to", args[2]))

			result, err := services.ReassignShift(app.Ctx, app.Database, app.Tenant(), args[0], args[1], args[2], month, year, app.Logger, dryRun)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Shift %s reassigned to %s%s\n",
				result.Shift.ID, result.Shift.EmployeeID, dryRunSuffix(dryRun))
			printDelta(result.Delta)
			return nil
		},
	}
}

func mutationFlags(cmd *cobra.Command) (dryRun bool, year int, month time.Month) {
	dryRun, _ = cmd.Flags().GetBool("dry-run")
	year, _ = cmd.Flags().GetInt("year")
	m, _ := cmd.Flags().GetInt("month")
	return dryRun, year, time.Month(m)
}

func dryRunSuffix(dryRun bool) string {
	if dryRun {
		return " (dry run, not saved)"
	}
	return ""
}

// printDelta renders the signed cost difference per workweek the
// mutation touched.
func printDelta(delta *projection.Summary) {
	if delta == nil {
		fmt.Println("No assignee involved; cost unchanged.")
		fmt.Println()
		return
	}

	fmt.Println("\nCost delta:")
	for _, ww := range delta.Workweeks {
		fmt.Printf("  Workweek of %s\n", ww.Start.Format("Mon 2006-01-02"))
		for dep, wc := range ww.Departments {
			if wc.Hours == 0 && wc.OvertimeHours == 0 && wc.Cost == 0 {
				continue
			}
			fmt.Printf("    %-20s %+7.2fh regular  %+6.2fh overtime  %+10.2f\n",
				dep, wc.Hours, wc.OvertimeHours, wc.Cost)
		}
	}
	if mc, ok := delta.Month[projection.TotalKey]; ok {
		fmt.Printf("  %-22s %+10.2f\n", "Month total", mc.Cost)
	}
	fmt.Println()
}
