package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/shiftledger/shiftledger/pkg/core/eligibility"
	"github.com/shiftledger/shiftledger/pkg/core/services"
)

// RankEligiblesCmd creates the rankEligibles command
func RankEligiblesCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "rankEligibles <shift_id>",
		Short: "Rank a shift's department members by availability and fit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			shiftID := args[0]

			app.Logger.Debug("rankEligibles command", zap.String("shift_id", shiftID))

			result, err := services.RankEligibles(app.Ctx, app.Database, app.Tenant(), shiftID, app.Logger)
			if err != nil {
				return err
			}

			// ANSI color codes
			const (
				colorReset = "\033[0m"
				colorGreen = "\033[32m"
				colorRed   = "\033[31m"
				colorBold  = "\033[1m"
			)

			fmt.Printf("\nEligible employees for shift %s (%s - %s)\n\n",
				result.Shift.ID,
				result.Shift.Start.Format("Mon 2006-01-02 15:04"),
				result.Shift.End.Format("15:04"))

			maxNameLen := 20
			for _, r := range result.Eligible {
				nameLen := len(r.Employee.FirstName) + len(r.Employee.LastName) + 1
				if nameLen > maxNameLen {
					maxNameLen = nameLen
				}
			}
			nameColWidth := maxNameLen + 2

			fmt.Printf("%s%-4s %-*s %-9s %-10s %-10s %s%s\n",
				colorBold,
				"#", nameColWidth, "Name", "Priority", "Hours", "If Given", "Status",
				colorReset)
			fmt.Println(strings.Repeat("-", 4+nameColWidth+9+10+10+30))

			for i, r := range result.Eligible {
				name := r.Employee.FirstName + " " + r.Employee.LastName

				status := colorGreen + "available" + colorReset
				if r.Report.HasConflict() {
					var reasons []string
					if len(r.Report.Shifts) > 0 {
						reasons = append(reasons, "shift clash")
					}
					if len(r.Report.Vacations) > 0 {
						reasons = append(reasons, "vacation")
					}
					if len(r.Report.Absences) > 0 {
						reasons = append(reasons, "absent")
					}
					if len(r.Report.RepeatUnavailabilities) > 0 {
						reasons = append(reasons, "unavailable")
					}
					if r.Report.Overtime {
						reasons = append(reasons, "overtime")
					}
					status = colorRed + strings.Join(reasons, ", ") + colorReset
				} else if r.Report.Overtime {
					status = colorRed + "overtime" + colorReset
				}

				fmt.Printf("%-4d %-*s %-9d %-10.1f %-10.1f %s\n",
					i+1, nameColWidth, name,
					r.Membership.Priority,
					r.Report.CurrentHours,
					r.Report.HoursIfAssigned,
					status)
			}

			if len(result.Eligible) == 0 {
				fmt.Println("No employees belong to this shift's department.")
			}
			fmt.Println()

			if len(result.Eligible) > 0 {
				best := result.Eligible[0]
				if !best.Report.HasConflict() {
					fmt.Printf("Best match: %s %s\n\n", best.Employee.FirstName, best.Employee.LastName)
				}
			}

			printDesiredOverlap(result.Eligible)
			return nil
		},
	}
}

func printDesiredOverlap(eligible []eligibility.Ranked) {
	var any bool
	for _, r := range eligible {
		if r.Score.DesiredOverlapSeconds < 0 {
			if !any {
				fmt.Println("Desired-time overlap:")
				any = true
			}
			fmt.Printf("  %s %s: %.1fh\n",
				r.Employee.FirstName, r.Employee.LastName,
				-r.Score.DesiredOverlapSeconds/3600)
		}
	}
	if any {
		fmt.Println()
	}
}
