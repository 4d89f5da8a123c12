package commands

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/shiftledger/shiftledger/pkg/core/projection"
	"github.com/shiftledger/shiftledger/pkg/core/services"
)

// ProjectCalendarCmd creates the projectCalendar command
func ProjectCalendarCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "projectCalendar <year> <month>",
		Short: "Project hours and labor cost for a calendar month",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			year, month, err := parseYearMonth(args[0], args[1])
			if err != nil {
				return err
			}

			app.Logger.Debug("projectCalendar command",
				zap.Int("year", year),
				zap.Int("month", int(month)))

			result, err := services.ProjectCalendar(app.Ctx, app.Database, app.Tenant(), month, year, app.Cfg, app.Logger)
			if err != nil {
				return err
			}

			const (
				colorReset = "\033[0m"
				colorBold  = "\033[1m"
				colorDim   = "\033[2m"
			)

			fmt.Printf("\n%sCost projection for %s %d%s\n\n", colorBold, month, year, colorReset)

			// Per-workweek breakdown
			departments := departmentKeys(result.Summary)
			for _, ww := range result.Summary.Workweeks {
				fmt.Printf("Workweek %s - %s\n",
					ww.Start.Format("Mon 2006-01-02 15:04"),
					ww.End.Format("Mon 2006-01-02 15:04"))
				for _, dep := range departments {
					wc, ok := ww.Departments[dep]
					if !ok {
						continue
					}
					fmt.Printf("  %-20s %7.1fh regular  %6.1fh overtime  %10.2f\n",
						dep, wc.Hours, wc.OvertimeHours, wc.Cost)
				}
				fmt.Println()
			}

			// Month totals
			fmt.Printf("%sMonth totals (including benefits)%s\n", colorBold, colorReset)
			for _, dep := range departments {
				mc, ok := result.Summary.Month[dep]
				if !ok {
					continue
				}
				fmt.Printf("  %-20s %10.2f\n", dep, mc.Cost)
			}
			fmt.Println()

			if result.AvgMonthlyRevenue >= 0 {
				fmt.Printf("Average revenue for %s:  %10.2f\n", month, result.AvgMonthlyRevenue)
				fmt.Printf("Cost / revenue ratio:       %9.1f%%\n\n", result.CostRatio*100)
			} else {
				fmt.Printf("%sNo revenue data for %s; ratio unavailable.%s\n\n", colorDim, month, colorReset)
			}

			if len(result.HolidayDates) > 0 {
				fmt.Printf("Holidays in view: %s\n\n", strings.Join(result.HolidayDates, ", "))
			}

			return nil
		},
	}
}

// departmentKeys returns the summary's department names sorted, with the
// combined total last.
func departmentKeys(summary *projection.Summary) []string {
	var keys []string
	for key := range summary.Month {
		if key != projection.TotalKey {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return append(keys, projection.TotalKey)
}

func parseYearMonth(yearArg, monthArg string) (int, time.Month, error) {
	t, err := time.Parse("2006 1", yearArg+" "+monthArg)
	if err != nil {
		return 0, 0, fmt.Errorf("expected <year> <month> as numbers, got %q %q", yearArg, monthArg)
	}
	return t.Year(), t.Month(), nil
}
