package daylog

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var (
	reportFrom string
	reportTo   string
	reportJSON bool
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Summarize totals, averages, streaks and goal adherence over a date range",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(ctx context.Context, e *env) error {
			to, err := e.day(reportTo)
			if err != nil {
				return err
			}
			from := strings.TrimSpace(reportFrom)
			if from == "" {
				return fmt.Errorf("--from is required")
			}
			report, err := e.sync.Report(ctx, from, to)
			if err != nil {
				return err
			}
			if reportJSON {
				return printJSON(cmd.OutOrStdout(), report)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Range: %s to %s\n", report.FromDate, report.ToDate)
			fmt.Fprintf(out, "Days with entries: %d | Active days: %d\n", report.DaysWithEntries, report.ActiveDays)
			fmt.Fprintf(out, "Total: %.0f kcal | P %.1fg | C %.1fg | F %.1fg | Water %.0f ml\n",
				report.TotalCalories, report.TotalProtein, report.TotalCarbs, report.TotalFat, report.TotalWater)
			fmt.Fprintf(out, "Average/day: %.0f kcal | P %.1fg | C %.1fg | F %.1fg\n",
				report.AverageCaloriesPerDay, report.AverageProteinPerDay, report.AverageCarbsPerDay, report.AverageFatPerDay)
			if report.HighestDay != nil {
				fmt.Fprintf(out, "Highest: %s (%.0f kcal) | Lowest: %s (%.0f kcal)\n",
					report.HighestDay.Date, report.HighestDay.Calories, report.LowestDay.Date, report.LowestDay.Calories)
			}
			fmt.Fprintf(out, "Streak: current %d | longest %d\n", report.CurrentStreak, report.LongestStreak)
			fmt.Fprintf(out, "Goal adherence: %d/%d days (%.0f%%)\n",
				report.Adherence.WithinGoalDays, report.Adherence.EvaluatedDays, report.Adherence.PercentWithin)
			if len(report.CheatDays) > 0 {
				fmt.Fprintf(out, "Cheat days: %s\n", strings.Join(report.CheatDays, ", "))
			}
			if len(report.Days) == 0 {
				return nil
			}
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "DATE\tKCAL\tP\tC\tF\tWATER\tENTRIES")
			for _, d := range report.Days {
				fmt.Fprintf(tw, "%s\t%.0f\t%.1f\t%.1f\t%.1f\t%.0f\t%d\n", d.Date, d.Calories, d.Protein, d.Carbs, d.Fat, d.Water, d.Entries)
			}
			return tw.Flush()
		})
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().StringVar(&reportFrom, "from", "", "Start date YYYY-MM-DD")
	reportCmd.Flags().StringVar(&reportTo, "to", "", "End date YYYY-MM-DD (default today)")
	reportCmd.Flags().BoolVar(&reportJSON, "json", false, "Print JSON")
}
