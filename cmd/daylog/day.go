package daylog

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jonax1337/Calories-Training-Tracker-sub000/internal/model"
	"github.com/jonax1337/Calories-Training-Tracker-sub000/internal/service"
)

var (
	dayDate string
	dayJSON bool
)

var dayCmd = &cobra.Command{
	Use:   "day",
	Short: "Inspect a day's log",
}

var dayShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show totals, goals, streak and notes for a day",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(ctx context.Context, e *env) error {
			day, err := e.day(dayDate)
			if err != nil {
				return err
			}
			summary, err := e.sync.Summary(ctx, day)
			if err != nil {
				return err
			}
			if dayJSON {
				return printJSON(cmd.OutOrStdout(), summary)
			}
			printSummary(cmd.OutOrStdout(), summary)
			return nil
		})
	},
}

var mealOrder = []model.MealType{model.MealBreakfast, model.MealLunch, model.MealDinner, model.MealSnack}

func printSummary(w io.Writer, s *service.DaySummary) {
	fmt.Fprintf(w, "Date: %s\n", s.Date)
	if s.IsCheatDay {
		fmt.Fprintln(w, "Cheat day: yes")
	}
	fmt.Fprintf(w, "Intake: %.0f kcal (%d entries", s.Totals.Calories, s.EntryCount)
	if s.SkippedEntries > 0 {
		fmt.Fprintf(w, ", %d skipped", s.SkippedEntries)
	}
	fmt.Fprintln(w, ")")
	fmt.Fprintf(w, "Macros: P %.1fg | C %.1fg | F %.1fg\n", s.Totals.Protein, s.Totals.Carbs, s.Totals.Fat)
	for _, meal := range mealOrder {
		t := s.ByMeal[meal]
		fmt.Fprintf(w, "  %-9s %6.0f kcal\n", meal, t.Calories)
	}
	fmt.Fprintf(w, "Goal: %.0f kcal | P %s | C %s | F %s\n", s.Goals.DailyCalories,
		formatOptional(s.Goals.DailyProtein, "g"), formatOptional(s.Goals.DailyCarbs, "g"), formatOptional(s.Goals.DailyFat, "g"))
	fmt.Fprintf(w, "Remaining: %.0f kcal | P %s | C %s | F %s\n", s.RemainingCalories,
		formatOptional(s.RemainingProtein, "g"), formatOptional(s.RemainingCarbs, "g"), formatOptional(s.RemainingFat, "g"))
	fmt.Fprintf(w, "Water: %.0f ml / %s (%.0f%%)\n", s.Totals.Water, formatOptional(s.Goals.DailyWater, " ml"), s.WaterProgress)
	fmt.Fprintf(w, "Weight: %s\n", formatOptional(s.Weight, " kg"))
	fmt.Fprintf(w, "Streak: %d day(s)\n", s.Streak)
	if s.DailyNotes != "" {
		fmt.Fprintf(w, "Notes: %s\n", s.DailyNotes)
	}
}

func init() {
	rootCmd.AddCommand(dayCmd)
	dayCmd.AddCommand(dayShowCmd)
	dayShowCmd.Flags().StringVar(&dayDate, "date", "", "Date YYYY-MM-DD (default today)")
	dayShowCmd.Flags().BoolVar(&dayJSON, "json", false, "Print JSON")
}
