package daylog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonax1337/Calories-Training-Tracker-sub000/internal/model"
	"github.com/jonax1337/Calories-Training-Tracker-sub000/internal/service"
	"github.com/jonax1337/Calories-Training-Tracker-sub000/internal/store"
)

var (
	entryDate     string
	entryName     string
	entryBrand    string
	entryBarcode  string
	entryCalories float64
	entryProtein  float64
	entryCarbs    float64
	entryFat      float64
	entrySugar    float64
	entryFiber    float64
	entrySodium   float64
	entryAmount   float64
	entryMeal     string
	entryTime     string
	entryFile     string
	entryJSON     bool
	entryLookup   bool
)

var entryCmd = &cobra.Command{
	Use:   "entry",
	Short: "Manage a day's food entries",
}

var entryAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a food entry (nutrition per 100 units of serving)",
	RunE: func(cmd *cobra.Command, args []string) error {
		if strings.TrimSpace(entryName) == "" && !entryLookup {
			return fmt.Errorf("--name is required")
		}
		if entryLookup && strings.TrimSpace(entryBarcode) == "" {
			return fmt.Errorf("--barcode is required with --lookup")
		}
		meal, err := model.ParseMealType(entryMeal)
		if err != nil {
			return err
		}
		if entryAmount <= 0 {
			return fmt.Errorf("--amount must be > 0")
		}
		return withEnv(cmd, func(ctx context.Context, e *env) error {
			day, err := e.day(entryDate)
			if err != nil {
				return err
			}
			consumed, err := entryTimeFor(e, day, entryTime)
			if err != nil {
				return err
			}
			item := model.FoodItem{
				Name:      strings.TrimSpace(entryName),
				Brand:     strings.TrimSpace(entryBrand),
				Barcode:   strings.TrimSpace(entryBarcode),
				Nutrition: nutritionFromFlags(cmd),
			}
			if entryLookup {
				found, err := lookupClient(e).LookupBarcode(ctx, item.Barcode)
				if err != nil {
					return err
				}
				if item.Name != "" {
					found.Name = item.Name
				}
				item = found
			}
			entry := model.FoodEntry{
				FoodItem:      &item,
				ServingAmount: model.Float(entryAmount),
				MealType:      meal,
				TimeConsumed:  consumed,
			}
			id, pending, err := e.sync.AddEntry(ctx, day, entry)
			if err != nil {
				return err
			}
			awaitSave(cmd, pending)
			fmt.Fprintf(cmd.OutOrStdout(), "Added entry %s to %s\n", id, day)
			return nil
		})
	},
}

var entryRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a food entry by id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(ctx context.Context, e *env) error {
			day, err := e.day(entryDate)
			if err != nil {
				return err
			}
			pending, err := e.sync.RemoveEntry(ctx, day, args[0])
			if err != nil {
				return err
			}
			awaitSave(cmd, pending)
			fmt.Fprintf(cmd.OutOrStdout(), "Removed entry %s from %s\n", args[0], day)
			return nil
		})
	},
}

var entryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List a day's food entries in time order",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(ctx context.Context, e *env) error {
			day, err := e.day(entryDate)
			if err != nil {
				return err
			}
			log, err := e.sync.Load(ctx, day)
			if err != nil {
				return err
			}
			if entryJSON {
				return printJSON(cmd.OutOrStdout(), store.DailyLogToRecord(e.cfg.User.ID, log).FoodEntries)
			}
			if len(log.FoodEntries) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No entries on %s\n", day)
				return nil
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tTIME\tMEAL\tFOOD\tAMOUNT\tKCAL")
			for _, entry := range log.FoodEntries {
				name := "?"
				if entry.FoodItem != nil {
					name = entry.FoodItem.Name
				}
				kcal := "-"
				if service.IsValidEntry(entry) {
					kcal = fmt.Sprintf("%.0f", service.Aggregate([]model.FoodEntry{entry}, 0).Calories)
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", entry.ID, entry.TimeConsumed.In(e.sync.Location()).Format("15:04"),
					entry.MealType, name, formatOptional(entry.ServingAmount, ""), kcal)
			}
			return tw.Flush()
		})
	},
}

var entryReplaceCmd = &cobra.Command{
	Use:   "replace",
	Short: "Replace all of a day's entries with those in a JSON file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if strings.TrimSpace(entryFile) == "" {
			return fmt.Errorf("--file is required")
		}
		raw, err := os.ReadFile(entryFile)
		if err != nil {
			return fmt.Errorf("read entries file: %w", err)
		}
		var recs []store.FoodEntryRecord
		if err := json.Unmarshal(raw, &recs); err != nil {
			return fmt.Errorf("parse entries json: %w", err)
		}
		entries := make([]model.FoodEntry, 0, len(recs))
		for _, rec := range recs {
			entries = append(entries, store.FoodEntryFromRecord(rec))
		}
		return withEnv(cmd, func(ctx context.Context, e *env) error {
			day, err := e.day(entryDate)
			if err != nil {
				return err
			}
			pending, err := e.sync.ReplaceEntries(ctx, day, entries)
			if err != nil {
				return err
			}
			awaitSave(cmd, pending)
			fmt.Fprintf(cmd.OutOrStdout(), "Replaced entries on %s (%d total)\n", day, len(entries))
			return nil
		})
	},
}

func entryTimeFor(e *env, day, clock string) (time.Time, error) {
	clock = strings.TrimSpace(clock)
	if clock == "" {
		if day == e.sync.Day(nil) {
			return time.Time{}, nil
		}
		clock = "12:00"
	}
	t, err := time.ParseInLocation("2006-01-02 15:04", day+" "+clock, e.sync.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --time %q (expected HH:MM)", clock)
	}
	return t, nil
}

// nutritionFromFlags sets only the nutrients given on the command line, so
// an omitted value stays unknown instead of zero.
func nutritionFromFlags(cmd *cobra.Command) *model.Nutrition {
	n := &model.Nutrition{Calories: model.Float(entryCalories)}
	set := func(flag string, dst **float64, v float64) {
		if cmd.Flags().Changed(flag) {
			*dst = model.Float(v)
		}
	}
	set("protein", &n.Protein, entryProtein)
	set("carbs", &n.Carbs, entryCarbs)
	set("fat", &n.Fat, entryFat)
	set("sugar", &n.Sugar, entrySugar)
	set("fiber", &n.Fiber, entryFiber)
	set("sodium", &n.Sodium, entrySodium)
	return n
}

func init() {
	rootCmd.AddCommand(entryCmd)
	entryCmd.AddCommand(entryAddCmd, entryRemoveCmd, entryListCmd, entryReplaceCmd)
	entryCmd.PersistentFlags().StringVar(&entryDate, "date", "", "Date YYYY-MM-DD (default today)")

	entryAddCmd.Flags().StringVar(&entryName, "name", "", "Food name")
	entryAddCmd.Flags().StringVar(&entryBrand, "brand", "", "Brand")
	entryAddCmd.Flags().StringVar(&entryBarcode, "barcode", "", "Barcode")
	entryAddCmd.Flags().Float64Var(&entryCalories, "calories", 0, "kcal per 100 units")
	entryAddCmd.Flags().Float64Var(&entryProtein, "protein", 0, "Protein g per 100 units")
	entryAddCmd.Flags().Float64Var(&entryCarbs, "carbs", 0, "Carbs g per 100 units")
	entryAddCmd.Flags().Float64Var(&entryFat, "fat", 0, "Fat g per 100 units")
	entryAddCmd.Flags().Float64Var(&entrySugar, "sugar", 0, "Sugar g per 100 units")
	entryAddCmd.Flags().Float64Var(&entryFiber, "fiber", 0, "Fiber g per 100 units")
	entryAddCmd.Flags().Float64Var(&entrySodium, "sodium", 0, "Sodium mg per 100 units")
	entryAddCmd.Flags().Float64Var(&entryAmount, "amount", 100, "Units consumed (100 = one reference serving)")
	entryAddCmd.Flags().StringVar(&entryMeal, "meal", "snack", "Meal: breakfast, lunch, dinner or snack")
	entryAddCmd.Flags().BoolVar(&entryLookup, "lookup", false, "Fill name and nutrition from Open Food Facts by --barcode")
	entryAddCmd.Flags().StringVar(&entryTime, "time", "", "Time HH:MM (default now, or 12:00 on other days)")

	entryListCmd.Flags().BoolVar(&entryJSON, "json", false, "Print JSON")
	entryReplaceCmd.Flags().StringVar(&entryFile, "file", "", "JSON file with an array of food entries")
}
