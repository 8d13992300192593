package daylog

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonax1337/Calories-Training-Tracker-sub000/internal/service"
)

var (
	weightDate string
	weightUnit string
)

var weightCmd = &cobra.Command{
	Use:   "weight",
	Short: "Track body weight",
}

var weightSetCmd = &cobra.Command{
	Use:   "set <value>",
	Short: "Record the day's weight (also updates the profile weight)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		value, err := parsePositiveFloatArg("weight", args[0])
		if err != nil {
			return err
		}
		kg, err := service.ToKg(value, weightUnit)
		if err != nil {
			return err
		}
		return withEnv(cmd, func(ctx context.Context, e *env) error {
			day, err := e.day(weightDate)
			if err != nil {
				return err
			}
			pending, err := e.sync.SetWeight(ctx, day, kg)
			if err != nil {
				return err
			}
			awaitSave(cmd, pending)
			fmt.Fprintf(cmd.OutOrStdout(), "Weight on %s: %.1f kg\n", day, kg)
			return nil
		})
	},
}

var weightShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the weight in effect for a day",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(ctx context.Context, e *env) error {
			day, err := e.day(weightDate)
			if err != nil {
				return err
			}
			kg, ok, err := e.sync.CurrentWeight(ctx, day)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintf(cmd.OutOrStdout(), "Weight on %s: not recorded\n", day)
				return nil
			}
			shown, err := service.WeightFromKg(kg, weightUnit)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Weight on %s: %.1f %s\n", day, shown, weightUnit)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(weightCmd)
	weightCmd.AddCommand(weightSetCmd, weightShowCmd)
	weightCmd.PersistentFlags().StringVar(&weightDate, "date", "", "Date YYYY-MM-DD (default today)")
	weightCmd.PersistentFlags().StringVar(&weightUnit, "unit", "kg", "Weight unit: kg or lb")
}
