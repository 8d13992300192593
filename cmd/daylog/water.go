package daylog

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonax1337/Calories-Training-Tracker-sub000/internal/service"
)

var waterDate string

var waterCmd = &cobra.Command{
	Use:   "water",
	Short: "Track water intake",
}

var waterAddCmd = &cobra.Command{
	Use:   "add <ml>",
	Short: "Add (or with a negative value, remove) water in ml",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		delta, err := parseFloatArg("water amount", args[0])
		if err != nil {
			return err
		}
		return withEnv(cmd, func(ctx context.Context, e *env) error {
			day, err := e.day(waterDate)
			if err != nil {
				return err
			}
			pending, err := e.sync.AddWater(ctx, day, delta)
			if err != nil {
				return err
			}
			awaitSave(cmd, pending)
			fmt.Fprintf(cmd.OutOrStdout(), "Water on %s: %.0f ml\n", day, e.sync.Current(day).Value.WaterIntake)
			return nil
		})
	},
}

var waterSetCmd = &cobra.Command{
	Use:   "set <ml>",
	Short: "Set the day's water intake in ml",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, err := parseFloatArg("water amount", args[0])
		if err != nil {
			return err
		}
		return withEnv(cmd, func(ctx context.Context, e *env) error {
			day, err := e.day(waterDate)
			if err != nil {
				return err
			}
			pending, err := e.sync.SetWater(ctx, day, amount)
			if errors.Is(err, service.ErrDebounced) {
				fmt.Fprintln(cmd.ErrOrStderr(), "warning: water update ignored, too soon after the previous one")
				return nil
			}
			if err != nil {
				return err
			}
			awaitSave(cmd, pending)
			fmt.Fprintf(cmd.OutOrStdout(), "Water on %s: %.0f ml\n", day, e.sync.Current(day).Value.WaterIntake)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(waterCmd)
	waterCmd.AddCommand(waterAddCmd, waterSetCmd)
	waterCmd.PersistentFlags().StringVar(&waterDate, "date", "", "Date YYYY-MM-DD (default today)")
}
