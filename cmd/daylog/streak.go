package daylog

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	streakDate     string
	streakLookback int
)

var streakCmd = &cobra.Command{
	Use:   "streak",
	Short: "Show the run of consecutive active days ending at a day",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(ctx context.Context, e *env) error {
			day, err := e.day(streakDate)
			if err != nil {
				return err
			}
			lookback := e.cfg.Sync.StreakLookback
			if cmd.Flags().Changed("lookback") {
				if streakLookback < 0 {
					return fmt.Errorf("--lookback must be >= 0")
				}
				lookback = streakLookback
			}
			n, err := e.sync.StreakWithin(ctx, day, lookback)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Streak ending %s: %d day(s)\n", day, n)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(streakCmd)
	streakCmd.Flags().StringVar(&streakDate, "date", "", "Reference date YYYY-MM-DD (default today)")
	streakCmd.Flags().IntVar(&streakLookback, "lookback", 30, "Days to look back before the reference date")
}
