package daylog

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	cheatDate string
	notesDate string
)

var cheatCmd = &cobra.Command{
	Use:   "cheat",
	Short: "Mark cheat days",
}

var cheatToggleCmd = &cobra.Command{
	Use:   "toggle",
	Short: "Flip the cheat-day flag for a day",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(ctx context.Context, e *env) error {
			day, err := e.day(cheatDate)
			if err != nil {
				return err
			}
			pending, err := e.sync.ToggleCheatDay(ctx, day)
			if err != nil {
				return err
			}
			awaitSave(cmd, pending)
			state := "off"
			if e.sync.Current(day).Value.IsCheatDay {
				state = "on"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cheat day %s: %s\n", day, state)
			return nil
		})
	},
}

var notesCmd = &cobra.Command{
	Use:   "notes",
	Short: "Daily notes",
}

var notesSetCmd = &cobra.Command{
	Use:   "set <text>",
	Short: "Replace the day's notes (empty text clears them)",
	Args:  cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		text := strings.Join(args, " ")
		return withEnv(cmd, func(ctx context.Context, e *env) error {
			day, err := e.day(notesDate)
			if err != nil {
				return err
			}
			pending, err := e.sync.SetNotes(ctx, day, text)
			if err != nil {
				return err
			}
			awaitSave(cmd, pending)
			fmt.Fprintf(cmd.OutOrStdout(), "Notes saved for %s\n", day)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(cheatCmd, notesCmd)
	cheatCmd.AddCommand(cheatToggleCmd)
	notesCmd.AddCommand(notesSetCmd)
	cheatCmd.PersistentFlags().StringVar(&cheatDate, "date", "", "Date YYYY-MM-DD (default today)")
	notesCmd.PersistentFlags().StringVar(&notesDate, "date", "", "Date YYYY-MM-DD (default today)")
}
