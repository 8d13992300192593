package daylog

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath string
	dbPath     string
	userID     string
	remoteURL  string
)

var rootCmd = &cobra.Command{
	Use:          "daylog",
	Short:        "daylog tracks food, water, weight and cheat days per day",
	Long:         "daylog keeps one log per day with food entries, water, weight, notes and a cheat-day flag, and derives totals, streaks and goal progress from it. Logs are stored in SQLite locally, in Postgres, or on a daylog server.",
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to daylog.yml")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to SQLite database")
	rootCmd.PersistentFlags().StringVar(&userID, "user", "", "User id (overrides user.id)")
	rootCmd.PersistentFlags().StringVar(&remoteURL, "remote", "", "daylog server URL (uses the remote store)")
}
