package daylog

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonax1337/Calories-Training-Tracker-sub000/internal/db"
)

var doctorFix bool

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Run data integrity checks on the local database",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			report, err := db.RunDoctor(sqldb, doctorFix)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Orphan entries: %d\n", report.OrphanEntries)
			fmt.Fprintf(cmd.OutOrStdout(), "Invalid food item rows: %d\n", report.InvalidFoodItems)
			fmt.Fprintf(cmd.OutOrStdout(), "Invalid day keys: %d\n", report.InvalidDayKeys)
			fmt.Fprintf(cmd.OutOrStdout(), "Entries without serving amount: %d\n", report.MissingServings)
			if doctorFix {
				fmt.Fprintf(cmd.OutOrStdout(), "Fixed orphan entries: %d\n", report.FixedOrphanEntries)
				fmt.Fprintf(cmd.OutOrStdout(), "Fixed food item rows: %d\n", report.FixedFoodItemRows)
				// Re-check after fixes so exit status reflects final state.
				report, err = db.RunDoctor(sqldb, false)
				if err != nil {
					return err
				}
			}
			if !report.Healthy() {
				return fmt.Errorf("doctor found integrity issues")
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false, "Attempt safe auto-fixes")
}
