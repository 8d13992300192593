package daylog

import (
	"fmt"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the local daylog database",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		sqldb, err := openSQLite(cfg.Store.SQLitePath)
		if err != nil {
			return err
		}
		defer sqldb.Close()

		fmt.Fprintf(cmd.OutOrStdout(), "Initialized daylog database at %s\n", cfg.Store.SQLitePath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
