package daylog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonax1337/Calories-Training-Tracker-sub000/internal/service"
)

var (
	exportFrom   string
	exportTo     string
	exportOut    string
	importMode   string
	importDryRun bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export daily logs and the profile as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		if strings.TrimSpace(exportOut) == "" {
			return fmt.Errorf("--out is required")
		}
		return withEnv(cmd, func(ctx context.Context, e *env) error {
			from, err := e.day(exportFrom)
			if err != nil {
				return err
			}
			to, err := e.day(exportTo)
			if err != nil {
				return err
			}
			data, err := service.ExportSnapshot(ctx, e.store, e.store, e.cfg.User.ID, from, to)
			if err != nil {
				return err
			}
			b, err := json.MarshalIndent(data, "", "  ")
			if err != nil {
				return fmt.Errorf("marshal export json: %w", err)
			}
			if err := os.WriteFile(exportOut, b, 0o644); err != nil {
				return fmt.Errorf("write export file: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d day(s) to %s\n", len(data.Logs), exportOut)
			return nil
		})
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import daily logs and the profile from an export file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, err := service.ParseImportMode(strings.ToLower(strings.TrimSpace(importMode)))
		if err != nil {
			return err
		}
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read import file: %w", err)
		}
		var payload service.ExportData
		if err := json.Unmarshal(raw, &payload); err != nil {
			return fmt.Errorf("parse import json: %w", err)
		}
		return withEnv(cmd, func(ctx context.Context, e *env) error {
			report, err := service.ImportSnapshot(ctx, e.store, e.store, e.cfg.User.ID, &payload, service.ImportOptions{
				Mode:   mode,
				DryRun: importDryRun,
			})
			for _, w := range report.Warnings {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
			}
			if err != nil {
				return err
			}
			prefix := "Imported"
			if importDryRun {
				prefix = "Dry run"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d inserted, %d updated, %d skipped\n", prefix, report.Inserted, report.Updated, report.Skipped)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(exportCmd, importCmd)
	exportCmd.Flags().StringVar(&exportFrom, "from", "", "Start date YYYY-MM-DD (default today)")
	exportCmd.Flags().StringVar(&exportTo, "to", "", "End date YYYY-MM-DD (default today)")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "Output file")
	importCmd.Flags().StringVar(&importMode, "mode", "merge", "Conflict mode: fail, skip, merge or replace")
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "Report what would change without writing")
}
