package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"yamen/internal/migrate"
)

func migrateCmd() *cobra.Command {
	var dryRun bool
	var out string
	cmd := &cobra.Command{
		Use:   "migrate <save.json>",
		Short: "Upgrade a save document to the current schema version",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(args[0], out, dryRun)
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Detect only, do not write")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output path (defaults to the input file)")
	return cmd
}

func runMigrate(path, out string, dryRun bool) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading save: %w", err)
	}

	if dryRun {
		det, err := migrate.Detect(raw)
		if err != nil {
			return err
		}
		printDetection(det)
		return nil
	}

	migrated, det, err := migrate.Document(raw, time.Now())
	if err != nil {
		return err
	}
	printDetection(det)
	if !det.Needed {
		return nil
	}

	if out == "" {
		out = path
	}
	if err := os.WriteFile(out, migrated, 0o600); err != nil {
		return fmt.Errorf("writing save: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Wrote %s\n", out)
	return nil
}

func printDetection(det migrate.Detection) {
	if !det.Needed {
		fmt.Fprintln(os.Stdout, "Already at the current version.")
		return
	}
	fmt.Fprintf(os.Stdout, "Migration needed: v%d -> v%d\n", det.FromVersion, det.ToVersion)
	for _, reason := range det.Reasons {
		fmt.Fprintf(os.Stdout, "  - %s\n", reason)
	}
}
