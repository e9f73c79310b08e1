package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"yamen/internal/effects"
	"yamen/internal/repair"
	"yamen/internal/validate"
)

func repairCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "repair <save.json>",
		Short: "Repair a save document and report what remains invalid",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRepair(args[0], out)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output path (defaults to the input file)")
	return cmd
}

func runRepair(path, out string) error {
	doc, err := readSave(path)
	if err != nil {
		return err
	}

	repair.Document(doc)
	effects.Recompute(&doc.Character)

	if out == "" {
		out = path
	}
	if err := writeSave(out, doc); err != nil {
		return err
	}

	report := validate.Document(doc)
	if report.IsValid() {
		fmt.Fprintln(os.Stdout, "Repaired.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "Repaired, but %d error(s) remain:\n", len(report.Errors()))
	for _, msg := range report.Errors() {
		fmt.Fprintf(os.Stdout, "  - %s\n", msg)
	}
	return fmt.Errorf("document still invalid after repair")
}
