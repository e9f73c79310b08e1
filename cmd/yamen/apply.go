package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"

	"yamen/internal/apply"
	"yamen/internal/config"
	"yamen/internal/save"
)

func applyCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "apply <save.json> <commands.json>",
		Short: "Validate and apply a command batch to a save document",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(args[0], args[1], out)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output path (defaults to the save file)")
	return cmd
}

func runApply(savePath, commandsPath, out string) error {
	cfg, err := config.LoadProjectConfig("yamen.yaml")
	if err != nil {
		return err
	}

	raw, err := os.ReadFile(savePath)
	if err != nil {
		return fmt.Errorf("reading save: %w", err)
	}
	commandsRaw, err := os.ReadFile(commandsPath)
	if err != nil {
		return fmt.Errorf("reading commands: %w", err)
	}
	var commands []any
	if err := json.Unmarshal(commandsRaw, &commands); err != nil {
		return fmt.Errorf("commands must be a JSON array: %w", err)
	}

	result, err := apply.Batch(raw, commands, apply.Options{
		Policy: policyFromConfig(cfg),
		Clock:  clockFrom(raw),
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Applied %d of %d command(s)\n", result.Applied, len(commands))
	for _, msg := range result.Batch.Errors {
		fmt.Fprintf(os.Stdout, "  error: %s\n", msg)
	}
	for _, msg := range result.Batch.Warnings {
		fmt.Fprintf(os.Stdout, "  warning: %s\n", msg)
	}
	for _, msg := range result.Report.Errors() {
		fmt.Fprintf(os.Stdout, "  error: %s\n", msg)
	}

	if out == "" {
		out = savePath
	}
	if err := os.WriteFile(out, result.Doc, 0o600); err != nil {
		return fmt.Errorf("writing save: %w", err)
	}

	if !result.Batch.Valid || !result.Report.IsValid() {
		return fmt.Errorf("batch finished with errors")
	}
	return nil
}

func clockFrom(doc []byte) save.GameTime {
	clock := gjson.GetBytes(doc, "metadata.clock")
	return save.GameTime{
		Year:   int(clock.Get("year").Int()),
		Month:  int(clock.Get("month").Int()),
		Day:    int(clock.Get("day").Int()),
		Hour:   int(clock.Get("hour").Int()),
		Minute: int(clock.Get("minute").Int()),
	}
}
