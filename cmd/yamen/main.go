package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "yamen",
		Short: "Save-data validation, repair and migration for AI-narrated campaigns",
	}
	root.Version = version
	root.SetVersionTemplate("{{.Version}}\n")
	root.AddCommand(validateCmd())
	root.AddCommand(repairCmd())
	root.AddCommand(migrateCmd())
	root.AddCommand(applyCmd())
	root.AddCommand(serveCmd())
	root.AddCommand(newCmd())
	root.AddCommand(listCmd())
	root.AddCommand(initCmd())
	root.AddCommand(versionCmd())
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
