package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"yamen/internal/config"
)

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List save slots in the configured store",
		Args:  cobra.NoArgs,
		RunE:  runList,
	}
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.LoadProjectConfig("yamen.yaml")
	if err != nil {
		return err
	}

	db, err := openDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close(ctx)

	saves, err := db.ListSaves(ctx)
	if err != nil {
		return err
	}
	if len(saves) == 0 {
		fmt.Fprintln(os.Stdout, "No saves.")
		return nil
	}

	for _, s := range saves {
		fmt.Fprintf(os.Stdout, "%s  v%d  %s  %s\n",
			s.ID, s.Version, s.UpdatedAt.Format(time.RFC3339), s.Name)
	}
	return nil
}
