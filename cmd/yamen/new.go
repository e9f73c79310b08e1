package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"yamen/internal/config"
	"yamen/internal/save"
	"yamen/internal/store"
)

func newCmd() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create a fresh save slot in the configured store",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(name) == "" {
				return fmt.Errorf("--name is required")
			}
			return runNew(name)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Character name")
	return cmd
}

func runNew(name string) error {
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

	doc := save.New(name)
	doc.Character.Inventory.DisableCurrencies(cfg.Policy.DisabledCurrencies...)

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding save: %w", err)
	}

	if err := db.PutSave(ctx, store.SaveInput{
		ID:       doc.Metadata.ID,
		Name:     doc.Metadata.Name,
		Version:  doc.Metadata.Version,
		Document: data,
	}); err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Created save %s (%s)\n", doc.Metadata.ID, doc.Metadata.Name)
	return nil
}
