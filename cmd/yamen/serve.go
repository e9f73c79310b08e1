package main

import (
	"context"

	"github.com/spf13/cobra"

	"yamen/internal/config"
	"yamen/internal/mcp"
	"yamen/internal/store"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server over stdio",
		RunE:  runServe,
	}
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.LoadProjectConfig("yamen.yaml")
	if err != nil {
		return err
	}

	var db store.Store
	if cfg.Database.Driver != "" {
		db, err = openDB(ctx, cfg)
		if err != nil {
			return err
		}
		defer db.Close(ctx)
	}

	server := mcp.NewServer(policyFromConfig(cfg), db, version)
	return server.Run(ctx, &sdk.StdioTransport{})
}
