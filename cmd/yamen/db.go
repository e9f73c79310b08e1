package main

import (
	"context"
	"fmt"

	"yamen/internal/command"
	"yamen/internal/config"
	"yamen/internal/store"
	"yamen/internal/store/postgres"
	"yamen/internal/store/sqlite"
)

func openDB(ctx context.Context, cfg *config.ProjectConfig) (store.Store, error) {
	var db store.Store
	var err error
	switch cfg.Database.Driver {
	case "sqlite":
		db, err = sqlite.New(ctx, cfg.Database.DSN)
	case "postgres":
		db, err = postgres.New(ctx, cfg.Database.DSN)
	case "":
		return nil, fmt.Errorf("no database configured")
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Database.Driver)
	}
	if err != nil {
		return nil, err
	}
	if err := db.EnsureSchema(ctx); err != nil {
		db.Close(ctx)
		return nil, err
	}
	return db, nil
}

func policyFromConfig(cfg *config.ProjectConfig) *command.Policy {
	return command.NewPolicy(command.Overrides{
		ForbiddenPaths: cfg.Policy.ForbiddenPaths,
		ProtectedRoots: cfg.Policy.ProtectedRoots,
	})
}
