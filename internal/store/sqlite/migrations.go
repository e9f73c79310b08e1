package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"yamen/internal/store"
)

func (c *Client) RecordMigration(ctx context.Context, in store.MigrationInput) error {
	if in.SaveID == "" {
		return fmt.Errorf("save id is required")
	}
	if in.ID == "" {
		in.ID = uuid.NewString()
	}

	query := `
	INSERT INTO migrations (id, save_id, from_version, to_version, reason, migrated_at)
	VALUES (?, ?, ?, ?, ?, ?)
	`
	now := time.Now().UTC().Format(time.RFC3339)
	if _, err := c.db.ExecContext(ctx, query, in.ID, in.SaveID, in.FromVersion, in.ToVersion, in.Reason, now); err != nil {
		return fmt.Errorf("recording migration: %w", err)
	}
	return nil
}

func (c *Client) ListMigrations(ctx context.Context, saveID string) ([]store.MigrationEntry, error) {
	query := `
	SELECT id, save_id, from_version, to_version, reason, migrated_at
	FROM migrations
	WHERE save_id = ?
	ORDER BY migrated_at ASC, id ASC
	`

	rows, err := c.db.QueryContext(ctx, query, saveID)
	if err != nil {
		return nil, fmt.Errorf("listing migrations: %w", err)
	}
	defer rows.Close()

	entries := []store.MigrationEntry{}
	for rows.Next() {
		var e store.MigrationEntry
		var migratedAt string
		if err := rows.Scan(&e.ID, &e.SaveID, &e.FromVersion, &e.ToVersion, &e.Reason, &migratedAt); err != nil {
			return nil, fmt.Errorf("scanning migration: %w", err)
		}
		e.MigratedAt, _ = time.Parse(time.RFC3339, migratedAt)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating migrations: %w", err)
	}
	return entries, nil
}
