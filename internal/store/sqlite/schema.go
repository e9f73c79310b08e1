package sqlite

import (
	"context"
	"fmt"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS saves (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	version    INTEGER NOT NULL,
	document   BLOB NOT NULL,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS migrations (
	id           TEXT PRIMARY KEY,
	save_id      TEXT NOT NULL REFERENCES saves(id) ON DELETE CASCADE,
	from_version INTEGER NOT NULL,
	to_version   INTEGER NOT NULL,
	reason       TEXT NOT NULL,
	migrated_at  TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_migrations_save ON migrations(save_id);
`

func (c *Client) EnsureSchema(ctx context.Context) error {
	if _, err := c.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("ensuring sqlite schema: %w", err)
	}
	return nil
}
