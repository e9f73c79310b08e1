package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"yamen/internal/store"
)

func (c *Client) PutSave(ctx context.Context, in store.SaveInput) error {
	if in.ID == "" {
		return fmt.Errorf("save id is required")
	}
	payload, err := store.EncodeDocument(in.Document)
	if err != nil {
		return err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	query := `
	INSERT INTO saves (id, name, version, document, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		name = excluded.name,
		version = excluded.version,
		document = excluded.document,
		updated_at = excluded.updated_at
	`
	if _, err := c.db.ExecContext(ctx, query, in.ID, in.Name, in.Version, payload, now, now); err != nil {
		return fmt.Errorf("upserting save: %w", err)
	}
	return nil
}

func (c *Client) GetSave(ctx context.Context, id string) (*store.SaveRecord, error) {
	query := `SELECT id, name, version, document, created_at, updated_at FROM saves WHERE id = ?`

	var rec store.SaveRecord
	var payload []byte
	var createdAt, updatedAt string
	err := c.db.QueryRowContext(ctx, query, id).Scan(
		&rec.ID, &rec.Name, &rec.Version, &payload, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetching save: %w", err)
	}

	rec.Document, err = store.DecodeDocument(payload)
	if err != nil {
		return nil, err
	}
	rec.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	rec.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &rec, nil
}

func (c *Client) ListSaves(ctx context.Context) ([]store.SaveSummary, error) {
	query := `SELECT id, name, version, updated_at FROM saves ORDER BY updated_at DESC`

	rows, err := c.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing saves: %w", err)
	}
	defer rows.Close()

	summaries := []store.SaveSummary{}
	for rows.Next() {
		var s store.SaveSummary
		var updatedAt string
		if err := rows.Scan(&s.ID, &s.Name, &s.Version, &updatedAt); err != nil {
			return nil, fmt.Errorf("scanning save summary: %w", err)
		}
		s.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating saves: %w", err)
	}
	return summaries, nil
}

func (c *Client) DeleteSave(ctx context.Context, id string) error {
	if _, err := c.db.ExecContext(ctx, `DELETE FROM saves WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting save: %w", err)
	}
	return nil
}
