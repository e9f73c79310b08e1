package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

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

	query := `
	INSERT INTO saves (id, name, version, document, created_at, updated_at)
	VALUES ($1, $2, $3, $4, now(), now())
	ON CONFLICT (id) DO UPDATE SET
		name = EXCLUDED.name,
		version = EXCLUDED.version,
		document = EXCLUDED.document,
		updated_at = now()
	`
	if _, err := c.pool.Exec(ctx, query, in.ID, in.Name, in.Version, payload); err != nil {
		return fmt.Errorf("upserting save: %w", err)
	}
	return nil
}

func (c *Client) GetSave(ctx context.Context, id string) (*store.SaveRecord, error) {
	query := `SELECT id, name, version, document, created_at, updated_at FROM saves WHERE id = $1`

	var rec store.SaveRecord
	var payload []byte
	err := c.pool.QueryRow(ctx, query, id).Scan(
		&rec.ID, &rec.Name, &rec.Version, &payload, &rec.CreatedAt, &rec.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetching save: %w", err)
	}

	rec.Document, err = store.DecodeDocument(payload)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (c *Client) ListSaves(ctx context.Context) ([]store.SaveSummary, error) {
	query := `SELECT id, name, version, updated_at FROM saves ORDER BY updated_at DESC`

	rows, err := c.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing saves: %w", err)
	}
	defer rows.Close()

	summaries := []store.SaveSummary{}
	for rows.Next() {
		var s store.SaveSummary
		var updatedAt time.Time
		if err := rows.Scan(&s.ID, &s.Name, &s.Version, &updatedAt); err != nil {
			return nil, fmt.Errorf("scanning save summary: %w", err)
		}
		s.UpdatedAt = updatedAt
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating saves: %w", err)
	}
	return summaries, nil
}

func (c *Client) DeleteSave(ctx context.Context, id string) error {
	if _, err := c.pool.Exec(ctx, `DELETE FROM saves WHERE id = $1`, id); err != nil {
		return fmt.Errorf("deleting save: %w", err)
	}
	return nil
}
