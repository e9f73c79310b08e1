// Package store persists save slots and their migration history. The core
// validators never touch storage; the CLI and MCP layers do, through this
// interface.
package store

import "context"

type Store interface {
	Close(ctx context.Context) error
	EnsureSchema(ctx context.Context) error

	PutSave(ctx context.Context, in SaveInput) error
	GetSave(ctx context.Context, id string) (*SaveRecord, error)
	ListSaves(ctx context.Context) ([]SaveSummary, error)
	DeleteSave(ctx context.Context, id string) error

	RecordMigration(ctx context.Context, in MigrationInput) error
	ListMigrations(ctx context.Context, saveID string) ([]MigrationEntry, error)
}
