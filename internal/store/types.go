package store

import "time"

type SaveInput struct {
	ID       string
	Name     string
	Version  int
	Document []byte
}

type SaveRecord struct {
	ID        string
	Name      string
	Version   int
	Document  []byte
	CreatedAt time.Time
	UpdatedAt time.Time
}

type SaveSummary struct {
	ID        string
	Name      string
	Version   int
	UpdatedAt time.Time
}

type MigrationInput struct {
	ID          string
	SaveID      string
	FromVersion int
	ToVersion   int
	Reason      string
}

type MigrationEntry struct {
	ID          string
	SaveID      string
	FromVersion int
	ToVersion   int
	Reason      string
	MigratedAt  time.Time
}
