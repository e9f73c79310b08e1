package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/tidwall/gjson"

	"yamen/internal/apply"
	"yamen/internal/command"
	"yamen/internal/migrate"
	"yamen/internal/save"
	"yamen/internal/store"
	"yamen/internal/validate"
)

type ValidateCommandsInput struct {
	Commands json.RawMessage `json:"commands" jsonschema:"JSON array of {action, key, value} commands"`
}

type ApplyCommandsInput struct {
	SaveID   string          `json:"save_id" jsonschema:"id of the save slot to mutate"`
	Commands json.RawMessage `json:"commands" jsonschema:"JSON array of {action, key, value} commands"`
}

type ValidateSaveInput struct {
	SaveID   string          `json:"save_id,omitempty" jsonschema:"id of a stored save slot"`
	Document json.RawMessage `json:"document,omitempty" jsonschema:"inline save document, used when save_id is empty"`
}

type MigrateSaveInput struct {
	SaveID string `json:"save_id" jsonschema:"id of the save slot to migrate"`
	DryRun bool   `json:"dry_run,omitempty" jsonschema:"detect only, do not write"`
}

type GetPolicyInput struct{}

type BatchOutput struct {
	Valid          bool     `json:"valid"`
	Errors         []string `json:"errors"`
	Warnings       []string `json:"warnings"`
	InvalidIndexes []int    `json:"invalid_indexes,omitempty"`
	Applied        int      `json:"applied,omitempty"`
}

type ReportOutput struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

type MigrateOutput struct {
	Needed      bool     `json:"needed"`
	FromVersion int      `json:"from_version"`
	ToVersion   int      `json:"to_version"`
	Reasons     []string `json:"reasons"`
	Applied     bool     `json:"applied"`
}

type PolicyOutput struct {
	Actions        []string `json:"actions"`
	ForbiddenPaths []string `json:"forbidden_paths"`
	ProtectedRoots []string `json:"protected_roots"`
	Fingerprint    string   `json:"fingerprint"`
}

func (s *Server) registerTools() {
	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "validate_commands",
		Description: "Validate a batch of state-change commands without applying them",
	}, s.handleValidateCommands)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "apply_commands",
		Description: "Validate and apply a command batch to a stored save slot",
	}, s.handleApplyCommands)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "validate_save",
		Description: "Run the structural validator over a save document",
	}, s.handleValidateSave)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "migrate_save",
		Description: "Detect and apply schema migration for a stored save slot",
	}, s.handleMigrateSave)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "get_policy",
		Description: "Return the command policy: actions, forbidden paths, protected roots",
	}, s.handleGetPolicy)
}

func decodeCommands(raw json.RawMessage) ([]any, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("commands are required")
	}
	var commands []any
	if err := json.Unmarshal(raw, &commands); err != nil {
		return nil, fmt.Errorf("commands must be a JSON array: %w", err)
	}
	return commands, nil
}

func (s *Server) handleValidateCommands(ctx context.Context, req *sdk.CallToolRequest, input ValidateCommandsInput) (*sdk.CallToolResult, BatchOutput, error) {
	commands, err := decodeCommands(input.Commands)
	if err != nil {
		return nil, BatchOutput{}, err
	}

	result := s.policy.ValidateBatch(commands)
	return nil, BatchOutput{
		Valid:          result.Valid,
		Errors:         emptyIfNil(result.Errors),
		Warnings:       emptyIfNil(result.Warnings),
		InvalidIndexes: result.Invalid,
	}, nil
}

func (s *Server) handleApplyCommands(ctx context.Context, req *sdk.CallToolRequest, input ApplyCommandsInput) (*sdk.CallToolResult, BatchOutput, error) {
	if s.db == nil {
		return nil, BatchOutput{}, fmt.Errorf("no database configured")
	}
	commands, err := decodeCommands(input.Commands)
	if err != nil {
		return nil, BatchOutput{}, err
	}

	rec, err := s.db.GetSave(ctx, input.SaveID)
	if err != nil {
		return nil, BatchOutput{}, err
	}
	if rec == nil {
		return nil, BatchOutput{}, fmt.Errorf("save not found: %s", input.SaveID)
	}

	result, err := apply.Batch(rec.Document, commands, apply.Options{
		Policy: s.policy,
		Clock:  clockFromDocument(rec.Document),
	})
	if err != nil {
		return nil, BatchOutput{}, err
	}

	if err := s.db.PutSave(ctx, store.SaveInput{
		ID:       rec.ID,
		Name:     rec.Name,
		Version:  save.CurrentVersion,
		Document: result.Doc,
	}); err != nil {
		return nil, BatchOutput{}, err
	}

	errors := append(emptyIfNil(result.Batch.Errors), result.Report.Errors()...)
	warnings := append(emptyIfNil(result.Batch.Warnings), result.Report.Warnings()...)
	return nil, BatchOutput{
		Valid:          result.Batch.Valid && result.Report.IsValid(),
		Errors:         errors,
		Warnings:       warnings,
		InvalidIndexes: result.Batch.Invalid,
		Applied:        result.Applied,
	}, nil
}

func (s *Server) handleValidateSave(ctx context.Context, req *sdk.CallToolRequest, input ValidateSaveInput) (*sdk.CallToolResult, ReportOutput, error) {
	doc := []byte(input.Document)
	if input.SaveID != "" {
		if s.db == nil {
			return nil, ReportOutput{}, fmt.Errorf("no database configured")
		}
		rec, err := s.db.GetSave(ctx, input.SaveID)
		if err != nil {
			return nil, ReportOutput{}, err
		}
		if rec == nil {
			return nil, ReportOutput{}, fmt.Errorf("save not found: %s", input.SaveID)
		}
		doc = rec.Document
	}
	if len(doc) == 0 {
		return nil, ReportOutput{}, fmt.Errorf("save_id or document is required")
	}

	var typed save.Document
	if err := json.Unmarshal(doc, &typed); err != nil {
		return nil, ReportOutput{}, fmt.Errorf("parsing save document: %w", err)
	}

	report := validate.Document(&typed)
	return nil, ReportOutput{
		Valid:    report.IsValid(),
		Errors:   emptyIfNil(report.Errors()),
		Warnings: emptyIfNil(report.Warnings()),
	}, nil
}

func (s *Server) handleMigrateSave(ctx context.Context, req *sdk.CallToolRequest, input MigrateSaveInput) (*sdk.CallToolResult, MigrateOutput, error) {
	if s.db == nil {
		return nil, MigrateOutput{}, fmt.Errorf("no database configured")
	}
	rec, err := s.db.GetSave(ctx, input.SaveID)
	if err != nil {
		return nil, MigrateOutput{}, err
	}
	if rec == nil {
		return nil, MigrateOutput{}, fmt.Errorf("save not found: %s", input.SaveID)
	}

	if input.DryRun {
		det, err := migrate.Detect(rec.Document)
		if err != nil {
			return nil, MigrateOutput{}, err
		}
		return nil, migrateOutput(det, false), nil
	}

	migrated, det, err := migrate.Document(rec.Document, time.Now())
	if err != nil {
		return nil, MigrateOutput{}, err
	}
	if !det.Needed {
		return nil, migrateOutput(det, false), nil
	}

	if err := s.db.PutSave(ctx, store.SaveInput{
		ID:       rec.ID,
		Name:     rec.Name,
		Version:  det.ToVersion,
		Document: migrated,
	}); err != nil {
		return nil, MigrateOutput{}, err
	}
	if err := s.db.RecordMigration(ctx, store.MigrationInput{
		SaveID:      rec.ID,
		FromVersion: det.FromVersion,
		ToVersion:   det.ToVersion,
		Reason:      firstOrDefault(det.Reasons),
	}); err != nil {
		return nil, MigrateOutput{}, err
	}
	return nil, migrateOutput(det, true), nil
}

func (s *Server) handleGetPolicy(ctx context.Context, req *sdk.CallToolRequest, input GetPolicyInput) (*sdk.CallToolResult, PolicyOutput, error) {
	return nil, PolicyOutput{
		Actions:        append([]string(nil), command.Actions...),
		ForbiddenPaths: s.policy.ForbiddenPaths(),
		ProtectedRoots: s.policy.ProtectedRoots(),
		Fingerprint:    s.policy.FingerprintString(),
	}, nil
}

func migrateOutput(det migrate.Detection, applied bool) MigrateOutput {
	return MigrateOutput{
		Needed:      det.Needed,
		FromVersion: det.FromVersion,
		ToVersion:   det.ToVersion,
		Reasons:     emptyIfNil(det.Reasons),
		Applied:     applied,
	}
}

// clockFromDocument reads the in-game clock out of a raw document for NPC
// birth-date defaults.
func clockFromDocument(doc []byte) save.GameTime {
	clock := gjson.GetBytes(doc, "metadata.clock")
	return save.GameTime{
		Year:   int(clock.Get("year").Int()),
		Month:  int(clock.Get("month").Int()),
		Day:    int(clock.Get("day").Int()),
		Hour:   int(clock.Get("hour").Int()),
		Minute: int(clock.Get("minute").Int()),
	}
}

func emptyIfNil(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}

func firstOrDefault(reasons []string) string {
	if len(reasons) == 0 {
		return "schema migration"
	}
	return reasons[0]
}
