// Package apply runs the full ingestion pipeline for one AI turn: validate
// the command batch, deep-validate structured payloads, mutate the
// serialized document by dot path, then repair and re-validate the result.
//
// The document is addressed as raw JSON by dot path; the typed model takes
// over for the repair and validation stages. Commands apply in array order,
// and one that fails payload validation or application is excluded and
// reported, never aborting the batch.
package apply

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"yamen/internal/command"
	"yamen/internal/effects"
	"yamen/internal/payload"
	"yamen/internal/repair"
	"yamen/internal/save"
	"yamen/internal/validate"
)

// Options configures one pipeline run.
type Options struct {
	// Policy is the compiled command policy. Required.
	Policy *command.Policy
	// Clock is the current game time, used to default-fill NPC birth dates.
	Clock save.GameTime
}

// Result carries the updated document plus every diagnostic the pipeline
// produced.
type Result struct {
	// Doc is the updated document. On a fatal pipeline error it is the
	// unmodified input.
	Doc []byte
	// Batch is the envelope-level validation outcome, extended with payload
	// and application errors.
	Batch command.BatchResult
	// Report is the structural validation of the final document.
	Report *validate.Report
	// Applied counts the commands actually written into the document.
	Applied int
}

// Batch applies a batch of raw decoded commands to a serialized document.
func Batch(doc []byte, commands []any, opts Options) (Result, error) {
	if opts.Policy == nil {
		return Result{Doc: doc}, fmt.Errorf("policy is required")
	}
	if !gjson.ValidBytes(doc) {
		return Result{Doc: doc}, fmt.Errorf("document is not valid JSON")
	}

	result := Result{Batch: opts.Policy.ValidateBatch(commands)}

	updated := doc
	for _, cmd := range result.Batch.Commands {
		next, err := applyOne(updated, cmd, opts)
		if err != nil {
			result.Batch.Valid = false
			result.Batch.Errors = append(result.Batch.Errors,
				fmt.Sprintf("%s %s: %v", cmd.Action, cmd.Key, err))
			continue
		}
		updated = next
		result.Applied++
	}

	var typed save.Document
	if err := json.Unmarshal(updated, &typed); err != nil {
		result.Doc = doc
		return result, fmt.Errorf("document no longer parses after apply: %w", err)
	}

	repair.Document(&typed)
	effects.Recompute(&typed.Character)
	result.Report = validate.Document(&typed)

	final, err := json.Marshal(&typed)
	if err != nil {
		result.Doc = doc
		return result, fmt.Errorf("encoding repaired document: %w", err)
	}
	result.Doc = final
	return result, nil
}

// applyOne writes a single validated command into the document.
func applyOne(doc []byte, cmd command.Command, opts Options) ([]byte, error) {
	d := opts.Policy.Resolve(cmd.Key)

	switch cmd.Action {
	case command.ActionSet:
		value, err := resolveValue(d.Kind, cmd, opts.Clock)
		if err != nil {
			return nil, err
		}
		return sjson.SetBytes(doc, cmd.Key, value)

	case command.ActionAdd:
		delta, ok := save.AsNumber(cmd.Value)
		if !ok {
			return nil, fmt.Errorf("value is not numeric")
		}
		current := gjson.GetBytes(doc, cmd.Key).Float()
		return sjson.SetBytes(doc, cmd.Key, current+delta)

	case command.ActionDelete:
		return sjson.DeleteBytes(doc, cmd.Key)

	case command.ActionPush:
		value, err := resolveValue(d.Element, cmd, opts.Clock)
		if err != nil {
			return nil, err
		}
		return sjson.SetBytes(doc, cmd.Key+".-1", value)

	case command.ActionPull:
		return pull(doc, cmd)
	}

	return nil, fmt.Errorf("unsupported action %q", cmd.Action)
}

// resolveValue deep-validates structured payloads and returns the repaired
// value to write; scalar kinds are coerced.
func resolveValue(kind command.Kind, cmd command.Command, clock save.GameTime) (any, error) {
	if kind == command.KindSkillNode {
		result := payload.RepairSkillNode(cmd.Value, lastSegment(cmd.Key))
		if !result.Valid {
			return nil, fmt.Errorf("%s", strings.Join(result.Errors, "; "))
		}
		return result.Value, nil
	}
	if kind.Structured() {
		result := payload.ValidateAndRepair(kind, cmd.Value, clock)
		if !result.Valid {
			return nil, fmt.Errorf("%s", strings.Join(result.Errors, "; "))
		}
		if item, ok := result.Value.(save.Item); ok && item.ID == "" {
			item.ID = lastSegment(cmd.Key)
			return item, nil
		}
		return result.Value, nil
	}

	switch kind {
	case command.KindNumber:
		n, ok := save.AsNumber(cmd.Value)
		if !ok {
			return nil, fmt.Errorf("value is not numeric")
		}
		return n, nil
	case command.KindString:
		s, ok := save.AsString(cmd.Value)
		if !ok {
			return nil, fmt.Errorf("value is not a string")
		}
		return s, nil
	case command.KindBool:
		b, ok := save.AsBool(cmd.Value)
		if !ok {
			return nil, fmt.Errorf("value is not a bool")
		}
		return b, nil
	case command.KindStringList:
		list, ok := save.AsStringList(cmd.Value)
		if !ok {
			return nil, fmt.Errorf("value is not a string list")
		}
		return list, nil
	}
	return cmd.Value, nil
}

// pull removes matching elements from a list. Scalars match by equality;
// objects match when their name or id equals the given value.
func pull(doc []byte, cmd command.Command) ([]byte, error) {
	node := gjson.GetBytes(doc, cmd.Key)
	if !node.Exists() || !node.IsArray() {
		return doc, nil
	}

	match, _ := save.AsString(cmd.Value)
	var kept []any
	removed := false
	for _, element := range node.Array() {
		if pullMatches(element, cmd.Value, match) {
			removed = true
			continue
		}
		kept = append(kept, element.Value())
	}
	if !removed {
		return doc, nil
	}
	if kept == nil {
		kept = []any{}
	}
	return sjson.SetBytes(doc, cmd.Key, kept)
}

func pullMatches(element gjson.Result, value any, asString string) bool {
	if element.IsObject() {
		if asString == "" {
			return false
		}
		return element.Get("name").String() == asString || element.Get("id").String() == asString
	}
	if asString != "" && element.String() == asString {
		return true
	}
	if n, ok := save.AsNumber(value); ok && element.Type == gjson.Number {
		return element.Float() == n
	}
	return false
}

func lastSegment(key string) string {
	if i := strings.LastIndexByte(key, '.'); i >= 0 {
		return key[i+1:]
	}
	return key
}
