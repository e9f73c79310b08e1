// Package payload deep-validates the object values carried by structured
// commands: rank, location, status effect, inventory item, NPC profile, and
// skill node payloads.
//
// Strict kinds (rank, location, effect, item, NPC creation) reject on
// missing required fields. The skill-node kind is best-effort and fills
// defaults. Both coerce formatting drift (numeric strings, comma-joined
// lists, Chinese key aliases) before checking.
package payload

import (
	"fmt"

	"yamen/internal/command"
	"yamen/internal/save"
)

// Result is the outcome of validating one payload. Value holds the repaired
// typed object when Valid; it is what the applier writes into the document.
type Result struct {
	Valid  bool
	Errors []string
	Value  any
}

func invalid(errs ...string) Result { return Result{Errors: errs} }

func valid(value any) Result { return Result{Valid: true, Value: value} }

// ValidateAndRepair dispatches a payload to the validator for its kind. The
// kind comes from the command path descriptor, not from shape-sniffing the
// value. The clock is the caller-supplied game time, used only to default-
// fill NPC birth dates. An unexpected panic inside a validator is recovered
// into an error result so one bad payload cannot abort a batch.
func ValidateAndRepair(kind command.Kind, value any, clock save.GameTime) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			result = invalid(fmt.Sprintf("internal payload validation failure: %v", r))
		}
	}()

	switch kind {
	case command.KindRank:
		return ValidateRank(value)
	case command.KindLocation:
		return ValidateLocation(value)
	case command.KindEffect:
		return ValidateEffect(value)
	case command.KindItem:
		return ValidateItem(value)
	case command.KindNpc:
		return ValidateNpc(value, clock)
	case command.KindSkillNode:
		return RepairSkillNode(value, "")
	case command.KindTime:
		return ValidateTime(value)
	}
	return valid(value)
}

// ValidateTime checks a game-time payload's ranges after numeric coercion.
func ValidateTime(value any) Result {
	obj, ok := save.AsObject(value)
	if !ok {
		return invalid("game time must be an object")
	}
	t := save.GameTime{
		Year:   save.IntOr(obj["year"], 1),
		Month:  save.IntOr(obj["month"], 1),
		Day:    save.IntOr(obj["day"], 1),
		Hour:   save.IntOr(obj["hour"], 0),
		Minute: save.IntOr(obj["minute"], 0),
	}
	if problems := t.CheckRanges("clock"); len(problems) > 0 {
		return invalid(problems...)
	}
	return valid(t)
}
