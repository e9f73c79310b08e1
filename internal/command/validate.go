package command

import (
	"fmt"
	"strings"

	"yamen/internal/save"
)

// envelopeFields are the only keys a command envelope may carry. Anything
// else is stripped by Clean with a warning.
var envelopeFields = map[string]bool{"action": true, "key": true, "value": true}

// ValidateBatch validates a batch of raw decoded commands independently and
// in order. One malformed entry never aborts the rest: an unexpected panic
// while checking a command is recovered and recorded as that command's
// error. The result's Commands slice holds only the accepted envelopes.
func (p *Policy) ValidateBatch(raw []any) BatchResult {
	result := BatchResult{Valid: true}

	for i, entry := range raw {
		cmd, errs, warns := p.validateOne(i, entry)
		result.Warnings = append(result.Warnings, warns...)
		if len(errs) > 0 {
			result.Valid = false
			result.Errors = append(result.Errors, errs...)
			result.Invalid = append(result.Invalid, i)
			result.InvalidCommands = append(result.InvalidCommands, entry)
			continue
		}
		result.Commands = append(result.Commands, cmd)
	}

	return result
}

// validateOne checks a single raw entry. Panics are converted into error
// entries so the batch keeps going.
func (p *Policy) validateOne(index int, entry any) (cmd Command, errs, warns []string) {
	defer func() {
		if r := recover(); r != nil {
			errs = append(errs, fmt.Sprintf("command %d: internal validation failure: %v", index, r))
		}
	}()

	obj, ok := entry.(map[string]any)
	if !ok {
		return Command{}, []string{fmt.Sprintf("command %d: not an object", index)}, nil
	}

	for field := range obj {
		if !envelopeFields[field] {
			warns = append(warns, fmt.Sprintf("command %d: unknown envelope field %q ignored", index, field))
		}
	}

	action, _ := save.AsString(obj["action"])
	if action == "" {
		errs = append(errs, fmt.Sprintf("command %d: missing action", index))
	} else if !validAction(action) {
		errs = append(errs, fmt.Sprintf("command %d: unknown action %q", index, action))
	}

	key, keyIsString := obj["key"].(string)
	key = strings.TrimSpace(key)
	if !keyIsString || key == "" {
		errs = append(errs, fmt.Sprintf("command %d: missing key", index))
		return Command{}, errs, warns
	}
	if !validRoot(key) {
		errs = append(errs, fmt.Sprintf("command %d: key %q is not rooted at a known domain", index, key))
	}

	value, hasValue := obj["value"]
	if !hasValue && action != ActionDelete {
		errs = append(errs, fmt.Sprintf("command %d: missing value for action %q on %q", index, action, key))
	}

	// Policy checks run even on a broken envelope.
	if prefix, forbidden := p.forbiddenMatch(key); forbidden {
		errs = append(errs, fmt.Sprintf("command %d: key %q is under forbidden path %q", index, key, prefix))
	}
	if (action == ActionSet || action == ActionDelete) && p.protectedMatch(key) {
		errs = append(errs, fmt.Sprintf("command %d: key %q is a protected root and cannot be replaced or deleted wholesale", index, key))
	}

	if hasValue && validAction(action) {
		errs = append(errs, p.checkValueType(index, action, key, value)...)
	}

	if len(errs) > 0 {
		return Command{}, errs, warns
	}
	return Command{Action: action, Key: key, Value: value}, nil, warns
}

// checkValueType enforces the per-path value-type table. Mismatches are
// errors here, never silent coercions; tolerant coercion belongs to the
// payload layer.
func (p *Policy) checkValueType(index int, action, key string, value any) []string {
	d := p.Resolve(key)

	if action == ActionAdd {
		if _, ok := save.AsNumber(value); !ok {
			return []string{fmt.Sprintf("command %d: add on %q requires a numeric value", index, key)}
		}
		if d.Kind != KindAny && !d.Numeric {
			return []string{fmt.Sprintf("command %d: add is not allowed on %q (%s)", index, key, d.Kind)}
		}
		return nil
	}

	if action == ActionPush || action == ActionPull {
		if d.Element.Structured() {
			if _, ok := save.AsObject(value); !ok {
				return []string{fmt.Sprintf("command %d: %s on %q requires a %s", index, action, key, d.Element)}
			}
		}
		return nil
	}

	// set
	switch d.Kind {
	case KindNumber:
		if _, ok := save.AsNumber(value); !ok {
			return []string{fmt.Sprintf("command %d: set on %q requires a number", index, key)}
		}
	case KindString:
		if _, ok := save.AsString(value); !ok {
			return []string{fmt.Sprintf("command %d: set on %q requires a string", index, key)}
		}
	case KindBool:
		if _, ok := save.AsBool(value); !ok {
			return []string{fmt.Sprintf("command %d: set on %q requires a bool", index, key)}
		}
	case KindStringList:
		if _, ok := save.AsStringList(value); !ok {
			return []string{fmt.Sprintf("command %d: set on %q requires a string list", index, key)}
		}
	default:
		if d.Kind.Structured() {
			if _, ok := save.AsObject(value); !ok {
				return []string{fmt.Sprintf("command %d: set on %q requires a %s", index, key, d.Kind)}
			}
		}
	}
	return nil
}

// Clean strips unknown envelope fields from raw decoded commands, returning
// typed envelopes plus one warning per stripped field. Entries that are not
// objects are dropped with a warning. Clean does not apply policy; run
// ValidateBatch for that.
func Clean(raw []any) ([]Command, []string) {
	var warnings []string
	cleaned := make([]Command, 0, len(raw))
	for i, entry := range raw {
		obj, ok := entry.(map[string]any)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("command %d: not an object, dropped", i))
			continue
		}
		for field := range obj {
			if !envelopeFields[field] {
				warnings = append(warnings, fmt.Sprintf("command %d: stripped unknown envelope field %q", i, field))
			}
		}
		action, _ := save.AsString(obj["action"])
		key, _ := obj["key"].(string)
		cleaned = append(cleaned, Command{
			Action: action,
			Key:    strings.TrimSpace(key),
			Value:  obj["value"],
		})
	}
	return cleaned, warnings
}
