package payload

import (
	"fmt"

	"yamen/internal/save"
)

// ValidateEffect validates a status-effect payload. Strict kind: name, type,
// and duration are required. Modifier values are coerced to numbers; entries
// that cannot be coerced are dropped.
func ValidateEffect(value any) Result {
	obj, ok := save.AsObject(value)
	if !ok {
		return invalid("status effect must be an object")
	}

	var errs []string

	name, ok := save.AsString(obj["name"])
	if !ok || name == "" {
		errs = append(errs, "status effect is missing required field: name")
	}

	typeRaw, _ := save.Field(obj, "type", "类型")
	effectType, _ := save.AsString(typeRaw)
	switch effectType {
	case save.EffectBuff, save.EffectDebuff, save.EffectNeutral:
	case "":
		errs = append(errs, "status effect is missing required field: type")
	default:
		errs = append(errs, fmt.Sprintf("status effect type %q is not one of buff/debuff/neutral", effectType))
	}

	duration, ok := save.AsInt(obj["duration"])
	if !ok {
		errs = append(errs, "status effect is missing required field: duration")
	}

	if len(errs) > 0 {
		return invalid(errs...)
	}

	effect := save.StatusEffect{
		Name:        name,
		Type:        effectType,
		Description: save.StringOr(obj["description"], ""),
		Duration:    duration,
	}

	if modsRaw, ok := save.AsObject(obj["modifiers"]); ok && len(modsRaw) > 0 {
		effect.Modifiers = make(map[string]float64, len(modsRaw))
		for attr, raw := range modsRaw {
			if n, ok := save.AsNumber(raw); ok {
				effect.Modifiers[attr] = n
			}
		}
	}

	return valid(effect)
}
