package payload

import "yamen/internal/save"

// ValidateRank validates a rank/title progress payload. Strict kind: name
// is required; numeric fields are coerced but a missing name is never
// invented.
func ValidateRank(value any) Result {
	obj, ok := save.AsObject(value)
	if !ok {
		return invalid("rank must be an object")
	}

	nameRaw, _ := save.Field(obj, "name", "称号", "官阶")
	name, ok := save.AsString(nameRaw)
	if !ok || name == "" {
		return invalid("rank is missing required field: name")
	}

	stage, ok := save.AsInt(obj["stage"])
	if !ok {
		stage = 0
	}
	if stage < 0 {
		return invalid("rank stage must not be negative")
	}

	rank := save.RankProgress{
		Name:          name,
		Stage:         stage,
		Progress:      save.NumberOr(obj["progress"], 0),
		NextThreshold: save.NumberOr(obj["nextThreshold"], 0),
	}
	if rank.Progress < 0 {
		rank.Progress = 0
	}
	return valid(rank)
}
