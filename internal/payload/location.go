package payload

import "yamen/internal/save"

// ValidateLocation validates a location payload. Strict kind: description
// and both coordinates are required. The AI layer frequently emits the
// description under its Chinese key, so 描述 is accepted as an alias.
func ValidateLocation(value any) Result {
	obj, ok := save.AsObject(value)
	if !ok {
		return invalid("location must be an object")
	}

	var errs []string

	descRaw, _ := save.Field(obj, "description", "描述")
	desc, ok := save.AsString(descRaw)
	if !ok || desc == "" {
		errs = append(errs, "location is missing required field: description")
	}

	x, okX := save.AsNumber(obj["x"])
	if !okX {
		errs = append(errs, "location is missing required field: x")
	}
	y, okY := save.AsNumber(obj["y"])
	if !okY {
		errs = append(errs, "location is missing required field: y")
	}

	if len(errs) > 0 {
		return invalid(errs...)
	}

	return valid(save.Location{
		Description: desc,
		X:           x,
		Y:           y,
		MapID:       save.StringOr(obj["mapId"], ""),
	})
}
