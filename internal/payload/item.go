package payload

import (
	"fmt"

	"yamen/internal/save"
)

// chinese item type aliases seen in AI output.
var itemTypeAliases = map[string]string{
	"装备": save.ItemEquipment,
	"产物": save.ItemProduct,
	"材料": save.ItemMaterial,
	"策令": save.ItemPolicy,
	"其他": save.ItemOther,
}

// ValidateItem validates a full inventory-item payload. Strict kind: name
// and a recognized type are required. Quality and quantity are repairable
// formatting, so they are coerced with defaults; grade is clamped to 0-10.
// Policy items additionally require their sub-skill list.
func ValidateItem(value any) Result {
	obj, ok := save.AsObject(value)
	if !ok {
		return invalid("item must be an object")
	}

	var errs []string

	nameRaw, _ := save.Field(obj, "name", "名称")
	name, ok := save.AsString(nameRaw)
	if !ok || name == "" {
		errs = append(errs, "item is missing required field: name")
	}

	typeRaw, _ := save.Field(obj, "type", "类型")
	itemType, _ := save.AsString(typeRaw)
	if mapped, ok := itemTypeAliases[itemType]; ok {
		itemType = mapped
	}
	if !validItemType(itemType) {
		if itemType == "" {
			errs = append(errs, "item is missing required field: type")
		} else {
			errs = append(errs, fmt.Sprintf("item type %q is not recognized", itemType))
		}
	}

	item := save.Item{
		ID:          save.StringOr(obj["id"], ""),
		Name:        name,
		Type:        itemType,
		Quantity:    save.IntOr(obj["quantity"], 1),
		Description: save.StringOr(obj["description"], ""),
		Quality:     coerceQuality(obj["quality"]),
	}
	if item.Quantity < 0 {
		item.Quantity = 0
	}

	if bonusRaw, ok := save.AsObject(obj["equipmentBonus"]); ok && len(bonusRaw) > 0 {
		item.EquipmentBonus = make(map[string]float64, len(bonusRaw))
		for attr, raw := range bonusRaw {
			if n, ok := save.AsNumber(raw); ok {
				item.EquipmentBonus[attr] = n
			}
		}
	}

	if itemType == save.ItemPolicy {
		skills, skillErrs := validatePolicySkills(obj["skills"])
		errs = append(errs, skillErrs...)
		item.Skills = skills
	}

	if len(errs) > 0 {
		return invalid(errs...)
	}
	return valid(item)
}

// validatePolicySkills checks the sub-skill list a policy item must carry:
// non-empty, each entry named and described with a numeric proficiency
// threshold, and the first entry usable immediately (threshold 0).
func validatePolicySkills(value any) ([]save.PolicySkill, []string) {
	list, ok := value.([]any)
	if !ok || len(list) == 0 {
		return nil, []string{"policy item requires a non-empty skills list"}
	}

	var errs []string
	skills := make([]save.PolicySkill, 0, len(list))
	for i, entry := range list {
		obj, ok := save.AsObject(entry)
		if !ok {
			errs = append(errs, fmt.Sprintf("policy skill %d is not an object", i))
			continue
		}
		name, ok := save.AsString(obj["name"])
		if !ok || name == "" {
			errs = append(errs, fmt.Sprintf("policy skill %d is missing required field: name", i))
		}
		desc, ok := save.AsString(obj["description"])
		if !ok || desc == "" {
			errs = append(errs, fmt.Sprintf("policy skill %d is missing required field: description", i))
		}
		threshold, ok := save.AsNumber(obj["threshold"])
		if !ok {
			errs = append(errs, fmt.Sprintf("policy skill %d is missing required field: threshold", i))
		}
		skills = append(skills, save.PolicySkill{Name: name, Description: desc, Threshold: threshold})
	}

	if len(errs) == 0 && len(skills) > 0 && skills[0].Threshold != 0 {
		errs = append(errs, "policy item's first skill must have threshold 0")
	}

	return skills, errs
}

func coerceQuality(value any) save.Quality {
	q := save.Quality{Tier: save.QualityTiers[1], Grade: 1}
	obj, ok := save.AsObject(value)
	if !ok {
		return q
	}
	if tier, ok := save.AsString(obj["tier"]); ok && validTier(tier) {
		q.Tier = tier
	}
	if grade, ok := save.AsInt(obj["grade"]); ok {
		if grade < 0 {
			grade = 0
		}
		if grade > 10 {
			grade = 10
		}
		q.Grade = grade
	}
	return q
}

func validTier(tier string) bool {
	for _, t := range save.QualityTiers {
		if t == tier {
			return true
		}
	}
	return false
}

func validItemType(itemType string) bool {
	for _, t := range save.ItemTypes {
		if t == itemType {
			return true
		}
	}
	return false
}
