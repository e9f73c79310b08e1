package payload

import "yamen/internal/save"

// npcIdentityFields is the identity field set the creation heuristic counts.
// An object is treated as a full NPC-creation payload only if it carries
// name, gender, and birth date plus at least one of appearance, personality,
// or rank. Anything below that bar is a partial patch and skips strict
// validation, so legitimate updates like an affinity bump are not rejected.
// The thresholds are inherited behavior; change them only deliberately and
// with test coverage, since both false positives and false negatives are
// possible.
func isNpcCreation(obj map[string]any) bool {
	if !hasField(obj, "name", "姓名") || !hasField(obj, "gender", "性别") || !hasField(obj, "birthDate", "出生日期") {
		return false
	}
	return hasField(obj, "appearance", "外貌") || hasField(obj, "personality", "性格") || hasField(obj, "rank", "官阶")
}

func hasField(obj map[string]any, key string, aliases ...string) bool {
	v, ok := save.Field(obj, key, aliases...)
	return ok && v != nil
}

// ValidateNpc validates an NPC payload. Creation payloads are strict:
// identity fields are required and never invented. Partial patches pass
// through untouched for field-level application. The caller's game clock
// default-fills missing components of a partially specified birth date.
func ValidateNpc(value any, clock save.GameTime) Result {
	obj, ok := save.AsObject(value)
	if !ok {
		return invalid("npc must be an object")
	}

	if !isNpcCreation(obj) {
		// Partial patch: strict validation does not apply.
		return valid(coerceNpcPatch(obj))
	}

	var errs []string

	nameRaw, _ := save.Field(obj, "name", "姓名")
	name, ok := save.AsString(nameRaw)
	if !ok || name == "" {
		errs = append(errs, "npc creation is missing required field: name")
	}

	genderRaw, _ := save.Field(obj, "gender", "性别")
	gender, ok := save.AsString(genderRaw)
	if !ok || gender == "" {
		errs = append(errs, "npc creation is missing required field: gender")
	}

	birthRaw, _ := save.Field(obj, "birthDate", "出生日期")
	birth, birthOK := coerceBirthDate(birthRaw, clock)
	if !birthOK {
		errs = append(errs, "npc creation has an unusable birth date")
	}

	var rank save.RankProgress
	if rankRaw, ok := save.Field(obj, "rank", "官阶"); ok && rankRaw != nil {
		rankResult := ValidateRank(rankRaw)
		if !rankResult.Valid {
			errs = append(errs, rankResult.Errors...)
		} else {
			rank = rankResult.Value.(save.RankProgress)
		}
	}

	if len(errs) > 0 {
		return invalid(errs...)
	}

	appearanceRaw, _ := save.Field(obj, "appearance", "外貌")
	personalityRaw, _ := save.Field(obj, "personality", "性格")
	personality, _ := save.AsStringList(personalityRaw)

	npc := save.NpcProfile{
		Name:         name,
		Gender:       gender,
		BirthDate:    birth,
		Rank:         rank,
		Appearance:   save.StringOr(appearanceRaw, ""),
		Personality:  personality,
		Relationship: save.StringOr(obj["relationship"], "陌生人"),
		Affinity:     save.NumberOr(obj["affinity"], 0),
		Faction:      save.StringOr(obj["faction"], ""),
		Position:     save.StringOr(obj["position"], ""),
	}
	if attrs, ok := save.AsObject(obj["attributes"]); ok {
		npc.Attributes = coerceAttributeBlock(attrs)
	}
	if memories, ok := save.AsStringList(obj["memories"]); ok {
		npc.Memories = memories
	}

	return valid(npc)
}

// coerceNpcPatch normalizes formatting drift on a partial patch without
// enforcing required fields: numeric strings become numbers, comma-joined
// personality strings become lists, Chinese keys move to canonical names.
func coerceNpcPatch(obj map[string]any) map[string]any {
	patch := make(map[string]any, len(obj))
	for key, raw := range obj {
		patch[canonicalNpcKey(key)] = raw
	}
	if raw, ok := patch["affinity"]; ok {
		if n, ok := save.AsNumber(raw); ok {
			patch["affinity"] = n
		}
	}
	if raw, ok := patch["personality"]; ok {
		if list, ok := save.AsStringList(raw); ok {
			patch["personality"] = list
		}
	}
	if raw, ok := patch["memories"]; ok {
		if list, ok := save.AsStringList(raw); ok {
			patch["memories"] = list
		}
	}
	return patch
}

var npcKeyAliases = map[string]string{
	"姓名":   "name",
	"性别":   "gender",
	"出生日期": "birthDate",
	"官阶":   "rank",
	"外貌":   "appearance",
	"性格":   "personality",
	"好感度":  "affinity",
	"关系":   "relationship",
}

func canonicalNpcKey(key string) string {
	if canonical, ok := npcKeyAliases[key]; ok {
		return canonical
	}
	return key
}

// coerceBirthDate accepts a birth date object with any subset of fields and
// fills the gaps from the supplied clock.
func coerceBirthDate(value any, clock save.GameTime) (save.GameTime, bool) {
	obj, ok := save.AsObject(value)
	if !ok {
		return save.GameTime{}, false
	}
	birth := save.GameTime{
		Year:   save.IntOr(obj["year"], clock.Year),
		Month:  save.IntOr(obj["month"], maxInt(clock.Month, 1)),
		Day:    save.IntOr(obj["day"], maxInt(clock.Day, 1)),
		Hour:   save.IntOr(obj["hour"], clock.Hour),
		Minute: save.IntOr(obj["minute"], clock.Minute),
	}
	if len(birth.CheckRanges("birthDate")) > 0 {
		return save.GameTime{}, false
	}
	return birth, true
}

func coerceAttributeBlock(obj map[string]any) save.AttributeBlock {
	var block save.AttributeBlock
	for _, name := range save.AttributeNames {
		block.Add(name, save.IntOr(obj[name], 0))
	}
	return block
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
