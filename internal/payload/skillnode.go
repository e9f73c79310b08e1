package payload

import "yamen/internal/save"

// RepairSkillNode fills a skill-node payload best-effort. This is the one
// repairable kind: a node missing stages, unlock state, or experience can be
// machine-completed without losing game meaning, so nothing is rejected
// unless the payload is not even an object. nameHint supplies a name when
// the payload omits one, typically the node's key in the skill tree.
func RepairSkillNode(value any, nameHint string) Result {
	obj, ok := save.AsObject(value)
	if !ok {
		if value == nil && nameHint != "" {
			return valid(save.DefaultSkillNode(nameHint))
		}
		return invalid("skill node must be an object")
	}

	nameRaw, _ := save.Field(obj, "name", "名称")
	name := save.StringOr(nameRaw, nameHint)
	node := save.DefaultSkillNode(name)

	if stages, ok := save.AsStringList(obj["stages"]); ok && len(stages) > 0 {
		node.Stages = stages
	}
	node.Stage = save.IntOr(obj["stage"], 0)
	if node.Stage < 0 {
		node.Stage = 0
	}
	if node.Stage >= len(node.Stages) {
		node.Stage = len(node.Stages) - 1
	}
	node.Unlocked = save.BoolOr(obj["unlocked"], true)
	node.Experience = save.NumberOr(obj["experience"], 0)
	if node.Experience < 0 {
		node.Experience = 0
	}
	node.MaxExperience = save.NumberOr(obj["maxExperience"], 0)
	if node.MaxExperience < 0 {
		node.MaxExperience = 0
	}

	return valid(node)
}
