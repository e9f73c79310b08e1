package payload

import (
	"strings"
	"testing"

	"yamen/internal/command"
	"yamen/internal/save"
)

var testClock = save.GameTime{Year: 12, Month: 3, Day: 15, Hour: 9}

func TestValidateRank(t *testing.T) {
	t.Run("valid rank", func(t *testing.T) {
		result := ValidateRank(map[string]any{"name": "县丞", "stage": 2, "progress": 40, "nextThreshold": 100})
		if !result.Valid {
			t.Fatalf("expected valid, got %v", result.Errors)
		}
		rank := result.Value.(save.RankProgress)
		if rank.Name != "县丞" || rank.Stage != 2 {
			t.Fatalf("unexpected rank %+v", rank)
		}
	})

	t.Run("chinese name alias", func(t *testing.T) {
		result := ValidateRank(map[string]any{"称号": "主簿"})
		if !result.Valid {
			t.Fatalf("expected valid, got %v", result.Errors)
		}
		if result.Value.(save.RankProgress).Name != "主簿" {
			t.Fatalf("alias not applied: %+v", result.Value)
		}
	})

	t.Run("missing name rejected", func(t *testing.T) {
		result := ValidateRank(map[string]any{"stage": 1})
		if result.Valid {
			t.Fatalf("expected rejection")
		}
	})

	t.Run("numeric strings coerced", func(t *testing.T) {
		result := ValidateRank(map[string]any{"name": "典史", "stage": "3", "progress": "55.5"})
		if !result.Valid {
			t.Fatalf("expected valid, got %v", result.Errors)
		}
		rank := result.Value.(save.RankProgress)
		if rank.Stage != 3 || rank.Progress != 55.5 {
			t.Fatalf("coercion failed: %+v", rank)
		}
	})

	t.Run("negative stage rejected", func(t *testing.T) {
		result := ValidateRank(map[string]any{"name": "典史", "stage": -1})
		if result.Valid {
			t.Fatalf("expected rejection")
		}
	})
}

func TestValidateLocation(t *testing.T) {
	t.Run("valid location", func(t *testing.T) {
		result := ValidateLocation(map[string]any{"description": "城南茶肆", "x": 3, "y": 7})
		if !result.Valid {
			t.Fatalf("expected valid, got %v", result.Errors)
		}
	})

	t.Run("chinese description alias", func(t *testing.T) {
		result := ValidateLocation(map[string]any{"描述": "西市牌楼下", "x": 1, "y": 2})
		if !result.Valid {
			t.Fatalf("expected valid, got %v", result.Errors)
		}
		if result.Value.(save.Location).Description != "西市牌楼下" {
			t.Fatalf("alias not applied: %+v", result.Value)
		}
	})

	t.Run("missing coordinates rejected", func(t *testing.T) {
		result := ValidateLocation(map[string]any{"description": "后衙"})
		if result.Valid {
			t.Fatalf("expected rejection")
		}
		if len(result.Errors) != 2 {
			t.Fatalf("expected both x and y reported, got %v", result.Errors)
		}
	})

	t.Run("coordinate strings coerced", func(t *testing.T) {
		result := ValidateLocation(map[string]any{"description": "渡口", "x": "12", "y": "-4"})
		if !result.Valid {
			t.Fatalf("expected valid, got %v", result.Errors)
		}
		loc := result.Value.(save.Location)
		if loc.X != 12 || loc.Y != -4 {
			t.Fatalf("coercion failed: %+v", loc)
		}
	})
}

func TestValidateEffect(t *testing.T) {
	t.Run("valid effect", func(t *testing.T) {
		result := ValidateEffect(map[string]any{
			"name": "醉酒", "type": "debuff", "duration": 3,
			"modifiers": map[string]any{"eloquence": -2, "luck": "1"},
		})
		if !result.Valid {
			t.Fatalf("expected valid, got %v", result.Errors)
		}
		effect := result.Value.(save.StatusEffect)
		if effect.Modifiers["eloquence"] != -2 || effect.Modifiers["luck"] != 1 {
			t.Fatalf("modifiers not coerced: %+v", effect.Modifiers)
		}
	})

	t.Run("unknown type rejected", func(t *testing.T) {
		result := ValidateEffect(map[string]any{"name": "中毒", "type": "curse", "duration": 1})
		if result.Valid {
			t.Fatalf("expected rejection")
		}
	})

	t.Run("missing duration rejected", func(t *testing.T) {
		result := ValidateEffect(map[string]any{"name": "振奋", "type": "buff"})
		if result.Valid {
			t.Fatalf("expected rejection")
		}
	})

	t.Run("uncoercible modifiers dropped", func(t *testing.T) {
		result := ValidateEffect(map[string]any{
			"name": "寒症", "type": "debuff", "duration": 2,
			"modifiers": map[string]any{"constitution": -1, "note": "留意保暖"},
		})
		if !result.Valid {
			t.Fatalf("expected valid, got %v", result.Errors)
		}
		effect := result.Value.(save.StatusEffect)
		if _, ok := effect.Modifiers["note"]; ok {
			t.Fatalf("expected uncoercible modifier to be dropped")
		}
	})
}

func TestValidateItem(t *testing.T) {
	t.Run("valid item with defaults", func(t *testing.T) {
		result := ValidateItem(map[string]any{"name": "青布", "type": "material"})
		if !result.Valid {
			t.Fatalf("expected valid, got %v", result.Errors)
		}
		item := result.Value.(save.Item)
		if item.Quantity != 1 {
			t.Fatalf("expected default quantity 1, got %d", item.Quantity)
		}
		if item.Quality.Grade != 1 {
			t.Fatalf("expected default grade 1, got %d", item.Quality.Grade)
		}
	})

	t.Run("chinese type alias", func(t *testing.T) {
		result := ValidateItem(map[string]any{"名称": "铁剑", "类型": "装备"})
		if !result.Valid {
			t.Fatalf("expected valid, got %v", result.Errors)
		}
		if result.Value.(save.Item).Type != save.ItemEquipment {
			t.Fatalf("alias not applied: %+v", result.Value)
		}
	})

	t.Run("unknown type rejected", func(t *testing.T) {
		result := ValidateItem(map[string]any{"name": "铁剑", "type": "weapon"})
		if result.Valid {
			t.Fatalf("expected rejection")
		}
	})

	t.Run("grade clamped", func(t *testing.T) {
		result := ValidateItem(map[string]any{
			"name": "玉佩", "type": "other",
			"quality": map[string]any{"tier": "fine", "grade": 99},
		})
		if !result.Valid {
			t.Fatalf("expected valid, got %v", result.Errors)
		}
		if result.Value.(save.Item).Quality.Grade != 10 {
			t.Fatalf("expected grade clamped to 10, got %+v", result.Value)
		}
	})

	t.Run("policy item requires skills", func(t *testing.T) {
		result := ValidateItem(map[string]any{"name": "劝农令", "type": "policy"})
		if result.Valid {
			t.Fatalf("expected rejection")
		}
		if !hasError(result.Errors, "non-empty skills list") {
			t.Fatalf("expected skills error, got %v", result.Errors)
		}
	})

	t.Run("policy first skill must start at threshold 0", func(t *testing.T) {
		result := ValidateItem(map[string]any{
			"name": "劝农令", "type": "policy",
			"skills": []any{
				map[string]any{"name": "劝课农桑", "description": "督促春耕", "threshold": 10},
			},
		})
		if result.Valid {
			t.Fatalf("expected rejection")
		}
		if !hasError(result.Errors, "threshold 0") {
			t.Fatalf("expected threshold error, got %v", result.Errors)
		}
	})

	t.Run("valid policy item", func(t *testing.T) {
		result := ValidateItem(map[string]any{
			"name": "劝农令", "type": "policy",
			"skills": []any{
				map[string]any{"name": "劝课农桑", "description": "督促春耕", "threshold": 0},
				map[string]any{"name": "开渠引水", "description": "兴修水利", "threshold": 50},
			},
		})
		if !result.Valid {
			t.Fatalf("expected valid, got %v", result.Errors)
		}
		if len(result.Value.(save.Item).Skills) != 2 {
			t.Fatalf("expected 2 skills, got %+v", result.Value)
		}
	})
}

func TestValidateNpc(t *testing.T) {
	creation := func() map[string]any {
		return map[string]any{
			"name":      "李师爷",
			"gender":    "男",
			"birthDate": map[string]any{"year": 5, "month": 8, "day": 20},
			"rank":      map[string]any{"name": "师爷"},
		}
	}

	t.Run("full creation accepted", func(t *testing.T) {
		result := ValidateNpc(creation(), testClock)
		if !result.Valid {
			t.Fatalf("expected valid, got %v", result.Errors)
		}
		npc := result.Value.(save.NpcProfile)
		if npc.Name != "李师爷" || npc.Rank.Name != "师爷" {
			t.Fatalf("unexpected npc %+v", npc)
		}
		if npc.Relationship != "陌生人" {
			t.Fatalf("expected default relationship, got %q", npc.Relationship)
		}
	})

	t.Run("creation missing gender falls back to patch", func(t *testing.T) {
		obj := creation()
		delete(obj, "gender")
		result := ValidateNpc(obj, testClock)
		if !result.Valid {
			t.Fatalf("expected patch passthrough, got %v", result.Errors)
		}
		if _, ok := result.Value.(map[string]any); !ok {
			t.Fatalf("expected patch map, got %T", result.Value)
		}
	})

	t.Run("identity fields alone are a patch", func(t *testing.T) {
		// name+gender+birthDate without appearance/personality/rank stays a
		// patch; the creation bar needs one more identity marker.
		obj := creation()
		delete(obj, "rank")
		result := ValidateNpc(obj, testClock)
		if _, ok := result.Value.(map[string]any); !ok {
			t.Fatalf("expected patch map, got %T", result.Value)
		}
	})

	t.Run("chinese creation keys", func(t *testing.T) {
		result := ValidateNpc(map[string]any{
			"姓名":   "赵捕头",
			"性别":   "男",
			"出生日期": map[string]any{"year": 3},
			"性格":   "耿直，重义",
		}, testClock)
		if !result.Valid {
			t.Fatalf("expected valid, got %v", result.Errors)
		}
		npc := result.Value.(save.NpcProfile)
		if len(npc.Personality) != 2 {
			t.Fatalf("expected split personality list, got %v", npc.Personality)
		}
	})

	t.Run("birth date gaps filled from clock", func(t *testing.T) {
		obj := creation()
		obj["birthDate"] = map[string]any{"year": 2}
		result := ValidateNpc(obj, testClock)
		if !result.Valid {
			t.Fatalf("expected valid, got %v", result.Errors)
		}
		birth := result.Value.(save.NpcProfile).BirthDate
		if birth.Year != 2 || birth.Month != testClock.Month || birth.Day != testClock.Day {
			t.Fatalf("gaps not filled from clock: %+v", birth)
		}
	})

	t.Run("out-of-range birth date rejected", func(t *testing.T) {
		obj := creation()
		obj["birthDate"] = map[string]any{"year": 5, "month": 13}
		result := ValidateNpc(obj, testClock)
		if result.Valid {
			t.Fatalf("expected rejection")
		}
	})

	t.Run("patch coerces formatting drift", func(t *testing.T) {
		result := ValidateNpc(map[string]any{"好感度": "75", "性格": "温和、健谈"}, testClock)
		if !result.Valid {
			t.Fatalf("expected valid, got %v", result.Errors)
		}
		patch := result.Value.(map[string]any)
		if patch["affinity"] != float64(75) {
			t.Fatalf("affinity not coerced: %v", patch["affinity"])
		}
		if list, ok := patch["personality"].([]string); !ok || len(list) != 2 {
			t.Fatalf("personality not split: %v", patch["personality"])
		}
	})
}

func TestRepairSkillNode(t *testing.T) {
	t.Run("nil payload with hint gets defaults", func(t *testing.T) {
		result := RepairSkillNode(nil, "骑射")
		if !result.Valid {
			t.Fatalf("expected valid, got %v", result.Errors)
		}
		node := result.Value.(save.SkillNode)
		if node.Name != "骑射" {
			t.Fatalf("expected hint name, got %q", node.Name)
		}
		if len(node.Stages) == 0 {
			t.Fatalf("expected default stages")
		}
	})

	t.Run("stage clamped to stages length", func(t *testing.T) {
		result := RepairSkillNode(map[string]any{
			"name": "算学", "stages": []any{"入门", "小成"}, "stage": 9,
		}, "")
		if !result.Valid {
			t.Fatalf("expected valid, got %v", result.Errors)
		}
		if result.Value.(save.SkillNode).Stage != 1 {
			t.Fatalf("expected clamp to 1, got %+v", result.Value)
		}
	})

	t.Run("negative experience floored", func(t *testing.T) {
		result := RepairSkillNode(map[string]any{"name": "算学", "experience": -5}, "")
		if result.Value.(save.SkillNode).Experience != 0 {
			t.Fatalf("expected floor at 0, got %+v", result.Value)
		}
	})

	t.Run("non-object without hint rejected", func(t *testing.T) {
		result := RepairSkillNode("骑射", "")
		if result.Valid {
			t.Fatalf("expected rejection")
		}
	})
}

func TestValidateAndRepair(t *testing.T) {
	t.Run("dispatches by kind", func(t *testing.T) {
		result := ValidateAndRepair(command.KindLocation, map[string]any{"description": "码头", "x": 0, "y": 0}, testClock)
		if !result.Valid {
			t.Fatalf("expected valid, got %v", result.Errors)
		}
	})

	t.Run("time payload range-checked", func(t *testing.T) {
		result := ValidateAndRepair(command.KindTime, map[string]any{"year": 3, "month": 13}, testClock)
		if result.Valid {
			t.Fatalf("expected rejection")
		}
	})

	t.Run("unknown kind passes through", func(t *testing.T) {
		result := ValidateAndRepair(command.KindAny, "raw", testClock)
		if !result.Valid || result.Value != "raw" {
			t.Fatalf("expected passthrough, got %+v", result)
		}
	})
}

func hasError(list []string, sub string) bool {
	for _, s := range list {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
