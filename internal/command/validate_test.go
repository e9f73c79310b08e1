package command

import (
	"strings"
	"testing"
)

func cmd(action, key string, value any) map[string]any {
	m := map[string]any{"action": action, "key": key}
	if value != nil {
		m["value"] = value
	}
	return m
}

func TestValidateBatch(t *testing.T) {
	p := NewPolicy(Overrides{})

	t.Run("valid batch passes", func(t *testing.T) {
		result := p.ValidateBatch([]any{
			cmd("set", "character.attributes.reputation", 50),
			cmd("add", "character.attributes.health.current", -10),
			cmd("set", "world.info.name", "青云县"),
		})
		if !result.Valid {
			t.Fatalf("expected valid batch, got errors %v", result.Errors)
		}
		if len(result.Commands) != 3 {
			t.Fatalf("expected 3 accepted commands, got %d", len(result.Commands))
		}
	})

	t.Run("missing action", func(t *testing.T) {
		result := p.ValidateBatch([]any{map[string]any{"key": "world.info.name", "value": "x"}})
		if result.Valid {
			t.Fatalf("expected invalid batch")
		}
		if !containsSubstring(result.Errors, "missing action") {
			t.Fatalf("expected missing action error, got %v", result.Errors)
		}
	})

	t.Run("unknown action", func(t *testing.T) {
		result := p.ValidateBatch([]any{cmd("replace", "world.info.name", "x")})
		if !containsSubstring(result.Errors, `unknown action "replace"`) {
			t.Fatalf("expected unknown action error, got %v", result.Errors)
		}
	})

	t.Run("missing key", func(t *testing.T) {
		result := p.ValidateBatch([]any{map[string]any{"action": "set", "value": 1}})
		if !containsSubstring(result.Errors, "missing key") {
			t.Fatalf("expected missing key error, got %v", result.Errors)
		}
	})

	t.Run("unknown root", func(t *testing.T) {
		result := p.ValidateBatch([]any{cmd("set", "cosmos.info.name", "x")})
		if !containsSubstring(result.Errors, "not rooted at a known domain") {
			t.Fatalf("expected root error, got %v", result.Errors)
		}
	})

	t.Run("missing value for set", func(t *testing.T) {
		result := p.ValidateBatch([]any{cmd("set", "world.info.name", nil)})
		if !containsSubstring(result.Errors, "missing value") {
			t.Fatalf("expected missing value error, got %v", result.Errors)
		}
	})

	t.Run("delete needs no value", func(t *testing.T) {
		result := p.ValidateBatch([]any{cmd("delete", "character.inventory.items.sword", nil)})
		if !result.Valid {
			t.Fatalf("expected valid, got %v", result.Errors)
		}
	})

	t.Run("non-object entry", func(t *testing.T) {
		result := p.ValidateBatch([]any{"set world.info.name"})
		if result.Valid {
			t.Fatalf("expected invalid batch")
		}
		if !containsSubstring(result.Errors, "not an object") {
			t.Fatalf("expected not-an-object error, got %v", result.Errors)
		}
	})

	t.Run("unknown envelope field warns but passes", func(t *testing.T) {
		entry := cmd("set", "world.info.name", "x")
		entry["reason"] = "narration"
		result := p.ValidateBatch([]any{entry})
		if !result.Valid {
			t.Fatalf("expected valid, got %v", result.Errors)
		}
		if !containsSubstring(result.Warnings, `unknown envelope field "reason"`) {
			t.Fatalf("expected envelope warning, got %v", result.Warnings)
		}
	})

	t.Run("one bad command does not abort the rest", func(t *testing.T) {
		result := p.ValidateBatch([]any{
			cmd("set", "world.info.name", "x"),
			cmd("set", "social.memory.shortTerm", []any{}),
			cmd("set", "world.info.era", "景和三年"),
		})
		if result.Valid {
			t.Fatalf("expected invalid batch")
		}
		if len(result.Commands) != 2 {
			t.Fatalf("expected 2 accepted commands, got %d", len(result.Commands))
		}
		if len(result.Invalid) != 1 || result.Invalid[0] != 1 {
			t.Fatalf("expected invalid index [1], got %v", result.Invalid)
		}
		if len(result.InvalidCommands) != 1 {
			t.Fatalf("expected 1 excluded entry, got %d", len(result.InvalidCommands))
		}
	})

	t.Run("broken envelope still reports policy violations", func(t *testing.T) {
		// No value AND a protected root: both errors must surface at once.
		result := p.ValidateBatch([]any{cmd("set", "character.attributes", nil)})
		if !containsSubstring(result.Errors, "missing value") {
			t.Fatalf("expected missing value error, got %v", result.Errors)
		}
		if !containsSubstring(result.Errors, "protected root") {
			t.Fatalf("expected protected root error, got %v", result.Errors)
		}
	})
}

func TestForbiddenPaths(t *testing.T) {
	p := NewPolicy(Overrides{})

	t.Run("exact match", func(t *testing.T) {
		result := p.ValidateBatch([]any{cmd("set", "social.memory", map[string]any{})})
		if !containsSubstring(result.Errors, "forbidden path") {
			t.Fatalf("expected forbidden error, got %v", result.Errors)
		}
	})

	t.Run("descendant match", func(t *testing.T) {
		result := p.ValidateBatch([]any{cmd("push", "social.memory.shortTerm", "an evening walk")})
		if !containsSubstring(result.Errors, "forbidden path") {
			t.Fatalf("expected forbidden error, got %v", result.Errors)
		}
	})

	t.Run("sibling with shared prefix is allowed", func(t *testing.T) {
		// "social.memoryX" shares a string prefix with "social.memory" but
		// is not a dot-descendant of it.
		result := p.ValidateBatch([]any{cmd("set", "social.memoryNotes", "x")})
		for _, msg := range result.Errors {
			if strings.Contains(msg, "forbidden") {
				t.Fatalf("unexpected forbidden error: %v", result.Errors)
			}
		}
	})

	t.Run("forbidden applies to every action", func(t *testing.T) {
		for _, action := range []string{"set", "add", "push", "delete", "pull"} {
			entry := cmd(action, "character.identity.name", "改名")
			result := p.ValidateBatch([]any{entry})
			if !containsSubstring(result.Errors, "forbidden path") {
				t.Fatalf("action %s: expected forbidden error, got %v", action, result.Errors)
			}
		}
	})

	t.Run("override extends the built-ins", func(t *testing.T) {
		custom := NewPolicy(Overrides{ForbiddenPaths: []string{"world.state.secret"}})
		result := custom.ValidateBatch([]any{cmd("set", "world.state.secret.plot", "x")})
		if !containsSubstring(result.Errors, "forbidden path") {
			t.Fatalf("expected forbidden error, got %v", result.Errors)
		}
	})
}

func TestProtectedRoots(t *testing.T) {
	p := NewPolicy(Overrides{})

	t.Run("set on exact root rejected", func(t *testing.T) {
		result := p.ValidateBatch([]any{cmd("set", "character.attributes", map[string]any{})})
		if !containsSubstring(result.Errors, "protected root") {
			t.Fatalf("expected protected error, got %v", result.Errors)
		}
	})

	t.Run("delete on exact root rejected", func(t *testing.T) {
		result := p.ValidateBatch([]any{cmd("delete", "social.relationships", nil)})
		if !containsSubstring(result.Errors, "protected root") {
			t.Fatalf("expected protected error, got %v", result.Errors)
		}
	})

	t.Run("sub-field mutation stays legal", func(t *testing.T) {
		result := p.ValidateBatch([]any{cmd("set", "character.attributes.reputation", 10)})
		if !result.Valid {
			t.Fatalf("expected valid, got %v", result.Errors)
		}
	})

	t.Run("non-destructive actions stay legal", func(t *testing.T) {
		result := p.ValidateBatch([]any{cmd("push", "system.history", "上任第一天")})
		if !result.Valid {
			t.Fatalf("expected valid, got %v", result.Errors)
		}
	})
}

func TestCheckValueType(t *testing.T) {
	p := NewPolicy(Overrides{})

	t.Run("add requires numeric value", func(t *testing.T) {
		result := p.ValidateBatch([]any{cmd("add", "character.attributes.reputation", "ten")})
		if !containsSubstring(result.Errors, "requires a numeric value") {
			t.Fatalf("expected numeric error, got %v", result.Errors)
		}
	})

	t.Run("add rejected on non-numeric path", func(t *testing.T) {
		result := p.ValidateBatch([]any{cmd("add", "world.info.name", 1)})
		if !containsSubstring(result.Errors, "add is not allowed") {
			t.Fatalf("expected add-not-allowed error, got %v", result.Errors)
		}
	})

	t.Run("numeric strings pass add", func(t *testing.T) {
		result := p.ValidateBatch([]any{cmd("add", "character.attributes.reputation", "15")})
		if !result.Valid {
			t.Fatalf("expected valid, got %v", result.Errors)
		}
	})

	t.Run("set string path rejects objects", func(t *testing.T) {
		result := p.ValidateBatch([]any{cmd("set", "world.info.name", map[string]any{"x": 1})})
		if !containsSubstring(result.Errors, "requires a string") {
			t.Fatalf("expected string error, got %v", result.Errors)
		}
	})

	t.Run("set structured path rejects scalars", func(t *testing.T) {
		result := p.ValidateBatch([]any{cmd("set", "character.location", "街市")})
		if !containsSubstring(result.Errors, "requires a location object") {
			t.Fatalf("expected location error, got %v", result.Errors)
		}
	})

	t.Run("push structured element rejects scalars", func(t *testing.T) {
		result := p.ValidateBatch([]any{cmd("push", "character.effects", "醉酒")})
		if !containsSubstring(result.Errors, "requires a status effect object") {
			t.Fatalf("expected effect error, got %v", result.Errors)
		}
	})

	t.Run("unknown path accepts anything", func(t *testing.T) {
		result := p.ValidateBatch([]any{cmd("set", "world.state.weather", "小雨")})
		if !result.Valid {
			t.Fatalf("expected valid, got %v", result.Errors)
		}
	})
}

func TestClean(t *testing.T) {
	t.Run("strips unknown fields", func(t *testing.T) {
		cleaned, warnings := Clean([]any{
			map[string]any{"action": "set", "key": "world.info.name", "value": "x", "note": "hi"},
		})
		if len(cleaned) != 1 {
			t.Fatalf("expected 1 command, got %d", len(cleaned))
		}
		if !containsSubstring(warnings, `stripped unknown envelope field "note"`) {
			t.Fatalf("expected strip warning, got %v", warnings)
		}
	})

	t.Run("drops non-objects", func(t *testing.T) {
		cleaned, warnings := Clean([]any{42})
		if len(cleaned) != 0 {
			t.Fatalf("expected no commands, got %d", len(cleaned))
		}
		if !containsSubstring(warnings, "not an object") {
			t.Fatalf("expected drop warning, got %v", warnings)
		}
	})
}

func containsSubstring(list []string, sub string) bool {
	for _, s := range list {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
