package apply

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/tidwall/gjson"

	"yamen/internal/command"
	"yamen/internal/save"
)

func testDoc(t *testing.T) []byte {
	t.Helper()
	doc := save.New("张知县")
	doc.Metadata.Clock = save.GameTime{Year: 12, Month: 3, Day: 15, Hour: 9}
	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return data
}

func testOpts() Options {
	return Options{
		Policy: command.NewPolicy(command.Overrides{}),
		Clock:  save.GameTime{Year: 12, Month: 3, Day: 15, Hour: 9},
	}
}

func cmd(action, key string, value any) map[string]any {
	m := map[string]any{"action": action, "key": key}
	if value != nil {
		m["value"] = value
	}
	return m
}

func TestBatch(t *testing.T) {
	t.Run("set writes a scalar", func(t *testing.T) {
		result, err := Batch(testDoc(t), []any{
			cmd("set", "world.info.name", "青云县"),
		}, testOpts())
		if err != nil {
			t.Fatalf("batch: %v", err)
		}
		if result.Applied != 1 {
			t.Fatalf("expected 1 applied, got %d", result.Applied)
		}
		if got := gjson.GetBytes(result.Doc, "world.info.name").String(); got != "青云县" {
			t.Fatalf("expected 青云县, got %q", got)
		}
		if !result.Report.IsValid() {
			t.Fatalf("expected valid document, got %v", result.Report.Errors())
		}
	})

	t.Run("add accumulates", func(t *testing.T) {
		doc := testDoc(t)
		result, err := Batch(doc, []any{
			cmd("add", "character.attributes.reputation", 10),
			cmd("add", "character.attributes.reputation", -3),
		}, testOpts())
		if err != nil {
			t.Fatalf("batch: %v", err)
		}
		if got := gjson.GetBytes(result.Doc, "character.attributes.reputation").Float(); got != 7 {
			t.Fatalf("expected 7, got %g", got)
		}
	})

	t.Run("push appends", func(t *testing.T) {
		result, err := Batch(testDoc(t), []any{
			cmd("push", "system.history", "上任第一天"),
			cmd("push", "system.history", "巡视码头"),
		}, testOpts())
		if err != nil {
			t.Fatalf("batch: %v", err)
		}
		history := gjson.GetBytes(result.Doc, "system.history").Array()
		if len(history) != 2 || history[1].String() != "巡视码头" {
			t.Fatalf("unexpected history %v", history)
		}
	})

	t.Run("delete removes", func(t *testing.T) {
		doc := testDoc(t)
		result, err := Batch(doc, []any{
			cmd("set", "world.state.weather", "小雨"),
			cmd("delete", "world.state.weather", nil),
		}, testOpts())
		if err != nil {
			t.Fatalf("batch: %v", err)
		}
		if gjson.GetBytes(result.Doc, "world.state.weather").Exists() {
			t.Fatalf("expected weather removed")
		}
	})

	t.Run("pull removes matching scalars", func(t *testing.T) {
		result, err := Batch(testDoc(t), []any{
			cmd("push", "system.history", "a"),
			cmd("push", "system.history", "b"),
			cmd("pull", "system.history", "a"),
		}, testOpts())
		if err != nil {
			t.Fatalf("batch: %v", err)
		}
		history := gjson.GetBytes(result.Doc, "system.history").Array()
		if len(history) != 1 || history[0].String() != "b" {
			t.Fatalf("unexpected history %v", history)
		}
	})

	t.Run("pull removes objects by name", func(t *testing.T) {
		result, err := Batch(testDoc(t), []any{
			cmd("push", "character.effects", map[string]any{"name": "醉酒", "type": "debuff", "duration": 2}),
			cmd("pull", "character.effects", "醉酒"),
		}, testOpts())
		if err != nil {
			t.Fatalf("batch: %v", err)
		}
		if effects := gjson.GetBytes(result.Doc, "character.effects").Array(); len(effects) != 0 {
			t.Fatalf("expected empty effects, got %v", effects)
		}
	})

	t.Run("structured payload repaired before write", func(t *testing.T) {
		result, err := Batch(testDoc(t), []any{
			cmd("set", "character.inventory.items.silk", map[string]any{
				"name": "蜀锦", "type": "材料", "quantity": "3",
			}),
		}, testOpts())
		if err != nil {
			t.Fatalf("batch: %v", err)
		}
		item := gjson.GetBytes(result.Doc, "character.inventory.items.silk")
		if item.Get("type").String() != save.ItemMaterial {
			t.Fatalf("type alias not mapped: %s", item.Raw)
		}
		if item.Get("quantity").Int() != 3 {
			t.Fatalf("quantity not coerced: %s", item.Raw)
		}
		if item.Get("id").String() != "silk" {
			t.Fatalf("id not filled from path: %s", item.Raw)
		}
	})

	t.Run("skill node name comes from its key", func(t *testing.T) {
		result, err := Batch(testDoc(t), []any{
			cmd("set", "character.skills.nodes.archery", map[string]any{"stage": 1}),
		}, testOpts())
		if err != nil {
			t.Fatalf("batch: %v", err)
		}
		node := gjson.GetBytes(result.Doc, "character.skills.nodes.archery")
		if node.Get("name").String() != "archery" {
			t.Fatalf("expected key as name hint, got %s", node.Raw)
		}
	})

	t.Run("invalid payload is isolated", func(t *testing.T) {
		result, err := Batch(testDoc(t), []any{
			cmd("set", "character.location", map[string]any{"description": "城南"}),
			cmd("set", "world.info.era", "景和三年"),
		}, testOpts())
		if err != nil {
			t.Fatalf("batch: %v", err)
		}
		if result.Batch.Valid {
			t.Fatalf("expected invalid batch")
		}
		if result.Applied != 1 {
			t.Fatalf("expected 1 applied, got %d", result.Applied)
		}
		if got := gjson.GetBytes(result.Doc, "world.info.era").String(); got != "景和三年" {
			t.Fatalf("later command not applied: %q", got)
		}
		// Location untouched by the rejected payload.
		if got := gjson.GetBytes(result.Doc, "character.location.description").String(); got != "县衙" {
			t.Fatalf("rejected payload leaked into document: %q", got)
		}
	})

	t.Run("policy violations never reach the document", func(t *testing.T) {
		result, err := Batch(testDoc(t), []any{
			cmd("set", "social.memory.short", []any{"x"}),
		}, testOpts())
		if err != nil {
			t.Fatalf("batch: %v", err)
		}
		if result.Applied != 0 {
			t.Fatalf("expected nothing applied")
		}
		if !hasSubstring(result.Batch.Errors, "forbidden") {
			t.Fatalf("expected forbidden error, got %v", result.Batch.Errors)
		}
	})

	t.Run("final document is repaired and validated", func(t *testing.T) {
		result, err := Batch(testDoc(t), []any{
			cmd("push", "character.effects", map[string]any{"name": "振奋", "type": "buff", "duration": 3}),
		}, testOpts())
		if err != nil {
			t.Fatalf("batch: %v", err)
		}
		if !result.Report.IsValid() {
			t.Fatalf("expected valid report, got %v", result.Report.Errors())
		}
		// Repair regenerates the derived legacy currency view.
		if !gjson.GetBytes(result.Doc, "character.inventory.灵石").Exists() {
			t.Fatalf("expected legacy view regenerated")
		}
	})

	t.Run("nil policy is an error", func(t *testing.T) {
		if _, err := Batch(testDoc(t), nil, Options{}); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("invalid document is an error", func(t *testing.T) {
		if _, err := Batch([]byte("not json"), nil, testOpts()); err == nil {
			t.Fatalf("expected error")
		}
	})
}

func hasSubstring(list []string, sub string) bool {
	for _, s := range list {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
