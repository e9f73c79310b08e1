// Package repair normalizes a save document after commands are applied and
// on every load. It fills missing containers, prunes invalid items, clears
// dangling equipment references, and normalizes the currency containers.
// Repair mutates its input in place and is idempotent.
package repair

import "yamen/internal/save"

// Document repairs a save document in place and returns it.
func Document(doc *save.Document) *save.Document {
	if doc == nil {
		return nil
	}

	repairCharacter(&doc.Character)
	repairSocial(&doc.Social)
	repairWorld(&doc.World)
	repairSystem(&doc.System)

	return doc
}

func repairCharacter(c *save.Character) {
	if c.Effects == nil {
		c.Effects = []save.StatusEffect{}
	}
	// Effects without a name carry no game meaning; drop them.
	kept := c.Effects[:0]
	for _, effect := range c.Effects {
		if effect.Name == "" {
			continue
		}
		if effect.Type == "" {
			effect.Type = save.EffectNeutral
		}
		kept = append(kept, effect)
	}
	c.Effects = kept

	repairInventory(&c.Inventory)

	if c.Skills.Nodes == nil {
		c.Skills.Nodes = map[string]save.SkillNode{}
	}
	if c.Skills.Mastered == nil {
		c.Skills.Mastered = []string{}
	}

	// Clear equipment slots whose item id no longer resolves. The shape
	// validator reports these as warnings; repair is what recovers them.
	for _, slot := range save.SlotNames {
		itemID, equipped := c.Equipment.Get(slot)
		if !equipped {
			continue
		}
		if _, exists := c.Inventory.Items[itemID]; !exists {
			c.Equipment.Clear(slot)
		}
	}

	clampPool(&c.Attributes.Health)
	clampPool(&c.Attributes.Energy)
}

func repairInventory(inv *save.Inventory) {
	if inv.Items == nil {
		inv.Items = map[string]save.Item{}
	}

	for id, item := range inv.Items {
		// A nameless item is unrecoverable; there is nothing to show the
		// player and no way to reference it in narration.
		if item.Name == "" {
			delete(inv.Items, id)
			continue
		}
		changed := false
		if item.ID == "" {
			item.ID = id
			changed = true
		}
		if item.Quantity < 0 {
			item.Quantity = 0
			changed = true
		}
		if item.Quality.Grade < 0 {
			item.Quality.Grade = 0
			changed = true
		}
		if item.Quality.Grade > 10 {
			item.Quality.Grade = 10
			changed = true
		}
		if item.Quality.Tier == "" {
			item.Quality.Tier = save.QualityTiers[1]
			changed = true
		}
		if changed {
			inv.Items[id] = item
		}
	}

	NormalizeCurrencies(inv)
}

func repairSocial(s *save.Social) {
	if s.Relationships == nil {
		s.Relationships = map[string]save.NpcProfile{}
	}
	for name, npc := range s.Relationships {
		if npc.Name == "" {
			npc.Name = name
			s.Relationships[name] = npc
		}
	}
	if s.Events.Records == nil {
		s.Events.Records = []save.EventRecord{}
	}
	if s.Memory.Short == nil {
		s.Memory.Short = []string{}
	}
	if s.Memory.Medium == nil {
		s.Memory.Medium = []string{}
	}
	if s.Memory.Long == nil {
		s.Memory.Long = []string{}
	}
	if s.Memory.Implicit == nil {
		s.Memory.Implicit = []string{}
	}
}

func repairWorld(w *save.World) {
	if w.State == nil {
		w.State = map[string]any{}
	}
}

func repairSystem(s *save.System) {
	if s.Config.Rules == nil {
		s.Config.Rules = map[string]any{}
	}
	if s.Config.Features == nil {
		s.Config.Features = map[string]bool{}
	}
	if s.Caches == nil {
		s.Caches = map[string]any{}
	}
	if s.History == nil {
		s.History = []string{}
	}
}

func clampPool(p *save.Pool) {
	if p.Max < 0 {
		p.Max = 0
	}
	if p.Current < 0 {
		p.Current = 0
	}
	if p.Max > 0 && p.Current > p.Max {
		p.Current = p.Max
	}
}
