// Package effects keeps equipment-driven attribute bonuses consistent with
// the six equipment slots. Bonuses are folded into the character's acquired
// attribute block; the applied deltas are recorded so they can be reverted
// exactly when equipment changes.
package effects

import (
	"errors"
	"fmt"

	"yamen/internal/save"
)

var (
	// ErrUnknownSlot indicates an equip/unequip on a slot outside the six.
	ErrUnknownSlot = errors.New("unknown equipment slot")
	// ErrItemNotFound indicates the item id is not in the inventory.
	ErrItemNotFound = errors.New("item not found in inventory")
	// ErrNotEquipment indicates the item cannot be equipped.
	ErrNotEquipment = errors.New("item is not equipment")
)

// Recompute clears the recorded equipment bonuses and re-applies them from
// the current slot contents. Broken items (grade 0) grant nothing. The
// document should be repaired first so no slot dangles. Recompute is
// idempotent.
func Recompute(c *save.Character) {
	// Revert whatever was applied before.
	for attr, delta := range c.AppliedBonuses {
		c.Identity.Acquired.Add(attr, -delta)
	}
	c.AppliedBonuses = nil

	applied := map[string]int{}
	for _, slot := range save.SlotNames {
		itemID, equipped := c.Equipment.Get(slot)
		if !equipped {
			continue
		}
		item, exists := c.Inventory.Items[itemID]
		if !exists || item.Quality.Broken() {
			continue
		}
		for attr, bonus := range item.EquipmentBonus {
			applied[attr] += int(bonus)
		}
	}

	for attr, delta := range applied {
		c.Identity.Acquired.Add(attr, delta)
	}
	if len(applied) > 0 {
		c.AppliedBonuses = applied
	}
}

// Equip places an inventory item into a slot and recomputes bonuses.
func Equip(c *save.Character, slot, itemID string) error {
	if !validSlot(slot) {
		return fmt.Errorf("%w: %s", ErrUnknownSlot, slot)
	}
	item, exists := c.Inventory.Items[itemID]
	if !exists {
		return fmt.Errorf("%w: %s", ErrItemNotFound, itemID)
	}
	if item.Type != save.ItemEquipment {
		return fmt.Errorf("%w: %s is %s", ErrNotEquipment, itemID, item.Type)
	}
	c.Equipment.Set(slot, itemID)
	Recompute(c)
	return nil
}

// Unequip empties a slot and recomputes bonuses.
func Unequip(c *save.Character, slot string) error {
	if !validSlot(slot) {
		return fmt.Errorf("%w: %s", ErrUnknownSlot, slot)
	}
	c.Equipment.Clear(slot)
	Recompute(c)
	return nil
}

func validSlot(slot string) bool {
	for _, s := range save.SlotNames {
		if s == slot {
			return true
		}
	}
	return false
}
