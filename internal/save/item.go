package save

// Item types.
const (
	ItemEquipment = "equipment"
	ItemProduct   = "product"
	ItemMaterial  = "material"
	ItemPolicy    = "policy"
	ItemOther     = "other"
)

// ItemTypes lists the valid item type values.
var ItemTypes = []string{ItemEquipment, ItemProduct, ItemMaterial, ItemPolicy, ItemOther}

// QualityTiers is the 7-level quality ladder, lowest first.
var QualityTiers = []string{
	"crude", "common", "fine", "superior", "exquisite", "treasured", "imperial",
}

// Quality is an item's tier plus a 0-10 grade. Grade 0 is a degenerate
// "broken" state regardless of tier.
type Quality struct {
	Tier  string `json:"tier"`
	Grade int    `json:"grade"`
}

// Broken reports whether the item is in the degenerate grade-0 state.
func (q Quality) Broken() bool { return q.Grade == 0 }

// Item is one inventory entry, keyed by its id in the inventory item map.
type Item struct {
	ID             string             `json:"id"`
	Name           string             `json:"name"`
	Type           string             `json:"type"`
	Quality        Quality            `json:"quality"`
	Quantity       int                `json:"quantity"`
	Description    string             `json:"description,omitempty"`
	EquipmentBonus map[string]float64 `json:"equipmentBonus,omitempty"`

	// Skills is required for policy items: the sub-skills the policy grants,
	// ordered by proficiency threshold. The first entry must have threshold 0.
	Skills []PolicySkill `json:"skills,omitempty"`
}

// PolicySkill is one sub-skill of a policy item.
type PolicySkill struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Threshold   float64 `json:"threshold"`
}

// Inventory is the item map plus the currency containers. The wallet is the
// canonical balance store; the legacy four-tier structure is a derived view
// regenerated from it.
type Inventory struct {
	Items            map[string]Item  `json:"items"`
	Wallet           Wallet           `json:"wallet"`
	CurrencySettings CurrencySettings `json:"currencySettings"`

	// LegacyCurrency is the pre-wallet single-currency structure. Kept in
	// sync so old callers keep working; never written to directly.
	LegacyCurrency *LegacyTiers `json:"灵石,omitempty"`
}

// Equipment slot names.
const (
	SlotHat       = "hat"
	SlotRobe      = "robe"
	SlotBoots     = "boots"
	SlotSeal      = "seal"
	SlotWeapon    = "weapon"
	SlotAccessory = "accessory"
)

// SlotNames lists the six fixed equipment slots.
var SlotNames = []string{SlotHat, SlotRobe, SlotBoots, SlotSeal, SlotWeapon, SlotAccessory}

// Equipment is the six fixed slots, each nil or an item id.
type Equipment struct {
	Hat       *string `json:"hat"`
	Robe      *string `json:"robe"`
	Boots     *string `json:"boots"`
	Seal      *string `json:"seal"`
	Weapon    *string `json:"weapon"`
	Accessory *string `json:"accessory"`
}

// Get returns the item id equipped in the named slot, if any.
func (e *Equipment) Get(slot string) (string, bool) {
	p := e.slot(slot)
	if p == nil || *p == nil {
		return "", false
	}
	return **p, true
}

// Set equips an item id into the named slot. Unknown slots are ignored.
func (e *Equipment) Set(slot, itemID string) {
	if p := e.slot(slot); p != nil {
		id := itemID
		*p = &id
	}
}

// Clear empties the named slot.
func (e *Equipment) Clear(slot string) {
	if p := e.slot(slot); p != nil {
		*p = nil
	}
}

func (e *Equipment) slot(name string) **string {
	switch name {
	case SlotHat:
		return &e.Hat
	case SlotRobe:
		return &e.Robe
	case SlotBoots:
		return &e.Boots
	case SlotSeal:
		return &e.Seal
	case SlotWeapon:
		return &e.Weapon
	case SlotAccessory:
		return &e.Accessory
	}
	return nil
}
