package save

import (
	"time"

	"github.com/google/uuid"
)

// DefaultSkillStages are the progression stages a machine-completed skill
// node receives when the payload omits its own.
var DefaultSkillStages = []string{"初窥门径", "略有小成", "融会贯通", "炉火纯青"}

// New returns a freshly initialized current-version document.
func New(name string) *Document {
	now := time.Now().UTC().Format(time.RFC3339)
	doc := &Document{
		Metadata: Metadata{
			ID:        uuid.NewString(),
			Name:      name,
			Version:   CurrentVersion,
			CreatedAt: now,
			UpdatedAt: now,
			Clock:     GameTime{Year: 1, Month: 1, Day: 1, Hour: 8},
		},
		Character: Character{
			Identity: Identity{Name: name},
			Attributes: Attributes{
				Rank:   RankProgress{Name: "白身", Stage: 0, NextThreshold: 100},
				Health: Pool{Current: 100, Max: 100},
				Energy: Pool{Current: 100, Max: 100},
			},
			Location: Location{Description: "县衙", MapID: "county"},
			Effects:  []StatusEffect{},
			Inventory: Inventory{
				Items:  map[string]Item{},
				Wallet: Wallet{},
				CurrencySettings: CurrencySettings{
					Base: CurrencyCopper,
				},
			},
			Skills: SkillTree{
				Nodes:    map[string]SkillNode{},
				Mastered: []string{},
			},
		},
		Social: Social{
			Relationships: map[string]NpcProfile{},
			Events:        EventLog{Records: []EventRecord{}, Config: EventConfig{Enabled: true}},
		},
		World: World{
			State: map[string]any{},
		},
		System: System{
			Config: SystemConfig{
				Rules:    map[string]any{},
				Features: map[string]bool{},
				Online:   OnlineConfig{ConflictPolicy: "local-wins"},
			},
			Caches:  map[string]any{},
			History: []string{},
		},
	}
	for id, c := range DefaultCurrencies() {
		doc.Character.Inventory.Wallet[id] = c
	}
	return doc
}

// DefaultSkillNode fills a best-effort skill node for a payload that only
// names the skill.
func DefaultSkillNode(name string) SkillNode {
	return SkillNode{
		Name:     name,
		Stages:   append([]string(nil), DefaultSkillStages...),
		Stage:    0,
		Unlocked: true,
	}
}
