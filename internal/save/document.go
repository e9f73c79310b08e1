// Package save defines the canonical shape of a save document.
//
// A save document is a single mutable tree owned by the enclosing session.
// Validators, repairers, and the migrator all work against the structures
// declared here; none of them own persistence or concurrency.
package save

// CurrentVersion is the schema version every freshly created or fully
// migrated document carries in metadata.version.
const CurrentVersion = 3

// DomainRoots are the five top-level domains a command key may be rooted at.
var DomainRoots = []string{"metadata", "character", "social", "world", "system"}

// Document is the root aggregate of a save.
type Document struct {
	Metadata  Metadata  `json:"metadata"`
	Character Character `json:"character"`
	Social    Social    `json:"social"`
	World     World     `json:"world"`
	System    System    `json:"system"`
}

// Metadata identifies a save and anchors the schema version and clocks.
type Metadata struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Version     int      `json:"version"`
	CreatedAt   string   `json:"createdAt"`
	UpdatedAt   string   `json:"updatedAt"`
	PlaySeconds int64    `json:"playSeconds"`
	Clock       GameTime `json:"clock"`
}

// Character holds everything that belongs to the player figure.
type Character struct {
	Identity   Identity       `json:"identity"`
	Attributes Attributes     `json:"attributes"`
	Location   Location       `json:"location"`
	Effects    []StatusEffect `json:"effects"`
	Inventory  Inventory      `json:"inventory"`
	Equipment  Equipment      `json:"equipment"`
	Skills     SkillTree      `json:"skills"`

	// AppliedBonuses records the equipment-driven attribute deltas currently
	// folded into the acquired block, so a later recompute can revert them.
	AppliedBonuses map[string]int `json:"appliedBonuses,omitempty"`
}

// Identity carries the player's name and the innate/acquired attribute blocks.
type Identity struct {
	Name     string         `json:"name"`
	Innate   AttributeBlock `json:"innate"`
	Acquired AttributeBlock `json:"acquired"`
}

// AttributeBlock is the six-attribute stat block shared by player and NPCs.
type AttributeBlock struct {
	Constitution int `json:"constitution"`
	Scholarship  int `json:"scholarship"`
	Eloquence    int `json:"eloquence"`
	Integrity    int `json:"integrity"`
	Diligence    int `json:"diligence"`
	Luck         int `json:"luck"`
}

// AttributeNames lists the block fields in canonical order.
var AttributeNames = []string{
	"constitution", "scholarship", "eloquence", "integrity", "diligence", "luck",
}

// Get returns the named attribute, or 0 for an unknown name.
func (a AttributeBlock) Get(name string) int {
	switch name {
	case "constitution":
		return a.Constitution
	case "scholarship":
		return a.Scholarship
	case "eloquence":
		return a.Eloquence
	case "integrity":
		return a.Integrity
	case "diligence":
		return a.Diligence
	case "luck":
		return a.Luck
	}
	return 0
}

// Add shifts the named attribute by delta. Unknown names are ignored.
func (a *AttributeBlock) Add(name string, delta int) {
	switch name {
	case "constitution":
		a.Constitution += delta
	case "scholarship":
		a.Scholarship += delta
	case "eloquence":
		a.Eloquence += delta
	case "integrity":
		a.Integrity += delta
	case "diligence":
		a.Diligence += delta
	case "luck":
		a.Luck += delta
	}
}

// RankProgress is the hierarchical rank/title progress object used for the
// player and for NPCs.
type RankProgress struct {
	Name          string  `json:"name"`
	Stage         int     `json:"stage"`
	Progress      float64 `json:"progress"`
	NextThreshold float64 `json:"nextThreshold"`
}

// Pool is a bounded resource such as health or energy.
type Pool struct {
	Current float64 `json:"current"`
	Max     float64 `json:"max"`
}

// Attributes groups rank progress, resource pools, and reputation.
type Attributes struct {
	Rank       RankProgress `json:"rank"`
	Health     Pool         `json:"health"`
	Energy     Pool         `json:"energy"`
	Reputation float64      `json:"reputation"`
}

// Location is the character's position on the county map.
type Location struct {
	Description string  `json:"description"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	MapID       string  `json:"mapId"`
}

// StatusEffect is a timed buff or debuff on the character.
type StatusEffect struct {
	Name        string             `json:"name"`
	Type        string             `json:"type"`
	Description string             `json:"description,omitempty"`
	Duration    int                `json:"duration"`
	Modifiers   map[string]float64 `json:"modifiers,omitempty"`
}

// Status effect types.
const (
	EffectBuff    = "buff"
	EffectDebuff  = "debuff"
	EffectNeutral = "neutral"
)

// SkillTree is the character's progression tree plus the list of fully
// mastered node ids. The mastered list is AI-managed only.
type SkillTree struct {
	Nodes    map[string]SkillNode `json:"nodes"`
	Mastered []string             `json:"mastered"`
}

// SkillNode is one progression-tree entry.
type SkillNode struct {
	Name          string   `json:"name"`
	Stages        []string `json:"stages"`
	Stage         int      `json:"stage"`
	Unlocked      bool     `json:"unlocked"`
	Experience    float64  `json:"experience"`
	MaxExperience float64  `json:"maxExperience"`
}

// Social holds relationships, factions, events, and the tiered memory store.
type Social struct {
	Relationships map[string]NpcProfile `json:"relationships"`
	Factions      *FactionSystem        `json:"factions"`
	Events        EventLog              `json:"events"`
	Memory        MemoryStore           `json:"memory"`
}

// EventLog is the recorded event history plus its configuration.
type EventLog struct {
	Records []EventRecord `json:"records"`
	Config  EventConfig   `json:"config"`
}

// EventRecord is one narrated event.
type EventRecord struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Time        GameTime `json:"time"`
	Description string   `json:"description,omitempty"`
}

// EventConfig tunes event generation.
type EventConfig struct {
	Enabled  bool `json:"enabled"`
	Cooldown int  `json:"cooldown"`
}

// MemoryStore is the tiered narrative memory. All four tiers are AI-managed
// only and sit under a forbidden command path.
type MemoryStore struct {
	Short    []string `json:"short"`
	Medium   []string `json:"medium"`
	Long     []string `json:"long"`
	Implicit []string `json:"implicit"`
}

// World holds static world info and mutable world state.
type World struct {
	Info  WorldInfo      `json:"info"`
	State map[string]any `json:"state"`
}

// WorldInfo is the static backdrop of the game world.
type WorldInfo struct {
	Name       string          `json:"name"`
	Background string          `json:"background"`
	Era        string          `json:"era"`
	Locations  []WorldLocation `json:"locations"`
	Factions   []WorldFaction  `json:"factions"`
}

// WorldLocation is a named place on the county map.
type WorldLocation struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	MapID       string  `json:"mapId,omitempty"`
}

// WorldFaction is a faction as declared by world info, the source the
// migrator derives the faction directory from.
type WorldFaction struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Territory   string `json:"territory,omitempty"`
}

// System holds configuration, caches, and narrative history.
type System struct {
	Config  SystemConfig   `json:"config"`
	Caches  map[string]any `json:"caches"`
	History []string       `json:"history"`
}

// SystemConfig carries rules, feature flags, and the online-mode settings.
type SystemConfig struct {
	Rules    map[string]any  `json:"rules"`
	Features map[string]bool `json:"features"`
	Online   OnlineConfig    `json:"online"`
}

// OnlineConfig lists paths the online mode treats as read-only and the
// policy used when local and remote edits collide.
type OnlineConfig struct {
	ReadonlyPaths  []string `json:"readonlyPaths"`
	ConflictPolicy string   `json:"conflictPolicy"`
}
