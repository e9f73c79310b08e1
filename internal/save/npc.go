package save

// NpcProfile is one entry in the relationship map, keyed by the NPC's name.
// Profiles are created by AI generation or by event-time factories, mutated
// by relationship updates, and archived rather than deleted.
type NpcProfile struct {
	Name        string          `json:"name"`
	Gender      string          `json:"gender"`
	BirthDate   GameTime        `json:"birthDate"`
	Rank        RankProgress    `json:"rank"`
	Attributes  AttributeBlock  `json:"attributes"`
	Appearance  string          `json:"appearance,omitempty"`
	Personality []string        `json:"personality,omitempty"`
	Inventory   map[string]Item `json:"inventory,omitempty"`

	Relationship string   `json:"relationship"`
	Affinity     float64  `json:"affinity"`
	Memories     []string `json:"memories,omitempty"`

	// Faction and Position record the NPC's organizational affiliation. The
	// migrator scans these to rebuild faction membership.
	Faction  string `json:"faction,omitempty"`
	Position string `json:"position,omitempty"`

	Archived bool `json:"archived,omitempty"`
}

// FactionRanks is the member rank ladder, lowest first. Index order is the
// strength order used when recomputing a faction's strongest rank.
var FactionRanks = []string{"runner", "clerk", "registrar", "deputy", "magistrate"}

// RankIndex returns the ladder position of a rank name, or -1 if unknown.
func RankIndex(rank string) int {
	for i, r := range FactionRanks {
		if r == rank {
			return i
		}
	}
	return -1
}

// SeniorRanks returns the ranks counted as senior members (the top two rungs
// of the ladder).
func SeniorRanks() []string {
	if len(FactionRanks) < 2 {
		return FactionRanks
	}
	return FactionRanks[len(FactionRanks)-2:]
}

// Faction is one organization in the faction system directory.
type Faction struct {
	Name             string           `json:"name"`
	Description      string           `json:"description,omitempty"`
	Territory        string           `json:"territory,omitempty"`
	StrongestRank    string           `json:"strongestRank"`
	RankDistribution map[string]int64 `json:"rankDistribution"`
	SeniorCount      int64            `json:"seniorCount"`
	MemberCount      int64            `json:"memberCount"`
}

// PlayerFaction records the player's own affiliation.
type PlayerFaction struct {
	Faction  string `json:"faction,omitempty"`
	Position string `json:"position,omitempty"`
}

// MigrationRecord is stamped onto a migrated subsystem.
type MigrationRecord struct {
	ID          string `json:"id"`
	FromVersion int    `json:"fromVersion"`
	ToVersion   int    `json:"toVersion"`
	MigratedAt  string `json:"migratedAt"`
	Reason      string `json:"reason"`
}

// FactionSystem is the faction/governance subsystem embedded in the save.
// A nil or empty system is a legitimate "player has not joined any faction"
// state, not a migration trigger.
type FactionSystem struct {
	Version    int                 `json:"version"`
	Factions   map[string]Faction  `json:"factions"`
	Membership map[string][]string `json:"membership"`
	Player     PlayerFaction       `json:"player"`
	Migration  *MigrationRecord    `json:"migration,omitempty"`
}

// Empty reports whether the system carries no faction data at all.
func (s *FactionSystem) Empty() bool {
	if s == nil {
		return true
	}
	return len(s.Factions) == 0 && len(s.Membership) == 0 &&
		s.Player.Faction == "" && s.Migration == nil && s.Version == 0
}
