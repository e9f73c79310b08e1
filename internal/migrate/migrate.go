// Package migrate moves older save documents forward to the current schema.
// Detection and migration are separate: Detect never touches the document,
// and Document returns a new byte slice, leaving its input intact. A save
// that matches no recognized shape is refused rather than guessed at.
package migrate

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"yamen/internal/save"
)

// FactionSystemVersion is the current version of the embedded faction
// subsystem, tracked independently of the document version.
const FactionSystemVersion = 2

// legacy field names the old faction subsystem used. Their presence,
// combined with the absence of the modern membership map, marks a legacy
// shape.
var legacyFactionFields = []string{"memberInfo", "宗门成员", "门派成员"}

// legacy player-assignment fields preserved across migration.
var legacyPlayerFields = []string{"playerFaction", "玩家门派", "所属门派"}

// Detection is the outcome of shape inspection.
type Detection struct {
	Needed      bool
	FromVersion int
	ToVersion   int
	Reasons     []string
}

// Detect inspects a raw save document and reports whether migration is
// needed. It returns an error only when the bytes do not look like a save
// document at all; an unrecognized shape must never be silently migrated.
func Detect(raw []byte) (Detection, error) {
	root := gjson.ParseBytes(raw)
	if !root.IsObject() {
		return Detection{}, fmt.Errorf("not a save document: top level is not an object")
	}
	if !root.Get("metadata").IsObject() || !root.Get("character").IsObject() {
		return Detection{}, fmt.Errorf("not a save document: missing metadata or character domain")
	}

	det := Detection{
		FromVersion: int(root.Get("metadata.version").Int()),
		ToVersion:   save.CurrentVersion,
	}

	if det.FromVersion > save.CurrentVersion {
		return Detection{}, fmt.Errorf("save version %d is newer than supported version %d",
			det.FromVersion, save.CurrentVersion)
	}
	if det.FromVersion < save.CurrentVersion {
		det.Needed = true
		det.Reasons = append(det.Reasons,
			fmt.Sprintf("document version %d below current %d", det.FromVersion, save.CurrentVersion))
	}

	factions := root.Get("social.factions")
	if reason, needed := factionMigrationReason(factions); needed {
		det.Needed = true
		det.Reasons = append(det.Reasons, reason)
	}

	return det, nil
}

// factionMigrationReason applies the null-vs-legacy distinction. A null or
// empty subsystem is a legitimate "player has not joined any faction" state
// and never triggers migration; only a legacy field shape, or a stale
// version on a non-empty subsystem, does.
func factionMigrationReason(factions gjson.Result) (string, bool) {
	if !factions.Exists() || factions.Type == gjson.Null {
		return "", false
	}
	if !factions.IsObject() {
		return "faction subsystem is not an object", true
	}
	if len(factions.Map()) == 0 {
		return "", false
	}

	hasModern := factions.Get("membership").Exists()
	for _, field := range legacyFactionFields {
		if factions.Get(field).Exists() && !hasModern {
			return fmt.Sprintf("faction subsystem carries legacy field %q", field), true
		}
	}

	version := int(factions.Get("version").Int())
	if version != FactionSystemVersion {
		return fmt.Sprintf("faction subsystem version %d, expected %d", version, FactionSystemVersion), true
	}
	return "", false
}

// Document migrates a raw save document forward, returning the migrated
// bytes. The input slice is not mutated. When no migration is needed the
// input is returned as-is.
func Document(raw []byte, now time.Time) ([]byte, Detection, error) {
	det, err := Detect(raw)
	if err != nil {
		return raw, Detection{}, err
	}
	if !det.Needed {
		return raw, det, nil
	}

	var doc save.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return raw, det, fmt.Errorf("parsing save document: %w", err)
	}

	root := gjson.ParseBytes(raw)
	factionsRaw := root.Get("social.factions")
	if shouldRebuild(factionsRaw) {
		doc.Social.Factions = rebuildFactions(&doc, factionsRaw, det, now)
	}

	doc.Metadata.Version = save.CurrentVersion
	doc.Metadata.UpdatedAt = now.UTC().Format(time.RFC3339)

	out, err := json.Marshal(&doc)
	if err != nil {
		return raw, det, fmt.Errorf("encoding migrated document: %w", err)
	}
	return out, det, nil
}

func shouldRebuild(factions gjson.Result) bool {
	_, needed := factionMigrationReason(factions)
	return needed
}

// rebuildFactions reconstructs the faction subsystem: the directory comes
// from world faction info, membership from scanning every NPC's affiliation,
// and the player's own assignment is carried over from whichever shape the
// old save used. Faction entries are consistency-fixed before being folded
// in.
func rebuildFactions(doc *save.Document, old gjson.Result, det Detection, now time.Time) *save.FactionSystem {
	system := &save.FactionSystem{
		Version:    FactionSystemVersion,
		Factions:   map[string]save.Faction{},
		Membership: map[string][]string{},
	}

	for _, wf := range doc.World.Info.Factions {
		if wf.Name == "" {
			continue
		}
		system.Factions[wf.Name] = save.Faction{
			Name:        wf.Name,
			Description: wf.Description,
			Territory:   wf.Territory,
		}
	}

	// Fold in any per-faction data the old subsystem carried, normalizing
	// legacy field names first.
	if old.IsObject() {
		for _, key := range []string{"factions", "sects", "宗门列表"} {
			old.Get(key).ForEach(func(name, value gjson.Result) bool {
				faction := factionFromRaw(name.String(), value)
				if faction.Name != "" {
					system.Factions[faction.Name] = faction
				}
				return true
			})
		}
	}

	for npcName, npc := range doc.Social.Relationships {
		if npc.Faction == "" {
			continue
		}
		system.Membership[npc.Faction] = append(system.Membership[npc.Faction], npcName)
		if _, known := system.Factions[npc.Faction]; !known {
			system.Factions[npc.Faction] = save.Faction{Name: npc.Faction}
		}
	}

	// Derive member counts and rank distributions from the scanned
	// membership where the old data had none.
	for name, members := range system.Membership {
		faction := system.Factions[name]
		if faction.MemberCount == 0 {
			faction.MemberCount = int64(len(members))
		}
		if len(faction.RankDistribution) == 0 {
			faction.RankDistribution = distributionFromMembers(doc, members)
		}
		system.Factions[name] = faction
	}

	fixed := FixFactions(factionValues(system.Factions))
	for _, faction := range fixed {
		system.Factions[faction.Name] = faction
	}

	system.Player = carryPlayerAssignment(old)

	system.Migration = &save.MigrationRecord{
		ID:          uuid.NewString(),
		FromVersion: det.FromVersion,
		ToVersion:   det.ToVersion,
		MigratedAt:  now.UTC().Format(time.RFC3339),
		Reason:      firstReason(det.Reasons),
	}

	return system
}

func distributionFromMembers(doc *save.Document, members []string) map[string]int64 {
	dist := map[string]int64{}
	for _, member := range members {
		npc, ok := doc.Social.Relationships[member]
		if !ok {
			continue
		}
		rank := npc.Position
		if save.RankIndex(rank) < 0 {
			rank = save.FactionRanks[0]
		}
		dist[rank]++
	}
	return dist
}

// carryPlayerAssignment preserves the player's faction and position from
// either the modern or any legacy shape.
func carryPlayerAssignment(old gjson.Result) save.PlayerFaction {
	if !old.IsObject() {
		return save.PlayerFaction{}
	}
	if player := old.Get("player"); player.IsObject() {
		return save.PlayerFaction{
			Faction:  player.Get("faction").String(),
			Position: player.Get("position").String(),
		}
	}
	for _, field := range legacyPlayerFields {
		if v := old.Get(field); v.Exists() && v.String() != "" {
			return save.PlayerFaction{
				Faction:  v.String(),
				Position: old.Get("playerPosition").String(),
			}
		}
	}
	return save.PlayerFaction{}
}

func factionValues(m map[string]save.Faction) []save.Faction {
	out := make([]save.Faction, 0, len(m))
	for _, f := range m {
		out = append(out, f)
	}
	return out
}

func firstReason(reasons []string) string {
	if len(reasons) == 0 {
		return "schema migration"
	}
	return reasons[0]
}
