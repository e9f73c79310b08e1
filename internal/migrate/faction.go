package migrate

import (
	"fmt"
	"sort"

	"github.com/tidwall/gjson"

	"yamen/internal/save"
)

// Legacy faction subfield aliases, normalized to canonical names before any
// consistency work.
var factionFieldAliases = map[string]string{
	"强者等级": "strongestRank",
	"最高等级": "strongestRank",
	"等级分布": "rankDistribution",
	"长老数量": "seniorCount",
	"成员数量": "memberCount",
	"描述":   "description",
	"领地":   "territory",
}

// factionFromRaw builds a faction from a raw legacy entry, folding aliased
// subfields onto their canonical names.
func factionFromRaw(name string, value gjson.Result) save.Faction {
	if !value.IsObject() {
		return save.Faction{}
	}
	fields := map[string]gjson.Result{}
	value.ForEach(func(key, v gjson.Result) bool {
		canonical := key.String()
		if alias, ok := factionFieldAliases[canonical]; ok {
			canonical = alias
		}
		fields[canonical] = v
		return true
	})

	faction := save.Faction{
		Name:          name,
		Description:   fields["description"].String(),
		Territory:     fields["territory"].String(),
		StrongestRank: fields["strongestRank"].String(),
		SeniorCount:   fields["seniorCount"].Int(),
		MemberCount:   fields["memberCount"].Int(),
	}
	if dist := fields["rankDistribution"]; dist.IsObject() {
		faction.RankDistribution = map[string]int64{}
		dist.ForEach(func(rank, count gjson.Result) bool {
			if save.RankIndex(rank.String()) >= 0 {
				faction.RankDistribution[rank.String()] = count.Int()
			}
			return true
		})
	}
	return faction
}

// FixFactions restores internal consistency for each faction: the strongest
// rank is recomputed from the distribution histogram (a stored maximum is
// never trusted), and a distribution whose implied senior count exceeds 1.5x
// the recorded senior-member count is proportionally scaled down.
func FixFactions(list []save.Faction) []save.Faction {
	out := make([]save.Faction, len(list))
	for i, faction := range list {
		out[i] = fixFaction(faction)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func fixFaction(f save.Faction) save.Faction {
	if strongest := strongestFromDistribution(f.RankDistribution); strongest != "" {
		f.StrongestRank = strongest
	} else if save.RankIndex(f.StrongestRank) < 0 {
		f.StrongestRank = ""
	}

	implied := seniorImplied(f.RankDistribution)
	if f.SeniorCount > 0 && implied > 0 && float64(implied) > 1.5*float64(f.SeniorCount) {
		scale := float64(f.SeniorCount) / float64(implied)
		for rank, count := range f.RankDistribution {
			scaled := int64(float64(count) * scale)
			if count > 0 && scaled == 0 {
				scaled = 1
			}
			f.RankDistribution[rank] = scaled
		}
		f.StrongestRank = strongestFromDistribution(f.RankDistribution)
	}

	if f.MemberCount < distributionTotal(f.RankDistribution) {
		f.MemberCount = distributionTotal(f.RankDistribution)
	}
	return f
}

// CheckFactions reports, without fixing, any remaining contradictions
// between a faction's distribution and its recorded strongest rank.
func CheckFactions(list []save.Faction) []string {
	var problems []string
	for _, f := range list {
		expected := strongestFromDistribution(f.RankDistribution)
		if expected != "" && f.StrongestRank != expected {
			problems = append(problems, fmt.Sprintf(
				"faction %s: strongest rank %q contradicts distribution maximum %q",
				f.Name, f.StrongestRank, expected))
		}
		if total := distributionTotal(f.RankDistribution); f.MemberCount > 0 && total > f.MemberCount {
			problems = append(problems, fmt.Sprintf(
				"faction %s: distribution total %d exceeds member count %d",
				f.Name, total, f.MemberCount))
		}
	}
	return problems
}

func strongestFromDistribution(dist map[string]int64) string {
	strongest := ""
	strongestIdx := -1
	for rank, count := range dist {
		if count <= 0 {
			continue
		}
		if idx := save.RankIndex(rank); idx > strongestIdx {
			strongestIdx = idx
			strongest = rank
		}
	}
	return strongest
}

func seniorImplied(dist map[string]int64) int64 {
	var total int64
	for _, rank := range save.SeniorRanks() {
		total += dist[rank]
	}
	return total
}

func distributionTotal(dist map[string]int64) int64 {
	var total int64
	for _, count := range dist {
		total += count
	}
	return total
}
