package command

import (
	"strings"

	"yamen/internal/save"
)

// Kind tags the payload type a command value must satisfy at a given path.
// Structured kinds are deep-validated by the payload package; scalar kinds
// are checked here at the envelope layer.
type Kind int

const (
	// KindAny is the fallback for paths not in the descriptor table.
	KindAny Kind = iota
	KindNumber
	KindString
	KindStringList
	KindBool
	KindTime

	KindRank
	KindLocation
	KindEffect
	KindItem
	KindNpc
	KindSkillNode
)

// Structured reports whether the kind is deep-validated by a per-kind
// payload validator.
func (k Kind) Structured() bool {
	switch k {
	case KindRank, KindLocation, KindEffect, KindItem, KindNpc, KindSkillNode, KindTime:
		return true
	}
	return false
}

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindStringList:
		return "string list"
	case KindBool:
		return "bool"
	case KindTime:
		return "game time"
	case KindRank:
		return "rank object"
	case KindLocation:
		return "location object"
	case KindEffect:
		return "status effect object"
	case KindItem:
		return "item object"
	case KindNpc:
		return "npc object"
	case KindSkillNode:
		return "skill node object"
	}
	return "any"
}

// Descriptor binds a dot-path pattern to its expected value kind. A "*"
// segment matches exactly one key segment. Numeric reports whether add may
// target the path.
type Descriptor struct {
	Pattern string
	Kind    Kind
	Numeric bool

	// Element is the kind of a single element for push/pull targets; KindAny
	// when the path is not a known list.
	Element Kind
}

// pathDescriptors is the per-path value-type table.
func pathDescriptors() []Descriptor {
	return []Descriptor{
		{Pattern: "metadata.name", Kind: KindString},
		{Pattern: "metadata.clock", Kind: KindTime},
		{Pattern: "metadata.playSeconds", Kind: KindNumber, Numeric: true},

		{Pattern: "character.attributes.rank", Kind: KindRank},
		{Pattern: "character.attributes.rank.progress", Kind: KindNumber, Numeric: true},
		{Pattern: "character.attributes.reputation", Kind: KindNumber, Numeric: true},
		{Pattern: "character.attributes.health.current", Kind: KindNumber, Numeric: true},
		{Pattern: "character.attributes.health.max", Kind: KindNumber, Numeric: true},
		{Pattern: "character.attributes.energy.current", Kind: KindNumber, Numeric: true},
		{Pattern: "character.attributes.energy.max", Kind: KindNumber, Numeric: true},
		{Pattern: "character.location", Kind: KindLocation},
		{Pattern: "character.location.description", Kind: KindString},
		{Pattern: "character.location.x", Kind: KindNumber, Numeric: true},
		{Pattern: "character.location.y", Kind: KindNumber, Numeric: true},
		{Pattern: "character.effects", Kind: KindAny, Element: KindEffect},
		{Pattern: "character.inventory.items.*", Kind: KindItem},
		{Pattern: "character.inventory.items.*.quantity", Kind: KindNumber, Numeric: true},
		{Pattern: "character.inventory.items.*.description", Kind: KindString},
		{Pattern: "character.inventory.wallet.*.amount", Kind: KindNumber, Numeric: true},
		{Pattern: "character.skills.nodes.*", Kind: KindSkillNode},
		{Pattern: "character.skills.nodes.*.experience", Kind: KindNumber, Numeric: true},

		{Pattern: "social.relationships.*", Kind: KindNpc},
		{Pattern: "social.relationships.*.affinity", Kind: KindNumber, Numeric: true},
		{Pattern: "social.relationships.*.relationship", Kind: KindString},
		{Pattern: "social.relationships.*.rank", Kind: KindRank},
		{Pattern: "social.relationships.*.memories", Kind: KindStringList, Element: KindString},
		{Pattern: "social.relationships.*.personality", Kind: KindStringList, Element: KindString},

		{Pattern: "world.info.name", Kind: KindString},
		{Pattern: "world.info.background", Kind: KindString},
		{Pattern: "world.info.era", Kind: KindString},

		{Pattern: "system.history", Kind: KindStringList, Element: KindString},
	}
}

// Resolve returns the descriptor for a key, or a KindAny descriptor when the
// path is unknown.
func (p *Policy) Resolve(key string) Descriptor {
	segments := strings.Split(key, ".")
	for _, d := range p.descriptors {
		if patternMatches(d.Pattern, segments) {
			return d
		}
	}
	return Descriptor{Pattern: key, Kind: KindAny, Element: KindAny}
}

func patternMatches(pattern string, segments []string) bool {
	parts := strings.Split(pattern, ".")
	if len(parts) != len(segments) {
		return false
	}
	for i, part := range parts {
		if part == "*" {
			continue
		}
		if part != segments[i] {
			return false
		}
	}
	return true
}

// validRoot reports whether the key is rooted at one of the five domains.
func validRoot(key string) bool {
	root := key
	if i := strings.IndexByte(key, '.'); i >= 0 {
		root = key[:i]
	}
	for _, domain := range save.DomainRoots {
		if root == domain {
			return true
		}
	}
	return false
}
