package command

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// DefaultForbiddenPaths are the subtrees entirely off-limits to AI-driven
// commands. A key equal to one of these, or any descendant of one, is a
// policy violation regardless of action.
var DefaultForbiddenPaths = []string{
	"social.memory",
	"character.identity",
	"character.equipment",
	"character.skills.mastered",
	"system.config.online.readonlyPaths",
}

// DefaultProtectedRoots are structural subtrees that may be field-patched
// but never replaced or deleted wholesale. The check triggers only on an
// exact key match and only for set/delete; sub-field mutation stays legal.
// The asymmetry with the forbidden-path prefix match is intentional: one
// bans whole-subtree replacement, the other bans the subtree entirely.
var DefaultProtectedRoots = []string{
	"character.attributes",
	"character.inventory.items",
	"character.skills",
	"social.relationships",
	"world.info",
}

// Overrides are per-project policy additions, normally sourced from the
// project config file.
type Overrides struct {
	ForbiddenPaths []string
	ProtectedRoots []string
}

// Policy is the compiled command policy: forbidden prefixes, protected
// roots, and the path descriptor table. Cache reuses a compiled Policy
// across calls with the same overrides.
type Policy struct {
	forbidden   []string
	protected   map[string]bool
	descriptors []Descriptor
	fingerprint string
}

// NewPolicy compiles the built-in policy plus the given overrides.
func NewPolicy(ov Overrides) *Policy {
	forbidden := dedupe(append(append([]string(nil), DefaultForbiddenPaths...), ov.ForbiddenPaths...))
	protectedList := dedupe(append(append([]string(nil), DefaultProtectedRoots...), ov.ProtectedRoots...))

	protected := make(map[string]bool, len(protectedList))
	for _, p := range protectedList {
		protected[p] = true
	}

	return &Policy{
		forbidden:   forbidden,
		protected:   protected,
		descriptors: pathDescriptors(),
		fingerprint: Fingerprint(ov),
	}
}

// Fingerprint derives a stable digest of a set of overrides.
func Fingerprint(ov Overrides) string {
	forbidden := dedupe(append([]string(nil), ov.ForbiddenPaths...))
	protected := dedupe(append([]string(nil), ov.ProtectedRoots...))
	h := sha256.New()
	for _, p := range forbidden {
		h.Write([]byte("f:" + p + "\n"))
	}
	for _, p := range protected {
		h.Write([]byte("p:" + p + "\n"))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// FingerprintString returns the policy's compiled fingerprint.
func (p *Policy) FingerprintString() string { return p.fingerprint }

// ForbiddenPaths returns the compiled forbidden prefixes, sorted.
func (p *Policy) ForbiddenPaths() []string {
	return append([]string(nil), p.forbidden...)
}

// ProtectedRoots returns the compiled protected roots, sorted.
func (p *Policy) ProtectedRoots() []string {
	roots := make([]string, 0, len(p.protected))
	for root := range p.protected {
		roots = append(roots, root)
	}
	sort.Strings(roots)
	return roots
}

// forbiddenMatch returns the forbidden prefix the key falls under, if any.
// Matches the path itself and any strict dot-descendant.
func (p *Policy) forbiddenMatch(key string) (string, bool) {
	for _, prefix := range p.forbidden {
		if key == prefix || strings.HasPrefix(key, prefix+".") {
			return prefix, true
		}
	}
	return "", false
}

// protectedMatch reports whether the key is exactly a protected root.
func (p *Policy) protectedMatch(key string) bool {
	return p.protected[key]
}

// Cache owns a compiled policy keyed by its overrides fingerprint. It is a
// plain object the session context holds; there is no package-level state.
type Cache struct {
	policy *Policy
}

// For returns a policy compiled for the given overrides, reusing the cached
// one when the fingerprint is unchanged.
func (c *Cache) For(ov Overrides) *Policy {
	fp := Fingerprint(ov)
	if c.policy != nil && c.policy.fingerprint == fp {
		return c.policy
	}
	c.policy = NewPolicy(ov)
	return c.policy
}

func dedupe(list []string) []string {
	seen := make(map[string]bool, len(list))
	out := make([]string, 0, len(list))
	for _, s := range list {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
