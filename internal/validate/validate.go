// Package validate is the structural gate a save document passes before the
// session accepts it as good. It walks the whole document once, checks
// presence and types of the required substructures, range-checks every
// game-time field, and cross-checks equipment references against the
// inventory. It never mutates.
package validate

import (
	"fmt"

	"yamen/internal/save"
)

type Severity string

const (
	SeverityError Severity = "error"
	SeverityWarn  Severity = "warning"
)

const (
	codeVersionMismatch  = "version_mismatch"
	codeMissingContainer = "missing_container"
	codeTimeOutOfRange   = "time_out_of_range"
	codeInvalidItem      = "invalid_item"
	codeDanglingRef      = "dangling_reference"
	codeInvalidPool      = "invalid_pool"
	codeInvalidEffect    = "invalid_effect"
	codeWalletMismatch   = "wallet_mismatch"
)

type Issue struct {
	Severity Severity
	Code     string
	Path     string
	Message  string
}

// Report is the aggregated outcome of one structural walk.
type Report struct {
	Issues []Issue
}

// IsValid reports whether the document carries no error-severity issues.
// Warnings (recoverable problems) do not fail a document.
func (r *Report) IsValid() bool {
	for _, issue := range r.Issues {
		if issue.Severity == SeverityError {
			return false
		}
	}
	return true
}

// Errors returns the error-severity messages.
func (r *Report) Errors() []string { return r.messages(SeverityError) }

// Warnings returns the warning-severity messages.
func (r *Report) Warnings() []string { return r.messages(SeverityWarn) }

func (r *Report) messages(severity Severity) []string {
	var out []string
	for _, issue := range r.Issues {
		if issue.Severity == severity {
			out = append(out, fmt.Sprintf("%s: %s", issue.Path, issue.Message))
		}
	}
	return out
}

func (r *Report) add(severity Severity, code, path, format string, args ...any) {
	r.Issues = append(r.Issues, Issue{
		Severity: severity,
		Code:     code,
		Path:     path,
		Message:  fmt.Sprintf(format, args...),
	})
}

// Document runs the full structural walk.
func Document(doc *save.Document) *Report {
	report := &Report{}
	if doc == nil {
		report.add(SeverityError, codeMissingContainer, "", "document is nil")
		return report
	}

	checkMetadata(report, &doc.Metadata)
	checkCharacter(report, &doc.Character)
	checkSocial(report, &doc.Social)
	checkSystem(report, &doc.System)

	return report
}

func checkMetadata(r *Report, m *save.Metadata) {
	if m.Version != save.CurrentVersion {
		r.add(SeverityError, codeVersionMismatch, "metadata.version",
			"schema version %d, expected %d", m.Version, save.CurrentVersion)
	}
	if m.ID == "" {
		r.add(SeverityWarn, codeMissingContainer, "metadata.id", "save id is empty")
	}
	checkTime(r, m.Clock, "metadata.clock")
}

func checkCharacter(r *Report, c *save.Character) {
	if c.Identity.Name == "" {
		r.add(SeverityError, codeMissingContainer, "character.identity.name", "character name is empty")
	}
	checkPool(r, c.Attributes.Health, "character.attributes.health")
	checkPool(r, c.Attributes.Energy, "character.attributes.energy")
	if c.Attributes.Rank.Name == "" {
		r.add(SeverityError, codeMissingContainer, "character.attributes.rank.name", "rank name is empty")
	}
	if c.Location.Description == "" {
		r.add(SeverityError, codeMissingContainer, "character.location.description", "location description is empty")
	}

	if c.Effects == nil {
		r.add(SeverityError, codeMissingContainer, "character.effects", "effects list is missing")
	}
	for i, effect := range c.Effects {
		path := fmt.Sprintf("character.effects[%d]", i)
		if effect.Name == "" {
			r.add(SeverityError, codeInvalidEffect, path, "effect has no name")
		}
		switch effect.Type {
		case save.EffectBuff, save.EffectDebuff, save.EffectNeutral:
		default:
			r.add(SeverityError, codeInvalidEffect, path, "effect type %q is invalid", effect.Type)
		}
	}

	checkInventory(r, &c.Inventory)
	checkEquipment(r, c)
	checkSkills(r, &c.Skills)
}

func checkInventory(r *Report, inv *save.Inventory) {
	if inv.Items == nil {
		r.add(SeverityError, codeMissingContainer, "character.inventory.items", "item map is missing")
	}
	for id, item := range inv.Items {
		path := "character.inventory.items." + id
		if item.Name == "" {
			r.add(SeverityError, codeInvalidItem, path, "item has no name")
		}
		if item.Quantity < 0 {
			r.add(SeverityError, codeInvalidItem, path, "item quantity is negative: %d", item.Quantity)
		}
		if item.Quality.Grade < 0 || item.Quality.Grade > 10 {
			r.add(SeverityError, codeInvalidItem, path, "item grade out of range: %d", item.Quality.Grade)
		}
	}

	if inv.Wallet == nil {
		r.add(SeverityError, codeMissingContainer, "character.inventory.wallet", "wallet is missing")
	}
	for id, currency := range inv.Wallet {
		path := "character.inventory.wallet." + id
		if id == "" {
			r.add(SeverityError, codeWalletMismatch, "character.inventory.wallet", "currency with empty id")
		}
		if currency.UnitValue <= 0 {
			r.add(SeverityError, codeWalletMismatch, path, "currency unit value must be positive: %d", currency.UnitValue)
		}
		if currency.Amount < 0 {
			r.add(SeverityError, codeWalletMismatch, path, "currency amount is negative: %d", currency.Amount)
		}
	}

	// The legacy tier structure is a derived view; when present it must agree
	// with the wallet it was regenerated from.
	if inv.LegacyCurrency != nil && inv.Wallet != nil {
		if inv.LegacyCurrency.Total() != inv.Wallet.TotalValue() {
			r.add(SeverityWarn, codeWalletMismatch, "character.inventory.灵石",
				"legacy total %d disagrees with wallet total %d",
				inv.LegacyCurrency.Total(), inv.Wallet.TotalValue())
		}
	}
}

// checkEquipment verifies each occupied slot points at an inventory item.
// A dangling reference is a warning, not an error: repair recovers it by
// clearing the slot.
func checkEquipment(r *Report, c *save.Character) {
	for _, slot := range save.SlotNames {
		itemID, equipped := c.Equipment.Get(slot)
		if !equipped {
			continue
		}
		if c.Inventory.Items == nil {
			r.add(SeverityWarn, codeDanglingRef, "character.equipment."+slot,
				"slot references %q but the inventory is empty", itemID)
			continue
		}
		if _, exists := c.Inventory.Items[itemID]; !exists {
			r.add(SeverityWarn, codeDanglingRef, "character.equipment."+slot,
				"slot references %q which is not in the inventory", itemID)
		}
	}
}

func checkSkills(r *Report, skills *save.SkillTree) {
	if skills.Nodes == nil {
		r.add(SeverityError, codeMissingContainer, "character.skills.nodes", "skill node map is missing")
	}
	for id, node := range skills.Nodes {
		path := "character.skills.nodes." + id
		if node.Name == "" {
			r.add(SeverityError, codeMissingContainer, path, "skill node has no name")
		}
		if node.Stage < 0 || (len(node.Stages) > 0 && node.Stage >= len(node.Stages)) {
			r.add(SeverityError, codeMissingContainer, path,
				"stage %d out of range for %d stages", node.Stage, len(node.Stages))
		}
	}
}

func checkSocial(r *Report, s *save.Social) {
	if s.Relationships == nil {
		r.add(SeverityError, codeMissingContainer, "social.relationships", "relationship map is missing")
	}
	for name, npc := range s.Relationships {
		path := "social.relationships." + name
		if npc.Name == "" {
			r.add(SeverityError, codeMissingContainer, path, "npc profile has no name")
		}
		if !npc.BirthDate.IsZero() {
			checkTime(r, npc.BirthDate, path+".birthDate")
		}
	}
	for i, record := range s.Events.Records {
		if !record.Time.IsZero() {
			checkTime(r, record.Time, fmt.Sprintf("social.events.records[%d].time", i))
		}
	}
}

func checkSystem(r *Report, s *save.System) {
	if s.Config.Rules == nil {
		r.add(SeverityWarn, codeMissingContainer, "system.config.rules", "rules map is missing")
	}
	if s.History == nil {
		r.add(SeverityWarn, codeMissingContainer, "system.history", "history list is missing")
	}
}

func checkTime(r *Report, t save.GameTime, path string) {
	for _, problem := range t.CheckRanges(path) {
		r.add(SeverityError, codeTimeOutOfRange, path, "%s", problem)
	}
}

func checkPool(r *Report, p save.Pool, path string) {
	if p.Max < 0 {
		r.add(SeverityError, codeInvalidPool, path, "max is negative")
	}
	if p.Current < 0 {
		r.add(SeverityError, codeInvalidPool, path, "current is negative")
	}
	if p.Max > 0 && p.Current > p.Max {
		r.add(SeverityWarn, codeInvalidPool, path, "current %g exceeds max %g", p.Current, p.Max)
	}
}
