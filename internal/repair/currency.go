package repair

import "yamen/internal/save"

// NormalizeCurrencies brings an inventory's currency containers into the
// canonical wallet representation, in place: containers are created, a
// legacy four-tier balance converts into a still-empty wallet 1:1 by base
// units, broken wallet entries are fixed or dropped, absent default
// currencies are re-inserted unless disabled, and the legacy tier view is
// regenerated from the wallet total.
func NormalizeCurrencies(inv *save.Inventory) {
	if inv.CurrencySettings.Base == "" {
		inv.CurrencySettings.Base = save.CurrencyCopper
	}
	if inv.Wallet == nil {
		inv.Wallet = save.Wallet{}
	}

	disabled := inv.CurrencySettings.DisabledSet()
	defaults := save.DefaultCurrencies()

	// A non-empty wallet is canonical; its legacy block is only a derived view.
	if inv.LegacyCurrency != nil && len(inv.Wallet) == 0 {
		convertLegacy(inv, defaults, disabled)
	}

	for id, currency := range inv.Wallet {
		if id == "" {
			delete(inv.Wallet, id)
			continue
		}
		changed := false
		if currency.UnitValue <= 0 {
			currency.UnitValue = 1
			changed = true
		}
		if currency.Amount < 0 {
			currency.Amount = 0
			changed = true
		}
		if currency.Name == "" {
			if def, ok := defaults[id]; ok {
				currency.Name = def.Name
			} else {
				currency.Name = id
			}
			changed = true
		}
		if changed {
			inv.Wallet[id] = currency
		}
	}

	for id, def := range defaults {
		if disabled[id] {
			continue
		}
		if _, exists := inv.Wallet[id]; !exists {
			inv.Wallet[id] = def
		}
	}

	regenerateLegacy(inv)
}

// convertLegacy exchanges the legacy tier total into the wallet greedily
// from the highest-valued default currency down, skipping disabled
// currencies. Residue finer than every enabled denomination is dropped;
// with the copper default enabled the conversion is exact.
func convertLegacy(inv *save.Inventory, defaults map[string]save.Currency, disabled map[string]bool) {
	remaining := inv.LegacyCurrency.Total()
	for _, id := range save.DefaultCurrencyOrder {
		def, ok := defaults[id]
		if !ok || disabled[id] {
			continue
		}
		amount := remaining / def.UnitValue
		if amount > 0 {
			def.Amount = amount
			inv.Wallet[id] = def
			remaining -= amount * def.UnitValue
		}
	}
	inv.LegacyCurrency = nil
}

// regenerateLegacy rebuilds the derived four-tier view from the wallet
// total. The wallet stays canonical; this exists only for old callers.
func regenerateLegacy(inv *save.Inventory) {
	legacy := save.LegacyFromTotal(inv.Wallet.TotalValue())
	inv.LegacyCurrency = &legacy
}
