package save

// Legacy tier ratios in base units, fixed by the old game rules.
const (
	TierLowValue  = 1
	TierMidValue  = 100
	TierHighValue = 10_000
	TierTopValue  = 1_000_000
)

// LegacyTiers is the pre-wallet four-tier currency structure. The wallet is
// canonical; this view is regenerated from the wallet total after every
// normalization pass.
type LegacyTiers struct {
	Low  int64 `json:"下品"`
	Mid  int64 `json:"中品"`
	High int64 `json:"上品"`
	Top  int64 `json:"极品"`
}

// Total returns the structure's value in base units.
func (t LegacyTiers) Total() int64 {
	return t.Low*TierLowValue + t.Mid*TierMidValue + t.High*TierHighValue + t.Top*TierTopValue
}

// LegacyFromTotal decomposes a base-unit total greedily across the four
// tiers. Round-trips exactly: LegacyFromTotal(v).Total() == v for v >= 0.
func LegacyFromTotal(total int64) LegacyTiers {
	if total < 0 {
		total = 0
	}
	return LegacyTiers{
		Top:  total / TierTopValue,
		High: (total % TierTopValue) / TierHighValue,
		Mid:  (total % TierHighValue) / TierMidValue,
		Low:  total % TierMidValue,
	}
}

// Currency is one wallet entry.
type Currency struct {
	Name        string `json:"name"`
	UnitValue   int64  `json:"unitValue"`
	Amount      int64  `json:"amount"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon,omitempty"`
}

// Wallet maps currency id to balance entry. It is the single source of truth
// for money; the legacy tier structure is derived from it.
type Wallet map[string]Currency

// TotalValue returns the wallet's combined value in base units.
func (w Wallet) TotalValue() int64 {
	var total int64
	for _, c := range w {
		total += c.Amount * c.UnitValue
	}
	return total
}

// CurrencySettings carries the disabled-currency set and the base currency.
type CurrencySettings struct {
	Disabled []string `json:"disabled"`
	Base     string   `json:"base"`
}

// DisabledSet returns the disabled ids as a lookup set.
func (s CurrencySettings) DisabledSet() map[string]bool {
	set := make(map[string]bool, len(s.Disabled))
	for _, id := range s.Disabled {
		set[id] = true
	}
	return set
}

// DisableCurrencies marks the given ids disabled and evicts their wallet
// entries. Re-normalization honors the disabled set, so the entries never
// come back.
func (inv *Inventory) DisableCurrencies(ids ...string) {
	for _, id := range ids {
		if id == "" {
			continue
		}
		seen := false
		for _, existing := range inv.CurrencySettings.Disabled {
			if existing == id {
				seen = true
				break
			}
		}
		if !seen {
			inv.CurrencySettings.Disabled = append(inv.CurrencySettings.Disabled, id)
		}
		delete(inv.Wallet, id)
	}
}

// Default currency ids.
const (
	CurrencyCopper = "copper"
	CurrencySilver = "silver"
	CurrencyGold   = "gold"
)

// DefaultCurrencies returns the tiered default currencies, keyed by id.
// Unit values follow the legacy tier ratios so conversions stay exact.
func DefaultCurrencies() map[string]Currency {
	return map[string]Currency{
		CurrencyCopper: {Name: "铜钱", UnitValue: TierLowValue, Description: "流通最广的小钱"},
		CurrencySilver: {Name: "银两", UnitValue: TierMidValue, Description: "官银，百文一两"},
		CurrencyGold:   {Name: "金锭", UnitValue: TierHighValue, Description: "库金，百两一锭"},
	}
}

// DefaultCurrencyOrder lists default currency ids from highest unit value to
// lowest, the order greedy legacy conversion consumes them in.
var DefaultCurrencyOrder = []string{CurrencyGold, CurrencySilver, CurrencyCopper}
