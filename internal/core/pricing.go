package core

import (
	"github.com/shopspring/decimal"

	"github.com/cinemacousas/cinema-booking/internal/model"
)

// Fallback rule names checked, in order, when no band contains a
// spectator's age.  The seeded reference data uses the French name.
var adultRuleNames = []string{"Adult", "Adulte"}

// SpectatorPrice is one line of a price quote: the age that was priced,
// the rule that applied and the resulting per-spectator price in major
// currency units, rounded to two decimals.
type SpectatorPrice struct {
	Age      uint32  `json:"age"`
	Category string  `json:"category"`
	Factor   float64 `json:"factor"`
	Price    float64 `json:"price"`
}

// PriceQuote is the result of the pricing calculator.  Total is the sum
// of the already-rounded per-spectator prices so that the displayed
// breakdown stays additive.
type PriceQuote struct {
	Total      float64          `json:"total_price"`
	BasePrice  float64          `json:"base_price"`
	Spectators int              `json:"spectator_count"`
	Breakdown  []SpectatorPrice `json:"price_breakdown"`
}

// CalculatePrice computes the total price for a set of spectator ages
// against a showing's base price (major units) and the current age
// pricing bands.  Bands must be supplied in ascending AgeMin order; the
// first band containing the age wins.  Ages matched by no band fall
// back to the adult band when present, otherwise to the first band —
// a defined recovery path, not a failure.  An empty band set returns
// ErrNoPricingRules.  Pure function: no side effects.
func CalculatePrice(basePrice float64, ages []uint32, rules []model.AgePrice) (PriceQuote, error) {
	if len(rules) == 0 {
		return PriceQuote{}, ErrNoPricingRules
	}
	base := decimal.NewFromFloat(basePrice)
	total := decimal.Zero
	breakdown := make([]SpectatorPrice, 0, len(ages))
	for _, age := range ages {
		rule := matchRule(age, rules)
		price := base.Mul(decimal.NewFromFloat(rule.Factor)).Round(2)
		total = total.Add(price)
		breakdown = append(breakdown, SpectatorPrice{
			Age:      age,
			Category: rule.Name,
			Factor:   rule.Factor,
			Price:    price.InexactFloat64(),
		})
	}
	return PriceQuote{
		Total:      total.InexactFloat64(),
		BasePrice:  basePrice,
		Spectators: len(ages),
		Breakdown:  breakdown,
	}, nil
}

// matchRule selects the applicable band for an age.  First match wins;
// bands are authored non-overlapping so order only matters for the
// fallback.
func matchRule(age uint32, rules []model.AgePrice) model.AgePrice {
	for _, r := range rules {
		if r.AgeMin <= age && age <= r.AgeMax {
			return r
		}
	}
	for _, name := range adultRuleNames {
		for _, r := range rules {
			if r.Name == name {
				return r
			}
		}
	}
	return rules[0]
}

// CentsToMajor converts a stored minor-unit price (cents) to major
// currency units.  Prices cross this boundary exactly once, on the way
// into the pricing calculator.
func CentsToMajor(cents uint32) float64 {
	return decimal.New(int64(cents), -2).InexactFloat64()
}
