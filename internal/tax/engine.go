package tax

import (
	"fmt"
	"math"
)

type BreakdownLine struct {
	Slab          string  `json:"slab"`
	TaxableAmount float64 `json:"taxable_amount"`
	Rate          float64 `json:"rate"`
	Tax           float64 `json:"tax"`
}

type Report struct {
	TotalTax      float64         `json:"total_tax"`
	EffectiveRate float64         `json:"effective_rate"`
	MarginalRate  float64         `json:"marginal_rate"`
	Breakdown     []BreakdownLine `json:"breakdown"`
	Currency      string          `json:"currency"`
}

// GetTaxReport walks the jurisdiction's brackets progressively: each slab of
// income between the previous bound and min(income, limit) is taxed at that
// bracket's rate. Unknown codes resolve to the default jurisdiction; negative
// input is the caller's responsibility to clamp, but is floored here as well
// so the function stays total.
func GetTaxReport(income float64, countryCode string) Report {
	config := Lookup(countryCode)

	taxableIncome := math.Max(0, income-config.StandardDeduction)

	var tax float64
	var previousLimit float64
	var marginalRate float64
	breakdown := make([]BreakdownLine, 0, len(config.Brackets))

	for _, bracket := range config.Brackets {
		if taxableIncome <= previousLimit {
			break
		}

		slabIncome := math.Min(taxableIncome, bracket.Limit) - previousLimit
		slabTax := slabIncome * bracket.Rate

		tax += slabTax
		marginalRate = bracket.Rate * 100

		breakdown = append(breakdown, BreakdownLine{
			Slab:          slabLabel(config.Currency, previousLimit, bracket.Limit),
			TaxableAmount: round2(slabIncome),
			Rate:          bracket.Rate * 100,
			Tax:           round2(slabTax),
		})

		previousLimit = bracket.Limit
	}

	effectiveRate := 0.0
	if income > 0 {
		effectiveRate = round2(tax / income * 100)
	}

	return Report{
		TotalTax:      round2(tax),
		EffectiveRate: effectiveRate,
		MarginalRate:  marginalRate,
		Breakdown:     breakdown,
		Currency:      config.Currency,
	}
}

func slabLabel(currency string, from, to float64) string {
	if math.IsInf(to, 1) {
		return fmt.Sprintf("%s%.0f - Above", currency, from)
	}
	return fmt.Sprintf("%s%.0f - %.0f", currency, from, to)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
