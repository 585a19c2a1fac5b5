package tax

import "math"

type Bracket struct {
	Limit float64 `json:"limit"`
	Rate  float64 `json:"rate"`
}

type Jurisdiction struct {
	Code              string    `json:"code"`
	Name              string    `json:"name"`
	Currency          string    `json:"currency"`
	StandardDeduction float64   `json:"standard_deduction"`
	Brackets          []Bracket `json:"brackets"`
}

// DefaultJurisdiction is used whenever a tenant carries an unknown or empty
// country code. Resolving instead of erroring keeps calculation paths total.
const DefaultJurisdiction = "USA"

var unbounded = math.Inf(1)

// jurisdictions holds the progressive bracket tables, keyed by country code.
// Read-only after init; safe for concurrent use.
var jurisdictions = map[string]Jurisdiction{
	"USA": {
		Code:     "USA",
		Name:     "United States",
		Currency: "$",
		Brackets: []Bracket{
			{Limit: 11000, Rate: 0.10},
			{Limit: 44000, Rate: 0.12},
			{Limit: 95000, Rate: 0.22},
			{Limit: unbounded, Rate: 0.24},
		},
	},
	"UK": {
		Code:     "UK",
		Name:     "United Kingdom",
		Currency: "£",
		Brackets: []Bracket{
			{Limit: 12500, Rate: 0.00},
			{Limit: 50000, Rate: 0.20},
			{Limit: 125000, Rate: 0.40},
			{Limit: unbounded, Rate: 0.45},
		},
	},
	"DE": {
		Code:     "DE",
		Name:     "Germany",
		Currency: "€",
		Brackets: []Bracket{
			{Limit: 11604, Rate: 0.00},
			{Limit: 60000, Rate: 0.14},
			{Limit: unbounded, Rate: 0.42},
		},
	},
	"BD": {
		Code:     "BD",
		Name:     "Bangladesh",
		Currency: "৳",
		Brackets: []Bracket{
			{Limit: 350000, Rate: 0.00},
			{Limit: 450000, Rate: 0.05},
			{Limit: 750000, Rate: 0.10},
			{Limit: unbounded, Rate: 0.15},
		},
	},
	"IN": {
		Code:     "IN",
		Name:     "India",
		Currency: "₹",
		Brackets: []Bracket{
			{Limit: 300000, Rate: 0.00},
			{Limit: 600000, Rate: 0.05},
			{Limit: 900000, Rate: 0.10},
			{Limit: unbounded, Rate: 0.30},
		},
	},
	"PK": {
		Code:     "PK",
		Name:     "Pakistan",
		Currency: "₨",
		Brackets: []Bracket{
			{Limit: 600000, Rate: 0.00},
			{Limit: 1200000, Rate: 0.025},
			{Limit: 2400000, Rate: 0.125},
			{Limit: unbounded, Rate: 0.20},
		},
	},
	"PH": {
		Code:     "PH",
		Name:     "Philippines",
		Currency: "₱",
		Brackets: []Bracket{
			{Limit: 250000, Rate: 0.00},
			{Limit: 400000, Rate: 0.15},
			{Limit: 800000, Rate: 0.20},
			{Limit: unbounded, Rate: 0.30},
		},
	},
	"NP": {
		Code:     "NP",
		Name:     "Nepal",
		Currency: "N₨",
		Brackets: []Bracket{
			{Limit: 500000, Rate: 0.01},
			{Limit: 700000, Rate: 0.10},
			{Limit: unbounded, Rate: 0.20},
		},
	},
	"CN": {
		Code:     "CN",
		Name:     "China",
		Currency: "¥",
		Brackets: []Bracket{
			{Limit: 36000, Rate: 0.03},
			{Limit: 144000, Rate: 0.10},
			{Limit: 300000, Rate: 0.20},
			{Limit: unbounded, Rate: 0.45},
		},
	},
	"ES": {
		Code:     "ES",
		Name:     "Spain",
		Currency: "€",
		Brackets: []Bracket{
			{Limit: 12450, Rate: 0.19},
			{Limit: 20200, Rate: 0.24},
			{Limit: 35200, Rate: 0.30},
			{Limit: 60000, Rate: 0.37},
			{Limit: unbounded, Rate: 0.45},
		},
	},
}

// Lookup resolves a jurisdiction code, falling back to DefaultJurisdiction.
func Lookup(code string) Jurisdiction {
	if j, ok := jurisdictions[code]; ok {
		return j
	}
	return jurisdictions[DefaultJurisdiction]
}

// Known reports whether code is a configured jurisdiction.
func Known(code string) bool {
	_, ok := jurisdictions[code]
	return ok
}

// Codes returns all configured jurisdiction codes.
func Codes() []string {
	out := make([]string, 0, len(jurisdictions))
	for code := range jurisdictions {
		out = append(out, code)
	}
	return out
}
