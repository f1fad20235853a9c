// Package pricing implements the unit-aware pricing core for extracted
// purchase invoices: quantity normalization, market-convention price
// rounding, margin-based sale price recommendation and fuzzy duplicate
// detection. All components are pure data transformations configured through
// an explicit Config; nothing in this package touches the database or the
// environment.
package pricing

import "github.com/shopspring/decimal"

// MarginRule is the target margin and static confidence for one product
// category. Margin is expressed as markup on cost, in percent.
type MarginRule struct {
	Margin     decimal.Decimal `json:"margin"`
	Confidence float64         `json:"confidence"`
}

// Band maps a price magnitude to the rounding step used at and above its
// threshold.
type Band struct {
	Threshold decimal.Decimal `json:"threshold"`
	Step      decimal.Decimal `json:"step"`
}

// Config carries every tenant-overridable table the core needs.
type Config struct {
	// Unit token (folded) -> multiplier to pieces.
	Units map[string]decimal.Decimal

	// Category -> margin rule; DefaultMargin applies to unknown categories.
	Margins       map[string]MarginRule
	DefaultMargin MarginRule

	// Markup clamp, in percent of cost.
	MinMarkup decimal.Decimal
	MaxMarkup decimal.Decimal

	// Rounding bands, highest threshold first.
	Bands []Band

	// Duplicate detection.
	DuplicateThreshold float64
	PossibleThreshold  float64
	// Candidate counts as cheaper only beyond this fraction of the existing
	// price (filters OCR noise on near-identical prices).
	PriceNoiseRatio decimal.Decimal
	// Cap on returned candidate pairs per item; 0 means unbounded.
	MaxCandidates int
}

func dec(i int64) decimal.Decimal { return decimal.NewFromInt(i) }

// DefaultConfig returns the Colombian retail defaults: piece conversions for
// the units that show up on wholesale invoices (docena, par, gruesa), the
// per-category margin table, and peso rounding bands.
func DefaultConfig() Config {
	units := map[string]decimal.Decimal{
		"doc": dec(12), "docena": dec(12),
		"par": dec(2), "pares": dec(2),
		"grs": dec(144), "gruesa": dec(144),
		"pcs": dec(1), "und": dec(1), "unidad": dec(1), "pieza": dec(1),
		"kg": dec(1), "g": dec(1), "l": dec(1), "ml": dec(1),
	}

	margins := map[string]MarginRule{
		"shoes":       {Margin: dec(55), Confidence: 0.90},
		"clothing":    {Margin: dec(60), Confidence: 0.85},
		"electronics": {Margin: dec(35), Confidence: 0.95},
		"accessories": {Margin: dec(70), Confidence: 0.87},
		"sports":      {Margin: dec(50), Confidence: 0.88},
		"home":        {Margin: dec(45), Confidence: 0.80},
		"beauty":      {Margin: dec(65), Confidence: 0.92},
		"toys":        {Margin: dec(60), Confidence: 0.75},
		"tools":       {Margin: dec(40), Confidence: 0.75},
		"office":      {Margin: dec(45), Confidence: 0.70},
		"general":     {Margin: dec(50), Confidence: 0.60},
	}

	return Config{
		Units:         units,
		Margins:       margins,
		DefaultMargin: MarginRule{Margin: dec(50), Confidence: 0.50},
		MinMarkup:     dec(20),
		MaxMarkup:     dec(200),
		Bands: []Band{
			{Threshold: dec(10000), Step: dec(1000)},
			{Threshold: dec(1000), Step: dec(500)},
			{Threshold: dec(100), Step: dec(100)},
			{Threshold: dec(0), Step: dec(50)},
		},
		DuplicateThreshold: 0.90,
		PossibleThreshold:  0.75,
		PriceNoiseRatio:    decimal.RequireFromString("0.02"),
		MaxCandidates:      5,
	}
}
