package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Recommendation is a rounded sale price suggestion for one cost price.
type Recommendation struct {
	// Rounded sale price, strictly above cost.
	Price decimal.Decimal
	// Markup actually applied, percent of cost.
	MarkupPercentage decimal.Decimal
	// Resulting margin, percent of sale price. Always in [0, 100).
	MarginPercentage decimal.Decimal
	Confidence       float64
	Reasoning        string
	Category         string
}

// MarginCalculator derives sale prices from cost via the per-category margin
// table. Margins are applied as markup on cost (price = cost * (1 + m/100));
// the margin-on-price figure is reported alongside for comparison.
type MarginCalculator struct {
	margins       map[string]MarginRule
	defaultMargin MarginRule
	minMarkup     decimal.Decimal
	maxMarkup     decimal.Decimal
	rounder       *PriceRounder
}

func NewMarginCalculator(cfg Config, rounder *PriceRounder) *MarginCalculator {
	return &MarginCalculator{
		margins:       cfg.Margins,
		defaultMargin: cfg.DefaultMargin,
		minMarkup:     cfg.MinMarkup,
		maxMarkup:     cfg.MaxMarkup,
		rounder:       rounder,
	}
}

// Recommend prices cost for the given category. Unknown categories get the
// fallback margin with its capped confidence. cost <= 0 is an InvalidCostError.
func (m *MarginCalculator) Recommend(cost decimal.Decimal, category string) (Recommendation, error) {
	if !cost.IsPositive() {
		return Recommendation{}, &InvalidCostError{Cost: cost}
	}

	rule, known := m.margins[category]
	if !known {
		rule = m.defaultMargin
		category = "general"
	}

	markup := rule.Margin
	if markup.LessThan(m.minMarkup) {
		markup = m.minMarkup
	} else if markup.GreaterThan(m.maxMarkup) {
		markup = m.maxMarkup
	}

	raw := cost.Mul(hundred.Add(markup)).Div(hundred)
	price, err := m.rounder.Round(raw)
	if err != nil {
		return Recommendation{}, err
	}
	if !price.GreaterThan(cost) {
		// Rounding ate the whole margin (small cost, coarse step). Re-round
		// the minimum-markup price upward so the sale stays above cost.
		floor := cost.Mul(hundred.Add(m.minMarkup)).Div(hundred)
		if price, err = m.rounder.RoundUp(floor); err != nil {
			return Recommendation{}, err
		}
	}

	applied := price.Sub(cost).Div(cost).Mul(hundred).Round(2)
	margin := price.Sub(cost).Div(price).Mul(hundred).Round(2)

	return Recommendation{
		Price:            price,
		MarkupPercentage: applied,
		MarginPercentage: margin,
		Confidence:       rule.Confidence,
		Category:         category,
		Reasoning: fmt.Sprintf("category %q: %s%% markup on cost %s, rounded to %s",
			category, markup, cost, price),
	}, nil
}
