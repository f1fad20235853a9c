package pricing

import "github.com/shopspring/decimal"

// PriceRounder rounds computed sale prices to the steps Colombian retail
// actually quotes in: thousands above $10.000, five hundreds above $1.000,
// hundreds above $100, fifties below.
type PriceRounder struct {
	bands []Band
}

func NewPriceRounder(cfg Config) *PriceRounder {
	bands := make([]Band, len(cfg.Bands))
	copy(bands, cfg.Bands)
	// Highest threshold first; Config callers usually pass them that way
	// already, but band lookup depends on it.
	for i := 1; i < len(bands); i++ {
		for j := i; j > 0 && bands[j].Threshold.GreaterThan(bands[j-1].Threshold); j-- {
			bands[j], bands[j-1] = bands[j-1], bands[j]
		}
	}
	return &PriceRounder{bands: bands}
}

func (r *PriceRounder) step(price decimal.Decimal) decimal.Decimal {
	for _, b := range r.bands {
		if price.GreaterThanOrEqual(b.Threshold) && b.Step.IsPositive() {
			return b.Step
		}
	}
	return decimal.NewFromInt(1)
}

// Round rounds price to the nearest multiple of its band's step, half up.
// Idempotent: a value already on a step multiple is returned unchanged.
func (r *PriceRounder) Round(price decimal.Decimal) (decimal.Decimal, error) {
	if price.IsNegative() {
		return decimal.Zero, &InvalidPriceError{Price: price}
	}
	step := r.step(price)
	return price.Div(step).Round(0).Mul(step), nil
}

// RoundUp rounds price up to its band's next step multiple. Used to keep a
// floor price from rounding below cost.
func (r *PriceRounder) RoundUp(price decimal.Decimal) (decimal.Decimal, error) {
	if price.IsNegative() {
		return decimal.Zero, &InvalidPriceError{Price: price}
	}
	step := r.step(price)
	return price.Div(step).Ceil().Mul(step), nil
}
