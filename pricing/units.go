package pricing

import "github.com/shopspring/decimal"

// CanonicalUnit is the unit every convertible quantity is normalized to.
const CanonicalUnit = "PCS"

// Conversion is the result of normalizing one extracted quantity.
type Conversion struct {
	// Quantity in the canonical unit (original quantity when no conversion
	// applies).
	Quantity   decimal.Decimal
	Multiplier decimal.Decimal
	// CanonicalUnit when Multiplier > 1, the original unit otherwise.
	Unit string
	// False when the unit token is not in the conversion table. The caller
	// decides whether to surface this; the conversion itself is a no-op
	// (multiplier 1, values echoed).
	Known bool
}

// UnitConverter maps heterogeneous invoice unit tokens (DOC, PAR, CAJA, ...)
// to piece counts. Matching is case- and accent-insensitive.
type UnitConverter struct {
	table map[string]decimal.Decimal
}

func NewUnitConverter(cfg Config) *UnitConverter {
	table := make(map[string]decimal.Decimal, len(cfg.Units))
	for token, m := range cfg.Units {
		// Fractional multipliers would shrink quantities; a piece count is
		// always at least the original count.
		if m.GreaterThanOrEqual(decimal.NewFromInt(1)) {
			table[fold(token)] = m
		}
	}
	return &UnitConverter{table: table}
}

// Convert normalizes quantity/unit to pieces. It never fails: unknown units
// pass through with multiplier 1 and Known=false.
func (c *UnitConverter) Convert(quantity decimal.Decimal, unit string) Conversion {
	multiplier, ok := c.table[fold(unit)]
	if !ok {
		return Conversion{Quantity: quantity, Multiplier: decimal.NewFromInt(1), Unit: unit, Known: false}
	}
	conv := Conversion{Multiplier: multiplier, Known: true, Unit: unit}
	if multiplier.GreaterThan(decimal.NewFromInt(1)) {
		conv.Quantity = quantity.Mul(multiplier)
		conv.Unit = CanonicalUnit
	} else {
		conv.Quantity = quantity
	}
	return conv
}
