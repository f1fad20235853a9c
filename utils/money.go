package utils

import (
	"math"

	"github.com/shopspring/decimal"
)

// Round2 rounds x to 2 decimal places (banking-style simple round).
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// Money rounds a decimal to the 2-place precision the money columns use.
func Money(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
