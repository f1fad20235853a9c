package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// InvalidPriceError reports a negative price handed to the rounder.
type InvalidPriceError struct {
	Price decimal.Decimal
}

func (e *InvalidPriceError) Error() string {
	return fmt.Sprintf("invalid price %s: price must not be negative", e.Price)
}

// InvalidCostError reports a non-positive cost price handed to the margin
// calculator.
type InvalidCostError struct {
	Cost decimal.Decimal
}

func (e *InvalidCostError) Error() string {
	return fmt.Sprintf("invalid cost price %s: cost must be positive", e.Cost)
}
