package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCalculator() *MarginCalculator {
	cfg := DefaultConfig()
	return NewMarginCalculator(cfg, NewPriceRounder(cfg))
}

func TestRecommendShoes(t *testing.T) {
	calc := newCalculator()

	rec, err := calc.Recommend(decimal.NewFromInt(28000), "shoes")
	require.NoError(t, err)

	// 28000 * 1.55 = 43400, rounded to the thousand step.
	assert.True(t, rec.Price.Equal(decimal.NewFromInt(43000)), "got %s", rec.Price)
	assert.True(t, rec.Price.Mod(decimal.NewFromInt(1000)).IsZero())

	markup, _ := rec.MarkupPercentage.Float64()
	assert.InDelta(t, 53.57, markup, 0.01)
	assert.GreaterOrEqual(t, markup, 53.0)
	assert.LessOrEqual(t, markup, 56.0)

	assert.Equal(t, 0.90, rec.Confidence)
	assert.Contains(t, rec.Reasoning, "markup on cost")
}

func TestRecommendUnknownCategoryFallsBack(t *testing.T) {
	calc := newCalculator()

	rec, err := calc.Recommend(decimal.NewFromInt(10000), "vehicles")
	require.NoError(t, err)

	assert.Equal(t, "general", rec.Category)
	assert.LessOrEqual(t, rec.Confidence, 0.5)
	// 50% default margin: 15000.
	assert.True(t, rec.Price.Equal(decimal.NewFromInt(15000)), "got %s", rec.Price)
}

func TestRecommendNonPositiveCostFails(t *testing.T) {
	calc := newCalculator()

	for _, cost := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-500)} {
		_, err := calc.Recommend(cost, "shoes")
		var costErr *InvalidCostError
		require.ErrorAs(t, err, &costErr, "cost %s", cost)
		assert.True(t, costErr.Cost.Equal(cost))
	}
}

func TestRecommendPriceAlwaysAboveCost(t *testing.T) {
	calc := newCalculator()

	costs := []string{"10", "49", "120", "980", "1250", "9999", "28000", "150000", "999999.99"}
	categories := []string{"shoes", "clothing", "electronics", "general", "unknown-cat"}
	for _, c := range costs {
		cost := decimal.RequireFromString(c)
		for _, category := range categories {
			rec, err := calc.Recommend(cost, category)
			require.NoError(t, err)
			assert.True(t, rec.Price.GreaterThan(cost),
				"%s/%s: price %s not above cost", c, category, rec.Price)

			margin, _ := rec.MarginPercentage.Float64()
			assert.GreaterOrEqual(t, margin, 0.0)
			assert.Less(t, margin, 100.0)
		}
	}
}

func TestRecommendRespectsMarkupClamp(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Margins["giveaway"] = MarginRule{Margin: decimal.NewFromInt(5), Confidence: 0.9}
	cfg.Margins["luxury"] = MarginRule{Margin: decimal.NewFromInt(500), Confidence: 0.9}
	calc := NewMarginCalculator(cfg, NewPriceRounder(cfg))

	rec, err := calc.Recommend(decimal.NewFromInt(100000), "giveaway")
	require.NoError(t, err)
	// Clamped up to the 20% minimum markup.
	assert.True(t, rec.Price.Equal(decimal.NewFromInt(120000)), "got %s", rec.Price)

	rec, err = calc.Recommend(decimal.NewFromInt(100000), "luxury")
	require.NoError(t, err)
	// Clamped down to the 200% maximum markup.
	assert.True(t, rec.Price.Equal(decimal.NewFromInt(300000)), "got %s", rec.Price)
}

func TestKeywordCategorizer(t *testing.T) {
	categorizer := NewKeywordCategorizer()

	cases := []struct {
		description string
		want        string
	}{
		{"SANDALIA DAMA TALLA 38", "shoes"},
		{"Camiseta polo algodón manga corta", "clothing"},
		{"Cargador USB tipo C Samsung", "electronics"},
		{"CREMA FACIAL HIDRATANTE", "beauty"},
		{"Balón de fútbol No. 5", "sports"},
		{"caja misteriosa", "general"},
		{"", "general"},
	}
	for _, tc := range cases {
		got := categorizer.Categorize(tc.description)
		assert.Equal(t, tc.want, got.Name, "description %q", tc.description)
		assert.GreaterOrEqual(t, got.Confidence, 0.0)
		assert.LessOrEqual(t, got.Confidence, 1.0)
	}
}
