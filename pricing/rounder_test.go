package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundPinnedTable(t *testing.T) {
	rounder := NewPriceRounder(DefaultConfig())

	cases := []struct {
		in   int64
		want int64
	}{
		{10800, 11000}, // >= 10k: thousands
		{15300, 15000},
		{10499, 10000},
		{9800, 10000}, // >= 1k: five hundreds
		{1300, 1500},
		{1250, 1500}, // half up on the 500 step
		{1200, 1000},
		{450, 500}, // >= 100: hundreds
		{180, 200},
		{130, 100}, // just past the band boundary still rounds in hundreds
		{80, 100},  // < 100: fifties
		{60, 50},
		{0, 0},
	}
	for _, tc := range cases {
		got, err := rounder.Round(decimal.NewFromInt(tc.in))
		require.NoError(t, err)
		assert.True(t, got.Equal(decimal.NewFromInt(tc.want)), "%d: got %s, want %d", tc.in, got, tc.want)
	}
}

func TestRoundIdempotent(t *testing.T) {
	rounder := NewPriceRounder(DefaultConfig())

	for _, in := range []string{"0", "37", "99.99", "130", "1250", "9800", "10800", "43400", "123456.78"} {
		once, err := rounder.Round(decimal.RequireFromString(in))
		require.NoError(t, err)
		twice, err := rounder.Round(once)
		require.NoError(t, err)
		assert.True(t, twice.Equal(once), "round(round(%s)) = %s, want %s", in, twice, once)
	}
}

func TestRoundMonotonicWithinBand(t *testing.T) {
	rounder := NewPriceRounder(DefaultConfig())

	prev := decimal.Zero
	// Walk the >= 10k band in 100-peso increments.
	for p := int64(10000); p <= 50000; p += 100 {
		got, err := rounder.Round(decimal.NewFromInt(p))
		require.NoError(t, err)
		assert.True(t, got.GreaterThanOrEqual(prev), "rounding decreased at %d", p)
		prev = got
	}
}

func TestRoundNegativePriceFails(t *testing.T) {
	rounder := NewPriceRounder(DefaultConfig())

	_, err := rounder.Round(decimal.NewFromInt(-100))
	var priceErr *InvalidPriceError
	require.ErrorAs(t, err, &priceErr)
	assert.True(t, priceErr.Price.Equal(decimal.NewFromInt(-100)))
}

func TestRoundUp(t *testing.T) {
	rounder := NewPriceRounder(DefaultConfig())

	got, err := rounder.RoundUp(decimal.NewFromInt(10100))
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.NewFromInt(11000)))

	// Already on a step multiple: unchanged.
	got, err = rounder.RoundUp(decimal.NewFromInt(11000))
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.NewFromInt(11000)))
}
