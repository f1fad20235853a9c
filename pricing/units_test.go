package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertKnownUnits(t *testing.T) {
	converter := NewUnitConverter(DefaultConfig())

	cases := []struct {
		unit       string
		quantity   int64
		want       int64
		multiplier int64
	}{
		{"DOC", 3, 36, 12},
		{"DOCENA", 1, 12, 12},
		{"PAR", 5, 10, 2},
		{"PARES", 2, 4, 2},
		{"GRS", 1, 144, 144},
		{"UND", 7, 7, 1},
		{"PCS", 9, 9, 1},
	}
	for _, tc := range cases {
		conv := converter.Convert(decimal.NewFromInt(tc.quantity), tc.unit)
		require.True(t, conv.Known, "unit %s should be known", tc.unit)
		assert.True(t, conv.Quantity.Equal(decimal.NewFromInt(tc.want)), "%s: got %s", tc.unit, conv.Quantity)
		assert.True(t, conv.Multiplier.Equal(decimal.NewFromInt(tc.multiplier)))
	}
}

func TestConvertCanonicalUnitName(t *testing.T) {
	converter := NewUnitConverter(DefaultConfig())

	conv := converter.Convert(decimal.NewFromInt(2), "DOC")
	assert.Equal(t, CanonicalUnit, conv.Unit)

	// Multiplier 1 keeps the original unit.
	conv = converter.Convert(decimal.NewFromInt(2), "KG")
	assert.Equal(t, "KG", conv.Unit)
}

func TestConvertIsCaseAndAccentInsensitive(t *testing.T) {
	converter := NewUnitConverter(DefaultConfig())

	for _, unit := range []string{"doc", "Doc", "DOCENA", "docéna", " doc "} {
		conv := converter.Convert(decimal.NewFromInt(1), unit)
		require.True(t, conv.Known, "unit %q should resolve", unit)
		assert.True(t, conv.Quantity.Equal(decimal.NewFromInt(12)))
	}
}

func TestConvertUnknownUnitEchoesInput(t *testing.T) {
	converter := NewUnitConverter(DefaultConfig())

	qty := decimal.RequireFromString("3.5")
	conv := converter.Convert(qty, "BULTO")

	assert.False(t, conv.Known)
	assert.True(t, conv.Quantity.Equal(qty))
	assert.True(t, conv.Multiplier.Equal(decimal.NewFromInt(1)))
	assert.Equal(t, "BULTO", conv.Unit)
}

func TestConvertRejectsFractionalMultipliers(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Units["media"] = decimal.RequireFromString("0.5")
	converter := NewUnitConverter(cfg)

	conv := converter.Convert(decimal.NewFromInt(4), "MEDIA")
	assert.False(t, conv.Known, "multipliers below 1 must not enter the table")
	assert.True(t, conv.Quantity.Equal(decimal.NewFromInt(4)))
	assert.True(t, conv.Multiplier.Equal(decimal.NewFromInt(1)))
}

func TestConvertTenantOverride(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Units["caja"] = decimal.NewFromInt(24)
	converter := NewUnitConverter(cfg)

	conv := converter.Convert(decimal.NewFromInt(2), "CAJA")
	require.True(t, conv.Known)
	assert.True(t, conv.Quantity.Equal(decimal.NewFromInt(48)))
	assert.Equal(t, CanonicalUnit, conv.Unit)
}
