package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"facturacion-backend/models"
)

func extractedItem(id, description, unit string, quantity, unitPrice int64) *models.InvoiceLineItem {
	qty := decimal.NewFromInt(quantity)
	price := decimal.NewFromInt(unitPrice)
	return &models.InvoiceLineItem{
		Id:               id,
		Description:      description,
		OriginalQuantity: qty,
		OriginalUnit:     unit,
		UnitMultiplier:   decimal.NewFromInt(1),
		Quantity:         qty,
		Unit:             unit,
		UnitPrice:        price,
		Subtotal:         qty.Mul(price),
	}
}

func TestProcessPartialFailureIsolation(t *testing.T) {
	orchestrator := NewOrchestrator(DefaultConfig(), nil)

	good := extractedItem("i1", "Sandalia dama talla 38", "DOC", 2, 240000)
	unknownUnit := extractedItem("i2", "Camiseta polo algodón", "BULTO", 5, 8000)
	badCost := extractedItem("i3", "Gorra deportiva", "UND", 10, 0)

	report := orchestrator.Process([]*models.InvoiceLineItem{good, unknownUnit, badCost}, nil)

	assert.Equal(t, models.PricingPartial, report.Status)
	assert.Equal(t, 3, report.TotalItems)
	assert.Equal(t, 2, report.PricedItems)
	assert.Equal(t, 1, report.FailedItems)

	// Exactly one unknown unit, reported not raised.
	require.Len(t, report.UnknownUnits, 1)
	assert.Equal(t, "i2", report.UnknownUnits[0].ItemID)
	assert.Equal(t, "BULTO", report.UnknownUnits[0].Unit)
	assert.True(t, unknownUnit.IsPriced, "unknown unit is non-fatal")
	// The margin run tags the item, but no conversion tag was written.
	assert.Equal(t, TagMarginPricing, unknownUnit.EnhancementApplied)
	assert.True(t, unknownUnit.UnitMultiplier.Equal(decimal.NewFromInt(1)))
	assert.Equal(t, "BULTO", unknownUnit.Unit)

	// Exactly one cost failure, annotated on the item.
	require.Len(t, report.Errors, 1)
	assert.Equal(t, "i3", report.Errors[0].ItemID)
	assert.False(t, badCost.IsPriced)
	assert.NotEmpty(t, badCost.PricingError)
	assert.Nil(t, badCost.SalePrice)

	assert.True(t, good.IsPriced)
}

func TestProcessConvertsUnits(t *testing.T) {
	orchestrator := NewOrchestrator(DefaultConfig(), nil)

	// 2 dozen sandals at 240.000/dozen.
	item := extractedItem("i1", "Sandalia dama", "DOC", 2, 240000)
	subtotal := item.Subtotal

	orchestrator.Process([]*models.InvoiceLineItem{item}, nil)

	assert.True(t, item.Quantity.Equal(decimal.NewFromInt(24)))
	assert.Equal(t, CanonicalUnit, item.Unit)
	assert.True(t, item.UnitMultiplier.Equal(decimal.NewFromInt(12)))
	// Originals preserved for audit.
	assert.True(t, item.OriginalQuantity.Equal(decimal.NewFromInt(2)))
	assert.Equal(t, "DOC", item.OriginalUnit)
	// Cost restated per piece; line subtotal unchanged.
	assert.True(t, item.UnitPrice.Equal(decimal.NewFromInt(20000)))
	assert.True(t, item.Quantity.Mul(item.UnitPrice).Equal(subtotal))
	// Converted-quantity invariant.
	assert.True(t, item.Quantity.Equal(item.OriginalQuantity.Mul(item.UnitMultiplier)))
}

func TestProcessSetsSaleSide(t *testing.T) {
	orchestrator := NewOrchestrator(DefaultConfig(), nil)

	item := extractedItem("i1", "Sandalia dama talla 38", "UND", 10, 28000)
	report := orchestrator.Process([]*models.InvoiceLineItem{item}, nil)

	assert.Equal(t, models.PricingCompleted, report.Status)
	require.True(t, item.IsPriced)
	require.NotNil(t, item.SalePrice)
	assert.True(t, item.SalePrice.Equal(decimal.NewFromInt(43000)), "got %s", item.SalePrice)
	assert.Equal(t, "shoes", item.Category)
	assert.Equal(t, TagMarginPricing, item.EnhancementApplied)

	require.NotNil(t, item.MarkupPercentage)
	markup, _ := item.MarkupPercentage.Float64()
	assert.InDelta(t, 53.57, markup, 0.01)
}

func TestProcessSkipsAlreadyPricedItems(t *testing.T) {
	orchestrator := NewOrchestrator(DefaultConfig(), nil)

	item := extractedItem("i1", "Sandalia dama", "UND", 10, 28000)
	manual := decimal.NewFromInt(40000)
	item.SetSalePrice(manual, "manual_pricing")

	report := orchestrator.Process([]*models.InvoiceLineItem{item}, nil)

	// Nothing entered the run unpriced, so nothing was required of it.
	assert.Equal(t, models.PricingNotRequired, report.Status)
	assert.Equal(t, 1, report.PricedItems)
	assert.True(t, item.SalePrice.Equal(manual), "manual price must not be overwritten")
	assert.Equal(t, "manual_pricing", item.EnhancementApplied)

	// A pre-priced item alongside an unpriced one still completes the run.
	pending := extractedItem("i2", "Gorra deportiva", "UND", 5, 8000)
	report = orchestrator.Process([]*models.InvoiceLineItem{item, pending}, nil)
	assert.Equal(t, models.PricingCompleted, report.Status)
	assert.True(t, pending.IsPriced)
}

func TestProcessRerunKeepsConvertedPrices(t *testing.T) {
	orchestrator := NewOrchestrator(DefaultConfig(), nil)

	item := extractedItem("i1", "Sandalia dama", "DOC", 2, 240000)
	subtotal := item.Subtotal

	orchestrator.Process([]*models.InvoiceLineItem{item}, nil)
	require.True(t, item.UnitPrice.Equal(decimal.NewFromInt(20000)))
	firstSale := *item.SalePrice

	// A partial invoice is corrected and repriced; the persisted item is
	// already per piece and must not be restated again.
	orchestrator.Process([]*models.InvoiceLineItem{item}, nil)

	assert.True(t, item.UnitPrice.Equal(decimal.NewFromInt(20000)), "got %s", item.UnitPrice)
	assert.True(t, item.Quantity.Equal(decimal.NewFromInt(24)))
	assert.True(t, item.Quantity.Mul(item.UnitPrice).Equal(subtotal))
	assert.True(t, item.SalePrice.Equal(firstSale))
	// The second run sees a priced item; the earlier tag survives.
	assert.Equal(t, TagMarginPricing, item.EnhancementApplied)
}

func TestProcessReportsDuplicatesAgainstHistory(t *testing.T) {
	orchestrator := NewOrchestrator(DefaultConfig(), nil)

	candidate := extractedItem("i1", "Nike AirMax 42", "UND", 5, 90000)
	history := []models.InvoiceLineItem{
		*extractedItem("h1", "Nike Air Max shoes size 42", "UND", 3, 95000),
	}

	report := orchestrator.Process([]*models.InvoiceLineItem{candidate}, history)

	require.Len(t, report.Duplicates, 1)
	assert.True(t, report.Duplicates[0].IsDuplicate)
	assert.Equal(t, RecommendBetterSupplier, report.Duplicates[0].Recommendation)
}

func TestProcessStatusTransitions(t *testing.T) {
	orchestrator := NewOrchestrator(DefaultConfig(), nil)

	report := orchestrator.Process(nil, nil)
	assert.Equal(t, models.PricingNotRequired, report.Status)

	allBad := []*models.InvoiceLineItem{
		extractedItem("i1", "Gorra", "UND", 1, 0),
		extractedItem("i2", "Bolso", "UND", 1, 0),
	}
	report = orchestrator.Process(allBad, nil)
	assert.Equal(t, models.PricingPending, report.Status)

	allGood := []*models.InvoiceLineItem{
		extractedItem("i3", "Gorra", "UND", 1, 5000),
		extractedItem("i4", "Bolso", "UND", 1, 12000),
	}
	report = orchestrator.Process(allGood, nil)
	assert.Equal(t, models.PricingCompleted, report.Status)
}

func TestSummarize(t *testing.T) {
	priced := *extractedItem("i1", "Sandalia", "UND", 10, 20000)
	priced.SetSalePrice(decimal.NewFromInt(30000), TagMarginPricing)
	pending := *extractedItem("i2", "Gorra", "UND", 5, 8000)

	s := Summarize([]models.InvoiceLineItem{priced, pending})

	assert.Equal(t, 2, s.TotalItems)
	assert.Equal(t, 1, s.PricedItems)
	assert.Equal(t, 1, s.PendingItems)
	// Cost: 10*20000 + 5*8000; sale: 10*30000.
	assert.True(t, s.TotalCost.Equal(decimal.NewFromInt(240000)))
	assert.True(t, s.TotalSaleValue.Equal(decimal.NewFromInt(300000)))
	assert.True(t, s.TotalProfit.Equal(decimal.NewFromInt(60000)))
	assert.True(t, s.AverageMarkup.Equal(decimal.NewFromInt(25)))
}
