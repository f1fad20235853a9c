package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"facturacion-backend/models"
)

// Enhancement tags recorded on line items.
const (
	TagMarginPricing = "margin_pricing"
	tagUnitConverted = "unit_converted_%s_to_" + CanonicalUnit
)

// UnknownUnitWarning reports a unit token missing from the conversion table.
// The quantity passes through unconverted; a human should review the row.
type UnknownUnitWarning struct {
	ItemID string `json:"item_id"`
	Unit   string `json:"unit"`
}

// ItemError reports a line item the pricing run could not price. The item is
// annotated and left unpriced; the rest of the batch proceeds.
type ItemError struct {
	ItemID string `json:"item_id"`
	Err    string `json:"error"`
}

// Report summarizes one pricing run over an invoice's line items.
type Report struct {
	Status       models.PricingStatus `json:"pricing_status"`
	TotalItems   int                  `json:"total_items"`
	PricedItems  int                  `json:"priced_items"`
	FailedItems  int                  `json:"failed_items"`
	UnknownUnits []UnknownUnitWarning `json:"unknown_units"`
	Errors       []ItemError          `json:"errors"`
	Duplicates   []CandidatePair      `json:"duplicates"`
	Skipped      []SkippedComparison  `json:"skipped_comparisons"`
}

// Orchestrator runs the pricing pipeline over one invoice's line items:
// unit conversion, categorization, margin pricing, duplicate detection.
// It mutates the items in place; persistence is the caller's job, as is
// serializing concurrent runs against the same invoice.
type Orchestrator struct {
	units       *UnitConverter
	margins     *MarginCalculator
	duplicates  *DuplicateDetector
	categorizer Categorizer
}

// NewOrchestrator wires the pipeline from one config. A nil categorizer gets
// the keyword default.
func NewOrchestrator(cfg Config, categorizer Categorizer) *Orchestrator {
	if categorizer == nil {
		categorizer = NewKeywordCategorizer()
	}
	rounder := NewPriceRounder(cfg)
	return &Orchestrator{
		units:       NewUnitConverter(cfg),
		margins:     NewMarginCalculator(cfg, rounder),
		duplicates:  NewDuplicateDetector(cfg),
		categorizer: categorizer,
	}
}

// Process prices items against the tenant's historical line items. One bad
// row never aborts the batch: failures are annotated per item and reported.
func (o *Orchestrator) Process(items []*models.InvoiceLineItem, history []models.InvoiceLineItem) Report {
	report := Report{TotalItems: len(items)}

	unpriced, resolved := 0, 0
	for _, item := range items {
		o.convertUnits(item, &report)

		if !item.IsPriced {
			unpriced++
			if err := o.price(item); err != nil {
				item.PricingError = err.Error()
				report.Errors = append(report.Errors, ItemError{ItemID: item.Id, Err: err.Error()})
			} else {
				resolved++
			}
		}
		if item.IsPriced {
			report.PricedItems++
		} else {
			report.FailedItems++
		}

		dup := o.duplicates.FindDuplicates(item, history)
		report.Duplicates = append(report.Duplicates, dup.Pairs...)
		report.Skipped = append(report.Skipped, dup.Skipped...)
	}

	report.Status = status(unpriced, resolved)
	return report
}

func (o *Orchestrator) convertUnits(item *models.InvoiceLineItem, report *Report) {
	// Preserve the extracted values before any rewrite.
	if item.OriginalUnit == "" {
		item.OriginalUnit = item.Unit
	}
	if item.OriginalQuantity.IsZero() {
		item.OriginalQuantity = item.Quantity
	}

	conv := o.units.Convert(item.OriginalQuantity, item.OriginalUnit)
	// A persisted item that went through an earlier run already carries the
	// per-piece restatement; restating again would divide the price twice.
	restated := item.Unit == CanonicalUnit && item.UnitMultiplier.Equal(conv.Multiplier)
	item.UnitMultiplier = conv.Multiplier
	item.Quantity = conv.Quantity
	item.Unit = conv.Unit

	if !conv.Known {
		report.UnknownUnits = append(report.UnknownUnits, UnknownUnitWarning{
			ItemID: item.Id, Unit: item.OriginalUnit,
		})
		return
	}
	if conv.Multiplier.GreaterThan(decimal.NewFromInt(1)) && !restated {
		// The document quotes cost per original unit; keep cost per piece so
		// margins and duplicate price comparisons line up. Subtotal is
		// unchanged: quantity * unit price still matches the document.
		if item.UnitPrice.IsPositive() {
			item.UnitPrice = item.UnitPrice.Div(conv.Multiplier).Round(2)
		}
		item.EnhancementApplied = fmt.Sprintf(tagUnitConverted, item.OriginalUnit)
	}
}

func (o *Orchestrator) price(item *models.InvoiceLineItem) error {
	cat := o.categorizer.Categorize(item.Description)
	item.Category = cat.Name

	rec, err := o.margins.Recommend(item.UnitPrice, cat.Name)
	if err != nil {
		return err
	}
	item.SetSalePrice(rec.Price, TagMarginPricing)
	item.PricingError = ""
	return nil
}

// status classifies the run by the items that entered it unpriced: when none
// did there was nothing to price, regardless of how many items the invoice
// carries.
func status(unpriced, resolved int) models.PricingStatus {
	switch {
	case unpriced == 0:
		return models.PricingNotRequired
	case resolved == 0:
		return models.PricingPending
	case resolved < unpriced:
		return models.PricingPartial
	default:
		return models.PricingCompleted
	}
}

// Summary aggregates the sale side of an invoice's items for the review UI.
type Summary struct {
	TotalItems     int             `json:"total_items"`
	PricedItems    int             `json:"priced_items"`
	PendingItems   int             `json:"pending_items"`
	TotalCost      decimal.Decimal `json:"total_cost"`
	TotalSaleValue decimal.Decimal `json:"total_sale_value"`
	TotalProfit    decimal.Decimal `json:"total_profit"`
	AverageMarkup  decimal.Decimal `json:"average_markup"`
}

// Summarize computes cost/sale/profit totals over items. Unpriced items
// contribute cost only.
func Summarize(items []models.InvoiceLineItem) Summary {
	s := Summary{TotalItems: len(items)}
	for i := range items {
		item := &items[i]
		s.TotalCost = s.TotalCost.Add(item.Subtotal)
		if item.IsPriced && item.SalePrice != nil {
			s.PricedItems++
			s.TotalSaleValue = s.TotalSaleValue.Add(item.SalePrice.Mul(item.Quantity))
		}
	}
	s.PendingItems = s.TotalItems - s.PricedItems
	s.TotalProfit = s.TotalSaleValue.Sub(s.TotalCost)
	if s.PricedItems > 0 && s.TotalCost.IsPositive() {
		s.AverageMarkup = s.TotalProfit.Div(s.TotalCost).Mul(hundred).Round(2)
	}
	return s
}
