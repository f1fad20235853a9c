package controllers

import (
	"encoding/json"

	"facturacion-backend/database"
	"facturacion-backend/middlewares"
	"facturacion-backend/models"
	"facturacion-backend/pricing"
	"facturacion-backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// historyCap bounds how many historical line items a duplicate scan compares
// against when the caller doesn't pass ?limit=.
const historyCap = 500

// loadPricingConfig builds the tenant's pricing config: built-in defaults
// overlaid with whatever tables the tenant stored in pricing_settings.
func loadPricingConfig(tenantDB *gorm.DB) pricing.Config {
	cfg := pricing.DefaultConfig()

	var settings models.PricingSettings
	if err := tenantDB.First(&settings).Error; err != nil {
		return cfg
	}

	if len(settings.UnitTable) > 0 {
		var units map[string]decimal.Decimal
		if json.Unmarshal(settings.UnitTable, &units) == nil {
			for token, m := range units {
				cfg.Units[token] = m
			}
		}
	}
	if len(settings.MarginTable) > 0 {
		var margins map[string]pricing.MarginRule
		if json.Unmarshal(settings.MarginTable, &margins) == nil {
			for category, rule := range margins {
				cfg.Margins[category] = rule
			}
		}
	}
	if len(settings.RoundingSteps) > 0 {
		var bands []pricing.Band
		if json.Unmarshal(settings.RoundingSteps, &bands) == nil && len(bands) > 0 {
			cfg.Bands = bands
		}
	}
	if settings.DuplicateThreshold > 0 {
		cfg.DuplicateThreshold = settings.DuplicateThreshold
	}
	if settings.PossibleThreshold > 0 {
		cfg.PossibleThreshold = settings.PossibleThreshold
	}
	return cfg
}

// tenantDBFromCtx resolves the request's tenant handle, normally the TX
// opened by middlewares.TenantTx. Returning an error from a handler rolls
// that TX back.
func tenantDBFromCtx(c *fiber.Ctx) (*gorm.DB, error) {
	tenantDB, err := database.GetTenantDB(c)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Could not retrieve tenant schema")
	}
	return tenantDB, nil
}

// invoiceStatus derives the stored pricing status from the items' current
// state.
func invoiceStatus(items []models.InvoiceLineItem) models.PricingStatus {
	priced := 0
	for i := range items {
		if items[i].IsPriced {
			priced++
		}
	}
	switch {
	case len(items) == 0:
		return models.PricingNotRequired
	case priced == 0:
		return models.PricingPending
	case priced == len(items):
		return models.PricingCompleted
	default:
		return models.PricingPartial
	}
}

func loadInvoice(tenantDB *gorm.DB, id string) (*models.Invoice, error) {
	var invoice models.Invoice
	if err := tenantDB.Preload("Items").First(&invoice, "id = ?", id).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Invoice not found")
	}
	return &invoice, nil
}

// loadHistory fetches the tenant's historical line items for duplicate
// comparison, excluding the invoice under review.
func loadHistory(tenantDB *gorm.DB, excludeInvoiceID string, limit int) []models.InvoiceLineItem {
	var history []models.InvoiceLineItem
	tenantDB.Where("invoice_id <> ?", excludeInvoiceID).
		Order("invoice_id").Limit(limit).
		Find(&history)
	return history
}

// GetPricing returns the pricing view of an invoice: items with their sale
// side plus the cost/sale/profit summary.
func GetPricing(c *fiber.Ctx) error {
	tenantDB, err := tenantDBFromCtx(c)
	if err != nil {
		return err
	}
	invoice, err := loadInvoice(tenantDB, c.Params("id"))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"invoice_id":     invoice.Id,
		"invoice_number": invoice.InvoiceNumber,
		"supplier_name":  invoice.SupplierName,
		"pricing_status": invoice.PricingStatus,
		"line_items":     invoice.Items,
		"summary":        pricing.Summarize(invoice.Items),
	})
}

// AutoPricing runs the pricing pipeline (unit conversion, categorization,
// margin pricing, duplicate scan) over the invoice's unpriced items.
func AutoPricing(c *fiber.Ctx) error {
	tenantDB, err := tenantDBFromCtx(c)
	if err != nil {
		return err
	}
	invoice, err := loadInvoice(tenantDB, c.Params("id"))
	if err != nil {
		return err
	}
	if invoice.PricingStatus == models.PricingConfirmed {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": "Pricing already confirmed; items are locked",
		})
	}

	cfg := loadPricingConfig(tenantDB)
	orchestrator := pricing.NewOrchestrator(cfg, nil)
	history := loadHistory(tenantDB, invoice.Id, historyCap)

	items := make([]*models.InvoiceLineItem, len(invoice.Items))
	for i := range invoice.Items {
		items[i] = &invoice.Items[i]
	}
	report := orchestrator.Process(items, history)

	for i := range invoice.Items {
		if err := tenantDB.Save(&invoice.Items[i]).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not save line items")
		}
	}
	// The stored status reflects the invoice as a whole, not just this run:
	// repricing an already completed invoice keeps it completed.
	status := invoiceStatus(invoice.Items)
	invoice.PricingStatus = status
	if err := tenantDB.Model(&models.Invoice{}).Where("id = ?", invoice.Id).
		Update("pricing_status", status).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Could not update invoice")
	}

	return c.JSON(fiber.Map{
		"invoice_id": invoice.Id,
		"report":     report,
		"summary":    pricing.Summarize(invoice.Items),
	})
}

// LineItemPricingUpdate is one manual price override.
type LineItemPricingUpdate struct {
	LineItemID string          `json:"line_item_id" validate:"required,uuid4"`
	SalePrice  decimal.Decimal `json:"sale_price"`
}

// PricingUpdateInput is the manual pricing request body.
type PricingUpdateInput struct {
	Items []LineItemPricingUpdate `json:"line_items" validate:"required,min=1,dive"`
}

// SetPricing applies manual sale prices to individual line items and
// recomputes the invoice's pricing status.
func SetPricing(c *fiber.Ctx) error {
	var input PricingUpdateInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}
	for _, upd := range input.Items {
		if !upd.SalePrice.IsPositive() {
			return &pricing.InvalidPriceError{Price: upd.SalePrice}
		}
	}

	tenantDB, err := tenantDBFromCtx(c)
	if err != nil {
		return err
	}
	invoice, err := loadInvoice(tenantDB, c.Params("id"))
	if err != nil {
		return err
	}
	if invoice.PricingStatus == models.PricingConfirmed {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": "Pricing already confirmed; items are locked",
		})
	}

	byID := make(map[string]*models.InvoiceLineItem, len(invoice.Items))
	for i := range invoice.Items {
		byID[invoice.Items[i].Id] = &invoice.Items[i]
	}

	for _, upd := range input.Items {
		item, ok := byID[upd.LineItemID]
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "Line item not found on invoice: "+upd.LineItemID)
		}
		item.SetSalePrice(upd.SalePrice.Round(2), "manual_pricing")
		item.PricingError = ""
		if err := tenantDB.Save(item).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not save line item")
		}
	}

	status := invoiceStatus(invoice.Items)
	invoice.PricingStatus = status
	if err := tenantDB.Model(&models.Invoice{}).Where("id = ?", invoice.Id).
		Update("pricing_status", status).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Could not update invoice")
	}

	return c.JSON(fiber.Map{
		"invoice_id":     invoice.Id,
		"pricing_status": status,
		"summary":        pricing.Summarize(invoice.Items),
	})
}

// ConfirmPricing locks a fully priced invoice. Inventory updates happen in
// the downstream system that consumes the confirmation.
func ConfirmPricing(c *fiber.Ctx) error {
	tenantDB, err := tenantDBFromCtx(c)
	if err != nil {
		return err
	}
	invoice, err := loadInvoice(tenantDB, c.Params("id"))
	if err != nil {
		return err
	}
	if invoice.PricingStatus == models.PricingConfirmed {
		return c.JSON(fiber.Map{"invoice_id": invoice.Id, "pricing_status": invoice.PricingStatus})
	}
	if invoice.PricingStatus != models.PricingCompleted {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message":        "All line items must be priced before confirmation",
			"pricing_status": invoice.PricingStatus,
		})
	}

	if err := tenantDB.Model(&models.Invoice{}).Where("id = ?", invoice.Id).
		Update("pricing_status", models.PricingConfirmed).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Could not confirm pricing")
	}

	return c.JSON(fiber.Map{
		"invoice_id":     invoice.Id,
		"pricing_status": models.PricingConfirmed,
		"summary":        pricing.Summarize(invoice.Items),
	})
}

// GetDuplicates scans the invoice's items against the tenant's purchase
// history and returns ranked duplicate candidates.
func GetDuplicates(c *fiber.Ctx) error {
	tenantDB, err := tenantDBFromCtx(c)
	if err != nil {
		return err
	}
	invoice, err := loadInvoice(tenantDB, c.Params("id"))
	if err != nil {
		return err
	}

	cfg := loadPricingConfig(tenantDB)
	detector := pricing.NewDuplicateDetector(cfg)
	limit := utils.ParseIntDefault(c.Query("limit"), historyCap)
	history := loadHistory(tenantDB, invoice.Id, limit)

	var pairs []pricing.CandidatePair
	var skipped []pricing.SkippedComparison
	for i := range invoice.Items {
		report := detector.FindDuplicates(&invoice.Items[i], history)
		pairs = append(pairs, report.Pairs...)
		skipped = append(skipped, report.Skipped...)
	}

	return c.JSON(fiber.Map{
		"invoice_id": invoice.Id,
		"pairs":      pairs,
		"skipped":    skipped,
	})
}

// GetPricingSettings returns the tenant's stored pricing tables (empty tables
// mean the defaults apply).
func GetPricingSettings(c *fiber.Ctx) error {
	tenantDB, err := tenantDBFromCtx(c)
	if err != nil {
		return err
	}

	var settings models.PricingSettings
	tenantDB.FirstOrCreate(&settings, models.PricingSettings{ID: 1})
	return c.JSON(settings)
}

// PricingSettingsInput is a partial update of the tenant's pricing tables.
type PricingSettingsInput struct {
	UnitTable          *datatypes.JSON `json:"unit_table"`
	MarginTable        *datatypes.JSON `json:"margin_table"`
	RoundingSteps      *datatypes.JSON `json:"rounding_steps"`
	DuplicateThreshold *float64        `json:"duplicate_threshold"`
	PossibleThreshold  *float64        `json:"possible_threshold"`
}

// UpdatePricingSettings patches only the tables present in the request body.
func UpdatePricingSettings(c *fiber.Ctx) error {
	var input PricingSettingsInput
	if err := c.BodyParser(&input); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if input.DuplicateThreshold != nil && (*input.DuplicateThreshold <= 0 || *input.DuplicateThreshold > 1) {
		return fiber.NewError(fiber.StatusBadRequest, "duplicate_threshold must be in (0, 1]")
	}
	if input.PossibleThreshold != nil && (*input.PossibleThreshold <= 0 || *input.PossibleThreshold > 1) {
		return fiber.NewError(fiber.StatusBadRequest, "possible_threshold must be in (0, 1]")
	}

	tenantDB, err := tenantDBFromCtx(c)
	if err != nil {
		return err
	}

	var settings models.PricingSettings
	tenantDB.FirstOrCreate(&settings, models.PricingSettings{ID: 1})

	updates := utils.UpdatesFromPtrDTO(&input, nil)
	if len(updates) == 0 {
		return c.JSON(settings)
	}

	if err := tenantDB.Model(&settings).Updates(updates).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Could not update settings")
	}

	tenantDB.First(&settings, settings.ID)
	return c.JSON(settings)
}
