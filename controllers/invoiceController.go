package controllers

import (
	"time"

	"facturacion-backend/database"
	"facturacion-backend/middlewares"
	"facturacion-backend/models"
	"facturacion-backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// LineItemInput is one extracted row as delivered by the OCR collaborator.
type LineItemInput struct {
	ItemNumber  int             `json:"item_number"`
	ProductCode string          `json:"product_code"`
	Description string          `json:"description" validate:"required"`
	Reference   string          `json:"reference"`
	Quantity    decimal.Decimal `json:"quantity"`
	Unit        string          `json:"unit"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// InvoiceInput is the extraction result for one uploaded document.
type InvoiceInput struct {
	InvoiceNumber    string          `json:"invoice_number" validate:"required"`
	SupplierName     string          `json:"supplier_name"`
	SupplierNIT      string          `json:"supplier_nit"`
	IssueDate        *time.Time      `json:"issue_date"`
	OriginalFilename string          `json:"original_filename"`
	Items            []LineItemInput `json:"line_items" validate:"required,min=1,dive"`
}

// CreateInvoice ingests an extracted purchase invoice. Extraction itself
// happens upstream; by the time this endpoint is called the document is done.
func CreateInvoice(c *fiber.Ctx) error {
	var input InvoiceInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}
	utils.NormalizeDTO(&input)

	tenantDB, err := database.GetTenantDB(c)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Could not retrieve tenant schema")
	}

	subtotal := decimal.Zero
	items := make([]models.InvoiceLineItem, 0, len(input.Items))
	for i, in := range input.Items {
		if in.Quantity.IsNegative() || in.UnitPrice.IsNegative() || in.Subtotal.IsNegative() {
			return c.Status(400).JSON(fiber.Map{
				"message": "Negative quantity or price at index", "index": i,
			})
		}
		lineSubtotal := in.Subtotal
		if lineSubtotal.IsZero() {
			lineSubtotal = utils.Money(in.Quantity.Mul(in.UnitPrice))
		}
		itemNumber := in.ItemNumber
		if itemNumber == 0 {
			itemNumber = i + 1
		}
		items = append(items, models.InvoiceLineItem{
			ItemNumber:  itemNumber,
			ProductCode: in.ProductCode,
			Description: in.Description,
			Reference:   in.Reference,
			// Extracted values are preserved verbatim; conversion happens in
			// the pricing run.
			OriginalQuantity: in.Quantity,
			OriginalUnit:     in.Unit,
			UnitMultiplier:   decimal.NewFromInt(1),
			Quantity:         in.Quantity,
			Unit:             in.Unit,
			UnitPrice:        in.UnitPrice,
			Subtotal:         lineSubtotal,
		})
		subtotal = subtotal.Add(lineSubtotal)
	}

	invoice := models.Invoice{
		InvoiceNumber:    input.InvoiceNumber,
		SupplierName:     input.SupplierName,
		SupplierNIT:      input.SupplierNIT,
		IssueDate:        input.IssueDate,
		OriginalFilename: input.OriginalFilename,
		Status:           models.InvoiceCompleted,
		PricingStatus:    models.PricingPending,
		Items:            items,
		Subtotal:         subtotal,
		Total:            subtotal,
	}

	// The request TX commits at the middleware; an error rolls it back.
	if err := tenantDB.Create(&invoice).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Could not create invoice")
	}

	return c.Status(201).JSON(invoice)
}

func GetInvoices(c *fiber.Ctx) error {
	tenantDB, err := database.GetTenantDB(c)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Could not retrieve tenant schema")
	}

	limit := utils.ParseIntDefault(c.Query("limit"), 50)
	query := tenantDB.Order("created_at DESC").Limit(limit)
	if ps := c.Query("pricing_status"); ps != "" {
		query = query.Where("pricing_status = ?", ps)
	}

	var invoices []models.Invoice
	if err := query.Find(&invoices).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Could not list invoices")
	}

	return c.JSON(fiber.Map{
		"invoices": invoices,
		"message":  "success",
	})
}

func GetInvoice(c *fiber.Ctx) error {
	tenantDB, err := database.GetTenantDB(c)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Could not retrieve tenant schema")
	}

	var invoice models.Invoice
	if err := tenantDB.Preload("Items").First(&invoice, "id = ?", c.Params("id")).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"message": "Invoice not found"})
	}

	return c.JSON(invoice)
}
