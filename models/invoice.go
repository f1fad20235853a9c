package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InvoiceStatus tracks the extraction lifecycle (driven by the external OCR
// collaborator, not by this service).
type InvoiceStatus string

const (
	InvoiceUploaded   InvoiceStatus = "uploaded"
	InvoiceProcessing InvoiceStatus = "processing"
	InvoiceCompleted  InvoiceStatus = "completed"
	InvoiceFailed     InvoiceStatus = "failed"
)

// PricingStatus tracks the pricing workflow on top of a completed extraction.
type PricingStatus string

const (
	PricingNotRequired PricingStatus = "not_required"
	PricingPending     PricingStatus = "pending"
	PricingPartial     PricingStatus = "partial"
	PricingCompleted   PricingStatus = "completed"
	PricingConfirmed   PricingStatus = "confirmed"
)

// Invoice is a purchase invoice received from a supplier, with the line items
// the extraction service pulled out of the document.
type Invoice struct {
	Id            string        `json:"id" gorm:"primaryKey"`
	InvoiceNumber string        `json:"invoice_number" gorm:"index"`
	SupplierName  string        `json:"supplier_name"`
	SupplierNIT   string        `json:"supplier_nit"`
	IssueDate     *time.Time    `json:"issue_date"`
	Status        InvoiceStatus `json:"status" gorm:"type:varchar(20);default:'uploaded';index"`
	PricingStatus PricingStatus `json:"pricing_status" gorm:"type:varchar(20);default:'pending';index"`

	Items    []InvoiceLineItem `json:"line_items" gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`
	Subtotal decimal.Decimal   `json:"subtotal" gorm:"type:numeric(12,2)"`
	Total    decimal.Decimal   `json:"total" gorm:"type:numeric(12,2)"`

	OriginalFilename string    `json:"original_filename"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (invoice *Invoice) BeforeCreate(tx *gorm.DB) (err error) {
	// UUID version 4
	if invoice.Id == "" {
		invoice.Id = uuid.NewString()
	}
	return
}

// InvoiceLineItem is one product row of a purchase invoice.
//
// OriginalQuantity/OriginalUnit are the values extracted verbatim from the
// document and are never rewritten; Quantity/Unit hold the converted values
// (canonical PCS whenever UnitMultiplier > 1).
type InvoiceLineItem struct {
	Id        string `json:"id" gorm:"primaryKey"`
	InvoiceID string `json:"-" gorm:"index"`

	ItemNumber  int    `json:"item_number"`
	ProductCode string `json:"product_code" gorm:"index"`
	Description string `json:"description" gorm:"not null"`
	Reference   string `json:"reference"`

	OriginalQuantity decimal.Decimal `json:"original_quantity" gorm:"type:numeric(15,4)"`
	OriginalUnit     string          `json:"original_unit" gorm:"type:varchar(20)"`
	UnitMultiplier   decimal.Decimal `json:"unit_multiplier" gorm:"type:numeric(10,2);default:1"`
	Quantity         decimal.Decimal `json:"quantity" gorm:"type:numeric(15,4)"`
	Unit             string          `json:"unit" gorm:"type:varchar(20)"`

	// Cost side (from the document).
	UnitPrice decimal.Decimal `json:"unit_price" gorm:"type:numeric(12,2)"`
	Subtotal  decimal.Decimal `json:"subtotal" gorm:"type:numeric(12,2)"`

	// Sale side (set by the pricing workflow or manual override).
	SalePrice        *decimal.Decimal `json:"sale_price" gorm:"type:numeric(12,2)"`
	MarkupPercentage *decimal.Decimal `json:"markup_percentage" gorm:"type:numeric(8,2)"`
	IsPriced         bool             `json:"is_priced"`
	Category         string           `json:"category" gorm:"type:varchar(40)"`

	EnhancementApplied string `json:"enhancement_applied" gorm:"type:varchar(100)"`
	PricingError       string `json:"pricing_error" gorm:"type:varchar(255)"`
}

func (item *InvoiceLineItem) BeforeCreate(tx *gorm.DB) (err error) {
	// UUID version 4
	if item.Id == "" {
		item.Id = uuid.NewString()
	}
	return
}

// SetSalePrice updates the sale side keeping the derived fields consistent.
func (item *InvoiceLineItem) SetSalePrice(price decimal.Decimal, tag string) {
	markup := decimal.Zero
	if item.UnitPrice.IsPositive() {
		markup = price.Sub(item.UnitPrice).
			Div(item.UnitPrice).
			Mul(decimal.NewFromInt(100)).
			Round(2)
	}
	item.SalePrice = &price
	item.MarkupPercentage = &markup
	item.IsPriced = true
	if tag != "" {
		item.EnhancementApplied = tag
	}
}
