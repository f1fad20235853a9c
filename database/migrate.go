package database

import (
	"fmt"

	"facturacion-backend/models"

	"gorm.io/gorm"
)

// MigrateTenantSchema applies (idempotent) schema migrations for a single tenant schema.
// It pins search_path to the tenant and performs:
// - AutoMigrate (tables/columns)
// - Money/quantity column types (NUMERIC)
// - Indexes (line items by invoice and product code, invoices by pricing status)
// - Basic CHECK constraints on the pricing invariants
// - Idempotency keys table + unique index
func MigrateTenantSchema(schema string) error {
	if schema == "" {
		return fmt.Errorf("schema name is empty")
	}

	return DB.Transaction(func(tx *gorm.DB) error {
		// Pin the tenant schema for this transaction
		if err := tx.Exec(`SET search_path = "` + schema + `", public`).Error; err != nil {
			return fmt.Errorf("set search_path failed: %w", err)
		}

		// --- AutoMigrate tables/columns/index tags (non-destructive) ---
		if err := tx.AutoMigrate(
			&models.Supplier{},
			&models.Invoice{},
			&models.InvoiceLineItem{},
			&models.PricingSettings{},
			&models.IdempotencyKey{},
		); err != nil {
			return fmt.Errorf("tenant automigrate failed: %w", err)
		}

		// --- Enforce money/quantity column types (idempotent ALTERs) ---
		alters := []string{
			`ALTER TABLE invoices           ALTER COLUMN subtotal          TYPE numeric(12,2)`,
			`ALTER TABLE invoices           ALTER COLUMN total             TYPE numeric(12,2)`,
			`ALTER TABLE invoice_line_items ALTER COLUMN original_quantity TYPE numeric(15,4)`,
			`ALTER TABLE invoice_line_items ALTER COLUMN quantity          TYPE numeric(15,4)`,
			`ALTER TABLE invoice_line_items ALTER COLUMN unit_multiplier   TYPE numeric(10,2)`,
			`ALTER TABLE invoice_line_items ALTER COLUMN unit_price        TYPE numeric(12,2)`,
			`ALTER TABLE invoice_line_items ALTER COLUMN subtotal          TYPE numeric(12,2)`,
			`ALTER TABLE invoice_line_items ALTER COLUMN sale_price        TYPE numeric(12,2)`,
			`ALTER TABLE invoice_line_items ALTER COLUMN markup_percentage TYPE numeric(8,2)`,
		}
		for _, stmt := range alters {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("money type migration failed on: %s - %w", stmt, err)
			}
		}

		// --- Composite / helpful indexes (idempotent) ---
		indexes := []string{
			`CREATE INDEX IF NOT EXISTS idx_line_items_invoice ON invoice_line_items (invoice_id)`,
			`CREATE INDEX IF NOT EXISTS idx_line_items_product_code_invoice ON invoice_line_items (product_code, invoice_id)`,
			`CREATE INDEX IF NOT EXISTS idx_line_items_original_unit ON invoice_line_items (original_unit)`,
			`CREATE INDEX IF NOT EXISTS idx_invoices_pricing_status ON invoices (pricing_status)`,
			`CREATE UNIQUE INDEX IF NOT EXISTS idx_idempotency_keys_key ON idempotency_keys (key)`,
		}
		for _, stmt := range indexes {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("index migration failed on: %s - %w", stmt, err)
			}
		}

		// --- Basic CHECK constraints (idempotent) ---
		checks := []string{
			// Cost fields never negative
			`DO $$
			BEGIN
				IF NOT EXISTS (
					SELECT 1 FROM pg_constraint
					WHERE conrelid = 'invoice_line_items'::regclass
					  AND conname  = 'chk_line_items_unit_price_nonneg'
				) THEN
					ALTER TABLE invoice_line_items
					ADD CONSTRAINT chk_line_items_unit_price_nonneg
					CHECK (unit_price >= 0);
				END IF;
			END $$;`,
			// Conversion factor never shrinks a quantity
			`DO $$
			BEGIN
				IF NOT EXISTS (
					SELECT 1 FROM pg_constraint
					WHERE conrelid = 'invoice_line_items'::regclass
					  AND conname  = 'chk_line_items_multiplier_min'
				) THEN
					ALTER TABLE invoice_line_items
					ADD CONSTRAINT chk_line_items_multiplier_min
					CHECK (unit_multiplier >= 1);
				END IF;
			END $$;`,
			// Sale price set iff the item is priced
			`DO $$
			BEGIN
				IF NOT EXISTS (
					SELECT 1 FROM pg_constraint
					WHERE conrelid = 'invoice_line_items'::regclass
					  AND conname  = 'chk_line_items_priced_consistent'
				) THEN
					ALTER TABLE invoice_line_items
					ADD CONSTRAINT chk_line_items_priced_consistent
					CHECK (is_priced = (sale_price IS NOT NULL));
				END IF;
			END $$;`,
		}
		for _, stmt := range checks {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("check constraint migration failed: %w", err)
			}
		}

		return nil
	})
}
